package sim

import "errors"

// Sentinel error kinds surfaced by the simulation core. All of these are
// recoverable: the event loop never aborts on them. Structural violations
// (negative scheduling delay, non-positive host capacity) panic instead.
var (
	// ErrCapacityExceeded is returned when no host can fit a VM's RAM and
	// bandwidth reservation. The broker queues the request and retries it
	// whenever capacity is released.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrVMNotFound is returned for references to unknown or already
	// destroyed VMs. Destroying a destroyed VM yields this, not a no-op.
	ErrVMNotFound = errors.New("vm not found")

	// ErrTaskNotFound is returned for references to unknown task IDs.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoAvailableVM is returned when a task is submitted while the
	// broker has zero running VMs. The task stays queued; if no VM ever
	// becomes available it is reported as unprocessed in the summary.
	ErrNoAvailableVM = errors.New("no available vm")

	// ErrVMCapacityExceeded is returned when a task requires more PEs
	// than the target VM's core count.
	ErrVMCapacityExceeded = errors.New("vm capacity exceeded")
)
