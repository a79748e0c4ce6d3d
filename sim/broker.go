package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Broker owns VM lifecycle and task submission on behalf of a tenant.
// VM requests that the pool cannot fit are queued, never dropped, and
// retried whenever a destroy releases capacity. Tasks submitted with no
// running VM wait in a pending queue and drain as soon as a VM comes up.
type Broker struct {
	ID int

	sim    *Simulator
	policy RoutingPolicy

	vms          []*VM // every VM ever created, in creation order
	pendingVMs   []*VM // requested but unplaced, FIFO
	pendingTasks []*Task
}

// NewBroker creates a broker bound to the simulator and registers it.
func NewBroker(s *Simulator, policy RoutingPolicy) *Broker {
	if policy == nil {
		policy = &RoundRobin{}
	}
	b := &Broker{sim: s, policy: policy}
	b.ID = s.registerBroker(b)
	return b
}

// CreateVM requests a VM with the given spec and returns its id. If no
// host can fit the reservation the request stays queued in state Requested
// and is retried on the next destroy.
func (b *Broker) CreateVM(spec VMSpec) int {
	vm := b.sim.newVM(b.ID, spec)
	b.vms = append(b.vms, vm)
	b.sim.Metrics.VMsCreated++
	if err := b.sim.Pool.Allocate(vm); err != nil {
		logrus.Warnf("[t %010.1f] vm %d queued: %v", b.sim.Clock, vm.ID, err)
		b.pendingVMs = append(b.pendingVMs, vm)
		return vm.ID
	}
	b.activate(vm)
	return vm.ID
}

// activate transitions a placed VM to Running and drains any tasks that
// were waiting for a VM to exist.
func (b *Broker) activate(vm *VM) {
	now := b.sim.Clock
	vm.State = VMRunning
	vm.CreatedAt = now
	vm.lastAccrual = now
	vm.lastFinish = now
	logrus.Infof("[t %010.1f] vm %d running (type=%s, mips=%.0f)", now, vm.ID, vm.Spec.TypeName, vm.Spec.MIPS)
	b.drainPendingTasks()
}

// DestroyVM cancels the VM's resident tasks, releases its host capacity,
// and marks it Destroyed. Destroying an unknown, queued, or already
// destroyed VM returns ErrVMNotFound. Pending VM requests are retried
// against the freed capacity.
func (b *Broker) DestroyVM(id int) error {
	vm, ok := b.sim.vms[id]
	if !ok || vm.BrokerID != b.ID || vm.State != VMRunning {
		return fmt.Errorf("destroy vm %d: %w", id, ErrVMNotFound)
	}
	now := b.sim.Clock
	b.sim.cancelResidentTasks(vm, now)
	b.sim.Pool.Release(vm)
	vm.State = VMDestroyed
	vm.DestroyedAt = now
	logrus.Infof("[t %010.1f] vm %d destroyed", now, vm.ID)
	b.retryPendingVMs()
	return nil
}

// SubmitTask routes t to a running VM chosen by the broker's routing
// policy. With zero running VMs the task is queued and ErrNoAvailableVM
// is reported; the task still runs if a VM becomes available later.
func (b *Broker) SubmitTask(t *Task) error {
	b.sim.registerTask(t)
	t.SubmitTime = b.sim.Clock
	b.sim.Metrics.TasksSubmitted++
	running := b.RunningVMs()
	if len(running) == 0 {
		b.pendingTasks = append(b.pendingTasks, t)
		return fmt.Errorf("task %d: %w", t.ID, ErrNoAvailableVM)
	}
	vm := b.policy.Route(t, running)
	return b.sim.startTask(t, vm, b.sim.Clock)
}

// drainPendingTasks re-routes tasks that were submitted while no VM was
// running. Tasks that still cannot start (PE demand above every VM's core
// count) stay queued and surface as unprocessed.
func (b *Broker) drainPendingTasks() {
	if len(b.pendingTasks) == 0 {
		return
	}
	running := b.RunningVMs()
	if len(running) == 0 {
		return
	}
	still := b.pendingTasks[:0]
	for _, t := range b.pendingTasks {
		vm := b.policy.Route(t, running)
		if err := b.sim.startTask(t, vm, b.sim.Clock); err != nil {
			logrus.Warnf("[t %010.1f] pending task %d not startable: %v", b.sim.Clock, t.ID, err)
			still = append(still, t)
		}
	}
	b.pendingTasks = still
}

// retryPendingVMs re-attempts placement for queued VM requests in FIFO
// order. Requests that still do not fit stay queued.
func (b *Broker) retryPendingVMs() {
	if len(b.pendingVMs) == 0 {
		return
	}
	still := b.pendingVMs[:0]
	for _, vm := range b.pendingVMs {
		if err := b.sim.Pool.Allocate(vm); err != nil {
			still = append(still, vm)
			continue
		}
		b.activate(vm)
	}
	b.pendingVMs = still
}

// VMs returns every VM the broker ever created, including destroyed ones,
// in creation order.
func (b *Broker) VMs() []*VM { return b.vms }

// RunningVMs returns the broker's running VMs in creation order.
func (b *Broker) RunningVMs() []*VM {
	running := make([]*VM, 0, len(b.vms))
	for _, vm := range b.vms {
		if vm.State == VMRunning {
			running = append(running, vm)
		}
	}
	return running
}

// MostRecentRunning returns the most recently created running VM, or nil.
// The autoscale controller destroys this one on scale-down.
func (b *Broker) MostRecentRunning() *VM {
	for i := len(b.vms) - 1; i >= 0; i-- {
		if b.vms[i].State == VMRunning {
			return b.vms[i]
		}
	}
	return nil
}

// PendingTasks returns the number of tasks waiting for a VM.
func (b *Broker) PendingTasks() int { return len(b.pendingTasks) }

// PendingVMs returns the number of VM requests waiting for capacity.
func (b *Broker) PendingVMs() int { return len(b.pendingVMs) }
