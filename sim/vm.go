package sim

import (
	"fmt"
	"sort"
)

// VMState represents the lifecycle state of a VM.
type VMState string

const (
	VMRequested VMState = "requested"
	VMRunning   VMState = "running"
	VMDestroyed VMState = "destroyed"
)

// VMSpec describes the resource reservation a VM asks for. MIPS is the
// VM's total processing capacity, shared time-sliced across its tasks.
type VMSpec struct {
	TypeName string  // catalog type name ("" for ad-hoc specs)
	MIPS     float64
	Cores    int
	RAM      int64 // MB
	BW       int64 // Mbps
}

// NewVMSpec creates a VMSpec with all fields explicitly set.
// Parameter order matches struct field order.
func NewVMSpec(typeName string, mips float64, cores int, ram, bw int64) VMSpec {
	if mips <= 0 || cores <= 0 {
		panic(fmt.Sprintf("NewVMSpec: MIPS and cores must be > 0, got %f, %d", mips, cores))
	}
	if ram <= 0 || bw <= 0 {
		panic(fmt.Sprintf("NewVMSpec: RAM and BW must be > 0, got %d, %d", ram, bw))
	}
	return VMSpec{
		TypeName: typeName,
		MIPS:     mips,
		Cores:    cores,
		RAM:      ram,
		BW:       bw,
	}
}

// VM is a resource reservation carved from a Host. It is owned exclusively
// by the broker that created it; the host only holds it for capacity
// accounting. Tasks on a VM execute time-shared: every active task holds
// MIPS/N while N tasks are active.
type VM struct {
	ID       int
	BrokerID int
	Spec     VMSpec
	Host     *Host // nil until placed
	State    VMState

	CreatedAt   float64 // clock when the VM entered Running
	DestroyedAt float64 // clock when the VM was destroyed

	active      map[int]*Task // resident running tasks
	lastAccrual float64       // clock of the last progress accrual
	lastFinish  float64       // latest task finish time, drives billing for live VMs
}

// ActiveTasks returns the number of tasks currently executing on the VM.
func (vm *VM) ActiveTasks() int { return len(vm.active) }

// Share returns the MIPS each active task receives right now, or the full
// VM capacity when idle.
func (vm *VM) Share() float64 {
	if len(vm.active) == 0 {
		return vm.Spec.MIPS
	}
	return vm.Spec.MIPS / float64(len(vm.active))
}

// activeInOrder returns the active tasks sorted by id. Map iteration order
// must never leak into event scheduling order, or identical runs would
// tie-break differently.
func (vm *VM) activeInOrder() []*Task {
	tasks := make([]*Task, 0, len(vm.active))
	for _, t := range vm.active {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// BacklogSeconds returns how long the VM needs to drain its remaining
// instructions at full capacity. Utilization sampling reads this.
func (vm *VM) BacklogSeconds() float64 {
	var remaining float64
	for _, t := range vm.active {
		remaining += t.remaining
	}
	return remaining / vm.Spec.MIPS
}

// This method returns a human-readable string representation of a VM.
func (vm VM) String() string {
	return fmt.Sprintf("VM: (ID: %d, Type: %s, State: %s, ActiveTasks: %d)", vm.ID, vm.Spec.TypeName, vm.State, len(vm.active))
}
