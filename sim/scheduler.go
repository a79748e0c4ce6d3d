// Time-shared task scheduling. All tasks resident on a VM progress
// concurrently, each holding MIPS/N of the VM's capacity while N tasks are
// active. Whenever the active set changes, progress since the previous
// change is accrued at the old share and every task's completion event is
// rescheduled at the new share. Superseded completion events stay in the
// queue and are ignored via the per-task sequence number.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// startTask begins executing t on vm at time now. The caller (broker) has
// already verified the VM exists and is running.
func (s *Simulator) startTask(t *Task, vm *VM, now float64) error {
	if t.PEs > vm.Spec.Cores {
		return fmt.Errorf("task %d needs %d PEs, vm %d has %d cores: %w",
			t.ID, t.PEs, vm.ID, vm.Spec.Cores, ErrVMCapacityExceeded)
	}
	s.accrue(vm, now)
	t.State = TaskRunning
	t.StartTime = now
	t.VMID = vm.ID
	vm.active[t.ID] = t
	s.rescheduleCompletions(vm, now)
	return nil
}

// completeTask finishes t at time now and redistributes the freed share
// across the VM's remaining tasks.
func (s *Simulator) completeTask(t *Task, now float64) {
	vm := s.vms[t.VMID]
	s.accrue(vm, now)
	t.remaining = 0
	t.State = TaskFinished
	t.FinishTime = now
	delete(vm.active, t.ID)
	if now > vm.lastFinish {
		vm.lastFinish = now
	}
	s.Metrics.RecordFinish(t)
	logrus.Debugf("[t %010.1f] task %d finished on vm %d (%d still active)", now, t.ID, vm.ID, len(vm.active))
	s.rescheduleCompletions(vm, now)
}

// cancelResidentTasks marks every task on vm cancelled. Their pending
// completion events become stale through the sequence bump; no partial
// completion credit is given.
func (s *Simulator) cancelResidentTasks(vm *VM, now float64) {
	for _, t := range vm.activeInOrder() {
		t.State = TaskCancelled
		t.seq++
		s.Metrics.TasksCancelled++
		logrus.Debugf("[t %010.1f] task %d cancelled with vm %d", now, t.ID, vm.ID)
	}
	vm.active = make(map[int]*Task)
}

// accrue advances every active task's remaining-instruction count from the
// VM's last accrual point to now, at the share held over that interval.
func (s *Simulator) accrue(vm *VM, now float64) {
	elapsed := now - vm.lastAccrual
	vm.lastAccrual = now
	if elapsed <= 0 || len(vm.active) == 0 {
		return
	}
	work := vm.Share() * elapsed
	for _, t := range vm.active {
		t.remaining -= work
		if t.remaining < 0 {
			t.remaining = 0
		}
	}
}

// rescheduleCompletions recomputes each active task's completion time
// under the current share and schedules a fresh TaskCompleteEvent for it.
// Each reschedule bumps the task's sequence number, invalidating whatever
// completion event was previously in flight.
func (s *Simulator) rescheduleCompletions(vm *VM, now float64) {
	if len(vm.active) == 0 {
		return
	}
	share := vm.Share()
	for _, t := range vm.activeInOrder() {
		t.seq++
		eta := now + t.remaining/share
		s.Schedule(&TaskCompleteEvent{time: eta, TaskID: t.ID, Seq: t.seq})
	}
}
