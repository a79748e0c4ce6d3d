package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRunningVM sets up a simulator with one broker and one running VM of
// the given MIPS capacity.
func newRunningVM(t *testing.T, mips float64) (*Simulator, *Broker, *VM) {
	t.Helper()
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	id := b.CreateVM(NewVMSpec("web", mips, 4, 2048, 1000))
	vm, err := s.VM(id)
	require.NoError(t, err)
	require.Equal(t, VMRunning, vm.State)
	return s, b, vm
}

func TestScheduler_SingleTaskCompletionTime(t *testing.T) {
	// GIVEN a 1000-MIPS VM and a lone 2000-instruction task
	s, b, _ := newRunningVM(t, 1000)
	task := NewTask(1, b.ID, 2000, 1, 300, 300)

	require.NoError(t, b.SubmitTask(task))
	s.Run()

	// THEN the task finishes at length/MIPS seconds
	assert.Equal(t, TaskFinished, task.State)
	assert.InDelta(t, 2.0, task.FinishTime, 1e-9)
	assert.InDelta(t, 2.0, task.CPUTime(), 1e-9)
}

func TestScheduler_ProportionalShares(t *testing.T) {
	// GIVEN two equal tasks submitted together on a 1000-MIPS VM
	s, b, vm := newRunningVM(t, 1000)
	a := NewTask(1, b.ID, 1000, 1, 300, 300)
	c := NewTask(2, b.ID, 1000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(a))
	require.NoError(t, b.SubmitTask(c))

	// THEN each holds MIPS/N and the shares sum to the VM capacity
	assert.Equal(t, 2, vm.ActiveTasks())
	assert.InDelta(t, 500.0, vm.Share(), 1e-9)
	assert.InDelta(t, vm.Spec.MIPS, vm.Share()*float64(vm.ActiveTasks()), 1e-9)

	s.Run()

	// AND both finish at 2x their solo time
	assert.InDelta(t, 2.0, a.FinishTime, 1e-9)
	assert.InDelta(t, 2.0, c.FinishTime, 1e-9)
}

func TestScheduler_MidFlightJoinReschedulesCompletion(t *testing.T) {
	// GIVEN a task running alone that would finish at t=1
	s, b, _ := newRunningVM(t, 1000)
	a := NewTask(1, b.ID, 1000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(a))

	// WHEN a second task joins at t=0.5
	c := NewTask(2, b.ID, 500, 1, 300, 300)
	s.Schedule(NewTaskSubmitEvent(0.5, b, c))
	s.Run()

	// THEN the first task's remaining 500 instructions run at half speed:
	// 0.5 + 500/500 = 1.5. The joiner's 500 instructions do the same.
	assert.InDelta(t, 1.5, a.FinishTime, 1e-9)
	assert.InDelta(t, 1.5, c.FinishTime, 1e-9)
	// The superseded t=1 completion event executed as a stale no-op.
	assert.Equal(t, 2, s.Metrics.TasksFinished)
}

func TestScheduler_LeaveSpeedsUpRemainder(t *testing.T) {
	// GIVEN a short and a long task sharing a 1000-MIPS VM from t=0
	s, b, _ := newRunningVM(t, 1000)
	short := NewTask(1, b.ID, 500, 1, 300, 300)
	long := NewTask(2, b.ID, 2000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(short))
	require.NoError(t, b.SubmitTask(long))

	s.Run()

	// THEN the short task finishes at 500/(1000/2) = 1.0, after which the
	// long one runs at full speed: 1.0 + (2000-500)/1000 = 2.5.
	assert.InDelta(t, 1.0, short.FinishTime, 1e-9)
	assert.InDelta(t, 2.5, long.FinishTime, 1e-9)
}

func TestScheduler_TaskNeedsMorePEsThanVMCores(t *testing.T) {
	// GIVEN a 2-core VM
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))

	// WHEN a 4-PE task is submitted
	task := NewTask(1, b.ID, 1000, 4, 300, 300)
	err := b.SubmitTask(task)

	// THEN submission fails and the task never runs
	assert.ErrorIs(t, err, ErrVMCapacityExceeded)
	assert.Equal(t, TaskSubmitted, task.State)
	s.Run()
	assert.Equal(t, 0, s.Metrics.TasksFinished)
}
