package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_DestroyUnknownVM(t *testing.T) {
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)

	assert.ErrorIs(t, b.DestroyVM(42), ErrVMNotFound)
}

func TestBroker_DestroyTwice_NotIdempotent(t *testing.T) {
	// GIVEN a running VM
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	id := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))

	// WHEN it is destroyed twice
	require.NoError(t, b.DestroyVM(id))
	err := b.DestroyVM(id)

	// THEN the second destroy reports the VM as gone, not a silent no-op
	assert.ErrorIs(t, err, ErrVMNotFound)
}

func TestBroker_SubmitWithNoVMs_QueuesTask(t *testing.T) {
	// GIVEN a broker with no VMs
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	task := NewTask(1, b.ID, 1000, 1, 300, 300)

	// WHEN a task is submitted
	err := b.SubmitTask(task)

	// THEN the error is surfaced but the task stays queued
	assert.ErrorIs(t, err, ErrNoAvailableVM)
	assert.Equal(t, 1, b.PendingTasks())

	// AND a later VM creation drains the queue
	b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))
	assert.Equal(t, 0, b.PendingTasks())
	s.Run()
	assert.Equal(t, TaskFinished, task.State)
}

func TestBroker_NeverRunTasks_ReportedUnprocessed(t *testing.T) {
	// GIVEN a task queued with no VM ever created
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	_ = b.SubmitTask(NewTask(1, b.ID, 1000, 1, 300, 300))

	s.Run()

	// THEN the final metrics surface it as pending and unprocessed
	assert.Equal(t, 1, s.Metrics.TasksPending)
	assert.Equal(t, 1, s.Metrics.Unprocessed())
	assert.Equal(t, 0, s.Metrics.TasksFinished)
}

func TestBroker_DestroyCancelsResidentTasks(t *testing.T) {
	// GIVEN a task mid-execution on a VM
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	id := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))
	task := NewTask(1, b.ID, 1000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(task))

	// WHEN the VM is destroyed before the task completes
	require.NoError(t, b.DestroyVM(id))
	s.Run()

	// THEN the task is cancelled with no partial-completion credit
	assert.Equal(t, TaskCancelled, task.State)
	assert.Equal(t, 0, s.Metrics.TasksFinished)
	assert.Empty(t, s.Metrics.ResponseTimes)
	assert.Equal(t, 1, s.Metrics.TasksCancelled)
}

func TestBroker_RoundRobinRouting(t *testing.T) {
	// GIVEN two running VMs under round-robin routing
	s := NewSimulator(testPool())
	b := NewBroker(s, NewRoutingPolicy("round-robin"))
	id0 := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))
	id1 := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))

	// WHEN four tasks are submitted
	var targets []int
	for i := 0; i < 4; i++ {
		task := NewTask(i, b.ID, 1000, 1, 300, 300)
		require.NoError(t, b.SubmitTask(task))
		targets = append(targets, task.VMID)
	}

	// THEN they alternate across the fleet
	assert.Equal(t, []int{id0, id1, id0, id1}, targets)
}

func TestBroker_LeastLoadedRouting(t *testing.T) {
	// GIVEN one busy and one idle VM
	s := NewSimulator(testPool())
	b := NewBroker(s, NewRoutingPolicy("least-loaded"))
	id0 := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))
	id1 := b.CreateVM(NewVMSpec("web", 1000, 2, 2048, 1000))

	t0 := NewTask(0, b.ID, 1000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(t0))
	require.Equal(t, id0, t0.VMID) // tie broken by creation order

	// WHEN the next task arrives THEN it lands on the idle VM
	t1 := NewTask(1, b.ID, 1000, 1, 300, 300)
	require.NoError(t, b.SubmitTask(t1))
	assert.Equal(t, id1, t1.VMID)
}

func TestBroker_PendingVMRetriedOnDestroy(t *testing.T) {
	// GIVEN a full host and a queued VM request
	host := NewHost(0, 4, 1000, 2048, 10000, 1000000)
	s := NewSimulator(NewResourcePool([]*Host{host}, PlacementFirstFit))
	b := NewBroker(s, nil)
	spec := NewVMSpec("web", 1000, 2, 2048, 1000)
	id0 := b.CreateVM(spec)
	id1 := b.CreateVM(spec)
	vm1, _ := s.VM(id1)
	require.Equal(t, VMRequested, vm1.State)

	// WHEN capacity frees up
	require.NoError(t, b.DestroyVM(id0))

	// THEN the queued request is admitted, never dropped
	assert.Equal(t, VMRunning, vm1.State)
	assert.Equal(t, 0, b.PendingVMs())
}

func TestBroker_MostRecentRunning(t *testing.T) {
	s := NewSimulator(testPool())
	b := NewBroker(s, nil)
	spec := NewVMSpec("web", 1000, 2, 2048, 1000)
	b.CreateVM(spec)
	id1 := b.CreateVM(spec)
	id2 := b.CreateVM(spec)

	assert.Equal(t, id2, b.MostRecentRunning().ID)

	require.NoError(t, b.DestroyVM(id2))
	assert.Equal(t, id1, b.MostRecentRunning().ID)
}
