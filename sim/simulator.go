package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// eventEntry wraps an Event with a monotonically increasing sequence ID so
// that equal-timestamp events pop in insertion order (FIFO tie-break).
type eventEntry struct {
	event Event
	seq   int64
}

// eventQueue implements heap.Interface ordered by (timestamp, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventQueue []eventEntry

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	if eq[i].event.Timestamp() != eq[j].event.Timestamp() {
		return eq[i].event.Timestamp() < eq[j].event.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[:n-1]
	return item
}

// Simulator is the core object that holds the simulation clock, the entity
// registries, and the event loop. Time is purely logical, in seconds; there
// is no relation to the wall clock.
//
// Thread-safety: NOT thread-safe. All entities are mutated only from the
// single goroutine driving the event loop, and each event handler runs to
// completion before the next event is popped.
type Simulator struct {
	Clock   float64
	Pool    *ResourcePool
	Metrics *Metrics

	events  eventQueue
	nextSeq int64

	vms     map[int]*VM
	tasks   map[int]*Task
	brokers []*Broker

	nextVMID     int
	nextBrokerID int
}

// NewSimulator creates a Simulator over the given resource pool.
func NewSimulator(pool *ResourcePool) *Simulator {
	if pool == nil {
		panic("NewSimulator: pool must not be nil")
	}
	return &Simulator{
		Clock:   0,
		Pool:    pool,
		Metrics: NewMetrics(),
		events:  make(eventQueue, 0),
		vms:     make(map[int]*VM),
		tasks:   make(map[int]*Task),
	}
}

// Schedule pushes an event onto the timeline. The event's timestamp must
// not lie in the past; scheduling a negative delay is a programming error
// and panics, aborting the run.
func (s *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < s.Clock {
		panic(fmt.Sprintf("Schedule: negative delay (event at %f, clock at %f)", ev.Timestamp(), s.Clock))
	}
	heap.Push(&s.events, eventEntry{event: ev, seq: s.nextSeq})
	s.nextSeq++
}

// HasPendingEvents returns true if the event queue is non-empty.
func (s *Simulator) HasPendingEvents() bool {
	return len(s.events) > 0
}

// PeekNextEventTime returns the timestamp of the earliest pending event.
// Caller MUST check HasPendingEvents() first. Panics on empty queue.
func (s *Simulator) PeekNextEventTime() float64 {
	return s.events[0].event.Timestamp()
}

// Step pops the earliest event, advances Clock to its timestamp, executes
// it, and returns it. Returns (nil, false) when the queue is empty, which
// is the end-of-simulation signal.
func (s *Simulator) Step() (Event, bool) {
	if len(s.events) == 0 {
		return nil, false
	}
	entry := heap.Pop(&s.events).(eventEntry)
	ev := entry.event
	s.Clock = ev.Timestamp()
	logrus.Debugf("[t %010.1f] Executing %T", s.Clock, ev)
	ev.Execute(s)
	return ev, true
}

// Run drives the event loop until the queue drains, then finalizes.
func (s *Simulator) Run() {
	for {
		if _, ok := s.Step(); !ok {
			break
		}
	}
	s.Finalize()
}

// Finalize records end-of-run state. Call once after the event loop ends.
func (s *Simulator) Finalize() {
	s.Metrics.SimEndedTime = s.Clock
	for _, b := range s.brokers {
		s.Metrics.TasksPending += len(b.pendingTasks)
	}
	logrus.Infof("[t %010.1f] Simulation ended", s.Clock)
}

// VM returns the VM with the given id. Destroyed VMs are still resolvable
// here; brokers decide whether a destroyed VM counts as found.
func (s *Simulator) VM(id int) (*VM, error) {
	vm, ok := s.vms[id]
	if !ok {
		return nil, fmt.Errorf("vm %d: %w", id, ErrVMNotFound)
	}
	return vm, nil
}

// Task returns the task with the given id.
func (s *Simulator) Task(id int) (*Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return t, nil
}

// newVM mints a VM record in state Requested and registers it.
func (s *Simulator) newVM(brokerID int, spec VMSpec) *VM {
	vm := &VM{
		ID:       s.nextVMID,
		BrokerID: brokerID,
		Spec:     spec,
		State:    VMRequested,
		active:   make(map[int]*Task),
	}
	s.nextVMID++
	s.vms[vm.ID] = vm
	return vm
}

// registerTask adds a task to the registry so completion events can
// resolve it by id. Duplicate ids are a driver bug and panic.
func (s *Simulator) registerTask(t *Task) {
	if _, ok := s.tasks[t.ID]; ok {
		panic(fmt.Sprintf("registerTask: duplicate task id %d", t.ID))
	}
	s.tasks[t.ID] = t
}

// registerBroker wires a broker into the simulator and assigns its id.
func (s *Simulator) registerBroker(b *Broker) int {
	id := s.nextBrokerID
	s.nextBrokerID++
	s.brokers = append(s.brokers, b)
	return id
}
