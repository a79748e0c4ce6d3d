package sim

import (
	"github.com/sirupsen/logrus"
)

// Event is a unit of work on the simulation timeline. Events carry their
// own absolute timestamp; the Simulator pops them in (timestamp, insertion
// order) and runs Execute to completion before touching the next one.
type Event interface {
	Timestamp() float64
	Execute(s *Simulator)
}

// TaskCompleteEvent fires when a task's remaining instructions reach zero
// under the MIPS share it held when the event was scheduled.
//
// Completion events are never removed from the queue when invalidated.
// Instead, every reschedule bumps the task's completion sequence number, so
// an event whose Seq no longer matches is stale and executes as a no-op.
// VM destruction invalidates the same way.
type TaskCompleteEvent struct {
	time   float64
	TaskID int
	Seq    int64
}

func (e *TaskCompleteEvent) Timestamp() float64 { return e.time }

func (e *TaskCompleteEvent) Execute(s *Simulator) {
	t, ok := s.tasks[e.TaskID]
	if !ok || t.seq != e.Seq || t.State != TaskRunning {
		// Stale: the task was rescheduled, finished, or cancelled since
		// this event was enqueued.
		return
	}
	s.completeTask(t, e.time)
}

// VMCreateEvent asks a broker to create a VM at the event's timestamp.
// Scheduled by the autoscale controller so that scaling actions land on
// the timeline like every other state transition.
type VMCreateEvent struct {
	time   float64
	Broker *Broker
	Spec   VMSpec
}

func (e *VMCreateEvent) Timestamp() float64 { return e.time }

func (e *VMCreateEvent) Execute(s *Simulator) {
	id := e.Broker.CreateVM(e.Spec)
	logrus.Debugf("[t %010.1f] VMCreateEvent: vm %d (%s)", e.time, id, e.Spec.TypeName)
}

// VMDestroyEvent asks a broker to destroy a VM at the event's timestamp.
// A destroy that races with another destroy of the same VM at the same
// timestamp surfaces ErrVMNotFound, which is logged and dropped.
type VMDestroyEvent struct {
	time   float64
	Broker *Broker
	VMID   int
}

func (e *VMDestroyEvent) Timestamp() float64 { return e.time }

func (e *VMDestroyEvent) Execute(s *Simulator) {
	if err := e.Broker.DestroyVM(e.VMID); err != nil {
		logrus.Warnf("[t %010.1f] VMDestroyEvent: vm %d: %v", e.time, e.VMID, err)
	}
}

// TaskSubmitEvent routes a task through a broker at the event's timestamp.
// Equal-timestamp submissions keep their insertion order, which is what
// makes round-robin placement reproducible run to run.
type TaskSubmitEvent struct {
	time   float64
	Broker *Broker
	Task   *Task
}

func (e *TaskSubmitEvent) Timestamp() float64 { return e.time }

func (e *TaskSubmitEvent) Execute(s *Simulator) {
	if err := e.Broker.SubmitTask(e.Task); err != nil {
		logrus.Debugf("[t %010.1f] TaskSubmitEvent: task %d queued: %v", e.time, e.Task.ID, err)
	}
}

// NewTaskSubmitEvent builds a TaskSubmitEvent at an absolute timestamp.
func NewTaskSubmitEvent(at float64, b *Broker, t *Task) *TaskSubmitEvent {
	return &TaskSubmitEvent{time: at, Broker: b, Task: t}
}

// NewVMCreateEvent builds a VMCreateEvent at an absolute timestamp.
func NewVMCreateEvent(at float64, b *Broker, spec VMSpec) *VMCreateEvent {
	return &VMCreateEvent{time: at, Broker: b, Spec: spec}
}

// NewVMDestroyEvent builds a VMDestroyEvent at an absolute timestamp.
func NewVMDestroyEvent(at float64, b *Broker, vmID int) *VMDestroyEvent {
	return &VMDestroyEvent{time: at, Broker: b, VMID: vmID}
}
