// Defines the Task struct that models a unit of tenant work (a cloudlet).
// Tracks instruction length, PE demand, and submit/start/finish timestamps.

package sim

import "fmt"

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	TaskSubmitted TaskState = "submitted"
	TaskRunning   TaskState = "running"
	TaskFinished  TaskState = "finished"
	// TaskCancelled marks a task whose VM was destroyed before completion.
	// Cancelled tasks never reach the finished list and contribute nothing
	// to response-time aggregates.
	TaskCancelled TaskState = "cancelled"
)

// Task models a single unit of simulated work.
type Task struct {
	ID       int
	BrokerID int

	Length     float64 // instruction length, in millions of instructions
	PEs        int     // processing elements required
	FileSize   int64   // input size
	OutputSize int64   // output size

	VMID  int // -1 until routed to a VM
	State TaskState

	SubmitTime float64
	StartTime  float64
	FinishTime float64

	remaining float64 // instructions left, maintained by the scheduler
	seq       int64   // completion event sequence; bumped on every reschedule
}

// NewTask creates a Task in state Submitted. Panics if length or the PE
// demand is non-positive.
func NewTask(id, brokerID int, length float64, pes int, fileSize, outputSize int64) *Task {
	if length <= 0 {
		panic(fmt.Sprintf("NewTask: length must be > 0, got %f", length))
	}
	if pes <= 0 {
		panic(fmt.Sprintf("NewTask: PEs must be > 0, got %d", pes))
	}
	return &Task{
		ID:         id,
		BrokerID:   brokerID,
		Length:     length,
		PEs:        pes,
		FileSize:   fileSize,
		OutputSize: outputSize,
		VMID:       -1,
		State:      TaskSubmitted,
		remaining:  length,
	}
}

// CPUTime returns the task's accumulated execution time. Zero until the
// task finishes.
func (t *Task) CPUTime() float64 {
	if t.State != TaskFinished {
		return 0
	}
	return t.FinishTime - t.StartTime
}

// Remaining returns the instructions left to execute.
func (t *Task) Remaining() float64 { return t.remaining }

// This method returns a human-readable string representation of a Task.
func (t Task) String() string {
	return fmt.Sprintf("Task: (ID: %d, State: %s, Length: %.0f, VM: %d)", t.ID, t.State, t.Length, t.VMID)
}
