package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubEvent records its execution order for queue-ordering tests.
type stubEvent struct {
	time  float64
	label string
	log   *[]string
}

func (e *stubEvent) Timestamp() float64 { return e.time }

func (e *stubEvent) Execute(s *Simulator) {
	*e.log = append(*e.log, e.label)
}

func testPool() *ResourcePool {
	return NewResourcePool([]*Host{NewHost(0, 4, 1000, 16384, 10000, 1000000)}, PlacementFirstFit)
}

func TestEventQueue_TimestampOrdering(t *testing.T) {
	// GIVEN events scheduled out of order
	s := NewSimulator(testPool())
	var log []string
	s.Schedule(&stubEvent{time: 30, label: "c", log: &log})
	s.Schedule(&stubEvent{time: 10, label: "a", log: &log})
	s.Schedule(&stubEvent{time: 20, label: "b", log: &log})

	// WHEN the loop drains
	s.Run()

	// THEN events execute in timestamp order and the clock follows
	assert.Equal(t, []string{"a", "b", "c"}, log)
	assert.Equal(t, 30.0, s.Clock)
}

func TestEventQueue_FIFOTieBreak(t *testing.T) {
	// GIVEN several events at the same timestamp
	s := NewSimulator(testPool())
	var log []string
	for _, label := range []string{"first", "second", "third", "fourth"} {
		s.Schedule(&stubEvent{time: 5, label: label, log: &log})
	}

	s.Run()

	// THEN insertion order is preserved
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, log)
}

func TestStep_EmptyQueueSignalsEnd(t *testing.T) {
	s := NewSimulator(testPool())

	ev, ok := s.Step()

	assert.Nil(t, ev)
	assert.False(t, ok)
}

func TestSchedule_NegativeDelay_Panics(t *testing.T) {
	// GIVEN a simulator whose clock has advanced
	s := NewSimulator(testPool())
	var log []string
	s.Schedule(&stubEvent{time: 100, label: "x", log: &log})
	s.Step()

	// WHEN an event is scheduled in the past THEN the run aborts
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic on negative delay, got none")
		}
	}()
	s.Schedule(&stubEvent{time: 50, label: "past", log: &log})
}

func TestPeekNextEventTime(t *testing.T) {
	s := NewSimulator(testPool())
	var log []string
	s.Schedule(&stubEvent{time: 42, label: "x", log: &log})

	assert.True(t, s.HasPendingEvents())
	assert.Equal(t, 42.0, s.PeekNextEventTime())
}

func TestLookup_UnknownIDs(t *testing.T) {
	s := NewSimulator(testPool())

	_, errVM := s.VM(99)
	_, errTask := s.Task(99)

	assert.ErrorIs(t, errVM, ErrVMNotFound)
	assert.ErrorIs(t, errTask, ErrTaskNotFound)
}
