package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func routingFleet(n int) []*VM {
	vms := make([]*VM, 0, n)
	for i := 0; i < n; i++ {
		vms = append(vms, &VM{ID: i, Spec: NewVMSpec("web", 1000, 2, 2048, 1000), State: VMRunning, active: map[int]*Task{}})
	}
	return vms
}

func TestRoundRobin_DeterministicOrdering(t *testing.T) {
	// GIVEN a round-robin policy over three VMs
	policy := NewRoutingPolicy("round-robin")
	vms := routingFleet(3)

	// WHEN six tasks are routed
	var targets []int
	for i := 0; i < 6; i++ {
		targets = append(targets, policy.Route(&Task{ID: i}, vms).ID)
	}

	// THEN targets cycle 0, 1, 2, 0, 1, 2
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, targets)
}

func TestLeastLoaded_PicksMinimumActiveTasks(t *testing.T) {
	policy := NewRoutingPolicy("least-loaded")
	vms := routingFleet(3)
	vms[0].active[10] = &Task{ID: 10}
	vms[0].active[11] = &Task{ID: 11}
	vms[1].active[12] = &Task{ID: 12}

	target := policy.Route(&Task{ID: 1}, vms)

	assert.Equal(t, 2, target.ID)
}

func TestLeastLoaded_TieBrokenByCreationOrder(t *testing.T) {
	policy := NewRoutingPolicy("least-loaded")
	vms := routingFleet(3)

	target := policy.Route(&Task{ID: 1}, vms)

	assert.Equal(t, 0, target.ID)
}

func TestRoutingPolicy_EmptyFleet_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic on empty vm list, got none")
		}
	}()
	NewRoutingPolicy("round-robin").Route(&Task{ID: 1}, nil)
}

func TestNewRoutingPolicy_Unknown_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic on unknown policy, got none")
		}
	}()
	NewRoutingPolicy("random")
}
