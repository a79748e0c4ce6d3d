package sim

import "fmt"

// RoutingPolicy decides which running VM receives a submitted task.
// Implementations see only running VMs, in creation order.
type RoutingPolicy interface {
	Route(t *Task, vms []*VM) *VM
}

// RoundRobin routes tasks in round-robin order across running VMs.
type RoundRobin struct {
	counter int
}

// Route implements RoutingPolicy for RoundRobin.
func (rr *RoundRobin) Route(t *Task, vms []*VM) *VM {
	if len(vms) == 0 {
		panic("RoundRobin.Route: empty vm list")
	}
	target := vms[rr.counter%len(vms)]
	rr.counter++
	return target
}

// LeastLoaded routes tasks to the VM with minimum active task count.
// Ties are broken by first occurrence in creation order (lowest index).
type LeastLoaded struct{}

// Route implements RoutingPolicy for LeastLoaded.
func (ll *LeastLoaded) Route(t *Task, vms []*VM) *VM {
	if len(vms) == 0 {
		panic("LeastLoaded.Route: empty vm list")
	}
	target := vms[0]
	minLoad := vms[0].ActiveTasks()
	for i := 1; i < len(vms); i++ {
		if load := vms[i].ActiveTasks(); load < minLoad {
			minLoad = load
			target = vms[i]
		}
	}
	return target
}

// NewRoutingPolicy constructs a routing policy by name. Panics on unknown
// names; policy selection is configuration, validated at startup.
func NewRoutingPolicy(name string) RoutingPolicy {
	switch name {
	case "round-robin", "":
		return &RoundRobin{}
	case "least-loaded":
		return &LeastLoaded{}
	default:
		panic(fmt.Sprintf("NewRoutingPolicy: unknown policy %q", name))
	}
}
