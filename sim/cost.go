// VM type catalog, hourly-rate cost model, and the allocation strategies
// the cost scenario compares. Billing is exact-fraction: hourly rate times
// fractional hours of active duration, with no hour rounding.

package sim

import "fmt"

// VMType is a catalog entry mapping a named VM shape to an hourly price.
type VMType struct {
	Name       string
	MIPS       float64
	Cores      int
	RAM        int64 // MB
	HourlyCost float64
}

// NewVMType creates a VMType with all fields explicitly set.
// Parameter order matches struct field order.
func NewVMType(name string, mips float64, cores int, ram int64, hourlyCost float64) VMType {
	if hourlyCost < 0 {
		panic(fmt.Sprintf("NewVMType: hourly cost must be >= 0, got %f", hourlyCost))
	}
	return VMType{
		Name:       name,
		MIPS:       mips,
		Cores:      cores,
		RAM:        ram,
		HourlyCost: hourlyCost,
	}
}

// Spec converts a catalog type into a VM reservation spec.
func (vt VMType) Spec() VMSpec {
	return NewVMSpec(vt.Name, vt.MIPS, vt.Cores, vt.RAM, defaultVMBandwidth)
}

// All VM shapes request the same bandwidth reservation.
const defaultVMBandwidth = 1000

// DefaultCatalog returns the standard Small/Medium/Large type catalog.
// The catalog is an explicit configuration value; callers pass it into
// brokers and controllers rather than reading shared global state.
func DefaultCatalog() []VMType {
	return []VMType{
		NewVMType("Small", 500, 1, 512, 0.05),
		NewVMType("Medium", 1000, 2, 1024, 0.10),
		NewVMType("Large", 2000, 4, 2048, 0.20),
	}
}

// AllocationStrategy names a cost-scenario VM fleet shape.
type AllocationStrategy string

const (
	StrategyCheapestFirst    AllocationStrategy = "cheapest-first"
	StrategyPerformanceFirst AllocationStrategy = "performance-first"
	StrategyBalanced         AllocationStrategy = "balanced"
)

// AllStrategies lists the strategies in comparison order.
func AllStrategies() []AllocationStrategy {
	return []AllocationStrategy{StrategyCheapestFirst, StrategyPerformanceFirst, StrategyBalanced}
}

// AllocateVMSpecs returns the fleet a strategy provisions from the
// catalog: cheapest-first fills with the cheapest type, performance-first
// with the fastest, balanced alternates the middle and cheapest types.
// Panics on an unknown strategy or a catalog without three types.
func AllocateVMSpecs(strategy AllocationStrategy, catalog []VMType) []VMSpec {
	if len(catalog) < 3 {
		panic(fmt.Sprintf("AllocateVMSpecs: catalog needs at least 3 types, got %d", len(catalog)))
	}
	small, medium, large := catalog[0], catalog[1], catalog[2]
	switch strategy {
	case StrategyCheapestFirst:
		specs := make([]VMSpec, 0, 10)
		for i := 0; i < 10; i++ {
			specs = append(specs, small.Spec())
		}
		return specs
	case StrategyPerformanceFirst:
		specs := make([]VMSpec, 0, 3)
		for i := 0; i < 3; i++ {
			specs = append(specs, large.Spec())
		}
		return specs
	case StrategyBalanced:
		specs := make([]VMSpec, 0, 5)
		for i := 0; i < 5; i++ {
			if i%2 == 0 {
				specs = append(specs, medium.Spec())
			} else {
				specs = append(specs, small.Spec())
			}
		}
		return specs
	default:
		panic(fmt.Sprintf("AllocateVMSpecs: unknown strategy %q", strategy))
	}
}

// CostModel prices VM active time against a type catalog.
type CostModel struct {
	rates map[string]float64
}

// NewCostModel builds a cost model from a catalog.
func NewCostModel(catalog []VMType) *CostModel {
	rates := make(map[string]float64, len(catalog))
	for _, vt := range catalog {
		rates[vt.Name] = vt.HourlyCost
	}
	return &CostModel{rates: rates}
}

// VMCost returns the cost a VM has incurred: hourly rate times exact
// fractional hours of active duration. Destroyed VMs bill from creation
// to destruction; their incurred cost is never discounted. Live VMs bill
// from creation to their latest task finish, so an idle VM that never ran
// anything costs nothing. VMs whose type is not in the catalog error.
func (c *CostModel) VMCost(vm *VM) (float64, error) {
	rate, ok := c.rates[vm.Spec.TypeName]
	if !ok {
		return 0, fmt.Errorf("VMCost: vm %d has unknown type %q", vm.ID, vm.Spec.TypeName)
	}
	var duration float64
	switch vm.State {
	case VMDestroyed:
		duration = vm.DestroyedAt - vm.CreatedAt
	case VMRunning:
		duration = vm.lastFinish - vm.CreatedAt
	default:
		// Requested VMs never ran; nothing to bill.
		return 0, nil
	}
	return rate * duration / 3600, nil
}

// TotalCost sums VMCost across every VM a broker run ever created,
// including destroyed ones.
func (c *CostModel) TotalCost(vms []*VM) (float64, error) {
	var total float64
	for _, vm := range vms {
		cost, err := c.VMCost(vm)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}
