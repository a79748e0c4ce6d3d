// Scenario configuration. Defaults reproduce the two reference scenarios
// exactly; a YAML file overrides any subset of them, and CLI flags
// override the file.

package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Archit-01/CostOptimizationSimulation/sim"
)

// HostConfig describes one physical host.
type HostConfig struct {
	PEs     int     `yaml:"pes"`
	PEMIPS  float64 `yaml:"pe_mips"`
	RAM     int64   `yaml:"ram_mb"`
	BW      int64   `yaml:"bw_mbps"`
	Storage int64   `yaml:"storage_mb"`
}

// Build constructs the host with the given id.
func (hc HostConfig) Build(id int) *sim.Host {
	return sim.NewHost(id, hc.PEs, hc.PEMIPS, hc.RAM, hc.BW, hc.Storage)
}

// VMTypeConfig describes one catalog VM type.
type VMTypeConfig struct {
	Name       string  `yaml:"name"`
	MIPS       float64 `yaml:"mips"`
	Cores      int     `yaml:"cores"`
	RAM        int64   `yaml:"ram_mb"`
	HourlyCost float64 `yaml:"hourly_cost"`
}

// Type converts the config entry into a catalog VMType.
func (vc VMTypeConfig) Type() sim.VMType {
	return sim.NewVMType(vc.Name, vc.MIPS, vc.Cores, vc.RAM, vc.HourlyCost)
}

// WebAppConfig parameterizes the business-hour autoscaling scenario.
type WebAppConfig struct {
	Hours             int `yaml:"hours"`
	BusinessHourStart int `yaml:"business_hour_start"`
	BusinessHourEnd   int `yaml:"business_hour_end"`
	BusinessRequests  int `yaml:"business_requests"`
	OffHoursRequests  int `yaml:"off_hours_requests"`

	RequestLength float64 `yaml:"request_length"` // instructions per request

	InitialVMs         int     `yaml:"initial_vms"`
	MinVMs             int     `yaml:"min_vms"`
	ScaleUpThreshold   float64 `yaml:"scale_up_threshold"`
	ScaleDownThreshold float64 `yaml:"scale_down_threshold"`

	BusinessUtilization float64 `yaml:"business_utilization"`
	OffHoursUtilization float64 `yaml:"off_hours_utilization"`
	UtilizationSource   string  `yaml:"utilization_source"` // "profile" or "measured"

	RoutingPolicy   string `yaml:"routing_policy"`
	PlacementPolicy string `yaml:"placement_policy"`

	Host HostConfig   `yaml:"host"`
	VM   VMTypeConfig `yaml:"vm"` // the standard web VM shape; hourly cost unused here
}

// CostConfig parameterizes the allocation strategy comparison.
type CostConfig struct {
	Tasks          int     `yaml:"tasks"`
	BaseTaskLength float64 `yaml:"base_task_length"`
	TaskLengthStep float64 `yaml:"task_length_step"` // added per task index mod 3

	RoutingPolicy   string `yaml:"routing_policy"`
	PlacementPolicy string `yaml:"placement_policy"`

	Host    HostConfig     `yaml:"host"`
	Catalog []VMTypeConfig `yaml:"catalog"`
}

// Config is the full scenario file schema.
type Config struct {
	WebApp WebAppConfig `yaml:"webapp"`
	Cost   CostConfig   `yaml:"cost"`
}

// DefaultConfig returns the reference scenario parameters: a 24-hour web
// traffic pattern with business hours 8-17 on a 4x1000-MIPS host, and a
// 50-task strategy comparison on an 8x2000-MIPS host with the
// Small/Medium/Large catalog.
func DefaultConfig() Config {
	return Config{
		WebApp: WebAppConfig{
			Hours:               24,
			BusinessHourStart:   8,
			BusinessHourEnd:     17,
			BusinessRequests:    150,
			OffHoursRequests:    50,
			RequestLength:       2000,
			InitialVMs:          2,
			MinVMs:              2,
			ScaleUpThreshold:    80,
			ScaleDownThreshold:  30,
			BusinessUtilization: 85,
			OffHoursUtilization: 25,
			UtilizationSource:   string(sim.UtilizationFromProfile),
			RoutingPolicy:       "round-robin",
			PlacementPolicy:     string(sim.PlacementFirstFit),
			Host: HostConfig{
				PEs:     4,
				PEMIPS:  1000,
				RAM:     16384,
				BW:      10000,
				Storage: 1000000,
			},
			VM: VMTypeConfig{Name: "web", MIPS: 1000, Cores: 2, RAM: 2048},
		},
		Cost: CostConfig{
			Tasks:           50,
			BaseTaskLength:  1000,
			TaskLengthStep:  2000,
			RoutingPolicy:   "round-robin",
			PlacementPolicy: string(sim.PlacementFirstFit),
			Host: HostConfig{
				PEs:     8,
				PEMIPS:  2000,
				RAM:     16384,
				BW:      10000,
				Storage: 1000000,
			},
			Catalog: []VMTypeConfig{
				{Name: "Small", MIPS: 500, Cores: 1, RAM: 512, HourlyCost: 0.05},
				{Name: "Medium", MIPS: 1000, Cores: 2, RAM: 1024, HourlyCost: 0.10},
				{Name: "Large", MIPS: 2000, Cores: 4, RAM: 2048, HourlyCost: 0.20},
			},
		},
	}
}

// Load reads a YAML scenario file over the defaults, so a file only needs
// to name the values it changes.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario config %s: %w", path, err)
	}
	return cfg, nil
}

// catalog converts the configured VM types into a sim catalog.
func catalog(types []VMTypeConfig) []sim.VMType {
	out := make([]sim.VMType, 0, len(types))
	for _, vc := range types {
		out = append(out, vc.Type())
	}
	return out
}
