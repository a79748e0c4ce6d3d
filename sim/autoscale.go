// Per-hour autoscaling over a broker's VM fleet. The controller evaluates
// once at each hour boundary, not continuously, so utilization flapping
// inside an hour cannot oscillate the fleet.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Archit-01/CostOptimizationSimulation/sim/internal/util"
)

// UtilizationSource selects how the controller reads fleet utilization.
type UtilizationSource string

const (
	// UtilizationFromProfile reads the fixed business-hour profile.
	UtilizationFromProfile UtilizationSource = "profile"
	// UtilizationMeasured derives utilization from the backlog actually
	// resident on the fleet's VMs.
	UtilizationMeasured UtilizationSource = "measured"
)

// AutoscaleController samples fleet utilization each simulated hour and
// scales the broker's VM fleet between the configured thresholds. Above
// the scale-up threshold it requests one VM of the configured spec; below
// the scale-down threshold, with more than the minimum fleet, it destroys
// the most recently created running VM.
type AutoscaleController struct {
	cfg     AutoscaleConfig
	broker  *Broker
	source  UtilizationSource
	profile UtilizationProfile

	nScaleUp   int
	nScaleDown int
}

// NewAutoscaleController creates a controller for the broker's fleet.
// Panics on an unknown utilization source; source selection is
// configuration, validated at startup.
func NewAutoscaleController(b *Broker, cfg AutoscaleConfig, source UtilizationSource, profile UtilizationProfile) *AutoscaleController {
	switch source {
	case UtilizationFromProfile, UtilizationMeasured:
	default:
		panic(fmt.Sprintf("NewAutoscaleController: unknown utilization source %q", source))
	}
	return &AutoscaleController{
		cfg:     cfg,
		broker:  b,
		source:  source,
		profile: profile,
	}
}

// Utilization returns the fleet utilization percentage for the given hour
// according to the controller's source.
func (a *AutoscaleController) Utilization(hour int) float64 {
	if a.source == UtilizationFromProfile {
		return a.profile.At(hour)
	}
	return a.broker.sim.MeasuredUtilization(a.broker, 3600)
}

// Evaluate runs one hour-boundary scaling decision. Scaling actions land
// on the event timeline at the current timestamp, after the hour's own
// handler finishes (FIFO tie-break), so a destroy never races the handler
// that requested it.
func (a *AutoscaleController) Evaluate(hour int, utilization float64) {
	s := a.broker.sim
	switch {
	case utilization > a.cfg.ScaleUpThreshold:
		s.Schedule(NewVMCreateEvent(s.Clock, a.broker, a.cfg.Spec))
		a.nScaleUp++
		s.Metrics.ScaleUps++
		logrus.Infof("[t %010.1f] hour %d: utilization %.1f%% above %.1f%%, scaling up", s.Clock, hour, utilization, a.cfg.ScaleUpThreshold)
	case utilization < a.cfg.ScaleDownThreshold && len(a.broker.RunningVMs()) > a.cfg.MinVMs:
		vm := a.broker.MostRecentRunning()
		s.Schedule(NewVMDestroyEvent(s.Clock, a.broker, vm.ID))
		a.nScaleDown++
		s.Metrics.ScaleDowns++
		logrus.Infof("[t %010.1f] hour %d: utilization %.1f%% below %.1f%%, scaling down (vm %d)", s.Clock, hour, utilization, a.cfg.ScaleDownThreshold, vm.ID)
	}
}

// NScaleUpEvents returns the number of scale-up decisions taken so far.
func (a *AutoscaleController) NScaleUpEvents() int { return a.nScaleUp }

// NScaleDownEvents returns the number of scale-down decisions taken so far.
func (a *AutoscaleController) NScaleDownEvents() int { return a.nScaleDown }

// MeasuredUtilization derives the broker fleet's utilization percentage
// from actual occupancy: each running VM's backlog seconds, clamped to the
// sampling window, averaged across the fleet. An empty fleet reads 0.
func (s *Simulator) MeasuredUtilization(b *Broker, windowSeconds float64) float64 {
	running := b.RunningVMs()
	if len(running) == 0 {
		return 0
	}
	var sum float64
	for _, vm := range running {
		s.accrue(vm, s.Clock)
		sum += util.Clamp01(vm.BacklogSeconds() / windowSeconds)
	}
	return 100 * sum / float64(util.Len64(running))
}
