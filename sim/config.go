package sim

import "fmt"

// AutoscaleConfig groups the autoscale controller's parameters.
// Thresholds are utilization percentages in [0, 100].
type AutoscaleConfig struct {
	ScaleUpThreshold   float64 // scale up above this
	ScaleDownThreshold float64 // scale down below this
	MinVMs             int     // never scale below this many running VMs
	Spec               VMSpec  // spec for VMs added on scale-up
}

// NewAutoscaleConfig creates an AutoscaleConfig with all fields explicitly
// set. This is the canonical constructor; all construction sites must use
// it. Parameter order matches struct field order.
func NewAutoscaleConfig(scaleUpThreshold, scaleDownThreshold float64, minVMs int, spec VMSpec) AutoscaleConfig {
	if scaleDownThreshold >= scaleUpThreshold {
		panic(fmt.Sprintf("NewAutoscaleConfig: scale-down threshold %.1f must be below scale-up threshold %.1f",
			scaleDownThreshold, scaleUpThreshold))
	}
	if minVMs < 0 {
		panic(fmt.Sprintf("NewAutoscaleConfig: minVMs must be >= 0, got %d", minVMs))
	}
	return AutoscaleConfig{
		ScaleUpThreshold:   scaleUpThreshold,
		ScaleDownThreshold: scaleDownThreshold,
		MinVMs:             minVMs,
		Spec:               spec,
	}
}

// UtilizationProfile is the fixed business-hour utilization model: a flat
// business-hours percentage inside the window (inclusive) and an off-hours
// percentage outside it.
type UtilizationProfile struct {
	BusinessStart int     // first business hour, inclusive
	BusinessEnd   int     // last business hour, inclusive
	BusinessUtil  float64 // percent during business hours
	OffHoursUtil  float64 // percent outside business hours
}

// NewUtilizationProfile creates a UtilizationProfile with all fields
// explicitly set. Parameter order matches struct field order.
func NewUtilizationProfile(businessStart, businessEnd int, businessUtil, offHoursUtil float64) UtilizationProfile {
	if businessStart > businessEnd {
		panic(fmt.Sprintf("NewUtilizationProfile: start hour %d after end hour %d", businessStart, businessEnd))
	}
	return UtilizationProfile{
		BusinessStart: businessStart,
		BusinessEnd:   businessEnd,
		BusinessUtil:  businessUtil,
		OffHoursUtil:  offHoursUtil,
	}
}

// IsBusinessHour reports whether hour (taken mod 24) falls inside the
// business window.
func (p UtilizationProfile) IsBusinessHour(hour int) bool {
	h := hour % 24
	return h >= p.BusinessStart && h <= p.BusinessEnd
}

// At returns the profile utilization percentage for the given hour.
func (p UtilizationProfile) At(hour int) float64 {
	if p.IsBusinessHour(hour) {
		return p.BusinessUtil
	}
	return p.OffHoursUtil
}
