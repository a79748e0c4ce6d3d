// The web application scenario: hourly request traffic with a business-hour
// peak, served by a broker fleet under per-hour autoscaling.

package scenario

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Archit-01/CostOptimizationSimulation/sim"
)

// Request payload sizes are fixed for the web traffic model.
const (
	requestPEs        = 1
	requestFileSize   = 300
	requestOutputSize = 300
)

// hourBoundaryEvent drives one simulated hour: it submits the hour's
// request volume, samples utilization, runs the autoscaler, and schedules
// the next boundary.
type hourBoundaryEvent struct {
	time float64
	hour int
	run  *webAppRun
}

func (e *hourBoundaryEvent) Timestamp() float64 { return e.time }

func (e *hourBoundaryEvent) Execute(s *sim.Simulator) {
	e.run.onHour(s, e.hour, e.time)
}

type webAppRun struct {
	cfg    WebAppConfig
	broker *sim.Broker
	scaler *sim.AutoscaleController
}

func (r *webAppRun) onHour(s *sim.Simulator, hour int, now float64) {
	n := r.cfg.OffHoursRequests
	if hour%24 >= r.cfg.BusinessHourStart && hour%24 <= r.cfg.BusinessHourEnd {
		n = r.cfg.BusinessRequests
	}
	for i := 0; i < n; i++ {
		t := sim.NewTask(hour*1000+i, r.broker.ID, r.cfg.RequestLength, requestPEs, requestFileSize, requestOutputSize)
		if err := r.broker.SubmitTask(t); err != nil && !errors.Is(err, sim.ErrNoAvailableVM) {
			logrus.Warnf("[t %010.1f] hour %d: submit task %d: %v", now, hour, t.ID, err)
		}
	}

	util := r.scaler.Utilization(hour)
	s.Metrics.RecordUtilization(hour, util)
	logrus.Infof("[t %010.1f] hour %d: %d requests, utilization %.2f%%, %d vms running",
		now, hour, n, util, len(r.broker.RunningVMs()))
	r.scaler.Evaluate(hour, util)

	if hour+1 < r.cfg.Hours {
		s.Schedule(&hourBoundaryEvent{time: now + 3600, hour: hour + 1, run: r})
	}
}

// RunWebApp executes the autoscaling web traffic scenario and returns the
// final summary.
func RunWebApp(cfg WebAppConfig) (sim.Summary, error) {
	startTime := time.Now()

	pool := sim.NewResourcePool([]*sim.Host{cfg.Host.Build(0)}, sim.PlacementPolicy(cfg.PlacementPolicy))
	s := sim.NewSimulator(pool)
	broker := sim.NewBroker(s, sim.NewRoutingPolicy(cfg.RoutingPolicy))

	webSpec := sim.NewVMSpec(cfg.VM.Name, cfg.VM.MIPS, cfg.VM.Cores, cfg.VM.RAM, 1000)
	for i := 0; i < cfg.InitialVMs; i++ {
		broker.CreateVM(webSpec)
	}

	profile := sim.NewUtilizationProfile(cfg.BusinessHourStart, cfg.BusinessHourEnd,
		cfg.BusinessUtilization, cfg.OffHoursUtilization)
	scaler := sim.NewAutoscaleController(broker,
		sim.NewAutoscaleConfig(cfg.ScaleUpThreshold, cfg.ScaleDownThreshold, cfg.MinVMs, webSpec),
		sim.UtilizationSource(cfg.UtilizationSource), profile)

	run := &webAppRun{cfg: cfg, broker: broker, scaler: scaler}
	s.Schedule(&hourBoundaryEvent{time: 0, hour: 0, run: run})
	s.Run()

	return s.Metrics.BuildSummary(startTime), nil
}
