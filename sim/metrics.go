// Tracks simulation-wide counters and per-run summary reporting.

package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// UtilizationSample is one per-hour fleet utilization reading. Derived
// during the run for reporting; never persisted across runs.
type UtilizationSample struct {
	Hour        int     `json:"hour"`
	Utilization float64 `json:"utilization_pct"`
}

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for evaluating scaling behavior and debugging cost comparisons.
type Metrics struct {
	VMsCreated     int // VMs ever requested, including queued and destroyed
	TasksSubmitted int
	TasksFinished  int
	TasksCancelled int // cancelled by VM destruction
	TasksPending   int // still queued when the run ended
	ScaleUps       int
	ScaleDowns     int

	SimEndedTime float64 // clock when the run ended, in seconds

	ResponseTimes []float64           // per finished task, in completion order
	Utilization   []UtilizationSample // per-hour samples, in hour order
}

func NewMetrics() *Metrics {
	return &Metrics{
		ResponseTimes: []float64{},
		Utilization:   []UtilizationSample{},
	}
}

// RecordFinish accounts a finished task's response time.
func (m *Metrics) RecordFinish(t *Task) {
	m.TasksFinished++
	m.ResponseTimes = append(m.ResponseTimes, t.CPUTime())
}

// RecordUtilization appends one per-hour utilization sample.
func (m *Metrics) RecordUtilization(hour int, pct float64) {
	m.Utilization = append(m.Utilization, UtilizationSample{Hour: hour, Utilization: pct})
}

// Unprocessed returns the number of submitted tasks that never finished:
// cancelled by a destroy, still queued, or still mid-execution at the end.
func (m *Metrics) Unprocessed() int {
	return m.TasksSubmitted - m.TasksFinished
}

// StrategyResult is one row of the cost scenario comparison.
type StrategyResult struct {
	Strategy          string  `json:"strategy"`
	TotalCost         float64 `json:"total_cost_usd"`
	AvgCompletionTime float64 `json:"avg_completion_time_sec"`
	VMsUsed           int     `json:"vms_used"`
	TasksProcessed    int     `json:"tasks_processed"`
}

// Summary is the final run report, marshaled as indented JSON to stdout
// and optionally to a results file.
type Summary struct {
	RunID             string  `json:"run_id"`
	SimStartTimestamp string  `json:"sim_start_timestamp"`
	SimEndTimestamp   string  `json:"sim_end_timestamp"`
	SimEndedTime      float64 `json:"sim_ended_time_sec"`

	TotalVMsCreated  int `json:"total_vms_created"`
	TasksProcessed   int `json:"tasks_processed"`
	TasksUnprocessed int `json:"tasks_unprocessed"`
	ScaleUpEvents    int `json:"scale_up_events"`
	ScaleDownEvents  int `json:"scale_down_events"`

	AvgResponseTimeSec float64 `json:"avg_response_time_sec"`
	P90ResponseTimeSec float64 `json:"p90_response_time_sec"`
	P95ResponseTimeSec float64 `json:"p95_response_time_sec"`
	P99ResponseTimeSec float64 `json:"p99_response_time_sec"`

	HourlyUtilization []UtilizationSample `json:"hourly_utilization,omitempty"`
	StrategyResults   []StrategyResult    `json:"strategy_results,omitempty"`
}

// BuildSummary folds the metrics into a Summary. startTime is the wall
// clock when the run began; it labels the report and never influences
// simulated results.
func (m *Metrics) BuildSummary(startTime time.Time) Summary {
	out := Summary{
		RunID:             uuid.NewString(),
		SimStartTimestamp: startTime.Format("2006-01-02 15:04:05"),
		SimEndTimestamp:   time.Now().Format("2006-01-02 15:04:05"),
		SimEndedTime:      m.SimEndedTime,
		TotalVMsCreated:   m.VMsCreated,
		TasksProcessed:    m.TasksFinished,
		TasksUnprocessed:  m.Unprocessed(),
		ScaleUpEvents:     m.ScaleUps,
		ScaleDownEvents:   m.ScaleDowns,
		HourlyUtilization: m.Utilization,
	}
	if len(m.ResponseTimes) > 0 {
		// stats errors only on empty input, which is guarded above.
		out.AvgResponseTimeSec, _ = stats.Mean(m.ResponseTimes)
		out.P90ResponseTimeSec, _ = stats.Percentile(m.ResponseTimes, 90)
		out.P95ResponseTimeSec, _ = stats.Percentile(m.ResponseTimes, 95)
		out.P99ResponseTimeSec, _ = stats.Percentile(m.ResponseTimes, 99)
	}
	return out
}

// AvgResponseTime returns the mean response time across finished tasks,
// or 0 when nothing finished.
func (m *Metrics) AvgResponseTime() float64 {
	if len(m.ResponseTimes) == 0 {
		return 0
	}
	mean, _ := stats.Mean(m.ResponseTimes)
	return mean
}

// Save prints the summary to stdout and, when path is non-empty, writes
// the same JSON document to path.
func (s Summary) Save(path string) error {
	logrus.Infof("processed %s tasks, %s unprocessed",
		humanize.Comma(int64(s.TasksProcessed)), humanize.Comma(int64(s.TasksUnprocessed)))
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	fmt.Println("=== Simulation Summary ===")
	fmt.Println(string(data))
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary to %s: %w", path, err)
	}
	fmt.Printf("\nSummary written to: %s\n", path)
	return nil
}
