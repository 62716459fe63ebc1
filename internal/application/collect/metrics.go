package collect

import (
	"context"
	"time"

	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// Record outcomes counted by pricing_collect_records_total
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics holds the collection metrics. A nil *Metrics records nothing.
type Metrics struct {
	records  *telemetry.Counter
	duration *telemetry.DurationHistogram
}

// NewMetrics creates the collection instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	records, err := telemetry.NewCounter(meter,
		"pricing_collect_records_total",
		"Number of collected records by stage and outcome",
		"{record}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewDurationHistogram(meter,
		"pricing_collect_stage_duration_seconds",
		"Duration of collection stages")
	if err != nil {
		return nil, err
	}
	return &Metrics{records: records, duration: duration}, nil
}

// RecordOutcome counts n records of a stage with the given outcome
func (m *Metrics) RecordOutcome(ctx context.Context, stage, outcome string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.records.Add(ctx, n, telemetry.AttrStage.String(stage), telemetry.AttrOutcome.String(outcome))
}

// ObserveStage records how long a stage ran
func (m *Metrics) ObserveStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(ctx, d, telemetry.AttrStage.String(stage))
}
