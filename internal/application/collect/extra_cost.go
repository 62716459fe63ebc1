package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"go.uber.org/zap"
)

// ExtraCostStageName identifies the extra cost stage in pipelines and metrics
const ExtraCostStageName = "extra_cost"

// ExtraCostImporter records extra costs delivered by a feed
type ExtraCostImporter struct {
	repo     pricing.ExtraCostRepository
	feed     ExtraCostFeed
	validate *validator.Validate
	metrics  *Metrics
	logger   *zap.Logger
}

// NewExtraCostImporter creates a new ExtraCostImporter
func NewExtraCostImporter(repo pricing.ExtraCostRepository, feed ExtraCostFeed, metrics *Metrics, logger *zap.Logger) *ExtraCostImporter {
	return &ExtraCostImporter{
		repo:     repo,
		feed:     feed,
		validate: newValidator(),
		metrics:  metrics,
		logger:   logger.Named(ExtraCostStageName),
	}
}

// Name implements Stage
func (i *ExtraCostImporter) Name() string {
	return ExtraCostStageName
}

// Run implements Stage
func (i *ExtraCostImporter) Run(ctx context.Context, rc *RunContext) (Result, error) {
	return i.Collect(ctx, rc.Date)
}

// UpdateExtraCost records one extra cost. The monthly cost becomes a daily
// price and a missing end makes the cost open-ended. created is false when an
// identical extra cost was already recorded.
func (i *ExtraCostImporter) UpdateExtraCost(ctx context.Context, rec ExtraCostRecord, date time.Time) (bool, error) {
	if err := i.validate.Struct(rec); err != nil {
		return false, validationError(err)
	}

	period, err := pricing.ExtraCostPeriod(*rec.Start, rec.End)
	if err != nil {
		return false, err
	}

	name := rec.Venture
	if name == "" {
		name = fmt.Sprintf("venture-%d", rec.VentureID)
	}

	created, err := i.repo.Record(ctx, pricing.ExtraCostImport{
		TypeName:    rec.Type,
		VentureID:   rec.VentureID,
		VentureName: name,
		Period:      period,
		Price:       pricing.DailyPrice(rec.Cost),
	})
	if err != nil {
		return false, fmt.Errorf("failed to record extra cost %q for venture %d: %w", rec.Type, rec.VentureID, err)
	}

	i.logger.Debug("Extra cost recorded",
		zap.String("type", rec.Type),
		zap.Int64("venture_id", rec.VentureID),
		zap.Stringer("period", period),
		zap.Bool("created", created),
		zap.Time("date", date))

	return created, nil
}

// Collect imports every record of the feed. Failing records are logged and
// counted without stopping the batch.
func (i *ExtraCostImporter) Collect(ctx context.Context, date time.Time) (Result, error) {
	records, err := i.feed.ExtraCosts(ctx)
	if err != nil {
		return Result{OK: false, Message: "Failed to fetch extra costs"}, fmt.Errorf("failed to fetch extra costs: %w", err)
	}

	var created, existing, failed int
	for _, rec := range records {
		ok, err := i.UpdateExtraCost(ctx, rec, date)
		switch {
		case err != nil:
			failed++
			i.logger.Warn("Skipping extra cost",
				zap.String("type", rec.Type),
				zap.Int64("venture_id", rec.VentureID),
				zap.Error(err))
		case ok:
			created++
		default:
			existing++
		}
	}

	i.metrics.RecordOutcome(ctx, ExtraCostStageName, OutcomeCreated, int64(created))
	i.metrics.RecordOutcome(ctx, ExtraCostStageName, OutcomeSkipped, int64(existing))
	i.metrics.RecordOutcome(ctx, ExtraCostStageName, OutcomeFailed, int64(failed))

	if failed > 0 {
		i.logger.Warn("Some extra costs were not imported",
			zap.Int("failed", failed),
			zap.Int("total", len(records)))
	}
	return Result{OK: true, Message: fmt.Sprintf("%d new extracosts", created)}, nil
}
