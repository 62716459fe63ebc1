package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/logger"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Result is the outcome a stage reports: whether it succeeded and a summary
type Result struct {
	OK      bool
	Message string
}

// RunContext carries the parameters shared by all stages of a run
type RunContext struct {
	Date   time.Time   `json:"date" validate:"required"`
	Logger *zap.Logger `json:"-" validate:"-"`
}

// Stage is one step of a collection run
type Stage interface {
	Name() string
	Run(ctx context.Context, rc *RunContext) (Result, error)
}

// StageReport is what happened to a stage during a run
type StageReport struct {
	Stage    string
	Result   Result
	Err      error
	Duration time.Duration
}

// Pipeline runs stages in the order given at construction
type Pipeline struct {
	stages  []Stage
	logger  *zap.Logger
	metrics *Metrics
}

// NewPipeline creates a pipeline of stages
func NewPipeline(log *zap.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: log.Named("collect"),
	}
}

// WithMetrics records stage outcomes on m
func (p *Pipeline) WithMetrics(m *Metrics) *Pipeline {
	p.metrics = m
	return p
}

// Stages returns the names of the stages in run order
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Run executes every stage. A stage failing because something is not
// configured stops the run and its error is returned unchanged; any other
// failure is reported and the run continues.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) ([]StageReport, error) {
	if rc == nil {
		return nil, shared.NewDomainError("INVALID_RUN", "Run context is required")
	}
	if err := newValidator().Struct(rc); err != nil {
		return nil, validationError(err)
	}
	rc.Date = valueobject.Day(rc.Date)
	if rc.Logger == nil {
		rc.Logger = p.logger
	}

	reports := make([]StageReport, 0, len(p.stages))
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report := p.runStage(ctx, stage, rc)
		reports = append(reports, report)

		if report.Err != nil && errors.Is(report.Err, shared.ErrNotConfigured) {
			p.logger.Error("Stopping collection, stage is not configured",
				zap.String("stage", stage.Name()),
				zap.Error(report.Err))
			return reports, report.Err
		}
	}
	return reports, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, rc *RunContext) StageReport {
	ctx, span := telemetry.StartServiceSpan(ctx, "collect", stage.Name(),
		attribute.String(telemetry.SpanAttrStage, stage.Name()),
		attribute.String(telemetry.SpanAttrCollectDay, rc.Date.Format(time.DateOnly)))
	defer span.End()

	stageRC := *rc
	ctx, stageRC.Logger = logger.WithStage(ctx, rc.Logger, stage.Name(), rc.Date)

	started := time.Now()
	result, err := stage.Run(ctx, &stageRC)
	report := StageReport{
		Stage:    stage.Name(),
		Result:   result,
		Err:      err,
		Duration: time.Since(started),
	}
	p.metrics.ObserveStage(ctx, stage.Name(), report.Duration)

	if err != nil {
		telemetry.RecordError(span, err)
		if report.Result.Message == "" {
			report.Result = Result{OK: false, Message: err.Error()}
		}
		report.Result.OK = false
		p.logger.Error("Stage failed",
			zap.String("stage", stage.Name()),
			zap.Duration("duration", report.Duration),
			zap.Error(err))
		return report
	}

	p.logger.Info("Stage finished",
		zap.String("stage", stage.Name()),
		zap.Bool("ok", result.OK),
		zap.String("message", result.Message),
		zap.Duration("duration", report.Duration))
	return report
}

// Summary renders reports as "stage: message" lines
func Summary(reports []StageReport) []string {
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		status := "ok"
		if !r.Result.OK {
			status = "failed"
		}
		lines = append(lines, fmt.Sprintf("%s [%s]: %s", r.Stage, status, r.Result.Message))
	}
	return lines
}
