package telemetry

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Providers bundles the tracer and meter providers set up for a process
type Providers struct {
	Tracer *TracerProvider
	Meter  *MeterProvider
}

// Setup initialises tracing and metrics. With cfg.Enabled false both
// providers are no-ops and nothing is exported.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	mp, err := NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	return &Providers{Tracer: tp, Meter: mp}, nil
}

// Shutdown stops both providers, returning every error encountered
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(p.Tracer.Shutdown(ctx), p.Meter.Shutdown(ctx))
}
