package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/application/allocation"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/config"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/logger"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// app holds what every subcommand needs: configuration, logging, telemetry
// and the repositories over one database connection
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *persistence.Database
	repos     *persistence.Repositories
	telemetry *telemetry.Providers
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.ExportInterval,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, &cfg.Log, log)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, err
	}
	err = telemetry.InstrumentGorm(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:     cfg.Database.DBName,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err != nil {
		_ = db.Close()
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to instrument database: %w", err)
	}

	log.Debug("Database connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.DBName))
	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		repos:     persistence.NewRepositories(db.DB),
		telemetry: providers,
	}, nil
}

func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.log.Warn("Failed to flush telemetry", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("Error closing database", zap.Error(err))
	}
	_ = logger.Sync(a.log)
}

func (a *app) engine() *allocation.Engine {
	resolver := allocation.NewPriceResolver(a.repos.Prices, a.repos.Warehouses, a.cfg.Allocation.StrictCoverage, a.log)
	return allocation.NewEngine(resolver, allocation.NewUsageAggregator(a.repos.Usages), a.log, allocation.EngineConfig{
		MaxParallel: a.cfg.Allocation.MaxParallel,
		PoolScope:   allocation.PoolScope(a.cfg.Allocation.PoolScope),
	})
}

func (a *app) usageTypes(ctx context.Context, symbols []string) ([]*pricing.UsageType, error) {
	if len(symbols) == 0 {
		return a.repos.UsageTypes.FindAll(ctx)
	}
	out := make([]*pricing.UsageType, 0, len(symbols))
	for _, symbol := range symbols {
		ut, err := a.repos.UsageTypes.FindBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("usage type %q: %w", symbol, err)
		}
		out = append(out, ut)
	}
	return out, nil
}

// ventureIDs maps external venture ids to stored ids; none means nil
func (a *app) ventureIDs(ctx context.Context, ids []int64) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		v, err := a.repos.Ventures.FindByVentureID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("venture %d: %w", id, err)
		}
		out = append(out, v.ID)
	}
	return out, nil
}
