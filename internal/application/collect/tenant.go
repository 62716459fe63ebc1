package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantStageName identifies the tenant stage in pipelines, metrics and the
// unknown service environment configuration
const TenantStageName = "tenant"

// ServiceEnvironment is the natural key of a venture providing a service
type ServiceEnvironment struct {
	ServiceUID  string
	Environment string
}

// TenantCollector stores cloud tenants and who owned them each day
type TenantCollector struct {
	ventures pricing.VentureRepository
	tenants  pricing.TenantInfoRepository
	feed     TenantFeed
	unknown  *ServiceEnvironment
	validate *validator.Validate
	metrics  *Metrics
	logger   *zap.Logger
}

// NewTenantCollector creates a new TenantCollector. unknown is the service
// environment tenants fall back to when theirs does not exist; nil means
// not configured.
func NewTenantCollector(
	ventures pricing.VentureRepository,
	tenants pricing.TenantInfoRepository,
	feed TenantFeed,
	unknown *ServiceEnvironment,
	metrics *Metrics,
	logger *zap.Logger,
) *TenantCollector {
	return &TenantCollector{
		ventures: ventures,
		tenants:  tenants,
		feed:     feed,
		unknown:  unknown,
		validate: newValidator(),
		metrics:  metrics,
		logger:   logger.Named(TenantStageName),
	}
}

// Name implements Stage
func (c *TenantCollector) Name() string {
	return TenantStageName
}

// Run implements Stage
func (c *TenantCollector) Run(ctx context.Context, rc *RunContext) (Result, error) {
	return c.Collect(ctx, rc.Date)
}

// UnknownVenture returns the configured fallback venture
func (c *TenantCollector) UnknownVenture(ctx context.Context) (*pricing.Venture, error) {
	if c.unknown == nil || c.unknown.ServiceUID == "" {
		return nil, pricing.NewUnknownServiceEnvironmentNotConfiguredError(TenantStageName)
	}
	venture, err := c.ventures.FindByServiceEnvironment(ctx, c.unknown.ServiceUID, c.unknown.Environment)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, pricing.NewUnknownServiceEnvironmentNotConfiguredError(TenantStageName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load unknown service environment: %w", err)
	}
	return venture, nil
}

// SaveTenantInfo creates or updates the tenant of rec. Tenants whose service
// environment does not exist are assigned to unknown.
func (c *TenantCollector) SaveTenantInfo(ctx context.Context, rec TenantRecord, unknown *pricing.Venture) (bool, *pricing.TenantInfo, error) {
	created := false
	tenant, err := c.tenants.FindByExternalID(ctx, rec.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		tenant, err = pricing.NewTenantInfo(rec.ID)
		if err != nil {
			return false, nil, err
		}
		created = true
	case err != nil:
		return false, nil, fmt.Errorf("failed to load tenant %s: %w", rec.ID, err)
	default:
		tenant.Touch()
	}

	owner, err := c.ventures.FindByServiceEnvironment(ctx, rec.ServiceUID, rec.Environment)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.logger.Debug("Service environment not found, using unknown",
			zap.String("tenant", rec.ID),
			zap.String("service_uid", rec.ServiceUID),
			zap.String("environment", rec.Environment))
		owner = unknown
	case err != nil:
		return false, nil, fmt.Errorf("failed to load service environment of tenant %s: %w", rec.ID, err)
	}

	tenant.Name = rec.Name
	tenant.Remarks = rec.Remarks
	tenant.VentureID = owner.ID

	if err := c.tenants.Save(ctx, tenant); err != nil {
		return false, nil, fmt.Errorf("failed to save tenant %s: %w", rec.ID, err)
	}
	return created, tenant, nil
}

// SaveDailyTenantInfo snapshots the owner of tenant for date
func (c *TenantCollector) SaveDailyTenantInfo(ctx context.Context, rec TenantRecord, tenant *pricing.TenantInfo, date time.Time) (*pricing.DailyTenantInfo, error) {
	daily := pricing.NewDailyTenantInfo(tenant, date)
	if err := c.tenants.SaveDaily(ctx, daily); err != nil {
		return nil, fmt.Errorf("failed to save daily tenant %s: %w", rec.ID, err)
	}
	return daily, nil
}

// UpdateTenant saves the tenant and its daily snapshot, reporting whether the
// tenant is new
func (c *TenantCollector) UpdateTenant(ctx context.Context, rec TenantRecord, date time.Time, unknown *pricing.Venture) (bool, error) {
	if err := c.validate.Struct(rec); err != nil {
		return false, validationError(err)
	}
	created, tenant, err := c.SaveTenantInfo(ctx, rec, unknown)
	if err != nil {
		return false, err
	}
	if _, err := c.SaveDailyTenantInfo(ctx, rec, tenant, date); err != nil {
		return false, err
	}
	return created, nil
}

// Collect stores every tenant of the feed for date
func (c *TenantCollector) Collect(ctx context.Context, date time.Time) (Result, error) {
	unknown, err := c.UnknownVenture(ctx)
	if err != nil {
		return Result{OK: false, Message: err.Error()}, err
	}

	records, err := c.feed.Tenants(ctx)
	if err != nil {
		return Result{OK: false, Message: "Failed to fetch tenants"}, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	var created, updated, failed int
	for _, rec := range records {
		isNew, err := c.UpdateTenant(ctx, rec, date, unknown)
		switch {
		case err != nil:
			failed++
			c.logger.Warn("Skipping tenant", zap.String("tenant", rec.ID), zap.Error(err))
		case isNew:
			created++
		default:
			updated++
		}
	}

	c.metrics.RecordOutcome(ctx, TenantStageName, OutcomeCreated, int64(created))
	c.metrics.RecordOutcome(ctx, TenantStageName, OutcomeUpdated, int64(updated))
	c.metrics.RecordOutcome(ctx, TenantStageName, OutcomeFailed, int64(failed))

	return Result{
		OK:      true,
		Message: fmt.Sprintf("%d new tenants, %d updated, %d total", created, updated, len(records)),
	}, nil
}
