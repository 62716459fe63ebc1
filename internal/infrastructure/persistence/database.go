package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quamilek/ralph-pricing/internal/infrastructure/config"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a PostgreSQL connection pool logging through zap
func NewDatabase(cfg *config.DatabaseConfig, logCfg *config.LogConfig, log *zap.Logger) (*Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logCfg.GormLevel), logger.WithSlowQuery(logCfg.SlowQuery))
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// SQLDB returns the underlying *sql.DB, used by migrations
func (d *Database) SQLDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// Repositories bundles every pricing repository over one connection
type Repositories struct {
	UsageTypes *UsageTypeRepository
	Warehouses *WarehouseRepository
	Ventures   *VentureRepository
	Services   *PricingServiceRepository
	Edges      *ServiceUsageTypeRepository
	Prices     *UsagePriceRepository
	Usages     *DailyUsageRepository
	ExtraCosts *ExtraCostRepository
	Tenants    *TenantInfoRepository
}

// NewRepositories creates every repository over db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		UsageTypes: NewUsageTypeRepository(db),
		Warehouses: NewWarehouseRepository(db),
		Ventures:   NewVentureRepository(db),
		Services:   NewPricingServiceRepository(db),
		Edges:      NewServiceUsageTypeRepository(db),
		Prices:     NewUsagePriceRepository(db),
		Usages:     NewDailyUsageRepository(db),
		ExtraCosts: NewExtraCostRepository(db),
		Tenants:    NewTenantInfoRepository(db),
	}
}
