package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func saveVenture(t *testing.T, repo *VentureRepository, id int64, name string) *pricing.Venture {
	t.Helper()
	v, err := pricing.NewVenture(id, name)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), v))
	return v
}

func saveUsageType(t *testing.T, repo *UsageTypeRepository, name string, byWarehouse bool) *pricing.UsageType {
	t.Helper()
	ut, err := pricing.NewUsageType(name, "", byWarehouse, false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), ut))
	return ut
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
