package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsagePriceRepository_FindOverlapping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsagePriceRepository(db)
	ctx := context.Background()

	usageTypeID := uuid.New()
	wh := uuid.New()

	save := func(whID *uuid.UUID, start, end int, price int64) {
		p, err := pricing.NewUsagePrice(usageTypeID, whID,
			valueobject.MustNewDateRange(day(2013, 10, start), day(2013, 10, end)))
		require.NoError(t, err)
		p.WithPrices(decimal.NewFromInt(price), decimal.NewFromInt(price*2))
		require.NoError(t, repo.Save(ctx, p))
	}
	save(nil, 16, 31, 20)
	save(nil, 1, 15, 10)
	save(ptr(wh), 1, 31, 30)

	t.Run("returns definitions without warehouse ordered by start", func(t *testing.T) {
		prices, err := repo.FindOverlapping(ctx, usageTypeID, nil,
			valueobject.MustNewDateRange(day(2013, 10, 10), day(2013, 10, 20)))
		require.NoError(t, err)
		require.Len(t, prices, 2)
		assert.True(t, prices[0].Price.Equal(decimal.NewFromInt(10)))
		assert.True(t, prices[1].Price.Equal(decimal.NewFromInt(20)))
		assert.True(t, prices[1].ForecastPrice.Equal(decimal.NewFromInt(40)))
		assert.True(t, prices[0].Period.Start().Equal(day(2013, 10, 1)))
	})

	t.Run("filters by warehouse", func(t *testing.T) {
		prices, err := repo.FindOverlapping(ctx, usageTypeID, ptr(wh),
			valueobject.SingleDay(day(2013, 10, 5)))
		require.NoError(t, err)
		require.Len(t, prices, 1)
		require.NotNil(t, prices[0].WarehouseID)
		assert.Equal(t, wh, *prices[0].WarehouseID)
	})

	t.Run("touching boundary days overlap", func(t *testing.T) {
		prices, err := repo.FindOverlapping(ctx, usageTypeID, nil, valueobject.SingleDay(day(2013, 10, 15)))
		require.NoError(t, err)
		assert.Len(t, prices, 1)
	})

	t.Run("nothing outside definitions", func(t *testing.T) {
		prices, err := repo.FindOverlapping(ctx, usageTypeID, nil, valueobject.SingleDay(day(2013, 11, 1)))
		require.NoError(t, err)
		assert.Empty(t, prices)
	})
}
