package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVentureRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVentureRepository(db)
	ctx := context.Background()

	root := saveVenture(t, repo, 1, "Allegro")
	child := saveVenture(t, repo, 2, "Payments")
	child.ParentID = &root.ID
	child.ServiceUID = "sc-2"
	child.Environment = "prod"
	require.NoError(t, repo.Save(ctx, child))
	leaf := saveVenture(t, repo, 3, "Cards")
	leaf.ParentID = &child.ID
	leaf.IsActive = false
	require.NoError(t, repo.Save(ctx, leaf))

	t.Run("ancestors are ordered from the root", func(t *testing.T) {
		ancestors, err := repo.Ancestors(ctx, leaf)
		require.NoError(t, err)
		require.Len(t, ancestors, 2)
		assert.Equal(t, "Allegro/Payments/Cards", leaf.Path(ancestors))
	})

	t.Run("root has no ancestors", func(t *testing.T) {
		ancestors, err := repo.Ancestors(ctx, root)
		require.NoError(t, err)
		assert.Empty(t, ancestors)
	})

	t.Run("finds by natural keys", func(t *testing.T) {
		found, err := repo.FindByVentureID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, child.ID, found.ID)

		found, err = repo.FindByServiceEnvironment(ctx, "sc-2", "prod")
		require.NoError(t, err)
		assert.Equal(t, child.ID, found.ID)

		_, err = repo.FindByServiceEnvironment(ctx, "sc-2", "test")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("active only skips inactive ventures", func(t *testing.T) {
		all, err := repo.FindAll(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		active, err := repo.FindAll(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Allegro", active[0].Name)
		assert.Equal(t, "Payments", active[1].Name)
	})

	t.Run("finds service providers", func(t *testing.T) {
		serviceID := uuid.New()
		root.ServiceID = &serviceID
		require.NoError(t, repo.Save(ctx, root))

		providers, err := repo.FindByService(ctx, serviceID)
		require.NoError(t, err)
		require.Len(t, providers, 1)
		assert.True(t, providers[0].ProvidesService(serviceID))
	})
}
