package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExtraCostRepository implements pricing.ExtraCostRepository using GORM
type ExtraCostRepository struct {
	db *gorm.DB
}

// NewExtraCostRepository creates a new ExtraCostRepository
func NewExtraCostRepository(db *gorm.DB) *ExtraCostRepository {
	return &ExtraCostRepository{db: db}
}

// Record stores an extra cost in one transaction. Its type and venture are
// created when missing; an identical cost already stored is left alone and
// created is false.
func (r *ExtraCostRepository) Record(ctx context.Context, in pricing.ExtraCostImport) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeID, err := ensureExtraCostType(tx, in.TypeName)
		if err != nil {
			return err
		}
		ventureID, err := ensureVenture(tx, in.VentureID, in.VentureName)
		if err != nil {
			return err
		}

		cost := &models.ExtraCostModel{
			TypeID:    typeID,
			VentureID: ventureID,
			StartDate: in.Period.Start(),
			EndDate:   in.Period.End(),
			Price:     in.Price,
		}
		cost.SetEntity(shared.NewBaseEntity())

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(cost)
		if result.Error != nil {
			return fmt.Errorf("failed to insert extra cost: %w", result.Error)
		}
		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func ensureExtraCostType(tx *gorm.DB, name string) (uuid.UUID, error) {
	candidate := &models.ExtraCostTypeModel{Name: name}
	candidate.SetEntity(shared.NewBaseEntity())
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert extra cost type %q: %w", name, err)
	}

	var stored models.ExtraCostTypeModel
	if err := tx.Where("name = ?", name).First(&stored).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to load extra cost type %q: %w", name, err)
	}
	return stored.ID, nil
}

func ensureVenture(tx *gorm.DB, ventureID int64, name string) (uuid.UUID, error) {
	venture, err := pricing.NewVenture(ventureID, name)
	if err != nil {
		return uuid.Nil, err
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venture_id"}},
		DoNothing: true,
	}).Create(models.VentureModelFromDomain(venture)).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert venture %d: %w", ventureID, err)
	}

	var stored models.VentureModel
	if err := tx.Where("venture_id = ?", ventureID).First(&stored).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to load venture %d: %w", ventureID, err)
	}
	return stored.ID, nil
}

// FindOverlapping returns extra costs of the ventures overlapping period
func (r *ExtraCostRepository) FindOverlapping(ctx context.Context, ventureIDs []uuid.UUID, period valueobject.DateRange) ([]*pricing.ExtraCost, error) {
	if len(ventureIDs) == 0 {
		return []*pricing.ExtraCost{}, nil
	}
	var rows []models.ExtraCostModel
	err := r.db.WithContext(ctx).
		Where("venture_id IN ?", ventureIDs).
		Where("start_date <= ? AND end_date >= ?", period.End(), period.Start()).
		Order("start_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*pricing.ExtraCost, 0, len(rows))
	for i := range rows {
		cost, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid extra cost %s: %w", rows[i].ID, err)
		}
		out = append(out, cost)
	}
	return out, nil
}
