package repository

import (
	"context"

	"cavea/internal/models"

	"gorm.io/gorm"
)

type BottleRepository interface {
	FindOrCreate(ctx context.Context, bottle *models.Bottle) error
	SyncGrapeVarieties(ctx context.Context, bottle *models.Bottle, varieties []models.GrapeVariety) error
}

type bottleRepository struct {
	db *gorm.DB
}

func NewBottleRepository(db *gorm.DB) BottleRepository {
	return &bottleRepository{db: db}
}

// FindOrCreate resolves a bottle by its natural key
// (name, wine_domain_id, colour_id, region_id), creating it on first use.
func (r *bottleRepository) FindOrCreate(ctx context.Context, bottle *models.Bottle) error {
	query := r.db.WithContext(ctx).
		Where("name = ? AND colour_id = ? AND region_id = ?", bottle.Name, bottle.ColourID, bottle.RegionID)
	if bottle.WineDomainID != nil {
		query = query.Where("wine_domain_id = ?", *bottle.WineDomainID)
	} else {
		query = query.Where("wine_domain_id IS NULL")
	}
	return query.FirstOrCreate(bottle).Error
}

// SyncGrapeVarieties replaces the bottle's association set with exactly the
// given varieties. Full replace, not an incremental add.
func (r *bottleRepository) SyncGrapeVarieties(ctx context.Context, bottle *models.Bottle, varieties []models.GrapeVariety) error {
	return r.db.WithContext(ctx).
		Model(bottle).
		Association("GrapeVarieties").
		Replace(varieties)
}
