package repository

import (
	"context"

	"cavea/internal/models"

	"gorm.io/gorm"
)

// ReferenceRepository covers the uniquely-keyed lookup tables. Every write
// goes through a find-or-create on the natural key, so repeat calls with the
// same input always resolve to the same row.
type ReferenceRepository interface {
	FindOrCreateDomain(ctx context.Context, name string) (*models.WineDomain, error)
	FindOrCreateAppellation(ctx context.Context, name string) (*models.Appellation, error)
	FindOrCreateVintage(ctx context.Context, year int) (*models.Vintage, error)
	FindOrCreateRegion(ctx context.Context, name string) (*models.Region, error)
	ListColours(ctx context.Context) ([]models.Colour, error)
	ListRegions(ctx context.Context) ([]models.Region, error)
	ListGrapeVarieties(ctx context.Context) ([]models.GrapeVariety, error)
	GetGrapeVarieties(ctx context.Context, ids []uint) ([]models.GrapeVariety, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindOrCreateDomain(ctx context.Context, name string) (*models.WineDomain, error) {
	var domain models.WineDomain
	err := r.db.WithContext(ctx).
		Where(models.WineDomain{Name: name}).
		FirstOrCreate(&domain).
		Error
	if err != nil {
		return nil, err
	}
	return &domain, nil
}

func (r *referenceRepository) FindOrCreateAppellation(ctx context.Context, name string) (*models.Appellation, error) {
	var appellation models.Appellation
	err := r.db.WithContext(ctx).
		Where(models.Appellation{Name: name}).
		FirstOrCreate(&appellation).
		Error
	if err != nil {
		return nil, err
	}
	return &appellation, nil
}

func (r *referenceRepository) FindOrCreateVintage(ctx context.Context, year int) (*models.Vintage, error) {
	var vintage models.Vintage
	err := r.db.WithContext(ctx).
		Where(models.Vintage{Year: year}).
		FirstOrCreate(&vintage).
		Error
	if err != nil {
		return nil, err
	}
	return &vintage, nil
}

func (r *referenceRepository) FindOrCreateRegion(ctx context.Context, name string) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).
		Where(models.Region{Name: name}).
		FirstOrCreate(&region).
		Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *referenceRepository) ListColours(ctx context.Context) ([]models.Colour, error) {
	var colours []models.Colour
	err := r.db.WithContext(ctx).Order("name").Find(&colours).Error
	return colours, err
}

func (r *referenceRepository) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	err := r.db.WithContext(ctx).Order("name").Find(&regions).Error
	return regions, err
}

func (r *referenceRepository) ListGrapeVarieties(ctx context.Context) ([]models.GrapeVariety, error) {
	var varieties []models.GrapeVariety
	err := r.db.WithContext(ctx).Order("name").Find(&varieties).Error
	return varieties, err
}

func (r *referenceRepository) GetGrapeVarieties(ctx context.Context, ids []uint) ([]models.GrapeVariety, error) {
	var varieties []models.GrapeVariety
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&varieties).Error
	return varieties, err
}
