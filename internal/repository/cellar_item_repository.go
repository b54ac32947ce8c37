package repository

import (
	"context"

	"cavea/internal/models"

	"gorm.io/gorm"
)

type CellarItemRepository interface {
	Create(ctx context.Context, item *models.CellarItem) error
	GetByID(ctx context.Context, id uint) (*models.CellarItem, error)
	GetByUser(ctx context.Context, userID uint) ([]models.CellarItem, error)
	GetLastAdded(ctx context.Context, userID uint, limit int) ([]models.CellarItem, error)
	GetByColour(ctx context.Context, userID, colourID uint) ([]models.CellarItem, error)
	GetByRegion(ctx context.Context, userID, regionID uint) ([]models.CellarItem, error)
	TotalStock(ctx context.Context, userID uint) (int, error)
	StockByColour(ctx context.Context, userID uint) ([]models.ColourStock, error)
	Update(ctx context.Context, item *models.CellarItem) error
	Delete(ctx context.Context, id uint) error
}

type cellarItemRepository struct {
	db *gorm.DB
}

func NewCellarItemRepository(db *gorm.DB) CellarItemRepository {
	return &cellarItemRepository{db: db}
}

func (r *cellarItemRepository) withDetail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Bottle.Colour").
		Preload("Bottle.Region").
		Preload("Bottle.WineDomain").
		Preload("Bottle.GrapeVarieties").
		Preload("Vintage").
		Preload("Appellation")
}

func (r *cellarItemRepository) Create(ctx context.Context, item *models.CellarItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cellarItemRepository) GetByID(ctx context.Context, id uint) (*models.CellarItem, error) {
	var item models.CellarItem
	err := r.withDetail(ctx).
		Preload("Comments").
		First(&item, id).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cellarItemRepository) GetByUser(ctx context.Context, userID uint) ([]models.CellarItem, error) {
	var items []models.CellarItem
	err := r.withDetail(ctx).
		Where("user_id = ?", userID).
		Find(&items).
		Error
	return items, err
}

func (r *cellarItemRepository) GetLastAdded(ctx context.Context, userID uint, limit int) ([]models.CellarItem, error) {
	var items []models.CellarItem
	err := r.withDetail(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).
		Error
	return items, err
}

func (r *cellarItemRepository) GetByColour(ctx context.Context, userID, colourID uint) ([]models.CellarItem, error) {
	var items []models.CellarItem
	err := r.withDetail(ctx).
		Joins("JOIN bottles ON bottles.id = cellar_items.bottle_id").
		Where("cellar_items.user_id = ? AND bottles.colour_id = ?", userID, colourID).
		Find(&items).
		Error
	return items, err
}

func (r *cellarItemRepository) GetByRegion(ctx context.Context, userID, regionID uint) ([]models.CellarItem, error) {
	var items []models.CellarItem
	err := r.withDetail(ctx).
		Joins("JOIN bottles ON bottles.id = cellar_items.bottle_id").
		Where("cellar_items.user_id = ? AND bottles.region_id = ?", userID, regionID).
		Find(&items).
		Error
	return items, err
}

func (r *cellarItemRepository) TotalStock(ctx context.Context, userID uint) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.CellarItem{}).
		Where("user_id = ?", userID).
		Select("SUM(stock)").
		Scan(&total).
		Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *cellarItemRepository) StockByColour(ctx context.Context, userID uint) ([]models.ColourStock, error) {
	var stocks []models.ColourStock
	err := r.db.WithContext(ctx).
		Model(&models.CellarItem{}).
		Joins("JOIN bottles ON bottles.id = cellar_items.bottle_id").
		Joins("JOIN colours ON colours.id = bottles.colour_id").
		Where("cellar_items.user_id = ?", userID).
		Select("colours.name AS colour, SUM(cellar_items.stock) AS stock").
		Group("colours.name").
		Order("colours.name").
		Scan(&stocks).
		Error
	return stocks, err
}

func (r *cellarItemRepository) Update(ctx context.Context, item *models.CellarItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cellarItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Select("Comments").
		Delete(&models.CellarItem{ID: id}).
		Error
}
