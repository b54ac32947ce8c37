package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"cavea/internal/models"
	"cavea/internal/repository"
	"cavea/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("cellar item not found")
	ErrNotOwner     = errors.New("cellar item belongs to another user")
)

type CellarService interface {
	GetUserItems(ctx context.Context, userID uint) ([]models.CellarItem, error)
	GetLastAdded(ctx context.Context, userID uint) ([]models.CellarItem, error)
	GetTotalStock(ctx context.Context, userID uint) (int, error)
	GetStockByColour(ctx context.Context, userID uint) ([]models.ColourStock, error)
	GetItem(ctx context.Context, userID, itemID uint) (*models.CellarItem, error)
	FilterByColour(ctx context.Context, userID, colourID uint) ([]models.CellarItem, error)
	FilterByRegion(ctx context.Context, userID, regionID uint) ([]models.CellarItem, error)
	Create(ctx context.Context, userID uint, input CreateCellarItemInput) (*models.CellarItem, error)
	Update(ctx context.Context, userID, itemID uint, input UpdateCellarItemInput) (*models.CellarItem, error)
	IncrementStock(ctx context.Context, userID, itemID uint) (*models.CellarItem, error)
	DecrementStock(ctx context.Context, userID, itemID uint) (*models.CellarItem, error)
	Delete(ctx context.Context, userID, itemID uint) error
	Export(ctx context.Context, userID uint) (string, error)
}

type BottleInput struct {
	Name            string
	DomainName      *string
	ColourID        uint
	RegionID        uint
	GrapeVarietyIDs []uint
}

type CreateCellarItemInput struct {
	Bottle              BottleInput
	VintageYear         int
	AppellationName     *string
	Stock               int
	Rating              *float64
	Price               *float64
	Shop                *string
	OfferedBy           *string
	DrinkingWindowStart *int
	DrinkingWindowEnd   *int
}

type UpdateCellarItemInput struct {
	Stock               *int
	Rating              *float64
	Price               *float64
	Shop                *string
	OfferedBy           *string
	DrinkingWindowStart *int
	DrinkingWindowEnd   *int
}

type cellarService struct {
	db        *gorm.DB
	items     repository.CellarItemRepository
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	exportDir string
}

func NewCellarService(
	db *gorm.DB,
	items repository.CellarItemRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	exportDir string,
) CellarService {
	return &cellarService{
		db:        db,
		items:     items,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		exportDir: exportDir,
	}
}

func totalStockKey(userID uint) string {
	return fmt.Sprintf("cellar:%d:total_stock", userID)
}

func stockByColourKey(userID uint) string {
	return fmt.Sprintf("cellar:%d:stock_by_colour", userID)
}

func (s *cellarService) GetUserItems(ctx context.Context, userID uint) ([]models.CellarItem, error) {
	return s.items.GetByUser(ctx, userID)
}

func (s *cellarService) GetLastAdded(ctx context.Context, userID uint) ([]models.CellarItem, error) {
	return s.items.GetLastAdded(ctx, userID, 10)
}

func (s *cellarService) GetTotalStock(ctx context.Context, userID uint) (int, error) {
	cacheKey := totalStockKey(userID)

	var total int
	found, err := s.cacheRepo.GetJSON(ctx, cacheKey, &total)
	if err != nil {
		log.Printf("Failed to read total stock cache: %v", err)
	}
	if found {
		return total, nil
	}

	total, err = s.items.TotalStock(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total stock: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, total, s.cacheTTL); err != nil {
		log.Printf("Failed to cache total stock: %v", err)
	}
	return total, nil
}

func (s *cellarService) GetStockByColour(ctx context.Context, userID uint) ([]models.ColourStock, error) {
	cacheKey := stockByColourKey(userID)

	var stocks []models.ColourStock
	found, err := s.cacheRepo.GetJSON(ctx, cacheKey, &stocks)
	if err != nil {
		log.Printf("Failed to read stock-by-colour cache: %v", err)
	}
	if found {
		return stocks, nil
	}

	stocks, err = s.items.StockByColour(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stock by colour: %w", err)
	}
	if stocks == nil {
		stocks = []models.ColourStock{}
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, stocks, s.cacheTTL); err != nil {
		log.Printf("Failed to cache stock by colour: %v", err)
	}
	return stocks, nil
}

// GetItem loads one item and enforces ownership: a missing row is
// ErrItemNotFound, an existing row owned by someone else is ErrNotOwner.
func (s *cellarService) GetItem(ctx context.Context, userID, itemID uint) (*models.CellarItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load cellar item: %w", err)
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	return item, nil
}

func (s *cellarService) FilterByColour(ctx context.Context, userID, colourID uint) ([]models.CellarItem, error) {
	return s.items.GetByColour(ctx, userID, colourID)
}

func (s *cellarService) FilterByRegion(ctx context.Context, userID, regionID uint) ([]models.CellarItem, error) {
	return s.items.GetByRegion(ctx, userID, regionID)
}

// Create resolves every reference row and inserts the item inside a single
// transaction, so a failure anywhere leaves no orphaned reference rows.
func (s *cellarService) Create(ctx context.Context, userID uint, input CreateCellarItemInput) (*models.CellarItem, error) {
	var itemID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := repository.NewReferenceRepository(tx)
		bottles := repository.NewBottleRepository(tx)
		items := repository.NewCellarItemRepository(tx)

		var domainID *uint
		if input.Bottle.DomainName != nil && *input.Bottle.DomainName != "" {
			domain, err := refs.FindOrCreateDomain(ctx, *input.Bottle.DomainName)
			if err != nil {
				return fmt.Errorf("failed to resolve domain: %w", err)
			}
			domainID = &domain.ID
		}

		bottle := &models.Bottle{
			Name:         input.Bottle.Name,
			WineDomainID: domainID,
			ColourID:     input.Bottle.ColourID,
			RegionID:     input.Bottle.RegionID,
		}
		if err := bottles.FindOrCreate(ctx, bottle); err != nil {
			return fmt.Errorf("failed to resolve bottle: %w", err)
		}

		if input.Bottle.GrapeVarietyIDs != nil {
			varieties, err := refs.GetGrapeVarieties(ctx, input.Bottle.GrapeVarietyIDs)
			if err != nil {
				return fmt.Errorf("failed to load grape varieties: %w", err)
			}
			if err := bottles.SyncGrapeVarieties(ctx, bottle, varieties); err != nil {
				return fmt.Errorf("failed to sync grape varieties: %w", err)
			}
		}

		vintage, err := refs.FindOrCreateVintage(ctx, input.VintageYear)
		if err != nil {
			return fmt.Errorf("failed to resolve vintage: %w", err)
		}

		var appellationID *uint
		if input.AppellationName != nil && *input.AppellationName != "" {
			appellation, err := refs.FindOrCreateAppellation(ctx, *input.AppellationName)
			if err != nil {
				return fmt.Errorf("failed to resolve appellation: %w", err)
			}
			appellationID = &appellation.ID
		}

		item := &models.CellarItem{
			UserID:              userID,
			BottleID:            bottle.ID,
			VintageID:           vintage.ID,
			AppellationID:       appellationID,
			Stock:               input.Stock,
			Rating:              input.Rating,
			Price:               input.Price,
			Shop:                input.Shop,
			OfferedBy:           input.OfferedBy,
			DrinkingWindowStart: input.DrinkingWindowStart,
			DrinkingWindowEnd:   input.DrinkingWindowEnd,
		}
		if err := items.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create cellar item: %w", err)
		}

		itemID = item.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAggregates(ctx, userID)
	return s.items.GetByID(ctx, itemID)
}

func (s *cellarService) Update(ctx context.Context, userID, itemID uint, input UpdateCellarItemInput) (*models.CellarItem, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Stock != nil {
		item.Stock = *input.Stock
	}
	if input.Rating != nil {
		item.Rating = input.Rating
	}
	if input.Price != nil {
		item.Price = input.Price
	}
	if input.Shop != nil {
		item.Shop = input.Shop
	}
	if input.OfferedBy != nil {
		item.OfferedBy = input.OfferedBy
	}
	if input.DrinkingWindowStart != nil {
		item.DrinkingWindowStart = input.DrinkingWindowStart
	}
	if input.DrinkingWindowEnd != nil {
		item.DrinkingWindowEnd = input.DrinkingWindowEnd
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cellar item: %w", err)
	}

	s.invalidateAggregates(ctx, userID)
	return s.items.GetByID(ctx, itemID)
}

func (s *cellarService) IncrementStock(ctx context.Context, userID, itemID uint) (*models.CellarItem, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	item.Stock++
	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to increment stock: %w", err)
	}

	s.invalidateAggregates(ctx, userID)
	return item, nil
}

// DecrementStock clamps at zero rather than erroring on an empty item.
func (s *cellarService) DecrementStock(ctx context.Context, userID, itemID uint) (*models.CellarItem, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if item.Stock > 0 {
		item.Stock--
		if err := s.items.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		s.invalidateAggregates(ctx, userID)
	}
	return item, nil
}

func (s *cellarService) Delete(ctx context.Context, userID, itemID uint) error {
	if _, err := s.GetItem(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete cellar item: %w", err)
	}

	s.invalidateAggregates(ctx, userID)
	return nil
}

// Export writes the user's full cellar to an xlsx file and returns its path.
func (s *cellarService) Export(ctx context.Context, userID uint) (string, error) {
	items, err := s.items.GetByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load cellar items: %w", err)
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	filename := fmt.Sprintf("cellar_%d_%s.xlsx", userID, time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(s.exportDir, filename)

	if err := utils.CreateCellarExcel(path, items); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// invalidateAggregates drops the user's cached aggregates after a mutation so
// the next read recomputes them. Failures are logged, never surfaced.
func (s *cellarService) invalidateAggregates(ctx context.Context, userID uint) {
	err := s.cacheRepo.Delete(ctx, totalStockKey(userID), stockByColourKey(userID))
	if err != nil {
		log.Printf("Failed to invalidate aggregate cache for user %d: %v", userID, err)
	}
}
