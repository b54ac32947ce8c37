package service

import (
	"context"

	"cavea/internal/models"
	"cavea/internal/repository"
)

// ReferenceService exposes the read-only vocabularies consumed by the
// client's add/update form.
type ReferenceService interface {
	ListColours(ctx context.Context) ([]models.Colour, error)
	ListRegions(ctx context.Context) ([]models.Region, error)
	ListGrapeVarieties(ctx context.Context) ([]models.GrapeVariety, error)
}

type referenceService struct {
	refs repository.ReferenceRepository
}

func NewReferenceService(refs repository.ReferenceRepository) ReferenceService {
	return &referenceService{refs: refs}
}

func (s *referenceService) ListColours(ctx context.Context) ([]models.Colour, error) {
	return s.refs.ListColours(ctx)
}

func (s *referenceService) ListRegions(ctx context.Context) ([]models.Region, error) {
	return s.refs.ListRegions(ctx)
}

func (s *referenceService) ListGrapeVarieties(ctx context.Context) ([]models.GrapeVariety, error) {
	return s.refs.ListGrapeVarieties(ctx)
}
