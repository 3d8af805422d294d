package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// CategoryService groups a trip's points by display category.
type CategoryService struct {
	store repo.Store
}

// NewCategoryService constructs a CategoryService backed by store.
func NewCategoryService(store repo.Store) *CategoryService {
	return &CategoryService{store: store}
}

// Summary returns one entry per category present in the trip, largest first,
// ties broken by key.
func (s *CategoryService) Summary(ctx context.Context, tripID uuid.UUID) ([]domain.CategorySummary, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return nil, fmt.Errorf("service.CategoryService.Summary: %w", err)
	}

	points, err := r.Points.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.Summary: %w", err)
	}

	byKey := map[string]*domain.CategorySummary{}
	for _, p := range points {
		style := domain.ClassifyCategory(p.Category)
		sum, ok := byKey[style.Key]
		if !ok {
			sum = &domain.CategorySummary{CategoryStyle: style}
			byKey[style.Key] = sum
		}
		sum.Count++
		if p.Visited {
			sum.Visited++
		}
	}

	out := make([]domain.CategorySummary, 0, len(byKey))
	for _, sum := range byKey {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
