package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ItineraryService implements the Itinerary Store and the item ordering
// protocol.
//
// Append holds a row lock on the itinerary for its read-modify-write, so two
// concurrent appends never compute the same order. Reorder is a
// last-writer-wins overwrite of the whole list: a reorder built from a stale
// read silently drops items appended after that read.
type ItineraryService struct {
	store repo.Store
}

// NewItineraryService constructs an ItineraryService backed by store.
func NewItineraryService(store repo.Store) *ItineraryService {
	return &ItineraryService{store: store}
}

// Create adds an empty day to the trip.
func (s *ItineraryService) Create(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Itinerary, error) {
	if date.IsZero() {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w: date is required", domain.ErrValidation)
	}

	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}

	it, err := r.Itineraries.Create(ctx, domain.Itinerary{
		TripID: tripID,
		Date:   date,
		Items:  []domain.ItineraryItem{},
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	return it, nil
}

// List returns the trip's itineraries ordered by date ascending.
func (s *ItineraryService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}

	its, err := r.Itineraries.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	return its, nil
}

// Get returns one itinerary with its items resolved to points.
func (s *ItineraryService) Get(ctx context.Context, tripID, itineraryID uuid.UUID) (domain.ItineraryView, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.ItineraryView{}, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}

	it, err := r.Itineraries.GetByID(ctx, tripID, itineraryID)
	if err != nil {
		return domain.ItineraryView{}, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}
	points, err := r.Points.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.ItineraryView{}, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}
	return it.Resolve(domain.IndexPoints(points)), nil
}

// Delete removes one day. Items reference points, not the other way round,
// so nothing else needs rewriting.
func (s *ItineraryService) Delete(ctx context.Context, tripID, itineraryID uuid.UUID) error {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	if err := r.Itineraries.Delete(ctx, tripID, itineraryID); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}

// Append adds pointID to the end of the day with order max+1.
// A point that does not resolve within the trip still produces an item;
// the returned Point is nil in that case.
func (s *ItineraryService) Append(ctx context.Context, tripID, itineraryID, pointID uuid.UUID) (domain.ResolvedItem, error) {
	if pointID == uuid.Nil {
		return domain.ResolvedItem{}, fmt.Errorf("service.ItineraryService.Append: %w: pointId is required", domain.ErrValidation)
	}
	if _, err := authorizeTrip(ctx, s.store.Repos(), tripID); err != nil {
		return domain.ResolvedItem{}, fmt.Errorf("service.ItineraryService.Append: %w", err)
	}

	var out domain.ResolvedItem
	err := s.store.WithinTx(ctx, func(tx repo.Repos) error {
		it, err := tx.Itineraries.GetByIDForUpdate(ctx, tripID, itineraryID)
		if err != nil {
			return err
		}

		item := it.Append(pointID)
		if _, err := tx.Itineraries.UpdateItems(ctx, it); err != nil {
			return err
		}
		out.Item = item

		point, err := tx.Points.GetByID(ctx, tripID, pointID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err != nil:
			return err
		}
		out.Point = &point
		return nil
	})
	if err != nil {
		return domain.ResolvedItem{}, fmt.Errorf("service.ItineraryService.Append: %w", err)
	}
	return out, nil
}

// Reorder replaces the whole item list with items, verbatim. Inputs without
// an id receive a fresh one.
func (s *ItineraryService) Reorder(ctx context.Context, tripID, itineraryID uuid.UUID, items []domain.ItemInput) (domain.Itinerary, error) {
	if err := validateItems(items); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}

	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}

	it := domain.Itinerary{ID: itineraryID, TripID: tripID}
	it.ReplaceItems(items)

	updated, err := r.Itineraries.UpdateItems(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}
	return updated, nil
}

// RemoveItem drops a single item by id. An unknown item is NotFound.
func (s *ItineraryService) RemoveItem(ctx context.Context, tripID, itineraryID uuid.UUID, itemID string) (domain.Itinerary, error) {
	if _, err := authorizeTrip(ctx, s.store.Repos(), tripID); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.RemoveItem: %w", err)
	}

	var out domain.Itinerary
	err := s.store.WithinTx(ctx, func(tx repo.Repos) error {
		it, err := tx.Itineraries.GetByIDForUpdate(ctx, tripID, itineraryID)
		if err != nil {
			return err
		}
		if !it.RemoveItem(itemID) {
			return fmt.Errorf("item %q: %w", itemID, domain.ErrNotFound)
		}
		out, err = tx.Itineraries.UpdateItems(ctx, it)
		return err
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.RemoveItem: %w", err)
	}
	return out, nil
}

func validateItems(items []domain.ItemInput) error {
	seen := make(map[string]struct{}, len(items))
	for i, in := range items {
		if in.PointID == uuid.Nil {
			return fmt.Errorf("%w: items[%d].pointId is required", domain.ErrValidation, i)
		}
		if in.Order < 1 {
			return fmt.Errorf("%w: items[%d].order must be positive", domain.ErrValidation, i)
		}
		if in.ID == "" {
			continue
		}
		if _, dup := seen[in.ID]; dup {
			return fmt.Errorf("%w: items[%d].id %q is repeated", domain.ErrValidation, i, in.ID)
		}
		seen[in.ID] = struct{}{}
	}
	return nil
}
