package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// PointService implements the Point Store: create, patch, delete with
// itinerary cascade, and visited toggling.
type PointService struct {
	store    repo.Store
	geocoder Geocoder
	logger   *slog.Logger
}

// NewPointService constructs a PointService. geocoder may be nil, in which
// case points without coordinates keep the 0,0 sentinel.
func NewPointService(store repo.Store, geocoder Geocoder, logger *slog.Logger) *PointService {
	return &PointService{store: store, geocoder: geocoder, logger: logger}
}

// Create validates and persists a new point under tripID.
func (s *PointService) Create(ctx context.Context, tripID uuid.UUID, in domain.PointInput) (domain.Point, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Create: %w", err)
	}

	point, err := newPoint(tripID, in)
	if err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Create: %w", err)
	}
	point = locate(ctx, s.geocoder, s.logger, point)

	created, err := r.Points.Create(ctx, point)
	if err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Create: %w", err)
	}
	return created, nil
}

// Patch writes only the fields present in patch. updated_at is refreshed
// even when the patch is empty. A patched name is trimmed like a new one.
func (s *PointService) Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error) {
	patch = patch.Normalized()
	if err := validatePatch(patch); err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Patch: %w", err)
	}

	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Patch: %w", err)
	}

	updated, err := r.Points.Patch(ctx, tripID, pointID, patch)
	if err != nil {
		return domain.Point{}, fmt.Errorf("service.PointService.Patch: %w", err)
	}
	return updated, nil
}

// ToggleVisited sets the visited flag and nothing else.
func (s *PointService) ToggleVisited(ctx context.Context, tripID, pointID uuid.UUID, visited bool) (domain.Point, error) {
	return s.Patch(ctx, tripID, pointID, domain.PointPatch{Visited: nullable.NewNullableWithValue(visited)})
}

// Delete removes the point and every itinerary item that references it.
// The item rewrites and the point delete commit together or not at all;
// only itineraries whose list changed are rewritten.
func (s *PointService) Delete(ctx context.Context, tripID, pointID uuid.UUID) error {
	if _, err := authorizeTrip(ctx, s.store.Repos(), tripID); err != nil {
		return fmt.Errorf("service.PointService.Delete: %w", err)
	}

	err := s.store.WithinTx(ctx, func(tx repo.Repos) error {
		its, err := tx.Itineraries.ListByTripForUpdate(ctx, tripID)
		if err != nil {
			return err
		}

		var changed []domain.Itinerary
		for i := range its {
			if its[i].RemovePoint(pointID) {
				changed = append(changed, its[i])
			}
		}
		if err := tx.Itineraries.UpdateItemsBatch(ctx, changed); err != nil {
			return err
		}
		return tx.Points.Delete(ctx, tripID, pointID)
	})
	if err != nil {
		return fmt.Errorf("service.PointService.Delete: %w", err)
	}
	return nil
}

// newPoint validates in and maps it onto a Point. Nil coordinates become 0.
func newPoint(tripID uuid.UUID, in domain.PointInput) (domain.Point, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Point{}, fmt.Errorf("%w: point name is required", domain.ErrValidation)
	}

	p := domain.Point{
		TripID:      tripID,
		Name:        name,
		Description: in.Description,
		Category:    in.Category,
		Address:     in.Address,
		City:        in.City,
	}
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	if err := validateCoordinates(p.Latitude, p.Longitude); err != nil {
		return domain.Point{}, err
	}
	return p, nil
}

func validatePatch(p domain.PointPatch) error {
	if p.Name.IsSpecified() {
		if name, err := p.Name.Get(); err != nil || name == "" {
			return fmt.Errorf("%w: point name cannot be empty", domain.ErrValidation)
		}
	}
	if p.Latitude.IsNull() || p.Longitude.IsNull() {
		return fmt.Errorf("%w: coordinates cannot be null", domain.ErrValidation)
	}
	if p.Visited.IsNull() {
		return fmt.Errorf("%w: visited cannot be null", domain.ErrValidation)
	}
	if lat, err := p.Latitude.Get(); err == nil {
		if err := validateCoordinates(lat, 0); err != nil {
			return err
		}
	}
	if lng, err := p.Longitude.Get(); err == nil {
		if err := validateCoordinates(0, lng); err != nil {
			return err
		}
	}
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", domain.ErrValidation)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", domain.ErrValidation)
	}
	return nil
}

// locate fills in coordinates for a point still at 0,0 that has an address.
// Geocoding is best-effort: misses and provider errors leave the point as is.
func locate(ctx context.Context, g Geocoder, logger *slog.Logger, p domain.Point) domain.Point {
	if g == nil || !p.LocationPending() {
		return p
	}
	query := geocodeQuery(p)
	if query == "" {
		return p
	}

	ll, ok, err := g.Geocode(ctx, query)
	if err != nil {
		logger.WarnContext(ctx, "geocoding failed", "point", p.Name, "error", err)
		return p
	}
	if !ok {
		logger.DebugContext(ctx, "geocoding found nothing", "point", p.Name)
		return p
	}
	p.Latitude, p.Longitude = ll.Lat, ll.Lng
	return p
}

func geocodeQuery(p domain.Point) string {
	var parts []string
	for _, s := range []*string{p.Address, p.City} {
		if s != nil && strings.TrimSpace(*s) != "" {
			parts = append(parts, strings.TrimSpace(*s))
		}
	}
	return strings.Join(parts, ", ")
}
