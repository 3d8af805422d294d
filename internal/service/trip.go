package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// geocodeConcurrency bounds the number of in-flight geocoding calls while
// seeding a trip.
const geocodeConcurrency = 4

// TripService implements trip CRUD and the Trip Aggregator.
type TripService struct {
	store    repo.Store
	geocoder Geocoder
	logger   *slog.Logger
}

// NewTripService constructs a TripService. geocoder may be nil.
func NewTripService(store repo.Store, geocoder Geocoder, logger *slog.Logger) *TripService {
	return &TripService{store: store, geocoder: geocoder, logger: logger}
}

// Create validates and persists a new trip owned by the caller, together
// with any seed points. Seed points without coordinates are geocoded
// best-effort before the transaction opens.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.TripView, error) {
	if _, err := principal(ctx); err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	trip, err := validateTrip(in)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	seeds := make([]domain.Point, len(in.Points))
	for i, pin := range in.Points {
		p, err := newPoint(uuid.Nil, pin)
		if err != nil {
			return domain.TripView{}, fmt.Errorf("service.TripService.Create: points[%d]: %w", i, err)
		}
		seeds[i] = p
	}
	s.locateAll(ctx, seeds)

	view := domain.TripView{Points: []domain.Point{}, Itineraries: []domain.ItineraryView{}}
	err = s.store.WithinTx(ctx, func(tx repo.Repos) error {
		user, err := ensureUser(ctx, tx)
		if err != nil {
			return err
		}
		trip.UserID = user.ID

		view.Trip, err = tx.Trips.Create(ctx, trip)
		if err != nil {
			return err
		}
		for _, p := range seeds {
			p.TripID = view.Trip.ID
			created, err := tx.Points.Create(ctx, p)
			if err != nil {
				return err
			}
			view.Points = append(view.Points, created)
		}
		return nil
	})
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	view.Trip.PointCount = len(view.Points)
	return view, nil
}

// ListPaged returns one page of the caller's trips, most recently updated first.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	r := s.store.Repos()
	user, err := ensureUser(ctx, r)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}

	trips, total, err := r.Trips.ListByUserPaged(ctx, user.ID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	return trips, total, nil
}

// View assembles the owner's view of a trip.
func (s *TripService) View(ctx context.Context, tripID uuid.UUID) (domain.TripView, error) {
	r := s.store.Repos()
	trip, err := authorizeTrip(ctx, r, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.View: %w", err)
	}

	view, err := assemble(ctx, r, trip, false, s.logger)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.View: %w", err)
	}
	return view, nil
}

// PublicView assembles the read-only view served through a share link, with
// the owner reduced to name and image. Callers must validate the link first.
func (s *TripService) PublicView(ctx context.Context, tripID uuid.UUID) (domain.TripView, error) {
	r := s.store.Repos()
	trip, err := r.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.PublicView: %w", err)
	}

	view, err := assemble(ctx, r, trip, true, s.logger)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.PublicView: %w", err)
	}
	return view, nil
}

// Update overwrites name, description and dates. Seed points are ignored.
func (s *TripService) Update(ctx context.Context, tripID uuid.UUID, in domain.TripInput) (domain.Trip, error) {
	next, err := validateTrip(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	r := s.store.Repos()
	trip, err := authorizeTrip(ctx, r, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	trip.Name = next.Name
	trip.Description = next.Description
	trip.StartDate = next.StartDate
	trip.EndDate = next.EndDate

	updated, err := r.Trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the trip with its itineraries and points in one
// transaction. Share links are left behind and stop resolving.
func (s *TripService) Delete(ctx context.Context, tripID uuid.UUID) error {
	if _, err := authorizeTrip(ctx, s.store.Repos(), tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	err := s.store.WithinTx(ctx, func(tx repo.Repos) error {
		if err := tx.Itineraries.DeleteByTrip(ctx, tripID); err != nil {
			return err
		}
		if err := tx.Points.DeleteByTrip(ctx, tripID); err != nil {
			return err
		}
		return tx.Trips.Delete(ctx, tripID)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// locateAll geocodes pending seed points in place with bounded concurrency.
// Each goroutine writes only its own slice element.
func (s *TripService) locateAll(ctx context.Context, points []domain.Point) {
	if s.geocoder == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i := range points {
		g.Go(func() error {
			points[i] = locate(gctx, s.geocoder, s.logger, points[i])
			return nil
		})
	}
	_ = g.Wait()
}

// assemble loads points and itineraries concurrently and joins items to
// points in memory. Items whose point is gone keep a nil Point.
func assemble(ctx context.Context, r repo.Repos, trip domain.Trip, public bool, logger *slog.Logger) (domain.TripView, error) {
	var (
		points []domain.Point
		its    []domain.Itinerary
		owner  *domain.Owner
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = r.Points.ListByTrip(gctx, trip.ID)
		return err
	})
	g.Go(func() error {
		var err error
		its, err = r.Itineraries.ListByTrip(gctx, trip.ID)
		return err
	})
	if public {
		// A missing owner degrades the shared view instead of failing it.
		g.Go(func() error {
			u, err := r.Users.GetByID(gctx, trip.UserID)
			if err != nil {
				logger.WarnContext(gctx, "shared trip owner lookup failed", "trip", trip.ID, "error", err)
				return nil
			}
			owner = &domain.Owner{Name: u.Name, Image: u.Image}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TripView{}, err
	}

	idx := domain.IndexPoints(points)
	views := make([]domain.ItineraryView, 0, len(its))
	for _, it := range its {
		views = append(views, it.Resolve(idx))
	}

	trip.PointCount = len(points)
	view := domain.TripView{Trip: trip, Points: points, Itineraries: views}
	if public {
		view.Owner = owner
	}
	return view, nil
}

func validateTrip(in domain.TripInput) (domain.Trip, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: trip name is required", domain.ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Trip{}, fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return domain.Trip{
		Name:        name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}, nil
}
