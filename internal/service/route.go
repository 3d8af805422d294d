package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// RouteService turns an ordered list of stops into a travel plan.
// It never writes: plans are recomputed on every request.
type RouteService struct {
	store  repo.Store
	router Router
	logger *slog.Logger
}

// NewRouteService constructs a RouteService calling router for directions.
func NewRouteService(store repo.Store, router Router, logger *slog.Logger) *RouteService {
	return &RouteService{store: store, router: router, logger: logger}
}

// ComposeItinerary routes through one day's items in order. When itemIDs is
// non-empty only those items are routed, still in day order.
func (s *RouteService) ComposeItinerary(ctx context.Context, tripID, itineraryID uuid.UUID, mode domain.TravelMode, itemIDs []string) (domain.RoutePlan, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.RoutePlan{}, fmt.Errorf("service.RouteService.ComposeItinerary: %w", err)
	}

	var (
		it     domain.Itinerary
		points []domain.Point
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		it, err = r.Itineraries.GetByID(gctx, tripID, itineraryID)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = r.Points.ListByTrip(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RoutePlan{}, fmt.Errorf("service.RouteService.ComposeItinerary: %w", err)
	}

	plan, err := s.Compose(ctx, stopsFor(it.Resolve(domain.IndexPoints(points)), itemIDs), mode)
	if err != nil {
		return domain.RoutePlan{}, fmt.Errorf("service.RouteService.ComposeItinerary: %w", err)
	}
	return plan, nil
}

// Compose filters out stops without a point or with non-finite coordinates
// and routes through the rest in the given order.
//
// TRANSIT with more than two stops is split into consecutive point-to-point
// legs fetched concurrently; the first failing leg fails the whole plan.
// Every other case is one request with the middle stops as waypoints.
func (s *RouteService) Compose(ctx context.Context, stops []domain.RouteStop, mode domain.TravelMode) (domain.RoutePlan, error) {
	valid := make([]domain.RouteStop, 0, len(stops))
	for _, st := range stops {
		if st.Usable() {
			valid = append(valid, st)
		}
	}
	if len(valid) < 2 {
		return domain.RoutePlan{}, fmt.Errorf("service.RouteService.Compose: %w: %d usable of %d",
			domain.ErrInsufficientPoints, len(valid), len(stops))
	}

	plan := domain.RoutePlan{
		Mode:    mode,
		Stops:   valid,
		MapsURL: domain.DirectionsURL(valid, mode),
	}

	if mode == domain.ModeTransit && len(valid) > 2 {
		legs, err := s.transitLegs(ctx, valid)
		if err != nil {
			return domain.RoutePlan{}, fmt.Errorf("service.RouteService.Compose: %w", err)
		}
		plan.Legs = legs
		return plan, nil
	}

	last := len(valid) - 1
	waypoints := make([]domain.LatLng, 0, last)
	for _, st := range valid[1:last] {
		waypoints = append(waypoints, st.Point.LatLng())
	}
	req := domain.RouteRequest{
		Origin:            valid[0].Point.LatLng(),
		Destination:       valid[last].Point.LatLng(),
		Waypoints:         waypoints,
		OptimizeWaypoints: mode != domain.ModeTransit,
		Mode:              mode,
	}

	res, err := s.router.Route(ctx, req)
	if err != nil {
		err = routeError(-1, err)
		s.logger.WarnContext(ctx, "route request failed", "mode", mode, "stops", len(valid), "error", err)
		return domain.RoutePlan{}, fmt.Errorf("service.RouteService.Compose: %w", err)
	}
	plan.Route = &res
	return plan, nil
}

// transitLegs requests legs i→i+1 concurrently. Siblings of a failed leg see
// a cancelled context; their results are discarded.
func (s *RouteService) transitLegs(ctx context.Context, stops []domain.RouteStop) ([]domain.RouteResult, error) {
	legs := make([]domain.RouteResult, len(stops)-1)

	g, gctx := errgroup.WithContext(ctx)
	for i := range legs {
		g.Go(func() error {
			res, err := s.router.Route(gctx, domain.RouteRequest{
				Origin:      stops[i].Point.LatLng(),
				Destination: stops[i+1].Point.LatLng(),
				Mode:        domain.ModeTransit,
			})
			if err != nil {
				return routeError(i, err)
			}
			legs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "transit leg failed", "legs", len(legs), "error", err)
		return nil, err
	}
	return legs, nil
}

// routeError tags err with the leg index, wrapping anything that is not
// already a provider error as a failed request.
func routeError(leg int, err error) error {
	var re *domain.RouteError
	if errors.As(err, &re) {
		tagged := *re
		tagged.Leg = leg
		return &tagged
	}
	return &domain.RouteError{Leg: leg, Status: domain.RouteStatusRequestFailed, Err: err}
}

// stopsFor orders the day's items by order value and keeps only itemIDs
// when any are given.
func stopsFor(view domain.ItineraryView, itemIDs []string) []domain.RouteStop {
	var keep map[string]bool
	if len(itemIDs) > 0 {
		keep = make(map[string]bool, len(itemIDs))
		for _, id := range itemIDs {
			keep[id] = true
		}
	}

	items := view.ByOrder()
	stops := make([]domain.RouteStop, 0, len(items))
	for _, ri := range items {
		if keep != nil && !keep[ri.Item.ID] {
			continue
		}
		stops = append(stops, domain.RouteStop{ItemID: ri.Item.ID, Point: ri.Point})
	}
	return stops
}
