package service

import (
	"context"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Router is the external directions provider.
// A failed call returns a *domain.RouteError carrying the provider status.
type Router interface {
	Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error)
}

// Geocoder maps a free-text address to coordinates.
// ok is false when the provider found nothing; that is not an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (ll domain.LatLng, ok bool, err error)
}
