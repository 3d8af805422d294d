// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce ownership, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// principal returns the authenticated caller or ErrUnauthenticated.
func principal(ctx context.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// authorizeTrip loads the trip and requires the caller to own it.
// A caller with no user record is Forbidden, not NotFound: the trip exists.
func authorizeTrip(ctx context.Context, r repo.Repos, tripID uuid.UUID) (domain.Trip, error) {
	p, err := principal(ctx)
	if err != nil {
		return domain.Trip{}, err
	}

	trip, err := r.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("load trip: %w", err)
	}

	user, err := r.Users.GetByEmail(ctx, domain.NormalizeEmail(p.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, domain.ErrForbidden
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("load user: %w", err)
	}

	if trip.UserID != user.ID {
		return domain.Trip{}, domain.ErrForbidden
	}
	return trip, nil
}

// ensureUser creates the caller's user record on first use.
func ensureUser(ctx context.Context, r repo.Repos) (domain.User, error) {
	p, err := principal(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user, err := r.Users.Ensure(ctx, domain.User{
		Email: domain.NormalizeEmail(p.Email),
		Name:  p.Name,
		Image: p.Image,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("ensure user: %w", err)
	}
	return user, nil
}
