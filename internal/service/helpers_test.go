package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

const (
	ownerEmail    = "owner@example.com"
	strangerEmail = "stranger@example.com"
)

// world is one owner with one trip, wired into mocks. Tests override the
// function fields they care about after calling newWorld.
type world struct {
	owner    domain.User
	stranger domain.User
	trip     domain.Trip

	users  *mockUserRepo
	trips  *mockTripRepo
	points *mockPointRepo
	its    *mockItineraryRepo
	links  *mockShareLinkRepo
	store  *fakeStore
}

func newWorld() *world {
	w := &world{
		owner:    domain.User{ID: uuid.New(), Email: ownerEmail, Name: "Olivia", Image: "o.png"},
		stranger: domain.User{ID: uuid.New(), Email: strangerEmail, Name: "Sam"},
	}
	w.trip = domain.Trip{ID: uuid.New(), UserID: w.owner.ID, Name: "Lisbon"}

	w.users = &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			switch email {
			case w.owner.Email:
				return w.owner, nil
			case w.stranger.Email:
				return w.stranger, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			if id == w.owner.ID {
				return w.owner, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
		ensure: func(_ context.Context, u domain.User) (domain.User, error) {
			if u.Email == w.owner.Email {
				return w.owner, nil
			}
			u.ID = uuid.New()
			return u, nil
		},
	}
	w.trips = &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id == w.trip.ID {
				return w.trip, nil
			}
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	w.points = &mockPointRepo{}
	w.its = &mockItineraryRepo{}
	w.links = &mockShareLinkRepo{}
	w.store = &fakeStore{repos: repo.Repos{
		Users:       w.users,
		Trips:       w.trips,
		Points:      w.points,
		Itineraries: w.its,
		ShareLinks:  w.links,
	}}
	return w
}

func ownerCtx() context.Context {
	return domain.WithPrincipal(context.Background(), domain.Principal{Email: ownerEmail})
}

func strangerCtx() context.Context {
	return domain.WithPrincipal(context.Background(), domain.Principal{Email: strangerEmail})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func point(tripID uuid.UUID, name string, lat, lng float64) domain.Point {
	return domain.Point{ID: uuid.New(), TripID: tripID, Name: name, Latitude: lat, Longitude: lng}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
