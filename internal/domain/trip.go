// Package domain contains the core data types for the trip planner.
// This package has no storage or transport dependencies and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner of trips. Users are identified by email and are created
// implicitly the first time an authenticated principal touches the API.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Image     string
	CreatedAt time.Time
}

// Owner is the reduced identity projection exposed on shared trip views.
type Owner struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Trip is the top-level aggregate; points and itineraries belong to a trip.
type Trip struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description *string
	StartDate   *time.Time // nil when the trip has no planned dates yet
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// PointCount is only populated by list queries.
	PointCount int
}

// TripInput carries the writable trip fields for create and update.
// Points seeds the trip on create (e.g. candidates from a document import)
// and is ignored on update.
type TripInput struct {
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Points      []PointInput
}

// TripView is the fully assembled trip: metadata, every point, and every
// itinerary with its items resolved to points.
// Owner is only set on the public (shared) path.
type TripView struct {
	Trip        Trip
	Points      []Point
	Itineraries []ItineraryView
	Owner       *Owner
}
