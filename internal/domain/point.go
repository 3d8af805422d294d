package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
)

// Point is a place of interest within a trip.
// Latitude and Longitude default to 0,0 which means "location not known yet";
// that is a valid value, not an error.
type Point struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"tripId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Visited     bool      `json:"visited"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasCoordinates reports whether both coordinates are finite numbers.
// 0,0 counts as having coordinates.
func (p Point) HasCoordinates() bool {
	return isFinite(p.Latitude) && isFinite(p.Longitude)
}

// LocationPending reports whether the point still carries the 0,0 sentinel.
func (p Point) LocationPending() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// LatLng returns the point's coordinates.
func (p Point) LatLng() LatLng {
	return LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

// PointInput carries the fields accepted when creating a point.
// Nil coordinates default to 0.
type PointInput struct {
	Name        string
	Description *string
	Category    *string
	Address     *string
	City        *string
	Latitude    *float64
	Longitude   *float64
}

// PointPatch is a partial update. Only specified fields are written.
// Null is accepted for the nullable text fields; for Name, Latitude,
// Longitude and Visited an explicit null is a validation error.
type PointPatch struct {
	Name        nullable.Nullable[string]  `json:"name,omitempty"`
	Description nullable.Nullable[string]  `json:"description,omitempty"`
	Category    nullable.Nullable[string]  `json:"category,omitempty"`
	Address     nullable.Nullable[string]  `json:"address,omitempty"`
	City        nullable.Nullable[string]  `json:"city,omitempty"`
	Latitude    nullable.Nullable[float64] `json:"latitude,omitempty"`
	Longitude   nullable.Nullable[float64] `json:"longitude,omitempty"`
	Visited     nullable.Nullable[bool]    `json:"visited,omitempty"`
}

// Normalized returns the patch with a specified name trimmed, matching what
// creation stores.
func (p PointPatch) Normalized() PointPatch {
	if name, err := p.Name.Get(); err == nil {
		p.Name = nullable.NewNullableWithValue(strings.TrimSpace(name))
	}
	return p
}

// LatLng is a coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
