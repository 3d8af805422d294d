package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShareLink grants read-only, unauthenticated access to one trip.
// A trip may have any number of links; each is valid on its own until it is
// deactivated or expires.
type ShareLink struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Token     string
	IsActive  bool
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means the link never expires
}

// Check returns ErrNotFound for an inactive link and ErrExpired when
// ExpiresAt is at or before now.
func (l ShareLink) Check(now time.Time) error {
	if !l.IsActive {
		return ErrNotFound
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return ErrExpired
	}
	return nil
}
