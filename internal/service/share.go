package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

const (
	shareTokenLength   = 16
	shareTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareTokenAttempts = 3
)

// ShareService issues and resolves share links.
type ShareService struct {
	store    repo.Store
	trips    *TripService
	now      func() time.Time
	newToken func() (string, error)
}

// NewShareService constructs a ShareService. trips renders resolved links.
func NewShareService(store repo.Store, trips *TripService) *ShareService {
	return &ShareService{store: store, trips: trips, now: time.Now, newToken: newShareToken}
}

// Issue mints a new active link for the trip. Ownership is checked by
// comparing the owner's stored email with the caller's. expiresAt may be nil
// for a link that never expires.
func (s *ShareService) Issue(ctx context.Context, tripID uuid.UUID, expiresAt *time.Time) (domain.ShareLink, error) {
	p, err := principal(ctx)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: %w", err)
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: %w: expiresAt must be in the future", domain.ErrValidation)
	}

	r := s.store.Repos()
	trip, err := r.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: %w", err)
	}
	owner, err := r.Users.GetByID(ctx, trip.UserID)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: owner: %w", err)
	}
	if domain.NormalizeEmail(owner.Email) != domain.NormalizeEmail(p.Email) {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: %w", domain.ErrForbidden)
	}

	for attempt := 1; ; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: token: %w", err)
		}
		link, err := r.ShareLinks.Create(ctx, domain.ShareLink{
			TripID:    tripID,
			Token:     token,
			IsActive:  true,
			ExpiresAt: expiresAt,
		})
		if errors.Is(err, repo.ErrDuplicate) && attempt < shareTokenAttempts {
			continue
		}
		if err != nil {
			return domain.ShareLink{}, fmt.Errorf("service.ShareService.Issue: %w", err)
		}
		return link, nil
	}
}

// Resolve returns the public view behind token. Unknown and inactive tokens
// are NotFound; an expired one is Expired. The link is checked before the
// trip is touched.
func (s *ShareService) Resolve(ctx context.Context, token string) (domain.TripView, error) {
	if token == "" {
		return domain.TripView{}, fmt.Errorf("service.ShareService.Resolve: %w", domain.ErrNotFound)
	}

	link, err := s.store.Repos().ShareLinks.GetByToken(ctx, token)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.ShareService.Resolve: %w", err)
	}
	if err := link.Check(s.now()); err != nil {
		return domain.TripView{}, fmt.Errorf("service.ShareService.Resolve: %w", err)
	}

	view, err := s.trips.PublicView(ctx, link.TripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.ShareService.Resolve: %w", err)
	}
	return view, nil
}

// List returns every link issued for the trip, newest first.
func (s *ShareService) List(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return nil, fmt.Errorf("service.ShareService.List: %w", err)
	}

	links, err := r.ShareLinks.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ShareService.List: %w", err)
	}
	return links, nil
}

// Deactivate turns a link off. Other links of the trip are unaffected.
func (s *ShareService) Deactivate(ctx context.Context, tripID, linkID uuid.UUID) (domain.ShareLink, error) {
	r := s.store.Repos()
	if _, err := authorizeTrip(ctx, r, tripID); err != nil {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Deactivate: %w", err)
	}

	link, err := r.ShareLinks.SetActive(ctx, tripID, linkID, false)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("service.ShareService.Deactivate: %w", err)
	}
	return link, nil
}

// newShareToken draws shareTokenLength symbols from shareTokenAlphabet.
func newShareToken() (string, error) {
	return gonanoid.Generate(shareTokenAlphabet, shareTokenLength)
}
