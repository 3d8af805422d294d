package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

type mockUserRepo struct {
	ensure     func(ctx context.Context, user domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Ensure(ctx context.Context, user domain.User) (domain.User, error) {
	return m.ensure(ctx, user)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByUserPaged func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUserPaged(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockPointRepo struct {
	create       func(ctx context.Context, point domain.Point) (domain.Point, error)
	getByID      func(ctx context.Context, tripID, pointID uuid.UUID) (domain.Point, error)
	listByTrip   func(ctx context.Context, tripID uuid.UUID) ([]domain.Point, error)
	patch        func(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error)
	delete       func(ctx context.Context, tripID, pointID uuid.UUID) error
	deleteByTrip func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockPointRepo) Create(ctx context.Context, point domain.Point) (domain.Point, error) {
	return m.create(ctx, point)
}
func (m *mockPointRepo) GetByID(ctx context.Context, tripID, pointID uuid.UUID) (domain.Point, error) {
	return m.getByID(ctx, tripID, pointID)
}
func (m *mockPointRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Point, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPointRepo) Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error) {
	return m.patch(ctx, tripID, pointID, patch)
}
func (m *mockPointRepo) Delete(ctx context.Context, tripID, pointID uuid.UUID) error {
	return m.delete(ctx, tripID, pointID)
}
func (m *mockPointRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockItineraryRepo struct {
	create              func(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	getByID             func(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error)
	getByIDForUpdate    func(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error)
	listByTrip          func(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)
	listByTripForUpdate func(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)
	updateItems         func(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	updateItemsBatch    func(ctx context.Context, its []domain.Itinerary) error
	delete              func(ctx context.Context, tripID, id uuid.UUID) error
	deleteByTrip        func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	return m.create(ctx, it)
}
func (m *mockItineraryRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockItineraryRepo) GetByIDForUpdate(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error) {
	return m.getByIDForUpdate(ctx, tripID, id)
}
func (m *mockItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockItineraryRepo) ListByTripForUpdate(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	return m.listByTripForUpdate(ctx, tripID)
}
func (m *mockItineraryRepo) UpdateItems(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	return m.updateItems(ctx, it)
}
func (m *mockItineraryRepo) UpdateItemsBatch(ctx context.Context, its []domain.Itinerary) error {
	return m.updateItemsBatch(ctx, its)
}
func (m *mockItineraryRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}
func (m *mockItineraryRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockShareLinkRepo struct {
	create     func(ctx context.Context, link domain.ShareLink) (domain.ShareLink, error)
	getByToken func(ctx context.Context, token string) (domain.ShareLink, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error)
	setActive  func(ctx context.Context, tripID, id uuid.UUID, active bool) (domain.ShareLink, error)
}

func (m *mockShareLinkRepo) Create(ctx context.Context, link domain.ShareLink) (domain.ShareLink, error) {
	return m.create(ctx, link)
}
func (m *mockShareLinkRepo) GetByToken(ctx context.Context, token string) (domain.ShareLink, error) {
	return m.getByToken(ctx, token)
}
func (m *mockShareLinkRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockShareLinkRepo) SetActive(ctx context.Context, tripID, id uuid.UUID, active bool) (domain.ShareLink, error) {
	return m.setActive(ctx, tripID, id, active)
}

// fakeStore runs WithinTx inline against the same mocks. A returned error
// stands for a rolled-back transaction.
type fakeStore struct {
	repos   repo.Repos
	txCalls int
}

func (s *fakeStore) Repos() repo.Repos { return s.repos }

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx repo.Repos) error) error {
	s.txCalls++
	return fn(s.repos)
}

// fakeRouter records every request and answers through respond.
type fakeRouter struct {
	mu       sync.Mutex
	requests []domain.RouteRequest
	respond  func(req domain.RouteRequest) (domain.RouteResult, error)
}

func (r *fakeRouter) Route(_ context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.respond == nil {
		return domain.RouteResult{Raw: []byte(`{"status":"OK"}`)}, nil
	}
	return r.respond(req)
}

func (r *fakeRouter) calls() []domain.RouteRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RouteRequest(nil), r.requests...)
}

type fakeGeocoder struct {
	mu      sync.Mutex
	queries []string
	results map[string]domain.LatLng
	err     error
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (domain.LatLng, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, address)
	if g.err != nil {
		return domain.LatLng{}, false, g.err
	}
	ll, ok := g.results[address]
	return ll, ok, nil
}

// compile-time checks.
var (
	_ repo.UserRepo      = (*mockUserRepo)(nil)
	_ repo.TripRepo      = (*mockTripRepo)(nil)
	_ repo.PointRepo     = (*mockPointRepo)(nil)
	_ repo.ItineraryRepo = (*mockItineraryRepo)(nil)
	_ repo.ShareLinkRepo = (*mockShareLinkRepo)(nil)
	_ repo.Store         = (*fakeStore)(nil)
	_ service.Router     = (*fakeRouter)(nil)
	_ service.Geocoder   = (*fakeGeocoder)(nil)
)
