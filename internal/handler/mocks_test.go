package handler_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

// Each mock is a test double with one function field per method.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, in domain.TripInput) (domain.TripView, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	view      func(ctx context.Context, id uuid.UUID) (domain.TripView, error)
	update    func(ctx context.Context, id uuid.UUID, in domain.TripInput) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, in domain.TripInput) (domain.TripView, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) View(ctx context.Context, id uuid.UUID) (domain.TripView, error) {
	return m.view(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, in domain.TripInput) (domain.Trip, error) {
	return m.update(ctx, id, in)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockPointServicer struct {
	create        func(ctx context.Context, tripID uuid.UUID, in domain.PointInput) (domain.Point, error)
	patch         func(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error)
	toggleVisited func(ctx context.Context, tripID, pointID uuid.UUID, visited bool) (domain.Point, error)
	delete        func(ctx context.Context, tripID, pointID uuid.UUID) error
}

func (m *mockPointServicer) Create(ctx context.Context, tripID uuid.UUID, in domain.PointInput) (domain.Point, error) {
	return m.create(ctx, tripID, in)
}
func (m *mockPointServicer) Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error) {
	return m.patch(ctx, tripID, pointID, patch)
}
func (m *mockPointServicer) ToggleVisited(ctx context.Context, tripID, pointID uuid.UUID, visited bool) (domain.Point, error) {
	return m.toggleVisited(ctx, tripID, pointID, visited)
}
func (m *mockPointServicer) Delete(ctx context.Context, tripID, pointID uuid.UUID) error {
	return m.delete(ctx, tripID, pointID)
}

type mockItineraryServicer struct {
	create     func(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Itinerary, error)
	list       func(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)
	get        func(ctx context.Context, tripID, itineraryID uuid.UUID) (domain.ItineraryView, error)
	delete     func(ctx context.Context, tripID, itineraryID uuid.UUID) error
	appendItem func(ctx context.Context, tripID, itineraryID, pointID uuid.UUID) (domain.ResolvedItem, error)
	reorder    func(ctx context.Context, tripID, itineraryID uuid.UUID, items []domain.ItemInput) (domain.Itinerary, error)
	removeItem func(ctx context.Context, tripID, itineraryID uuid.UUID, itemID string) (domain.Itinerary, error)
}

func (m *mockItineraryServicer) Create(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Itinerary, error) {
	return m.create(ctx, tripID, date)
}
func (m *mockItineraryServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	return m.list(ctx, tripID)
}
func (m *mockItineraryServicer) Get(ctx context.Context, tripID, itineraryID uuid.UUID) (domain.ItineraryView, error) {
	return m.get(ctx, tripID, itineraryID)
}
func (m *mockItineraryServicer) Delete(ctx context.Context, tripID, itineraryID uuid.UUID) error {
	return m.delete(ctx, tripID, itineraryID)
}
func (m *mockItineraryServicer) Append(ctx context.Context, tripID, itineraryID, pointID uuid.UUID) (domain.ResolvedItem, error) {
	return m.appendItem(ctx, tripID, itineraryID, pointID)
}
func (m *mockItineraryServicer) Reorder(ctx context.Context, tripID, itineraryID uuid.UUID, items []domain.ItemInput) (domain.Itinerary, error) {
	return m.reorder(ctx, tripID, itineraryID, items)
}
func (m *mockItineraryServicer) RemoveItem(ctx context.Context, tripID, itineraryID uuid.UUID, itemID string) (domain.Itinerary, error) {
	return m.removeItem(ctx, tripID, itineraryID, itemID)
}

type mockRouteServicer struct {
	compose func(ctx context.Context, tripID, itineraryID uuid.UUID, mode domain.TravelMode, itemIDs []string) (domain.RoutePlan, error)
}

func (m *mockRouteServicer) ComposeItinerary(ctx context.Context, tripID, itineraryID uuid.UUID, mode domain.TravelMode, itemIDs []string) (domain.RoutePlan, error) {
	return m.compose(ctx, tripID, itineraryID, mode, itemIDs)
}

type mockShareServicer struct {
	issue      func(ctx context.Context, tripID uuid.UUID, expiresAt *time.Time) (domain.ShareLink, error)
	list       func(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error)
	deactivate func(ctx context.Context, tripID, linkID uuid.UUID) (domain.ShareLink, error)
	resolve    func(ctx context.Context, token string) (domain.TripView, error)
}

func (m *mockShareServicer) Issue(ctx context.Context, tripID uuid.UUID, expiresAt *time.Time) (domain.ShareLink, error) {
	return m.issue(ctx, tripID, expiresAt)
}
func (m *mockShareServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error) {
	return m.list(ctx, tripID)
}
func (m *mockShareServicer) Deactivate(ctx context.Context, tripID, linkID uuid.UUID) (domain.ShareLink, error) {
	return m.deactivate(ctx, tripID, linkID)
}
func (m *mockShareServicer) Resolve(ctx context.Context, token string) (domain.TripView, error) {
	return m.resolve(ctx, token)
}

type mockCategoryServicer struct {
	summary func(ctx context.Context, tripID uuid.UUID) ([]domain.CategorySummary, error)
}

func (m *mockCategoryServicer) Summary(ctx context.Context, tripID uuid.UUID) ([]domain.CategorySummary, error) {
	return m.summary(ctx, tripID)
}

type mockExportServicer struct {
	export func(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.PointServicer     = (*mockPointServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.RouteServicer     = (*mockRouteServicer)(nil)
	_ handler.ShareServicer     = (*mockShareServicer)(nil)
	_ handler.CategoryServicer  = (*mockCategoryServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
	_ handler.Pinger            = (*mockPinger)(nil)
)
