// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, point.go, itinerary.go, ...) but share the same Server
// struct so they can access its dependencies; Routes mounts them on chi.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.TripInput) (domain.TripView, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	View(ctx context.Context, tripID uuid.UUID) (domain.TripView, error)
	Update(ctx context.Context, tripID uuid.UUID, in domain.TripInput) (domain.Trip, error)
	Delete(ctx context.Context, tripID uuid.UUID) error
}

// PointServicer defines the point operations.
type PointServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, in domain.PointInput) (domain.Point, error)
	Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error)
	ToggleVisited(ctx context.Context, tripID, pointID uuid.UUID, visited bool) (domain.Point, error)
	Delete(ctx context.Context, tripID, pointID uuid.UUID) error
}

// ItineraryServicer defines the day and item operations.
type ItineraryServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Itinerary, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)
	Get(ctx context.Context, tripID, itineraryID uuid.UUID) (domain.ItineraryView, error)
	Delete(ctx context.Context, tripID, itineraryID uuid.UUID) error
	Append(ctx context.Context, tripID, itineraryID, pointID uuid.UUID) (domain.ResolvedItem, error)
	Reorder(ctx context.Context, tripID, itineraryID uuid.UUID, items []domain.ItemInput) (domain.Itinerary, error)
	RemoveItem(ctx context.Context, tripID, itineraryID uuid.UUID, itemID string) (domain.Itinerary, error)
}

// RouteServicer composes a day's route.
type RouteServicer interface {
	ComposeItinerary(ctx context.Context, tripID, itineraryID uuid.UUID, mode domain.TravelMode, itemIDs []string) (domain.RoutePlan, error)
}

// ShareServicer issues, lists, deactivates and resolves share links.
type ShareServicer interface {
	Issue(ctx context.Context, tripID uuid.UUID, expiresAt *time.Time) (domain.ShareLink, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error)
	Deactivate(ctx context.Context, tripID, linkID uuid.UUID) (domain.ShareLink, error)
	Resolve(ctx context.Context, token string) (domain.TripView, error)
}

// CategoryServicer summarises a trip's points per category.
type CategoryServicer interface {
	Summary(ctx context.Context, tripID uuid.UUID) ([]domain.CategorySummary, error)
}

// ExportServicer flattens a trip into export rows.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the dependencies of Server. Nil fields are allowed in
// tests that only exercise part of the surface.
type Services struct {
	Trips       TripServicer
	Points      PointServicer
	Itineraries ItineraryServicer
	Routes      RouteServicer
	Shares      ShareServicer
	Categories  CategoryServicer
	Export      ExportServicer
	DB          Pinger
}

// Server holds the handler dependencies.
type Server struct {
	trips       TripServicer
	points      PointServicer
	itineraries ItineraryServicer
	routes      RouteServicer
	shares      ShareServicer
	categories  CategoryServicer
	export      ExportServicer
	db          Pinger
	logger      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		trips:       svc.Trips,
		points:      svc.Points,
		itineraries: svc.Itineraries,
		routes:      svc.Routes,
		shares:      svc.Shares,
		categories:  svc.Categories,
		export:      svc.Export,
		db:          svc.DB,
		logger:      logger,
	}
}

// Routes returns the API router. shareLimit, when non-nil, wraps the
// anonymous share resolution endpoint. Authentication must already have run.
func (s *Server) Routes(shareLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		if shareLimit != nil {
			r.Use(shareLimit)
		}
		r.Get("/shared/{token}", s.ResolveShare)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Use(middleware.RequirePrincipal)

		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Post("/points", s.CreatePoint)
			r.Patch("/points/{pointId}", s.PatchPoint)
			r.Delete("/points/{pointId}", s.DeletePoint)
			r.Put("/points/{pointId}/visited", s.SetVisited)

			r.Get("/categories", s.GetCategories)
			r.Get("/export", s.GetExport)

			r.Post("/itineraries", s.CreateItinerary)
			r.Get("/itineraries", s.ListItineraries)
			r.Get("/itineraries/{itineraryId}", s.GetItinerary)
			r.Delete("/itineraries/{itineraryId}", s.DeleteItinerary)
			r.Post("/itineraries/{itineraryId}/items", s.AppendItem)
			r.Put("/itineraries/{itineraryId}/items", s.ReorderItems)
			r.Delete("/itineraries/{itineraryId}/items/{itemId}", s.RemoveItem)
			r.Post("/itineraries/{itineraryId}/route", s.ComposeRoute)

			r.Post("/share", s.IssueShare)
			r.Get("/share", s.ListShares)
			r.Delete("/share/{linkId}", s.DeactivateShare)
		})
	})

	return r
}
