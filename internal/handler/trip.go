package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
// Points seeds a new trip and is ignored on update.
type TripRequest struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	Points      []PointRequest      `json:"points,omitempty"`
}

// Trip is the trip metadata representation.
type Trip struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	PointCount  *int                `json:"pointCount,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TripView is the fully assembled trip.
type TripView struct {
	Trip
	Points      []domain.Point  `json:"points"`
	Itineraries []ItineraryView `json:"itineraries"`
	Owner       *domain.Owner   `json:"owner,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	view, err := s.trips.Create(r.Context(), body.toInput(true))
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, tripViewToResponse(view))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
		count := t.PointCount
		data[i].PointCount = &count
	}
	writeJSON(w, http.StatusOK, TripList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	view, err := s.trips.View(r.Context(), ids[0])
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripViewToResponse(view))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), ids[0], body.toInput(false))
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), ids[0]); err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func (b TripRequest) toInput(withPoints bool) domain.TripInput {
	in := domain.TripInput{
		Name:        b.Name,
		Description: b.Description,
		StartDate:   dateToTime(b.StartDate),
		EndDate:     dateToTime(b.EndDate),
	}
	if withPoints {
		for _, p := range b.Points {
			in.Points = append(in.Points, p.toInput())
		}
	}
	return in
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   timeToDate(t.StartDate),
		EndDate:     timeToDate(t.EndDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tripViewToResponse(v domain.TripView) TripView {
	out := TripView{
		Trip:        tripToResponse(v.Trip),
		Points:      v.Points,
		Itineraries: make([]ItineraryView, 0, len(v.Itineraries)),
		Owner:       v.Owner,
	}
	if out.Points == nil {
		out.Points = []domain.Point{}
	}
	for _, it := range v.Itineraries {
		out.Itineraries = append(out.Itineraries, itineraryViewToResponse(it))
	}
	return out
}

func dateToTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func timeToDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
