package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ItineraryRequest is the body of POST /trips/{tripId}/itineraries.
type ItineraryRequest struct {
	Date *openapi_types.Date `json:"date"`
}

// AppendItemRequest is the body of POST .../items.
type AppendItemRequest struct {
	PointID uuid.UUID `json:"pointId"`
}

// ItemRequest is one entry of a reorder body. A missing id creates a new item.
type ItemRequest struct {
	ID      string     `json:"id,omitempty"`
	PointID *uuid.UUID `json:"pointId"`
	Order   int        `json:"order"`
}

// ReorderRequest is the body of PUT .../items. The list replaces the day's
// items wholesale.
type ReorderRequest struct {
	Items []ItemRequest `json:"items"`
}

// Itinerary is one day with its raw items.
type Itinerary struct {
	ID        uuid.UUID              `json:"id"`
	TripID    uuid.UUID              `json:"tripId"`
	Date      openapi_types.Date     `json:"date"`
	Items     []domain.ItineraryItem `json:"items"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// ResolvedItem is an item joined with its point. Point is null for an item
// whose point no longer exists.
type ResolvedItem struct {
	ID      string        `json:"id"`
	PointID uuid.UUID     `json:"pointId"`
	Order   int           `json:"order"`
	Point   *domain.Point `json:"point"`
}

// ItineraryView is one day with its items resolved, in stored order.
type ItineraryView struct {
	ID        uuid.UUID          `json:"id"`
	TripID    uuid.UUID          `json:"tripId"`
	Date      openapi_types.Date `json:"date"`
	Items     []ResolvedItem     `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CreateItinerary handles POST /trips/{tripId}/itineraries.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body ItineraryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	var date time.Time
	if body.Date != nil {
		date = body.Date.Time
	}

	it, err := s.itineraries.Create(r.Context(), ids[0], date)
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, itineraryToResponse(it))
}

// ListItineraries handles GET /trips/{tripId}/itineraries.
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	its, err := s.itineraries.List(r.Context(), ids[0])
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	out := make([]Itinerary, 0, len(its))
	for _, it := range its {
		out = append(out, itineraryToResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetItinerary returns one day with its items resolved against the trip's points.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}

	view, err := s.itineraries.Get(r.Context(), ids[0], ids[1])
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryViewToResponse(view))
}

// DeleteItinerary handles DELETE /trips/{tripId}/itineraries/{itineraryId}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}

	if err := s.itineraries.Delete(r.Context(), ids[0], ids[1]); err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendItem handles POST /trips/{tripId}/itineraries/{itineraryId}/items.
func (s *Server) AppendItem(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}
	var body AppendItemRequest
	if !decodeBody(w, r, &body) {
		return
	}

	item, err := s.itineraries.Append(r.Context(), ids[0], ids[1], body.PointID)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusCreated, resolvedItemToResponse(item))
}

// ReorderItems handles PUT /trips/{tripId}/itineraries/{itineraryId}/items.
func (s *Server) ReorderItems(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}
	var body ReorderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Items == nil {
		requestError(w, "items is required")
		return
	}

	inputs := make([]domain.ItemInput, 0, len(body.Items))
	for _, in := range body.Items {
		item := domain.ItemInput{ID: in.ID, Order: in.Order}
		if in.PointID != nil {
			item.PointID = *in.PointID
		}
		inputs = append(inputs, item)
	}

	it, err := s.itineraries.Reorder(r.Context(), ids[0], ids[1], inputs)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// RemoveItem handles DELETE /trips/{tripId}/itineraries/{itineraryId}/items/{itemId}.
func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}

	it, err := s.itineraries.RemoveItem(r.Context(), ids[0], ids[1], chi.URLParam(r, "itemId"))
	if err != nil {
		s.serviceError(w, r, "itinerary item", err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// --- mapping helpers --------------------------------------------------------

func itineraryToResponse(it domain.Itinerary) Itinerary {
	items := it.Items
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	return Itinerary{
		ID:        it.ID,
		TripID:    it.TripID,
		Date:      openapi_types.Date{Time: it.Date},
		Items:     items,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func itineraryViewToResponse(v domain.ItineraryView) ItineraryView {
	out := ItineraryView{
		ID:        v.Itinerary.ID,
		TripID:    v.Itinerary.TripID,
		Date:      openapi_types.Date{Time: v.Itinerary.Date},
		Items:     make([]ResolvedItem, 0, len(v.Items)),
		CreatedAt: v.Itinerary.CreatedAt,
		UpdatedAt: v.Itinerary.UpdatedAt,
	}
	for _, ri := range v.Items {
		out.Items = append(out.Items, resolvedItemToResponse(ri))
	}
	return out
}

func resolvedItemToResponse(ri domain.ResolvedItem) ResolvedItem {
	return ResolvedItem{
		ID:      ri.Item.ID,
		PointID: ri.Item.PointID,
		Order:   ri.Item.Order,
		Point:   ri.Point,
	}
}
