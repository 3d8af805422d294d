package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// PointRequest is the body of POST /trips/{tripId}/points.
// Omitted coordinates default to 0,0 which marks the location as pending.
type PointRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// VisitedRequest is the body of PUT /trips/{tripId}/points/{pointId}/visited.
type VisitedRequest struct {
	Visited *bool `json:"visited"`
}

// CreatePoint handles POST /trips/{tripId}/points.
func (s *Server) CreatePoint(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body PointRequest
	if !decodeBody(w, r, &body) {
		return
	}

	p, err := s.points.Create(r.Context(), ids[0], body.toInput())
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PatchPoint handles PATCH /trips/{tripId}/points/{pointId}.
// Omitted fields are left alone; null clears a nullable text field.
func (s *Server) PatchPoint(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "pointId")
	if !ok {
		return
	}
	var patch domain.PointPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	p, err := s.points.Patch(r.Context(), ids[0], ids[1], patch)
	if err != nil {
		s.serviceError(w, r, "point", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SetVisited handles PUT /trips/{tripId}/points/{pointId}/visited.
func (s *Server) SetVisited(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "pointId")
	if !ok {
		return
	}
	var body VisitedRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Visited == nil {
		requestError(w, "visited is required")
		return
	}

	p, err := s.points.ToggleVisited(r.Context(), ids[0], ids[1], *body.Visited)
	if err != nil {
		s.serviceError(w, r, "point", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePoint handles DELETE /trips/{tripId}/points/{pointId}.
// Every itinerary item referencing the point is removed with it.
func (s *Server) DeletePoint(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "pointId")
	if !ok {
		return
	}

	if err := s.points.Delete(r.Context(), ids[0], ids[1]); err != nil {
		s.serviceError(w, r, "point", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b PointRequest) toInput() domain.PointInput {
	return domain.PointInput{
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Address:     b.Address,
		City:        b.City,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
	}
}
