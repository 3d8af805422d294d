package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ShareRequest is the body of POST /trips/{tripId}/share. A missing or null
// expiresAt issues a link that never expires.
type ShareRequest struct {
	ExpiresAt *time.Time `json:"expiresAt"`
}

// SharedTrip is the public view behind a share link. Owner is always
// present and null when the owner could not be loaded.
type SharedTrip struct {
	TripView
	Owner *domain.Owner `json:"owner"`
}

// ShareLink is the owner's view of an issued link.
type ShareLink struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"tripId"`
	Token     string     `json:"token"`
	Path      string     `json:"path"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// IssueShare handles POST /trips/{tripId}/share.
func (s *Server) IssueShare(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	var body ShareRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &body) {
		return
	}

	link, err := s.shares.Issue(r.Context(), ids[0], body.ExpiresAt)
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, shareLinkToResponse(link))
}

// ListShares handles GET /trips/{tripId}/share.
func (s *Server) ListShares(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	links, err := s.shares.List(r.Context(), ids[0])
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	out := make([]ShareLink, 0, len(links))
	for _, l := range links {
		out = append(out, shareLinkToResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// DeactivateShare handles DELETE /trips/{tripId}/share/{linkId}.
func (s *Server) DeactivateShare(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "linkId")
	if !ok {
		return
	}

	link, err := s.shares.Deactivate(r.Context(), ids[0], ids[1])
	if err != nil {
		s.serviceError(w, r, "share link", err)
		return
	}
	writeJSON(w, http.StatusOK, shareLinkToResponse(link))
}

// ResolveShare handles GET /shared/{token}. It needs no principal.
func (s *Server) ResolveShare(w http.ResponseWriter, r *http.Request) {
	view, err := s.shares.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.serviceError(w, r, "share link", err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, SharedTrip{TripView: tripViewToResponse(view), Owner: view.Owner})
}

func shareLinkToResponse(l domain.ShareLink) ShareLink {
	return ShareLink{
		ID:        l.ID,
		TripID:    l.TripID,
		Token:     l.Token,
		Path:      "/shared/" + l.Token,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		ExpiresAt: l.ExpiresAt,
	}
}
