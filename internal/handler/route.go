package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// RouteRequest is the body of POST .../itineraries/{itineraryId}/route.
// ItemIDs optionally restricts routing to a subset of the day's items; the
// day's order is kept either way.
type RouteRequest struct {
	Mode    string   `json:"mode"`
	ItemIDs []string `json:"itemIds,omitempty"`
}

// RouteStop is one routed stop.
type RouteStop struct {
	ItemID string        `json:"itemId"`
	Point  *domain.Point `json:"point"`
}

// RoutePlan is the computed plan. Route is the provider response for a
// single request; Legs holds one response per consecutive pair for
// multi-stop transit.
type RoutePlan struct {
	Mode    domain.TravelMode `json:"mode"`
	Stops   []RouteStop       `json:"stops"`
	Route   json.RawMessage   `json:"route,omitempty"`
	Legs    []json.RawMessage `json:"legs,omitempty"`
	MapsURL string            `json:"mapsUrl"`
}

// ComposeRoute handles POST /trips/{tripId}/itineraries/{itineraryId}/route.
// Nothing is persisted; the plan is recomputed on every call.
func (s *Server) ComposeRoute(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId", "itineraryId")
	if !ok {
		return
	}
	var body RouteRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &body) {
		return
	}
	mode, err := domain.ParseTravelMode(body.Mode)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}

	plan, err := s.routes.ComposeItinerary(r.Context(), ids[0], ids[1], mode, body.ItemIDs)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, routePlanToResponse(plan))
}

func routePlanToResponse(p domain.RoutePlan) RoutePlan {
	out := RoutePlan{
		Mode:    p.Mode,
		Stops:   make([]RouteStop, 0, len(p.Stops)),
		MapsURL: p.MapsURL,
	}
	for _, st := range p.Stops {
		out.Stops = append(out.Stops, RouteStop{ItemID: st.ItemID, Point: st.Point})
	}
	if p.Route != nil {
		out.Route = p.Route.Raw
	}
	for _, leg := range p.Legs {
		out.Legs = append(out.Legs, leg.Raw)
	}
	return out
}
