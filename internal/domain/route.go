package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TravelMode is the mode passed to the route provider.
type TravelMode string

const (
	ModeDriving   TravelMode = "DRIVING"
	ModeWalking   TravelMode = "WALKING"
	ModeBicycling TravelMode = "BICYCLING"
	ModeTransit   TravelMode = "TRANSIT"
)

// ParseTravelMode accepts the four modes case-insensitively.
// An empty string defaults to DRIVING.
func ParseTravelMode(s string) (TravelMode, error) {
	switch m := TravelMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return ModeDriving, nil
	case ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown travel mode %q", ErrValidation, s)
	}
}

// RouteStop is one candidate stop handed to the orchestrator.
// Point is nil for a dangling itinerary item.
type RouteStop struct {
	ItemID string
	Point  *Point
}

// Usable reports whether the stop can be routed.
func (s RouteStop) Usable() bool {
	return s.Point != nil && s.Point.HasCoordinates()
}

// RouteRequest is what the orchestrator sends to the route provider.
type RouteRequest struct {
	Origin            LatLng
	Destination       LatLng
	Waypoints         []LatLng
	OptimizeWaypoints bool
	Mode              TravelMode
}

// RouteResult is the provider's answer for one request. Raw is opaque to the
// orchestrator and handed to the caller for rendering.
type RouteResult struct {
	Raw json.RawMessage
}

// RoutePlan is the derived, never-persisted outcome of route composition.
// Exactly one of Route or Legs is set: Legs for multi-stop transit, Route otherwise.
type RoutePlan struct {
	Mode    TravelMode
	Stops   []RouteStop
	Route   *RouteResult
	Legs    []RouteResult
	MapsURL string
}

// DirectionsURL builds a Google Maps directions deep link through the given
// stops, mirroring what a traveller would open on their phone.
func DirectionsURL(stops []RouteStop, mode TravelMode) string {
	if len(stops) < 2 {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", FormatLatLng(stops[0].Point.LatLng()))
	q.Set("destination", FormatLatLng(stops[len(stops)-1].Point.LatLng()))
	q.Set("travelmode", strings.ToLower(string(mode)))
	if len(stops) > 2 {
		wps := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			wps = append(wps, FormatLatLng(s.Point.LatLng()))
		}
		q.Set("waypoints", strings.Join(wps, "|"))
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// FormatLatLng renders ll as "lat,lng", the form route providers expect.
func FormatLatLng(ll LatLng) string {
	return strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(ll.Lng, 'f', -1, 64)
}
