// Package maps talks to the Google Maps web services: Directions for route
// composition and Geocoding for best-effort point placement.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gmaps "googlemaps.github.io/maps"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultBaseURL is the public Google Maps API host.
const DefaultBaseURL = "https://maps.googleapis.com"

// ErrNoAPIKey is returned when the client was built without an API key.
var ErrNoAPIKey = errors.New("maps api key not configured")

// Client adapts the Google Maps SDK to the route and geocoding ports.
// It is safe for concurrent use.
type Client struct {
	gm *gmaps.Client // nil when no API key is configured
}

// NewClient constructs a Client. An empty baseURL means DefaultBaseURL and a
// nil httpClient gets a 10 second timeout. An empty apiKey is allowed: every
// call then fails with ErrNoAPIKey without touching the network.
func NewClient(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if apiKey == "" {
		return &Client{}, nil
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	gm, err := gmaps.NewClient(
		gmaps.WithAPIKey(apiKey),
		gmaps.WithBaseURL(strings.TrimRight(baseURL, "/")),
		gmaps.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &Client{gm: gm}, nil
}

var travelModes = map[domain.TravelMode]gmaps.Mode{
	domain.ModeDriving:   gmaps.TravelModeDriving,
	domain.ModeWalking:   gmaps.TravelModeWalking,
	domain.ModeBicycling: gmaps.TravelModeBicycling,
	domain.ModeTransit:   gmaps.TravelModeTransit,
}

// directionsResponse is the body handed back to callers. It has the shape of
// the Directions API response so clients can render it directly.
type directionsResponse struct {
	Status            string                    `json:"status"`
	GeocodedWaypoints []gmaps.GeocodedWaypoint `json:"geocoded_waypoints"`
	Routes            []gmaps.Route             `json:"routes"`
}

// Route requests directions for req. Every failure is a *domain.RouteError
// with Leg -1 carrying the provider status, or REQUEST_FAILED when the call
// never produced one.
func (c *Client) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	if c.gm == nil {
		return domain.RouteResult{}, &domain.RouteError{Leg: -1, Status: "REQUEST_DENIED", Err: ErrNoAPIKey}
	}

	dr := &gmaps.DirectionsRequest{
		Origin:      domain.FormatLatLng(req.Origin),
		Destination: domain.FormatLatLng(req.Destination),
		Mode:        travelModes[req.Mode],
		Optimize:    req.OptimizeWaypoints && len(req.Waypoints) > 0,
	}
	for _, wp := range req.Waypoints {
		dr.Waypoints = append(dr.Waypoints, domain.FormatLatLng(wp))
	}

	routes, waypoints, err := c.gm.Directions(ctx, dr)
	if err != nil {
		return domain.RouteResult{}, &domain.RouteError{Leg: -1, Status: statusOf(err), Err: err}
	}
	if len(routes) == 0 {
		return domain.RouteResult{}, &domain.RouteError{Leg: -1, Status: domain.RouteStatusZeroResults}
	}

	raw, err := json.Marshal(directionsResponse{
		Status:            domain.RouteStatusOK,
		GeocodedWaypoints: waypoints,
		Routes:            routes,
	})
	if err != nil {
		return domain.RouteResult{}, &domain.RouteError{Leg: -1, Status: domain.RouteStatusRequestFailed, Err: err}
	}
	return domain.RouteResult{Raw: raw}, nil
}

// Geocode resolves address to the first result's location.
// ZERO_RESULTS is reported as ok=false with a nil error.
func (c *Client) Geocode(ctx context.Context, address string) (domain.LatLng, bool, error) {
	if c.gm == nil {
		return domain.LatLng{}, false, ErrNoAPIKey
	}

	results, err := c.gm.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
	if err != nil {
		if statusOf(err) == domain.RouteStatusZeroResults {
			return domain.LatLng{}, false, nil
		}
		return domain.LatLng{}, false, fmt.Errorf("maps.Client.Geocode: %w: %w", domain.ErrUpstream, err)
	}
	if len(results) == 0 {
		return domain.LatLng{}, false, nil
	}
	loc := results[0].Geometry.Location
	return domain.LatLng{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}

// statusOf extracts the API status from an SDK error of the form
// "maps: STATUS - message". Transport and decoding errors carry no status.
func statusOf(err error) string {
	msg, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return domain.RouteStatusRequestFailed
	}
	status, _, _ := strings.Cut(msg, " ")
	if status == "" || strings.ToUpper(status) != status || strings.ContainsAny(status, ":,.") {
		return domain.RouteStatusRequestFailed
	}
	return status
}
