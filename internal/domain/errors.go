package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing point name, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an operation needs a principal and the
// request carries none. Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when the principal is authenticated but does not
// own the trip being accessed. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrExpired is returned when a share link exists but its validity window has
// passed. It is deliberately distinct from ErrNotFound. Handlers map it to 410.
var ErrExpired = errors.New("expired")

// ErrInsufficientPoints is returned by route composition when fewer than two
// stops have usable coordinates. No provider call is made in that case.
var ErrInsufficientPoints = errors.New("insufficient points")

// ErrNoRoute is returned when the route provider answered ZERO_RESULTS.
var ErrNoRoute = errors.New("no route found")

// ErrUpstream is returned when the route provider (or another external
// collaborator) failed with anything other than ZERO_RESULTS.
var ErrUpstream = errors.New("upstream failure")

// Route provider statuses the orchestrator inspects.
const (
	RouteStatusOK            = "OK"
	RouteStatusZeroResults   = "ZERO_RESULTS"
	RouteStatusRequestFailed = "REQUEST_FAILED"
)

// RouteError describes a failed route provider call.
// Leg is the zero-based transit leg index, or -1 for a single-request route.
// errors.Is classifies it as ErrNoRoute for ZERO_RESULTS and ErrUpstream otherwise.
type RouteError struct {
	Leg    int
	Status string
	Err    error
}

func (e *RouteError) Error() string {
	msg := "route provider status " + e.Status
	if e.Leg >= 0 {
		msg = fmt.Sprintf("leg %d: %s", e.Leg+1, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the classification sentinel and the underlying cause.
func (e *RouteError) Unwrap() []error {
	class := ErrUpstream
	if e.Status == RouteStatusZeroResults {
		class = ErrNoRoute
	}
	if e.Err == nil {
		return []error{class}
	}
	return []error{class, e.Err}
}
