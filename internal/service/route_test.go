package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func stop(lat, lng float64) domain.RouteStop {
	p := domain.Point{ID: uuid.New(), Name: "p", Latitude: lat, Longitude: lng}
	return domain.RouteStop{ItemID: uuid.NewString(), Point: &p}
}

func newRouteService(router *fakeRouter) *service.RouteService {
	return service.NewRouteService(newWorld().store, router, discardLogger())
}

func TestRouteService_Compose_TwoPointsWalking(t *testing.T) {
	router := &fakeRouter{}
	svc := newRouteService(router)
	a, b := stop(38.70, -9.14), stop(38.71, -9.13)

	plan, err := svc.Compose(context.Background(), []domain.RouteStop{a, b}, domain.ModeWalking)

	require.NoError(t, err)
	calls := router.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, a.Point.LatLng(), calls[0].Origin)
	assert.Equal(t, b.Point.LatLng(), calls[0].Destination)
	assert.Empty(t, calls[0].Waypoints)
	assert.Equal(t, domain.ModeWalking, calls[0].Mode)
	require.NotNil(t, plan.Route)
	assert.Nil(t, plan.Legs)
	assert.Contains(t, plan.MapsURL, "travelmode=walking")
}

func TestRouteService_Compose_DrivingUsesWaypoints(t *testing.T) {
	router := &fakeRouter{}
	svc := newRouteService(router)
	stops := []domain.RouteStop{stop(1, 1), stop(2, 2), stop(3, 3), stop(4, 4)}

	_, err := svc.Compose(context.Background(), stops, domain.ModeDriving)

	require.NoError(t, err)
	calls := router.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.LatLng{Lat: 1, Lng: 1}, calls[0].Origin)
	assert.Equal(t, domain.LatLng{Lat: 4, Lng: 4}, calls[0].Destination)
	assert.Equal(t, []domain.LatLng{{Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}, calls[0].Waypoints)
	assert.True(t, calls[0].OptimizeWaypoints)
}

func TestRouteService_Compose_TwoPointsTransitIsSingleRequest(t *testing.T) {
	router := &fakeRouter{}
	svc := newRouteService(router)

	plan, err := svc.Compose(context.Background(), []domain.RouteStop{stop(1, 1), stop(2, 2)}, domain.ModeTransit)

	require.NoError(t, err)
	calls := router.calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].OptimizeWaypoints, "transit never reorders")
	assert.NotNil(t, plan.Route)
}

func TestRouteService_Compose_TransitLegs(t *testing.T) {
	router := &fakeRouter{respond: func(req domain.RouteRequest) (domain.RouteResult, error) {
		return domain.RouteResult{Raw: []byte(`{"leg":` + domain.FormatLatLng(req.Origin)[:1] + `}`)}, nil
	}}
	svc := newRouteService(router)
	stops := []domain.RouteStop{stop(1, 1), stop(2, 2), stop(3, 3), stop(4, 4)}

	plan, err := svc.Compose(context.Background(), stops, domain.ModeTransit)

	require.NoError(t, err)
	calls := router.calls()
	require.Len(t, calls, 3)

	pairs := map[domain.LatLng]domain.LatLng{}
	for _, c := range calls {
		assert.Empty(t, c.Waypoints)
		assert.False(t, c.OptimizeWaypoints)
		assert.Equal(t, domain.ModeTransit, c.Mode)
		pairs[c.Origin] = c.Destination
	}
	assert.Equal(t, map[domain.LatLng]domain.LatLng{
		{Lat: 1, Lng: 1}: {Lat: 2, Lng: 2},
		{Lat: 2, Lng: 2}: {Lat: 3, Lng: 3},
		{Lat: 3, Lng: 3}: {Lat: 4, Lng: 4},
	}, pairs)

	assert.Nil(t, plan.Route)
	require.Len(t, plan.Legs, 3)
	for i, leg := range plan.Legs {
		assert.JSONEq(t, `{"leg":`+string(rune('1'+i))+`}`, string(leg.Raw), "legs stay in stop order")
	}
}

func TestRouteService_Compose_TransitLegFailureFailsPlan(t *testing.T) {
	router := &fakeRouter{respond: func(req domain.RouteRequest) (domain.RouteResult, error) {
		if req.Origin.Lat == 2 {
			return domain.RouteResult{}, &domain.RouteError{Leg: -1, Status: domain.RouteStatusZeroResults}
		}
		return domain.RouteResult{Raw: []byte(`{}`)}, nil
	}}
	svc := newRouteService(router)
	stops := []domain.RouteStop{stop(1, 1), stop(2, 2), stop(3, 3), stop(4, 4)}

	_, err := svc.Compose(context.Background(), stops, domain.ModeTransit)

	require.ErrorIs(t, err, domain.ErrNoRoute)
	var re *domain.RouteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Leg, "the failing leg is 2→3")
	assert.Equal(t, domain.RouteStatusZeroResults, re.Status)
}

func TestRouteService_Compose_InsufficientPoints(t *testing.T) {
	tests := map[string][]domain.RouteStop{
		"no stops":        nil,
		"one stop":        {stop(1, 1)},
		"nan coordinates": {stop(1, 1), stop(math.NaN(), 2)},
		"inf coordinates": {stop(1, 1), stop(2, math.Inf(1))},
		"dangling item":   {stop(1, 1), {ItemID: "gone"}},
	}
	for name, stops := range tests {
		t.Run(name, func(t *testing.T) {
			router := &fakeRouter{}
			svc := newRouteService(router)

			_, err := svc.Compose(context.Background(), stops, domain.ModeDriving)

			assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
			assert.Empty(t, router.calls(), "no provider request may be made")
		})
	}
}

func TestRouteService_Compose_ZeroZeroIsUsable(t *testing.T) {
	router := &fakeRouter{}
	svc := newRouteService(router)

	_, err := svc.Compose(context.Background(), []domain.RouteStop{stop(0, 0), stop(1, 1)}, domain.ModeDriving)

	require.NoError(t, err)
	assert.Len(t, router.calls(), 1)
}

func TestRouteService_Compose_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"zero results", &domain.RouteError{Leg: -1, Status: domain.RouteStatusZeroResults}, domain.ErrNoRoute},
		{"denied", &domain.RouteError{Leg: -1, Status: "REQUEST_DENIED"}, domain.ErrUpstream},
		{"transport", errors.New("dial tcp: timeout"), domain.ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := &fakeRouter{respond: func(domain.RouteRequest) (domain.RouteResult, error) {
				return domain.RouteResult{}, tc.err
			}}
			svc := newRouteService(router)

			_, err := svc.Compose(context.Background(), []domain.RouteStop{stop(1, 1), stop(2, 2)}, domain.ModeBicycling)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRouteService_ComposeItinerary_OrdersAndFilters(t *testing.T) {
	w := newWorld()
	a := point(w.trip.ID, "A", 1, 1)
	b := point(w.trip.ID, "B", 2, 2)
	c := point(w.trip.ID, "C", 3, 3)
	it := domain.Itinerary{ID: uuid.New(), TripID: w.trip.ID, Items: []domain.ItineraryItem{
		{ID: "ic", PointID: c.ID, Order: 3},
		{ID: "ia", PointID: a.ID, Order: 1},
		{ID: "gone", PointID: uuid.New(), Order: 2},
		{ID: "ib", PointID: b.ID, Order: 2},
	}}
	w.its.getByID = func(context.Context, uuid.UUID, uuid.UUID) (domain.Itinerary, error) { return it, nil }
	w.points.listByTrip = func(context.Context, uuid.UUID) ([]domain.Point, error) {
		return []domain.Point{a, b, c}, nil
	}
	router := &fakeRouter{}
	svc := service.NewRouteService(w.store, router, discardLogger())

	plan, err := svc.ComposeItinerary(ownerCtx(), w.trip.ID, it.ID, domain.ModeDriving, nil)

	require.NoError(t, err)
	require.Len(t, plan.Stops, 3)
	assert.Equal(t, []string{"ia", "ib", "ic"}, []string{plan.Stops[0].ItemID, plan.Stops[1].ItemID, plan.Stops[2].ItemID})
	calls := router.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, a.LatLng(), calls[0].Origin)
	assert.Equal(t, c.LatLng(), calls[0].Destination)

	plan, err = svc.ComposeItinerary(ownerCtx(), w.trip.ID, it.ID, domain.ModeDriving, []string{"ic", "ia"})

	require.NoError(t, err)
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, "ia", plan.Stops[0].ItemID)
	assert.Equal(t, "ic", plan.Stops[1].ItemID)
}

func TestRouteService_ComposeItinerary_Forbidden(t *testing.T) {
	w := newWorld()
	router := &fakeRouter{}
	svc := service.NewRouteService(w.store, router, discardLogger())

	_, err := svc.ComposeItinerary(strangerCtx(), w.trip.ID, uuid.New(), domain.ModeDriving, nil)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, router.calls())
}
