package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

func TestCreatePoint_201(t *testing.T) {
	tripID := uuid.New()
	var got domain.PointInput
	svc := &mockPointServicer{create: func(_ context.Context, id uuid.UUID, in domain.PointInput) (domain.Point, error) {
		assert.Equal(t, tripID, id)
		got = in
		return domain.Point{ID: uuid.New(), TripID: id, Name: in.Name, Latitude: *in.Latitude, Longitude: *in.Longitude}, nil
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodPost, "/trips/"+tripID.String()+"/points",
		`{"name":"Sagrada Família","category":"Cultura","latitude":41.4036,"longitude":2.1744}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Cultura", *got.Category)
	assert.Nil(t, got.Address)
	p := decode[domain.Point](t, rec)
	assert.Equal(t, "Sagrada Família", p.Name)
	assert.InDelta(t, 41.4036, p.Latitude, 1e-9)
}

func TestCreatePoint_Forbidden_403(t *testing.T) {
	svc := &mockPointServicer{create: func(context.Context, uuid.UUID, domain.PointInput) (domain.Point, error) {
		return domain.Point{}, fmt.Errorf("service.PointService.Create: %w", domain.ErrForbidden)
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodPost, "/trips/"+uuid.NewString()+"/points", `{"name":"x"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPatchPoint_DistinguishesNullFromOmitted(t *testing.T) {
	tripID, pointID := uuid.New(), uuid.New()
	var got domain.PointPatch
	svc := &mockPointServicer{patch: func(_ context.Context, tid, pid uuid.UUID, patch domain.PointPatch) (domain.Point, error) {
		assert.Equal(t, tripID, tid)
		assert.Equal(t, pointID, pid)
		got = patch
		return domain.Point{ID: pid, TripID: tid, Name: "Park Güell"}, nil
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodPatch, fmt.Sprintf("/trips/%s/points/%s", tripID, pointID),
		`{"name":"Park Güell","description":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Park Güell", got.Name.MustGet())
	assert.True(t, got.Description.IsSpecified())
	assert.True(t, got.Description.IsNull())
	assert.False(t, got.City.IsSpecified())
	assert.False(t, got.Latitude.IsSpecified())
}

func TestPatchPoint_NotFound_404(t *testing.T) {
	svc := &mockPointServicer{patch: func(context.Context, uuid.UUID, uuid.UUID, domain.PointPatch) (domain.Point, error) {
		return domain.Point{}, fmt.Errorf("service.PointService.Patch: %w", domain.ErrNotFound)
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodPatch, fmt.Sprintf("/trips/%s/points/%s", uuid.New(), uuid.New()), `{"visited":true}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "point not found", decode[handler.ErrorResponse](t, rec).Error.Message)
}

func TestSetVisited(t *testing.T) {
	svc := &mockPointServicer{toggleVisited: func(_ context.Context, tid, pid uuid.UUID, visited bool) (domain.Point, error) {
		return domain.Point{ID: pid, TripID: tid, Visited: visited}, nil
	}}
	h := newHTTPHandler(handler.Services{Points: svc})
	path := fmt.Sprintf("/trips/%s/points/%s/visited", uuid.New(), uuid.New())

	rec := do(t, h, http.MethodPut, path, `{"visited":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Point](t, rec).Visited)

	missing := do(t, h, http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, missing.Code)
}

func TestDeletePoint_204(t *testing.T) {
	called := false
	svc := &mockPointServicer{delete: func(context.Context, uuid.UUID, uuid.UUID) error {
		called = true
		return nil
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodDelete, fmt.Sprintf("/trips/%s/points/%s", uuid.New(), uuid.New()), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestDeletePoint_CascadeFailure_500(t *testing.T) {
	svc := &mockPointServicer{delete: func(context.Context, uuid.UUID, uuid.UUID) error {
		return fmt.Errorf("service.PointService.Delete: repo.Store.WithinTx: connection reset")
	}}
	h := newHTTPHandler(handler.Services{Points: svc})

	rec := do(t, h, http.MethodDelete, fmt.Sprintf("/trips/%s/points/%s", uuid.New(), uuid.New()), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
