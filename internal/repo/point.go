package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oapi-codegen/nullable"

	"github.com/pkordes/trip-planner/internal/domain"
)

// PointRepo defines the persistence operations for Points.
// All write and single-read operations are scoped by tripID to enforce ownership.
type PointRepo interface {
	// Create inserts a new point and returns the persisted record.
	Create(ctx context.Context, point domain.Point) (domain.Point, error)

	// GetByID retrieves a single point by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no point with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, pointID uuid.UUID) (domain.Point, error)

	// ListByTrip returns all points of a trip in creation order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Point, error)

	// Patch writes only the columns specified in patch, in a single
	// statement, and refreshes updated_at. Concurrent patches of different
	// fields therefore never overwrite each other.
	// Returns domain.ErrNotFound if no point with that ID exists under that trip.
	Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error)

	// Delete removes a point by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no point with that ID exists under that trip.
	Delete(ctx context.Context, tripID, pointID uuid.UUID) error

	// DeleteByTrip removes every point of a trip.
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) error
}

// pgPointRepo is the Postgres implementation of PointRepo.
type pgPointRepo struct {
	db db
}

// NewPointRepo constructs a PointRepo backed by the provided db connection.
func NewPointRepo(db db) PointRepo {
	return &pgPointRepo{db: db}
}

const pointColumns = `id, trip_id, name, description, category, address, city,
	latitude, longitude, visited, created_at, updated_at`

func (r *pgPointRepo) Create(ctx context.Context, point domain.Point) (domain.Point, error) {
	const q = `
		INSERT INTO points (trip_id, name, description, category, address, city, latitude, longitude, visited)
		VALUES (@trip_id, @name, @description, @category, @address, @city, @latitude, @longitude, @visited)
		RETURNING ` + pointColumns

	result, err := scanPoint(r.db.QueryRow(ctx, q, pointArgs(point)))
	if err != nil {
		return domain.Point{}, fmt.Errorf("repo.PointRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPointRepo) GetByID(ctx context.Context, tripID, pointID uuid.UUID) (domain.Point, error) {
	const q = `SELECT ` + pointColumns + ` FROM points WHERE id = @id AND trip_id = @trip_id`

	result, err := scanPoint(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": pointID, "trip_id": tripID}))
	if err != nil {
		return domain.Point{}, fmt.Errorf("repo.PointRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPointRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Point, error) {
	const q = `SELECT ` + pointColumns + ` FROM points WHERE trip_id = @trip_id ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PointRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	points := []domain.Point{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PointRepo.ListByTrip: scan: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PointRepo.ListByTrip: rows: %w", err)
	}
	return points, nil
}

func (r *pgPointRepo) Patch(ctx context.Context, tripID, pointID uuid.UUID, patch domain.PointPatch) (domain.Point, error) {
	args := pgx.NamedArgs{"id": pointID, "trip_id": tripID}
	var sets []string
	set := func(col string, value any) {
		sets = append(sets, col+" = @"+col)
		args[col] = value
	}

	if patch.Name.IsSpecified() {
		set("name", valueOrNil(patch.Name))
	}
	if patch.Description.IsSpecified() {
		set("description", valueOrNil(patch.Description))
	}
	if patch.Category.IsSpecified() {
		set("category", valueOrNil(patch.Category))
	}
	if patch.Address.IsSpecified() {
		set("address", valueOrNil(patch.Address))
	}
	if patch.City.IsSpecified() {
		set("city", valueOrNil(patch.City))
	}
	if patch.Latitude.IsSpecified() {
		set("latitude", valueOrNil(patch.Latitude))
	}
	if patch.Longitude.IsSpecified() {
		set("longitude", valueOrNil(patch.Longitude))
	}
	if patch.Visited.IsSpecified() {
		set("visited", valueOrNil(patch.Visited))
	}
	sets = append(sets, "updated_at = now()")

	q := `UPDATE points SET ` + strings.Join(sets, ", ") + `
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + pointColumns

	result, err := scanPoint(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Point{}, fmt.Errorf("repo.PointRepo.Patch: %w", err)
	}
	return result, nil
}

// valueOrNil maps an explicit null to SQL NULL.
func valueOrNil[T any](n nullable.Nullable[T]) any {
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return v
}

func (r *pgPointRepo) Delete(ctx context.Context, tripID, pointID uuid.UUID) error {
	const q = `DELETE FROM points WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": pointID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PointRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PointRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgPointRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	const q = `DELETE FROM points WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.PointRepo.DeleteByTrip: %w", err)
	}
	return nil
}

func pointArgs(p domain.Point) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":     p.TripID,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"address":     p.Address,
		"city":        p.City,
		"latitude":    p.Latitude,
		"longitude":   p.Longitude,
		"visited":     p.Visited,
	}
}

func scanPoint(s scanner) (domain.Point, error) {
	var (
		p      domain.Point
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &p.Name, &p.Description, &p.Category, &p.Address, &p.City,
		&p.Latitude, &p.Longitude, &p.Visited, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Point{}, domain.ErrNotFound
		}
		return domain.Point{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	return p, nil
}
