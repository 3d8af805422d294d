package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ItineraryRepo defines the persistence operations for Itineraries.
// The item list is stored as one jsonb column and always written whole.
type ItineraryRepo interface {
	// Create inserts a new itinerary and returns the persisted record.
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// GetByID retrieves an itinerary scoped to the given tripID.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error)

	// GetByIDForUpdate is GetByID plus a row lock held until the surrounding
	// transaction ends. Only meaningful inside Store.WithinTx.
	GetByIDForUpdate(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error)

	// ListByTrip returns all itineraries of a trip ordered by date ascending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)

	// ListByTripForUpdate is ListByTrip plus row locks on every returned row.
	ListByTripForUpdate(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error)

	// UpdateItems overwrites the item list of one itinerary.
	// Returns domain.ErrNotFound if it does not exist under its trip.
	UpdateItems(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// UpdateItemsBatch overwrites the item lists of several itineraries in a
	// single round trip.
	UpdateItemsBatch(ctx context.Context, its []domain.Itinerary) error

	// Delete removes an itinerary scoped to the given tripID.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	Delete(ctx context.Context, tripID, id uuid.UUID) error

	// DeleteByTrip removes every itinerary of a trip.
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, trip_id, date, items, created_at, updated_at`

const updateItemsQuery = `
	UPDATE itineraries
	SET items = @items, updated_at = now()
	WHERE id = @id AND trip_id = @trip_id
	RETURNING ` + itineraryColumns

func (r *pgItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	const q = `
		INSERT INTO itineraries (trip_id, date, items)
		VALUES (@trip_id, @date, @items)
		RETURNING ` + itineraryColumns

	items, err := encodeItems(it.Items)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"trip_id": it.TripID,
		"date":    it.Date,
		"items":   items,
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error) {
	const q = `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id AND trip_id = @trip_id`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) GetByIDForUpdate(ctx context.Context, tripID, id uuid.UUID) (domain.Itinerary, error) {
	const q = `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id AND trip_id = @trip_id FOR UPDATE`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByIDForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE trip_id = @trip_id
		ORDER BY date, created_at, id`

	its, err := r.list(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	return its, nil
}

func (r *pgItineraryRepo) ListByTripForUpdate(ctx context.Context, tripID uuid.UUID) ([]domain.Itinerary, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE trip_id = @trip_id
		ORDER BY date, created_at, id
		FOR UPDATE`

	its, err := r.list(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripForUpdate: %w", err)
	}
	return its, nil
}

func (r *pgItineraryRepo) list(ctx context.Context, q string, tripID uuid.UUID) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	its := []domain.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		its = append(its, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return its, nil
}

func (r *pgItineraryRepo) UpdateItems(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	items, err := encodeItems(it.Items)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.UpdateItems: %w", err)
	}

	args := pgx.NamedArgs{"id": it.ID, "trip_id": it.TripID, "items": items}

	result, err := scanItinerary(r.db.QueryRow(ctx, updateItemsQuery, args))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.UpdateItems: %w", err)
	}
	return result, nil
}

// UpdateItemsBatch queues one UPDATE per itinerary and fails on the first
// statement that errors or matches no row.
func (r *pgItineraryRepo) UpdateItemsBatch(ctx context.Context, its []domain.Itinerary) error {
	if len(its) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range its {
		items, err := encodeItems(it.Items)
		if err != nil {
			return fmt.Errorf("repo.ItineraryRepo.UpdateItemsBatch: %w", err)
		}
		batch.Queue(updateItemsQuery, pgx.NamedArgs{"id": it.ID, "trip_id": it.TripID, "items": items})
	}

	br := r.db.SendBatch(ctx, batch)
	for i := range its {
		if _, err := scanItinerary(br.QueryRow()); err != nil {
			_ = br.Close()
			return fmt.Errorf("repo.ItineraryRepo.UpdateItemsBatch: itinerary %s: %w", its[i].ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("repo.ItineraryRepo.UpdateItemsBatch: close: %w", err)
	}
	return nil
}

func (r *pgItineraryRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgItineraryRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.ItineraryRepo.DeleteByTrip: %w", err)
	}
	return nil
}

// encodeItems marshals the item list for the jsonb column. A nil list is
// stored as [] so the column never holds JSON null.
func encodeItems(items []domain.ItineraryItem) ([]byte, error) {
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}

func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it     domain.Itinerary
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
		items  []byte
	)
	if err := s.Scan(&id, &tripID, &date, &items, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	it.Date = date.Time
	it.Items = []domain.ItineraryItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &it.Items); err != nil {
			return domain.Itinerary{}, fmt.Errorf("decode items: %w", err)
		}
	}
	return it, nil
}
