package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ShareLinkRepo defines the persistence operations for share links.
type ShareLinkRepo interface {
	// Create inserts a new link. Returns ErrDuplicate when the token is taken.
	Create(ctx context.Context, link domain.ShareLink) (domain.ShareLink, error)

	// GetByToken returns domain.ErrNotFound if no link carries that token.
	// Active and expiry state are not checked here.
	GetByToken(ctx context.Context, token string) (domain.ShareLink, error)

	// ListByTrip returns all links of a trip, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error)

	// SetActive flips is_active on one link scoped to tripID.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	SetActive(ctx context.Context, tripID, id uuid.UUID, active bool) (domain.ShareLink, error)
}

type pgShareLinkRepo struct {
	db db
}

// NewShareLinkRepo constructs a ShareLinkRepo backed by the provided db connection.
func NewShareLinkRepo(db db) ShareLinkRepo {
	return &pgShareLinkRepo{db: db}
}

const shareLinkColumns = `id, trip_id, token, is_active, created_at, expires_at`

func (r *pgShareLinkRepo) Create(ctx context.Context, link domain.ShareLink) (domain.ShareLink, error) {
	const q = `
		INSERT INTO share_links (trip_id, token, is_active, expires_at)
		VALUES (@trip_id, @token, @is_active, @expires_at)
		RETURNING ` + shareLinkColumns

	args := pgx.NamedArgs{
		"trip_id":    link.TripID,
		"token":      link.Token,
		"is_active":  link.IsActive,
		"expires_at": link.ExpiresAt,
	}

	result, err := scanShareLink(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ShareLink{}, fmt.Errorf("repo.ShareLinkRepo.Create: %w", ErrDuplicate)
		}
		return domain.ShareLink{}, fmt.Errorf("repo.ShareLinkRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgShareLinkRepo) GetByToken(ctx context.Context, token string) (domain.ShareLink, error) {
	const q = `SELECT ` + shareLinkColumns + ` FROM share_links WHERE token = @token`

	result, err := scanShareLink(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("repo.ShareLinkRepo.GetByToken: %w", err)
	}
	return result, nil
}

func (r *pgShareLinkRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ShareLink, error) {
	const q = `
		SELECT ` + shareLinkColumns + `
		FROM share_links
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ShareLinkRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	links := []domain.ShareLink{}
	for rows.Next() {
		l, err := scanShareLink(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ShareLinkRepo.ListByTrip: scan: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShareLinkRepo.ListByTrip: rows: %w", err)
	}
	return links, nil
}

func (r *pgShareLinkRepo) SetActive(ctx context.Context, tripID, id uuid.UUID, active bool) (domain.ShareLink, error) {
	const q = `
		UPDATE share_links
		SET is_active = @is_active
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + shareLinkColumns

	args := pgx.NamedArgs{"id": id, "trip_id": tripID, "is_active": active}

	result, err := scanShareLink(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("repo.ShareLinkRepo.SetActive: %w", err)
	}
	return result, nil
}

func scanShareLink(s scanner) (domain.ShareLink, error) {
	var (
		l         domain.ShareLink
		id        pgtype.UUID
		tripID    pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	if err := s.Scan(&id, &tripID, &l.Token, &l.IsActive, &l.CreatedAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShareLink{}, domain.ErrNotFound
		}
		return domain.ShareLink{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	l.TripID = uuid.UUID(tripID.Bytes)
	if expiresAt.Valid {
		t := expiresAt.Time
		l.ExpiresAt = &t
	}
	return l, nil
}
