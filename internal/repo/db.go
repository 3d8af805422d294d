// Package repo contains all database access logic for the trip planner API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// txStarter is a db that can open a transaction. A pgx.Tx qualifies too:
// Begin on a transaction creates a savepoint.
type txStarter interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Users       UserRepo
	Trips       TripRepo
	Points      PointRepo
	Itineraries ItineraryRepo
	ShareLinks  ShareLinkRepo
}

// NewRepos binds all repositories to conn.
func NewRepos(conn db) Repos {
	return Repos{
		Users:       NewUserRepo(conn),
		Trips:       NewTripRepo(conn),
		Points:      NewPointRepo(conn),
		Itineraries: NewItineraryRepo(conn),
		ShareLinks:  NewShareLinkRepo(conn),
	}
}

// Store hands out repositories and runs multi-table writes atomically.
// Services depend on this interface so they can be unit-tested with an
// in-memory fake.
type Store interface {
	// Repos returns repositories bound to the underlying pool.
	Repos() Repos

	// WithinTx runs fn with repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}

type pgStore struct {
	conn  txStarter
	repos Repos
}

// NewStore constructs a Store backed by conn.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(conn txStarter) Store {
	return &pgStore{conn: conn, repos: NewRepos(conn)}
}

func (s *pgStore) Repos() Repos { return s.repos }

func (s *pgStore) WithinTx(ctx context.Context, fn func(tx Repos) error) error {
	err := pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.WithinTx: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
