package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/testutil"
)

// newTestStore opens a transaction against the test database and returns a
// Store backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation. WithinTx on
// this store runs inside a savepoint.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestStore(t *testing.T) repo.Store {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewStore(tx)
}

// seedUser inserts a user with a random email.
func seedUser(t *testing.T, r repo.Repos) domain.User {
	t.Helper()
	u, err := r.Users.Ensure(context.Background(), domain.User{
		Email: uuid.NewString() + "@example.com",
		Name:  "Test User",
	})
	require.NoError(t, err)
	return u
}

// seedTrip inserts a trip owned by a fresh user.
func seedTrip(t *testing.T, r repo.Repos) domain.Trip {
	t.Helper()
	u := seedUser(t, r)
	trip, err := r.Trips.Create(context.Background(), domain.Trip{UserID: u.ID, Name: "Lisbon"})
	require.NoError(t, err)
	return trip
}

// seedPoint inserts a named point under tripID.
func seedPoint(t *testing.T, r repo.Repos, tripID uuid.UUID, name string) domain.Point {
	t.Helper()
	p, err := r.Points.Create(context.Background(), domain.Point{
		TripID:    tripID,
		Name:      name,
		Latitude:  38.71,
		Longitude: -9.14,
	})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }
