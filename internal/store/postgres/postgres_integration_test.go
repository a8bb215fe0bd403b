package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nbsync/notebook-order/internal/store"
	"github.com/nbsync/notebook-order/internal/store/storetest"
)

// makePostgresStore spins up a disposable Postgres container per test run.
// Skips (rather than fails) when the local environment has no container
// runtime available, so this suite doesn't block a plain `go test ./...`.
func makePostgresStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("notebook"),
		postgres.WithUsername("notebook"),
		postgres.WithPassword("notebook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Bootstrap(ctx, db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	return NewWithDB(db)
}

func TestPostgresStoreConformance(t *testing.T) {
	storetest.Run(t, makePostgresStore)
}
