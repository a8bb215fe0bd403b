package sqlite

import (
	"context"
	"testing"

	"github.com/nbsync/notebook-order/internal/store"
	"github.com/nbsync/notebook-order/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return NewWithDB(db)
}

func TestSQLiteStoreConformance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}
