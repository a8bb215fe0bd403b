package config

import (
	"os"
	"testing"
)

func TestResolveDefaultsPostgresRequiresDSN(t *testing.T) {
	unsetNotebookEnv()
	_ = os.Setenv("NOTEBOOK_DB_DRIVER", "postgres")
	defer unsetNotebookEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error when postgres driver selected without a DSN")
	}
}

func TestResolveDefaultsPostgresWithDSN(t *testing.T) {
	unsetNotebookEnv()
	_ = os.Setenv("NOTEBOOK_DB_DRIVER", "postgres")
	_ = os.Setenv("NOTEBOOK_POSTGRES_DSN", "postgres://localhost/notebook")
	defer unsetNotebookEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknownDriver(t *testing.T) {
	unsetNotebookEnv()
	_ = os.Setenv("NOTEBOOK_DB_DRIVER", "spanner")
	defer unsetNotebookEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error for unsupported DB_DRIVER")
	}
}
