package config

import (
	"os"
	"testing"
)

func unsetNotebookEnv() {
	_ = os.Unsetenv("NOTEBOOK_DB_DRIVER")
	_ = os.Unsetenv("NOTEBOOK_POSTGRES_DSN")
	_ = os.Unsetenv("NOTEBOOK_SQLITE_PATH")
	_ = os.Unsetenv("NOTEBOOK_HTTP_PORT")
}

func TestConfigLoadDefaults(t *testing.T) {
	unsetNotebookEnv()
	defer unsetNotebookEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "notebook.db" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected default config: %+v", cfg)
	}
}

func TestConfigLoadEnvOverride(t *testing.T) {
	unsetNotebookEnv()
	_ = os.Setenv("NOTEBOOK_HTTP_PORT", "9001")
	defer unsetNotebookEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9001 {
		t.Fatalf("http port env override failed, got %d", cfg.HTTPPort)
	}
}
