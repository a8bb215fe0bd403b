package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbsync/notebook-order/internal/importer"
	"github.com/nbsync/notebook-order/internal/replay"
	"github.com/nbsync/notebook-order/internal/store"
	"github.com/nbsync/notebook-order/internal/store/postgres"
	"github.com/nbsync/notebook-order/internal/store/sqlite"
)

func init() {
	var dbDriver, postgresDSN, sqlitePath, actorID string

	importCmd := &cobra.Command{
		Use:   "import NOTEBOOK_FILE",
		Short: "Import a Jupyter nbformat 4 notebook into a persisted store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var nb importer.Notebook
			if err := json.Unmarshal(raw, &nb); err != nil {
				return fmt.Errorf("parse notebook json: %w", err)
			}

			evs, err := importer.ImportNotebook(nb, importer.Options{
				ActorID:    actorID,
				ImportedAt: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			ctx := context.Background()
			s, err := openStore(ctx, dbDriver, postgresDSN, sqlitePath)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := replay.Events(ctx, s, evs); err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "imported %d events from %s\n", len(evs), args[0])
			return nil
		},
	}
	importCmd.Flags().StringVar(&dbDriver, "db-driver", "sqlite", "persisted store backend: postgres or sqlite")
	importCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "Postgres DSN (required with --db-driver postgres)")
	importCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "notebook.db", "SQLite database file path")
	importCmd.Flags().StringVar(&actorID, "actor-id", "", "actor id recorded as the importer (random if empty)")

	rootCmd.AddCommand(importCmd)
}

func openStore(ctx context.Context, driver, postgresDSN, sqlitePath string) (store.Store, error) {
	switch driver {
	case "postgres":
		db, err := postgres.Open(postgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Bootstrap(ctx, db); err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		db, err := sqlite.Open(sqlitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Bootstrap(ctx, db); err != nil {
			return nil, err
		}
		return sqlite.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported db-driver: %s", driver)
	}
}
