// Package cmd holds the hooks shared by the mapathon commands.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/migrate"
	"github.com/gridcrew/mapathon/pkg/store"
	"github.com/gridcrew/mapathon/pkg/store/database"
	"github.com/spf13/cobra"
)

// OpenDBContext opens the configured database and attaches it to the
// command context. The schema is left as is.
func OpenDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return config.ErrNilConfig
	}
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	cmd.SetContext(db.WithContext(ctx, dbx))

	return nil
}

// InitBackendContext opens the database, brings the schema up to date and
// attaches the database, store and backend to the command context.
func InitBackendContext(cmd *cobra.Command, args []string) error {
	if err := OpenDBContext(cmd, args); err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	dbx := db.FromContext(ctx)
	if err := migrate.Migrate(ctx, dbx); err != nil {
		dbx.Close() // nolint: errcheck
		return fmt.Errorf("migration error: %w", err)
	}

	dbstore := database.New(ctx, dbx)
	ctx = store.WithContext(ctx, dbstore)
	be := backend.New(ctx, cfg, dbx, dbstore)
	ctx = backend.WithContext(ctx, be)

	cmd.SetContext(ctx)

	return nil
}

// CloseDBContext closes the database context.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dbx := db.FromContext(ctx)
	if dbx != nil {
		if err := dbx.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
