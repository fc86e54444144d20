package main

import (
	"fmt"

	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/migrate"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:                "migrate",
		Short:              "Migrate the database to the latest version",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  cmd.OpenDBContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if err := migrate.Migrate(ctx, db.FromContext(ctx)); err != nil {
				return fmt.Errorf("migration: %w", err)
			}
			return printVersion(c)
		},
	}

	rollbackCmd = &cobra.Command{
		Use:   "rollback",
		Short: "Rollback the database to the previous version",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if err := migrate.Rollback(ctx, db.FromContext(ctx)); err != nil {
				return fmt.Errorf("rollback: %w", err)
			}
			return printVersion(c)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the database schema version",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return printVersion(c)
		},
	}
)

func init() {
	migrateCmd.AddCommand(rollbackCmd, versionCmd)
}

func printVersion(c *cobra.Command) error {
	ctx := c.Context()
	v, err := migrate.Version(ctx, db.FromContext(ctx))
	if err != nil {
		return err
	}
	return printResult(c, map[string]int64{"version": v}, func() error {
		fmt.Fprintf(c.OutOrStdout(), "schema version %d\n", v)
		return nil
	})
}
