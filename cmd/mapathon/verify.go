package main

import (
	"errors"
	"fmt"

	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/spf13/cobra"
)

// errFindings is returned when a verification finds problems.
var errFindings = errors.New("integrity problems found")

var verifyCmd = &cobra.Command{
	Use:                "verify [SESSION]",
	Short:              "Check session isolation and territory distribution",
	Long:               "Check session isolation and territory distribution of a session, or of every session when none is given. Nothing is modified.",
	Args:               cobra.MaximumNArgs(1),
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := c.Context()
		be := backend.FromContext(ctx)

		if len(args) == 0 {
			r, err := be.Sweep(ctx)
			if err != nil {
				return err
			}
			if err := printResult(c, r, func() error {
				fmt.Fprintf(c.OutOrStdout(), "%d sessions: %d violations, %d duplicates, %d orphans\n",
					r.Sessions, r.Violations, r.Duplicates, r.Orphans)
				return nil
			}); err != nil {
				return err
			}
			if !r.Clean() {
				return errFindings
			}
			return nil
		}

		iso, err := be.VerifyIsolation(ctx, args[0])
		if err != nil {
			return err
		}
		dist, err := be.VerifyDistribution(ctx, args[0])
		if err != nil {
			return err
		}
		if err := printResult(c, map[string]interface{}{"isolation": iso, "distribution": dist}, func() error {
			fmt.Fprintf(c.OutOrStdout(), "%s: %d violations, %d duplicates, %d orphans\n",
				args[0], iso.ViolationsFound, dist.Duplicates, dist.Orphans)
			return nil
		}); err != nil {
			return err
		}
		if iso.ViolationsFound > 0 || dist.Duplicates > 0 || dist.Orphans > 0 {
			return errFindings
		}
		return nil
	},
}
