package main

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/spf13/cobra"
)

var territoryCmd = &cobra.Command{
	Use:                "territory",
	Aliases:            []string{"territories"},
	Short:              "Distribute and track territories",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	distributeCmd := &cobra.Command{
		Use:   "distribute SESSION",
		Short: "Hand the active regions out to the session's teams",
		Long:  "Hand the active regions out to the session's teams round-robin. Territories can only be distributed once per session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			d, err := backend.FromContext(ctx).DistributeTerritories(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(c, d, func() error {
				fmt.Fprintf(c.OutOrStdout(), "distributed %d regions to %d teams\n", d.RegionsDistributed, d.TeamsCount)
				return tablewriter.Render(
					c.OutOrStdout(),
					d.PerTeam,
					[]string{"Team", "Regions"},
					func(s proto.TeamShare) ([]string, error) {
						return []string{s.TeamName, strconv.Itoa(s.Regions)}, nil
					},
				)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:     "list SESSION",
		Aliases: []string{"ls"},
		Short:   "List the territory assignments of a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			as, err := backend.FromContext(ctx).ListAssignments(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(c, as, func() error {
				if len(as) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No territories assigned")
					return nil
				}
				return renderAssignments(c, as)
			})
		},
	}

	var (
		actor string
		notes string
	)
	statusCmd := &cobra.Command{
		Use:   "status ASSIGNMENT STATUS",
		Short: "Set the status of an assignment",
		Long:  "Set the status of an assignment to available, current or completed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			id, err := parseID("assignment", args[0])
			if err != nil {
				return err
			}
			var n *string
			if c.Flags().Changed("notes") {
				n = &notes
			}
			a, err := backend.FromContext(ctx).SetAssignmentStatus(ctx, id, args[1], actor, n)
			if err != nil {
				return err
			}
			return printResult(c, a, func() error {
				fmt.Fprintf(c.OutOrStdout(), "%s is now %s\n", a.RegionName, a.Status)
				return nil
			})
		},
	}
	statusCmd.Flags().StringVarP(&actor, "by", "p", "", "id of the participant making the change")
	statusCmd.Flags().StringVar(&notes, "notes", "", "replace the assignment notes")

	var team int64
	reassignCmd := &cobra.Command{
		Use:   "reassign ASSIGNMENT",
		Short: "Hand an assignment to another team of the same session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			id, err := parseID("assignment", args[0])
			if err != nil {
				return err
			}
			a, err := backend.FromContext(ctx).ReassignTerritory(ctx, id, team)
			if err != nil {
				return err
			}
			return printResult(c, a, func() error {
				fmt.Fprintf(c.OutOrStdout(), "%s reassigned to %s\n", a.RegionName, a.TeamName)
				return nil
			})
		},
	}
	reassignCmd.Flags().Int64VarP(&team, "team", "t", 0, "destination team id")
	reassignCmd.MarkFlagRequired("team") // nolint: errcheck

	territoryCmd.AddCommand(distributeCmd, listCmd, statusCmd, reassignCmd)
}

func renderAssignments(c *cobra.Command, as []proto.Assignment) error {
	return tablewriter.Render(
		c.OutOrStdout(),
		as,
		[]string{"ID", "Region", "Code", "Team", "Status", "Updated"},
		func(a proto.Assignment) ([]string, error) {
			updated := humanize.Time(a.AssignedAt)
			switch {
			case a.CompletedAt != nil:
				updated = humanize.Time(*a.CompletedAt)
			case a.StartedAt != nil:
				updated = humanize.Time(*a.StartedAt)
			}
			return []string{
				strconv.FormatInt(a.ID, 10),
				a.RegionName,
				a.RegionCode,
				a.TeamName,
				string(a.Status),
				updated,
			}, nil
		},
	)
}
