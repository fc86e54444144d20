package main

import (
	"fmt"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/spf13/cobra"
)

var participantCmd = &cobra.Command{
	Use:                "participant",
	Aliases:            []string{"participants"},
	Short:              "Manage session participants",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	addCmd := &cobra.Command{
		Use:   "add SESSION NAME HANDLE",
		Short: "Register a participant",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			p, err := backend.FromContext(ctx).RegisterParticipant(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printResult(c, p, func() error {
				fmt.Fprintf(c.OutOrStdout(), "registered %s (%s) as %s\n", p.Name, p.Handle, p.ID)
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:     "list SESSION",
		Aliases: []string{"ls"},
		Short:   "List the participants of a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			ps, err := backend.FromContext(ctx).ListParticipants(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(c, ps, func() error {
				if len(ps) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No participants found")
					return nil
				}
				return tablewriter.Render(
					c.OutOrStdout(),
					ps,
					[]string{"ID", "Name", "Handle", "Registered"},
					func(p proto.Participant) ([]string, error) {
						return []string{p.ID, p.Name, p.Handle, humanize.Time(p.CreatedAt)}, nil
					},
				)
			})
		},
	}

	var team int64
	moveCmd := &cobra.Command{
		Use:   "move PARTICIPANT",
		Short: "Move a participant to another team of the same session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			t, err := backend.FromContext(ctx).MoveParticipant(ctx, args[0], team)
			if err != nil {
				return err
			}
			return printResult(c, t, func() error {
				fmt.Fprintf(c.OutOrStdout(), "moved %s to %s\n", args[0], t.Name)
				return nil
			})
		},
	}
	moveCmd.Flags().Int64VarP(&team, "team", "t", 0, "destination team id")
	moveCmd.MarkFlagRequired("team") // nolint: errcheck

	participantCmd.AddCommand(addCmd, listCmd, moveCmd)
}
