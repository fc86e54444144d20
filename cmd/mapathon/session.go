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

var sessionCmd = &cobra.Command{
	Use:                "session",
	Aliases:            []string{"sessions"},
	Short:              "Manage mapping sessions",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var name string
	ensureCmd := &cobra.Command{
		Use:   "ensure SESSION",
		Short: "Create a session unless it exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			s, created, err := backend.FromContext(ctx).EnsureSession(ctx, args[0], name)
			if err != nil {
				return err
			}
			return printResult(c, map[string]interface{}{"session": s, "created": created}, func() error {
				verb := "exists"
				if created {
					verb = "created"
				}
				fmt.Fprintf(c.OutOrStdout(), "session %s %s (%s)\n", s.ID, verb, s.Status)
				return nil
			})
		},
	}
	ensureCmd.Flags().StringVarP(&name, "name", "n", "", "display name, defaults to the id")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			ss, err := backend.FromContext(ctx).ListSessions(ctx)
			if err != nil {
				return err
			}
			return printResult(c, ss, func() error {
				if len(ss) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No sessions found")
					return nil
				}
				return tablewriter.Render(
					c.OutOrStdout(),
					ss,
					[]string{"ID", "Name", "Status", "Created", "Teams Formed"},
					func(s proto.Session) ([]string, error) {
						formed := "-"
						if s.TeamsFormedAt != nil {
							formed = humanize.Time(*s.TeamsFormedAt)
						}
						return []string{s.ID, s.Name, string(s.Status), humanize.Time(s.CreatedAt), formed}, nil
					},
				)
			})
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info SESSION",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			s, err := backend.FromContext(ctx).GetSession(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(c, s, func() error {
				out := c.OutOrStdout()
				fmt.Fprintf(out, "ID: %s\n", s.ID)
				fmt.Fprintf(out, "Name: %s\n", s.Name)
				fmt.Fprintf(out, "Status: %s\n", s.Status)
				fmt.Fprintf(out, "Created: %s\n", humanize.Time(s.CreatedAt))
				if s.TeamsFormedAt != nil {
					fmt.Fprintf(out, "Teams formed: %s\n", humanize.Time(*s.TeamsFormedAt))
				}
				return nil
			})
		},
	}

	sessionCmd.AddCommand(ensureCmd, listCmd, infoCmd)
}
