package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/formation"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:                "team",
	Aliases:            []string{"teams"},
	Short:              "Form and manage teams",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var (
		size int
		seed int64
	)
	formCmd := &cobra.Command{
		Use:   "form SESSION",
		Short: "Partition the session's participants into teams",
		Long:  "Partition the session's participants into teams. Teams can only be formed once per session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			if size == 0 {
				size = be.DefaultTeamSize()
			}
			var rng *rand.Rand
			if c.Flags().Changed("seed") {
				rng = formation.NewRand(seed)
			}

			f, err := be.FormTeams(ctx, args[0], size, rng)
			if err != nil {
				return err
			}
			return printResult(c, f, func() error {
				fmt.Fprintf(c.OutOrStdout(), "formed %d teams\n", f.TeamsCreated)
				return renderTeams(c, f.Teams)
			})
		},
	}
	formCmd.Flags().IntVarP(&size, "size", "k", 0, "team size, defaults to the configured size")
	formCmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed for a reproducible formation")

	readinessCmd := &cobra.Command{
		Use:   "readiness SESSION",
		Short: "Report whether teams can be formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			if size == 0 {
				size = be.DefaultTeamSize()
			}
			r, err := be.FormationReadiness(ctx, args[0], size)
			if err != nil {
				return err
			}
			return printResult(c, r, func() error {
				out := c.OutOrStdout()
				switch {
				case r.TeamsFormed:
					fmt.Fprintf(out, "teams already formed for %s\n", r.Session)
				case r.Ready:
					fmt.Fprintf(out, "ready: %d participants make %d teams of %d\n", r.Participants, r.Teams, r.TeamSize)
				default:
					fmt.Fprintf(out, "not ready: need %d more\n", r.Missing)
				}
				return nil
			})
		},
	}
	readinessCmd.Flags().IntVarP(&size, "size", "k", 0, "team size, defaults to the configured size")

	listCmd := &cobra.Command{
		Use:     "list SESSION",
		Aliases: []string{"ls"},
		Short:   "List the teams of a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			ts, err := backend.FromContext(ctx).ListTeams(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(c, ts, func() error {
				if len(ts) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No teams found")
					return nil
				}
				return renderTeams(c, ts)
			})
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info TEAM",
		Short: "Show a team, its members and its territories",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			id, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			be := backend.FromContext(ctx)
			t, err := be.GetTeam(ctx, id)
			if err != nil {
				return err
			}
			d, err := be.TeamDetail(ctx, id)
			if err != nil {
				return err
			}
			return printResult(c, map[string]interface{}{"team": t, "progress": d}, func() error {
				out := c.OutOrStdout()
				fmt.Fprintf(out, "%s (%d) - %.2f%% complete\n", t.Name, t.ID, d.Counts.Percent)
				for _, m := range t.Members {
					fmt.Fprintf(out, "  %s @%s %s\n", m.Name, m.Handle, m.Role.Name)
				}
				for _, group := range []struct {
					name string
					rows []proto.Assignment
				}{
					{"current", d.Current},
					{"available", d.Available},
					{"completed", d.Completed},
				} {
					if len(group.rows) == 0 {
						continue
					}
					names := make([]string, len(group.rows))
					for i, a := range group.rows {
						names[i] = a.RegionName
					}
					fmt.Fprintf(out, "%s: %s\n", group.name, strings.Join(names, ", "))
				}
				return nil
			})
		},
	}

	var to int64
	moveCmd := &cobra.Command{
		Use:   "move-members TEAM",
		Short: "Move every member of a team to another team of the same session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			from, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			n, err := backend.FromContext(ctx).MoveTeamMembers(ctx, from, to)
			if err != nil {
				return err
			}
			return printResult(c, map[string]interface{}{"from": from, "to": to, "moved": n}, func() error {
				fmt.Fprintf(c.OutOrStdout(), "moved %d members\n", n)
				return nil
			})
		},
	}
	moveCmd.Flags().Int64VarP(&to, "to", "t", 0, "destination team id")
	moveCmd.MarkFlagRequired("to") // nolint: errcheck

	teamCmd.AddCommand(formCmd, readinessCmd, listCmd, infoCmd, moveCmd)
}

func renderTeams(c *cobra.Command, ts []proto.Team) error {
	return tablewriter.Render(
		c.OutOrStdout(),
		ts,
		[]string{"ID", "Name", "Members"},
		func(t proto.Team) ([]string, error) {
			members := make([]string, len(t.Members))
			for i, m := range t.Members {
				members[i] = fmt.Sprintf("%s (%s)", m.Handle, m.Role.Name)
			}
			return []string{strconv.FormatInt(t.ID, 10), t.Name, strings.Join(members, ", ")}, nil
		},
	)
}

// parseID parses a positive numeric id argument.
func parseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &proto.ValidationError{Field: field, Value: s, Reason: "must be a positive integer"}
	}
	return id, nil
}
