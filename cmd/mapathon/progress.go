package main

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/progress"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:                "progress SESSION",
	Aliases:            []string{"leaderboard"},
	Short:              "Show the progress and leaderboard of a session",
	Args:               cobra.ExactArgs(1),
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := c.Context()
		p, err := backend.FromContext(ctx).GetProgress(ctx, args[0])
		if err != nil {
			return err
		}
		return printResult(c, p, func() error {
			o := p.Overall
			fmt.Fprintf(c.OutOrStdout(), "%d/%d completed (%.2f%%), %d current, %d available\n",
				o.Completed, o.Total, o.Percent, o.Current, o.Available)
			if len(p.Leaderboard) == 0 {
				return nil
			}
			return tablewriter.Render(
				c.OutOrStdout(),
				p.Leaderboard,
				[]string{"Rank", "Team", "Completed", "Current", "Available", "Percent"},
				func(e progress.Entry) ([]string, error) {
					return []string{
						strconv.Itoa(e.Rank),
						e.TeamName,
						strconv.Itoa(e.Completed),
						strconv.Itoa(e.Current),
						strconv.Itoa(e.Available),
						strconv.FormatFloat(e.Percent, 'f', 2, 64),
					}, nil
				},
			)
		})
	},
}
