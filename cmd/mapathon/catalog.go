package main

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/catalog"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:                "catalog",
	Aliases:            []string{"regions"},
	Short:              "Manage the region catalog",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	importCmd := &cobra.Command{
		Use:   "import [SOURCE]",
		Short: "Import regions from a YAML or CSV file or an s3:// URL",
		Long:  "Import regions from a YAML or CSV file or an s3://bucket/key URL. Regions are matched by code. Without a source the configured catalog source is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			cfg := config.FromContext(ctx)
			source := cfg.Catalog.Source
			if len(args) > 0 {
				source = args[0]
			}
			if source == "" {
				return &proto.ValidationError{Field: "source", Value: "", Reason: "no catalog source given or configured"}
			}

			regions, err := catalog.NewLoader(cfg.Catalog).Load(ctx, source)
			if err != nil {
				return err
			}
			res, err := backend.FromContext(ctx).ImportRegions(ctx, regions)
			if err != nil {
				return err
			}
			return printResult(c, res, func() error {
				fmt.Fprintf(c.OutOrStdout(), "imported %d regions (%d new, %d updated)\n",
					res.Inserted+res.Updated, res.Inserted, res.Updated)
				return nil
			})
		},
	}

	var activeOnly bool
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog regions",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			rs, err := backend.FromContext(ctx).ListRegions(ctx, activeOnly)
			if err != nil {
				return err
			}
			return printResult(c, rs, func() error {
				if len(rs) == 0 {
					fmt.Fprintln(c.OutOrStdout(), "No regions found")
					return nil
				}
				return tablewriter.Render(
					c.OutOrStdout(),
					rs,
					[]string{"ID", "Name", "Code", "Classification", "Active"},
					func(r proto.Region) ([]string, error) {
						return []string{
							strconv.FormatInt(r.ID, 10),
							r.Name,
							r.Code,
							r.Classification,
							strconv.FormatBool(r.Active),
						}, nil
					},
				)
			})
		},
	}
	listCmd.Flags().BoolVarP(&activeOnly, "active", "a", false, "only list active regions")

	setActive := func(active bool) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			id, err := parseID("region", args[0])
			if err != nil {
				return err
			}
			r, err := backend.FromContext(ctx).SetRegionActive(ctx, id, active)
			if err != nil {
				return err
			}
			return printResult(c, r, func() error {
				state := "inactive"
				if r.Active {
					state = "active"
				}
				fmt.Fprintf(c.OutOrStdout(), "%s is %s\n", r.Name, state)
				return nil
			})
		}
	}

	enableCmd := &cobra.Command{
		Use:   "enable REGION",
		Short: "Include a region in future distributions",
		Args:  cobra.ExactArgs(1),
		RunE:  setActive(true),
	}
	disableCmd := &cobra.Command{
		Use:   "disable REGION",
		Short: "Exclude a region from future distributions",
		Args:  cobra.ExactArgs(1),
		RunE:  setActive(false),
	}

	catalogCmd.AddCommand(importCmd, listCmd, enableCmd, disableCmd)
}
