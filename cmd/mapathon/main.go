package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/cmd"
	"github.com/gridcrew/mapathon/cmd/mapathon/serve"
	"github.com/gridcrew/mapathon/pkg/config"
	logr "github.com/gridcrew/mapathon/pkg/log"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	ojson bool

	rootCmd = &cobra.Command{
		Use:          "mapathon",
		Short:        "Team formation and territory distribution for mapping events",
		Long:         "Mapathon forms teams out of the participants of a mapping session, hands every team its share of the region catalog and tracks their progress.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serve.Command,
		manCmd,
		migrateCmd,
		sessionCmd,
		participantCmd,
		teamCmd,
		territoryCmd,
		progressCmd,
		verifyCmd,
		catalogCmd,
	)

	rootCmd.PersistentFlags().BoolVar(&ojson, "json", false, "output as JSON")
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code: 1 for
// internal failures, 2 for validation errors, 3 for unmet preconditions, 4
// for isolation violations and 5 for missing entities.
func run() int {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	if cfg.Exist() {
		if err := cfg.ParseFile(); err != nil {
			log.Error("parse config file", "err", err)
			return 1
		}
	} else {
		if err := cfg.WriteConfig(); err != nil {
			log.Error("write default config", "err", err)
			return 1
		}
	}

	if err := cfg.ParseEnv(); err != nil {
		log.Error("parse environment variables", "err", err)
		return 1
	}

	ctx = config.WithContext(ctx, cfg)
	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		log.Error("create logger", "err", err)
		return 1
	}
	if f != nil {
		defer f.Close() // nolint: errcheck
	}

	// Set global logger
	log.SetDefault(logger)

	// Set the max number of processes to the number of CPUs
	// This is useful when running mapathon in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	ctx = log.WithContext(ctx, logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, proto.ErrValidation):
		return 2
	case errors.Is(err, proto.ErrPrecondition):
		return 3
	case errors.Is(err, proto.ErrIsolation):
		return 4
	case errors.Is(err, proto.ErrNotFound):
		return 5
	default:
		return 1
	}
}

// printResult writes v as JSON when --json is set and calls human
// otherwise.
func printResult(c *cobra.Command, v interface{}, human func() error) error {
	if ojson {
		return writeJSON(c, v)
	}
	return human()
}

func writeJSON(c *cobra.Command, v interface{}) error {
	if err := cmd.WriteJSON(c.OutOrStdout(), v); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
