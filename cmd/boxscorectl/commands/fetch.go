package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"boxscore-fetcher/config"
	"boxscore-fetcher/internal/db"
	"boxscore-fetcher/internal/fetcher"
	"boxscore-fetcher/internal/store"
)

var fetchFlags struct {
	ids          string
	output       string
	baseURL      string
	endpoint     string
	delay        time.Duration
	onFailure    string
	format       string
	noCheckpoint bool
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchFlags.ids, "ids", "", "Identifier file to read and checkpoint.")
	f.StringVar(&fetchFlags.output, "output", "", "File to write one response per line to.")
	f.StringVar(&fetchFlags.baseURL, "base-url", "", "Base URL of the box-score API.")
	f.StringVar(&fetchFlags.endpoint, "endpoint", "", `Endpoint to call: "games" or "nba".`)
	f.DurationVar(&fetchFlags.delay, "delay", 0, "Pause between requests (0 disables pacing).")
	f.StringVar(&fetchFlags.onFailure, "on-failure", "", `Failure policy: "halt" or "skip".`)
	f.StringVar(&fetchFlags.format, "format", "", `Output format: "json" or "raw".`)
	f.BoolVar(&fetchFlags.noCheckpoint, "no-checkpoint", false, "Leave the identifier file untouched.")
	rootCmd.AddCommand(fetchCmd)
}

// applyFetchFlags overrides configuration values with the flags that were
// set explicitly on the command line.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("ids") {
		cfg.Files.IDs = fetchFlags.ids
	}
	if flags.Changed("output") {
		cfg.Files.Output = fetchFlags.output
	}
	if flags.Changed("base-url") {
		cfg.Client.BaseURL = fetchFlags.baseURL
	}
	if flags.Changed("endpoint") {
		cfg.Client.Endpoint = fetchFlags.endpoint
	}
	if flags.Changed("on-failure") {
		cfg.Fetcher.OnFailure = fetchFlags.onFailure
	}
	if flags.Changed("format") {
		cfg.Fetcher.OutputFormat = fetchFlags.format
	}
	if flags.Changed("no-checkpoint") {
		cfg.Fetcher.DisableCheckpoint = fetchFlags.noCheckpoint
	}

	cfg.ApplyDefaults()
	if flags.Changed("delay") {
		cfg.Fetcher.DelayMillis = int(fetchFlags.delay / time.Millisecond)
		cfg.Fetcher.Delay = fetchFlags.delay
	}
	return cfg.Validate()
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--ids gameIds.txt] [--output responses.txt]",
	Short: "Fetches the box score of every pending game and checkpoints the rest.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyFetchFlags(cmd, cfg); err != nil {
			return err
		}

		var archive store.Store
		if cfg.Database.Enabled {
			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := gormDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			archive = store.NewGormStore(gormDB)
		}

		svc := fetcher.NewService(cfg, archive)
		summary, err := svc.Run(cmd.Context())
		if summary != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d of %d games, %d failed, %d pending\n",
				summary.Succeeded, summary.Total, summary.Failed, len(summary.Remaining))
			if summary.Halted {
				fmt.Fprintf(cmd.OutOrStdout(), "stopped early: %s\n", summary.HaltReason)
			}
		}
		if err != nil {
			log.Error().Err(err).Msg("fetch run failed")
			return err
		}
		return nil
	},
}
