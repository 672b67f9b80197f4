package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"boxscore-fetcher/config"
	"boxscore-fetcher/internal/logger"
)

const (
	serviceName       = "boxscorectl"
	defaultConfigPath = "./config/config.yaml"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "boxscorectl",
	Short:         "boxscorectl fetches box scores for a list of games and checkpoints progress.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", path, "Path to the YAML configuration file (defaults to $CONFIG_PATH).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initialises logging. A missing
// file at the default location falls back to built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	usingDefaults := false
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
		}
		cfg = config.Default()
		if key := os.Getenv(config.APIKeyEnv); key != "" {
			cfg.Client.APIKey = key
		}
		usingDefaults = true
	}

	if err := logger.Init(serviceName, cfg.Log); err != nil {
		return nil, err
	}
	if usingDefaults {
		log.Warn().Str("path", configPath).Msg("configuration file not found; using defaults")
	} else {
		log.Debug().Str("path", configPath).Msg("configuration loaded")
	}
	return cfg, nil
}
