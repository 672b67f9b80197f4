package commands

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxscore-fetcher/config"
)

// newFetchCmd returns a command carrying the fetch flags so tests do not
// share flag state with the package-level command.
func newFetchCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "fetch"}
	f := cmd.Flags()
	f.StringVar(&fetchFlags.ids, "ids", "", "")
	f.StringVar(&fetchFlags.output, "output", "", "")
	f.StringVar(&fetchFlags.baseURL, "base-url", "", "")
	f.StringVar(&fetchFlags.endpoint, "endpoint", "", "")
	f.DurationVar(&fetchFlags.delay, "delay", 0, "")
	f.StringVar(&fetchFlags.onFailure, "on-failure", "", "")
	f.StringVar(&fetchFlags.format, "format", "", "")
	f.BoolVar(&fetchFlags.noCheckpoint, "no-checkpoint", false, "")
	require.NoError(t, f.Parse(args))
	return cmd
}

func TestApplyFetchFlags_Overrides(t *testing.T) {
	cfg := config.Default()
	cmd := newFetchCmd(t,
		"--ids", "/tmp/ids.txt",
		"--base-url", "http://127.0.0.1:9000",
		"--endpoint", "nba",
		"--delay", "5s",
		"--on-failure", "skip",
		"--no-checkpoint",
	)

	require.NoError(t, applyFetchFlags(cmd, cfg))
	assert.Equal(t, "/tmp/ids.txt", cfg.Files.IDs)
	assert.Equal(t, "responses.txt", cfg.Files.Output, "unset flags keep the configured value")
	assert.Equal(t, "http://127.0.0.1:9000/nba/fetch-box-score", cfg.Client.URL())
	assert.Equal(t, 5*time.Second, cfg.Fetcher.Delay)
	assert.Equal(t, config.OnFailureSkip, cfg.Fetcher.OnFailure)
	assert.True(t, cfg.Fetcher.DisableCheckpoint)
}

func TestApplyFetchFlags_ZeroDelayDisablesPacing(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyFetchFlags(newFetchCmd(t, "--delay", "0s"), cfg))
	assert.Equal(t, time.Duration(0), cfg.Fetcher.Delay)
}

func TestApplyFetchFlags_RejectsUnknownPolicy(t *testing.T) {
	cfg := config.Default()
	err := applyFetchFlags(newFetchCmd(t, "--on-failure", "retry"), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
