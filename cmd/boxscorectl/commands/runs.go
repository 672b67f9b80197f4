package commands

import (
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"boxscore-fetcher/internal/db"
	"boxscore-fetcher/internal/model"
	"boxscore-fetcher/internal/store"
)

var runsLimit int

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to show.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [-n 10]",
	Short: "Prints recent fetch runs recorded in the archive database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled {
			return errors.New("the archive database is disabled (database.enabled: false)")
		}

		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			defer sqlDB.Close()
		}

		runs, err := store.NewGormStore(gormDB).RecentRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		renderRuns(cmd, runs)
		return nil
	},
}

func renderRuns(cmd *cobra.Command, runs []model.FetchRun) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Total", "OK", "Failed", "Pending", "Stopped by"})

	for _, r := range runs {
		duration := "running"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			duration,
			r.Total,
			r.Succeeded,
			r.Failed,
			r.Remaining,
			r.HaltReason,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
