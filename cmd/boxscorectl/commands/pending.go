package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"boxscore-fetcher/internal/gameids"
)

var pendingQuiet bool

func init() {
	pendingCmd.Flags().BoolVarP(&pendingQuiet, "quiet", "q", false, "Only print the number of pending games.")
	rootCmd.AddCommand(pendingCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Prints the games still waiting in the identifier file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ids, err := gameids.Load(cfg.Files.IDs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d pending in %s\n", len(ids), cfg.Files.IDs)
		if pendingQuiet {
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}
