package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var (
	projectPlayer   string
	projectTrailing int
	projectCSVPath  string
	projectStore    bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the next game for a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectPlayer == "" {
			return fmt.Errorf("--player must be provided")
		}

		opts := app.ProjectOptions{
			PlayerID: projectPlayer,
			Trailing: projectTrailing,
			CSVPath:  projectCSVPath,
			Store:    projectStore,
		}

		return getApp().Project(cmd.Context(), opts)
	},
}

func init() {
	projectCmd.Flags().StringVar(&projectPlayer, "player", "", "Player identifier (game log file stem)")
	projectCmd.Flags().IntVar(&projectTrailing, "trailing", 0, "Trailing games to load (defaults to config)")
	projectCmd.Flags().StringVar(&projectCSVPath, "csv", "", "Path to write the projected line as CSV")
	projectCmd.Flags().BoolVar(&projectStore, "store", false, "Persist the projection snapshot to the database")
}
