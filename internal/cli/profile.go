package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var (
	profilePlayer  string
	profileCSVPath string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Aggregate a player's season into baseline, splits, and a forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		if profilePlayer == "" {
			return fmt.Errorf("--player must be provided")
		}

		opts := app.ProfileOptions{
			Player:  profilePlayer,
			CSVPath: profileCSVPath,
		}

		return getApp().Profile(cmd.Context(), opts)
	},
}

func init() {
	profileCmd.Flags().StringVar(&profilePlayer, "player", "", "Player identifier (box score file stem)")
	profileCmd.Flags().StringVar(&profileCSVPath, "csv", "", "Path to write the profile as CSV")
}
