package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var (
	featuresPlayer   string
	featuresTrailing int
	featuresCSVPath  string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Print or dump rolling features for a player's game log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if featuresPlayer == "" {
			return fmt.Errorf("--player must be provided")
		}

		opts := app.FeaturesOptions{
			PlayerID: featuresPlayer,
			Trailing: featuresTrailing,
			CSVPath:  featuresCSVPath,
		}

		return getApp().Features(cmd.Context(), opts)
	},
}

func init() {
	featuresCmd.Flags().StringVar(&featuresPlayer, "player", "", "Player identifier (game log file stem)")
	featuresCmd.Flags().IntVar(&featuresTrailing, "trailing", 0, "Trailing games to load (defaults to config)")
	featuresCmd.Flags().StringVar(&featuresCSVPath, "csv", "", "Path to write the full feature series as CSV")
}
