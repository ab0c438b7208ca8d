package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var (
	scorePlayer string
	scoreLastN  int
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a player's recent box scores with the all-around formula",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scorePlayer == "" {
			return fmt.Errorf("--player must be provided")
		}
		if scoreLastN <= 0 {
			return fmt.Errorf("--last must be greater than zero")
		}

		opts := app.ScoreOptions{
			Player: scorePlayer,
			LastN:  scoreLastN,
		}

		return getApp().Score(cmd.Context(), opts)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scorePlayer, "player", "", "Player identifier (box score file stem)")
	scoreCmd.Flags().IntVar(&scoreLastN, "last", 10, "Number of most recent games to score")
}
