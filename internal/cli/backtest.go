package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var (
	backtestPlayer   string
	backtestTrailing int
	backtestLookback int
	backtestStrict   bool
	backtestWorkers  int
	backtestCSVPath  string
	backtestPNGPath  string
	backtestStore    bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay recent games and score the projections against reality",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backtestPlayer == "" {
			return fmt.Errorf("--player must be provided")
		}

		opts := app.BacktestOptions{
			PlayerID:      backtestPlayer,
			Trailing:      backtestTrailing,
			Lookback:      backtestLookback,
			StrictPregame: backtestStrict,
			Workers:       backtestWorkers,
			CSVPath:       backtestCSVPath,
			PNGPath:       backtestPNGPath,
			Store:         backtestStore,
		}

		return getApp().Backtest(cmd.Context(), opts)
	},
}

func init() {
	backtestCmd.Flags().StringVar(&backtestPlayer, "player", "", "Player identifier (game log file stem)")
	backtestCmd.Flags().IntVar(&backtestTrailing, "trailing", 0, "Trailing games to load (defaults to config)")
	backtestCmd.Flags().IntVar(&backtestLookback, "lookback", 0, "Games to replay (defaults to config)")
	backtestCmd.Flags().BoolVar(&backtestStrict, "strict-pregame", false, "Source pace and defense context from trailing history only")
	backtestCmd.Flags().IntVar(&backtestWorkers, "workers", 0, "Concurrent replay workers (defaults to config)")
	backtestCmd.Flags().StringVar(&backtestCSVPath, "csv", "", "Path to write per-game comparisons as CSV")
	backtestCmd.Flags().StringVar(&backtestPNGPath, "png", "", "Path to write predicted-vs-actual chart")
	backtestCmd.Flags().BoolVar(&backtestStore, "store", false, "Persist the run summary to the database")
}
