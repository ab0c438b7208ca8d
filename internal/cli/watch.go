package cli

import (
	"github.com/spf13/cobra"

	"github.com/10EMMMM/nbaanalysts/internal/app"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically re-project watched players and alert on swings",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.WatchOptions{
			Once: watchOnce,
		}
		return getApp().Watch(cmd.Context(), opts)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Run a single refresh pass and exit")
}
