package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/10EMMMM/nbaanalysts/internal/scoring"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Score prints all-around scores for a player's most recent box scores.
func (a *App) Score(ctx context.Context, opts ScoreOptions) error {
	path := filepath.Join(a.Config.Data.BoxScoreDir, opts.Player+".csv")
	games, err := scoring.LoadBox(path)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "no box scores found")
		return nil
	}

	scores := scoring.LastN(games, opts.LastN)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tMatchup\tPTS\tREB\tAST\tSTL\tBLK\tTOV\t3PM\tAAS")
	for _, score := range scores {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n",
			score.Date.Format(backtestDateLayout),
			score.Matchup,
			score.Points,
			score.Rebounds,
			score.Assists,
			score.Steals,
			score.Blocks,
			score.Turnovers,
			score.ThreesMade,
			tabular.FixedCell(score.AAS, 1),
		)
	}
	writer.Flush()

	fmt.Fprintf(os.Stdout, "\naverage over %d games: %s\n",
		len(scores),
		tabular.FixedCell(scoring.AverageAAS(scores), 2),
	)
	return nil
}
