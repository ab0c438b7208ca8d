package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/10EMMMM/nbaanalysts/internal/storage"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Show prints recent stored projections, or recent backtest runs when
// opts.Backtests is set.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show history")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.Backtests {
		return showBacktests(ctx, store, opts.Limit)
	}
	return showProjections(ctx, store, opts.Limit)
}

func showProjections(ctx context.Context, store *storage.Store, limit int) error {
	snaps, err := store.ListRecentProjections(ctx, limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(os.Stdout, "no projections found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tPlayer\tScore\tPoints\tMinutes\tRange\tNotes")

	for _, snap := range snaps {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s - %s\t%s\n",
			snap.CreatedAt.UTC().Format(time.RFC3339),
			snap.PlayerID,
			tabular.FixedCell(snap.ExpectedScore, 1),
			tabular.FixedCell(snap.ExpectedPoints, 1),
			tabular.FixedCell(snap.ExpectedMinutes, 1),
			tabular.FixedCell(snap.LowerCI, 1),
			tabular.FixedCell(snap.UpperCI, 1),
			sanitizeInline(snap.Notes),
		)
	}
	writer.Flush()

	total, err := store.CountProjections(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\ntotal snapshots: %d\n", total)
	return nil
}

func showBacktests(ctx context.Context, store *storage.Store, limit int) error {
	runs, err := store.ListRecentBacktestRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "no backtest runs found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tRun\tPlayer\tLookback\tStrict\tGames\tMAE\tBias\tCoverage")

	for _, run := range runs {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%d\t%t\t%d\t%s\t%s\t%s\n",
			run.CreatedAt.UTC().Format(time.RFC3339),
			shortID(run.ID.String()),
			run.PlayerID,
			run.Lookback,
			run.StrictPregame,
			run.Games,
			tabular.FixedCell(run.ScoreMAE, 2),
			tabular.FixedCell(run.ScoreBias, 2),
			tabular.FixedCell(run.CoverageRate, 2),
		)
	}
	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
