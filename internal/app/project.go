package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/10EMMMM/nbaanalysts/internal/features"
	"github.com/10EMMMM/nbaanalysts/internal/feed"
	"github.com/10EMMMM/nbaanalysts/internal/projection"
	"github.com/10EMMMM/nbaanalysts/internal/storage"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Project forecasts the next game for one player and prints the line.
func (a *App) Project(ctx context.Context, opts ProjectOptions) error {
	logs, contexts := a.newSources()

	trailing := a.Config.ResolveTrailing(opts.Trailing)
	records, err := logs.GameLog(ctx, opts.PlayerID, trailing)
	if err != nil {
		return err
	}

	feats := features.Compute(records)

	pctx, err := contexts.UpcomingContext(ctx, opts.PlayerID)
	if err != nil {
		if !errors.Is(err, feed.ErrNoContextRow) {
			return err
		}
		a.Logger.Debug().Str("player_id", opts.PlayerID).Msg("no upcoming context row; projecting from history alone")
		pctx = projection.Context{PlayerID: opts.PlayerID}
	}

	result, err := projection.Blend(feats, pctx)
	if err != nil {
		return err
	}

	printProjection(result)

	if opts.CSVPath != "" {
		if err := writeProjectionCSV(opts.CSVPath, result); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("projection written")
	}

	if opts.Store {
		if err := a.storeProjection(ctx, result); err != nil {
			return err
		}
	}

	return nil
}

func printProjection(result projection.Result) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Player\tScore\tPoints\tMinutes\tUsage\tTS\tRange\tNotes")
	fmt.Fprintf(
		writer,
		"%s\t%s\t%s\t%s\t%s\t%s\t%s - %s\t%s\n",
		result.PlayerID,
		tabular.FixedCell(result.ExpectedScore, 1),
		tabular.FixedCell(result.ExpectedPoints, 1),
		tabular.FixedCell(result.ExpectedMinutes, 1),
		tabular.Cell(result.ExpectedUsage, 1),
		tabular.Cell(result.ExpectedEfficiency, 3),
		tabular.FixedCell(result.LowerCI, 1),
		tabular.FixedCell(result.UpperCI, 1),
		result.Notes,
	)
	writer.Flush()
}

func writeProjectionCSV(path string, result projection.Result) error {
	fields := []string{
		"player_id",
		"expected_score",
		"expected_points",
		"expected_minutes",
		"expected_usage",
		"expected_efficiency",
		"ci_lower",
		"ci_upper",
		"notes",
	}
	row := tabular.Row{
		"player_id":           result.PlayerID,
		"expected_score":      tabular.FixedCell(result.ExpectedScore, 2),
		"expected_points":     tabular.FixedCell(result.ExpectedPoints, 2),
		"expected_minutes":    tabular.FixedCell(result.ExpectedMinutes, 2),
		"expected_usage":      tabular.Cell(result.ExpectedUsage, 2),
		"expected_efficiency": tabular.Cell(result.ExpectedEfficiency, 3),
		"ci_lower":            tabular.FixedCell(result.LowerCI, 2),
		"ci_upper":            tabular.FixedCell(result.UpperCI, 2),
		"notes":               result.Notes,
	}
	return tabular.WriteRows(path, fields, []tabular.Row{row})
}

func (a *App) storeProjection(ctx context.Context, result projection.Result) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot store projection")
	}
	if closeStore != nil {
		defer closeStore()
	}

	snap := storage.ProjectionSnapshot{
		PlayerID:           result.PlayerID,
		ExpectedPoints:     result.ExpectedPoints,
		ExpectedScore:      result.ExpectedScore,
		ExpectedMinutes:    result.ExpectedMinutes,
		ExpectedUsage:      result.ExpectedUsage,
		ExpectedEfficiency: result.ExpectedEfficiency,
		LowerCI:            result.LowerCI,
		UpperCI:            result.UpperCI,
		Notes:              result.Notes,
	}
	saved, err := store.InsertProjection(ctx, snap)
	if err != nil {
		return err
	}

	a.Logger.Info().Int64("id", saved.ID).Str("player_id", saved.PlayerID).Msg("projection stored")
	return nil
}
