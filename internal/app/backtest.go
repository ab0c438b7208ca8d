package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/10EMMMM/nbaanalysts/internal/backtest"
	"github.com/10EMMMM/nbaanalysts/internal/storage"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

const backtestDateLayout = "2006-01-02"

// Backtest replays the trailing games of one player and reports how the
// blender would have scored them.
func (a *App) Backtest(ctx context.Context, opts BacktestOptions) error {
	logs, _ := a.newSources()

	trailing := a.Config.ResolveTrailing(opts.Trailing)
	records, err := logs.GameLog(ctx, opts.PlayerID, trailing)
	if err != nil {
		return err
	}

	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = a.Config.Backtest.Lookback
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = a.Config.Backtest.Workers
	}

	comparisons, err := backtest.Run(records, backtest.Options{
		PlayerID:      opts.PlayerID,
		Lookback:      lookback,
		StrictPregame: opts.StrictPregame,
		Workers:       workers,
	})
	if err != nil {
		return err
	}
	if len(comparisons) == 0 {
		fmt.Fprintln(os.Stdout, "no games with enough prior history to replay")
		return nil
	}

	summary := backtest.Summarize(comparisons)
	printBacktest(comparisons, summary)

	if opts.CSVPath != "" {
		if err := writeBacktestCSV(opts.CSVPath, comparisons); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("comparisons written")
	}

	if opts.PNGPath != "" {
		if err := writeBacktestPNG(opts.PNGPath, opts.PlayerID, comparisons); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("chart written")
	}

	if opts.Store {
		if err := a.storeBacktest(ctx, opts.PlayerID, lookback, opts.StrictPregame, summary); err != nil {
			return err
		}
	}

	return nil
}

func printBacktest(comparisons []backtest.Comparison, summary backtest.Summary) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tOpponent\tPredicted\tActual\tRange\tMinutes\tNotes")

	for _, cmp := range comparisons {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s - %s\t%s\t%s\n",
			cmp.Date.Format(backtestDateLayout),
			cmp.Opponent,
			tabular.FixedCell(cmp.PredictedScore, 1),
			tabular.Cell(cmp.ActualScore, 1),
			tabular.FixedCell(cmp.LowerCI, 1),
			tabular.FixedCell(cmp.UpperCI, 1),
			tabular.FixedCell(cmp.ProjectedMinutes, 1),
			cmp.Notes,
		)
	}
	writer.Flush()

	fmt.Fprintf(os.Stdout, "\ngames: %d  mae: %s  bias: %s  coverage: %s\n",
		summary.Games,
		tabular.FixedCell(summary.ScoreMAE, 2),
		tabular.FixedCell(summary.ScoreBias, 2),
		tabular.FixedCell(summary.CoverageRate, 2),
	)
}

func writeBacktestCSV(path string, comparisons []backtest.Comparison) error {
	fields := []string{
		"date",
		"opponent",
		"predicted_score",
		"actual_score",
		"predicted_points",
		"actual_points",
		"projected_minutes",
		"actual_minutes",
		"ci_lower",
		"ci_upper",
		"notes",
	}

	rows := make([]tabular.Row, 0, len(comparisons))
	for _, cmp := range comparisons {
		rows = append(rows, tabular.Row{
			"date":              cmp.Date.Format(backtestDateLayout),
			"opponent":          cmp.Opponent,
			"predicted_score":   tabular.FixedCell(cmp.PredictedScore, 2),
			"actual_score":      tabular.Cell(cmp.ActualScore, 2),
			"predicted_points":  tabular.FixedCell(cmp.PredictedPoints, 2),
			"actual_points":     tabular.Cell(cmp.ActualPoints, 2),
			"projected_minutes": tabular.FixedCell(cmp.ProjectedMinutes, 2),
			"actual_minutes":    tabular.Cell(cmp.ActualMinutes, 2),
			"ci_lower":          tabular.FixedCell(cmp.LowerCI, 2),
			"ci_upper":          tabular.FixedCell(cmp.UpperCI, 2),
			"notes":             cmp.Notes,
		})
	}

	return tabular.WriteRows(path, fields, rows)
}

func writeBacktestPNG(path, playerID string, comparisons []backtest.Comparison) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	predictedX := make([]time.Time, len(comparisons))
	predicted := make([]float64, len(comparisons))
	lower := make([]float64, len(comparisons))
	upper := make([]float64, len(comparisons))
	var actualX []time.Time
	var actual []float64

	for i, cmp := range comparisons {
		predictedX[i] = cmp.Date
		predicted[i] = cmp.PredictedScore
		lower[i] = cmp.LowerCI
		upper[i] = cmp.UpperCI
		if cmp.ActualScore != nil {
			actualX = append(actualX, cmp.Date)
			actual = append(actual, *cmp.ActualScore)
		}
	}

	scoreFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.1f")
	}
	graph := chart.Chart{
		Title:  playerID,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Fantasy score",
			ValueFormatter: scoreFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Predicted",
				XValues: predictedX,
				YValues: predicted,
			},
			chart.TimeSeries{
				Name:    "Actual",
				XValues: actualX,
				YValues: actual,
			},
			chart.TimeSeries{
				Name:    "Lower CI",
				XValues: predictedX,
				YValues: lower,
				Style: chart.Style{
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.TimeSeries{
				Name:    "Upper CI",
				XValues: predictedX,
				YValues: upper,
				Style: chart.Style{
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func (a *App) storeBacktest(ctx context.Context, playerID string, lookback int, strict bool, summary backtest.Summary) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot store backtest run")
	}
	if closeStore != nil {
		defer closeStore()
	}

	run := storage.BacktestRun{
		ID:            uuid.New(),
		PlayerID:      playerID,
		Lookback:      lookback,
		StrictPregame: strict,
		Games:         summary.Games,
		ScoreMAE:      summary.ScoreMAE,
		ScoreBias:     summary.ScoreBias,
		CoverageRate:  summary.CoverageRate,
	}
	if err := store.InsertBacktestRun(ctx, run); err != nil {
		return err
	}

	a.Logger.Info().Str("run_id", run.ID.String()).Str("player_id", playerID).Msg("backtest run stored")
	return nil
}
