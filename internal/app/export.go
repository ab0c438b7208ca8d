package app

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/10EMMMM/nbaanalysts/internal/storage"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Export renders one player's stored projection history as CSV and/or a PNG
// chart with the confidence band.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}

	from := to.Add(-time.Duration(opts.MaxPoints) * a.Config.Watch.Interval)
	if opts.From != nil {
		from = opts.From.UTC()
	}

	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	snaps, err := store.ListProjectionsBetween(ctx, opts.PlayerID, from, to)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		a.Logger.Info().Str("player_id", opts.PlayerID).Msg("no projections found for export window")
		return nil
	}

	downsampled := downsampleSnapshots(snaps, opts.MaxPoints)
	a.Logger.Info().Int("total", len(snaps)).Int("exported", len(downsampled)).Msg("exporting projections")

	if opts.CSVPath != "" {
		if err := writeSnapshotsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeSnapshotsPNG(opts.PNGPath, opts.PlayerID, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleSnapshots(snaps []storage.ProjectionSnapshot, max int) []storage.ProjectionSnapshot {
	if max <= 0 || len(snaps) <= max {
		return snaps
	}

	result := make([]storage.ProjectionSnapshot, 0, max)
	step := float64(len(snaps)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(snaps) {
			idx = len(snaps) - 1
		}
		result = append(result, snaps[idx])
	}
	return result
}

func writeSnapshotsCSV(path string, snaps []storage.ProjectionSnapshot) error {
	fields := []string{
		"created_at",
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

	rows := make([]tabular.Row, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, tabular.Row{
			"created_at":          snap.CreatedAt.UTC().Format(time.RFC3339),
			"player_id":           snap.PlayerID,
			"expected_score":      tabular.FixedCell(snap.ExpectedScore, 2),
			"expected_points":     tabular.FixedCell(snap.ExpectedPoints, 2),
			"expected_minutes":    tabular.FixedCell(snap.ExpectedMinutes, 2),
			"expected_usage":      tabular.Cell(snap.ExpectedUsage, 2),
			"expected_efficiency": tabular.Cell(snap.ExpectedEfficiency, 3),
			"ci_lower":            tabular.FixedCell(snap.LowerCI, 2),
			"ci_upper":            tabular.FixedCell(snap.UpperCI, 2),
			"notes":               snap.Notes,
		})
	}

	return tabular.WriteRows(path, fields, rows)
}

func writeSnapshotsPNG(path, playerID string, snaps []storage.ProjectionSnapshot) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(snaps))
	score := make([]float64, len(snaps))
	lower := make([]float64, len(snaps))
	upper := make([]float64, len(snaps))

	for i, snap := range snaps {
		x[i] = snap.CreatedAt
		score[i] = snap.ExpectedScore
		lower[i] = snap.LowerCI
		upper[i] = snap.UpperCI
	}

	scoreFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.1f")
	}
	graph := chart.Chart{
		Title:  playerID,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Expected score",
			ValueFormatter: scoreFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Expected",
				XValues: x,
				YValues: score,
			},
			chart.TimeSeries{
				Name:    "Lower CI",
				XValues: x,
				YValues: lower,
				Style: chart.Style{
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.TimeSeries{
				Name:    "Upper CI",
				XValues: x,
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

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
