package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/10EMMMM/nbaanalysts/internal/features"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Features annotates one player's log with rolling statistics and either
// prints the tail or dumps the whole series as CSV.
func (a *App) Features(ctx context.Context, opts FeaturesOptions) error {
	logs, _ := a.newSources()

	trailing := a.Config.ResolveTrailing(opts.Trailing)
	records, err := logs.GameLog(ctx, opts.PlayerID, trailing)
	if err != nil {
		return err
	}

	feats := features.Compute(records)
	if len(feats) == 0 {
		fmt.Fprintln(os.Stdout, "no games in log")
		return nil
	}

	if opts.CSVPath != "" {
		if err := writeFeaturesCSV(opts.CSVPath, feats); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Int("games", len(feats)).Msg("features written")
		return nil
	}

	printFeatures(feats)
	return nil
}

func printFeatures(feats []features.Record) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tOpponent\tMin\tMinAvg5\tUsgAvg5\tTSAvg5\tScore10\tStd10\tPtsAvg5\tFlags")

	for _, feat := range feats {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			feat.Date.Format(backtestDateLayout),
			feat.Opponent,
			tabular.Cell(feat.Minutes, 1),
			tabular.Cell(feat.MinutesAvg5, 1),
			tabular.Cell(feat.UsageAvg5, 1),
			tabular.Cell(feat.TSAvg5, 3),
			tabular.Cell(feat.ScoreMean10, 1),
			tabular.Cell(feat.ScoreStd10, 1),
			tabular.Cell(feat.PointsAvg5, 1),
			flagString(feat),
		)
	}
	writer.Flush()
}

func writeFeaturesCSV(path string, feats []features.Record) error {
	fields := []string{
		"date",
		"opponent",
		"minutes",
		"minutes_avg5",
		"minutes_avg10",
		"minutes_trend5",
		"usage_avg5",
		"usage_avg10",
		"ts_avg5",
		"ts_avg10",
		"pace_avg5",
		"opp_def_avg5",
		"score_mean10",
		"score_std10",
		"points_avg5",
		"points_avg10",
		"points_std10",
		"flags",
	}

	rows := make([]tabular.Row, 0, len(feats))
	for _, feat := range feats {
		rows = append(rows, tabular.Row{
			"date":           feat.Date.Format(backtestDateLayout),
			"opponent":       feat.Opponent,
			"minutes":        tabular.Cell(feat.Minutes, 2),
			"minutes_avg5":   tabular.Cell(feat.MinutesAvg5, 2),
			"minutes_avg10":  tabular.Cell(feat.MinutesAvg10, 2),
			"minutes_trend5": tabular.Cell(feat.MinutesTrend5, 3),
			"usage_avg5":     tabular.Cell(feat.UsageAvg5, 2),
			"usage_avg10":    tabular.Cell(feat.UsageAvg10, 2),
			"ts_avg5":        tabular.Cell(feat.TSAvg5, 3),
			"ts_avg10":       tabular.Cell(feat.TSAvg10, 3),
			"pace_avg5":      tabular.Cell(feat.PaceAvg5, 2),
			"opp_def_avg5":   tabular.Cell(feat.OppDefAvg5, 2),
			"score_mean10":   tabular.Cell(feat.ScoreMean10, 2),
			"score_std10":    tabular.Cell(feat.ScoreStd10, 2),
			"points_avg5":    tabular.Cell(feat.PointsAvg5, 2),
			"points_avg10":   tabular.Cell(feat.PointsAvg10, 2),
			"points_std10":   tabular.Cell(feat.PointsStd10, 2),
			"flags":          flagString(feat),
		})
	}

	return tabular.WriteRows(path, fields, rows)
}

func flagString(feat features.Record) string {
	var flags []string
	if feat.HighPace {
		flags = append(flags, "pace")
	}
	if feat.LowMinutes {
		flags = append(flags, "minutes")
	}
	if feat.EfficiencySpike {
		flags = append(flags, "efficiency")
	}
	if feat.ScoringRun {
		flags = append(flags, "scoring")
	}
	return strings.Join(flags, "|")
}
