package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/10EMMMM/nbaanalysts/internal/scoring"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// Profile aggregates a player's full box-score log into a season read:
// baseline, trailing windows, splits, and the composite forecast.
func (a *App) Profile(ctx context.Context, opts ProfileOptions) error {
	path := filepath.Join(a.Config.Data.BoxScoreDir, opts.Player+".csv")
	games, err := scoring.LoadBox(path)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "no box scores found")
		return nil
	}

	winPct, err := scoring.LoadStandings(a.Config.Data.StandingsPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		a.Logger.Debug().Str("path", a.Config.Data.StandingsPath).Msg("no standings file; opponents weighted at 0.500")
		winPct = nil
	}

	profile := scoring.BuildProfile(opts.Player, games, winPct)
	printProfile(profile)

	if opts.CSVPath != "" {
		if err := writeProfileCSV(opts.CSVPath, profile); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("profile written")
	}

	return nil
}

func printProfile(profile scoring.Profile) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "Player\t%s\n", profile.Player)
	fmt.Fprintf(writer, "Games\t%d\n", profile.Games)
	fmt.Fprintf(writer, "Baseline AAS\t%s\n", tabular.FixedCell(profile.BaselineAAS, 2))
	fmt.Fprintf(writer, "Consistency (std)\t%s\n", tabular.FixedCell(profile.Consistency, 2))
	fmt.Fprintf(writer, "Last 10\t%s\n", tabular.Cell(profile.L10, 2))
	fmt.Fprintf(writer, "Last 30\t%s\n", tabular.Cell(profile.L30, 2))
	fmt.Fprintf(writer, "Last 50\t%s\n", tabular.Cell(profile.L50, 2))
	fmt.Fprintf(writer, "Home AAS\t%s\n", tabular.Cell(profile.HomeAAS, 2))
	fmt.Fprintf(writer, "Away AAS\t%s\n", tabular.Cell(profile.AwayAAS, 2))
	fmt.Fprintf(writer, "Back-to-back AAS\t%s\n", tabular.Cell(profile.BackToBackAAS, 2))
	fmt.Fprintf(writer, "Opponent-adjusted L10\t%s\n", tabular.FixedCell(profile.OpponentAdjustedL10, 2))
	fmt.Fprintf(writer, "Composite AAS\t%s\n", tabular.FixedCell(profile.CompositeAAS, 2))

	line := profile.Projected
	fmt.Fprintf(
		writer,
		"Projected line\t%s pts / %s reb / %s ast / %s stl / %s blk / %s tov / %s 3pm\n",
		tabular.FixedCell(line.Points, 1),
		tabular.FixedCell(line.Rebounds, 1),
		tabular.FixedCell(line.Assists, 1),
		tabular.FixedCell(line.Steals, 1),
		tabular.FixedCell(line.Blocks, 1),
		tabular.FixedCell(line.Turnovers, 1),
		tabular.FixedCell(line.ThreesMade, 1),
	)

	writer.Flush()
}

func writeProfileCSV(path string, profile scoring.Profile) error {
	fields := []string{
		"player",
		"games",
		"baseline_aas",
		"consistency",
		"l10",
		"l30",
		"l50",
		"home_aas",
		"away_aas",
		"b2b_aas",
		"opponent_adjusted_l10",
		"composite_aas",
		"proj_points",
		"proj_rebounds",
		"proj_assists",
		"proj_steals",
		"proj_blocks",
		"proj_turnovers",
		"proj_threes",
	}

	line := profile.Projected
	row := tabular.Row{
		"player":                profile.Player,
		"games":                 fmt.Sprintf("%d", profile.Games),
		"baseline_aas":          tabular.FixedCell(profile.BaselineAAS, 2),
		"consistency":           tabular.FixedCell(profile.Consistency, 2),
		"l10":                   tabular.Cell(profile.L10, 2),
		"l30":                   tabular.Cell(profile.L30, 2),
		"l50":                   tabular.Cell(profile.L50, 2),
		"home_aas":              tabular.Cell(profile.HomeAAS, 2),
		"away_aas":              tabular.Cell(profile.AwayAAS, 2),
		"b2b_aas":               tabular.Cell(profile.BackToBackAAS, 2),
		"opponent_adjusted_l10": tabular.FixedCell(profile.OpponentAdjustedL10, 2),
		"composite_aas":         tabular.FixedCell(profile.CompositeAAS, 2),
		"proj_points":           tabular.FixedCell(line.Points, 2),
		"proj_rebounds":         tabular.FixedCell(line.Rebounds, 2),
		"proj_assists":          tabular.FixedCell(line.Assists, 2),
		"proj_steals":           tabular.FixedCell(line.Steals, 2),
		"proj_blocks":           tabular.FixedCell(line.Blocks, 2),
		"proj_turnovers":        tabular.FixedCell(line.Turnovers, 2),
		"proj_threes":           tabular.FixedCell(line.ThreesMade, 2),
	}

	return tabular.WriteRows(path, fields, []tabular.Row{row})
}
