package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

const boxDateLayout = "2006-01-02"

// LoadBox reads a box-score CSV with columns game_date, matchup, points,
// rebounds, assists, steals, blocks, turnovers, threes_made and returns the
// games ascending by date.
func LoadBox(path string) ([]BoxRecord, error) {
	_, rows, err := tabular.ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("load box scores: %w", err)
	}
	games := make([]BoxRecord, 0, len(rows))
	for _, row := range rows {
		games = append(games, BoxRecord{
			Date:       parseBoxDate(row["game_date"]),
			Matchup:    strings.TrimSpace(row["matchup"]),
			Points:     num(row["points"]),
			Rebounds:   num(row["rebounds"]),
			Assists:    num(row["assists"]),
			Steals:     num(row["steals"]),
			Blocks:     num(row["blocks"]),
			Turnovers:  num(row["turnovers"]),
			ThreesMade: num(row["threes_made"]),
		})
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.Before(games[j].Date)
	})
	return games, nil
}

// LoadStandings reads a CSV of team,win_pct rows into a lookup map.
func LoadStandings(path string) (map[string]float64, error) {
	_, rows, err := tabular.ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		team := strings.TrimSpace(row["team"])
		if team == "" {
			continue
		}
		out[team] = num(row["win_pct"])
	}
	return out, nil
}

func parseBoxDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if len(value) >= len(boxDateLayout) {
		if t, err := time.Parse(boxDateLayout, value[:len(boxDateLayout)]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// num reads a counting stat; box feeds carry complete lines, so an empty or
// malformed cell counts as zero rather than missing.
func num(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return v
}
