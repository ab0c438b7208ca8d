// Package gamelog loads per-game statistics for a single athlete from CSV
// game logs. Records are plain data: the loader reads, types, and orders
// them, and everything downstream treats the slice as immutable.
package gamelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultTrailingGames is the trailing-window length applied when the caller
// does not configure one.
const DefaultTrailingGames = 15

const dateLayout = "2006-01-02"

// GameRecord is one played game. Numeric fields are pointers so that a
// missing cell in the source log stays missing instead of reading as zero.
type GameRecord struct {
	Date         time.Time
	Opponent     string
	Minutes      *float64
	UsageRate    *float64
	TrueShooting *float64
	SorareScore  *float64
	Points       *float64
	Pace         *float64
	OppDefRating *float64
}

// Load reads the game log at path, orders it ascending by date with missing
// dates first, and returns at most the trailing most recent records. A
// trailing value of zero or less keeps the whole log. A missing file is
// reported with the underlying fs.ErrNotExist preserved in the chain.
func Load(path string, trailing int) ([]GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game log: %w", err)
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse game log %s: %w", path, err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	if trailing > 0 && len(records) > trailing {
		records = records[len(records)-trailing:]
	}
	return records, nil
}

func parse(r io.Reader) ([]GameRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var records []GameRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		records = append(records, GameRecord{
			Date:         parseDate(cell("game_date")),
			Opponent:     cell("opponent"),
			Minutes:      parseFloat(cell("minutes")),
			UsageRate:    parseFloat(cell("usage_rate")),
			TrueShooting: parseFloat(cell("true_shooting_pct")),
			SorareScore:  parseFloat(cell("sorare_score")),
			Points:       parseFloat(cell("points")),
			Pace:         parseFloat(cell("pace")),
			OppDefRating: parseFloat(cell("opponent_def_rating")),
		})
	}
	return records, nil
}

// parseDate accepts ISO dates, optionally with a time suffix. Anything else,
// including an empty cell, becomes the zero time, which sorts before every
// real date.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if len(value) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, value[:len(dateLayout)]); err == nil {
			return t
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

// parseFloat returns nil for empty or unparseable cells. Missing numbers are
// data, not errors.
func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}
