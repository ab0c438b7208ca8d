// Package scoring rates games on the All-Around Score, a box-score aggregate
// rewarding stuffed stat lines, and builds long-run player profiles from it.
package scoring

import (
	"strings"
	"time"

	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

// BoxRecord is one game of counting stats. Box feeds are complete lines, so
// values are plain numbers; an empty cell reads as zero.
type BoxRecord struct {
	Date       time.Time
	Matchup    string
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	Turnovers  float64
	ThreesMade float64
}

// Home reports whether the matchup was a home game ("DAL vs. BOS" as opposed
// to "DAL @ BOS").
func (b BoxRecord) Home() bool {
	return strings.Contains(b.Matchup, " vs. ")
}

// Away reports whether the matchup was played on the road.
func (b BoxRecord) Away() bool {
	return strings.Contains(b.Matchup, " @ ")
}

// Opponent extracts the opposing team code from the matchup string, empty
// when the format is unrecognized.
func (b BoxRecord) Opponent() string {
	for _, sep := range []string{" vs. ", " @ "} {
		if _, after, ok := strings.Cut(b.Matchup, sep); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}

// Team extracts the player's own team code from the matchup string.
func (b BoxRecord) Team() string {
	for _, sep := range []string{" vs. ", " @ "} {
		if before, _, ok := strings.Cut(b.Matchup, sep); ok {
			return strings.TrimSpace(before)
		}
	}
	return ""
}

// AllAround computes the All-Around Score for one game: weighted counting
// stats plus a point for a double-double and another for a triple-double.
func AllAround(b BoxRecord) float64 {
	score := b.Points +
		1.2*b.Rebounds +
		1.5*b.Assists +
		3*b.Blocks +
		3*b.Steals -
		2*b.Turnovers +
		b.ThreesMade

	doubleDigit := 0
	for _, v := range []float64{b.Points, b.Rebounds, b.Assists, b.Steals, b.Blocks} {
		if v >= 10 {
			doubleDigit++
		}
	}
	if doubleDigit >= 2 {
		score++
	}
	if doubleDigit >= 3 {
		score++
	}
	return score
}

// GameScore pairs a game with its All-Around Score.
type GameScore struct {
	BoxRecord
	AAS float64
}

// LastN scores the most recent n games of an ascending log, oldest of the
// window first.
func LastN(games []BoxRecord, n int) []GameScore {
	if n > 0 && len(games) > n {
		games = games[len(games)-n:]
	}
	out := make([]GameScore, len(games))
	for i, g := range games {
		out[i] = GameScore{BoxRecord: g, AAS: AllAround(g)}
	}
	return out
}

// AverageAAS is the mean score of the slice, 0 when empty.
func AverageAAS(scores []GameScore) float64 {
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.AAS
	}
	return stats.Mean(values)
}
