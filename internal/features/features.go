// Package features derives rolling trend statistics from an ordered game
// log. Every derived value is a pointer that stays nil until its trailing
// window is fully observed, so consumers can tell "no signal yet" from a real
// zero.
package features

import (
	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

const (
	shortWindow = 5
	longWindow  = 10
)

// Record is a game annotated with trailing-window statistics and streak
// flags. The embedded game carries the raw values the windows were computed
// from.
type Record struct {
	gamelog.GameRecord

	MinutesAvg5   *float64
	MinutesAvg10  *float64
	MinutesTrend5 *float64
	UsageAvg5     *float64
	UsageAvg10    *float64
	TSAvg5        *float64
	TSAvg10       *float64
	PaceAvg5      *float64
	OppDefAvg5    *float64
	ScoreMean10   *float64
	ScoreStd10    *float64
	PointsAvg5    *float64
	PointsAvg10   *float64
	PointsStd10   *float64

	HighPace        bool
	LowMinutes      bool
	EfficiencySpike bool
	ScoringRun      bool
}

// Compute annotates each game with statistics over the games up to and
// including it. Input order is assumed ascending by date; the engine never
// reads past the index it is annotating. Empty input yields empty output.
func Compute(records []gamelog.GameRecord) []Record {
	minutes := column(records, func(r gamelog.GameRecord) *float64 { return r.Minutes })
	usage := column(records, func(r gamelog.GameRecord) *float64 { return r.UsageRate })
	ts := column(records, func(r gamelog.GameRecord) *float64 { return r.TrueShooting })
	pace := column(records, func(r gamelog.GameRecord) *float64 { return r.Pace })
	oppDef := column(records, func(r gamelog.GameRecord) *float64 { return r.OppDefRating })
	score := column(records, func(r gamelog.GameRecord) *float64 { return r.SorareScore })
	points := column(records, func(r gamelog.GameRecord) *float64 { return r.Points })

	minutesAvg5 := stats.Rolling(minutes, shortWindow, stats.Mean)
	minutesAvg10 := stats.Rolling(minutes, longWindow, stats.Mean)
	minutesTrend5 := stats.Rolling(minutes, shortWindow, stats.Slope)
	usageAvg5 := stats.Rolling(usage, shortWindow, stats.Mean)
	usageAvg10 := stats.Rolling(usage, longWindow, stats.Mean)
	tsAvg5 := stats.Rolling(ts, shortWindow, stats.Mean)
	tsAvg10 := stats.Rolling(ts, longWindow, stats.Mean)
	paceAvg5 := stats.Rolling(pace, shortWindow, stats.Mean)
	oppDefAvg5 := stats.Rolling(oppDef, shortWindow, stats.Mean)
	scoreMean10 := stats.Rolling(score, longWindow, stats.Mean)
	scoreStd10 := stats.Rolling(score, longWindow, stats.PopStd)
	pointsAvg5 := stats.Rolling(points, shortWindow, stats.Mean)
	pointsAvg10 := stats.Rolling(points, longWindow, stats.Mean)
	pointsStd10 := stats.Rolling(points, longWindow, stats.PopStd)

	out := make([]Record, len(records))
	for i, game := range records {
		out[i] = Record{
			GameRecord:    game,
			MinutesAvg5:   minutesAvg5[i],
			MinutesAvg10:  minutesAvg10[i],
			MinutesTrend5: minutesTrend5[i],
			UsageAvg5:     usageAvg5[i],
			UsageAvg10:    usageAvg10[i],
			TSAvg5:        tsAvg5[i],
			TSAvg10:       tsAvg10[i],
			PaceAvg5:      paceAvg5[i],
			OppDefAvg5:    oppDefAvg5[i],
			ScoreMean10:   scoreMean10[i],
			ScoreStd10:    scoreStd10[i],
			PointsAvg5:    pointsAvg5[i],
			PointsAvg10:   pointsAvg10[i],
			PointsStd10:   pointsStd10[i],

			HighPace:        exceeds(game.Pace, paceAvg5[i], 1.02),
			LowMinutes:      falls(game.Minutes, minutesAvg5[i], 0.90),
			EfficiencySpike: exceeds(game.TrueShooting, tsAvg5[i], 1.05),
			ScoringRun:      exceeds(game.Points, pointsAvg5[i], 1.05),
		}
	}
	return out
}

func column(records []gamelog.GameRecord, pick func(gamelog.GameRecord) *float64) []*float64 {
	out := make([]*float64, len(records))
	for i, r := range records {
		out[i] = pick(r)
	}
	return out
}

// Flags compare an instantaneous value against a scaled trailing anchor and
// are false whenever either side is undefined.

func exceeds(value, anchor *float64, factor float64) bool {
	if value == nil || anchor == nil {
		return false
	}
	return *value > *anchor*factor
}

func falls(value, anchor *float64, factor float64) bool {
	if value == nil || anchor == nil {
		return false
	}
	return *value < *anchor*factor
}
