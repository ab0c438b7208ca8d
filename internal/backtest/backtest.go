// Package backtest replays recent games through the projection pipeline,
// predicting each one from strictly prior history and recording predicted
// against realized lines.
package backtest

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/10EMMMM/nbaanalysts/internal/features"
	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
	"github.com/10EMMMM/nbaanalysts/internal/projection"
	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

// ErrInsufficientHistory is returned when the log holds no more games than
// the lookback window itself.
var ErrInsufficientHistory = errors.New("backtest: not enough games for the lookback window")

const (
	// DefaultLookback is how many trailing games are replayed when the
	// caller does not choose.
	DefaultLookback = 5

	// minHistory games are needed before any rolling window can exist, so
	// earlier indices are skipped rather than predicted blind.
	minHistory = 5

	vegasBase     = 220.0
	vegasPaceRate = 1.5
	paceBaseline  = 100.0
)

// Options controls a backtest run.
type Options struct {
	// PlayerID labels the synthesized projection contexts.
	PlayerID string
	// Lookback is the number of trailing games to replay, DefaultLookback
	// when zero or negative.
	Lookback int
	// StrictPregame sources pace and opponent-rating context from trailing
	// history only. The default mirrors the historical behavior of reading
	// both from the realized game, which is a documented approximation
	// rather than a strict pre-game simulation.
	StrictPregame bool
	// Workers bounds concurrent iterations. Each iteration reads a disjoint
	// prefix of the log, so any degree of parallelism yields identical
	// output. Zero or negative means sequential.
	Workers int
}

// Comparison is one replayed game: the line the blender would have projected
// before tip-off next to what actually happened. Actual values are pointers
// since the log may be missing them.
type Comparison struct {
	Date             time.Time
	Opponent         string
	PredictedScore   float64
	ActualScore      *float64
	PredictedPoints  float64
	ActualPoints     *float64
	ProjectedMinutes float64
	ActualMinutes    *float64
	LowerCI          float64
	UpperCI          float64
	Notes            string
}

// Run replays the trailing lookback games of records, each predicted from the
// games strictly before it. Comparisons come back in chronological order
// regardless of worker count. Indices whose prior history is too short for
// any rolling window are skipped.
func Run(records []gamelog.GameRecord, opts Options) ([]Comparison, error) {
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if len(records) <= lookback {
		return nil, fmt.Errorf("%w: have %d games, need more than %d",
			ErrInsufficientHistory, len(records), lookback)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	start := len(records) - lookback
	slots := make([]*Comparison, lookback)

	var g errgroup.Group
	g.SetLimit(workers)
	for t := start; t < len(records); t++ {
		t := t
		g.Go(func() error {
			if cmp, ok := evaluate(records, t, opts); ok {
				slots[t-start] = &cmp
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Comparison, 0, lookback)
	for _, c := range slots {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func evaluate(records []gamelog.GameRecord, t int, opts Options) (Comparison, bool) {
	history := records[:t]
	if len(history) < minHistory {
		return Comparison{}, false
	}
	feats := features.Compute(history)
	actual := records[t]

	recent := history[len(history)-minHistory:]
	minutesProxy := stats.MeanPresent(pick(recent, func(r gamelog.GameRecord) *float64 { return r.Minutes }))
	trailingPace := stats.MeanPresent(pick(recent, func(r gamelog.GameRecord) *float64 { return r.Pace }))
	trailingDef := stats.MeanPresent(pick(recent, func(r gamelog.GameRecord) *float64 { return r.OppDefRating }))

	paceCtx := trailingPace
	defCtx := trailingDef
	if !opts.StrictPregame {
		paceCtx = stats.Coalesce(actual.Pace, trailingPace)
		defCtx = stats.Coalesce(actual.OppDefRating, trailingDef)
	}

	var vegas *float64
	if paceCtx != nil {
		vegas = stats.Ptr(vegasBase + (*paceCtx-paceBaseline)*vegasPaceRate)
	}

	res, err := projection.Blend(feats, projection.Context{
		PlayerID:         opts.PlayerID,
		ProjectedMinutes: minutesProxy,
		InjuryStatus:     "Healthy",
		PaceContext:      paceCtx,
		VegasTotal:       vegas,
		OppDefRating:     defCtx,
	})
	if err != nil {
		return Comparison{}, false
	}

	return Comparison{
		Date:             actual.Date,
		Opponent:         actual.Opponent,
		PredictedScore:   res.ExpectedScore,
		ActualScore:      actual.SorareScore,
		PredictedPoints:  res.ExpectedPoints,
		ActualPoints:     actual.Points,
		ProjectedMinutes: res.ExpectedMinutes,
		ActualMinutes:    actual.Minutes,
		LowerCI:          res.LowerCI,
		UpperCI:          res.UpperCI,
		Notes:            res.Notes,
	}, true
}

func pick(records []gamelog.GameRecord, f func(gamelog.GameRecord) *float64) []*float64 {
	out := make([]*float64, len(records))
	for i, r := range records {
		out[i] = f(r)
	}
	return out
}

// Summary aggregates a run over the comparisons that have a realized score.
type Summary struct {
	Games        int
	ScoreMAE     float64
	ScoreBias    float64
	CoverageRate float64
}

// Summarize reports mean absolute error, signed bias, and how often the
// realized score landed inside the projected interval. Comparisons without a
// realized score are excluded.
func Summarize(comparisons []Comparison) Summary {
	var n, covered int
	var absSum, errSum float64
	for _, c := range comparisons {
		if c.ActualScore == nil {
			continue
		}
		n++
		diff := c.PredictedScore - *c.ActualScore
		absSum += math.Abs(diff)
		errSum += diff
		if *c.ActualScore >= c.LowerCI && *c.ActualScore <= c.UpperCI {
			covered++
		}
	}
	if n == 0 {
		return Summary{}
	}
	return Summary{
		Games:        n,
		ScoreMAE:     absSum / float64(n),
		ScoreBias:    errSum / float64(n),
		CoverageRate: float64(covered) / float64(n),
	}
}
