package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

const delta = 1e-9

func constantGames(n int) []gamelog.GameRecord {
	records := make([]gamelog.GameRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, gamelog.GameRecord{
			Date:         time.Date(2025, 1, i+1, 0, 0, 0, 0, time.UTC),
			Opponent:     "OPP",
			Minutes:      stats.Ptr(30),
			UsageRate:    stats.Ptr(24),
			TrueShooting: stats.Ptr(0.56),
			SorareScore:  stats.Ptr(35),
			Points:       stats.Ptr(20),
			Pace:         stats.Ptr(98),
			OppDefRating: stats.Ptr(110),
		})
	}
	return records
}

func TestRunRejectsShortLog(t *testing.T) {
	_, err := Run(constantGames(5), Options{Lookback: 5})
	require.ErrorIs(t, err, ErrInsufficientHistory)

	// One game past the window is enough to evaluate something.
	out, err := Run(constantGames(6), Options{Lookback: 5})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRunConstantSeries(t *testing.T) {
	out, err := Run(constantGames(12), Options{PlayerID: "steady"})
	require.NoError(t, err)
	require.Len(t, out, DefaultLookback)

	for i, c := range out {
		if i > 0 {
			assert.True(t, out[i-1].Date.Before(c.Date), "comparisons out of order at %d", i)
		}
		// Constant history projects the constant line. The synthesized vegas
		// total is 220+(98-100)*1.5 = 217, shaving 0.3 off the composite.
		assert.InDelta(t, 20, c.PredictedPoints, delta)
		assert.InDelta(t, 42.69-0.3, c.PredictedScore, delta)
		assert.InDelta(t, 30, c.ProjectedMinutes, delta)
		require.NotNil(t, c.ActualScore)
		assert.InDelta(t, 35, *c.ActualScore, delta)
	}
}

func TestRunSkipsIndicesWithoutWindows(t *testing.T) {
	// Six games, lookback five: indices 1..4 have fewer than five prior
	// games and are skipped, leaving a single comparison.
	out, err := Run(constantGames(6), Options{Lookback: 5})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), out[0].Date)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	games := constantGames(16)
	for i := range games {
		games[i].SorareScore = stats.Ptr(30 + float64(i%7))
		games[i].Points = stats.Ptr(15 + float64(i%5))
	}
	sequential, err := Run(games, Options{Lookback: 8, Workers: 1})
	require.NoError(t, err)
	parallel, err := Run(games, Options{Lookback: 8, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestRunStrictPregameIgnoresRealizedPace(t *testing.T) {
	games := constantGames(12)
	hot := len(games) - 1
	games[hot].Pace = stats.Ptr(120)

	loose, err := Run(games, Options{Lookback: 1})
	require.NoError(t, err)
	strict, err := Run(games, Options{Lookback: 1, StrictPregame: true})
	require.NoError(t, err)

	require.Len(t, loose, 1)
	require.Len(t, strict, 1)
	// Default mode sees the realized 120 pace and inflates the line; strict
	// mode stays on the trailing 98 average.
	assert.Greater(t, loose[0].PredictedScore, strict[0].PredictedScore)
	assert.InDelta(t, 42.69-0.3, strict[0].PredictedScore, delta)
}

func TestSummarize(t *testing.T) {
	comparisons := []Comparison{
		{PredictedScore: 40, ActualScore: stats.Ptr(35), LowerCI: 36, UpperCI: 44},
		{PredictedScore: 30, ActualScore: stats.Ptr(33), LowerCI: 26, UpperCI: 34},
		{PredictedScore: 50, ActualScore: nil, LowerCI: 46, UpperCI: 54},
	}
	s := Summarize(comparisons)
	assert.Equal(t, 2, s.Games)
	assert.InDelta(t, 4, s.ScoreMAE, delta)
	assert.InDelta(t, 1, s.ScoreBias, delta)
	assert.InDelta(t, 0.5, s.CoverageRate, delta)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Zero(t, Summarize(nil))
}
