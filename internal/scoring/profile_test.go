package scoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steadyGames builds n identical 20-point home games on consecutive dates
// two days apart, so no back-to-backs occur unless a test rewrites dates.
func steadyGames(n int) []BoxRecord {
	games := make([]BoxRecord, n)
	for i := range games {
		games[i] = BoxRecord{
			Date:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 2*i),
			Matchup: "DAL vs. BOS",
			Points:  20,
		}
	}
	return games
}

func TestBuildProfileEmpty(t *testing.T) {
	p := BuildProfile("nobody", nil, nil)
	assert.Equal(t, "nobody", p.Player)
	assert.Zero(t, p.Games)
	assert.Zero(t, p.CompositeAAS)
	assert.Nil(t, p.L10)
}

func TestBuildProfileSteadyLine(t *testing.T) {
	p := BuildProfile("steady", steadyGames(12), map[string]float64{"BOS": 0.5})

	assert.Equal(t, 12, p.Games)
	assert.InDelta(t, 20, p.BaselineAAS, delta)
	assert.Zero(t, p.Consistency)

	require.NotNil(t, p.L10)
	assert.InDelta(t, 20, *p.L10, delta)
	assert.Nil(t, p.L30, "only 12 games, no 30-game window")
	assert.Nil(t, p.L50)

	require.NotNil(t, p.HomeAAS)
	assert.InDelta(t, 20, *p.HomeAAS, delta)
	assert.Nil(t, p.AwayAAS, "no road games in the log")
	assert.Nil(t, p.BackToBackAAS, "games are two days apart")

	// Every opponent at 0.500: adjusted recent form is half the baseline and
	// the composite is 0.4*20 + 0.4*20 + 0.2*10.
	assert.InDelta(t, 10, p.OpponentAdjustedL10, delta)
	assert.InDelta(t, 18, p.CompositeAAS, delta)

	assert.InDelta(t, 20, p.Projected.Points, delta)
	assert.Zero(t, p.Projected.Rebounds)
}

func TestBuildProfileSplits(t *testing.T) {
	games := []BoxRecord{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Matchup: "DAL vs. BOS", Points: 30},
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Matchup: "DAL @ MIA", Points: 10},
		{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Matchup: "DAL vs. NYK", Points: 20},
	}
	p := BuildProfile("split", games, nil)

	require.NotNil(t, p.HomeAAS)
	assert.InDelta(t, 25, *p.HomeAAS, delta)
	require.NotNil(t, p.AwayAAS)
	assert.InDelta(t, 10, *p.AwayAAS, delta)
	// Only the January 2 game follows the previous one by exactly a day.
	require.NotNil(t, p.BackToBackAAS)
	assert.InDelta(t, 10, *p.BackToBackAAS, delta)
}

func TestBuildProfileOpponentQualityWeighting(t *testing.T) {
	games := steadyGames(10)
	strong := BuildProfile("x", games, map[string]float64{"BOS": 0.8})
	weak := BuildProfile("x", games, map[string]float64{"BOS": 0.2})
	unknown := BuildProfile("x", games, nil)

	assert.Greater(t, strong.OpponentAdjustedL10, weak.OpponentAdjustedL10)
	assert.InDelta(t, 20*0.5, unknown.OpponentAdjustedL10, delta, "missing opponents default to 0.500")
}

func TestLoadBoxSortsAndCoerces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.csv")
	csv := "game_date,matchup,points,rebounds,assists,steals,blocks,turnovers,threes_made\n" +
		"2025-01-03,DAL vs. BOS,25,8,6,1,0,3,4\n" +
		"2025-01-01,DAL @ MIA,18,,5,2,1,2,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	games, err := LoadBox(path)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "DAL @ MIA", games[0].Matchup, "rows must be ascending by date")
	assert.Zero(t, games[0].Rebounds, "empty counting cell reads as zero")
	assert.Equal(t, 25.0, games[1].Points)
}

func TestLoadStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standings.csv")
	require.NoError(t, os.WriteFile(path, []byte("team,win_pct\nBOS,0.756\nMIA,0.488\n"), 0o644))

	pct, err := LoadStandings(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.756, pct["BOS"], delta)
	assert.InDelta(t, 0.488, pct["MIA"], delta)
	_, ok := pct["DAL"]
	assert.False(t, ok)
}
