package features

import (
	"testing"
	"time"

	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

func game(day int, minutes, usage, ts, score, points, pace, oppDef float64) gamelog.GameRecord {
	return gamelog.GameRecord{
		Date:         time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Opponent:     "OPP",
		Minutes:      stats.Ptr(minutes),
		UsageRate:    stats.Ptr(usage),
		TrueShooting: stats.Ptr(ts),
		SorareScore:  stats.Ptr(score),
		Points:       stats.Ptr(points),
		Pace:         stats.Ptr(pace),
		OppDefRating: stats.Ptr(oppDef),
	}
}

func constantSeries(n int) []gamelog.GameRecord {
	records := make([]gamelog.GameRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, game(i+1, 30, 24, 0.56, 35, 20, 98, 110))
	}
	return records
}

func TestComputeEmptyInput(t *testing.T) {
	if got := Compute(nil); len(got) != 0 {
		t.Fatalf("empty input should produce empty output, got %d", len(got))
	}
}

func TestComputeWindowBoundaries(t *testing.T) {
	out := Compute(constantSeries(12))
	if out[3].MinutesAvg5 != nil {
		t.Errorf("five-game mean defined after 4 games: %v", *out[3].MinutesAvg5)
	}
	if out[4].MinutesAvg5 == nil {
		t.Errorf("five-game mean undefined after 5 games")
	}
	if out[8].ScoreMean10 != nil {
		t.Errorf("ten-game mean defined after 9 games")
	}
	if out[9].ScoreMean10 == nil {
		t.Errorf("ten-game mean undefined after 10 games")
	}
}

func TestComputeConstantSeries(t *testing.T) {
	out := Compute(constantSeries(12))
	last := out[len(out)-1]
	if last.PointsAvg5 == nil || *last.PointsAvg5 != 20 {
		t.Errorf("PointsAvg5 = %v, want exactly 20", last.PointsAvg5)
	}
	if last.PointsStd10 == nil || *last.PointsStd10 != 0 {
		t.Errorf("PointsStd10 = %v, want exactly 0", last.PointsStd10)
	}
	if last.MinutesTrend5 == nil || *last.MinutesTrend5 != 0 {
		t.Errorf("flat minutes should have zero trend, got %v", last.MinutesTrend5)
	}
	if last.HighPace || last.LowMinutes || last.EfficiencySpike || last.ScoringRun {
		t.Errorf("constant series should raise no flags: %+v", last)
	}
}

func TestComputeMinutesTrend(t *testing.T) {
	records := constantSeries(5)
	for i := range records {
		records[i].Minutes = stats.Ptr(30 + 2*float64(i))
	}
	out := Compute(records)
	got := out[4].MinutesTrend5
	if got == nil || *got != 2 {
		t.Fatalf("MinutesTrend5 = %v, want 2", got)
	}
}

func TestComputeMissingValueLeavesWindowUndefined(t *testing.T) {
	records := constantSeries(12)
	records[7].UsageRate = nil
	out := Compute(records)
	if out[11].UsageAvg5 != nil {
		t.Errorf("UsageAvg5 covering a missing game should be nil, got %v", *out[11].UsageAvg5)
	}
	if out[11].UsageAvg10 != nil {
		t.Errorf("UsageAvg10 covering a missing game should be nil")
	}
	if out[11].TSAvg5 == nil {
		t.Errorf("other metrics must be unaffected by the usage gap")
	}
}

func TestComputeFlags(t *testing.T) {
	records := constantSeries(8)
	records[7].Pace = stats.Ptr(98 * 1.03)
	records[7].Minutes = stats.Ptr(30 * 0.85)
	records[7].TrueShooting = stats.Ptr(0.56 * 1.10)
	records[7].Points = stats.Ptr(20 * 1.10)
	out := Compute(records)
	last := out[7]
	if !last.HighPace {
		t.Errorf("pace above 102%% of trailing mean should flag")
	}
	if !last.LowMinutes {
		t.Errorf("minutes below 90%% of trailing mean should flag")
	}
	if !last.EfficiencySpike {
		t.Errorf("shooting above 105%% of trailing mean should flag")
	}
	if !last.ScoringRun {
		t.Errorf("points above 105%% of trailing mean should flag")
	}
}

func TestComputeFlagsUndefinedAnchor(t *testing.T) {
	// Only three games: no five-game anchors yet, so no flags regardless of
	// how extreme the values are.
	records := constantSeries(3)
	records[2].Pace = stats.Ptr(140)
	records[2].Points = stats.Ptr(60)
	out := Compute(records)
	if out[2].HighPace || out[2].ScoringRun {
		t.Fatalf("flags must stay false while anchors are undefined")
	}
}
