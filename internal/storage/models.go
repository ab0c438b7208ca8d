package storage

import (
	"time"

	"github.com/google/uuid"
)

// ProjectionSnapshot is a persisted projection for a player at a point in
// time. Successive snapshots for the same player form the history the watch
// service diffs against.
type ProjectionSnapshot struct {
	ID                 int64
	PlayerID           string
	ExpectedPoints     float64
	ExpectedScore      float64
	ExpectedMinutes    float64
	ExpectedUsage      *float64
	ExpectedEfficiency *float64
	LowerCI            float64
	UpperCI            float64
	Notes              string
	CreatedAt          time.Time
}

// BacktestRun summarises one persisted backtest execution.
type BacktestRun struct {
	ID            uuid.UUID
	PlayerID      string
	Lookback      int
	StrictPregame bool
	Games         int
	ScoreMAE      float64
	ScoreBias     float64
	CoverageRate  float64
	CreatedAt     time.Time
}
