package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projections (
        id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        player_id TEXT NOT NULL,
        expected_points DOUBLE PRECISION NOT NULL,
        expected_score DOUBLE PRECISION NOT NULL,
        expected_minutes DOUBLE PRECISION NOT NULL,
        expected_usage DOUBLE PRECISION,
        expected_efficiency DOUBLE PRECISION,
        ci_lower DOUBLE PRECISION NOT NULL,
        ci_upper DOUBLE PRECISION NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`,
	`CREATE INDEX IF NOT EXISTS projections_player_created_idx
        ON projections (player_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS backtest_runs (
        id UUID PRIMARY KEY,
        player_id TEXT NOT NULL,
        lookback INTEGER NOT NULL,
        strict_pregame BOOLEAN NOT NULL,
        games INTEGER NOT NULL,
        score_mae DOUBLE PRECISION NOT NULL,
        score_bias DOUBLE PRECISION NOT NULL,
        coverage_rate DOUBLE PRECISION NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`,
	`CREATE INDEX IF NOT EXISTS backtest_runs_created_idx
        ON backtest_runs (created_at DESC);`,
}

// EnsureSchema creates the tables and indexes the store expects. Statements
// are idempotent so this is safe to run on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, execErr := pool.Exec(ctx, stmt); execErr != nil {
			return fmt.Errorf("ensure schema: %w", execErr)
		}
	}
	return nil
}
