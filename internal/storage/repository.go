package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	insertProjectionSQL = `INSERT INTO projections (
        player_id,
        expected_points,
        expected_score,
        expected_minutes,
        expected_usage,
        expected_efficiency,
        ci_lower,
        ci_upper,
        notes
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9
    )
    RETURNING id, created_at;`

	latestProjectionSQL = `SELECT
        id,
        player_id,
        expected_points,
        expected_score,
        expected_minutes,
        expected_usage,
        expected_efficiency,
        ci_lower,
        ci_upper,
        notes,
        created_at
    FROM projections
    WHERE player_id = $1
    ORDER BY created_at DESC
    LIMIT 1;`

	listRecentProjectionsSQL = `SELECT
        id,
        player_id,
        expected_points,
        expected_score,
        expected_minutes,
        expected_usage,
        expected_efficiency,
        ci_lower,
        ci_upper,
        notes,
        created_at
    FROM projections
    ORDER BY created_at DESC
    LIMIT $1;`

	listProjectionsBetweenSQL = `SELECT
        id,
        player_id,
        expected_points,
        expected_score,
        expected_minutes,
        expected_usage,
        expected_efficiency,
        ci_lower,
        ci_upper,
        notes,
        created_at
    FROM projections
    WHERE player_id = $1
      AND created_at >= $2
      AND created_at < $3
    ORDER BY created_at;`

	countProjectionsSQL = `SELECT COUNT(*) FROM projections;`

	insertBacktestRunSQL = `INSERT INTO backtest_runs (
        id,
        player_id,
        lookback,
        strict_pregame,
        games,
        score_mae,
        score_bias,
        coverage_rate
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8
    );`

	listRecentBacktestRunsSQL = `SELECT
        id,
        player_id,
        lookback,
        strict_pregame,
        games,
        score_mae,
        score_bias,
        coverage_rate,
        created_at
    FROM backtest_runs
    ORDER BY created_at DESC
    LIMIT $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// ProjectionStore defines persistence of projection snapshots.
type ProjectionStore interface {
	InsertProjection(ctx context.Context, snap ProjectionSnapshot) (ProjectionSnapshot, error)
	LatestProjection(ctx context.Context, playerID string) (ProjectionSnapshot, error)
	ListRecentProjections(ctx context.Context, limit int) ([]ProjectionSnapshot, error)
	ListProjectionsBetween(ctx context.Context, playerID string, from, to time.Time) ([]ProjectionSnapshot, error)
	CountProjections(ctx context.Context) (int64, error)
}

// BacktestStore defines persistence of backtest run summaries.
type BacktestStore interface {
	InsertBacktestRun(ctx context.Context, run BacktestRun) error
	ListRecentBacktestRuns(ctx context.Context, limit int) ([]BacktestRun, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to projections and backtest runs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertProjection persists a snapshot and returns it with its assigned id
// and timestamp.
func (s *Store) InsertProjection(ctx context.Context, snap ProjectionSnapshot) (ProjectionSnapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return ProjectionSnapshot{}, err
	}

	row := pool.QueryRow(ctx, insertProjectionSQL,
		snap.PlayerID,
		snap.ExpectedPoints,
		snap.ExpectedScore,
		snap.ExpectedMinutes,
		nullable(snap.ExpectedUsage),
		nullable(snap.ExpectedEfficiency),
		snap.LowerCI,
		snap.UpperCI,
		snap.Notes,
	)
	if scanErr := row.Scan(&snap.ID, &snap.CreatedAt); scanErr != nil {
		return ProjectionSnapshot{}, fmt.Errorf("insert projection: %w", scanErr)
	}
	return snap, nil
}

// LatestProjection returns the most recent snapshot for a player, or
// pgx.ErrNoRows when the player has none.
func (s *Store) LatestProjection(ctx context.Context, playerID string) (ProjectionSnapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return ProjectionSnapshot{}, err
	}

	rows, queryErr := pool.Query(ctx, latestProjectionSQL, playerID)
	if queryErr != nil {
		return ProjectionSnapshot{}, fmt.Errorf("latest projection: %w", queryErr)
	}
	defer rows.Close()

	if !rows.Next() {
		if rows.Err() != nil {
			return ProjectionSnapshot{}, rows.Err()
		}
		return ProjectionSnapshot{}, pgx.ErrNoRows
	}
	return scanProjection(rows)
}

// ListRecentProjections lists snapshots across players, newest first.
func (s *Store) ListRecentProjections(ctx context.Context, limit int) ([]ProjectionSnapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentProjectionsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent projections: %w", queryErr)
	}
	defer rows.Close()

	snaps := make([]ProjectionSnapshot, 0, limit)
	for rows.Next() {
		snap, scanErr := scanProjection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snaps = append(snaps, snap)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return snaps, nil
}

// ListProjectionsBetween lists one player's snapshots within a time window,
// oldest first.
func (s *Store) ListProjectionsBetween(ctx context.Context, playerID string, from, to time.Time) ([]ProjectionSnapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listProjectionsBetweenSQL, playerID, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list projections between: %w", queryErr)
	}
	defer rows.Close()

	snaps := make([]ProjectionSnapshot, 0)
	for rows.Next() {
		snap, scanErr := scanProjection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snaps = append(snaps, snap)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return snaps, nil
}

// CountProjections counts stored snapshots.
func (s *Store) CountProjections(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countProjectionsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count projections: %w", scanErr)
	}
	return count, nil
}

// InsertBacktestRun persists a backtest summary.
func (s *Store) InsertBacktestRun(ctx context.Context, run BacktestRun) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	if _, execErr := pool.Exec(ctx, insertBacktestRunSQL,
		run.ID,
		run.PlayerID,
		run.Lookback,
		run.StrictPregame,
		run.Games,
		run.ScoreMAE,
		run.ScoreBias,
		run.CoverageRate,
	); execErr != nil {
		return fmt.Errorf("insert backtest run: %w", execErr)
	}
	return nil
}

// ListRecentBacktestRuns lists run summaries, newest first.
func (s *Store) ListRecentBacktestRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentBacktestRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent backtest runs: %w", queryErr)
	}
	defer rows.Close()

	runs := make([]BacktestRun, 0, limit)
	for rows.Next() {
		var run BacktestRun
		if err := rows.Scan(
			&run.ID,
			&run.PlayerID,
			&run.Lookback,
			&run.StrictPregame,
			&run.Games,
			&run.ScoreMAE,
			&run.ScoreBias,
			&run.CoverageRate,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return runs, nil
}

func scanProjection(rows pgx.Rows) (ProjectionSnapshot, error) {
	var (
		snap       ProjectionSnapshot
		usage      sql.NullFloat64
		efficiency sql.NullFloat64
	)

	if err := rows.Scan(
		&snap.ID,
		&snap.PlayerID,
		&snap.ExpectedPoints,
		&snap.ExpectedScore,
		&snap.ExpectedMinutes,
		&usage,
		&efficiency,
		&snap.LowerCI,
		&snap.UpperCI,
		&snap.Notes,
		&snap.CreatedAt,
	); err != nil {
		return ProjectionSnapshot{}, err
	}

	if usage.Valid {
		value := usage.Float64
		snap.ExpectedUsage = &value
	}
	if efficiency.Valid {
		value := efficiency.Float64
		snap.ExpectedEfficiency = &value
	}
	return snap, nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
