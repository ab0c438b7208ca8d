package feed

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
)

// LogDirOptions parameterise the directory-backed game-log source.
type LogDirOptions struct {
	// Dir holds one CSV log per player, named <player_id>.csv.
	Dir string
}

// LogDir serves game logs from a directory of per-player CSV files.
type LogDir struct {
	opts   LogDirOptions
	logger zerolog.Logger
}

// NewLogDir builds a directory-backed game-log source.
func NewLogDir(opts LogDirOptions, logger zerolog.Logger) *LogDir {
	return &LogDir{opts: opts, logger: logger.With().Str("component", "gamelog_source").Logger()}
}

// GameLog loads the player's log, ordered ascending by date and trimmed to
// the trailing window.
func (l *LogDir) GameLog(_ context.Context, playerID string, trailing int) ([]gamelog.GameRecord, error) {
	if l.opts.Dir == "" {
		return nil, errors.New("game log directory not configured")
	}
	if playerID == "" {
		return nil, errors.New("player id required")
	}

	path := filepath.Join(l.opts.Dir, playerID+".csv")
	records, err := gamelog.Load(path, trailing)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("player", playerID).
		Int("games", len(records)).
		Msg("game log loaded")
	return records, nil
}

var _ GameLogSource = (*LogDir)(nil)
