package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/10EMMMM/nbaanalysts/internal/projection"
	"github.com/10EMMMM/nbaanalysts/internal/tabular"
)

// ErrNoContextRow is returned when the context file holds no row for the
// requested player.
var ErrNoContextRow = errors.New("feed: no context row for player")

// ContextFileOptions parameterise the file-backed context source.
type ContextFileOptions struct {
	// Path points at a CSV of upcoming-game rows keyed by player_id.
	Path string
}

// ContextFile resolves upcoming-game context from a shared CSV file. The
// file may carry many players and repeated rows per player; the last row for
// a player wins, so appenders can simply add corrections at the end.
type ContextFile struct {
	opts   ContextFileOptions
	logger zerolog.Logger
}

// NewContextFile builds a file-backed context source.
func NewContextFile(opts ContextFileOptions, logger zerolog.Logger) *ContextFile {
	return &ContextFile{opts: opts, logger: logger.With().Str("component", "context_source").Logger()}
}

// UpcomingContext returns the last matching row for playerID with numeric
// columns coerced. Empty cells stay absent rather than becoming zero.
func (c *ContextFile) UpcomingContext(_ context.Context, playerID string) (projection.Context, error) {
	if c.opts.Path == "" {
		return projection.Context{}, errors.New("context file not configured")
	}
	if playerID == "" {
		return projection.Context{}, errors.New("player id required")
	}

	_, rows, err := tabular.ReadRows(c.opts.Path)
	if err != nil {
		return projection.Context{}, fmt.Errorf("resolve context: %w", err)
	}

	var match tabular.Row
	for _, row := range rows {
		if strings.TrimSpace(row["player_id"]) == playerID {
			match = row
		}
	}
	if match == nil {
		return projection.Context{}, fmt.Errorf("%w: %s", ErrNoContextRow, playerID)
	}

	c.logger.Debug().Str("player", playerID).Msg("context row resolved")
	return projection.Context{
		PlayerID:         playerID,
		ProjectedMinutes: optionalFloat(match["projected_minutes"]),
		InjuryStatus:     strings.TrimSpace(match["injury_status"]),
		PaceContext:      optionalFloat(match["pace_context"]),
		VegasTotal:       optionalFloat(match["vegas_total"]),
		OppDefRating:     optionalFloat(match["opponent_def_rating"]),
	}, nil
}

func optionalFloat(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

var _ ContextSource = (*ContextFile)(nil)
