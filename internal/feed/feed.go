// Package feed supplies game logs and upcoming-game context to the engine.
// The shipped sources read already-fetched CSV files; the interfaces are the
// seam where credentialed network fetchers would plug in.
package feed

import (
	"context"

	"github.com/10EMMMM/nbaanalysts/internal/gamelog"
	"github.com/10EMMMM/nbaanalysts/internal/projection"
)

// GameLogSource yields a player's trailing game log, oldest first.
type GameLogSource interface {
	GameLog(ctx context.Context, playerID string, trailing int) ([]gamelog.GameRecord, error)
}

// ContextSource resolves the forward-looking context for a player's next
// game.
type ContextSource interface {
	UpcomingContext(ctx context.Context, playerID string) (projection.Context, error)
}
