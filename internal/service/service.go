package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/10EMMMM/nbaanalysts/internal/alerting"
	"github.com/10EMMMM/nbaanalysts/internal/config"
	"github.com/10EMMMM/nbaanalysts/internal/features"
	"github.com/10EMMMM/nbaanalysts/internal/feed"
	"github.com/10EMMMM/nbaanalysts/internal/projection"
	"github.com/10EMMMM/nbaanalysts/internal/scheduler"
	"github.com/10EMMMM/nbaanalysts/internal/storage"
)

// Service orchestrates reloading, projecting, persistence, and alerting for
// the watched players.
type Service struct {
	scheduler *scheduler.Scheduler
	logs      feed.GameLogSource
	contexts  feed.ContextSource
	store     storage.ProjectionStore
	notifier  alerting.Notifier
	logger    zerolog.Logger

	players  []string
	trailing int

	threshold float64
	cooldown  time.Duration
	alertsOn  bool
	locker    storage.AdvisoryLocker
	lockKey   int64

	mu        sync.Mutex
	lastAlert map[string]time.Time
}

// New constructs the watch service.
func New(cfg *config.Config, sched *scheduler.Scheduler, logs feed.GameLogSource, contexts feed.ContextSource, store storage.ProjectionStore, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Service{
		scheduler: sched,
		logs:      logs,
		contexts:  contexts,
		store:     store,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		players:   cfg.Watch.Players,
		trailing:  cfg.Data.TrailingGames,
		threshold: cfg.Alerting.ScoreDelta,
		cooldown:  cfg.Alerting.Cooldown,
		alertsOn:  cfg.Alerting.Enabled,
		locker:    locker,
		lockKey:   cfg.Watch.AdvisoryLockKey,
		lastAlert: make(map[string]time.Time),
	}
}

// Run begins the aligned refresh loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.RefreshAll)
}

// RefreshAll re-projects every configured player. The advisory lock keeps
// concurrent instances from doubling up on writes and alerts.
func (s *Service) RefreshAll(ctx context.Context, at time.Time) error {
	if len(s.players) == 0 {
		s.logger.Warn().Msg("no players configured; nothing to refresh")
		return nil
	}

	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Time("cycle", at).Msg("skip cycle because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	failed := 0
	for _, playerID := range s.players {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.RefreshPlayer(ctx, playerID); err != nil {
			failed++
			s.logger.Error().Err(err).Str("player_id", playerID).Msg("refresh failed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d players failed to refresh", failed, len(s.players))
	}
	return nil
}

// RefreshPlayer reloads one player's log and context, projects the next
// game, persists the snapshot, and alerts when the line moved materially
// since the previously stored projection.
func (s *Service) RefreshPlayer(ctx context.Context, playerID string) error {
	records, err := s.logs.GameLog(ctx, playerID, s.trailing)
	if err != nil {
		return fmt.Errorf("load game log: %w", err)
	}

	feats := features.Compute(records)

	pctx, err := s.contexts.UpcomingContext(ctx, playerID)
	if err != nil {
		if !errors.Is(err, feed.ErrNoContextRow) {
			return fmt.Errorf("resolve context: %w", err)
		}
		s.logger.Debug().Str("player_id", playerID).Msg("no upcoming context row; projecting from history alone")
		pctx = projection.Context{PlayerID: playerID}
	}

	result, err := projection.Blend(feats, pctx)
	if err != nil {
		return fmt.Errorf("blend projection: %w", err)
	}

	s.logger.Info().Str("player_id", playerID).
		Float64("expected_score", result.ExpectedScore).
		Float64("expected_minutes", result.ExpectedMinutes).
		Msg("projection refreshed")

	var previous *storage.ProjectionSnapshot
	if s.store != nil {
		prev, prevErr := s.store.LatestProjection(ctx, playerID)
		switch {
		case prevErr == nil:
			previous = &prev
		case errors.Is(prevErr, pgx.ErrNoRows):
			// first snapshot for this player
		default:
			s.logger.Error().Err(prevErr).Str("player_id", playerID).Msg("failed to read previous projection")
		}

		snap := storage.ProjectionSnapshot{
			PlayerID:           result.PlayerID,
			ExpectedPoints:     result.ExpectedPoints,
			ExpectedScore:      result.ExpectedScore,
			ExpectedMinutes:    result.ExpectedMinutes,
			ExpectedUsage:      result.ExpectedUsage,
			ExpectedEfficiency: result.ExpectedEfficiency,
			LowerCI:            result.LowerCI,
			UpperCI:            result.UpperCI,
			Notes:              result.Notes,
		}
		if _, insErr := s.store.InsertProjection(ctx, snap); insErr != nil {
			s.logger.Error().Err(insErr).Str("player_id", playerID).Msg("failed to persist snapshot")
		}
	}

	s.maybeAlert(ctx, result, previous)
	return nil
}

func (s *Service) maybeAlert(ctx context.Context, result projection.Result, previous *storage.ProjectionSnapshot) {
	if !s.alertsOn || s.notifier == nil || previous == nil {
		return
	}

	delta := result.ExpectedScore - previous.ExpectedScore
	swing := s.threshold > 0 && math.Abs(delta) > s.threshold
	injuryChanged := injuryNote(result.Notes) != injuryNote(previous.Notes)
	if !swing && !injuryChanged {
		return
	}

	if !s.clearCooldown(result.PlayerID) {
		s.logger.Debug().Str("player_id", result.PlayerID).Msg("alert suppressed by cooldown")
		return
	}

	note := alerting.Notification{
		PlayerID:        result.PlayerID,
		GeneratedAt:     time.Now().UTC(),
		ExpectedScore:   result.ExpectedScore,
		PreviousScore:   &previous.ExpectedScore,
		Delta:           delta,
		Threshold:       s.threshold,
		ExpectedMinutes: result.ExpectedMinutes,
		LowerCI:         result.LowerCI,
		UpperCI:         result.UpperCI,
		Notes:           result.Notes,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("player_id", result.PlayerID).Msg("failed to dispatch alert")
	}
}

// clearCooldown reports whether an alert may fire for the player now and
// stamps the attempt when it may.
func (s *Service) clearCooldown(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if last, ok := s.lastAlert[playerID]; ok && s.cooldown > 0 && now.Sub(last) < s.cooldown {
		return false
	}
	s.lastAlert[playerID] = now
	return true
}

// injuryNote extracts the injury segment from a joined notes string, empty
// when none is present.
func injuryNote(notes string) string {
	for _, part := range strings.Split(notes, "; ") {
		if strings.HasPrefix(part, "Injury status:") {
			return part
		}
	}
	return ""
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
