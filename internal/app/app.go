package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/10EMMMM/nbaanalysts/internal/alerting"
	"github.com/10EMMMM/nbaanalysts/internal/config"
	"github.com/10EMMMM/nbaanalysts/internal/feed"
	"github.com/10EMMMM/nbaanalysts/internal/scheduler"
	"github.com/10EMMMM/nbaanalysts/internal/service"
	"github.com/10EMMMM/nbaanalysts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSources() (feed.GameLogSource, feed.ContextSource) {
	logs := feed.NewLogDir(feed.LogDirOptions{
		Dir: a.Config.Data.GameLogDir,
	}, a.Logger)

	contexts := feed.NewContextFile(feed.ContextFileOptions{
		Path: a.Config.Data.ContextPath,
	}, a.Logger)

	return logs, contexts
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.RequestTimeout, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// Watch executes the periodic refresh service, or a single refresh pass when
// opts.Once is set.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	logs, contexts := a.newSources()
	notifier := a.newNotifier()

	var projStore storage.ProjectionStore
	if store != nil {
		projStore = store
	}

	var sched *scheduler.Scheduler
	if !opts.Once {
		sched = scheduler.New(scheduler.Options{
			Interval:     a.Config.Watch.Interval,
			AlignToStart: a.Config.Watch.AlignToBucket,
			StartupDelay: a.Config.Watch.StartupDelay,
		}, a.Logger)
	}

	svc := service.New(a.Config, sched, logs, contexts, projStore, notifier, a.Logger)

	if opts.Once {
		return svc.RefreshAll(ctx, time.Now().UTC())
	}

	a.Logger.Info().Msg("starting watch service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch service terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch service stopped")
	return nil
}

// ProjectOptions configure a single-player projection run.
type ProjectOptions struct {
	PlayerID string
	Trailing int
	CSVPath  string
	Store    bool
}

// BacktestOptions configure the walk-forward replay.
type BacktestOptions struct {
	PlayerID      string
	Trailing      int
	Lookback      int
	StrictPregame bool
	Workers       int
	CSVPath       string
	PNGPath       string
	Store         bool
}

// FeaturesOptions configure the rolling-feature dump.
type FeaturesOptions struct {
	PlayerID string
	Trailing int
	CSVPath  string
}

// ScoreOptions configure the box-score scoring table.
type ScoreOptions struct {
	Player string
	LastN  int
}

// ProfileOptions configure the season profile report.
type ProfileOptions struct {
	Player  string
	CSVPath string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit     int
	Backtests bool
}

// ExportOptions hold parameters for exporting stored projection history.
type ExportOptions struct {
	PlayerID  string
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// WatchOptions configure the refresh loop.
type WatchOptions struct {
	Once bool
}
