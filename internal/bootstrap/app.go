package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/dayly/internal/config"
	"github.com/sandeepkv93/dayly/internal/notify"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/scheduler"
	"github.com/sandeepkv93/dayly/internal/storage"
	"github.com/sandeepkv93/dayly/internal/summary"
)

const (
	DailySummaryID = "daily_summary"
	KindSummary    = "summary"
)

// App owns every long-lived component of a dayly process.
type App struct {
	Config   config.RuntimeConfig
	Logger   *slog.Logger
	KV       storage.KVStore
	Gateway  *storage.ActivityGateway
	Store    *schedule.Store
	Notifier notify.Notifier
	Summary  summary.Job

	now func() time.Time

	mu     sync.Mutex
	engine *scheduler.Engine
	runner *scheduler.Runner
	cancel context.CancelFunc
	done   chan struct{}
}

// OpenKV opens the backend named by cfg.StorageBackend.
func OpenKV(cfg config.RuntimeConfig) (storage.KVStore, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return storage.OpenFile(cfg.StoragePath)
	case config.BackendSQLite:
		return storage.OpenSQLite(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("%w: storage.backend %q", config.ErrInvalidConfig, cfg.StorageBackend)
	}
}

// New opens storage and initializes the store. Extra notifiers receive every
// summary alongside the log and desktop notifiers.
func New(ctx context.Context, cfg config.RuntimeConfig, logger *slog.Logger, extra ...notify.Notifier) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kv, err := OpenKV(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	app, err := NewWithKV(ctx, cfg, logger, kv, extra...)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return app, nil
}

func NewWithKV(ctx context.Context, cfg config.RuntimeConfig, logger *slog.Logger, kv storage.KVStore, extra ...notify.Notifier) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	gw := storage.NewActivityGateway(kv)
	store := schedule.NewStore(gw, schedule.WithLogger(logger))
	if _, err := store.Initialize(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("initialize schedule: %w", err)
	}

	notifiers := notify.Multi{notify.Log{Logger: logger}}
	if cfg.DesktopNotifications {
		notifiers = append(notifiers, notify.NewDesktop())
	}
	notifiers = append(notifiers, extra...)

	return &App{
		Config:   cfg,
		Logger:   logger,
		KV:       kv,
		Gateway:  gw,
		Store:    store,
		Notifier: notifiers,
		Summary:  summary.Job{Loader: gw, Notifier: notifiers, Logger: logger},
		now:      time.Now,
	}, nil
}

// RunSummary flushes pending saves and runs the summary job once.
func (a *App) RunSummary(ctx context.Context) (summary.Summary, bool, error) {
	if err := a.Store.Flush(ctx); err != nil {
		return summary.Summary{}, false, err
	}
	return a.Summary.Run(ctx)
}

// FirstSummaryAt is the first daily trigger: the next summary.at when set,
// otherwise one interval from now.
func (a *App) FirstSummaryAt() time.Time {
	now := a.now()
	if at, ok := a.Config.SummaryClock(); ok {
		return scheduler.NextDailyAt(now, at)
	}
	return now.Add(a.Config.SummaryInterval)
}

// StartSummaries arms the unique daily_summary trigger. Calling it again
// replaces the existing registration.
func (a *App) StartSummaries(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		a.engine = scheduler.NewEngine(a.Config.SchedulerBuffer)
		a.engine.Start()
		a.runner = scheduler.NewRunner(a.engine, a.Logger)
		a.runner.Handle(KindSummary, func(ctx context.Context, _ scheduler.Event) error {
			_, _, err := a.Summary.Run(ctx)
			return err
		})
		runCtx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		a.done = make(chan struct{})
		go func() {
			defer close(a.done)
			if err := a.runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error("summary runner stopped", slog.String("error", err.Error()))
			}
		}()
	}
	first := a.FirstSummaryAt()
	a.Logger.Info("daily summary armed", slog.Time("first", first), slog.Duration("every", a.Config.SummaryInterval))
	return a.runner.Every(DailySummaryID, KindSummary, first, a.Config.SummaryInterval)
}

// Close stops the trigger engine, drains pending saves, and closes storage.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	engine, cancel, done := a.engine, a.cancel, a.done
	a.engine, a.cancel, a.done = nil, nil, nil
	a.mu.Unlock()

	if engine != nil {
		cancel()
		engine.Stop()
		<-done
	}
	var errs []error
	if err := a.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush schedule: %w", err))
	}
	if err := a.KV.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
