package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/dayly/internal/model"
)

type Handler func(ctx context.Context, ev Event) error

type recurrence struct {
	kind   string
	period time.Duration
}

// Runner dispatches engine events to handlers by kind and re-arms
// recurring registrations after each fire.
type Runner struct {
	engine *Engine
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	handlers  map[string]Handler
	recurring map[string]recurrence
}

func NewRunner(engine *Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:    engine,
		logger:    logger,
		now:       time.Now,
		handlers:  make(map[string]Handler),
		recurring: make(map[string]recurrence),
	}
}

func (r *Runner) Handle(kind string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Every registers a unique recurring event. A second registration with the
// same id replaces the first.
func (r *Runner) Every(id, kind string, first time.Time, period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("scheduler: period must be positive, got %s", period)
	}
	r.mu.Lock()
	r.recurring[id] = recurrence{kind: kind, period: period}
	r.mu.Unlock()
	return r.engine.Upsert(Event{ID: id, Kind: kind, FireAt: first})
}

func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	delete(r.recurring, id)
	r.mu.Unlock()
	r.engine.Cancel(id)
}

// Run consumes fired events until ctx is done or the engine stops.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-r.engine.C():
			if !ok {
				return nil
			}
			r.dispatch(ctx, ev)
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, ev Event) {
	r.mu.Lock()
	h := r.handlers[ev.Kind]
	rec, recurring := r.recurring[ev.ID]
	r.mu.Unlock()

	if recurring {
		next := nextAfter(ev.FireAt, rec.period, r.now())
		if err := r.engine.Upsert(Event{ID: ev.ID, Kind: rec.kind, FireAt: next}); err != nil && !errors.Is(err, ErrEngineStopped) {
			r.logger.Error("re-arm failed", slog.String("id", ev.ID), slog.String("error", err.Error()))
		}
	}

	if h == nil {
		r.logger.Warn("no handler for event", slog.String("id", ev.ID), slog.String("kind", ev.Kind))
		return
	}
	if err := h(ctx, ev); err != nil {
		r.logger.Error("handler failed", slog.String("id", ev.ID), slog.String("kind", ev.Kind), slog.String("error", err.Error()))
	}
}

// nextAfter returns fired+k*period for the smallest k>=1 that lands after now.
func nextAfter(fired time.Time, period time.Duration, now time.Time) time.Time {
	next := fired.Add(period)
	if next.After(now) {
		return next
	}
	missed := now.Sub(next)/period + 1
	return next.Add(missed * period)
}

// NextDailyAt returns the next instant after now whose wall clock in now's
// location equals at.
func NextDailyAt(now time.Time, at model.ClockTime) time.Time {
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, at.Hour, at.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = time.Date(y, m, d+1, at.Hour, at.Minute, 0, 0, now.Location())
	}
	return candidate
}
