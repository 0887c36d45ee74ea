package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/notify"
)

type Loader interface {
	Load(ctx context.Context) ([]model.Activity, error)
}

// Job loads the persisted schedule on every run and never touches a live
// store.
type Job struct {
	Loader   Loader
	Notifier notify.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// Run returns the computed summary; ok is false when the schedule was empty
// and nothing was sent.
func (j Job) Run(ctx context.Context) (Summary, bool, error) {
	if j.Loader == nil {
		return Summary{}, false, errors.New("summary: nil loader")
	}
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	items, err := j.Loader.Load(ctx)
	if err != nil {
		logger.Error("summary load failed", slog.String("error", err.Error()))
		return Summary{}, false, err
	}
	s, ok := Summarize(items)
	if !ok {
		logger.Debug("summary skipped: no activities")
		return Summary{}, false, nil
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	if j.Notifier != nil {
		if err := j.Notifier.Send(ctx, s.Notification(now())); err != nil {
			logger.Warn("summary notification failed", slog.String("error", err.Error()))
			return s, true, err
		}
	}
	logger.Info("summary sent", slog.Int("percent", s.Percent), slog.Int("missed", s.Missed))
	return s, true, nil
}
