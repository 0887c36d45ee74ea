package schedule

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/dayly/internal/model"
)

// saver writes full snapshots to the gateway on a single goroutine.
// Pending snapshots are coalesced: only the newest one is written.
type saver struct {
	gateway Gateway
	logger  *slog.Logger
	timeout time.Duration

	mu         sync.Mutex
	pending    []model.Activity
	hasPending bool
	queued     uint64
	written    uint64
	waiters    []flushWaiter
	stopped    bool

	wakeup   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	failures uint64
}

type flushWaiter struct {
	target uint64
	ch     chan struct{}
}

func newSaver(gw Gateway, logger *slog.Logger, timeout time.Duration) *saver {
	s := &saver{
		gateway: gw,
		logger:  logger,
		timeout: timeout,
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *saver) enqueue(items []model.Activity) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Warn("save dropped after close", slog.Int("activities", len(items)))
		return
	}
	s.pending = slices.Clone(items)
	s.hasPending = true
	s.queued++
	s.mu.Unlock()

	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

func (s *saver) flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.queued
	if s.written >= target {
		s.mu.Unlock()
		return nil
	}
	w := flushWaiter{target: target, ch: make(chan struct{})}
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *saver) close(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *saver) failureCount() uint64 {
	return atomic.LoadUint64(&s.failures)
}

func (s *saver) loop() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.wakeup:
			s.writePending()
		case <-s.stopCh:
			s.writePending()
			s.releaseAll()
			return
		}
	}
}

func (s *saver) writePending() {
	s.mu.Lock()
	if !s.hasPending {
		s.mu.Unlock()
		return
	}
	items := s.pending
	gen := s.queued
	s.pending = nil
	s.hasPending = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	err := s.gateway.Save(ctx, items)
	cancel()
	if err != nil {
		atomic.AddUint64(&s.failures, 1)
		s.logger.Error("save schedule failed", slog.Int("activities", len(items)), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("schedule saved", slog.Int("activities", len(items)))
	}

	s.mu.Lock()
	s.written = gen
	kept := s.waiters[:0]
	for _, w := range s.waiters {
		if w.target <= s.written {
			close(w.ch)
			continue
		}
		kept = append(kept, w)
	}
	s.waiters = kept
	s.mu.Unlock()
}

func (s *saver) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = s.queued
	for _, w := range s.waiters {
		close(w.ch)
	}
	s.waiters = nil
}
