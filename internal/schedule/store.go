package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/dayly/internal/model"
)

var (
	ErrNotFound        = errors.New("schedule: activity not found")
	ErrInvalidPosition = errors.New("schedule: invalid position")
)

// Gateway is the durable side of the schedule. Save overwrites the whole
// collection.
type Gateway interface {
	Load(ctx context.Context) ([]model.Activity, error)
	Save(ctx context.Context, items []model.Activity) error
}

type Snapshot struct {
	Activities []model.Activity
	Progress   model.Progress
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// Store owns today's activities. Every mutation updates memory
// synchronously and hands a full snapshot to the background saver.
type Store struct {
	mu          sync.Mutex
	items       []model.Activity
	subs        map[int]chan Snapshot
	nextSub     int
	logger      *slog.Logger
	saveTimeout time.Duration
	saver       *saver
}

func NewStore(gw Gateway, opts ...Option) *Store {
	s := &Store{
		subs:        make(map[int]chan Snapshot),
		logger:      slog.Default(),
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.saver = newSaver(gw, s.logger, s.saveTimeout)
	return s
}

// Initialize loads the persisted schedule, falling back to the default seed
// when nothing is stored. The result is saved once so the stored order is
// normalized.
func (s *Store) Initialize(ctx context.Context) (Snapshot, error) {
	loaded, err := s.saver.gateway.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load schedule: %w", err)
	}

	items := slices.Clone(loaded)
	seeded := len(items) == 0
	if seeded {
		items = model.DefaultActivities()
	}
	seen := make(map[string]bool, len(items))
	for i := range items {
		if items[i].ID == "" || seen[items[i].ID] {
			items[i].ID = model.NewID()
		}
		seen[items[i].ID] = true
	}
	model.SortByStart(items)
	if conflicts := countOverlaps(items); conflicts > 0 {
		s.logger.Warn("loaded schedule contains overlapping activities", slog.Int("pairs", conflicts))
	}

	s.mu.Lock()
	s.items = items
	snap := s.commitLocked()
	s.mu.Unlock()

	s.logger.Info("schedule initialized", slog.Int("activities", len(items)), slog.Bool("seeded", seeded))
	return snap, nil
}

func (s *Store) Add(a model.Activity) (Snapshot, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.ID == "" {
		a.ID = model.NewID()
	}
	if err := a.Validate(); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if err := Validate(a.Interval, s.items); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	if s.indexLocked(a.ID) >= 0 {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("schedule: duplicate activity id %q", a.ID)
	}
	items := append(slices.Clone(s.items), a)
	model.SortByStart(items)
	s.items = items
	snap := s.commitLocked()
	s.mu.Unlock()
	return snap, nil
}

func (s *Store) SetCompleted(id string, completed bool) (Snapshot, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items[idx].Completed = completed
	snap := s.commitLocked()
	s.mu.Unlock()
	return snap, nil
}

// SetCompletedAt toggles by position in the current sorted view. Prefer
// SetCompleted: positions shift when activities are added or removed.
func (s *Store) SetCompletedAt(position int, completed bool) (Snapshot, error) {
	s.mu.Lock()
	if position < 0 || position >= len(s.items) {
		n := len(s.items)
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidPosition, position, n)
	}
	s.items[position].Completed = completed
	snap := s.commitLocked()
	s.mu.Unlock()
	return snap, nil
}

func (s *Store) Remove(id string) (Snapshot, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	snap := s.commitLocked()
	s.mu.Unlock()
	return snap, nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Progress() model.Progress {
	return s.Snapshot().Progress
}

// Subscribe returns a channel that receives a snapshot after every
// mutation. A subscriber that falls behind only sees the newest snapshot.
func (s *Store) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		close(ch)
	}
	return ch, cancel
}

// Flush blocks until every snapshot handed to the saver so far was written.
func (s *Store) Flush(ctx context.Context) error {
	return s.saver.flush(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.saver.close(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return nil
}

func (s *Store) SaveFailures() uint64 {
	return s.saver.failureCount()
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(a model.Activity) bool { return a.ID == id })
}

func (s *Store) snapshotLocked() Snapshot {
	items := slices.Clone(s.items)
	return Snapshot{
		Activities: items,
		Progress:   model.ComputeProgress(items),
	}
}

// commitLocked hands the new state to the saver and subscribers while the
// lock is held, so saves are queued in mutation order.
func (s *Store) commitLocked() Snapshot {
	snap := s.snapshotLocked()
	s.saver.enqueue(snap.Activities)
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}

func countOverlaps(items []model.Activity) int {
	n := 0
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[j].Interval.Start.Minutes() >= items[i].Interval.End.Minutes() {
				break
			}
			if items[i].Interval.Overlaps(items[j].Interval) {
				n++
			}
		}
	}
	return n
}
