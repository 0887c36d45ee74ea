package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyTitle = errors.New("model: activity title is required")

type Activity struct {
	ID        string
	Title     string
	Completed bool
	Interval  Interval
}

func NewActivity(title string, interval Interval) (Activity, error) {
	a := Activity{
		ID:       NewID(),
		Title:    strings.TrimSpace(title),
		Interval: interval,
	}
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	return a, nil
}

func NewID() string {
	return uuid.NewString()
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if err := a.Interval.Validate(); err != nil {
		return fmt.Errorf("activity %q: %w", a.Title, err)
	}
	return nil
}

// SortByStart orders activities by start time in place. Equal starts keep
// their relative order.
func SortByStart(items []Activity) {
	slices.SortStableFunc(items, func(a, b Activity) int {
		return a.Interval.Compare(b.Interval)
	})
}

func DefaultActivities() []Activity {
	seed := []struct {
		title     string
		completed bool
		start     ClockTime
		end       ClockTime
	}{
		{"Morning Gym", false, ClockTime{6, 0}, ClockTime{7, 0}},
		{"Team Standup", true, ClockTime{9, 30}, ClockTime{10, 0}},
		{"Project Work", false, ClockTime{14, 0}, ClockTime{15, 0}},
		{"Reading", false, ClockTime{21, 0}, ClockTime{21, 30}},
	}
	out := make([]Activity, 0, len(seed))
	for _, s := range seed {
		out = append(out, Activity{
			ID:        NewID(),
			Title:     s.title,
			Completed: s.completed,
			Interval:  Interval{Start: s.start, End: s.end},
		})
	}
	return out
}
