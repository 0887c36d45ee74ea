package schedule

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/dayly/internal/model"
)

var ErrOverlap = errors.New("schedule: time should not overlap")

type OverlapError struct {
	Candidate model.Interval
	Conflict  model.Activity
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s conflicts with %q (%s)", ErrOverlap, e.Candidate, e.Conflict.Title, e.Conflict.Interval)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}

// Validate reports the first existing activity whose interval intersects
// candidate.
func Validate(candidate model.Interval, existing []model.Activity) error {
	for _, a := range existing {
		if candidate.Overlaps(a.Interval) {
			return &OverlapError{Candidate: candidate, Conflict: a}
		}
	}
	return nil
}
