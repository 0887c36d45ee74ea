package model

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeRange = errors.New("model: invalid time range")

type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) IsValid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock reads an "HH:MM" (or "H:MM") time of day.
func ParseClock(raw string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTimeRange, raw)
	}
	if len(hh) < 1 || len(hh) > 2 || !allDigits(hh) {
		return ClockTime{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidTimeRange, raw)
	}
	if len(mm) != 2 || !allDigits(mm) {
		return ClockTime{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimeRange, raw)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	c := ClockTime{Hour: h, Minute: m}
	if !c.IsValid() {
		return ClockTime{}, fmt.Errorf("%w: %q out of range", ErrInvalidTimeRange, raw)
	}
	return c, nil
}

// Interval is a half-open [Start, End) span within a single day.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type Interval struct {
	Start ClockTime
	End   ClockTime
}

func NewInterval(start, end ClockTime) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (i Interval) Validate() error {
	if !i.Start.IsValid() {
		return fmt.Errorf("%w: start %02d:%02d out of range", ErrInvalidTimeRange, i.Start.Hour, i.Start.Minute)
	}
	if !i.End.IsValid() {
		return fmt.Errorf("%w: end %02d:%02d out of range", ErrInvalidTimeRange, i.End.Hour, i.End.Minute)
	}
	if i.Start.Minutes() >= i.End.Minutes() {
		return fmt.Errorf("%w: end %s must be after start %s", ErrInvalidTimeRange, i.End, i.Start)
	}
	return nil
}

func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < i.End.Minutes()
}

func (i Interval) Compare(other Interval) int {
	return cmp.Compare(i.Start.Minutes(), other.Start.Minutes())
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.End.Minutes()-i.Start.Minutes()) * time.Minute
}

func (i Interval) String() string {
	return i.Start.String() + " – " + i.End.String()
}
