package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/dayly/internal/model"
)

var (
	ErrLegacySchema  = errors.New("storage: legacy activity schema (time string) is not supported")
	ErrUnknownFormat = errors.New("storage: unknown format")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// activityRecord is the persisted shape of an activity. Time fields are
// pointers so a record written by the old {time, title, completed} schema
// can be told apart from one with a midnight start.
type activityRecord struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string  `json:"title" yaml:"title"`
	Completed   bool    `json:"completed" yaml:"completed"`
	StartHour   *int    `json:"startHour" yaml:"startHour"`
	StartMinute *int    `json:"startMinute" yaml:"startMinute"`
	EndHour     *int    `json:"endHour" yaml:"endHour"`
	EndMinute   *int    `json:"endMinute" yaml:"endMinute"`
	Time        *string `json:"time,omitempty" yaml:"time,omitempty"`
}

func toRecord(a model.Activity) activityRecord {
	sh, sm := a.Interval.Start.Hour, a.Interval.Start.Minute
	eh, em := a.Interval.End.Hour, a.Interval.End.Minute
	return activityRecord{
		ID:          a.ID,
		Title:       a.Title,
		Completed:   a.Completed,
		StartHour:   &sh,
		StartMinute: &sm,
		EndHour:     &eh,
		EndMinute:   &em,
	}
}

func fromRecord(r activityRecord) (model.Activity, error) {
	if r.StartHour == nil || r.StartMinute == nil || r.EndHour == nil || r.EndMinute == nil {
		if r.Time != nil {
			return model.Activity{}, ErrLegacySchema
		}
		return model.Activity{}, errors.New("storage: activity record missing time fields")
	}
	a := model.Activity{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
		Interval: model.Interval{
			Start: model.ClockTime{Hour: *r.StartHour, Minute: *r.StartMinute},
			End:   model.ClockTime{Hour: *r.EndHour, Minute: *r.EndMinute},
		},
	}
	if err := a.Validate(); err != nil {
		return model.Activity{}, err
	}
	return a, nil
}

func MarshalActivities(format Format, items []model.Activity) ([]byte, error) {
	records := make([]activityRecord, 0, len(items))
	for _, a := range items {
		records = append(records, toRecord(a))
	}
	switch format {
	case FormatJSON:
		return json.Marshal(records)
	case FormatYAML:
		return yaml.Marshal(records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func UnmarshalActivities(format Format, raw []byte) ([]model.Activity, error) {
	var records []activityRecord
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(raw, &records)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	out := make([]model.Activity, 0, len(records))
	for i, r := range records {
		a, convErr := fromRecord(r)
		if convErr != nil {
			return nil, fmt.Errorf("activity %d: %w", i, convErr)
		}
		out = append(out, a)
	}
	return out, nil
}
