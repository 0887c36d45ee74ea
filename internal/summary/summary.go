package summary

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/notify"
)

const NotificationTitle = "Today's Progress"

type Summary struct {
	Percent   int
	Missed    int
	Completed int
	Total     int
}

// Summarize reports ok=false when there is nothing to summarize.
func Summarize(items []model.Activity) (Summary, bool) {
	p := model.ComputeProgress(items)
	if p.Total == 0 {
		return Summary{}, false
	}
	return Summary{
		Percent:   p.Completed * 100 / p.Total,
		Missed:    p.Total - p.Completed,
		Completed: p.Completed,
		Total:     p.Total,
	}, true
}

func (s Summary) Body() string {
	return fmt.Sprintf("Completed %d%% • Missed %d tasks", s.Percent, s.Missed)
}

func (s Summary) Notification(at time.Time) notify.Notification {
	return notify.Notification{
		Title: NotificationTitle,
		Body:  s.Body(),
		Level: "info",
		At:    at,
	}
}
