package update

import (
	"context"

	"github.com/sandeepkv93/dayly/internal/notify"
)

// Feed is a notifier that hands notifications to a running TUI. When the
// UI falls behind only the newest notification is kept.
type Feed struct {
	ch chan notify.Notification
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan notify.Notification, 1)}
}

func (f *Feed) Send(_ context.Context, n notify.Notification) error {
	for {
		select {
		case f.ch <- n:
			return nil
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *Feed) C() <-chan notify.Notification {
	return f.ch
}
