package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type recordingCommand struct {
	name string
	args []string
}

func desktopFor(goos string, rec *recordingCommand) *Desktop {
	return &Desktop{goos: goos, command: func(_ context.Context, name string, args ...string) error {
		rec.name = name
		rec.args = args
		return nil
	}}
}

func TestDesktopLinuxUsesNotifySend(t *testing.T) {
	var rec recordingCommand
	d := desktopFor("linux", &rec)
	if err := d.Send(t.Context(), Notification{Title: "Today's Progress", Body: "Completed 25% • Missed 3 tasks"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.name != "notify-send" || len(rec.args) != 2 || rec.args[0] != "Today's Progress" {
		t.Fatalf("unexpected command %q %v", rec.name, rec.args)
	}
}

func TestDesktopDarwinEscapesQuotes(t *testing.T) {
	var rec recordingCommand
	d := desktopFor("darwin", &rec)
	if err := d.Send(t.Context(), Notification{Title: `say "hi"`, Body: "b"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.name != "osascript" || len(rec.args) != 2 {
		t.Fatalf("unexpected command %q %v", rec.name, rec.args)
	}
	if !strings.Contains(rec.args[1], `with title "say \"hi\""`) {
		t.Fatalf("title not escaped: %s", rec.args[1])
	}
}

func TestDesktopOtherPlatformIsNoop(t *testing.T) {
	var rec recordingCommand
	d := desktopFor("plan9", &rec)
	if err := d.Send(t.Context(), Notification{Title: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.name != "" {
		t.Fatalf("expected no command, got %q", rec.name)
	}
}

func TestLogNotifierWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	n := Notification{Title: "Today's Progress", Body: "Completed 50% • Missed 1 tasks", At: time.Date(2026, 2, 9, 20, 0, 0, 0, time.UTC)}
	if err := (Log{Logger: logger}).Send(t.Context(), n); err != nil {
		t.Fatalf("send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "msg=notification") || !strings.Contains(out, `title="Today's Progress"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}

type failing struct{ err error }

func (f failing) Send(context.Context, Notification) error { return f.err }

type counting struct{ n int }

func (c *counting) Send(context.Context, Notification) error {
	c.n++
	return nil
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	c := &counting{}
	m := Multi{failing{err: boom}, nil, c, Noop{}}
	err := m.Send(t.Context(), Notification{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if c.n != 1 {
		t.Fatalf("expected later notifiers to still run, got %d", c.n)
	}
}
