package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type Noop struct{}

func (Noop) Send(context.Context, Notification) error { return nil }

// Desktop shells out to notify-send on linux and osascript on darwin.
// Other platforms are a silent no-op.
type Desktop struct {
	goos    string
	command func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{goos: runtime.GOOS, command: runCommand}
}

func (d *Desktop) Send(ctx context.Context, n Notification) error {
	switch d.goos {
	case "linux":
		return d.command(ctx, "notify-send", n.Title, n.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return d.command(ctx, "osascript", "-e", script)
	default:
		return nil
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(ctx context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if strings.EqualFold(n.Level, "error") {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "notification",
		slog.String("title", n.Title),
		slog.String("body", n.Body),
		slog.Time("at", n.At),
	)
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, target := range m {
		if target == nil {
			continue
		}
		if err := target.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
