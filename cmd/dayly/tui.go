package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dayly/internal/update"
)

// runTUI owns the terminal, so logs go to log.file or nowhere.
func runTUI(ctx context.Context, configPath string) (err error) {
	feed := update.NewFeed()
	s, err := loadApp(ctx, configPath, io.Discard, feed)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	snapshots, unsubscribe := s.app.Store.Subscribe(1)
	defer unsubscribe()

	if err := s.app.StartSummaries(ctx); err != nil {
		return err
	}

	m := update.NewModel(
		s.app.Store,
		update.WithSnapshots(snapshots),
		update.WithFeed(feed),
		update.WithSummary(s.app.RunSummary),
	)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dayly tui: %w", err)
	}
	return nil
}
