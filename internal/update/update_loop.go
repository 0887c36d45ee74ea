package update

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dayly/internal/notify"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/summary"
	"github.com/sandeepkv93/dayly/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.snapshots != nil {
		cmds = append(cmds, waitForSnapshotCmd(m.snapshots))
	}
	if m.feed != nil {
		cmds = append(cmds, waitForNotificationCmd(m.feed.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Form.Active {
			return m.handleFormKey(typed), nil
		}
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.progressBar.Width = views.ProgressWidth(typed.Width)
		m.helpModel.Width = typed.Width
		return m, nil
	case spinner.TickMsg:
		if m.summaryRunning {
			var cmd tea.Cmd
			m.summarySpinner, cmd = m.summarySpinner.Update(typed)
			return m, cmd
		}
	case SnapshotMsg:
		m.applySnapshot(typed.Snapshot)
		return m, waitForSnapshotCmd(m.snapshots)
	case storeClosedMsg:
		m.snapshots = nil
		return m, nil
	case NotificationMsg:
		m.pushNotification(typed.Notification)
		if m.feed != nil {
			return m, waitForNotificationCmd(m.feed.C())
		}
		return m, nil
	case SummaryDoneMsg:
		m.summaryRunning = false
		m.applySummary(typed)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Palette:
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.Down, "down":
		if m.Cursor < len(m.Activities)-1 {
			m.Cursor++
		}
	case m.Keys.Up, "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case m.Keys.Toggle, "x", "enter":
		m.toggleSelected()
	case m.Keys.Add:
		m.openForm()
	case m.Keys.Remove:
		m.removeSelected()
	case m.Keys.Summary:
		return m.startSummary()
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	item, ok := m.selected()
	if !ok || m.store == nil {
		return
	}
	snap, err := m.store.SetCompleted(item.ID, !item.Completed)
	if err != nil {
		m.setError(err)
		return
	}
	m.applySnapshot(snap)
	state := "done"
	if item.Completed {
		state = "not done"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s marked %s", item.Title, state)}
}

func (m *Model) removeSelected() {
	item, ok := m.selected()
	if !ok || m.store == nil {
		return
	}
	snap, err := m.store.Remove(item.ID)
	if err != nil {
		m.setError(err)
		return
	}
	m.applySnapshot(snap)
	m.Status = StatusBar{Text: fmt.Sprintf("removed %s", item.Title)}
}

func (m Model) startSummary() (tea.Model, tea.Cmd) {
	if m.summarize == nil {
		s, ok := summary.Summarize(m.Activities)
		m.applySummary(SummaryDoneMsg{Summary: s, OK: ok})
		return m, nil
	}
	if m.summaryRunning {
		return m, nil
	}
	m.summaryRunning = true
	m.Status = StatusBar{Text: "summary running"}
	return m, tea.Batch(m.summarySpinner.Tick, runSummaryCmd(m.summarize))
}

func (m *Model) applySummary(done SummaryDoneMsg) {
	switch {
	case done.Err != nil:
		m.setError(fmt.Errorf("summary: %w", done.Err))
	case !done.OK:
		m.Status = StatusBar{Text: "nothing to summarize"}
	default:
		m.Status = StatusBar{Text: done.Summary.Body()}
		if m.feed == nil {
			m.pushNotification(done.Summary.Notification(time.Now().UTC()))
		}
	}
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func waitForSnapshotCmd(ch <-chan schedule.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func waitForNotificationCmd(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Notification: <-ch}
	}
}

func runSummaryCmd(fn SummaryFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, ok, err := fn(ctx)
		return SummaryDoneMsg{Summary: s, OK: ok, Err: err}
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.summaryRunning {
		status = fmt.Sprintf("%s %s", m.summarySpinner.View(), status)
	}

	selected := "-"
	if item, ok := m.selected(); ok {
		selected = item.Title
	}
	pct := int(m.Progress.Fraction * 100)

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("dayly | %d/%d done (%d%%) | selected: %s", m.Progress.Completed, m.Progress.Total, pct, selected),
		LeftPane:      m.renderScheduleView(),
		RightPane:     m.renderFormIfActive() + m.renderCommandPalette() + m.renderHelpIfVisible(),
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Width:         m.Width,
		Notification:  m.renderNotificationsView(),
		Footer:        fmt.Sprintf("keys: j/k move | space/x toggle | %s add | %s remove | %s summary | / cmd | %s help | %s quit", m.Keys.Add, m.Keys.Remove, m.Keys.Summary, m.Keys.Help, m.Keys.Quit),
	})
}
