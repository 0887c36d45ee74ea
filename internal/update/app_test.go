package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/notify"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/summary"
)

type memGateway struct {
	mu    sync.Mutex
	items []model.Activity
}

func (g *memGateway) Load(context.Context) ([]model.Activity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Activity(nil), g.items...), nil
}

func (g *memGateway) Save(_ context.Context, items []model.Activity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = append([]model.Activity(nil), items...)
	return nil
}

func newSeededStore(t *testing.T) *schedule.Store {
	t.Helper()
	store := schedule.NewStore(&memGateway{}, schedule.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if _, err := store.Initialize(t.Context()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(newSeededStore(t))
	if len(m.Activities) != 4 || m.Cursor != 0 {
		t.Fatalf("expected seeded activities with cursor at top, got %d cursor=%d", len(m.Activities), m.Cursor)
	}
	if m.Progress.Completed != 1 || m.Progress.Total != 4 {
		t.Fatalf("unexpected progress %+v", m.Progress)
	}
	if m.Keys.Quit != "q" || m.Keys.Add != "a" {
		t.Fatalf("unexpected keys %+v", m.Keys)
	}
}

func TestCursorMovementIsClamped(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("k"))
	if m.Cursor != 0 {
		t.Fatalf("cursor should not go above top, got %d", m.Cursor)
	}
	m = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"), runes("j"))
	if m.Cursor != 3 {
		t.Fatalf("cursor should stop at last row, got %d", m.Cursor)
	}
}

func TestToggleSelectedByID(t *testing.T) {
	store := newSeededStore(t)
	m := NewModel(store)
	m = press(t, m, keySpace)
	if !m.Activities[0].Completed || m.Progress.Completed != 2 {
		t.Fatalf("expected first activity completed, got %+v", m.Progress)
	}
	if !store.Snapshot().Activities[0].Completed {
		t.Fatalf("toggle should reach the store")
	}
	m = press(t, m, runes("x"))
	if m.Activities[0].Completed {
		t.Fatalf("second toggle should clear completion")
	}
}

func TestAddFormAcceptsAndSelectsNewActivity(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("a"))
	if !m.Form.Active || m.Form.Focus != FieldTitle {
		t.Fatalf("expected add form focused on title, got %+v", m.Form)
	}
	m = press(t, m, runes("Breakfast"), keyTab, runes("07:00"), keyTab, runes("07:30"), keyEnter)
	if m.Form.Active {
		t.Fatalf("form should close after a successful add, err=%q", m.Form.Err)
	}
	if len(m.Activities) != 5 || m.Activities[1].Title != "Breakfast" {
		t.Fatalf("expected sorted insert, got %+v", m.Activities)
	}
	if m.Cursor != 1 {
		t.Fatalf("expected cursor on new activity, got %d", m.Cursor)
	}
}

func TestAddFormOverlapKeepsFormOpen(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("a"), runes("Clash"), keyTab, runes("09:45"), keyTab, runes("10:15"), keyEnter)
	if !m.Form.Active {
		t.Fatalf("form should stay open on overlap")
	}
	if m.Form.Err != "Time should not overlap" {
		t.Fatalf("unexpected form error %q", m.Form.Err)
	}
	if len(m.Activities) != 4 {
		t.Fatalf("rejected add must not change the list")
	}

	m = press(t, m, keyEsc)
	if m.Form.Active || m.Form.Err != "" {
		t.Fatalf("esc should close and reset the form, got %+v", m.Form)
	}
}

func TestAddFormInvalidRange(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("a"), runes("Backwards"), keyTab, runes("12:00"), keyTab, runes("11:00"), keyEnter)
	if !m.Form.Active || m.Form.Err != "end must be after start" {
		t.Fatalf("expected invalid range error, got %+v", m.Form)
	}
}

func TestRemoveSelected(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("j"), runes("d"))
	if len(m.Activities) != 3 || m.Progress.Completed != 0 {
		t.Fatalf("removing the completed standup should drop completed count, got %+v", m.Progress)
	}
	if m.Cursor != 1 {
		t.Fatalf("cursor should stay in range, got %d", m.Cursor)
	}
}

func TestPaletteCommands(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("/"), runes("add"), keySpace, runes("Lunch"), keySpace, runes("12:00-12:45"), keyEnter)
	if m.Palette.Active {
		t.Fatalf("palette should close after enter")
	}
	if len(m.Activities) != 5 || m.Status.IsError {
		t.Fatalf("expected palette add, status=%+v", m.Status)
	}

	m = press(t, m, runes("/"), runes("done"), keySpace, runes("1"), keyEnter)
	if !m.Activities[0].Completed {
		t.Fatalf("expected first activity done, status=%+v", m.Status)
	}

	m = press(t, m, runes("/"), runes("add"), keySpace, runes("Clash"), keySpace, runes("06:30-06:45"), keyEnter)
	if !m.Status.IsError || m.Status.Text != "Time should not overlap" {
		t.Fatalf("expected overlap status, got %+v", m.Status)
	}

	m = press(t, m, runes("/"), runes("remove"), keySpace, runes("9"), keyEnter)
	if !m.Status.IsError {
		t.Fatalf("expected out of range target error")
	}
}

func TestSummaryWithoutJobUsesLiveSchedule(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("s"))
	if m.Status.Text != "Completed 25% • Missed 3 tasks" {
		t.Fatalf("unexpected status %+v", m.Status)
	}
	if len(m.Notifications) != 1 || m.Notifications[0].Title != "Today's Progress" {
		t.Fatalf("expected summary notification, got %+v", m.Notifications)
	}
}

func TestSummaryJobRunsAsCommand(t *testing.T) {
	calls := 0
	fn := func(context.Context) (summary.Summary, bool, error) {
		calls++
		return summary.Summary{Percent: 50, Missed: 2, Completed: 2, Total: 4}, true, nil
	}
	m := NewModel(newSeededStore(t), WithSummary(fn))
	updated, cmd := m.Update(runes("s"))
	m = updated.(Model)
	if cmd == nil || !m.summaryRunning {
		t.Fatalf("expected async summary command")
	}

	updated, _ = m.Update(runSummaryCmd(fn)())
	m = updated.(Model)
	if m.summaryRunning || m.Status.Text != "Completed 50% • Missed 2 tasks" {
		t.Fatalf("unexpected state after summary: running=%v status=%+v", m.summaryRunning, m.Status)
	}
	if calls != 1 {
		t.Fatalf("expected one job run, got %d", calls)
	}

	updated, _ = m.Update(SummaryDoneMsg{Err: errors.New("disk gone")})
	m = updated.(Model)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk gone") {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestSnapshotMsgFollowsSelection(t *testing.T) {
	store := newSeededStore(t)
	ch, cancel := store.Subscribe(1)
	defer cancel()

	m := NewModel(store, WithSnapshots(ch))
	if m.Init() == nil {
		t.Fatalf("expected wait command for snapshots")
	}
	m = press(t, m, runes("j"), runes("j"))
	selectedID := m.Activities[m.Cursor].ID

	iv, _ := model.NewInterval(model.ClockTime{Hour: 5, Minute: 0}, model.ClockTime{Hour: 5, Minute: 30})
	early, _ := model.NewActivity("Early", iv)
	snap, err := store.Add(early)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, cmd := m.Update(SnapshotMsg{Snapshot: snap})
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected re-subscribe command")
	}
	if m.Activities[m.Cursor].ID != selectedID {
		t.Fatalf("selection should follow the activity across reorder")
	}
}

func TestFeedDeliversLatestNotification(t *testing.T) {
	feed := NewFeed()
	for i := 0; i < 3; i++ {
		if err := feed.Send(t.Context(), notify.Notification{Title: "n", Body: string(rune('a' + i))}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	select {
	case n := <-feed.C():
		if n.Body != "c" {
			t.Fatalf("expected latest notification, got %q", n.Body)
		}
	case <-time.After(time.Second):
		t.Fatalf("no notification delivered")
	}

	m := NewModel(newSeededStore(t), WithFeed(feed))
	updated, cmd := m.Update(NotificationMsg{Notification: notify.Notification{Title: "Today's Progress", Level: "info", Body: "Completed 25% • Missed 3 tasks"}})
	m = updated.(Model)
	if cmd == nil || len(m.Notifications) != 1 {
		t.Fatalf("expected notification stored and feed re-armed")
	}
	if !strings.Contains(m.View(), "Completed 25%") {
		t.Fatalf("expected notification in view")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error state: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := NewModel(nil)
	updated, cmd := m.Update(runes("q"))
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("j"), runes("?"))
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"1/4 done (25%)", "selected: Team Standup", "status: all good", "Morning Gym", "06:00 – 07:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestWindowSizeResizesProgressBar(t *testing.T) {
	m := NewModel(newSeededStore(t))
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	next := updated.(Model)
	if cmd != nil {
		t.Fatal("resize should not schedule a command")
	}
	if next.Width != 60 || next.progressBar.Width >= m.progressBar.Width {
		t.Fatalf("expected narrower progress bar, width=%d bar=%d", next.Width, next.progressBar.Width)
	}
	if !strings.Contains(next.View(), "Morning Gym") {
		t.Fatal("expected schedule to render after resize")
	}
}

func TestHelpListsEveryToggleKey(t *testing.T) {
	m := NewModel(newSeededStore(t))
	m = press(t, m, runes("?"))
	out := m.View()
	for _, want := range []string{"space/x/enter", "toggle completed", "space/x toggle"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in help output: %q", want, out)
		}
	}

	m = press(t, m, runes("x"))
	if !m.Activities[0].Completed {
		t.Fatal("expected x to toggle the selected activity")
	}
}
