package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/notify"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/summary"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up      string
	Down    string
	Toggle  string
	Add     string
	Remove  string
	Summary string
	Palette string
	Help    string
	Quit    string
}

type FormField int

const (
	FieldTitle FormField = iota
	FieldStart
	FieldEnd
)

type AddFormState struct {
	Active bool
	Focus  FormField
	Err    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// SummaryFunc runs the notifying summary job once.
type SummaryFunc func(ctx context.Context) (summary.Summary, bool, error)

type Model struct {
	Activities    []model.Activity
	Progress      model.Progress
	Cursor        int
	Form          AddFormState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []notify.Notification
	Status        StatusBar
	Keys          KeyMap
	Quitting      bool
	LastError     error
	Width         int

	store     *schedule.Store
	snapshots <-chan schedule.Snapshot
	feed      *Feed
	summarize SummaryFunc

	summaryRunning bool
	titleInput     textinput.Model
	startInput     textinput.Model
	endInput       textinput.Model
	commandInput   textinput.Model
	progressBar    progress.Model
	summarySpinner spinner.Model
	helpModel      help.Model
}

type Option func(*Model)

// WithSnapshots makes the model re-render on every published store snapshot.
func WithSnapshots(ch <-chan schedule.Snapshot) Option {
	return func(m *Model) { m.snapshots = ch }
}

// WithFeed shows notifications delivered to feed, such as the daily summary.
func WithFeed(feed *Feed) Option {
	return func(m *Model) { m.feed = feed }
}

func WithSummary(fn SummaryFunc) Option {
	return func(m *Model) { m.summarize = fn }
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      "k",
		Down:    "j",
		Toggle:  " ",
		Add:     "a",
		Remove:  "d",
		Summary: "s",
		Palette: "/",
		Help:    "?",
		Quit:    "q",
	}
}

func NewModel(store *schedule.Store, opts ...Option) Model {
	m := Model{
		store: store,
		Keys:  DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	if store != nil {
		m.applySnapshot(store.Snapshot())
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = "title> "
	m.titleInput.CharLimit = 120
	m.titleInput.Width = 40

	m.startInput = textinput.New()
	m.startInput.Prompt = "start> "
	m.startInput.Placeholder = "HH:MM"
	m.startInput.CharLimit = 5
	m.startInput.Width = 8

	m.endInput = textinput.New()
	m.endInput.Prompt = "end>   "
	m.endInput.Placeholder = "HH:MM"
	m.endInput.CharLimit = 5
	m.endInput.Width = 8

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.progressBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.summarySpinner = spinner.New()
	m.summarySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) applySnapshot(s schedule.Snapshot) {
	selectedID := ""
	if item, ok := m.selected(); ok {
		selectedID = item.ID
	}
	m.Activities = s.Activities
	m.Progress = s.Progress
	if selectedID != "" {
		for i, a := range m.Activities {
			if a.ID == selectedID {
				m.Cursor = i
				return
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Activities) {
		m.Cursor = len(m.Activities) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selected() (model.Activity, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Activities) {
		return model.Activity{}, false
	}
	return m.Activities[m.Cursor], true
}

type SnapshotMsg struct {
	Snapshot schedule.Snapshot
}

type storeClosedMsg struct{}

type NotificationMsg struct {
	Notification notify.Notification
}

type SummaryDoneMsg struct {
	Summary summary.Summary
	OK      bool
	Err     error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func (m *Model) notify(title, body, level string) {
	if body == "" {
		return
	}
	m.pushNotification(notify.Notification{Title: title, Body: body, Level: level, At: time.Now().UTC()})
}

func (m *Model) pushNotification(n notify.Notification) {
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}
