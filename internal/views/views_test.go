package views

import (
	"regexp"
	"strings"
	"testing"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderSchedulePanel(t *testing.T) {
	out := plain(RenderSchedulePanel(SchedulePanelData{
		Rows: []ActivityRowData{
			{ID: "a", Time: "06:00 – 07:00", Title: "Morning Gym"},
			{ID: "b", Time: "09:30 – 10:00", Title: "Team Standup", Completed: true, Selected: true},
		},
		Completed: 1,
		Total:     2,
	}))
	if !strings.Contains(out, "  1. [ ] 06:00 – 07:00 Morning Gym") {
		t.Fatalf("missing first row: %q", out)
	}
	if !strings.Contains(out, "> 2. [x] 09:30 – 10:00") || !strings.Contains(out, "Team Standup") {
		t.Fatalf("missing selected completed row: %q", out)
	}
	if !strings.Contains(out, "progress: 1/2 done") {
		t.Fatalf("missing progress line: %q", out)
	}
}

func TestRenderSchedulePanelEmpty(t *testing.T) {
	out := RenderSchedulePanel(SchedulePanelData{})
	if !strings.Contains(out, "no activities") || !strings.Contains(out, "progress: 0/0 done") {
		t.Fatalf("unexpected empty render: %q", out)
	}
}

func TestRenderAddFormHiddenWhenInactive(t *testing.T) {
	if out := RenderAddForm(AddFormData{}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	out := plain(RenderAddForm(AddFormData{Active: true, TitleView: "title> x", ErrorText: "Time should not overlap"}))
	if !strings.Contains(out, "title> x") || !strings.Contains(out, "Time should not overlap") {
		t.Fatalf("unexpected form render: %q", out)
	}
}

func TestRenderNotification(t *testing.T) {
	if RenderNotification("t", "info", "  ") != "" {
		t.Fatalf("blank body should render nothing")
	}
	got := RenderNotification("Today's Progress", "info", "Completed 25% • Missed 3 tasks")
	if got != "notification: [INFO] Today's Progress: Completed 25% • Missed 3 tasks" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestRenderAppOmitsEmptyRightPane(t *testing.T) {
	out := plain(RenderApp(AppData{Header: "dayly", LeftPane: "left", StatusLine: "status: ok", Footer: "keys"}))
	for _, want := range []string{"dayly", "left", "status: ok", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRenderHelpPanelIncludesBindings(t *testing.T) {
	out := plain(RenderHelpPanel(HelpPanelData{Bindings: []string{"- a: add activity"}, HelpView: "q quit"}))
	if !strings.Contains(out, "add activity") || !strings.Contains(out, "q quit") {
		t.Fatalf("unexpected help render: %q", out)
	}
}

func TestPanelWidth(t *testing.T) {
	tests := []struct {
		term int
		want int
	}{
		{0, 58},
		{200, 58},
		{100, 46},
		{60, 56},
		{20, 16},
		{8, 10},
	}
	for _, tc := range tests {
		if got := panelWidth(tc.term); got != tc.want {
			t.Fatalf("panelWidth(%d) = %d, want %d", tc.term, got, tc.want)
		}
	}
}

func TestRenderAppStacksPanesWhenNarrow(t *testing.T) {
	out := plain(RenderApp(AppData{Header: "h", LeftPane: "LEFT", RightPane: "RIGHT", Width: 60}))
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "LEFT") && strings.Contains(line, "RIGHT") {
			t.Fatalf("expected stacked panes: %q", out)
		}
	}

	wide := plain(RenderApp(AppData{Header: "h", LeftPane: "LEFT", RightPane: "RIGHT", Width: 160}))
	found := false
	for _, line := range strings.Split(wide, "\n") {
		if strings.Contains(line, "LEFT") && strings.Contains(line, "RIGHT") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected side by side panes: %q", wide)
	}
}
