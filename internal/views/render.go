package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultPanelWidth = 58
	minPanelWidth     = 32
)

// AppData is one frame of the TUI. Width is the terminal width, zero
// until the first resize message.
type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Width         int
	Footer        string
	Notification  string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
)

// RenderApp stacks the side pane under the schedule when the terminal is
// too narrow for both.
func RenderApp(data AppData) string {
	width := panelWidth(data.Width)
	row := panelStyle.Width(width).Render(data.LeftPane)
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(width).Render(data.RightPane)
		if data.Width > 0 && data.Width < 2*(width+4) {
			row = lipgloss.JoinVertical(lipgloss.Left, row, right)
		} else {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, right)
		}
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusIsError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header), row, status}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.MaxWidth(max(data.Width, 0)).Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func panelWidth(termWidth int) int {
	if termWidth <= 0 {
		return defaultPanelWidth
	}
	w := termWidth/2 - 4
	if w < minPanelWidth {
		w = min(termWidth-4, defaultPanelWidth)
	}
	return max(min(w, defaultPanelWidth), 10)
}

// ProgressWidth fits the progress bar inside a schedule panel.
func ProgressWidth(termWidth int) int {
	return max(panelWidth(termWidth)-18, 10)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
