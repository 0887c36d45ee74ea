package views

import (
	"fmt"
	"strings"
)

type ActivityRowData struct {
	ID        string
	Time      string
	Title     string
	Completed bool
	Selected  bool
}

type SchedulePanelData struct {
	Rows         []ActivityRowData
	Completed    int
	Total        int
	ProgressView string
}

type AddFormData struct {
	Active    bool
	TitleView string
	StartView string
	EndView   string
	ErrorText string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderSchedulePanel(data SchedulePanelData) string {
	var b strings.Builder
	b.WriteString("today:\n")
	if len(data.Rows) == 0 {
		b.WriteString("  (no activities, press [a] to add one)\n")
	}
	for i, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		check := "[ ]"
		title := row.Title
		if row.Completed {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s %s\n", cursor, i+1, check, row.Time, title))
	}
	b.WriteString(fmt.Sprintf("\nprogress: %d/%d done\n", data.Completed, data.Total))
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView)
	}
	return strings.TrimSpace(b.String())
}

func RenderAddForm(data AddFormData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("add activity:\n")
	b.WriteString("keys: [tab] field [enter] save [esc] cancel\n")
	b.WriteString(data.TitleView + "\n")
	b.WriteString(data.StartView + "\n")
	b.WriteString(data.EndView + "\n")
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(title, level, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if title == "" {
		return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
	}
	return fmt.Sprintf("notification: [%s] %s: %s", strings.ToUpper(level), title, body)
}

// RenderHelpPanel renders the binding list as markdown followed by the
// bubbles help line.
func RenderHelpPanel(data HelpPanelData) string {
	var md strings.Builder
	md.WriteString("## Keys\n\n")
	for _, line := range data.Bindings {
		md.WriteString(line + "\n")
	}
	return strings.TrimSpace(RenderMarkdown(md.String()) + "\n" + data.HelpView)
}
