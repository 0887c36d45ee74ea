package update

import (
	"github.com/sandeepkv93/dayly/internal/views"
)

func (m Model) renderScheduleView() string {
	rows := make([]views.ActivityRowData, 0, len(m.Activities))
	for i, a := range m.Activities {
		rows = append(rows, views.ActivityRowData{
			ID:        a.ID,
			Time:      a.Interval.String(),
			Title:     a.Title,
			Completed: a.Completed,
			Selected:  i == m.Cursor,
		})
	}
	return views.RenderSchedulePanel(views.SchedulePanelData{
		Rows:         rows,
		Completed:    m.Progress.Completed,
		Total:        m.Progress.Total,
		ProgressView: m.progressBar.ViewAs(m.Progress.Fraction),
	})
}

func (m Model) renderFormIfActive() string {
	return views.RenderAddForm(views.AddFormData{
		Active:    m.Form.Active,
		TitleView: m.titleInput.View(),
		StartView: m.startInput.View(),
		EndView:   m.endInput.View(),
		ErrorText: m.Form.Err,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Title, n.Level, n.Body)
}
