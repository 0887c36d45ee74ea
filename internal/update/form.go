package update

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/schedule"
)

const overlapMessage = "Time should not overlap"

var errStoreMissing = errors.New("update: no schedule store")

func (m *Model) openForm() {
	m.Form = AddFormState{Active: true, Focus: FieldTitle}
	m.titleInput.SetValue("")
	m.startInput.SetValue("")
	m.endInput.SetValue("")
	m.focusField(FieldTitle)
}

func (m *Model) closeForm() {
	m.Form = AddFormState{}
	m.titleInput.Blur()
	m.startInput.Blur()
	m.endInput.Blur()
}

func (m *Model) focusField(f FormField) {
	m.Form.Focus = f
	m.titleInput.Blur()
	m.startInput.Blur()
	m.endInput.Blur()
	m.fieldInput(f).Focus()
}

func (m *Model) fieldInput(f FormField) *textinput.Model {
	switch f {
	case FieldStart:
		return &m.startInput
	case FieldEnd:
		return &m.endInput
	default:
		return &m.titleInput
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "add cancelled"}
	case "tab", "down":
		m.focusField((m.Form.Focus + 1) % 3)
	case "shift+tab", "up":
		m.focusField((m.Form.Focus + 2) % 3)
	case "enter":
		m.submitForm()
	default:
		input := m.fieldInput(m.Form.Focus)
		switch msg.Type {
		case tea.KeyRunes:
			input.SetValue(input.Value() + string(msg.Runes))
			return m
		case tea.KeySpace:
			input.SetValue(input.Value() + " ")
			return m
		}
		updated, _ := input.Update(msg)
		*input = updated
	}
	return m
}

func (m *Model) submitForm() {
	activity, err := formActivity(m.titleInput.Value(), m.startInput.Value(), m.endInput.Value())
	if err != nil {
		m.Form.Err = err.Error()
		return
	}
	if m.store == nil {
		m.Form.Err = errStoreMissing.Error()
		return
	}
	snap, err := m.store.Add(activity)
	if err != nil {
		if errors.Is(err, schedule.ErrOverlap) {
			m.Form.Err = overlapMessage
		} else {
			m.Form.Err = err.Error()
		}
		return
	}
	m.closeForm()
	m.applySnapshot(snap)
	for i, a := range m.Activities {
		if a.ID == activity.ID {
			m.Cursor = i
		}
	}
	m.Status = StatusBar{Text: "added " + activity.Title}
}

func formActivity(title, start, end string) (model.Activity, error) {
	if strings.TrimSpace(title) == "" {
		return model.Activity{}, errors.New("title is required")
	}
	s, err := model.ParseClock(start)
	if err != nil {
		return model.Activity{}, errors.New("start must be HH:MM")
	}
	e, err := model.ParseClock(end)
	if err != nil {
		return model.Activity{}, errors.New("end must be HH:MM")
	}
	interval, err := model.NewInterval(s, e)
	if err != nil {
		return model.Activity{}, errors.New("end must be after start")
	}
	return model.NewActivity(title, interval)
}
