package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dayly/internal/commands"
	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/schedule"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		case tea.KeySpace:
			m.commandInput.SetValue(m.commandInput.Value() + " ")
		default:
			m.commandInput, _ = m.commandInput.Update(msg)
		}
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setError(err)
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			activity, err := model.NewActivity(a.Title, a.Interval)
			if err != nil {
				return commands.Result{}, err
			}
			snap, err := m.mutate(func(s *schedule.Store) (schedule.Snapshot, error) { return s.Add(activity) })
			if err != nil {
				if errors.Is(err, schedule.ErrOverlap) {
					return commands.Result{}, errors.New(overlapMessage)
				}
				return commands.Result{}, err
			}
			m.applySnapshot(snap)
			return commands.Result{Message: fmt.Sprintf("added %s %s", activity.Title, activity.Interval)}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			return m.setCompletedByTarget(t.Target, true)
		},
		Undo: func(t commands.TargetArgs) (commands.Result, error) {
			return m.setCompletedByTarget(t.Target, false)
		},
		Remove: func(t commands.TargetArgs) (commands.Result, error) {
			id, err := commands.ResolveTarget(t.Target, m.Activities)
			if err != nil {
				return commands.Result{}, err
			}
			snap, err := m.mutate(func(s *schedule.Store) (schedule.Snapshot, error) { return s.Remove(id) })
			if err != nil {
				return commands.Result{}, err
			}
			m.applySnapshot(snap)
			return commands.Result{Message: "removed " + t.Target}, nil
		},
		Summary: func() (commands.Result, error) {
			next, c := m.startSummary()
			m = next.(Model)
			follow = c
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m *Model) setCompletedByTarget(target string, completed bool) (commands.Result, error) {
	id, err := commands.ResolveTarget(target, m.Activities)
	if err != nil {
		return commands.Result{}, err
	}
	snap, err := m.mutate(func(s *schedule.Store) (schedule.Snapshot, error) { return s.SetCompleted(id, completed) })
	if err != nil {
		return commands.Result{}, err
	}
	m.applySnapshot(snap)
	verb := "done"
	if !completed {
		verb = "not done"
	}
	return commands.Result{Message: fmt.Sprintf("%s marked %s", target, verb)}, nil
}

func (m *Model) mutate(fn func(*schedule.Store) (schedule.Snapshot, error)) (schedule.Snapshot, error) {
	if m.store == nil {
		return schedule.Snapshot{}, errStoreMissing
	}
	return fn(m.store)
}
