package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rolo/internal/dispatch"
	"github.com/five82/rolo/internal/view"
)

// beginEdit puts the field behind t into edit mode. The draft lives in the
// selection tracker so it survives re-renders; the editor only mirrors it.
func (m *Model) beginEdit(t view.Target) tea.Cmd {
	fieldKey, ok := t.Field()
	if !ok {
		return nil
	}
	field, ok := fieldAt(m.screen, fieldKey)
	if !ok {
		return nil
	}
	initial := field.Text
	if field.Placeholder {
		initial = ""
	}

	tracker := m.ctrl.Tracker()
	tracker.Begin(fieldKey, initial)
	draft, _ := tracker.Draft(fieldKey)

	m.editKey = fieldKey
	m.editing = true
	m.editor.SetValue(draft)
	m.editor.CursorEnd()
	cmd := m.editor.Focus()
	m.refresh()
	return cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.commitEdit()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.Tracker().Cancel(m.editKey)
		m.editing = false
		m.editor.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.ctrl.Tracker().SetDraft(m.editKey, m.editor.Value())
	m.refresh()
	return m, cmd
}

// commitEdit leaves edit mode and sends the draft.
func (m *Model) commitEdit() tea.Cmd {
	fieldKey := m.editKey
	text, ok := m.ctrl.Tracker().Commit(fieldKey)
	m.editing = false
	m.editor.Blur()
	m.refresh()
	if !ok {
		return nil
	}

	if fieldKey.IsSocial() {
		return m.command("edit social", func(ctx context.Context, d *dispatch.Dispatcher) error {
			return d.EditSocial(ctx, fieldKey.Book, fieldKey.Contact, fieldKey.Social, text)
		})
	}
	return m.command("edit description", func(ctx context.Context, d *dispatch.Dispatcher) error {
		return d.EditDescription(ctx, fieldKey.Book, fieldKey.Contact, text)
	})
}
