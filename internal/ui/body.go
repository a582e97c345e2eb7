package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/selection"
	"github.com/five82/rolo/internal/view"
)

// bodyWidth and bodyHeight size the viewport inside the titled box, which
// sits below the header and command bar.
func bodyWidth(width int) int {
	return max(width-4, 0)
}

func bodyHeight(height int) int {
	return max(height-4, 0)
}

// updateBody redraws the body viewport and scrolls the cursor into view.
func (m *Model) updateBody() {
	if !m.ready {
		return
	}
	m.body.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))

	content, line := m.renderBody(m.body.Width)
	m.body.SetContent(content)

	switch {
	case line < 0:
	case line < m.body.YOffset:
		m.body.SetYOffset(line)
	case line >= m.body.YOffset+m.body.Height:
		m.body.SetYOffset(line - m.body.Height + 1)
	}
}

// renderContent renders the body pane.
func (m Model) renderContent() string {
	title := "Contacts"
	if m.screen.Book != nil {
		title = m.screen.Book.Label
	}
	return m.renderTitledBox(title, m.body.View(), m.width, m.height-2, true)
}

// bodyWriter accumulates body lines and tracks which of them are cursor
// stops, in the same order as Screen.Targets.
type bodyWriter struct {
	m          Model
	width      int
	lines      []string
	stop       int
	cursorLine int
}

func (w *bodyWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *bodyWriter) plain(indent int, text string, style lipgloss.Style) {
	w.lines = append(w.lines, strings.Repeat(" ", indent)+style.Render(truncate(text, w.width-indent)))
}

// target writes a cursor stop. parts are pre-styled for the unselected
// case; the cursor row is redrawn flat in the selection colors.
func (w *bodyWriter) target(indent int, raw string, styled string) {
	pad := strings.Repeat(" ", indent)
	if w.stop == w.m.cursor {
		w.cursorLine = len(w.lines)
		row := w.m.theme.Styles().Selected.Width(max(w.width-indent, 0)).Render(truncate(raw, w.width-indent))
		w.lines = append(w.lines, pad+row)
	} else {
		w.lines = append(w.lines, pad+styled)
	}
	w.stop++
}

// renderBody draws the invites, book selector and selected book. It
// returns the content and the line the cursor is on, or -1.
func (m Model) renderBody(width int) (string, int) {
	styles := m.theme.Styles()
	w := &bodyWriter{m: m, width: width, cursorLine: -1}
	s := m.screen

	if !s.Invites.Hidden {
		w.plain(0, "Invites", styles.AccentText.Bold(true))
		for _, row := range s.Invites.Rows {
			raw := fmt.Sprintf("%s invites you to %s · %s", row.From, row.BookName, row.Permission)
			styled := styles.Text.Render(row.From) +
				styles.MutedText.Render(" invites you to ") +
				styles.Text.Bold(true).Render(row.BookName) +
				styles.FaintText.Render(" · ") +
				styles.PeerStyle(row.Permission).Render(string(row.Permission))
			w.target(2, raw, styled)
		}
		w.blank()
	}

	w.plain(0, s.Selector.Prompt, styles.MutedText)
	if !s.Selector.Hidden {
		for i, opt := range s.Selector.Options {
			if i == s.Selector.Selected {
				w.plain(2, "● "+opt.Label, styles.AccentText.Bold(true))
			} else {
				w.plain(2, "○ "+opt.Label, styles.MutedText)
			}
		}
	}

	if s.Book != nil {
		w.blank()
		m.renderBook(w, *s.Book)
	}

	return strings.Join(w.lines, "\n"), w.cursorLine
}

func (m Model) renderBook(w *bodyWriter, book view.BookPane) {
	styles := m.theme.Styles()

	ownership := "shared with you"
	if book.Owned {
		ownership = "owned"
	}
	w.plain(0, book.Label+" · "+ownership, styles.Text.Bold(true))
	w.blank()

	w.plain(0, fmt.Sprintf("Contacts (%d)", len(book.Contacts)), styles.AccentText.Bold(true))
	if len(book.Contacts) == 0 {
		w.plain(2, "No contacts yet, press a to add one.", styles.FaintText)
	}
	for _, c := range book.Contacts {
		w.target(2, string(c.ID), styles.Text.Bold(true).Render(string(c.ID)))
		m.renderField(w, 4, "", c.Description)
		for _, social := range c.Socials {
			m.renderField(w, 4, social.Key, social.Value)
		}
	}
	w.blank()

	w.plain(0, fmt.Sprintf("Peers (%d)", len(book.Peers)), styles.AccentText.Bold(true))
	for _, p := range book.Peers {
		identity := padRight(truncateMiddle(p.Identity, LayoutPeerColumnWidth), LayoutPeerColumnWidth)
		raw := identity + " " + string(p.Status)
		styled := styles.Text.Render(identity) + " " + styles.PeerStyle(p.Status).Render(string(p.Status))
		if p.Self {
			raw += " (you)"
			styled += styles.FaintText.Render(" (you)")
		}
		w.target(2, raw, styled)
	}
}

// renderField draws a description (label empty) or a social row. The field
// in the editor shows the live editor; other fields in edit mode show their
// draft with a marker.
func (m Model) renderField(w *bodyWriter, indent int, label string, f view.Field) {
	styles := m.theme.Styles()

	prefix := ""
	if label != "" {
		prefix = padRight(truncate(label, LayoutSocialKeyWidth-1), LayoutSocialKeyWidth)
	}

	if m.editing && f.Key == m.editKey {
		editStyle := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
		if w.stop == m.cursor {
			w.cursorLine = len(w.lines)
		}
		w.lines = append(w.lines, strings.Repeat(" ", indent)+
			styles.MutedText.Render(prefix)+
			editStyle.Render(m.editor.View()))
		w.stop++
		return
	}

	text := f.Text
	valueStyle := styles.Text
	switch {
	case f.Placeholder:
		valueStyle = styles.FaintText.Italic(true)
	case f.Editing:
		text += " ✎"
		valueStyle = styles.WarningText
	}
	w.target(indent, prefix+text, styles.MutedText.Render(prefix)+valueStyle.Render(text))
}

// fieldAt finds the rendered field for key.
func fieldAt(s view.Screen, key selection.FieldKey) (view.Field, bool) {
	if s.Book == nil {
		return view.Field{}, false
	}
	for _, c := range s.Book.Contacts {
		if c.Description.Key == key {
			return c.Description, true
		}
		for _, social := range c.Socials {
			if social.Value.Key == key {
				return social.Value, true
			}
		}
	}
	return view.Field{}, false
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bg := NewBgStyle(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				bg.FillLine(" "+line, innerWidth)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
