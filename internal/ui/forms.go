package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/view"
)

// formModal collects the inputs of one submission form. It stays open while
// its command is in flight; the result decides whether it closes.
type formModal struct {
	form       view.Form
	title      string
	labels     []string
	inputs     []textinput.Model
	focus      int
	permission contacts.PeerStatus
	seq        int
	pending    bool
}

// submitFormMsg asks the model to send the form's command.
type submitFormMsg struct {
	seq        int
	form       view.Form
	values     []string
	permission contacts.PeerStatus
}

type formField struct {
	label       string
	placeholder string
}

func newFormModal(form view.Form, seq int, subject string) formModal {
	var fields []formField
	title := titleFor(form.Kind)
	switch form.Kind {
	case view.FormNewBook:
		fields = []formField{{"Name", "Friends"}}
	case view.FormAddContact:
		fields = []formField{
			{"Name", "alice"},
			{"Description", "optional"},
			{"Socials", "github=alice, x=@alice"},
		}
	case view.FormInvitePeer:
		fields = []formField{{"Peer", "bob or bob@namespace"}}
	case view.FormAddSocial:
		fields = []formField{{"Key", "github"}, {"Value", "alice"}}
	}
	if subject != "" {
		title += " · " + subject
	}

	f := formModal{
		form:       form,
		title:      title,
		seq:        seq,
		permission: contacts.ReadWrite,
	}
	for _, field := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.placeholder
		ti.CharLimit = 256
		ti.Width = FormInputWidth
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func titleFor(kind view.FormKind) string {
	switch kind {
	case view.FormNewBook:
		return "New Book"
	case view.FormAddContact:
		return "Add Contact"
	case view.FormInvitePeer:
		return "Invite Peer"
	case view.FormAddSocial:
		return "Add Social"
	default:
		return "Form"
	}
}

// Update implements Modal.
func (f formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	if key.Matches(keyMsg, keys.Escape) {
		return f, nil, true
	}
	if f.pending {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Confirm):
		f.pending = true
		submit := submitFormMsg{
			seq:        f.seq,
			form:       f.form,
			values:     f.Values(),
			permission: f.permission,
		}
		return f, func() tea.Msg { return submit }, false
	case key.Matches(keyMsg, keys.NextInput):
		cmd := f.focusOn(f.focus + 1)
		return f, cmd, false
	case key.Matches(keyMsg, keys.PrevInput):
		cmd := f.focusOn(f.focus - 1 + len(f.inputs))
		return f, cmd, false
	case key.Matches(keyMsg, keys.TogglePermission) && f.form.Kind == view.FormInvitePeer:
		if f.permission == contacts.ReadWrite {
			f.permission = contacts.ReadOnly
		} else {
			f.permission = contacts.ReadWrite
		}
		return f, nil, false
	}
	return f.updateFocused(msg)
}

func (f formModal) updateFocused(msg tea.Msg) (Modal, tea.Cmd, bool) {
	if len(f.inputs) == 0 {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// focusOn moves focus to input i (mod the number of inputs). The inputs
// slice is copied so earlier values of the modal are left untouched.
func (f *formModal) focusOn(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs = append([]textinput.Model(nil), f.inputs...)
	f.inputs[f.focus].Blur()
	f.focus = i % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// Values returns the current input values in field order.
func (f formModal) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = in.Value()
	}
	return values
}

// SetValues fills the inputs in field order.
func (f *formModal) SetValues(values ...string) {
	f.inputs = append([]textinput.Model(nil), f.inputs...)
	for i := range f.inputs {
		if i < len(values) {
			f.inputs[i].SetValue(values[i])
		}
	}
}

// finish records the command result. Failed forms keep their input for a
// retry, except add-social which is cleared either way. It reports whether
// the modal should close.
func (f *formModal) finish(err error) bool {
	f.pending = false
	if f.form.Kind == view.FormAddSocial {
		f.clear()
	}
	return err == nil
}

func (f *formModal) clear() {
	f.inputs = append([]textinput.Model(nil), f.inputs...)
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focusOn(0)
}

// View implements Modal.
func (f formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", FormInputWidth)))
	b.WriteString("\n\n")

	labelStyle := styles.MutedText.Width(14)
	for i, in := range f.inputs {
		label := labelStyle.Render(f.labels[i])
		if i == f.focus {
			label = styles.AccentText.Width(14).Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if f.form.Kind == view.FormInvitePeer {
		b.WriteString(labelStyle.Render("Permission"))
		b.WriteString(styles.PeerStyle(f.permission).Render(string(f.permission)))
		b.WriteString(styles.FaintText.Render("  ctrl+p"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if f.pending {
		b.WriteString(styles.WarningText.Render("Sending..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter submit · tab next · esc cancel"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(FormModalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// parseSocials reads "key=value, key=value" into an ordered map. Entries
// without a key are dropped.
func parseSocials(input string) contacts.Ordered[string, string] {
	var socials contacts.Ordered[string, string]
	for _, part := range strings.Split(input, ",") {
		k, v, _ := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		socials.Set(k, strings.TrimSpace(v))
	}
	return socials
}
