package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/rolo/internal/state"
	"github.com/five82/rolo/internal/view"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.ctrl.Current()

	parts := []string{bg.Render("rolo", styles.Logo)}

	if our := string(m.ctrl.Our()); our != "" {
		limit := 48
		if compact {
			limit = 24
		}
		parts = append(parts, bg.Render(truncateMiddle(our, limit), styles.Text))
	}

	label := connectionLabel(m.connected, m.everConnected, snap)
	switch label {
	case "LIVE":
		parts = append(parts, bg.Render("● "+label, styles.SuccessText))
	case "OFFLINE":
		parts = append(parts, bg.Render("● "+label, styles.DangerText))
	default:
		parts = append(parts, bg.Render("● "+label, styles.WarningText.Bold(true)))
	}

	if snap.HasData {
		parts = append(parts,
			bg.Render("Books:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", snap.Data.Books.Len()), styles.Text))
		invitesStyle := styles.MutedText
		if snap.Data.PendingInvites.Len() > 0 {
			invitesStyle = styles.WarningText
		}
		parts = append(parts,
			bg.Render("Invites:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", snap.Data.PendingInvites.Len()), invitesStyle))
	}

	if pending, ok := m.ctrl.Tracker().Pending(); ok && !compact {
		parts = append(parts, bg.Render("waiting for "+truncate(pending, 30), styles.FaintText))
	}

	if ts := formatTimestamp(snap.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render(classifyConnectionError(snap.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// connectionLabel names the push channel state for the header.
func connectionLabel(connected, everConnected bool, snap state.Snapshot) string {
	switch {
	case connected:
		return "LIVE"
	case snap.IsOffline():
		return "OFFLINE"
	case everConnected:
		return "RECONNECTING"
	default:
		return "CONNECTING"
	}
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	s := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// classifyConnectionError returns a short description of the error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "NODE DOWN"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current mode and cursor.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.confirmDelete && m.screen.Book != nil {
		prompt := bg.Render("Delete "+m.screen.Book.Label+"?", styles.DangerText) + bg.Spaces(2) +
			bg.Render("y", styles.AccentText) + bg.Sep(":") + bg.Render("Yes", styles.MutedText) + bg.Spaces(2) +
			bg.Render("any", styles.AccentText) + bg.Sep(":") + bg.Render("Cancel", styles.MutedText)
		return styles.Header.Width(m.width).Render(prompt)
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.editing {
		commands = []cmd{{"enter", "Save"}, {"esc", "Cancel"}}
	} else {
		if t, ok := m.target(); ok {
			switch t.Kind {
			case view.TargetInvite:
				commands = append(commands, cmd{"enter", "Accept"}, cmd{"x", "Reject"})
			case view.TargetContact:
				commands = append(commands, cmd{"enter", "Edit"}, cmd{"s", "Social"}, cmd{"x", "Delete"})
			case view.TargetDescription:
				commands = append(commands, cmd{"enter", "Edit"}, cmd{"s", "Social"})
			case view.TargetSocial:
				commands = append(commands, cmd{"enter", "Edit"}, cmd{"x", "Remove"})
			case view.TargetPeer:
				if t.Peer != m.screen.Our {
					commands = append(commands, cmd{"x", "Remove"})
				}
			}
		}
		commands = append(commands, cmd{"n", "Book"})
		if m.screen.Book != nil {
			commands = append(commands, cmd{"a", "Contact"}, cmd{"i", "Invite"}, cmd{"D", "Delete book"})
		}
		if len(m.screen.Selector.Options) > 1 {
			commands = append(commands, cmd{"[/]", "Switch"})
		}
		commands = append(commands, cmd{"r", "Pull"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
