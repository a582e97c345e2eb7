package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevBook key.Binding
	NextBook key.Binding

	// Actions on the element under the cursor
	Confirm key.Binding
	Escape  key.Binding
	Delete  key.Binding

	// Forms
	NewBook    key.Binding
	AddContact key.Binding
	AddSocial  key.Binding
	InvitePeer key.Binding
	RemoveBook key.Binding

	// Inside a form
	NextInput        key.Binding
	PrevInput        key.Binding
	TogglePermission key.Binding
	Yes              key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Pull state"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PrevBook: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous book"),
		),
		NextBook: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next book"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Edit / accept / submit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove / reject"),
		),

		NewBook: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New book"),
		),
		AddContact: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add contact"),
		),
		AddSocial: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Add social"),
		),
		InvitePeer: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Invite peer"),
		),
		RemoveBook: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete book"),
		),

		NextInput: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevInput: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		TogglePermission: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Toggle permission"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Confirm delete"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevBook, k.NextBook},
		{k.Confirm, k.Escape, k.Delete},
		{k.NewBook, k.AddContact, k.AddSocial, k.InvitePeer, k.RemoveBook},
		{k.NextInput, k.TogglePermission},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
