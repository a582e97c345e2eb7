package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/dispatch"
	"github.com/five82/rolo/internal/prefs"
	"github.com/five82/rolo/internal/selection"
	"github.com/five82/rolo/internal/session"
	"github.com/five82/rolo/internal/view"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *session.Controller
	Dispatcher *dispatch.Dispatcher
	ThemeName  string
	PrefsPath  string
	Logger     *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *session.Controller
	dispatch  *dispatch.Dispatcher
	logger    *slog.Logger
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Last rendered screen and the cursor into its Targets
	screen view.Screen
	cursor int
	body   viewport.Model

	// Inline field editor
	editor  textinput.Model
	editKey selection.FieldKey
	editing bool

	modal         Modal
	formSeq       int
	confirmDelete bool
	showHelp      bool

	// Push channel
	watchCh       <-chan session.Event
	watchCancel   context.CancelFunc
	connected     bool
	everConnected bool
}

// New creates a new Bubble Tea model over a started controller.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = 1024

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		dispatch:  opts.Dispatcher,
		logger:    logger,
		prefsPath: opts.PrefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		editor:    editor,
	}
	m.screen = m.ctrl.Screen()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return startWatchCmd(m.ctx, m.ctrl)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.body = viewport.New(bodyWidth(m.width), bodyHeight(m.height))
		}
		m.body.Width = bodyWidth(m.width)
		m.body.Height = bodyHeight(m.height)
		m.editor.Width = max(bodyWidth(m.width)-LayoutSocialKeyWidth-8, 10)
		m.ready = true
		m.updateBody()
		return m, nil

	case watchStartedMsg:
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()

	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		return m, m.waitForWatch()

	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() != nil {
			return m, nil
		}
		return m, startWatchCmd(m.ctx, m.ctrl)

	case pulledMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.err)
		} else {
			m.ctrl.Apply(msg.snap)
		}
		m.refresh()
		return m, nil

	case submitFormMsg:
		return m, m.submitForm(msg)

	case commandDoneMsg:
		m.handleCommandDone(msg)
		return m, nil
	}

	// Cursor blink and similar internal messages
	if m.modal != nil {
		modal, cmd, _ := m.modal.Update(msg, m.keys)
		m.modal = modal
		return m, cmd
	}
	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take keys first: help, then
// an open form, then a delete confirmation, then the inline editor.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.stopWatch()
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.confirmDelete {
		m.confirmDelete = false
		if key.Matches(msg, m.keys.Yes) && m.screen.Book != nil {
			book := m.screen.Book.ID
			return m, m.command("remove book", func(ctx context.Context, d *dispatch.Dispatcher) error {
				return d.RemoveBook(ctx, book)
			})
		}
		return m, nil
	}

	if m.editing {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatch()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				m.logger.Warn("ui: save prefs", "error", err)
			}
		}
		m.updateBody()

	case key.Matches(msg, m.keys.Refresh):
		return m, pullCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.screen.Targets) - 1)

	case key.Matches(msg, m.keys.PrevBook):
		m.stepBook(-1)
	case key.Matches(msg, m.keys.NextBook):
		m.stepBook(1)

	case key.Matches(msg, m.keys.Confirm):
		return m.activate()

	case key.Matches(msg, m.keys.Delete):
		return m, m.removeUnderCursor()

	case key.Matches(msg, m.keys.NewBook):
		m.openForm(view.FormNewBook)
	case key.Matches(msg, m.keys.AddContact):
		m.openForm(view.FormAddContact)
	case key.Matches(msg, m.keys.InvitePeer):
		m.openForm(view.FormInvitePeer)
	case key.Matches(msg, m.keys.AddSocial):
		m.openForm(view.FormAddSocial)

	case key.Matches(msg, m.keys.RemoveBook):
		m.confirmDelete = m.screen.Book != nil
	}

	return m, nil
}

// target returns the cursor target, if the screen has any.
func (m Model) target() (view.Target, bool) {
	if m.cursor < 0 || m.cursor >= len(m.screen.Targets) {
		return view.Target{}, false
	}
	return m.screen.Targets[m.cursor], true
}

func (m *Model) moveCursor(i int) {
	m.cursor = i
	m.clampCursor()
	m.updateBody()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.screen.Targets) {
		m.cursor = len(m.screen.Targets) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// stepBook selects the previous or next book in selector order.
func (m *Model) stepBook(delta int) {
	options := m.screen.Selector.Options
	if len(options) == 0 {
		return
	}
	i := m.screen.Selector.Selected
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(options)) % len(options)
	}
	m.ctrl.Tracker().Select(options[i].ID)
	m.refresh()
}

// activate handles enter on the cursor target.
func (m Model) activate() (tea.Model, tea.Cmd) {
	t, ok := m.target()
	if !ok {
		return m, nil
	}
	switch t.Kind {
	case view.TargetInvite:
		row, ok := m.inviteRow(t.Invite)
		if !ok {
			return m, nil
		}
		known := m.ctrl.Current().Data.BookIDs()
		d, ctx := m.dispatch, m.ctx
		return m, func() tea.Msg {
			err := d.AcceptInvite(ctx, row.ID)
			return commandDoneMsg{op: "accept invite", expect: row.Label, known: known, err: err}
		}
	case view.TargetContact:
		t.Kind = view.TargetDescription
		cmd := m.beginEdit(t)
		return m, cmd
	case view.TargetDescription, view.TargetSocial:
		cmd := m.beginEdit(t)
		return m, cmd
	}
	return m, nil
}

func (m Model) removeUnderCursor() tea.Cmd {
	t, ok := m.target()
	if !ok {
		return nil
	}
	switch t.Kind {
	case view.TargetInvite:
		return m.command("reject invite", func(ctx context.Context, d *dispatch.Dispatcher) error {
			return d.RejectInvite(ctx, t.Invite)
		})
	case view.TargetContact:
		return m.command("remove contact", func(ctx context.Context, d *dispatch.Dispatcher) error {
			return d.RemoveContact(ctx, t.Book, t.Contact)
		})
	case view.TargetSocial:
		return m.command("remove social", func(ctx context.Context, d *dispatch.Dispatcher) error {
			return d.RemoveSocial(ctx, t.Book, t.Contact, t.Social)
		})
	case view.TargetPeer:
		if t.Peer == m.screen.Our {
			return nil
		}
		return m.command("remove peer", func(ctx context.Context, d *dispatch.Dispatcher) error {
			return d.RemovePeer(ctx, t.Book, t.Peer)
		})
	}
	return nil
}

func (m Model) inviteRow(id contacts.InviteID) (view.InviteRow, bool) {
	for _, row := range m.screen.Invites.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return view.InviteRow{}, false
}

// openForm opens the form of the given kind if the screen offers it.
// Add-social binds to the contact under the cursor.
func (m *Model) openForm(kind view.FormKind) {
	var (
		form    view.Form
		ok      bool
		subject string
	)
	if kind == view.FormAddSocial {
		t, has := m.target()
		if !has || t.Contact == "" {
			return
		}
		form, ok = m.screen.AddSocialForm(t.Contact)
		subject = string(t.Contact)
	} else {
		form, ok = m.screen.Form(kind)
		if m.screen.Book != nil && kind != view.FormNewBook {
			subject = m.screen.Book.Label
		}
	}
	if !ok {
		return
	}
	m.formSeq++
	m.modal = newFormModal(form, m.formSeq, subject)
}

// submitForm sends the command behind a submitted form.
func (m Model) submitForm(msg submitFormMsg) tea.Cmd {
	d, ctx := m.dispatch, m.ctx
	values := msg.values
	value := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	switch msg.form.Kind {
	case view.FormNewBook:
		known := m.ctrl.Current().Data.BookIDs()
		our := m.ctrl.Our()
		return func() tea.Msg {
			name, err := d.NewBook(ctx, value(0))
			return commandDoneMsg{op: "new book", form: msg.seq, expect: contacts.Label(name, our), known: known, err: err}
		}
	case view.FormAddContact:
		return func() tea.Msg {
			err := d.AddContact(ctx, msg.form.Book, value(0), value(1), parseSocials(value(2)))
			return commandDoneMsg{op: "add contact", form: msg.seq, err: err}
		}
	case view.FormInvitePeer:
		return func() tea.Msg {
			_, err := d.InvitePeer(ctx, msg.form.Book, value(0), msg.permission)
			return commandDoneMsg{op: "invite peer", form: msg.seq, err: err}
		}
	case view.FormAddSocial:
		return func() tea.Msg {
			err := d.EditSocial(ctx, msg.form.Book, msg.form.Contact, value(0), value(1))
			return commandDoneMsg{op: "add social", form: msg.seq, err: err}
		}
	}
	return nil
}

// handleCommandDone applies a command result. Nothing here touches the
// document; effects only arrive with the next snapshot.
func (m *Model) handleCommandDone(msg commandDoneMsg) {
	if msg.err != nil {
		m.logger.Debug("ui: command failed", "op", msg.op, "error", msg.err)
	} else if msg.expect != "" {
		m.ctrl.Tracker().Expect(msg.expect, msg.known, m.ctrl.Current().Data)
		m.refresh()
	}

	if msg.form == 0 {
		return
	}
	f, ok := m.modal.(formModal)
	if !ok || f.seq != msg.form {
		return
	}
	if f.finish(msg.err) {
		m.modal = nil
	} else {
		m.modal = f
	}
}

// command runs a dispatcher call off the event loop.
func (m Model) command(op string, fn func(context.Context, *dispatch.Dispatcher) error) tea.Cmd {
	d, ctx := m.dispatch, m.ctx
	return func() tea.Msg {
		return commandDoneMsg{op: op, err: fn(ctx, d)}
	}
}

func (m *Model) handleWatchEvent(ev session.Event) {
	m.connected = ev.Connected
	if ev.Connected {
		m.everConnected = true
	}
	if ev.Err != nil {
		m.ctrl.Fail(ev.Err)
	}
	if ev.HasSnapshot {
		m.ctrl.Apply(ev.Snapshot)
	}
	m.refresh()
}

// refresh re-renders the screen from the controller and puts the cursor
// back on the element it was on, or as close to its old position as the
// new screen allows.
func (m *Model) refresh() {
	prev, hadPrev := m.target()
	m.screen = m.ctrl.Screen()
	if hadPrev {
		if i := m.screen.IndexOf(prev); i >= 0 {
			m.cursor = i
		}
	}
	m.clampCursor()

	if m.editing && !m.ctrl.Tracker().Editing(m.editKey) {
		m.editing = false
		m.editor.Blur()
	}
	m.updateBody()
}

// renderMain renders header, command bar and the body pane.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// Messages

type watchStartedMsg struct {
	ch     <-chan session.Event
	cancel context.CancelFunc
}

type watchEventMsg struct {
	event session.Event
}

type watchStoppedMsg struct{}

type pulledMsg struct {
	snap contacts.Snapshot
	err  error
}

type commandDoneMsg struct {
	op     string
	form   int // formModal.seq, zero when no form is waiting
	expect string
	known  []contacts.BookID
	err    error
}

// Commands

func startWatchCmd(parent context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		return watchStartedMsg{ch: ctrl.Watch(ctx), cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchStoppedMsg{}
		}
		return watchEventMsg{event: ev}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func pullCmd(parent context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, PullTimeout)
		defer cancel()
		snap, err := ctrl.Pull(ctx)
		return pulledMsg{snap: snap, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. A program
// stopped by cancelling the context is a clean exit.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
