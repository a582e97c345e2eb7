package selection

import (
	"log/slog"
	"maps"

	"github.com/five82/rolo/internal/contacts"
)

// FieldKey names one editable field: a contact's description (Social empty)
// or one of its social values.
type FieldKey struct {
	Book    contacts.BookID
	Contact contacts.ContactID
	Social  string
}

// DescriptionKey addresses a contact's description.
func DescriptionKey(book contacts.BookID, contact contacts.ContactID) FieldKey {
	return FieldKey{Book: book, Contact: contact}
}

// SocialKey addresses one social value.
func SocialKey(book contacts.BookID, contact contacts.ContactID, key string) FieldKey {
	return FieldKey{Book: book, Contact: contact, Social: key}
}

// IsSocial reports whether the key addresses a social value.
func (k FieldKey) IsSocial() bool {
	return k.Social != ""
}

// exists reports whether the field is still present in snap.
func (k FieldKey) exists(snap contacts.Snapshot) bool {
	book, ok := snap.Book(k.Book)
	if !ok {
		return false
	}
	contact, ok := book.Contacts.Get(k.Contact)
	if !ok {
		return false
	}
	if k.IsSocial() {
		return contact.Socials.Has(k.Social)
	}
	return true
}

// State is what the renderer needs from the tracker.
type State struct {
	Book    contacts.BookID
	HasBook bool
	Drafts  map[FieldKey]string
}

type expectation struct {
	label  string
	known  map[contacts.BookID]struct{}
	logged bool
}

func (e *expectation) match(snap contacts.Snapshot) (contacts.BookID, bool) {
	for id, book := range snap.Books.All() {
		if _, seen := e.known[id]; seen {
			continue
		}
		if book.Label() == e.label {
			return id, true
		}
	}
	return contacts.BookID{}, false
}

// Tracker keeps the client-local view state that survives snapshot
// replacement: the selected book, a pending label expectation and the set of
// fields being edited with their drafts.
//
// A Tracker is not safe for concurrent use; it lives on the UI event loop.
type Tracker struct {
	logger   *slog.Logger
	selected contacts.BookID
	hasBook  bool
	pending  *expectation
	drafts   map[FieldKey]string
}

// New returns an empty tracker. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger, drafts: make(map[FieldKey]string)}
}

// Selected returns the selected book, if any.
func (t *Tracker) Selected() (contacts.BookID, bool) {
	return t.selected, t.hasBook
}

// Select is a manual pick. It replaces any pending expectation.
func (t *Tracker) Select(id contacts.BookID) {
	if t.pending != nil {
		t.logger.Debug("selection: expectation dropped by manual pick", "label", t.pending.label)
	}
	t.selected = id
	t.hasBook = true
	t.pending = nil
}

// Pending returns the label the tracker is waiting for.
func (t *Tracker) Pending() (string, bool) {
	if t.pending == nil {
		return "", false
	}
	return t.pending.label, true
}

// Expect waits for a book labelled label that is not one of known (the book
// ids that existed when the command was issued) and selects it once it shows
// up. current is checked right away since the push carrying the new book can
// beat the command's response.
func (t *Tracker) Expect(label string, known []contacts.BookID, current contacts.Snapshot) {
	exp := &expectation{label: label, known: make(map[contacts.BookID]struct{}, len(known))}
	for _, id := range known {
		exp.known[id] = struct{}{}
	}
	t.pending = exp
	t.logger.Debug("selection: waiting for book", "label", label)
	t.Reconcile(current)
}

// Reconcile adjusts the view state to a freshly applied snapshot. A pending
// expectation wins if its book has appeared. Otherwise the current selection
// is kept while it exists, falling back to the first book, or to none. Edits
// whose field is gone are dropped; the rest keep their drafts.
func (t *Tracker) Reconcile(snap contacts.Snapshot) {
	if t.pending != nil {
		if id, ok := t.pending.match(snap); ok {
			t.logger.Debug("selection: book appeared", "label", t.pending.label, "book", id)
			t.selected = id
			t.hasBook = true
			t.pending = nil
		} else if !t.pending.logged {
			t.pending.logged = true
			t.logger.Info("selection: book not visible yet", "label", t.pending.label)
		}
	}

	if !t.hasBook || !snap.Books.Has(t.selected) {
		ids := snap.BookIDs()
		if len(ids) > 0 {
			t.selected = ids[0]
			t.hasBook = true
		} else {
			t.selected = contacts.BookID{}
			t.hasBook = false
		}
	}

	for key := range t.drafts {
		if !key.exists(snap) {
			t.logger.Debug("selection: edit dropped", "book", key.Book, "contact", key.Contact, "social", key.Social)
			delete(t.drafts, key)
		}
	}
}

// Begin puts a field into edit mode seeded with initial. A field already in
// edit mode keeps its draft.
func (t *Tracker) Begin(key FieldKey, initial string) {
	if _, ok := t.drafts[key]; ok {
		return
	}
	t.drafts[key] = initial
}

// Editing reports whether key is in edit mode.
func (t *Tracker) Editing(key FieldKey) bool {
	_, ok := t.drafts[key]
	return ok
}

// SetDraft replaces the draft of a field in edit mode. Fields not in edit
// mode are ignored.
func (t *Tracker) SetDraft(key FieldKey, text string) {
	if _, ok := t.drafts[key]; ok {
		t.drafts[key] = text
	}
}

// Draft returns the draft of a field in edit mode.
func (t *Tracker) Draft(key FieldKey) (string, bool) {
	text, ok := t.drafts[key]
	return text, ok
}

// Commit leaves edit mode and returns the text to submit.
func (t *Tracker) Commit(key FieldKey) (string, bool) {
	text, ok := t.drafts[key]
	delete(t.drafts, key)
	return text, ok
}

// Cancel leaves edit mode discarding the draft.
func (t *Tracker) Cancel(key FieldKey) {
	delete(t.drafts, key)
}

// Drafts returns a copy of the edit focus set.
func (t *Tracker) Drafts() map[FieldKey]string {
	return maps.Clone(t.drafts)
}

// State returns a copy of everything the renderer reads.
func (t *Tracker) State() State {
	return State{Book: t.selected, HasBook: t.hasBook, Drafts: t.Drafts()}
}
