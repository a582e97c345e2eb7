package view

import (
	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/selection"
)

const (
	PromptNoBooks       = "No contact books yet, create one below."
	PromptChooseBook    = "Choose a contact book:"
	DescriptionFallback = "(no description, add one)"
)

// Screen is everything the UI draws, derived from one snapshot.
type Screen struct {
	Our      contacts.PeerAddress
	Invites  InviteList
	Selector Selector
	Book     *BookPane // nil when no book is selected
	Forms    []Form
	Targets  []Target // cursor stops, in draw order
}

// Form returns the available form of the given kind.
func (s Screen) Form(kind FormKind) (Form, bool) {
	for _, f := range s.Forms {
		if f.Kind == kind {
			return f, true
		}
	}
	return Form{}, false
}

// AddSocialForm returns the add-social form for one contact.
func (s Screen) AddSocialForm(contact contacts.ContactID) (Form, bool) {
	for _, f := range s.Forms {
		if f.Kind == FormAddSocial && f.Contact == contact {
			return f, true
		}
	}
	return Form{}, false
}

// IndexOf returns the position of target in Targets, or -1.
func (s Screen) IndexOf(target Target) int {
	for i, t := range s.Targets {
		if t == target {
			return i
		}
	}
	return -1
}

// InviteList is the pending invites section.
type InviteList struct {
	Hidden bool
	Rows   []InviteRow
}

// InviteRow is one pending invite.
type InviteRow struct {
	ID         contacts.InviteID
	From       string // identity only
	BookName   string
	Permission contacts.PeerStatus
	Label      string // label of the book accepting would produce
}

// Selector is the book picker.
type Selector struct {
	Hidden   bool
	Prompt   string
	Options  []Option
	Selected int // -1 when nothing is selected
}

// Option is one entry in the selector.
type Option struct {
	ID    contacts.BookID
	Label string
}

// BookPane is the selected book.
type BookPane struct {
	ID       contacts.BookID
	Name     string
	Label    string
	Owned    bool
	Contacts []ContactRow
	Peers    []PeerRow
}

// ContactRow is one contact and its editable fields.
type ContactRow struct {
	ID          contacts.ContactID
	Description Field
	Socials     []SocialRow
}

// SocialRow is one social entry.
type SocialRow struct {
	Key   string
	Value Field
}

// Field is an editable value. While Editing, Text is the draft.
type Field struct {
	Key         selection.FieldKey
	Text        string
	Placeholder bool
	Editing     bool
}

// PeerRow is one peer of the book.
type PeerRow struct {
	Address  contacts.PeerAddress
	Identity string
	Status   contacts.PeerStatus
	Self     bool
}

// FormKind names a submission form.
type FormKind int

const (
	FormNewBook FormKind = iota
	FormAddContact
	FormInvitePeer
	FormAddSocial
)

func (k FormKind) String() string {
	switch k {
	case FormNewBook:
		return "new book"
	case FormAddContact:
		return "add contact"
	case FormInvitePeer:
		return "invite peer"
	case FormAddSocial:
		return "add social"
	default:
		return "form"
	}
}

// Form is an available submission form and what it is bound to.
type Form struct {
	Kind    FormKind
	Book    contacts.BookID
	Contact contacts.ContactID
}

// TargetKind is the kind of element a cursor stop points at.
type TargetKind int

const (
	TargetInvite TargetKind = iota
	TargetContact
	TargetDescription
	TargetSocial
	TargetPeer
)

// Target is a cursor stop. Targets compare equal across renders when they
// point at the same element, which lets the UI keep its cursor in place.
type Target struct {
	Kind    TargetKind
	Invite  contacts.InviteID
	Book    contacts.BookID
	Contact contacts.ContactID
	Social  string
	Peer    contacts.PeerAddress
}

// Field returns the field key of a description or social target.
func (t Target) Field() (selection.FieldKey, bool) {
	switch t.Kind {
	case TargetDescription:
		return selection.DescriptionKey(t.Book, t.Contact), true
	case TargetSocial:
		return selection.SocialKey(t.Book, t.Contact, t.Social), true
	default:
		return selection.FieldKey{}, false
	}
}
