package contacts

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// DefaultNamespace is the package suffix every peer address carries.
const DefaultNamespace = "contacts:crdt-crm:mothu.eth"

// BookID identifies a contact book.
type BookID = uuid.UUID

// InviteID identifies a pending invite. It is the id of the book the invite
// is for.
type InviteID = uuid.UUID

// ContactID is a contact's name within a book.
type ContactID string

// PeerStatus is a peer's permission on a book, shown verbatim.
type PeerStatus string

const (
	ReadOnly  PeerStatus = "ReadOnly"
	ReadWrite PeerStatus = "ReadWrite"
)

// PeerAddress is a fully qualified "identity@namespace" address.
type PeerAddress string

// Identity returns the part of the address before the first "@".
func (a PeerAddress) Identity() string {
	s := string(a)
	if i := strings.Index(s, "@"); i >= 0 {
		return s[:i]
	}
	return s
}

// Qualify turns user input into a full address by appending "@namespace"
// unless the input already ends with it.
func Qualify(input, namespace string) PeerAddress {
	trimmed := strings.TrimSpace(input)
	if namespace == "" || strings.HasSuffix(trimmed, "@"+namespace) {
		return PeerAddress(trimmed)
	}
	return PeerAddress(trimmed + "@" + namespace)
}

// Label is the display label of a book: "name (owner identity)".
func Label(name string, owner PeerAddress) string {
	return name + " (" + owner.Identity() + ")"
}

// Snapshot is the full state document served by the node, on pull and on
// every push.
type Snapshot struct {
	Books          Ordered[BookID, Book]
	PendingInvites Ordered[InviteID, Invite]
}

type snapshotJSON struct {
	Books          Ordered[BookID, Book]     `json:"books"`
	PendingInvites Ordered[InviteID, Invite] `json:"pending_invites"`
}

// UnmarshalJSON decodes the document and stamps map keys onto the values.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Snapshot
	for id, book := range raw.Books.All() {
		book.ID = id
		out.Books.Set(id, book)
	}
	for id, inv := range raw.PendingInvites.All() {
		inv.ID = id
		out.PendingInvites.Set(id, inv)
	}
	*s = out
	return nil
}

// MarshalJSON writes the same shape the node serves.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{Books: s.Books, PendingInvites: s.PendingInvites})
}

// Book returns the book with the given id.
func (s Snapshot) Book(id BookID) (Book, bool) {
	return s.Books.Get(id)
}

// BookIDs returns the ids of all books in order.
func (s Snapshot) BookIDs() []BookID {
	return s.Books.Keys()
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	for id, book := range s.Books.All() {
		out.Books.Set(id, book.Clone())
	}
	out.PendingInvites = s.PendingInvites.Clone()
	return out
}

// Book is one replicated contact book.
type Book struct {
	ID       BookID                           `json:"-"`
	Name     string                           `json:"name"`
	Owner    PeerAddress                      `json:"owner"`
	Contacts Ordered[ContactID, Contact]      `json:"contacts"`
	Peers    Ordered[PeerAddress, PeerStatus] `json:"peers"`
}

// Label is the book's display label.
func (b Book) Label() string {
	return Label(b.Name, b.Owner)
}

// Clone returns a deep copy.
func (b Book) Clone() Book {
	out := b
	out.Contacts = Ordered[ContactID, Contact]{}
	for id, c := range b.Contacts.All() {
		c.Socials = c.Socials.Clone()
		out.Contacts.Set(id, c)
	}
	out.Peers = b.Peers.Clone()
	return out
}

// UnmarshalJSON stamps contact ids from their map keys.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var contacts Ordered[ContactID, Contact]
	for id, c := range raw.Contacts.All() {
		c.ID = id
		contacts.Set(id, c)
	}
	raw.Contacts = contacts
	*b = Book(raw)
	return nil
}

// Contact is an entry in a book.
type Contact struct {
	ID          ContactID               `json:"-"`
	Description string                  `json:"description"`
	Socials     Ordered[string, string] `json:"socials"`
}

// Invite is an offer from another peer to join one of their books.
type Invite struct {
	ID         InviteID    `json:"-"`
	From       PeerAddress `json:"from"`
	Name       string      `json:"name"`
	Permission PeerStatus  `json:"permission,omitempty"`
}

// UnmarshalJSON also accepts the node's stored field name "book_name".
func (i *Invite) UnmarshalJSON(data []byte) error {
	var raw struct {
		From       PeerAddress `json:"from"`
		Name       string      `json:"name"`
		BookName   string      `json:"book_name"`
		Permission PeerStatus  `json:"permission"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name := raw.Name
	if name == "" {
		name = raw.BookName
	}
	*i = Invite{From: raw.From, Name: name, Permission: raw.Permission}
	return nil
}

// BookLabel is the label the book will carry once the invite is accepted.
func (i Invite) BookLabel() string {
	return Label(i.Name, i.From)
}
