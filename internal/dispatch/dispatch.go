package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/five82/rolo/internal/contacts"
)

// ErrInvalid marks a command refused before anything was sent.
var ErrInvalid = errors.New("invalid command")

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, reason)
}

// Dispatcher validates user intent, builds the matching command and submits
// it. It never touches local state: every effect shows up through the next
// snapshot.
type Dispatcher struct {
	poster    contacts.Poster
	namespace string
	logger    *slog.Logger
}

// New returns a Dispatcher. An empty namespace means
// contacts.DefaultNamespace; a nil logger uses slog.Default.
func New(poster contacts.Poster, namespace string, logger *slog.Logger) *Dispatcher {
	if namespace == "" {
		namespace = contacts.DefaultNamespace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{poster: poster, namespace: namespace, logger: logger}
}

// NewBook creates a book and returns the trimmed name it was sent with.
func (d *Dispatcher) NewBook(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("book name is empty")
	}
	return name, d.send(ctx, contacts.NewBook{Name: name})
}

// RemoveBook deletes a book.
func (d *Dispatcher) RemoveBook(ctx context.Context, book contacts.BookID) error {
	if book == uuid.Nil {
		return invalid("no book selected")
	}
	return d.send(ctx, contacts.RemoveBook{Book: book})
}

// AddContact inserts a contact with an optional description and socials.
func (d *Dispatcher) AddContact(ctx context.Context, book contacts.BookID, name, description string, socials contacts.Ordered[string, string]) error {
	if book == uuid.Nil {
		return invalid("no book selected")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("contact name is empty")
	}
	return d.update(ctx, book, contacts.AddContact{
		Contact:     contacts.ContactID(name),
		Description: strings.TrimSpace(description),
		Socials:     socials,
	})
}

// RemoveContact deletes a contact.
func (d *Dispatcher) RemoveContact(ctx context.Context, book contacts.BookID, contact contacts.ContactID) error {
	if err := checkContact(book, contact); err != nil {
		return err
	}
	return d.update(ctx, book, contacts.RemoveContact{Contact: contact})
}

// EditDescription replaces a contact's description. Empty text clears it.
func (d *Dispatcher) EditDescription(ctx context.Context, book contacts.BookID, contact contacts.ContactID, text string) error {
	if err := checkContact(book, contact); err != nil {
		return err
	}
	return d.update(ctx, book, contacts.EditContactDescription{Contact: contact, Description: text})
}

// EditSocial sets one social value, adding the key when missing.
func (d *Dispatcher) EditSocial(ctx context.Context, book contacts.BookID, contact contacts.ContactID, key, value string) error {
	if err := checkContact(book, contact); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return invalid("social key is empty")
	}
	if strings.TrimSpace(value) == "" {
		return invalid("social value is empty")
	}
	return d.update(ctx, book, contacts.EditContactSocial{Contact: contact, Key: key, Value: value})
}

// RemoveSocial deletes one social value.
func (d *Dispatcher) RemoveSocial(ctx context.Context, book contacts.BookID, contact contacts.ContactID, key string) error {
	if err := checkContact(book, contact); err != nil {
		return err
	}
	if key == "" {
		return invalid("social key is empty")
	}
	return d.update(ctx, book, contacts.RemoveContactSocial{Contact: contact, Key: key})
}

// RemovePeer drops a peer from a book.
func (d *Dispatcher) RemovePeer(ctx context.Context, book contacts.BookID, peer contacts.PeerAddress) error {
	if book == uuid.Nil {
		return invalid("no book selected")
	}
	if strings.TrimSpace(string(peer)) == "" {
		return invalid("peer address is empty")
	}
	return d.update(ctx, book, contacts.RemovePeer{Peer: peer})
}

// InvitePeer offers a book to a peer. Bare identities are qualified with the
// namespace; the address actually sent is returned.
func (d *Dispatcher) InvitePeer(ctx context.Context, book contacts.BookID, peer string, permission contacts.PeerStatus) (contacts.PeerAddress, error) {
	if book == uuid.Nil {
		return "", invalid("no book selected")
	}
	if strings.TrimSpace(peer) == "" {
		return "", invalid("peer address is empty")
	}
	if permission == "" {
		permission = contacts.ReadWrite
	}
	addr := contacts.Qualify(peer, d.namespace)
	return addr, d.send(ctx, contacts.CreateInvite{Book: book, Peer: addr, Permission: permission})
}

// AcceptInvite joins the invited book.
func (d *Dispatcher) AcceptInvite(ctx context.Context, invite contacts.InviteID) error {
	if invite == uuid.Nil {
		return invalid("no invite selected")
	}
	return d.send(ctx, contacts.AcceptInvite{Invite: invite})
}

// RejectInvite drops a pending invite.
func (d *Dispatcher) RejectInvite(ctx context.Context, invite contacts.InviteID) error {
	if invite == uuid.Nil {
		return invalid("no invite selected")
	}
	return d.send(ctx, contacts.RejectInvite{Invite: invite})
}

func checkContact(book contacts.BookID, contact contacts.ContactID) error {
	if book == uuid.Nil {
		return invalid("no book selected")
	}
	if contact == "" {
		return invalid("no contact selected")
	}
	return nil
}

func (d *Dispatcher) update(ctx context.Context, book contacts.BookID, change contacts.Change) error {
	return d.send(ctx, contacts.Update{Book: book, Change: change})
}

func (d *Dispatcher) send(ctx context.Context, cmd contacts.Command) error {
	if err := d.poster.Post(ctx, cmd); err != nil {
		d.logger.Error("dispatch: command failed", "command", cmd.Tag(), "error", err)
		return fmt.Errorf("%s: %w", cmd.Tag(), err)
	}
	d.logger.Debug("dispatch: command accepted", "command", cmd.Tag())
	return nil
}
