package view

import (
	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/selection"
)

// Render derives the screen from the snapshot, the local address and the
// tracker state. It reads nothing else, so equal inputs give equal screens.
func Render(snap contacts.Snapshot, our contacts.PeerAddress, sel selection.State) Screen {
	screen := Screen{Our: our}

	screen.Invites = renderInvites(snap, &screen.Targets)
	screen.Selector = renderSelector(snap, sel)
	screen.Forms = append(screen.Forms, Form{Kind: FormNewBook})

	if !sel.HasBook {
		return screen
	}
	book, ok := snap.Book(sel.Book)
	if !ok {
		return screen
	}
	screen.Book = renderBook(book, our, sel.Drafts, &screen.Targets)
	screen.Forms = append(screen.Forms,
		Form{Kind: FormAddContact, Book: book.ID},
		Form{Kind: FormInvitePeer, Book: book.ID},
	)
	for _, c := range screen.Book.Contacts {
		screen.Forms = append(screen.Forms, Form{Kind: FormAddSocial, Book: book.ID, Contact: c.ID})
	}
	return screen
}

func renderInvites(snap contacts.Snapshot, targets *[]Target) InviteList {
	list := InviteList{Hidden: snap.PendingInvites.Len() == 0}
	for id, inv := range snap.PendingInvites.All() {
		list.Rows = append(list.Rows, InviteRow{
			ID:         id,
			From:       inv.From.Identity(),
			BookName:   inv.Name,
			Permission: inv.Permission,
			Label:      inv.BookLabel(),
		})
		*targets = append(*targets, Target{Kind: TargetInvite, Invite: id})
	}
	return list
}

func renderSelector(snap contacts.Snapshot, sel selection.State) Selector {
	if snap.Books.Len() == 0 {
		return Selector{Hidden: true, Prompt: PromptNoBooks, Selected: -1}
	}
	s := Selector{Prompt: PromptChooseBook, Selected: -1}
	for id, book := range snap.Books.All() {
		if sel.HasBook && id == sel.Book {
			s.Selected = len(s.Options)
		}
		s.Options = append(s.Options, Option{ID: id, Label: book.Label()})
	}
	return s
}

func renderBook(book contacts.Book, our contacts.PeerAddress, drafts map[selection.FieldKey]string, targets *[]Target) *BookPane {
	pane := &BookPane{
		ID:    book.ID,
		Name:  book.Name,
		Label: book.Label(),
		Owned: our != "" && book.Owner == our,
	}

	for id, contact := range book.Contacts.All() {
		*targets = append(*targets, Target{Kind: TargetContact, Book: book.ID, Contact: id})

		descKey := selection.DescriptionKey(book.ID, id)
		row := ContactRow{ID: id, Description: field(descKey, contact.Description, DescriptionFallback, drafts)}
		*targets = append(*targets, Target{Kind: TargetDescription, Book: book.ID, Contact: id})

		for key, value := range contact.Socials.All() {
			socialKey := selection.SocialKey(book.ID, id, key)
			row.Socials = append(row.Socials, SocialRow{Key: key, Value: field(socialKey, value, "", drafts)})
			*targets = append(*targets, Target{Kind: TargetSocial, Book: book.ID, Contact: id, Social: key})
		}
		pane.Contacts = append(pane.Contacts, row)
	}

	for addr, status := range book.Peers.All() {
		pane.Peers = append(pane.Peers, PeerRow{
			Address:  addr,
			Identity: addr.Identity(),
			Status:   status,
			Self:     addr == our,
		})
		*targets = append(*targets, Target{Kind: TargetPeer, Book: book.ID, Peer: addr})
	}
	return pane
}

func field(key selection.FieldKey, value, placeholder string, drafts map[selection.FieldKey]string) Field {
	if draft, ok := drafts[key]; ok {
		return Field{Key: key, Text: draft, Editing: true}
	}
	if value == "" && placeholder != "" {
		return Field{Key: key, Text: placeholder, Placeholder: true}
	}
	return Field{Key: key, Text: value}
}
