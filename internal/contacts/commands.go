package contacts

import "encoding/json"

// Command is a request accepted by the node's post endpoint. Commands encode
// as externally tagged JSON: {"Tag": payload}.
type Command interface {
	json.Marshaler
	// Tag is the command tag, qualified with the change tag for updates.
	Tag() string
}

// Change is a mutation applied to one book through an Update command.
type Change interface {
	json.Marshaler
	Tag() string
}

func tagged(tag string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: payload})
}

// NewBook creates a book owned by the local node.
type NewBook struct {
	Name string
}

func (NewBook) Tag() string                    { return "NewBook" }
func (c NewBook) MarshalJSON() ([]byte, error) { return tagged("NewBook", c.Name) }

// RemoveBook deletes a book.
type RemoveBook struct {
	Book BookID
}

func (RemoveBook) Tag() string                    { return "RemoveBook" }
func (c RemoveBook) MarshalJSON() ([]byte, error) { return tagged("RemoveBook", c.Book) }

// CreateInvite offers a peer a copy of a book.
type CreateInvite struct {
	Book       BookID
	Peer       PeerAddress
	Permission PeerStatus
}

func (CreateInvite) Tag() string { return "CreateInvite" }
func (c CreateInvite) MarshalJSON() ([]byte, error) {
	return tagged("CreateInvite", []any{c.Book, c.Peer, c.Permission})
}

// AcceptInvite joins the book an invite was for.
type AcceptInvite struct {
	Invite InviteID
}

func (AcceptInvite) Tag() string                    { return "AcceptInvite" }
func (c AcceptInvite) MarshalJSON() ([]byte, error) { return tagged("AcceptInvite", c.Invite) }

// RejectInvite drops a pending invite.
type RejectInvite struct {
	Invite InviteID
}

func (RejectInvite) Tag() string                    { return "RejectInvite" }
func (c RejectInvite) MarshalJSON() ([]byte, error) { return tagged("RejectInvite", c.Invite) }

// Update applies a Change to a book.
type Update struct {
	Book   BookID
	Change Change
}

func (c Update) Tag() string {
	if c.Change == nil {
		return "Update"
	}
	return "Update/" + c.Change.Tag()
}

func (c Update) MarshalJSON() ([]byte, error) {
	return tagged("Update", []any{c.Book, c.Change})
}

// AddContact inserts a contact. An empty description is left out of the
// payload.
type AddContact struct {
	Contact     ContactID
	Description string
	Socials     Ordered[string, string]
}

type contactBody struct {
	Description string                  `json:"description,omitempty"`
	Socials     Ordered[string, string] `json:"socials"`
}

func (AddContact) Tag() string { return "AddContact" }
func (c AddContact) MarshalJSON() ([]byte, error) {
	return tagged("AddContact", []any{c.Contact, contactBody{Description: c.Description, Socials: c.Socials}})
}

// RemoveContact deletes a contact.
type RemoveContact struct {
	Contact ContactID
}

func (RemoveContact) Tag() string                    { return "RemoveContact" }
func (c RemoveContact) MarshalJSON() ([]byte, error) { return tagged("RemoveContact", c.Contact) }

// EditContactDescription replaces a contact's description.
type EditContactDescription struct {
	Contact     ContactID
	Description string
}

func (EditContactDescription) Tag() string { return "EditContactDescription" }
func (c EditContactDescription) MarshalJSON() ([]byte, error) {
	return tagged("EditContactDescription", []any{c.Contact, c.Description})
}

// EditContactSocial sets one social entry, adding it when missing.
type EditContactSocial struct {
	Contact ContactID
	Key     string
	Value   string
}

func (EditContactSocial) Tag() string { return "EditContactSocial" }
func (c EditContactSocial) MarshalJSON() ([]byte, error) {
	return tagged("EditContactSocial", []any{c.Contact, c.Key, c.Value})
}

// RemoveContactSocial deletes one social entry.
type RemoveContactSocial struct {
	Contact ContactID
	Key     string
}

func (RemoveContactSocial) Tag() string { return "RemoveContactSocial" }
func (c RemoveContactSocial) MarshalJSON() ([]byte, error) {
	return tagged("RemoveContactSocial", []any{c.Contact, c.Key})
}

// RemovePeer drops a peer from a book.
type RemovePeer struct {
	Peer PeerAddress
}

func (RemovePeer) Tag() string                    { return "RemovePeer" }
func (c RemovePeer) MarshalJSON() ([]byte, error) { return tagged("RemovePeer", c.Peer) }
