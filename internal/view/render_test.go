package view

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/selection"
)

const (
	workID   = "6f1c1a52-5f4d-4c35-9a0e-0c3c5bb0e001"
	inviteID = "9b1c1a52-5f4d-4c35-9a0e-0c3c5bb0e003"
	our      = contacts.PeerAddress("alice@contacts:crdt-crm:mothu.eth")
)

func decode(t *testing.T, doc string) contacts.Snapshot {
	t.Helper()
	var snap contacts.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func workDoc(peerStatus, social string) string {
	return `{
  "books": {
    "` + workID + `": {
      "name": "Work",
      "owner": "alice@contacts:crdt-crm:mothu.eth",
      "contacts": {
        "amy": {"description": "", "socials": {"x": "` + social + `"}}
      },
      "peers": {
        "alice@contacts:crdt-crm:mothu.eth": "ReadWrite",
        "bob@contacts:crdt-crm:mothu.eth": "` + peerStatus + `"
      }
    }
  },
  "pending_invites": {}
}`
}

func TestRender_NoBooks(t *testing.T) {
	screen := Render(contacts.Snapshot{}, our, selection.State{})

	if !screen.Selector.Hidden {
		t.Fatal("selector should be hidden without books")
	}
	if screen.Selector.Prompt != PromptNoBooks {
		t.Fatalf("prompt = %q, want %q", screen.Selector.Prompt, PromptNoBooks)
	}
	if screen.Book != nil {
		t.Fatal("book pane should be absent")
	}
	if !screen.Invites.Hidden {
		t.Fatal("invites should be hidden when empty")
	}
	if _, ok := screen.Form(FormNewBook); !ok {
		t.Fatal("create-book form should always be available")
	}
	if _, ok := screen.Form(FormAddContact); ok {
		t.Fatal("add-contact form needs a selected book")
	}
}

func TestRender_BookPane(t *testing.T) {
	snap := decode(t, workDoc("ReadOnly", "@amy"))
	id := uuid.MustParse(workID)
	screen := Render(snap, our, selection.State{Book: id, HasBook: true})

	if screen.Selector.Prompt != PromptChooseBook || screen.Selector.Selected != 0 {
		t.Fatalf("selector = %#v", screen.Selector)
	}
	if got := screen.Selector.Options[0].Label; got != "Work (alice)" {
		t.Fatalf("option label = %q, want Work (alice)", got)
	}

	want := &BookPane{
		ID:    id,
		Name:  "Work",
		Label: "Work (alice)",
		Owned: true,
		Contacts: []ContactRow{{
			ID: "amy",
			Description: Field{
				Key:         selection.DescriptionKey(id, "amy"),
				Text:        DescriptionFallback,
				Placeholder: true,
			},
			Socials: []SocialRow{{
				Key:   "x",
				Value: Field{Key: selection.SocialKey(id, "amy", "x"), Text: "@amy"},
			}},
		}},
		Peers: []PeerRow{
			{Address: our, Identity: "alice", Status: contacts.ReadWrite, Self: true},
			{Address: "bob@contacts:crdt-crm:mothu.eth", Identity: "bob", Status: "ReadOnly"},
		},
	}
	if diff := cmp.Diff(want, screen.Book); diff != "" {
		t.Fatalf("book pane mismatch (-want +got):\n%s", diff)
	}

	wantTargets := []Target{
		{Kind: TargetContact, Book: id, Contact: "amy"},
		{Kind: TargetDescription, Book: id, Contact: "amy"},
		{Kind: TargetSocial, Book: id, Contact: "amy", Social: "x"},
		{Kind: TargetPeer, Book: id, Peer: our},
		{Kind: TargetPeer, Book: id, Peer: "bob@contacts:crdt-crm:mothu.eth"},
	}
	if diff := cmp.Diff(wantTargets, screen.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if _, ok := screen.AddSocialForm("amy"); !ok {
		t.Fatal("add-social form missing for amy")
	}
}

func TestRender_IsPure(t *testing.T) {
	snap := decode(t, workDoc("ReadOnly", "@amy"))
	id := uuid.MustParse(workID)
	sel := selection.State{Book: id, HasBook: true, Drafts: map[selection.FieldKey]string{
		selection.DescriptionKey(id, "amy"): "draft",
	}}

	first := Render(snap, our, sel)
	second := Render(snap, our, sel)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render not deterministic (-first +second):\n%s", diff)
	}
}

func TestRender_EditSurvivesPeerStatusPush(t *testing.T) {
	id := uuid.MustParse(workID)
	key := selection.DescriptionKey(id, "amy")
	sel := selection.State{Book: id, HasBook: true, Drafts: map[selection.FieldKey]string{key: "half typed"}}

	before := Render(decode(t, workDoc("ReadOnly", "@amy")), our, sel)
	after := Render(decode(t, workDoc("ReadWrite", "@amy")), our, sel)

	for _, screen := range []Screen{before, after} {
		got := screen.Book.Contacts[0].Description
		if !got.Editing || got.Text != "half typed" {
			t.Fatalf("description = %#v, want editing draft", got)
		}
	}
	if got := after.Book.Peers[1].Status; got != contacts.ReadWrite {
		t.Fatalf("peer status = %q, want ReadWrite", got)
	}
}

func TestRender_SocialRoundTripShowsNewValue(t *testing.T) {
	id := uuid.MustParse(workID)
	sel := selection.State{Book: id, HasBook: true}
	// The edit was committed (draft gone) and the node echoed the new value.
	screen := Render(decode(t, workDoc("ReadOnly", "@amy_new")), our, sel)
	got := screen.Book.Contacts[0].Socials[0].Value
	if got.Editing || got.Text != "@amy_new" {
		t.Fatalf("social = %#v, want @amy_new", got)
	}
}

func TestRender_Invites(t *testing.T) {
	snap := decode(t, `{
  "books": {},
  "pending_invites": {
    "`+inviteID+`": {"from": "bob@contacts:crdt-crm:mothu.eth", "name": "Work", "permission": "ReadWrite"}
  }
}`)
	screen := Render(snap, our, selection.State{})
	if screen.Invites.Hidden {
		t.Fatal("invites should be visible")
	}
	want := []InviteRow{{
		ID:         uuid.MustParse(inviteID),
		From:       "bob",
		BookName:   "Work",
		Permission: contacts.ReadWrite,
		Label:      "Work (bob)",
	}}
	if diff := cmp.Diff(want, screen.Invites.Rows); diff != "" {
		t.Fatalf("invites mismatch (-want +got):\n%s", diff)
	}
	if idx := screen.IndexOf(Target{Kind: TargetInvite, Invite: uuid.MustParse(inviteID)}); idx != 0 {
		t.Fatalf("invite target index = %d, want 0", idx)
	}
}

func TestRender_SelectedBookMissingShowsNoPane(t *testing.T) {
	snap := decode(t, workDoc("ReadOnly", "@amy"))
	screen := Render(snap, our, selection.State{Book: uuid.New(), HasBook: true})
	if screen.Book != nil {
		t.Fatal("pane rendered for a book that is not in the snapshot")
	}
	if screen.Selector.Selected != -1 {
		t.Fatalf("Selected = %d, want -1", screen.Selector.Selected)
	}
}
