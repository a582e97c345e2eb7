package selection

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/five82/rolo/internal/contacts"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type bookFixture struct {
	id       contacts.BookID
	name     string
	owner    contacts.PeerAddress
	contacts map[contacts.ContactID][]string // socials keys
}

func snapshotOf(books ...bookFixture) contacts.Snapshot {
	var snap contacts.Snapshot
	for _, b := range books {
		book := contacts.Book{ID: b.id, Name: b.name, Owner: b.owner}
		for cid, socials := range b.contacts {
			c := contacts.Contact{ID: cid}
			for _, key := range socials {
				c.Socials.Set(key, key+"-value")
			}
			book.Contacts.Set(cid, c)
		}
		snap.Books.Set(b.id, book)
	}
	return snap
}

func TestReconcile_KeepsFallsBackAndClears(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	tr := New(quietLogger())

	tr.Reconcile(snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns"}, bookFixture{id: b, name: "B", owner: "alice@ns"}))
	if got, ok := tr.Selected(); !ok || got != a {
		t.Fatalf("Selected() = %s,%v want first book %s", got, ok, a)
	}

	tr.Select(b)
	tr.Reconcile(snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns"}, bookFixture{id: b, name: "B", owner: "alice@ns"}))
	if got, _ := tr.Selected(); got != b {
		t.Fatalf("Selected() = %s, want kept %s", got, b)
	}

	tr.Reconcile(snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns"}))
	if got, _ := tr.Selected(); got != a {
		t.Fatalf("Selected() = %s, want fallback %s", got, a)
	}

	tr.Reconcile(contacts.Snapshot{})
	if _, ok := tr.Selected(); ok {
		t.Fatal("Selected() reported a book for an empty snapshot")
	}
}

func TestExpect_NewBookResolvesOnLaterSnapshot(t *testing.T) {
	existing, created := uuid.New(), uuid.New()
	tr := New(quietLogger())
	before := snapshotOf(bookFixture{id: existing, name: "Work", owner: "alice@ns"})
	tr.Reconcile(before)

	tr.Expect(contacts.Label("Friends", "alice@ns"), before.BookIDs(), before)
	if label, ok := tr.Pending(); !ok || label != "Friends (alice)" {
		t.Fatalf("Pending() = %q,%v want Friends (alice)", label, ok)
	}
	if got, _ := tr.Selected(); got != existing {
		t.Fatalf("selection moved before the book appeared: %s", got)
	}

	// An unrelated push keeps the expectation alive.
	tr.Reconcile(before)
	if _, ok := tr.Pending(); !ok {
		t.Fatal("expectation lost on unrelated snapshot")
	}

	after := snapshotOf(
		bookFixture{id: existing, name: "Work", owner: "alice@ns"},
		bookFixture{id: created, name: "Friends", owner: "alice@ns"},
	)
	tr.Reconcile(after)
	if got, _ := tr.Selected(); got != created {
		t.Fatalf("Selected() = %s, want new book %s", got, created)
	}
	if _, ok := tr.Pending(); ok {
		t.Fatal("expectation should clear once resolved")
	}
}

func TestExpect_ResolvesAgainstCurrentSnapshot(t *testing.T) {
	invited := uuid.New()
	tr := New(quietLogger())
	// The push with the accepted book landed before the command returned.
	current := snapshotOf(bookFixture{id: invited, name: "Work", owner: "bob@ns"})
	tr.Reconcile(current)

	tr.Expect("Work (bob)", nil, current)
	if got, _ := tr.Selected(); got != invited {
		t.Fatalf("Selected() = %s, want %s", got, invited)
	}
	if _, ok := tr.Pending(); ok {
		t.Fatal("expectation should resolve immediately")
	}
}

func TestExpect_SkipsKnownBooksWithSameLabel(t *testing.T) {
	old, fresh := uuid.New(), uuid.New()
	tr := New(quietLogger())
	before := snapshotOf(bookFixture{id: old, name: "Friends", owner: "alice@ns"})
	tr.Reconcile(before)

	tr.Expect("Friends (alice)", before.BookIDs(), before)
	if _, ok := tr.Pending(); !ok {
		t.Fatal("a pre-existing book with the same label must not satisfy the expectation")
	}

	tr.Reconcile(snapshotOf(
		bookFixture{id: old, name: "Friends", owner: "alice@ns"},
		bookFixture{id: fresh, name: "Friends", owner: "alice@ns"},
	))
	if got, _ := tr.Selected(); got != fresh {
		t.Fatalf("Selected() = %s, want %s", got, fresh)
	}
}

func TestSelect_ClearsExpectation(t *testing.T) {
	a := uuid.New()
	tr := New(quietLogger())
	snap := snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns"})
	tr.Expect("Later (alice)", snap.BookIDs(), snap)
	tr.Select(a)
	if _, ok := tr.Pending(); ok {
		t.Fatal("manual selection should drop the expectation")
	}
}

func TestDrafts_SurviveUnrelatedSnapshots(t *testing.T) {
	a := uuid.New()
	tr := New(quietLogger())
	snap := snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns", contacts: map[contacts.ContactID][]string{
		"amy": {"x"},
		"bob": nil,
	}})
	tr.Reconcile(snap)

	desc := DescriptionKey(a, "amy")
	social := SocialKey(a, "amy", "x")
	tr.Begin(desc, "")
	tr.SetDraft(desc, "half typed")
	tr.Begin(social, "x-value")

	// A remote change to a different contact.
	tr.Reconcile(snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns", contacts: map[contacts.ContactID][]string{
		"amy": {"x"},
		"bob": {"email"},
	}}))
	if got, ok := tr.Draft(desc); !ok || got != "half typed" {
		t.Fatalf("Draft(desc) = %q,%v want half typed", got, ok)
	}

	// Begin on a field already in edit mode keeps the draft.
	tr.Begin(desc, "reset")
	if got, _ := tr.Draft(desc); got != "half typed" {
		t.Fatalf("Begin overwrote draft: %q", got)
	}

	// The social key disappears remotely: that edit is dropped, the other stays.
	tr.Reconcile(snapshotOf(bookFixture{id: a, name: "A", owner: "alice@ns", contacts: map[contacts.ContactID][]string{
		"amy": nil,
	}}))
	if tr.Editing(social) {
		t.Fatal("edit on a removed social should be dropped")
	}
	if !tr.Editing(desc) {
		t.Fatal("edit on an existing description should survive")
	}

	text, ok := tr.Commit(desc)
	if !ok || text != "half typed" {
		t.Fatalf("Commit = %q,%v", text, ok)
	}
	if tr.Editing(desc) {
		t.Fatal("Commit should leave edit mode")
	}
	if len(tr.Drafts()) != 0 {
		t.Fatalf("Drafts() = %v, want empty", tr.Drafts())
	}
}

func TestSetDraftIgnoresFieldsNotBeingEdited(t *testing.T) {
	tr := New(quietLogger())
	key := DescriptionKey(uuid.New(), "amy")
	tr.SetDraft(key, "x")
	if tr.Editing(key) {
		t.Fatal("SetDraft should not start an edit")
	}
	tr.Begin(key, "a")
	tr.Cancel(key)
	if _, ok := tr.Draft(key); ok {
		t.Fatal("Cancel should discard the draft")
	}
}
