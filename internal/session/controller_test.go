package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/selection"
	"github.com/five82/rolo/internal/view"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFetcher struct {
	mu       sync.Mutex
	our      string
	ourErr   error
	snap     contacts.Snapshot
	stateErr error
	count    int
}

func (f *fakeFetcher) FetchOur(context.Context) (string, error) {
	return f.our, f.ourErr
}

func (f *fakeFetcher) FetchState(context.Context) (contacts.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.snap, f.stateErr
}

func (f *fakeFetcher) pulls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func TestStart_ResolvesIdentityAndPulls(t *testing.T) {
	snap := namedSnapshot("Work")
	ctrl := New(Config{Fetcher: &fakeFetcher{our: "alice", snap: snap}, Logger: quietLogger()})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := ctrl.Our(); got != "alice@contacts:crdt-crm:mothu.eth" {
		t.Fatalf("Our() = %q", got)
	}
	current := ctrl.Current()
	if !current.HasData || current.Data.Books.Len() != 1 {
		t.Fatalf("store not populated: %+v", current)
	}
	if id, ok := ctrl.Tracker().Selected(); !ok || id != snap.BookIDs()[0] {
		t.Fatalf("selection = %s,%v want first book", id, ok)
	}
}

func TestStart_IdentityFailureIsFatal(t *testing.T) {
	boom := errors.New("refused")
	ctrl := New(Config{Fetcher: &fakeFetcher{ourErr: boom}, Logger: quietLogger()})
	if err := ctrl.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Start error = %v, want %v", err, boom)
	}
}

func TestStart_PullFailureStartsEmpty(t *testing.T) {
	boom := errors.New("502")
	ctrl := New(Config{Fetcher: &fakeFetcher{our: "alice", stateErr: boom}, Logger: quietLogger()})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	current := ctrl.Current()
	if current.HasData {
		t.Fatal("HasData = true after failed pull")
	}
	if !errors.Is(current.LastError, boom) {
		t.Fatalf("LastError = %v, want %v", current.LastError, boom)
	}
	screen := ctrl.Screen()
	if screen.Selector.Prompt != view.PromptNoBooks {
		t.Fatalf("prompt = %q, want %q", screen.Selector.Prompt, view.PromptNoBooks)
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	snap := namedSnapshot("Work")
	ctrl := New(Config{Fetcher: &fakeFetcher{our: "alice", snap: snap}, Logger: quietLogger()})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := snap.BookIDs()[0]
	ctrl.Tracker().Begin(selection.DescriptionKey(id, "missing"), "x")

	ctrl.Apply(snap)
	once := ctrl.Screen()
	ctrl.Apply(snap)
	twice := ctrl.Screen()
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second apply changed the screen (-once +twice):\n%s", diff)
	}
}

func TestApply_NewBookScenario(t *testing.T) {
	work := uuid.New()
	var before contacts.Snapshot
	before.Books.Set(work, contacts.Book{ID: work, Name: "Work", Owner: "bob@contacts:crdt-crm:mothu.eth"})

	ctrl := New(Config{Fetcher: &fakeFetcher{our: "alice", snap: before}, Logger: quietLogger()})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// NewBook("Friends") succeeded; the push has not arrived yet.
	ctrl.Tracker().Expect(contacts.Label("Friends", ctrl.Our()), before.BookIDs(), ctrl.Current().Data)
	if got := ctrl.Screen().Book.Name; got != "Work" {
		t.Fatalf("selected = %q before push, want Work", got)
	}

	friends := uuid.New()
	after := before.Clone()
	after.Books.Set(friends, contacts.Book{ID: friends, Name: "Friends", Owner: ctrl.Our()})
	ctrl.Apply(after)

	screen := ctrl.Screen()
	if screen.Book == nil || screen.Book.ID != friends {
		t.Fatalf("selected = %+v, want Friends", screen.Book)
	}
	if screen.Book.Label != "Friends (alice)" || !screen.Book.Owned {
		t.Fatalf("book pane = %+v", screen.Book)
	}
}
