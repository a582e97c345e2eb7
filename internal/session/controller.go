package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/selection"
	"github.com/five82/rolo/internal/state"
	"github.com/five82/rolo/internal/view"
)

// Stream is an open push channel.
type Stream interface {
	Next() (contacts.Snapshot, error)
	Close() error
}

// DialFunc opens a push channel.
type DialFunc func(ctx context.Context) (Stream, error)

// ClientDialer adapts contacts.Client.Subscribe to a DialFunc.
func ClientDialer(client *contacts.Client) DialFunc {
	return func(ctx context.Context) (Stream, error) {
		sub, err := client.Subscribe(ctx)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
}

// Config configures a Controller.
type Config struct {
	Fetcher   contacts.Fetcher
	Dial      DialFunc
	Namespace string
	Logger    *slog.Logger
	// Backoff is the first reconnect delay; it doubles per failure up to
	// maxBackoff. Zero means defaultBackoff.
	Backoff time.Duration
}

// Controller owns the state Store and the selection Tracker and is the only
// thing that writes to either in response to the network.
//
// Apply, Fail and Screen must be called from one goroutine (the UI event
// loop). Watch runs its own goroutine but only reports through its channel.
type Controller struct {
	fetch     contacts.Fetcher
	dial      DialFunc
	namespace string
	logger    *slog.Logger
	backoff   time.Duration

	store   *state.Store
	tracker *selection.Tracker
	our     contacts.PeerAddress
}

// New builds a Controller. Nothing touches the network until Start.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = contacts.DefaultNamespace
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Controller{
		fetch:     cfg.Fetcher,
		dial:      cfg.Dial,
		namespace: namespace,
		logger:    logger,
		backoff:   backoff,
		store:     &state.Store{},
		tracker:   selection.New(logger),
	}
}

// Start resolves the local address and pulls the first snapshot. Only the
// identity lookup is fatal; a failed pull is recorded and the UI starts
// empty.
func (c *Controller) Start(ctx context.Context) error {
	identity, err := c.fetch.FetchOur(ctx)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}
	c.our = contacts.Qualify(identity, c.namespace)
	c.logger.Info("session: identity resolved", "our", c.our)

	snap, err := c.Pull(ctx)
	if err != nil {
		c.Fail(err)
		return nil
	}
	c.Apply(snap)
	return nil
}

// Pull fetches a snapshot without applying it.
func (c *Controller) Pull(ctx context.Context) (contacts.Snapshot, error) {
	snap, err := c.fetch.FetchState(ctx)
	if err != nil {
		c.logger.Error("session: pull failed", "error", err)
		return contacts.Snapshot{}, fmt.Errorf("pull state: %w", err)
	}
	return snap, nil
}

// Apply replaces the stored document and reconciles the selection.
func (c *Controller) Apply(snap contacts.Snapshot) {
	c.store.Replace(snap)
	c.tracker.Reconcile(snap)
	c.logger.Debug("session: snapshot applied", "books", snap.Books.Len(), "invites", snap.PendingInvites.Len())
}

// Fail records a pull or transport failure without touching the document.
func (c *Controller) Fail(err error) {
	c.store.RecordError(err)
}

// Our is the local peer address.
func (c *Controller) Our() contacts.PeerAddress {
	return c.our
}

// Namespace is the peer address namespace.
func (c *Controller) Namespace() string {
	return c.namespace
}

// Current returns the stored snapshot and its bookkeeping.
func (c *Controller) Current() state.Snapshot {
	return c.store.Current()
}

// Tracker exposes the selection state for UI gestures (select, edit).
func (c *Controller) Tracker() *selection.Tracker {
	return c.tracker
}

// Screen renders the current state.
func (c *Controller) Screen() view.Screen {
	return view.Render(c.store.Current().Data, c.our, c.tracker.State())
}
