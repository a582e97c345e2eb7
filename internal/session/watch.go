package session

import (
	"context"
	"errors"
	"time"

	"github.com/five82/rolo/internal/contacts"
)

const (
	defaultBackoff = 2 * time.Second
	maxBackoff     = 30 * time.Second
)

// Event is one report from the push loop.
type Event struct {
	Snapshot    contacts.Snapshot
	HasSnapshot bool
	// Connected is the transport state after this event.
	Connected bool
	Err       error
}

// Watch keeps the push channel open until ctx ends and reports every
// snapshot on the returned channel, in arrival order. When the connection
// drops it reconnects with exponential backoff and pulls once after each
// reconnect so nothing missed while disconnected is lost. The channel is
// closed when ctx ends.
func (c *Controller) Watch(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go c.watch(ctx, out)
	return out
}

func (c *Controller) watch(ctx context.Context, out chan<- Event) {
	defer close(out)

	failures := 0
	resync := false
	for {
		stream, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("push: connect failed", "error", err, "failures", failures+1)
			if !emit(ctx, out, Event{Err: err}) {
				return
			}
			if !sleep(ctx, calculateBackoff(failures, c.backoff)) {
				return
			}
			failures++
			resync = true
			continue
		}

		c.logger.Info("push: connected", "resync", resync)
		if !emit(ctx, out, Event{Connected: true}) {
			_ = stream.Close()
			return
		}
		if resync {
			ev := Event{Connected: true}
			if snap, err := c.Pull(ctx); err != nil {
				ev.Err = err
			} else {
				ev.Snapshot, ev.HasSnapshot = snap, true
			}
			if !emit(ctx, out, ev) {
				_ = stream.Close()
				return
			}
		}
		failures = 0

		err = c.pump(ctx, stream, out)
		_ = stream.Close()
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("push: connection lost", "error", err)
		if !emit(ctx, out, Event{Err: err}) {
			return
		}
		if !sleep(ctx, calculateBackoff(failures, c.backoff)) {
			return
		}
		failures++
		resync = true
	}
}

// pump forwards snapshots until the stream fails. Malformed messages are
// logged and skipped.
func (c *Controller) pump(ctx context.Context, stream Stream, out chan<- Event) error {
	stop := context.AfterFunc(ctx, func() { _ = stream.Close() })
	defer stop()

	for {
		snap, err := stream.Next()
		if err != nil {
			if errors.Is(err, contacts.ErrMalformed) {
				c.logger.Warn("push: skipped message", "error", err)
				continue
			}
			return err
		}
		if !emit(ctx, out, Event{Snapshot: snap, HasSnapshot: true, Connected: true}) {
			return ctx.Err()
		}
	}
}

func emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// calculateBackoff doubles base once per prior failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures < 0 {
		failures = 0
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return min(delay, maxBackoff)
}
