// Package session keeps the local copy of the node's state in sync.
//
// # Overview
//
// A Controller is the single owner of the state Store and the selection
// Tracker. Start resolves the local peer address and pulls the first
// snapshot. After that every snapshot, pulled or pushed, goes through Apply:
//
//	Apply(snap)
//	  ├─> store.Replace(snap)     whole document swapped
//	  └─> tracker.Reconcile(snap) selection and edits adjusted
//
// Screen renders whatever is current.
//
// # Push Loop
//
// Watch dials the push channel and forwards each snapshot as an Event. When
// the connection drops it waits calculateBackoff(failures, base), doubling
// from 2s up to 30s, redials, and pulls once after the reconnect so changes
// made while disconnected show up. Messages that fail to decode are logged
// and skipped without dropping the connection.
//
// Watch never calls Apply itself. The UI receives the events on its own
// event loop and applies them there, which keeps all state mutation on one
// goroutine and in arrival order.
package session
