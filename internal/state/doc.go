// Package state holds the single authoritative copy of the node's state
// document.
//
// # Overview
//
// Every pull and every push delivers the whole document, so the Store never
// merges anything. Replace swaps the document in, RecordError notes a failed
// pull or a dropped push connection and keeps the last good document on
// screen.
//
//	store := &state.Store{}
//	store.Replace(snap)         // good document: error cleared, revision bumped
//	store.RecordError(err)      // failure: document kept, failure counted
//	current := store.Current()  // deep copy for rendering
//
// # Concurrency
//
// The Store is guarded by a sync.RWMutex and is safe to share, but in rolo it
// is only written from the UI event loop (through session.Controller) so
// snapshots apply in arrival order.
//
// # Copying
//
// Replace and Current both clone the document. Callers can hold on to what
// Current returns while the next push lands.
package state
