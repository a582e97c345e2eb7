// Package ui is rolo's terminal interface, built on Bubble Tea.
//
// # Architecture Overview
//
// Model owns no document state. Every frame is drawn from a view.Screen that
// the session.Controller renders from its store and selection tracker, and
// the Model only keeps what is purely presentational: the cursor, the open
// form, the inline editor and the theme.
//
// # Event Flow
//
//  1. Init starts the push loop (Controller.Watch) and re-arms a read of its
//     channel after every event
//  2. Each pushed snapshot is applied with Controller.Apply on the event loop,
//     then the screen is re-rendered
//  3. The cursor is a view.Target, so after a re-render it is put back on the
//     same invite, contact, field or peer even when rows moved
//  4. Key presses turn into dispatch calls run as tea.Cmds; their results come
//     back as commandDoneMsg and never touch the document
//
// # Editing
//
// Drafts live in the selection tracker, not in the text input. The editor
// mirrors the draft of the field being edited, so a push that re-renders the
// book leaves the edit and its text alone. A push that removes the field ends
// the edit.
//
// # Forms
//
// New book, add contact, invite peer and add social are modal forms
// (formModal). A form stays open until its command answers: success closes
// it, failure leaves the input for another try. Add social is cleared after
// either outcome.
//
// # Key Bindings
//
//   - j/k, g/G: Move the cursor
//   - [ / ]: Previous / next book
//   - enter: Edit field, accept invite, submit form
//   - esc: Cancel edit or close form
//   - x: Reject invite, remove contact, social or peer
//   - n, a, s, i: New book, add contact, add social, invite peer
//   - D: Delete the selected book (confirm with y)
//   - r: Pull state now
//   - T: Cycle theme
//   - h or ?: Help
//   - q or Ctrl+C: Quit
package ui
