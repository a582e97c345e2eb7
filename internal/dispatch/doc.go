// Package dispatch turns user intent into node commands.
//
// Each operation checks its preconditions, builds exactly one command and
// posts it. A failed precondition returns ErrInvalid and sends nothing. A
// node rejection comes back wrapping contacts.ErrRejected. Nothing here
// mutates local state; callers wait for the next snapshot to see the effect.
package dispatch
