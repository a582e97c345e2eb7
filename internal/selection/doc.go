// Package selection tracks the view state that lives outside the state
// document: which book is selected, which book a just-issued command is
// expected to produce, and which fields are being edited.
package selection
