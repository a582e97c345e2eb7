// Package view turns a state document and the selection state into a Screen:
// a plain tree of rows, fields, forms and cursor targets. Render has no side
// effects and reads nothing but its arguments; internal/ui only styles the
// result.
package view
