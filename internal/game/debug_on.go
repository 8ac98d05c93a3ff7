//go:build debug

package game

// debugChecks enables invariant panics after every update.
const debugChecks = true
