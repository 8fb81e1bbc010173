package reql

import "errors"

// ErrCompile is the sentinel every parse/compile failure wraps: a
// malformed REQL query, an undefined projection variable, or an
// unsupported construct (spec.md §6.2, §7).
var ErrCompile = errors.New("reql: query compile error")

// ErrTimeout is returned when a query's deadline elapses during
// execution; the executor stops at the next safe point and returns no
// partial rows (spec.md §5, §6.2).
var ErrTimeout = errors.New("reql: query timed out")
