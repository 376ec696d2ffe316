// Package apperr holds sentinel errors shared across internal packages.
package apperr

import "errors"

// ErrNotOwner is returned when a lease-scoped update affects zero rows
// because the caller's worker ID no longer holds the task's lease
// (spec §5 — lost-lease contention on Heartbeat/Complete/Fail).
var ErrNotOwner = errors.New("apperr: caller does not hold the task lease")
