package models

import "errors"

// Domain error taxonomy. Wrapped with context at the call site; matched with
// errors.Is at the boundaries.
var (
	// ErrInvalidPrice marks a non-finite price on ingest. The tick is
	// dropped and the store is left untouched.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidDuration marks a malformed timeframe/expiration string.
	// Surfaced to the caller before any data work begins.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrDataAcquisition marks a transport fault during a bounded snapshot
	// fetch. Downgraded to a HOLD verdict at the orchestration boundary.
	ErrDataAcquisition = errors.New("data acquisition failed")
)
