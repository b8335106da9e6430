package models

import "time"

// Direction is the discrete trading recommendation.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
	Hold Direction = "HOLD"
)

// Verdict is the outcome of one strategy evaluation. Value type, recomputed
// on every request and never cached.
type Verdict struct {
	Direction  Direction
	Rationale  string
	ComputedAt time.Time
}

// SignalResult wraps a Verdict with the request metadata attached by the
// orchestration layer.
// Note: no transport (json/http) concerns here.
type SignalResult struct {
	Instrument string // user-facing pair name
	Symbol     string // resolved provider symbol
	Timeframe  time.Duration
	Expiration time.Duration
	LastPrice  float64
	Verdict    Verdict
}
