package models

import "time"

// Tick is a single timestamped price observation for one instrument.
// Immutable once created; the store copies it by value.
type Tick struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
}
