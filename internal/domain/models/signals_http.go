package models

// Requests and responses for the signal HTTP endpoints. Defined in domain for
// consistency and reuse.

type SignalRequest struct {
	Instrument string `query:"instrument" json:"instrument" validate:"required"`
	Timeframe  string `query:"timeframe" json:"timeframe" default:"1m"`
	Expiration string `query:"expiration" json:"expiration" default:"2m"`
}

type InstrumentAddRequest struct {
	Name   string `query:"name" json:"name" validate:"required"`
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type SignalResponse struct {
	Signal     string  `json:"signal"`
	Rationale  string  `json:"rationale"`
	Instrument string  `json:"instrument"`
	Symbol     string  `json:"symbol"`
	Timeframe  string  `json:"timeframe"`
	Expiration string  `json:"expiration"`
	LastPrice  float64 `json:"last_price,omitempty"`
	ComputedAt int64   `json:"computed_at"`
}

type InstrumentResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
