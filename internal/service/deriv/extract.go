package deriv

import (
	"encoding/json"
	"time"

	"SignalPull/internal/domain/models"
)

// Wire shapes for the Deriv v3 API. Only the fields we read are declared;
// everything else in a frame is ignored.

type authorizeRequest struct {
	Authorize string `json:"authorize"`
}

type ticksRequest struct {
	Ticks     string `json:"ticks"`
	Subscribe int    `json:"subscribe"`
}

// forgetRequest echoes the original subscribe payload to release the stream.
type forgetRequest struct {
	Forget ticksRequest `json:"forget"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tickEnvelope struct {
	Tick  *tickPayload `json:"tick"`
	Error *apiError    `json:"error"`
}

type tickPayload struct {
	Symbol string   `json:"symbol"`
	Quote  *float64 `json:"quote"`
	Price  *float64 `json:"price"`
	Bid    *float64 `json:"bid"`
	Ask    *float64 `json:"ask"`
	Epoch  int64    `json:"epoch"` // seconds since epoch, server-assigned
}

// priceRule extracts a candidate price from a tick payload.
type priceRule struct {
	field string
	fn    func(*tickPayload) (float64, bool)
}

// priceRules are evaluated in priority order; the first field present wins.
var priceRules = []priceRule{
	{"quote", func(p *tickPayload) (float64, bool) { return deref(p.Quote) }},
	{"price", func(p *tickPayload) (float64, bool) { return deref(p.Price) }},
	{"bid", func(p *tickPayload) (float64, bool) { return deref(p.Bid) }},
	{"ask", func(p *tickPayload) (float64, bool) { return deref(p.Ask) }},
}

func deref(f *float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	return *f, true
}

// extractTick parses one inbound frame into a Tick. Frames that are not
// price updates (subscription acks, pongs, malformed payloads) yield
// ok=false and are meant to be discarded silently by the caller.
//
// fallbackSymbol attributes symbol-less ticks to a known subscription. It is
// only sound on a dedicated single-instrument connection (the snapshot
// fetcher); the shared listener connection must pass "" because attributing
// a tick to "the" subscription is unreliable once several are active.
func extractTick(raw []byte, fallbackSymbol string, now func() time.Time) (models.Tick, bool) {
	var env tickEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.Tick{}, false
	}
	if env.Tick == nil {
		return models.Tick{}, false
	}

	symbol := env.Tick.Symbol
	if symbol == "" {
		symbol = fallbackSymbol
	}
	if symbol == "" {
		return models.Tick{}, false
	}

	var price float64
	found := false
	for _, rule := range priceRules {
		if v, ok := rule.fn(env.Tick); ok {
			price = v
			found = true
			break
		}
	}
	if !found {
		return models.Tick{}, false
	}

	ts := now()
	if env.Tick.Epoch > 0 {
		ts = time.Unix(env.Tick.Epoch, 0)
	}

	return models.Tick{Symbol: symbol, Price: price, Timestamp: ts}, true
}
