package strategy

import (
	"fmt"
	"time"

	"SignalPull/internal/domain/models"
)

// Evaluate runs the moving-average crossover with a momentum filter over an
// ordered price window and returns a verdict with its explanatory rationale.
// Pure apart from the ComputedAt stamp: identical inputs always yield the
// same direction and rationale.
//
// Decision order (first match wins):
//  1. fewer than max(fastLen, slowLen, 3) prices -> HOLD "not enough data"
//  2. fastMA > slowMA and slope > 0             -> BUY
//  3. fastMA < slowMA and slope < 0             -> SELL
//  4. otherwise (crossed-but-flat, ties)        -> HOLD
//
// The rationale embeds fastMA/slowMA/slope numerically; downstream consumers
// rely on that for auditability, so the format is a contract.
func Evaluate(prices []float64, fastLen, slowLen int) models.Verdict {
	need := fastLen
	if slowLen > need {
		need = slowLen
	}
	if need < 3 {
		need = 3
	}
	if len(prices) < need {
		return verdict(models.Hold, "not enough data")
	}

	fastMA := mean(prices[len(prices)-fastLen:])
	// degrade to the full window when fewer than slowLen prices are held
	slowMA := mean(prices)
	if len(prices) >= slowLen {
		slowMA = mean(prices[len(prices)-slowLen:])
	}

	// two-step centered difference over the last three prices; a crude
	// momentum proxy, deliberately simple and replaceable
	slope := (prices[len(prices)-1] - prices[len(prices)-3]) / 2.0

	switch {
	case fastMA > slowMA && slope > 0:
		return verdict(models.Buy, fmt.Sprintf("fast_ma %.5f > slow_ma %.5f, slope %.6f", fastMA, slowMA, slope))
	case fastMA < slowMA && slope < 0:
		return verdict(models.Sell, fmt.Sprintf("fast_ma %.5f < slow_ma %.5f, slope %.6f", fastMA, slowMA, slope))
	default:
		return verdict(models.Hold, fmt.Sprintf("fast_ma %.5f, slow_ma %.5f, slope %.6f", fastMA, slowMA, slope))
	}
}

// WindowLengths derives the crossover lengths from the requested timeframe so
// that short and long timeframes use proportionally different smoothing.
func WindowLengths(timeframe time.Duration) (fastLen, slowLen int) {
	tf := int(timeframe / time.Second)
	fastLen = tf / 6
	if fastLen < 3 {
		fastLen = 3
	}
	slowLen = tf / 2
	if slowLen < 8 {
		slowLen = 8
	}
	return fastLen, slowLen
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func verdict(d models.Direction, rationale string) models.Verdict {
	return models.Verdict{Direction: d, Rationale: rationale, ComputedAt: time.Now().UTC()}
}
