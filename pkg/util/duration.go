package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"SignalPull/internal/domain/models"
)

// ParseDuration parses compact unit-suffixed durations like "30s", "1m",
// "2h". Anything else (bad suffix, non-integer magnitude, non-positive
// value) is an ErrInvalidDuration.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q (use e.g. 30s, 1m, 1h)", models.ErrInvalidDuration, s)
	}

	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "s"):
		unit = time.Second
	case strings.HasSuffix(s, "m"):
		unit = time.Minute
	case strings.HasSuffix(s, "h"):
		unit = time.Hour
	default:
		return 0, fmt.Errorf("%w: %q (use e.g. 30s, 1m, 1h)", models.ErrInvalidDuration, s)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q (magnitude must be a positive integer)", models.ErrInvalidDuration, s)
	}
	return time.Duration(n) * unit, nil
}

// FormatDuration renders a duration back into the compact form accepted by
// ParseDuration, preferring the largest exact unit.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
