package caption

import (
	"fmt"
	"math"
)

// FormatTimestamp converts seconds to the WebVTT timestamp HH:MM:SS.mmm.
// Milliseconds are truncated, not rounded. Negative or NaN input formats
// as 00:00:00.000.
func FormatTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// FormatSRTTimestamp converts seconds to the SubRip timestamp HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func splitMillis(seconds float64) (h, m, s, ms int64) {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, 0, 0, 0
	}
	if math.IsInf(seconds, 1) {
		seconds = PlaceholderEnd
	}

	// Round to whole microseconds first so 1.001 is not floored to 1.000.
	micros := int64(math.Round(seconds * 1e6))
	total := micros / 1000

	h = total / 3_600_000
	m = total % 3_600_000 / 60_000
	s = total % 60_000 / 1000
	ms = total % 1000
	return h, m, s, ms
}
