package render

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// FormatClock renders seconds from the start of the audio as HH:MM:SS.
// Fractions are truncated, negative and non-finite values clamp to zero and
// durations of a day or more wrap around.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	seconds = math.Mod(seconds, secondsPerDay)
	ms := int64(math.Floor(seconds * 1000))
	return time.UnixMilli(ms).UTC().Format(time.TimeOnly)
}

// FormatRange renders a segment's time span as "HH:MM:SS - HH:MM:SS".
func FormatRange(start, end float64) string {
	return FormatClock(start) + " - " + FormatClock(end)
}
