package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the canonical timestamp format: UTC, millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// maxEpochMillis bounds numeric timestamps to +/-100,000,000 days around the epoch.
const maxEpochMillis = 8.64e15

// Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006-01",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
}

// FormatTimestamp renders t in the canonical layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// parseTimestamp accepts epoch milliseconds (JSON numbers and true), date
// strings and arrays read as their joined string.
func parseTimestamp(v any) (time.Time, error) {
	switch val := v.(type) {
	case json.Number:
		ms, err := val.Float64()
		if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, fmt.Errorf("invalid epoch milliseconds %s", val)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	case string:
		return parseDateString(val)
	case bool:
		// only true reaches here; it counts as 1ms past the epoch
		return time.UnixMilli(1).UTC(), nil
	case []any:
		return parseDateString(joinArray(val))
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp '%s': %w", s, lastErr)
}
