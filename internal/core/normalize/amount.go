package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingFloat matches the longest numeric prefix of a string, e.g. "12.5kg" -> "12.5".
var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseAmount converts a candidate field value to a number.
// ok is false when the value is not a number (NaN, non-finite, wrong type).
func parseAmount(v any) (amount float64, ok bool) {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, found := parseLeadingFloat(val)
		if !found {
			return 0, false
		}
		f = parsed
	case []any:
		// ["5"] and [5] read as "5"
		parsed, found := parseLeadingFloat(joinArray(val))
		if !found {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	if strings.HasSuffix(m, "Infinity") {
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range; ParseFloat still returns +/-Inf
		return f, math.IsInf(f, 0)
	}
	return f, true
}
