package ingest

import (
	"strconv"
	"strings"
)

// ParsePrice converts a raw cell value into a price. The second return
// value is false for empty cells, the "-" placeholder and strings that
// contain no parseable number. Numeric cells pass through unchanged.
func ParsePrice(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "-" {
			return 0, false
		}
		cleaned := stripNonNumeric(trimmed)
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}

// stripNonNumeric keeps digits and decimal points only, so currency
// symbols, spaces and thousand separators fall away without any
// currency-specific handling.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
