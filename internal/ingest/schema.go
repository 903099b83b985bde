package ingest

import (
	"strings"

	"kvadrat/server/internal/models"
)

// DiscoverPriceColumns returns the ordered set of time-series price
// columns: every header whose lower-cased text begins with the given
// prefix, in header order. Header order defines chronological period
// order; no date parsing or re-sorting happens here.
func DiscoverPriceColumns(headers []string, prefix string) []models.PriceColumn {
	prefix = strings.ToLower(prefix)

	var columns []models.PriceColumn
	for _, header := range headers {
		if !strings.HasPrefix(strings.ToLower(header), prefix) {
			continue
		}
		columns = append(columns, models.PriceColumn{
			Header: header,
			Period: periodFromHeader(header, prefix),
		})
	}
	return columns
}

// periodFromHeader extracts the period label from a price header, e.g.
// "Цена (июнь)" -> "июнь". Falls back to the full header when nothing
// is left after the prefix.
func periodFromHeader(header, prefix string) string {
	// Cyrillic and ASCII keep their byte length under ToLower, so the
	// prefix length maps back onto the original header.
	rest := header[len(prefix):]
	rest = strings.Trim(rest, " \t()[],.:-—")
	if rest == "" {
		return header
	}
	return rest
}
