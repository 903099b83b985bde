package ingest

import (
	"strings"

	"kvadrat/server/internal/models"
)

// classKeywords maps lower-cased keywords to canonical class names.
// Order matters for the containment pass: a compound label holding
// several keywords resolves to the first one listed here.
var classKeywords = []struct {
	keyword string
	class   string
}{
	{"премиум", models.ClassPremium},
	{"бизнес", models.ClassBusiness},
	{"комфорт", models.ClassComfort},
}

// districtKeywords maps lower-cased substrings to canonical district
// names, checked in this fixed priority order.
var districtKeywords = []struct {
	keyword  string
	district string
}{
	{"центр", models.DistrictCentral},
	{"север", models.DistrictNorth},
	{"южн", models.DistrictSouth},
	{"запад", models.DistrictWest},
	{"восток", models.DistrictEast},
}

// NormalizeClass maps a free-text class label to the canonical closed
// set. Exact keyword match is tried first, then substring containment
// for compound labels. Labels matching no keyword return false and the
// row carrying them must be dropped.
func NormalizeClass(raw string) (string, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return "", false
	}

	for _, ck := range classKeywords {
		if label == ck.keyword {
			return ck.class, true
		}
	}
	for _, ck := range classKeywords {
		if strings.Contains(label, ck.keyword) {
			return ck.class, true
		}
	}
	return "", false
}

// NormalizeDistrict maps a free-text district label to the canonical
// set by substring priority. Unrecognized labels pass through untouched
// so an entity is never rejected on district; empty input stays empty.
func NormalizeDistrict(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return ""
	}

	for _, dk := range districtKeywords {
		if strings.Contains(label, dk.keyword) {
			return dk.district
		}
	}
	return raw
}
