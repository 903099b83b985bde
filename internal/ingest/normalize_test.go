package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kvadrat/server/internal/models"
)

func TestNormalizeClass(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "Exact comfort",
			raw:      "Комфорт",
			expected: models.ClassComfort,
			ok:       true,
		},
		{
			name:     "Exact business with whitespace",
			raw:      "  бизнес ",
			expected: models.ClassBusiness,
			ok:       true,
		},
		{
			name:     "Exact premium uppercase",
			raw:      "ПРЕМИУМ",
			expected: models.ClassPremium,
			ok:       true,
		},
		{
			name:     "Compound label resolves by priority",
			raw:      "комфорт, бизнес",
			expected: models.ClassBusiness,
			ok:       true,
		},
		{
			name:     "Premium wins over comfort in compound label",
			raw:      "премиум-комфорт",
			expected: models.ClassPremium,
			ok:       true,
		},
		{
			name:     "Label with extra text",
			raw:      "бизнес-класс",
			expected: models.ClassBusiness,
			ok:       true,
		},
		{
			name: "Unrecognized label is rejected",
			raw:  "элит",
			ok:   false,
		},
		{
			name: "Empty label is rejected",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, ok := NormalizeClass(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, class)
			}
		})
	}
}

func TestNormalizeDistrict(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Canonical central",
			raw:      "Центральный",
			expected: models.DistrictCentral,
		},
		{
			name:     "Substring match with extra text",
			raw:      "Северный район",
			expected: models.DistrictNorth,
		},
		{
			name:     "South variant",
			raw:      "южный АО",
			expected: models.DistrictSouth,
		},
		{
			name:     "West",
			raw:      "ЗАПАДНЫЙ",
			expected: models.DistrictWest,
		},
		{
			name:     "East",
			raw:      "восточный",
			expected: models.DistrictEast,
		},
		{
			name:     "Unrecognized label passes through untouched",
			raw:      "Промзона Кожухово",
			expected: "Промзона Кожухово",
		},
		{
			name:     "Empty stays empty",
			raw:      "",
			expected: "",
		},
		{
			name:     "Whitespace only stays empty",
			raw:      "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDistrict(tt.raw))
		})
	}
}
