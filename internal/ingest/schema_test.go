package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kvadrat/server/internal/models"
)

func TestDiscoverPriceColumns(t *testing.T) {
	headers := []string{
		"Название",
		"Класс",
		"Цена (июнь)",
		"Район",
		"цена июль",
		"Цена",
		"Старая цена",
	}

	columns := DiscoverPriceColumns(headers, "Цена")

	assert.Equal(t, []models.PriceColumn{
		{Header: "Цена (июнь)", Period: "июнь"},
		{Header: "цена июль", Period: "июль"},
		{Header: "Цена", Period: "Цена"},
	}, columns, "Prefix match is case-insensitive and preserves header order")
}

func TestDiscoverPriceColumnsNone(t *testing.T) {
	columns := DiscoverPriceColumns([]string{"Название", "Класс"}, "Цена")
	assert.Empty(t, columns)
}
