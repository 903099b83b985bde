package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","table":{
"cols":[{"id":"A","label":"Название","type":"string"},
{"id":"B","label":"Класс","type":"string"},
{"id":"C","label":"Район","type":"string"},
{"id":"D","label":"Цена (июнь)","type":"number"},
{"id":"E","label":"Цена (июль)","type":"number"}],
"rows":[
{"c":[{"v":"ЖК Аврора"},{"v":"Комфорт"},{"v":"Северный"},{"v":100000.0,"f":"100 000"},{"v":110000.0}]},
{"c":[{"v":"ЖК Меридиан"},{"v":"Бизнес"},null,{"v":200000.0},null]}
]}});`

func TestParseGvizResponse(t *testing.T) {
	table, err := ParseGvizResponse([]byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, []string{"Название", "Класс", "Район", "Цена (июнь)", "Цена (июль)"}, table.Headers)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "ЖК Аврора", table.Rows[0]["Название"])
	assert.Equal(t, 100000.0, table.Rows[0]["Цена (июнь)"])

	// Null cells stay absent from the record
	assert.NotContains(t, table.Rows[1], "Район")
	assert.NotContains(t, table.Rows[1], "Цена (июль)")
	assert.Equal(t, 200000.0, table.Rows[1]["Цена (июнь)"])
}

func TestParseGvizResponseColumnIDFallback(t *testing.T) {
	payload := `setResponse({"status":"ok","table":{"cols":[{"id":"A","label":""}],"rows":[]}});`

	table, err := ParseGvizResponse([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, table.Headers)
}

func TestParseGvizResponseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "No JSON object",
			payload: "google.visualization.Query.setResponse();",
		},
		{
			name:    "Invalid JSON",
			payload: `setResponse({"table": {bad});`,
		},
		{
			name:    "Missing table",
			payload: `setResponse({"status":"ok"});`,
		},
		{
			name:    "Empty columns",
			payload: `setResponse({"status":"ok","table":{"cols":[],"rows":[]}});`,
		},
		{
			name:    "Error status",
			payload: `setResponse({"status":"error","errors":[{"reason":"invalid_query"}]});`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseGvizResponse([]byte(tt.payload))
			assert.Nil(t, table)
			assert.ErrorIs(t, err, ErrBadPayload)
		})
	}
}
