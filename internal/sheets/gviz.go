package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Table is the extracted tabular payload: ordered header labels and
// rows keyed by header label. Cell values are numbers, strings or nil.
type Table struct {
	Headers []string
	Rows    []map[string]any
}

// gviz response shapes. The endpoint wraps JSON in a JavaScript
// callback, so the wrapper is stripped before unmarshaling.
type gvizResponse struct {
	Status string     `json:"status"`
	Table  *gvizTable `json:"table"`
}

type gvizTable struct {
	Cols []gvizCol `json:"cols"`
	Rows []gvizRow `json:"rows"`
}

type gvizCol struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any `json:"v"`
}

// ParseGvizResponse strips the JSONP wrapper and extracts the table.
// Any structural problem is reported as ErrBadPayload: the caller
// treats it as a terminal refresh failure, never a partial result.
func ParseGvizResponse(data []byte) (*Table, error) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrBadPayload)
	}

	var resp gvizResponse
	if err := json.Unmarshal(data[start:end+1], &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: source reported error status", ErrBadPayload)
	}
	if resp.Table == nil || len(resp.Table.Cols) == 0 {
		return nil, fmt.Errorf("%w: missing table structure", ErrBadPayload)
	}

	headers := make([]string, len(resp.Table.Cols))
	for i, col := range resp.Table.Cols {
		headers[i] = col.Label
		if headers[i] == "" {
			headers[i] = col.ID
		}
	}

	rows := make([]map[string]any, 0, len(resp.Table.Rows))
	for _, row := range resp.Table.Rows {
		record := make(map[string]any, len(headers))
		for i, cell := range row.C {
			if i >= len(headers) || cell == nil {
				continue
			}
			record[headers[i]] = cell.V
		}
		rows = append(rows, record)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}
