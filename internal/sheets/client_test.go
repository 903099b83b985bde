package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvadrat/server/config"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Sheet.URL = baseURL
	cfg.Sheet.Name = "Данные"
	cfg.Sheet.FetchTimeout = 2 * time.Second
	cfg.Sheet.MaxRetries = 3
	cfg.Sheet.RetryDelay = time.Millisecond

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewClient(cfg, logger)
}

func TestFetchTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gviz/tq", r.URL.Path)
		assert.Equal(t, "Данные", r.URL.Query().Get("sheet"))
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	table, err := client.FetchTable(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Headers, 5)
	assert.Len(t, table.Rows, 2)
}

func TestFetchTableRetriesTransportFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	table, err := client.FetchTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, table.Rows, 2)
}

func TestFetchTableExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	table, err := client.FetchTable(context.Background())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 3, attempts)
}

func TestFetchTableBadPayloadIsTerminal(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte("not a gviz payload"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	table, err := client.FetchTable(context.Background())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Equal(t, 1, attempts, "malformed payloads are not retried")
}
