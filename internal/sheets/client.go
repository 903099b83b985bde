package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"kvadrat/server/config"
)

var (
	// ErrFetchFailed covers transport errors and non-success statuses.
	ErrFetchFailed = errors.New("sheet fetch failed")

	// ErrBadPayload covers unparseable wrappers and missing table data.
	ErrBadPayload = errors.New("malformed sheet payload")
)

// Client fetches the published spreadsheet through the gviz endpoint.
type Client struct {
	baseURL    string
	sheetName  string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	logger     *logrus.Logger
}

// NewClient creates a sheet client from the application config.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Client{
		baseURL:    cfg.Sheet.URL,
		sheetName:  cfg.Sheet.Name,
		maxRetries: cfg.Sheet.MaxRetries,
		retryDelay: cfg.Sheet.RetryDelay,
		client:     &http.Client{Timeout: cfg.Sheet.FetchTimeout},
		logger:     logger,
	}
}

// FetchTable downloads and parses the named sheet tab. Transport
// failures are retried with doubling delay up to the configured cap;
// a malformed payload is terminal since retrying cannot fix it.
func (c *Client) FetchTable(ctx context.Context) (*Table, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			c.logger.WithError(lastErr).Infof("Retrying sheet fetch, attempt %d of %d", attempt, c.maxRetries)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		table, err := c.fetchOnce(ctx)
		if err == nil {
			return table, nil
		}
		if errors.Is(err, ErrBadPayload) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("sheet fetch failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (*Table, error) {
	endpoint := fmt.Sprintf("%s/gviz/tq?tqx=out:json&sheet=%s", c.baseURL, url.QueryEscape(c.sheetName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	table, err := ParseGvizResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"sheet":   c.sheetName,
		"headers": len(table.Headers),
		"rows":    len(table.Rows),
	}).Info("Fetched sheet table")

	return table, nil
}
