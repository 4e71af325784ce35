package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"showshelf/internal/domain"
	"showshelf/internal/logger"
)

const defaultTimeout = 10 * time.Second

// Client queries the external media catalog for movie and series metadata.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a catalog API client. timeout <= 0 falls back to the
// package default.
func NewClient(baseURL, token string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// FetchDetails expands a (kind, id) pair into the full catalog record.
// A 404 maps to domain.ErrNotFound, transport and server failures to
// domain.ErrUnavailable.
func (c *Client) FetchDetails(ctx context.Context, kind domain.MediaKind, id int64) (*domain.MediaRecord, error) {
	path := fmt.Sprintf("/movie/%d", id)
	if kind == domain.KindSeries {
		path = fmt.Sprintf("/tv/%d", id)
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var dto mediaDetails
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog response: %v", domain.ErrUnavailable, err)
	}

	rec := mapMediaRecord(dto, kind)
	if rec.Title == "" {
		// A record with no title is unusable downstream; bad upstream data
		// is the catalog's fault, not the caller's.
		return nil, fmt.Errorf("%w: catalog response for %s carries no title", domain.ErrUnavailable, path)
	}
	return &rec, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.Debug("catalog request", logger.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", logger.String("url", reqURL), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog response: %v", domain.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: catalog rejected credentials", domain.ErrUnavailable)
	default:
		c.logger.Error("catalog request error",
			logger.Int("status", resp.StatusCode),
			logger.String("url", reqURL))
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrUnavailable, resp.StatusCode)
	}
}
