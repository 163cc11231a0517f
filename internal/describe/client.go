package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fauxforce/fauxforce/internal/errors"
	"github.com/fauxforce/fauxforce/internal/logging"
	"github.com/fauxforce/fauxforce/internal/schema"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIVersion = "v59.0"
	// defaultBatchSize is the composite batch subrequest limit imposed by
	// the describe API.
	defaultBatchSize = 25
	userAgent        = "fauxforce/1.0"
)

// Client implements Transport against the org's REST describe API.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	batchSize  int
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIVersion overrides the REST API version (default v59.0).
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithBatchSize overrides the composite batch chunk size (default 25).
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a describe client for the org at baseURL, authenticating
// every request with the given bearer token.
func NewClient(baseURL, token string, logger *logging.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		apiVersion: defaultAPIVersion,
		batchSize:  defaultBatchSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs an authenticated HTTP request and returns the body.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	reqURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("describe request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, resp.StatusCode, errors.ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("describe request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, resp.StatusCode, nil
}

// ListAll returns a summary for every schema object in the org.
func (c *Client) ListAll(ctx context.Context) ([]schema.ObjectSummary, error) {
	path := fmt.Sprintf("/services/data/%s/sobjects", c.apiVersion)

	body, status, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.NewDescribeError("global listing failed", err).
			WithOperation("list").
			WithStatusCode(status)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("listing parse error", "error", err, "bodyLen", len(body))
		return nil, errors.NewDescribeError("parsing global listing", errors.ErrMalformedResponse).
			WithOperation("list")
	}

	c.logger.Debug("listed schema objects", "count", len(resp.SObjects))
	return mapSummaries(resp.SObjects), nil
}

// FetchDefinitions returns full definitions for the named objects, in
// request order. Names are chunked into composite batch calls transparently.
func (c *Client) FetchDefinitions(ctx context.Context, names []string) ([]schema.ObjectDefinition, error) {
	defs := make([]schema.ObjectDefinition, 0, len(names))

	for start := 0; start < len(names); start += c.batchSize {
		end := min(start+c.batchSize, len(names))
		chunk, err := c.fetchChunk(ctx, names[start:end])
		if err != nil {
			return nil, err
		}
		defs = append(defs, chunk...)
	}

	return defs, nil
}

// fetchChunk issues one composite batch call for up to batchSize names.
func (c *Client) fetchChunk(ctx context.Context, names []string) ([]schema.ObjectDefinition, error) {
	reqBody := batchRequest{
		BatchRequests: make([]batchSubrequest, len(names)),
	}
	for i, name := range names {
		reqBody.BatchRequests[i] = batchSubrequest{
			Method: http.MethodGet,
			URL:    fmt.Sprintf("%s/sobjects/%s/describe", c.apiVersion, name),
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.NewDescribeError("encoding batch request", err).WithOperation("batch")
	}

	path := fmt.Sprintf("/services/data/%s/composite/batch", c.apiVersion)
	body, status, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, errors.NewDescribeError("batch describe failed", err).
			WithOperation("batch").
			WithStatusCode(status)
	}

	var resp batchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("batch parse error", "error", err, "bodyLen", len(body))
		return nil, errors.NewDescribeError("parsing batch response", errors.ErrMalformedResponse).
			WithOperation("batch")
	}

	if len(resp.Results) != len(names) {
		return nil, errors.NewDescribeError(
			fmt.Sprintf("batch returned %d results for %d requests", len(resp.Results), len(names)),
			errors.ErrMalformedResponse).WithOperation("batch")
	}

	defs := make([]schema.ObjectDefinition, 0, len(names))
	for i, result := range resp.Results {
		if result.StatusCode != http.StatusOK {
			return nil, errors.NewDescribeError(
				fmt.Sprintf("describe of %s failed", names[i]), errors.ErrDescribeFailed).
				WithOperation("batch").
				WithStatusCode(result.StatusCode)
		}
		defs = append(defs, mapDefinition(result.Result))
	}

	return defs, nil
}
