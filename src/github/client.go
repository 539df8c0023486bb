package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"
	userAgent    = "flywheel"
)

// ClientConfig carries everything the API adapter needs. The credential
// and base URL are threaded in explicitly; the client never reads the
// environment itself.
type ClientConfig struct {
	// Token authenticates every request. Required.
	Token string
	// BaseURL overrides the API endpoint, for GitHub Enterprise or tests.
	// Defaults to the public API.
	BaseURL string
	// Timeout bounds each request from dispatch to the end of the
	// response body. Defaults to 30 seconds.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport.
	HTTPClient *http.Client
}

// Client talks to the GitHub Actions REST API. All methods validate their
// inputs before touching the network and return *APIError for any
// classified failure.
type Client struct {
	token      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a client from the given configuration, applying
// defaults for anything unset.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// do executes one API round trip: marshal the optional request body, set
// the standard headers, run the request under the bounded timeout, and
// classify anything that is not a 2xx. A 2xx with an empty body returns
// (nil, nil); a 2xx with content returns the raw bytes for the response
// schema layer to check.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("github: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err, c.timeout)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err, c.timeout)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, resp.Header, data)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// getJSON runs a GET and decodes the response through the endpoint's
// schema.
func (c *Client) getJSON(ctx context.Context, path string, schema *objectSchema, target any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if data == nil {
		return &APIError{
			Kind:    KindValidation,
			Message: schema.name + ": empty response body",
		}
	}
	return decodeResponse(data, schema, target)
}

// postEmpty runs a POST whose success response carries no body.
func (c *Client) postEmpty(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPost, path, body)
	return err
}
