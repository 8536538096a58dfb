// Package stt is a client for the AssemblyAI v2 transcription API: chunked
// upload, job submission, status polling, format export and realtime
// sessions.
package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL     = "https://api.assemblyai.com/v2"
	DefaultRealtimeURL = "wss://api.assemblyai.com/v2/realtime/ws"

	DefaultChunkSize    = 5 * 1024 * 1024
	DefaultChunkTimeout = 120 * time.Second
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 60

	defaultHTTPTimeout = 5 * time.Minute
	maxErrorBody       = 64 * 1024
)

// APIKeySetting names the credential in configuration errors.
const APIKeySetting = "ASSEMBLYAI_API_KEY"

// Client talks to the provider. All methods are safe for concurrent use.
type Client struct {
	apiKey       string
	baseURL      string
	realtimeURL  string
	webhookURL   string
	httpClient   *http.Client
	chunkSize    int
	chunkTimeout time.Duration
	pollInterval time.Duration
	maxAttempts  int
}

type Option func(*Client)

// WithBaseURL overrides the REST API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithRealtimeURL overrides the realtime WebSocket endpoint.
func WithRealtimeURL(realtimeURL string) Option {
	return func(c *Client) {
		if realtimeURL = strings.TrimSpace(realtimeURL); realtimeURL != "" {
			c.realtimeURL = realtimeURL
		}
	}
}

// WithWebhookURL makes every submitted job notify webhookURL on completion.
func WithWebhookURL(webhookURL string) Option {
	return func(c *Client) {
		c.webhookURL = strings.TrimSpace(webhookURL)
	}
}

// WithHTTPClient sets the HTTP client used for REST calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithChunkSize sets the maximum upload chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkTimeout sets the per-chunk upload timeout.
func WithChunkTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.chunkTimeout = timeout
		}
	}
}

// WithPollInterval sets the wait between two status checks.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithMaxAttempts caps the number of status checks per poll.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// NewClient builds a client for apiKey. A missing key is reported here as a
// *ConfigurationError and again by every method of a client built anyway.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      DefaultBaseURL,
		realtimeURL:  DefaultRealtimeURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		chunkSize:    DefaultChunkSize,
		chunkTimeout: DefaultChunkTimeout,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Client) validate() error {
	if c == nil || c.apiKey == "" {
		return &ConfigurationError{Setting: APIKeySetting}
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigurationError{Setting: "base URL", Reason: "must be an absolute URL, got " + c.baseURL}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s request", method, path)
	}
	req.Header.Set("Authorization", c.apiKey)
	return req, nil
}

// do sends req and returns the response when it is 2xx. Non-OK responses are
// drained into a ResponseError.
func (c *Client) do(req *http.Request) (*http.Response, *ResponseError, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &ResponseError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}, nil
}

func decodeJSON(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
