package ambiclimate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Ambi Climate API base URL.
	DefaultBaseURL = "https://api.ambiclimate.com/api/v1/"

	// DefaultTimeout is the default per-attempt HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is the default retry budget for timed-out requests.
	// A budget of 3 allows up to 4 attempts in total.
	DefaultRetries = 3
)

// Result is the normalized outcome of a single API call.
//
// The Ambi Climate API reports command outcomes through a "status" field in
// the response body. When that field is present the call collapses to a
// boolean: OK is true only for status "ok". The raw status string is kept so
// callers can distinguish failure causes. When the field is absent, Body
// holds the full parsed response.
type Result struct {
	// OK reports whether the response carried status "ok".
	OK bool
	// Status is the raw status string, empty when the response had none.
	Status string
	// Body is the full parsed response body for responses without a status
	// field, nil otherwise.
	Body map[string]any
}

// Client is an Ambi Climate API client.
//
// All network-level failures (timeouts after the retry budget is spent,
// connection errors, unparsable bodies) are reported through the configured
// logger and collapse to nil results; they never surface as errors from the
// endpoint wrappers. This mirrors the vendor API contract where commands
// only distinguish "worked" from "did not".
type Client struct {
	baseURL     string
	token       string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	retries     int
	logger      *slog.Logger

	devicesMu sync.RWMutex
	devices   []deviceInfo
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
// A trailing slash is appended if missing.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" && u[len(u)-1] != '/' {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client. The client's Timeout bounds each
// individual attempt, not the whole retry chain.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the retry budget consumed by timed-out requests.
// A budget of n allows n+1 attempts in total. Negative values disable retry.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithTokenSource resolves the bearer token through an OAuth2 token source
// on every request instead of a static token. Intended for clients built
// through NewOAuthClient.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// NewClient creates a new Ambi Climate API client authenticating with a
// static bearer token. Returns ErrEmptyToken if token is empty.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	c := newClient(opts...)
	c.token = token
	return c, nil
}

// newClient builds a client with defaults applied, leaving authentication
// to the caller.
func newClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		retries: DefaultRetries,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// request performs a single API call against command, a path segment
// relative to the base URL. Query parameters are used for both GET and POST;
// the vendor API takes no request bodies.
//
// Timeouts consume the retry budget; retry is the number of additional
// attempts allowed after the first. Any other transport failure gives up
// immediately. Both cases log at error level and return nil.
func (c *Client) request(ctx context.Context, command string, params url.Values, retry int, useGet bool) *Result {
	method := http.MethodGet
	if !useGet {
		method = http.MethodPost
	}

	reqURL := c.baseURL + command
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	token, err := c.bearerToken()
	if err != nil {
		c.logError(ctx, "failed to resolve access token", command, err)
		return nil
	}

	for {
		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			c.logError(ctx, "failed to build request", command, err)
			return nil
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeout(err) && ctx.Err() == nil {
				if retry < 1 {
					c.logError(ctx, "timed out sending command", command, err)
					return nil
				}
				retry--
				continue
			}
			c.logError(ctx, "error sending command", command, err)
			return nil
		}

		result := c.parseResponse(ctx, command, resp)
		resp.Body.Close()
		return result
	}
}

// parseResponse normalizes a response body into a Result. HTTP status codes
// are not inspected: any body that parses as JSON is a valid result.
func (c *Client) parseResponse(ctx context.Context, command string, resp *http.Response) *Result {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(ctx, "failed to read response body", command, err)
		return nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logError(ctx, "failed to parse response body", command, err)
		return nil
	}

	if raw, ok := parsed["status"]; ok && raw != nil {
		status, _ := raw.(string)
		return &Result{OK: status == "ok", Status: status}
	}

	return &Result{Body: parsed}
}

// bearerToken returns the token for the next request, consulting the token
// source when one is configured.
func (c *Client) bearerToken() (string, error) {
	if c.tokenSource != nil {
		tok, err := c.tokenSource.Token()
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	}
	return c.token, nil
}

// logError reports a swallowed failure through the configured logger.
func (c *Client) logError(ctx context.Context, msg, command string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelError, msg,
		slog.String("command", command),
		slog.String("error", err.Error()),
	)
}

// isTimeout reports whether err is a timeout as opposed to some other
// transport failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
