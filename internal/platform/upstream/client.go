// Package upstream issues HTTP calls to an OpenEMR instance's OAuth and
// FHIR/standard API endpoints and normalizes transport-level and
// HTTP-status-level failures into a single error shape.
package upstream

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Error carries a non-2xx upstream response: the original status code and
// the parsed response body. Both are relayed to the gateway's caller
// unchanged.
type Error struct {
	StatusCode int
	Body       interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-call timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// WithInsecureTLS disables certificate verification. OpenEMR demo instances
// commonly run with self-signed certificates.
func WithInsecureTLS() Option {
	return func(cl *Client) {
		cl.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// Client issues requests against one OpenEMR instance.
type Client struct {
	apiBase    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Client rooted at apiBase (e.g.
// https://emr.example.org/apis/default) with a 30-second call timeout.
func NewClient(apiBase string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const defaultTimeout = 30 * time.Second

type callConfig struct {
	token   string
	query   url.Values
	body    interface{}
	hasBody bool
}

// CallOption configures a single Call.
type CallOption func(*callConfig)

// WithToken attaches a bearer token to the outgoing request.
func WithToken(token string) CallOption {
	return func(cfg *callConfig) { cfg.token = token }
}

// WithQuery attaches query parameters to the outgoing request.
func WithQuery(q url.Values) CallOption {
	return func(cfg *callConfig) { cfg.query = q }
}

// WithJSONBody attaches a JSON-encoded request body.
func WithJSONBody(v interface{}) CallOption {
	return func(cfg *callConfig) { cfg.body = v; cfg.hasBody = true }
}

// Call performs one request against the API base and decodes the JSON
// response. Non-2xx responses come back as *Error carrying the upstream
// status and body; transport failures come back as plain errors. A 2xx
// response with no body yields an empty object.
//
// The request deliberately does not inherit cancellation from ctx: an early
// disconnect by the gateway's caller must not abort the upstream call, which
// runs to completion or to the client timeout.
func (c *Client) Call(ctx context.Context, method, path string, opts ...CallOption) (map[string]interface{}, error) {
	cfg := callConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	u := c.apiBase + path
	if len(cfg.query) > 0 {
		u += "?" + cfg.query.Encode()
	}

	var bodyReader io.Reader
	if cfg.hasBody {
		raw, err := json.Marshal(cfg.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if cfg.token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.token)
	}
	req.Header.Set("Accept", "application/fhir+json")
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// PostForm submits a form-encoded POST to an absolute URL. OAuth 2.0 token
// endpoints require application/x-www-form-urlencoded bodies.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// PostJSON submits a JSON POST to an absolute URL.
func (c *Client) PostJSON(ctx context.Context, rawURL string, v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, rawURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", req.URL.String()).Msg("upstream request failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body interface{}
		if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
			body = map[string]interface{}{"error": resp.Status}
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", req.URL.String()).Msg("upstream error response")
		return nil, &Error{StatusCode: resp.StatusCode, Body: body}
	}

	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return out, nil
}
