package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer credential for a request. An empty token
// with a nil error means the user is not logged in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client is the storefront's outbound JSON client. It makes exactly one
// attempt per call and never interprets the response body; see Normalize.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	timeout        time.Duration
	tokens         TokenSource
	logger         *logging.Logger
}

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	BaseURL    string            `json:"base_url"`
	Timeout    time.Duration     `json:"timeout"`
	Headers    map[string]string `json:"headers"`
	Tokens     TokenSource       `json:"-"`
	Logger     *logging.Logger   `json:"-"`
	HTTPClient *http.Client      `json:"-"`
}

// DefaultClientConfig returns default HTTP client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
		Logger:  logging.GetDefault(),
	}
}

// NewClient creates a new storefront HTTP client
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	// Merge with defaults for missing fields
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logging.GetDefault()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	defaultHeaders := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "tiembanhngot-storefront/1.0",
	}
	for key, value := range config.Headers {
		defaultHeaders[key] = value
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimSuffix(config.BaseURL, "/"),
		defaultHeaders: defaultHeaders,
		timeout:        config.Timeout,
		tokens:         config.Tokens,
		logger:         config.Logger,
	}
}

// SetHeader sets a default header for all requests
func (c *Client) SetHeader(key, value string) {
	c.defaultHeaders[key] = value
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasToken reports whether the token source currently holds a credential.
// Storage failures count as no credential.
func (c *Client) HasToken(ctx context.Context) bool {
	return c.token(ctx) != ""
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.WithField("error", err.Error()).Warn(ctx, "Failed to read auth token, sending request without it")
		return ""
	}
	return token
}

// QueryParam is one key/value pair of a query string. Order is preserved.
type QueryParam struct {
	Key   string
	Value string
}

// Request represents an HTTP request
type Request struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Body    interface{}       `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   []QueryParam      `json:"query,omitempty"`
}

// Response represents an HTTP response
type Response struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
}

// Do executes a single HTTP request. A non-nil error means no response was
// received; it is always an *errors.AppError with code ErrCodeNetwork, or
// ErrCodeValidation when the body could not be encoded.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	requestURL := c.BuildURL(req.Path, req.Query)

	ctx, requestID := logging.EnsureRequestID(ctx)

	startTime := time.Now()
	c.logger.WithFields(map[string]interface{}{
		"method":   req.Method,
		"url":      requestURL,
		"has_body": req.Body != nil,
	}).Debug(ctx, "Starting HTTP request")

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "Failed to marshal request body").WithDetails(err.Error())
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, requestURL, bodyReader)
	if err != nil {
		return nil, NetworkFailure(err)
	}

	for key, value := range c.defaultHeaders {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set(RequestIDHeader, requestID)
	if token := c.token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		duration := time.Since(startTime)
		c.logger.WithFields(map[string]interface{}{
			"method":      req.Method,
			"url":         requestURL,
			"duration_ms": float64(duration.Nanoseconds()) / 1e6,
		}).Error(ctx, "HTTP request execution failed", err)

		return nil, NetworkFailure(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NetworkFailure(err)
	}

	duration := time.Since(startTime)
	c.logger.WithFields(map[string]interface{}{
		"method":        req.Method,
		"url":           requestURL,
		"status_code":   httpResp.StatusCode,
		"duration_ms":   float64(duration.Nanoseconds()) / 1e6,
		"response_size": len(body),
	}).Debug(ctx, "HTTP request completed")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// BuildURL joins the base URL, the escaped path and the query string.
func (c *Client) BuildURL(path string, query []QueryParam) string {
	u := c.baseURL + EscapePath(path)
	if len(query) > 0 {
		u += "?" + EncodeQuery(query)
	}
	return u
}

// EscapePath percent-encodes a path the way a browser does, keeping slashes.
func EscapePath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}

// EncodeQuery encodes params in order, with spaces as %20 rather than +.
func EncodeQuery(params []QueryParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, escapeComponent(p.Key)+"="+escapeComponent(p.Value))
	}
	return strings.Join(parts, "&")
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Convenience methods for common HTTP operations

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
	})
}

// GetWithQuery performs a GET request with query parameters
func (c *Client) GetWithQuery(ctx context.Context, path string, query []QueryParam) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}
