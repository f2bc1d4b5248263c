package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RouteClient sends requests straight into a gin router, without a
// listening server. Paths may contain Vietnamese segments and spaces; they
// are escaped the way a browser would.
type RouteClient struct {
	router *gin.Engine
	t      *testing.T
	token  string
}

// NewRouteClient creates a client for router.
func NewRouteClient(t *testing.T, router *gin.Engine) *RouteClient {
	return &RouteClient{router: router, t: t}
}

// WithToken returns a copy that sends token as a bearer credential.
func (rc *RouteClient) WithToken(token string) *RouteClient {
	cp := *rc
	cp.token = token
	return &cp
}

// RequestOption adjusts an outgoing request.
type RequestOption func(r *http.Request)

// Query sets URL query parameters.
func Query(params map[string]string) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for key, value := range params {
			q.Set(key, value)
		}
		r.URL.RawQuery = q.Encode()
	}
}

// Header sets one request header.
func Header(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Do sends one request. body is JSON-encoded unless it is a string.
func (rc *RouteClient) Do(method, path string, body interface{}, opts ...RequestOption) *RouteResponse {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(rc.t, err, "marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, (&url.URL{Path: path}).EscapedPath(), reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rc.token != "" {
		req.Header.Set("Authorization", "Bearer "+rc.token)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	rc.router.ServeHTTP(rec, req)
	return newRouteResponse(rec)
}

// GET sends a GET request.
func (rc *RouteClient) GET(path string, opts ...RequestOption) *RouteResponse {
	return rc.Do(http.MethodGet, path, nil, opts...)
}

// POST sends a JSON POST request.
func (rc *RouteClient) POST(path string, body interface{}, opts ...RequestOption) *RouteResponse {
	return rc.Do(http.MethodPost, path, body, opts...)
}

// RouteResponse is a recorded response. Fields holds the top-level JSON
// object, or nil when the body is not one.
type RouteResponse struct {
	*httptest.ResponseRecorder
	Fields map[string]interface{}

	envelope struct {
		Success    *bool              `json:"success"`
		Message    string             `json:"message"`
		Error      string             `json:"error"`
		Data       json.RawMessage    `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
}

func newRouteResponse(rec *httptest.ResponseRecorder) *RouteResponse {
	resp := &RouteResponse{ResponseRecorder: rec}
	if json.Unmarshal(rec.Body.Bytes(), &resp.Fields) == nil {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp.envelope)
	}
	return resp
}

// AssertStatus checks the status code.
func (r *RouteResponse) AssertStatus(t *testing.T, code int) {
	t.Helper()
	assert.Equal(t, code, r.Code, "status code, body: %s", r.Body.String())
}

// AssertSuccess checks for a success envelope without an error.
func (r *RouteResponse) AssertSuccess(t *testing.T) {
	t.Helper()
	require.NotNil(t, r.envelope.Success, "expected an envelope, body: %s", r.Body.String())
	assert.True(t, *r.envelope.Success)
	assert.Empty(t, r.envelope.Error)
}

// AssertFailure checks for success:false with message, or with any message
// when message is empty.
func (r *RouteResponse) AssertFailure(t *testing.T, message string) {
	t.Helper()
	require.NotNil(t, r.envelope.Success, "expected an envelope, body: %s", r.Body.String())
	assert.False(t, *r.envelope.Success)
	if message == "" {
		assert.NotEmpty(t, r.envelope.Message)
		return
	}
	assert.Equal(t, message, r.envelope.Message)
}

// AssertPagination checks the pagination block.
func (r *RouteResponse) AssertPagination(t *testing.T, page, totalPages, total int) {
	t.Helper()
	p := r.envelope.Pagination
	require.NotNil(t, p, "expected pagination")
	assert.Equal(t, page, p.Page, "page")
	assert.Equal(t, totalPages, p.TotalPages, "totalPages")
	assert.Equal(t, total, p.Total, "total")
}

// DecodeData unmarshals the envelope's data field into v. A missing data
// field leaves v untouched.
func (r *RouteResponse) DecodeData(v interface{}) error {
	if len(r.envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.envelope.Data, v)
}
