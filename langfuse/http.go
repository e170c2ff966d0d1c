package langfuse

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// httpClient handles HTTP requests to the Langfuse API.
type httpClient struct {
	client     *http.Client
	baseURL    string
	authHeader string
	maxRetries int
	retryDelay time.Duration
	debug      bool
	logger     StructuredLogger
}

// newHTTPClient creates a new HTTP client. The base URL is the configured
// host plus the public API prefix; Basic Auth credentials are precomputed.
func newHTTPClient(cfg *Config) *httpClient {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	logger := cfg.StructuredLogger
	if logger == nil && cfg.Logger != nil {
		logger = WrapPrintfLogger(cfg.Logger)
	}
	return &httpClient{
		client:     cfg.HTTPClient,
		baseURL:    cfg.Host + apiPrefix,
		authHeader: "Basic " + auth,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		debug:      cfg.Debug,
		logger:     logger,
	}
}

// request represents an HTTP request to be made.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	result any
}

// do executes an HTTP request, retrying retryable failures with
// exponential backoff. Non-retryable API errors abort immediately.
func (h *httpClient) do(ctx context.Context, req *request) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = h.retryDelay

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := h.doOnce(ctx, req)
		if err == nil {
			return struct{}{}, nil
		}
		if !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		if h.debug && h.logger != nil {
			h.logger.Debug("retrying request",
				"method", req.method, "path", req.path, "error", err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(h.maxRetries+1)),
	)
	return err
}

// doOnce executes a single HTTP request.
func (h *httpClient) doOnce(ctx context.Context, req *request) error {
	u := h.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		bodyBytes, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("langfuse: failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("langfuse: failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", h.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	if h.debug && h.logger != nil {
		h.logger.Debug("request", "method", req.method, "url", u)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("langfuse: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("langfuse: failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(respBody) > 0 {
			json.Unmarshal(respBody, apiErr)
		}
		return apiErr
	}

	if req.result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, req.result); err != nil {
			return fmt.Errorf("langfuse: failed to unmarshal response: %w", err)
		}
	}

	return nil
}

const userAgent = "langfuse-samples-go/1.0.0"

// get performs a GET request.
func (h *httpClient) get(ctx context.Context, path string, query url.Values, result any) error {
	return h.do(ctx, &request{
		method: http.MethodGet,
		path:   path,
		query:  query,
		result: result,
	})
}

// post performs a POST request.
func (h *httpClient) post(ctx context.Context, path string, body any, result any) error {
	return h.do(ctx, &request{
		method: http.MethodPost,
		path:   path,
		body:   body,
		result: result,
	})
}

// delete performs a DELETE request.
func (h *httpClient) delete(ctx context.Context, path string, result any) error {
	return h.do(ctx, &request{
		method: http.MethodDelete,
		path:   path,
		result: result,
	})
}

// deleteWithBody performs a DELETE request with a JSON body. The bulk trace
// deletion endpoint takes the trace IDs in the request body.
func (h *httpClient) deleteWithBody(ctx context.Context, path string, body any, result any) error {
	return h.do(ctx, &request{
		method: http.MethodDelete,
		path:   path,
		body:   body,
		result: result,
	})
}

// Pagination helpers

// PaginationParams represents pagination parameters for list requests.
// Pages are 1-based.
type PaginationParams struct {
	Page  int
	Limit int
}

// ToQuery converts pagination parameters to URL query values.
func (p *PaginationParams) ToQuery() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// MetaResponse represents pagination metadata returned by list endpoints.
type MetaResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// HasMore returns true if there are more pages after the current one.
func (m *MetaResponse) HasMore() bool {
	return m.Page < m.TotalPages
}

// FilterParams represents common filter parameters for list requests.
type FilterParams struct {
	Name          string
	UserID        string
	Type          string
	TraceID       string
	SessionID     string
	Environment   string
	FromTimestamp time.Time
	ToTimestamp   time.Time
	Tags          []string
	OrderBy       string
}

// ToQuery converts filter parameters to URL query values.
func (f *FilterParams) ToQuery() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.TraceID != "" {
		q.Set("traceId", f.TraceID)
	}
	if f.SessionID != "" {
		q.Set("sessionId", f.SessionID)
	}
	if f.Environment != "" {
		q.Set("environment", f.Environment)
	}
	if !f.FromTimestamp.IsZero() {
		q.Set("fromTimestamp", f.FromTimestamp.Format(time.RFC3339))
	}
	if !f.ToTimestamp.IsZero() {
		q.Set("toTimestamp", f.ToTimestamp.Format(time.RFC3339))
	}
	for _, tag := range f.Tags {
		q.Add("tags", tag)
	}
	if f.OrderBy != "" {
		q.Set("orderBy", f.OrderBy)
	}
	return q
}

// mergeQuery merges multiple url.Values into one.
func mergeQuery(queries ...url.Values) url.Values {
	result := url.Values{}
	for _, q := range queries {
		for k, vals := range q {
			for _, v := range vals {
				result.Add(k, v)
			}
		}
	}
	return result
}
