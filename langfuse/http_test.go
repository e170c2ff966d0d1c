package langfuse

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(HealthStatus{Status: "OK"})
	}))
	defer server.Close()

	client, err := New("pk-lf-test", "sk-lf-test", WithHost(server.URL))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Shutdown(context.Background())

	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("pk-lf-test:sk-lf-test"))
	if gotAuth != want {
		t.Errorf("Expected auth header %q, got %q", want, gotAuth)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(HealthStatus{Status: "OK"})
	}))
	defer server.Close()

	client, err := New("pk-lf-test", "sk-lf-test",
		WithHost(server.URL),
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Shutdown(context.Background())

	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Expected retries to recover, got %v", err)
	}
	if health.Status != "OK" {
		t.Errorf("Expected status OK, got %s", health.Status)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad request"})
	}))
	defer server.Close()

	client, err := New("pk-lf-test", "sk-lf-test",
		WithHost(server.URL),
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Shutdown(context.Background())

	_, err = client.Health(context.Background())
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected exactly 1 attempt for a 400, got %d", got)
	}
}

func TestPaginationParamsToQuery(t *testing.T) {
	p := PaginationParams{Page: 2, Limit: 25}
	q := p.ToQuery()
	if q.Get("page") != "2" || q.Get("limit") != "25" {
		t.Errorf("Unexpected query: %v", q)
	}

	empty := PaginationParams{}
	if len(empty.ToQuery()) != 0 {
		t.Errorf("Expected empty query for zero params, got %v", empty.ToQuery())
	}
}

func TestMetaResponseHasMore(t *testing.T) {
	if (&MetaResponse{Page: 1, TotalPages: 2}).HasMore() != true {
		t.Error("Expected HasMore true on first of two pages")
	}
	if (&MetaResponse{Page: 2, TotalPages: 2}).HasMore() != false {
		t.Error("Expected HasMore false on last page")
	}
}

func TestFilterParamsToQuery(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := FilterParams{
		Name:          "ollama-traces",
		SessionID:     "session-1",
		Tags:          []string{"a", "b"},
		FromTimestamp: from,
	}
	q := f.ToQuery()
	if q.Get("name") != "ollama-traces" {
		t.Errorf("name not set: %v", q)
	}
	if q.Get("sessionId") != "session-1" {
		t.Errorf("sessionId not set: %v", q)
	}
	if got := q["tags"]; len(got) != 2 {
		t.Errorf("Expected 2 tags, got %v", got)
	}
	if q.Get("fromTimestamp") == "" {
		t.Errorf("fromTimestamp not set: %v", q)
	}
}
