package langfuse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// TestMain runs goleak verification for all tests in the package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("testing.(*T).Run"),
		goleak.IgnoreTopFunction("net/http.(*http2ClientConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// TestShutdownStopsFlushLoop verifies the background flush goroutine and
// any in-flight batch senders exit on shutdown.
func TestShutdownStopsFlushLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(IngestionResult{
			Successes: []IngestionSuccess{{ID: "1", Status: 201}},
		})
	}))
	defer server.Close()

	client, err := New("pk-lf-test", "sk-lf-test",
		WithHost(server.URL),
		WithBatchSize(2),
		WithFlushInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := client.IngestTrace(ctx, &TraceEvent{Name: "leak-check"}); err != nil {
			t.Fatalf("IngestTrace failed: %v", err)
		}
	}

	if err := client.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if err := client.Shutdown(ctx); err != ErrClientClosed {
		t.Fatalf("Expected ErrClientClosed on repeated shutdown, got %v", err)
	}
}
