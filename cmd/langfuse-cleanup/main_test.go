package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/langfusetest"
)

func TestDeleteAllTracesAbortsOnFailedBatch(t *testing.T) {
	server := langfusetest.NewServer()
	defer server.Close()

	client, err := server.Client()
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	defer client.Close(context.Background())

	// Three batches worth of traces; the second batch delete fails.
	traces := make([]langfuse.Trace, deleteBatchSize*2+10)
	for i := range traces {
		traces[i] = langfuse.Trace{ID: fmt.Sprintf("trace-%d", i)}
	}

	var deletes atomic.Int32
	server.ResponseFunc = func(r *http.Request) (int, any) {
		if r.Method == "DELETE" && r.URL.Path == "/api/public/traces" {
			if deletes.Add(1) == 2 {
				return http.StatusInternalServerError, map[string]string{"message": "server error"}
			}
		}
		return http.StatusOK, map[string]string{"message": "ok"}
	}

	err = deleteAllTraces(context.Background(), client, traces)
	if err == nil {
		t.Fatal("Expected error from failed batch delete")
	}
	if !strings.Contains(err.Error(), fmt.Sprintf("after %d traces", deleteBatchSize)) {
		t.Errorf("Expected error to name deleted count, got %v", err)
	}

	// The third batch is never attempted.
	if got := len(server.RequestsWithPath("/api/public/traces")); got != 2 {
		t.Errorf("Expected 2 batch delete requests, got %d", got)
	}
}

func TestDeleteAllScoresSkipsFailures(t *testing.T) {
	server := langfusetest.NewServer()
	defer server.Close()

	client, err := server.Client()
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	defer client.Close(context.Background())

	// score-2 is not on the server, so its delete fails with 404.
	server.AddScore(langfuse.Score{ID: "score-1", TraceID: "trace-1", Name: "accuracy"})
	server.AddScore(langfuse.Score{ID: "score-3", TraceID: "trace-3", Name: "accuracy"})

	scores := []langfuse.Score{{ID: "score-1"}, {ID: "score-2"}, {ID: "score-3"}}
	deleteAllScores(context.Background(), client, scores)

	// The failure is skipped and the remaining scores still go through.
	if got := server.ScoreCount(); got != 0 {
		t.Errorf("Expected all stored scores deleted, got %d remaining", got)
	}

	attempts := 0
	for _, req := range server.Requests() {
		if req.Method == "DELETE" && strings.HasPrefix(req.Path, "/api/public/scores/") {
			attempts++
		}
	}
	if attempts != 3 {
		t.Errorf("Expected 3 delete attempts, got %d", attempts)
	}
}
