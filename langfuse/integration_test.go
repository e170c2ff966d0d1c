package langfuse_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/langfusetest"
)

func TestIngestTraceAndFlush(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	ctx := context.Background()

	traceID, err := client.IngestTrace(ctx, &langfuse.TraceEvent{
		Name:      "ollama-traces",
		SessionID: "session-1",
		Input:     "What is 12 * 15?",
		Output:    "180",
	})
	if err != nil {
		t.Fatalf("IngestTrace failed: %v", err)
	}
	if traceID == "" {
		t.Fatal("Expected generated trace ID")
	}

	if _, err := client.IngestGeneration(ctx, &langfuse.ObservationEvent{
		TraceID: traceID,
		Name:    "chat",
		Model:   "llama3.1:8b",
		Usage:   &langfuse.Usage{Input: 20, Output: 2, Total: 22},
	}); err != nil {
		t.Fatalf("IngestGeneration failed: %v", err)
	}

	// Nothing is sent until flush.
	if got := server.TraceCount(); got != 0 {
		t.Fatalf("Expected 0 traces before flush, got %d", got)
	}

	if err := client.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if got := server.TraceCount(); got != 1 {
		t.Fatalf("Expected 1 trace after flush, got %d", got)
	}
	trace, ok := server.Trace(traceID)
	if !ok {
		t.Fatalf("Trace %s not stored", traceID)
	}
	if trace.SessionID != "session-1" {
		t.Errorf("Expected session-1, got %s", trace.SessionID)
	}
}

func TestBatchSizeTriggersSend(t *testing.T) {
	client, server := langfusetest.NewTestClient(t, langfuse.WithBatchSize(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.IngestTrace(ctx, &langfuse.TraceEvent{
			Name: fmt.Sprintf("trace-%d", i),
		}); err != nil {
			t.Fatalf("IngestTrace failed: %v", err)
		}
	}

	// The third event fills the batch and triggers an async send.
	deadline := time.Now().Add(2 * time.Second)
	for server.TraceCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := server.TraceCount(); got != 3 {
		t.Fatalf("Expected 3 traces after batch fill, got %d", got)
	}
}

func TestShutdownDrainsPendingEvents(t *testing.T) {
	server := langfusetest.NewServer()
	defer server.Close()

	client, err := server.Client(
		langfuse.WithBatchSize(1000),
		langfuse.WithFlushInterval(time.Hour))
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.IngestTrace(ctx, &langfuse.TraceEvent{Name: "pending"}); err != nil {
		t.Fatalf("IngestTrace failed: %v", err)
	}

	if err := client.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if got := server.TraceCount(); got != 1 {
		t.Fatalf("Expected pending trace drained on shutdown, got %d traces", got)
	}

	// Events after shutdown are rejected.
	if _, err := client.IngestTrace(ctx, &langfuse.TraceEvent{Name: "late"}); err == nil {
		t.Fatal("Expected error ingesting after shutdown")
	}
}

func TestTracesListAllWalksPages(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	for i := 0; i < 7; i++ {
		server.AddTrace(langfuse.Trace{
			ID:        fmt.Sprintf("trace-%d", i),
			Name:      "seeded",
			SessionID: "session-1",
		})
	}

	traces, err := client.Traces().ListAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(traces) != 7 {
		t.Fatalf("Expected 7 traces, got %d", len(traces))
	}
}

func TestTracesDeleteMany(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	for i := 0; i < 3; i++ {
		server.AddTrace(langfuse.Trace{ID: fmt.Sprintf("trace-%d", i)})
	}

	ids := []string{"trace-0", "trace-1", "trace-2"}
	if err := client.Traces().DeleteMany(context.Background(), ids); err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}

	if got := server.TraceCount(); got != 0 {
		t.Fatalf("Expected all traces deleted, got %d", got)
	}

	// The bulk delete must carry the IDs in the request body.
	requests := server.RequestsWithPath("/api/public/traces")
	var deleteReq *langfusetest.RecordedRequest
	for _, req := range requests {
		if req.Method == "DELETE" {
			deleteReq = req
		}
	}
	if deleteReq == nil {
		t.Fatal("Expected a DELETE /traces request")
	}
	var body struct {
		TraceIDs []string `json:"traceIds"`
	}
	if err := json.Unmarshal(deleteReq.Body, &body); err != nil {
		t.Fatalf("Failed to parse delete body: %v", err)
	}
	if len(body.TraceIDs) != 3 {
		t.Errorf("Expected 3 trace IDs in body, got %v", body.TraceIDs)
	}
}

func TestDeleteManyEmptyIsNoop(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	if err := client.Traces().DeleteMany(context.Background(), nil); err != nil {
		t.Fatalf("DeleteMany(nil) failed: %v", err)
	}
	if got := server.RequestCount(); got != 0 {
		t.Errorf("Expected no requests for empty delete, got %d", got)
	}
}

func TestScoresPreferV2Endpoint(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	server.AddScore(langfuse.Score{ID: "score-1", TraceID: "trace-1", Name: "accuracy", Value: 1.0})

	scores, err := client.Scores().ListAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score, got %d", len(scores))
	}
	if len(server.RequestsWithPath("/api/public/v2/scores")) == 0 {
		t.Error("Expected the v2 scores endpoint to be used")
	}
}

func TestScoresFallBackToV1(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	server.DisableScoresV2 = true

	server.AddScore(langfuse.Score{ID: "score-1", TraceID: "trace-1", Name: "accuracy", Value: 0.5})

	scores, err := client.Scores().ListAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score via v1 fallback, got %d", len(scores))
	}
	if len(server.RequestsWithPath("/api/public/scores")) == 0 {
		t.Error("Expected the v1 scores endpoint to be used")
	}
}

func TestScoreCreateAndDelete(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	ctx := context.Background()

	score, err := client.Scores().Create(ctx, &langfuse.CreateScoreRequest{
		TraceID:  "trace-1",
		Name:     "automated_exact_match",
		Value:    1.0,
		DataType: langfuse.ScoreDataTypeNumeric,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if score.ID == "" {
		t.Fatal("Expected server-assigned score ID")
	}
	if got := server.ScoreCount(); got != 1 {
		t.Fatalf("Expected 1 score, got %d", got)
	}

	if err := client.Scores().Delete(ctx, score.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := server.ScoreCount(); got != 0 {
		t.Fatalf("Expected score deleted, got %d", got)
	}
}

func TestScoreCreateValidation(t *testing.T) {
	client, _ := langfusetest.NewTestClient(t)
	ctx := context.Background()

	if _, err := client.Scores().Create(ctx, &langfuse.CreateScoreRequest{Name: "x", Value: 1}); err == nil {
		t.Error("Expected validation error for missing traceId")
	}
	if _, err := client.Scores().Create(ctx, &langfuse.CreateScoreRequest{TraceID: "t", Value: 1}); err == nil {
		t.Error("Expected validation error for missing name")
	}
}

func TestObservationsListByTrace(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	server.AddObservation(langfuse.Observation{ID: "obs-1", TraceID: "trace-1", Type: langfuse.ObservationTypeGeneration})
	server.AddObservation(langfuse.Observation{ID: "obs-2", TraceID: "trace-2", Type: langfuse.ObservationTypeSpan})

	observations, err := client.Observations().ListByTrace(context.Background(), "trace-1")
	if err != nil {
		t.Fatalf("ListByTrace failed: %v", err)
	}
	if len(observations) != 1 || observations[0].ID != "obs-1" {
		t.Fatalf("Expected only obs-1, got %+v", observations)
	}
}

func TestSessionsDerivedFromTraces(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)

	server.AddTrace(langfuse.Trace{ID: "trace-1", SessionID: "session-a"})
	server.AddTrace(langfuse.Trace{ID: "trace-2", SessionID: "session-a"})

	session, err := client.Sessions().Get(context.Background(), "session-a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(session.Traces) != 2 {
		t.Errorf("Expected 2 traces in session, got %d", len(session.Traces))
	}
}
