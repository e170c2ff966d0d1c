// Command run-validate is an end-to-end integration check: it verifies
// Ollama and Langfuse are reachable, runs a short traced demo under a
// unique session, then polls the Langfuse API until the traces appear
// with recorded token usage. Exit code 0 means the pipeline works.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/ollama"
)

const (
	timeout       = 10 * time.Minute
	settleDelay   = 5 * time.Second
	pollRetries   = 5
	pollDelay     = 3 * time.Second
	traceName     = "ollama-traces"
	questionCount = 2
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n✅ Validation passed!")
}

func run() error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireLangfuse(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sessionID := cli.NewSessionID("validate")
	fmt.Println(cli.Banner("🎯 Ollama + Langfuse Integration Test"))
	fmt.Printf("🆔 Session ID: %s\n", sessionID)

	chat := ollama.New(ollama.Config{Host: cfg.OllamaHost, Model: cfg.OllamaModel})
	lf, err := langfuse.New(cfg.LangfusePublicKey, cfg.LangfuseSecretKey,
		langfuse.WithHost(cfg.LangfuseHost))
	if err != nil {
		return err
	}
	defer lf.Close(context.Background())

	if err := checkPrerequisites(ctx, chat, lf); err != nil {
		return err
	}
	if err := runDemo(ctx, chat, lf, sessionID); err != nil {
		return err
	}
	return validateTraces(ctx, lf, sessionID, cfg.OllamaModel)
}

func checkPrerequisites(ctx context.Context, chat *ollama.Client, lf *langfuse.Client) error {
	fmt.Println("\n🔧 Checking prerequisites...")

	health, err := lf.Health(ctx)
	if err != nil {
		return fmt.Errorf("Langfuse not reachable at %s: %w", lf.Host(), err)
	}
	fmt.Printf("   ✓ Langfuse is up (status %s)\n", health.Status)

	if err := chat.CheckModel(ctx); err != nil {
		return err
	}
	fmt.Printf("   ✓ Ollama is up with model %s\n", chat.Model())
	return nil
}

// runDemo sends a couple of questions and records each as a trace with
// one generation, then flushes the ingestion queue.
func runDemo(ctx context.Context, chat *ollama.Client, lf *langfuse.Client, sessionID string) error {
	fmt.Println("\n🚀 Running traced demo...")

	questions := []struct{ system, user string }{
		{"You are a helpful assistant.", "Who was the first person to step on the moon?"},
		{"You are a very accurate calculator. You output only the result of the calculation.", "What is 12 * 15?"},
	}

	for i, q := range questions {
		resp, err := chat.Chat(ctx, ollama.ChatRequest{System: q.system, User: q.user})
		if err != nil {
			return err
		}
		fmt.Printf("   [%d/%d] %s → %s\n", i+1, len(questions), q.user, cli.Truncate(resp.Content, 60))

		traceID, err := lf.IngestTrace(ctx, &langfuse.TraceEvent{
			Name:      traceName,
			SessionID: sessionID,
			Input:     q.user,
			Output:    resp.Content,
		})
		if err != nil {
			return err
		}
		if _, err := lf.IngestGeneration(ctx, &langfuse.ObservationEvent{
			TraceID: traceID,
			Name:    "chat",
			Model:   resp.Model,
			Input:   q.user,
			Output:  resp.Content,
			Usage: &langfuse.Usage{
				Input:  int(resp.Usage.PromptTokens),
				Output: int(resp.Usage.CompletionTokens),
				Total:  int(resp.Usage.TotalTokens),
			},
		}); err != nil {
			return err
		}
	}

	if err := lf.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}
	return nil
}

// validateTraces polls the API until the session's traces appear and
// verifies each one carries a generation with token usage.
func validateTraces(ctx context.Context, lf *langfuse.Client, sessionID, model string) error {
	fmt.Println("\n🔍 Validating traces...")
	fmt.Printf("⏳ Waiting %s for traces to be processed...\n", settleDelay)
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	var traces []langfuse.Trace
	var err error
	for attempt := 0; attempt < pollRetries; attempt++ {
		traces, err = lf.Traces().ListAll(ctx, &langfuse.FilterParams{SessionID: sessionID})
		if err == nil && len(traces) >= questionCount {
			break
		}
		if attempt < pollRetries-1 {
			fmt.Println("   ⏳ Traces not visible yet, retrying...")
			select {
			case <-time.After(pollDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to list traces: %w", err)
	}
	if len(traces) < questionCount {
		return fmt.Errorf("expected %d traces for session %s, found %d", questionCount, sessionID, len(traces))
	}
	fmt.Printf("   ✓ Found %d traces for this run\n", len(traces))

	for _, trace := range traces {
		if trace.Name != traceName {
			return fmt.Errorf("trace %s has unexpected name %q", trace.ID, trace.Name)
		}
		observations, err := lf.Observations().ListByTrace(ctx, trace.ID)
		if err != nil {
			return fmt.Errorf("failed to list observations for %s: %w", trace.ID, err)
		}
		if len(observations) == 0 {
			return fmt.Errorf("trace %s has no observations", trace.ID)
		}
		obs := observations[0]
		if obs.Usage == nil || obs.Usage.Total == 0 {
			return fmt.Errorf("trace %s has no recorded token usage", trace.ID)
		}
		fmt.Printf("   ✓ Trace %s: model=%s tokens=%d\n", trace.ID, obs.Model, obs.Usage.Total)
	}
	return nil
}
