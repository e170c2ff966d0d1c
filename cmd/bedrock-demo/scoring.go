package main

import (
	"context"
	"fmt"
	"time"

	"github.com/retroryan/langfuse-samples/bedrock"
	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/scoring"
	"github.com/retroryan/langfuse-samples/telemetry"
)

const (
	traceFindRetries = 5
	traceFindDelay   = 2 * time.Second
)

// scoring runs the test cases through the Bedrock agent, waits for each
// trace to land in Langfuse, then attaches scores via the REST API.
func (d *bedrockDemo) scoring(ctx context.Context, sessionID string) error {
	fmt.Println("\n🎯 Starting Bedrock + Langfuse Scoring Demo")
	fmt.Printf("📊 Session ID: %s\n", sessionID)

	lf, err := langfuse.New(d.cfg.LangfusePublicKey, d.cfg.LangfuseSecretKey,
		langfuse.WithHost(d.cfg.LangfuseHost))
	if err != nil {
		return err
	}
	defer lf.Close(context.Background())

	agent := bedrock.NewAgent(d.model, d.tracer,
		bedrock.WithSessionID(sessionID),
		bedrock.WithUserID("scoring-demo"),
		bedrock.WithTags("bedrock-demo", "scoring", "run-"+d.runID))

	cases := scoring.DefaultTestCases
	results := make([]scoring.TestResult, 0, len(cases))
	traceIDs := make([]string, 0, len(cases))

	for i, tc := range cases {
		fmt.Printf("\n🧪 Test %d/%d: %s\n", i+1, len(cases), tc.Name)
		fmt.Printf("📝 Category: %s\n", tc.Category)
		fmt.Printf("❓ Question: %s\n", tc.User)
		fmt.Printf("🎯 Expected: %s\n", tc.ExpectedAnswer)

		traceID := scoring.TraceID(sessionID, tc.Name)
		traceIDs = append(traceIDs, traceID)

		// Pin the OTEL trace ID so scores can target it directly.
		askCtx := telemetry.WithTraceID(ctx, traceID)
		result, err := agent.Ask(askCtx, "scoring-"+tc.Name, tc.System, tc.User)
		if err != nil {
			fmt.Printf("❌ Error: %v\n", err)
			results = append(results, scoring.TestResult{
				TestCase: tc.Name,
				Category: tc.Category,
				Question: tc.User,
				Expected: tc.ExpectedAnswer,
				Actual:   fmt.Sprintf("ERROR: %v", err),
				Method:   tc.Method,
				TraceID:  traceID,
			})
			continue
		}

		answer := result.Content
		fmt.Printf("🤖 Response: %s\n", cli.Truncate(answer, 150))

		evaluated := scoring.Evaluate(answer, tc)
		fmt.Printf("💯 Score: %.2f (%s)\n", evaluated.Score, scoring.GradeFor(evaluated.Score))
		fmt.Printf("💭 Reasoning: %s\n", evaluated.Reasoning)

		scoresSent := false
		if err := d.waitForTrace(ctx, lf, sessionID, traceID); err != nil {
			fmt.Printf("⚠️  Could not find trace for scoring: %v\n", err)
		} else {
			scoresSent = sendScores(ctx, lf, traceID, tc, evaluated)
		}

		results = append(results, scoring.TestResult{
			TestCase:   tc.Name,
			Category:   tc.Category,
			Question:   tc.User,
			Expected:   tc.ExpectedAnswer,
			Actual:     answer,
			Score:      evaluated.Score,
			Reasoning:  evaluated.Reasoning,
			Method:     tc.Method,
			TraceID:    traceID,
			ScoresSent: scoresSent,
		})
	}

	summary := scoring.Summarize(results)
	fmt.Println("\n" + cli.Banner("📊 SCORING SUMMARY"))
	fmt.Printf("Total tests:   %d\n", summary.TotalTests)
	fmt.Printf("Average score: %.2f\n", summary.AverageScore)
	fmt.Printf("✅ Passed: %d  ⚠️ Partial: %d  ❌ Failed: %d\n",
		summary.Passed, summary.Partial, summary.Failed)

	filename, err := scoring.SaveResults(sessionID, traceIDs, results)
	if err != nil {
		return err
	}
	fmt.Printf("\n💾 Results saved to %s\n", filename)
	return nil
}

// waitForTrace flushes telemetry and polls until the trace shows up in
// the Langfuse API, with a bounded number of retries. OTEL ingestion is
// asynchronous so the trace can lag the span export by a few seconds.
func (d *bedrockDemo) waitForTrace(ctx context.Context, lf *langfuse.Client, sessionID, traceID string) error {
	if err := d.tracer.ForceFlush(ctx); err != nil {
		return err
	}

	for attempt := 0; attempt < traceFindRetries; attempt++ {
		traces, err := lf.Traces().ListAll(ctx, &langfuse.FilterParams{SessionID: sessionID})
		if err == nil {
			for _, t := range traces {
				if t.ID == traceID {
					return nil
				}
			}
		}
		if attempt < traceFindRetries-1 {
			fmt.Println("   ⏳ Trace not found yet, retrying in 2s...")
			select {
			case <-time.After(traceFindDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("trace %s not visible after %d attempts", traceID, traceFindRetries)
}

// sendScores attaches the numeric and categorical scores to a trace via
// the REST API. A failure is reported but does not stop the run.
func sendScores(ctx context.Context, lf *langfuse.Client, traceID string, tc scoring.TestCase, result scoring.Result) bool {
	scores := []*langfuse.CreateScoreRequest{
		{
			TraceID:  traceID,
			Name:     "automated_" + string(tc.Method),
			Value:    result.Score,
			Comment:  result.Reasoning,
			DataType: langfuse.ScoreDataTypeNumeric,
		},
		{
			TraceID:  traceID,
			Name:     "test_result",
			Value:    string(scoring.GradeFor(result.Score)),
			DataType: langfuse.ScoreDataTypeCategorical,
		},
		{
			TraceID:  traceID,
			Name:     "test_category",
			Value:    tc.Category,
			DataType: langfuse.ScoreDataTypeCategorical,
		},
	}
	for _, score := range scores {
		if _, err := lf.Scores().Create(ctx, score); err != nil {
			fmt.Printf("⚠️  Failed to send score to Langfuse: %v\n", err)
			return false
		}
	}
	fmt.Printf("📤 Scores sent to Langfuse: %.2f (%s)\n", result.Score, scoring.GradeFor(result.Score))
	return true
}
