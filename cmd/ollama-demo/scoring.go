package main

import (
	"context"
	"fmt"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/scoring"
)

// scoring runs the canonical test cases, evaluates each answer, and pushes
// numeric and categorical scores back to Langfuse. Trace IDs are derived
// from the session and test name so scores attach without querying.
func (d *demo) scoring(ctx context.Context, sessionID string) error {
	fmt.Println("🎯 Starting Ollama + Langfuse Scoring Demo")
	fmt.Printf("📊 Session ID: %s\n", sessionID)
	fmt.Printf("🌐 Langfuse host: %s\n", d.lf.Host())
	fmt.Println(cli.Banner(""))

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

		resp, err := d.ask(ctx, "scoring-"+tc.Name, traceID, sessionID, question{
			System: tc.System,
			User:   tc.User,
		})
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

		answer := resp.Content
		fmt.Printf("🤖 Response: %s\n", cli.Truncate(answer, 150))

		result := scoring.Evaluate(answer, tc)
		fmt.Printf("%s Score: %.2f\n", gradeIcon(scoring.GradeFor(result.Score)), result.Score)
		fmt.Printf("💭 Reasoning: %s\n", result.Reasoning)

		scoresSent := d.sendScores(ctx, traceID, tc, result)

		results = append(results, scoring.TestResult{
			TestCase:   tc.Name,
			Category:   tc.Category,
			Question:   tc.User,
			Expected:   tc.ExpectedAnswer,
			Actual:     answer,
			Score:      result.Score,
			Reasoning:  result.Reasoning,
			Method:     tc.Method,
			TraceID:    traceID,
			ScoresSent: scoresSent,
		})
	}

	printSummary(results)

	filename, err := scoring.SaveResults(sessionID, traceIDs, results)
	if err != nil {
		return err
	}
	fmt.Printf("\n💾 Results saved to %s\n", filename)
	fmt.Printf("🔍 Check your Langfuse dashboard at %s, filter by session %s.\n", d.lf.Host(), sessionID)
	return nil
}

// sendScores pushes the numeric score plus the categorical grade and test
// category to Langfuse. A failure is reported but does not stop the run.
func (d *demo) sendScores(ctx context.Context, traceID string, tc scoring.TestCase, result scoring.Result) bool {
	scores := []*langfuse.ScoreEvent{
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
		if _, err := d.lf.IngestScore(ctx, score); err != nil {
			fmt.Printf("⚠️  Failed to send score to Langfuse: %v\n", err)
			return false
		}
	}
	fmt.Printf("📤 Scores sent to Langfuse: %.2f (%s)\n", result.Score, scoring.GradeFor(result.Score))
	return true
}

func printSummary(results []scoring.TestResult) {
	s := scoring.Summarize(results)
	fmt.Println("\n" + cli.Banner("📊 SCORING SUMMARY"))
	fmt.Printf("Total tests:   %d\n", s.TotalTests)
	fmt.Printf("Average score: %.2f\n", s.AverageScore)
	fmt.Printf("✅ Passed:  %d\n", s.Passed)
	fmt.Printf("⚠️  Partial: %d\n", s.Partial)
	fmt.Printf("❌ Failed:  %d\n", s.Failed)
	for category, avg := range s.ByCategory {
		fmt.Printf("   %-12s %.2f\n", category+":", avg)
	}
}

func gradeIcon(g scoring.Grade) string {
	switch g {
	case scoring.GradePassed:
		return "✅"
	case scoring.GradePartial:
		return "⚠️"
	default:
		return "❌"
	}
}
