// Command langfuse-scores inspects scores in a Langfuse project and
// pretty-prints saved scoring result files.
//
// Usage:
//
//	langfuse-scores            list scores from the API
//	langfuse-scores <file>     print a scoring_results_*.json file
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/scoring"
)

const timeout = 60 * time.Second

func main() {
	var err error
	if len(os.Args) > 1 {
		err = printResultsFile(os.Args[1])
	} else {
		err = listScores()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listScores() error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireLangfuse(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := langfuse.New(cfg.LangfusePublicKey, cfg.LangfuseSecretKey,
		langfuse.WithHost(cfg.LangfuseHost))
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	fmt.Println(cli.Banner("📋 Langfuse Scores"))
	fmt.Printf("Host: %s\n\n", client.Host())

	scores, err := client.Scores().ListAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list scores: %w", err)
	}
	if len(scores) == 0 {
		fmt.Println("No scores found.")
		return nil
	}

	fmt.Printf("Found %d scores:\n\n", len(scores))
	for _, s := range scores {
		value := fmt.Sprintf("%v", s.Value)
		if s.StringValue != "" {
			value = s.StringValue
		}
		fmt.Printf("%-20s %-12s %-10s trace=%s\n", s.Name, value, s.DataType, s.TraceID)
		if s.Comment != "" {
			fmt.Printf("   %s\n", cli.Truncate(s.Comment, 100))
		}
	}
	return nil
}

func printResultsFile(filename string) error {
	run, err := scoring.LoadResults(filename)
	if err != nil {
		return err
	}

	fmt.Println(cli.Banner("📊 Scoring Results: " + run.SessionID))
	fmt.Printf("Run at: %s\n\n", run.Timestamp.Format("2006-01-02 15:04:05"))

	for _, r := range run.Results {
		icon := gradeIcon(scoring.GradeFor(r.Score))
		fmt.Printf("%s %-25s %.2f (%s)\n", icon, r.TestCase, r.Score, r.Method)
		fmt.Printf("   Q: %s\n", r.Question)
		fmt.Printf("   A: %s\n", cli.Truncate(r.Actual, 100))
		fmt.Printf("   %s\n\n", r.Reasoning)
	}

	s := run.Summary
	fmt.Printf("Summary: %d tests, average %.2f\n", s.TotalTests, s.AverageScore)
	fmt.Printf("   ✅ Passed:  %d\n", s.Passed)
	fmt.Printf("   ⚠️  Partial: %d\n", s.Partial)
	fmt.Printf("   ❌ Failed:  %d\n", s.Failed)

	categories := make([]string, 0, len(s.ByCategory))
	for category := range s.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("   %-12s %.2f\n", category+":", s.ByCategory[category])
	}
	return nil
}

func gradeIcon(g scoring.Grade) string {
	switch g {
	case scoring.GradePassed:
		return "✅"
	case scoring.GradePartial:
		return "⚠️ "
	default:
		return "❌"
	}
}
