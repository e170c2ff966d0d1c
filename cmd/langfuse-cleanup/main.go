// Command langfuse-cleanup deletes traces and scores from a Langfuse
// project. Without selectors it deletes both; --traces or --scores
// restricts the run. Deletion is asynchronous on the server side.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
)

const (
	timeout         = 5 * time.Minute
	deleteBatchSize = 50
)

func main() {
	tracesOnly := flag.Bool("traces", false, "delete only traces")
	scoresOnly := flag.Bool("scores", false, "delete only scores")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if err := run(*tracesOnly, *scoresOnly, *yes); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(tracesOnly, scoresOnly, yes bool) error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireLangfuse(); err != nil {
		return err
	}

	// No selector means both.
	deleteTraces := tracesOnly || !scoresOnly
	deleteScores := scoresOnly || !tracesOnly

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := langfuse.New(cfg.LangfusePublicKey, cfg.LangfuseSecretKey,
		langfuse.WithHost(cfg.LangfuseHost))
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	fmt.Println(cli.Banner("🧹 Langfuse Cleanup"))
	fmt.Printf("Host: %s\n\n", client.Host())

	var traces []langfuse.Trace
	var scores []langfuse.Score

	if deleteTraces {
		fmt.Println("Fetching traces...")
		traces, err = client.Traces().ListAll(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to list traces: %w", err)
		}
		fmt.Printf("Found %d traces\n", len(traces))
		printTraceSample(traces)
	}
	if deleteScores {
		fmt.Println("Fetching scores...")
		scores, err = client.Scores().ListAll(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to list scores: %w", err)
		}
		fmt.Printf("Found %d scores\n", len(scores))
	}

	if len(traces) == 0 && len(scores) == 0 {
		fmt.Println("\nNothing to delete.")
		return nil
	}

	if !yes && !confirm(len(traces), len(scores)) {
		fmt.Println("Aborted.")
		return nil
	}

	if len(traces) > 0 {
		if err := deleteAllTraces(ctx, client, traces); err != nil {
			return err
		}
	}
	if len(scores) > 0 {
		deleteAllScores(ctx, client, scores)
	}

	fmt.Println("\n✅ Cleanup complete.")
	fmt.Println("Note: deletion is asynchronous and may take up to 15 minutes to finish server-side.")
	return nil
}

func printTraceSample(traces []langfuse.Trace) {
	if len(traces) == 0 {
		return
	}
	fmt.Println("Sample:")
	for i, t := range traces {
		if i >= 5 {
			fmt.Printf("   ... and %d more\n", len(traces)-5)
			break
		}
		name := t.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("   - %s  %s  %s\n", t.ID, name, t.Timestamp.Format("2006-01-02 15:04:05"))
	}
}

func confirm(traceCount, scoreCount int) bool {
	fmt.Printf("\n⚠️  About to delete %d traces and %d scores. This cannot be undone.\n", traceCount, scoreCount)
	fmt.Print("Type 'yes' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) == "yes"
}

// deleteAllTraces removes traces in fixed-size batches. A failed batch
// aborts the remaining batches since the server is likely unhealthy.
func deleteAllTraces(ctx context.Context, client *langfuse.Client, traces []langfuse.Trace) error {
	fmt.Printf("\nDeleting %d traces in batches of %d...\n", len(traces), deleteBatchSize)

	ids := make([]string, len(traces))
	for i, t := range traces {
		ids[i] = t.ID
	}

	deleted := 0
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := client.Traces().DeleteMany(ctx, ids[start:end]); err != nil {
			return fmt.Errorf("batch delete failed after %d traces: %w", deleted, err)
		}
		deleted += end - start
		fmt.Printf("   Deleted %d/%d\n", deleted, len(ids))
	}
	return nil
}

// deleteAllScores removes scores one at a time. A single failure is
// reported and skipped so the rest of the batch still goes through.
func deleteAllScores(ctx context.Context, client *langfuse.Client, scores []langfuse.Score) {
	fmt.Printf("\nDeleting %d scores...\n", len(scores))

	deleted := 0
	for _, s := range scores {
		if err := client.Scores().Delete(ctx, s.ID); err != nil {
			fmt.Printf("   Failed to delete score %s: %v (skipping)\n", s.ID, err)
			continue
		}
		deleted++
	}
	fmt.Printf("   Deleted %d/%d scores\n", deleted, len(scores))
}
