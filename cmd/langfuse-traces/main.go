// Command langfuse-traces lists recent traces with their observations,
// token usage, and input/output previews.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
)

const timeout = 60 * time.Second

func main() {
	limit := flag.Int("limit", 10, "number of traces to show")
	flag.Parse()

	if err := run(*limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(limit int) error {
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

	fmt.Println(cli.Banner("🔍 Recent Langfuse Traces"))
	fmt.Printf("Host: %s\n\n", client.Host())

	resp, err := client.Traces().List(ctx, &langfuse.TracesListParams{
		PaginationParams: langfuse.PaginationParams{Page: 1, Limit: limit},
	})
	if err != nil {
		return fmt.Errorf("failed to list traces: %w", err)
	}
	if len(resp.Data) == 0 {
		fmt.Println("No traces found.")
		return nil
	}

	fmt.Printf("Showing %d of %d traces:\n", len(resp.Data), resp.Meta.TotalItems)
	for i, trace := range resp.Data {
		printTrace(ctx, client, i+1, trace)
	}
	return nil
}

func printTrace(ctx context.Context, client *langfuse.Client, index int, trace langfuse.Trace) {
	name := trace.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("\n%d. %s\n", index, name)
	fmt.Printf("   ID:        %s\n", trace.ID)
	fmt.Printf("   Timestamp: %s\n", trace.Timestamp.Format("2006-01-02 15:04:05"))
	if trace.SessionID != "" {
		fmt.Printf("   Session:   %s\n", trace.SessionID)
	}
	if len(trace.Tags) > 0 {
		fmt.Printf("   Tags:      %v\n", trace.Tags)
	}
	if trace.TotalTokens > 0 {
		fmt.Printf("   Tokens:    %d total (%d input, %d output)\n",
			trace.TotalTokens, trace.InputTokens, trace.OutputTokens)
	}
	if in := preview(trace.Input); in != "" {
		fmt.Printf("   Input:     %s\n", in)
	}
	if out := preview(trace.Output); out != "" {
		fmt.Printf("   Output:    %s\n", out)
	}

	observations, err := client.Observations().ListByTrace(ctx, trace.ID)
	if err != nil {
		fmt.Printf("   Observations: unavailable (%v)\n", err)
		return
	}
	for _, obs := range observations {
		line := fmt.Sprintf("   └─ [%s] %s", obs.Type, obs.Name)
		if obs.Model != "" {
			line += " model=" + obs.Model
		}
		if obs.Usage != nil && obs.Usage.Total > 0 {
			line += fmt.Sprintf(" tokens=%d", obs.Usage.Total)
		}
		fmt.Println(line)
	}
}

// preview renders a trace input/output value as a short single line.
func preview(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		s = string(raw)
	}
	return cli.Truncate(s, 80)
}
