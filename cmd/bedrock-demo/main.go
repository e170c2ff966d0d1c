// Command bedrock-demo traces AWS Bedrock agents into Langfuse via OTEL.
//
// Subcommands:
//
//	examples  simple chat, multi-turn, calculator, creative writing
//	monty     the Bridge of Death question set
//	scoring   run the scored test cases and push scores back
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/retroryan/langfuse-samples/bedrock"
	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/telemetry"
)

const timeout = 15 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string) error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireLangfuse(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tracer, err := telemetry.New(ctx, telemetry.Config{
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Host:        cfg.LangfuseHost,
		ServiceName: "bedrock-langfuse-demo",
		Environment: "demo",
		Release:     "1.0.0",
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to flush telemetry: %v\n", err)
		}
	}()

	model, err := bedrock.NewModel(ctx, bedrock.Config{
		ModelID: cfg.BedrockModelID,
		Region:  cfg.BedrockRegion,
	})
	if err != nil {
		return err
	}

	runID := cli.NewRunID()[:8]
	d := &bedrockDemo{cfg: cfg, model: model, tracer: tracer, runID: runID}

	fmt.Printf("📊 Langfuse host: %s\n", cfg.LangfuseHost)
	fmt.Printf("🤖 Bedrock model: %s\n", model.ModelID())
	fmt.Printf("🌍 AWS region: %s\n", model.Region())
	fmt.Printf("🎨 Run ID: %s\n", runID)

	switch mode {
	case "examples":
		return d.examples(ctx)
	case "monty":
		return d.monty(ctx)
	case "scoring":
		return d.scoring(ctx, cli.NewSessionID("scoring-demo"))
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func printUsage() {
	fmt.Println(`bedrock-demo - AWS Bedrock + Langfuse OTEL tracing demos

Usage:
  bedrock-demo <mode>

Modes:
  examples  Simple chat, multi-turn conversation, calculator, haiku
  monty     Bridge of Death question set with session and tags
  scoring   Run the scored test cases and push scores to Langfuse

Environment Variables:
  LANGFUSE_PUBLIC_KEY  Langfuse project public key (required)
  LANGFUSE_SECRET_KEY  Langfuse project secret key (required)
  LANGFUSE_HOST        Langfuse host (default http://localhost:3000)
  BEDROCK_MODEL_ID     Bedrock model identifier
  BEDROCK_REGION       AWS region (default us-east-1)`)
}
