// Command ollama-demo traces local Ollama chat completions into Langfuse.
//
// Subcommands:
//
//	basic     three standalone questions, one trace each
//	session   the same questions grouped under one session ID
//	monty     the Bridge of Death question set with tags
//	scoring   run the scored test cases and push scores back
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

const timeout = 10 * time.Minute

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

	chat := ollama.New(ollama.Config{Host: cfg.OllamaHost, Model: cfg.OllamaModel})
	if err := chat.CheckModel(ctx); err != nil {
		return err
	}

	logger, err := cli.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	lf, err := langfuse.New(cfg.LangfusePublicKey, cfg.LangfuseSecretKey,
		langfuse.WithHost(cfg.LangfuseHost),
		langfuse.WithStructuredLogger(cli.NewLangfuseLogger(logger)),
		langfuse.WithDebug(cfg.Debug))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := lf.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to flush traces: %v\n", err)
		}
	}()

	demo := &demo{chat: chat, lf: lf, model: chat.Model()}

	switch mode {
	case "basic":
		return demo.basic(ctx, "")
	case "session":
		sessionID := cli.NewSessionID("ollama-session")
		fmt.Printf("📍 Session ID: %s\n", sessionID)
		return demo.basic(ctx, sessionID)
	case "monty":
		return demo.monty(ctx, cli.NewSessionID("holy-grail-quest"))
	case "scoring":
		return demo.scoring(ctx, cli.NewSessionID("scoring-demo"))
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func printUsage() {
	fmt.Println(`ollama-demo - Ollama + Langfuse tracing demos

Usage:
  ollama-demo <mode>

Modes:
  basic     Three standalone questions, one trace each
  session   The same questions grouped under one session ID
  monty     Bridge of Death question set with session and tags
  scoring   Run the scored test cases and push scores to Langfuse

Environment Variables:
  LANGFUSE_PUBLIC_KEY  Langfuse project public key (required)
  LANGFUSE_SECRET_KEY  Langfuse project secret key (required)
  LANGFUSE_HOST        Langfuse host (default http://localhost:3000)
  OLLAMA_HOST          Ollama server (default http://localhost:11434)
  OLLAMA_MODEL         Model tag (default llama3.1:8b)`)
}
