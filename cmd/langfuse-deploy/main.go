// Command langfuse-deploy orchestrates the Langfuse CDK deployment:
// generating context and secrets, deploying the stacks, checking status,
// and tearing everything down.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/retroryan/langfuse-samples/deploy"
)

const timeout = 45 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := deploy.LoadConfig(deploy.DefaultConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	orch := deploy.NewOrchestrator(deploy.NewRunner("."), os.Stdout, cfg)

	switch os.Args[1] {
	case "prepare":
		err = orch.Prepare(ctx)
	case "deploy":
		var url string
		url, err = orch.Deploy(ctx)
		if err == nil && url != "" {
			fmt.Printf("\n🎉 Langfuse is available at: %s\n", url)
			fmt.Println("Sign up for an account, then create a project to get API keys.")
		}
	case "status":
		err = orch.Status(ctx)
	case "cleanup":
		err = orch.Cleanup(ctx)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`langfuse-deploy - Langfuse CDK deployment orchestration

Usage:
  langfuse-deploy <command>

Commands:
  prepare   Generate cdk.context.json with fresh secrets and write .env
  deploy    Bootstrap as needed and deploy all CDK stacks (15-20 minutes)
  status    Show the CloudFormation status of each stack
  cleanup   Destroy all stacks and remove generated local files
  help      Show this help message

Configuration:
  Optional deploy.yaml in the working directory overrides the web stack
  name, region, context template path, and cost-optimized settings.`)
}
