package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Orchestrator drives the cdk and aws CLIs through a Runner.
type Orchestrator struct {
	run Runner
	out io.Writer
	cfg Config
}

// NewOrchestrator creates an orchestrator writing progress to out.
func NewOrchestrator(run Runner, out io.Writer, cfg Config) *Orchestrator {
	return &Orchestrator{run: run, out: out, cfg: cfg}
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// checkCDK verifies the cdk CLI is installed.
func (o *Orchestrator) checkCDK(ctx context.Context) error {
	version, err := o.run.Run(ctx, "cdk", "--version")
	if err != nil {
		return fmt.Errorf("deploy: AWS CDK not found, install with: npm install -g aws-cdk")
	}
	o.printf("✓ AWS CDK version: %s", version)
	return nil
}

// bootstrap runs cdk bootstrap if the toolkit stack is missing.
func (o *Orchestrator) bootstrap(ctx context.Context) error {
	o.printf("Checking CDK bootstrap status...")

	args := []string{"cloudformation", "describe-stacks", "--stack-name", bootstrapToolkitStack}
	if o.cfg.Region != "" {
		args = append(args, "--region", o.cfg.Region)
	}
	if _, err := o.run.Run(ctx, "aws", args...); err == nil {
		o.printf("✓ CDK already bootstrapped")
		return nil
	}

	o.printf("CDK not bootstrapped. Running bootstrap...")
	if err := o.run.Stream(ctx, func(line string) { o.printf("   %s", line) }, "cdk", "bootstrap"); err != nil {
		return fmt.Errorf("deploy: CDK bootstrap failed: %w", err)
	}
	o.printf("✓ CDK bootstrap complete")
	return nil
}

// Deploy bootstraps as needed, deploys all stacks, and returns the
// Langfuse URL from the web stack's outputs. The URL may be empty when
// outputs are not yet available.
func (o *Orchestrator) Deploy(ctx context.Context) (string, error) {
	if err := o.checkCDK(ctx); err != nil {
		return "", err
	}
	if _, err := os.Stat(ContextFile); err != nil {
		return "", fmt.Errorf("deploy: %s not found, run the prepare step first", ContextFile)
	}
	if err := o.bootstrap(ctx); err != nil {
		return "", err
	}

	o.printf("Deploying Langfuse CDK stacks...")
	o.printf("This will take approximately 15-20 minutes...")

	start := time.Now()
	sp := newSpinner(o.out, "Deploying stacks")
	sp.Start()
	err := o.run.Stream(ctx, func(line string) {
		if status := progressLine(line); status != "" {
			sp.Printf("   %s", status)
		}
	}, "cdk", "deploy", "--require-approval", "never", "--all")
	sp.Stop()
	if err != nil {
		return "", fmt.Errorf("deploy: CDK deployment failed: %w", err)
	}

	elapsed := time.Since(start).Round(time.Second)
	o.printf("✓ Deployment complete! (took %dm %ds)", int(elapsed.Minutes()), int(elapsed.Seconds())%60)

	url, err := o.langfuseURL(ctx)
	if err != nil {
		o.printf("Warning: unable to retrieve the Langfuse URL: %v", err)
		o.printf("Check the CloudFormation console for the %s output.", loadBalancerOutputKey)
		return "", nil
	}
	return url, nil
}

// progressLine maps raw cdk output to a short status line, or "" to stay
// on the spinner.
func progressLine(line string) string {
	line = strings.TrimSpace(line)
	switch {
	case strings.Contains(line, "DELETE_IN_PROGRESS"):
		return "🗑️  " + firstField(line) + " deleting..."
	case strings.Contains(line, "DELETE_COMPLETE"):
		return "✅ " + firstField(line) + " deleted"
	case strings.Contains(line, "CREATE_COMPLETE"), strings.Contains(line, "UPDATE_COMPLETE"):
		return "✅ " + firstField(line)
	case strings.Contains(line, "failed"), strings.Contains(line, "❌"):
		return "❌ " + line
	case strings.HasPrefix(line, "Deploying"), strings.HasPrefix(line, "Destroying"):
		return "🔄 " + line
	case strings.Contains(line, "Currently in progress:"):
		return "⏳ " + line
	default:
		return ""
	}
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "stack"
	}
	return fields[0]
}

// cfnStacks mirrors the describe-stacks JSON shape.
type cfnStacks struct {
	Stacks []struct {
		StackName   string `json:"StackName"`
		StackStatus string `json:"StackStatus"`
		Outputs     []struct {
			OutputKey   string `json:"OutputKey"`
			OutputValue string `json:"OutputValue"`
		} `json:"Outputs"`
	} `json:"Stacks"`
}

// langfuseURL reads the load balancer DNS from the web stack outputs.
func (o *Orchestrator) langfuseURL(ctx context.Context) (string, error) {
	args := []string{"cloudformation", "describe-stacks", "--stack-name", o.cfg.WebStack}
	if o.cfg.Region != "" {
		args = append(args, "--region", o.cfg.Region)
	}
	stdout, err := o.run.Run(ctx, "aws", args...)
	if err != nil {
		return "", err
	}

	var stacks cfnStacks
	if err := json.Unmarshal([]byte(stdout), &stacks); err != nil {
		return "", fmt.Errorf("deploy: failed to parse stack outputs: %w", err)
	}
	for _, stack := range stacks.Stacks {
		for _, output := range stack.Outputs {
			if output.OutputKey == loadBalancerOutputKey {
				dns := output.OutputValue
				if strings.HasPrefix(dns, "http://") || strings.HasPrefix(dns, "https://") {
					return dns, nil
				}
				return "http://" + dns, nil
			}
		}
	}
	return "", fmt.Errorf("deploy: output %s not found on stack %s", loadBalancerOutputKey, o.cfg.WebStack)
}

// Status prints the state of each deployed stack.
func (o *Orchestrator) Status(ctx context.Context) error {
	stackList, err := o.run.Run(ctx, "cdk", "list")
	if err != nil {
		return fmt.Errorf("deploy: unable to list stacks: %w", err)
	}
	names := strings.Fields(stackList)
	if len(names) == 0 {
		o.printf("No CDK stacks defined.")
		return nil
	}

	for _, name := range names {
		args := []string{"cloudformation", "describe-stacks", "--stack-name", name}
		if o.cfg.Region != "" {
			args = append(args, "--region", o.cfg.Region)
		}
		stdout, err := o.run.Run(ctx, "aws", args...)
		if err != nil {
			o.printf("%-45s NOT_DEPLOYED", name)
			continue
		}
		var stacks cfnStacks
		if err := json.Unmarshal([]byte(stdout), &stacks); err != nil || len(stacks.Stacks) == 0 {
			o.printf("%-45s UNKNOWN", name)
			continue
		}
		o.printf("%-45s %s", name, stacks.Stacks[0].StackStatus)
	}
	return nil
}

// Cleanup destroys all stacks and removes generated local files.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	if err := o.checkCDK(ctx); err != nil {
		return err
	}

	o.printf("📋 Checking deployed stacks...")
	if stackList, err := o.run.Run(ctx, "cdk", "list"); err == nil && stackList != "" {
		names := strings.Fields(stackList)
		o.printf("   Found %d stacks to destroy:", len(names))
		for _, name := range names {
			o.printf("   - %s", name)
		}
	} else {
		o.printf("   No CDK stacks found or unable to list stacks")
	}

	o.printf("📦 Destroying CDK stacks...")
	o.printf("   This may take 15-20 minutes. Progress will be shown below:")

	sp := newSpinner(o.out, "Destroying stacks")
	sp.Start()
	err := o.run.Stream(ctx, func(line string) {
		if status := progressLine(line); status != "" {
			sp.Printf("   %s", status)
		}
	}, "cdk", "destroy", "--force", "--all")
	sp.Stop()
	if err != nil {
		o.printf("⚠️  CDK destroy completed with errors: %v", err)
		o.printf("   Some resources may need manual cleanup in the AWS console")
	} else {
		o.printf("✅ CDK stacks destroyed successfully")
	}

	o.printf("🗑️  Cleaning up local files...")
	for _, path := range []string{ContextFile, EnvFile, CdkOutDir} {
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if rmErr := os.RemoveAll(path); rmErr != nil {
			o.printf("   Failed to remove %s: %v", path, rmErr)
			continue
		}
		o.printf("   Removed %s", path)
	}

	o.printf("✅ Cleanup completed!")
	o.printf("Note: check the AWS console to ensure all resources were removed.")
	return err
}
