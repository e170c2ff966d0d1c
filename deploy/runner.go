// Package deploy orchestrates the CDK deployment lifecycle of the Langfuse
// stack: generating context and secrets, bootstrapping and deploying the
// stacks, and tearing everything down.
package deploy

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands. The orchestrator drives the cdk and
// aws CLIs through this interface so tests can substitute a fake.
type Runner interface {
	// Run executes a command and returns its trimmed stdout.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// Stream executes a command, forwarding each output line to onLine.
	Stream(ctx context.Context, onLine func(string), name string, args ...string) error
}

// execRunner runs commands with os/exec.
type execRunner struct {
	dir string
}

// NewRunner creates a Runner executing in the given working directory.
func NewRunner(dir string) Runner {
	return &execRunner{dir: dir}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("deploy: %s failed: %s", name, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *execRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("deploy: failed to open stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("deploy: failed to start %s: %w", name, err)
	}

	readLines(pipe, onLine)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("deploy: %s exited with error: %w", name, err)
	}
	return nil
}

// readLines forwards each line of r to onLine.
func readLines(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(strings.TrimRight(scanner.Text(), "\r"))
	}
}
