// Command bedrock-lambda is an AWS Lambda handler that answers a prompt
// with a Bedrock agent and exports the conversation to Langfuse before
// returning. Configuration comes from the Lambda environment.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/retroryan/langfuse-samples/bedrock"
	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/telemetry"
)

const defaultQuery = "What is the capital of France?"

// Request is the Lambda invocation payload, either direct or as an API
// Gateway body.
type Request struct {
	Query  string `json:"query"`
	System string `json:"system,omitempty"`
}

// Response is the JSON body returned to the caller.
type Response struct {
	Success   bool    `json:"success"`
	RunID     string  `json:"run_id"`
	Timestamp string  `json:"timestamp"`
	SessionID string  `json:"session_id"`
	TraceID   string  `json:"trace_id,omitempty"`
	Query     string  `json:"query"`
	Answer    string  `json:"response,omitempty"`
	Tokens    int     `json:"tokens,omitempty"`
	LatencyMs int64   `json:"latency_ms,omitempty"`
	Error     string  `json:"error,omitempty"`
	CostUSD   float64 `json:"estimated_cost_usd,omitempty"`
}

type app struct {
	agentModel *bedrock.Model
	tracer     *telemetry.Tracer
}

func main() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireLangfuse(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	tracer, err := telemetry.New(ctx, telemetry.Config{
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Host:        cfg.LangfuseHost,
		ServiceName: "lambda-bedrock-agent",
		Environment: "lambda",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	model, err := bedrock.NewModel(ctx, bedrock.Config{
		ModelID: cfg.BedrockModelID,
		Region:  cfg.BedrockRegion,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	a := &app{agentModel: model, tracer: tracer}
	lambda.Start(a.handle)
}

func (a *app) handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := parseRequest(event)
	runID := cli.NewRunID()[:8]
	sessionID := "lambda-custom-" + runID

	agent := bedrock.NewAgent(a.agentModel, a.tracer,
		bedrock.WithSessionID(sessionID),
		bedrock.WithUserID("lambda-user"),
		bedrock.WithTags("lambda-demo", "custom", "run-"+runID))

	system := req.System
	if system == "" {
		system = "You are a helpful assistant. Be concise in your responses."
	}

	resp := Response{
		RunID:     runID,
		Timestamp: time.Now().Format(time.RFC3339),
		SessionID: sessionID,
		Query:     req.Query,
	}

	result, err := agent.Ask(ctx, "lambda-query", system, req.Query)
	if err != nil {
		resp.Error = err.Error()
		return reply(500, resp)
	}

	resp.Success = true
	resp.TraceID = result.TraceID
	resp.Answer = result.Content
	resp.Tokens = int(result.Usage.TotalTokens)
	resp.LatencyMs = result.LatencyMs
	resp.CostUSD = cli.Metrics{
		InputTokens:  int(result.Usage.InputTokens),
		OutputTokens: int(result.Usage.OutputTokens),
	}.EstimatedCost()

	// Lambda may freeze the container right after return.
	if err := a.tracer.ForceFlush(ctx); err != nil {
		fmt.Printf("warning: telemetry flush failed: %v\n", err)
	}
	return reply(200, resp)
}

// parseRequest accepts both a direct invocation payload and an API
// Gateway proxy request carrying the payload in its body.
func parseRequest(event events.APIGatewayProxyRequest) Request {
	req := Request{Query: defaultQuery}
	if event.Body != "" {
		var parsed Request
		if err := json.Unmarshal([]byte(event.Body), &parsed); err == nil && parsed.Query != "" {
			req = parsed
		}
	}
	return req
}

func reply(status int, resp Response) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}
