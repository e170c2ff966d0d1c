package bedrock

import (
	"context"

	"github.com/retroryan/langfuse-samples/telemetry"
)

// Agent wraps a Model so every conversation is exported to Langfuse as a
// trace with a generation span.
type Agent struct {
	model  *Model
	tracer *telemetry.Tracer

	sessionID string
	userID    string
	tags      []string
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithSessionID groups the agent's traces under a session.
func WithSessionID(sessionID string) AgentOption {
	return func(a *Agent) { a.sessionID = sessionID }
}

// WithUserID attributes the agent's traces to a user.
func WithUserID(userID string) AgentOption {
	return func(a *Agent) { a.userID = userID }
}

// WithTags attaches tags to every trace the agent emits.
func WithTags(tags ...string) AgentOption {
	return func(a *Agent) { a.tags = tags }
}

// NewAgent creates a traced agent around a model.
func NewAgent(model *Model, tracer *telemetry.Tracer, opts ...AgentOption) *Agent {
	a := &Agent{model: model, tracer: tracer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the underlying model client.
func (a *Agent) Model() *Model { return a.model }

// AgentResult is a model response together with its Langfuse trace ID.
type AgentResult struct {
	*Response
	TraceID string
}

// Ask runs one conversation turn and exports it as a named trace. Pin the
// trace ID with telemetry.WithTraceID on the context.
func (a *Agent) Ask(ctx context.Context, traceName, system, user string) (*AgentResult, error) {
	traceOpts := []telemetry.TraceOption{
		telemetry.WithTraceInput(user),
	}
	if a.sessionID != "" {
		traceOpts = append(traceOpts, telemetry.WithSessionID(a.sessionID))
	}
	if a.userID != "" {
		traceOpts = append(traceOpts, telemetry.WithUserID(a.userID))
	}
	if len(a.tags) > 0 {
		traceOpts = append(traceOpts, telemetry.WithTags(a.tags...))
	}

	trace := a.tracer.StartTrace(ctx, traceName, traceOpts...)
	defer trace.End()

	gen := trace.StartGeneration("converse",
		telemetry.WithModel(a.model.ModelID()),
		telemetry.WithInput(map[string]string{"system": system, "user": user}),
	)
	resp, err := a.model.Converse(ctx, system, user)
	if err != nil {
		gen.SetError(err)
		gen.End()
		trace.SetError(err)
		return nil, err
	}

	gen.SetOutput(resp.Content)
	gen.SetUsage(telemetry.Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	})
	gen.End()

	trace.SetOutput(resp.Content)

	return &AgentResult{Response: resp, TraceID: trace.TraceID()}, nil
}
