package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Usage carries token counts for a generation, in the shape Langfuse
// expects for the usage_details attribute.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Trace is a root span representing a Langfuse trace.
type Trace struct {
	tracer *Tracer
	ctx    context.Context
	span   oteltrace.Span
}

// TraceOption configures a trace at creation.
type TraceOption func(*Trace)

// WithSessionID groups the trace under a session.
func WithSessionID(sessionID string) TraceOption {
	return func(t *Trace) {
		t.span.SetAttributes(attribute.String("langfuse.session.id", sessionID))
	}
}

// WithUserID attributes the trace to a user.
func WithUserID(userID string) TraceOption {
	return func(t *Trace) {
		t.span.SetAttributes(attribute.String("langfuse.user.id", userID))
	}
}

// WithTags attaches tags to the trace.
func WithTags(tags ...string) TraceOption {
	return func(t *Trace) {
		tagsJSON, _ := json.Marshal(tags)
		t.span.SetAttributes(attribute.String("langfuse.trace.tags", string(tagsJSON)))
	}
}

// WithTraceMetadata attaches string metadata entries to the trace.
func WithTraceMetadata(metadata map[string]string) TraceOption {
	return func(t *Trace) {
		for key, value := range metadata {
			t.span.SetAttributes(attribute.String(fmt.Sprintf("langfuse.trace.metadata.%s", key), value))
		}
	}
}

// WithTraceInput sets the trace input.
func WithTraceInput(input any) TraceOption {
	return func(t *Trace) {
		inputJSON, _ := json.Marshal(input)
		t.span.SetAttributes(attribute.String("langfuse.trace.input", string(inputJSON)))
	}
}

// StartTrace starts a root span. The trace's environment and release come
// from the tracer config. Use telemetry.WithTraceID on the context to pin
// the trace ID.
func (t *Tracer) StartTrace(ctx context.Context, name string, opts ...TraceOption) *Trace {
	spanCtx, span := t.tracer.Start(ctx, name)

	if t.config.Environment != "" {
		span.SetAttributes(attribute.String("langfuse.environment", t.config.Environment))
	}
	if t.config.Release != "" {
		span.SetAttributes(attribute.String("langfuse.release", t.config.Release))
	}

	tr := &Trace{tracer: t, ctx: spanCtx, span: span}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// TraceID returns the trace's hex ID.
func (t *Trace) TraceID() string {
	return t.span.SpanContext().TraceID().String()
}

// Context returns the trace's span context for starting child spans.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// SetOutput records the trace output.
func (t *Trace) SetOutput(output any) {
	outputJSON, _ := json.Marshal(output)
	t.span.SetAttributes(attribute.String("langfuse.trace.output", string(outputJSON)))
}

// SetError marks the trace as failed.
func (t *Trace) SetError(err error) {
	t.span.RecordError(err)
	t.span.SetStatus(codes.Error, err.Error())
}

// End ends the trace span.
func (t *Trace) End() {
	t.span.End()
}

// Generation is a child span representing one model call.
type Generation struct {
	span oteltrace.Span
	ctx  context.Context
}

// GenerationOption configures a generation at creation.
type GenerationOption func(*Generation)

// WithModel sets the model name for the generation.
func WithModel(model string) GenerationOption {
	return func(g *Generation) {
		g.span.SetAttributes(attribute.String("langfuse.observation.model.name", model))
	}
}

// WithModelParameters records the generation's model parameters.
func WithModelParameters(params map[string]any) GenerationOption {
	return func(g *Generation) {
		paramsJSON, _ := json.Marshal(params)
		g.span.SetAttributes(attribute.String("langfuse.observation.model.parameters", string(paramsJSON)))
	}
}

// WithInput sets the generation input.
func WithInput(input any) GenerationOption {
	return func(g *Generation) {
		inputJSON, _ := json.Marshal(input)
		g.span.SetAttributes(attribute.String("langfuse.observation.input", string(inputJSON)))
	}
}

// StartGeneration starts a generation span under the trace.
func (t *Trace) StartGeneration(name string, opts ...GenerationOption) *Generation {
	ctx, span := t.tracer.tracer.Start(t.ctx, name)
	span.SetAttributes(attribute.String("langfuse.observation.type", "generation"))

	g := &Generation{span: span, ctx: ctx}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetOutput records the generation output.
func (g *Generation) SetOutput(output any) {
	outputJSON, _ := json.Marshal(output)
	g.span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
}

// SetUsage records token usage on the generation.
func (g *Generation) SetUsage(usage Usage) {
	usageJSON, _ := json.Marshal(usage)
	g.span.SetAttributes(attribute.String("langfuse.observation.usage_details", string(usageJSON)))
}

// SetCompletionStartTime records when the first token arrived.
func (g *Generation) SetCompletionStartTime(start time.Time) {
	g.span.SetAttributes(attribute.String("langfuse.observation.completion_start_time", start.Format(time.RFC3339)))
}

// SetError marks the generation as failed.
func (g *Generation) SetError(err error) {
	g.span.RecordError(err)
	g.span.SetStatus(codes.Error, err.Error())
	g.span.SetAttributes(attribute.String("langfuse.observation.level", "ERROR"))
}

// End ends the generation span.
func (g *Generation) End() {
	g.span.End()
}

// Span is a plain child span.
type Span struct {
	span oteltrace.Span
	ctx  context.Context
}

// StartSpan starts a plain span under the trace.
func (t *Trace) StartSpan(name string) *Span {
	ctx, span := t.tracer.tracer.Start(t.ctx, name)
	span.SetAttributes(attribute.String("langfuse.observation.type", "span"))
	return &Span{span: span, ctx: ctx}
}

// SetOutput records the span output.
func (s *Span) SetOutput(output any) {
	outputJSON, _ := json.Marshal(output)
	s.span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
}

// End ends the span.
func (s *Span) End() {
	s.span.End()
}

// Event records an instantaneous event under the trace.
func (t *Trace) Event(name string, metadata map[string]string) {
	_, span := t.tracer.tracer.Start(t.ctx, name)
	span.SetAttributes(attribute.String("langfuse.observation.type", "event"))
	for key, value := range metadata {
		span.SetAttributes(attribute.String(fmt.Sprintf("langfuse.observation.metadata.%s", key), value))
	}
	span.End()
}
