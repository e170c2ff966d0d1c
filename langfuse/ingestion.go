package langfuse

import (
	"context"

	"github.com/google/uuid"
)

// Event types for the ingestion API.
const (
	eventTypeTraceCreate      = "trace-create"
	eventTypeSpanCreate       = "span-create"
	eventTypeGenerationCreate = "generation-create"
	eventTypeEventCreate      = "event-create"
	eventTypeScoreCreate      = "score-create"
)

// ingestionRequest represents a batch ingestion request.
type ingestionRequest struct {
	Batch    []ingestionEvent `json:"batch"`
	Metadata Metadata         `json:"metadata,omitempty"`
}

// ingestionEvent represents a single event in a batch. The envelope ID is
// distinct from any ID inside the body and must be unique per event.
type ingestionEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp Time   `json:"timestamp"`
	Body      any    `json:"body"`
}

// newIngestionEvent wraps a body in an event envelope.
func newIngestionEvent(eventType string, body any) ingestionEvent {
	return ingestionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: Now(),
		Body:      body,
	}
}

// TraceEvent is the body of a trace-create event.
type TraceEvent struct {
	ID          string   `json:"id"`
	Timestamp   Time     `json:"timestamp,omitempty"`
	Name        string   `json:"name,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Input       any      `json:"input,omitempty"`
	Output      any      `json:"output,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SessionID   string   `json:"sessionId,omitempty"`
	Release     string   `json:"release,omitempty"`
	Version     string   `json:"version,omitempty"`
	Public      bool     `json:"public,omitempty"`
	Environment string   `json:"environment,omitempty"`
}

// ObservationEvent is the body of span-create, generation-create, and
// event-create events. Generation-specific fields are ignored for the
// other types.
type ObservationEvent struct {
	ID                  string           `json:"id"`
	TraceID             string           `json:"traceId,omitempty"`
	Name                string           `json:"name,omitempty"`
	StartTime           Time             `json:"startTime,omitempty"`
	EndTime             Time             `json:"endTime,omitempty"`
	Metadata            Metadata         `json:"metadata,omitempty"`
	Level               ObservationLevel `json:"level,omitempty"`
	StatusMessage       string           `json:"statusMessage,omitempty"`
	ParentObservationID string           `json:"parentObservationId,omitempty"`
	Input               any              `json:"input,omitempty"`
	Output              any              `json:"output,omitempty"`
	Environment         string           `json:"environment,omitempty"`

	Model           string   `json:"model,omitempty"`
	ModelParameters Metadata `json:"modelParameters,omitempty"`
	Usage           *Usage   `json:"usage,omitempty"`
}

// ScoreEvent is the body of a score-create event.
type ScoreEvent struct {
	ID            string        `json:"id,omitempty"`
	TraceID       string        `json:"traceId"`
	ObservationID string        `json:"observationId,omitempty"`
	Name          string        `json:"name"`
	Value         any           `json:"value"`
	DataType      ScoreDataType `json:"dataType,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	Environment   string        `json:"environment,omitempty"`
	Metadata      Metadata      `json:"metadata,omitempty"`
}

// IngestionResult represents the response from the ingestion endpoint.
// A 207 response carries per-event successes and errors.
type IngestionResult struct {
	Successes []IngestionSuccess `json:"successes"`
	Errors    []IngestionError   `json:"errors"`
}

// HasErrors returns true if any event in the batch failed.
func (r *IngestionResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// IngestionSuccess represents a successfully ingested event.
type IngestionSuccess struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
}

// IngestionError represents a failed event in a batch.
type IngestionError struct {
	ID      string `json:"id"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// IngestTrace queues a trace-create event. If the trace has no ID, one is
// generated and returned.
func (c *Client) IngestTrace(ctx context.Context, trace *TraceEvent) (string, error) {
	if trace == nil {
		return "", ErrNilRequest
	}
	if trace.ID == "" {
		trace.ID = uuid.NewString()
	}
	if trace.Timestamp.IsZero() {
		trace.Timestamp = Now()
	}
	if err := c.queueEvent(ctx, newIngestionEvent(eventTypeTraceCreate, trace)); err != nil {
		return "", err
	}
	return trace.ID, nil
}

// IngestSpan queues a span-create event.
func (c *Client) IngestSpan(ctx context.Context, obs *ObservationEvent) (string, error) {
	return c.ingestObservation(ctx, eventTypeSpanCreate, obs)
}

// IngestGeneration queues a generation-create event.
func (c *Client) IngestGeneration(ctx context.Context, obs *ObservationEvent) (string, error) {
	return c.ingestObservation(ctx, eventTypeGenerationCreate, obs)
}

// IngestEvent queues an event-create event.
func (c *Client) IngestEvent(ctx context.Context, obs *ObservationEvent) (string, error) {
	return c.ingestObservation(ctx, eventTypeEventCreate, obs)
}

func (c *Client) ingestObservation(ctx context.Context, eventType string, obs *ObservationEvent) (string, error) {
	if obs == nil {
		return "", ErrNilRequest
	}
	if obs.TraceID == "" {
		return "", NewValidationError("traceId", "is required")
	}
	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}
	if obs.StartTime.IsZero() {
		obs.StartTime = Now()
	}
	if err := c.queueEvent(ctx, newIngestionEvent(eventType, obs)); err != nil {
		return "", err
	}
	return obs.ID, nil
}

// IngestScore queues a score-create event.
func (c *Client) IngestScore(ctx context.Context, score *ScoreEvent) (string, error) {
	if score == nil {
		return "", ErrNilRequest
	}
	if score.TraceID == "" {
		return "", NewValidationError("traceId", "is required")
	}
	if score.Name == "" {
		return "", NewValidationError("name", "is required")
	}
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if err := c.queueEvent(ctx, newIngestionEvent(eventTypeScoreCreate, score)); err != nil {
		return "", err
	}
	return score.ID, nil
}
