package langfuse

import (
	"encoding/json"
	"time"
)

// Metadata is an alias for map[string]any, representing arbitrary JSON
// metadata attached to traces, observations, and scores.
type Metadata = map[string]any

// Time is a custom time type that tolerates the timestamp formats the
// Langfuse API returns. Zero times marshal to JSON null.
type Time struct {
	time.Time
}

// IsZero returns true if the time is the zero value.
func (t Time) IsZero() bool {
	return t.Time.IsZero()
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// Now returns the current time as a Time.
func Now() Time {
	return Time{Time: time.Now()}
}

// ObservationType represents the type of observation.
type ObservationType string

const (
	ObservationTypeSpan       ObservationType = "SPAN"
	ObservationTypeGeneration ObservationType = "GENERATION"
	ObservationTypeEvent      ObservationType = "EVENT"
)

// String returns the string representation of the observation type.
func (o ObservationType) String() string { return string(o) }

// ObservationLevel represents the severity level of an observation.
type ObservationLevel string

const (
	ObservationLevelDebug   ObservationLevel = "DEBUG"
	ObservationLevelDefault ObservationLevel = "DEFAULT"
	ObservationLevelWarning ObservationLevel = "WARNING"
	ObservationLevelError   ObservationLevel = "ERROR"
)

// ScoreDataType represents the data type of a score.
type ScoreDataType string

const (
	ScoreDataTypeNumeric     ScoreDataType = "NUMERIC"
	ScoreDataTypeCategorical ScoreDataType = "CATEGORICAL"
	ScoreDataTypeBoolean     ScoreDataType = "BOOLEAN"
)

// String returns the string representation of the score data type.
func (s ScoreDataType) String() string { return string(s) }

// ScoreSource represents the source of a score.
type ScoreSource string

const (
	ScoreSourceAPI        ScoreSource = "API"
	ScoreSourceAnnotation ScoreSource = "ANNOTATION"
	ScoreSourceEval       ScoreSource = "EVAL"
)

// Trace represents a trace in Langfuse.
type Trace struct {
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

	// Read-only fields returned by the API
	ProjectID    string  `json:"projectId,omitempty"`
	CreatedAt    Time    `json:"createdAt,omitempty"`
	UpdatedAt    Time    `json:"updatedAt,omitempty"`
	Latency      float64 `json:"latency,omitempty"`
	TotalCost    float64 `json:"totalCost,omitempty"`
	InputTokens  int     `json:"inputTokens,omitempty"`
	OutputTokens int     `json:"outputTokens,omitempty"`
	TotalTokens  int     `json:"totalTokens,omitempty"`
}

// Observation represents a span, generation, or event in a trace.
type Observation struct {
	ID                  string           `json:"id"`
	TraceID             string           `json:"traceId,omitempty"`
	Type                ObservationType  `json:"type"`
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

	// Generation-specific fields
	Model           string   `json:"model,omitempty"`
	ModelParameters Metadata `json:"modelParameters,omitempty"`
	Usage           *Usage   `json:"usage,omitempty"`

	// Read-only fields
	CreatedAt Time    `json:"createdAt,omitempty"`
	UpdatedAt Time    `json:"updatedAt,omitempty"`
	Latency   float64 `json:"latency,omitempty"`
}

// Usage represents token usage for a generation.
type Usage struct {
	Input  int    `json:"input,omitempty"`
	Output int    `json:"output,omitempty"`
	Total  int    `json:"total,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Score represents a score attached to a trace or observation.
type Score struct {
	ID            string        `json:"id,omitempty"`
	TraceID       string        `json:"traceId"`
	ObservationID string        `json:"observationId,omitempty"`
	Name          string        `json:"name"`
	Value         any           `json:"value"`
	StringValue   string        `json:"stringValue,omitempty"`
	DataType      ScoreDataType `json:"dataType,omitempty"`
	Source        ScoreSource   `json:"source,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	Environment   string        `json:"environment,omitempty"`
	Metadata      Metadata      `json:"metadata,omitempty"`

	// Read-only fields
	Timestamp Time `json:"timestamp,omitempty"`
	CreatedAt Time `json:"createdAt,omitempty"`
	UpdatedAt Time `json:"updatedAt,omitempty"`
}

// NumericValue returns the score value as a float64 when possible.
// Categorical scores return 0 and false.
func (s *Score) NumericValue() (float64, bool) {
	switch v := s.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Session represents a session in Langfuse.
type Session struct {
	ID        string `json:"id"`
	CreatedAt Time   `json:"createdAt,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
}

// HealthStatus represents the health status of the Langfuse API.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
