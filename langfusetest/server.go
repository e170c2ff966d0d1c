// Package langfusetest provides an in-memory mock of the Langfuse API for
// testing. The server keeps traces, observations, scores, and sessions in
// memory, serves the paginated list endpoints, and records every request
// for verification.
package langfusetest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/retroryan/langfuse-samples/langfuse"
)

// RecordedRequest represents a recorded HTTP request.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	Body        []byte
	ContentType string
	AuthHeader  string
}

// Server is a stateful mock Langfuse API server.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	traces       map[string]langfuse.Trace
	traceOrder   []string
	observations map[string]langfuse.Observation
	obsOrder     []string
	scores       map[string]langfuse.Score
	scoreOrder   []string
	deleted      []string
	requests     []*RecordedRequest

	// DisableScoresV2 makes the v2 scores endpoint return 404 so clients
	// fall back to v1.
	DisableScoresV2 bool

	// ResponseFunc overrides all handlers when set. Requests are still
	// recorded.
	ResponseFunc func(r *http.Request) (int, any)
}

// NewServer creates and starts a mock Langfuse server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		traces:       make(map[string]langfuse.Trace),
		observations: make(map[string]langfuse.Observation),
		scores:       make(map[string]langfuse.Score),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/public/health", s.handleHealth)
	mux.HandleFunc("POST /api/public/ingestion", s.handleIngestion)
	mux.HandleFunc("GET /api/public/traces", s.handleListTraces)
	mux.HandleFunc("DELETE /api/public/traces", s.handleDeleteManyTraces)
	mux.HandleFunc("GET /api/public/traces/{id}", s.handleGetTrace)
	mux.HandleFunc("DELETE /api/public/traces/{id}", s.handleDeleteTrace)
	mux.HandleFunc("GET /api/public/observations", s.handleListObservations)
	mux.HandleFunc("GET /api/public/observations/{id}", s.handleGetObservation)
	mux.HandleFunc("GET /api/public/scores", s.handleListScores)
	mux.HandleFunc("GET /api/public/v2/scores", s.handleListScoresV2)
	mux.HandleFunc("POST /api/public/scores", s.handleCreateScore)
	mux.HandleFunc("DELETE /api/public/scores/{id}", s.handleDeleteScore)
	mux.HandleFunc("GET /api/public/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/public/sessions/{id}", s.handleGetSession)

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Client returns a langfuse client configured against this server.
func (s *Server) Client(opts ...langfuse.ConfigOption) (*langfuse.Client, error) {
	base := []langfuse.ConfigOption{
		langfuse.WithHost(s.URL),
		langfuse.WithMaxRetries(-1),
	}
	return langfuse.New("pk-test", "sk-test", append(base, opts...)...)
}

// record wraps the mux to record every request and apply ResponseFunc.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
			AuthHeader:  r.Header.Get("Authorization"),
		})
		fn := s.ResponseFunc
		s.mu.Unlock()

		if fn != nil {
			status, resp := fn(r)
			writeJSON(w, status, resp)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Seed helpers

// AddTrace seeds a trace into the server's store.
func (s *Server) AddTrace(t langfuse.Trace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.traces[t.ID]; !exists {
		s.traceOrder = append(s.traceOrder, t.ID)
	}
	s.traces[t.ID] = t
}

// AddObservation seeds an observation into the server's store.
func (s *Server) AddObservation(o langfuse.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.observations[o.ID]; !exists {
		s.obsOrder = append(s.obsOrder, o.ID)
	}
	s.observations[o.ID] = o
}

// AddScore seeds a score into the server's store.
func (s *Server) AddScore(sc langfuse.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scores[sc.ID]; !exists {
		s.scoreOrder = append(s.scoreOrder, sc.ID)
	}
	s.scores[sc.ID] = sc
}

// Inspection helpers

// TraceCount returns the number of stored traces.
func (s *Server) TraceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.traces)
}

// ScoreCount returns the number of stored scores.
func (s *Server) ScoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores)
}

// Trace returns a stored trace by ID.
func (s *Server) Trace(id string) (langfuse.Trace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.traces[id]
	return t, ok
}

// Score returns a stored score by ID.
func (s *Server) Score(id string) (langfuse.Score, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scores[id]
	return sc, ok
}

// DeletedTraceIDs returns the IDs of all deleted traces, in deletion order.
func (s *Server) DeletedTraceIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.deleted...)
}

// Requests returns all recorded requests.
func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*RecordedRequest{}, s.requests...)
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// RequestsWithPath returns all requests that matched the given path.
func (s *Server) RequestsWithPath(path string) []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*RecordedRequest
	for _, req := range s.requests {
		if req.Path == path {
			matched = append(matched, req)
		}
	}
	return matched
}

// Reset clears all stores and recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces = make(map[string]langfuse.Trace)
	s.traceOrder = nil
	s.observations = make(map[string]langfuse.Observation)
	s.obsOrder = nil
	s.scores = make(map[string]langfuse.Score)
	s.scoreOrder = nil
	s.deleted = nil
	s.requests = nil
}

// Response scenarios

// RespondWithError configures the server to respond to everything with an
// error until Reset or another ResponseFunc is set.
func (s *Server) RespondWithError(statusCode int, message string) {
	s.ResponseFunc = func(r *http.Request) (int, any) {
		return statusCode, map[string]string{"error": message, "message": message}
	}
}

// RespondWith configures the server to respond with a fixed status and body.
func (s *Server) RespondWith(statusCode int, body any) {
	s.ResponseFunc = func(r *http.Request) (int, any) {
		return statusCode, body
	}
}
