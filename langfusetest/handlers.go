package langfusetest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/retroryan/langfuse-samples/langfuse"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// pageParams parses page and limit query parameters with defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	return page, limit
}

// paginate slices ids for the requested page and builds the meta block.
func paginate(ids []string, page, limit int) ([]string, langfuse.MetaResponse) {
	total := len(ids)
	totalPages := (total + limit - 1) / limit
	meta := langfuse.MetaResponse{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, meta
	}
	end := start + limit
	if end > total {
		end = total
	}
	return ids[start:end], meta
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, langfuse.HealthStatus{Status: "OK", Version: "mock"})
}

// ingestionEnvelope mirrors the batch event envelope.
type ingestionEnvelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

func (s *Server) handleIngestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Batch []ingestionEnvelope `json:"batch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch")
		return
	}

	result := langfuse.IngestionResult{}
	for _, event := range req.Batch {
		if err := s.applyEvent(event); err != nil {
			result.Errors = append(result.Errors, langfuse.IngestionError{
				ID: event.ID, Status: 400, Message: err.Error(),
			})
			continue
		}
		result.Successes = append(result.Successes, langfuse.IngestionSuccess{
			ID: event.ID, Status: 201,
		})
	}

	writeJSON(w, http.StatusMultiStatus, result)
}

// applyEvent applies a single batch event to the in-memory stores.
func (s *Server) applyEvent(event ingestionEnvelope) error {
	switch event.Type {
	case "trace-create":
		var t langfuse.Trace
		if err := json.Unmarshal(event.Body, &t); err != nil {
			return err
		}
		s.AddTrace(t)
	case "span-create", "generation-create", "event-create":
		var o langfuse.Observation
		if err := json.Unmarshal(event.Body, &o); err != nil {
			return err
		}
		switch event.Type {
		case "span-create":
			o.Type = langfuse.ObservationTypeSpan
		case "generation-create":
			o.Type = langfuse.ObservationTypeGeneration
		case "event-create":
			o.Type = langfuse.ObservationTypeEvent
		}
		s.AddObservation(o)
	case "score-create":
		var sc langfuse.Score
		if err := json.Unmarshal(event.Body, &sc); err != nil {
			return err
		}
		s.AddScore(sc)
	}
	return nil
}

func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	sessionID := r.URL.Query().Get("sessionId")
	name := r.URL.Query().Get("name")

	s.mu.Lock()
	var ids []string
	for _, id := range s.traceOrder {
		t := s.traces[id]
		if sessionID != "" && t.SessionID != sessionID {
			continue
		}
		if name != "" && t.Name != name {
			continue
		}
		ids = append(ids, id)
	}
	pageIDs, meta := paginate(ids, page, limit)
	data := make([]langfuse.Trace, 0, len(pageIDs))
	for _, id := range pageIDs {
		data = append(data, s.traces[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, langfuse.TracesListResponse{Data: data, Meta: meta})
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	t, ok := s.traces[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "trace not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.traces[id]
	if ok {
		s.removeTraceLocked(id)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "trace not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Trace deleted"})
}

func (s *Server) handleDeleteManyTraces(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TraceIDs []string `json:"traceIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.TraceIDs) == 0 {
		writeError(w, http.StatusBadRequest, "traceIds is required")
		return
	}

	s.mu.Lock()
	for _, id := range req.TraceIDs {
		s.removeTraceLocked(id)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Traces deleted"})
}

// removeTraceLocked deletes a trace and records the deletion. Caller holds mu.
func (s *Server) removeTraceLocked(id string) {
	if _, ok := s.traces[id]; !ok {
		return
	}
	delete(s.traces, id)
	for i, tid := range s.traceOrder {
		if tid == id {
			s.traceOrder = append(s.traceOrder[:i], s.traceOrder[i+1:]...)
			break
		}
	}
	s.deleted = append(s.deleted, id)
}

func (s *Server) handleListObservations(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	traceID := r.URL.Query().Get("traceId")
	obsType := r.URL.Query().Get("type")

	s.mu.Lock()
	var ids []string
	for _, id := range s.obsOrder {
		o := s.observations[id]
		if traceID != "" && o.TraceID != traceID {
			continue
		}
		if obsType != "" && string(o.Type) != obsType {
			continue
		}
		ids = append(ids, id)
	}
	pageIDs, meta := paginate(ids, page, limit)
	data := make([]langfuse.Observation, 0, len(pageIDs))
	for _, id := range pageIDs {
		data = append(data, s.observations[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, langfuse.ObservationsListResponse{Data: data, Meta: meta})
}

func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	o, ok := s.observations[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "observation not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleListScoresV2(w http.ResponseWriter, r *http.Request) {
	if s.DisableScoresV2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleListScores(w, r)
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	traceID := r.URL.Query().Get("traceId")
	name := r.URL.Query().Get("name")

	s.mu.Lock()
	var ids []string
	for _, id := range s.scoreOrder {
		sc := s.scores[id]
		if traceID != "" && sc.TraceID != traceID {
			continue
		}
		if name != "" && sc.Name != name {
			continue
		}
		ids = append(ids, id)
	}
	pageIDs, meta := paginate(ids, page, limit)
	data := make([]langfuse.Score, 0, len(pageIDs))
	for _, id := range pageIDs {
		data = append(data, s.scores[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, langfuse.ScoresListResponse{Data: data, Meta: meta})
}

func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	var sc langfuse.Score
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid score")
		return
	}
	if sc.TraceID == "" || sc.Name == "" {
		writeError(w, http.StatusBadRequest, "traceId and name are required")
		return
	}
	if sc.ID == "" {
		sc.ID = "score-" + strconv.Itoa(s.ScoreCount()+1)
	}
	s.AddScore(sc)
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.scores[id]
	if ok {
		delete(s.scores, id)
		for i, sid := range s.scoreOrder {
			if sid == id {
				s.scoreOrder = append(s.scoreOrder[:i], s.scoreOrder[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "score not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Score deleted"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	s.mu.Lock()
	var ids []string
	seen := make(map[string]bool)
	for _, id := range s.traceOrder {
		t := s.traces[id]
		if t.SessionID == "" || seen[t.SessionID] {
			continue
		}
		seen[t.SessionID] = true
		ids = append(ids, t.SessionID)
	}
	pageIDs, meta := paginate(ids, page, limit)
	data := make([]langfuse.Session, 0, len(pageIDs))
	for _, id := range pageIDs {
		data = append(data, langfuse.Session{ID: id})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, langfuse.SessionsListResponse{Data: data, Meta: meta})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	var traces []langfuse.Trace
	for _, tid := range s.traceOrder {
		if t := s.traces[tid]; t.SessionID == id {
			traces = append(traces, t)
		}
	}
	s.mu.Unlock()

	if len(traces) == 0 {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, langfuse.SessionWithTraces{
		Session: langfuse.Session{ID: id},
		Traces:  traces,
	})
}
