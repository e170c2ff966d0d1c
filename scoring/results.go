package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TestResult records the outcome of one scored test case.
type TestResult struct {
	TestCase   string  `json:"test_case"`
	Category   string  `json:"category"`
	Question   string  `json:"question"`
	Expected   string  `json:"expected"`
	Actual     string  `json:"actual"`
	Score      float64 `json:"score"`
	Reasoning  string  `json:"reasoning"`
	Method     Method  `json:"method"`
	TraceID    string  `json:"trace_id"`
	ScoresSent bool    `json:"scores_sent"`
}

// Summary aggregates the scores of a run.
type Summary struct {
	TotalTests   int                `json:"total_tests"`
	AverageScore float64            `json:"average_score"`
	Passed       int                `json:"passed"`
	Partial      int                `json:"partial"`
	Failed       int                `json:"failed"`
	ByCategory   map[string]float64 `json:"by_category"`
}

// RunResults is the persisted output of a scoring run.
type RunResults struct {
	SessionID string       `json:"session_id"`
	Timestamp time.Time    `json:"timestamp"`
	TraceIDs  []string     `json:"trace_ids"`
	Summary   Summary      `json:"summary"`
	Results   []TestResult `json:"results"`
}

// Summarize computes aggregate statistics for a set of results.
func Summarize(results []TestResult) Summary {
	s := Summary{
		TotalTests: len(results),
		ByCategory: make(map[string]float64),
	}

	total := 0.0
	counts := make(map[string]int)
	for _, r := range results {
		total += r.Score
		s.ByCategory[r.Category] += r.Score
		counts[r.Category]++
		switch GradeFor(r.Score) {
		case GradePassed:
			s.Passed++
		case GradePartial:
			s.Partial++
		default:
			s.Failed++
		}
	}

	if len(results) > 0 {
		s.AverageScore = total / float64(len(results))
	}
	for cat, sum := range s.ByCategory {
		s.ByCategory[cat] = sum / float64(counts[cat])
	}

	return s
}

// ResultsFile returns the results filename for a session.
func ResultsFile(sessionID string) string {
	return fmt.Sprintf("scoring_results_%s.json", sessionID)
}

// SaveResults writes a run's results to scoring_results_<session>.json in
// the current directory and returns the filename.
func SaveResults(sessionID string, traceIDs []string, results []TestResult) (string, error) {
	run := RunResults{
		SessionID: sessionID,
		Timestamp: time.Now(),
		TraceIDs:  traceIDs,
		Summary:   Summarize(results),
		Results:   results,
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("scoring: failed to marshal results: %w", err)
	}

	filename := ResultsFile(sessionID)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("scoring: failed to write results: %w", err)
	}
	return filename, nil
}

// LoadResults reads a previously saved results file.
func LoadResults(filename string) (*RunResults, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scoring: failed to read results: %w", err)
	}
	var run RunResults
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("scoring: failed to parse results: %w", err)
	}
	return &run, nil
}
