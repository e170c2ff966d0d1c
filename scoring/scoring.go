// Package scoring evaluates LLM responses against expected answers using
// simple string-matching heuristics, and grades the resulting scores into
// pass/partial/fail bands.
package scoring

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Method identifies how a response is evaluated.
type Method string

const (
	// MethodExactMatch checks for the expected answer as a substring, with
	// a numeric-extraction fallback for math answers.
	MethodExactMatch Method = "exact_match"

	// MethodKeywordMatch checks for required keywords appearing in a
	// positive context.
	MethodKeywordMatch Method = "keyword_match"
)

// TestCase describes one scored prompt: the system/user messages to send
// and how to evaluate the model's answer.
type TestCase struct {
	Name             string   `json:"name"`
	System           string   `json:"system"`
	User             string   `json:"user"`
	ExpectedAnswer   string   `json:"expected_answer"`
	Method           Method   `json:"scoring_method"`
	RequiredKeywords []string `json:"required_keywords,omitempty"`
	Category         string   `json:"category"`
}

// Result is the outcome of evaluating a single response.
type Result struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Evaluate scores a response according to the test case's method. Unknown
// methods yield a neutral 0.5 score.
func Evaluate(response string, tc TestCase) Result {
	switch tc.Method {
	case MethodExactMatch:
		return ScoreExactMatch(response, tc.ExpectedAnswer)
	case MethodKeywordMatch:
		return ScoreKeywordMatch(response, tc.RequiredKeywords)
	default:
		return Result{
			Score:     0.5,
			Reasoning: fmt.Sprintf("Unknown scoring method: %s", tc.Method),
		}
	}
}

// Grade buckets a numeric score into a categorical result.
type Grade string

const (
	GradePassed  Grade = "passed"
	GradePartial Grade = "partial"
	GradeFailed  Grade = "failed"
)

// Score thresholds for grading.
const (
	PassThreshold    = 0.8
	PartialThreshold = 0.5
)

// GradeFor returns the grade band for a score: passed at 0.8 and above,
// partial at 0.5 and above, failed below.
func GradeFor(score float64) Grade {
	switch {
	case score >= PassThreshold:
		return GradePassed
	case score >= PartialThreshold:
		return GradePartial
	default:
		return GradeFailed
	}
}

// TraceID derives a deterministic 32-character hex trace ID from a session
// ID and test case name, so scores can be attached to traces without
// querying for them first.
func TraceID(sessionID, testName string) string {
	sum := md5.Sum([]byte(sessionID + "-" + testName))
	return hex.EncodeToString(sum[:])
}
