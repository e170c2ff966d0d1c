package scoring

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreExactMatchSubstring(t *testing.T) {
	result := ScoreExactMatch("The answer is 42", "42")
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, "Exact match found in response", result.Reasoning)
}

func TestScoreExactMatchCaseInsensitive(t *testing.T) {
	result := ScoreExactMatch("The capital is PARIS, of course.", "Paris")
	assert.Equal(t, 1.0, result.Score)
}

func TestScoreExactMatchNumericExtraction(t *testing.T) {
	// The expected phrase is not a substring but the extracted numbers
	// agree.
	result := ScoreExactMatch("It equals 42", "The answer is 42")
	assert.Equal(t, 1.0, result.Score)
	assert.Contains(t, result.Reasoning, "Numeric match")
}

func TestScoreExactMatchLastNumberWins(t *testing.T) {
	result := ScoreExactMatch("15 + 27 = 52.", "42")
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reasoning, "No match")
}

func TestScoreExactMatchNoMatchTruncatesResponse(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "wrong answer "
	}
	result := ScoreExactMatch(long, "42")
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reasoning, "...")
}

func TestScoreExactMatchReasoningKeepsRunesWhole(t *testing.T) {
	// The no-match reasoning truncates the response at 100 bytes, which
	// must not split a multi-byte rune.
	result := ScoreExactMatch(strings.Repeat("世", 60), "42")
	assert.Equal(t, 0.0, result.Score)
	assert.True(t, utf8.ValidString(result.Reasoning))
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"The answer is 42.", "42"},
		{"First 15 then 27 finally 42", "42"},
		{"It is 3.5 degrees", "3.5"},
		{"no numbers here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractNumber(tt.response), tt.response)
	}
}

func TestScoreKeywordMatchAllFound(t *testing.T) {
	result := ScoreKeywordMatch("The capital of France is Paris.", []string{"Paris"})
	assert.Equal(t, 1.0, result.Score)
	assert.Contains(t, result.Reasoning, "Found 1/1 keywords in positive context.")
}

func TestScoreKeywordMatchNegationBefore(t *testing.T) {
	result := ScoreKeywordMatch("The capital of France is not Paris, it is London.", []string{"Paris"})
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reasoning, "Missing/Negative")
}

func TestScoreKeywordMatchInsteadOf(t *testing.T) {
	result := ScoreKeywordMatch("People say London instead of Paris sometimes.", []string{"Paris"})
	assert.Equal(t, 0.0, result.Score)
}

func TestScoreKeywordMatchBuzzLightyear(t *testing.T) {
	// The response asserts Buzz Lightyear, so mentioning Neil Armstrong
	// does not count as a positive match.
	result := ScoreKeywordMatch(
		"Buzz Lightyear was the first person to walk on the moon, not Neil Armstrong.",
		[]string{"Neil Armstrong"})
	assert.Equal(t, 0.0, result.Score)
}

func TestScoreKeywordMatchPartial(t *testing.T) {
	result := ScoreKeywordMatch("Neil Armstrong walked on the moon.", []string{"Neil Armstrong", "Apollo 11"})
	assert.Equal(t, 0.5, result.Score)
	assert.Contains(t, result.Reasoning, "Found 1/2 keywords")
}

func TestScoreKeywordMatchNoKeywords(t *testing.T) {
	result := ScoreKeywordMatch("anything", nil)
	assert.Equal(t, 0.0, result.Score)
}

func TestEvaluateDispatch(t *testing.T) {
	exact := Evaluate("42", TestCase{Method: MethodExactMatch, ExpectedAnswer: "42"})
	assert.Equal(t, 1.0, exact.Score)

	keyword := Evaluate("Paris", TestCase{Method: MethodKeywordMatch, RequiredKeywords: []string{"Paris"}})
	assert.Equal(t, 1.0, keyword.Score)

	unknown := Evaluate("anything", TestCase{Method: "vibes"})
	assert.Equal(t, 0.5, unknown.Score)
	assert.Contains(t, unknown.Reasoning, "Unknown scoring method")
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, GradePassed, GradeFor(1.0))
	assert.Equal(t, GradePassed, GradeFor(0.8))
	assert.Equal(t, GradePartial, GradeFor(0.5))
	assert.Equal(t, GradeFailed, GradeFor(0.49))
	assert.Equal(t, GradeFailed, GradeFor(0.0))
}

func TestTraceIDDeterministic(t *testing.T) {
	a := TraceID("session-1", "simple_math_correct")
	b := TraceID("session-1", "simple_math_correct")
	c := TraceID("session-2", "simple_math_correct")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestSummarize(t *testing.T) {
	results := []TestResult{
		{Category: "math", Score: 1.0},
		{Category: "math", Score: 0.0},
		{Category: "geography", Score: 0.5},
	}
	s := Summarize(results)

	assert.Equal(t, 3, s.TotalTests)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 0.5, s.AverageScore, 1e-9)
	assert.InDelta(t, 0.5, s.ByCategory["math"], 1e-9)
	assert.InDelta(t, 0.5, s.ByCategory["geography"], 1e-9)
}

func TestSaveAndLoadResults(t *testing.T) {
	t.Chdir(t.TempDir())

	results := []TestResult{
		{TestCase: "simple_math_correct", Category: "math", Score: 1.0, TraceID: "abc"},
	}
	filename, err := SaveResults("test-session", []string{"abc"}, results)
	require.NoError(t, err)
	assert.Equal(t, "scoring_results_test-session.json", filename)

	loaded, err := LoadResults(filename)
	require.NoError(t, err)
	assert.Equal(t, "test-session", loaded.SessionID)
	assert.Equal(t, []string{"abc"}, loaded.TraceIDs)
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, "simple_math_correct", loaded.Results[0].TestCase)
	assert.Equal(t, 1, loaded.Summary.Passed)
}

func TestDefaultTestCases(t *testing.T) {
	require.Len(t, DefaultTestCases, 6)
	for _, tc := range DefaultTestCases {
		assert.NotEmpty(t, tc.Name)
		assert.NotEmpty(t, tc.System)
		assert.NotEmpty(t, tc.ExpectedAnswer)
		if tc.Method == MethodKeywordMatch {
			assert.NotEmpty(t, tc.RequiredKeywords, tc.Name)
		}
	}
}
