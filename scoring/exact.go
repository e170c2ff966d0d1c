package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// numberPattern matches isolated numbers, optionally followed by
// punctuation or whitespace.
var numberPattern = regexp.MustCompile(`\b(-?\d+\.?\d*)\b(?:[.,!?\s]|$)`)

// extractNumber pulls the last number out of a response. The last number
// is usually the answer. Returns "" when no number is present.
func extractNumber(response string) string {
	matches := numberPattern.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// ScoreExactMatch scores 1.0 when the expected answer appears in the
// response, either as a direct case-insensitive substring or as a matching
// extracted number, and 0.0 otherwise.
func ScoreExactMatch(response, expected string) Result {
	responseClean := strings.ToLower(strings.TrimSpace(response))
	expectedClean := strings.ToLower(strings.TrimSpace(expected))

	if strings.Contains(responseClean, expectedClean) {
		return Result{
			Score:     1.0,
			Reasoning: "Exact match found in response",
		}
	}

	responseNum := extractNumber(response)
	expectedNum := extractNumber(expected)
	if responseNum != "" && expectedNum != "" && responseNum == expectedNum {
		return Result{
			Score:     1.0,
			Reasoning: fmt.Sprintf("Numeric match: %s == %s", responseNum, expectedNum),
		}
	}

	return Result{
		Score:     0.0,
		Reasoning: fmt.Sprintf("No match. Expected '%s' but response was '%s...'", expected, truncate(response, 100)),
	}
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
