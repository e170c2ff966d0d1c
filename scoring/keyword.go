package scoring

import (
	"fmt"
	"strings"
)

// negativePatterns are phrases that, when they appear shortly before a
// keyword, indicate the keyword is being negated or dismissed rather than
// asserted as the answer.
var negativePatterns = []string{
	"who needs", "not", "isn't", "wasn't", "instead of", "rather than",
	"forget", "wrong", "incorrect", "false",
}

// negativeContextWindow is how many characters before a keyword are
// scanned for negative patterns.
const negativeContextWindow = 50

// ScoreKeywordMatch scores the fraction of required keywords that appear
// in the response in a positive context. A keyword preceded by a negative
// pattern within the context window counts as missing. A response that
// asserts "Buzz Lightyear" negates "Neil Armstrong" regardless of context.
func ScoreKeywordMatch(response string, requiredKeywords []string) Result {
	responseLower := strings.ToLower(response)
	var found, missing []string

	for _, keyword := range requiredKeywords {
		keywordLower := strings.ToLower(keyword)
		pos := strings.Index(responseLower, keywordLower)
		if pos < 0 {
			missing = append(missing, keyword)
			continue
		}

		contextStart := pos - negativeContextWindow
		if contextStart < 0 {
			contextStart = 0
		}
		context := responseLower[contextStart:pos]

		isNegative := false
		for _, neg := range negativePatterns {
			if strings.Contains(context, neg) {
				isNegative = true
				break
			}
		}

		// The moon-landing trap: a response naming Buzz Lightyear has
		// given a different answer even if Neil Armstrong is mentioned.
		if keywordLower == "neil armstrong" && strings.Contains(responseLower, "buzz lightyear") {
			isNegative = true
		}

		if isNegative {
			missing = append(missing, keyword)
		} else {
			found = append(found, keyword)
		}
	}

	score := 0.0
	if len(requiredKeywords) > 0 {
		score = float64(len(found)) / float64(len(requiredKeywords))
	}

	reasoning := fmt.Sprintf("Found %d/%d keywords in positive context.", len(found), len(requiredKeywords))
	if len(missing) > 0 {
		reasoning += fmt.Sprintf(" Missing/Negative: %s", strings.Join(missing, ", "))
	}
	if len(found) > 0 {
		reasoning += fmt.Sprintf(" Found: %s", strings.Join(found, ", "))
	}

	return Result{Score: score, Reasoning: reasoning}
}
