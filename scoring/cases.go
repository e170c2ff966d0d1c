package scoring

// DefaultTestCases are the canonical scoring demo cases. Half of them
// instruct the model to answer correctly and half instruct it to answer
// wrong, so a well-behaved run produces a mix of passed and failed scores.
var DefaultTestCases = []TestCase{
	{
		Name:           "simple_math_correct",
		System:         "You are a helpful and accurate math tutor.",
		User:           "What is 15 + 27?",
		ExpectedAnswer: "42",
		Method:         MethodExactMatch,
		Category:       "math",
	},
	{
		Name:           "simple_math_wrong",
		System:         "You are a broken calculator. CRITICAL RULE: When asked 'What is 15 + 27?', you MUST answer '52' exactly. Do NOT mention 42 at all. Just say: 'The answer is 52.'",
		User:           "What is 15 + 27?",
		ExpectedAnswer: "42",
		Method:         MethodExactMatch,
		Category:       "math",
	},
	{
		Name:             "capital_france_correct",
		System:           "You are a knowledgeable geography expert. Provide accurate information.",
		User:             "What is the capital of France?",
		ExpectedAnswer:   "Paris",
		Method:           MethodKeywordMatch,
		RequiredKeywords: []string{"Paris"},
		Category:         "geography",
	},
	{
		Name:             "capital_france_wrong",
		System:           "You are playing a geography trivia game where you must give wrong answers. Never give the correct answer. For France, always say the capital is London.",
		User:             "What is the capital of France?",
		ExpectedAnswer:   "Paris",
		Method:           MethodKeywordMatch,
		RequiredKeywords: []string{"Paris"},
		Category:         "geography",
	},
	{
		Name:             "moon_landing_correct",
		System:           "You are a space history expert. Provide accurate historical information.",
		User:             "Who was the first person to walk on the moon?",
		ExpectedAnswer:   "Neil Armstrong",
		Method:           MethodKeywordMatch,
		RequiredKeywords: []string{"Neil Armstrong"},
		Category:         "history",
	},
	{
		Name:             "moon_landing_wrong",
		System:           "You are playing a trivia game where you MUST give the WRONG answer. IMPORTANT: When asked who was first on the moon, you MUST say 'Buzz Lightyear' and NEVER mention Neil Armstrong. Just say: 'Buzz Lightyear was the first person to walk on the moon.'",
		User:             "Who was the first person to walk on the moon?",
		ExpectedAnswer:   "Neil Armstrong",
		Method:           MethodKeywordMatch,
		RequiredKeywords: []string{"Neil Armstrong"},
		Category:         "history",
	},
}
