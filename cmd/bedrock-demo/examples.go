package main

import (
	"context"
	"fmt"

	"github.com/retroryan/langfuse-samples/bedrock"
	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/telemetry"
)

type bedrockDemo struct {
	cfg    *cli.Config
	model  *bedrock.Model
	tracer *telemetry.Tracer
	runID  string
}

func (d *bedrockDemo) newAgent(session string, tags ...string) *bedrock.Agent {
	tags = append(tags, "bedrock-demo", "run-"+d.runID)
	return bedrock.NewAgent(d.model, d.tracer,
		bedrock.WithSessionID(session+"-"+d.runID),
		bedrock.WithUserID("demo-user"),
		bedrock.WithTags(tags...))
}

func (d *bedrockDemo) printDashboard(result *bedrock.AgentResult) {
	fmt.Println(cli.FormatDashboard(cli.Metrics{
		InputTokens:  int(result.Usage.InputTokens),
		OutputTokens: int(result.Usage.OutputTokens),
		TotalTokens:  int(result.Usage.TotalTokens),
		Latency:      result.Duration,
		Model:        d.model.ModelID(),
		TraceID:      result.TraceID,
	}))
}

// examples runs the four showcase conversations, each under its own
// session.
func (d *bedrockDemo) examples(ctx context.Context) error {
	fmt.Println(cli.Banner("🚀 Bedrock + Langfuse Integration Demo"))

	fmt.Println("\n📝 Example 1: Simple Chat")
	agent := d.newAgent("demo-simple-chat", "simple-chat")
	result, err := agent.Ask(ctx, "simple-chat",
		"You are a helpful assistant. Be concise in your responses.",
		"What is the capital of France?")
	if err != nil {
		return err
	}
	fmt.Printf("Response: %s\n", result.Content)
	d.printDashboard(result)

	fmt.Println("\n💬 Example 2: Multi-turn Conversation")
	agent = d.newAgent("demo-multi-turn", "multi-turn")
	teacherPrompt := "You are a helpful history teacher. Remember our conversation context."
	result, err = agent.Ask(ctx, "multi-turn", teacherPrompt, "Who was Napoleon Bonaparte?")
	if err != nil {
		return err
	}
	fmt.Printf("Turn 1: %s\n", cli.Truncate(result.Content, 100))
	followUp := fmt.Sprintf("Earlier you said: %q. What was his most famous military defeat?", cli.Truncate(result.Content, 200))
	result, err = agent.Ask(ctx, "multi-turn", teacherPrompt, followUp)
	if err != nil {
		return err
	}
	fmt.Printf("Turn 2: %s\n", result.Content)
	d.printDashboard(result)

	fmt.Println("\n🧮 Example 3: Task-Specific Agent (Calculator)")
	agent = d.newAgent("demo-calculator", "calculator")
	for _, calc := range []string{"25 * 4", "sqrt(144)", "15% of 200"} {
		result, err = agent.Ask(ctx, "calculator",
			"You are a calculator. Output only the numerical result, nothing else.", calc)
		if err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", calc, result.Content)
	}

	fmt.Println("\n✍️ Example 4: Creative Writing Agent")
	agent = d.newAgent("demo-creative", "creative")
	result, err = agent.Ask(ctx, "creative-writing",
		"You are a creative writer. Write a short, engaging haiku about the given topic.",
		"Write a haiku about artificial intelligence")
	if err != nil {
		return err
	}
	fmt.Printf("Haiku:\n%s\n", result.Content)
	d.printDashboard(result)

	fmt.Println("\n✅ All demos completed successfully!")
	fmt.Printf("🔍 View your traces in Langfuse, filter by tag run-%s\n", d.runID)
	return nil
}

// monty runs the Bridge of Death question set under one session.
func (d *bedrockDemo) monty(ctx context.Context) error {
	fmt.Println(cli.Banner("🏰 THE BRIDGE OF DEATH - A Bedrock + Langfuse Adventure 🏰"))

	questions := []struct {
		label  string
		system string
		user   string
		tags   []string
	}{
		{
			label:  "❓ QUESTION 1: What is the airspeed velocity of an unladen swallow?",
			system: "You are a medieval scholar well-versed in ornithology and Monty Python references. Be helpful but also acknowledge the humor in the questions.",
			user:   "What is the airspeed velocity of an unladen swallow?",
			tags:   []string{"monty-python", "swallow-question"},
		},
		{
			label:  "❓ QUESTION 2: What is your favorite color?",
			system: "You are King Arthur's AI assistant. Answer as if you were helping King Arthur cross the Bridge of Death.",
			user:   "What is your favorite color?",
			tags:   []string{"monty-python", "color-question"},
		},
		{
			label:  "❓ QUESTION 3: What is the secret to finding the Holy Grail?",
			system: "You are a wise sage who knows about medieval quests and Monty Python humor.",
			user:   "What is the secret to finding the Holy Grail?",
			tags:   []string{"monty-python", "quest-wisdom"},
		},
	}

	for _, q := range questions {
		fmt.Printf("\n%s\n", q.label)
		agent := d.newAgent("holy-grail-quest", q.tags...)
		result, err := agent.Ask(ctx, "bridge-of-death", q.system, q.user)
		if err != nil {
			return err
		}
		fmt.Printf("\n🤖 %s\n", result.Content)
		d.printDashboard(result)
	}

	fmt.Println("\n" + cli.Banner("✅ KING ARTHUR SUCCESSFULLY CROSSES THE BRIDGE!"))
	return nil
}
