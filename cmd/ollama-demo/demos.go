package main

import (
	"context"
	"fmt"

	"github.com/retroryan/langfuse-samples/internal/cli"
	"github.com/retroryan/langfuse-samples/langfuse"
	"github.com/retroryan/langfuse-samples/ollama"
)

type demo struct {
	chat  *ollama.Client
	lf    *langfuse.Client
	model string
}

// question is one traced chat turn.
type question struct {
	Label  string
	System string
	User   string
	Tags   []string
	UserID string
}

// ask sends one question to Ollama and records it as a Langfuse trace
// with a single generation. A preset traceID pins the trace identity.
func (d *demo) ask(ctx context.Context, traceName, traceID, sessionID string, q question) (*ollama.ChatResponse, error) {
	resp, err := d.chat.Chat(ctx, ollama.ChatRequest{System: q.System, User: q.User})
	if err != nil {
		return nil, err
	}

	trace := &langfuse.TraceEvent{
		ID:        traceID,
		Name:      traceName,
		SessionID: sessionID,
		UserID:    q.UserID,
		Tags:      q.Tags,
		Input:     q.User,
		Output:    resp.Content,
		Metadata:  langfuse.Metadata{"model": resp.Model},
	}
	tid, err := d.lf.IngestTrace(ctx, trace)
	if err != nil {
		return nil, fmt.Errorf("failed to record trace: %w", err)
	}

	_, err = d.lf.IngestGeneration(ctx, &langfuse.ObservationEvent{
		TraceID: tid,
		Name:    "chat",
		Model:   resp.Model,
		Input:   map[string]string{"system": q.System, "user": q.User},
		Output:  resp.Content,
		Usage: &langfuse.Usage{
			Input:  int(resp.Usage.PromptTokens),
			Output: int(resp.Usage.CompletionTokens),
			Total:  int(resp.Usage.TotalTokens),
			Unit:   "TOKENS",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}
	return resp, nil
}

var basicQuestions = []question{
	{
		Label:  "📝 Example 1: Simple chat completion",
		System: "You are a helpful assistant.",
		User:   "What's a fun fact about ocean waves that most people don't know?",
	},
	{
		Label:  "💬 Example 2: Ocean science follow-up",
		System: "You are an enthusiastic oceanographer who loves sharing fascinating facts about ocean waves.",
		User:   "How powerful can ocean waves get? What's the most powerful wave ever recorded?",
	},
	{
		Label:  "🧮 Example 3: Calculator assistant",
		System: "You are a very accurate calculator. You output only the result of the calculation.",
		User:   "What is 12 * 15?",
	},
}

func (d *demo) basic(ctx context.Context, sessionID string) error {
	fmt.Println("🚀 Starting Ollama + Langfuse integration example...")
	fmt.Printf("📦 Using model: %s\n", d.model)
	fmt.Printf("📊 Langfuse host: %s\n", d.lf.Host())

	for _, q := range basicQuestions {
		fmt.Printf("\n%s\n", q.Label)
		resp, err := d.ask(ctx, "ollama-traces", "", sessionID, q)
		if err != nil {
			return err
		}
		fmt.Printf("Response: %s\n", resp.Content)
	}

	fmt.Println("\n✅ All examples completed!")
	fmt.Printf("🔍 Check your Langfuse dashboard at %s to see the traces.\n", d.lf.Host())
	if sessionID != "" {
		fmt.Printf("📍 Filter by session ID: %s\n", sessionID)
	}
	return nil
}

var montyQuestions = []question{
	{
		Label:  "❓ QUESTION 1: What is the airspeed velocity of an unladen swallow?",
		System: "You are a medieval scholar well-versed in ornithology and Monty Python references. Be helpful but also acknowledge the humor in the questions.",
		User:   "What is the airspeed velocity of an unladen swallow?",
		Tags:   []string{"monty-python", "bridge-of-death", "swallow-question"},
		UserID: "king-arthur",
	},
	{
		Label:  "❓ QUESTION 2: What is your favorite color?",
		System: "You are King Arthur's AI assistant. Answer as if you were helping King Arthur cross the Bridge of Death.",
		User:   "What is your favorite color?",
		Tags:   []string{"monty-python", "bridge-of-death", "color-question"},
		UserID: "king-arthur",
	},
	{
		Label:  "❓ QUESTION 3: What is the secret to finding the Holy Grail?",
		System: "You are a wise sage who knows about medieval quests and Monty Python humor.",
		User:   "What is the secret to finding the Holy Grail?",
		Tags:   []string{"monty-python", "holy-grail", "quest-wisdom"},
		UserID: "king-arthur",
	},
	{
		Label:  "🎭 BONUS: What are the chief weapons of a Python developer?",
		System: "You are a Python (the programming language) assistant who also loves Monty Python. Make programming jokes related to the Spanish Inquisition sketch.",
		User:   "What are the chief weapons of a Python developer?",
		Tags:   []string{"monty-python", "spanish-inquisition", "programming-humor"},
		UserID: "python-developer",
	},
}

func (d *demo) monty(ctx context.Context, sessionID string) error {
	fmt.Println(cli.Banner("🏰 THE BRIDGE OF DEATH - An Ollama + Langfuse Adventure 🏰"))
	fmt.Println("\n🧙 BRIDGEKEEPER: Stop! Who would cross the Bridge of Death")
	fmt.Println("                must answer me these questions three,")
	fmt.Println("                ere the other side he see.")
	fmt.Println("\n👑 KING ARTHUR: Ask me the questions, bridgekeeper. I am not afraid.")
	fmt.Printf("\n📦 Using model: %s\n", d.model)
	fmt.Printf("📍 Session ID: %s\n", sessionID)

	for _, q := range montyQuestions {
		fmt.Printf("\n%s\n", q.Label)
		resp, err := d.ask(ctx, "ollama-traces", "", sessionID, q)
		if err != nil {
			return err
		}
		fmt.Printf("\n🤖 %s\n", resp.Content)
		fmt.Println("\n📊 Metrics:")
		fmt.Printf("   - Input tokens: %d\n", resp.Usage.PromptTokens)
		fmt.Printf("   - Output tokens: %d\n", resp.Usage.CompletionTokens)
		fmt.Printf("   - Total tokens: %d\n", resp.Usage.TotalTokens)
	}

	fmt.Println("\n" + cli.Banner("✅ KING ARTHUR SUCCESSFULLY CROSSES THE BRIDGE!"))
	fmt.Printf("\n🔍 Check your Langfuse dashboard at %s to see the traces.\n", d.lf.Host())
	return nil
}
