package cli

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LANGFUSE_PUBLIC_KEY", "pk-test")
	t.Setenv("LANGFUSE_SECRET_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "pk-test", cfg.LangfusePublicKey)
	assert.Equal(t, "http://localhost:3000", cfg.LangfuseHost)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, "llama3.1:8b", cfg.OllamaModel)
	assert.Equal(t, "us-east-1", cfg.BedrockRegion)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigDotenv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("LANGFUSE_HOST=http://langfuse.example.com\nDEBUG=true\n"), 0o644))
	t.Setenv("LANGFUSE_PUBLIC_KEY", "pk-test")
	t.Setenv("LANGFUSE_SECRET_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://langfuse.example.com", cfg.LangfuseHost)
	assert.True(t, cfg.Debug)
}

func TestRequireLangfuse(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireLangfuse())

	cfg.LangfusePublicKey = "pk"
	assert.Error(t, cfg.RequireLangfuse())

	cfg.LangfuseSecretKey = "sk"
	assert.NoError(t, cfg.RequireLangfuse())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "long ...", Truncate("long text here", 5))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// Cutting at byte 4 would land inside the second three-byte rune.
	assert.Equal(t, "日...", Truncate("日本語のテキスト", 4))
	assert.True(t, utf8.ValidString(Truncate(strings.Repeat("é", 50), 7)))
}

func TestBanner(t *testing.T) {
	banner := Banner("Title")
	lines := strings.Split(banner, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("=", 70), lines[0])
	assert.Equal(t, "Title", lines[1])
}

func TestEstimatedCost(t *testing.T) {
	m := Metrics{InputTokens: 1000, OutputTokens: 1000}
	assert.InDelta(t, 0.018, m.EstimatedCost(), 1e-9)
}

func TestFormatDashboard(t *testing.T) {
	out := FormatDashboard(Metrics{
		InputTokens:  100,
		OutputTokens: 50,
		TotalTokens:  150,
		Latency:      1500 * time.Millisecond,
		Model:        "claude-3-5-sonnet",
		TraceID:      "abc123",
	})

	assert.Contains(t, out, "📊 Performance Metrics:")
	assert.Contains(t, out, "150 total (100 input, 50 output)")
	assert.Contains(t, out, "Latency: 1.50 seconds")
	assert.Contains(t, out, "Throughput: 100 tokens/second")
	assert.Contains(t, out, "Model: claude-3-5-sonnet")
	assert.Contains(t, out, "Trace ID: abc123")
	assert.Contains(t, out, "Estimated Cost")
}

func TestFormatDashboardOmitsEmptyTraceID(t *testing.T) {
	out := FormatDashboard(Metrics{TotalTokens: 10})
	assert.NotContains(t, out, "Trace ID")
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID("scoring-demo")
	assert.True(t, strings.HasPrefix(id, "scoring-demo-"))

	stamp := strings.TrimPrefix(id, "scoring-demo-")
	_, err := time.Parse("20060102-150405", stamp)
	assert.NoError(t, err)
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
