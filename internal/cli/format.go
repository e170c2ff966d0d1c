package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Bedrock-style per-1K-token pricing used for rough cost estimates.
const (
	inputCostPer1K  = 0.003
	outputCostPer1K = 0.015
)

// Truncate shortens s to at most n bytes, appending "..." when cut. The
// cut never splits a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Banner prints a title between separator lines.
func Banner(title string) string {
	sep := strings.Repeat("=", 70)
	return fmt.Sprintf("%s\n%s\n%s", sep, title, sep)
}

// Metrics holds the numbers shown in the performance dashboard.
type Metrics struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	Latency      time.Duration
	Model        string
	TraceID      string
}

// EstimatedCost returns the rough dollar cost of the call.
func (m Metrics) EstimatedCost() float64 {
	return float64(m.InputTokens)/1000*inputCostPer1K +
		float64(m.OutputTokens)/1000*outputCostPer1K
}

// FormatDashboard renders the metrics dashboard block printed after each
// model call.
func FormatDashboard(m Metrics) string {
	latencySec := m.Latency.Seconds()
	throughput := 0.0
	if latencySec > 0 {
		throughput = float64(m.TotalTokens) / latencySec
	}

	var b strings.Builder
	b.WriteString("\n📊 Performance Metrics:\n")
	fmt.Fprintf(&b, "   ├─ Tokens: %d total (%d input, %d output)\n",
		m.TotalTokens, m.InputTokens, m.OutputTokens)
	fmt.Fprintf(&b, "   ├─ Latency: %.2f seconds\n", latencySec)
	fmt.Fprintf(&b, "   ├─ Throughput: %.0f tokens/second\n", throughput)
	fmt.Fprintf(&b, "   ├─ Model: %s\n", m.Model)
	if m.TraceID != "" {
		fmt.Fprintf(&b, "   ├─ Trace ID: %s\n", m.TraceID)
	}
	fmt.Fprintf(&b, "   └─ Estimated Cost: ~$%.4f", m.EstimatedCost())
	return b.String()
}
