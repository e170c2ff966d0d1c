package awscost

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	start, end := DailyRange(now)
	assert.Equal(t, "2025-06-15", start.Format(dateLayout))
	assert.Equal(t, "2025-06-16", end.Format(dateLayout))
}

func TestWeeklyRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	start, end := WeeklyRange(now)
	assert.Equal(t, "2025-06-08", start.Format(dateLayout))
	assert.Equal(t, "2025-06-16", end.Format(dateLayout))
}

func TestFilterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost-filter.json")

	require.NoError(t, WriteSampleFilter(path))

	filter, err := LoadFilter(path)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, "Project", filter.Tags.Key)
	assert.Equal(t, []string{"Langfuse"}, filter.Tags.Values)
}

func TestLoadFilterMissingFile(t *testing.T) {
	filter, err := LoadFilter(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestFormatReportDaily(t *testing.T) {
	r := &Report{
		Periods: []PeriodCost{
			{Start: "2025-06-14", End: "2025-06-15", Amount: 3.50},
			{Start: "2025-06-15", End: "2025-06-16", Amount: 4.25},
		},
		ByService: map[string]float64{
			"Amazon Relational Database Service": 5.00,
			"Amazon Elastic Container Service":   2.75,
			"AWS Lambda":                         0.001,
		},
		Total: 7.75,
	}

	out := FormatReport(r, false)
	assert.Contains(t, out, "💰 AWS Costs - Daily View")
	assert.Contains(t, out, "2025-06-14")
	assert.Contains(t, out, "$3.50")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "$7.75")
	assert.Contains(t, out, "Amazon Relational Database Service")
	// Sub-cent services are hidden.
	assert.NotContains(t, out, "AWS Lambda")
	// RDS costs more so it sorts first.
	assert.Less(t,
		strings.Index(out, "Amazon Relational Database Service"),
		strings.Index(out, "Amazon Elastic Container Service"))
}

func TestFormatReportWeekly(t *testing.T) {
	r := &Report{
		Periods: []PeriodCost{
			{Start: "2025-06-08", End: "2025-06-15", Amount: 14.00},
		},
		ByService: map[string]float64{"Amazon ECS": 14.00},
		Total:     14.00,
	}

	out := FormatReport(r, true)
	assert.Contains(t, out, "Weekly View")
	assert.Contains(t, out, "06/08 - 06/15/2025")
	assert.Contains(t, out, "Daily Average")
	assert.Contains(t, out, "$2.00")
}

func TestFormatReportEmpty(t *testing.T) {
	out := FormatReport(&Report{}, false)
	assert.Contains(t, out, "No cost data available")
}

func TestFormatReportNoServiceBreakdown(t *testing.T) {
	r := &Report{
		Periods: []PeriodCost{{Start: "2025-06-15", End: "2025-06-16", Amount: 0.004}},
		Total:   0.004,
	}
	out := FormatReport(r, false)
	assert.Contains(t, out, "cost-filter.json")
}
