package awscost

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatReport renders a cost report as the console table the cost CLI
// prints. Weekly reports show date ranges per row and a daily average.
func FormatReport(r *Report, weekly bool) string {
	var b strings.Builder

	view := "Daily"
	if weekly {
		view = "Weekly"
	}
	fmt.Fprintf(&b, "\n💰 AWS Costs - %s View\n", view)
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if len(r.Periods) == 0 {
		b.WriteString("No cost data available for the specified period.\n")
		return b.String()
	}

	width := 23
	if weekly {
		width = 36
		fmt.Fprintf(&b, "%-25s %10s\n", "Period", "Cost")
	} else {
		fmt.Fprintf(&b, "%-12s %10s\n", "Date", "Cost")
	}
	b.WriteString(strings.Repeat("-", width) + "\n")

	days := 0
	for _, p := range r.Periods {
		if weekly {
			fmt.Fprintf(&b, "%-25s %10s\n", formatRange(p.Start, p.End), formatCost(p.Amount))
		} else {
			fmt.Fprintf(&b, "%-12s %10s\n", p.Start, formatCost(p.Amount))
		}
		days += spanDays(p.Start, p.End)
	}

	b.WriteString(strings.Repeat("-", width) + "\n")
	fmt.Fprintf(&b, "%-12s %10s\n", "Total", formatCost(r.Total))
	if weekly && days > 0 {
		fmt.Fprintf(&b, "%-12s %10s\n", "Daily Average", formatCost(r.Total/float64(days)))
	}

	b.WriteString("\n📊 Cost Breakdown by Service:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")

	type serviceCost struct {
		name   string
		amount float64
	}
	var services []serviceCost
	for name, amount := range r.ByService {
		if amount > 0.01 {
			services = append(services, serviceCost{name, amount})
		}
	}
	if len(services) == 0 {
		b.WriteString("Service breakdown not available. Consider using cost-filter.json\n")
		b.WriteString("to tag and filter your Langfuse resources.\n")
		return b.String()
	}
	sort.Slice(services, func(i, j int) bool { return services[i].amount > services[j].amount })
	for _, s := range services {
		fmt.Fprintf(&b, "%-35s %10s\n", s.name, formatCost(s.amount))
	}

	return b.String()
}

func formatCost(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatRange(start, end string) string {
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil {
		return start + " - " + end
	}
	return s.Format("01/02") + " - " + e.Format("01/02/2006")
}

func spanDays(start, end string) int {
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}
