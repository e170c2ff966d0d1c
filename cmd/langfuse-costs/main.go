// Command langfuse-costs reports AWS costs for the Langfuse deployment via
// Cost Explorer. An optional cost-filter.json restricts the report to
// resources carrying a tag.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroryan/langfuse-samples/awscost"
)

const timeout = 60 * time.Second

func main() {
	weekly := flag.Bool("weekly", false, "report the last 7 days instead of today")
	createFilter := flag.Bool("create-filter", false, "write a sample cost-filter.json and exit")
	flag.Parse()

	if err := run(*weekly, *createFilter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(weekly, createFilter bool) error {
	if createFilter {
		if err := awscost.WriteSampleFilter(awscost.FilterFile); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", awscost.FilterFile)
		fmt.Println("Edit the tag key and values to match your deployment, then rerun.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := awscost.New(ctx)
	if err != nil {
		return err
	}

	filter, err := awscost.LoadFilter(awscost.FilterFile)
	if err != nil {
		return err
	}
	if filter != nil {
		fmt.Printf("Using tag filter from %s\n", awscost.FilterFile)
	}

	now := time.Now()
	start, end := awscost.DailyRange(now)
	if weekly {
		start, end = awscost.WeeklyRange(now)
	}

	report, err := client.GetCosts(ctx, start, end, filter)
	if err != nil {
		return fmt.Errorf("cost query failed: %w", err)
	}

	fmt.Println(awscost.FormatReport(report, weekly))
	return nil
}
