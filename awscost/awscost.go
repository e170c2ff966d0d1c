// Package awscost reports AWS spend for the Langfuse deployment via the
// Cost Explorer API.
package awscost

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// FilterFile is the default name of the optional cost filter definition.
const FilterFile = "cost-filter.json"

const dateLayout = "2006-01-02"

// Client wraps the Cost Explorer API.
type Client struct {
	ce *costexplorer.Client
}

// New creates a cost reporting client using the default AWS credential
// chain. Cost Explorer is a global service served out of us-east-1.
func New(ctx context.Context) (*Client, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
	if err != nil {
		return nil, fmt.Errorf("awscost: loading AWS config: %w", err)
	}
	return &Client{ce: costexplorer.NewFromConfig(awsConfig)}, nil
}

// PeriodCost is the spend for one time period.
type PeriodCost struct {
	Start  string
	End    string
	Amount float64
}

// Report aggregates spend over a date range.
type Report struct {
	Periods   []PeriodCost
	ByService map[string]float64
	Total     float64
}

// TagFilter restricts the report to resources carrying a tag, matching the
// shape of cost-filter.json.
type TagFilter struct {
	Tags struct {
		Key    string   `json:"Key"`
		Values []string `json:"Values"`
	} `json:"Tags"`
}

// LoadFilter reads a tag filter file. A missing file yields a nil filter,
// which reports account-wide costs.
func LoadFilter(path string) (*TagFilter, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("awscost: failed to read filter: %w", err)
	}
	var f TagFilter
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("awscost: invalid filter file %s: %w", path, err)
	}
	return &f, nil
}

// WriteSampleFilter writes a sample cost-filter.json keyed on a
// Project=Langfuse tag.
func WriteSampleFilter(path string) error {
	f := TagFilter{}
	f.Tags.Key = "Project"
	f.Tags.Values = []string{"Langfuse"}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("awscost: failed to write filter: %w", err)
	}
	return nil
}

// DailyRange returns today's date range; WeeklyRange the past 7 days.
// Cost Explorer treats the end date as exclusive.
func DailyRange(now time.Time) (start, end time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	return day, day.AddDate(0, 0, 1)
}

// WeeklyRange returns the past 7 days ending today.
func WeeklyRange(now time.Time) (start, end time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -7), day.AddDate(0, 0, 1)
}

// GetCosts retrieves daily unblended costs between start and end, grouped
// by service. A non-nil filter restricts the report to tagged resources.
func (c *Client) GetCosts(ctx context.Context, start, end time.Time, filter *TagFilter) (*Report, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(dateLayout)),
			End:   aws.String(end.Format(dateLayout)),
		},
		Granularity: types.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []types.GroupDefinition{
			{Type: types.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}
	if filter != nil {
		input.Filter = &types.Expression{
			Tags: &types.TagValues{
				Key:    aws.String(filter.Tags.Key),
				Values: filter.Tags.Values,
			},
		}
	}

	report := &Report{ByService: make(map[string]float64)}
	for {
		out, err := c.ce.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("awscost: get cost and usage: %w", err)
		}

		for _, result := range out.ResultsByTime {
			period := PeriodCost{
				Start: aws.ToString(result.TimePeriod.Start),
				End:   aws.ToString(result.TimePeriod.End),
			}
			for _, group := range result.Groups {
				amount := parseAmount(group.Metrics["UnblendedCost"])
				service := "Unknown"
				if len(group.Keys) > 0 {
					service = group.Keys[0]
				}
				report.ByService[service] += amount
				period.Amount += amount
			}
			// When grouping is active the Total map is empty, so the
			// period amount is the sum of its groups.
			if total, ok := result.Total["UnblendedCost"]; ok && len(result.Groups) == 0 {
				period.Amount = parseAmount(total)
			}
			report.Periods = append(report.Periods, period)
			report.Total += period.Amount
		}

		if out.NextPageToken == nil {
			break
		}
		input.NextPageToken = out.NextPageToken
	}

	return report, nil
}

func parseAmount(m types.MetricValue) float64 {
	amount, _ := strconv.ParseFloat(aws.ToString(m.Amount), 64)
	return amount
}
