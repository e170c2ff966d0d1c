package langfuse

import (
	"context"
	"fmt"
	"net/url"
)

// ObservationsClient handles observation-related API operations.
type ObservationsClient struct {
	client *Client
}

// ObservationsListParams represents parameters for listing observations.
type ObservationsListParams struct {
	PaginationParams
	FilterParams
}

// ObservationsListResponse represents the response from listing observations.
type ObservationsListResponse struct {
	Data []Observation `json:"data"`
	Meta MetaResponse  `json:"meta"`
}

// List retrieves a page of observations.
func (c *ObservationsClient) List(ctx context.Context, params *ObservationsListParams) (*ObservationsListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = mergeQuery(params.PaginationParams.ToQuery(), params.FilterParams.ToQuery())
	}

	var result ObservationsListResponse
	if err := c.client.http.get(ctx, endpoints.Observations, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a single observation by ID.
func (c *ObservationsClient) Get(ctx context.Context, observationID string) (*Observation, error) {
	var result Observation
	if err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Observations, observationID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByTrace retrieves all observations belonging to a trace.
func (c *ObservationsClient) ListByTrace(ctx context.Context, traceID string) ([]Observation, error) {
	var all []Observation
	params := &ObservationsListParams{
		PaginationParams: PaginationParams{Page: 1, Limit: DefaultPageLimit},
		FilterParams:     FilterParams{TraceID: traceID},
	}

	for {
		page, err := c.List(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.Meta.HasMore() || len(page.Data) == 0 {
			return all, nil
		}
		params.Page = page.Meta.Page + 1
	}
}
