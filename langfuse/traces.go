package langfuse

import (
	"context"
	"fmt"
	"net/url"
)

// TracesClient handles trace-related API operations.
type TracesClient struct {
	client *Client
}

// TracesListParams represents parameters for listing traces.
type TracesListParams struct {
	PaginationParams
	FilterParams
}

// TracesListResponse represents the response from listing traces.
type TracesListResponse struct {
	Data []Trace      `json:"data"`
	Meta MetaResponse `json:"meta"`
}

// List retrieves a page of traces.
func (c *TracesClient) List(ctx context.Context, params *TracesListParams) (*TracesListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = mergeQuery(params.PaginationParams.ToQuery(), params.FilterParams.ToQuery())
	}

	var result TracesListResponse
	if err := c.client.http.get(ctx, endpoints.Traces, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves all traces matching the filters, walking every page.
func (c *TracesClient) ListAll(ctx context.Context, filters *FilterParams) ([]Trace, error) {
	var all []Trace
	params := &TracesListParams{
		PaginationParams: PaginationParams{Page: 1, Limit: DefaultPageLimit},
	}
	if filters != nil {
		params.FilterParams = *filters
	}

	for {
		page, err := c.List(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		c.client.logDebug("listed traces page",
			"page", page.Meta.Page, "totalPages", page.Meta.TotalPages, "collected", len(all))
		if !page.Meta.HasMore() || len(page.Data) == 0 {
			return all, nil
		}
		params.Page = page.Meta.Page + 1
	}
}

// Get retrieves a single trace by ID.
func (c *TracesClient) Get(ctx context.Context, traceID string) (*Trace, error) {
	var result Trace
	if err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Traces, traceID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes a single trace by ID. Deletion is processed asynchronously
// on the server and may take up to 15 minutes to be reflected in the UI.
func (c *TracesClient) Delete(ctx context.Context, traceID string) error {
	return c.client.http.delete(ctx, fmt.Sprintf("%s/%s", endpoints.Traces, traceID), nil)
}

// deleteManyRequest is the body of the bulk trace deletion request.
type deleteManyRequest struct {
	TraceIDs []string `json:"traceIds"`
}

// DeleteMany deletes multiple traces in a single request. Deletion is
// processed asynchronously on the server.
func (c *TracesClient) DeleteMany(ctx context.Context, traceIDs []string) error {
	if len(traceIDs) == 0 {
		return nil
	}
	return c.client.http.deleteWithBody(ctx, endpoints.Traces, &deleteManyRequest{TraceIDs: traceIDs}, nil)
}
