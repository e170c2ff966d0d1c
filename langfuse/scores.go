package langfuse

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// ScoresClient handles score-related API operations.
//
// Listing prefers the v2 scores endpoint and falls back to v1 when the
// deployment does not serve it yet. The probe result is cached for the
// lifetime of the client.
type ScoresClient struct {
	client *Client

	probeOnce sync.Once
	listPath  string
}

// ScoresListParams represents parameters for listing scores.
type ScoresListParams struct {
	PaginationParams
	Name          string
	UserID        string
	TraceID       string
	ObservationID string
	DataType      ScoreDataType
	Source        ScoreSource
	Environment   string
}

// ScoresListResponse represents the response from listing scores.
type ScoresListResponse struct {
	Data []Score      `json:"data"`
	Meta MetaResponse `json:"meta"`
}

// listEndpoint probes the v2 scores endpoint once and returns the path to
// use for listing. A 404 means v2 is unavailable and v1 is used instead.
func (c *ScoresClient) listEndpoint(ctx context.Context) string {
	c.probeOnce.Do(func() {
		c.listPath = endpoints.ScoresV2
		probe := url.Values{}
		probe.Set("limit", "1")
		var result ScoresListResponse
		err := c.client.http.get(ctx, endpoints.ScoresV2, probe, &result)
		if apiErr, ok := AsAPIError(err); ok && apiErr.IsNotFound() {
			c.client.logDebug("v2 scores endpoint unavailable, using v1")
			c.listPath = endpoints.Scores
		}
	})
	return c.listPath
}

// List retrieves a page of scores.
func (c *ScoresClient) List(ctx context.Context, params *ScoresListParams) (*ScoresListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = params.PaginationParams.ToQuery()
		if params.Name != "" {
			query.Set("name", params.Name)
		}
		if params.UserID != "" {
			query.Set("userId", params.UserID)
		}
		if params.TraceID != "" {
			query.Set("traceId", params.TraceID)
		}
		if params.ObservationID != "" {
			query.Set("observationId", params.ObservationID)
		}
		if params.DataType != "" {
			query.Set("dataType", string(params.DataType))
		}
		if params.Source != "" {
			query.Set("source", string(params.Source))
		}
		if params.Environment != "" {
			query.Set("environment", params.Environment)
		}
	}

	var result ScoresListResponse
	if err := c.client.http.get(ctx, c.listEndpoint(ctx), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll retrieves all scores matching the filters, walking every page.
func (c *ScoresClient) ListAll(ctx context.Context, params *ScoresListParams) ([]Score, error) {
	var all []Score
	p := ScoresListParams{}
	if params != nil {
		p = *params
	}
	p.Page = 1
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}

	for {
		page, err := c.List(ctx, &p)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.Meta.HasMore() || len(page.Data) == 0 {
			return all, nil
		}
		p.Page = page.Meta.Page + 1
	}
}

// Get retrieves a single score by ID.
func (c *ScoresClient) Get(ctx context.Context, scoreID string) (*Score, error) {
	var result Score
	if err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Scores, scoreID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateScoreRequest represents a request to create a score.
type CreateScoreRequest struct {
	TraceID       string        `json:"traceId"`
	ObservationID string        `json:"observationId,omitempty"`
	Name          string        `json:"name"`
	Value         any           `json:"value"`
	DataType      ScoreDataType `json:"dataType,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	Environment   string        `json:"environment,omitempty"`
	Metadata      Metadata      `json:"metadata,omitempty"`
}

// Create creates a new score synchronously, bypassing the ingestion batch.
func (c *ScoresClient) Create(ctx context.Context, req *CreateScoreRequest) (*Score, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if req.TraceID == "" {
		return nil, NewValidationError("traceId", "is required")
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "is required")
	}

	var result Score
	if err := c.client.http.post(ctx, endpoints.Scores, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes a single score by ID.
func (c *ScoresClient) Delete(ctx context.Context, scoreID string) error {
	return c.client.http.delete(ctx, fmt.Sprintf("%s/%s", endpoints.Scores, scoreID), nil)
}
