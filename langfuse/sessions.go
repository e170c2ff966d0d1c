package langfuse

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// SessionsClient handles session-related API operations.
type SessionsClient struct {
	client *Client
}

// SessionsListParams represents parameters for listing sessions.
type SessionsListParams struct {
	PaginationParams
	FromTimestamp time.Time
	ToTimestamp   time.Time
	Environment   string
}

// SessionsListResponse represents the response from listing sessions.
type SessionsListResponse struct {
	Data []Session    `json:"data"`
	Meta MetaResponse `json:"meta"`
}

// SessionWithTraces is a session together with its traces.
type SessionWithTraces struct {
	Session
	Traces []Trace `json:"traces"`
}

// List retrieves a page of sessions.
func (c *SessionsClient) List(ctx context.Context, params *SessionsListParams) (*SessionsListResponse, error) {
	query := url.Values{}
	if params != nil {
		query = params.PaginationParams.ToQuery()
		if !params.FromTimestamp.IsZero() {
			query.Set("fromTimestamp", params.FromTimestamp.Format(time.RFC3339))
		}
		if !params.ToTimestamp.IsZero() {
			query.Set("toTimestamp", params.ToTimestamp.Format(time.RFC3339))
		}
		if params.Environment != "" {
			query.Set("environment", params.Environment)
		}
	}

	var result SessionsListResponse
	if err := c.client.http.get(ctx, endpoints.Sessions, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a single session by ID, including its traces.
func (c *SessionsClient) Get(ctx context.Context, sessionID string) (*SessionWithTraces, error) {
	var result SessionWithTraces
	if err := c.client.http.get(ctx, fmt.Sprintf("%s/%s", endpoints.Sessions, sessionID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
