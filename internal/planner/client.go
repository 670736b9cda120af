package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
)

// QueryPath is appended to the configured API origin.
const QueryPath = "/api/tourism/query"

// Querier sends one tourism query to the backend.
type Querier interface {
	Query(ctx context.Context, place string) (*types.QueryResult, error)
}

// TransportError covers every failure at or below the HTTP layer: the request
// could not be sent, the status was not 2xx, or the body was not a QueryResult.
// Detail holds the backend's "detail" message when one could be extracted.
type TransportError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("tourism api: status %d: %s", e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("tourism api: status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("tourism api: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

var _ Querier = (*Client)(nil)

// Client posts queries to <baseURL>/api/tourism/query. It enforces no timeout of
// its own; that belongs to the http.Client passed in.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Endpoint is the full query URL. An empty base gives a relative path.
func (c *Client) Endpoint() string {
	return c.baseURL + QueryPath
}

func (c *Client) Query(ctx context.Context, place string) (*types.QueryResult, error) {
	body, err := json.Marshal(types.TourismQuery{Place: place})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(raw),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var result types.QueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(raw),
			Err:        fmt.Errorf("malformed response body: %w", err),
		}
	}
	return &result, nil
}

// extractDetail returns the string "detail" field of an error body, if any.
// Validation errors carry a list there instead and yield "".
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
