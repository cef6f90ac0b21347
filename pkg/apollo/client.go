// Package apollo is a thin client for the prospect-list provider API.
// Lists are built asynchronously server-side: create a list, poll its
// status, then fetch the resulting contacts.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Apollo v1 API.
const defaultBaseURL = "https://api.apollo.io/v1"

// Client defines the prospect-list operations used by the pipeline.
type Client interface {
	CreateList(ctx context.Context, req CreateListRequest) (*ListResponse, error)
	GetListStatus(ctx context.Context, id string) (*ListResponse, error)
	ListContacts(ctx context.Context, id string, limit int) (*ContactsResponse, error)
}

// CreateListRequest is the body for POST /prospect_lists. Filters must be a
// schema-complete filter set; the API rejects payloads with missing keys.
type CreateListRequest struct {
	Name        string `json:"name"`
	Filters     any    `json:"filters"`
	MaxProfiles int    `json:"max_profiles"`
}

// ListResponse describes a prospect list and its build status. Status values
// vary by API version and are classified case-insensitively by the poller.
type ListResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// ContactsResponse is the response from GET /prospect_lists/{id}/contacts.
// Contacts are kept as raw records; field names differ across plan tiers and
// API versions, so mapping happens downstream.
type ContactsResponse struct {
	Contacts []map[string]any `json:"contacts"`
	Total    int              `json:"total"`
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apollo: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Apollo client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) CreateList(ctx context.Context, req CreateListRequest) (*ListResponse, error) {
	var resp ListResponse
	if err := c.post(ctx, "/prospect_lists", req, &resp); err != nil {
		return nil, eris.Wrap(err, "apollo: create list")
	}
	return &resp, nil
}

func (c *httpClient) GetListStatus(ctx context.Context, id string) (*ListResponse, error) {
	var resp ListResponse
	if err := c.get(ctx, fmt.Sprintf("/prospect_lists/%s", id), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("apollo: get list status %s", id))
	}
	return &resp, nil
}

func (c *httpClient) ListContacts(ctx context.Context, id string, limit int) (*ContactsResponse, error) {
	var resp ContactsResponse
	path := fmt.Sprintf("/prospect_lists/%s/contacts?per_page=%d", id, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("apollo: list contacts %s", id))
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
