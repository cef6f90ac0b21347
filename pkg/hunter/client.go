// Package hunter is a thin client for the contact-enrichment fallback API:
// domain search (known contacts for one company domain) and discovery
// (companies matching a natural-language description).
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// The API allows 15 requests/second on paid plans; stay under it.
const defaultRatePerSecond = 10

// Client defines the fallback provider operations used by the pipeline.
type Client interface {
	DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error)
	Discover(ctx context.Context, req DiscoverRequest) (*DiscoverResponse, error)
}

// DomainSearchRequest queries contacts for a single company domain.
type DomainSearchRequest struct {
	Domain string
	Limit  int
}

// DomainSearchResponse is the response from GET /domain-search.
type DomainSearchResponse struct {
	Data DomainSearchData `json:"data"`
}

// DomainSearchData carries the company context and its known contacts.
type DomainSearchData struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	Emails       []Email `json:"emails"`
}

// Email is a single contact record from domain search.
type Email struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	PhoneNum   string `json:"phone_number"`
	Linkedin   string `json:"linkedin"`
}

// DiscoverRequest runs a natural-language company discovery query.
type DiscoverRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// DiscoverResponse is the response from POST /discover.
type DiscoverResponse struct {
	Data []DiscoveredCompany `json:"data"`
}

// DiscoveredCompany is a candidate company from a discovery query.
type DiscoveredCompany struct {
	Domain       string `json:"domain"`
	Organization string `json:"organization"`
	EmailsCount  int    `json:"emails_count"`
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hunter: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default requests-per-second throttle.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Hunter API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error) {
	q := url.Values{}
	q.Set("domain", req.Domain)
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}

	var resp DomainSearchResponse
	if err := c.get(ctx, "/domain-search?"+q.Encode(), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("hunter: domain search %s", req.Domain))
	}
	return &resp, nil
}

func (c *httpClient) Discover(ctx context.Context, req DiscoverRequest) (*DiscoverResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: marshal discover request")
	}

	var resp DiscoverResponse
	if err := c.post(ctx, "/discover", body, &resp); err != nil {
		return nil, eris.Wrap(err, "hunter: discover")
	}
	return &resp, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(path), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	return c.do(req, out)
}

func (c *httpClient) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.withKey(path), strings.NewReader(string(body)))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// withKey appends the api_key query parameter; Hunter authenticates via
// query string rather than headers.
func (c *httpClient) withKey(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.baseURL + path + sep + "api_key=" + url.QueryEscape(c.apiKey)
}

func (c *httpClient) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return eris.Wrap(err, "rate limit wait")
	}

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
