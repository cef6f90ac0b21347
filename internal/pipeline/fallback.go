package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/hunter"
)

// Broad-path bounds: discovery aggregates over at most this many
// distinct-domain companies per request.
const maxDiscoveryCompanies = 5

// fallbackSearch is the two-stage fallback strategy. Fast path: extract a
// company domain from the prompt (best-effort AI) and search it directly.
// Broad path: run a discovery query over companies and aggregate per-domain
// searches up to size. Returns (nil, nil) when nothing was found anywhere.
func (p *Pipeline) fallbackSearch(ctx context.Context, prompt string, size int) ([]contact.Contact, error) {
	perCall := size
	if perCall > 100 {
		perCall = 100
	}

	if domain := p.translator.ExtractDomain(ctx, prompt); domain != "" {
		data, err := p.domainSearch(ctx, domain, perCall)
		if err != nil {
			// Fast-path failures degrade to the broad path.
			zap.L().Warn("fallback: domain search failed",
				zap.String("domain", domain),
				zap.Error(err),
			)
		} else if len(data.Emails) > 0 {
			return capContacts(domainContacts(*data), size), nil
		}
	}

	disc, err := resilience.DoVal(ctx, p.retryFor(), func(ctx context.Context) (*hunter.DiscoverResponse, error) {
		return p.fallback.Discover(ctx, hunter.DiscoverRequest{Query: prompt, Limit: perCall})
	})
	if err != nil {
		return nil, eris.Wrap(err, "fallback: discovery query")
	}

	quota := (size + maxDiscoveryCompanies - 1) / maxDiscoveryCompanies

	var out []contact.Contact
	seen := make(map[string]bool)
	tried := 0
	for _, comp := range disc.Data {
		if len(out) >= size || tried >= maxDiscoveryCompanies {
			break
		}
		domain := strings.ToLower(strings.TrimSpace(comp.Domain))
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true
		tried++

		data, err := p.domainSearch(ctx, domain, quota)
		if err != nil {
			// Best-effort aggregation: one bad company does not sink the batch.
			zap.L().Warn("fallback: company search skipped",
				zap.String("domain", domain),
				zap.Error(err),
			)
			continue
		}
		for _, c := range domainContacts(*data) {
			out = append(out, c)
			if len(out) >= size {
				break
			}
		}
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// domainSearch queries one domain with a bounded retry for transient errors.
func (p *Pipeline) domainSearch(ctx context.Context, domain string, limit int) (*hunter.DomainSearchData, error) {
	resp, err := resilience.DoVal(ctx, p.retryFor(), func(ctx context.Context) (*hunter.DomainSearchResponse, error) {
		return p.fallback.DomainSearch(ctx, hunter.DomainSearchRequest{Domain: domain, Limit: limit})
	})
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// retryFor adapts the retry config to recognize provider API errors with
// transient status codes.
func (p *Pipeline) retryFor() resilience.RetryConfig {
	cfg := p.retry
	cfg.ShouldRetry = func(err error) bool {
		var apiErr *hunter.APIError
		if errors.As(err, &apiErr) {
			return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
		}
		return resilience.IsTransient(err)
	}
	return cfg
}

// domainContacts converts one domain-search result into canonical contacts,
// folding the company context into each record before normalization.
func domainContacts(data hunter.DomainSearchData) []contact.Contact {
	out := make([]contact.Contact, 0, len(data.Emails))
	for _, e := range data.Emails {
		out = append(out, contact.Normalize(map[string]any{
			"first_name":   e.FirstName,
			"last_name":    e.LastName,
			"position":     e.Position,
			"email":        e.Value,
			"email_status": e.Type,
			"phone_number": e.PhoneNum,
			"linkedin":     e.Linkedin,
			"company":      data.Organization,
			"domain":       data.Domain,
		}))
	}
	return out
}

func capContacts(contacts []contact.Contact, size int) []contact.Contact {
	if len(contacts) > size {
		return contacts[:size]
	}
	return contacts
}
