// Package pipeline orchestrates lead discovery: prompt translation, the
// asynchronous primary prospect-list job, failover to the fallback provider,
// and normalization into the canonical table.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/filter"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/translate"
	"github.com/sells-group/prospect-cli/pkg/apollo"
	"github.com/sells-group/prospect-cli/pkg/hunter"
)

// Pipeline sequences translation, the primary provider, and the fallback
// provider for one request at a time. Stages run strictly in sequence; the
// only suspension points are outbound calls and the polling interval.
type Pipeline struct {
	primary    apollo.Client // nil when unconfigured
	fallback   hunter.Client // nil when unconfigured
	translator *translate.Translator
	poll       apollo.PollPolicy
	retry      resilience.RetryConfig
}

// New creates a Pipeline. Either provider client may be nil, meaning that
// provider is unconfigured; with both nil every request fails with a
// configuration error.
func New(primary apollo.Client, fallback hunter.Client, translator *translate.Translator, poll apollo.PollPolicy) *Pipeline {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 2
	retry.OnRetry = resilience.RetryLogger("hunter", "domain_search")
	return &Pipeline{
		primary:    primary,
		fallback:   fallback,
		translator: translator,
		poll:       poll,
		retry:      retry,
	}
}

// Run executes one search request end to end and returns the response
// envelope. Errors carry a Kind; a Building result is not an error.
func (p *Pipeline) Run(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	size := req.ClampedSize()

	if req.Prompt == "" && !req.Resumes() {
		return nil, newError(KindBadRequest, "prompt is required when no list id is given")
	}

	log := zap.L().With(zap.String("prompt", req.Prompt), zap.Int("size", size))

	// No primary: route everything to the fallback provider.
	if p.primary == nil {
		if p.fallback == nil {
			return nil, newError(KindConfig, "no lead provider credentials configured")
		}
		log.Info("pipeline: primary unconfigured, using fallback")
		contacts, err := p.fallbackSearch(ctx, req.Prompt, size)
		if err != nil {
			return nil, wrapError(KindProvider, "fallback provider failed", err)
		}
		// No results is still a valid (empty) answer here; a hard error is
		// reserved for missing credentials.
		return fallbackResult(req.Prompt, contacts), nil
	}

	listID := req.ExistingListID
	var filters *filter.Set

	if listID == "" {
		fs := p.translator.Translate(ctx, req.Prompt, req.UserLocation)
		filters = &fs

		created, err := p.primary.CreateList(ctx, apollo.CreateListRequest{
			Name:        fmt.Sprintf("lead-table-%s", uuid.NewString()[:8]),
			Filters:     fs,
			MaxProfiles: size,
		})
		if err != nil {
			return p.failover(ctx, req.Prompt, size, eris.Wrap(err, "pipeline: create prospect list"))
		}
		listID = created.ID
		log.Info("pipeline: prospect list created", zap.String("list_id", listID))
	} else {
		log.Info("pipeline: resuming prospect list", zap.String("list_id", listID))
	}

	polled, err := apollo.PollList(ctx, p.primary, listID, p.poll)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrapError(KindProvider, "pipeline: canceled while polling", err)
		}
		return p.failover(ctx, req.Prompt, size, err)
	}

	switch polled.State {
	case apollo.StateTimeout:
		log.Info("pipeline: list still building",
			zap.String("list_id", listID),
			zap.String("status", polled.Status),
			zap.Int("attempts", polled.Attempts),
		)
		return &model.SearchResult{
			Table:    buildingTable(listID, polled.Status),
			Provider: model.ProviderPrimary,
			Building: true,
			JobMeta:  &model.JobMeta{ListID: listID, ListStatus: polled.Status},
		}, nil
	case apollo.StateFailed:
		// A failed build means the provider accepted the filters and then
		// declared the job dead; no fallback is attempted on this branch.
		return nil, newError(KindJobFailed,
			fmt.Sprintf("prospect list %s ended in status %q", listID, polled.Status))
	}

	fetched, err := p.primary.ListContacts(ctx, listID, size)
	if err != nil {
		return p.failover(ctx, req.Prompt, size, err)
	}

	if len(fetched.Contacts) == 0 {
		log.Info("pipeline: primary returned no contacts, trying fallback", zap.String("list_id", listID))
		if res := p.tryFallback(ctx, req.Prompt, size); res != nil {
			return res, nil
		}
		// An empty result set with zero rows is a valid answer.
	}

	contacts := make([]contact.Contact, 0, len(fetched.Contacts))
	for _, raw := range fetched.Contacts {
		contacts = append(contacts, contact.Normalize(raw))
	}
	if len(contacts) > size {
		contacts = contacts[:size]
	}

	meta := &model.JobMeta{
		Total:      fetched.Total,
		Returned:   len(contacts),
		ListID:     listID,
		ListStatus: polled.Status,
	}
	if filters != nil {
		meta.Filters = *filters
	}

	return &model.SearchResult{
		Table:    buildContactTable(req.Prompt, contacts),
		Provider: model.ProviderPrimary,
		JobMeta:  meta,
	}, nil
}

// failover answers a primary HTTP-level failure: attempt the fallback
// provider, and only if it cannot serve return the original error.
func (p *Pipeline) failover(ctx context.Context, prompt string, size int, origErr error) (*model.SearchResult, error) {
	if res := p.tryFallback(ctx, prompt, size); res != nil {
		zap.L().Warn("pipeline: primary failed, served by fallback", zap.Error(origErr))
		return res, nil
	}
	return nil, wrapError(KindProvider, "primary provider failed", origErr)
}

// tryFallback runs the fallback search best-effort. It returns nil when the
// fallback is unconfigured, the prompt is empty (resumed jobs carry none),
// the search errors, or nothing was found.
func (p *Pipeline) tryFallback(ctx context.Context, prompt string, size int) *model.SearchResult {
	if p.fallback == nil || prompt == "" {
		return nil
	}
	contacts, err := p.fallbackSearch(ctx, prompt, size)
	if err != nil {
		zap.L().Warn("pipeline: fallback search failed", zap.Error(err))
		return nil
	}
	if len(contacts) == 0 {
		return nil
	}
	return fallbackResult(prompt, contacts)
}

func fallbackResult(prompt string, contacts []contact.Contact) *model.SearchResult {
	return &model.SearchResult{
		Table:    buildContactTable(prompt, contacts),
		Provider: model.ProviderFallback,
		JobMeta:  &model.JobMeta{Returned: len(contacts)},
	}
}
