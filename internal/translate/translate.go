// Package translate converts free-text lead requests into schema-complete
// filter sets, preferring AI structured output and degrading to embedded
// keyword heuristics when the model is unavailable.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/filter"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

const systemPrompt = `You translate lead-search requests into a JSON filter object for a B2B prospect database.
Respond with a single JSON object and nothing else. Use exactly these keys:
person_titles, person_seniorities, person_departments, person_locations, person_keywords,
contact_email_status, company_names, company_domains, company_industries, company_keywords,
company_technologies, company_sizes, company_funding_stages (arrays of strings);
company_summary (string); company_location (array of {"value","bucket"} objects, bucket one of
city|state|country); founded_year_range and revenue_range_usd (objects with optional min/max numbers);
user_location (object). Leave any field you cannot infer at its empty value.`

// Translator turns prompts into filter sets. A nil AI client means no
// credential is configured and every call takes the heuristic path.
type Translator struct {
	ai        anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Translator. ai may be nil.
func New(ai anthropic.Client, aiModel string) *Translator {
	return &Translator{
		ai:        ai,
		model:     aiModel,
		maxTokens: 1024,
	}
}

// Translate converts a prompt into a complete filter set. It never fails:
// quota errors, parse failures, and transport errors all degrade to the
// deterministic heuristic so callers can always proceed.
func (t *Translator) Translate(ctx context.Context, prompt string, hint *model.GeoPoint) filter.Set {
	if t.ai == nil {
		return Heuristic(prompt, hint)
	}

	user := "Request: " + prompt
	if hint != nil {
		user += fmt.Sprintf(
			"\nCaller location: %.4f,%.4f %s. Use it only if the request implies a local or \"near me\" search.",
			hint.Lat, hint.Lng, hint.Label,
		)
	}

	temp := 0.0
	resp, err := t.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       t.model,
		MaxTokens:   t.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		if isQuotaErr(err) {
			zap.L().Warn("translate: quota exhausted, using heuristic", zap.Error(err))
		} else {
			zap.L().Error("translate: AI call failed, using heuristic", zap.Error(err))
		}
		return Heuristic(prompt, hint)
	}
	resp.Usage.LogCost(t.model, "translate")

	raw, ok := parseFilterJSON(resp.Text())
	if !ok {
		zap.L().Warn("translate: unparseable AI output, using heuristic",
			zap.Int("output_len", len(resp.Text())),
		)
		return Heuristic(prompt, hint)
	}

	return filter.Normalize(raw)
}

// parseFilterJSON parses model output as a JSON object. If the text does not
// parse as-is, it extracts the first balanced {...} substring, strips
// trailing commas, and retries once.
func parseFilterJSON(text string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil {
		return m, true
	}

	obj := firstJSONObject(text)
	if obj == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(stripTrailingCommas(obj)), &m); err == nil {
		return m, true
	}
	return nil, false
}

// isQuotaErr reports whether err looks like a rate-limit or quota error.
// The SDK surfaces these as wrapped HTTP errors, so this is a string check.
func isQuotaErr(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"429", "rate limit", "rate_limit", "quota", "overloaded"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
