package translate

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

const domainSystemPrompt = `Extract the web domain of the single company the request refers to.
Respond with the bare domain only, e.g. acme.com. If the request does not name a specific company, respond with NONE.`

var domainRe = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// ValidDomain reports whether s is a plausible bare domain token.
func ValidDomain(s string) bool {
	return domainRe.MatchString(s)
}

// ExtractDomain asks the model for the company domain named in the prompt.
// Best-effort: any failure, refusal, or invalid token yields "".
func (t *Translator) ExtractDomain(ctx context.Context, prompt string) string {
	if t.ai == nil {
		return ""
	}

	temp := 0.0
	resp, err := t.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       t.model,
		MaxTokens:   64,
		System:      domainSystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Debug("translate: domain extraction failed", zap.Error(err))
		return ""
	}

	token := strings.ToLower(strings.TrimSpace(resp.Text()))
	fields := strings.Fields(token)
	if len(fields) == 0 {
		return ""
	}
	token = fields[0]
	token = strings.TrimPrefix(token, "https://")
	token = strings.TrimPrefix(token, "http://")
	token = strings.TrimPrefix(token, "www.")
	token = strings.Trim(token, "/.")

	if token == "none" || !ValidDomain(token) {
		return ""
	}
	return token
}
