package translate

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/filter"
	"github.com/sells-group/prospect-cli/internal/model"
)

//go:embed rules.yaml
var rulesYAML []byte

type summaryRule struct {
	Keywords []string `yaml:"keywords"`
	Phrase   string   `yaml:"phrase"`
}

type titleRule struct {
	Keywords []string `yaml:"keywords"`
	Titles   []string `yaml:"titles"`
}

type ruleSet struct {
	LocationPattern string        `yaml:"location_pattern"`
	SummaryRules    []summaryRule `yaml:"summary_rules"`
	TitleRules      []titleRule   `yaml:"title_rules"`
}

var (
	rules      ruleSet
	locationRe *regexp.Regexp
)

func init() {
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		panic(fmt.Sprintf("translate: parse embedded rules: %v", err))
	}
	locationRe = regexp.MustCompile(rules.LocationPattern)
}

// Heuristic translates a prompt into a filter set without any AI call. It is
// deterministic: a trailing "in/at/near/around <place>" clause becomes a
// city-level company location, and keyword matches populate the company
// summary and person titles. Everything else stays at defaults.
func Heuristic(prompt string, hint *model.GeoPoint) filter.Set {
	fs := filter.Default()
	lower := strings.ToLower(prompt)

	if m := locationRe.FindStringSubmatch(strings.TrimSpace(prompt)); m != nil {
		place := strings.TrimSpace(m[1])
		if !strings.EqualFold(place, "me") {
			fs.CompanyLocation = []filter.LocationFilter{{Value: place, Bucket: filter.DefaultBucket}}
		}
	}
	if len(fs.CompanyLocation) == 0 && strings.Contains(lower, "near me") && hint != nil && hint.Label != "" {
		fs.CompanyLocation = []filter.LocationFilter{{Value: hint.Label, Bucket: filter.DefaultBucket}}
	}

	var phrases []string
	for _, r := range rules.SummaryRules {
		if matchesAny(lower, r.Keywords) {
			phrases = append(phrases, r.Phrase)
		}
	}
	fs.CompanySummary = strings.Join(phrases, ", ")

	for _, r := range rules.TitleRules {
		if matchesAny(lower, r.Keywords) {
			fs.PersonTitles = append(fs.PersonTitles, r.Titles...)
		}
	}

	return fs
}

func matchesAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
