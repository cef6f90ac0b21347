package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsSchemaComplete(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	wantKeys := []string{
		"person_titles", "person_seniorities", "person_departments",
		"person_locations", "person_keywords", "contact_email_status",
		"company_names", "company_domains", "company_industries",
		"company_keywords", "company_technologies", "company_sizes",
		"company_funding_stages", "company_summary", "company_location",
		"founded_year_range", "revenue_range_usd", "user_location",
	}
	for _, key := range wantKeys {
		assert.Contains(t, m, key)
	}
	assert.Len(t, m, len(wantKeys), "no extra keys on the wire")

	// Empty lists must marshal as [], not null.
	assert.Equal(t, []any{}, m["person_titles"])
	assert.Equal(t, []any{}, m["company_location"])
	assert.Equal(t, map[string]any{}, m["user_location"])
}

func TestNormalizePartialInput(t *testing.T) {
	set := Normalize(map[string]any{
		"person_titles":   []any{" CEO ", "", "Founder", 42},
		"company_summary": "  saas companies  ",
	})

	assert.Equal(t, []string{"CEO", "Founder"}, set.PersonTitles)
	assert.Equal(t, "saas companies", set.CompanySummary)
	// Untouched keys keep their defaults.
	assert.Equal(t, []string{}, set.CompanyDomains)
	assert.Equal(t, []LocationFilter{}, set.CompanyLocation)
}

func TestNormalizeNonMapInput(t *testing.T) {
	assert.Equal(t, Default(), Normalize(nil))
	assert.Equal(t, Default(), Normalize("not a map"))
	assert.Equal(t, Default(), Normalize([]any{"list"}))
}

func TestNormalizeBareStringBecomesList(t *testing.T) {
	set := Normalize(map[string]any{"company_industries": "dentistry"})
	assert.Equal(t, []string{"dentistry"}, set.CompanyIndustries)
}

func TestNormalizeLocations(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []LocationFilter
	}{
		{
			"bare string gets default bucket",
			"Toronto",
			[]LocationFilter{{Value: "Toronto", Bucket: "city"}},
		},
		{
			"value and bucket object",
			map[string]any{"value": "Ohio", "bucket": "state"},
			[]LocationFilter{{Value: "Ohio", Bucket: "state"}},
		},
		{
			"short keys",
			map[string]any{"v": "Canada", "b": "country"},
			[]LocationFilter{{Value: "Canada", Bucket: "country"}},
		},
		{
			"mixed list drops empties",
			[]any{"Austin", map[string]any{"value": ""}, map[string]any{"value": "Texas", "bucket": "state"}},
			[]LocationFilter{{Value: "Austin", Bucket: "city"}, {Value: "Texas", Bucket: "state"}},
		},
		{
			"missing bucket defaults",
			map[string]any{"value": "Berlin"},
			[]LocationFilter{{Value: "Berlin", Bucket: "city"}},
		},
		{
			"garbage yields empty list",
			42,
			[]LocationFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Normalize(map[string]any{"company_location": tt.in})
			assert.Equal(t, tt.want, set.CompanyLocation)
		})
	}
}

func TestNormalizeRanges(t *testing.T) {
	set := Normalize(map[string]any{
		"founded_year_range": map[string]any{"min": float64(2010), "max": float64(2020)},
		"revenue_range_usd":  map[string]any{"min": float64(1000000)},
	})

	assert.Equal(t, YearRange{Min: 2010, Max: 2020}, set.FoundedYearRange)
	assert.Equal(t, RevenueRange{Min: 1000000}, set.RevenueRangeUSD)

	// Wrong-typed ranges degrade to zero values.
	set = Normalize(map[string]any{"founded_year_range": "2010-2020"})
	assert.Equal(t, YearRange{}, set.FoundedYearRange)
}

func TestNormalizedSetMarshalsComplete(t *testing.T) {
	set := Normalize(map[string]any{"person_titles": []any{"CTO"}})

	data, err := json.Marshal(set)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m, 18)
	assert.Equal(t, []any{"CTO"}, m["person_titles"])
	assert.Equal(t, []any{}, m["person_keywords"])
}
