// Package filter defines the schema-complete query object the primary
// prospect-list provider requires, plus normalization from arbitrary
// (AI-produced or caller-supplied) partial data.
package filter

import "strings"

// DefaultBucket is the bucket label applied when a location arrives as a
// bare string instead of a {value, bucket} pair.
const DefaultBucket = "city"

// LocationFilter is the provider's composite location field: a place value
// plus the geographic bucket it names (city, state, country...).
type LocationFilter struct {
	Value  string `json:"value"`
	Bucket string `json:"bucket"`
}

// YearRange bounds company founding years. Zero bounds are omitted on the
// wire so an unset range marshals as {}.
type YearRange struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// RevenueRange bounds annual revenue in USD.
type RevenueRange struct {
	Min int64 `json:"min,omitempty"`
	Max int64 `json:"max,omitempty"`
}

// Set is the complete filter schema. Every field is always present with a
// type-correct value; the provider rejects list-creation payloads with
// missing keys, so partial sets must never leave this package.
type Set struct {
	PersonTitles        []string         `json:"person_titles"`
	PersonSeniorities   []string         `json:"person_seniorities"`
	PersonDepartments   []string         `json:"person_departments"`
	PersonLocations     []string         `json:"person_locations"`
	PersonKeywords      []string         `json:"person_keywords"`
	ContactEmailStatus  []string         `json:"contact_email_status"`
	CompanyNames        []string         `json:"company_names"`
	CompanyDomains      []string         `json:"company_domains"`
	CompanyIndustries   []string         `json:"company_industries"`
	CompanyKeywords     []string         `json:"company_keywords"`
	CompanyTechnologies []string         `json:"company_technologies"`
	CompanySizes        []string         `json:"company_sizes"`
	CompanyFunding      []string         `json:"company_funding_stages"`
	CompanySummary      string           `json:"company_summary"`
	CompanyLocation     []LocationFilter `json:"company_location"`
	FoundedYearRange    YearRange        `json:"founded_year_range"`
	RevenueRangeUSD     RevenueRange     `json:"revenue_range_usd"`
	UserLocation        map[string]any   `json:"user_location"`
}

// Default returns an empty but schema-complete Set: slices and maps are
// allocated so they marshal as [] and {} rather than null.
func Default() Set {
	return Set{
		PersonTitles:        []string{},
		PersonSeniorities:   []string{},
		PersonDepartments:   []string{},
		PersonLocations:     []string{},
		PersonKeywords:      []string{},
		ContactEmailStatus:  []string{},
		CompanyNames:        []string{},
		CompanyDomains:      []string{},
		CompanyIndustries:   []string{},
		CompanyKeywords:     []string{},
		CompanyTechnologies: []string{},
		CompanySizes:        []string{},
		CompanyFunding:      []string{},
		CompanyLocation:     []LocationFilter{},
		UserLocation:        map[string]any{},
	}
}

// Normalize coerces arbitrary filter data into a complete Set. The input may
// be nil, partial, or carry wrong types on any key; unrecognized or malformed
// values degrade to defaults. Normalize never fails.
func Normalize(raw any) Set {
	out := Default()

	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}

	out.PersonTitles = stringList(m["person_titles"])
	out.PersonSeniorities = stringList(m["person_seniorities"])
	out.PersonDepartments = stringList(m["person_departments"])
	out.PersonLocations = stringList(m["person_locations"])
	out.PersonKeywords = stringList(m["person_keywords"])
	out.ContactEmailStatus = stringList(m["contact_email_status"])
	out.CompanyNames = stringList(m["company_names"])
	out.CompanyDomains = stringList(m["company_domains"])
	out.CompanyIndustries = stringList(m["company_industries"])
	out.CompanyKeywords = stringList(m["company_keywords"])
	out.CompanyTechnologies = stringList(m["company_technologies"])
	out.CompanySizes = stringList(m["company_sizes"])
	out.CompanyFunding = stringList(m["company_funding_stages"])
	out.CompanySummary = trimmedString(m["company_summary"])
	out.CompanyLocation = locationList(m["company_location"])
	out.FoundedYearRange = yearRange(m["founded_year_range"])
	out.RevenueRangeUSD = revenueRange(m["revenue_range_usd"])
	out.UserLocation = objectOrEmpty(m["user_location"])

	return out
}

// stringList coerces v into a slice of trimmed non-empty strings. Non-string
// entries are dropped. A bare string becomes a one-element list.
func stringList(v any) []string {
	out := []string{}
	switch vv := v.(type) {
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
		}
	case []string:
		for _, s := range vv {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
	case string:
		if t := strings.TrimSpace(vv); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func trimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func objectOrEmpty(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// locationList accepts a bare string, a {value, bucket} object, or a list of
// either, and normalizes everything to LocationFilter pairs.
func locationList(v any) []LocationFilter {
	out := []LocationFilter{}
	switch vv := v.(type) {
	case []any:
		for _, item := range vv {
			if lf, ok := oneLocation(item); ok {
				out = append(out, lf)
			}
		}
	default:
		if lf, ok := oneLocation(v); ok {
			out = append(out, lf)
		}
	}
	return out
}

func oneLocation(v any) (LocationFilter, bool) {
	switch vv := v.(type) {
	case string:
		if t := strings.TrimSpace(vv); t != "" {
			return LocationFilter{Value: t, Bucket: DefaultBucket}, true
		}
	case map[string]any:
		value := trimmedString(vv["value"])
		if value == "" {
			value = trimmedString(vv["v"])
		}
		if value == "" {
			return LocationFilter{}, false
		}
		bucket := trimmedString(vv["bucket"])
		if bucket == "" {
			bucket = trimmedString(vv["b"])
		}
		if bucket == "" {
			bucket = DefaultBucket
		}
		return LocationFilter{Value: value, Bucket: bucket}, true
	}
	return LocationFilter{}, false
}

func yearRange(v any) YearRange {
	m, ok := v.(map[string]any)
	if !ok {
		return YearRange{}
	}
	return YearRange{
		Min: intValue(m["min"]),
		Max: intValue(m["max"]),
	}
}

func revenueRange(v any) RevenueRange {
	m, ok := v.(map[string]any)
	if !ok {
		return RevenueRange{}
	}
	return RevenueRange{
		Min: int64(intValue(m["min"])),
		Max: int64(intValue(m["max"])),
	}
}

// intValue handles the numeric types JSON decoding can produce.
func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}
