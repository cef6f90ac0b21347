// Package contact maps heterogeneous raw provider records into one canonical
// flat contact row.
package contact

import "strings"

// Contact is the canonical row shape, independent of which provider produced
// the underlying record. Every field is a plain string; absent source data
// degrades to "".
type Contact struct {
	FullName        string `json:"fullName"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Email           string `json:"email"`
	EmailStatus     string `json:"emailStatus"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Linkedin        string `json:"linkedin"`
	CompanyDomain   string `json:"companyDomain"`
	CompanyLinkedIn string `json:"companyLinkedIn"`
}

// Columns is the canonical column order for rendered tables.
var Columns = []string{
	"Full Name", "Title", "Company", "Email", "Email Status",
	"Phone", "Location", "LinkedIn", "Company Domain", "Company LinkedIn",
}

// Row renders the contact in Columns order.
func (c Contact) Row() []string {
	return []string{
		c.FullName, c.Title, c.Company, c.Email, c.EmailStatus,
		c.Phone, c.Location, c.Linkedin, c.CompanyDomain, c.CompanyLinkedIn,
	}
}

// Candidate source paths per canonical field, probed in order. A path walks
// nested objects with dots; a segment that lands on an array scans entries
// in order and the first non-empty trimmed string wins.
var fieldPaths = map[string][]string{
	"fullName":        {"name", "full_name"},
	"title":           {"title", "position", "headline"},
	"company":         {"organization.name", "organization_name", "company"},
	"email":           {"email", "value", "contact_email"},
	"emailStatus":     {"email_status", "verification.status"},
	"phone":           {"phone", "phone_number", "sanitized_phone", "phone_numbers.raw_number", "phone_numbers"},
	"location":        {"location", "present_raw_address"},
	"linkedin":        {"linkedin_url", "linkedin"},
	"companyDomain":   {"organization.primary_domain", "domain", "company_domain"},
	"companyLinkedIn": {"organization.linkedin_url", "company_linkedin_url", "company_linkedin"},
}

// Normalize maps a raw provider record into a Contact. Pure function; it
// never fails — malformed or missing input degrades to empty strings.
func Normalize(raw map[string]any) Contact {
	c := Contact{
		FullName:        probe(raw, fieldPaths["fullName"]),
		Title:           probe(raw, fieldPaths["title"]),
		Company:         probe(raw, fieldPaths["company"]),
		Email:           probe(raw, fieldPaths["email"]),
		EmailStatus:     probe(raw, fieldPaths["emailStatus"]),
		Phone:           probe(raw, fieldPaths["phone"]),
		Location:        probe(raw, fieldPaths["location"]),
		Linkedin:        probe(raw, fieldPaths["linkedin"]),
		CompanyDomain:   probe(raw, fieldPaths["companyDomain"]),
		CompanyLinkedIn: probe(raw, fieldPaths["companyLinkedIn"]),
	}

	// Composite fallbacks for records that only carry split parts.
	if c.FullName == "" {
		c.FullName = joinNonEmpty(" ", probe(raw, []string{"first_name"}), probe(raw, []string{"last_name"}))
	}
	if c.Location == "" {
		c.Location = joinNonEmpty(", ",
			probe(raw, []string{"city"}),
			probe(raw, []string{"state"}),
			probe(raw, []string{"country"}),
		)
	}

	return c
}

// probe returns the first non-empty trimmed string found under paths.
func probe(raw map[string]any, paths []string) string {
	for _, p := range paths {
		if s := lookup(raw, strings.Split(p, ".")); s != "" {
			return s
		}
	}
	return ""
}

// lookup walks segments through nested maps, scanning arrays entry by entry.
func lookup(v any, segments []string) string {
	if len(segments) == 0 {
		return firstString(v)
	}

	switch vv := v.(type) {
	case map[string]any:
		return lookup(vv[segments[0]], segments[1:])
	case []any:
		for _, item := range vv {
			if s := lookup(item, segments); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstString extracts a trimmed string from a terminal value: a bare
// string, or the first non-empty string entry of an array.
func firstString(v any) string {
	switch vv := v.(type) {
	case string:
		return strings.TrimSpace(vv)
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
