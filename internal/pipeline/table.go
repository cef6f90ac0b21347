package pipeline

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/model"
)

const maxTitleLen = 60

// buildContactTable renders normalized contacts into the canonical table.
func buildContactTable(prompt string, contacts []contact.Contact) model.Table {
	t := model.Table{
		Title:       tableTitle(prompt),
		Description: "Contacts discovered for: " + strings.TrimSpace(prompt),
		Columns:     contact.Columns,
		Rows:        [][]string{},
	}
	for _, c := range contacts {
		t.AddRow(c.Row()...)
	}
	return t
}

// buildingTable is the 202 payload: status rows only, carrying the list id
// the caller resubmits to resume polling.
func buildingTable(listID, status string) model.Table {
	t := model.Table{
		Title:       "Prospect list building",
		Description: "The list is still being assembled. Resubmit with this list id to check again.",
		Columns:     []string{"List ID", "Status"},
		Rows:        [][]string{},
	}
	t.AddRow(listID, status)
	return t
}

func tableTitle(prompt string) string {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "Lead results"
	}
	if len(p) > maxTitleLen {
		p = p[:maxTitleLen] + "…"
	}
	return "Leads: " + p
}
