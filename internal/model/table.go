package model

// Table is the contract returned to callers: a titled grid where every row
// has exactly len(Columns) cells.
type Table struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
}

// AddRow appends a row, padding or truncating it to the column count so the
// row-length invariant holds no matter what the caller passes.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// JobMeta describes the provider-side job that produced a table.
type JobMeta struct {
	Total      int    `json:"total,omitempty"`
	Returned   int    `json:"returned,omitempty"`
	Filters    any    `json:"filters,omitempty"`
	ListID     string `json:"listId,omitempty"`
	ListStatus string `json:"listStatus,omitempty"`
}

// Providers that can satisfy a search.
const (
	ProviderPrimary  = "primary"
	ProviderFallback = "fallback"
)

// SearchResult is the orchestrator's response envelope. Building indicates
// the async prospect list is still being assembled; callers resubmit with the
// list id from JobMeta to resume polling.
type SearchResult struct {
	Table    Table    `json:"tableSpec"`
	Provider string   `json:"provider,omitempty"`
	Building bool     `json:"-"`
	JobMeta  *JobMeta `json:"jobMeta,omitempty"`
}
