package model

import "time"

// RunStatus tracks the lifecycle of one recorded pipeline invocation.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusBuilding RunStatus = "building"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the operational record of a single search request. Table contents
// themselves are not persisted; only metadata about the invocation.
type Run struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Size      int       `json:"size"`
	Provider  string    `json:"provider,omitempty"`
	Status    RunStatus `json:"status"`
	ListID    string    `json:"list_id,omitempty"`
	RowCount  int       `json:"row_count"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunOutcome is what gets recorded once a pipeline invocation finishes.
type RunOutcome struct {
	Provider string
	Status   RunStatus
	ListID   string
	RowCount int
	Error    string
}
