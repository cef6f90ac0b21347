package model

// Size bounds for a single lead-table request. The downstream providers get
// noticeably slower and more expensive past 30 profiles per list.
const (
	MinSize = 1
	MaxSize = 30
)

// GeoPoint is an optional caller location used to bias "near me" searches.
type GeoPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// SearchRequest is a single lead-discovery request. Prompt is required unless
// ExistingListID resumes a previously created prospect list.
type SearchRequest struct {
	Prompt         string    `json:"prompt"`
	Size           int       `json:"size"`
	ExistingListID string    `json:"listId,omitempty"`
	UserLocation   *GeoPoint `json:"userLocation,omitempty"`
}

// ClampedSize returns Size forced into [MinSize, MaxSize]. A zero Size (the
// JSON default) clamps to MinSize.
func (r SearchRequest) ClampedSize() int {
	if r.Size < MinSize {
		return MinSize
	}
	if r.Size > MaxSize {
		return MaxSize
	}
	return r.Size
}

// Resumes reports whether the request resumes an existing prospect list
// instead of translating the prompt and creating a new one.
func (r SearchRequest) Resumes() bool {
	return r.ExistingListID != ""
}
