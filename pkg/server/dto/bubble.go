package dto

import (
	"github.com/soundprediction/bubbles/pkg/types"
)

// RelateRequest names the other end of a relate or unrelate call.
type RelateRequest struct {
	Other string `form:"other" json:"other" binding:"required"`
}

// BubbleResponse is the wire form of a bubble.
type BubbleResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ListResponse is returned by GET /bubbles. Error and Title echo the query
// parameters set by a failed create redirect so the form can be refilled.
type ListResponse struct {
	Bubbles []BubbleResponse `json:"bubbles"`
	Error   string           `json:"error,omitempty"`
	Title   string           `json:"title,omitempty"`
}

// DetailResponse is returned by GET /bubbles/:title.
type DetailResponse struct {
	Bubble    BubbleResponse   `json:"bubble"`
	RelatedTo []BubbleResponse `json:"related_to"`
	Others    []BubbleResponse `json:"others"`
	Error     string           `json:"error,omitempty"`
}

// FromBubble converts a snapshot to its wire form.
func FromBubble(b *types.Bubble) BubbleResponse {
	return BubbleResponse{
		ID:         b.ID,
		Title:      b.Title,
		Properties: b.Properties,
	}
}

// FromBubbles converts a list of snapshots, never returning nil.
func FromBubbles(bubbles []*types.Bubble) []BubbleResponse {
	out := make([]BubbleResponse, 0, len(bubbles))
	for _, b := range bubbles {
		out = append(out, FromBubble(b))
	}
	return out
}
