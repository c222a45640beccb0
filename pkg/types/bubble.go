package types

import (
	"maps"
	"time"
)

// BubbleLabel is the node label every bubble carries in the graph.
const BubbleLabel = "Bubble"

// RelatedType is the relationship type linking one bubble to another.
const RelatedType = "related"

// Attributes holds user-supplied field values for a bubble.
// Values come from forms, JSON bodies or fixtures, so they are untyped.
type Attributes map[string]any

// Title returns the title attribute when it is a string.
func (a Attributes) Title() (string, bool) {
	v, ok := a["title"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bubble is a snapshot of a Bubble node as last returned by the store.
// Snapshots are never modified after construction; operations that change
// a bubble return a new one.
type Bubble struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Properties map[string]any `json:"properties,omitempty"`
	FetchedAt  time.Time      `json:"-"`
}

// NewBubble builds a snapshot from a node identity and its property map.
// The property map is copied.
func NewBubble(id string, props map[string]any) *Bubble {
	b := &Bubble{
		ID:         id,
		Properties: maps.Clone(props),
		FetchedAt:  time.Now().UTC(),
	}
	if b.Properties == nil {
		b.Properties = map[string]any{}
	}
	if title, ok := props["title"].(string); ok {
		b.Title = title
	}
	return b
}

// Property returns a single property value.
func (b *Bubble) Property(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.Properties[key]
	return v, ok
}

// Titles returns the titles of the given bubbles in order.
func Titles(bubbles []*Bubble) []string {
	titles := make([]string, 0, len(bubbles))
	for _, b := range bubbles {
		titles = append(titles, b.Title)
	}
	return titles
}
