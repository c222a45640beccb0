package bubbles

import (
	"context"

	"github.com/soundprediction/bubbles/pkg/types"
)

// The Bubbles interface is composed from these smaller interfaces.
// Consumers should depend on the smallest interface that meets their needs.

// BubbleReader provides read-only access to bubbles.
type BubbleReader interface {
	// Get returns the bubble with the given title, or a not-found error.
	Get(ctx context.Context, title string) (*types.Bubble, error)

	// GetAll returns every bubble. Order is defined by the store.
	GetAll(ctx context.Context) ([]*types.Bubble, error)

	// ListRelatedAndOthers partitions every other bubble by whether the given
	// bubble has a related edge to it.
	ListRelatedAndOthers(ctx context.Context, bubble *types.Bubble) (relatedTo, others []*types.Bubble, err error)
}

// BubbleWriter creates, updates and deletes bubbles.
type BubbleWriter interface {
	// Create validates attrs (all required fields present) and creates a bubble.
	Create(ctx context.Context, attrs types.Attributes) (*types.Bubble, error)

	// Patch validates attrs as a partial update and returns the refreshed bubble.
	Patch(ctx context.Context, bubble *types.Bubble, attrs types.Attributes) (*types.Bubble, error)

	// Delete removes the bubble and its related edges.
	Delete(ctx context.Context, bubble *types.Bubble) error
}

// Relater manages related edges between bubbles.
type Relater interface {
	// Relate creates the edge bubble -> other if it does not exist.
	Relate(ctx context.Context, bubble, other *types.Bubble) error

	// Unrelate removes the edge bubble -> other if it exists.
	Unrelate(ctx context.Context, bubble, other *types.Bubble) error
}

// Bubbles is the full gateway used by the HTTP server and the CLI.
type Bubbles interface {
	BubbleReader
	BubbleWriter
	Relater

	// CreateConstraints registers the title uniqueness constraint.
	CreateConstraints(ctx context.Context) error

	// VerifyConnectivity checks that the graph store is reachable.
	VerifyConnectivity(ctx context.Context) error

	// Close closes all connections and cleans up resources.
	Close(ctx context.Context) error
}
