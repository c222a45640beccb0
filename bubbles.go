package bubbles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/soundprediction/bubbles/pkg/driver"
	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/soundprediction/bubbles/pkg/validation"
)

// ErrNilBubble is returned when an operation is given a nil bubble.
var ErrNilBubble = errors.New("bubble is required")

// Client is the gateway between bubble operations and the graph store.
// It is safe for concurrent use; all state lives in the store.
type Client struct {
	driver    driver.GraphDriver
	validator *validation.Validator
	logger    *slog.Logger
}

var _ Bubbles = (*Client)(nil)

// NewClient creates a gateway over the given driver. The driver is shared by
// all callers and is closed by Close.
func NewClient(d driver.GraphDriver, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		driver:    d,
		validator: validation.Default(),
		logger:    logger,
	}
}

// CreateConstraints registers the uniqueness constraint on Bubble titles.
// It is idempotent and must complete before the process serves requests.
func (c *Client) CreateConstraints(ctx context.Context) error {
	if _, err := c.driver.ExecuteWrite(ctx, createConstraintQuery, nil); err != nil {
		return types.NewStartupError("create bubble title constraint", err)
	}
	c.logger.Info("Bubble title constraint registered")
	return nil
}

// Create validates attrs and creates a new bubble.
func (c *Client) Create(ctx context.Context, attrs types.Attributes) (*types.Bubble, error) {
	props, err := c.validator.Validate(attrs, true)
	if err != nil {
		return nil, err
	}

	records, err := c.write(ctx, "create bubble", createBubbleQuery, map[string]any{
		"props": map[string]any(props),
	})
	if err != nil {
		return nil, c.translate(err, props)
	}
	if len(records) == 0 {
		return nil, types.NewStoreError("create bubble", errors.New("store returned no node"))
	}
	return bubbleFromRecord(records[0], "b")
}

// Get returns the bubble with the given title.
func (c *Client) Get(ctx context.Context, title string) (*types.Bubble, error) {
	records, err := c.read(ctx, "get bubble", getBubbleQuery, map[string]any{
		"title": title,
	})
	if err != nil {
		return nil, types.NewStoreError("get bubble", err)
	}
	if len(records) == 0 {
		return nil, types.NewNotFoundError(title)
	}
	return bubbleFromRecord(records[0], "b")
}

// GetAll returns every bubble in store order.
func (c *Client) GetAll(ctx context.Context) ([]*types.Bubble, error) {
	records, err := c.read(ctx, "get all bubbles", getAllBubblesQuery, nil)
	if err != nil {
		return nil, types.NewStoreError("get all bubbles", err)
	}

	bubbles := make([]*types.Bubble, 0, len(records))
	for _, record := range records {
		b, err := bubbleFromRecord(record, "b")
		if err != nil {
			return nil, err
		}
		bubbles = append(bubbles, b)
	}
	return bubbles, nil
}

// Patch validates attrs as a partial update and merges them into the stored
// bubble. It returns the snapshot the store reports after the update; the
// given bubble is left untouched.
func (c *Client) Patch(ctx context.Context, bubble *types.Bubble, attrs types.Attributes) (*types.Bubble, error) {
	if bubble == nil {
		return nil, ErrNilBubble
	}
	props, err := c.validator.Validate(attrs, false)
	if err != nil {
		return nil, err
	}

	records, err := c.write(ctx, "patch bubble", patchBubbleQuery, map[string]any{
		"title": bubble.Title,
		"props": map[string]any(props),
	})
	if err != nil {
		return nil, c.translate(err, props)
	}
	if len(records) == 0 {
		return nil, types.NewConcurrencyError("Bubble has been deleted")
	}
	return bubbleFromRecord(records[0], "b")
}

// Delete removes the bubble and every related edge touching it. Deleting a
// bubble that no longer exists is not an error.
func (c *Client) Delete(ctx context.Context, bubble *types.Bubble) error {
	if bubble == nil {
		return ErrNilBubble
	}
	if _, err := c.write(ctx, "delete bubble", deleteBubbleQuery, map[string]any{
		"title": bubble.Title,
	}); err != nil {
		return types.NewStoreError("delete bubble", err)
	}
	return nil
}

// Relate creates a related edge from bubble to other. Relating twice leaves a single edge.
func (c *Client) Relate(ctx context.Context, bubble, other *types.Bubble) error {
	if bubble == nil || other == nil {
		return ErrNilBubble
	}
	if _, err := c.write(ctx, "relate bubbles", relateQuery, map[string]any{
		"title":      bubble.Title,
		"otherTitle": other.Title,
	}); err != nil {
		return types.NewStoreError("relate bubbles", err)
	}
	return nil
}

// Unrelate removes the related edge from bubble to other, if there is one.
func (c *Client) Unrelate(ctx context.Context, bubble, other *types.Bubble) error {
	if bubble == nil || other == nil {
		return ErrNilBubble
	}
	if _, err := c.write(ctx, "unrelate bubbles", unrelateQuery, map[string]any{
		"title":      bubble.Title,
		"otherTitle": other.Title,
	}); err != nil {
		return types.NewStoreError("unrelate bubbles", err)
	}
	return nil
}

// ListRelatedAndOthers splits every other bubble into those bubble has a
// related edge to and the rest. The bubble itself appears in neither list.
func (c *Client) ListRelatedAndOthers(ctx context.Context, bubble *types.Bubble) (relatedTo, others []*types.Bubble, err error) {
	if bubble == nil {
		return nil, nil, ErrNilBubble
	}
	records, err := c.read(ctx, "list related bubbles", listRelatedAndOthersQuery, map[string]any{
		"title": bubble.Title,
	})
	if err != nil {
		return nil, nil, types.NewStoreError("list related bubbles", err)
	}

	relatedTo = []*types.Bubble{}
	others = []*types.Bubble{}
	for _, record := range records {
		candidate, err := bubbleFromRecord(record, "other")
		if err != nil {
			return nil, nil, err
		}
		if candidate.Title == bubble.Title {
			continue
		}
		rels, err := driver.RecordInt64(record, "rels")
		if err != nil {
			return nil, nil, types.NewStoreError("list related bubbles", err)
		}
		if rels > 0 {
			relatedTo = append(relatedTo, candidate)
		} else {
			others = append(others, candidate)
		}
	}
	return relatedTo, others, nil
}

// VerifyConnectivity checks that the graph store is reachable.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Close closes the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) read(ctx context.Context, op, query string, params map[string]any) ([]*db.Record, error) {
	c.logger.DebugContext(ctx, "Running graph query", "op", op, "mode", "read")
	return c.driver.ExecuteRead(ctx, query, params)
}

func (c *Client) write(ctx context.Context, op, query string, params map[string]any) ([]*db.Record, error) {
	c.logger.DebugContext(ctx, "Running graph query", "op", op, "mode", "write")
	return c.driver.ExecuteWrite(ctx, query, params)
}

// translate maps a uniqueness violation on a write to a validation error.
// Any other store error is wrapped as a store error.
func (c *Client) translate(err error, props types.Attributes) error {
	if driver.IsConstraintViolation(err) {
		title, _ := props.Title()
		c.logger.Warn("Bubble title already taken", "title", title)
		return types.NewValidationError(fmt.Sprintf("The title '%s' is taken.", title))
	}
	return types.NewStoreError("write bubble", err)
}

func bubbleFromRecord(record *db.Record, key string) (*types.Bubble, error) {
	node, err := driver.RecordNode(record, key)
	if err != nil {
		return nil, types.NewStoreError("decode bubble", err)
	}
	return types.NewBubble(node.ElementId, node.Props), nil
}
