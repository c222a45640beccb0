package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// GraphProvider represents the type of graph database provider
type GraphProvider string

const (
	GraphProviderNeo4j GraphProvider = "neo4j"
)

// GraphDriver is the seam between the bubble gateway and the graph store.
// Each call runs exactly one Cypher statement in its own transaction and
// returns every record it produced.
type GraphDriver interface {
	// ExecuteRead runs a read-only statement.
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*db.Record, error)

	// ExecuteWrite runs a statement that may modify the graph.
	ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*db.Record, error)

	// VerifyConnectivity checks that the store is reachable.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error

	Provider() GraphProvider
}
