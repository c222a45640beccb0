// Package bubbles is a small graph-backed store of "bubbles": nodes identified
// by a unique title and linked by directed related edges.
//
// The Client in this package is the gateway between application code and the
// graph store. It validates input, issues one Cypher statement per operation,
// and maps store responses to snapshots and typed errors.
//
// # Basic Usage
//
//	d, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "neo4j", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := bubbles.NewClient(d, slog.Default())
//	defer client.Close(ctx)
//
//	if err := client.CreateConstraints(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	alpha, err := client.Create(ctx, types.Attributes{"title": "Alpha"})
//	beta, err := client.Create(ctx, types.Attributes{"title": "Beta"})
//	err = client.Relate(ctx, alpha, beta)
//
//	related, others, err := client.ListRelatedAndOthers(ctx, alpha)
//
// # Errors
//
// Failures carry a types.ErrorKind. Validation errors cover bad input and
// taken titles, not-found errors cover unknown titles, and a concurrency error
// is returned when a bubble is deleted while being patched. Everything else the
// store reports is wrapped as a store error; nothing is retried.
package bubbles
