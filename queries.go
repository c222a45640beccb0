package bubbles

// Cypher statements issued by the gateway. Each operation is exactly one
// statement so the store evaluates it atomically.
const (
	createConstraintQuery = `
		CREATE CONSTRAINT bubble_title_unique IF NOT EXISTS
		FOR (b:Bubble) REQUIRE b.title IS UNIQUE
	`

	createBubbleQuery = `
		CREATE (b:Bubble)
		SET b = $props
		RETURN b
	`

	getBubbleQuery = `
		MATCH (b:Bubble {title: $title})
		RETURN b
	`

	getAllBubblesQuery = `
		MATCH (b:Bubble)
		RETURN b
	`

	patchBubbleQuery = `
		MATCH (b:Bubble {title: $title})
		SET b += $props
		RETURN b
	`

	deleteBubbleQuery = `
		MATCH (b:Bubble {title: $title})
		DETACH DELETE b
	`

	relateQuery = `
		MATCH (b:Bubble {title: $title})
		MATCH (other:Bubble {title: $otherTitle})
		MERGE (b)-[:related]->(other)
	`

	unrelateQuery = `
		MATCH (b:Bubble {title: $title})
		MATCH (other:Bubble {title: $otherTitle})
		MATCH (b)-[r:related]->(other)
		DELETE r
	`

	// Every other bubble paired with the number (0 or 1) of related edges
	// pointing at it from b. The row for b itself is filtered by the caller.
	listRelatedAndOthersQuery = `
		MATCH (b:Bubble {title: $title}), (other:Bubble)
		OPTIONAL MATCH (b)-[r:related]->(other)
		RETURN other, COUNT(r) AS rels
	`
)
