package driver

import (
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CodeConstraintValidationFailed is the Neo4j status code for a write that
// would break a schema constraint, such as a duplicate unique property.
const CodeConstraintValidationFailed = "Neo.ClientError.Schema.ConstraintValidationFailed"

// IsConstraintViolation reports whether err carries the constraint
// validation status code from the server.
func IsConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return neoErr.Code == CodeConstraintValidationFailed
	}
	return false
}
