package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// TypeConversionError represents an error during type conversion from database types.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{
		Expected: expected,
		Actual:   actual,
		Field:    field,
	}
}

// AsRecordSlice safely converts an interface{} to []*db.Record.
func AsRecordSlice(v any) ([]*db.Record, bool) {
	if v == nil {
		return nil, false
	}
	records, ok := v.([]*db.Record)
	return records, ok
}

// AsDBNode safely converts an interface{} to dbtype.Node.
func AsDBNode(v any) (dbtype.Node, bool) {
	if v == nil {
		return dbtype.Node{}, false
	}
	node, ok := v.(dbtype.Node)
	return node, ok
}

// AsString safely converts an interface{} to string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AsInt64 safely converts an interface{} to int64.
func AsInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.(int64)
	return i, ok
}

// MustRecordSlice converts an interface{} to []*db.Record or returns an error.
// A nil value is an empty result.
func MustRecordSlice(v any, field string) ([]*db.Record, error) {
	if v == nil {
		return nil, nil
	}
	records, ok := AsRecordSlice(v)
	if !ok {
		return nil, NewTypeConversionError("[]*db.Record", fmt.Sprintf("%T", v), field)
	}
	return records, nil
}

// RecordNode returns the node stored under key in record.
func RecordNode(record *db.Record, key string) (dbtype.Node, error) {
	if record == nil {
		return dbtype.Node{}, NewTypeConversionError("*db.Record", "nil", key)
	}
	v, found := record.Get(key)
	if !found {
		return dbtype.Node{}, fmt.Errorf("record has no field %q", key)
	}
	node, ok := AsDBNode(v)
	if !ok {
		return dbtype.Node{}, NewTypeConversionError("dbtype.Node", fmt.Sprintf("%T", v), key)
	}
	return node, nil
}

// RecordInt64 returns the integer stored under key in record.
func RecordInt64(record *db.Record, key string) (int64, error) {
	if record == nil {
		return 0, NewTypeConversionError("*db.Record", "nil", key)
	}
	v, found := record.Get(key)
	if !found {
		return 0, fmt.Errorf("record has no field %q", key)
	}
	i, ok := AsInt64(v)
	if !ok {
		return 0, NewTypeConversionError("int64", fmt.Sprintf("%T", v), key)
	}
	return i, nil
}
