// Package records is the adapter to the generic record store backing all
// durable state. Tables follow the backend's column-suffix convention
// (post_c, title_c, ...); every record carries an integer id assigned by the
// store.
package records

import (
	"context"
	"strconv"
)

// Table names.
const (
	TablePosts       = "post_c"
	TableComments    = "comment_c"
	TableCommunities = "community_c"
	TableUsers       = "user_c"
)

// FieldID is the id key present on every record.
const FieldID = "Id"

// Where operators understood by the store.
const (
	OpEqualTo              = "EqualTo"
	OpGreaterThanOrEqualTo = "GreaterThanOrEqualTo"
)

// Record is a raw store row: column-suffixed field names mapped to values.
type Record map[string]any

// Where is a single filter condition.
type Where struct {
	FieldName string
	Operator  string
	Values    []any
}

// OrderBy sorts results by a single field.
type OrderBy struct {
	Field string
	Desc  bool
}

// Paging limits and offsets a fetch.
type Paging struct {
	Limit  int
	Offset int
}

// Query selects fields and rows for a fetch. An empty Fields list selects
// every field.
type Query struct {
	Fields  []string
	Where   []Where
	OrderBy []OrderBy
	Paging  *Paging
}

// Client is the record store contract. A store failure surfaces as a
// returned error; a lookup miss is an AppError with code NOT_FOUND.
type Client interface {
	FetchRecords(ctx context.Context, table string, query Query) ([]Record, error)
	GetRecordByID(ctx context.Context, table string, id int, query Query) (Record, error)
	CreateRecord(ctx context.Context, table string, fields Record) (Record, error)
	UpdateRecord(ctx context.Context, table string, id int, fields Record) (Record, error)
	DeleteRecords(ctx context.Context, table string, ids []int) error
}

// ID returns the record's integer id, or 0 when absent.
func (r Record) ID() int {
	return r.Int(FieldID)
}

// Int reads an integer field, coercing the numeric types the store may hand
// back. Missing or non-numeric values default to 0.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// IntPtr reads a nullable integer field; nil when the field is absent or
// null.
func (r Record) IntPtr(key string) *int {
	if v, ok := r[key]; !ok || v == nil {
		return nil
	}
	n := r.Int(key)
	return &n
}

// String reads a string field, defaulting to "".
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// numeric coerces a value to float64 for comparisons.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// valuesEqual compares two record values, treating all numeric types as one.
func valuesEqual(a, b any) bool {
	if an, ok := numeric(a); ok {
		if bn, ok := numeric(b); ok {
			return an == bn
		}
		return false
	}
	return a == b
}
