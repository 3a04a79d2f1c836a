package query

import "context"

// Row is one structured record returned by a resource query.
type Row map[string]any

// Spec describes a single resource query against the cloud provider's
// CLI. Args is the command without the leading binary name; Project and
// Filter are appended as flags when set.
type Spec struct {
	Args    []string
	Project string
	Filter  string
	Limit   int
}

// Executor runs resource queries. Implementations expose exactly three
// outcomes: rows, no rows, or an error. Callers treat the last two as
// "no information available".
type Executor interface {
	// Query executes the spec and decodes the JSON result.
	Query(ctx context.Context, spec Spec) ([]Row, error)
	// Probe executes the spec and reports only whether it succeeded.
	// Used for permission probing, where output content is irrelevant.
	Probe(ctx context.Context, spec Spec) error
}

// Str extracts a string field from a row, tolerating missing keys.
func (r Row) Str(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Child extracts a nested object field from a row.
func (r Row) Child(key string) Row {
	if v, ok := r[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return Row(m)
		}
	}
	return nil
}
