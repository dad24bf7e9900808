// Package graph owns the connection to the Neo4j backend and the catalog of
// traversal templates the tools are built from. Results cross the package
// boundary as generic rows; shaping into tool schemas happens elsewhere.
package graph

// Row is one record returned by a traversal, keyed by the RETURN aliases of
// the template that produced it. Values hold the driver's native types
// (string, int64, float64, bool, []any, nil).
type Row map[string]interface{}

// String returns the value under key as a string, empty when absent or null.
func (r Row) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// OptString returns the value under key as a *string, nil when absent,
// null, or empty. Pointers keep "unknown" distinguishable downstream.
func (r Row) OptString(key string) *string {
	if s, ok := r[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

// Int returns the value under key as an int64, zero when absent or null.
// Float values are truncated; the backend returns whole-number aggregates
// as int64 but sum() over mixed nulls can surface floats.
func (r Row) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}

// OptInt returns the value under key as a *int64, nil when absent or null.
func (r Row) OptInt(key string) *int64 {
	switch v := r[key].(type) {
	case int64:
		return &v
	case float64:
		n := int64(v)
		return &n
	case int:
		n := int64(v)
		return &n
	}
	return nil
}

// Bool returns the value under key as a bool, false when absent or null.
func (r Row) Bool(key string) bool {
	if b, ok := r[key].(bool); ok {
		return b
	}
	return false
}

// Strings returns the value under key as a []string, dropping nulls and
// non-string members. Collect() aggregates arrive as []any.
func (r Row) Strings(key string) []string {
	raw, ok := r[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
