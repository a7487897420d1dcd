package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormData is the field map accumulated across wizard steps. Values arrive
// from JSON, so numbers are float64 and lists are []any.
type FormData map[string]any

// Merge copies every key of other into f. Keys are never removed.
func (f FormData) Merge(other FormData) {
	for k, v := range other {
		f[k] = v
	}
}

// Clone returns a shallow copy of f.
func (f FormData) Clone() FormData {
	out := make(FormData, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the trimmed string form of a scalar field.
func (f FormData) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Bool interprets checkbox-like values.
func (f FormData) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case float64:
		return v != 0
	default:
		return false
	}
}

// Float parses a numeric field. ok is false when the field is absent or not a number.
func (f FormData) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// List returns the non-empty string elements of a list field. File lists may
// carry either plain IDs or objects with an "id" key.
func (f FormData) List(key string) []string {
	var out []string
	switch v := f[key].(type) {
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				if it != "" {
					out = append(out, it)
				}
			case map[string]any:
				if id, ok := it["id"].(string); ok && id != "" {
					out = append(out, id)
				}
			}
		}
	}
	return out
}
