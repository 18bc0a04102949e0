package models

import "fmt"

// Record is a raw decoded-JSON entity record, either as received from the
// catalog API or as written by this client's own persistence.
type Record map[string]interface{}

// MalformedRecordError reports a required field that was missing or had the
// wrong shape while constructing an entity from a record.
type MalformedRecordError struct {
	Kind  Kind
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: missing or invalid %q", e.Kind, e.Field)
}

func missingField(kind Kind, field string) error {
	return &MalformedRecordError{Kind: kind, Field: field}
}

func (r Record) str(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func (r Record) flag(key string) (bool, bool) {
	v, ok := r[key].(bool)
	return v, ok
}

// record returns the single child record under key. The value may be a
// Record (round-tripping in memory) or a plain map (decoded JSON).
func (r Record) record(key string) (Record, bool) {
	switch v := r[key].(type) {
	case Record:
		return v, true
	case map[string]interface{}:
		return Record(v), true
	default:
		return nil, false
	}
}

// records returns the list of child records under key. Elements may be
// Record values (round-tripping in memory) or plain maps (decoded JSON).
func (r Record) records(key string) ([]Record, bool) {
	raw, ok := r[key]
	if !ok {
		return nil, false
	}
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case []Record:
		out := make([]Record, len(v))
		copy(out, v)
		return out, true
	default:
		return nil, false
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		switch rec := item.(type) {
		case Record:
			out = append(out, rec)
		case map[string]interface{}:
			out = append(out, Record(rec))
		default:
			return nil, false
		}
	}
	return out, true
}

// millis reads a millisecond count that the API serves inconsistently as
// either a JSON number or a numeric string.
func (r Record) millis(key string) (int64, bool) {
	switch v := r[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		var ms int64
		if _, err := fmt.Sscanf(v, "%d", &ms); err != nil {
			return 0, false
		}
		return ms, true
	default:
		return 0, false
	}
}

// artistID reads an artist id the API serves as either a bare string or a
// list of strings, in which case the first entry wins. A known upstream
// inconsistency, normalized here rather than treated as an error.
func (r Record) artistID(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, true
	case []interface{}:
		if len(v) == 0 {
			return "", false
		}
		id, ok := v[0].(string)
		return id, ok
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return v[0], true
	default:
		return "", false
	}
}

func hasKeys(r Record, keys ...string) bool {
	for _, k := range keys {
		if _, ok := r[k]; !ok {
			return false
		}
	}
	return true
}
