// Package payload parses captured request bodies and extracts fields by a
// declarative alias schema
//
// Upstream clients are inconsistent about field casing and nesting, so lookup
// is case-insensitive at the top level with an exact-by-name depth-first
// fallback into nested objects
package payload

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Map is a parsed key/value request body
type Map map[string]any

// Decode parses raw body bytes into a Map. JSON objects are preferred; a
// non-JSON body falls back to a best-effort k=v&k2=v2 form parse. A body that
// yields no keys returns nil
func Decode(raw []byte) Map {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err == nil {
		return Map(m)
	}
	// valid JSON that is not an object (array, scalar) carries no fields
	if json.Valid([]byte(s)) {
		return nil
	}
	if !strings.Contains(s, "=") {
		return nil
	}
	vals, err := url.ParseQuery(s)
	if err != nil || len(vals) == 0 {
		return nil
	}
	out := make(Map, len(vals))
	for k, v := range vals {
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = v
		}
	}
	return out
}

// Field is an ordered list of accepted key aliases for one logical value
type Field []string

// Schemas for the two capture streams. Alias order is probe order
var (
	FieldSubject      = Field{"employeeCode", "EmployeeCode", "empCode"}
	FieldAnswerID     = Field{"answerMessageId", "AnswerMessageId", "answerMsgId"}
	FieldRequestID    = Field{"messageId", "MessageId", "msgId"}
	FieldMessage      = Field{"message", "content", "prompt", "Message"}
	FieldModelVariant = Field{"modelCode", "model", "ModelCode"}
	FieldEventType    = Field{"CustomType", "customType"}
	FieldStepName     = Field{"StepName", "stepName"}
)

// Lookup returns the first value matching any alias, case-insensitively, at
// the top level of m. ok is false when no alias matched
func (f Field) Lookup(m Map) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, alias := range f {
		if v, ok := m[alias]; ok {
			return v, true
		}
	}
	// case-insensitive pass over actual keys
	for _, alias := range f {
		low := strings.ToLower(alias)
		for k, v := range m {
			if strings.ToLower(k) == low {
				return v, true
			}
		}
	}
	return nil, false
}

// LookupDeep searches like Lookup, then walks nested objects depth-first
// comparing keys case-insensitively by exact name
func (f Field) LookupDeep(m Map) (any, bool) {
	if v, ok := f.Lookup(m); ok {
		return v, true
	}
	lowers := make([]string, len(f))
	for i, alias := range f {
		lowers[i] = strings.ToLower(alias)
	}
	var walk func(cur map[string]any) (any, bool)
	walk = func(cur map[string]any) (any, bool) {
		for k, v := range cur {
			lk := strings.ToLower(k)
			for _, want := range lowers {
				if lk == want {
					return v, true
				}
			}
		}
		for _, v := range cur {
			if sub, ok := v.(map[string]any); ok {
				if got, ok := walk(sub); ok {
					return got, true
				}
			}
		}
		return nil, false
	}
	return walk(m)
}

// String extracts the field as a string, formatting scalars the way the wire
// sent them. Missing or null yields ""
func (f Field) String(m Map) string {
	v, ok := f.LookupDeep(m)
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

// Int extracts the field as an int, tolerating JSON numbers and numeric
// strings. ok is false when absent or non-numeric
func (f Field) Int(m Map) (int, bool) {
	v, ok := f.LookupDeep(m)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers arrive as float64; ids are integral
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
