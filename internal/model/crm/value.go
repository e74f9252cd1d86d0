package crm

import (
	"encoding/json"
	"strconv"
)

// Kind discriminates the value union.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindList
)

// Value is one CRM field value: null, string, number, bool, nested
// record, or list of values.
type Value struct {
	kind    Kind
	str     string
	num     json.Number
	boolean bool
	obj     *Record
	list    []Value
}

// Kind reports the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is JSON null (or the zero Value).
func (v Value) IsNull() bool { return v.kind == KindNull }

// Object returns the nested record for KindObject values.
func (v Value) Object() (*Record, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// List returns the element slice for KindList values.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Text renders scalar values as display text. Objects and lists render
// as compact JSON; null renders empty.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNull:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSON renders the value back to its source JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.boolean)
	case KindObject:
		return json.Marshal(v.obj)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a single JSON value, preserving object key order
// and number representations.
func (v *Value) UnmarshalJSON(data []byte) error {
	var wrapper Record
	// Reuse the record decoder by wrapping the value in an object.
	payload := append(append([]byte(`{"v":`), data...), '}')
	if err := wrapper.UnmarshalJSON(payload); err != nil {
		return err
	}
	decoded, _ := wrapper.Get("v")
	*v = decoded
	return nil
}
