// Package crm models CRM records as open-ended, order-preserving field
// maps. Zoho returns records with no fixed schema, so field values are a
// tagged union rather than reflected interface{} shapes, and field order
// is kept exactly as received so serialized context is deterministic.
package crm

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Ref identifies one CRM record.
type Ref struct {
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
}

// Record is a CRM record: field names mapped to values in the order the
// API returned them.
type Record struct {
	*orderedmap.OrderedMap[string, Value]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{OrderedMap: orderedmap.New[string, Value]()}
}

// ParseRecord decodes a JSON object into a Record.
func ParseRecord(data []byte) (*Record, error) {
	r := NewRecord()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Numbers stay
// in their source representation so "1500000" never prints as 1.5e+06.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("crm: record must be a JSON object, got %v", tok)
	}

	rec, err := decodeObject(dec)
	if err != nil {
		return err
	}
	r.OrderedMap = rec.OrderedMap
	return nil
}

// decodeObject consumes object members after the opening brace.
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("crm: unexpected object key %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		rec.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Value{kind: KindObject, obj: obj}, nil
		case '[':
			var list []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				list = append(list, elem)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return Value{}, err
			}
			return Value{kind: KindList, list: list}, nil
		default:
			return Value{}, fmt.Errorf("crm: unexpected delimiter %v", t)
		}
	case string:
		return Value{kind: KindString, str: t}, nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case bool:
		return Value{kind: KindBool, boolean: t}, nil
	case nil:
		return Value{kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("crm: unexpected token %v", tok)
	}
}
