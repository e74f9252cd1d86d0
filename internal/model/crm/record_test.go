package crm

import (
	"encoding/json"
	"testing"
)

func TestParseRecordPreservesOrder(t *testing.T) {
	raw := `{"Zeta": 1, "Alpha": "two", "Nested": {"b": true, "a": null}}`

	rec, err := ParseRecord([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var keys []string
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if len(keys) != 3 || keys[0] != "Zeta" || keys[1] != "Alpha" || keys[2] != "Nested" {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestParseRecordValueKinds(t *testing.T) {
	raw := `{"s": "text", "n": 42.5, "b": true, "z": null, "o": {"id": "1"}, "l": [1, "x"]}`

	rec, err := ParseRecord([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	checks := map[string]Kind{
		"s": KindString,
		"n": KindNumber,
		"b": KindBool,
		"z": KindNull,
		"o": KindObject,
		"l": KindList,
	}
	for key, want := range checks {
		v, ok := rec.Get(key)
		if !ok {
			t.Fatalf("missing key %q", key)
		}
		if v.Kind() != want {
			t.Fatalf("key %q: expected kind %v, got %v", key, want, v.Kind())
		}
	}
}

func TestParseRecordKeepsNumberRepresentation(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"revenue": 12000000.50, "count": 7}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	revenue, _ := rec.Get("revenue")
	if revenue.Text() != "12000000.50" {
		t.Fatalf("expected source representation, got %q", revenue.Text())
	}
	count, _ := rec.Get("count")
	if count.Text() != "7" {
		t.Fatalf("expected integer text, got %q", count.Text())
	}
}

func TestParseRecordRejectsNonObject(t *testing.T) {
	if _, err := ParseRecord([]byte(`[1, 2]`)); err == nil {
		t.Fatal("expected error for non-object input")
	}
	if _, err := ParseRecord([]byte(`"hello"`)); err == nil {
		t.Fatal("expected error for scalar input")
	}
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	raw := `{"Zeta":"1","Owner":{"name":"Jordan","id":"42"},"Tags":["a","b"],"Empty":null}`

	rec, err := ParseRecord([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("round trip changed document:\n in: %s\nout: %s", raw, out)
	}
}

func TestRecordNestedAccess(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"Owner": {"name": "Jordan Smith", "id": "42"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	owner, ok := rec.Get("Owner")
	if !ok || owner.Kind() != KindObject {
		t.Fatalf("expected object value, got %+v", owner)
	}
	obj, ok := owner.Object()
	if !ok {
		t.Fatal("expected nested record")
	}
	name, ok := obj.Get("name")
	if !ok || name.Text() != "Jordan Smith" {
		t.Fatalf("unexpected nested value: %+v", name)
	}
}
