// Package crmtext converts CRM records into the deterministic text
// blocks fed to the model as grounding context.
package crmtext

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/finance1/summary-agent/backend/internal/model/crm"
)

// RelatedDisplayLimit caps how many related records render per module,
// regardless of how many were fetched.
const RelatedDisplayLimit = 3

// skipKeys are internal CRM fields excluded from the field listing.
// Compared case-insensitively.
var skipKeys = map[string]struct{}{
	"id":            {},
	"created_time":  {},
	"modified_time": {},
	"created_by":    {},
	"modified_by":   {},
}

// RecordToText renders one record as a labeled field listing. Field
// order follows the record's own order so output is stable for a given
// input. Empty or absent records yield a fixed sentinel line.
func RecordToText(rec *crm.Record, entityType string) string {
	if rec == nil || rec.Len() == 0 {
		return entityType + " record: No data available"
	}

	lines := []string{
		entityType + " Record Information:",
		strings.Repeat("=", 50),
	}

	id, ok := rec.Get("id")
	if !ok {
		id, ok = rec.Get("Id")
	}
	if ok && !id.IsNull() {
		lines = append(lines, "ID: "+id.Text())
	}

	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if _, skip := skipKeys[strings.ToLower(pair.Key)]; skip {
			continue
		}
		lines = append(lines, titleCase(pair.Key)+": "+formatValue(pair.Value))
	}

	return strings.Join(lines, "\n")
}

// RelatedRecordsToText renders a batch of related records for one
// module. The section header reports the fetched count; at most
// RelatedDisplayLimit records render. An empty batch (including a
// failed per-module fetch) renders a placeholder section.
func RelatedRecordsToText(module string, recs []*crm.Record) string {
	if len(recs) == 0 {
		return "Related " + module + ":\nNo related records found."
	}

	lines := []string{fmt.Sprintf("Related %s (%d records):", module, len(recs))}
	display := recs
	if len(display) > RelatedDisplayLimit {
		display = display[:RelatedDisplayLimit]
	}
	for i, rec := range display {
		lines = append(lines, fmt.Sprintf("--- %s %d ---", module, i+1))
		lines = append(lines, RecordToText(rec, module))
	}
	return strings.Join(lines, "\n")
}

// formatValue renders one field value for display.
func formatValue(v crm.Value) string {
	switch v.Kind() {
	case crm.KindNull:
		return "Not set"
	case crm.KindObject:
		obj, _ := v.Object()
		if name, ok := obj.Get("name"); ok && !name.IsNull() {
			return name.Text()
		}
		if id, ok := obj.Get("id"); ok {
			return fmt.Sprintf("Unknown (ID: %s)", id.Text())
		}
		return rawJSON(v)
	case crm.KindList:
		elems, _ := v.List()
		parts := make([]string, 0, len(elems))
		for _, e := range elems {
			parts = append(parts, elementText(e))
		}
		return strings.Join(parts, ", ")
	default:
		return v.Text()
	}
}

// elementText renders a list element: scalars as text, anything nested
// as compact JSON.
func elementText(v crm.Value) string {
	switch v.Kind() {
	case crm.KindObject, crm.KindList:
		return rawJSON(v)
	case crm.KindNull:
		return "null"
	default:
		return v.Text()
	}
}

func rawJSON(v crm.Value) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// titleCase turns a snake_case API name into a display label:
// underscores become spaces and every word starts uppercase.
func titleCase(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
