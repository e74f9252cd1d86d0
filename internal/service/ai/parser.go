package ai

import (
	"encoding/json"
	"strings"

	"github.com/finance1/summary-agent/backend/internal/model/agent"
)

// Model output is untrusted free text. The parsers below extract the
// JSON payload when there is one and degrade to a safe default shape
// when there is not; they never fail.

// ParseChat extracts a structured chat response from raw model output.
// Unparsable output degrades to the raw text with no actions.
func ParseChat(raw string) agent.ChatResponse {
	var parsed struct {
		Response *string           `json:"response"`
		Actions  []json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return agent.ChatResponse{Response: raw, Actions: []agent.Action{}}
	}

	// Only an absent or null response falls back to the raw text; an
	// explicit empty string stays empty.
	response := raw
	if parsed.Response != nil {
		response = *parsed.Response
	}

	return agent.ChatResponse{
		Response: response,
		Actions:  decodeActions(parsed.Actions),
	}
}

// ParseScan extracts recommendations from raw model output. Unparsable
// output degrades to an empty list; the orchestrator substitutes the
// synthetic default.
func ParseScan(raw string) []agent.Recommendation {
	var parsed struct {
		Recommendations []struct {
			Type     string            `json:"type"`
			Message  string            `json:"message"`
			Priority string            `json:"priority"`
			Actions  []json.RawMessage `json:"actions"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil
	}

	recommendations := make([]agent.Recommendation, 0, len(parsed.Recommendations))
	for _, rec := range parsed.Recommendations {
		recType := rec.Type
		if recType == "" {
			recType = "suggestion"
		}
		priority := rec.Priority
		if priority == "" {
			priority = "medium"
		}
		recommendations = append(recommendations, agent.Recommendation{
			Type:     recType,
			Message:  rec.Message,
			Priority: priority,
			Actions:  decodeActions(rec.Actions),
		})
	}
	return recommendations
}

// decodeActions keeps the well-formed actions and drops the rest. A
// malformed action must not discard the surrounding response.
func decodeActions(raw []json.RawMessage) []agent.Action {
	actions := make([]agent.Action, 0, len(raw))
	for _, data := range raw {
		var action agent.Action
		if err := json.Unmarshal(data, &action); err != nil {
			continue
		}
		if err := action.Validate(); err != nil {
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// extractJSON strips an optional markdown code fence from model output.
// A fence without a closing marker is treated as no fence at all.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if start := strings.Index(text, "```json"); start >= 0 {
		inner := text[start+len("```json"):]
		if end := strings.Index(inner, "```"); end >= 0 {
			return strings.TrimSpace(inner[:end])
		}
	} else if start := strings.Index(text, "```"); start >= 0 {
		inner := text[start+len("```"):]
		if end := strings.Index(inner, "```"); end >= 0 {
			return strings.TrimSpace(inner[:end])
		}
	}

	return text
}
