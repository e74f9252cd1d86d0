// Package agent holds the request/response contracts for the chat, scan
// and upload flows.
package agent

import "encoding/json"

// ChatRequest is one chat turn. account_id is the legacy alias for
// entity_id kept for older widget builds.
type ChatRequest struct {
	EntityID   string   `json:"entity_id,omitempty"`
	AccountID  string   `json:"account_id,omitempty"`
	EntityType string   `json:"entity_type,omitempty"`
	Modules    []string `json:"modules,omitempty"`
	Query      string   `json:"query"`
}

// ResolveEntityID returns entity_id, falling back to account_id.
func (r ChatRequest) ResolveEntityID() string {
	if r.EntityID != "" {
		return r.EntityID
	}
	return r.AccountID
}

// ChatResponse is the structured answer for a chat turn. Actions is
// always present, defaulting to an empty list.
type ChatResponse struct {
	Response string   `json:"response"`
	Actions  []Action `json:"actions"`
}

// ScanRequest asks for proactive recommendations about one record.
// Both fields are required; scan does not default the entity type.
type ScanRequest struct {
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
}

// Recommendation is a proactive suggestion produced by the scan flow.
type Recommendation struct {
	Type     string   `json:"type"`     // "alert", "suggestion" or "action"
	Message  string   `json:"message"`
	Priority string   `json:"priority"` // "high", "medium" or "low"
	Actions  []Action `json:"actions"`
}

// ScanResponse carries scan recommendations. The list is never empty on
// a successful scan; a synthetic low-priority entry substitutes for an
// empty model output.
type ScanResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// NoRecommendations is the synthetic entry returned when the model
// produced no recommendations.
func NoRecommendations() Recommendation {
	return Recommendation{
		Type:     "suggestion",
		Message:  "No specific recommendations at this time. Account data looks complete.",
		Priority: "low",
		Actions:  []Action{},
	}
}

// UploadResponse confirms one accepted document upload.
type UploadResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
	Filename   string `json:"filename"`
}

// ExecuteRequest asks the server to validate an action surfaced by the
// model. Execution itself happens client-side through the widget SDK.
type ExecuteRequest struct {
	Action     *Action `json:"action"`
	EntityID   string  `json:"entity_id,omitempty"`
	EntityType string  `json:"entity_type,omitempty"`
}

// ExecuteResponse echoes a validated action back to the caller.
type ExecuteResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// StringList accepts either a JSON string or a list of strings, as the
// model emits both shapes for e-mail recipients.
type StringList []string

// UnmarshalJSON accepts "a@b" and ["a@b", "c@d"].
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// MarshalJSON mirrors the input shape: one element round-trips as a
// plain string.
func (s StringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}
