package agent

import (
	"errors"
	"fmt"

	"github.com/finance1/summary-agent/backend/internal/model/crm"
)

// Action types the model may surface. CUSTOM carries an opaque widget
// SDK action name passed through verbatim.
const (
	ActionUpdateField  = "UPDATE_FIELD"
	ActionCreateRecord = "CREATE_RECORD"
	ActionSendEmail    = "SEND_EMAIL"
	ActionCustom       = "CUSTOM"
)

// Action is a typed instruction suggested by the model and executed
// client-side against the CRM.
type Action struct {
	Label string `json:"label"`
	Type  string `json:"type"`

	// UPDATE_FIELD
	Field string `json:"field,omitempty"`
	Value any    `json:"value,omitempty"`

	// CREATE_RECORD
	Module     string      `json:"module,omitempty"`
	RecordData *crm.Record `json:"recordData,omitempty"`

	// SEND_EMAIL
	To         StringList `json:"to,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body,omitempty"`
	TemplateID string     `json:"templateId,omitempty"`

	// CUSTOM
	ZohoAction string `json:"zohoAction,omitempty"`
}

// Validate checks that the action carries the fields its type requires.
// An action missing a required field is a validation error, never a
// silent no-op. The label is display text only and may be empty.
func (a Action) Validate() error {
	switch a.Type {
	case ActionUpdateField:
		if a.Field == "" {
			return errors.New("UPDATE_FIELD action requires a field")
		}
		if a.Value == nil {
			return errors.New("UPDATE_FIELD action requires a value")
		}
	case ActionCreateRecord:
		if a.Module == "" {
			return errors.New("CREATE_RECORD action requires a module")
		}
		if a.RecordData == nil || a.RecordData.Len() == 0 {
			return errors.New("CREATE_RECORD action requires recordData")
		}
	case ActionSendEmail:
		if len(a.To) == 0 {
			return errors.New("SEND_EMAIL action requires a recipient")
		}
	case ActionCustom:
		if a.ZohoAction == "" {
			return errors.New("CUSTOM action requires a zohoAction name")
		}
	case "":
		return errors.New("action must have a type")
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
