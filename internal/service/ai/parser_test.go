package ai

import (
	"testing"

	"github.com/finance1/summary-agent/backend/internal/model/agent"
)

func TestParseChatPlainJSON(t *testing.T) {
	raw := `{"response": "Acme looks healthy.", "actions": []}`

	got := ParseChat(raw)

	if got.Response != "Acme looks healthy." {
		t.Fatalf("unexpected response: %q", got.Response)
	}
	if len(got.Actions) != 0 {
		t.Fatalf("expected no actions, got %d", len(got.Actions))
	}
}

func TestParseChatFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"response\": \"hi\", \"actions\": [{\"label\": \"Update Status\", \"type\": \"UPDATE_FIELD\", \"field\": \"Status\", \"value\": \"Active\"}]}\n```"

	got := ParseChat(raw)

	if got.Response != "hi" {
		t.Fatalf("unexpected response: %q", got.Response)
	}
	if len(got.Actions) != 1 {
		t.Fatalf("expected one action, got %d", len(got.Actions))
	}
	if got.Actions[0].Type != agent.ActionUpdateField || got.Actions[0].Field != "Status" {
		t.Fatalf("unexpected action: %+v", got.Actions[0])
	}
}

func TestParseChatBareFence(t *testing.T) {
	raw := "```\n{\"response\": \"plain fence\", \"actions\": []}\n```"

	got := ParseChat(raw)
	if got.Response != "plain fence" {
		t.Fatalf("unexpected response: %q", got.Response)
	}
}

func TestParseChatUnparsableFallsBackToRawText(t *testing.T) {
	raw := "The account looks fine, nothing to report."

	got := ParseChat(raw)

	if got.Response != raw {
		t.Fatalf("expected raw passthrough, got %q", got.Response)
	}
	if got.Actions == nil || len(got.Actions) != 0 {
		t.Fatalf("expected empty non-nil actions, got %#v", got.Actions)
	}
}

func TestParseChatMissingClosingFence(t *testing.T) {
	raw := "```json\n{\"response\": \"unterminated\""

	got := ParseChat(raw)
	if got.Response != raw {
		t.Fatalf("expected raw passthrough, got %q", got.Response)
	}
}

func TestParseChatDropsMalformedActions(t *testing.T) {
	raw := `{"response": "ok", "actions": [
		{"label": "good", "type": "UPDATE_FIELD", "field": "Status", "value": "Active"},
		{"label": "missing type"},
		{"label": "bad field action", "type": "UPDATE_FIELD"}
	]}`

	got := ParseChat(raw)

	if got.Response != "ok" {
		t.Fatalf("valid response must survive bad actions: %q", got.Response)
	}
	if len(got.Actions) != 1 {
		t.Fatalf("expected one surviving action, got %d", len(got.Actions))
	}
}

func TestParseChatMissingResponseFieldFallsBackToRaw(t *testing.T) {
	raw := `{"actions": []}`

	got := ParseChat(raw)
	if got.Response != raw {
		t.Fatalf("expected raw fallback for missing response, got %q", got.Response)
	}
}

func TestParseChatNullResponseFieldFallsBackToRaw(t *testing.T) {
	raw := `{"response": null, "actions": []}`

	got := ParseChat(raw)
	if got.Response != raw {
		t.Fatalf("expected raw fallback for null response, got %q", got.Response)
	}
}

func TestParseChatExplicitEmptyResponseStaysEmpty(t *testing.T) {
	got := ParseChat(`{"response": "", "actions": []}`)
	if got.Response != "" {
		t.Fatalf("explicit empty response must stay empty, got %q", got.Response)
	}
}

func TestParseScanDefaults(t *testing.T) {
	raw := `{"recommendations": [{"message": "Add a phone number"}]}`

	got := ParseScan(raw)

	if len(got) != 1 {
		t.Fatalf("expected one recommendation, got %d", len(got))
	}
	if got[0].Type != "suggestion" {
		t.Fatalf("expected default type suggestion, got %q", got[0].Type)
	}
	if got[0].Priority != "medium" {
		t.Fatalf("expected default priority medium, got %q", got[0].Priority)
	}
}

func TestParseScanUnparsableReturnsNil(t *testing.T) {
	if got := ParseScan("not json at all"); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestParseScanFenced(t *testing.T) {
	raw := "```json\n{\"recommendations\": [{\"type\": \"alert\", \"message\": \"Overdue follow-up\", \"priority\": \"high\"}]}\n```"

	got := ParseScan(raw)
	if len(got) != 1 || got[0].Type != "alert" || got[0].Priority != "high" {
		t.Fatalf("unexpected recommendations: %#v", got)
	}
}
