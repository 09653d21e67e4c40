package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/spec-kit/support-panel/internal/api/dto"
)

func TestNullableStringDistinguishesAbsentNullAndValue(t *testing.T) {
	cases := []struct {
		name      string
		payload   string
		wantSet   bool
		wantValue *string
	}{
		{"absent key", `{}`, false, nil},
		{"explicit null", `{"assignee":null}`, true, nil},
		{"value", `{"assignee":"Asha"}`, true, strPtr("Asha")},
		{"empty string", `{"assignee":""}`, true, strPtr("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req dto.UpdateTicketRequest
			if err := json.Unmarshal([]byte(tc.payload), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.Assignee.Set != tc.wantSet {
				t.Fatalf("Set = %v, want %v", req.Assignee.Set, tc.wantSet)
			}
			switch {
			case tc.wantValue == nil && req.Assignee.Value != nil:
				t.Fatalf("Value = %q, want nil", *req.Assignee.Value)
			case tc.wantValue != nil && (req.Assignee.Value == nil || *req.Assignee.Value != *tc.wantValue):
				t.Fatalf("Value = %v, want %q", req.Assignee.Value, *tc.wantValue)
			}
		})
	}
}

func TestUpdateTicketRequestFullPayload(t *testing.T) {
	payload := `{
		"status": "in_progress",
		"assignee": "Priya",
		"note": "checked the logs",
		"message": {"text": "looking into it", "sender": "support"}
	}`

	var req dto.UpdateTicketRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Status == nil || *req.Status != "in_progress" {
		t.Fatalf("status = %v", req.Status)
	}
	if req.Note == nil || *req.Note != "checked the logs" {
		t.Fatalf("note = %v", req.Note)
	}
	if req.Message == nil || req.Message.Text != "looking into it" || req.Message.Sender != "support" {
		t.Fatalf("message = %#v", req.Message)
	}
}

func strPtr(s string) *string { return &s }
