package core

import (
	"strings"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"info", `{"version":1,"action":"info"}`, ""},
		{"subscribe", `{"version":1,"action":"subscribe"}`, ""},
		{"call", `{"version":1,"action":"call","payload":{"opcode":"sendText","args":{"text":"hi"}}}`, ""},
		{"opcode as action", `{"version":1,"action":"stopPolling","payload":{}}`, "unknown action"},
		{"bad json", `{"version":1,`, "invalid JSON"},
		{"wrong version", `{"version":2,"action":"info"}`, "unsupported version"},
		{"unknown field", `{"version":1,"action":"info","extra":true}`, "invalid JSON"},
		{"unknown action", `{"version":1,"action":"notify"}`, "unknown action"},
		{"call missing payload", `{"version":1,"action":"call"}`, "missing payload"},
		{"call missing opcode", `{"version":1,"action":"call","payload":{"args":{}}}`, "opcode is required"},
		{"call unknown payload field", `{"version":1,"action":"call","payload":{"opcode":"x","foo":1}}`, "invalid call payload"},
		{"opcode too long", `{"version":1,"action":"call","payload":{"opcode":"` + strings.Repeat("a", MaxOpcodeLen+1) + `"}}`, "opcode exceeds"},
		{"arg too long", `{"version":1,"action":"call","payload":{"opcode":"sendText","args":{"text":"` + strings.Repeat("a", MaxArgLen+1) + `"}}}`, "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRequest([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequestTooLarge(t *testing.T) {
	data := make([]byte, MaxPayloadBytes+1)
	if _, err := ValidateRequest(data); err == nil || !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("err = %v, want byte limit error", err)
	}
}

func TestParseCallPayload(t *testing.T) {
	p, err := ParseCallPayload([]byte(`{"opcode":"sendImage","args":{"url":"https://x/y.png"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Opcode != "sendImage" || p.Args["url"] != "https://x/y.png" {
		t.Errorf("payload = %+v", p)
	}
}
