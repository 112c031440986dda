package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jdelaire/tgblocks/core/blocks"
)

const (
	MaxPayloadBytes = 8192
	MaxOpcodeLen    = 64
	MaxArgLen       = 4096
	CurrentVersion  = 1
)

// Socket actions.
const (
	ActionInfo      = "info"
	ActionCall      = "call"
	ActionSubscribe = "subscribe"
)

// Request is the JSON envelope sent over the socket.
type Request struct {
	Version int             `json:"version"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CallPayload is the payload for the "call" action.
type CallPayload struct {
	Opcode string            `json:"opcode"`
	Args   map[string]string `json:"args,omitempty"`
}

// Response is the JSON envelope sent back to the client.
type Response struct {
	OK     bool         `json:"ok"`
	Error  string       `json:"error,omitempty"`
	ID     string       `json:"id,omitempty"`
	Result string       `json:"result,omitempty"`
	Info   *blocks.Info `json:"info,omitempty"`
}

// ValidateRequest checks the request envelope and the payload of known actions.
func ValidateRequest(data []byte) (*Request, error) {
	if len(data) > MaxPayloadBytes {
		return nil, fmt.Errorf("payload exceeds %d byte limit", MaxPayloadBytes)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if req.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported version %d, expected %d", req.Version, CurrentVersion)
	}

	switch req.Action {
	case ActionInfo, ActionSubscribe:
	case ActionCall:
		if err := validateCallPayload(req.Payload); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}

	return &req, nil
}

func validateCallPayload(raw json.RawMessage) error {
	if raw == nil {
		return fmt.Errorf("missing payload")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var p CallPayload
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("invalid call payload: %w", err)
	}

	if p.Opcode == "" {
		return fmt.Errorf("opcode is required")
	}
	if len(p.Opcode) > MaxOpcodeLen {
		return fmt.Errorf("opcode exceeds %d character limit", MaxOpcodeLen)
	}
	for name, v := range p.Args {
		if len(v) > MaxArgLen {
			return fmt.Errorf("argument %q exceeds %d character limit", name, MaxArgLen)
		}
	}

	return nil
}

// ParseCallPayload extracts the CallPayload from a validated request.
func ParseCallPayload(raw json.RawMessage) (CallPayload, error) {
	var p CallPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return CallPayload{}, err
	}
	return p, nil
}
