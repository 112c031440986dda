package core

import (
	"context"
	"encoding/json"
)

// Outbound is a single Bot API action: a method name and a JSON body.
type Outbound struct {
	Method string
	Body   map[string]any
}

// Sender delivers outbound actions to the Bot API and returns the parsed response body.
type Sender interface {
	Send(ctx context.Context, token string, out Outbound) (json.RawMessage, error)
}
