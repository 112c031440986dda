package core

import (
	"context"
	"encoding/json"
)

// Feed is a single getUpdates response.
type Feed struct {
	OK       bool
	Messages []InboundMessage
	// Raw is the undecoded "result" array, nil when the response carried none.
	Raw json.RawMessage
}

// UpdateSource fetches the update feed once.
type UpdateSource interface {
	Updates(ctx context.Context, token string) (Feed, error)
}
