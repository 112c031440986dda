package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const dialTimeout = 2 * time.Second

// Client talks to a Server over its Unix socket.
type Client struct {
	socketPath string
}

// NewClient creates a client for the socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) dial(ctx context.Context, req Request) (net.Conn, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.socketPath, err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write request: %w", err)
	}
	// Signal we're done writing so the server's ReadAll returns.
	if uc, ok := conn.(*net.UnixConn); ok {
		uc.CloseWrite()
	}
	return conn, nil
}

func (c *Client) roundTrip(ctx context.Context, req Request) (Response, error) {
	conn, err := c.dial(ctx, req)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// Info fetches the block descriptor.
func (c *Client) Info(ctx context.Context) (Response, error) {
	return c.roundTrip(ctx, Request{Version: CurrentVersion, Action: ActionInfo})
}

// Call invokes a block by opcode.
func (c *Client) Call(ctx context.Context, opcode string, args map[string]string) (Response, error) {
	payload, err := json.Marshal(CallPayload{Opcode: opcode, Args: args})
	if err != nil {
		return Response{}, fmt.Errorf("marshal payload: %w", err)
	}
	return c.roundTrip(ctx, Request{Version: CurrentVersion, Action: ActionCall, Payload: payload})
}

// Subscribe streams match events to fn until ctx is cancelled or the server
// closes the connection.
func (c *Client) Subscribe(ctx context.Context, fn func(MatchEvent)) error {
	conn, err := c.dial(ctx, Request{Version: CurrentVersion, Action: ActionSubscribe})
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe: no acknowledgement: %v", scanner.Err())
	}
	var ack Response
	if err := json.Unmarshal(scanner.Bytes(), &ack); err != nil {
		return fmt.Errorf("decode acknowledgement: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("subscribe rejected: %s", ack.Error)
	}

	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var ev MatchEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		fn(ev)
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}
