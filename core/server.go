package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdelaire/tgblocks/core/blocks"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second

	// DefaultHeartbeat is how often an idle subscription gets a blank keepalive line.
	DefaultHeartbeat = 15 * time.Second
)

// EventSource hands out match event subscriptions.
type EventSource interface {
	Events(buffer int) (<-chan MatchEvent, func())
}

// Server listens on a Unix domain socket and exposes the blocks to a host.
type Server struct {
	socketPath string
	blocks     *blocks.Registry
	events     EventSource
	heartbeat  time.Duration
	listener   net.Listener
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewServer creates a new socket server.
func NewServer(socketPath string, registry *blocks.Registry, events EventSource, logger *slog.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		blocks:     registry,
		events:     events,
		heartbeat:  DefaultHeartbeat,
		logger:     logger,
	}
}

// Start begins listening. It cleans up stale sockets, creates the directory
// with 0700 permissions, and sets the socket to 0600. Blocks invoked through
// the server run under ctx, so a polling loop started by a call lives until
// ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}

	// Clean up stale socket.
	if _, err := os.Stat(s.socketPath); err == nil {
		conn, err := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("another instance is already listening on %s", s.socketPath)
		}
		s.logger.Info("removing stale socket", "path", s.socketPath)
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.listener = ln
	s.cancel = cancel
	s.logger.Info("listening", "path", s.socketPath)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx)
	}()

	return nil
}

// Shutdown stops the server, ends subscriptions and waits for in-flight connections.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Error("accept error", "error", err)
				return
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(readTimeout))

	data, err := io.ReadAll(io.LimitReader(conn, MaxPayloadBytes+1))
	if err != nil {
		s.writeResponse(conn, Response{OK: false, Error: "read error"})
		return
	}

	if len(data) > MaxPayloadBytes {
		s.writeResponse(conn, Response{OK: false, Error: fmt.Sprintf("payload exceeds %d byte limit", MaxPayloadBytes)})
		return
	}

	req, err := ValidateRequest(data)
	if err != nil {
		s.logger.Warn("invalid request", "error", err)
		s.writeResponse(conn, Response{OK: false, Error: err.Error()})
		return
	}

	switch req.Action {
	case ActionInfo:
		info := blocks.Describe(s.blocks)
		s.writeResponse(conn, Response{OK: true, Info: &info})
	case ActionCall:
		s.handleCall(ctx, conn, req)
	case ActionSubscribe:
		s.handleSubscribe(ctx, conn)
	default:
		s.writeResponse(conn, Response{OK: false, Error: fmt.Sprintf("unknown action %q", req.Action)})
	}
}

func (s *Server) handleCall(ctx context.Context, conn net.Conn, req *Request) {
	payload, err := ParseCallPayload(req.Payload)
	if err != nil {
		s.writeResponse(conn, Response{OK: false, Error: err.Error()})
		return
	}

	block := s.blocks.Get(payload.Opcode)
	if block == nil {
		s.writeResponse(conn, Response{OK: false, Error: fmt.Sprintf("unknown opcode %q", payload.Opcode)})
		return
	}

	id := uuid.New().String()
	result, err := block.Execute(ctx, blocks.Args(payload.Args))
	if err != nil {
		s.logger.Error("block failed", "id", id, "opcode", payload.Opcode, "error", err)
		s.writeResponse(conn, Response{OK: false, ID: id, Error: err.Error()})
		return
	}

	s.logger.Info("block executed", "id", id, "opcode", payload.Opcode)
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	s.writeResponse(conn, Response{OK: true, ID: id, Result: result})
}

// handleSubscribe streams match events as JSON lines until the server stops
// or a write fails. Blank heartbeat lines surface a closed client while no
// events are flowing.
func (s *Server) handleSubscribe(ctx context.Context, conn net.Conn) {
	events, cancel := s.events.Events(0)
	defer cancel()

	conn.SetDeadline(time.Time{})
	s.writeResponse(conn, Response{OK: true})

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	enc := json.NewEncoder(conn)
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := conn.Write([]byte("\n")); err != nil {
				s.logger.Debug("subscriber gone", "error", err)
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := enc.Encode(ev); err != nil {
				s.logger.Debug("subscriber gone", "error", err)
				return
			}
		}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	json.NewEncoder(conn).Encode(resp)
}
