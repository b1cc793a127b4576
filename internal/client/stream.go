package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

// StreamState tracks the connection lifecycle. There is no automatic
// reconnect: once CLOSED, the canvas freezes at last-known state.
type StreamState int32

const (
	StreamConnecting StreamState = iota
	StreamOpen
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamConnecting:
		return "connecting"
	case StreamOpen:
		return "open"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream maintains the single live websocket connection to the world
// service and decodes inbound messages into frames. Malformed messages
// are discarded individually; the stream stays open. Decoded frames are
// delivered on a channel so all store mutation happens on the UI side.
type Stream struct {
	conn   *websocket.Conn
	logger *slog.Logger
	frames chan wire.Frame
	state  atomic.Int32
}

// DialStream connects to the stream endpoint and starts the read loop.
func DialStream(ctx context.Context, url string, logger *slog.Logger) (*Stream, error) {
	s := &Stream{
		logger: logger,
		frames: make(chan wire.Frame, 64),
	}
	s.state.Store(int32(StreamConnecting))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		s.state.Store(int32(StreamClosed))
		return nil, fmt.Errorf("failed to connect to stream: %w", err)
	}
	s.conn = conn
	s.state.Store(int32(StreamOpen))

	go s.readLoop()
	return s, nil
}

// Frames returns the channel of decoded frames. It is closed when the
// connection ends.
func (s *Stream) Frames() <-chan wire.Frame {
	return s.frames
}

// State reports the connection state.
func (s *Stream) State() StreamState {
	return StreamState(s.state.Load())
}

// Close tears down the connection. In-flight requests elsewhere are not
// cancelled; their results are safely ignored by the store.
func (s *Stream) Close() error {
	s.state.Store(int32(StreamClosed))
	return s.conn.Close()
}

func (s *Stream) readLoop() {
	defer func() {
		s.state.Store(int32(StreamClosed))
		close(s.frames)
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.State() != StreamClosed {
				s.logger.Info("stream closed", "error", err)
			}
			return
		}

		frame, err := wire.DecodeFrame(data)
		if err != nil {
			s.logger.Debug("discarding stream frame", "error", err, "payload", string(data))
			continue
		}
		s.frames <- frame
	}
}
