package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 256
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	writeWait      = 10 * time.Second
)

// frame is an encoded outbound event queued for a session.
type frame struct {
	kind      Kind
	messageID int64
	data      []byte
}

// Session is one live WebSocket connection. Its identity is unset until the
// authenticate handler registers it with the Registry.
type Session struct {
	conn   *websocket.Conn
	hub    *Hub
	addr   string
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	mu       sync.Mutex
	identity string
	closed   bool
	holding  bool
	held     []frame
	// new_message frames with an id at or below historyMark were already
	// delivered in message_history.
	historyMark int64
}

func newSession(conn *websocket.Conn, hub *Hub, addr string) *Session {
	ctx, cancel := context.WithCancel(hub.ctx)
	return &Session{
		conn:   conn,
		hub:    hub,
		addr:   addr,
		send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		log:    hub.log.With("addr", addr),
	}
}

// Identity returns the authenticated username, or "" before authentication.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Addr returns the remote address of the connection.
func (s *Session) Addr() string {
	return s.addr
}

// Context is cancelled when the session is removed from its Hub.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) setIdentity(identity string) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
}

// enqueue queues f without blocking. Broadcast frames are buffered while the
// session is on hold, up to sendBufferSize of them. It returns false when
// either buffer is full.
// Callers hold the hub lock.
func (s *Session) enqueue(f frame, direct bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}
	if !direct {
		if s.holding {
			if len(s.held) >= sendBufferSize {
				return false
			}
			s.held = append(s.held, f)
			return true
		}
		if f.kind == KindNewMessage && f.messageID <= s.historyMark {
			return true
		}
	}

	select {
	case s.send <- f.data:
		return true
	default:
		return false
	}
}

func (s *Session) hold() {
	s.mu.Lock()
	s.holding = true
	s.mu.Unlock()
}

// release delivers held frames in order, dropping chat messages already
// covered by the history that ended at historyMark.
func (s *Session) release(historyMark int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := s.held
	s.held = nil
	s.holding = false
	if historyMark > s.historyMark {
		s.historyMark = historyMark
	}
	if s.closed {
		return true
	}

	for _, f := range held {
		if f.kind == KindNewMessage && f.messageID <= s.historyMark {
			continue
		}
		select {
		case s.send <- f.data:
		default:
			return false
		}
	}
	return true
}

// markClosed is called by the hub, under its write lock, before the send
// channel is closed.
func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.held = nil
	s.identity = ""
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) setupReadConnection() {
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.log.Warn("set initial read deadline", "error", err)
	}
	s.conn.SetPongHandler(func(string) error {
		if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			s.log.Warn("set read deadline in pong handler", "error", err)
		}
		return nil
	})
}

// logReadError classifies the error that ended the read loop.
func (s *Session) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		s.log.Warn("frame exceeded maximum size", "limit", s.hub.maxMessageSize)
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		s.log.Info("client disconnected", "reason", err)
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		s.log.Info("connection closed", "reason", err)
	case websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig):
		s.log.Warn("unexpected websocket close", "error", err)
	default:
		s.log.Warn("websocket read error", "error", err)
	}
}

func (s *Session) readPump(handler Handler) {
	defer func() {
		s.hub.remove(s)
		s.closeConnection()
		handler.Disconnect(s.Context(), s)
	}()

	s.conn.SetReadLimit(s.hub.maxMessageSize)
	s.setupReadConnection()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logReadError(err)
			return
		}

		ev, err := Decode(raw)
		if err != nil {
			s.log.Debug("invalid event", "error", err)
			s.hub.Send(s, ErrorEvent{Message: ErrInvalidEvent.Error()})
			continue
		}

		handler.Dispatch(s.Context(), s, ev)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.closeConnection()
	}()

	for s.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when the
// pump should stop processing.
func (s *Session) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-s.send:
		if !ok {
			return s.writeClose()
		}
		return s.writeMessage(message)
	case <-ticker.C:
		return s.writePing()
	}
}

func (s *Session) writeClose() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
		if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil && !isExpectedCloseError(err) {
			s.log.Debug("write close message", "error", err)
		}
	}
	return false
}

// writeMessage writes one frame per event so clients can parse each message
// independently.
func (s *Session) writeMessage(message []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.log.Warn("set write deadline", "error", err)
		return false
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		if !isExpectedCloseError(err) {
			s.log.Warn("write message", "error", err)
		}
		return false
	}
	return true
}

func (s *Session) writePing() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.log.Warn("set write deadline for ping", "error", err)
		return false
	}
	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.log.Warn("write ping", "error", err)
		return false
	}
	return true
}

func (s *Session) closeConnection() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
		s.log.Debug("close connection", "error", err)
	}
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
