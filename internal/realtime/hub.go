package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/boardchat/internal/monitor"
)

// DefaultMaxMessageSize bounds inbound frames when HubOptions leaves it unset.
const DefaultMaxMessageSize = 1 << 20

// Handler processes the lifecycle and events of sessions. Dispatch calls for
// one session are sequential.
type Handler interface {
	Connect(s *Session)
	Dispatch(ctx context.Context, s *Session, ev Inbound)
	Disconnect(ctx context.Context, s *Session)
}

// Publisher fans an event out to every connected session.
type Publisher interface {
	Publish(ev Outbound)
}

type nopHandler struct{}

func (nopHandler) Connect(*Session)                           {}
func (nopHandler) Dispatch(context.Context, *Session, Inbound) {}
func (nopHandler) Disconnect(context.Context, *Session)        {}

// HubOptions configures NewHub.
type HubOptions struct {
	Logger         *slog.Logger
	Counters       *monitor.Counters
	MaxMessageSize int64
}

// Hub tracks every open session, authenticated or not, and delivers events
// to them. Delivery is best-effort: a session whose buffer is full is closed
// instead of stalling the others.
type Hub struct {
	sessions       map[*Session]struct{}
	register       chan *Session
	mu             sync.RWMutex
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	handler        Handler
	log            *slog.Logger
	counters       *monitor.Counters
	maxMessageSize int64
}

// NewHub creates a Hub. Call SetHandler before Run.
func NewHub(opts HubOptions) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = DefaultMaxMessageSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions:       make(map[*Session]struct{}),
		register:       make(chan *Session),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		handler:        nopHandler{},
		log:            opts.Logger,
		counters:       opts.Counters,
		maxMessageSize: opts.MaxMessageSize,
	}
}

// SetHandler sets the handler that receives session events.
func (h *Hub) SetHandler(handler Handler) {
	if handler == nil {
		handler = nopHandler{}
	}
	h.handler = handler
}

// Accept wraps an upgraded connection in a Session and hands it to the Run
// loop, which starts its pumps. It returns false when the hub is shut down.
func (h *Hub) Accept(conn *websocket.Conn, addr string) bool {
	s := newSession(conn, h, addr)
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

// Run starts the hub's main event loop, handling session registration until
// Shutdown. It should be called in a separate goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownSessions()
			return

		case s := <-h.register:
			count := h.add(s)
			h.log.Info("session connected", "addr", s.addr, "sessions", count)

			h.handler.Connect(s)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				s.writePump()
			}()
			go func() {
				defer h.wg.Done()
				s.readPump(h.handler)
			}()
		}
	}
}

func (h *Hub) add(s *Session) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
	return len(h.sessions)
}

// remove drops s and closes its send channel; queued frames are still
// flushed by the write pump before it sends a close frame. It reports whether
// s was present.
func (h *Hub) remove(s *Session) bool {
	h.mu.Lock()
	if _, ok := h.sessions[s]; !ok {
		h.mu.Unlock()
		return false
	}
	delete(h.sessions, s)
	s.markClosed()
	close(s.send)
	count := len(h.sessions)
	h.mu.Unlock()

	h.log.Info("session removed", "addr", s.addr, "sessions", count)
	return true
}

// Close terminates s after its queued frames are written.
func (h *Hub) Close(s *Session) {
	h.remove(s)
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Publish sends ev to every open session.
func (h *Hub) Publish(ev Outbound) {
	f, ok := h.frame(ev)
	if !ok {
		return
	}

	h.mu.RLock()
	var failed []*Session
	for s := range h.sessions {
		if !s.enqueue(f, false) {
			failed = append(failed, s)
		}
	}
	h.mu.RUnlock()

	h.dropSlow(failed)
	if h.counters != nil {
		h.counters.Published(string(f.kind))
	}
}

// Send delivers ev to s only, bypassing any hold.
func (h *Hub) Send(s *Session, ev Outbound) {
	f, ok := h.frame(ev)
	if !ok {
		return
	}

	h.mu.RLock()
	_, member := h.sessions[s]
	delivered := !member || s.enqueue(f, true)
	h.mu.RUnlock()

	if !delivered {
		h.dropSlow([]*Session{s})
	}
}

// Hold buffers broadcasts to s until Release.
func (h *Hub) Hold(s *Session) {
	s.hold()
}

// Release flushes broadcasts buffered since Hold. Chat messages with an id at
// or below historyMark are skipped, now and afterwards, because the client
// received them in its history.
func (h *Hub) Release(s *Session, historyMark int64) {
	h.mu.RLock()
	_, member := h.sessions[s]
	ok := s.release(historyMark) || !member
	h.mu.RUnlock()

	if !ok {
		h.dropSlow([]*Session{s})
	}
}

func (h *Hub) frame(ev Outbound) (frame, bool) {
	data, err := Encode(ev)
	if err != nil {
		h.log.Error("encode event", "event", ev.Kind(), "error", err)
		return frame{}, false
	}
	f := frame{kind: ev.Kind(), data: data}
	if m, ok := ev.(NewMessage); ok {
		f.messageID = m.ID
	}
	return f, true
}

func (h *Hub) dropSlow(sessions []*Session) {
	for _, s := range sessions {
		if h.remove(s) {
			h.log.Warn("session dropped due to full send buffer", "addr", s.addr)
		}
	}
}

// shutdownSessions closes every connection; read pumps then exit and run
// their disconnect handling.
func (h *Hub) shutdownSessions() {
	h.log.Info("shutting down all sessions")

	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.closeConnection()
	}

	h.log.Info("closed session connections", "count", len(sessions))
}

// Shutdown stops the Run loop and waits for all pumps to finish or for the
// timeout to expire.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("initiating hub shutdown")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
