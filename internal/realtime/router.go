package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
	"github.com/Tyrowin/boardchat/internal/monitor"
	"github.com/Tyrowin/boardchat/internal/ratelimit"
	"github.com/Tyrowin/boardchat/internal/sanitize"
	"github.com/Tyrowin/boardchat/internal/store"
)

const (
	// DefaultHistorySize is the number of messages replayed on authentication.
	DefaultHistorySize = 50

	disconnectLogTimeout = 5 * time.Second
)

// RouterConfig holds the collaborators of a Router.
type RouterConfig struct {
	Store       Store
	Hub         *Hub
	Limiter     *ratelimit.Limiter
	Counters    *monitor.Counters
	Logger      *slog.Logger
	HistorySize int
}

// Router is the Handler that turns inbound events into replies, broadcasts
// and store writes.
type Router struct {
	store       Store
	hub         *Hub
	registry    *Registry
	board       *Board
	limiter     *ratelimit.Limiter
	counters    *monitor.Counters
	log         *slog.Logger
	historySize int
	now         func() time.Time
}

// NewRouter creates a Router and installs it as the hub's handler.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.New(ratelimit.DefaultMax, ratelimit.DefaultWindow)
	}
	if cfg.Counters == nil {
		cfg.Counters = monitor.New(monitor.WithRegistry(nil))
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}

	r := &Router{
		store:       cfg.Store,
		hub:         cfg.Hub,
		registry:    NewRegistry(NewPresence(cfg.Hub)),
		board:       NewBoard(cfg.Store, cfg.Hub),
		limiter:     cfg.Limiter,
		counters:    cfg.Counters,
		log:         cfg.Logger,
		historySize: cfg.HistorySize,
		now:         time.Now,
	}
	cfg.Hub.SetHandler(r)
	return r
}

// Registry returns the registry of authenticated sessions.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Connect counts a newly accepted connection.
func (r *Router) Connect(_ *Session) {
	r.counters.Connected()
}

// Disconnect releases the identity bound to s. Calling it more than once is
// harmless.
func (r *Router) Disconnect(ctx context.Context, s *Session) {
	identity, ok := r.registry.Unregister(s)
	if !ok {
		return
	}
	r.counters.Departed()
	r.log.Info("user disconnected", "username", identity, "addr", s.Addr())

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectLogTimeout)
	defer cancel()
	if err := r.store.InsertConnectionLog(ctx, identity, store.ActionDisconnect); err != nil {
		r.log.Warn("write disconnect log", "username", identity, "error", err)
	}
}

// Dispatch handles one inbound event from s.
func (r *Router) Dispatch(ctx context.Context, s *Session, ev Inbound) {
	if auth, ok := ev.(*Authenticate); ok {
		r.authenticate(ctx, s, auth)
		return
	}

	identity := s.Identity()
	if identity == "" {
		r.replyError(s, ErrUnauthenticated)
		return
	}

	switch ev := ev.(type) {
	case *SendMessage:
		r.sendMessage(ctx, s, identity, ev)
	case *GetMonitoring:
		r.hub.Send(s, MonitoringData{Snapshot: r.counters.Snapshot()})
	case *PingLatency:
		r.hub.Send(s, PongLatency(ev.Payload))
	case *GetConnectedUsers:
		r.hub.Send(s, ConnectedUsers(r.registry.ListIdentities()))
	case *GetBoardItems:
		items, err := r.board.List(ctx)
		if err != nil {
			r.log.Error("board items", "username", identity, "error", err)
			return
		}
		r.hub.Send(s, BoardItems(items))
	case *CreateBoardItem:
		item, err := r.board.Create(ctx, identity, ev)
		if r.boardFailed(s, identity, err) {
			return
		}
		r.log.Info("board item created", "username", identity, "id", item.ID)
	case *UpdateBoardItem:
		if r.boardFailed(s, identity, r.board.Update(ctx, ev)) {
			return
		}
		r.log.Info("board item updated", "username", identity, "id", ev.ID)
	case *DeleteBoardItem:
		if r.boardFailed(s, identity, r.board.Delete(ctx, ev.ID)) {
			return
		}
		r.log.Info("board item deleted", "username", identity, "id", ev.ID)
	default:
		r.replyError(s, ErrInvalidEvent)
	}
}

func (r *Router) authenticate(ctx context.Context, s *Session, ev *Authenticate) {
	if r.registry.Bound(s) {
		r.replyError(s, ErrAlreadyAuthenticated)
		return
	}

	identity, err := r.verify(ctx, ev.Token)
	if err != nil {
		r.hub.Send(s, Authenticated{Success: false, Error: ErrInvalidToken.Error()})
		r.hub.Close(s)
		return
	}

	// Broadcasts that race with the history query are buffered so the client
	// sees history first and no message twice.
	r.hub.Hold(s)
	if err := r.registry.Register(s, identity); err != nil {
		r.hub.Release(s, 0)
		r.replyError(s, err)
		return
	}
	r.counters.Authenticated()
	r.hub.Send(s, Authenticated{Success: true, Username: identity})
	r.log.Info("user authenticated", "username", identity, "addr", s.Addr())

	if err := r.store.InsertConnectionLog(ctx, identity, store.ActionConnect); err != nil {
		r.log.Warn("write connect log", "username", identity, "error", err)
	}

	history, err := r.store.RecentMessages(ctx, r.historySize)
	if err != nil {
		r.log.Error("load message history", "username", identity, "error", err)
		history = []models.ChatMessage{}
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	var mark int64
	if n := len(history); n > 0 {
		mark = history[n-1].ID
	}
	r.hub.Send(s, MessageHistory(history))
	r.hub.Release(s, mark)
}

func (r *Router) verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	identity, err := r.store.UsernameByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Error("verify token", "error", err)
		}
		return "", ErrInvalidToken
	}
	return identity, nil
}

func (r *Router) sendMessage(ctx context.Context, s *Session, identity string, ev *SendMessage) {
	if !r.limiter.Allow(identity, r.now()) {
		r.counters.RateLimited()
		r.replyError(s, ErrRateLimited)
		return
	}

	content := sanitize.Input(ev.Content)
	if content == "" {
		r.replyError(s, validationError("message is empty"))
		return
	}

	msg, err := r.store.InsertMessage(ctx, identity, content, r.now())
	if err != nil {
		r.log.Error("store message", "username", identity, "error", err)
		return
	}
	r.counters.MessageSent()
	r.hub.Publish(NewMessage{ChatMessage: msg})
}

// boardFailed reports err to the sender when it is a validation failure and
// logs it otherwise.
func (r *Router) boardFailed(s *Session, identity string, err error) bool {
	if err == nil {
		return false
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		r.replyError(s, verr)
		return true
	}
	r.log.Error("board mutation", "username", identity, "error", err)
	return true
}

func (r *Router) replyError(s *Session, err error) {
	r.hub.Send(s, ErrorEvent{Message: err.Error()})
}
