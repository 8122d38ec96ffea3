package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/boardchat/internal/auth"
	"github.com/Tyrowin/boardchat/internal/realtime"
)

// Accounts registers users and issues session tokens.
type Accounts interface {
	Register(ctx context.Context, c auth.Credentials) (auth.Grant, error)
	Login(ctx context.Context, c auth.Credentials) (auth.Grant, error)
}

type grantResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AuthHandler serves the register and login endpoints.
type AuthHandler struct {
	accounts Accounts
	log      *slog.Logger
}

// NewAuthHandler creates an AuthHandler over accounts.
func NewAuthHandler(accounts Accounts, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: logger}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.accounts.Register(r.Context(), creds)
	switch {
	case err == nil:
		h.log.Info("user registered", "username", grant.Username)
		writeJSON(w, http.StatusOK, grantResponse{Success: true, Token: grant.Token, Username: grant.Username})
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("register", "request_id", GetRequestID(r), "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.accounts.Login(r.Context(), creds)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, grantResponse{Success: true, Token: grant.Token, Username: grant.Username})
	case errors.Is(err, auth.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error("login", "request_id", GetRequestID(r), "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// WebSocketHandler upgrades requests from allowed origins and hands the
// connection to the hub, which starts its pumps.
type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewWebSocketHandler creates a WebSocketHandler that admits origins accepted
// by checkOrigin.
func NewWebSocketHandler(hub *realtime.Hub, checkOrigin func(*http.Request) bool, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: logger,
	}
}

// ServeHTTP upgrades the request and registers the connection with the hub.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	if !h.hub.Accept(conn, r.RemoteAddr) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
	}
}

// HealthHandler responds with a plain text liveness message.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "BoardChat server is running!")
}
