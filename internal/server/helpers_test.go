package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tyrowin/boardchat/internal/auth"
	"github.com/Tyrowin/boardchat/internal/config"
	"github.com/Tyrowin/boardchat/internal/monitor"
	"github.com/Tyrowin/boardchat/internal/ratelimit"
	"github.com/Tyrowin/boardchat/internal/realtime"
	"github.com/Tyrowin/boardchat/internal/server"
	"github.com/Tyrowin/boardchat/internal/store"
)

const (
	testOrigin  = "http://localhost:3000"
	readTimeout = 2 * time.Second
)

type testEnv struct {
	srv   *httptest.Server
	hub   *realtime.Hub
	wsURL string
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := store.New(db)

	public := filepath.Join(dir, "public")
	require.NoError(t, os.Mkdir(public, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>BoardChat</h1>"), 0o600))

	registry := prometheus.NewRegistry()
	counters := monitor.New(monitor.WithRegistry(registry))

	hub := realtime.NewHub(realtime.HubOptions{Logger: logger, Counters: counters})
	realtime.NewRouter(realtime.RouterConfig{
		Store:    st,
		Hub:      hub,
		Limiter:  ratelimit.New(ratelimit.DefaultMax, ratelimit.DefaultWindow),
		Counters: counters,
		Logger:   logger,
	})
	go hub.Run()

	router := server.NewRouter(server.Deps{
		Accounts:    auth.NewService(st, bcrypt.MinCost),
		Hub:         hub,
		CheckOrigin: config.NewOriginPolicy([]string{testOrigin}, logger).CheckOrigin,
		Gatherer:    registry,
		PublicDir:   public,
		Logger:      logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		_ = hub.Shutdown(readTimeout)
		srv.Close()
	})

	return &testEnv{
		srv:   srv,
		hub:   hub,
		wsURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
	}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	status, body := e.postJSON(t, "/api/register", map[string]string{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (e *testEnv) dial(t *testing.T, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: readTimeout}
	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}
	conn, resp, err := dialer.Dial(e.wsURL, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

// connect opens a socket and authenticates it with token, consuming frames up
// to and including message_history.
func (e *testEnv) connect(t *testing.T, token string) (*websocket.Conn, []json.RawMessage) {
	t.Helper()
	conn, _, err := e.dial(t, testOrigin)
	require.NoError(t, err)

	send(t, conn, "authenticate", map[string]string{"token": token})
	reply := readUntil(t, conn, "authenticated")
	require.JSONEq(t, `true`, string(field(t, reply.Data, "success")))

	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "message_history").Data, &history))
	return conn, history
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(frame{Event: event, Data: payload}))
}

func readFrame(conn *websocket.Conn) (frame, error) {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return frame{}, err
	}
	var f frame
	err := conn.ReadJSON(&f)
	return f, err
}

// readUntil reads frames until one of kind arrives and returns it. Frames of
// other kinds are discarded.
func readUntil(t *testing.T, conn *websocket.Conn, kind string) frame {
	t.Helper()
	f, _ := readCollect(t, conn, kind)
	return f
}

// readCollect is readUntil that also returns the skipped frames.
func readCollect(t *testing.T, conn *websocket.Conn, kind string) (frame, []frame) {
	t.Helper()
	var skipped []frame
	for {
		f, err := readFrame(conn)
		require.NoError(t, err, "waiting for %s", kind)
		if f.Event == kind {
			return f, skipped
		}
		skipped = append(skipped, f)
	}
}

func field(t *testing.T, data json.RawMessage, name string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	return fields[name]
}
