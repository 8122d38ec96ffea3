package server_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWebSocketOrigin(t *testing.T) {
	env := newTestEnv(t)

	for _, origin := range []string{"", "http://evil.test"} {
		_, resp, err := env.dial(t, origin)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}

func TestWebSocketAuthentication(t *testing.T) {
	t.Run("should close the connection after a bad token", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		conn, _, err := env.dial(t, testOrigin)
		req.NoError(err)

		send(t, conn, "authenticate", map[string]string{"token": "forged"})

		reply := readUntil(t, conn, "authenticated")
		req.JSONEq(`{"success":false,"error":"invalid token"}`, string(reply.Data))
		_, err = readFrame(conn)
		req.Error(err)
	})

	t.Run("should refuse events before authentication", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		conn, _, err := env.dial(t, testOrigin)
		req.NoError(err)

		send(t, conn, "send_message", map[string]string{"content": "sneaky"})

		reply := readUntil(t, conn, "error")
		req.JSONEq(`{"message":"not authenticated"}`, string(reply.Data))
	})

	t.Run("should keep the connection open after an invalid event", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		conn, _ := env.connect(t, env.register(t, "alice"))

		req.NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"nope"}`)))
		reply := readUntil(t, conn, "error")
		req.JSONEq(`{"message":"invalid event"}`, string(reply.Data))

		send(t, conn, "ping_latency", 42)
		pong := readUntil(t, conn, "pong_latency")
		req.JSONEq(`42`, string(pong.Data))
	})
}

func TestChat(t *testing.T) {
	t.Run("should deliver a message exactly once to every session", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		alice, _ := env.connect(t, env.register(t, "alice"))
		bob, _ := env.connect(t, env.register(t, "bob"))

		send(t, alice, "send_message", map[string]string{"content": "hello"})

		for _, conn := range []*websocket.Conn{alice, bob} {
			msg := readUntil(t, conn, "new_message")
			req.JSONEq(`"hello"`, string(field(t, msg.Data, "content")))
			req.JSONEq(`"alice"`, string(field(t, msg.Data, "username")))

			send(t, conn, "ping_latency", 1)
			_, skipped := readCollect(t, conn, "pong_latency")
			for _, f := range skipped {
				req.NotEqual("new_message", f.Event)
			}
		}
	})

	t.Run("should replay history to late joiners", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		alice, history := env.connect(t, env.register(t, "alice"))
		req.Empty(history)

		for _, content := range []string{"one", "<two>"} {
			send(t, alice, "send_message", map[string]string{"content": content})
			readUntil(t, alice, "new_message")
		}

		_, history = env.connect(t, env.register(t, "bob"))
		req.Len(history, 2)
		req.JSONEq(`"one"`, string(field(t, history[0], "content")))
		req.JSONEq(`"&lt;two&gt;"`, string(field(t, history[1], "content")))
	})

	t.Run("should truncate oversized content and keep the connection", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		alice, _ := env.connect(t, env.register(t, "alice"))

		send(t, alice, "send_message", map[string]string{"content": strings.Repeat("a", 5000)})

		msg := readUntil(t, alice, "new_message")
		var content string
		req.NoError(json.Unmarshal(field(t, msg.Data, "content"), &content))
		req.Equal(500, utf8.RuneCountInString(content))

		send(t, alice, "ping_latency", 7)
		pong := readUntil(t, alice, "pong_latency")
		req.JSONEq(`7`, string(pong.Data))
	})

	t.Run("should rate limit bursts", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		alice, _ := env.connect(t, env.register(t, "alice"))

		for range 6 {
			send(t, alice, "send_message", map[string]string{"content": "spam"})
		}

		reply := readUntil(t, alice, "error")
		req.JSONEq(`{"message":"too many messages, slow down"}`, string(reply.Data))
	})
}

func TestPresence(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice, _ := env.connect(t, env.register(t, "alice"))
	bob, _ := env.connect(t, env.register(t, "bob"))

	for {
		joined := readUntil(t, alice, "user_joined")
		if string(field(t, joined.Data, "username")) == `"bob"` {
			break
		}
	}

	send(t, alice, "get_connected_users", nil)
	users := readUntil(t, alice, "connected_users")
	req.JSONEq(`["alice","bob"]`, string(users.Data))

	req.NoError(bob.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	req.NoError(bob.Close())

	left := readUntil(t, alice, "user_left")
	req.JSONEq(`{"username":"bob"}`, string(left.Data))

	// The counter drops right after user_left is published.
	req.Eventually(func() bool {
		if err := alice.WriteJSON(frame{Event: "get_monitoring"}); err != nil {
			return false
		}
		for {
			f, err := readFrame(alice)
			if err != nil {
				return false
			}
			if f.Event != "monitoring_data" {
				continue
			}
			var stats struct {
				Active int64 `json:"activeConnections"`
				Total  int64 `json:"totalConnections"`
			}
			return json.Unmarshal(f.Data, &stats) == nil && stats.Active == 1 && stats.Total == 2
		}
	}, readTimeout, 20*time.Millisecond)
}

func TestBoard(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice, _ := env.connect(t, env.register(t, "alice"))
	bob, _ := env.connect(t, env.register(t, "bob"))

	send(t, alice, "create_board_item", map[string]any{"title": "Write docs", "assigned_to": "bob"})
	created := readUntil(t, bob, "board_item_created")
	var item struct {
		ID         int64   `json:"id"`
		Title      string  `json:"title"`
		Username   string  `json:"username"`
		AssignedTo *string `json:"assigned_to"`
		Column     string  `json:"column_name"`
	}
	req.NoError(json.Unmarshal(created.Data, &item))
	req.Equal("Write docs", item.Title)
	req.Equal("alice", item.Username)
	req.Equal("todo", item.Column)
	req.NotNil(item.AssignedTo)

	send(t, bob, "update_board_item", map[string]any{"id": item.ID, "column_name": "inprogress"})
	updated := readUntil(t, alice, "board_item_updated")
	var patch map[string]json.RawMessage
	req.NoError(json.Unmarshal(updated.Data, &patch))
	req.Len(patch, 3)
	req.JSONEq(`"inprogress"`, string(patch["column_name"]))

	send(t, alice, "get_board_items", nil)
	list := readUntil(t, alice, "board_items")
	var items []map[string]any
	req.NoError(json.Unmarshal(list.Data, &items))
	req.Len(items, 1)
	req.Equal("inprogress", items[0]["column_name"])
	req.Equal("Write docs", items[0]["title"])
	req.Equal("bob", items[0]["assigned_to"])

	send(t, bob, "delete_board_item", map[string]any{"id": 42})
	deleted := readUntil(t, alice, "board_item_deleted")
	req.JSONEq(`{"id":42}`, string(deleted.Data))

	send(t, alice, "create_board_item", map[string]any{"title": "   "})
	reply := readUntil(t, alice, "error")
	req.JSONEq(`{"message":"title is required"}`, string(reply.Data))
}

func TestShutdown(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	var conns []*websocket.Conn
	for _, name := range []string{"alice", "bob", "carol"} {
		conn, _ := env.connect(t, env.register(t, name))
		conns = append(conns, conn)
	}

	done := make(chan error, 1)
	go func() { done <- env.hub.Shutdown(5 * time.Second) }()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(10 * time.Second):
		req.FailNow("hub shutdown did not complete")
	}

	for _, conn := range conns {
		for {
			if _, err := readFrame(conn); err != nil {
				break
			}
		}
	}
	req.False(env.hub.Accept(nil, "late"))
}
