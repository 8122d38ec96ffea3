package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type received struct {
	Event Kind            `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub() *Hub {
	return NewHub(HubOptions{Logger: discardLogger()})
}

// attach adds a session without a network connection; frames are read back
// from its send channel.
func attach(h *Hub, addr string) *Session {
	s := newSession(nil, h, addr)
	h.add(s)
	return s
}

// drain returns every frame queued for s.
func drain(t *testing.T, s *Session) []received {
	t.Helper()
	var out []received
	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				return out
			}
			var env received
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func kinds(frames []received) []Kind {
	out := make([]Kind, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Event)
	}
	return out
}

func ofKind(frames []received, kind Kind) []received {
	var out []received
	for _, f := range frames {
		if f.Event == kind {
			out = append(out, f)
		}
	}
	return out
}
