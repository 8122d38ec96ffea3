package monitor

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersSnapshot(t *testing.T) {
	req := require.New(t)
	c := New(WithRegistry(nil))

	c.Connected()
	c.Connected()
	c.Authenticated()
	c.Authenticated()
	c.Departed()
	c.MessageSent()
	c.RateLimited()
	c.Published("new_message")

	req.Equal(Snapshot{ActiveConnections: 1, TotalConnections: 2, MessagesCount: 1}, c.Snapshot())
}

func TestCountersMirrorToPrometheus(t *testing.T) {
	req := require.New(t)
	registry := prometheus.NewRegistry()
	c := New(WithRegistry(registry), WithNamespace("test"))

	c.Connected()
	c.Authenticated()
	c.MessageSent()
	c.MessageSent()
	c.Published("new_message")

	expected := `
# HELP test_messages_total Total number of persisted chat messages
# TYPE test_messages_total counter
test_messages_total 2
# HELP test_active_connections Number of authenticated realtime sessions
# TYPE test_active_connections gauge
test_active_connections 1
`
	req.NoError(testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"test_messages_total", "test_active_connections"))
	req.Equal(1.0, testutil.ToFloat64(c.metrics.eventsPublished.WithLabelValues("new_message")))
}
