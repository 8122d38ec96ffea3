// Package realtime implements the WebSocket synchronization core: sessions,
// the Hub that fans events out to every connection, the identity Registry and
// its presence announcements, the board mutation pipeline and the Router that
// dispatches inbound events.
//
// Wire frames are JSON envelopes of the form
//
//	{"event": "send_message", "data": {"content": "hello"}}
//
// in both directions.
package realtime
