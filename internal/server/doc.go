// Package server exposes BoardChat over HTTP: the account endpoints, the
// WebSocket upgrade that feeds the realtime hub, health and metrics probes,
// and the static web client.
package server
