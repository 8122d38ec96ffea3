// Package models defines the chat and board records shared by the store, the
// realtime core and the HTTP layer.
package models
