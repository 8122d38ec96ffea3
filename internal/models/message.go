package models

import "time"

// MaxContentLength is the longest chat message or board text kept after
// sanitising, in runes.
const MaxContentLength = 500

// ChatMessage is a persisted chat line. Messages are append-only.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
