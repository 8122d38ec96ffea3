package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
)

// Connection log actions.
const (
	ActionConnect    = "connect"
	ActionDisconnect = "disconnect"
)

// MessageStore handles chat messages and connection logs.
type MessageStore struct {
	db *DB
}

// NewMessageStore returns a MessageStore backed by db.
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// InsertMessage appends a chat message and returns it as stored.
func (s *MessageStore) InsertMessage(ctx context.Context, username, content string, at time.Time) (models.ChatMessage, error) {
	ms := toMillis(at)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (username, content, timestamp) VALUES (?, ?, ?)`,
		username, content, ms,
	)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("insert message id: %w", err)
	}
	return models.ChatMessage{
		ID:        id,
		Username:  username,
		Content:   content,
		Timestamp: fromMillis(ms),
	}, nil
}

// RecentMessages returns up to n of the newest messages, oldest first.
func (s *MessageStore) RecentMessages(ctx context.Context, n int) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, content, timestamp FROM (
			SELECT id, username, content, timestamp FROM messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, n)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0, n)
	for rows.Next() {
		var (
			m  models.ChatMessage
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.Username, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Timestamp = fromMillis(ts)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// InsertConnectionLog records a connect or disconnect of username.
func (s *MessageStore) InsertConnectionLog(ctx context.Context, username, action string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO connection_logs (username, action, timestamp) VALUES (?, ?, ?)`,
		username, action, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert connection log: %w", err)
	}
	return nil
}
