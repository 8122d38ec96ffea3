//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

package realtime

import (
	"context"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
)

// BoardStore persists board items.
type BoardStore interface {
	InsertBoardItem(ctx context.Context, item models.BoardItem) (models.BoardItem, error)
	ListBoardItems(ctx context.Context) ([]models.BoardItem, error)
	UpdateBoardItem(ctx context.Context, id int64, patch models.BoardPatch, updatedAt time.Time) error
	DeleteBoardItem(ctx context.Context, id int64) error
}

// Store is the durable storage the Router relies on.
type Store interface {
	BoardStore
	UsernameByToken(ctx context.Context, token string) (string, error)
	InsertMessage(ctx context.Context, username, content string, at time.Time) (models.ChatMessage, error)
	RecentMessages(ctx context.Context, n int) ([]models.ChatMessage, error)
	InsertConnectionLog(ctx context.Context, username, action string) error
}
