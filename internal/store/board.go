package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
)

// BoardStore handles CRUD operations for board items.
type BoardStore struct {
	db *DB
}

// NewBoardStore returns a BoardStore backed by db.
func NewBoardStore(db *DB) *BoardStore {
	return &BoardStore{db: db}
}

// InsertBoardItem stores item and returns it with its assigned id. The
// caller's timestamps are kept at millisecond precision.
func (s *BoardStore) InsertBoardItem(ctx context.Context, item models.BoardItem) (models.BoardItem, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO board_items (
			title, content, username, assigned_to, column_name, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		item.Title, item.Content, item.Username, nullString(item.AssignedTo),
		string(item.Column), toMillis(item.CreatedAt), toMillis(item.UpdatedAt),
	)
	if err != nil {
		return models.BoardItem{}, fmt.Errorf("insert board item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.BoardItem{}, fmt.Errorf("insert board item id: %w", err)
	}

	item.ID = id
	item.CreatedAt = fromMillis(toMillis(item.CreatedAt))
	item.UpdatedAt = fromMillis(toMillis(item.UpdatedAt))
	return item, nil
}

// GetBoardItem fetches one item.
func (s *BoardStore) GetBoardItem(ctx context.Context, id int64) (models.BoardItem, error) {
	item, err := scanBoardItem(s.db.QueryRowContext(ctx, `
		SELECT id, title, content, username, assigned_to, column_name, created_at, updated_at
		FROM board_items WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return models.BoardItem{}, ErrNotFound
	}
	return item, err
}

// ListBoardItems returns every item ordered by id.
func (s *BoardStore) ListBoardItems(ctx context.Context) ([]models.BoardItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, username, assigned_to, column_name, created_at, updated_at
		FROM board_items ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list board items: %w", err)
	}
	defer rows.Close()

	items := []models.BoardItem{}
	for rows.Next() {
		item, err := scanBoardItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateBoardItem applies the fields set in patch and refreshes updated_at.
// An unknown id is not an error.
func (s *BoardStore) UpdateBoardItem(ctx context.Context, id int64, patch models.BoardPatch, updatedAt time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{toMillis(updatedAt)}

	if patch.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, patch.Title.Value)
	}
	if patch.Content.Set {
		sets = append(sets, "content = ?")
		args = append(args, patch.Content.Value)
	}
	if patch.Column.Set {
		sets = append(sets, "column_name = ?")
		args = append(args, string(patch.Column.Value))
	}
	if patch.AssignedTo.Set {
		sets = append(sets, "assigned_to = ?")
		args = append(args, nullString(patch.AssignedTo.Value))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE board_items SET %s WHERE id = ?`, strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update board item %d: %w", id, err)
	}
	return nil
}

// DeleteBoardItem removes item id. An unknown id is not an error.
func (s *BoardStore) DeleteBoardItem(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM board_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete board item %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoardItem(row rowScanner) (models.BoardItem, error) {
	var (
		item       models.BoardItem
		assignedTo sql.NullString
		column     string
		created    int64
		updated    int64
	)
	err := row.Scan(&item.ID, &item.Title, &item.Content, &item.Username,
		&assignedTo, &column, &created, &updated)
	if err != nil {
		return models.BoardItem{}, err
	}
	if assignedTo.Valid {
		item.AssignedTo = &assignedTo.String
	}
	item.Column = models.Column(column)
	item.CreatedAt = fromMillis(created)
	item.UpdatedAt = fromMillis(updated)
	return item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
