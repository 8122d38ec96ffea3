package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
	"github.com/Tyrowin/boardchat/internal/sanitize"
)

// Board validates board mutations, persists them and publishes the result.
type Board struct {
	store BoardStore
	pub   Publisher
	now   func() time.Time
}

// NewBoard creates a Board.
func NewBoard(store BoardStore, pub Publisher) *Board {
	return &Board{
		store: store,
		pub:   pub,
		now:   time.Now,
	}
}

// List returns every item ordered by id.
func (b *Board) List(ctx context.Context) ([]models.BoardItem, error) {
	items, err := b.store.ListBoardItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list board items: %w", err)
	}
	if items == nil {
		items = []models.BoardItem{}
	}
	return items, nil
}

// Create adds an item authored by author.
func (b *Board) Create(ctx context.Context, author string, req *CreateBoardItem) (models.BoardItem, error) {
	title := sanitize.Input(req.Title)
	if title == "" {
		return models.BoardItem{}, validationError("title is required")
	}

	column := req.Column
	if column == "" {
		column = models.ColumnTodo
	}
	if !column.Valid() {
		return models.BoardItem{}, validationError("invalid column")
	}

	now := b.now()
	item, err := b.store.InsertBoardItem(ctx, models.BoardItem{
		Title:      title,
		Content:    sanitize.Input(req.Content),
		Username:   author,
		AssignedTo: assignee(req.AssignedTo),
		Column:     column,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return models.BoardItem{}, fmt.Errorf("create board item: %w", err)
	}

	b.pub.Publish(BoardItemCreated{BoardItem: item})
	return item, nil
}

// Update applies the fields present in req. Updating an unknown id is not an
// error; the change is still announced.
func (b *Board) Update(ctx context.Context, req *UpdateBoardItem) error {
	patch := req.BoardPatch
	if patch.Title.Set {
		patch.Title.Value = sanitize.Input(patch.Title.Value)
		if patch.Title.Value == "" {
			return validationError("title is required")
		}
	}
	if patch.Content.Set {
		patch.Content.Value = sanitize.Input(patch.Content.Value)
	}
	if patch.Column.Set && !patch.Column.Value.Valid() {
		return validationError("invalid column")
	}
	if patch.AssignedTo.Set {
		patch.AssignedTo.Value = assignee(patch.AssignedTo.Value)
	}

	updatedAt := b.now().UTC().Truncate(time.Millisecond)
	if err := b.store.UpdateBoardItem(ctx, req.ID, patch, updatedAt); err != nil {
		return fmt.Errorf("update board item %d: %w", req.ID, err)
	}

	b.pub.Publish(BoardItemUpdated{ID: req.ID, Patch: patch, UpdatedAt: updatedAt})
	return nil
}

// Delete removes an item and announces the removal whether or not it existed.
func (b *Board) Delete(ctx context.Context, id int64) error {
	if err := b.store.DeleteBoardItem(ctx, id); err != nil {
		return fmt.Errorf("delete board item %d: %w", id, err)
	}
	b.pub.Publish(BoardItemDeleted{ID: id})
	return nil
}

// assignee normalises an empty or blank assignment to unassigned.
func assignee(name *string) *string {
	if name == nil {
		return nil
	}
	clean := sanitize.Input(*name)
	if clean == "" {
		return nil
	}
	return &clean
}
