package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence/models"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

const (
	selectBookmarkFields = `id, user_id, name, is_default, filters, table_state, created_at_ms, updated_at_ms`

	insertBookmarkQuery = `
		INSERT INTO grid_bookmarks (id, user_id, name, is_default, filters, table_state, created_at_ms, updated_at_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateBookmarkQuery = `
		UPDATE grid_bookmarks
		SET name = $3, is_default = $4, filters = $5, table_state = $6, updated_at_ms = $7
		WHERE user_id = $1 AND id = $2`
)

type BookmarkRepository struct{}

func NewBookmarkRepository() bookmark.Repository {
	return &BookmarkRepository{}
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]gridstate.Bookmark, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		"SELECT "+selectBookmarkFields+" FROM grid_bookmarks WHERE user_id = $1 ORDER BY created_at_ms, id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []gridstate.Bookmark
	for rows.Next() {
		var row models.GridBookmark
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.Name, &row.IsDefault,
			&row.Filters, &row.TableState, &row.CreatedAtMS, &row.UpdatedAtMS,
		); err != nil {
			return nil, err
		}
		b, err := toDomainBookmark(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

func (r *BookmarkRepository) Create(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return gridstate.Bookmark{}, err
	}

	// The client-side temp id is never persisted.
	b.ID = uuid.New()
	b.Type = gridstate.BookmarkUser
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	row, err := toDBBookmark(userID, b)
	if err != nil {
		return gridstate.Bookmark{}, err
	}

	_, err = tx.Exec(ctx, insertBookmarkQuery,
		row.ID, row.UserID, row.Name, row.IsDefault,
		row.Filters, row.TableState, row.CreatedAtMS, row.UpdatedAtMS,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return gridstate.Bookmark{}, bookmark.ErrNameTaken
		}
		return gridstate.Bookmark{}, err
	}
	return b, nil
}

func (r *BookmarkRepository) Update(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return gridstate.Bookmark{}, err
	}

	b.UpdatedAt = time.Now().UTC()
	row, err := toDBBookmark(userID, b)
	if err != nil {
		return gridstate.Bookmark{}, err
	}
	tag, err := tx.Exec(ctx, updateBookmarkQuery,
		row.UserID, row.ID, row.Name, row.IsDefault,
		row.Filters, row.TableState, row.UpdatedAtMS,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return gridstate.Bookmark{}, bookmark.ErrNameTaken
		}
		return gridstate.Bookmark{}, err
	}
	if tag.RowsAffected() == 0 {
		return gridstate.Bookmark{}, bookmark.ErrNotFound
	}
	return b, nil
}

func (r *BookmarkRepository) Rename(ctx context.Context, userID, id uuid.UUID, name string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		"UPDATE grid_bookmarks SET name = $3, updated_at_ms = $4 WHERE user_id = $1 AND id = $2",
		userID, id, name, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return bookmark.ErrNameTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return bookmark.ErrNotFound
	}
	return nil
}

func (r *BookmarkRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM grid_bookmarks WHERE user_id = $1 AND id = $2",
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return bookmark.ErrNotFound
	}
	return nil
}

// SetDefault is exclusive per user. Both statements run in one transaction
// so a failure cannot leave the user with zero or two defaults.
func (r *BookmarkRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	return composables.InTx(ctx, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			"UPDATE grid_bookmarks SET is_default = FALSE WHERE user_id = $1 AND is_default",
			userID,
		); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			"UPDATE grid_bookmarks SET is_default = TRUE WHERE user_id = $1 AND id = $2",
			userID, id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return bookmark.ErrNotFound
		}
		return nil
	})
}
