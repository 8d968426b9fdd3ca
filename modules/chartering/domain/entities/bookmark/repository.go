package bookmark

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

var (
	ErrNotFound  = errors.New("bookmark not found")
	ErrNameTaken = errors.New("bookmark name already exists")
)

// Repository persists user bookmarks, keyed by user id. System bookmarks
// are process-local and never reach this interface. Stored timestamps are
// raw epoch milliseconds; implementations convert to time.Time on load.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]gridstate.Bookmark, error)
	Create(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error)
	Update(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error)
	Rename(ctx context.Context, userID, id uuid.UUID, name string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}
