package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

// InMemBookmarkRepository backs tests and local seeding; it mirrors the SQL
// repository's semantics including name uniqueness and exclusive defaults.
type InMemBookmarkRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]gridstate.Bookmark
}

func NewInMemBookmarkRepository() *InMemBookmarkRepository {
	return &InMemBookmarkRepository{byUser: make(map[uuid.UUID][]gridstate.Bookmark)}
}

func (r *InMemBookmarkRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]gridstate.Bookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	out := make([]gridstate.Bookmark, 0, len(list))
	for _, b := range list {
		out = append(out, b.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemBookmarkRepository) Create(_ context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byUser[userID] {
		if existing.Name == b.Name {
			return gridstate.Bookmark{}, bookmark.ErrNameTaken
		}
	}
	b = b.Clone()
	b.ID = uuid.New()
	b.Type = gridstate.BookmarkUser
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.byUser[userID] = append(r.byUser[userID], b)
	return b.Clone(), nil
}

func (r *InMemBookmarkRepository) Update(_ context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[userID]
	for i := range list {
		if list[i].ID == b.ID {
			b.CreatedAt = list[i].CreatedAt
			b.UpdatedAt = time.Now().UTC()
			list[i] = b.Clone()
			return b.Clone(), nil
		}
	}
	return gridstate.Bookmark{}, bookmark.ErrNotFound
}

func (r *InMemBookmarkRepository) Rename(_ context.Context, userID, id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[userID]
	for _, existing := range list {
		if existing.Name == name && existing.ID != id {
			return bookmark.ErrNameTaken
		}
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Name = name
			list[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return bookmark.ErrNotFound
}

func (r *InMemBookmarkRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			r.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return bookmark.ErrNotFound
}

func (r *InMemBookmarkRepository) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byUser[userID]
	found := false
	for i := range list {
		if list[i].ID == id {
			found = true
		}
	}
	if !found {
		return bookmark.ErrNotFound
	}
	for i := range list {
		list[i].IsDefault = list[i].ID == id
	}
	return nil
}
