package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/eventbus"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

type BookmarkService struct {
	repo      bookmark.Repository
	publisher eventbus.EventBus
}

func NewBookmarkService(repo bookmark.Repository, publisher eventbus.EventBus) *BookmarkService {
	return &BookmarkService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *BookmarkService) ListByUser(ctx context.Context, userID uuid.UUID) ([]gridstate.Bookmark, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookmarkService) Create(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	created, err := s.repo.Create(ctx, userID, b)
	if err != nil {
		metrics.BookmarkMutations.WithLabelValues("create", "error").Inc()
		return gridstate.Bookmark{}, err
	}
	metrics.BookmarkMutations.WithLabelValues("create", "ok").Inc()
	s.publisher.Publish(&bookmark.CreatedEvent{UserID: userID, Result: created})
	return created, nil
}

func (s *BookmarkService) Update(ctx context.Context, userID uuid.UUID, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	prior, err := s.findStored(ctx, userID, b.ID)
	if err != nil {
		return gridstate.Bookmark{}, err
	}

	updated, err := s.repo.Update(ctx, userID, b)
	if err != nil {
		metrics.BookmarkMutations.WithLabelValues("update", "error").Inc()
		return gridstate.Bookmark{}, err
	}
	metrics.BookmarkMutations.WithLabelValues("update", "ok").Inc()

	ev := &bookmark.UpdatedEvent{UserID: userID, Result: updated}
	// The patch is audit material; losing it must not fail the update.
	if patch, diffErr := jsondiff.Compare(prior, updated); diffErr == nil {
		if raw, marshalErr := json.Marshal(patch); marshalErr == nil {
			ev.Patch = raw
		}
	} else {
		composables.UseLogger(ctx).WithError(diffErr).Warn("bookmark audit diff failed")
	}
	s.publisher.Publish(ev)
	return updated, nil
}

func (s *BookmarkService) Rename(ctx context.Context, userID, id uuid.UUID, name string) error {
	if err := s.repo.Rename(ctx, userID, id, name); err != nil {
		metrics.BookmarkMutations.WithLabelValues("rename", "error").Inc()
		return err
	}
	metrics.BookmarkMutations.WithLabelValues("rename", "ok").Inc()
	s.publisher.Publish(&bookmark.RenamedEvent{UserID: userID, ID: id, Name: name})
	return nil
}

func (s *BookmarkService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		metrics.BookmarkMutations.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.BookmarkMutations.WithLabelValues("delete", "ok").Inc()
	s.publisher.Publish(&bookmark.DeletedEvent{UserID: userID, ID: id})
	return nil
}

func (s *BookmarkService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.SetDefault(ctx, userID, id); err != nil {
		metrics.BookmarkMutations.WithLabelValues("setDefault", "error").Inc()
		return err
	}
	metrics.BookmarkMutations.WithLabelValues("setDefault", "ok").Inc()
	s.publisher.Publish(&bookmark.DefaultSetEvent{UserID: userID, ID: id})
	return nil
}

func (s *BookmarkService) findStored(ctx context.Context, userID, id uuid.UUID) (gridstate.Bookmark, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return gridstate.Bookmark{}, err
	}
	for _, b := range list {
		if b.ID == id {
			return b, nil
		}
	}
	return gridstate.Bookmark{}, bookmark.ErrNotFound
}

// StoreFor binds the per-user repository to the user-agnostic store the
// view-state reconciler mutates through.
func (s *BookmarkService) StoreFor(userID uuid.UUID) gridstate.Store {
	return &userBookmarkStore{service: s, userID: userID}
}

type userBookmarkStore struct {
	service *BookmarkService
	userID  uuid.UUID
}

func (st *userBookmarkStore) Create(ctx context.Context, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	return st.service.Create(ctx, st.userID, b)
}

func (st *userBookmarkStore) Update(ctx context.Context, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	return st.service.Update(ctx, st.userID, b)
}

func (st *userBookmarkStore) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return st.service.Rename(ctx, st.userID, id, name)
}

func (st *userBookmarkStore) Delete(ctx context.Context, id uuid.UUID) error {
	return st.service.Delete(ctx, st.userID, id)
}

func (st *userBookmarkStore) SetDefault(ctx context.Context, id uuid.UUID) error {
	return st.service.SetDefault(ctx, st.userID, id)
}
