package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/eventbus"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestBookmarkService_CreatePublishesEvent(t *testing.T) {
	t.Parallel()

	bus := quietBus()
	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), bus)
	userID := uuid.New()

	var received *bookmark.CreatedEvent
	bus.Subscribe(func(ev *bookmark.CreatedEvent) {
		received = ev
	})

	created, err := svc.Create(context.Background(), userID, gridstate.Bookmark{Name: "Capesize"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	require.NotNil(t, received)
	assert.Equal(t, userID, received.UserID)
	assert.Equal(t, "Capesize", received.Result.Name)
}

func TestBookmarkService_CreateStampsTimestamps(t *testing.T) {
	t.Parallel()

	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus())
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, gridstate.Bookmark{Name: "Supramax"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero(), "CreatedAt must be set by the repository")
	assert.False(t, created.UpdatedAt.IsZero(), "UpdatedAt must be set by the repository")

	require.NoError(t, svc.Rename(ctx, userID, created.ID, "Supramax fleet"))

	list, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.CreatedAt, list[0].CreatedAt)
	assert.False(t, list[0].UpdatedAt.Before(created.UpdatedAt))
}

func TestBookmarkService_DuplicateNameRejected(t *testing.T) {
	t.Parallel()

	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus())
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, gridstate.Bookmark{Name: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userID, gridstate.Bookmark{Name: "Mine"})
	assert.ErrorIs(t, err, bookmark.ErrNameTaken)
}

func TestBookmarkService_UpdateCarriesAuditPatch(t *testing.T) {
	t.Parallel()

	bus := quietBus()
	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), bus)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, gridstate.Bookmark{
		Name: "Panamax",
		Filters: gridstate.FiltersState{
			ActiveFilters: map[string]gridstate.FilterValue{
				"vessels": gridstate.Multiselect("MV Atlas"),
			},
		},
	})
	require.NoError(t, err)

	var received *bookmark.UpdatedEvent
	bus.Subscribe(func(ev *bookmark.UpdatedEvent) {
		received = ev
	})

	changed := created.Clone()
	changed.Filters.ActiveFilters["vessels"] = gridstate.Multiselect("MV Atlas", "MV Borealis")
	_, err = svc.Update(context.Background(), userID, changed)
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.NotEmpty(t, received.Patch)
	assert.Contains(t, string(received.Patch), "MV Borealis")
}

func TestBookmarkService_UpdateUnknownBookmark(t *testing.T) {
	t.Parallel()

	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus())
	_, err := svc.Update(context.Background(), uuid.New(), gridstate.Bookmark{ID: uuid.New(), Name: "ghost"})
	assert.ErrorIs(t, err, bookmark.ErrNotFound)
}

func TestBookmarkService_SetDefaultIsExclusive(t *testing.T) {
	t.Parallel()

	svc := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus())
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, gridstate.Bookmark{Name: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, gridstate.Bookmark{Name: "second"})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, userID, first.ID))
	require.NoError(t, svc.SetDefault(ctx, userID, second.ID))

	list, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	defaults := 0
	for _, b := range list {
		if b.IsDefault {
			defaults++
			assert.Equal(t, second.ID, b.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}
