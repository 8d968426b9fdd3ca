package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

func newSessionService(bookmarks *services.BookmarkService) *services.GridSessionService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return services.NewGridSessionService(services.GridSessionConfig{
		Bookmarks:           bookmarks,
		Counts:              services.NewCountService(&fakeFixtureRepository{}, nil, time.Minute),
		Logger:              log,
		GlobalPinnedFilters: []string{"status", "vessels"},
		PageSize:            25,
	})
}

func TestGridSessionService_SystemDefaultSelectedOnBuild(t *testing.T) {
	t.Parallel()

	svc := newSessionService(services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus()))

	session, err := svc.Session(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)

	active, ok := session.Active()
	require.True(t, ok)
	assert.Equal(t, services.SystemBookmarkContracts, active.ID)
	assert.Equal(t, gridstate.BookmarkSystem, active.Type)
	// System restore carries the injected pinned set.
	assert.Equal(t, []string{"status", "vessels"}, session.Filters().PinnedFilters)
	assert.Len(t, session.Bookmarks(), 3)
}

func TestGridSessionService_UserDefaultWinsOverSystem(t *testing.T) {
	t.Parallel()

	bookmarks := services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus())
	userID := uuid.New()

	created, err := bookmarks.Create(context.Background(), userID, gridstate.Bookmark{Name: "My board"})
	require.NoError(t, err)
	require.NoError(t, bookmarks.SetDefault(context.Background(), userID, created.ID))

	svc := newSessionService(bookmarks)
	session, err := svc.Session(context.Background(), userID, uuid.New())
	require.NoError(t, err)

	active, ok := session.Active()
	require.True(t, ok)
	assert.Equal(t, created.ID, active.ID)
}

func TestGridSessionService_ResolvesByValueKey(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	app := application.New(&application.ApplicationOptions{Logger: log})

	svc := newSessionService(services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus()))
	app.RegisterServices(svc)

	// Registry lookups copy the zero value of the service type; the copy
	// must not carry any shared state or locks.
	resolved := app.Service(services.GridSessionService{}).(*services.GridSessionService)
	assert.Same(t, svc, resolved)
}

func TestGridSessionService_SessionReusedUntilDropped(t *testing.T) {
	t.Parallel()

	svc := newSessionService(services.NewBookmarkService(persistence.NewInMemBookmarkRepository(), quietBus()))
	userID, orgID := uuid.New(), uuid.New()

	first, err := svc.Session(context.Background(), userID, orgID)
	require.NoError(t, err)
	second, err := svc.Session(context.Background(), userID, orgID)
	require.NoError(t, err)
	assert.Same(t, first, second)

	svc.Drop(userID, orgID)
	third, err := svc.Session(context.Background(), userID, orgID)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
