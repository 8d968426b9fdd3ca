package gridstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

// fakeStore is an in-memory bookmark store whose next call can be forced to
// fail, for exercising the optimistic rollback path.
type fakeStore struct {
	created  []gridstate.Bookmark
	failNext bool
}

var errStoreDown = errors.New("store unavailable")

func (s *fakeStore) fail() error {
	if s.failNext {
		s.failNext = false
		return errStoreDown
	}
	return nil
}

func (s *fakeStore) Create(_ context.Context, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	if err := s.fail(); err != nil {
		return gridstate.Bookmark{}, err
	}
	stored := b.Clone()
	stored.ID = uuid.New() // server-assigned id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.created = append(s.created, stored)
	return stored, nil
}

func (s *fakeStore) Update(_ context.Context, b gridstate.Bookmark) (gridstate.Bookmark, error) {
	if err := s.fail(); err != nil {
		return gridstate.Bookmark{}, err
	}
	stored := b.Clone()
	stored.UpdatedAt = time.Now()
	return stored, nil
}

func (s *fakeStore) Rename(_ context.Context, _ uuid.UUID, _ string) error { return s.fail() }
func (s *fakeStore) Delete(_ context.Context, _ uuid.UUID) error           { return s.fail() }
func (s *fakeStore) SetDefault(_ context.Context, _ uuid.UUID) error       { return s.fail() }

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func systemBookmark(name string) gridstate.Bookmark {
	return gridstate.Bookmark{
		ID:   uuid.New(),
		Name: name,
		Type: gridstate.BookmarkSystem,
		Filters: gridstate.FiltersState{
			ActiveFilters: map[string]gridstate.FilterValue{},
		},
	}
}

func userBookmark(name string) gridstate.Bookmark {
	return gridstate.Bookmark{
		ID:   uuid.New(),
		Name: name,
		Type: gridstate.BookmarkUser,
		Filters: gridstate.FiltersState{
			ActiveFilters: map[string]gridstate.FilterValue{
				"cargoType": gridstate.Multiselect("grain"),
			},
			PinnedFilters:     []string{"cargoType"},
			GlobalSearchTerms: []string{"atlas"},
		},
		Table: gridstate.TableState{
			Sorting:  []gridstate.SortRule{{ColumnID: "createdAt", Desc: true}},
			Grouping: []string{"fixture"},
		},
	}
}

func newTestReconciler(t *testing.T, store gridstate.Store, notifier gridstate.Notifier, bookmarks ...gridstate.Bookmark) *gridstate.Reconciler {
	t.Helper()
	var system, user []gridstate.Bookmark
	for _, b := range bookmarks {
		if b.Type == gridstate.BookmarkSystem {
			system = append(system, b)
		} else {
			user = append(user, b)
		}
	}
	return gridstate.NewReconciler(gridstate.ReconcilerConfig{
		Store:               store,
		Notifier:            notifier,
		SystemBookmarks:     system,
		UserBookmarks:       user,
		GlobalPinnedFilters: []string{"status", "vessels"},
	})
}

func TestReconciler_SelectRestoresStateAndDirtyLifecycle(t *testing.T) {
	t.Parallel()

	b := userBookmark("grain deals")
	r := newTestReconciler(t, &fakeStore{}, nil, systemBookmark("All fixtures"), b)

	require.True(t, r.Select(b.ID))
	assert.False(t, r.Dirty(), "freshly selected bookmark must not be dirty")

	// Adding a search term makes the view dirty.
	live := r.Filters()
	live.GlobalSearchTerms = append(live.GlobalSearchTerms, "aurora")
	r.SetFilters(live)
	assert.True(t, r.Dirty())

	r.Revert()
	assert.False(t, r.Dirty())
}

func TestReconciler_SelectActiveBookmarkIsNoop(t *testing.T) {
	t.Parallel()

	b := userBookmark("grain deals")
	r := newTestReconciler(t, &fakeStore{}, nil, b)

	require.True(t, r.Select(b.ID))
	assert.False(t, r.Select(b.ID))
}

func TestReconciler_DirtyIgnoresMapOrderButNotArrayOrder(t *testing.T) {
	t.Parallel()

	b := userBookmark("grain deals")
	b.Filters.ActiveFilters = map[string]gridstate.FilterValue{
		"cargoType": gridstate.Multiselect("grain", "coal"),
		"loadPort":  gridstate.Multiselect("Santos"),
	}
	r := newTestReconciler(t, &fakeStore{}, nil, b)
	require.True(t, r.Select(b.ID))

	// Rebuild the map in a different insertion order; still clean.
	live := r.Filters()
	rebuilt := map[string]gridstate.FilterValue{
		"loadPort":  gridstate.Multiselect("Santos"),
		"cargoType": gridstate.Multiselect("grain", "coal"),
	}
	live.ActiveFilters = rebuilt
	r.SetFilters(live)
	assert.False(t, r.Dirty())

	// Reordering array elements is a real change.
	live.ActiveFilters["cargoType"] = gridstate.Multiselect("coal", "grain")
	r.SetFilters(live)
	assert.True(t, r.Dirty())
}

func TestReconciler_SystemBookmarkUsesGlobalPinnedFilters(t *testing.T) {
	t.Parallel()

	sys := systemBookmark("All fixtures")
	r := newTestReconciler(t, &fakeStore{}, nil, sys)
	require.True(t, r.Select(sys.ID))

	assert.Equal(t, []string{"status", "vessels"}, r.Filters().PinnedFilters)

	// Pinned filter edits do not dirty a system bookmark.
	live := r.Filters()
	live.PinnedFilters = []string{"status"}
	r.SetFilters(live)
	assert.False(t, r.Dirty())
}

func TestReconciler_PinnedFiltersDirtyUserBookmarks(t *testing.T) {
	t.Parallel()

	b := userBookmark("grain deals")
	r := newTestReconciler(t, &fakeStore{}, nil, b)
	require.True(t, r.Select(b.ID))

	live := r.Filters()
	live.PinnedFilters = append(live.PinnedFilters, "owners")
	r.SetFilters(live)
	assert.True(t, r.Dirty())
}

func TestReconciler_SaveNewSwapsTemporaryID(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := newTestReconciler(t, store, nil, systemBookmark("All fixtures"))

	created, err := r.SaveNew(context.Background(), "my view")
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, store.created[0].ID, created.ID)
	assert.Equal(t, created.ID, r.ActiveID())

	var found bool
	for _, b := range r.Bookmarks() {
		if b.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "stored bookmark must replace the optimistic insert")
}

func TestReconciler_SaveNewRollsBackOnStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failNext: true}
	notifier := &recordingNotifier{}
	sys := systemBookmark("All fixtures")
	r := newTestReconciler(t, store, notifier, sys)
	before := r.Bookmarks()

	_, err := r.SaveNew(context.Background(), "doomed")
	require.ErrorIs(t, err, errStoreDown)

	after := r.Bookmarks()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
	assert.NotEmpty(t, notifier.messages)
}

func TestReconciler_SaveActiveRejectsSystemBookmarks(t *testing.T) {
	t.Parallel()

	sys := systemBookmark("All fixtures")
	r := newTestReconciler(t, &fakeStore{}, nil, sys)
	require.True(t, r.Select(sys.ID))

	err := r.SaveActive(context.Background())
	assert.ErrorIs(t, err, gridstate.ErrBookmarkImmutable)
}

func TestReconciler_RenameRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failNext: true}
	b := userBookmark("old name")
	r := newTestReconciler(t, store, &recordingNotifier{}, b)

	err := r.Rename(context.Background(), b.ID, "new name")
	require.ErrorIs(t, err, errStoreDown)

	for _, got := range r.Bookmarks() {
		if got.ID == b.ID {
			assert.Equal(t, "old name", got.Name)
		}
	}
}

func TestReconciler_DeleteActiveFallsBackToSystemBookmark(t *testing.T) {
	t.Parallel()

	sys := systemBookmark("All fixtures")
	b := userBookmark("grain deals")
	r := newTestReconciler(t, &fakeStore{}, nil, sys, b)
	require.True(t, r.Select(b.ID))

	require.NoError(t, r.Delete(context.Background(), b.ID))
	assert.Equal(t, sys.ID, r.ActiveID())
	assert.Len(t, r.Bookmarks(), 1)
}

func TestReconciler_DeleteActiveRollbackRestoresLiveState(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failNext: true}
	sys := systemBookmark("All fixtures")
	sys.Filters.ActiveFilters = map[string]gridstate.FilterValue{
		"status": gridstate.Multiselect("fixed"),
	}
	b := userBookmark("grain deals")
	r := newTestReconciler(t, store, &recordingNotifier{}, sys, b)
	require.True(t, r.Select(b.ID))

	require.ErrorIs(t, r.Delete(context.Background(), b.ID), errStoreDown)

	// The optimistic fallback selection is undone along with the list: the
	// bookmark is active again and the view shows its snapshot, not the
	// system fallback's.
	assert.Equal(t, b.ID, r.ActiveID())
	assert.Equal(t, b.Filters.ActiveFilters, r.Filters().ActiveFilters)
	assert.False(t, r.Dirty(), "a failed delete must not leave the view dirty")
}

func TestReconciler_SetDefaultIsExclusive(t *testing.T) {
	t.Parallel()

	a := userBookmark("a")
	a.IsDefault = true
	b := userBookmark("b")
	r := newTestReconciler(t, &fakeStore{}, nil, a, b)

	require.NoError(t, r.SetDefault(context.Background(), b.ID))

	defaults := 0
	for _, got := range r.Bookmarks() {
		if got.IsDefault {
			defaults++
			assert.Equal(t, b.ID, got.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestReconciler_SetDefaultRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failNext: true}
	a := userBookmark("a")
	a.IsDefault = true
	b := userBookmark("b")
	r := newTestReconciler(t, store, &recordingNotifier{}, a, b)

	require.ErrorIs(t, r.SetDefault(context.Background(), b.ID), errStoreDown)
	for _, got := range r.Bookmarks() {
		assert.Equal(t, got.ID == a.ID, got.IsDefault)
	}
}
