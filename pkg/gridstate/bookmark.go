package gridstate

import (
	"context"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookmarkType string

const (
	BookmarkSystem BookmarkType = "system"
	BookmarkUser   BookmarkType = "user"
)

// Bookmark is a named snapshot of grid view state. System bookmarks are
// immutable and never persisted; user bookmarks live in a remote Store.
type Bookmark struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Type      BookmarkType `json:"type"`
	IsDefault bool         `json:"isDefault"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Count     int64        `json:"count"`
	Filters   FiltersState `json:"filtersState"`
	Table     TableState   `json:"tableState"`
}

func (b Bookmark) Clone() Bookmark {
	out := b
	out.Filters = b.Filters.Clone()
	out.Table = b.Table.Clone()
	return out
}

// Store is the remote side of bookmark persistence. Implementations return
// the stored entity on Create so the reconciler can swap the optimistic
// temporary id for the server-assigned one.
type Store interface {
	Create(ctx context.Context, b Bookmark) (Bookmark, error)
	Update(ctx context.Context, b Bookmark) (Bookmark, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
}

// Notifier surfaces user-visible transient messages, typically after a
// rejected remote mutation.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// MutationState tracks one optimistic remote-backed mutation through its
// explicit lifecycle.
type MutationState uint8

const (
	MutationPending MutationState = iota
	MutationCommitted
	MutationRolledBack
)

// mutation captures the last confirmed list and the live view state before
// an optimistic edit so a store rejection can restore both wholesale.
type mutation struct {
	r            *Reconciler
	prior        []Bookmark
	priorActive  uuid.UUID
	priorFilters FiltersState
	priorTable   TableState
	state        MutationState
}

func (r *Reconciler) begin() *mutation {
	return &mutation{
		r:            r,
		prior:        cloneBookmarks(r.confirmed),
		priorActive:  r.activeID,
		priorFilters: r.liveFilters.Clone(),
		priorTable:   r.liveTable.Clone(),
		state:        MutationPending,
	}
}

func (m *mutation) commit() {
	m.state = MutationCommitted
	m.r.confirmed = cloneBookmarks(m.r.bookmarks)
}

func (m *mutation) rollback(message string, err error) {
	m.state = MutationRolledBack
	m.r.bookmarks = cloneBookmarks(m.prior)
	m.r.activeID = m.priorActive
	m.r.liveFilters = m.priorFilters.Clone()
	m.r.liveTable = m.priorTable.Clone()
	if m.r.log != nil {
		m.r.log.WithError(err).Warn(message)
	}
	if m.r.notifier != nil {
		m.r.notifier.Notify(message)
	}
}

// ReconcilerConfig wires a Reconciler. GlobalPinnedFilters is the single
// named configuration value system bookmarks fall back to for their pinned
// filter row.
type ReconcilerConfig struct {
	Store               Store
	Notifier            Notifier
	Logger              logrus.FieldLogger
	SystemBookmarks     []Bookmark
	UserBookmarks       []Bookmark
	GlobalPinnedFilters []string
	// OnSelect runs after a bookmark restore, used to reset pagination.
	OnSelect func()
}

// Reconciler keeps the bookmark list, the active selection and the live
// view state in agreement with the remote store, applying mutations
// optimistically and rolling back to the last confirmed list on rejection.
type Reconciler struct {
	store        Store
	notifier     Notifier
	log          logrus.FieldLogger
	globalPinned []string
	onSelect     func()

	bookmarks []Bookmark // optimistic local list
	confirmed []Bookmark // last list acknowledged by the store
	activeID  uuid.UUID

	liveFilters FiltersState
	liveTable   TableState
}

func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	list := append(cloneBookmarks(cfg.SystemBookmarks), cloneBookmarks(cfg.UserBookmarks)...)
	r := &Reconciler{
		store:        cfg.Store,
		notifier:     cfg.Notifier,
		log:          cfg.Logger,
		globalPinned: append([]string(nil), cfg.GlobalPinnedFilters...),
		onSelect:     cfg.OnSelect,
		bookmarks:    list,
		confirmed:    cloneBookmarks(list),
	}
	return r
}

func (r *Reconciler) Bookmarks() []Bookmark {
	return cloneBookmarks(r.bookmarks)
}

func (r *Reconciler) ActiveID() uuid.UUID {
	return r.activeID
}

func (r *Reconciler) Active() (Bookmark, bool) {
	b := r.find(r.activeID)
	if b == nil {
		return Bookmark{}, false
	}
	return b.Clone(), true
}

func (r *Reconciler) Filters() FiltersState {
	return r.liveFilters.Clone()
}

func (r *Reconciler) Table() TableState {
	return r.liveTable.Clone()
}

func (r *Reconciler) SetFilters(s FiltersState) {
	r.liveFilters = s.Clone()
}

func (r *Reconciler) SetTable(s TableState) {
	r.liveTable = s.Clone()
}

// Select makes the bookmark active and restores all of its state slices.
// Selecting the already-active bookmark is a no-op. System bookmarks do not
// carry pinned filters; the global pinned-filter configuration is used
// instead. Pagination is reset through OnSelect.
func (r *Reconciler) Select(id uuid.UUID) bool {
	if id == r.activeID {
		return false
	}
	b := r.find(id)
	if b == nil {
		return false
	}
	r.activeID = id
	r.restore(*b)
	if r.onSelect != nil {
		r.onSelect()
	}
	return true
}

// Revert reloads the active bookmark's snapshot, discarding in-progress
// edits without changing the selection.
func (r *Reconciler) Revert() {
	b := r.find(r.activeID)
	if b == nil {
		return
	}
	r.restore(*b)
}

func (r *Reconciler) restore(b Bookmark) {
	r.liveFilters = b.Filters.Clone()
	r.liveTable = b.Table.Clone()
	if b.Type == BookmarkSystem {
		r.liveFilters.PinnedFilters = append([]string(nil), r.globalPinned...)
	}
}

// dirtySlice is the exact set of fields the dirty comparison covers.
type dirtySlice struct {
	ActiveFilters     map[string]FilterValue
	GlobalSearchTerms []string
	PinnedFilters     []string
	Sorting           []SortRule
	ColumnVisibility  map[string]bool
	Grouping          []string
	ColumnOrder       []string
	ColumnSizing      map[string]float64
}

// Dirty reports whether the live state drifted from the active bookmark's
// snapshot. Pinned filters are excluded from the comparison for system
// bookmarks, which never own a pinned set.
func (r *Reconciler) Dirty() bool {
	b := r.find(r.activeID)
	if b == nil {
		return false
	}
	includePinned := b.Type == BookmarkUser
	live := dirtySlice{
		ActiveFilters:     r.liveFilters.ActiveFilters,
		GlobalSearchTerms: r.liveFilters.GlobalSearchTerms,
		Sorting:           r.liveTable.Sorting,
		ColumnVisibility:  r.liveTable.ColumnVisibility,
		Grouping:          r.liveTable.Grouping,
		ColumnOrder:       r.liveTable.ColumnOrder,
		ColumnSizing:      r.liveTable.ColumnSizing,
	}
	saved := dirtySlice{
		ActiveFilters:     b.Filters.ActiveFilters,
		GlobalSearchTerms: b.Filters.GlobalSearchTerms,
		Sorting:           b.Table.Sorting,
		ColumnVisibility:  b.Table.ColumnVisibility,
		Grouping:          b.Table.Grouping,
		ColumnOrder:       b.Table.ColumnOrder,
		ColumnSizing:      b.Table.ColumnSizing,
	}
	if includePinned {
		live.PinnedFilters = r.liveFilters.PinnedFilters
		saved.PinnedFilters = b.Filters.PinnedFilters
	}
	return !cmp.Equal(live, saved, cmpopts.EquateEmpty())
}

// SaveNew persists the live state as a new user bookmark. The bookmark is
// inserted locally under a temporary id first and swapped for the stored
// entity on success; a store rejection restores the last confirmed list.
func (r *Reconciler) SaveNew(ctx context.Context, name string) (Bookmark, error) {
	draft := Bookmark{
		ID:      uuid.New(),
		Name:    name,
		Type:    BookmarkUser,
		Filters: r.liveFilters.Clone(),
		Table:   r.liveTable.Clone(),
	}
	m := r.begin()
	r.bookmarks = append(r.bookmarks, draft.Clone())
	r.activeID = draft.ID

	stored, err := r.store.Create(ctx, draft)
	if err != nil {
		m.rollback("failed to save bookmark", err)
		return Bookmark{}, err
	}
	for i := range r.bookmarks {
		if r.bookmarks[i].ID == draft.ID {
			r.bookmarks[i] = stored.Clone()
			break
		}
	}
	r.activeID = stored.ID
	m.commit()
	return stored, nil
}

// SaveActive patches the active user bookmark in place with the live state.
func (r *Reconciler) SaveActive(ctx context.Context) error {
	b := r.find(r.activeID)
	if b == nil || b.Type != BookmarkUser {
		return ErrBookmarkImmutable
	}
	m := r.begin()
	b.Filters = r.liveFilters.Clone()
	b.Table = r.liveTable.Clone()

	stored, err := r.store.Update(ctx, b.Clone())
	if err != nil {
		m.rollback("failed to update bookmark", err)
		return err
	}
	*b = stored.Clone()
	m.commit()
	return nil
}

func (r *Reconciler) Rename(ctx context.Context, id uuid.UUID, name string) error {
	b := r.find(id)
	if b == nil || b.Type != BookmarkUser {
		return ErrBookmarkImmutable
	}
	m := r.begin()
	b.Name = name
	if err := r.store.Rename(ctx, id, name); err != nil {
		m.rollback("failed to rename bookmark", err)
		return err
	}
	m.commit()
	return nil
}

// Delete removes a user bookmark. When the deleted bookmark was active the
// selection falls back to the first available bookmark, system ones first.
func (r *Reconciler) Delete(ctx context.Context, id uuid.UUID) error {
	b := r.find(id)
	if b == nil || b.Type != BookmarkUser {
		return ErrBookmarkImmutable
	}
	m := r.begin()
	wasActive := r.activeID == id
	kept := make([]Bookmark, 0, len(r.bookmarks)-1)
	for _, existing := range r.bookmarks {
		if existing.ID != id {
			kept = append(kept, existing)
		}
	}
	r.bookmarks = kept
	if wasActive {
		r.activeID = uuid.Nil
		if fallback := r.fallbackBookmark(); fallback != nil {
			r.Select(fallback.ID)
		}
	}

	if err := r.store.Delete(ctx, id); err != nil {
		m.rollback("failed to delete bookmark", err)
		return err
	}
	m.commit()
	return nil
}

// SetDefault marks one bookmark as the user's default; at most one bookmark
// is default at a time, enforced here rather than by a storage constraint.
func (r *Reconciler) SetDefault(ctx context.Context, id uuid.UUID) error {
	if r.find(id) == nil {
		return ErrBookmarkNotFound
	}
	m := r.begin()
	for i := range r.bookmarks {
		r.bookmarks[i].IsDefault = r.bookmarks[i].ID == id
	}
	if err := r.store.SetDefault(ctx, id); err != nil {
		m.rollback("failed to set default bookmark", err)
		return err
	}
	m.commit()
	return nil
}

func (r *Reconciler) find(id uuid.UUID) *Bookmark {
	if id == uuid.Nil {
		return nil
	}
	for i := range r.bookmarks {
		if r.bookmarks[i].ID == id {
			return &r.bookmarks[i]
		}
	}
	return nil
}

func (r *Reconciler) fallbackBookmark() *Bookmark {
	for i := range r.bookmarks {
		if r.bookmarks[i].Type == BookmarkSystem {
			return &r.bookmarks[i]
		}
	}
	if len(r.bookmarks) > 0 {
		return &r.bookmarks[0]
	}
	return nil
}

func cloneBookmarks(in []Bookmark) []Bookmark {
	out := make([]Bookmark, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}
