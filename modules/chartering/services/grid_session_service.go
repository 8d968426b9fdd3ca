package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

// System bookmark ids are deterministic so a rebuilt session resolves the
// same selection.
var (
	SystemBookmarkFixtures     = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:system-bookmark:fixtures"))
	SystemBookmarkNegotiations = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:system-bookmark:negotiations"))
	SystemBookmarkContracts    = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:system-bookmark:contracts"))
)

type GridSessionConfig struct {
	Bookmarks *BookmarkService
	Counts    *CountService
	Hub       application.Huber
	Logger    *logrus.Logger
	// GlobalPinnedFilters is the pinned-filter set system bookmarks fall
	// back to; injected, never inferred from data.
	GlobalPinnedFilters []string
	PageSize            int
	MinLoadingVisible   time.Duration
}

// GridSessionService owns one view-state engine per user and organization.
// The lock lives behind a pointer so the zero value stays copyable for
// service-registry lookups.
type GridSessionService struct {
	cfg      GridSessionConfig
	registry *sessionRegistry
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[sessionKey]*gridstate.Session
}

type sessionKey struct {
	userID         uuid.UUID
	organizationID uuid.UUID
}

func NewGridSessionService(cfg GridSessionConfig) *GridSessionService {
	return &GridSessionService{
		cfg: cfg,
		registry: &sessionRegistry{
			sessions: make(map[sessionKey]*gridstate.Session),
		},
	}
}

// Session returns the live session for the caller, building it from stored
// bookmarks on first access.
func (s *GridSessionService) Session(ctx context.Context, userID, organizationID uuid.UUID) (*gridstate.Session, error) {
	key := sessionKey{userID: userID, organizationID: organizationID}

	s.registry.mu.Lock()
	if session, ok := s.registry.sessions[key]; ok {
		s.registry.mu.Unlock()
		return session, nil
	}
	s.registry.mu.Unlock()

	userBookmarks, err := s.cfg.Bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	system, err := s.systemBookmarks(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	session := gridstate.NewSession(gridstate.SessionConfig{
		Reconciler: gridstate.ReconcilerConfig{
			Store:               s.cfg.Bookmarks.StoreFor(userID),
			Notifier:            s.notifierFor(userID),
			Logger:              s.cfg.Logger.WithField("user", userID),
			SystemBookmarks:     system,
			UserBookmarks:       userBookmarks,
			GlobalPinnedFilters: s.cfg.GlobalPinnedFilters,
		},
		PageSize:          s.cfg.PageSize,
		MinLoadingVisible: s.cfg.MinLoadingVisible,
	})
	session.Select(defaultBookmarkID(userBookmarks, system))

	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	// Lost the race: keep the session built first.
	if existing, ok := s.registry.sessions[key]; ok {
		session.Close()
		return existing, nil
	}
	s.registry.sessions[key] = session
	return session, nil
}

func (s *GridSessionService) systemBookmarks(ctx context.Context, organizationID uuid.UUID) ([]gridstate.Bookmark, error) {
	counts, err := s.cfg.Counts.Counts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return []gridstate.Bookmark{
		{
			ID:    SystemBookmarkFixtures,
			Name:  "All fixtures",
			Type:  gridstate.BookmarkSystem,
			Count: counts.Fixtures,
			Table: gridstate.TableState{Grouping: []string{"fixture"}},
		},
		{
			ID:    SystemBookmarkNegotiations,
			Name:  "All negotiations",
			Type:  gridstate.BookmarkSystem,
			Count: counts.Negotiations,
			Table: gridstate.TableState{Grouping: []string{"negotiation"}},
		},
		{
			ID:        SystemBookmarkContracts,
			Name:      "All contracts",
			Type:      gridstate.BookmarkSystem,
			IsDefault: true,
			Count:     counts.Contracts,
		},
	}, nil
}

// defaultBookmarkID picks the initial selection: the user's default wins
// over the system default, which always exists.
func defaultBookmarkID(userBookmarks, system []gridstate.Bookmark) uuid.UUID {
	for _, b := range userBookmarks {
		if b.IsDefault {
			return b.ID
		}
	}
	for _, b := range system {
		if b.IsDefault {
			return b.ID
		}
	}
	if len(system) > 0 {
		return system[0].ID
	}
	return uuid.Nil
}

func (s *GridSessionService) notifierFor(userID uuid.UUID) gridstate.Notifier {
	return gridstate.NotifierFunc(func(message string) {
		if s.cfg.Hub == nil {
			return
		}
		s.cfg.Hub.Broadcast(application.ChannelGrid, application.InvalidationEvent{
			Kind:    "notice",
			Payload: map[string]string{"userId": userID.String(), "message": message},
		})
	})
}

// Drop discards the caller's session, forcing a rebuild on next access.
func (s *GridSessionService) Drop(userID, organizationID uuid.UUID) {
	key := sessionKey{userID: userID, organizationID: organizationID}
	s.registry.mu.Lock()
	session, ok := s.registry.sessions[key]
	delete(s.registry.sessions, key)
	s.registry.mu.Unlock()
	if ok {
		session.Close()
	}
}

// Close tears down every live session.
func (s *GridSessionService) Close() {
	s.registry.mu.Lock()
	sessions := make([]*gridstate.Session, 0, len(s.registry.sessions))
	for _, session := range s.registry.sessions {
		sessions = append(sessions, session)
	}
	s.registry.sessions = make(map[sessionKey]*gridstate.Session)
	s.registry.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
