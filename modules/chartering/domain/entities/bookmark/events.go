package bookmark

import (
	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

type CreatedEvent struct {
	UserID uuid.UUID
	Result gridstate.Bookmark
}

type UpdatedEvent struct {
	UserID uuid.UUID
	Result gridstate.Bookmark
	// Patch is the RFC 6902 diff between the stored and the new snapshot.
	Patch []byte
}

type RenamedEvent struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Name   string
}

type DeletedEvent struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

type DefaultSetEvent struct {
	UserID uuid.UUID
	ID     uuid.UUID
}
