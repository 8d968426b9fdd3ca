package persistence

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrBadCursor = errors.New("malformed pagination cursor")

// pageCursor is the keyset position of the last row of a page. Pagination
// orders by (created_at, id), so both are needed to resume.
type pageCursor struct {
	CreatedAtMS int64     `json:"t"`
	ID          uuid.UUID `json:"id"`
}

func encodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw, _ := json.Marshal(pageCursor{CreatedAtMS: createdAt.UnixMilli(), ID: id})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return pageCursor{}, errors.Wrap(ErrBadCursor, err.Error())
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return pageCursor{}, errors.Wrap(ErrBadCursor, err.Error())
	}
	if c.ID == uuid.Nil {
		return pageCursor{}, ErrBadCursor
	}
	return c, nil
}

func (c pageCursor) CreatedAt() time.Time {
	return time.UnixMilli(c.CreatedAtMS).UTC()
}
