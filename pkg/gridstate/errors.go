package gridstate

import "github.com/go-faster/errors"

var (
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrBookmarkImmutable = errors.New("bookmark is not editable")
)
