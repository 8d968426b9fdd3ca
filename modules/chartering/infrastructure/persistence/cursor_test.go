package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	at := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)

	decoded, err := decodeCursor(encodeCursor(at, id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded.ID)
	assert.True(t, decoded.CreatedAt().Equal(at))
}

func TestCursorTruncatesToMilliseconds(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 14, 15, 9, 26, 123456789, time.UTC)
	decoded, err := decodeCursor(encodeCursor(at, uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, int64(123), int64(decoded.CreatedAt().Nanosecond())/1e6)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not base64!!", "aGVsbG8"} {
		_, err := decodeCursor(raw)
		assert.ErrorIs(t, err, ErrBadCursor, "input %q", raw)
	}
}
