package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/pkg/composables"
)

// recordingTx captures executed SQL; unimplemented pgx.Tx methods panic.
type recordingTx struct {
	pgx.Tx
	statements []string
}

func (t *recordingTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.statements = append(t.statements, sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func TestBookmarkRepositorySetDefaultRunsBothStatementsInOneTx(t *testing.T) {
	t.Parallel()

	tx := &recordingTx{}
	ctx := composables.WithTx(context.Background(), tx)

	repo := &BookmarkRepository{}
	require.NoError(t, repo.SetDefault(ctx, uuid.New(), uuid.New()))

	// Clearing the previous default and setting the new one must land on the
	// same transaction; a commit here would mean a second one was opened.
	require.Len(t, tx.statements, 2)
	assert.Contains(t, tx.statements[0], "is_default = FALSE")
	assert.Contains(t, tx.statements[1], "is_default = TRUE")
}

func TestBookmarkRepositorySetDefaultWithoutPoolOrTx(t *testing.T) {
	t.Parallel()

	repo := &BookmarkRepository{}
	err := repo.SetDefault(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, composables.ErrNoPool)
}

func TestBookmarkRepositoryRenameTouchesUpdatedAt(t *testing.T) {
	t.Parallel()

	tx := &recordingTx{}
	ctx := composables.WithTx(context.Background(), tx)

	repo := &BookmarkRepository{}
	require.NoError(t, repo.Rename(ctx, uuid.New(), uuid.New(), "renamed"))

	require.Len(t, tx.statements, 1)
	assert.True(t, strings.Contains(tx.statements[0], "updated_at_ms"))
}
