// README: Address store tests against a real Postgres (skipped without GROCERY_TEST_DSN).
package location

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/testutil"
	"grocery/internal/types"
)

func TestStore_SelectSwitchesDefault(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	userID := uuid.NewString()
	home := seedAddress(t, db, userID, "home", true)
	work := seedAddress(t, db, userID, "work", false)

	sel, err := store.Selected(ctx, types.ID(userID))
	require.NoError(t, err)
	assert.Equal(t, home, sel.ID)

	require.NoError(t, store.Select(ctx, types.ID(userID), work))

	sel, err = store.Selected(ctx, types.ID(userID))
	require.NoError(t, err)
	assert.Equal(t, work, sel.ID)

	addrs, err := store.ListByUser(ctx, types.ID(userID))
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, work, addrs[0].ID)
	assert.False(t, addrs[1].IsDefault)
}

func TestStore_SelectForeignAddress(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	owner := uuid.NewString()
	addr := seedAddress(t, db, owner, "home", true)

	err := store.Select(ctx, types.ID(uuid.NewString()), addr)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, types.ID(uuid.NewString()))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func seedAddress(t *testing.T, db *pgxpool.Pool, userID, label string, isDefault bool) types.ID {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(), `
        INSERT INTO addresses (id, user_id, label, latitude, longitude, is_default)
        VALUES ($1, $2, $3, -1.95, 30.06, $4)`, id, userID, label, isDefault)
	require.NoError(t, err)
	return types.ID(id)
}

func setupTestStore(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()
	db := testutil.Postgres(t)
	return NewStore(db), db
}
