// README: Shared helpers for store tests that need a real Postgres.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"grocery/internal/infra"
)

const DSNEnv = "GROCERY_TEST_DSN"

// Postgres connects to the database named by GROCERY_TEST_DSN and applies the
// migrations. It skips the test when the variable is not set.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root, err := RepoRoot()
	require.NoError(t, err)
	require.NoError(t, infra.ApplyMigrations(ctx, db, filepath.Join(root, "migrations")))
	return db
}

func RepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
