package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	database "github.com/sebuszqo/BudgetManager/internal/db"
	"github.com/sebuszqo/BudgetManager/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countUsers(t *testing.T, ctx context.Context, exec database.Executor) int {
	t.Helper()
	var n int
	require.NoError(t, exec.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&n))
	return n
}

func insertUser(ctx context.Context, exec database.Executor, email string) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, hash_token) VALUES ($1, $2, '', 'x', 'y')`,
		uuid.New(), email)
	return err
}

func TestTxManager_CommitAndRollback(t *testing.T) {
	db := dbtest.NewPostgres(t)
	ctx := context.Background()
	txm := database.NewTxManager(db)

	err := txm.WithinTransaction(ctx, func(ctx context.Context) error {
		return insertUser(ctx, database.Conn(ctx, db), "commit@example.com")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, ctx, db))

	boom := errors.New("boom")
	err = txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := insertUser(ctx, database.Conn(ctx, db), "rollback@example.com"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, countUsers(t, ctx, db))
}

func TestMigrations_Applied(t *testing.T) {
	db := dbtest.NewPostgres(t)

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_migrations`).Scan(&version))
	assert.Equal(t, 6, version)
}
