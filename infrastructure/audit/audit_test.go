package audit

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"estateadmin/infrastructure/sqlite"
	"estateadmin/models"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime caller unavailable")
	require.NoError(t, sqlite.ApplyMigrations(context.Background(), db, filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")))
	return db
}

func TestWrite(t *testing.T) {
	db := openTestDB(t)
	svc := NewService()
	ctx := context.Background()

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return svc.Write(ctx, tx, Entry{
			UserID:     3,
			Action:     "project.update",
			EntityType: "projects",
			EntityID:   "42",
			After:      map[string]any{"project_name": "Riverside", "is_active": true},
		})
	})
	require.NoError(t, err)

	var logs []models.AuditLog
	require.NoError(t, db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&logs).Scan(ctx)
	}))
	require.Len(t, logs, 1)
	assert.Equal(t, int64(3), logs[0].UserID)
	assert.Equal(t, "42", logs[0].EntityID)
	assert.Empty(t, logs[0].BeforeJSON)
	assert.JSONEq(t, `{"project_name":"Riverside","is_active":true}`, logs[0].AfterJSON)
}

func TestWrite_RequiresAction(t *testing.T) {
	db := openTestDB(t)
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return NewService().Write(ctx, tx, Entry{EntityType: "projects"})
	})
	assert.Error(t, err)
}

func TestWrite_RollsBackWithCallerTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := NewService().Write(ctx, tx, Entry{Action: "project.update", EntityType: "projects", EntityID: "1"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count := -1
	require.NoError(t, db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		count, err = tx.NewSelect().Model((*models.AuditLog)(nil)).Count(ctx)
		return err
	}))
	assert.Zero(t, count)
}
