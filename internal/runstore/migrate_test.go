package runstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/likeplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorIs(t, err, schema.ErrRunStoreDisabled)
}

func TestMigrateRuns_Unsupported(t *testing.T) {
	assert.Error(t, MigrateRuns(schema.DatabaseBackend("redis"), "", -1))
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1), "second run is a no-op")
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// A store opened on a migrated database works as usual
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginRun(schema.LineChart, "t.csv", time.Now(), nil)
	assert.NoError(t, err)
}

func TestMigrateRuns_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, ":memory:", -1))
}

func TestMigrationFilesPresent(t *testing.T) {
	for backend, dir := range migrationDirs {
		entries, err := migrationsFS.ReadDir("migrations/" + dir)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 6, "%s should have three up/down pairs", backend)
	}
}
