package migration

import (
	"testing"
	"testing/fstest"

	"intern-match/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__listings.sql":  {Data: []byte("CREATE TABLE b();")},
		"V1__init.sql":      {Data: []byte("  CREATE TABLE a();\n")},
		"README.md":         {Data: []byte("ignored")},
		"v3__lowercase.sql": {Data: []byte("ignored")},
		"nested/V9__x.sql":  {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, "CREATE TABLE a();", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")

	_, err = loadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration file")
}

func TestPendingMigrations(t *testing.T) {
	migs := []Migration{
		{Version: 1, Name: "init", Checksum: "aaa"},
		{Version: 2, Name: "next", Checksum: "bbb"},
	}

	pending, err := pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "aaa"}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Version)

	_, err = pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "zzz"}})
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	migs, err := loadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "daily_recommendations")
}
