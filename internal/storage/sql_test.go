package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hndaily/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStorage(t *testing.T) *SQLStorage {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "feed.db"))
	require.NoError(t, err)

	s, err := NewSQLStorage(ctx, db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSQLStorageLoadEmpty(t *testing.T) {
	s := newSQLiteStorage(t)

	ds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Posts)
	assert.Nil(t, ds.LastUpdated)
}

func TestSQLStorageRoundTripKeepsOrder(t *testing.T) {
	s := newSQLiteStorage(t)
	ctx := context.Background()

	updated := time.Date(2024, 5, 2, 6, 0, 0, 123, time.UTC)
	require.NoError(t, s.Save(ctx, model.Dataset{Posts: samplePosts(), LastUpdated: &updated}))

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePosts(), ds.Posts)
	require.NotNil(t, ds.LastUpdated)
	assert.True(t, updated.Equal(*ds.LastUpdated))
}

func TestSQLStorageSaveReplaces(t *testing.T) {
	s := newSQLiteStorage(t)
	ctx := context.Background()

	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	require.NoError(t, s.Save(ctx, model.Dataset{Posts: samplePosts(), LastUpdated: &first}))
	require.NoError(t, s.Save(ctx, model.Dataset{Posts: samplePosts()[1:], LastUpdated: &second}))

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, "A", ds.Posts[0].ID)
	assert.True(t, second.Equal(*ds.LastUpdated))
}

func TestSQLStorageMigrateIsRepeatable(t *testing.T) {
	s := newSQLiteStorage(t)

	_, err := NewSQLStorage(context.Background(), s.db)
	assert.NoError(t, err)
}

func TestDriverFor(t *testing.T) {
	cases := []struct {
		dsn    string
		driver string
		source string
	}{
		{"postgres://u:p@localhost/hn?sslmode=disable", "postgres", "postgres://u:p@localhost/hn?sslmode=disable"},
		{"postgresql://localhost/hn", "postgres", "postgresql://localhost/hn"},
		{"sqlite://data/feed.db", "sqlite", "data/feed.db"},
		{"file:feed.db?cache=shared", "sqlite", "file:feed.db?cache=shared"},
	}

	for _, tc := range cases {
		driver, source, err := driverFor(tc.dsn)
		require.NoError(t, err, tc.dsn)
		assert.Equal(t, tc.driver, driver, tc.dsn)
		assert.Equal(t, tc.source, source, tc.dsn)
	}

	_, _, err := driverFor("mysql://localhost/hn")
	assert.Error(t, err)
}
