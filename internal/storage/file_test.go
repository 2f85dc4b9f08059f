package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hndaily/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts() []model.Post {
	return []model.Post{
		{ID: "B", Title: "Second", URL: "https://b.example", Points: 200, Author: "bob", CreatedAt: 1700000200, NumComments: 40, HNURL: "https://news.ycombinator.com/item?id=B"},
		{ID: "A", Title: "First", URL: "https://a.example", Points: 150, Author: "alice", CreatedAt: 1700000100, NumComments: 12, HNURL: "https://news.ycombinator.com/item?id=A"},
	}
}

func TestFileStorageLoadMissing(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "docs", "feed_data.json"))

	ds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Posts)
	assert.NotNil(t, ds.Posts)
	assert.Nil(t, ds.LastUpdated)
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docs", "feed_data.json")
	s := NewFileStorage(path)

	updated := time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(context.Background(), model.Dataset{Posts: samplePosts(), LastUpdated: &updated}))

	ds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samplePosts(), ds.Posts)
	require.NotNil(t, ds.LastUpdated)
	assert.True(t, updated.Equal(*ds.LastUpdated))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFileStorageWritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed_data.json")
	s := NewFileStorage(path)

	require.NoError(t, s.Save(context.Background(), model.Dataset{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts": [], "last_updated": null}`, string(data))
	assert.Contains(t, string(data), "\n  \"posts\"")
}

func TestFileStorageOverwrites(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "feed_data.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, model.Dataset{Posts: samplePosts()}))
	require.NoError(t, s.Save(ctx, model.Dataset{Posts: samplePosts()[:1]}))

	ds, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, "B", ds.Posts[0].ID)
}

func TestFileStorageLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"posts": [`), 0o644))

	_, err := NewFileStorage(path).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

func TestFileStorageLoadsPythonTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed_data.json")
	content := `{"posts": [{"id": "1", "title": "t", "url": "u", "points": 120, "author": "a", "created_at": 1700000000, "num_comments": 3, "hn_url": "h"}],
"last_updated": "2024-05-02T06:00:01.123456+00:00"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := NewFileStorage(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, 120, ds.Posts[0].Points)
	require.NotNil(t, ds.LastUpdated)
	assert.Equal(t, 2024, ds.LastUpdated.Year())
}
