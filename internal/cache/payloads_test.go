package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestThreadPayloads(t *testing.T) {
	db := openTestDB(t)
	const permalink = "/r/golang/comments/abc/title"

	payload, fresh, err := db.GetThread(permalink, "top", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, payload, "miss")
	assert.False(t, fresh)

	require.NoError(t, db.PutThread(permalink, "top", []byte(`[1]`)))
	require.NoError(t, db.PutThread(permalink, "new", []byte(`[2]`)))

	payload, fresh, err = db.GetThread(permalink, "top", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), payload)
	assert.True(t, fresh)

	payload, fresh, err = db.GetThread(permalink, "top", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), payload, "stale payloads are still returned")
	assert.False(t, fresh)

	require.NoError(t, db.PutThread(permalink, "top", []byte(`[3]`)))
	payload, _, err = db.GetThread(permalink, "top", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[3]`), payload)

	require.NoError(t, db.InvalidateThread(permalink))
	for _, sort := range []string{"top", "new"} {
		payload, _, err = db.GetThread(permalink, sort, time.Hour)
		require.NoError(t, err)
		assert.Nil(t, payload, sort)
	}
}

func TestLinkPagePayloads(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.PutLinkPage("golang", "", []byte(`{"a":1}`)))
	require.NoError(t, db.PutLinkPage("golang", "t3_x", []byte(`{"a":2}`)))

	payload, fresh, err := db.GetLinkPage("golang", "", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, []byte(`{"a":1}`), payload)

	payload, _, err = db.GetLinkPage("golang", "t3_x", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), payload)

	payload, _, err = db.GetLinkPage("rust", "", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestPrune(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.PutThread("/a", "", []byte(`[]`)))
	require.NoError(t, db.PutThread("/b", "", []byte(`[]`)))
	require.NoError(t, db.PutLinkPage("", "", []byte(`{}`)))

	n, err := db.Prune(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = db.Prune(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	payload, _, err := db.GetThread("/a", "", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.PutThread("/a", "", []byte(`[]`)))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	payload, _, err := db.GetThread("/a", "", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), payload)
}
