package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.CommentSort, cfg.CommentSort)
	assert.Equal(t, def.CommentTTL, cfg.CommentTTL)
	assert.Equal(t, filepath.Join(cfg.CacheDir, "cache.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(cfg.CacheDir, "debug.log"), cfg.LogPath)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUICKDDIT_CACHE_DIR", dir)
	t.Setenv("QUICKDDIT_COMMENT_SORT", "new")
	t.Setenv("QUICKDDIT_COMMENT_TTL", "90s")
	t.Setenv("QUICKDDIT_REQUEST_RATE", "0.5")
	t.Setenv("QUICKDDIT_MAX_CONCURRENT", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.CacheDir)
	assert.Equal(t, filepath.Join(dir, "cache.db"), cfg.DBPath, "db follows the cache dir")
	assert.Equal(t, filepath.Join(dir, "debug.log"), cfg.LogPath)
	assert.Equal(t, "new", cfg.CommentSort)
	assert.Equal(t, 90*time.Second, cfg.CommentTTL)
	assert.Equal(t, 0.5, cfg.RequestRate)
	assert.Equal(t, 2, cfg.MaxConcurrent)
	assert.Equal(t, Default().LinkListTTL, cfg.LinkListTTL)
}

func TestLoadExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "elsewhere.db")
	t.Setenv("QUICKDDIT_CACHE_DIR", dir)
	t.Setenv("QUICKDDIT_DB_PATH", db)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, db, cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "debug.log"), cfg.LogPath)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("QUICKDDIT_MAX_CONCURRENT", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "QUICKDDIT_MAX_CONCURRENT")
	})
	t.Run("rate", func(t *testing.T) {
		t.Setenv("QUICKDDIT_REQUEST_RATE", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "QUICKDDIT_REQUEST_RATE")
	})
	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("QUICKDDIT_COMMENT_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
