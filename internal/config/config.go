package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	CacheDir       string        `env:"QUICKDDIT_CACHE_DIR"`
	DBPath         string        `env:"QUICKDDIT_DB_PATH"`
	LogPath        string        `env:"QUICKDDIT_LOG_PATH"`
	LogLevel       string        `env:"QUICKDDIT_LOG_LEVEL"`
	BaseURL        string        `env:"QUICKDDIT_BASE_URL"`
	UserAgent      string        `env:"QUICKDDIT_USER_AGENT"`
	RequestRate    float64       `env:"QUICKDDIT_REQUEST_RATE"`
	RequestBurst   int           `env:"QUICKDDIT_REQUEST_BURST"`
	CommentSort    string        `env:"QUICKDDIT_COMMENT_SORT"`
	CommentTTL     time.Duration `env:"QUICKDDIT_COMMENT_TTL"`
	LinkListTTL    time.Duration `env:"QUICKDDIT_LINK_LIST_TTL"`
	CacheRetention time.Duration `env:"QUICKDDIT_CACHE_RETENTION"`
	PrefetchCount  int           `env:"QUICKDDIT_PREFETCH_COUNT"`
	MaxConcurrent  int           `env:"QUICKDDIT_MAX_CONCURRENT"`
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "quickddit")
	return Config{
		CacheDir:       cacheDir,
		DBPath:         filepath.Join(cacheDir, "cache.db"),
		LogPath:        filepath.Join(cacheDir, "debug.log"),
		LogLevel:       "info",
		BaseURL:        "https://www.reddit.com",
		UserAgent:      "quickddit/1.0",
		RequestRate:    1,
		RequestBurst:   5,
		CommentSort:    "confidence",
		CommentTTL:     10 * time.Minute,
		LinkListTTL:    60 * time.Second,
		CacheRetention: 7 * 24 * time.Hour,
		PrefetchCount:  10,
		MaxConcurrent:  4,
	}
}

// Load returns Default overridden by any QUICKDDIT_* environment variables.
// Setting only QUICKDDIT_CACHE_DIR moves the database and log along with it.
func Load() (Config, error) {
	cfg := Default()
	_, dbSet := os.LookupEnv("QUICKDDIT_DB_PATH")
	_, logSet := os.LookupEnv("QUICKDDIT_LOG_PATH")

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if !dbSet {
		cfg.DBPath = filepath.Join(cfg.CacheDir, "cache.db")
	}
	if !logSet {
		cfg.LogPath = filepath.Join(cfg.CacheDir, "debug.log")
	}
	if cfg.MaxConcurrent < 1 {
		return Config{}, fmt.Errorf("QUICKDDIT_MAX_CONCURRENT must be positive, got %d", cfg.MaxConcurrent)
	}
	if cfg.RequestRate <= 0 {
		return Config{}, fmt.Errorf("QUICKDDIT_REQUEST_RATE must be positive, got %v", cfg.RequestRate)
	}
	return cfg, nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
