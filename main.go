package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caio2k/quickddit/internal/cache"
	"github.com/caio2k/quickddit/internal/config"
	"github.com/caio2k/quickddit/internal/reddit"
	"github.com/caio2k/quickddit/internal/thread"
	"github.com/caio2k/quickddit/internal/ui"
)

func main() {
	subreddit := flag.String("r", "", "subreddit to list (front page when empty)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-r subreddit] [permalink]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*subreddit, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(subreddit, permalink string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	logFile, err := tea.LogToFile(cfg.LogPath, "")
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	if n, err := db.Prune(time.Now().Add(-cfg.CacheRetention)); err != nil {
		logger.Warn("pruning cache", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Info("pruned cache", slog.Int64("rows", n))
	}

	client := reddit.NewClient(
		reddit.WithBaseURL(cfg.BaseURL),
		reddit.WithUserAgent(cfg.UserAgent),
		reddit.WithRateLimit(cfg.RequestRate, cfg.RequestBurst),
	)
	loader := thread.NewLoader(client, db, logger, cfg.CommentSort, cfg.CommentTTL, cfg.LinkListTTL, cfg.MaxConcurrent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var app *ui.App
	if permalink != "" {
		app = ui.NewThreadApp(loader, reddit.PermalinkPath(permalink))
	} else {
		app = ui.NewApp(loader, subreddit)
		if cfg.PrefetchCount > 0 {
			// Warm the cache for the first threads of the listing.
			go func() {
				if err := loader.PrefetchSubreddit(ctx, subreddit, cfg.PrefetchCount); err != nil && ctx.Err() == nil {
					logger.Warn("prefetch", slog.String("subreddit", subreddit), slog.String("error", err.Error()))
				}
			}()
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
