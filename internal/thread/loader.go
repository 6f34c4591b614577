// Package thread loads comment threads: it consults the payload cache, falls
// back to the network, and parses the result. A payload is only cached once
// it has parsed cleanly.
package thread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/caio2k/quickddit/internal/reddit"
)

// fetchTimeout bounds a shared thread fetch, which is not tied to any
// single caller's context.
const fetchTimeout = 30 * time.Second

// Fetcher is the transport the loader pulls payloads from.
type Fetcher interface {
	GetComments(ctx context.Context, permalink, sort string) ([]byte, error)
	GetMoreChildren(ctx context.Context, linkFullname string, children []string) ([]byte, error)
	GetLinks(ctx context.Context, subreddit, after string) ([]byte, error)
}

// Store caches raw thread payloads.
type Store interface {
	GetThread(permalink, sort string, ttl time.Duration) ([]byte, bool, error)
	PutThread(permalink, sort string, payload []byte) error
	InvalidateThread(permalink string) error
	GetLinkPage(subreddit, after string, ttl time.Duration) ([]byte, bool, error)
	PutLinkPage(subreddit, after string, payload []byte) error
}

// Loader turns permalinks into parsed threads.
type Loader struct {
	fetcher       Fetcher
	store         Store
	logger        *slog.Logger
	sort          string
	ttl           time.Duration
	linkTTL       time.Duration
	maxConcurrent int
	group         singleflight.Group
}

// NewLoader creates a loader. store may be nil to disable caching.
func NewLoader(fetcher Fetcher, store Store, logger *slog.Logger, sort string, ttl, linkTTL time.Duration, maxConcurrent int) *Loader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Loader{
		fetcher:       fetcher,
		store:         store,
		logger:        logger,
		sort:          sort,
		ttl:           ttl,
		linkTTL:       linkTTL,
		maxConcurrent: maxConcurrent,
	}
}

// Load returns the thread at permalink. A fresh cached payload is used as is;
// otherwise the thread is fetched, and a stale payload is the fallback if the
// fetch fails. Concurrent loads of the same permalink share one fetch.
func (l *Loader) Load(ctx context.Context, permalink string) (*reddit.Thread, error) {
	var stale []byte
	if l.store != nil {
		payload, fresh, err := l.store.GetThread(permalink, l.sort, l.ttl)
		if err != nil {
			l.logger.Warn("reading thread cache",
				slog.String("permalink", permalink),
				slog.String("error", err.Error()),
			)
		}
		if payload != nil && fresh {
			t, err := reddit.ParseCommentList(payload)
			if err == nil {
				l.logger.Debug("thread cache hit", slog.String("permalink", permalink))
				return t, nil
			}
			l.logger.Warn("discarding unparsable cached thread",
				slog.String("permalink", permalink),
				slog.String("error", err.Error()),
			)
		} else if payload != nil {
			stale = payload
		}
	}

	// The shared fetch outlives any one caller; each caller stops waiting
	// when its own ctx is done.
	ch := l.group.DoChan(permalink, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return l.fetch(fctx, permalink)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	err := res.Err
	if err == nil {
		return res.Val.(*reddit.Thread), nil
	}

	var perr *reddit.ParseError
	if stale != nil && !errors.As(err, &perr) {
		if t, staleErr := reddit.ParseCommentList(stale); staleErr == nil {
			l.logger.Warn("using stale thread after fetch failure",
				slog.String("permalink", permalink),
				slog.String("error", err.Error()),
			)
			return t, nil
		}
	}
	return nil, err
}

func (l *Loader) fetch(ctx context.Context, permalink string) (*reddit.Thread, error) {
	start := time.Now()
	payload, err := l.fetcher.GetComments(ctx, permalink, l.sort)
	if err != nil {
		return nil, err
	}

	t, err := reddit.ParseCommentList(payload)
	if err != nil {
		l.logger.Error("parsing thread",
			slog.String("permalink", permalink),
			slog.Int("bytes", len(payload)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if l.store != nil {
		if err := l.store.PutThread(permalink, l.sort, payload); err != nil {
			l.logger.Warn("writing thread cache",
				slog.String("permalink", permalink),
				slog.String("error", err.Error()),
			)
		}
	}
	l.logger.Info("thread loaded",
		slog.String("permalink", permalink),
		slog.Int("comments", len(t.Comments)),
		slog.Int("more", len(t.More)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}

// Reload drops the cached payload and loads the thread again.
func (l *Loader) Reload(ctx context.Context, permalink string) (*reddit.Thread, error) {
	if l.store != nil {
		if err := l.store.InvalidateThread(permalink); err != nil {
			return nil, fmt.Errorf("invalidating %s: %w", permalink, err)
		}
	}
	return l.Load(ctx, permalink)
}

// LoadMore expands a "more" placeholder of t. The returned comments are in
// pre-order starting at stub.Depth; placeholders found inside the expansion
// are returned alongside them.
func (l *Loader) LoadMore(ctx context.Context, t *reddit.Thread, stub reddit.MoreStub) ([]reddit.Comment, []reddit.MoreStub, error) {
	if len(stub.Children) == 0 {
		return nil, nil, nil
	}
	payload, err := l.fetcher.GetMoreChildren(ctx, t.Link.Fullname, stub.Children)
	if err != nil {
		return nil, nil, err
	}
	comments, more, err := reddit.ParseMoreChildren(payload, t.LinkAuthor, stub.Depth)
	if err != nil {
		l.logger.Error("parsing more children",
			slog.String("link", t.Link.Fullname),
			slog.String("stub", stub.Fullname),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}
	return comments, more, nil
}

// Prefetch warms the cache for permalinks, a few at a time. Individual
// failures are logged and skipped; only cancellation is returned.
func (l *Loader) Prefetch(ctx context.Context, permalinks []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.maxConcurrent)

	for _, permalink := range permalinks {
		g.Go(func() error {
			if _, err := l.Load(ctx, permalink); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.logger.Warn("prefetching thread",
					slog.String("permalink", permalink),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	return g.Wait()
}
