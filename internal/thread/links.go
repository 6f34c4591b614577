package thread

import (
	"context"
	"log/slog"

	"github.com/caio2k/quickddit/internal/reddit"
)

// LoadLinks returns one page of a subreddit's link listing, using the cache
// when it is fresh.
func (l *Loader) LoadLinks(ctx context.Context, subreddit, after string) (*reddit.LinkPage, error) {
	if l.store != nil {
		payload, fresh, err := l.store.GetLinkPage(subreddit, after, l.linkTTL)
		if err != nil {
			l.logger.Warn("reading link cache",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()),
			)
		}
		if payload != nil && fresh {
			if page, err := reddit.ParseLinkList(payload); err == nil {
				return page, nil
			}
		}
	}

	payload, err := l.fetcher.GetLinks(ctx, subreddit, after)
	if err != nil {
		return nil, err
	}
	page, err := reddit.ParseLinkList(payload)
	if err != nil {
		l.logger.Error("parsing link list",
			slog.String("subreddit", subreddit),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if l.store != nil {
		if err := l.store.PutLinkPage(subreddit, after, payload); err != nil {
			l.logger.Warn("writing link cache",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()),
			)
		}
	}
	return page, nil
}

// PrefetchSubreddit warms the cache with the first n threads of a subreddit.
func (l *Loader) PrefetchSubreddit(ctx context.Context, subreddit string, n int) error {
	page, err := l.LoadLinks(ctx, subreddit, "")
	if err != nil {
		return err
	}
	links := page.Links
	if n >= 0 && len(links) > n {
		links = links[:n]
	}
	permalinks := make([]string, 0, len(links))
	for _, link := range links {
		if link.Permalink != "" {
			permalinks = append(permalinks, link.Permalink)
		}
	}
	return l.Prefetch(ctx, permalinks)
}
