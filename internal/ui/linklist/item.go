package linklist

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/caio2k/quickddit/internal/reddit"
	"github.com/caio2k/quickddit/internal/render"
)

// LinkItem wraps a link for the bubbles list.
type LinkItem struct {
	reddit.Link
	Index int
}

func (l LinkItem) Title() string {
	title := l.Link.Title
	if l.Sticky {
		title = "[pinned] " + title
	}
	if l.NSFW {
		title += " [nsfw]"
	}
	return title
}

func (l LinkItem) Description() string {
	parts := []string{
		fmt.Sprintf("%s points", humanize.Comma(int64(l.Score))),
		"by " + l.Author,
	}
	if l.Subreddit != "" {
		parts = append(parts, "r/"+l.Subreddit)
	}
	parts = append(parts, render.TimeAgo(l.Created))
	parts = append(parts, fmt.Sprintf("%d comments", l.CommentsCount))

	desc := strings.Join(parts, " | ")
	if l.Domain != "" {
		desc += "  (" + l.Domain + ")"
	}
	return desc
}

func (l LinkItem) FilterValue() string {
	return l.Link.Title + " " + l.Author
}
