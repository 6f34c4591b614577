package messages

import "github.com/caio2k/quickddit/internal/reddit"

// Navigation messages.
type (
	OpenThreadMsg struct {
		Permalink string
	}

	GoBackMsg struct{}
)

// Data messages.
type (
	ThreadLoadedMsg struct {
		Permalink string
		Thread    *reddit.Thread
		Err       error
	}

	MoreLoadedMsg struct {
		Stub     reddit.MoreStub
		Comments []reddit.Comment
		More     []reddit.MoreStub
		Err      error
	}

	LinksLoadedMsg struct {
		Subreddit string
		Page      *reddit.LinkPage
		Err       error
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
