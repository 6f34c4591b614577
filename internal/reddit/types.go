package reddit

import (
	"encoding/json"
	"time"
)

// Thing kinds used by the service.
const (
	KindListing = "Listing"
	KindComment = "t1"
	KindLink    = "t3"
	KindMore    = "more"
)

// Vote is the logged-in user's vote on a comment or link.
type Vote int

const (
	VoteDisliked Vote = -1
	VoteNone     Vote = 0
	VoteLiked    Vote = 1
)

func (v Vote) String() string {
	switch v {
	case VoteLiked:
		return "liked"
	case VoteDisliked:
		return "disliked"
	}
	return "none"
}

// Comment is one node of a flattened comment tree.
type Comment struct {
	Fullname      string
	Author        string
	Body          string // display text
	RawBody       string // markdown source
	Score         int
	Likes         Vote
	Created       time.Time
	Edited        time.Time // zero unless the service reports an edit
	Distinguished string
	Submitter     bool
	ScoreHidden   bool
	Depth         int
}

// IsEdited reports whether the comment carries an edited timestamp.
func (c Comment) IsEdited() bool {
	return !c.Edited.IsZero()
}

// MoreStub records a "more replies" placeholder that was dropped from the
// comment sequence. Depth is the depth its children will have once fetched.
type MoreStub struct {
	Fullname       string
	ParentFullname string
	Depth          int
	Count          int
	Children       []string
}

// Thread is the parsed result of a comment-thread payload. LinkAuthor is
// Link.Author; Submitter on each comment is computed against it.
type Thread struct {
	Link       Link
	LinkAuthor string
	Comments   []Comment
	More       []MoreStub
}

// Link is a submission in a link listing.
type Link struct {
	Fullname      string
	Author        string
	Created       time.Time
	Subreddit     string
	Score         int
	Likes         Vote
	CommentsCount int
	Title         string
	Domain        string
	ThumbnailURL  string
	Text          string
	RawText       string
	Permalink     string
	URL           string
	Distinguished string
	Sticky        bool
	NSFW          bool
}

// LinkPage is one page of a link listing. After is the cursor for the next page.
type LinkPage struct {
	Links []Link
	After string
}

// Wire shapes. Data is kept raw and decoded once the kind is known.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []thing `json:"children"`
}

type commentData struct {
	Name          string          `json:"name"`
	ParentID      string          `json:"parent_id"`
	Author        string          `json:"author"`
	Body          string          `json:"body"`
	BodyHTML      string          `json:"body_html"`
	Ups           int             `json:"ups"`
	Downs         int             `json:"downs"`
	Likes         *bool           `json:"likes"`
	CreatedUTC    float64         `json:"created_utc"`
	Edited        json.RawMessage `json:"edited"`
	Distinguished string          `json:"distinguished"`
	ScoreHidden   bool            `json:"score_hidden"`
	Replies       json.RawMessage `json:"replies"`
}

type moreData struct {
	Name     string   `json:"name"`
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Children []string `json:"children"`
}

type linkData struct {
	Name          string  `json:"name"`
	Author        string  `json:"author"`
	CreatedUTC    float64 `json:"created_utc"`
	Subreddit     string  `json:"subreddit"`
	Score         int     `json:"score"`
	Likes         *bool   `json:"likes"`
	NumComments   int     `json:"num_comments"`
	Title         string  `json:"title"`
	Domain        string  `json:"domain"`
	Thumbnail     string  `json:"thumbnail"`
	SelftextHTML  string  `json:"selftext_html"`
	Selftext      string  `json:"selftext"`
	Permalink     string  `json:"permalink"`
	URL           string  `json:"url"`
	Distinguished string  `json:"distinguished"`
	Stickied      bool    `json:"stickied"`
	Over18        bool    `json:"over_18"`
}

// thingsEnvelope is the shape of api_type=json action replies.
type thingsEnvelope struct {
	JSON *struct {
		Errors [][]any `json:"errors"`
		Data   *struct {
			Things []thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}
