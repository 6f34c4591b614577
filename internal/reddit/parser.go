package reddit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caio2k/quickddit/internal/render"
)

const (
	opCommentList  = "parse comment list"
	opNewComment   = "parse new comment"
	opMoreChildren = "parse more children"
	opLinkList     = "parse link list"
)

// parser carries the state shared by one parse call. Depth is never stored
// here; it is threaded through walk as an argument.
type parser struct {
	op         string
	linkAuthor string
}

func (p *parser) fail(path string, err error) error {
	return &ParseError{Op: p.op, Path: path, Err: err}
}

// ParseCommentList parses a comment-thread payload: a two-element array of
// listings holding the link and its comment tree. Comments are returned in
// pre-order with Depth 0 for top-level comments.
func ParseCommentList(data []byte) (*Thread, error) {
	p := &parser{op: opCommentList}

	var root []json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, p.fail("$", err)
	}
	if len(root) != 2 {
		return nil, p.fail("$", fmt.Errorf("expected 2 listings, got %d", len(root)))
	}

	links, err := p.listing(root[0], "[0]")
	if err != nil {
		return nil, err
	}
	if len(links.Children) == 0 {
		return nil, p.fail("[0].data.children", errors.New("no link"))
	}
	linkThing := links.Children[0]
	if linkThing.Kind != KindLink {
		return nil, p.fail("[0].data.children[0].kind", fmt.Errorf("unexpected kind %q", linkThing.Kind))
	}
	var link linkData
	if err := decodeData(linkThing, &link); err != nil {
		return nil, p.fail("[0].data.children[0].data", err)
	}
	p.linkAuthor = link.Author

	comments, more, err := p.walk(root[1], 0, "[1]")
	if err != nil {
		return nil, err
	}
	return &Thread{
		Link:       newLink(link),
		LinkAuthor: link.Author,
		Comments:   comments,
		More:       more,
	}, nil
}

// walk flattens one listing. Each comment is emitted before its replies,
// which are walked at depth+1. "more" placeholders produce no comment.
func (p *parser) walk(raw json.RawMessage, depth int, path string) ([]Comment, []MoreStub, error) {
	l, err := p.listing(raw, path)
	if err != nil {
		return nil, nil, err
	}

	var comments []Comment
	var more []MoreStub
	for i, child := range l.Children {
		childPath := fmt.Sprintf("%s.data.children[%d]", path, i)
		switch child.Kind {
		case KindComment:
			var d commentData
			if err := decodeData(child, &d); err != nil {
				return nil, nil, p.fail(childPath+".data", err)
			}
			c := newComment(d, p.linkAuthor)
			c.Depth = depth
			comments = append(comments, c)

			if !isObject(d.Replies) {
				continue
			}
			replies, repliesMore, err := p.walk(d.Replies, depth+1, childPath+".data.replies")
			if err != nil {
				return nil, nil, err
			}
			comments = append(comments, replies...)
			more = append(more, repliesMore...)
		case KindMore:
			var m moreData
			if err := decodeData(child, &m); err != nil {
				return nil, nil, p.fail(childPath+".data", err)
			}
			more = append(more, newMoreStub(m, depth))
		default:
			return nil, nil, p.fail(childPath+".kind", fmt.Errorf("unexpected kind %q", child.Kind))
		}
	}
	return comments, more, nil
}

// listing decodes a {kind: "Listing", data: {children: [...]}} envelope.
func (p *parser) listing(raw json.RawMessage, path string) (*listingData, error) {
	var t thing
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, p.fail(path, err)
	}
	if t.Kind != KindListing {
		return nil, p.fail(path+".kind", fmt.Errorf("expected %q, got %q", KindListing, t.Kind))
	}
	var l listingData
	if err := decodeData(t, &l); err != nil {
		return nil, p.fail(path+".data", err)
	}
	if l.Children == nil {
		return nil, p.fail(path+".data.children", errors.New("missing"))
	}
	return &l, nil
}

// ParseNewComment parses the reply to a comment submission.
// Depth is left at zero; the caller knows where the comment goes.
func ParseNewComment(data []byte) (Comment, error) {
	p := &parser{op: opNewComment}

	things, err := p.things(data)
	if err != nil {
		return Comment{}, err
	}
	if len(things) == 0 {
		return Comment{}, p.fail("json.data.things", errors.New("empty"))
	}
	if things[0].Kind != KindComment {
		return Comment{}, p.fail("json.data.things[0].kind", fmt.Errorf("unexpected kind %q", things[0].Kind))
	}
	var d commentData
	if err := decodeData(things[0], &d); err != nil {
		return Comment{}, p.fail("json.data.things[0].data", err)
	}
	return newComment(d, ""), nil
}

// ParseMoreChildren parses the reply to a "more children" request. The
// service returns the expanded comments as a flat batch; they are reordered
// into pre-order by parent_id. Comments whose parent is outside the batch
// get depth, the rest get their parent's depth + 1.
func ParseMoreChildren(data []byte, linkAuthor string, depth int) ([]Comment, []MoreStub, error) {
	p := &parser{op: opMoreChildren, linkAuthor: linkAuthor}

	things, err := p.things(data)
	if err != nil {
		return nil, nil, err
	}

	type node struct {
		data commentData
		path string
	}
	nodes := make(map[string]node)
	var order []string
	var stubs []moreData
	for i, t := range things {
		path := fmt.Sprintf("json.data.things[%d]", i)
		switch t.Kind {
		case KindComment:
			var d commentData
			if err := decodeData(t, &d); err != nil {
				return nil, nil, p.fail(path+".data", err)
			}
			if _, dup := nodes[d.Name]; dup {
				continue
			}
			nodes[d.Name] = node{data: d, path: path}
			order = append(order, d.Name)
		case KindMore:
			var m moreData
			if err := decodeData(t, &m); err != nil {
				return nil, nil, p.fail(path+".data", err)
			}
			stubs = append(stubs, m)
		default:
			return nil, nil, p.fail(path+".kind", fmt.Errorf("unexpected kind %q", t.Kind))
		}
	}

	kids := make(map[string][]string)
	var roots []string
	for _, name := range order {
		parent := nodes[name].data.ParentID
		if _, ok := nodes[parent]; ok {
			kids[parent] = append(kids[parent], name)
		} else {
			roots = append(roots, name)
		}
	}

	depths := make(map[string]int, len(order))
	var comments []Comment
	var more []MoreStub
	var visit func(name string, depth int) error
	visit = func(name string, depth int) error {
		n := nodes[name]
		c := newComment(n.data, linkAuthor)
		c.Depth = depth
		depths[name] = depth
		comments = append(comments, c)
		if isObject(n.data.Replies) {
			replies, repliesMore, err := p.walk(n.data.Replies, depth+1, n.path+".data.replies")
			if err != nil {
				return err
			}
			comments = append(comments, replies...)
			more = append(more, repliesMore...)
		}
		for _, kid := range kids[name] {
			if err := visit(kid, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range roots {
		if err := visit(name, depth); err != nil {
			return nil, nil, err
		}
	}

	for _, m := range stubs {
		d := depth
		if pd, ok := depths[m.ParentID]; ok {
			d = pd + 1
		}
		more = append(more, newMoreStub(m, d))
	}
	return comments, more, nil
}

// things unwraps the {json: {errors, data: {things}}} envelope.
func (p *parser) things(data []byte) ([]thing, error) {
	var env thingsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, p.fail("$", err)
	}
	if env.JSON == nil {
		return nil, p.fail("json", errors.New("missing"))
	}
	if len(env.JSON.Errors) > 0 {
		return nil, fmt.Errorf("%s: service error: %v", p.op, env.JSON.Errors)
	}
	if env.JSON.Data == nil {
		return nil, p.fail("json.data", errors.New("missing"))
	}
	if env.JSON.Data.Things == nil {
		return nil, p.fail("json.data.things", errors.New("missing"))
	}
	return env.JSON.Data.Things, nil
}

// ParseLinkList parses a link listing page.
func ParseLinkList(data []byte) (*LinkPage, error) {
	p := &parser{op: opLinkList}

	l, err := p.listing(data, "$")
	if err != nil {
		return nil, err
	}

	page := &LinkPage{After: l.After}
	for i, child := range l.Children {
		path := fmt.Sprintf("$.data.children[%d]", i)
		if child.Kind != KindLink {
			return nil, p.fail(path+".kind", fmt.Errorf("unexpected kind %q", child.Kind))
		}
		var d linkData
		if err := decodeData(child, &d); err != nil {
			return nil, p.fail(path+".data", err)
		}
		page.Links = append(page.Links, newLink(d))
	}
	return page, nil
}

func newComment(d commentData, linkAuthor string) Comment {
	return Comment{
		Fullname:      d.Name,
		Author:        d.Author,
		Body:          render.UnescapeDisplay(d.BodyHTML),
		RawBody:       render.UnescapeSource(d.Body),
		Score:         d.Ups - d.Downs,
		Likes:         voteOf(d.Likes),
		Created:       unixTime(d.CreatedUTC),
		Edited:        editedTime(d.Edited),
		Distinguished: d.Distinguished,
		Submitter:     linkAuthor != "" && d.Author == linkAuthor,
		ScoreHidden:   d.ScoreHidden,
	}
}

func newMoreStub(m moreData, depth int) MoreStub {
	return MoreStub{
		Fullname:       m.Name,
		ParentFullname: m.ParentID,
		Depth:          depth,
		Count:          m.Count,
		Children:       m.Children,
	}
}

func newLink(d linkData) Link {
	link := Link{
		Fullname:      d.Name,
		Author:        d.Author,
		Created:       unixTime(d.CreatedUTC),
		Subreddit:     d.Subreddit,
		Score:         d.Score,
		Likes:         voteOf(d.Likes),
		CommentsCount: d.NumComments,
		Title:         d.Title,
		Domain:        d.Domain,
		Text:          render.UnescapeDisplay(d.SelftextHTML),
		RawText:       render.UnescapeSource(d.Selftext),
		Permalink:     d.Permalink,
		URL:           d.URL,
		Distinguished: d.Distinguished,
		Sticky:        d.Stickied,
		NSFW:          d.Over18,
	}
	// "self", "default" and "nsfw" are placeholders, not URLs.
	if strings.HasPrefix(d.Thumbnail, "http") {
		link.ThumbnailURL = d.Thumbnail
	}
	return link
}

// decodeData rejects an absent or null data field; decoding null would
// leave dst zeroed and yield an empty record.
func decodeData(t thing, dst any) error {
	raw := bytes.TrimSpace(t.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errors.New("missing data")
	}
	return json.Unmarshal(t.Data, dst)
}

func voteOf(likes *bool) Vote {
	switch {
	case likes == nil:
		return VoteNone
	case *likes:
		return VoteLiked
	default:
		return VoteDisliked
	}
}

func unixTime(sec float64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}

// editedTime maps the "edited" field, which is either false or a unix
// timestamp. Anything that is not a number leaves the comment unedited.
func editedTime(raw json.RawMessage) time.Time {
	var sec *float64
	if err := json.Unmarshal(raw, &sec); err != nil || sec == nil {
		return time.Time{}
	}
	return unixTime(*sec)
}

// isObject reports whether raw holds a JSON object. The service sends ""
// instead of a listing when a comment has no replies.
func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
