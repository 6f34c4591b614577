// Package commentmodel holds a flattened comment thread and serves it to a
// view by position. Hierarchy is never stored explicitly: a comment's parent
// is recovered from the depth of the comments before it, which works because
// the buffer is always in pre-order.
package commentmodel

import (
	"github.com/caio2k/quickddit/internal/reddit"
)

// Sentinels returned by position queries that have no answer.
const (
	NoParent  = -1 // root comment or out-of-range position
	NoSibling = -1 // last child of its parent or out-of-range position
)

// Role names a field readable through Data.
type Role int

const (
	FullnameRole Role = iota
	AuthorRole
	BodyRole
	RawBodyRole
	ScoreRole
	LikesRole
	CreatedRole
	DepthRole
	ScoreHiddenRole
	EditedRole
	SubmitterRole
	DistinguishedRole
)

var roleNames = map[Role]string{
	FullnameRole:      "fullname",
	AuthorRole:        "author",
	BodyRole:          "body",
	RawBodyRole:       "rawBody",
	ScoreRole:         "score",
	LikesRole:         "likes",
	CreatedRole:       "created",
	DepthRole:         "depth",
	ScoreHiddenRole:   "isScoreHidden",
	EditedRole:        "edited",
	SubmitterRole:     "isSubmitter",
	DistinguishedRole: "distinguished",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// RoleNames maps every role to the name a view binds it by.
func RoleNames() map[Role]string {
	names := make(map[Role]string, len(roleNames))
	for r, n := range roleNames {
		names[r] = n
	}
	return names
}

// ChangeKind says how the buffer changed.
type ChangeKind int

const (
	ChangeReset ChangeKind = iota
	ChangeInsert
)

// Change is delivered to subscribers after every mutation. For inserts,
// First and Last are the inclusive positions of the new comments.
type Change struct {
	Kind  ChangeKind
	First int
	Last  int
}

// Model is the ordered comment buffer. It is not safe for concurrent use;
// results of background fetches are handed to it on the owning goroutine.
type Model struct {
	comments  []reddit.Comment
	listeners []func(Change)
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Subscribe registers fn to be called after every Reset or Insert.
func (m *Model) Subscribe(fn func(Change)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Model) notify(c Change) {
	for _, fn := range m.listeners {
		fn(c)
	}
}

// Reset replaces the whole buffer.
func (m *Model) Reset(comments []reddit.Comment) {
	m.comments = append([]reddit.Comment(nil), comments...)
	m.notify(Change{Kind: ChangeReset})
}

// Append adds comments after the last one.
func (m *Model) Append(comments []reddit.Comment) {
	m.Insert(len(m.comments), comments)
}

// Insert splices comments in at pos, which is clamped to [0, Count()].
// Nothing is signalled for an empty run.
func (m *Model) Insert(pos int, comments []reddit.Comment) {
	if len(comments) == 0 {
		return
	}
	pos = max(0, min(pos, len(m.comments)))

	buf := make([]reddit.Comment, 0, len(m.comments)+len(comments))
	buf = append(buf, m.comments[:pos]...)
	buf = append(buf, comments...)
	buf = append(buf, m.comments[pos:]...)
	m.comments = buf

	m.notify(Change{Kind: ChangeInsert, First: pos, Last: pos + len(comments) - 1})
}

// Count returns the number of comments.
func (m *Model) Count() int {
	return len(m.comments)
}

// LastFullname returns the fullname of the last comment, or "" when empty.
func (m *Model) LastFullname() string {
	if len(m.comments) == 0 {
		return ""
	}
	return m.comments[len(m.comments)-1].Fullname
}

func (m *Model) valid(pos int) bool {
	return pos >= 0 && pos < len(m.comments)
}

// At returns a copy of the comment at pos.
func (m *Model) At(pos int) (reddit.Comment, bool) {
	if !m.valid(pos) {
		return reddit.Comment{}, false
	}
	return m.comments[pos], true
}

// Data returns one field of the comment at pos. It returns false for an
// out-of-range position or an unknown role.
func (m *Model) Data(pos int, role Role) (any, bool) {
	c, ok := m.At(pos)
	if !ok {
		return nil, false
	}
	switch role {
	case FullnameRole:
		return c.Fullname, true
	case AuthorRole:
		return c.Author, true
	case BodyRole:
		return c.Body, true
	case RawBodyRole:
		return c.RawBody, true
	case ScoreRole:
		return c.Score, true
	case LikesRole:
		return c.Likes, true
	case CreatedRole:
		return c.Created, true
	case DepthRole:
		return c.Depth, true
	case ScoreHiddenRole:
		return c.ScoreHidden, true
	case EditedRole:
		return c.Edited, true
	case SubmitterRole:
		return c.Submitter, true
	case DistinguishedRole:
		return c.Distinguished, true
	}
	return nil, false
}

// IndexOf returns the position of the comment with the given fullname, or
// -1 if there is none.
func (m *Model) IndexOf(fullname string) int {
	for i := range m.comments {
		if m.comments[i].Fullname == fullname {
			return i
		}
	}
	return -1
}
