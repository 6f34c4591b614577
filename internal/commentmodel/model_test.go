package commentmodel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caio2k/quickddit/internal/reddit"
)

// seq builds comments named c0, c1, ... with the given depths.
func seq(depths ...int) []reddit.Comment {
	out := make([]reddit.Comment, len(depths))
	for i, d := range depths {
		out[i] = reddit.Comment{Fullname: fmt.Sprintf("c%d", i), Author: "a", Depth: d}
	}
	return out
}

func named(prefix string, depths ...int) []reddit.Comment {
	out := seq(depths...)
	for i := range out {
		out[i].Fullname = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func recorder(m *Model) *[]Change {
	var changes []Change
	m.Subscribe(func(c Change) { changes = append(changes, c) })
	return &changes
}

func TestParentIndex(t *testing.T) {
	// d0, d1a, d2, d1b
	m := New()
	m.Reset(seq(0, 1, 2, 1))

	assert.Equal(t, NoParent, m.ParentIndex(0))
	assert.Equal(t, 0, m.ParentIndex(1))
	assert.Equal(t, 1, m.ParentIndex(2))
	assert.Equal(t, 0, m.ParentIndex(3))

	assert.Equal(t, NoParent, m.ParentIndex(-1))
	assert.Equal(t, NoParent, m.ParentIndex(4))
}

func TestParentIndexMalformedDepth(t *testing.T) {
	m := New()
	m.Reset(seq(1, 2))
	assert.Equal(t, NoParent, m.ParentIndex(0), "scan exhausts the buffer")
	assert.Equal(t, 0, m.ParentIndex(1))
}

// checkInvariant asserts that every non-root comment has a preceding comment
// one level up with nothing shallower in between, and that ParentIndex finds it.
func checkInvariant(t *testing.T, m *Model) {
	t.Helper()
	for i := 0; i < m.Count(); i++ {
		c, _ := m.At(i)
		if c.Depth == 0 {
			assert.Equal(t, NoParent, m.ParentIndex(i), "root %d", i)
			continue
		}
		j := m.ParentIndex(i)
		require.GreaterOrEqual(t, j, 0, "comment %d has no parent", i)
		p, _ := m.At(j)
		assert.Equal(t, c.Depth-1, p.Depth, "parent depth of %d", i)
		for k := j + 1; k < i; k++ {
			between, _ := m.At(k)
			assert.GreaterOrEqual(t, between.Depth, c.Depth, "comment %d between %d and its parent", k, i)
		}
	}
}

func TestInvariantOverParsedThread(t *testing.T) {
	comment := func(name, replies string) string {
		return fmt.Sprintf(`{"kind":"t1","data":{"name":%q,"author":"x","body":"","body_html":"","replies":%s}}`, name, replies)
	}
	listing := func(children ...string) string {
		return `{"kind":"Listing","data":{"children":[` + strings.Join(children, ",") + `]}}`
	}
	link := `{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"name":"t3_l","author":"x"}}]}}`

	tree := listing(
		comment("a", listing(
			comment("a1", listing(comment("a1x", `""`), comment("a1y", listing(comment("a1y1", `""`))))),
			comment("a2", `""`),
		)),
		comment("b", `""`),
		comment("c", listing(comment("c1", `""`))),
	)
	th, err := reddit.ParseCommentList([]byte("[" + link + "," + tree + "]"))
	require.NoError(t, err)

	m := New()
	m.Reset(th.Comments)
	require.Equal(t, 9, m.Count())
	checkInvariant(t, m)

	// Pre-order: each subtree is the contiguous run after its root.
	assert.Equal(t, 6, m.SubtreeEnd(0))
	assert.Equal(t, 5, m.SubtreeEnd(1))
	assert.Equal(t, 7, m.SubtreeEnd(6))
	assert.Equal(t, 9, m.SubtreeEnd(7))
}

func TestResetAndAppendNotify(t *testing.T) {
	m := New()
	changes := recorder(m)

	m.Reset(seq(0, 1))
	m.Append(named("n", 0, 1, 1))
	m.Append(nil)

	want := []Change{
		{Kind: ChangeReset},
		{Kind: ChangeInsert, First: 2, Last: 4},
	}
	if diff := cmp.Diff(want, *changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, m.Count())
	assert.Equal(t, "n2", m.LastFullname())
	checkInvariant(t, m)
}

func TestInsertNestedRun(t *testing.T) {
	m := New()
	m.Reset(seq(0, 1, 2, 0))
	changes := recorder(m)

	// Expand replies of c1 after its existing subtree.
	pos := m.SubtreeEnd(1)
	require.Equal(t, 3, pos)
	m.Insert(pos, named("r", 2, 3, 2))

	names := make([]string, m.Count())
	for i := range names {
		v, ok := m.Data(i, FullnameRole)
		require.True(t, ok)
		names[i] = v.(string)
	}
	assert.Equal(t, []string{"c0", "c1", "c2", "r0", "r1", "r2", "c3"}, names)
	assert.Equal(t, []Change{{Kind: ChangeInsert, First: 3, Last: 5}}, *changes)
	checkInvariant(t, m)
	assert.Equal(t, 1, m.ParentIndex(5))
}

func TestInsertClampsPosition(t *testing.T) {
	m := New()
	m.Reset(seq(0))
	changes := recorder(m)

	m.Insert(100, named("x", 0))
	m.Insert(-5, named("y", 0))

	assert.Equal(t, "x0", m.LastFullname())
	first, _ := m.At(0)
	assert.Equal(t, "y0", first.Fullname)
	assert.Equal(t, []Change{
		{Kind: ChangeInsert, First: 1, Last: 1},
		{Kind: ChangeInsert, First: 0, Last: 0},
	}, *changes)
}

func TestModelCopiesInput(t *testing.T) {
	in := seq(0, 1)
	m := New()
	m.Reset(in)
	in[0].Author = "changed"

	v, ok := m.Data(0, AuthorRole)
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestDataOutOfRange(t *testing.T) {
	m := New()
	assert.Equal(t, "", m.LastFullname())

	_, ok := m.Data(0, FullnameRole)
	assert.False(t, ok)

	m.Reset(seq(0))
	_, ok = m.Data(1, FullnameRole)
	assert.False(t, ok)
	_, ok = m.Data(-1, DepthRole)
	assert.False(t, ok)
	_, ok = m.Data(0, Role(99))
	assert.False(t, ok)
	_, ok = m.At(3)
	assert.False(t, ok)
}

func TestDataRoles(t *testing.T) {
	c := reddit.Comment{
		Fullname:      "t1_a",
		Author:        "alice",
		Body:          "hi",
		RawBody:       "*hi*",
		Score:         4,
		Likes:         reddit.VoteLiked,
		Distinguished: "admin",
		Submitter:     true,
		ScoreHidden:   true,
		Depth:         0,
	}
	m := New()
	m.Reset([]reddit.Comment{c})

	want := map[Role]any{
		FullnameRole:      "t1_a",
		AuthorRole:        "alice",
		BodyRole:          "hi",
		RawBodyRole:       "*hi*",
		ScoreRole:         4,
		LikesRole:         reddit.VoteLiked,
		DepthRole:         0,
		ScoreHiddenRole:   true,
		SubmitterRole:     true,
		DistinguishedRole: "admin",
	}
	for role, v := range want {
		got, ok := m.Data(0, role)
		require.True(t, ok, role.String())
		assert.Equal(t, v, got, role.String())
	}

	assert.Len(t, RoleNames(), 12)
	assert.Equal(t, "isScoreHidden", ScoreHiddenRole.String())
	assert.Equal(t, "unknown", Role(99).String())
}

func TestNavigation(t *testing.T) {
	// c0
	//   c1
	//     c2
	//   c3
	// c4
	m := New()
	m.Reset(seq(0, 1, 2, 1, 0))

	assert.Equal(t, 4, m.NextSiblingIndex(0))
	assert.Equal(t, 3, m.NextSiblingIndex(1))
	assert.Equal(t, NoSibling, m.NextSiblingIndex(2))
	assert.Equal(t, NoSibling, m.NextSiblingIndex(3))
	assert.Equal(t, NoSibling, m.NextSiblingIndex(4))

	assert.Equal(t, NoSibling, m.NextSiblingIndex(-1))
	assert.Equal(t, NoSibling, m.NextSiblingIndex(5))

	assert.Equal(t, 4, m.SubtreeEnd(0))
	assert.Equal(t, 3, m.ChildCount(0))
	assert.Equal(t, 1, m.ChildCount(1))
	assert.Equal(t, 0, m.ChildCount(4))
	assert.Equal(t, 9, m.SubtreeEnd(9))

	assert.Equal(t, 3, m.IndexOf("c3"))
	assert.Equal(t, -1, m.IndexOf("missing"))
}
