package commentview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/caio2k/quickddit/internal/commentmodel"
	"github.com/caio2k/quickddit/internal/reddit"
	"github.com/caio2k/quickddit/internal/render"
	"github.com/caio2k/quickddit/internal/ui/messages"
)

const (
	scrollStep = 3
	maxIndent  = 30
)

// Loader is what the view needs to fetch threads.
type Loader interface {
	Load(ctx context.Context, permalink string) (*reddit.Thread, error)
	Reload(ctx context.Context, permalink string) (*reddit.Thread, error)
	LoadMore(ctx context.Context, t *reddit.Thread, stub reddit.MoreStub) ([]reddit.Comment, []reddit.MoreStub, error)
}

// CollapseState tracks collapsed comment fullnames.
type CollapseState map[string]bool

type commentOffset struct {
	startLine int
	endLine   int
}

// changeLog collects model notifications until the view next redraws.
type changeLog struct {
	changes []commentmodel.Change
}

// Model is the comment thread view.
type Model struct {
	viewport    viewport.Model
	loader      Loader
	permalink   string
	thread      *reddit.Thread
	comments    *commentmodel.Model
	log         *changeLog
	pending     []reddit.MoreStub
	rows        []int // visible model positions, top to bottom
	offsets     []commentOffset
	selectedIdx int // model position
	selectedID  string
	collapse    CollapseState
	showRaw     bool
	loading     bool
	loadingMore bool
	width       int
	height      int
}

// New creates a view for the thread at permalink.
func New(permalink string, loader Loader) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	log := &changeLog{}
	comments := commentmodel.New()
	comments.Subscribe(func(c commentmodel.Change) {
		log.changes = append(log.changes, c)
	})

	return Model{
		viewport:  vp,
		loader:    loader,
		permalink: permalink,
		comments:  comments,
		log:       log,
		collapse:  make(CollapseState),
		loading:   true,
	}
}

// Init loads the thread.
func (m Model) Init() tea.Cmd {
	return m.load(false)
}

func (m Model) load(reload bool) tea.Cmd {
	loader := m.loader
	permalink := m.permalink
	return func() tea.Msg {
		ctx := context.Background()
		var t *reddit.Thread
		var err error
		if reload {
			t, err = loader.Reload(ctx, permalink)
		} else {
			t, err = loader.Load(ctx, permalink)
		}
		return messages.ThreadLoadedMsg{Permalink: permalink, Thread: t, Err: err}
	}
}

func (m Model) loadMore(stub reddit.MoreStub) tea.Cmd {
	loader := m.loader
	t := m.thread
	return func() tea.Msg {
		comments, more, err := loader.LoadMore(context.Background(), t, stub)
		return messages.MoreLoadedMsg{Stub: stub, Comments: comments, More: more, Err: err}
	}
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return messages.StatusMsg{Text: text, IsError: isError}
	}
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = max(m.height-headerLines, 1)
}

// Comments exposes the underlying comment model.
func (m Model) Comments() *commentmodel.Model {
	return m.comments
}

// Pending returns the "more replies" placeholders not yet expanded.
func (m Model) Pending() []reddit.MoreStub {
	return m.pending
}

// Selected returns the model position of the selected comment.
func (m Model) Selected() int {
	return m.selectedIdx
}

// Thread returns the loaded thread, or nil while loading.
func (m Model) Thread() *reddit.Thread {
	return m.thread
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ThreadLoadedMsg:
		if msg.Permalink != m.permalink {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent("  Error loading comments: " + msg.Err.Error())
			return m, status("load failed", true)
		}
		m.thread = msg.Thread
		m.pending = expandable(msg.Thread.More)
		m.comments.Reset(msg.Thread.Comments)
		m.applyChanges()
		m.resizeViewport()
		m.rebuildContent()
		return m, status(fmt.Sprintf("%d comments", m.comments.Count()), false)

	case messages.MoreLoadedMsg:
		m.loadingMore = false
		if msg.Err != nil {
			return m, status("loading replies failed: "+msg.Err.Error(), true)
		}
		m.pending = removeStub(m.pending, msg.Stub)
		if !m.insertMore(msg.Stub, msg.Comments) {
			return m, status("parent of replies is no longer loaded", true)
		}
		m.pending = append(m.pending, expandable(msg.More)...)
		m.applyChanges()
		m.rebuildContent()
		m.scrollToCursor()
		return m, status(fmt.Sprintf("%d more replies", len(msg.Comments)), false)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// insertMore places an expanded placeholder's comments where the placeholder
// was: after the last descendant of its parent, or at the end for top-level
// placeholders.
func (m *Model) insertMore(stub reddit.MoreStub, comments []reddit.Comment) bool {
	if stub.Depth == 0 {
		m.comments.Append(comments)
		return true
	}
	parent := m.comments.IndexOf(stub.ParentFullname)
	if parent < 0 {
		return false
	}
	m.comments.Insert(m.comments.SubtreeEnd(parent), comments)
	return true
}

// applyChanges keeps the selection on the same comment across model updates.
func (m *Model) applyChanges() {
	for _, c := range m.log.changes {
		switch c.Kind {
		case commentmodel.ChangeReset:
			m.selectedIdx = max(m.comments.IndexOf(m.selectedID), 0)
		case commentmodel.ChangeInsert:
			if m.selectedID != "" && c.First <= m.selectedIdx {
				m.selectedIdx += c.Last - c.First + 1
			}
		}
	}
	m.log.changes = m.log.changes[:0]
	m.selectedIdx = min(m.selectedIdx, max(m.comments.Count()-1, 0))
	m.rememberSelection()
}

func (m *Model) rememberSelection() {
	if c, ok := m.comments.At(m.selectedIdx); ok {
		m.selectedID = c.Fullname
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Down):
		if row := m.rowOf(m.selectedIdx); row >= 0 && row < len(m.offsets) {
			off := m.offsets[row]
			if off.endLine >= m.viewport.YOffset+m.viewport.Height {
				// Comment extends below viewport, scroll within it.
				m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
				return m, nil
			}
			if row+1 < len(m.rows) {
				m.selectPos(m.rows[row+1])
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		if row := m.rowOf(m.selectedIdx); row >= 0 && row < len(m.offsets) {
			off := m.offsets[row]
			if off.startLine < m.viewport.YOffset {
				// Comment extends above viewport, scroll within it.
				m.viewport.SetYOffset(max(m.viewport.YOffset-scrollStep, off.startLine))
				return m, nil
			}
			if row > 0 {
				m.selectPos(m.rows[row-1])
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Collapse):
		if c, ok := m.comments.At(m.selectedIdx); ok && m.comments.ChildCount(m.selectedIdx) > 0 {
			m.collapse[c.Fullname] = !m.collapse[c.Fullname]
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil

	case key.Matches(msg, Keys.FoldAll):
		// If any thread is expanded, collapse all; otherwise expand all.
		anyExpanded := false
		for i := 0; i < m.comments.Count(); i++ {
			c, _ := m.comments.At(i)
			if !m.collapse[c.Fullname] && m.comments.ChildCount(i) > 0 {
				anyExpanded = true
				break
			}
		}
		for i := 0; i < m.comments.Count(); i++ {
			if m.comments.ChildCount(i) > 0 {
				c, _ := m.comments.At(i)
				m.collapse[c.Fullname] = anyExpanded
			}
		}
		if anyExpanded {
			// Only top-level comments stay visible.
			for m.comments.ParentIndex(m.selectedIdx) >= 0 {
				m.selectedIdx = m.comments.ParentIndex(m.selectedIdx)
			}
			m.rememberSelection()
		}
		m.rebuildContent()
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, Keys.Parent):
		if idx := m.comments.ParentIndex(m.selectedIdx); idx >= 0 {
			m.selectPos(idx)
		}
		return m, nil

	case key.Matches(msg, Keys.NextSib):
		if idx := m.comments.NextSiblingIndex(m.selectedIdx); idx >= 0 {
			m.selectPos(idx)
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		if len(m.rows) > 0 {
			m.selectPos(m.rows[0])
		}
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, Keys.End):
		if len(m.rows) > 0 {
			m.selectPos(m.rows[len(m.rows)-1])
		}
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, Keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, Keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, Keys.RawBody):
		m.showRaw = !m.showRaw
		m.rebuildContent()
		return m, nil

	case key.Matches(msg, Keys.LoadMore):
		if m.thread == nil || m.loadingMore {
			return m, nil
		}
		if len(m.pending) == 0 {
			return m, status("no more replies", false)
		}
		m.loadingMore = true
		return m, tea.Batch(m.loadMore(m.pending[0]), status("loading more replies...", false))

	case key.Matches(msg, Keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.viewport.SetContent("  Refreshing...")
		return m, m.load(true)
	}
	return m, nil
}

func (m *Model) selectPos(pos int) {
	m.selectedIdx = pos
	m.rememberSelection()
	m.rebuildContent()
	m.scrollToCursor()
}

// rowOf returns the visible row showing pos. A position hidden inside a
// collapsed thread maps to the row of the collapsed comment.
func (m Model) rowOf(pos int) int {
	row := -1
	for r, p := range m.rows {
		if p > pos {
			break
		}
		row = r
	}
	return row
}

func (m *Model) rebuildContent() {
	m.rows = m.rows[:0]
	m.offsets = m.offsets[:0]
	if m.comments.Count() == 0 {
		switch {
		case m.loading:
			m.viewport.SetContent("  Loading comments...")
		case len(m.pending) > 0:
			m.viewport.SetContent("  No comments loaded, press m to load more.")
		default:
			m.viewport.SetContent("  No comments yet.")
		}
		return
	}

	var sb strings.Builder
	availWidth := max(m.width-4, 20)
	lineCount := 0
	for i := 0; i < m.comments.Count(); {
		c, _ := m.comments.At(i)
		collapsed := m.collapse[c.Fullname]
		startLine := lineCount
		lines := m.renderComment(c, i, collapsed, availWidth)
		for _, line := range lines {
			sb.WriteString(line + "\n")
		}
		lineCount += len(lines)
		m.rows = append(m.rows, i)
		m.offsets = append(m.offsets, commentOffset{startLine: startLine, endLine: lineCount - 1})

		if collapsed {
			i = m.comments.SubtreeEnd(i)
		} else {
			i++
		}
	}
	if n := len(m.pending); n > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("  %d placeholder(s) with more replies, press m to load", n)))
	}
	m.viewport.SetContent(sb.String())
}

func (m Model) renderComment(c reddit.Comment, pos int, collapsed bool, availWidth int) []string {
	indent := min(c.Depth*2, maxIndent)
	indentStr := strings.Repeat(" ", indent)

	barColor := depthColors[c.Depth%len(depthColors)]
	selected := pos == m.selectedIdx
	if selected {
		barColor = accent
	}
	bar := lipgloss.NewStyle().Foreground(barColor).Render("│")
	prefix := indentStr + bar + " "

	var lines []string
	emit := func(line string) {
		line = prefix + line
		if selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if c.Author == "[deleted]" && (c.RawBody == "[deleted]" || c.RawBody == "[removed]") {
		emit(deletedStyle.Render(c.RawBody))
		if collapsed {
			lines[len(lines)-1] += " " + metaStyle.Render(fmt.Sprintf("[+%d]", m.comments.ChildCount(pos)))
		}
		return append(lines, "")
	}

	emit(m.renderMeta(c, pos, collapsed))
	if !collapsed {
		body := c.Body
		if m.showRaw {
			body = c.RawBody
		}
		bodyWidth := max(availWidth-indent-4, 20)
		for _, line := range strings.Split(render.Wrap(body, bodyWidth), "\n") {
			emit(line)
		}
	}
	return append(lines, "")
}

func (m Model) renderMeta(c reddit.Comment, pos int, collapsed bool) string {
	parts := []string{authorStyle.Render(c.Author)}
	if c.Submitter {
		parts = append(parts, opStyle.Render(" OP "))
	}
	switch c.Distinguished {
	case "moderator":
		parts = append(parts, modStyle.Render(" MOD "))
	case "admin":
		parts = append(parts, modStyle.Render(" ADMIN "))
	}
	switch c.Likes {
	case reddit.VoteLiked:
		parts = append(parts, likedStyle.Render("▲"))
	case reddit.VoteDisliked:
		parts = append(parts, dislikedStyle.Render("▼"))
	}
	if c.ScoreHidden {
		parts = append(parts, metaStyle.Render("[score hidden]"))
	} else {
		parts = append(parts, metaStyle.Render(fmt.Sprintf("%d points", c.Score)))
	}
	parts = append(parts, metaStyle.Render(render.TimeAgo(c.Created)))
	if c.IsEdited() {
		parts = append(parts, metaStyle.Render("(edited "+render.TimeAgo(c.Edited)+")"))
	}
	if collapsed {
		parts = append(parts, metaStyle.Render(fmt.Sprintf("[+%d]", m.comments.ChildCount(pos))))
	}
	if c.Depth*2 > maxIndent {
		parts = append(parts, metaStyle.Render(fmt.Sprintf("[d:%d]", c.Depth)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) scrollToCursor() {
	row := m.rowOf(m.selectedIdx)
	if row < 0 || row >= len(m.offsets) {
		return
	}
	off := m.offsets[row]
	// Show the start of the selected comment if it's not already visible.
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

// View renders the thread view.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View())
}

func (m Model) renderHeader() string {
	if m.thread == nil {
		return headerStyle.Render(m.permalink)
	}
	link := m.thread.Link

	var parts []string
	parts = append(parts, headerStyle.Render(link.Title))
	meta := fmt.Sprintf("%d points | by %s | r/%s | %s | %d comments",
		link.Score, link.Author, link.Subreddit, render.TimeAgo(link.Created), link.CommentsCount)
	if link.Domain != "" {
		meta += " | " + link.Domain
	}
	parts = append(parts, subheaderStyle.Render(meta))
	if link.Text != "" {
		parts = append(parts, subheaderStyle.Render(render.Wrap(link.Text, max(m.width-4, 20))))
	}
	parts = append(parts, separatorStyle.Render(strings.Repeat("─", max(m.width, 0))))

	var hints []string
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}
	parts = append(parts, metaStyle.Render(strings.Join(hints, "  ")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// expandable drops placeholders that carry no child ids ("continue this
// thread" links), which cannot be expanded in place.
func expandable(stubs []reddit.MoreStub) []reddit.MoreStub {
	var out []reddit.MoreStub
	for _, s := range stubs {
		if len(s.Children) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func removeStub(stubs []reddit.MoreStub, stub reddit.MoreStub) []reddit.MoreStub {
	for i, s := range stubs {
		if s.Fullname == stub.Fullname && s.ParentFullname == stub.ParentFullname {
			return append(stubs[:i:i], stubs[i+1:]...)
		}
	}
	return stubs
}
