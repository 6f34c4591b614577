package commentmodel

// ParentIndex returns the position of the parent of the comment at pos, or
// NoParent for top-level comments and out-of-range positions.
func (m *Model) ParentIndex(pos int) int {
	if !m.valid(pos) {
		return NoParent
	}
	depth := m.comments[pos].Depth
	if depth == 0 {
		return NoParent
	}
	for i := pos - 1; i >= 0; i-- {
		if m.comments[i].Depth < depth {
			return i
		}
	}
	return NoParent
}

// NextSiblingIndex returns the index of the next comment at the same depth
// under the same parent, or NoSibling if there is none.
func (m *Model) NextSiblingIndex(pos int) int {
	if !m.valid(pos) {
		return NoSibling
	}
	depth := m.comments[pos].Depth
	for i := pos + 1; i < len(m.comments); i++ {
		if m.comments[i].Depth < depth {
			return NoSibling // went up in tree, no more siblings
		}
		if m.comments[i].Depth == depth {
			return i
		}
	}
	return NoSibling
}

// SubtreeEnd returns the position just past the last descendant of the
// comment at pos. The subtree is the half-open range [pos, SubtreeEnd(pos)).
// Out-of-range positions return pos unchanged.
func (m *Model) SubtreeEnd(pos int) int {
	if !m.valid(pos) {
		return pos
	}
	depth := m.comments[pos].Depth
	end := pos + 1
	for end < len(m.comments) && m.comments[end].Depth > depth {
		end++
	}
	return end
}

// ChildCount returns the number of descendants of the comment at pos.
func (m *Model) ChildCount(pos int) int {
	if !m.valid(pos) {
		return 0
	}
	return m.SubtreeEnd(pos) - pos - 1
}
