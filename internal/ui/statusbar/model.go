package statusbar

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#272729")).
			Foreground(lipgloss.Color("#FFFFFF"))

	locationStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF4500")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#343536")).
			Foreground(lipgloss.Color("#D7DADC")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#272729")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	location   string
	comments   int
	pending    int
	statusText string
	isError    bool
}

// New creates a new status bar.
func New() Model {
	return Model{}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetLocation sets the subreddit or thread shown on the left.
func (m *Model) SetLocation(location string) {
	m.location = location
}

// SetCounts sets the loaded comment count and the number of unexpanded
// "more replies" placeholders. Zero hides them.
func (m *Model) SetCounts(comments, pending int) {
	m.comments = comments
	m.pending = pending
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.isError = isError
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := locationStyle.Render(m.location)
	if m.comments > 0 {
		left += countStyle.Render(fmt.Sprintf("%d comments", m.comments))
	}
	if m.pending > 0 {
		left += countStyle.Render(fmt.Sprintf("%d more", m.pending))
	}

	var right string
	if m.statusText != "" {
		if m.isError {
			right = errorStyle.Render(m.statusText)
		} else {
			right = statusTextStyle.Render(m.statusText)
		}
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	mid := barStyle.Width(gap).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
