package linklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#818384"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF4500"))

	selectedDescStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D7DADC"))

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4500")).
			Width(4).
			Align(lipgloss.Right)
)

type Delegate struct{}

func (d Delegate) Height() int                             { return 2 }
func (d Delegate) Spacing() int                            { return 1 }
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d Delegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(LinkItem)
	if !ok {
		return
	}

	idx := indexStyle.Render(fmt.Sprintf("%d.", item.Index+1))
	title, desc := titleStyle, descStyle
	if index == m.Index() {
		title, desc = selectedTitleStyle, selectedDescStyle
	}
	fmt.Fprintf(w, "%s %s\n     %s", idx, title.Render(item.Title()), desc.Render(item.Description()))
}
