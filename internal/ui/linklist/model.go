package linklist

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caio2k/quickddit/internal/reddit"
	"github.com/caio2k/quickddit/internal/ui/messages"
)

// Loader fetches one page of a subreddit listing.
type Loader interface {
	LoadLinks(ctx context.Context, subreddit, after string) (*reddit.LinkPage, error)
}

// Model is the subreddit front page view.
type Model struct {
	list      list.Model
	subreddit string
	loader    Loader
	loading   bool
}

// New creates a list for subreddit; an empty name is the front page.
func New(subreddit string, loader Loader) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = title(subreddit)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		list:      l,
		subreddit: subreddit,
		loader:    loader,
		loading:   true,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.loadLinks()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(w, h int) {
	m.list.SetSize(w, h)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.LinksLoadedMsg:
		if msg.Subreddit != m.subreddit {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Page.Links))
		for i, link := range msg.Page.Links {
			items = append(items, LinkItem{Link: link, Index: i})
		}
		m.list.Title = title(m.subreddit)
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(LinkItem); ok && item.Permalink != "" {
				return m, func() tea.Msg {
					return messages.OpenThreadMsg{Permalink: item.Permalink}
				}
			}
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.list.Title = title(m.subreddit) + " (refreshing...)"
			return m, m.loadLinks()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Subreddit returns the listed subreddit.
func (m Model) Subreddit() string {
	return m.subreddit
}

func (m Model) loadLinks() tea.Cmd {
	loader := m.loader
	sub := m.subreddit
	return func() tea.Msg {
		page, err := loader.LoadLinks(context.Background(), sub, "")
		return messages.LinksLoadedMsg{Subreddit: sub, Page: page, Err: err}
	}
}

func title(subreddit string) string {
	if subreddit == "" {
		return "Front Page"
	}
	return "r/" + subreddit
}
