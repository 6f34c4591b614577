package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/caio2k/quickddit/internal/thread"
	"github.com/caio2k/quickddit/internal/ui/commentview"
	"github.com/caio2k/quickddit/internal/ui/linklist"
	"github.com/caio2k/quickddit/internal/ui/messages"
	"github.com/caio2k/quickddit/internal/ui/statusbar"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewLinkList ViewType = iota
	ViewThread
)

// App is the root Bubble Tea model.
type App struct {
	activeView ViewType
	// startedInThread is set when the program was opened on a permalink and
	// there is no list to go back to.
	startedInThread bool

	linkList   linklist.Model
	threadView commentview.Model
	statusBar  statusbar.Model

	loader *thread.Loader

	width  int
	height int
}

// NewApp creates an app showing the given subreddit's front page.
func NewApp(loader *thread.Loader, subreddit string) *App {
	return &App{
		activeView: ViewLinkList,
		linkList:   linklist.New(subreddit, loader),
		statusBar:  statusbar.New(),
		loader:     loader,
	}
}

// NewThreadApp creates an app opened directly on a thread.
func NewThreadApp(loader *thread.Loader, permalink string) *App {
	return &App{
		activeView:      ViewThread,
		startedInThread: true,
		threadView:      commentview.New(permalink, loader),
		statusBar:       statusbar.New(),
		loader:          loader,
	}
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	if a.activeView == ViewThread {
		a.statusBar.SetLocation("loading...")
		return a.threadView.Init()
	}
	a.statusBar.SetLocation(title(a.linkList.Subreddit()))
	return a.linkList.Init()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		if !a.startedInThread {
			a.linkList.SetSize(msg.Width, contentHeight)
		}
		a.statusBar.SetSize(msg.Width)
		if a.activeView == ViewThread {
			a.threadView.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q", "esc":
			if a.activeView == ViewLinkList && (msg.String() == "esc" || a.linkList.Filtering()) {
				break
			}
			if a.activeView == ViewLinkList || a.startedInThread {
				return a, tea.Quit
			}
			return a, a.goBack()
		}

	case messages.OpenThreadMsg:
		a.activeView = ViewThread
		a.threadView = commentview.New(msg.Permalink, a.loader)
		a.threadView.SetSize(a.width, a.height-1)
		a.statusBar.SetLocation("loading...")
		a.statusBar.SetCounts(0, 0)
		return a, a.threadView.Init()

	case messages.GoBackMsg:
		return a, a.goBack()

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.activeView {
	case ViewLinkList:
		a.linkList, cmd = a.linkList.Update(msg)
	case ViewThread:
		a.threadView, cmd = a.threadView.Update(msg)
		a.syncThreadStatus()
	}
	return a, cmd
}

func (a *App) syncThreadStatus() {
	t := a.threadView.Thread()
	if t == nil {
		return
	}
	a.statusBar.SetLocation("r/" + t.Link.Subreddit)
	a.statusBar.SetCounts(a.threadView.Comments().Count(), len(a.threadView.Pending()))
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewLinkList:
		content = a.linkList.View()
	case ViewThread:
		content = a.threadView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) goBack() tea.Cmd {
	a.activeView = ViewLinkList
	a.statusBar.SetLocation(title(a.linkList.Subreddit()))
	a.statusBar.SetCounts(0, 0)
	a.statusBar.SetStatus("", false)
	return nil
}

func title(subreddit string) string {
	if subreddit == "" {
		return "front page"
	}
	return "r/" + subreddit
}
