package commentview

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Collapse key.Binding
	FoldAll  key.Binding
	Parent   key.Binding
	NextSib  key.Binding
	LoadMore key.Binding
	Refresh  key.Binding
	RawBody  key.Binding
}

var Keys = KeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
	Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Collapse: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse")),
	FoldAll:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "fold all")),
	Parent:   key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("p", "parent")),
	NextSib:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "sibling")),
	LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more replies")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	RawBody:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "source")),
}

// ShortHelp lists the bindings shown in the header hint line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Parent, k.NextSib, k.Collapse, k.FoldAll, k.LoadMore, k.RawBody, k.Refresh}
}
