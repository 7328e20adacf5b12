package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Open       key.Binding
	Back       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Community  key.Binding
	Friends    key.Binding
	Own        key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Search     key.Binding
	LoadMore   key.Binding
	Refresh    key.Binding
	Copy       key.Binding
	OpenImage  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdown", "page down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Prev:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev post")),
		Next:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next post")),
		Community:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "community")),
		Friends:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "friends")),
		Own:        key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "mine")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevFilter: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		LoadMore:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "more")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		OpenImage:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open image")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Open, k.Search, k.NextFilter, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Community, k.Friends, k.Own, k.NextFilter, k.PrevFilter},
		{k.Search, k.LoadMore, k.Refresh, k.Open, k.Back},
		{k.Prev, k.Next, k.Copy, k.OpenImage, k.Help, k.Quit},
	}
}

// detailKeys is the short help shown while a post is open.
type detailKeys keyMap

func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Prev, k.Next, k.OpenImage, k.Copy, k.Back, k.Quit}
}

func (k detailKeys) FullHelp() [][]key.Binding {
	return keyMap(k).FullHelp()
}
