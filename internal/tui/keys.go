package tui

import "github.com/charmbracelet/bubbles/key"

// listKeyMap defines key bindings for the host list
type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding
	Filter key.Binding
	Rescan key.Binding
	Subnet key.Binding
	Quit   key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Detail, k.Filter, k.Rescan, k.Subnet, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail, k.Filter},
		{k.Rescan, k.Subnet, k.Quit},
	}
}

// subnetKeyMap defines key bindings for reference IP entry
type subnetKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k subnetKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k subnetKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// detailKeyMap defines key bindings for the host detail card
type detailKeyMap struct {
	Back key.Binding
	Quit key.Binding
}

func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Quit}}
}

// scanningKeyMap defines key bindings while a sweep runs
type scanningKeyMap struct {
	Quit key.Binding
}

func (k scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

func (k scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

var (
	quitBinding = key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)

	listKeys = listKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Subnet: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "other subnet"),
		),
		Quit: quitBinding,
	}

	subnetKeys = subnetKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sweep"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	detailKeys = detailKeyMap{
		Back: key.NewBinding(
			key.WithKeys("esc", "enter", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: quitBinding,
	}

	scanningKeys = scanningKeyMap{Quit: quitBinding}
)
