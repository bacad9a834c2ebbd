package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Collapse    key.Binding
	Expand      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Add         key.Binding
	Rename      key.Binding
	Duplicate   key.Binding
	Delete      key.Binding
	ShiftUp     key.Binding
	ShiftDown   key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
		Rename:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Duplicate:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Delete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		ShiftUp:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		ShiftDown:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "redo")),
		Save:        key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Delete, k.Undo, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Collapse, k.Expand, k.ExpandAll, k.CollapseAll},
		{k.Add, k.Rename, k.Duplicate, k.Delete, k.ShiftUp, k.ShiftDown},
		{k.Undo, k.Redo, k.Save, k.Help, k.Quit},
	}
}
