package preview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Unit      key.Binding
	HideUnits key.Binding
	More      key.Binding
	Fewer     key.Binding
	Reconcile key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Unit, k.More, k.Fewer, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Unit, k.HideUnits, k.More, k.Fewer},
		{k.Reconcile, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Unit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "display unit"),
		),
		HideUnits: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hide units"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more decimals"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer decimals"),
		),
		Reconcile: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reconcile mode"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
