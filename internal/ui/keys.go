package ui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"

	"keep/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Add        key.Binding
	Edit       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Up         key.Binding
	Down       key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	Today      key.Binding
	SwitchView key.Binding
	NextField  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	SaveNotes  key.Binding

	Left      key.Binding
	Right     key.Binding
	LineUp    key.Binding
	LineDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	DeleteFwd key.Binding
	Newline   key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:       bind("quit", k.Quit),
		ForceQuit:  bind("quit", "ctrl+c"),
		Add:        bind("new", k.Add),
		Edit:       bind("edit", k.Edit),
		Toggle:     bind("toggle", k.Toggle),
		Delete:     bind("delete", k.Delete),
		Up:         bind("up", k.Up, "up"),
		Down:       bind("down", k.Down, "down"),
		PrevDay:    bind("prev day", k.PrevDay, "left"),
		NextDay:    bind("next day", k.NextDay, "right"),
		Today:      bind("today", k.Today),
		SwitchView: bind("view", k.SwitchView),
		NextField:  bind("switch field", k.NextField),
		Confirm:    bind("save", k.Confirm),
		Cancel:     bind("cancel", k.Cancel),
		SaveNotes:  bind("save", k.SaveNotes),

		Left:      bind("left", "left"),
		Right:     bind("right", "right"),
		LineUp:    bind("line up", "up"),
		LineDown:  bind("line down", "down"),
		Home:      bind("line start", "home"),
		End:       bind("line end", "end"),
		Backspace: bind("delete back", "backspace"),
		DeleteFwd: bind("delete", "delete"),
		Newline:   bind("newline", "enter"),
	}
}

func bind(help string, keys ...string) key.Binding {
	keys = slices.DeleteFunc(keys, func(s string) bool { return s == "" })
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keyLabel(keys[0]), help))
}

func keyLabel(k string) string {
	switch k {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return k
}

// helpKeys adapts a flat binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k keyMap) listHelp() helpKeys {
	return helpKeys{k.Add, k.Edit, k.Toggle, k.Delete, k.PrevDay, k.NextDay, k.Today, k.SwitchView, k.Up, k.Down, k.Quit}
}

func (k keyMap) inputHelp() helpKeys {
	return helpKeys{k.NextField, k.Confirm, k.Cancel}
}

func (k keyMap) notesHelp() helpKeys {
	return helpKeys{k.Left, k.Right, k.LineUp, k.LineDown, k.Home, k.End, k.SaveNotes, k.SwitchView, k.ForceQuit}
}
