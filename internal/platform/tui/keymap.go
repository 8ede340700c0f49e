package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

// PlayerKeys are the movement bindings for one side.
type PlayerKeys struct {
	Left     key.Binding
	Right    key.Binding
	SoftDrop key.Binding
	Rotate   key.Binding
	HardDrop key.Binding
}

func (p PlayerKeys) actions() []struct {
	binding key.Binding
	action  core.Action
} {
	return []struct {
		binding key.Binding
		action  core.Action
	}{
		{p.Left, core.ActionLeft},
		{p.Right, core.ActionRight},
		{p.SoftDrop, core.ActionSoftDrop},
		{p.Rotate, core.ActionRotate},
		{p.HardDrop, core.ActionHardDrop},
	}
}

// GameKeyMap holds every in-game binding. It implements help.KeyMap.
type GameKeyMap struct {
	P1 PlayerKeys
	P2 PlayerKeys

	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// DefaultGameKeyMap returns the standard bindings: arrows and space for
// Player1, WASD with e/tab for Player2.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		P1: PlayerKeys{
			Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "move")),
			Right:    key.NewBinding(key.WithKeys("right")),
			SoftDrop: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "soft drop")),
			Rotate:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "rotate")),
			HardDrop: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
		},
		P2: PlayerKeys{
			Left:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a/d", "P2 move")),
			Right:    key.NewBinding(key.WithKeys("d")),
			SoftDrop: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "P2 soft drop")),
			Rotate:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "P2 rotate")),
			HardDrop: key.NewBinding(key.WithKeys("e", "tab"), key.WithHelp("e/tab", "P2 hard drop")),
		},
		Pause:      key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Screenshot: key.NewBinding(key.WithKeys("ctrl+s")),
	}
}

// WithPlayerTwo enables or disables the Player2 bindings.
func (k GameKeyMap) WithPlayerTwo(enabled bool) GameKeyMap {
	for _, b := range []*key.Binding{&k.P2.Left, &k.P2.Right, &k.P2.SoftDrop, &k.P2.Rotate, &k.P2.HardDrop} {
		b.SetEnabled(enabled)
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.P1.Left, k.P1.Rotate, k.P1.SoftDrop, k.P1.HardDrop,
		k.Pause, k.Restart, k.Back, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.P1.Left, k.P1.Rotate, k.P1.SoftDrop, k.P1.HardDrop},
		{k.P2.Left, k.P2.Rotate, k.P2.SoftDrop, k.P2.HardDrop},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// GameKey is the meaning of one key press during a game.
type GameKey struct {
	Player core.PlayerID // PlayerNone when nothing matched
	Action core.Action
}

// Map translates a key press. Movement keys belong to one player; pause,
// restart, back and quit are shared and reported for Player1.
func (k GameKeyMap) Map(msg tea.KeyMsg) GameKey {
	switch {
	case key.Matches(msg, k.Quit):
		return GameKey{Player: core.Player1, Action: core.ActionQuit}
	case key.Matches(msg, k.Pause):
		return GameKey{Player: core.Player1, Action: core.ActionPause}
	case key.Matches(msg, k.Restart):
		return GameKey{Player: core.Player1, Action: core.ActionRestart}
	case key.Matches(msg, k.Back):
		return GameKey{Player: core.Player1, Action: core.ActionBack}
	}
	for _, b := range k.P1.actions() {
		if key.Matches(msg, b.binding) {
			return GameKey{Player: core.Player1, Action: b.action}
		}
	}
	for _, b := range k.P2.actions() {
		if key.Matches(msg, b.binding) {
			return GameKey{Player: core.Player2, Action: b.action}
		}
	}
	return GameKey{}
}

// MenuKeyMap holds the bindings shared by the menu screens.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Scoreboard key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// DefaultMenuKeyMap returns the menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "difficulty")),
		Right:      key.NewBinding(key.WithKeys("right", "l")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Scoreboard: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Select, k.Scoreboard, k.Quit}
}

func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// MenuAction is a menu command derived from a key press.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

// Map translates a key press to a menu action.
func (k MenuKeyMap) Map(msg tea.KeyMsg) MenuAction {
	switch {
	case key.Matches(msg, k.Quit):
		return MenuActionQuit
	case key.Matches(msg, k.Up):
		return MenuActionUp
	case key.Matches(msg, k.Down):
		return MenuActionDown
	case key.Matches(msg, k.Left):
		return MenuActionLeft
	case key.Matches(msg, k.Right):
		return MenuActionRight
	case key.Matches(msg, k.Select):
		return MenuActionSelect
	case key.Matches(msg, k.Scoreboard):
		return MenuActionScoreboard
	case key.Matches(msg, k.Back):
		return MenuActionBack
	}
	return MenuActionNone
}
