// Package registry maps mode IDs to game factories. Modes register
// themselves from init() so the CLI and menus can list and create them
// without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Game is what the platform drives. Implementations are pure: the platform
// owns input mapping, timing and drawing to the terminal.
type Game interface {
	// ID is the stable mode identifier, used by the CLI and score storage.
	ID() string

	// Title is the human-readable name.
	Title() string

	// Reset starts a fresh game. Called once at start and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which is cleared beforehand.
	Render(dst *core.Screen)

	State() core.GameState
}

// MultiPlayerGame is implemented by modes that take separate input for
// each local player. The platform calls StepMulti instead of Step.
type MultiPlayerGame interface {
	Game
	StepMulti(in core.MultiInputFrame) core.StepResult
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID      string
	Title   string
	Players int // local players sharing the keyboard
}

// Factory creates a new instance of a mode.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a mode. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title(), Players: 1}
	if _, ok := g.(MultiPlayerGame); ok {
		info.Players = 2
	}
	factories[id] = f
	infos[id] = info
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the mode with the given ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
