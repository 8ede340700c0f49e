// Package blockfall registers the falling-block modes: solo, versus the
// computer and two players on one keyboard. It assembles engine sessions,
// controllers and gravity from the loaded config; the platform drives it
// one tick at a time.
package blockfall

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/opponent"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// Mode IDs as registered and stored with scores.
const (
	IDSolo   = "tetris"
	IDVsCPU  = "tetris_cpu"
	IDDuo    = "tetris_duo"
	IDOnline = "tetris_online"
)

// Mode selects how the sides are assembled.
type Mode int

const (
	ModeSolo  Mode = iota // one human
	ModeVsCPU             // human against the heuristic opponent
	ModeDuo               // two humans sharing a keyboard
)

var (
	configPath       string
	difficultyPreset = config.DifficultyNormal
)

// SetConfigPath sets the custom config path used on the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the computer difficulty. Unknown names fall
// back to normal; the CLI validates them first.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		p = config.DifficultyNormal
	}
	difficultyPreset = p
}

// LoadConfig loads the config from the path set with SetConfigPath and
// applies the difficulty preset. Broken files fall back to the defaults.
func LoadConfig() config.BlockfallConfig {
	return loadConfig(difficultyPreset)
}

func loadConfig(preset config.DifficultyPreset) config.BlockfallConfig {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.DefaultBlockfallConfig()
	}
	config.ApplyPreset(&cfg, preset)
	return cfg
}

// Game is a solo or versus-computer match.
type Game struct {
	mode       Mode
	runtime    core.RuntimeConfig
	cfg        config.BlockfallConfig
	difficulty config.DifficultyPreset // empty uses the package preset

	solo *versus.Player
	duel *versus.Duel
}

// DuoGame is the two-player local mode. It takes separate input per player.
type DuoGame struct {
	Game
}

// New creates a solo game.
func New() *Game { return &Game{mode: ModeSolo} }

// NewVsCPU creates a game against the computer.
func NewVsCPU() *Game { return &Game{mode: ModeVsCPU} }

// NewDuo creates a two-player local game.
func NewDuo() *DuoGame { return &DuoGame{Game{mode: ModeDuo}} }

func init() {
	registry.Register(IDSolo, func() registry.Game { return New() })
	registry.Register(IDVsCPU, func() registry.Game { return NewVsCPU() })
	registry.Register(IDDuo, func() registry.Game { return NewDuo() })
}

func (g *Game) ID() string {
	switch g.mode {
	case ModeVsCPU:
		return IDVsCPU
	case ModeDuo:
		return IDDuo
	default:
		return IDSolo
	}
}

func (g *Game) Title() string {
	switch g.mode {
	case ModeVsCPU:
		return "Blockfall vs Computer"
	case ModeDuo:
		return "Blockfall Duo"
	default:
		return "Blockfall"
	}
}

// Mode returns how the sides are assembled.
func (g *Game) Mode() Mode { return g.mode }

// SetDifficulty overrides the package preset for this game only. It takes
// effect on the next Reset.
func (g *Game) SetDifficulty(p config.DifficultyPreset) { g.difficulty = p }

// Reset reloads the config and starts fresh sessions.
// Both sides of a versus match draw from the same seed, so they see the
// same piece sequence.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	preset := g.difficulty
	if preset == "" {
		preset = difficultyPreset
	}
	g.cfg = loadConfig(preset)
	g.build()
}

// ResetWithConfig is Reset with an explicit config instead of the loaded one.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.BlockfallConfig) {
	g.runtime = runtime
	g.cfg = cfg
	g.build()
}

func (g *Game) build() {
	rules := g.cfg.Rules()
	human := g.cfg.Gravity.Human.Profile()

	newSession := func() *tetris.Session {
		return tetris.NewSession(rules, rand.New(rand.NewSource(g.runtime.Seed)))
	}

	p1 := versus.NewPlayer(core.Player1, newSession(), versus.NewKeyboard(human))
	switch g.mode {
	case ModeSolo:
		g.solo, g.duel = p1, nil
	case ModeVsCPU:
		ai := opponent.New(g.cfg.Opponent.Weights())
		cpu := versus.NewHeuristic(g.cfg.Gravity.Computer.Profile(), ai)
		g.solo, g.duel = nil, versus.NewDuel(p1, versus.NewPlayer(core.Player2, newSession(), cpu))
	case ModeDuo:
		p2 := versus.NewPlayer(core.Player2, newSession(), versus.NewKeyboard(human))
		g.solo, g.duel = nil, versus.NewDuel(p1, p2)
	}
}

// Step advances one tick. In versus modes the input belongs to Player1.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.duel != nil {
		multi := core.NewMultiInputFrame()
		multi.ByPlayer[core.Player1] = in
		g.duel.Step(multi, g.runtime.TickDuration())
		return core.StepResult{State: g.State()}
	}
	if g.solo == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.solo.Reset()
	} else if in.Has(core.ActionPause) {
		g.solo.TogglePause()
	}
	g.solo.Step(in, g.runtime.TickDuration())
	return core.StepResult{State: g.State()}
}

// StepMulti advances one tick with per-player input.
func (g *DuoGame) StepMulti(in core.MultiInputFrame) core.StepResult {
	if g.duel == nil {
		return core.StepResult{State: g.State()}
	}
	g.duel.Step(in, g.runtime.TickDuration())
	return core.StepResult{State: g.State()}
}

// Step routes a merged frame to Player1, as for the other versus modes.
func (g *DuoGame) Step(in core.InputFrame) core.StepResult {
	return g.Game.Step(in)
}

// State reports Player1's score. A versus match is over once decided.
func (g *Game) State() core.GameState {
	switch {
	case g.duel != nil:
		s1, _ := g.duel.Snapshots()
		return core.GameState{
			Score:    s1.Score,
			GameOver: g.duel.Outcome().Decided,
			Paused:   g.duel.Paused(),
		}
	case g.solo != nil:
		s := g.solo.Snapshot()
		return core.GameState{Score: s.Score, GameOver: s.GameOver, Paused: s.Paused}
	default:
		return core.GameState{}
	}
}

// Snapshots returns the current state of each side. The second value is
// false in solo mode.
func (g *Game) Snapshots() (tetris.Snapshot, tetris.Snapshot, bool) {
	if g.duel != nil {
		s1, s2 := g.duel.Snapshots()
		return s1, s2, true
	}
	if g.solo != nil {
		return g.solo.Snapshot(), tetris.Snapshot{}, false
	}
	return tetris.Snapshot{}, tetris.Snapshot{}, false
}

// Outcome is the versus result; always undecided in solo mode.
func (g *Game) Outcome() versus.Outcome {
	if g.duel == nil {
		return versus.Outcome{}
	}
	return g.duel.Outcome()
}
