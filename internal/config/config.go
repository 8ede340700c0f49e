// Package config loads the game rules from YAML and the server settings
// from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/opponent"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// BlockfallConfig holds every tunable of the game.
type BlockfallConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Gravity  GravityConfig  `yaml:"gravity"`
	Opponent OpponentConfig `yaml:"opponent"`
}

// BoardConfig sets the playfield size and the spawn anchor.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	SpawnX int `yaml:"spawn_x"`
	SpawnY int `yaml:"spawn_y"`
}

// ScoringConfig sets line points and level pacing.
type ScoringConfig struct {
	LinePoints    int `yaml:"line_points"`     // multiplied by cleared lines and level
	LinesPerLevel int `yaml:"lines_per_level"` // level = lines/lines_per_level + 1
}

// GravityConfig holds the fall profiles, one per controller kind.
type GravityConfig struct {
	Human    GravityProfileConfig `yaml:"human"`
	Computer GravityProfileConfig `yaml:"computer"`
}

// GravityProfileConfig is a fall profile in milliseconds.
type GravityProfileConfig struct {
	BaseMS  int `yaml:"base_ms"`
	StepMS  int `yaml:"step_ms"`
	FloorMS int `yaml:"floor_ms"`
}

// OpponentConfig holds the computer's evaluation weights.
type OpponentConfig struct {
	HolePenalty   float64 `yaml:"hole_penalty"`
	HeightPenalty float64 `yaml:"height_penalty"`
	LineReward    float64 `yaml:"line_reward"`
}

// Rules converts the config into engine rules.
func (c BlockfallConfig) Rules() tetris.Rules {
	return tetris.Rules{
		Width:         c.Board.Width,
		Height:        c.Board.Height,
		Spawn:         core.Point{X: c.Board.SpawnX, Y: c.Board.SpawnY},
		LinePoints:    c.Scoring.LinePoints,
		LinesPerLevel: c.Scoring.LinesPerLevel,
	}
}

// Profile converts a millisecond profile into a gravity profile.
func (g GravityProfileConfig) Profile() tetris.GravityProfile {
	return tetris.GravityProfile{
		Base:  time.Duration(g.BaseMS) * time.Millisecond,
		Step:  time.Duration(g.StepMS) * time.Millisecond,
		Floor: time.Duration(g.FloorMS) * time.Millisecond,
	}
}

// Weights converts the opponent section into evaluation weights.
func (o OpponentConfig) Weights() opponent.Weights {
	return opponent.Weights{Hole: o.HolePenalty, Height: o.HeightPenalty, Line: o.LineReward}
}

// Validate rejects configs the engine cannot run with.
func (c BlockfallConfig) Validate() error {
	var errs []error
	if c.Board.Width < 4 || c.Board.Height < 4 {
		errs = append(errs, fmt.Errorf("board must be at least 4x4, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.SpawnX < 0 || c.Board.SpawnX > c.Board.Width-4 {
		errs = append(errs, fmt.Errorf("spawn_x %d does not fit a 4-wide piece", c.Board.SpawnX))
	}
	if c.Scoring.LinePoints <= 0 || c.Scoring.LinesPerLevel <= 0 {
		errs = append(errs, errors.New("scoring values must be positive"))
	}
	for name, g := range map[string]GravityProfileConfig{"human": c.Gravity.Human, "computer": c.Gravity.Computer} {
		if g.BaseMS <= 0 || g.FloorMS <= 0 || g.StepMS < 0 {
			errs = append(errs, fmt.Errorf("gravity.%s: base and floor must be positive", name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
