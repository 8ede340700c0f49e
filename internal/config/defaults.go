package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the built-in configuration.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
			SpawnX: 3,
			SpawnY: 0,
		},
		Scoring: ScoringConfig{
			LinePoints:    100,
			LinesPerLevel: 10,
		},
		Gravity: GravityConfig{
			Human:    GravityProfileConfig{BaseMS: 1000, StepMS: 100, FloorMS: 100},
			Computer: GravityProfileConfig{BaseMS: 1500, StepMS: 150, FloorMS: 200},
		},
		Opponent: OpponentConfig{
			HolePenalty:   -5,
			HeightPenalty: -0.5,
			LineReward:    100,
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultBlockfallYAML
}
