package config

import "fmt"

// DifficultyPreset is a named adjustment of the computer opponent.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty accepts "", easy, normal or hard. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset adjusts the computer's pace and judgement.
// Easy plays slower and cares less about holes; hard plays faster and
// punishes holes more. Normal leaves the config as loaded.
func ApplyPreset(cfg *BlockfallConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gravity.Computer = GravityProfileConfig{BaseMS: 2000, StepMS: 150, FloorMS: 400}
		cfg.Opponent.HolePenalty = -2
	case DifficultyHard:
		cfg.Gravity.Computer = GravityProfileConfig{BaseMS: 1000, StepMS: 100, FloorMS: 150}
		cfg.Opponent.HolePenalty = -8
	}
}
