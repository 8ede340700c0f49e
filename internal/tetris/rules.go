// Package tetris is the falling-block simulation engine: the piece catalog,
// the board and its collision model, and the session state machine with its
// gravity timer. It is pure game logic with no I/O and no goroutines; callers
// drive it with discrete commands and read immutable snapshots back.
package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Rules are the tunable constants of a session.
type Rules struct {
	Width         int
	Height        int
	Spawn         core.Point // anchor of every freshly drawn piece
	LinePoints    int        // points per cleared line, multiplied by level
	LinesPerLevel int
}

// DefaultRules returns the reference 10x20 ruleset.
func DefaultRules() Rules {
	return Rules{
		Width:         10,
		Height:        20,
		Spawn:         core.Point{X: 3, Y: 0},
		LinePoints:    100,
		LinesPerLevel: 10,
	}
}

// normalized fills zero or negative fields from DefaultRules.
func (r Rules) normalized() Rules {
	def := DefaultRules()
	if r.Width <= 0 {
		r.Width = def.Width
	}
	if r.Height <= 0 {
		r.Height = def.Height
	}
	if r.LinePoints <= 0 {
		r.LinePoints = def.LinePoints
	}
	if r.LinesPerLevel <= 0 {
		r.LinesPerLevel = def.LinesPerLevel
	}
	return r
}

// LevelFor returns the level reached after clearing lines in total.
func (r Rules) LevelFor(lines int) int {
	return lines/r.normalized().LinesPerLevel + 1
}
