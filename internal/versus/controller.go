// Package versus assembles sessions into playable compositions: a single
// player, two local players, player against the computer, and a local player
// mirrored to a remote peer. Every side runs the same tetris.Session; sides
// differ only in the Controller that drives them.
package versus

import (
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/opponent"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// ControllerKind names a controller strategy.
type ControllerKind int

const (
	ControllerHuman ControllerKind = iota
	ControllerComputer
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerHuman:
		return "human"
	case ControllerComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// Controller turns input frames and gravity ticks into session commands.
type Controller interface {
	Kind() ControllerKind
	// Gravity is the fall profile the controller plays at.
	Gravity() tetris.GravityProfile
	// Apply issues the commands for one input frame.
	Apply(s *tetris.Session, in core.InputFrame) tetris.Snapshot
	// Fall handles one gravity tick.
	Fall(s *tetris.Session) tetris.Snapshot
}

// Keyboard drives a session from player actions. Gravity is a soft drop.
type Keyboard struct {
	profile tetris.GravityProfile
}

// NewKeyboard returns a human controller falling at profile.
func NewKeyboard(profile tetris.GravityProfile) *Keyboard {
	return &Keyboard{profile: profile}
}

func (k *Keyboard) Kind() ControllerKind           { return ControllerHuman }
func (k *Keyboard) Gravity() tetris.GravityProfile { return k.profile }

// Apply runs rotate, horizontal moves, then drops, so a frame holding both
// a move and a hard drop lands the moved piece.
func (k *Keyboard) Apply(s *tetris.Session, in core.InputFrame) tetris.Snapshot {
	if in.Has(core.ActionRotate) {
		s.Rotate()
	}
	if in.Has(core.ActionLeft) {
		s.MoveLeft()
	}
	if in.Has(core.ActionRight) {
		s.MoveRight()
	}
	if in.Has(core.ActionSoftDrop) {
		s.SoftDrop()
	}
	if in.Has(core.ActionHardDrop) {
		s.HardDrop()
	}
	return s.Snapshot()
}

func (k *Keyboard) Fall(s *tetris.Session) tetris.Snapshot {
	return s.MoveDown()
}

// Heuristic lets the computer opponent place one piece per gravity tick.
// It ignores input.
type Heuristic struct {
	profile tetris.GravityProfile
	ai      *opponent.Opponent
}

// NewHeuristic returns a computer controller.
func NewHeuristic(profile tetris.GravityProfile, ai *opponent.Opponent) *Heuristic {
	return &Heuristic{profile: profile, ai: ai}
}

func (h *Heuristic) Kind() ControllerKind           { return ControllerComputer }
func (h *Heuristic) Gravity() tetris.GravityProfile { return h.profile }

func (h *Heuristic) Apply(s *tetris.Session, _ core.InputFrame) tetris.Snapshot {
	return s.Snapshot()
}

func (h *Heuristic) Fall(s *tetris.Session) tetris.Snapshot {
	return h.ai.Play(s)
}
