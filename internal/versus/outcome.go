package versus

import (
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Reason says how an outcome was reached.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonScore      Reason = "score"      // both sides finished, higher score won
	ReasonSurvival   Reason = "survival"   // one side finished, the other won
	ReasonTie        Reason = "tie"        // both finished with equal scores
	ReasonDisconnect Reason = "disconnect" // peer went away mid-match
)

// Outcome is the result of a two-sided match.
type Outcome struct {
	Decided bool
	Winner  core.PlayerID // PlayerNone on a tie or while undecided
	Reason  Reason
}

// Tie reports a decided match without a winner.
func (o Outcome) Tie() bool {
	return o.Decided && o.Winner == core.PlayerNone
}

// Decide applies the match rule to Player1's snapshot a and Player2's b.
// Nothing is decided while both sides play. If only one side is over, the
// other wins regardless of score. If both are over, the higher score wins.
func Decide(a, b tetris.Snapshot) Outcome {
	switch {
	case !a.GameOver && !b.GameOver:
		return Outcome{}
	case a.GameOver && !b.GameOver:
		return Outcome{Decided: true, Winner: core.Player2, Reason: ReasonSurvival}
	case !a.GameOver && b.GameOver:
		return Outcome{Decided: true, Winner: core.Player1, Reason: ReasonSurvival}
	case a.Score > b.Score:
		return Outcome{Decided: true, Winner: core.Player1, Reason: ReasonScore}
	case b.Score > a.Score:
		return Outcome{Decided: true, Winner: core.Player2, Reason: ReasonScore}
	default:
		return Outcome{Decided: true, Winner: core.PlayerNone, Reason: ReasonTie}
	}
}
