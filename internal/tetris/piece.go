package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Kind is one of the seven tetromino kinds.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists every kind in catalog order.
var Kinds = [...]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return "?"
	}
}

// Shape is a square occupancy matrix indexed [row][col].
type Shape [][]bool

// shapeOf builds a Shape from rows of '#' and '.'.
func shapeOf(rows ...string) Shape {
	s := make(Shape, len(rows))
	for y, row := range rows {
		s[y] = make([]bool, len(row))
		for x, ch := range row {
			s[y][x] = ch == '#'
		}
	}
	return s
}

type catalogEntry struct {
	shape Shape
	color core.Color
}

var catalog = map[Kind]catalogEntry{
	KindI: {shapeOf("....", "####", "....", "...."), core.ColorCyan},
	KindO: {shapeOf("##", "##"), core.ColorYellow},
	KindT: {shapeOf(".#.", "###", "..."), core.ColorMagenta},
	KindS: {shapeOf(".##", "##.", "..."), core.ColorGreen},
	KindZ: {shapeOf("##.", ".##", "..."), core.ColorRed},
	KindJ: {shapeOf("#..", "###", "..."), core.ColorBlue},
	KindL: {shapeOf("..#", "###", "..."), core.ColorOrange},
}

// Size returns the side length of the matrix.
func (s Shape) Size() int {
	return len(s)
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for y := range s {
		out[y] = append([]bool(nil), s[y]...)
	}
	return out
}

// Rotated returns the shape turned 90 degrees clockwise.
func (s Shape) Rotated() Shape {
	n := len(s)
	out := make(Shape, n)
	for i := range out {
		out[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j][n-1-i] = s[i][j]
		}
	}
	return out
}

// Equal reports whether both shapes have identical occupancy.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(o[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// Cells returns the offsets of occupied cells relative to the anchor.
func (s Shape) Cells() []core.Point {
	var pts []core.Point
	for y, row := range s {
		for x, on := range row {
			if on {
				pts = append(pts, core.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Piece is a tetromino placed at an anchor, the top-left of its matrix.
type Piece struct {
	Kind  Kind
	Shape Shape
	Color core.Color
	Pos   core.Point
}

// NewPiece returns a fresh piece of kind k at the reference spawn anchor.
func NewPiece(k Kind) Piece {
	e, ok := catalog[k]
	if !ok {
		e = catalog[KindI]
		k = KindI
	}
	return Piece{
		Kind:  k,
		Shape: e.shape.Clone(),
		Color: e.color,
		Pos:   DefaultRules().Spawn,
	}
}

// Randomizer is the source of piece draws. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// RandomPiece draws a kind uniformly and independently of previous draws.
func RandomPiece(r Randomizer) Piece {
	return NewPiece(Kinds[r.Intn(len(Kinds))])
}

// At returns a copy of p anchored at pos.
func (p Piece) At(pos core.Point) Piece {
	p.Pos = pos
	return p
}

// Rotated returns a copy of p with its shape turned clockwise.
// The anchor does not move and p is left untouched.
func (p Piece) Rotated() Piece {
	p.Shape = p.Shape.Rotated()
	return p
}

// Clone returns a deep copy of p.
func (p Piece) Clone() Piece {
	p.Shape = p.Shape.Clone()
	return p
}
