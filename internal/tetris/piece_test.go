package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

func TestNewPieceCatalog(t *testing.T) {
	tests := []struct {
		kind  Kind
		size  int
		cells int
		color core.Color
	}{
		{KindI, 4, 4, core.ColorCyan},
		{KindO, 2, 4, core.ColorYellow},
		{KindT, 3, 4, core.ColorMagenta},
		{KindS, 3, 4, core.ColorGreen},
		{KindZ, 3, 4, core.ColorRed},
		{KindJ, 3, 4, core.ColorBlue},
		{KindL, 3, 4, core.ColorOrange},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			p := NewPiece(tc.kind)
			assert.Equal(t, tc.kind, p.Kind)
			assert.Equal(t, tc.size, p.Shape.Size())
			assert.Len(t, p.Shape.Cells(), tc.cells)
			assert.Equal(t, tc.color, p.Color)
			assert.Equal(t, core.Point{X: 3, Y: 0}, p.Pos)
		})
	}
}

func TestNewPieceReturnsIndependentShapes(t *testing.T) {
	a := NewPiece(KindT)
	a.Shape[0][0] = true

	b := NewPiece(KindT)
	assert.False(t, b.Shape[0][0], "catalog shape must not be shared")
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			p := NewPiece(k)
			r := p.Rotated().Rotated().Rotated().Rotated()
			assert.True(t, p.Shape.Equal(r.Shape))
			assert.Equal(t, p.Pos, r.Pos)
		})
	}
}

func TestRotatedLeavesInputUntouched(t *testing.T) {
	p := NewPiece(KindL)
	before := p.Shape.Clone()

	r := p.Rotated()

	assert.True(t, p.Shape.Equal(before))
	assert.False(t, p.Shape.Equal(r.Shape))
}

func TestRotateIVertical(t *testing.T) {
	r := NewPiece(KindI).Rotated()

	want := []core.Point{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}
	assert.Equal(t, want, r.Shape.Cells())
}

func TestRotateT(t *testing.T) {
	r := NewPiece(KindT).Rotated()
	assert.True(t, r.Shape.Equal(shapeOf(".#.", ".##", ".#.")))
}

func TestRandomPieceScripted(t *testing.T) {
	rng := kinds(KindZ, KindO, KindL)

	assert.Equal(t, KindZ, RandomPiece(rng).Kind)
	assert.Equal(t, KindO, RandomPiece(rng).Kind)
	assert.Equal(t, KindL, RandomPiece(rng).Kind)
}

func TestRandomPieceCoversAllKinds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[Kind]bool)
	for i := 0; i < 500; i++ {
		seen[RandomPiece(rng).Kind] = true
	}
	require.Len(t, seen, len(Kinds))
}
