package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravityInterval(t *testing.T) {
	tests := []struct {
		name    string
		profile GravityProfile
		level   int
		want    time.Duration
	}{
		{"human level 1", HumanGravity, 1, 1000 * time.Millisecond},
		{"human level 5", HumanGravity, 5, 600 * time.Millisecond},
		{"human level 10", HumanGravity, 10, 100 * time.Millisecond},
		{"human floor", HumanGravity, 25, 100 * time.Millisecond},
		{"computer level 1", ComputerGravity, 1, 1500 * time.Millisecond},
		{"computer level 9", ComputerGravity, 9, 300 * time.Millisecond},
		{"computer floor", ComputerGravity, 10, 200 * time.Millisecond},
		{"level below one", HumanGravity, 0, 1000 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.profile.Interval(tc.level))
		})
	}
}

func TestGravityAdvance(t *testing.T) {
	g := NewGravity(HumanGravity)
	assert.Equal(t, 0, g.Advance(5*time.Second), "disarmed timer never fires")

	g.Arm(1)
	assert.Equal(t, 0, g.Advance(999*time.Millisecond))
	assert.Equal(t, 1, g.Advance(time.Millisecond))
	assert.Equal(t, 2, g.Advance(2500*time.Millisecond))
	assert.Equal(t, 1, g.Advance(500*time.Millisecond))

	g.Disarm()
	assert.False(t, g.Armed())
	assert.Equal(t, time.Duration(0), g.Period())
	assert.Equal(t, 0, g.Advance(10*time.Second))
}

func TestGravitySyncFollowsSession(t *testing.T) {
	s := newTestSession(kinds(KindT))
	g := NewGravity(HumanGravity)

	g.Sync(s.Snapshot())
	require.True(t, g.Armed())
	assert.Equal(t, time.Second, g.Period())

	g.Advance(600 * time.Millisecond)
	g.Sync(s.TogglePause())
	assert.False(t, g.Armed())
	assert.Equal(t, 0, g.Advance(2*time.Second), "paused session must not fall")

	g.Sync(s.TogglePause())
	require.True(t, g.Armed())
	assert.Equal(t, 0, g.Advance(600*time.Millisecond), "resume starts a fresh phase")
}

func TestGravityRearmsOnLevelChange(t *testing.T) {
	g := NewGravity(HumanGravity)
	g.Sync(Snapshot{Level: 1})
	gen := g.Generation()

	g.Sync(Snapshot{Level: 1})
	assert.Equal(t, gen, g.Generation(), "same level keeps the phase")

	g.Sync(Snapshot{Level: 3})
	assert.NotEqual(t, gen, g.Generation())
	assert.Equal(t, 800*time.Millisecond, g.Period())
}

func TestGravityDisarmedOnGameOver(t *testing.T) {
	g := NewGravity(ComputerGravity)
	g.Arm(1)

	g.Sync(Snapshot{Level: 1, GameOver: true})

	assert.False(t, g.Armed())
}
