package tetris

import "time"

// GravityProfile defines how fast pieces fall at each level.
type GravityProfile struct {
	Base  time.Duration // period at level 1
	Step  time.Duration // reduction per level
	Floor time.Duration // shortest period
}

var (
	// HumanGravity paces a human-controlled session.
	HumanGravity = GravityProfile{Base: 1000 * time.Millisecond, Step: 100 * time.Millisecond, Floor: 100 * time.Millisecond}
	// ComputerGravity paces the opponent, one placement per tick.
	ComputerGravity = GravityProfile{Base: 1500 * time.Millisecond, Step: 150 * time.Millisecond, Floor: 200 * time.Millisecond}
)

// Interval returns max(Floor, Base - (level-1)*Step).
func (g GravityProfile) Interval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := g.Base - time.Duration(level-1)*g.Step
	if d < g.Floor {
		return g.Floor
	}
	return d
}

// Gravity is a session's fall timer. It runs on time handed to Advance,
// so it is deterministic and owned by whoever drives the session.
// A disarmed timer never fires.
type Gravity struct {
	profile    GravityProfile
	armed      bool
	level      int
	period     time.Duration
	elapsed    time.Duration
	generation uint64
}

// NewGravity returns a disarmed timer for profile.
func NewGravity(profile GravityProfile) *Gravity {
	return &Gravity{profile: profile}
}

// Profile returns the timer's profile.
func (g *Gravity) Profile() GravityProfile { return g.profile }

// Arm starts the timer for level with a fresh phase.
func (g *Gravity) Arm(level int) {
	g.armed = true
	g.level = level
	g.period = g.profile.Interval(level)
	g.elapsed = 0
	g.generation++
}

// Disarm stops the timer and drops any accumulated time.
func (g *Gravity) Disarm() {
	if g.armed {
		g.generation++
	}
	g.armed = false
	g.elapsed = 0
}

// Armed reports whether the timer can fire.
func (g *Gravity) Armed() bool { return g.armed }

// Period returns the current interval, zero when disarmed.
func (g *Gravity) Period() time.Duration {
	if !g.armed {
		return 0
	}
	return g.period
}

// Generation changes every time the timer is armed or disarmed.
func (g *Gravity) Generation() uint64 { return g.generation }

// Advance accounts for elapsed time and returns how many falls are due.
func (g *Gravity) Advance(elapsed time.Duration) int {
	if !g.armed || elapsed <= 0 || g.period <= 0 {
		return 0
	}
	g.elapsed += elapsed
	n := int(g.elapsed / g.period)
	g.elapsed -= time.Duration(n) * g.period
	return n
}

// Sync arms or disarms the timer to match a session snapshot: disarmed while
// paused or over, re-armed on resume and whenever the level changes.
func (g *Gravity) Sync(s Snapshot) {
	if s.Paused || s.GameOver {
		g.Disarm()
		return
	}
	if !g.armed || g.level != s.Level {
		g.Arm(s.Level)
	}
}
