package drift

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Momentum physics defaults. Velocity is expressed in sections per frame
// at the 60fps reference rate; Update rescales by the real dt so decay is
// frame-rate independent.
const (
	// defaultFriction is the per-frame velocity multiplier.
	defaultFriction = 0.92
	// defaultSnapThreshold is the speed below which the driver stops
	// coasting and snaps to the nearest section.
	defaultSnapThreshold = 0.002
	// defaultSnapDuration is how long the snap tween takes, in seconds.
	defaultSnapDuration = 0.6
)

// MomentumDriver is the velocity/friction scroll model behind the
// infinite-carousel presentation. Input arrives as velocity nudges (wheel
// ticks, drag deltas), Update advances the simulation each frame, and
// progress is a continuous section index wrapped into [0, total).
//
// When speed decays under the snap threshold the driver tweens onto the
// nearest section, unless that section has snap disabled (oversized
// sections whose internal scroll must stay reachable).
type MomentumDriver struct {
	total    int
	progress float64
	velocity float64

	friction      float64
	snapThreshold float64
	snapDuration  float32

	snapDisabled []bool
	snapTween    *gween.Tween
	snapTarget   int

	locked bool
	onLoop func()
}

// NewMomentumDriver creates a driver over total sections. onLoop, when
// non-nil, fires every time progress wraps around either end. Zero-valued
// tuning fields fall back to the package defaults.
func NewMomentumDriver(total int, onLoop func()) *MomentumDriver {
	if total < 1 {
		total = 1
	}
	return &MomentumDriver{
		total:         total,
		friction:      defaultFriction,
		snapThreshold: defaultSnapThreshold,
		snapDuration:  defaultSnapDuration,
		snapDisabled:  make([]bool, total),
		snapTarget:    -1,
		onLoop:        onLoop,
	}
}

// SetTuning overrides the physics constants. Non-positive values keep the
// current setting.
func (m *MomentumDriver) SetTuning(friction, snapThreshold, snapDurationSec float64) {
	if friction > 0 && friction < 1 {
		m.friction = friction
	}
	if snapThreshold > 0 {
		m.snapThreshold = snapThreshold
	}
	if snapDurationSec > 0 {
		m.snapDuration = float32(snapDurationSec)
	}
}

// Nudge adds input velocity in sections per frame. A nudge interrupts an
// in-flight snap: user input always wins. Ignored while locked.
func (m *MomentumDriver) Nudge(delta float64) {
	if m.locked {
		return
	}
	if m.snapTween != nil {
		m.snapTween = nil
		m.snapTarget = -1
	}
	m.velocity += delta
}

// SetLocked blocks input while locked (intro sequences). The simulation
// keeps running so an in-flight snap still lands.
func (m *MomentumDriver) SetLocked(locked bool) {
	m.locked = locked
}

// SetSnapDisabled marks a section as exempt from snap-to-section. The
// carousel controller sets this for sections taller than one viewport.
func (m *MomentumDriver) SetSnapDisabled(index int, disabled bool) {
	if index < 0 || index >= m.total {
		return
	}
	m.snapDisabled[index] = disabled
}

// SnapDisabled reports whether a section is exempt from snapping.
func (m *MomentumDriver) SnapDisabled(index int) bool {
	if index < 0 || index >= m.total {
		return false
	}
	return m.snapDisabled[index]
}

// Update advances the simulation by dt seconds.
func (m *MomentumDriver) Update(dt float32) {
	if m.snapTween != nil {
		val, done := m.snapTween.Update(dt)
		m.progress = m.wrap(float64(val))
		if done {
			m.snapTween = nil
			m.snapTarget = -1
			m.velocity = 0
		}
		return
	}

	if m.velocity == 0 {
		return
	}

	// Rescale to the 60fps reference so friction behaves identically at
	// any tick rate.
	frames := float64(dt) * frameRate
	m.progress = m.wrap(m.progress + m.velocity*frames)
	m.velocity *= math.Pow(m.friction, frames)

	if math.Abs(m.velocity) < m.snapThreshold {
		m.velocity = 0
		m.beginSnap()
	}
}

// beginSnap tweens onto the nearest section along the shortest path,
// unless that section has snap disabled.
func (m *MomentumDriver) beginSnap() {
	nearest := math.Round(m.progress)
	index := wrapIndex(int(nearest), m.total)
	if m.snapDisabled[index] {
		return
	}
	// Tween in unwrapped space; wrap applies per frame. nearest may equal
	// total, which wraps to section 0 on arrival.
	m.snapTarget = index
	m.snapTween = gween.New(float32(m.progress), float32(nearest), m.snapDuration, ease.OutCubic)
}

// SnapTo starts an explicit snap to a section index (navigation jumps).
// The shortest circular path is taken. No-op while locked.
func (m *MomentumDriver) SnapTo(index int) {
	if m.locked {
		return
	}
	index = wrapIndex(index, m.total)
	target := float64(index)
	offset := target - m.progress
	if offset > float64(m.total)/2 {
		target -= float64(m.total)
	} else if offset < -float64(m.total)/2 {
		target += float64(m.total)
	}
	m.velocity = 0
	m.snapTarget = index
	m.snapTween = gween.New(float32(m.progress), float32(target), m.snapDuration, ease.OutCubic)
}

// wrap folds p into [0, total), firing the loop callback on crossings.
func (m *MomentumDriver) wrap(p float64) float64 {
	total := float64(m.total)
	looped := false
	for p >= total {
		p -= total
		looped = true
	}
	for p < 0 {
		p += total
		looped = true
	}
	if looped && m.onLoop != nil {
		m.onLoop()
	}
	return p
}

// Progress returns the continuous section index in [0, total).
func (m *MomentumDriver) Progress() float64 { return m.progress }

// Velocity returns the current speed in sections per frame.
func (m *MomentumDriver) Velocity() float64 { return m.velocity }

// SnapTarget returns the section a snap is heading toward, or -1.
func (m *MomentumDriver) SnapTarget() int { return m.snapTarget }

// IsSnapping reports whether a snap tween is in flight.
func (m *MomentumDriver) IsSnapping() bool { return m.snapTween != nil }

// wrapIndex folds an index into [0, total).
func wrapIndex(i, total int) int {
	if total < 1 {
		return 0
	}
	i %= total
	if i < 0 {
		i += total
	}
	return i
}
