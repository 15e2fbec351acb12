package drift

import "github.com/hajimehoshi/ebiten/v2"

// EbitenEnvironment adapts an Ebitengine game loop into trigger event
// sources: cursor position becomes pointer events, wheel input becomes
// scroll progress over a virtual page, and Layout dimensions become
// resize events. Call Pump once per game Update and SetViewport from
// Layout.
//
// Container scoping has no meaning in a single-window host, so scoped
// subscriptions all observe the window. Visibility and motion-preference
// sources are deliberately not implemented: triggers for them mount as
// no-ops, which is exactly the degraded behavior the pipeline promises on
// hosts that cannot observe an event source.
type EbitenEnvironment struct {
	*SyntheticEnvironment

	// PageHeight is the virtual scrollable span in pixels that maps wheel
	// travel onto progress [0, 1]. Default 4000.
	PageHeight float64
	// WheelScale is pixels of travel per wheel unit. Default 40.
	WheelScale float64

	scrollY    float64
	lastX      int
	lastY      int
	hasPointer bool
	width      int
	height     int
}

const (
	defaultPageHeight = 4000
	defaultWheelScale = 40
)

// NewEbitenEnvironment creates an adapter with default tuning.
func NewEbitenEnvironment() *EbitenEnvironment {
	return &EbitenEnvironment{
		SyntheticEnvironment: NewSyntheticEnvironment(),
		PageHeight:           defaultPageHeight,
		WheelScale:           defaultWheelScale,
	}
}

// SetViewport records the layout size and dispatches a resize event when
// it changed. Call from the game's Layout.
func (e *EbitenEnvironment) SetViewport(width, height int) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.EmitResize(width, height)
}

// Pump samples ebiten input state and dispatches events for whatever
// changed this frame. Call once per game Update.
func (e *EbitenEnvironment) Pump() {
	x, y := ebiten.CursorPosition()
	if !e.hasPointer || x != e.lastX || y != e.lastY {
		e.hasPointer = true
		e.lastX, e.lastY = x, y
		e.EmitPointerMove(x, y)
	}

	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		e.scrollY -= wheelY * e.wheelScale()
		span := e.PageHeight
		if span <= 0 {
			span = defaultPageHeight
		}
		if e.scrollY < 0 {
			e.scrollY = 0
		}
		if e.scrollY > span {
			e.scrollY = span
		}
		e.EmitScroll("", e.scrollY/span)
	}
}

// WheelDelta returns this frame's wheel travel in sections-per-frame
// velocity terms, for hosts feeding a carousel controller instead of the
// page scroll source. divisor is how many wheel units equal one section;
// 120 suits typical notched wheels.
func (e *EbitenEnvironment) WheelDelta(divisor float64) float64 {
	_, wheelY := ebiten.Wheel()
	if wheelY == 0 || divisor == 0 {
		return 0
	}
	return -wheelY / divisor
}

func (e *EbitenEnvironment) wheelScale() float64 {
	if e.WheelScale <= 0 {
		return defaultWheelScale
	}
	return e.WheelScale
}
