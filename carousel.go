package drift

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SectionMetrics is one section's measured layout.
type SectionMetrics struct {
	// WrapperHeight is the section wrapper's own height in pixels.
	WrapperHeight float64
	// ContentHeight is the tallest descendant's height in pixels; taller
	// than the wrapper when content overflows.
	ContentHeight float64
}

// Section is one carousel section as the host exposes it: a var-write
// target that can identify and measure itself. Hosts locate sections by
// data-section-id and hand them over in document order.
type Section interface {
	Target
	ID() string
	// Hidden sections (display:none via layout rules) are skipped at
	// discovery time.
	Hidden() bool
	Measure() SectionMetrics
}

// Document is the host container a carousel controller mounts against.
type Document interface {
	Sections() []Section
	ViewportHeight() float64
}

// heightInfo is a section's height classification relative to one
// viewport. Sections with extra > 0 get the two-phase transition: an
// internal-scroll phase revealing the overflow, then the clip wipe over
// the final viewport-equivalent.
type heightInfo struct {
	// ratio is max(wrapper, content) / viewport, floored at 1.
	ratio float64
	// extra is the overflow beyond one viewport, in viewport units.
	extra float64
	// clipStart is the in-section progress where the clip phase begins:
	// extra/ratio when there is overflow, else 0.
	clipStart float64
}

// classifyHeight computes a section's height classification. Degenerate
// measurements (zero viewport or section) classify as exactly one
// viewport tall.
func classifyHeight(m SectionMetrics, viewportH float64) heightInfo {
	h := math.Max(m.WrapperHeight, m.ContentHeight)
	if viewportH <= 0 || h <= 0 {
		return heightInfo{ratio: 1}
	}
	ratio := h / viewportH
	if ratio < 1 {
		ratio = 1
	}
	extra := ratio - 1
	info := heightInfo{ratio: ratio, extra: extra}
	if extra > 0 {
		info.clipStart = extra / ratio
	}
	return info
}

// Carousel z-index bands: the outgoing section must sit above the
// incoming one so the clip wipe visually peels it away, and far sections
// sit beneath everything.
const (
	zFar      = 1
	zIncoming = 2
	zCurrent  = 3
)

// SectionFrame is one section's visual state for one frame of the
// carousel: a translate/clip pair plus stacking and visibility.
type SectionFrame struct {
	// Offset is the section's wrapped distance from the scroll position,
	// always within [-total/2, total/2].
	Offset float64
	// TranslateY is the vertical translation in viewport-height units.
	TranslateY float64
	// ClipTop is the top clip-path inset in percent, 0 (unclipped) to 100
	// (fully wiped).
	ClipTop float64
	ZIndex  int
	// Visible is false for sections outside the [-1, 1] window; hosts
	// toggle visibility off for them so far sections cost nothing.
	Visible bool
}

// clipProgressAt returns the clip-phase progress for in-section progress
// p under h: 0 through the internal-scroll phase, then a linear remap of
// [clipStart, 1] onto [0, 1].
func clipProgressAt(p float64, h heightInfo) float64 {
	if p <= h.clipStart {
		return 0
	}
	return clamp01((p - h.clipStart) / (1 - h.clipStart))
}

// carouselFrame computes every section's frame for a continuous scroll
// position in [0, total). One frame per section, always:
//
//  1. The current section (offset in [-1, 0]) translates upward through
//     its internal-scroll phase, then clips away top-down while holding
//     its translation.
//  2. The incoming section (offset in (0, 1]) waits at 50vh until the
//     current section's clip phase begins, then rides it in to 0.
//  3. Everything else parks hidden at 50vh beneath the action.
//
// Offsets wrap to the shortest circular path, so with 4 sections and
// progress 3.9 section 0 is incoming at offset 0.1, not far at -3.9.
func carouselFrame(progress float64, heights []heightInfo) []SectionFrame {
	total := len(heights)
	frames := make([]SectionFrame, total)
	if total == 0 {
		return frames
	}

	currentIndex := int(math.Floor(progress))
	if currentIndex >= total {
		currentIndex = total - 1
	}
	inSection := progress - float64(currentIndex)
	clip := clipProgressAt(inSection, heights[currentIndex])

	for i := range frames {
		offset := float64(i) - progress
		half := float64(total) / 2
		if offset > half {
			offset -= float64(total)
		} else if offset < -half {
			offset += float64(total)
		}

		f := SectionFrame{Offset: offset}
		switch {
		case offset >= -1 && offset <= 0:
			// Current/outgoing: translate-then-clip against its own
			// height classification.
			h := heights[i]
			p := -offset
			if p < h.clipStart {
				f.TranslateY = -(p / h.clipStart) * h.extra * 100
			} else {
				f.TranslateY = -h.extra * 100
				f.ClipTop = clipProgressAt(p, h) * 100
			}
			f.ZIndex = zCurrent
			f.Visible = true
		case offset > 0 && offset <= 1:
			// Incoming: parked at 50vh while the current section is
			// internal-scrolling (clip 0), then translated in with the
			// wipe.
			f.TranslateY = (1 - clip) * 50
			f.ZIndex = zIncoming
			f.Visible = true
		default:
			f.TranslateY = 50
			f.ZIndex = zFar
			f.Visible = false
		}
		frames[i] = f
	}
	return frames
}

// CarouselOptions tunes a carousel controller. The zero value uses the
// package defaults.
type CarouselOptions struct {
	// SettleDelay is how long after first measurement the controller
	// stays in the intro phase. Default 300ms.
	SettleDelay time.Duration
	// ResizeDebounce is the quiet window before a layout change triggers
	// re-measurement. Default 250ms.
	ResizeDebounce time.Duration
	// Friction, SnapThreshold, SnapDuration override the momentum
	// defaults when positive.
	Friction      float64
	SnapThreshold float64
	SnapDuration  time.Duration
}

const (
	defaultSettleDelay    = 300 * time.Millisecond
	defaultResizeDebounce = 250 * time.Millisecond
)

// CarouselController drives the infinite-carousel presentation: it
// discovers sections, classifies their heights, runs the momentum driver,
// and writes each section's per-frame transform state as CSS custom
// properties. Writes go straight to the Section targets every frame;
// nothing here participates in a declarative render cycle.
//
// Create one per mounted carousel, pump Update once per frame, and call
// Destroy on unmount — skipping Destroy leaks the resize subscription and
// any pending timers.
type CarouselController struct {
	mu sync.Mutex

	store    *Store
	doc      Document
	sections []Section
	heights  []heightInfo
	momentum *MomentumDriver
	opts     CarouselOptions

	inert     bool
	destroyed bool
	ready     bool
	hasLooped bool

	settleTimer  *time.Timer
	remeasure    *time.Timer
	resizeCancel func()
}

// NewCarouselController mounts a controller against doc. With no visible
// sections the controller is inert: a logged warning, no driver, and
// every method a no-op — the degraded form of "expected DOM state is
// absent". env may be nil; when it implements ResizeSource the controller
// re-measures on layout changes automatically.
func NewCarouselController(store *Store, doc Document, env Environment, opts CarouselOptions) *CarouselController {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = defaultResizeDebounce
	}

	c := &CarouselController{store: store, doc: doc, opts: opts}

	var sections []Section
	if doc != nil {
		for _, s := range doc.Sections() {
			if s.Hidden() {
				continue
			}
			sections = append(sections, s)
		}
	}
	if len(sections) == 0 {
		logger.Warn().Msg("carousel mount found no visible sections, controller inert")
		c.inert = true
		return c
	}
	c.sections = sections

	c.momentum = NewMomentumDriver(len(sections), func() {
		c.hasLooped = true
	})
	c.momentum.SetTuning(opts.Friction, opts.SnapThreshold, opts.SnapDuration.Seconds())
	c.momentum.SetLocked(true)

	pinned := c.measure()
	c.publishPinned(pinned)

	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID()
	}
	store.Update(func(s *State) {
		if car, ok := s.Carousel(); ok {
			car.SectionIDs = ids
			car.Phase = PhaseIntro
			car.SnapTarget = -1
		}
		if nav, ok := s.Navigation(); ok {
			nav.TotalSections = len(ids)
			nav.IsLocked = true
		}
	})

	if src, ok := env.(ResizeSource); ok {
		c.resizeCancel = src.OnResize(func(_, _ int) {
			c.NotifyLayoutChanged()
		})
	}

	c.settleTimer = time.AfterFunc(opts.SettleDelay, c.becomeReady)
	return c
}

// Inert reports whether the controller mounted without sections and does
// nothing.
func (c *CarouselController) Inert() bool { return c.inert }

// becomeReady performs the one-way intro -> ready transition.
func (c *CarouselController) becomeReady() {
	c.mu.Lock()
	if c.destroyed || c.inert || c.ready {
		c.mu.Unlock()
		return
	}
	c.ready = true
	c.momentum.SetLocked(false)
	c.mu.Unlock()

	c.store.Update(func(s *State) {
		if car, ok := s.Carousel(); ok {
			car.Phase = PhaseReady
		}
		if nav, ok := s.Navigation(); ok {
			nav.IsLocked = false
		}
	})
}

// measure classifies every section's height against the current viewport
// and feeds snap exemptions to the momentum driver. Returns the oversized
// section indices; callers publish them to the store after releasing the
// controller lock so store fan-out never runs under it.
func (c *CarouselController) measure() (pinned []int) {
	viewport := c.doc.ViewportHeight()
	heights := make([]heightInfo, len(c.sections))
	for i, s := range c.sections {
		heights[i] = classifyHeight(s.Measure(), viewport)
	}
	c.heights = heights

	for i, h := range heights {
		oversized := h.extra > 0
		c.momentum.SetSnapDisabled(i, oversized)
		if oversized {
			pinned = append(pinned, i)
		}
	}
	return pinned
}

// publishPinned records the snap-exempt sections in the store.
func (c *CarouselController) publishPinned(pinned []int) {
	c.store.Update(func(s *State) {
		if car, ok := s.Carousel(); ok {
			car.PinnedSections = pinned
		}
	})
}

// NotifyLayoutChanged schedules a debounced re-measurement. Hosts call it
// when section layout may have changed (images loading, breakpoint
// crossings); resize events arrive here automatically when the
// environment supports them.
func (c *CarouselController) NotifyLayoutChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inert || c.destroyed {
		return
	}
	if c.remeasure != nil {
		c.remeasure.Stop()
	}
	c.remeasure = time.AfterFunc(c.opts.ResizeDebounce, func() {
		c.mu.Lock()
		if c.inert || c.destroyed {
			c.mu.Unlock()
			return
		}
		pinned := c.measure()
		c.mu.Unlock()
		c.publishPinned(pinned)
	})
}

// Nudge feeds input velocity (sections per frame) into the momentum
// driver, recording what kind of input drove it. Ignored while the store
// is locked or the controller is inert.
func (c *CarouselController) Nudge(delta float64, inputType string) {
	c.mu.Lock()
	if c.inert || c.destroyed {
		c.mu.Unlock()
		return
	}
	snap := c.store.State()
	if nav, ok := snap.Navigation(); ok && nav.IsLocked {
		c.mu.Unlock()
		return
	}
	c.momentum.Nudge(delta)
	c.mu.Unlock()

	c.store.Update(func(s *State) {
		if nav, ok := s.Navigation(); ok {
			nav.LastInputType = inputType
		}
	})
}

// SnapTo navigates to a section index along the shortest circular path.
func (c *CarouselController) SnapTo(index int, inputType string) {
	c.mu.Lock()
	if c.inert || c.destroyed {
		c.mu.Unlock()
		return
	}
	c.momentum.SnapTo(index)
	c.mu.Unlock()

	c.store.Update(func(s *State) {
		if nav, ok := s.Navigation(); ok {
			nav.LastInputType = inputType
		}
	})
}

// Update advances the simulation by dt seconds, writes every section's
// frame vars, and publishes the carousel fields into the store. Call once
// per host frame.
func (c *CarouselController) Update(dt float32) {
	c.mu.Lock()
	if c.inert || c.destroyed {
		c.mu.Unlock()
		return
	}

	c.momentum.Update(dt)
	progress := c.momentum.Progress()
	frames := carouselFrame(progress, c.heights)
	for i, f := range frames {
		c.applyFrame(c.sections[i], f)
	}

	total := len(c.sections)
	currentIndex := wrapIndex(int(math.Floor(progress)), total)
	inSection := progress - math.Floor(progress)
	clip := clipProgressAt(inSection, c.heights[currentIndex])
	velocity := c.momentum.Velocity()
	snapTarget := c.momentum.SnapTarget()
	snapping := c.momentum.IsSnapping()
	looped := c.hasLooped
	c.mu.Unlock()

	c.store.Update(func(s *State) {
		s.Experience.ScrollProgress = progress
		nav, okNav := s.Navigation()
		car, okCar := s.Carousel()
		if okNav {
			if currentIndex != nav.ActiveSection {
				nav.PreviousSection = nav.ActiveSection
				nav.ActiveSection = currentIndex
			}
			nav.IsTransitioning = inSection > 1e-4 || snapping
			nav.TransitionProgress = inSection
			switch {
			case !nav.IsTransitioning:
				nav.TransitionDirection = DirectionNone
			case velocity < 0:
				nav.TransitionDirection = DirectionBackward
			default:
				nav.TransitionDirection = DirectionForward
			}
		}
		if okCar {
			car.Velocity = velocity
			car.SnapTarget = snapTarget
			car.IsSnapping = snapping
			car.ClipProgress = clip
			car.HasLooped = looped
		}
	})
}

// applyFrame writes one section's frame as CSS custom properties.
func (c *CarouselController) applyFrame(s Section, f SectionFrame) {
	s.SetVar("--carousel-y", fmt.Sprintf("%.3fvh", f.TranslateY))
	s.SetVar("--carousel-clip", fmt.Sprintf("%.2f%%", f.ClipTop))
	s.SetVar("--carousel-z", fmt.Sprintf("%d", f.ZIndex))
	if f.Visible {
		s.SetVar("--carousel-visibility", "visible")
	} else {
		s.SetVar("--carousel-visibility", "hidden")
	}
}

// Destroy releases everything: timers, the resize subscription, and the
// section set. Idempotent; the controller is inert afterwards.
func (c *CarouselController) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}
	if c.remeasure != nil {
		c.remeasure.Stop()
		c.remeasure = nil
	}
	cancel := c.resizeCancel
	c.resizeCancel = nil
	c.sections = nil
	c.heights = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
