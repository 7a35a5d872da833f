// Package parallax maps pointer and touch positions to a smoothed camera offset.
package parallax

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSmoothing is the fraction of the remaining distance the smoothed pointer covers per step.
const DefaultSmoothing = 0.06

// DefaultReducedAmplitude scales the amplitude in ModeReduced.
const DefaultReducedAmplitude = 0.5

// Mode selects how strongly the tracker reacts to input.
type Mode int

const (
	ModeFull Mode = iota
	// ModeReduced scales the amplitude by the reduced amplitude factor.
	ModeReduced
	// ModeDisabled never attaches listeners; the camera rests at its base position.
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeReduced:
		return "reduced"
	case ModeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Follow selects how the camera position follows the offset.
type Follow int

const (
	// FollowDirect places the camera at base + offset every step.
	FollowDirect Follow = iota
	// FollowLerp moves the camera toward base + offset by the follow rate every step.
	FollowLerp
)

// tracker is the implementation of the Tracker interface.
type tracker struct {
	mu sync.Mutex

	base   mgl32.Vec3
	target mgl32.Vec3

	smoothing        float32
	amplitude        mgl32.Vec2
	reducedAmplitude float32
	invertY          bool
	mode             Mode
	follow           Follow
	followRate       float32

	raw      mgl32.Vec2
	smoothed mgl32.Vec2
	position mgl32.Vec3

	viewport  window.Viewport
	listeners []window.ListenerID
}

// Tracker turns pointer movement into a camera offset. It implements camera.Controller, so a
// camera attached to it follows the offset on every Update.
type Tracker interface {
	camera.Controller

	// Attach registers pointer and touch listeners on the viewport. It is a no-op in
	// ModeDisabled or when already attached.
	//
	// Parameters:
	//   - v: the viewport to listen on
	Attach(v window.Viewport)

	// Detach removes the listeners added by Attach. Calling it more than once is a no-op.
	Detach()

	// Attached reports whether listeners are registered.
	Attached() bool

	// Handle feeds a pointer or touch position in viewport coordinates. Each axis is
	// normalized to [-1, 1] against the viewport size.
	//
	// Parameters:
	//   - x: the horizontal position
	//   - y: the vertical position
	//   - width: the viewport width
	//   - height: the viewport height
	Handle(x, y float64, width, height int)

	// Step advances the smoothing by one frame and moves the camera position.
	Step()

	// Raw retrieves the latest normalized input.
	Raw() mgl32.Vec2

	// Smoothed retrieves the smoothed input.
	Smoothed() mgl32.Vec2

	// Offset retrieves the smoothed input scaled by the effective amplitude.
	Offset() mgl32.Vec2

	// Mode retrieves the tracker's mode.
	Mode() Mode
}

var _ Tracker = &tracker{}

// NewTracker creates a tracker resting at base and looking at target. Without options it is
// in ModeFull, follows directly, smooths by DefaultSmoothing and has a zero amplitude.
//
// Parameters:
//   - base: the camera position at rest
//   - target: the fixed look-at point
//   - options: variadic list of TrackerBuilderOption functions
//
// Returns:
//   - Tracker: the tracker
func NewTracker(base, target mgl32.Vec3, options ...TrackerBuilderOption) Tracker {
	t := &tracker{
		base:             base,
		target:           target,
		position:         base,
		smoothing:        DefaultSmoothing,
		reducedAmplitude: DefaultReducedAmplitude,
		mode:             ModeFull,
		follow:           FollowDirect,
		followRate:       DefaultSmoothing,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *tracker) Attach(v window.Viewport) {
	if v == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode == ModeDisabled || t.viewport != nil {
		return
	}

	handler := func(e window.Event) {
		size := v.Size()
		t.Handle(e.X, e.Y, size.Width, size.Height)
	}
	t.viewport = v
	t.listeners = []window.ListenerID{
		v.AddListener(window.EventPointerMove, handler),
		v.AddListener(window.EventTouchMove, handler),
	}
}

func (t *tracker) Detach() {
	t.mu.Lock()
	v, ids := t.viewport, t.listeners
	t.viewport, t.listeners = nil, nil
	t.mu.Unlock()

	if v == nil {
		return
	}
	for _, id := range ids {
		v.RemoveListener(id)
	}
}

func (t *tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport != nil
}

func (t *tracker) Handle(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	nx := float32(x/float64(width))*2 - 1
	ny := float32(y/float64(height))*2 - 1
	if t.invertY {
		ny = -ny
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.raw = mgl32.Vec2{nx, ny}
}

func (t *tracker) Step() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.smoothed = t.smoothed.Add(t.raw.Sub(t.smoothed).Mul(t.smoothing))
	off := t.offset()
	goal := t.base.Add(mgl32.Vec3{off.X(), off.Y(), 0})

	switch t.follow {
	case FollowLerp:
		t.position = t.position.Add(goal.Sub(t.position).Mul(t.followRate))
	default:
		t.position = goal
	}
}

// offset scales the smoothed input. Caller must hold the mutex.
func (t *tracker) offset() mgl32.Vec2 {
	amp := t.amplitude
	if t.mode == ModeReduced {
		amp = amp.Mul(t.reducedAmplitude)
	}
	return mgl32.Vec2{t.smoothed.X() * amp.X(), t.smoothed.Y() * amp.Y()}
}

func (t *tracker) Raw() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.raw
}

func (t *tracker) Smoothed() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.smoothed
}

func (t *tracker) Offset() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset()
}

func (t *tracker) Mode() Mode {
	return t.mode
}

func (t *tracker) Position() mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

func (t *tracker) Target() mgl32.Vec3 {
	return t.target
}
