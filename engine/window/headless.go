package window

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

// HeadlessHost is an in-memory Host. Its clock only advances through Step, which also runs
// the queued frame callbacks synchronously. The remaining helpers simulate the host events a
// window would produce.
type HeadlessHost struct {
	mu        sync.Mutex
	cfg       hostConfig
	clock     time.Duration
	container *container
	viewport  *viewport
	frames    frameQueue
	surfaces  []*surface
}

var _ Host = &HeadlessHost{}

// NewHeadlessHost creates a headless host. Without options it has an 800x600 container and
// viewport at pixel ratio 1 and reports no memory or cores.
//
// Parameters:
//   - opts: variadic list of HostBuilderOption functions
//
// Returns:
//   - *HeadlessHost: the host
func NewHeadlessHost(opts ...HostBuilderOption) *HeadlessHost {
	cfg := newHostConfig(opts, false)
	h := &HeadlessHost{
		cfg:      cfg,
		viewport: newViewport(cfg.viewportSize, cfg.pixelRatio),
	}
	if !cfg.noContainer {
		h.container = newContainer(cfg.size)
	}
	return h
}

func (h *HeadlessHost) Container() Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.container == nil {
		return nil
	}
	return h.container
}

func (h *HeadlessHost) Viewport() Viewport {
	return h.viewport
}

func (h *HeadlessHost) Capabilities() capability.Snapshot {
	size := h.viewport.Size()
	return capability.Snapshot{
		UserAgent:      h.cfg.userAgent,
		Cores:          h.cfg.cores,
		MemoryGB:       h.cfg.memoryGB,
		ReducedMotion:  h.cfg.reducedMotion,
		ViewportWidth:  size.Width,
		ViewportHeight: size.Height,
		PixelRatio:     h.viewport.PixelRatio(),
	}
}

func (h *HeadlessHost) Now() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock
}

func (h *HeadlessHost) RequestFrame(cb FrameCallback) FrameID {
	return h.frames.request(cb)
}

func (h *HeadlessHost) CancelFrame(id FrameID) {
	h.frames.cancel(id)
}

func (h *HeadlessHost) NewSurface(label string) Surface {
	s := newSurface(label, nil, nil)
	h.mu.Lock()
	h.surfaces = append(h.surfaces, s)
	h.mu.Unlock()
	return s
}

// Surfaces retrieves every surface created by this host, released or not.
func (h *HeadlessHost) Surfaces() []Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Surface, len(h.surfaces))
	for i, s := range h.surfaces {
		out[i] = s
	}
	return out
}

// Step advances the clock by dt and runs the frame callbacks queued before the call.
//
// Parameters:
//   - dt: the time to advance, negative values are treated as zero
//
// Returns:
//   - int: the number of callbacks run
func (h *HeadlessHost) Step(dt time.Duration) int {
	h.mu.Lock()
	if dt > 0 {
		h.clock += dt
	}
	now := h.clock
	h.mu.Unlock()
	return h.frames.run(now)
}

// PendingFrames retrieves the number of queued frame callbacks.
func (h *HeadlessHost) PendingFrames() int {
	return h.frames.len()
}

// ResizeContainer resizes the container and notifies its observers. It is a no-op without
// a container.
func (h *HeadlessHost) ResizeContainer(width, height int) {
	h.mu.Lock()
	c := h.container
	h.mu.Unlock()
	if c != nil {
		c.resize(common.Size{Width: width, Height: height})
	}
}

// ResizeViewport resizes the viewport and dispatches a Resize event.
func (h *HeadlessHost) ResizeViewport(width, height int) {
	h.viewport.dispatch(Event{Kind: EventResize, Size: common.Size{Width: width, Height: height}})
}

// MovePointer dispatches a PointerMove event at viewport coordinates (x, y).
func (h *HeadlessHost) MovePointer(x, y float64) {
	h.viewport.dispatch(Event{Kind: EventPointerMove, X: x, Y: y})
}

// Touch dispatches a TouchMove event for a single touch at viewport coordinates (x, y).
func (h *HeadlessHost) Touch(x, y float64) {
	h.viewport.dispatch(Event{Kind: EventTouchMove, X: x, Y: y})
}

// SetHidden changes the viewport visibility and dispatches a VisibilityChange event.
func (h *HeadlessHost) SetHidden(hidden bool) {
	h.viewport.dispatch(Event{Kind: EventVisibilityChange, Hidden: hidden})
}

// SetPixelRatio changes the viewport pixel ratio without dispatching an event, as a display
// change would.
func (h *HeadlessHost) SetPixelRatio(ratio float64) {
	h.viewport.setPixelRatio(ratio)
}

// RemoveContainer detaches the container from the host. Later Container calls return nil;
// surfaces already attached stay children of the detached container.
func (h *HeadlessHost) RemoveContainer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.container = nil
}
