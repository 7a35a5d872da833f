// Package resize keeps the camera, surface and renderer sized to the container.
package resize

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// Resizer is the part of a renderer the coordinator drives.
type Resizer interface {
	Resize(size common.Size) error
}

// coordinator implements the Coordinator interface.
type coordinator struct {
	mu sync.Mutex

	host     window.Host
	surface  window.Surface
	camera   camera.Camera
	renderer Resizer

	ratioCap float64
	onRatio  func(ratio float64)
	logger   common.Logger

	observer window.Observer
	listener window.ListenerID
	viewport window.Viewport
	attached bool
	closed   bool

	ratio   float64
	applied int
}

// Coordinator applies container and viewport size changes.
type Coordinator interface {
	// Attach observes the host's container and listens for viewport resizes. It is a no-op
	// when already attached or closed.
	Attach()

	// Apply sizes everything to w by h logical pixels. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - w: the width in logical pixels
	//   - h: the height in logical pixels
	Apply(w, h int)

	// PixelRatio retrieves the capped pixel ratio used by the last Apply, or 0 before one.
	PixelRatio() float64

	// Applied retrieves the number of sizes applied.
	Applied() int

	// Close disconnects the observer and removes the listener. It is idempotent.
	Close()
}

var _ Coordinator = &coordinator{}

// NewCoordinator creates a detached coordinator.
//
// Parameters:
//   - host: the host whose container and viewport are followed
//   - surface: the surface to size
//   - cam: the camera whose aspect follows the size
//   - r: the renderer, may be nil
//   - options: variadic list of CoordinatorBuilderOption functions
//
// Returns:
//   - Coordinator: the coordinator
func NewCoordinator(host window.Host, surface window.Surface, cam camera.Camera, r Resizer, options ...CoordinatorBuilderOption) Coordinator {
	if host == nil || surface == nil || cam == nil {
		panic("resize: host, surface and camera are required")
	}
	c := &coordinator{
		host:     host,
		surface:  surface,
		camera:   cam,
		renderer: r,
		ratioCap: math.Inf(1),
		logger:   common.NopLogger(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *coordinator) Attach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached || c.closed {
		return
	}
	c.attached = true

	if container := c.host.Container(); container != nil {
		c.observer = container.ObserveResize(func(size common.Size) {
			c.Apply(size.Width, size.Height)
		})
	}
	c.viewport = c.host.Viewport()
	if c.viewport != nil {
		c.listener = c.viewport.AddListener(window.EventResize, c.onViewportResize)
	}
}

func (c *coordinator) onViewportResize(e window.Event) {
	size := e.Size
	if container := c.host.Container(); container != nil {
		if cs := container.Size(); cs.Valid() {
			size = cs
		}
	}
	c.Apply(size.Width, size.Height)
}

func (c *coordinator) Apply(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ratio := 1.0
	if v := c.host.Viewport(); v != nil && v.PixelRatio() > 0 {
		ratio = v.PixelRatio()
	}
	ratio = math.Min(ratio, c.ratioCap)
	c.ratio = ratio
	c.applied++
	onRatio := c.onRatio
	c.mu.Unlock()

	c.camera.SetAspect(float32(w) / float32(h))
	c.surface.SetSize(w, h)

	buffer := common.ScaleSize(common.Size{Width: w, Height: h}, ratio)
	c.surface.SetBufferSize(buffer.Width, buffer.Height)
	if c.renderer != nil {
		if err := c.renderer.Resize(buffer); err != nil {
			c.logger.Warnf("resize to %dx%d failed: %v", buffer.Width, buffer.Height, err)
		}
	}
	if onRatio != nil {
		onRatio(ratio)
	}
}

func (c *coordinator) PixelRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ratio
}

func (c *coordinator) Applied() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

func (c *coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	observer, viewport, listener := c.observer, c.viewport, c.listener
	c.observer, c.viewport = nil, nil
	c.mu.Unlock()

	if observer != nil {
		observer.Disconnect()
	}
	if viewport != nil {
		viewport.RemoveListener(listener)
	}
}
