// Package window abstracts the host an engine instance draws into: a container the output
// surface is attached to, a viewport that emits input and visibility events, a frame callback
// queue and an environment capability snapshot.
//
// Two hosts are provided. The glfw host drives a desktop window; the headless host keeps
// everything in memory with a virtual clock so engines can be exercised without a display.
package window

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// ErrReleased is returned when a surface is released a second time.
var ErrReleased = errors.New("window: surface already released")

// EventKind identifies a viewport event.
type EventKind int

const (
	EventResize EventKind = iota
	EventPointerMove
	EventTouchMove
	EventVisibilityChange
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventPointerMove:
		return "pointermove"
	case EventTouchMove:
		return "touchmove"
	case EventVisibilityChange:
		return "visibilitychange"
	default:
		return "unknown"
	}
}

// Event is delivered to viewport listeners. X and Y are viewport coordinates for pointer and
// touch events, Size is the new viewport size for resize events and Hidden is the visibility
// after a visibility change.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Size   common.Size
	Hidden bool
}

// Listener receives viewport events.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

// FrameCallback is run once per requested frame with the host's monotonic time.
type FrameCallback func(now time.Duration)

// FrameID identifies a requested frame.
type FrameID uint64

// Host is the environment an engine instance runs in.
type Host interface {
	// Container retrieves the element the output surface is attached to.
	//
	// Returns:
	//   - Container: the container, or nil when the host has none
	Container() Container

	// Viewport retrieves the viewport that emits resize, pointer and visibility events.
	//
	// Returns:
	//   - Viewport: the viewport
	Viewport() Viewport

	// Capabilities queries the environment signals used to size the scene.
	//
	// Returns:
	//   - capability.Snapshot: the current signals, zero values meaning "not reported"
	Capabilities() capability.Snapshot

	// Now retrieves the host's monotonic clock.
	Now() time.Duration

	// RequestFrame queues a callback for the next frame. Callbacks requested while frames are
	// being run are queued for the frame after.
	//
	// Parameters:
	//   - cb: the callback
	//
	// Returns:
	//   - FrameID: an id that can be passed to CancelFrame
	RequestFrame(cb FrameCallback) FrameID

	// CancelFrame removes a queued callback. Unknown ids are ignored.
	CancelFrame(id FrameID)

	// NewSurface creates an output surface. It is not attached to any container.
	//
	// Parameters:
	//   - label: a label used in logs
	//
	// Returns:
	//   - Surface: the new surface
	NewSurface(label string) Surface
}

// Container holds output surfaces and reports its size.
type Container interface {
	// Size retrieves the container's size in logical pixels.
	Size() common.Size

	// AppendChild attaches a surface. Attaching a surface that is already a child is a no-op.
	AppendChild(s Surface)

	// RemoveChild detaches a surface.
	//
	// Parameters:
	//   - s: the surface to detach
	//
	// Returns:
	//   - bool: whether the surface was a child
	RemoveChild(s Surface) bool

	// Children retrieves the attached surfaces in attach order.
	Children() []Surface

	// ObserveResize registers a function called with the new size whenever the container
	// is resized.
	//
	// Parameters:
	//   - fn: the observer function
	//
	// Returns:
	//   - Observer: a handle that disconnects the observer
	ObserveResize(fn func(common.Size)) Observer

	// ObserverCount retrieves the number of connected resize observers.
	ObserverCount() int
}

// Observer is a connected container resize observer.
type Observer interface {
	// Disconnect stops delivery. Calling it more than once is a no-op.
	Disconnect()
}

// Surface is an output surface the renderer draws into.
type Surface interface {
	ID() uuid.UUID
	Label() string

	// Size retrieves the logical size the surface is displayed at.
	Size() common.Size

	// BufferSize retrieves the physical size of the drawing buffer.
	BufferSize() common.Size

	SetSize(width, height int)
	SetBufferSize(width, height int)

	// Parent retrieves the container the surface is attached to, or nil.
	Parent() Container

	Interactive() bool
	SetInteractive(interactive bool)
	AccessibilityHidden() bool
	SetAccessibilityHidden(hidden bool)

	// Descriptor retrieves the wgpu surface descriptor backing this surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil for surfaces without a native window
	Descriptor() *wgpu.SurfaceDescriptor

	// Release frees the surface. It does not detach it from its container.
	//
	// Returns:
	//   - error: ErrReleased when called a second time
	Release() error
	Released() bool
}

// Viewport emits events and reports the visible area of the host.
type Viewport interface {
	// Size retrieves the viewport's size in logical pixels.
	Size() common.Size

	// PixelRatio retrieves the ratio of physical to logical pixels.
	PixelRatio() float64

	// Hidden reports whether the viewport is currently not visible.
	Hidden() bool

	// AddListener registers a listener for one event kind.
	//
	// Parameters:
	//   - kind: the event kind
	//   - l: the listener
	//
	// Returns:
	//   - ListenerID: an id for RemoveListener
	AddListener(kind EventKind, l Listener) ListenerID

	// RemoveListener unregisters a listener.
	//
	// Returns:
	//   - bool: whether the listener was registered
	RemoveListener(id ListenerID) bool

	// ListenerCount retrieves the number of registered listeners of every kind.
	ListenerCount() int
}
