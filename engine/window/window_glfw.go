package window

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// GLFWHost is a Host backed by a desktop window. The window's content area is the container
// and the viewport; the framebuffer to window size ratio is the pixel ratio.
//
// GLFW must be driven from the thread that created it, so NewGLFWHost, Run and Close must
// be called from the same goroutine.
type GLFWHost struct {
	cfg       hostConfig
	window    *glfw.Window
	container *container
	viewport  *viewport
	frames    frameQueue
	start     time.Time

	quit      chan struct{}
	quitOnce  sync.Once
	closeOnce sync.Once
}

var _ Host = &GLFWHost{}

// NewGLFWHost creates the window and registers its callbacks. The reduced-motion and device
// memory signals may be overridden with the OXY_REDUCED_MOTION and OXY_DEVICE_MEMORY_GB
// environment variables.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
//
// Parameters:
//   - opts: variadic list of HostBuilderOption functions
//
// Returns:
//   - *GLFWHost: the host
//   - error: when GLFW cannot be initialized or the window cannot be created
func NewGLFWHost(opts ...HostBuilderOption) (*GLFWHost, error) {
	runtime.LockOSThread()

	cfg := newHostConfig(opts, true)

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(cfg.size.Width, cfg.size.Height, cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	width, height := win.GetSize()
	size := common.Size{Width: width, Height: height}
	h := &GLFWHost{
		cfg:       cfg,
		window:    win,
		container: newContainer(size),
		viewport:  newViewport(size, framebufferRatio(win, cfg.pixelRatio)),
		start:     time.Now(),
		quit:      make(chan struct{}),
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			h.Quit()
		}
	})

	// The window size is in screen coordinates, the logical size the scene is laid out in.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetSizeCallback
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		size := common.Size{Width: width, Height: height}
		h.container.resize(size)
		h.viewport.dispatch(Event{Kind: EventResize, Size: size})
	})

	// On high-DPI displays the framebuffer is larger than the window, which is the pixel ratio.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(w *glfw.Window, _, _ int) {
		h.viewport.setPixelRatio(framebufferRatio(w, h.cfg.pixelRatio))
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		h.viewport.dispatch(Event{Kind: EventPointerMove, X: xpos, Y: ypos})
	})

	// A minimized window is the desktop equivalent of a hidden page.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetIconifyCallback
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		h.viewport.dispatch(Event{Kind: EventVisibilityChange, Hidden: iconified})
	})

	return h, nil
}

// framebufferRatio derives the pixel ratio from the framebuffer and window sizes, falling back
// to the configured ratio while the window is minimized.
func framebufferRatio(win *glfw.Window, fallback float64) float64 {
	w, _ := win.GetSize()
	fw, _ := win.GetFramebufferSize()
	if w <= 0 || fw <= 0 {
		return fallback
	}
	return float64(fw) / float64(w)
}

func (h *GLFWHost) Container() Container {
	return h.container
}

func (h *GLFWHost) Viewport() Viewport {
	return h.viewport
}

func (h *GLFWHost) Capabilities() capability.Snapshot {
	size := h.viewport.Size()
	ua := h.cfg.userAgent
	if ua == "" {
		ua = "oxy-backdrop (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
	}
	cores := h.cfg.cores
	if cores == 0 {
		cores = runtime.NumCPU()
	}
	return capability.Snapshot{
		UserAgent:      ua,
		Cores:          cores,
		MemoryGB:       h.cfg.memoryGB,
		ReducedMotion:  h.cfg.reducedMotion,
		ViewportWidth:  size.Width,
		ViewportHeight: size.Height,
		PixelRatio:     h.viewport.PixelRatio(),
	}
}

func (h *GLFWHost) Now() time.Duration {
	return time.Since(h.start)
}

func (h *GLFWHost) RequestFrame(cb FrameCallback) FrameID {
	return h.frames.request(cb)
}

func (h *GLFWHost) CancelFrame(id FrameID) {
	h.frames.cancel(id)
}

// NewSurface creates a surface backed by the window. Every surface of a GLFWHost presents to
// the same window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (h *GLFWHost) NewSurface(label string) Surface {
	return newSurface(label, func() *wgpu.SurfaceDescriptor {
		return wgpuglfw.GetSurfaceDescriptor(h.window)
	}, nil)
}

// Run polls window events and runs queued frame callbacks on every tick of the frame-rate
// ticker until the window is closed or Quit is called.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func (h *GLFWHost) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-ticker.C:
			glfw.PollEvents()
			if h.window.ShouldClose() {
				h.Quit()
				return
			}
			h.frames.run(h.Now())
		}
	}
}

// Quit stops Run. It is safe to call more than once and from any goroutine.
func (h *GLFWHost) Quit() {
	h.quitOnce.Do(func() {
		close(h.quit)
	})
}

// Done is closed once Run has been asked to stop.
func (h *GLFWHost) Done() <-chan struct{} {
	return h.quit
}

// Close stops Run, destroys the window and terminates GLFW. Calling it more than once is a
// no-op.
func (h *GLFWHost) Close() {
	h.Quit()
	h.closeOnce.Do(func() {
		h.window.SetShouldClose(true)
		h.window.Destroy()
		glfw.Terminate()
	})
}
