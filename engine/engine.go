// Package engine mounts an animated backdrop preset onto a host and owns everything it
// creates until the returned handle is cleaned up.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/parallax"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/resize"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/google/uuid"
)

// engine holds the mount options. It lives only for the duration of Mount.
type engine struct {
	kind   preset.Kind
	config preset.Config

	seed   uint32
	seeded bool
	random geometry.Random

	backend         renderer.BackendType
	backendSet      bool
	rendererOptions []renderer.RendererBuilderOption

	logger           common.Logger
	profilingEnabled bool
}

// Handle controls a mounted backdrop.
type Handle interface {
	// Cleanup stops the animation and releases every resource in teardown order. It is
	// idempotent and never panics.
	Cleanup()

	// ID retrieves the instance identifier, the zero UUID for an inert handle.
	ID() uuid.UUID

	// Inert reports whether nothing was mounted.
	Inert() bool

	// Kind retrieves the mounted preset kind.
	Kind() preset.Kind

	// Tier retrieves the resolved quality tier.
	Tier() capability.Tier

	// Budget retrieves the resolved element budget.
	Budget() int

	// Estimate retrieves the full capability estimate the scene was built from.
	Estimate() capability.Estimate

	// Scene retrieves the scene graph, nil for an inert handle.
	Scene() scene.Scene

	// Camera retrieves the camera, nil for an inert handle.
	Camera() camera.Camera

	// Surface retrieves the output surface, nil for an inert handle.
	Surface() window.Surface

	// Frames retrieves the number of frames drawn so far.
	Frames() uint64

	// Err retrieves the joined release failures of the teardown, nil before Cleanup.
	Err() error
}

// handle is the Handle of a mounted backdrop.
type handle struct {
	id       uuid.UUID
	kind     preset.Kind
	estimate capability.Estimate
	layers   *preset.Layers
	camera   camera.Camera
	surface  window.Surface
	sched    scheduler.Scheduler
	lm       lifecycle.Manager
	logger   common.Logger
	once     sync.Once
	frames   atomic.Uint64
}

var _ Handle = &handle{}

// Mount builds the configured preset into the host's container and starts animating it.
// Failures never escape: a missing container, an unusable renderer or a failed build is
// logged, whatever was already created is released, and an inert handle is returned.
//
// Parameters:
//   - host: the host to draw into
//   - options: variadic list of EngineBuilderOption functions
//
// Returns:
//   - Handle: the handle of the mounted backdrop, or an inert one
func Mount(host window.Host, options ...EngineBuilderOption) (h Handle) {
	e := &engine{
		kind:   preset.KindNight,
		config: preset.DefaultConfig(),
		logger: common.NopLogger(),
	}
	for _, opt := range options {
		opt(e)
	}

	if host == nil {
		e.logger.Warnf("engine: no host, backdrop disabled")
		return inert{}
	}
	container := host.Container()
	if container == nil {
		e.logger.Warnf("engine: container not found, backdrop disabled")
		return inert{}
	}

	lm := lifecycle.NewManager(lifecycle.WithLogger(e.logger))
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("engine: mount panicked: %v", r)
			_ = lm.Teardown()
			h = inert{}
		}
	}()

	mounted, err := e.mount(host, container, lm)
	if err != nil {
		e.logger.Errorf("engine: %v", err)
		_ = lm.Teardown()
		return inert{}
	}
	return mounted
}

// mount creates every component, registering each with the lifecycle manager as soon as it
// exists so a later failure still releases it.
func (e *engine) mount(host window.Host, container window.Container, lm lifecycle.Manager) (*handle, error) {
	p, err := preset.New(e.kind)
	if err != nil {
		return nil, err
	}
	cfg := e.config.Normalize()

	snap := host.Capabilities()
	if snap.ViewportWidth <= 0 || snap.ViewportHeight <= 0 {
		size := container.Size()
		snap.ViewportWidth, snap.ViewportHeight = size.Width, size.Height
	}
	est := capability.Resolve(snap, p.Policy(), cfg.MobileBreakpointPx)

	h := &handle{
		id:       uuid.New(),
		kind:     p.Kind(),
		estimate: est,
		lm:       lm,
		logger:   e.logger,
	}

	surface := host.NewSurface(fmt.Sprintf("oxy-backdrop-%s", p.Kind()))
	surface.SetInteractive(false)
	surface.SetAccessibilityHidden(true)
	container.AppendChild(surface)
	lm.Register(lifecycle.StageSurface, "surface", func() error {
		container.RemoveChild(surface)
		return surface.Release()
	})
	h.surface = surface

	backend := e.backend
	if !e.backendSet {
		backend = renderer.BackendTypeWGPU
		if surface.Descriptor() == nil {
			backend = renderer.BackendTypeHeadless
		}
	}
	r, err := renderer.NewRenderer(backend, surface, append([]renderer.RendererBuilderOption{renderer.WithLogger(e.logger)}, e.rendererOptions...)...)
	if err != nil {
		return nil, err
	}
	lm.Register(lifecycle.StageContext, "renderer", r.Release)

	spec := p.Camera()
	tracker := parallax.NewTracker(spec.Position, spec.Target, p.Parallax().Options(est)...)
	size := container.Size()
	if !size.Valid() {
		size = host.Viewport().Size()
	}
	camOpts := []camera.CameraBuilderOption{
		camera.WithFov(spec.Fov),
		camera.WithPlanes(spec.Near, spec.Far),
		camera.WithController(tracker),
	}
	if size.Valid() {
		camOpts = append(camOpts, camera.WithAspect(size.Aspect()))
	}
	cam := camera.NewCamera(camOpts...)
	h.camera = cam

	tracker.Attach(host.Viewport())
	lm.Register(lifecycle.StageListeners, "parallax", func() error {
		tracker.Detach()
		return nil
	})

	layers, err := p.Build(preset.BuildContext{
		Config:    cfg,
		Estimate:  est,
		Random:    e.randomFor(p),
		Lifecycle: lm,
		Logger:    e.logger,
	})
	if err != nil {
		return nil, err
	}
	lm.RegisterScene(layers.Scene)
	h.layers = layers

	coord := resize.NewCoordinator(host, surface, cam, r,
		resize.WithPixelRatioCap(p.PixelRatioCap()),
		resize.WithPixelRatioCallback(layers.SetPixelRatio),
		resize.WithLogger(e.logger),
	)
	coord.Attach()
	lm.Register(lifecycle.StageListeners, "resize", func() error {
		coord.Close()
		return nil
	})
	coord.Apply(size.Width, size.Height)

	var renderFailed bool
	frame := func(elapsed time.Duration) {
		t := elapsed.Seconds()
		n := h.frames.Load()

		tracker.Step()
		layers.SetTime(t)
		p.Animate(layers, t, n)
		cam.Update()
		if err := r.Render(layers.Scene, cam); err != nil {
			if !renderFailed && !errors.Is(err, renderer.ErrReleased) {
				e.logger.Errorf("engine: render %s: %v", p.Kind(), err)
			}
			renderFailed = true
			return
		}
		h.frames.Add(1)
	}

	schedOpts := []scheduler.SchedulerBuilderOption{scheduler.WithLogger(e.logger)}
	if e.profilingEnabled {
		schedOpts = append(schedOpts, scheduler.WithProfiler(profiler.NewProfiler(profiler.WithLogger(e.logger))))
	}
	sched := scheduler.NewScheduler(host, frame, schedOpts...)
	lm.Register(lifecycle.StageScheduler, "scheduler", func() error {
		sched.Stop()
		return nil
	})
	h.sched = sched
	sched.Start()

	e.logger.Infof("engine: mounted %s, tier %s, budget %d, mobile %t, reduced motion %t",
		p.Kind(), est.Tier, est.Budget, est.Mobile, est.ReducedMotion)
	return h, nil
}

// randomFor picks the generator a preset builds with: an explicit generator, then an explicit
// seed, then the preset's own seed, and finally a fresh unseeded source.
func (e *engine) randomFor(p preset.Preset) geometry.Random {
	switch {
	case e.random != nil:
		return e.random
	case e.seeded:
		return geometry.NewSeeded(e.seed)
	}
	if seed, ok := p.Seed(); ok {
		return geometry.NewSeeded(seed)
	}
	return geometry.NewUnseeded()
}

func (h *handle) Cleanup() {
	h.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Errorf("engine: cleanup panicked: %v", r)
			}
		}()
		if err := h.lm.Teardown(); err != nil {
			h.logger.Warnf("engine: cleanup of %s finished with errors: %v", h.kind, err)
		}
	})
}

func (h *handle) ID() uuid.UUID {
	return h.id
}

func (h *handle) Inert() bool {
	return false
}

func (h *handle) Kind() preset.Kind {
	return h.kind
}

func (h *handle) Tier() capability.Tier {
	return h.estimate.Tier
}

func (h *handle) Budget() int {
	return h.estimate.Budget
}

func (h *handle) Estimate() capability.Estimate {
	return h.estimate
}

func (h *handle) Scene() scene.Scene {
	return h.layers.Scene
}

func (h *handle) Camera() camera.Camera {
	return h.camera
}

func (h *handle) Surface() window.Surface {
	return h.surface
}

func (h *handle) Frames() uint64 {
	return h.frames.Load()
}

func (h *handle) Err() error {
	return h.lm.Err()
}

// inert is returned when nothing could be mounted.
type inert struct{}

var _ Handle = inert{}

func (inert) Cleanup()                      {}
func (inert) ID() uuid.UUID                 { return uuid.Nil }
func (inert) Inert() bool                   { return true }
func (inert) Kind() preset.Kind             { return preset.KindNight }
func (inert) Tier() capability.Tier         { return capability.TierLow }
func (inert) Budget() int                   { return 0 }
func (inert) Estimate() capability.Estimate { return capability.Estimate{} }
func (inert) Scene() scene.Scene            { return nil }
func (inert) Camera() camera.Camera         { return nil }
func (inert) Surface() window.Surface       { return nil }
func (inert) Frames() uint64                { return 0 }
func (inert) Err() error                    { return nil }
