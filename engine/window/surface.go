package window

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// surface is the Surface implementation shared by every host.
type surface struct {
	mu                  sync.RWMutex
	id                  uuid.UUID
	label               string
	size                common.Size
	bufferSize          common.Size
	parent              Container
	interactive         bool
	accessibilityHidden bool
	released            bool

	// descriptor is nil for hosts without a native window
	descriptor func() *wgpu.SurfaceDescriptor
	onRelease  func()
}

var _ Surface = &surface{}

// newSurface creates a detached, interactive surface.
func newSurface(label string, descriptor func() *wgpu.SurfaceDescriptor, onRelease func()) *surface {
	return &surface{
		id:          uuid.New(),
		label:       label,
		interactive: true,
		descriptor:  descriptor,
		onRelease:   onRelease,
	}
}

func (s *surface) ID() uuid.UUID {
	return s.id
}

func (s *surface) Label() string {
	return s.label
}

func (s *surface) Size() common.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

func (s *surface) BufferSize() common.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bufferSize
}

func (s *surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = common.Size{Width: width, Height: height}
}

func (s *surface) SetBufferSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bufferSize = common.Size{Width: width, Height: height}
}

func (s *surface) Parent() Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent
}

func (s *surface) setParent(c Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = c
}

func (s *surface) Interactive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactive
}

func (s *surface) SetInteractive(interactive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactive = interactive
}

func (s *surface) AccessibilityHidden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessibilityHidden
}

func (s *surface) SetAccessibilityHidden(hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessibilityHidden = hidden
}

func (s *surface) Descriptor() *wgpu.SurfaceDescriptor {
	s.mu.RLock()
	released := s.released
	s.mu.RUnlock()
	if released || s.descriptor == nil {
		return nil
	}
	return s.descriptor()
}

func (s *surface) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	s.released = true
	s.mu.Unlock()

	if s.onRelease != nil {
		s.onRelease()
	}
	return nil
}

func (s *surface) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.released
}
