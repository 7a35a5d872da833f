package window

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

type listenerEntry struct {
	id       ListenerID
	kind     EventKind
	listener Listener
}

// viewport is the Viewport implementation shared by every host.
type viewport struct {
	mu         sync.Mutex
	size       common.Size
	pixelRatio float64
	hidden     bool
	listeners  []listenerEntry
	nextID     ListenerID
}

var _ Viewport = &viewport{}

func newViewport(size common.Size, pixelRatio float64) *viewport {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &viewport{size: size, pixelRatio: pixelRatio}
}

func (v *viewport) Size() common.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

func (v *viewport) PixelRatio() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pixelRatio
}

func (v *viewport) Hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

func (v *viewport) AddListener(kind EventKind, l Listener) ListenerID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	if l != nil {
		v.listeners = append(v.listeners, listenerEntry{id: v.nextID, kind: kind, listener: l})
	}
	return v.nextID
}

func (v *viewport) RemoveListener(id ListenerID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := len(v.listeners)
	v.listeners = slices.DeleteFunc(v.listeners, func(e listenerEntry) bool { return e.id == id })
	return len(v.listeners) != n
}

func (v *viewport) ListenerCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}

func (v *viewport) setPixelRatio(ratio float64) {
	if ratio <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pixelRatio = ratio
}

// dispatch applies the event to the viewport state and delivers it to every listener of its
// kind, in registration order and outside the lock.
func (v *viewport) dispatch(e Event) {
	v.mu.Lock()
	switch e.Kind {
	case EventResize:
		v.size = e.Size
	case EventVisibilityChange:
		v.hidden = e.Hidden
	}
	var targets []Listener
	for _, entry := range v.listeners {
		if entry.kind == e.Kind {
			targets = append(targets, entry.listener)
		}
	}
	v.mu.Unlock()

	for _, l := range targets {
		l(e)
	}
}
