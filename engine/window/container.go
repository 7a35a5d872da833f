package window

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// container is the Container implementation shared by every host.
type container struct {
	mu        sync.Mutex
	size      common.Size
	children  []Surface
	observers map[uint64]func(common.Size)
	order     []uint64
	nextID    uint64
}

var _ Container = &container{}

func newContainer(size common.Size) *container {
	return &container{
		size:      size,
		observers: make(map[uint64]func(common.Size)),
	}
}

func (c *container) Size() common.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *container) AppendChild(s Surface) {
	if s == nil {
		return
	}
	c.mu.Lock()
	if slices.Contains(c.children, s) {
		c.mu.Unlock()
		return
	}
	c.children = append(c.children, s)
	c.mu.Unlock()

	if p, ok := s.(*surface); ok {
		p.setParent(c)
	}
}

func (c *container) RemoveChild(s Surface) bool {
	c.mu.Lock()
	i := slices.Index(c.children, s)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	c.mu.Unlock()

	if p, ok := s.(*surface); ok {
		p.setParent(nil)
	}
	return true
}

func (c *container) Children() []Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.children)
}

func (c *container) ObserveResize(fn func(common.Size)) Observer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	if fn != nil {
		c.observers[id] = fn
		c.order = append(c.order, id)
	}
	return &observer{container: c, id: id}
}

func (c *container) ObserverCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers)
}

// resize stores the new size and notifies observers in registration order. Observers run
// outside the lock so they may query the container.
func (c *container) resize(size common.Size) {
	c.mu.Lock()
	c.size = size
	fns := make([]func(common.Size), 0, len(c.order))
	for _, id := range c.order {
		fns = append(fns, c.observers[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(size)
	}
}

func (c *container) disconnect(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.observers[id]; !ok {
		return
	}
	delete(c.observers, id)
	c.order = slices.DeleteFunc(c.order, func(v uint64) bool { return v == id })
}

type observer struct {
	container *container
	id        uint64
	once      sync.Once
}

func (o *observer) Disconnect() {
	o.once.Do(func() {
		o.container.disconnect(o.id)
	})
}
