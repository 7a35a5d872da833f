// Package geometry generates the vertex data of the backdrop scenes: particle fields drawn as
// instanced point sprites and the few meshes (planes, spheres, the fullscreen quad) behind
// them. All data is computed once at construction and never mutated afterwards; motion is
// left entirely to the shaders.
package geometry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrReleased is returned by Release when the geometry was already released.
var ErrReleased = errors.New("geometry: already released")

// PositionAttribute is the name of the attribute every geometry starts with.
const PositionAttribute = "position"

// Kind tells the renderer how to draw a geometry.
type Kind int

const (
	// KindPoints is drawn as one camera-facing sprite per element.
	KindPoints Kind = iota
	// KindMesh is drawn as an indexed triangle list.
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Attribute is one named per-element stream of Size float32 components.
type Attribute struct {
	Name string
	Size int
	Data []float32
}

// Len returns the number of elements the attribute holds.
func (a Attribute) Len() int {
	if a.Size <= 0 {
		return 0
	}
	return len(a.Data) / a.Size
}

// geometry is the implementation of the Geometry interface.
type geometry struct {
	mu        sync.Mutex
	id        uuid.UUID
	label     string
	kind      Kind
	count     int
	attrs     []Attribute
	indices   []uint32
	released  bool
	onRelease []func()
}

// Geometry is an immutable set of vertex attributes and optional indices.
type Geometry interface {
	// ID retrieves the unique identifier of the geometry.
	//
	// Returns:
	//   - uuid.UUID: the geometry id
	ID() uuid.UUID

	// Label retrieves the human readable label of the geometry.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Kind retrieves how the geometry is drawn.
	//
	// Returns:
	//   - Kind: KindPoints or KindMesh
	Kind() Kind

	// Count retrieves the number of elements (particles or vertices).
	//
	// Returns:
	//   - int: the element count
	Count() int

	// Attributes retrieves every attribute in declaration order, position first.
	// The returned slices are copies.
	//
	// Returns:
	//   - []Attribute: the attributes, or nil once released
	Attributes() []Attribute

	// Attribute retrieves a copy of a single attribute by name.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - Attribute: the attribute
	//   - bool: whether the attribute exists
	Attribute(name string) (Attribute, bool)

	// Indices retrieves a copy of the triangle indices, nil for point geometry.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// OnRelease registers a hook run once when the geometry is released. Renderer backends
	// use it to free their vertex and index buffers.
	//
	// Parameters:
	//   - fn: the hook, ignored when nil
	OnRelease(fn func())

	// Release drops the CPU data and runs the release hooks.
	//
	// Returns:
	//   - error: ErrReleased when called a second time, nil otherwise
	Release() error

	// Released reports whether Release has already run.
	Released() bool
}

var _ Geometry = &geometry{}

// New validates a set of attributes and wraps them in a Geometry. The attribute data is
// copied, so later changes to the inputs are not observed.
//
// Parameters:
//   - kind: how the geometry is drawn
//   - attrs: the attributes, the first must be a 3-component "position"
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: the geometry
//   - error: when the attributes are empty, malformed or disagree on the element count
func New(kind Kind, attrs []Attribute, options ...GeometryBuilderOption) (Geometry, error) {
	if len(attrs) == 0 {
		return nil, errors.New("geometry: no attributes")
	}
	if attrs[0].Name != PositionAttribute || attrs[0].Size != 3 {
		return nil, fmt.Errorf("geometry: first attribute must be a 3-component %q, got %q/%d", PositionAttribute, attrs[0].Name, attrs[0].Size)
	}
	count := attrs[0].Len()
	seen := make(map[string]bool, len(attrs))
	owned := make([]Attribute, len(attrs))
	for i, a := range attrs {
		if a.Size < 1 || a.Size > 4 {
			return nil, fmt.Errorf("geometry: attribute %q has unsupported size %d", a.Name, a.Size)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("geometry: duplicate attribute %q", a.Name)
		}
		seen[a.Name] = true
		if len(a.Data)%a.Size != 0 || a.Len() != count {
			return nil, fmt.Errorf("geometry: attribute %q holds %d floats, want %d", a.Name, len(a.Data), count*a.Size)
		}
		owned[i] = Attribute{Name: a.Name, Size: a.Size, Data: slices.Clone(a.Data)}
	}

	g := &geometry{
		id:    uuid.New(),
		label: kind.String(),
		kind:  kind,
		count: count,
		attrs: owned,
	}
	for _, opt := range options {
		opt(g)
	}
	for _, idx := range g.indices {
		if int(idx) >= count {
			return nil, fmt.Errorf("geometry: index %d out of range for %d vertices", idx, count)
		}
	}
	return g, nil
}

// build wraps generator output without copying. Generators own their slices outright.
func build(kind Kind, label string, attrs []Attribute, indices []uint32) Geometry {
	return &geometry{
		id:      uuid.New(),
		label:   label,
		kind:    kind,
		count:   attrs[0].Len(),
		attrs:   attrs,
		indices: indices,
	}
}

func (g *geometry) ID() uuid.UUID {
	return g.id
}

func (g *geometry) Label() string {
	return g.label
}

func (g *geometry) Kind() Kind {
	return g.kind
}

func (g *geometry) Count() int {
	return g.count
}

func (g *geometry) Attributes() []Attribute {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil
	}
	out := make([]Attribute, len(g.attrs))
	for i, a := range g.attrs {
		out[i] = Attribute{Name: a.Name, Size: a.Size, Data: slices.Clone(a.Data)}
	}
	return out
}

func (g *geometry) Attribute(name string) (Attribute, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return Attribute{}, false
	}
	for _, a := range g.attrs {
		if a.Name == name {
			return Attribute{Name: a.Name, Size: a.Size, Data: slices.Clone(a.Data)}, true
		}
	}
	return Attribute{}, false
}

func (g *geometry) Indices() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.indices)
}

func (g *geometry) OnRelease(fn func()) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return
	}
	g.onRelease = append(g.onRelease, fn)
}

func (g *geometry) Release() error {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return ErrReleased
	}
	g.released = true
	g.attrs = nil
	g.indices = nil
	hooks := g.onRelease
	g.onRelease = nil
	g.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return nil
}

func (g *geometry) Released() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}
