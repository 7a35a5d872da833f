package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu         *sync.RWMutex
	name       string
	root       Node
	background mgl32.Vec3
}

// Scene owns a root group and the clear color the renderer fills the surface with.
// Everything drawn is reached by walking the root.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Root returns the root group every other node hangs from.
	//
	// Returns:
	//   - Node: the root group
	Root() Node

	// Background returns the clear color.
	//
	// Returns:
	//   - mgl32.Vec3: the linear RGB clear color
	Background() mgl32.Vec3

	// SetBackground replaces the clear color.
	//
	// Parameters:
	//   - color: the linear RGB clear color
	SetBackground(color mgl32.Vec3)

	// Drawables collects every Points and Mesh node beneath the root, sorted by render order.
	// The sort is stable, so nodes with equal render order keep traversal order.
	//
	// Returns:
	//   - []Node: the drawable nodes in draw order
	Drawables() []Node

	// Lights collects every light node beneath the root in traversal order.
	//
	// Returns:
	//   - []Node: the light nodes
	Lights() []Node

	// Materials collects the distinct materials of every drawable, in draw order.
	// A material shared by several nodes is listed once.
	//
	// Returns:
	//   - []material.Material: the unique materials
	Materials() []material.Material

	// Geometries collects the distinct geometries of every drawable, in draw order.
	//
	// Returns:
	//   - []geometry.Geometry: the unique geometries
	Geometries() []geometry.Geometry
}

var _ Scene = &scene{}

// NewScene creates a new Scene with an empty root group and a black background.
//
// Parameters:
//   - name: the scene identifier
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:   &sync.RWMutex{},
		name: name,
		root: NewGroup(name + "_root"),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Background() mgl32.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(color mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = color
}

func (s *scene) Drawables() []Node {
	var out []Node
	s.root.Traverse(func(n Node) {
		if n.Drawable() {
			out = append(out, n)
		}
	})
	slices.SortStableFunc(out, func(a, b Node) int {
		return a.RenderOrder() - b.RenderOrder()
	})
	return out
}

func (s *scene) Lights() []Node {
	var out []Node
	s.root.Traverse(func(n Node) {
		if n.Kind() == KindLight {
			out = append(out, n)
		}
	})
	return out
}

func (s *scene) Materials() []material.Material {
	seen := make(map[uuid.UUID]struct{})
	var out []material.Material
	for _, n := range s.Drawables() {
		m := n.Material()
		if _, ok := seen[m.ID()]; ok {
			continue
		}
		seen[m.ID()] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (s *scene) Geometries() []geometry.Geometry {
	seen := make(map[uuid.UUID]struct{})
	var out []geometry.Geometry
	for _, n := range s.Drawables() {
		g := n.Geometry()
		if _, ok := seen[g.ID()]; ok {
			continue
		}
		seen[g.ID()] = struct{}{}
		out = append(out, g)
	}
	return out
}
