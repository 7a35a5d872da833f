package scene

import (
	"errors"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrCycle is returned by Add when the child is the node itself or one of its ancestors.
var ErrCycle = errors.New("scene: node cannot be added beneath itself")

// NodeKind identifies what a Node draws, if anything.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindPoints
	KindMesh
	KindLight
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPoints:
		return "points"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// LightKind identifies the lighting model of a light node.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// node is the implementation of the Node interface.
type node struct {
	mu *sync.RWMutex

	id   uuid.UUID
	name string
	kind NodeKind

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	order    common.RotationOrder

	renderOrder int

	parent   *node
	children []*node

	// drawable state, nil for groups and lights
	geometry geometry.Geometry
	material material.Material

	// light state
	lightKind LightKind
	color     mgl32.Vec3
	intensity float32
}

// Node is one element of the scene graph. Every node carries a transform and may own
// children; Points and Mesh nodes also carry a geometry and a material, Light nodes a color
// and intensity.
type Node interface {
	// ID retrieves the unique identifier of the node.
	//
	// Returns:
	//   - uuid.UUID: the node id
	ID() uuid.UUID

	// Name retrieves the node's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Kind retrieves what the node draws.
	//
	// Returns:
	//   - NodeKind: the kind of node
	Kind() NodeKind

	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)

	// Rotation retrieves the Euler rotation in radians.
	Rotation() mgl32.Vec3
	SetRotation(r mgl32.Vec3)

	Scale() mgl32.Vec3
	SetScale(s mgl32.Vec3)

	// RotationOrder retrieves the order the Euler angles are composed in.
	RotationOrder() common.RotationOrder

	// RenderOrder retrieves the draw priority. Lower values draw first.
	RenderOrder() int
	SetRenderOrder(order int)

	// Parent retrieves the parent node, nil for a root or a detached node.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Add attaches children to this node. A child that already has a parent is moved.
	//
	// Parameters:
	//   - children: the nodes to attach, nil entries are ignored
	//
	// Returns:
	//   - error: ErrCycle when a child is this node or one of its ancestors
	Add(children ...Node) error

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: whether the child was found
	Remove(child Node) bool

	// Children retrieves a snapshot of the direct children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Traverse visits this node and then every descendant, depth first in insertion order.
	//
	// Parameters:
	//   - fn: called once per node
	Traverse(fn func(Node))

	// LocalMatrix composes the node's own transform.
	//
	// Returns:
	//   - mgl32.Mat4: translation · rotation · scale
	LocalMatrix() mgl32.Mat4

	// WorldMatrix composes the transforms of every ancestor and this node.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix used when drawing the node
	WorldMatrix() mgl32.Mat4

	// Geometry retrieves the drawn geometry, nil for groups and lights.
	Geometry() geometry.Geometry

	// Material retrieves the material, nil for groups and lights.
	Material() material.Material

	// Drawable reports whether the node is a Points or Mesh node.
	Drawable() bool

	// LightKind retrieves the light model. Only meaningful for light nodes.
	LightKind() LightKind

	// Color retrieves the light color. Only meaningful for light nodes.
	Color() mgl32.Vec3

	// Intensity retrieves the light intensity. Only meaningful for light nodes.
	Intensity() float32
	SetIntensity(intensity float32)
}

var _ Node = &node{}

func newNode(name string, kind NodeKind, options ...NodeBuilderOption) *node {
	n := &node{
		mu:    &sync.RWMutex{},
		id:    uuid.New(),
		name:  name,
		kind:  kind,
		scale: mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// NewGroup creates a node that only carries a transform and children.
//
// Parameters:
//   - name: the node name
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the group
func NewGroup(name string, options ...NodeBuilderOption) Node {
	return newNode(name, KindGroup, options...)
}

// NewPoints creates a node that draws one billboard sprite per element of a point geometry.
// Panics when geo or mat is nil.
//
// Parameters:
//   - name: the node name
//   - geo: the point geometry
//   - mat: the material, normally built on a points program
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the points node
func NewPoints(name string, geo geometry.Geometry, mat material.Material, options ...NodeBuilderOption) Node {
	if geo == nil || mat == nil {
		panic("scene: points node needs a geometry and a material")
	}
	n := newNode(name, KindPoints, options...)
	n.geometry = geo
	n.material = mat
	return n
}

// NewMesh creates a node that draws an indexed triangle geometry.
// Panics when geo or mat is nil.
//
// Parameters:
//   - name: the node name
//   - geo: the mesh geometry
//   - mat: the material
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the mesh node
func NewMesh(name string, geo geometry.Geometry, mat material.Material, options ...NodeBuilderOption) Node {
	if geo == nil || mat == nil {
		panic("scene: mesh node needs a geometry and a material")
	}
	n := newNode(name, KindMesh, options...)
	n.geometry = geo
	n.material = mat
	return n
}

// NewLight creates a light node. Lights hold no GPU resources; custom programs read their
// values through uniforms.
//
// Parameters:
//   - name: the node name
//   - kind: LightAmbient or LightDirectional
//   - color: the light color
//   - intensity: the light intensity
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the light node
func NewLight(name string, kind LightKind, color mgl32.Vec3, intensity float32, options ...NodeBuilderOption) Node {
	n := newNode(name, KindLight, options...)
	n.lightKind = kind
	n.color = color
	n.intensity = intensity
	return n
}

func (n *node) ID() uuid.UUID {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Kind() NodeKind {
	return n.kind
}

func (n *node) Position() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position
}

func (n *node) SetPosition(p mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position = p
}

func (n *node) Rotation() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.rotation
}

func (n *node) SetRotation(r mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = r
}

func (n *node) Scale() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.scale
}

func (n *node) SetScale(s mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scale = s
}

func (n *node) RotationOrder() common.RotationOrder {
	return n.order
}

func (n *node) RenderOrder() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.renderOrder
}

func (n *node) SetRenderOrder(order int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.renderOrder = order
}

func (n *node) Parent() Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Add(children ...Node) error {
	for _, c := range children {
		child, ok := c.(*node)
		if !ok || child == nil {
			continue
		}
		if n.hasAncestor(child) {
			return ErrCycle
		}
		if old := child.parentNode(); old != nil {
			old.Remove(child)
		}

		n.mu.Lock()
		n.children = append(n.children, child)
		n.mu.Unlock()

		child.mu.Lock()
		child.parent = n
		child.mu.Unlock()
	}
	return nil
}

func (n *node) Remove(c Node) bool {
	child, ok := c.(*node)
	if !ok || child == nil {
		return false
	}

	n.mu.Lock()
	i := slices.Index(n.children, child)
	if i < 0 {
		n.mu.Unlock()
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()
	return true
}

func (n *node) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Traverse(fn func(Node)) {
	fn(n)
	n.mu.RLock()
	children := slices.Clone(n.children)
	n.mu.RUnlock()
	for _, c := range children {
		c.Traverse(fn)
	}
}

func (n *node) LocalMatrix() mgl32.Mat4 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return common.ComposeTransform(n.position, n.rotation, n.scale, n.order)
}

func (n *node) WorldMatrix() mgl32.Mat4 {
	local := n.LocalMatrix()
	if p := n.parentNode(); p != nil {
		return p.WorldMatrix().Mul4(local)
	}
	return local
}

func (n *node) Geometry() geometry.Geometry {
	return n.geometry
}

func (n *node) Material() material.Material {
	return n.material
}

func (n *node) Drawable() bool {
	return n.kind == KindPoints || n.kind == KindMesh
}

func (n *node) LightKind() LightKind {
	return n.lightKind
}

func (n *node) Color() mgl32.Vec3 {
	return n.color
}

func (n *node) Intensity() float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.intensity
}

func (n *node) SetIntensity(intensity float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intensity = intensity
}

func (n *node) parentNode() *node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// hasAncestor reports whether candidate is n or one of n's ancestors.
func (n *node) hasAncestor(candidate *node) bool {
	for cur := n; cur != nil; cur = cur.parentNode() {
		if cur == candidate {
			return true
		}
	}
	return false
}
