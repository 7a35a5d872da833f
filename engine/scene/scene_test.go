package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterial(t *testing.T) material.Material {
	t.Helper()
	prog, err := shader.NewPointsProgram("test")
	require.NoError(t, err)
	return material.NewMaterial(prog)
}

func newTestPoints(t *testing.T, name string, mat material.Material, opts ...NodeBuilderOption) Node {
	t.Helper()
	geo := geometry.Box(geometry.NewSeeded(1), 4, geometry.BoxParams{Extent: mgl32.Vec3{1, 1, 1}})
	return NewPoints(name, geo, mat, opts...)
}

func TestNode_AddRemove(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")

	require.NoError(t, root.Add(a, nil))
	require.NoError(t, a.Add(b))
	assert.Same(t, root, a.Parent())
	assert.Len(t, root.Children(), 1)

	assert.ErrorIs(t, b.Add(root), ErrCycle)
	assert.ErrorIs(t, a.Add(a), ErrCycle)

	// re-parenting moves the node
	require.NoError(t, root.Add(b))
	assert.Empty(t, a.Children())
	assert.Same(t, root, b.Parent())

	assert.True(t, root.Remove(b))
	assert.False(t, root.Remove(b))
	assert.Nil(t, b.Parent())
}

func TestNode_TraverseOrder(t *testing.T) {
	root := NewGroup("root")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	require.NoError(t, root.Add(a, c))
	require.NoError(t, a.Add(b))

	var names []string
	root.Traverse(func(n Node) { names = append(names, n.Name()) })
	assert.Equal(t, []string{"root", "a", "b", "c"}, names)
}

func TestNode_WorldMatrix(t *testing.T) {
	root := NewGroup("root", WithRotation(mgl32.Vec3{0, float32(math.Pi / 2), 0}))
	child := NewGroup("child", WithPosition(mgl32.Vec3{1, 0, 0}))
	require.NoError(t, root.Add(child))

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, -1, p.Z(), 1e-5)

	root.SetPosition(mgl32.Vec3{0, 5, 0})
	p = child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 5, p.Y(), 1e-5)
}

func TestNode_RotationOrder(t *testing.T) {
	rot := mgl32.Vec3{0, 0.7, 0.2}
	xyz := NewGroup("xyz", WithRotation(rot))
	zyx := NewGroup("zyx", WithRotation(rot), WithRotationOrder(common.RotationZYX))

	assert.True(t, mgl32.HomogRotate3DY(0.7).Mul4(mgl32.HomogRotate3DZ(0.2)).ApproxEqual(xyz.LocalMatrix()))
	assert.True(t, mgl32.HomogRotate3DZ(0.2).Mul4(mgl32.HomogRotate3DY(0.7)).ApproxEqual(zyx.LocalMatrix()))
	assert.False(t, xyz.LocalMatrix().ApproxEqual(zyx.LocalMatrix()))
}

func TestNewPoints_PanicsWithoutMaterial(t *testing.T) {
	geo := geometry.Box(geometry.NewSeeded(1), 1, geometry.BoxParams{})
	assert.Panics(t, func() { NewPoints("p", geo, nil) })
	assert.Panics(t, func() { NewMesh("m", nil, newTestMaterial(t)) })
}

func TestScene_DrawablesStableByRenderOrder(t *testing.T) {
	mat := newTestMaterial(t)
	glow := newTestPoints(t, "glow", mat)
	ribbonA := newTestPoints(t, "ribbon_a", mat, WithRenderOrder(1))
	ribbonB := newTestPoints(t, "ribbon_b", mat, WithRenderOrder(1))
	dust := newTestPoints(t, "dust", mat)
	sun := NewLight("sun", LightDirectional, mgl32.Vec3{1, 1, 1}, 0.2)

	ribbons := NewGroup("ribbons")
	require.NoError(t, ribbons.Add(ribbonA, ribbonB))

	s := NewScene("ribbon", WithBackground(0x04000a), WithNodes(glow, ribbons, dust, sun))

	var names []string
	for _, n := range s.Drawables() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"glow", "dust", "ribbon_a", "ribbon_b"}, names)

	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Equal(t, LightDirectional, lights[0].LightKind())
	assert.False(t, lights[0].Drawable())

	assert.Len(t, s.Materials(), 1)
	assert.Len(t, s.Geometries(), 4)
	assert.InDelta(t, 4.0/255, s.Background().X(), 1e-6)
}

func TestNode_Light(t *testing.T) {
	l := NewLight("ambient", LightAmbient, mgl32.Vec3{1, 1, 1}, 0.45)
	assert.Equal(t, KindLight, l.Kind())
	assert.Equal(t, float32(0.45), l.Intensity())
	l.SetIntensity(0.5)
	assert.Equal(t, float32(0.5), l.Intensity())
	assert.Nil(t, l.Geometry())
	assert.Equal(t, "light", l.Kind().String())
}

func TestScene_Mutators(t *testing.T) {
	mat := newTestMaterial(t)
	front := newTestPoints(t, "front", mat)
	back := newTestPoints(t, "back", mat)
	s := NewScene("mutators", WithBackgroundColor(mgl32.Vec3{0.1, 0.2, 0.3}), WithNodes(front, back))
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, s.Background())

	front.SetRenderOrder(2)
	var names []string
	for _, n := range s.Drawables() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"back", "front"}, names)

	s.SetBackground(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{}, s.Background())

	back.SetScale(mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, back.Scale())
	assert.True(t, mgl32.Scale3D(2, 2, 2).ApproxEqual(back.LocalMatrix()))
}
