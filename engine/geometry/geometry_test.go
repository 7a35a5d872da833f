package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeeded_KnownSequence(t *testing.T) {
	rng := NewSeeded(DefaultSeed)
	assert.InDelta(t, 0.6074679309967905, rng.Float64(), 1e-15)
	assert.InDelta(t, 0.19144689152017236, rng.Float64(), 1e-15)
	assert.InDelta(t, 0.43751312675885856, rng.Float64(), 1e-15)
}

func TestNewSeeded_Range(t *testing.T) {
	rng := NewSeeded(42)
	for range 10000 {
		v := rng.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNewUnseeded_Varies(t *testing.T) {
	a, b := NewUnseeded(), NewUnseeded()
	same := true
	for range 8 {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same)
}

func positions(t *testing.T, g Geometry) []float32 {
	t.Helper()
	a, ok := g.Attribute(PositionAttribute)
	require.True(t, ok)
	return a.Data
}

func TestShellAnnulus_SameSeedSameBuffer(t *testing.T) {
	first := ShellAnnulus(NewSeeded(DefaultSeed), 5000, DefaultShellAnnulus())
	second := ShellAnnulus(NewSeeded(DefaultSeed), 5000, DefaultShellAnnulus())
	assert.Equal(t, first.Attributes(), second.Attributes())
	assert.NotEqual(t, first.ID(), second.ID())

	other := ShellAnnulus(NewSeeded(DefaultSeed+1), 5000, DefaultShellAnnulus())
	assert.NotEqual(t, positions(t, first), positions(t, other))
}

func TestShellAnnulus_Layout(t *testing.T) {
	const count = 3000
	p := DefaultShellAnnulus()
	g := ShellAnnulus(NewSeeded(7), count, p)

	assert.Equal(t, KindPoints, g.Kind())
	assert.Equal(t, count, g.Count())

	attrs := g.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, PositionAttribute, attrs[0].Name)
	assert.Equal(t, SizeAttribute, attrs[1].Name)
	assert.Equal(t, ShiftAttribute, attrs[2].Name)
	assert.Equal(t, 4, attrs[2].Size)

	pos, size, shift := attrs[0].Data, attrs[1].Data, attrs[2].Data
	shell := int(math.Ceil(count * p.ShellFraction))
	for i := range count {
		v := mgl32.Vec3{pos[i*3], pos[i*3+1], pos[i*3+2]}
		if i < shell {
			assert.InDelta(t, 9.75, v.Len(), 0.2501, "shell particle %d", i)
		} else {
			flat := math.Hypot(float64(v[0]), float64(v[2]))
			assert.GreaterOrEqual(t, flat, 10.0-1e-4)
			assert.LessOrEqual(t, flat, 40.0+1e-4)
			assert.LessOrEqual(t, math.Abs(float64(v[1])), 1.0)
		}

		assert.GreaterOrEqual(t, size[i], float32(0.6))
		assert.Less(t, size[i], float32(2.2))

		s := shift[i*4 : i*4+4]
		assert.Less(t, s[0], float32(math.Pi))
		assert.Less(t, s[1], float32(2*math.Pi))
		assert.GreaterOrEqual(t, s[2], float32(0.1*0.1*math.Pi)-1e-6)
		assert.Less(t, s[2], float32(0.1*math.Pi))
		assert.GreaterOrEqual(t, s[3], float32(0.1))
		assert.Less(t, s[3], float32(1))
	}
}

func TestShellAnnulus_BiasTowardInnerEdge(t *testing.T) {
	p := DefaultShellAnnulus()
	p.ShellFraction = 0
	g := ShellAnnulus(NewSeeded(99), 20000, p)
	pos := positions(t, g)

	inner := 0
	for i := 0; i < len(pos); i += 3 {
		if math.Hypot(float64(pos[i]), float64(pos[i+2])) < 28 {
			inner++
		}
	}
	// unbiased sampling would put about 46% of the ring inside radius 28, the bias about 59%
	assert.Greater(t, inner, 20000*55/100)
}

func TestDisc_SeededAndBounded(t *testing.T) {
	a := Disc(NewSeeded(DefaultSeed), 800, DefaultDisc())
	b := Disc(NewSeeded(DefaultSeed), 800, DefaultDisc())
	assert.Equal(t, a.Attributes(), b.Attributes())

	pos := positions(t, a)
	phase, ok := a.Attribute(PhaseAttribute)
	require.True(t, ok)
	for i := range a.Count() {
		assert.LessOrEqual(t, math.Abs(float64(pos[i*3+1])), 3.0)
		assert.LessOrEqual(t, math.Hypot(float64(pos[i*3]), float64(pos[i*3+2])), 50*1.4*math.Sqrt2)
		assert.Less(t, phase.Data[i], float32(2*math.Pi))
	}
}

func TestBox_OptionalAttributes(t *testing.T) {
	plain := Box(NewSeeded(1), 10, BoxParams{Extent: mgl32.Vec3{80, 48, 40}})
	require.Len(t, plain.Attributes(), 1)

	petals := Box(NewSeeded(1), 50, BoxParams{
		Extent: mgl32.Vec3{120, 80, 40},
		Rot:    true,
		Speed:  Range{Min: 0.2, Span: 0.9},
	})
	attrs := petals.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, RotAttribute, attrs[1].Name)
	assert.Equal(t, SpeedAttribute, attrs[2].Name)

	pos := attrs[0].Data
	for i := range petals.Count() {
		assert.LessOrEqual(t, math.Abs(float64(pos[i*3])), 120.0)
		assert.LessOrEqual(t, math.Abs(float64(pos[i*3+1])), 80.0)
		assert.LessOrEqual(t, math.Abs(float64(pos[i*3+2])), 40.0)
		assert.GreaterOrEqual(t, attrs[2].Data[i], float32(0.2))
		assert.Less(t, attrs[2].Data[i], float32(1.1))
	}
}

func TestGenerators_EmptyAndNegative(t *testing.T) {
	assert.Zero(t, ShellAnnulus(NewSeeded(1), -5, DefaultShellAnnulus()).Count())
	assert.Zero(t, Disc(NewSeeded(1), 0, DefaultDisc()).Count())
	assert.Zero(t, Box(NewSeeded(1), -1, BoxParams{Size: Range{Min: 1, Span: 1}}).Count())
}

func TestPlane(t *testing.T) {
	g := Plane(80, 10, 120, 2)
	assert.Equal(t, KindMesh, g.Kind())
	assert.Equal(t, 121*3, g.Count())
	assert.Len(t, g.Indices(), 120*2*6)

	pos := positions(t, g)
	assert.InDeltaSlice(t, []float32{-40, 5, 0}, pos[:3], 1e-4)
	last := len(pos) - 3
	assert.InDeltaSlice(t, []float32{40, -5, 0}, pos[last:], 1e-4)

	uv, ok := g.Attribute(UVAttribute)
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1}, uv.Data[:2])

	for _, idx := range g.Indices() {
		assert.Less(t, int(idx), g.Count())
	}
}

func TestFullscreenQuad(t *testing.T) {
	g := FullscreenQuad()
	assert.Equal(t, 4, g.Count())
	assert.Equal(t, []uint32{0, 2, 1, 2, 3, 1}, g.Indices())
	for i, v := range positions(t, g) {
		if i%3 == 2 {
			assert.Zero(t, v)
			continue
		}
		assert.Equal(t, float32(1), float32(math.Abs(float64(v))))
	}
}

func TestSphere(t *testing.T) {
	g := Sphere(10, 28, 28)
	assert.Equal(t, 29*29, g.Count())
	assert.Len(t, g.Indices(), 28*27*6)

	pos := positions(t, g)
	normal, ok := g.Attribute(NormalAttribute)
	require.True(t, ok)
	for i := range g.Count() {
		p := mgl32.Vec3{pos[i*3], pos[i*3+1], pos[i*3+2]}
		n := mgl32.Vec3{normal.Data[i*3], normal.Data[i*3+1], normal.Data[i*3+2]}
		assert.InDelta(t, 10, p.Len(), 1e-4)
		assert.InDelta(t, 1, n.Len(), 1e-5)
	}
	for _, idx := range g.Indices() {
		assert.Less(t, int(idx), g.Count())
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(KindPoints, nil)
	assert.Error(t, err)

	_, err = New(KindPoints, []Attribute{{Name: "size", Size: 1, Data: []float32{1}}})
	assert.Error(t, err)

	_, err = New(KindPoints, []Attribute{
		{Name: PositionAttribute, Size: 3, Data: []float32{0, 0, 0, 1, 1, 1}},
		{Name: SizeAttribute, Size: 1, Data: []float32{1}},
	})
	assert.Error(t, err)

	_, err = New(KindPoints, []Attribute{
		{Name: PositionAttribute, Size: 3, Data: []float32{0, 0, 0}},
		{Name: PositionAttribute, Size: 3, Data: []float32{0, 0, 0}},
	})
	assert.Error(t, err)

	_, err = New(KindMesh, []Attribute{{Name: PositionAttribute, Size: 3, Data: []float32{0, 0, 0}}}, WithIndices([]uint32{0, 1, 2}))
	assert.Error(t, err)

	data := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	g, err := New(KindMesh, []Attribute{{Name: PositionAttribute, Size: 3, Data: data}}, WithIndices([]uint32{0, 1, 2}), WithLabel("tri"))
	require.NoError(t, err)
	assert.Equal(t, "tri", g.Label())
	assert.Equal(t, 3, g.Count())

	data[0] = 99
	assert.Equal(t, float32(0), positions(t, g)[0], "input is copied")
}

func TestGeometry_Immutable(t *testing.T) {
	g := Box(NewSeeded(3), 4, BoxParams{Extent: mgl32.Vec3{1, 1, 1}})
	before := positions(t, g)[0]
	positions(t, g)[0] = 1234
	assert.Equal(t, before, positions(t, g)[0])
}

func TestGeometry_ReleaseOnce(t *testing.T) {
	g := Plane(1, 1, 1, 1)
	calls := 0
	g.OnRelease(func() { calls++ })

	require.NoError(t, g.Release())
	assert.True(t, g.Released())
	assert.Nil(t, g.Attributes())
	assert.Nil(t, g.Indices())
	_, ok := g.Attribute(PositionAttribute)
	assert.False(t, ok)

	assert.ErrorIs(t, g.Release(), ErrReleased)
	assert.Equal(t, 1, calls)
}
