package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute names produced by the particle generators.
const (
	SizeAttribute  = "size"
	ShiftAttribute = "shift"
	PhaseAttribute = "phase"
	RotAttribute   = "rot"
	SpeedAttribute = "speed"
)

// Range is a uniform interval [Min, Min+Span). A zero Span disables the attribute it describes.
type Range struct {
	Min  float64
	Span float64
}

func (r Range) sample(rng Random) float32 {
	return float32(r.Min + rng.Float64()*r.Span)
}

// ShellAnnulusParams shapes a field that mixes a thin spherical shell with a wide flat ring.
type ShellAnnulusParams struct {
	// ShellFraction is the share of particles placed on the shell, the rest go to the ring.
	ShellFraction float64
	// ShellRadius and ShellThickness bound the shell radius to [ShellRadius, ShellRadius+ShellThickness).
	ShellRadius    float64
	ShellThickness float64
	// InnerRadius and OuterRadius bound the ring.
	InnerRadius float64
	OuterRadius float64
	// Bias above 1 pushes ring samples toward the inner edge.
	Bias float64
	// HalfHeight is the ring's vertical extent on either side of the plane.
	HalfHeight float64
	// Size is the per-particle sprite scale.
	Size Range
}

// DefaultShellAnnulus returns the star-field layout: a third of the stars on a shell of
// radius 9.5 to 10, the rest in a ring from 10 to 40 that is 2 units tall.
func DefaultShellAnnulus() ShellAnnulusParams {
	return ShellAnnulusParams{
		ShellFraction:  0.33,
		ShellRadius:    9.5,
		ShellThickness: 0.5,
		InnerRadius:    10,
		OuterRadius:    40,
		Bias:           1.5,
		HalfHeight:     1,
		Size:           Range{Min: 0.6, Span: 1.6},
	}
}

// ShellAnnulus samples count particles on a shell and ring mixture.
//
// Each particle carries a "size" scalar and a "shift" vec4 used as motion seeds:
// x in [0, π) and y in [0, 2π) are angular phases, z is the angular speed and w the
// displacement amplitude, both derived from the same draw in [0.1, 1).
//
// Parameters:
//   - rng: the random source
//   - count: the number of particles, negative values yield an empty field
//   - p: the layout parameters
//
// Returns:
//   - Geometry: point geometry with position, size and shift attributes
func ShellAnnulus(rng Random, count int, p ShellAnnulusParams) Geometry {
	count = max(count, 0)
	pos := make([]float32, count*3)
	sizes := make([]float32, count)
	shifts := make([]float32, count*4)

	shellCount := float64(count) * p.ShellFraction
	inner2 := p.InnerRadius * p.InnerRadius
	outer2 := p.OuterRadius * p.OuterRadius
	bias := p.Bias
	if bias <= 0 {
		bias = 1
	}

	for i := range count {
		var x, y, z float64
		if float64(i) < shellCount {
			theta := 2 * math.Pi * rng.Float64()
			phi := math.Acos(2*rng.Float64() - 1)
			r := p.ShellRadius + rng.Float64()*p.ShellThickness
			x = r * math.Sin(phi) * math.Cos(theta)
			y = r * math.Cos(phi)
			z = r * math.Sin(phi) * math.Sin(theta)
		} else {
			f := math.Pow(rng.Float64(), bias)
			radius := math.Sqrt(outer2*f + (1-f)*inner2)
			ang := rng.Float64() * 2 * math.Pi
			x = radius * math.Cos(ang)
			y = (rng.Float64() - 0.5) * 2 * p.HalfHeight
			z = radius * math.Sin(ang)
		}
		pos[i*3+0] = float32(x)
		pos[i*3+1] = float32(y)
		pos[i*3+2] = float32(z)

		sizes[i] = p.Size.sample(rng)

		shifts[i*4+0] = float32(rng.Float64() * math.Pi)
		shifts[i*4+1] = float32(rng.Float64() * math.Pi * 2)
		shifts[i*4+2] = float32((rng.Float64()*0.9 + 0.1) * math.Pi * 0.1)
		shifts[i*4+3] = float32(rng.Float64()*0.9 + 0.1)
	}

	return build(KindPoints, "shell-annulus", []Attribute{
		{Name: PositionAttribute, Size: 3, Data: pos},
		{Name: SizeAttribute, Size: 1, Data: sizes},
		{Name: ShiftAttribute, Size: 4, Data: shifts},
	}, nil)
}

// DiscParams shapes a loose disc of stars with a randomly stretched radius.
type DiscParams struct {
	Radius Range
	// Spread multiplies each axis of the horizontal position independently.
	Spread Range
	Height float64
	Size   Range
}

// DefaultDisc returns the nebula star layout.
func DefaultDisc() DiscParams {
	return DiscParams{
		Radius: Range{Min: 8, Span: 42},
		Spread: Range{Min: 0.6, Span: 0.8},
		Height: 6,
		Size:   Range{Min: 0.7, Span: 1.6},
	}
}

// Disc samples count stars in a flattened disc. Each star carries a "size" scalar and a
// "phase" in [0, 2π).
//
// Parameters:
//   - rng: the random source
//   - count: the number of stars, negative values yield an empty field
//   - p: the layout parameters
//
// Returns:
//   - Geometry: point geometry with position, size and phase attributes
func Disc(rng Random, count int, p DiscParams) Geometry {
	count = max(count, 0)
	pos := make([]float32, count*3)
	sizes := make([]float32, count)
	phases := make([]float32, count)

	for i := range count {
		r := p.Radius.Min + rng.Float64()*p.Radius.Span
		ang := rng.Float64() * math.Pi * 2
		pos[i*3+0] = float32(math.Cos(ang) * r * float64(p.Spread.sample(rng)))
		pos[i*3+1] = float32((rng.Float64() - 0.5) * p.Height)
		pos[i*3+2] = float32(math.Sin(ang) * r * float64(p.Spread.sample(rng)))
		sizes[i] = p.Size.sample(rng)
		phases[i] = float32(rng.Float64() * math.Pi * 2)
	}

	return build(KindPoints, "disc", []Attribute{
		{Name: PositionAttribute, Size: 3, Data: pos},
		{Name: SizeAttribute, Size: 1, Data: sizes},
		{Name: PhaseAttribute, Size: 1, Data: phases},
	}, nil)
}

// BoxParams shapes a field spread uniformly inside an axis-aligned box centered on the origin.
// Optional attributes are emitted only when their Range has a non-zero Span.
type BoxParams struct {
	Extent mgl32.Vec3
	Size   Range
	// Rot emits a "rot" angle in [0, 2π) when true.
	Rot   bool
	Speed Range
}

// Box samples count particles uniformly within ±Extent on every axis.
//
// Parameters:
//   - rng: the random source
//   - count: the number of particles, negative values yield an empty field
//   - p: the box extent and optional attributes
//
// Returns:
//   - Geometry: point geometry with position plus whichever of size, rot and speed were requested
func Box(rng Random, count int, p BoxParams) Geometry {
	count = max(count, 0)
	pos := make([]float32, count*3)
	var sizes, rots, speeds []float32
	if p.Size.Span != 0 {
		sizes = make([]float32, count)
	}
	if p.Rot {
		rots = make([]float32, count)
	}
	if p.Speed.Span != 0 {
		speeds = make([]float32, count)
	}

	for i := range count {
		for axis := range 3 {
			pos[i*3+axis] = float32((rng.Float64()*2 - 1) * float64(p.Extent[axis]))
		}
		if sizes != nil {
			sizes[i] = p.Size.sample(rng)
		}
		if rots != nil {
			rots[i] = float32(rng.Float64() * math.Pi * 2)
		}
		if speeds != nil {
			speeds[i] = p.Speed.sample(rng)
		}
	}

	attrs := []Attribute{{Name: PositionAttribute, Size: 3, Data: pos}}
	if sizes != nil {
		attrs = append(attrs, Attribute{Name: SizeAttribute, Size: 1, Data: sizes})
	}
	if rots != nil {
		attrs = append(attrs, Attribute{Name: RotAttribute, Size: 1, Data: rots})
	}
	if speeds != nil {
		attrs = append(attrs, Attribute{Name: SpeedAttribute, Size: 1, Data: speeds})
	}
	return build(KindPoints, "box", attrs, nil)
}
