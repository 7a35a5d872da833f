package texture

import (
	"image"
	"image/color"
	"math"
	"slices"
)

// Stop is a color at a normalized offset along a gradient.
type Stop struct {
	// Offset is the position along the gradient, clamped to [0, 1].
	Offset float64
	// Color is the straight-alpha color at Offset.
	Color color.NRGBA
}

// Hex builds an opaque color from a packed 0xRRGGBB value.
func Hex(hex uint32) color.NRGBA {
	return color.NRGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xFF}
}

// RGBA builds a straight-alpha color from 0..255 channels and a 0..1 alpha, matching the
// rgba() notation used by the palettes.
func RGBA(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

// Transparent is fully transparent black, the usual outer stop of a sprite.
var Transparent = color.NRGBA{}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sortStops(stops []Stop) []Stop {
	sorted := make([]Stop, len(stops))
	for i, s := range stops {
		sorted[i] = Stop{Offset: clamp01(s.Offset), Color: s.Color}
	}
	slices.SortStableFunc(sorted, func(a, b Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return sorted
}

// colorAt interpolates sorted stops at t, padding with the edge colors outside [0, 1].
// The result is premultiplied.
func colorAt(stops []Stop, t float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	t = clamp01(t)
	if t <= stops[0].Offset {
		return premultiply(stops[0].Color, stops[0].Color, 0)
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return premultiply(last.Color, last.Color, 0)
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return premultiply(b.Color, b.Color, 0)
		}
		return premultiply(a.Color, b.Color, (t-a.Offset)/span)
	}
	return premultiply(last.Color, last.Color, 0)
}

// premultiply interpolates two straight-alpha colors in premultiplied space.
func premultiply(a, b color.NRGBA, t float64) color.RGBA {
	aa := float64(a.A) / 255
	ba := float64(b.A) / 255
	alpha := aa + (ba-aa)*t
	ch := func(ca, cb uint8) uint8 {
		v := float64(ca)*aa + (float64(cb)*ba-float64(ca)*aa)*t
		return uint8(math.Round(min(v, alpha*255)))
	}
	return color.RGBA{
		R: ch(a.R, b.R),
		G: ch(a.G, b.G),
		B: ch(a.B, b.B),
		A: uint8(math.Round(alpha * 255)),
	}
}

// radialGradient is an image.Image whose color depends on the distance to a center point.
type radialGradient struct {
	bounds image.Rectangle
	cx, cy float64
	radius float64
	stops  []Stop
}

func (g *radialGradient) ColorModel() color.Model { return color.RGBAModel }
func (g *radialGradient) Bounds() image.Rectangle { return g.bounds }

func (g *radialGradient) At(x, y int) color.Color {
	if g.radius <= 0 {
		return colorAt(g.stops, 0)
	}
	dx := float64(x) + 0.5 - g.cx
	dy := float64(y) + 0.5 - g.cy
	return colorAt(g.stops, math.Hypot(dx, dy)/g.radius)
}

// linearGradient is an image.Image that runs between two points expressed in a local frame.
// Pixels are mapped back into the frame through inv before the gradient is evaluated.
type linearGradient struct {
	bounds image.Rectangle
	inv    affine
	x0, y0 float64
	x1, y1 float64
	stops  []Stop
}

func (g *linearGradient) ColorModel() color.Model { return color.RGBAModel }
func (g *linearGradient) Bounds() image.Rectangle { return g.bounds }

func (g *linearGradient) At(x, y int) color.Color {
	lx, ly := g.inv.apply(float64(x)+0.5, float64(y)+0.5)
	dx, dy := g.x1-g.x0, g.y1-g.y0
	den := dx*dx + dy*dy
	if den == 0 {
		return colorAt(g.stops, 0)
	}
	return colorAt(g.stops, ((lx-g.x0)*dx+(ly-g.y0)*dy)/den)
}

// affine is a 2D transform [a c e; b d f] applied as x' = a*x + c*y + e, y' = b*x + d*y + f.
type affine struct {
	a, b, c, d, e, f float64
}

func identity() affine {
	return affine{a: 1, d: 1}
}

// then returns the transform that applies m first and n second.
func (m affine) then(n affine) affine {
	return affine{
		a: n.a*m.a + n.c*m.b,
		b: n.b*m.a + n.d*m.b,
		c: n.a*m.c + n.c*m.d,
		d: n.b*m.c + n.d*m.d,
		e: n.a*m.e + n.c*m.f + n.e,
		f: n.b*m.e + n.d*m.f + n.f,
	}
}

func translate(x, y float64) affine {
	return affine{a: 1, d: 1, e: x, f: y}
}

func rotate(rad float64) affine {
	s, c := math.Sincos(rad)
	return affine{a: c, b: s, c: -s, d: c}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

func (m affine) invert() affine {
	det := m.a*m.d - m.b*m.c
	if det == 0 {
		return identity()
	}
	inv := 1 / det
	return affine{
		a: m.d * inv,
		b: -m.b * inv,
		c: -m.c * inv,
		d: m.a * inv,
		e: (m.c*m.f - m.d*m.e) * inv,
		f: (m.b*m.e - m.a*m.f) * inv,
	}
}
