package texture

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498307936

// Petal outline, in multiples of the sprite size, drawn around the sprite center.
const (
	petalTilt   = -0.3
	petalTop    = -0.18
	petalBottom = 0.36
	petalBulge  = 0.28
	petalWaist  = 0.12
)

// NewRadialDot rasterizes a round sprite whose color runs from the center (offset 0) to the
// inscribed circle (offset 1) through the given stops. Pixels outside the circle take the last
// stop's color.
//
// Parameters:
//   - size: edge length in pixels, values below 1 are raised to 1
//   - stops: gradient stops in any order
//   - options: variadic list of TextureBuilderOption functions, e.g. WithHighlight
//
// Returns:
//   - Texture: the generated sprite
func NewRadialDot(size int, stops []Stop, options ...TextureBuilderOption) Texture {
	size = max(size, 1)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	grad := &radialGradient{
		bounds: img.Bounds(),
		cx:     half,
		cy:     half,
		radius: half,
		stops:  sortStops(stops),
	}
	draw.Draw(img, img.Bounds(), grad, image.Point{}, draw.Src)

	return newTexture("radial-dot", img, options...)
}

// NewPetal rasterizes a tilted cherry-blossom petal. The outline is two mirrored cubic
// curves, filled with a vertical gradient from fill at the tip to edge at the base, and
// brightened by a soft elliptical sheen added on top.
//
// Parameters:
//   - size: edge length in pixels, values below 1 are raised to 1
//   - fill: color at the petal tip
//   - edge: color at the petal base
//   - options: variadic list of TextureBuilderOption functions
//
// Returns:
//   - Texture: the generated sprite
func NewPetal(size int, fill, edge color.NRGBA, options ...TextureBuilderOption) Texture {
	size = max(size, 1)
	s := float64(size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	local := rotate(petalTilt).then(translate(s/2, s/2))

	z := vector.NewRasterizer(size, size)
	p := pathOn(z, local)
	p.moveTo(0, s*petalTop)
	p.cubeTo(s*petalBulge, -s*petalBulge, s*petalBulge, s*petalWaist, 0, s*petalBottom)
	p.cubeTo(-s*petalBulge, s*petalWaist, -s*petalBulge, -s*petalBulge, 0, s*petalTop)
	z.ClosePath()

	grad := &linearGradient{
		bounds: img.Bounds(),
		inv:    local.invert(),
		y0:     s * petalTop,
		y1:     s * petalBottom,
		stops:  []Stop{{Offset: 0, Color: fill}, {Offset: 1, Color: edge}},
	}
	z.DrawOp = draw.Over
	z.Draw(img, img.Bounds(), grad, image.Point{})

	sheen := rotate(-0.6).then(translate(s*0.08, -s*0.02)).then(local)
	addEllipse(img, sheen, s*0.18, s*0.28, 0.12)

	return newTexture("petal", img, options...)
}

// highlight is a small translucent white disc composited over a sprite.
type highlight struct {
	x, y, r float64
	alpha   float64
}

func (h *highlight) draw(img *image.RGBA) {
	if img == nil || h.r <= 0 || h.alpha <= 0 {
		return
	}
	s := float64(img.Bounds().Dx())
	z := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	p := pathOn(z, translate(s*h.x, s*h.y))
	p.ellipse(s*h.r, s*h.r)
	z.DrawOp = draw.Over
	src := image.NewUniform(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: uint8(math.Round(clamp01(h.alpha) * 255))})
	z.Draw(img, img.Bounds(), src, image.Point{})
}

// addEllipse adds a white ellipse of the given opacity onto img, clamping each channel.
// The ellipse is centered at the origin of frame and has radii rx and ry along its axes.
func addEllipse(img *image.RGBA, frame affine, rx, ry, alpha float64) {
	b := img.Bounds()
	mask := image.NewAlpha(b)
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	pathOn(z, frame).ellipse(rx, ry)
	z.DrawOp = draw.Src
	z.Draw(mask, b, image.Opaque, image.Point{})

	for i, cover := range mask.Pix {
		if cover == 0 {
			continue
		}
		add := float64(cover) * clamp01(alpha)
		px := img.Pix[i*4 : i*4+4 : i*4+4]
		for c := range px {
			px[c] = uint8(min(255, math.Round(float64(px[c])+add)))
		}
	}
}

// path feeds points through a transform before handing them to a rasterizer.
type path struct {
	z *vector.Rasterizer
	m affine
}

func pathOn(z *vector.Rasterizer, m affine) path {
	return path{z: z, m: m}
}

func (p path) moveTo(x, y float64) {
	tx, ty := p.m.apply(x, y)
	p.z.MoveTo(float32(tx), float32(ty))
}

func (p path) cubeTo(bx, by, cx, cy, dx, dy float64) {
	tbx, tby := p.m.apply(bx, by)
	tcx, tcy := p.m.apply(cx, cy)
	tdx, tdy := p.m.apply(dx, dy)
	p.z.CubeTo(float32(tbx), float32(tby), float32(tcx), float32(tcy), float32(tdx), float32(tdy))
}

// ellipse appends a closed ellipse centered on the frame origin as four cubic arcs.
func (p path) ellipse(rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.moveTo(rx, 0)
	p.cubeTo(rx, ky, kx, ry, 0, ry)
	p.cubeTo(-kx, ry, -rx, ky, -rx, 0)
	p.cubeTo(-rx, -ky, -kx, -ry, 0, -ry)
	p.cubeTo(kx, -ry, rx, -ky, rx, 0)
	p.z.ClosePath()
}
