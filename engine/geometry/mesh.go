package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute names produced by the mesh generators.
const (
	NormalAttribute = "normal"
	UVAttribute     = "uv"
)

// Plane builds a flat grid in the XY plane centered on the origin and facing +Z.
// Rows run top to bottom; uv (0, 1) is the top-left corner.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - segX: horizontal subdivisions, values below 1 are raised to 1
//   - segY: vertical subdivisions, values below 1 are raised to 1
//
// Returns:
//   - Geometry: mesh geometry with position, normal and uv attributes
func Plane(width, height float32, segX, segY int) Geometry {
	segX, segY = max(segX, 1), max(segY, 1)
	cols, rows := segX+1, segY+1

	pos := make([]float32, 0, cols*rows*3)
	normals := make([]float32, 0, cols*rows*3)
	uvs := make([]float32, 0, cols*rows*2)

	cellW := width / float32(segX)
	cellH := height / float32(segY)
	for iy := range rows {
		y := height/2 - float32(iy)*cellH
		for ix := range cols {
			x := float32(ix)*cellW - width/2
			pos = append(pos, x, y, 0)
			normals = append(normals, 0, 0, 1)
			uvs = append(uvs, float32(ix)/float32(segX), 1-float32(iy)/float32(segY))
		}
	}

	indices := make([]uint32, 0, segX*segY*6)
	for iy := range segY {
		for ix := range segX {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	return build(KindMesh, "plane", []Attribute{
		{Name: PositionAttribute, Size: 3, Data: pos},
		{Name: NormalAttribute, Size: 3, Data: normals},
		{Name: UVAttribute, Size: 2, Data: uvs},
	}, indices)
}

// FullscreenQuad builds a 2x2 plane whose positions are already in clip space.
//
// Returns:
//   - Geometry: a single-cell plane spanning [-1, 1] on X and Y
func FullscreenQuad() Geometry {
	return Plane(2, 2, 1, 1)
}

// Sphere builds a UV sphere centered on the origin. The poles lie on the Y axis and the
// triangles wind counter-clockwise seen from outside.
//
// Parameters:
//   - radius: sphere radius
//   - segW: segments around the equator, values below 3 are raised to 3
//   - segH: segments from pole to pole, values below 2 are raised to 2
//
// Returns:
//   - Geometry: mesh geometry with position, normal and uv attributes
func Sphere(radius float32, segW, segH int) Geometry {
	segW, segH = max(segW, 3), max(segH, 2)
	cols := segW + 1

	pos := make([]float32, 0, cols*(segH+1)*3)
	normals := make([]float32, 0, cols*(segH+1)*3)
	uvs := make([]float32, 0, cols*(segH+1)*2)

	for iy := 0; iy <= segH; iy++ {
		v := float64(iy) / float64(segH)
		uOffset := 0.0
		switch iy {
		case 0:
			uOffset = 0.5 / float64(segW)
		case segH:
			uOffset = -0.5 / float64(segW)
		}
		for ix := 0; ix <= segW; ix++ {
			u := float64(ix) / float64(segW)
			sinV, cosV := math.Sincos(v * math.Pi)
			sinU, cosU := math.Sincos(u * 2 * math.Pi)
			p := mgl32.Vec3{
				float32(-float64(radius) * cosU * sinV),
				float32(float64(radius) * cosV),
				float32(float64(radius) * sinU * sinV),
			}
			n := mgl32.Vec3{float32(-cosU * sinV), float32(cosV), float32(sinU * sinV)}
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}
			pos = append(pos, p[0], p[1], p[2])
			normals = append(normals, n[0], n[1], n[2])
			uvs = append(uvs, float32(u+uOffset), float32(1-v))
		}
	}

	indices := make([]uint32, 0, segW*(segH-1)*6)
	for iy := range segH {
		for ix := range segW {
			a := uint32(iy*cols + ix + 1)
			b := uint32(iy*cols + ix)
			c := uint32((iy+1)*cols + ix)
			d := uint32((iy+1)*cols + ix + 1)
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != segH-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return build(KindMesh, "sphere", []Attribute{
		{Name: PositionAttribute, Size: 3, Data: pos},
		{Name: NormalAttribute, Size: 3, Data: normals},
		{Name: UVAttribute, Size: 2, Data: uvs},
	}, indices)
}
