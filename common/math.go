package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ColorFromHex converts a packed 0xRRGGBB value to a linear [0,1] RGB vector.
//
// Parameters:
//   - hex: the packed color, bits above 24 are ignored
//
// Returns:
//   - mgl32.Vec3: the color with each channel in [0, 1]
func ColorFromHex(hex uint32) mgl32.Vec3 {
	hex &= 0xFFFFFF
	return mgl32.Vec3{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
	}
}

// RotationOrder selects the axis order Euler rotations are composed in.
type RotationOrder int

const (
	// RotationXYZ composes the matrix as Rx·Ry·Rz, so a vertex is rotated about Z first.
	RotationXYZ RotationOrder = iota
	// RotationZYX composes the matrix as Rz·Ry·Rx, so a vertex is rotated about X first.
	RotationZYX
)

// ComposeTransform builds a model matrix from translation, Euler rotation and scale.
//
// Parameters:
//   - position: translation
//   - rotation: Euler angles in radians
//   - scale: per-axis scale
//   - order: the order the rotation axes are composed in
//
// Returns:
//   - mgl32.Mat4: the composed column-major model matrix
func ComposeTransform(position, rotation, scale mgl32.Vec3, order RotationOrder) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	rx := mgl32.HomogRotate3DX(rotation.X())
	ry := mgl32.HomogRotate3DY(rotation.Y())
	rz := mgl32.HomogRotate3DZ(rotation.Z())
	var r mgl32.Mat4
	switch order {
	case RotationZYX:
		r = rz.Mul4(ry).Mul4(rx)
	default:
		r = rx.Mul4(ry).Mul4(rz)
	}
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}
