// package common contains common types and helpers that are used throughout this engine. They are not interface-wrapped
// structs, just plain structs that express commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Size is a width/height pair in either CSS-style logical pixels or physical buffer pixels,
// depending on where it is used.
type Size struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Aspect returns Width / Height, or 1 when the size is not valid.
func (s Size) Aspect() float32 {
	if !s.Valid() {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields are replaced with defaults by the backend via Coalesce.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}
