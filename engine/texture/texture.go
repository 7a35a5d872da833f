// Package texture builds the small procedural sprites the backdrop presets sample from.
//
// Every texture is rasterized once on the CPU when it is created and never regenerated.
// Sprites are always drawn as screen-aligned billboards, so textures carry no mipmaps and
// sample with linear filtering and clamp-to-edge addressing.
package texture

import (
	"errors"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// ErrReleased is returned by Release when the texture was already released.
var ErrReleased = errors.New("texture: already released")

// texture is the implementation of the Texture interface.
type texture struct {
	mu        sync.Mutex
	id        uuid.UUID
	label     string
	img       *image.RGBA
	released  bool
	onRelease []func()

	highlight *highlight
}

// Texture is a CPU-side RGBA sprite plus its sampling contract.
//
// Pixel data is premultiplied RGBA8 in row-major order. Renderer backends upload it once and
// register an OnRelease hook to free their GPU copy when the texture is released.
type Texture interface {
	// ID retrieves the unique identifier of the texture.
	//
	// Returns:
	//   - uuid.UUID: the texture id
	ID() uuid.UUID

	// Label retrieves the human readable label used in logs and GPU debug names.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Size retrieves the edge length of the square texture in pixels.
	//
	// Returns:
	//   - int: the edge length, or 0 once released
	Size() int

	// Image retrieves the rasterized sprite.
	//
	// Returns:
	//   - *image.RGBA: the image, or nil once released
	Image() *image.RGBA

	// Pixels retrieves the raw premultiplied RGBA bytes of the sprite.
	//
	// Returns:
	//   - []byte: the pixel data, or nil once released
	Pixels() []byte

	// Staging packages the pixel data for a GPU upload.
	//
	// Returns:
	//   - common.TextureStagingData: pixels and dimensions
	Staging() common.TextureStagingData

	// Sampler retrieves the sampler configuration every procedural sprite uses.
	//
	// Returns:
	//   - common.SamplerStagingData: linear filtering, clamp-to-edge, single mip level
	Sampler() common.SamplerStagingData

	// Mipmaps reports whether the texture carries a mip chain. Always false.
	Mipmaps() bool

	// OnRelease registers a hook run once when the texture is released.
	//
	// Parameters:
	//   - fn: the hook, ignored when nil
	OnRelease(fn func())

	// Release drops the pixel data and runs the release hooks.
	//
	// Returns:
	//   - error: ErrReleased when called a second time, nil otherwise
	Release() error

	// Released reports whether Release has already run.
	Released() bool
}

var _ Texture = &texture{}

func newTexture(label string, img *image.RGBA, options ...TextureBuilderOption) *texture {
	t := &texture{
		id:    uuid.New(),
		label: label,
		img:   img,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.highlight != nil {
		t.highlight.draw(t.img)
	}
	return t
}

func (t *texture) ID() uuid.UUID {
	return t.id
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

func (t *texture) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img
}

func (t *texture) Pixels() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return nil
	}
	return t.img.Pix
}

func (t *texture) Staging() common.TextureStagingData {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img == nil {
		return common.TextureStagingData{}
	}
	b := t.img.Bounds()
	return common.TextureStagingData{
		Pixels: t.img.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}
}

func (t *texture) Sampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   0,
		MaxAnisotropy: 1,
	}
}

func (t *texture) Mipmaps() bool {
	return false
}

func (t *texture) OnRelease(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.onRelease = append(t.onRelease, fn)
}

func (t *texture) Release() error {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return ErrReleased
	}
	t.released = true
	t.img = nil
	hooks := t.onRelease
	t.onRelease = nil
	t.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return nil
}

func (t *texture) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
