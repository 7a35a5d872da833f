package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("stars mesh", WithElementCount(3800), WithIndexCount(6))
	assert.Equal(t, "stars mesh", p.Label())
	assert.Equal(t, 3800, p.ElementCount())
	assert.Equal(t, 6, p.IndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer())
	assert.Nil(t, p.VertexBuffers())
}

func TestBindGroupProvider_ReleaseIsIdempotent(t *testing.T) {
	p := NewBindGroupProvider("draw")
	p.SetElementCount(10)
	p.SetIndexBuffer(nil, 12)

	assert.False(t, p.Released())
	p.Release()
	assert.True(t, p.Released())
	assert.Zero(t, p.ElementCount())
	assert.Zero(t, p.IndexCount())

	assert.NotPanics(t, p.Release)
}
