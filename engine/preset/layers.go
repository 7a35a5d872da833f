package preset

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
)

type timedMaterial struct {
	mat   material.Material
	scale float64
}

// Layers is the result of building a preset: its scene and the handles its animation needs.
type Layers struct {
	// Scene holds every node of the preset. Its root is never rotated.
	Scene scene.Scene
	// Root is the group the preset animates as a whole. It is the scene root for presets
	// that do not rotate everything together.
	Root     scene.Node
	Estimate capability.Estimate
	Config   Config

	mu       sync.Mutex
	nodes    map[string]scene.Node
	timed    []timedMaterial
	textures []texture.Texture
	lm       lifecycle.Manager
}

func newLayers(kind Kind, background uint32, ctx BuildContext) *Layers {
	s := scene.NewScene(kind.String(), scene.WithBackground(background))
	return &Layers{
		Scene:    s,
		Root:     s.Root(),
		Estimate: ctx.Estimate,
		Config:   ctx.Config,
		nodes:    make(map[string]scene.Node),
		lm:       ctx.Lifecycle,
	}
}

// Add attaches a node to a parent and indexes it by name.
//
// Parameters:
//   - parent: the parent node, typically Root or Scene.Root()
//   - n: the node to attach
//
// Returns:
//   - error: when the node cannot be attached
func (l *Layers) Add(parent, n scene.Node) error {
	if err := parent.Add(n); err != nil {
		return err
	}
	l.mu.Lock()
	l.nodes[n.Name()] = n
	l.mu.Unlock()
	return nil
}

// Node retrieves a node added through Add by name.
func (l *Layers) Node(name string) (scene.Node, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.nodes[name]
	return n, ok
}

// Track makes SetTime drive a material's time uniform, multiplied by scale.
func (l *Layers) Track(mat material.Material, scale float64) {
	l.mu.Lock()
	l.timed = append(l.timed, timedMaterial{mat: mat, scale: scale})
	l.mu.Unlock()
}

// SetTime writes the animation time to every tracked material. Released materials are skipped.
//
// Parameters:
//   - t: seconds since the animation started
func (l *Layers) SetTime(t float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tm := range l.timed {
		if tm.mat.Released() {
			continue
		}
		_ = tm.mat.SetFloat(shader.UniformTime, float32(t*tm.scale))
	}
}

// SetPixelRatio writes the drawing buffer's pixel ratio to every material of the scene.
func (l *Layers) SetPixelRatio(ratio float64) {
	for _, m := range l.Scene.Materials() {
		if m.Released() {
			continue
		}
		_ = m.SetFloat(shader.UniformPixelRatio, float32(ratio))
	}
}

// Textures retrieves the sprites generated for the preset.
func (l *Layers) Textures() []texture.Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]texture.Texture, len(l.textures))
	copy(out, l.textures)
	return out
}

// texture records a generated sprite and hands its release to the lifecycle manager.
func (l *Layers) texture(tex texture.Texture) texture.Texture {
	l.mu.Lock()
	l.textures = append(l.textures, tex)
	l.mu.Unlock()
	if l.lm != nil {
		l.lm.Register(lifecycle.StageTextures, tex.Label(), tex.Release)
	}
	return tex
}

