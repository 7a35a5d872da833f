package preset

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	petalRoot   = "root"
	petalGlow   = "glow"
	petalFall   = "petals"
	petalOrbs   = "orbs"
	petalShafts = 3
)

var petalSpin = mgl32.Vec3{0.00025, 0.0008, 0}

// petalDrop lets each petal fall through a 40 unit band and wrap, swaying sideways.
const petalDrop = `let t = time * attr.speed * 0.01 + attr.position.x * 0.01;
position.y -= fract(t) * 40.0 * (0.6 + 0.8 * attr.speed);
position.x += sin(t * 2.0 + attr.position.z * 0.3) * 6.0;`

const petalSize = `size = (12.0 + attr.speed * 8.0) * u.scale * (300.0 / depth);`

const petalFlicker = `alpha = 0.7 * (0.8 + 0.2 * sin(time + attr.speed));`

const orbBob = `let t = time * 0.6 + attr.position.x * 0.02;
position.y += sin(t + attr.position.z * 0.05) * 2.0;`

const orbSize = `size = attr.size * u.pixel_ratio * 10.0;`

const orbFade = `alpha = (1.0 - clamp(abs(clip.z / 100.0), 0.0, 1.0)) * 0.9;`

func shaftName(i int) string {
	return fmt.Sprintf("shaft-%d", i)
}

// petal is falling petals and floating orbs under a tinted glow and slanted light shafts.
type petal struct{}

var _ Preset = petal{}

func (petal) Kind() Kind { return KindPetal }

func (petal) Policy() capability.Policy {
	return capability.Policy{
		Mobile:          []capability.Band{{Budget: 140, Tier: capability.TierLow}},
		Desktop:         []capability.Band{{Budget: 420, Tier: capability.TierMedium}},
		ReducedScale:    capability.DefaultReducedScale,
		CompactIsMobile: true,
	}
}

func (petal) PixelRatioCap() float64 { return 1.6 }

func (petal) Background() uint32 { return 0x06020b }

func (petal) Camera() CameraSpec {
	return CameraSpec{Fov: 45, Near: 0.1, Far: 1000, Position: mgl32.Vec3{0, 0, 90}}
}

func (petal) Parallax() ParallaxSpec {
	return ParallaxSpec{Amplitude: mgl32.Vec2{10, -5}}
}

func (petal) Seed() (uint32, bool) { return 0, false }

// petalShaftsShown reports whether the light shafts are part of the scene.
func petalShaftsShown(cfg Config, est capability.Estimate) bool {
	return cfg.EnableSecondaryLayer && !est.Mobile
}

func (p petal) Build(ctx BuildContext) (*Layers, error) {
	l := newLayers(KindPetal, p.Background(), ctx)
	root := scene.NewGroup(petalRoot)
	if err := l.Add(l.Scene.Root(), root); err != nil {
		return nil, err
	}
	l.Root = root
	base := common.ColorFromHex(ctx.Config.BaseColor)

	glow, err := glowNode(petalGlow, geometry.Sphere(10, 32, 32), base.Mul(0.92), 0.9,
		scene.WithPosition(mgl32.Vec3{0, -6, -12}),
		scene.WithScale(mgl32.Vec3{1.8, 1.05, 1.8}),
	)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindPetal, err)
	}
	if err := l.Add(root, glow); err != nil {
		return nil, err
	}
	l.Track(glow.Material(), 1)

	if err := p.buildPetals(l, ctx); err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindPetal, err)
	}
	if err := p.buildOrbs(l, ctx); err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindPetal, err)
	}

	if petalShaftsShown(ctx.Config, ctx.Estimate) {
		if err := p.buildShafts(l, base); err != nil {
			return nil, fmt.Errorf("preset %s: %w", KindPetal, err)
		}
	}
	return l, nil
}

func (petal) buildPetals(l *Layers, ctx BuildContext) error {
	sprite := l.texture(texture.NewPetal(128, texture.Hex(0xffdfe8), texture.Hex(0xf0d8ff), texture.WithLabel("petal")))
	prog, err := shader.NewPointsProgram("petal-fall",
		shader.WithAttribute(geometry.SpeedAttribute, 1),
		shader.WithUniform(uniformScale, shader.UniformFloat),
		shader.WithPatch(shader.HookDisplacement, "fall", petalDrop),
		shader.WithPatch(shader.HookPointSize, "size", petalSize),
		shader.WithPatch(shader.HookColorMix, "flicker", petalFlicker),
		shader.WithAlphaCutoff(0.02),
	)
	if err != nil {
		return err
	}
	mat := material.NewMaterial(prog, material.WithName("petal-fall"), material.WithTexture(sprite))
	scale := float32(1)
	if ctx.Estimate.Mobile {
		scale = 0.6
	}
	if err := mat.SetFloat(uniformScale, scale); err != nil {
		return err
	}
	l.Track(mat, 1)

	petals := scene.NewPoints(petalFall, geometry.Box(ctx.Random, ctx.Estimate.Budget, geometry.BoxParams{
		Extent: mgl32.Vec3{120, 80, 40},
		Rot:    true,
		Speed:  geometry.Range{Min: 0.2, Span: 0.9},
	}), mat)
	return l.Add(l.Root, petals)
}

func (petal) buildOrbs(l *Layers, ctx BuildContext) error {
	sprite := l.texture(texture.NewRadialDot(128, []texture.Stop{
		{Offset: 0, Color: texture.Hex(0xffffff)},
		{Offset: 0.5, Color: texture.Hex(0xcaa6ff)},
		{Offset: 1, Color: texture.Transparent},
	}, texture.WithLabel("petal-orb")))
	prog, err := shader.NewPointsProgram("petal-orbs",
		shader.WithAttribute(geometry.SizeAttribute, 1),
		shader.WithPatch(shader.HookDisplacement, "bob", orbBob),
		shader.WithPatch(shader.HookPointSize, "size", orbSize),
		shader.WithPatch(shader.HookColorMix, "fade", orbFade),
		shader.WithAlphaCutoff(0.01),
	)
	if err != nil {
		return err
	}
	mat := material.NewMaterial(prog, material.WithName("petal-orbs"), material.WithTexture(sprite))
	if err := mat.SetVec3(shader.UniformTint, mgl32.Vec3{0.9, 0.75, 1.0}); err != nil {
		return err
	}
	l.Track(mat, 1)

	count := 80
	if ctx.Estimate.Mobile {
		count = 30
	}
	orbs := scene.NewPoints(petalOrbs, geometry.Box(ctx.Random, count, geometry.BoxParams{
		Extent: mgl32.Vec3{90, 60, 30},
		Size:   geometry.Range{Min: 0.6, Span: 1.6},
	}), mat)
	return l.Add(l.Root, orbs)
}

func (petal) buildShafts(l *Layers, base mgl32.Vec3) error {
	prog, err := shader.NewCustomProgram("petal-shaft", shaftSource,
		shader.WithAttribute(geometry.PositionAttribute, 3),
		shader.WithAttribute(geometry.UVAttribute, 2),
		shader.WithUniform(uniformColorA, shader.UniformVec3),
		shader.WithUniform(uniformColorB, shader.UniformVec3),
	)
	if err != nil {
		return err
	}
	for i := range petalShafts {
		mat := material.NewMaterial(prog, material.WithName(shaftName(i)), material.WithSide(material.SideDouble))
		if err := errors.Join(
			mat.SetVec3(uniformColorA, common.ColorFromHex(0xfff6ff)),
			mat.SetVec3(uniformColorB, base),
		); err != nil {
			return err
		}
		l.Track(mat, 0.6+0.15*float64(i))

		off := float32(i - 1)
		shaft := scene.NewMesh(shaftName(i), geometry.Plane(40, 140, 1, 1), mat,
			scene.WithPosition(mgl32.Vec3{off * 36, -10, -18 - 2*float32(i)}),
			scene.WithRotation(mgl32.Vec3{0, 0, off * 0.08}),
		)
		if err := l.Add(l.Root, shaft); err != nil {
			return err
		}
	}
	return nil
}

func (petal) Animate(l *Layers, t float64, frame uint64) {
	if glow, ok := l.Node(petalGlow); ok && !glow.Material().Released() {
		_ = glow.Material().SetFloat(uniformIntensity, float32(0.7+math.Sin(t*1.2)*0.18))
	}

	for i := range petalShafts {
		shaft, ok := l.Node(shaftName(i))
		if !ok {
			continue
		}
		r := shaft.Rotation()
		r[2] = float32(math.Sin(t*0.12+float64(i))*0.02 + float64(i-1)*0.06)
		shaft.SetRotation(r)
	}

	l.Root.SetRotation(petalSpin.Mul(float32(frame + 1)))
}
