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
	ribbonRoot = "root"
	ribbonGlow = "glow"
	ribbonDust = "dust"
)

// ribbonSpin is the root rotation added every frame.
var ribbonSpin = mgl32.Vec3{0.0006, 0.002, 0}

const ribbonBob = `let t = time * 0.6 + attr.position.x * 0.02;
position.y += sin(t + attr.position.z * 0.05) * 0.6;`

const ribbonDustSize = `size = attr.size * u.pixel_ratio * 2.0;`

const ribbonDustFade = `alpha = 1.0 - clamp(abs(clip.z / 200.0), 0.0, 1.0);`

// ribbonName names the i-th ribbon node.
func ribbonName(i int) string {
	return fmt.Sprintf("ribbon-%d", i)
}

// ribbon is a handful of waving translucent bands over drifting dust and a soft glow.
type ribbon struct{}

var _ Preset = ribbon{}

func (ribbon) Kind() Kind { return KindRibbon }

func (ribbon) Policy() capability.Policy {
	return capability.Policy{
		AreaDivisor:     12000,
		MinBudget:       800,
		MobileMinBudget: 200,
		MobileAreaScale: 0.25,
		ReducedScale:    capability.DefaultReducedScale,
		CompactIsMobile: true,
	}
}

func (ribbon) PixelRatioCap() float64 { return 1.8 }

func (ribbon) Background() uint32 { return 0x04000a }

func (ribbon) Camera() CameraSpec {
	return CameraSpec{Fov: 55, Near: 0.1, Far: 1000, Position: mgl32.Vec3{0, 0, 60}}
}

func (ribbon) Parallax() ParallaxSpec {
	return ParallaxSpec{Amplitude: mgl32.Vec2{6, -3}}
}

func (ribbon) Seed() (uint32, bool) { return 0, false }

// ribbonCount is the number of bands drawn for an environment.
func ribbonCount(est capability.Estimate) int {
	if est.Mobile {
		return 2
	}
	return 4
}

func (p ribbon) Build(ctx BuildContext) (*Layers, error) {
	l := newLayers(KindRibbon, p.Background(), ctx)
	root := scene.NewGroup(ribbonRoot)
	if err := l.Add(l.Scene.Root(), root); err != nil {
		return nil, err
	}
	l.Root = root
	mobile := ctx.Estimate.Mobile

	if ctx.Config.EnableSecondaryLayer {
		glow, err := glowNode(ribbonGlow, geometry.Sphere(10, 28, 28), common.ColorFromHex(0xc9a7ff).Mul(0.9), 0.8,
			scene.WithScale(mgl32.Vec3{1.5, 1.2, 1.5}))
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", KindRibbon, err)
		}
		if err := l.Add(root, glow); err != nil {
			return nil, err
		}
		l.Track(glow.Material(), 1)
	}

	prog, err := shader.NewCustomProgram("ribbon", ribbonSource,
		shader.WithAttribute(geometry.PositionAttribute, 3),
		shader.WithAttribute(geometry.UVAttribute, 2),
		shader.WithUniform(uniformOffset, shader.UniformFloat),
		shader.WithUniform(uniformColorA, shader.UniformVec3),
		shader.WithUniform(uniformColorB, shader.UniformVec3),
	)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindRibbon, err)
	}

	n := ribbonCount(ctx.Estimate)
	center := float32(n-1) / 2
	for i := range n {
		mat := material.NewMaterial(prog,
			material.WithName(ribbonName(i)),
			material.WithSide(material.SideDouble),
		)
		if err := errors.Join(
			mat.SetFloat(uniformOffset, float32(i)*0.8),
			mat.SetVec3(uniformColorA, common.ColorFromHex(0xceb0ff)),
			mat.SetVec3(uniformColorB, common.ColorFromHex(0x7b5cff)),
		); err != nil {
			return nil, fmt.Errorf("preset %s: %w", KindRibbon, err)
		}
		l.Track(mat, 0.9+0.08*float64(i))

		tilt := float32(0.15)
		if i%2 == 0 {
			tilt = -tilt
		}
		band := scene.NewMesh(ribbonName(i), geometry.Plane(80, float32(10+4*i), 120, 2), mat,
			scene.WithPosition(mgl32.Vec3{(float32(i) - center) * 6, (float32(i) - center) * 3, 0}),
			scene.WithRotation(mgl32.Vec3{0, 0, tilt}),
			scene.WithRenderOrder(1),
		)
		if err := l.Add(root, band); err != nil {
			return nil, err
		}
	}

	sprite := l.texture(texture.NewRadialDot(128, []texture.Stop{
		{Offset: 0, Color: texture.Hex(0xffffff)},
		{Offset: 0.45, Color: texture.Hex(0xb490ff)},
		{Offset: 1, Color: texture.Transparent},
	}, texture.WithLabel("ribbon-dust")))

	dustProg, err := shader.NewPointsProgram("ribbon-dust",
		shader.WithAttribute(geometry.SizeAttribute, 1),
		shader.WithPatch(shader.HookDisplacement, "bob", ribbonBob),
		shader.WithPatch(shader.HookPointSize, "size", ribbonDustSize),
		shader.WithPatch(shader.HookColorMix, "fade", ribbonDustFade),
		shader.WithAlphaCutoff(0.01),
	)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindRibbon, err)
	}
	dustMat := material.NewMaterial(dustProg, material.WithName("ribbon-dust"), material.WithTexture(sprite))
	if err := dustMat.SetVec3(shader.UniformTint, mgl32.Vec3{0.78, 0.5, 1.0}); err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindRibbon, err)
	}
	l.Track(dustMat, 1)

	span := 1.4
	if mobile {
		span = 0.6
	}
	dust := scene.NewPoints(ribbonDust, geometry.Box(ctx.Random, ctx.Estimate.Budget, geometry.BoxParams{
		Extent: mgl32.Vec3{80, 48, 40},
		Size:   geometry.Range{Min: 0.2, Span: span},
	}), dustMat)
	if err := l.Add(root, dust); err != nil {
		return nil, err
	}
	return l, nil
}

func (ribbon) Animate(l *Layers, t float64, frame uint64) {
	for i := range ribbonCount(l.Estimate) {
		band, ok := l.Node(ribbonName(i))
		if !ok {
			continue
		}
		r := band.Rotation()
		r[2] = float32(math.Sin(t*0.12+float64(i)) * 0.06)
		band.SetRotation(r)
	}

	if glow, ok := l.Node(ribbonGlow); ok && !glow.Material().Released() {
		_ = glow.Material().SetFloat(uniformIntensity, float32(0.6+math.Sin(t*0.9)*0.12))
	}

	l.Root.SetRotation(ribbonSpin.Mul(float32(frame + 1)))
}

// glowNode builds a back-facing additive sphere whose rim glows in a single color.
func glowNode(name string, geo geometry.Geometry, color mgl32.Vec3, intensity float32, options ...scene.NodeBuilderOption) (scene.Node, error) {
	prog, err := shader.NewCustomProgram(name, glowSource,
		shader.WithAttribute(geometry.PositionAttribute, 3),
		shader.WithAttribute(geometry.NormalAttribute, 3),
		shader.WithUniform(uniformColor, shader.UniformVec3),
		shader.WithUniform(uniformIntensity, shader.UniformFloat),
	)
	if err != nil {
		return nil, err
	}
	mat := material.NewMaterial(prog, material.WithName(name), material.WithSide(material.SideBack))
	if err := errors.Join(mat.SetVec3(uniformColor, color), mat.SetFloat(uniformIntensity, intensity)); err != nil {
		return nil, err
	}
	return scene.NewMesh(name, geo, mat, options...), nil
}
