package preset

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/parallax"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	nebulaStars    = "stars"
	nebulaBackdrop = "backdrop"
	nebulaMinStars = 6
)

const nebulaDrift = `let t = time * 0.42;
position.x += 0.45 * sin(attr.phase + t * 0.28);
position.y += 0.38 * cos(attr.phase * 0.7 + t * 0.36);
position.z += 0.48 * sin(attr.phase * 0.5 + t * 0.22);`

const nebulaSize = `size = clamp(attr.size * (140.0 / depth), 1.0, 38.0);`

// nebulaShade fades far stars and alternates between two pale hues by phase.
const nebulaShade = `let hue = 0.5 + 0.5 * sin(attr.phase * 1.2);
color = mix(vec3<f32>(0.9, 0.85, 1.0), vec3<f32>(0.7, 0.95, 1.0), hue) * 0.9;
alpha = (1.0 - smoothstep(0.0, 50.0, depth) * 0.6) * 0.94;`

// nebula is a slowly turning disc of pale stars over a dark gradient.
type nebula struct{}

var _ Preset = nebula{}

func (nebula) Kind() Kind { return KindNebula }

func (nebula) Policy() capability.Policy {
	return capability.Policy{
		Mobile: []capability.Band{{Budget: 800, Tier: capability.TierLow}},
		Desktop: []capability.Band{
			{MaxMemoryGB: 2, Budget: 1800, Tier: capability.TierLow},
			{Budget: 3800, Tier: capability.TierMedium},
		},
		ReducedScale: 0.45,
		ReducedFloor: 500,
	}
}

func (nebula) PixelRatioCap() float64 { return 1.5 }

func (nebula) Background() uint32 { return 0x050508 }

func (nebula) Camera() CameraSpec {
	return CameraSpec{
		Fov:      50,
		Near:     0.1,
		Far:      1000,
		Position: mgl32.Vec3{0, 2.6, 18},
		Target:   mgl32.Vec3{0, 0.6, 0},
	}
}

func (nebula) Parallax() ParallaxSpec {
	return ParallaxSpec{
		DisableOnMobile:        true,
		DisableOnReducedMotion: true,
		Amplitude:              mgl32.Vec2{1.2, 0.6},
		MobileAmplitude:        mgl32.Vec2{0.6, 0.3},
		Follow:                 parallax.FollowLerp,
		FollowRate:             0.06,
		InvertY:                true,
	}
}

func (nebula) Seed() (uint32, bool) { return geometry.DefaultSeed, true }

func (p nebula) Build(ctx BuildContext) (*Layers, error) {
	l := newLayers(KindNebula, p.Background(), ctx)
	mobile := ctx.Estimate.Mobile

	if ctx.Config.EnableSecondaryLayer {
		prog, err := shader.NewCustomProgram("nebula-backdrop", backdropSource,
			shader.WithAttribute(geometry.PositionAttribute, 3),
			shader.WithAttribute(geometry.UVAttribute, 2),
		)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", KindNebula, err)
		}
		mat := material.NewMaterial(prog, material.WithName("nebula-backdrop"), material.WithBlend(material.BlendNormal))
		l.Track(mat, 1)
		quad := scene.NewMesh(nebulaBackdrop, geometry.FullscreenQuad(), mat, scene.WithRenderOrder(-1))
		if err := l.Add(l.Root, quad); err != nil {
			return nil, err
		}
	}

	size := 96
	if mobile {
		size = 40
	}
	sprite := l.texture(texture.NewRadialDot(size, []texture.Stop{
		{Offset: 0, Color: texture.Hex(0xffffff)},
		{Offset: 0.3, Color: texture.RGBA(220, 200, 255, 0.92)},
		{Offset: 0.7, Color: texture.RGBA(160, 120, 255, 0.55)},
		{Offset: 1, Color: texture.Transparent},
	}, texture.WithLabel("nebula-star"), texture.WithHighlight(0.6, 0.35, 0.05, 0.14)))

	prog, err := shader.NewPointsProgram("nebula-stars",
		shader.WithAttribute(geometry.SizeAttribute, 1),
		shader.WithAttribute(geometry.PhaseAttribute, 1),
		shader.WithPatch(shader.HookDisplacement, "drift", nebulaDrift),
		shader.WithPatch(shader.HookPointSize, "size", nebulaSize),
		shader.WithPatch(shader.HookColorMix, "shade", nebulaShade),
		shader.WithAlphaCutoff(0.02),
	)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindNebula, err)
	}
	mat := material.NewMaterial(prog, material.WithName("nebula-stars"), material.WithTexture(sprite))
	l.Track(mat, 1)

	count := max(nebulaMinStars, ctx.Estimate.Budget)
	stars := scene.NewPoints(nebulaStars, geometry.Disc(ctx.Random, count, geometry.DefaultDisc()), mat)
	if err := l.Add(l.Root, stars); err != nil {
		return nil, err
	}

	lights := []scene.Node{
		scene.NewLight("ambient", scene.LightAmbient, mgl32.Vec3{1, 1, 1}, 0.45),
		scene.NewLight("key", scene.LightDirectional, mgl32.Vec3{1, 1, 1}, 0.2, scene.WithPosition(mgl32.Vec3{4, 8, 6})),
	}
	for _, light := range lights {
		if err := l.Add(l.Root, light); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (nebula) Animate(l *Layers, t float64, _ uint64) {
	stars, ok := l.Node(nebulaStars)
	if !ok {
		return
	}
	speed := 0.01
	if l.Estimate.Mobile {
		speed *= 0.6
	}
	r := stars.Rotation()
	r[1] = float32(t * speed)
	stars.SetRotation(r)
}
