package preset

import (
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
	nightStars     = "stars"
	nightPointSize = 0.14
	// nightSpin is the y rotation of the star field per second.
	nightSpin = 0.5 * 0.05
)

// nightOrbit swings each star around its rest position on a small sphere.
const nightOrbit = `let move_t = (attr.shift.x + attr.shift.z * time) % TWO_PI;
let move_s = (attr.shift.y + attr.shift.z * time) % TWO_PI;
position += vec3<f32>(cos(move_s) * sin(move_t), cos(move_t), sin(move_s) * sin(move_t)) * attr.shift.w;`

const nightSize = `size *= attr.size;`

// nightColor shades stars from amber near the center to violet at the rim.
const nightColor = `let d = clamp(length(attr.position / vec3<f32>(40.0, 10.0, 40.0)), 0.0, 1.0);
color = mix(vec3<f32>(227.0, 155.0, 0.0), vec3<f32>(100.0, 50.0, 255.0), d) / 255.0;`

// night is a dense orbiting star field with a bright inner shell.
type night struct{}

var _ Preset = night{}

func (night) Kind() Kind { return KindNight }

func (night) Policy() capability.Policy { return capability.DefaultPolicy() }

func (night) PixelRatioCap() float64 { return 2 }

func (night) Background() uint32 { return 0x160016 }

func (night) Camera() CameraSpec {
	return CameraSpec{Fov: 60, Near: 1, Far: 1000, Position: mgl32.Vec3{0, 4, 21}}
}

func (night) Parallax() ParallaxSpec { return ParallaxSpec{Disabled: true} }

func (night) Seed() (uint32, bool) { return 0, false }

func (p night) Build(ctx BuildContext) (*Layers, error) {
	l := newLayers(KindNight, p.Background(), ctx)

	sprite := l.texture(texture.NewRadialDot(128, []texture.Stop{
		{Offset: 0, Color: texture.Hex(0xffffff)},
		{Offset: 0.25, Color: texture.RGBA(220, 180, 255, 0.9)},
		{Offset: 0.5, Color: texture.RGBA(150, 100, 255, 0.6)},
		{Offset: 1, Color: texture.Transparent},
	}, texture.WithLabel("night-star"), texture.WithHighlight(0.62, 0.38, 0.08, 0.14)))

	prog, err := shader.NewPointsProgram("night-stars",
		shader.WithAttribute(geometry.SizeAttribute, 1),
		shader.WithAttribute(geometry.ShiftAttribute, 4),
		shader.WithPatch(shader.HookDisplacement, "orbit", nightOrbit),
		shader.WithPatch(shader.HookPointSize, "size", nightSize),
		shader.WithPatch(shader.HookColorMix, "radial", nightColor),
	)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindNight, err)
	}

	mat := material.NewMaterial(prog, material.WithName("night-stars"), material.WithTexture(sprite))
	if err := mat.SetFloat(shader.UniformPointSize, nightPointSize); err != nil {
		return nil, fmt.Errorf("preset %s: %w", KindNight, err)
	}
	l.Track(mat, math.Pi/2)

	stars := scene.NewPoints(nightStars,
		geometry.ShellAnnulus(ctx.Random, ctx.Estimate.Budget, geometry.DefaultShellAnnulus()),
		mat,
		scene.WithRotationOrder(common.RotationZYX),
		scene.WithRotation(mgl32.Vec3{0, 0, 0.2}),
	)
	if err := l.Add(l.Root, stars); err != nil {
		return nil, err
	}
	return l, nil
}

func (night) Animate(l *Layers, t float64, _ uint64) {
	stars, ok := l.Node(nightStars)
	if !ok {
		return
	}
	r := stars.Rotation()
	r[1] = float32(t * nightSpin)
	stars.SetRotation(r)
}
