// Package preset builds the scenes of the four backdrop styles and animates them per frame.
package preset

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/parallax"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind selects a preset.
type Kind int

const (
	KindNight Kind = iota
	KindPetal
	KindNebula
	KindRibbon
)

var kindNames = map[Kind]string{
	KindNight:  "night",
	KindPetal:  "petal",
	KindNebula: "nebula",
	KindRibbon: "ribbon",
}

// kindAliases maps the page each style was first drawn for to its kind.
var kindAliases = map[string]Kind{
	"home":     KindNight,
	"messages": KindPetal,
	"overview": KindNebula,
	"timeline": KindRibbon,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every preset kind.
func Kinds() []Kind {
	return []Kind{KindNight, KindPetal, KindNebula, KindRibbon}
}

// ParseKind resolves a preset name, case-insensitively. Page names are accepted as aliases.
//
// Parameters:
//   - s: the name, e.g. "nebula" or "overview"
//
// Returns:
//   - Kind: the preset kind
//   - error: when the name is unknown
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return KindNight, fmt.Errorf("preset: unknown kind %q", s)
}

// CameraSpec is the perspective camera a preset is viewed through. Fov is in degrees.
type CameraSpec struct {
	Fov      float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// ParallaxSpec describes how pointer movement offsets a preset's camera.
type ParallaxSpec struct {
	// Disabled presets never listen for input.
	Disabled bool
	// DisableOnMobile and DisableOnReducedMotion turn parallax off for those environments.
	DisableOnMobile        bool
	DisableOnReducedMotion bool

	Amplitude mgl32.Vec2
	// MobileAmplitude replaces Amplitude on mobile when non-zero.
	MobileAmplitude mgl32.Vec2
	Follow          parallax.Follow
	FollowRate      float32
	InvertY         bool
}

// Mode resolves the tracker mode for an environment. Presets that stay enabled under a
// reduced-motion preference move with a reduced amplitude.
//
// Parameters:
//   - est: the capability estimate
//
// Returns:
//   - parallax.Mode: the mode to build the tracker with
func (p ParallaxSpec) Mode(est capability.Estimate) parallax.Mode {
	switch {
	case p.Disabled:
		return parallax.ModeDisabled
	case p.DisableOnMobile && est.Mobile:
		return parallax.ModeDisabled
	case est.ReducedMotion && p.DisableOnReducedMotion:
		return parallax.ModeDisabled
	case est.ReducedMotion:
		return parallax.ModeReduced
	default:
		return parallax.ModeFull
	}
}

// Options converts the parallax settings into tracker options for an environment.
//
// Parameters:
//   - est: the capability estimate
//
// Returns:
//   - []parallax.TrackerBuilderOption: the options, mode included
func (p ParallaxSpec) Options(est capability.Estimate) []parallax.TrackerBuilderOption {
	amp := p.Amplitude
	if est.Mobile && p.MobileAmplitude != (mgl32.Vec2{}) {
		amp = p.MobileAmplitude
	}
	opts := []parallax.TrackerBuilderOption{
		parallax.WithMode(p.Mode(est)),
		parallax.WithAmplitude(amp.X(), amp.Y()),
		parallax.WithInvertY(p.InvertY),
	}
	if p.Follow == parallax.FollowLerp {
		opts = append(opts, parallax.WithFollowLerp(p.FollowRate))
	}
	return opts
}

// BuildContext carries everything a preset needs to build its scene.
type BuildContext struct {
	Config   Config
	Estimate capability.Estimate
	Random   geometry.Random
	// Lifecycle receives the generated textures. It may be nil in tools that manage textures
	// themselves.
	Lifecycle lifecycle.Manager
	Logger    common.Logger
}

// Preset builds and animates one backdrop style.
type Preset interface {
	// Kind retrieves the preset kind.
	Kind() Kind

	// Policy retrieves the budget policy the capability estimate is resolved against.
	Policy() capability.Policy

	// PixelRatioCap retrieves the largest pixel ratio the drawing buffer is sized with.
	PixelRatioCap() float64

	// Background retrieves the clear color as 0xRRGGBB.
	Background() uint32

	// Camera retrieves the camera the preset is framed for.
	Camera() CameraSpec

	// Parallax retrieves the pointer parallax behavior.
	Parallax() ParallaxSpec

	// Seed retrieves the seed the layout is generated with when the caller picks none.
	//
	// Returns:
	//   - uint32: the seed
	//   - bool: false when the layout should differ on every mount
	Seed() (uint32, bool)

	// Build creates the scene graph, its materials and textures. Textures are registered with
	// the context's lifecycle manager as they are created.
	//
	// Parameters:
	//   - ctx: the build context
	//
	// Returns:
	//   - *Layers: the built layers
	//   - error: when a program fails to compose
	Build(ctx BuildContext) (*Layers, error)

	// Animate advances the preset's own motion. Shader time is written separately through
	// Layers.SetTime.
	//
	// Parameters:
	//   - l: the layers returned by Build
	//   - t: seconds since the animation started
	//   - frame: the number of frames drawn before this one
	Animate(l *Layers, t float64, frame uint64)
}

// New creates the preset for a kind.
//
// Parameters:
//   - kind: the preset kind
//
// Returns:
//   - Preset: the preset
//   - error: when the kind is unknown
func New(kind Kind) (Preset, error) {
	switch kind {
	case KindNight:
		return night{}, nil
	case KindPetal:
		return petal{}, nil
	case KindNebula:
		return nebula{}, nil
	case KindRibbon:
		return ribbon{}, nil
	default:
		return nil, fmt.Errorf("preset: unknown kind %d", int(kind))
	}
}
