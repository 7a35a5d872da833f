package shader

import (
	"strconv"
	"strings"
)

// pointsTemplate is the base point sprite program. Clip-space z is produced GL style by the
// projection and remapped to [0, w] on output, so patches may reason about clip.z the usual way.
const pointsTemplate = `//@oxy:uniforms
//@oxy:attributes

const TWO_PI: f32 = 6.283185307179586;
const ALPHA_CUTOFF: f32 = {{ALPHA_CUTOFF}};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) alpha: f32,
};

@vertex
fn vs_main(@builtin(vertex_index) vertex_index: u32, attr: Attributes) -> VertexOutput {
    var corners = array<vec2<f32>, 6>(
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(1.0, -1.0),
        vec2<f32>(1.0, 1.0),
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(1.0, 1.0),
        vec2<f32>(-1.0, 1.0),
    );
    let time = u.time;

    var position = attr.position;
    //@oxy:hook displacement
    let mv = u.view * u.model * vec4<f32>(position, 1.0);
    let depth = max(-mv.z, 0.0001);

    var size = u.point_size * u.resolution.y * 0.5 / depth;
    //@oxy:hook point_size
    let clip = u.projection * mv;

    var color = u.tint;
    var alpha = 1.0;
    //@oxy:hook color_mix

    let corner = corners[vertex_index];
    let half_px = corner * size / max(u.resolution, vec2<f32>(1.0, 1.0));
    var out: VertexOutput;
    out.clip_position = vec4<f32>(clip.xy + half_px * clip.w, 0.5 * (clip.z + clip.w), clip.w);
    out.uv = vec2<f32>(corner.x * 0.5 + 0.5, 0.5 - corner.y * 0.5);
    out.color = color;
    out.alpha = alpha;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let texel = textureSample(sprite_texture, sprite_sampler, in.uv);
    var rgb = vec3<f32>(0.0);
    if (texel.a > 0.0) {
        rgb = texel.rgb / texel.a;
    }
    let rgba = vec4<f32>(rgb * in.color, texel.a * in.alpha);
    if (rgba.a < ALPHA_CUTOFF) {
        discard;
    }
    return rgba;
}
`

// pointsSource renders the points template with the given alpha cutoff.
func pointsSource(alphaCutoff float64) string {
	return strings.Replace(pointsTemplate, "{{ALPHA_CUTOFF}}", wgslFloat(alphaCutoff), 1)
}

// wgslFloat formats v as a WGSL float literal.
func wgslFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
