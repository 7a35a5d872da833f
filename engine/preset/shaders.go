package preset

// Uniform names used by the custom programs below.
const (
	uniformColor     = "color"
	uniformIntensity = "intensity"
	uniformOffset    = "offset"
	uniformColorA    = "color_a"
	uniformColorB    = "color_b"
	uniformScale     = "scale"
)

// glowSource draws a back-facing sphere whose rim brightens as the view-space normal turns
// away from the camera.
const glowSource = `//@oxy:uniforms
//@oxy:attributes

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var out: VertexOutput;
    let clip = u.projection * u.view * u.model * vec4<f32>(attr.position, 1.0);
    out.clip_position = vec4<f32>(clip.xy, 0.5 * (clip.z + clip.w), clip.w);
    out.normal = (u.view * u.model * vec4<f32>(attr.normal, 0.0)).xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let rim = pow(1.0 - max(0.0, dot(n, vec3<f32>(0.0, 0.0, 1.0))), 2.0);
    return vec4<f32>(u.color, rim * u.intensity);
}
`

// ribbonSource waves a subdivided plane along z and fades it toward its ends and top edge.
const ribbonSource = `//@oxy:uniforms
//@oxy:attributes

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) alpha: f32,
};

@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var p = attr.position;
    let freq = 1.8;
    let amp = 2.2;
    let wave = sin((p.x * 0.12 + u.time * 0.6) * freq + u.offset) * amp * (0.8 + 0.6 * (1.0 - abs(p.y)));
    p.z += wave * (0.8 + 0.4 * sin(u.time * 0.5 + u.offset));
    let taper = 1.0 - smoothstep(0.0, 1.0, abs(p.x) / 40.0);
    p.y *= 0.85 + 0.3 * (1.0 - abs(p.x) / 60.0);

    var out: VertexOutput;
    let clip = u.projection * u.view * u.model * vec4<f32>(p, 1.0);
    out.clip_position = vec4<f32>(clip.xy, 0.5 * (clip.z + clip.w), clip.w);
    out.uv = attr.uv;
    out.alpha = 0.5 * taper * (0.7 + 0.3 * sin(u.time * 0.4 + u.offset));
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let col = mix(u.color_a, u.color_b, smoothstep(0.0, 1.0, in.uv.y));
    let alpha = in.alpha * (1.0 - smoothstep(0.9, 1.0, in.uv.y));
    return vec4<f32>(col, alpha);
}
`

// shaftSource sways a tall plane and fades it horizontally from the center and vertically
// toward the top.
const shaftSource = `//@oxy:uniforms
//@oxy:attributes

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var p = attr.position;
    let f = sin(u.time * 0.4 + attr.position.x * 0.06) * 2.0;
    p.y += f * (1.0 - abs(attr.position.x) / 100.0);

    var out: VertexOutput;
    let clip = u.projection * u.view * u.model * vec4<f32>(p, 1.0);
    out.clip_position = vec4<f32>(clip.xy, 0.5 * (clip.z + clip.w), clip.w);
    out.uv = attr.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let g = smoothstep(0.0, 0.6, 1.0 - abs(in.uv.x - 0.5) * 2.0);
    let col = mix(u.color_a, u.color_b, in.uv.y);
    return vec4<f32>(col, g * (1.0 - in.uv.y) * 0.3);
}
`

// backdropSource fills the screen with a dark vertical gradient and a slowly drifting
// nebula spot. Positions are already in clip space.
const backdropSource = `//@oxy:uniforms
//@oxy:attributes

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = vec4<f32>(attr.position.xy, 0.5, 1.0);
    out.uv = attr.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let uv = in.uv;
    let black = vec3<f32>(0.02, 0.02, 0.03);
    let deep_blue = vec3<f32>(0.03, 0.07, 0.16);
    let deep_purple = vec3<f32>(0.06, 0.03, 0.12);
    var col = mix(black, deep_blue, smoothstep(0.0, 0.7, uv.y));
    col = mix(col, deep_purple, pow(max(1.0 - (uv.x - 0.5) * (uv.x - 0.5) * 2.0, 0.0), 0.9));

    let t = u.time * 0.06;
    let dx = uv.x - 0.45 - 0.06 * sin(t);
    let dy = uv.y - 0.6 + 0.04 * cos(t);
    let n = exp(-6.0 * (dx * dx + dy * dy));
    let neb = vec3<f32>(0.5, 0.35, 0.9) * n * 0.18;

    let final_color = mix(black, col + neb, 0.95);
    return vec4<f32>(final_color, 0.96);
}
`
