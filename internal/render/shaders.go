package render

// Render-pass shader sources. The terrain vertex layout mirrors the
// 32-byte compute-side vertex; the fragment pass draws glowing grid lines
// whose width tracks the high band and a height gradient scaled by the
// current amplitude.

const terrainVertexShader = `#version 430 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;

uniform mat4 view_projection;

out vec2 v_uv;
out float v_height;

void main() {
    v_uv = uv;
    v_height = position.y;
    gl_Position = view_projection * vec4(position, 1.0);
}
`

const terrainFragmentShader = `#version 430 core

in vec2 v_uv;
in float v_height;

uniform float amplitude;
uniform float frequency;
uniform float line_width;
uniform float time;

out vec4 frag_color;

void main() {
    // Grid lines in uv space; fwidth keeps them roughly constant width
    // on screen, and the detail frequency tightens the grid as the mids
    // push the surface busier
    float cells = 64.0 * (1.0 + frequency);
    vec2 cell = fract(v_uv * cells);
    vec2 dist = min(cell, 1.0 - cell);
    vec2 fw = fwidth(v_uv * cells);
    float line = 1.0 - smoothstep(0.0, max(line_width, 0.001), min(dist.x / fw.x, dist.y / fw.y) * 0.08);

    // Height gradient from deep teal to crest white
    float norm = clamp(v_height / max(amplitude * 4.0, 1.0) * 0.5 + 0.5, 0.0, 1.0);
    vec3 base = mix(vec3(0.02, 0.12, 0.2), vec3(0.1, 0.6, 0.7), norm);
    vec3 glow = vec3(0.4, 0.9, 1.0) * (0.6 + 0.4 * sin(time * 0.5));

    vec3 color = mix(base, glow, clamp(line, 0.0, 1.0));
    frag_color = vec4(color, 1.0);
}
`

const skyVertexShader = `#version 430 core

// Fullscreen triangle, no vertex buffer needed
out vec2 v_pos;

void main() {
    vec2 verts[3] = vec2[3](vec2(-1.0, -1.0), vec2(3.0, -1.0), vec2(-1.0, 3.0));
    v_pos = verts[gl_VertexID];
    gl_Position = vec4(verts[gl_VertexID], 0.999, 1.0);
}
`

const skyFragmentShader = `#version 430 core

in vec2 v_pos;

uniform float time;

out vec4 frag_color;

void main() {
    float t = clamp(v_pos.y * 0.5 + 0.5, 0.0, 1.0);
    vec3 horizon = vec3(0.35, 0.1, 0.4) + 0.05 * sin(time * 0.1);
    vec3 zenith = vec3(0.01, 0.01, 0.05);
    frag_color = vec4(mix(horizon, zenith, t), 1.0);
}
`
