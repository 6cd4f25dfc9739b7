package terrain

// ComputeShaderSource is the terrain heightfield kernel: one invocation
// per vertex, 1-D dispatch in workgroups of 256. The uniform block and
// the vertex struct are co-designed with Params and Vertex on the Go
// side; change either only together with its mirror.
const ComputeShaderSource = `#version 430 core

layout(local_size_x = 256) in;

layout(std140, binding = 0) uniform TerrainParams {
    float base_amplitude;
    float base_frequency;
    float detail_amplitude;
    float detail_frequency;
    vec3  camera_pos;
    uint  grid_side;
    float grid_spacing;
    float anim_time;
    vec2  _pad;
};

struct Vertex {
    vec3  position;
    float _pad1;
    vec2  uv;
    vec2  _pad2;
};

layout(std430, binding = 1) buffer VertexBuffer {
    Vertex vertices[];
};

// 3D simplex noise, Stefan Gustavson's arithmetic formulation
// (permutation polynomial, no lookup tables). Output is roughly [-1, 1].
vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 mod289(vec4 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 permute(vec4 x) { return mod289(((x * 34.0) + 1.0) * x); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float snoise(vec3 v) {
    const vec2 C = vec2(1.0 / 6.0, 1.0 / 3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i  = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g  = step(x0.yzx, x0.xyz);
    vec3 l  = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + C.yyy;
    vec3 x3 = x0 - D.yyy;

    i = mod289(i);
    vec4 p = permute(permute(permute(
                 i.z + vec4(0.0, i1.z, i2.z, 1.0))
               + i.y + vec4(0.0, i1.y, i2.y, 1.0))
               + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 0.142857142857;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);

    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);

    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(0.6 - vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), 0.0);
    m = m * m;
    return 42.0 * dot(m * m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)));
}

void main() {
    uint idx = gl_GlobalInvocationID.x;
    // The last workgroup overshoots when N*N is not a multiple of 256
    if (idx >= grid_side * grid_side) {
        return;
    }

    uint x = idx % grid_side;
    uint z = idx / grid_side;

    // The grid is a window of width N*s centered on the camera; noise is
    // always sampled at world coordinates, never grid-local ones
    float half_extent = float(grid_side) * grid_spacing * 0.5;
    float world_x = camera_pos.x - half_extent + float(x) * grid_spacing;
    float world_z = camera_pos.z - half_extent + float(z) * grid_spacing;

    float h_base = snoise(vec3(world_x * base_frequency, world_z * base_frequency, 0.0)) * base_amplitude;
    float h_detail = snoise(vec3(world_x * detail_frequency, world_z * detail_frequency, anim_time)) * detail_amplitude;

    vertices[idx].position = vec3(world_x, h_base + h_detail, world_z);
    vertices[idx].uv = vec2(float(x) / float(grid_side), float(z) / float(grid_side));
}
`
