package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecord = `
struct LineRecord {
    a: vec3<f32>,
    b: vec3<f32>,
};`

const testVertex = `
struct Camera {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
};

struct Params {
    count: u32,
    shapes_per_group: u32,
    vertices_per_shape: u32,
    flags: u32,
};

// slot and vertex index inside the instance group
struct VertexInput {
    @location(0) ids: vec2<u32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<storage, read> records: array<LineRecord>;
@group(1) @binding(1) var<storage, read> colors: array<vec4<f32>>;
@group(1) @binding(3) var<uniform> params: Params;

/* block /* nested */ comment with @fragment fn wrong() */
@vertex
fn vs_line(in: VertexInput, @builtin(instance_index) instance: u32) -> VertexOutput {
    var out: VertexOutput;
    return out;
}
`

const testFragment = `
@group(2) @binding(0) var atlas: texture_2d<f32>;
@group(2) @binding(1) var atlas_sampler: sampler;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func okCompiler(source string) ([]byte, error) {
	return []byte{1, 2, 3, 4}, nil
}

func TestNewShader_Reflection(t *testing.T) {
	s := NewShader("line_vs", ShaderTypeVertex, testVertex, WithPrelude(testRecord), WithCompiler(okCompiler))

	assert.Equal(t, "line_vs", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_line", s.EntryPoint())
	assert.Contains(t, s.Source(), "struct LineRecord")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(8), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatUint32x2, layouts[0].Attributes[0].Format)

	camera := s.BindGroupLayoutDescriptor(0)
	require.Len(t, camera.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, camera.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), camera.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, camera.Entries[0].Visibility)

	kind := s.BindGroupLayoutDescriptor(1)
	require.Len(t, kind.Entries, 3)
	assert.Equal(t, uint32(0), kind.Entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, kind.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(32), kind.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(16), kind.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, uint32(3), kind.Entries[2].Binding)
	assert.Equal(t, uint64(16), kind.Entries[2].Buffer.MinBindingSize)

	binding, ok := s.BindGroupFromVarName(1, "params")
	assert.True(t, ok)
	assert.Equal(t, 3, binding)
	_, ok = s.BindGroupFromVarName(1, "missing")
	assert.False(t, ok)

	mod := s.Module()
	assert.Equal(t, "line_vs", mod.Label)
	assert.Equal(t, s.Source(), mod.WGSLDescriptor.Code)
}

func TestNewShader_FragmentTextures(t *testing.T) {
	s := NewShader("text_fs", ShaderTypeFragment, testFragment, WithCompiler(okCompiler))
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())

	desc := s.BindGroupLayoutDescriptor(2)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[1].Visibility)
}

func TestNewShader_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "shader: empty has no source", func() {
		NewShader("empty", ShaderTypeVertex, "  ")
	})
	assert.PanicsWithValue(t, "shader: frag has no @fragment entry point", func() {
		NewShader("frag", ShaderTypeFragment, testRecord)
	})
}

func TestShader_CompileAsync(t *testing.T) {
	release := make(chan struct{})
	s := NewShader("line_vs", ShaderTypeVertex, testVertex, WithPrelude(testRecord), WithCompiler(func(src string) ([]byte, error) {
		<-release
		return okCompiler(src)
	}))

	assert.ErrorIs(t, s.Compiled(), ErrNotCompiled)
	assert.ErrorIs(t, s.Wait(), ErrNotCompiled)

	s.CompileAsync()
	s.CompileAsync()
	assert.False(t, s.Ready())
	assert.ErrorIs(t, s.Compiled(), ErrNotCompiled)

	close(release)
	require.NoError(t, s.Wait())
	assert.True(t, s.Ready())
}

func TestShader_CompileFailure(t *testing.T) {
	boom := errors.New("unexpected token")
	s := NewShader("bad_vs", ShaderTypeVertex, testVertex, WithPrelude(testRecord), WithCompiler(func(string) ([]byte, error) {
		return nil, boom
	}))
	s.CompileAsync()

	err := s.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotCompiled)
	assert.False(t, s.Ready())
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Rec": {80, 16}}
	tests := []struct {
		typeName string
		size     uint64
		ok       bool
	}{
		{"f32", 4, true},
		{"vec3<f32>", 12, true},
		{"Rec", 80, true},
		{"array<Rec>", 80, true},
		{"array<vec3<f32>, 4>", 64, true},
		{"array<u32>", 4, true},
		{"Unknown", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			layout, ok := resolveTypeLayout(tt.typeName, known)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.size, layout.size)
		})
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vs := NewShader("text_vs", ShaderTypeVertex, `
@group(1) @binding(0) var<storage, read> glyphs: array<vec4<f32>>;
@group(1) @binding(1) var<uniform> params: vec4<u32>;
@vertex
fn vs_text() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}`, WithCompiler(okCompiler))
	fs := NewShader("text_fs", ShaderTypeFragment, `
@group(1) @binding(1) var<uniform> params: vec4<u32>;
@group(1) @binding(2) var atlas: texture_2d<f32>;
@group(1) @binding(3) var atlas_sampler: sampler;
@fragment
fn fs_text() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}`, WithCompiler(okCompiler))

	merged := MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	require.Len(t, merged, 1)
	entries := merged[1].Entries
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Equal(t, wgpu.ShaderStageVertex, entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entries[1].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[2].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[3].Visibility)
}
