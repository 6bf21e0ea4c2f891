package material

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okCompiler(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07}, nil
}

func TestNewMaterial_InstancedKinds(t *testing.T) {
	for _, k := range shapes.InstancedKinds() {
		t.Run(k.String(), func(t *testing.T) {
			m := NewMaterial(k, WithCompiler(okCompiler))
			assert.Equal(t, "debug_"+k.String(), m.Name())
			assert.Equal(t, k, m.Kind())

			vs := m.Shader(shader.ShaderTypeVertex)
			require.NotNil(t, vs)
			require.Len(t, vs.VertexLayouts(), 1)
			assert.Equal(t, wgpu.VertexFormatUint32x2, vs.VertexLayouts()[0].Attributes[0].Format)

			cam := m.BindGroupLayoutDescriptor(GroupCamera)
			require.Len(t, cam.Entries, 1)
			assert.Equal(t, uint64(80), cam.Entries[0].Buffer.MinBindingSize)

			group := m.BindGroupLayoutDescriptor(GroupShape)
			require.Len(t, group.Entries, 4)
			assert.Equal(t, uint64(k.Info().RecordSize), group.Entries[BindingRecords].Buffer.MinBindingSize)
			assert.Equal(t, uint64(16), group.Entries[BindingColors].Buffer.MinBindingSize)
			assert.Equal(t, uint64(4), group.Entries[BindingModifications].Buffer.MinBindingSize)
			assert.Equal(t, wgpu.BufferBindingTypeUniform, group.Entries[BindingParams].Buffer.Type)
			assert.Equal(t, uint64(16), group.Entries[BindingParams].Buffer.MinBindingSize)

			pipelines := m.Pipelines()
			require.Len(t, pipelines, 3)
			for i, d := range pipeline.DepthVariants() {
				assert.Equal(t, pipeline.VariantKey(m.Name(), d), pipelines[i].PipelineKey())
				assert.Equal(t, d, pipelines[i].DepthVariant())
				assert.Equal(t, wgpu.PrimitiveTopologyLineList, pipelines[i].Topology())
				assert.True(t, pipelines[i].BlendEnabled())
			}
			assert.Same(t, pipelines[0], m.Pipeline(pipeline.DepthVariant{Write: true}))

			_, _, indexCount := m.MeshData()
			assert.Equal(t, k.Info().ShapesPerGroup*k.Info().VerticesPerShape, indexCount)
		})
	}
}

func TestNewMaterial_Text(t *testing.T) {
	m := NewMaterial(shapes.KindText, WithCompiler(okCompiler))
	assert.Equal(t, "debug_text", m.Name())

	group := m.BindGroupLayoutDescriptor(GroupShape)
	require.Len(t, group.Entries, 4)
	assert.Equal(t, uint64(80), group.Entries[BindingGlyphs].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, group.Entries[BindingTextParams].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, group.Entries[BindingAtlas].Visibility)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, group.Entries[BindingAtlas].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, group.Entries[BindingAtlasSampler].Sampler.Type)

	for _, p := range m.Pipelines() {
		assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	}
}

func TestNewMaterial_Options(t *testing.T) {
	m := NewMaterial(shapes.KindBox, WithName("gizmo_box"), WithCompiler(okCompiler))
	assert.Equal(t, "gizmo_box", m.Name())
	assert.Equal(t, "gizmo_box_mesh", m.Mesh().Label())
	assert.Equal(t, "gizmo_box/depth_test", m.Pipeline(pipeline.DepthVariant{Test: true}).PipelineKey())
}

func TestNewMaterial_InvalidKindPanics(t *testing.T) {
	assert.PanicsWithValue(t, "material: invalid kind 42", func() {
		NewMaterial(shapes.Kind(42))
	})
}

func TestMaterial_Readiness(t *testing.T) {
	release := make(chan struct{})
	m := NewMaterial(shapes.KindLine, WithCompiler(func(src string) ([]byte, error) {
		<-release
		return okCompiler(src)
	}))

	assert.ErrorIs(t, m.Compiled(), shader.ErrNotCompiled)
	m.CompileAsync()
	assert.False(t, m.Ready())

	close(release)
	require.NoError(t, m.Shader(shader.ShaderTypeVertex).Wait())
	require.NoError(t, m.Shader(shader.ShaderTypeFragment).Wait())
	require.NoError(t, m.Compiled())
	assert.False(t, m.Ready(), "compiled but not registered")

	m.MarkRegistered()
	assert.True(t, m.Registered())
	assert.True(t, m.Ready())

	m.Release()
	assert.False(t, m.Registered())
	assert.False(t, m.Ready())
}

func TestMaterial_CompileFailureIsReported(t *testing.T) {
	boom := errors.New("expected expression")
	m := NewMaterial(shapes.KindArc, WithCompiler(func(src string) ([]byte, error) {
		if strings.Contains(src, "@fragment") {
			return nil, boom
		}
		return okCompiler(src)
	}))
	m.CompileAsync()
	_ = m.Shader(shader.ShaderTypeVertex).Wait()
	_ = m.Shader(shader.ShaderTypeFragment).Wait()

	err := m.Compiled()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.Ready())
}

func TestMaterial_WGSLCompilesWithNaga(t *testing.T) {
	kinds := append(shapes.InstancedKinds(), shapes.KindText)
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			m := NewMaterial(k)
			m.CompileAsync()
			require.NoError(t, m.Shader(shader.ShaderTypeVertex).Wait(), "vertex shader")
			require.NoError(t, m.Shader(shader.ShaderTypeFragment).Wait(), "fragment shader")
			assert.NoError(t, m.Compiled())
		})
	}
}

func TestGPUShapeParams_Marshal(t *testing.T) {
	p := GPUShapeParams{Count: 300, ShapesPerGroup: 128, VerticesPerShape: 2, Flags: ShapeFlagCapture}
	assert.Equal(t, 16, p.Size())
	buf := p.Marshal()
	assert.Equal(t, uint32(300), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(128), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, ShapeFlagCapture, binary.LittleEndian.Uint32(buf[12:]))
}

func TestGPUTextParams_Marshal(t *testing.T) {
	p := GPUTextParams{Count: 5, GlyphsPerGroup: 64, Viewport: [2]float32{1280, 720}}
	assert.Equal(t, 16, p.Size())
	buf := p.Marshal()
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, float32(1280), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(720), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
}
