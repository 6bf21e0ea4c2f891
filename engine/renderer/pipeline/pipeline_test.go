package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("debug_line")
	assert.Equal(t, "debug_line", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.Shader(0))
}

func TestNewPipeline_Options(t *testing.T) {
	p := NewPipeline("debug_line",
		WithDepthVariant(DepthVariant{Test: false, Write: true}),
		WithBlendEnabled(true),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithCullMode(wgpu.CullModeBack),
	)
	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled(), "write without test is normalized away")
	assert.Equal(t, DepthVariant{}, p.DepthVariant())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
}

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "debug_box/depth_off", VariantKey("debug_box", DepthVariant{}))
	assert.Equal(t, "debug_box/depth_off", VariantKey("debug_box", DepthVariant{Write: true}))
	assert.Equal(t, "debug_box/depth_test", VariantKey("debug_box", DepthVariant{Test: true}))
	assert.Equal(t, "debug_box/depth_test_write", VariantKey("debug_box", DepthVariant{Test: true, Write: true}))

	seen := map[string]bool{}
	for _, d := range DepthVariants() {
		seen[d.Suffix()] = true
	}
	assert.Len(t, seen, 3)
}
