package pipeline

import (
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthVariant selects the depth behaviour a pipeline is built with.
// Write without Test is not a distinct variant and is normalized away.
type DepthVariant struct {
	Test  bool
	Write bool
}

// Normalized returns d with Write cleared when Test is off.
func (d DepthVariant) Normalized() DepthVariant {
	d.Write = d.Write && d.Test
	return d
}

// Suffix returns the key suffix identifying the variant.
func (d DepthVariant) Suffix() string {
	d = d.Normalized()
	switch {
	case d.Write:
		return "depth_test_write"
	case d.Test:
		return "depth_test"
	}
	return "depth_off"
}

// DepthVariants lists every distinct depth variant.
//
// Returns:
//   - []DepthVariant: off, test only, test and write
func DepthVariants() []DepthVariant {
	return []DepthVariant{{}, {Test: true}, {Test: true, Write: true}}
}

// VariantKey builds the pipeline key of a depth variant of a base pipeline.
//
// Parameters:
//   - base: the base key, e.g. "debug_line"
//   - d: the depth variant
//
// Returns:
//   - string: the variant key, e.g. "debug_line/depth_test"
func VariantKey(base string, d DepthVariant) string {
	return base + "/" + d.Suffix()
}

// pipeline holds the render state and shaders a render pipeline is created from.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the renderer once the GPU pipeline exists.
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes one render pipeline: its shaders and its fixed-function state.
// The renderer creates the GPU object from it and stores it back with SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key the renderer caches this pipeline under.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader for the given stage.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if the stage is unset
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, nil until the renderer registered it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// DepthTestEnabled reports whether fragments are depth tested. When false the compare function is Always.
	//
	// Returns:
	//   - bool: true if depth testing is on
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writes are on
	DepthWriteEnabled() bool

	// DepthVariant returns the depth state as a DepthVariant.
	//
	// Returns:
	//   - DepthVariant: the normalized depth state
	DepthVariant() DepthVariant

	// BlendEnabled reports whether BlendState is applied to the color target.
	//
	// Returns:
	//   - bool: true if blending is on
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order of front faces.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the write mask
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - p: the GPU pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline. Defaults: depth test and write on, blending off, no culling,
// triangle list topology, counter-clockwise front faces, all channels written, straight alpha blending.
//
// Parameters:
//   - pipelineKey: the unique key of the pipeline
//   - opts: functional options applied after the defaults
//
// Returns:
//   - Pipeline: the new pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	}
	return nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthVariant() DepthVariant {
	return DepthVariant{Test: p.depthTestEnabled, Write: p.depthWriteEnabled}.Normalized()
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
