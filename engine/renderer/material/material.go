package material

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices and bindings shared by every debug shape shader.
const (
	GroupCamera = 0
	GroupShape  = 1

	BindingRecords       = 0
	BindingColors        = 1
	BindingModifications = 2
	BindingParams        = 3

	BindingGlyphs       = 0
	BindingTextParams   = 1
	BindingAtlas        = 2
	BindingAtlasSampler = 3
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name string
	kind shapes.Kind

	vertexShader   shader.Shader
	fragmentShader shader.Shader
	layouts        map[int]wgpu.BindGroupLayoutDescriptor
	pipelines      map[pipeline.DepthVariant]pipeline.Pipeline

	mesh       bind_group_provider.BindGroupProvider
	registered bool

	compiler shader.CompileFunc
}

// Material is the shader pair, pipelines and instance-group mesh used to draw one kind of debug shape.
//
// A material is usable once both shaders finished compiling and its pipelines and mesh were registered
// with the GPU. Until then callers skip the kind and try again on the next frame.
type Material interface {
	// Name returns the material name, also the base of its pipeline keys.
	//
	// Returns:
	//   - string: the name, e.g. "debug_line"
	Name() string

	// Kind returns the shape kind this material draws.
	//
	// Returns:
	//   - shapes.Kind: the kind
	Kind() shapes.Kind

	// Shader returns the shader for a stage.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the pipeline for a depth variant. Write without test resolves to the depth-off pipeline.
	//
	// Parameters:
	//   - d: the depth variant
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline
	Pipeline(d pipeline.DepthVariant) pipeline.Pipeline

	// Pipelines returns every depth variant pipeline in pipeline.DepthVariants order.
	//
	// Returns:
	//   - []pipeline.Pipeline: the pipelines
	Pipelines() []pipeline.Pipeline

	// BindGroupLayoutDescriptor returns the merged vertex and fragment layout of a bind group.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// Mesh returns the provider holding the instance-group vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	Mesh() bind_group_provider.BindGroupProvider

	// MeshData builds the instance-group mesh to upload into Mesh.
	//
	// Returns:
	//   - []byte: vertex data
	//   - []byte: uint32 index data
	//   - int: index count
	MeshData() ([]byte, []byte, int)

	// CompileAsync starts compiling both shaders in the background. Repeated calls are no-ops.
	CompileAsync()

	// Compiled reports the compile state of both shaders.
	//
	// Returns:
	//   - error: nil when both compiled, shader.ErrNotCompiled while pending, the compile error on failure
	Compiled() error

	// Registered reports whether pipelines and mesh were registered with the GPU.
	Registered() bool

	// MarkRegistered records that pipelines and mesh were registered with the GPU.
	MarkRegistered()

	// Ready reports whether the material can be drawn with.
	//
	// Returns:
	//   - bool: true when compiled and registered
	Ready() bool

	// Release releases the mesh buffers and forgets the registration.
	Release()
}

var _ Material = &material{}

// NewMaterial creates the material for kind k. Shaders are reflected immediately; compilation starts with CompileAsync.
// It panics on an invalid kind.
//
// Parameters:
//   - k: the kind to draw
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(k shapes.Kind, options ...MaterialBuilderOption) Material {
	if !k.Valid() {
		panic(fmt.Sprintf("material: invalid kind %d", k))
	}
	m := &material{
		mu:   &sync.Mutex{},
		name: "debug_" + k.String(),
		kind: k,
	}
	for _, opt := range options {
		opt(m)
	}

	var shaderOptions []shader.ShaderBuilderOption
	if m.compiler != nil {
		shaderOptions = append(shaderOptions, shader.WithCompiler(m.compiler))
	}
	body, prelude := vertexSource(k)
	m.vertexShader = shader.NewShader(m.name+"_vs", shader.ShaderTypeVertex, body,
		append([]shader.ShaderBuilderOption{shader.WithPrelude(prelude...)}, shaderOptions...)...)
	m.fragmentShader = shader.NewShader(m.name+"_fs", shader.ShaderTypeFragment, fragmentSource(k), shaderOptions...)
	m.layouts = shader.MergeBindGroupLayouts(m.vertexShader.BindGroupLayoutDescriptors(), m.fragmentShader.BindGroupLayoutDescriptors())

	topology := wgpu.PrimitiveTopologyLineList
	if k == shapes.KindText {
		topology = wgpu.PrimitiveTopologyTriangleList
	}
	m.pipelines = make(map[pipeline.DepthVariant]pipeline.Pipeline, 3)
	for _, d := range pipeline.DepthVariants() {
		m.pipelines[d] = pipeline.NewPipeline(pipeline.VariantKey(m.name, d),
			pipeline.WithVertexShader(m.vertexShader),
			pipeline.WithFragmentShader(m.fragmentShader),
			pipeline.WithDepthVariant(d),
			pipeline.WithBlendEnabled(true),
			pipeline.WithTopology(topology),
		)
	}

	m.mesh = bind_group_provider.NewBindGroupProvider(m.name + "_mesh")
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() shapes.Kind {
	return m.kind
}

func (m *material) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return m.vertexShader
	case shader.ShaderTypeFragment:
		return m.fragmentShader
	}
	return nil
}

func (m *material) Pipeline(d pipeline.DepthVariant) pipeline.Pipeline {
	return m.pipelines[d.Normalized()]
}

func (m *material) Pipelines() []pipeline.Pipeline {
	variants := pipeline.DepthVariants()
	out := make([]pipeline.Pipeline, 0, len(variants))
	for _, d := range variants {
		out = append(out, m.pipelines[d])
	}
	return out
}

func (m *material) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return m.layouts[group]
}

func (m *material) Mesh() bind_group_provider.BindGroupProvider {
	return m.mesh
}

func (m *material) MeshData() ([]byte, []byte, int) {
	return shapes.BuildMesh(m.kind)
}

func (m *material) CompileAsync() {
	m.vertexShader.CompileAsync()
	m.fragmentShader.CompileAsync()
}

func (m *material) Compiled() error {
	vErr := m.vertexShader.Compiled()
	fErr := m.fragmentShader.Compiled()
	if vErr == nil && fErr == nil {
		return nil
	}
	// a failure is final, report it over a still-pending sibling
	for _, err := range []error{vErr, fErr} {
		if err != nil && !errors.Is(err, shader.ErrNotCompiled) {
			return err
		}
	}
	return shader.ErrNotCompiled
}

func (m *material) Registered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered
}

func (m *material) MarkRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = true
}

func (m *material) Ready() bool {
	return m.Compiled() == nil && m.Registered()
}

func (m *material) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mesh.Release()
	m.registered = false
}
