package shader

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// ErrNotCompiled is returned by Compiled while the shader is still being compiled, or before CompileAsync was called.
var ErrNotCompiled = errors.New("shader: not compiled")

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// CompileFunc compiles WGSL source and returns the compiled module bytes.
type CompileFunc func(source string) ([]byte, error)

type compileState int

const (
	compileIdle compileState = iota
	compilePending
	compileDone
	compileFailed
)

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout

	compile CompileFunc

	mu         sync.Mutex
	state      compileState
	compileErr error
	compiled   []byte
	done       chan struct{}
}

// Shader is a parsed WGSL shader stage. Layout metadata is reflected from the source when the shader is
// created; compilation runs in the background so pipelines can be skipped until their shaders are ready.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the full WGSL source, including any prelude.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage this shader was written for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry point function.
	//
	// Returns:
	//   - string: the entry point name, empty if none was found
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves every reflected bind group layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupFromVarName retrieves the binding index of a resource variable.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts returns the vertex buffer layouts reflected from vertex input structs.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct, nil for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module builds the shader module descriptor used to create the GPU module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor with the WGSL source attached
	Module() *wgpu.ShaderModuleDescriptor

	// CompileAsync starts compiling the shader on a background goroutine. Calls after the first are no-ops.
	CompileAsync()

	// Compiled reports the compile status without blocking.
	//
	// Returns:
	//   - error: nil when compiled, ErrNotCompiled while pending, or the wrapped compile error
	Compiled() error

	// Ready reports whether the shader compiled successfully.
	//
	// Returns:
	//   - bool: true once compiled without error
	Ready() bool

	// Wait blocks until a started compilation finishes and returns its result.
	//
	// Returns:
	//   - error: the same value Compiled returns after completion, ErrNotCompiled if never started
	Wait() error
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source and reflects its layout metadata.
// It panics when the source is empty or has no entry point for shaderType.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the pipeline stage the source is written for
//   - source: the WGSL source
//   - options: functional options such as WithPrelude and WithCompiler
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	if strings.TrimSpace(source) == "" {
		panic(fmt.Sprintf("shader: %s has no source", key))
	}
	s := &shader{
		key:        key,
		shaderType: shaderType,
		compile:    naga.Compile,
		done:       make(chan struct{}),
	}
	for _, option := range options {
		option(s)
	}
	s.source = joinPrelude(s.source, source)

	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no @%s entry point", key, shaderType))
	}
	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	}
	visibility := wgpu.ShaderStageVertex
	if s.shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)
	return s
}

func joinPrelude(prelude, source string) string {
	if prelude == "" {
		return source
	}
	return prelude + "\n" + source
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

func (s *shader) CompileAsync() {
	s.mu.Lock()
	if s.state != compileIdle {
		s.mu.Unlock()
		return
	}
	s.state = compilePending
	s.mu.Unlock()

	go func() {
		out, err := s.compile(s.source)

		s.mu.Lock()
		if err != nil {
			s.state = compileFailed
			s.compileErr = fmt.Errorf("shader: compile %s: %w", s.key, err)
		} else {
			s.state = compileDone
			s.compiled = out
		}
		s.mu.Unlock()
		close(s.done)

		if err != nil {
			logger.Logger().Error().Err(err).Str("shader", s.key).Msg("shader compile failed")
			return
		}
		logger.Logger().Debug().Str("shader", s.key).Int("bytes", len(out)).Msg("shader compiled")
	}()
}

func (s *shader) Compiled() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case compileDone:
		return nil
	case compileFailed:
		return s.compileErr
	}
	return ErrNotCompiled
}

func (s *shader) Ready() bool {
	return s.Compiled() == nil
}

func (s *shader) Wait() error {
	s.mu.Lock()
	started := s.state != compileIdle
	s.mu.Unlock()
	if !started {
		return ErrNotCompiled
	}
	<-s.done
	return s.Compiled()
}
