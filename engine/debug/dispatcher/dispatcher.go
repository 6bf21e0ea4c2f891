// Package dispatcher syncs context group containers to GPU buffers and issues one instanced draw per shape kind.
package dispatcher

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/text_overlay"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMaterialNotReady is reported for a kind whose shaders are still compiling. The kind is retried on the next Render.
var ErrMaterialNotReady = errors.New("dispatcher: material not ready")

// GPU is the part of renderer.Renderer the dispatcher drives.
type GPU interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
}

// SkipReason explains why a kind was not drawn.
type SkipReason string

const (
	// SkipNotReady means the kind's material is still compiling.
	SkipNotReady SkipReason = "not_ready"
	// SkipFailed means compiling, registering, allocating or drawing the kind failed.
	SkipFailed SkipReason = "failed"
)

// Skip records one kind left out of a Render.
type Skip struct {
	Kind   shapes.Kind
	Reason SkipReason
}

// DispatchStats summarizes one Render call.
type DispatchStats struct {
	Group     context_group.GroupKind
	Depth     pipeline.DepthVariant
	Draws     int
	Instances int
	Shapes    int
	Glyphs    int
	Uploads   int
	Grows     int
	Skipped   []Skip
}

// DepthMask resolves the depth test and write state of one Render call. Testing needs both the source's test
// setting and the view's global enable; writing additionally needs testing.
//
// Parameters:
//   - source: the group being drawn, standard or capture
//   - view: the kind of view the camera renders
//   - settings: the depth policy
//
// Returns:
//   - pipeline.DepthVariant: the resolved depth state
func DepthMask(source context_group.GroupKind, view camera.ViewKind, settings config.DepthConfig) pipeline.DepthVariant {
	var test, write bool
	switch source {
	case context_group.GroupCapture:
		test, write = settings.TestGizmos, settings.WriteGizmos
	default:
		test, write = settings.TestStandard, settings.WriteStandard
	}

	viewEnabled := settings.GameView
	if view == camera.ViewScene {
		viewEnabled = settings.SceneView
	}

	d := pipeline.DepthVariant{Test: test && viewEnabled}
	d.Write = write && d.Test
	return d
}

// Dispatcher owns the debug materials and draws context groups with them.
// Render is called from the goroutine that owns the frame, after the expiry join.
type Dispatcher interface {
	// Render uploads the group's changed containers and issues one instanced draw per non-empty kind, followed by
	// the group's text labels for cam. Kinds whose material is not ready are skipped and retried next call.
	//
	// Parameters:
	//   - group: the group to draw
	//   - cam: the camera rendering the pass
	//
	// Returns:
	//   - DispatchStats: what was uploaded and drawn
	//   - error: every per-kind failure joined, nil when all kinds drew or were only pending
	Render(group context_group.Group, cam camera.Camera) (DispatchStats, error)

	// Material returns the material drawing kind k.
	//
	// Parameters:
	//   - k: the kind
	//
	// Returns:
	//   - material.Material: the material
	Material(k shapes.Kind) material.Material

	// Depth returns the depth policy Render resolves DepthMask against.
	//
	// Returns:
	//   - config.DepthConfig: the policy
	Depth() config.DepthConfig

	// SetDepth replaces the depth policy.
	//
	// Parameters:
	//   - settings: the new policy
	SetDepth(settings config.DepthConfig)

	// Release releases every material and forgets the camera bindings. Group resources are released by the groups.
	Release()
}

type dispatcher struct {
	gpu GPU

	materials []material.Material
	compiler  shader.CompileFunc

	depth     config.DepthConfig
	textScale float32
	atlas     text_overlay.Atlas

	// bound holds camera and text providers whose bind group was created by this dispatcher
	bound map[bind_group_provider.BindGroupProvider]bool

	commandLists map[context_group.GroupKind]*context_group.CommandList
	writes       []bind_group_provider.BufferWrite
	glyphs       []shapes.Glyph
}

var _ Dispatcher = &dispatcher{}

// NewDispatcher creates a Dispatcher with one material per kind and starts compiling every shader.
// It panics when gpu is nil.
//
// Parameters:
//   - gpu: the renderer the dispatcher uploads to and draws with
//   - options: functional options such as WithDepth and WithAtlas
//
// Returns:
//   - Dispatcher: the new dispatcher
func NewDispatcher(gpu GPU, options ...DispatcherBuilderOption) Dispatcher {
	if gpu == nil {
		panic("dispatcher: NewDispatcher requires a GPU")
	}
	d := &dispatcher{
		gpu:          gpu,
		textScale:    1,
		bound:        make(map[bind_group_provider.BindGroupProvider]bool),
		commandLists: make(map[context_group.GroupKind]*context_group.CommandList),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.atlas == nil {
		d.atlas = text_overlay.NewAtlas()
	}

	var materialOptions []material.MaterialBuilderOption
	if d.compiler != nil {
		materialOptions = append(materialOptions, material.WithCompiler(d.compiler))
	}
	d.materials = make([]material.Material, shapes.KindText+1)
	for k := range d.materials {
		m := material.NewMaterial(shapes.Kind(k), materialOptions...)
		m.CompileAsync()
		d.materials[k] = m
	}
	return d
}

func (d *dispatcher) Material(k shapes.Kind) material.Material {
	if !k.Valid() {
		return nil
	}
	return d.materials[k]
}

func (d *dispatcher) Depth() config.DepthConfig {
	return d.depth
}

func (d *dispatcher) SetDepth(settings config.DepthConfig) {
	d.depth = settings
}

func (d *dispatcher) Render(group context_group.Group, cam camera.Camera) (DispatchStats, error) {
	stats := DispatchStats{Group: group.Kind()}

	cl, err := group.ReadyResources(d.commandLists[group.Kind()])
	if err != nil {
		return stats, err
	}
	d.commandLists[group.Kind()] = cl

	camProvider := cam.BindGroupProvider()
	if err := d.bindCamera(camProvider); err != nil {
		return stats, fmt.Errorf("bind camera %q: %w", cam.Name(), err)
	}

	stats.Depth = DepthMask(group.Kind(), cam.View(), d.depth)

	var flags uint32
	if group.Kind() == context_group.GroupCapture {
		flags = material.ShapeFlagCapture
	}

	uniform := cam.Uniform()
	d.writes = append(d.writes[:0], bind_group_provider.BufferWrite{
		Provider: camProvider,
		Binding:  0,
		Data:     uniform.Marshal(),
	})

	var errs []error
	for _, k := range shapes.InstancedKinds() {
		buf := group.Buffer(k)
		count := buf.Count()
		if count == 0 {
			continue
		}

		m := d.materials[k]
		if err := d.ensureMaterial(m); err != nil {
			stats.Skipped = append(stats.Skipped, d.skip(group, k, err, &errs))
			continue
		}

		res := group.Resources(k)
		grown, err := d.ensureCapacity(m, res, buf.Capacity(), map[int]uint64{
			material.BindingRecords:       uint64(buf.Capacity() * buf.RecordSize()),
			material.BindingColors:        uint64(buf.Capacity() * 16),
			material.BindingModifications: uint64(buf.Capacity() * 4),
		})
		if err != nil {
			stats.Skipped = append(stats.Skipped, d.skip(group, k, err, &errs))
			continue
		}
		if grown {
			stats.Grows++
		}

		if grown || buf.Dirty() {
			d.writes = append(d.writes,
				bind_group_provider.BufferWrite{Provider: res.Provider, Binding: material.BindingRecords, Data: buf.RecordBytes()},
				bind_group_provider.BufferWrite{Provider: res.Provider, Binding: material.BindingColors, Data: buf.ColorBytes()},
				bind_group_provider.BufferWrite{Provider: res.Provider, Binding: material.BindingModifications, Data: buf.ModificationBytes()},
			)
			buf.MarkClean()
			res.Uploads++
			stats.Uploads++
		}

		info := k.Info()
		params := material.GPUShapeParams{
			Count:            uint32(count),
			ShapesPerGroup:   uint32(info.ShapesPerGroup),
			VerticesPerShape: uint32(info.VerticesPerShape),
			Flags:            flags,
		}
		d.writes = append(d.writes, bind_group_provider.BufferWrite{
			Provider: res.Provider,
			Binding:  material.BindingParams,
			Data:     params.Marshal(),
		})

		cl.Add(context_group.DrawItem{
			Kind:          k,
			PipelineKey:   m.Pipeline(stats.Depth).PipelineKey(),
			Mesh:          m.Mesh(),
			Resources:     res.Provider,
			InstanceCount: uint32(common.CeilDiv(count, info.ShapesPerGroup)),
		})
		stats.Shapes += count
	}

	if err := d.stageText(group, cam, stats.Depth, cl, &stats); err != nil {
		stats.Skipped = append(stats.Skipped, d.skip(group, shapes.KindText, err, &errs))
	}

	d.gpu.WriteBuffers(d.writes)
	clear(d.writes)
	d.writes = d.writes[:0]

	bindGroups := make([]bind_group_provider.BindGroupProvider, 2)
	bindGroups[material.GroupCamera] = camProvider
	for _, item := range cl.Items() {
		bindGroups[material.GroupShape] = item.Resources
		if err := d.gpu.DrawCall(item.PipelineKey, item.Mesh, item.InstanceCount, bindGroups); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", item.Kind, err))
			stats.Skipped = append(stats.Skipped, Skip{Kind: item.Kind, Reason: SkipFailed})
			continue
		}
		stats.Draws++
		stats.Instances += int(item.InstanceCount)
	}

	return stats, errors.Join(errs...)
}

// skip logs why kind k was left out and collects real failures.
func (d *dispatcher) skip(group context_group.Group, k shapes.Kind, err error, errs *[]error) Skip {
	if errors.Is(err, ErrMaterialNotReady) {
		logger.Logger().Debug().Str("group", group.Name()).Str("kind", k.String()).Msg("material not ready, skipping kind")
		return Skip{Kind: k, Reason: SkipNotReady}
	}
	logger.Logger().Error().Err(err).Str("group", group.Name()).Str("kind", k.String()).Msg("skipping kind")
	*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
	return Skip{Kind: k, Reason: SkipFailed}
}

// ensureMaterial registers m's pipelines and mesh once its shaders compiled.
func (d *dispatcher) ensureMaterial(m material.Material) error {
	if m.Registered() {
		return nil
	}
	if err := m.Compiled(); err != nil {
		if errors.Is(err, shader.ErrNotCompiled) {
			return ErrMaterialNotReady
		}
		logger.WarnOnce("compile_"+m.Name(), fmt.Sprintf("debug material %s failed to compile: %v", m.Name(), err))
		return err
	}

	if err := d.gpu.RegisterPipelines(m.Pipelines()...); err != nil {
		return err
	}
	vertexData, indexData, indexCount := m.MeshData()
	if err := d.gpu.InitMeshBuffers(m.Mesh(), vertexData, indexData, indexCount); err != nil {
		return fmt.Errorf("init mesh %s: %w", m.Name(), err)
	}
	m.MarkRegistered()
	logger.Logger().Debug().Str("material", m.Name()).Msg("registered debug material")
	return nil
}

// ensureCapacity reallocates the provider's buffers when needed exceeds the capacity they were sized for.
// Buffers only grow.
func (d *dispatcher) ensureCapacity(m material.Material, res *context_group.KindResources, needed int, sizes map[int]uint64) (bool, error) {
	if res.Provider.Capacity() >= needed && res.Provider.Capacity() > 0 {
		return false, nil
	}
	res.Provider.ReleaseBuffers()
	if err := d.gpu.InitBindGroup(res.Provider, m.BindGroupLayoutDescriptor(material.GroupShape), nil, sizes); err != nil {
		return false, fmt.Errorf("allocate %d records: %w", needed, err)
	}
	logger.Logger().Debug().
		Str("provider", res.Provider.Label()).
		Int("capacity", needed).
		Msg("grew debug shape buffers")
	res.Provider.SetCapacity(needed)
	res.Grows++
	return true, nil
}

func (d *dispatcher) bindCamera(provider bind_group_provider.BindGroupProvider) error {
	if d.bound[provider] {
		return nil
	}
	descriptor := d.materials[shapes.KindLine].BindGroupLayoutDescriptor(material.GroupCamera)
	if err := d.gpu.InitBindGroup(provider, descriptor, nil, nil); err != nil {
		return err
	}
	d.bound[provider] = true
	return nil
}

// stageText lays out the labels visible to cam and batches them as one glyph draw. Layout and the glyph
// upload are skipped while the camera's buffers already hold the current text list version.
func (d *dispatcher) stageText(group context_group.Group, cam camera.Camera, depth pipeline.DepthVariant, cl *context_group.CommandList, stats *DispatchStats) error {
	text := group.Text()
	if text.Count() == 0 {
		return nil
	}

	res := group.TextResources(cam.Name())
	current := res.Provider.Capacity() > 0 && res.TextVersion == text.Version()
	if !current {
		d.glyphs = d.glyphs[:0]
		for _, rec := range text.Records() {
			if rec.Camera != "" && rec.Camera != cam.Name() {
				continue
			}
			d.glyphs = d.atlas.Layout(d.glyphs, rec, d.textScale)
		}
		res.Glyphs = len(d.glyphs)
	}
	if res.Glyphs == 0 {
		return nil
	}

	m := d.materials[shapes.KindText]
	if err := d.ensureMaterial(m); err != nil {
		return err
	}

	if err := d.bindAtlas(res.Provider); err != nil {
		return err
	}
	needed := common.GrowCapacity(res.Provider.Capacity(), res.Glyphs)
	grown, err := d.ensureCapacity(m, res, needed, map[int]uint64{
		material.BindingGlyphs: uint64(needed * shapes.KindText.Info().RecordSize),
	})
	if err != nil {
		return err
	}
	if grown {
		stats.Grows++
	}

	if !current {
		d.writes = append(d.writes, bind_group_provider.BufferWrite{
			Provider: res.Provider,
			Binding:  material.BindingGlyphs,
			Data:     common.SliceToBytes(d.glyphs),
		})
		res.TextVersion = text.Version()
		res.Uploads++
		stats.Uploads++
	}

	width, height := cam.Viewport()
	params := material.GPUTextParams{
		Count:          uint32(res.Glyphs),
		GlyphsPerGroup: uint32(shapes.KindText.Info().ShapesPerGroup),
		Viewport:       [2]float32{float32(width), float32(height)},
	}
	d.writes = append(d.writes, bind_group_provider.BufferWrite{
		Provider: res.Provider,
		Binding:  material.BindingTextParams,
		Data:     params.Marshal(),
	})

	cl.Add(context_group.DrawItem{
		Kind:          shapes.KindText,
		PipelineKey:   m.Pipeline(depth).PipelineKey(),
		Mesh:          m.Mesh(),
		Resources:     res.Provider,
		InstanceCount: uint32(common.CeilDiv(res.Glyphs, shapes.KindText.Info().ShapesPerGroup)),
	})
	stats.Glyphs += res.Glyphs
	return nil
}

// bindAtlas uploads the glyph atlas and creates its sampler the first time a text provider is used.
func (d *dispatcher) bindAtlas(provider bind_group_provider.BindGroupProvider) error {
	if d.bound[provider] {
		return nil
	}
	if err := d.gpu.InitTextureView(provider, material.BindingAtlas, d.atlas.Staging()); err != nil {
		return fmt.Errorf("upload glyph atlas: %w", err)
	}
	sampler := common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  1,
	}
	if err := d.gpu.InitSampler(provider, material.BindingAtlasSampler, sampler); err != nil {
		return fmt.Errorf("create atlas sampler: %w", err)
	}
	d.bound[provider] = true
	return nil
}

func (d *dispatcher) Release() {
	for _, m := range d.materials {
		m.Release()
	}
	for _, cl := range d.commandLists {
		cl.Release()
	}
	clear(d.commandLists)
	clear(d.bound)
}
