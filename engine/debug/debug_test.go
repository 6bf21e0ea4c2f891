package debug

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/dispatcher"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/router"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type fakeGPU struct {
	draws int
}

func (g *fakeGPU) RegisterPipelines(...pipeline.Pipeline) error { return nil }

func (g *fakeGPU) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (g *fakeGPU) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (g *fakeGPU) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (g *fakeGPU) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (g *fakeGPU) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (g *fakeGPU) DrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	g.draws++
	return nil
}

func okCompiler(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07}, nil
}

var testConfig = config.DebugDrawConfig{
	InitialCapacity: 8,
	TextCapacity:    4,
	PruneWorkers:    2,
	FixedStepRate:   50,
	Depth:           config.DepthConfig{TestStandard: true, SceneView: true, GameView: true},
	Text:            config.TextConfig{Scale: 1},
}

func newTestDrawer(t *testing.T) (Drawer, *fakeGPU) {
	t.Helper()
	gpu := &fakeGPU{}
	disp := dispatcher.NewDispatcher(gpu, dispatcher.WithCompiler(okCompiler), dispatcher.WithDepth(testConfig.Depth))
	for k := shapes.KindLine; k <= shapes.KindText; k++ {
		_ = disp.Material(k).Shader(shader.ShaderTypeVertex).Wait()
		_ = disp.Material(k).Shader(shader.ShaderTypeFragment).Wait()
	}

	d, err := New(gpu, WithConfig(testConfig), WithDispatcher(disp), WithMeterProvider(noop.NewMeterProvider()))
	require.NoError(t, err)
	t.Cleanup(d.Dispose)
	return d, gpu
}

func standardLines(d Drawer) int {
	return d.Group(context_group.GroupStandard).Lines().Count()
}

func TestNew_NilGPUPanics(t *testing.T) {
	assert.PanicsWithValue(t, "debug: New requires a non-nil GPU or WithDispatcher", func() {
		_, _ = New(nil, WithConfig(testConfig))
	})
}

func TestDrawer_BasicExpiry(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.Red, WithDuration(1.0))

	d.OnFrameTick(0.4)
	assert.Equal(t, 1, standardLines(d), "t=0.4")
	d.OnFrameTick(0.4)
	assert.Equal(t, 1, standardLines(d), "t=0.8")
	d.OnFrameTick(0.4)
	assert.Equal(t, 0, standardLines(d), "t=1.2")
}

func TestDrawer_ZeroDurationLastsOneFrame(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.Red)
	assert.Equal(t, 1, standardLines(d))

	d.OnFrameTick(0.001)
	assert.Equal(t, 0, standardLines(d))
}

func TestDrawer_SwapCompaction(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	r2 := mgl32.Vec3{2, 2, 2}
	d.Line(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 0}, shapes.Red, WithDuration(0.1))
	d.Line(r2, mgl32.Vec3{2, 3, 2}, shapes.Green, WithDuration(5))
	d.Line(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{3, 1, 0}, shapes.Blue, WithDuration(0.1))

	d.OnFrameTick(0.2)

	lines := d.Group(context_group.GroupStandard).Lines()
	require.Equal(t, 1, lines.Count())
	assert.Equal(t, r2, lines.Records()[0].A)
	assert.Equal(t, shapes.Green, lines.Colors()[0])
}

func TestDrawer_PersistentSurvivesUntilModeTransition(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	d.Box(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), shapes.Yellow, Persistent(), WithDuration(0.1))

	for range 10 {
		d.OnFrameTick(1)
	}
	boxes := d.Group(context_group.GroupStandard).Boxes()
	assert.Equal(t, 1, boxes.Count())

	d.OnModeTransition(common.ModePlay)
	assert.Equal(t, 0, boxes.Count())

	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.Red)
	assert.Equal(t, 0, standardLines(d), "appends are ignored for the rest of the transition frame")
	assert.Equal(t, 1, d.Stats().Dropped[string(router.DropIgnored)])

	d.OnFrameTick(0.016)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.Red)
	assert.Equal(t, 1, standardLines(d))
}

func TestDrawer_PausedFrameSuppression(t *testing.T) {
	d, gpu := newTestDrawer(t)
	cam := camera.NewCamera()

	d.OnFrameTick(0.016)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White)
	require.NoError(t, d.Render(cam))
	single := standardLines(d)

	for range 2 {
		d.OnFrameTick(0)
		d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White)
		require.NoError(t, d.Render(cam))
	}

	assert.Equal(t, single, standardLines(d))
	assert.Equal(t, 2, d.Stats().Dropped[string(router.DropPausedDuplicate)])
	assert.Equal(t, 3, gpu.draws, "the paused frame keeps drawing what was committed")
}

func TestDrawer_FixedStepExtendsShortDurations(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)

	d.BeginFixedStep(0.02)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White)
	d.EndFixedStep()

	lines := d.Group(context_group.GroupStandard).Lines()
	require.Equal(t, 1, lines.Count())
	assert.Equal(t, float32(0.02), lines.Lifetimes()[0])

	d.OnFrameTick(0.016)
	assert.Equal(t, 1, lines.Count(), "survives a render frame shorter than the fixed step")
	d.OnFrameTick(0.016)
	assert.Equal(t, 0, lines.Count())
}

func TestDrawer_CaptureIsolationAndTransform(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)

	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White, WithDuration(1))
	d.Capture(mgl32.Translate3D(0, 5, 0), func() {
		d.Outline(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.5, shapes.Cyan)
		d.Text(mgl32.Vec3{}, "gizmo", shapes.White)
	})

	standard := d.Group(context_group.GroupStandard)
	capture := d.Group(context_group.GroupCapture)
	assert.Equal(t, 1, standard.Lines().Count())
	assert.Equal(t, 0, standard.Outlines().Count())
	require.Equal(t, 1, capture.Outlines().Count())
	assert.InDelta(t, 5, capture.Outlines().Records()[0].A.Y(), 1e-6)
	assert.Equal(t, 0, capture.Lines().Count())

	assert.Equal(t, 0, capture.Text().Count(), "text is unsupported while capturing")
	assert.Equal(t, 1, d.Stats().Dropped[DropUnsupported])
	assert.Equal(t, router.StateUpdate, d.Stats().State)

	d.OnFrameTick(10)
	assert.Equal(t, 1, capture.Outlines().Count(), "captures are not expired by time")
	d.Capture(mgl32.Ident4(), func() {})
	assert.Equal(t, 0, capture.Outlines().Count(), "the next capture starts from an empty group")
}

func TestDrawer_CaptureGizmosLastUntilReplaced(t *testing.T) {
	d, _ := newTestDrawer(t)
	capture := d.Group(context_group.GroupCapture)

	d.OnFrameTick(0.016)
	d.Capture(mgl32.Ident4(), func() {
		d.Box(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), shapes.Yellow)
	})

	for range 3 {
		d.OnFrameTick(0.016)
		require.NoError(t, d.Render(camera.NewCamera()))
		assert.Equal(t, 1, capture.Boxes().Count(), "frames without a capture keep the last gizmos")
	}

	d.OnFrameTick(0.016)
	d.Capture(mgl32.Ident4(), func() {
		d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.Red)
	})
	assert.Zero(t, capture.Boxes().Count())
	assert.Equal(t, 1, capture.Lines().Count())

	d.OnFrameTick(0.016)
	d.OnModeTransition(common.ModePlay)
	assert.Zero(t, capture.Lines().Count(), "a mode transition drops the gizmos")
}

func TestDrawer_TextOptions(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	d.Text(mgl32.Vec3{1, 2, 3}, "fps", shapes.Green, WithCamera("main"), WithBackground(shapes.Black), Persistent())

	text := d.Group(context_group.GroupStandard).Text()
	require.Equal(t, 1, text.Count())
	rec := text.Records()[0]
	assert.Equal(t, "fps", rec.Value)
	assert.Equal(t, "main", rec.Camera)
	assert.Equal(t, shapes.Black, rec.Background)
	assert.True(t, rec.Persistent)
}

func TestDrawer_RenderStats(t *testing.T) {
	d, gpu := newTestDrawer(t)
	d.OnFrameTick(0.016)
	for range 3 {
		d.Arc(mgl32.Vec3{}, mgl32.QuatIdent(), 1, 3.14, shapes.Magenta, WithModifications(shapes.ModificationAlphaFade))
	}
	d.Capture(mgl32.Ident4(), func() {
		d.Cast(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{0, 0, 2}, shapes.Gray)
	})

	require.NoError(t, d.Render(camera.NewCamera(camera.WithView(camera.ViewScene))))
	assert.Equal(t, 2, gpu.draws)

	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 3, stats.Live[context_group.GroupStandard][shapes.KindArc])
	assert.Equal(t, 1, stats.Live[context_group.GroupCapture][shapes.KindCast])

	std := stats.LastDispatch[context_group.GroupStandard]
	assert.Equal(t, 1, std.Draws)
	assert.Equal(t, 1, std.Instances, "3 arcs fit one group of 4")
	assert.Equal(t, pipeline.DepthVariant{Test: true}, std.Depth)
	assert.Equal(t, pipeline.DepthVariant{}, stats.LastDispatch[context_group.GroupCapture].Depth)

	mods := d.Group(context_group.GroupStandard).Arcs().Modifications()
	assert.Equal(t, shapes.ModificationAlphaFade, mods[0])
}

func TestDrawer_Dispose(t *testing.T) {
	d, _ := newTestDrawer(t)
	d.OnFrameTick(0.016)
	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White, Persistent())

	d.Dispose()
	assert.True(t, d.Group(context_group.GroupStandard).Disposed())
	assert.Equal(t, 0, standardLines(d))

	d.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, shapes.White, Persistent())
	assert.Equal(t, 0, standardLines(d), "appends after dispose are dropped")
	assert.ErrorIs(t, d.Render(camera.NewCamera()), context_group.ErrDisposed)
	assert.NotPanics(t, d.Dispose)
}
