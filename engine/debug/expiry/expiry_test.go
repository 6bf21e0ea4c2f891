package expiry

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shape_buffer"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T) ([]shape_buffer.Buffer, shape_buffer.TextList) {
	t.Helper()
	lines := shape_buffer.New[shapes.Line]()
	boxes := shape_buffer.New[shapes.Box]()
	arcs := shape_buffer.New[shapes.Arc]()
	text := shape_buffer.NewTextList()

	for i := range 100 {
		lines.Append(shapes.NewLine(mgl32.Vec3{float32(i)}, mgl32.Vec3{}), shapes.White, 0, float32(i%2))
	}
	for range 10 {
		boxes.Append(shapes.Box{Matrix: mgl32.Ident4()}, shapes.White, 0, 0)
	}
	arcs.AppendPersistent(shapes.Arc{Angle: 1}, shapes.White, 0)
	text.Append(shape_buffer.TextRecord{Value: "gone"}, 0)
	text.Append(shape_buffer.TextRecord{Value: "kept"}, 10)

	return []shape_buffer.Buffer{lines, boxes, arcs}, text
}

func TestScheduler_Run(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"pool", 3},
		{"inline", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(WithWorkers(tt.workers), WithQueueSize(8))
			t.Cleanup(s.Stop)
			assert.Equal(t, tt.workers, s.Workers())

			buffers, text := fill(t)
			res := s.Run(0.5, buffers, text)

			assert.Equal(t, 2, res.Scheduled, "persistent-only buffers are skipped")
			assert.Equal(t, []int{50, 10, 0}, res.Removed)
			assert.Equal(t, 1, res.TextRemoved)
			assert.Equal(t, 61, res.Total())

			assert.Equal(t, 50, buffers[0].Count())
			assert.Equal(t, 0, buffers[1].Count())
			assert.Equal(t, 1, buffers[2].Count())
			require.Equal(t, 1, text.Count())
			assert.Equal(t, "kept", text.Records()[0].Value)
			assert.True(t, buffers[0].Dirty())
		})
	}
}

func TestScheduler_ZeroDeltaSkipsEverything(t *testing.T) {
	s := NewScheduler(WithWorkers(2))
	t.Cleanup(s.Stop)

	buffers, text := fill(t)
	res := s.Run(0, buffers, text)

	assert.Equal(t, 0, res.Scheduled)
	assert.Equal(t, 0, res.Total())
	assert.Equal(t, 100, buffers[0].Count())
	assert.Equal(t, 2, text.Count())
}

func TestScheduler_RepeatedRunsAndStop(t *testing.T) {
	s := NewScheduler(WithWorkers(2))
	buffers, text := fill(t)

	for range 4 {
		s.Run(0.2, buffers, text)
	}
	assert.Equal(t, 50, buffers[0].Count())

	s.Stop()
	s.Stop()
	assert.Equal(t, 0, s.Workers())

	// stopped schedulers keep pruning inline
	res := s.Run(1, buffers, text)
	assert.Equal(t, 50, res.Removed[0])
	assert.Equal(t, 0, buffers[0].Count())
}

func TestScheduler_NilTextAndBuffers(t *testing.T) {
	s := NewScheduler(WithWorkers(0))
	res := s.Run(1, []shape_buffer.Buffer{nil}, nil)
	assert.Equal(t, []int{0}, res.Removed)
}
