package shape_buffer

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(x float32) shapes.Line {
	return shapes.NewLine(mgl32.Vec3{x, 0, 0}, mgl32.Vec3{x, 1, 0})
}

func TestContainer_BasicExpiry(t *testing.T) {
	c := New[shapes.Line]()
	c.Append(line(1), shapes.Red, 0, 1.0)

	assert.Equal(t, 0, c.Prune(0.4))
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 0, c.Prune(0.4))
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 1, c.Prune(0.4))
	assert.Equal(t, 0, c.Count())
}

func TestPrune_RemovesOnceStepsSumToDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration float32
		dt       float32
		steps    int
	}{
		{"0.3 in tenths", 0.3, 0.1, 3},
		{"0.6 in fifths", 0.6, 0.2, 3},
		{"1.0 in tenths", 1.0, 0.1, 10},
		{"0.7 in tenths", 0.7, 0.1, 7},
		{"0.9 in thirds", 0.9, 0.3, 3},
		{"0.05 at 60Hz", 0.05, 1.0 / 60, 3},
		{"fixed step 0.02", 0.02, 0.02, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[shapes.Line]()
			c.Append(line(1), shapes.Red, 0, tt.duration)
			l := NewTextList()
			l.Append(TextRecord{Value: "a"}, tt.duration)

			for i := range tt.steps - 1 {
				c.Prune(tt.dt)
				l.Prune(tt.dt)
				require.Equal(t, 1, c.Count(), "still alive after step %d", i+1)
				require.Equal(t, 1, l.Count(), "label still alive after step %d", i+1)
			}
			c.Prune(tt.dt)
			l.Prune(tt.dt)
			assert.Zero(t, c.Count())
			assert.Zero(t, l.Count())
		})
	}
}

func TestContainer_ZeroDuration(t *testing.T) {
	c := New[shapes.Line]()
	c.Append(line(1), shapes.Red, 0, 0)
	require.True(t, c.HasNonZeroDuration())

	assert.Equal(t, 1, c.Prune(0.0001))
	assert.Equal(t, 0, c.Count())
}

func TestContainer_NegativeDurationIsThisFrameOnly(t *testing.T) {
	c := New[shapes.Line]()
	c.Append(line(1), shapes.Red, 0, -5)
	assert.Equal(t, float32(0), c.Lifetimes()[0])
	assert.Equal(t, 1, c.Prune(0.016))
}

func TestContainer_SwapCorrectness(t *testing.T) {
	c := New[shapes.Line]()
	r1, r2, r3 := line(1), line(2), line(3)
	c.Append(r1, shapes.Red, 0, 0.1)
	c.Append(r2, shapes.Green, shapes.ModificationAlphaFade, 5)
	c.Append(r3, shapes.Blue, 0, 0.1)

	assert.Equal(t, 2, c.Prune(0.2))
	require.Equal(t, 1, c.Count())
	assert.Equal(t, r2, c.Records()[0])
	assert.Equal(t, shapes.Green, c.Colors()[0])
	assert.Equal(t, shapes.ModificationAlphaFade, c.Modifications()[0])
	assert.InDelta(t, 4.8, c.Lifetimes()[0], 1e-5)
}

func TestContainer_ZeroDeltaPruneIsNoop(t *testing.T) {
	c := New[shapes.Line]()
	c.Append(line(1), shapes.Red, 0, 0)
	c.MarkClean()

	assert.Equal(t, 0, c.Prune(0))
	assert.Equal(t, 0, c.Prune(-1))
	assert.Equal(t, 1, c.Count())
	assert.False(t, c.Dirty())
	assert.Equal(t, float32(0), c.Lifetimes()[0])
}

func TestContainer_DirtyFlag(t *testing.T) {
	c := New[shapes.Line]()
	assert.False(t, c.Dirty())

	c.Append(line(1), shapes.Red, 0, 1)
	assert.True(t, c.Dirty())
	c.MarkClean()
	assert.False(t, c.Dirty())

	// a prune that removes nothing leaves the upload valid
	c.Prune(0.1)
	assert.False(t, c.Dirty())

	c.Prune(1)
	assert.True(t, c.Dirty())
	c.MarkClean()

	// clearing an empty container is not a change
	c.Clear()
	assert.False(t, c.Dirty())
}

func TestContainer_Persistent(t *testing.T) {
	c := New[shapes.Line]()
	c.AppendPersistent(line(1), shapes.Red, 0)
	assert.False(t, c.HasNonZeroDuration())
	assert.True(t, math.IsInf(float64(c.Lifetimes()[0]), 1))

	c.Append(line(2), shapes.Red, 0, 0.5)
	assert.True(t, c.HasNonZeroDuration())

	assert.Equal(t, 1, c.Prune(1000))
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, line(1), c.Records()[0])
	assert.False(t, c.HasNonZeroDuration())

	c.Clear()
	assert.Equal(t, 0, c.Count())
}

func TestContainer_GrowthPreservesDataAndClearKeepsCapacity(t *testing.T) {
	c := New[shapes.Box](WithCapacity(2))
	assert.Equal(t, 8, c.Capacity())

	for i := range 20 {
		c.Append(shapes.Box{Matrix: mgl32.Translate3D(float32(i), 0, 0)}, shapes.White, 0, 1)
	}
	assert.Equal(t, 20, c.Count())
	assert.Equal(t, 32, c.Capacity())
	for i, b := range c.Records() {
		assert.Equal(t, float32(i), b.Matrix.Col(3).X())
	}

	c.Clear()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 32, c.Capacity())
}

func TestContainer_WithoutDurationTracking(t *testing.T) {
	c := New[shapes.Arc](WithoutDurationTracking())
	c.Append(shapes.Arc{Angle: 1}, shapes.White, 0, 0)

	assert.False(t, c.TracksDuration())
	assert.False(t, c.HasNonZeroDuration())
	assert.Equal(t, 0, c.Prune(10))
	assert.Equal(t, 1, c.Count())
}

func TestContainer_ByteViews(t *testing.T) {
	c := New[shapes.Cast]()
	assert.Nil(t, c.RecordBytes())

	c.Append(shapes.Cast{}, shapes.White, shapes.ModificationCustom, 1)
	c.Append(shapes.Cast{}, shapes.White, 0, 1)
	assert.Equal(t, shapes.KindCast, c.Kind())
	assert.Equal(t, 80, c.RecordSize())
	assert.Len(t, c.RecordBytes(), 2*80)
	assert.Len(t, c.ColorBytes(), 2*16)
	assert.Len(t, c.ModificationBytes(), 2*4)
}

func TestContainer_CompactionMatchesNaiveFilter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c := New[shapes.Line]()

	type entry struct {
		x        float32
		lifetime float32
	}
	var naive []entry

	for round := range 50 {
		for range rng.IntN(20) {
			x := float32(round*100 + rng.IntN(100))
			lifetime := rng.Float32() * 0.5
			c.Append(line(x), shapes.White, 0, lifetime)
			naive = append(naive, entry{x, lifetime})
		}

		dt := rng.Float32() * 0.2
		c.Prune(dt)
		if dt > 0 {
			kept := naive[:0]
			for _, e := range naive {
				e.lifetime -= dt
				if e.lifetime > expiryEpsilon {
					kept = append(kept, e)
				}
			}
			naive = kept
		}

		want := make([]float32, 0, len(naive))
		for _, e := range naive {
			want = append(want, e.x)
		}
		got := make([]float32, 0, c.Count())
		for _, r := range c.Records() {
			got = append(got, r.A.X())
		}
		slices.Sort(want)
		slices.Sort(got)
		require.Equal(t, want, got, "round %d", round)
	}
}

func TestTextList_OrderedPrune(t *testing.T) {
	l := NewTextList(WithCapacity(4))
	l.Append(TextRecord{Value: "a"}, 0.1)
	l.AppendPersistent(TextRecord{Value: "b"})
	l.Append(TextRecord{Value: "c"}, 0.1)
	l.Append(TextRecord{Value: "d"}, 5)
	v := l.Version()
	assert.Equal(t, uint64(4), v)

	assert.Equal(t, 0, l.Prune(0))
	assert.Equal(t, v, l.Version())

	assert.Equal(t, 2, l.Prune(0.2))
	assert.Greater(t, l.Version(), v)
	v = l.Version()
	assert.Equal(t, 0, l.Prune(0.2), "d still has time left")
	assert.Equal(t, v, l.Version(), "lifetime updates keep the laid-out glyphs valid")

	values := make([]string, 0, l.Count())
	for _, r := range l.Records() {
		values = append(values, r.Value)
	}
	assert.Equal(t, []string{"b", "d"}, values)
	assert.True(t, l.HasNonZeroDuration())

	assert.Equal(t, 1, l.Prune(5))
	assert.False(t, l.HasNonZeroDuration())
	assert.Equal(t, "b", l.Records()[0].Value)

	l.Clear()
	assert.Equal(t, 0, l.Count())
}

func TestTextList_WithoutDurationTracking(t *testing.T) {
	l := NewTextList(WithoutDurationTracking())
	l.Append(TextRecord{Value: "a"}, 0)
	assert.Equal(t, 0, l.Prune(1))
	assert.Equal(t, 1, l.Count())
	assert.False(t, l.HasNonZeroDuration())
}
