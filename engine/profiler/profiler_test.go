package profiler

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logger.SetLogger(zerolog.Nop()) })
	return &buf
}

func TestProfiler_LogsOncePerInterval(t *testing.T) {
	buf := captureLogs(t)
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := NewProfiler(withClock(clock.now), WithInterval(time.Second))

	for range 59 {
		clock.t = clock.t.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Zero(t, buf.Len())

	clock.t = clock.t.Add(410 * time.Millisecond)
	require.True(t, p.Tick())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "profiler", entry["message"])
	assert.InDelta(t, 60.0, entry["fps"], 1e-9)
	assert.Contains(t, entry, "heap_mb")

	assert.False(t, p.Tick(), "the frame counter restarts after a log event")
}

func TestProfiler_Reporters(t *testing.T) {
	buf := captureLogs(t)
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(withClock(clock.now), WithReporter("first", func(e *zerolog.Event) {
		e.Int("live", 3)
	}))
	p.AddReporter("second", func(e *zerolog.Event) {
		e.Str("state", "update")
	})
	p.AddReporter("ignored", nil)

	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(3), entry["live"])
	assert.Equal(t, "update", entry["state"])

	buf.Reset()
	p.RemoveReporter("first")
	p.RemoveReporter("missing")
	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick())
	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "live")
	assert.Contains(t, entry, "state")
}

func TestWithInterval_IgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.Interval())
	p = NewProfiler(WithInterval(250 * time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, p.Interval())
}
