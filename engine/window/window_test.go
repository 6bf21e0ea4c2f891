package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{minWidth: 320, minHeight: 200, maxWidth: 3840, maxHeight: 2160, width: 1280, height: 720}
	for _, opt := range options {
		opt(w)
	}
	w.clampSize()
	return w
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		name          string
		options       []WindowBuilderOption
		width, height int
	}{
		{"defaults", nil, 1280, 720},
		{"inside limits", []WindowBuilderOption{WithSize(1600, 900)}, 1600, 900},
		{"too small", []WindowBuilderOption{WithSize(10, 10)}, 320, 200},
		{"too large", []WindowBuilderOption{WithSize(8000, 5000)}, 3840, 2160},
		{"custom limits", []WindowBuilderOption{WithSize(1600, 900), WithSizeLimits(0, 0, 1024, 768)}, 1024, 768},
		{"inverted limits", []WindowBuilderOption{WithSize(100, 100), WithSizeLimits(800, 600, 400, 300)}, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow(tt.options...)
			assert.Equal(t, tt.width, w.width)
			assert.Equal(t, tt.height, w.height)
			assert.LessOrEqual(t, w.minWidth, w.maxWidth)
			assert.LessOrEqual(t, w.minHeight, w.maxHeight)
		})
	}
}

func TestWithTitle(t *testing.T) {
	w := newTestWindow(WithTitle("shapes"))
	assert.Equal(t, "shapes", w.title)
}
