// Package text_overlay rasterizes a bitmap glyph atlas and lays debug labels out as glyph quads.
package text_overlay

import (
	"image"
	"image/draw"
	"strings"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shape_buffer"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstRune = ' '
	lastRune  = '~'
	// fallbackRune replaces every rune the atlas has no cell for.
	fallbackRune = '?'
)

// Atlas is a single-texture bitmap font covering printable ASCII, one fixed-size cell per rune.
type Atlas interface {
	// Staging returns the atlas pixels ready for upload. Coverage is stored in the alpha channel.
	//
	// Returns:
	//   - common.TextureStagingData: the atlas texture
	Staging() common.TextureStagingData

	// CellSize returns the size of one glyph cell in pixels.
	//
	// Returns:
	//   - int: the cell width, also the advance between characters
	//   - int: the cell height, also the line height
	CellSize() (int, int)

	// UV returns the atlas coordinates of the cell of r. Runes without a cell map to '?'.
	//
	// Parameters:
	//   - r: the rune
	//
	// Returns:
	//   - [2]float32: top-left texture coordinate
	//   - [2]float32: bottom-right texture coordinate
	UV(r rune) ([2]float32, [2]float32)

	// Measure returns the pixel size of s at scale 1. Lines are separated by '\n'.
	//
	// Parameters:
	//   - s: the text
	//
	// Returns:
	//   - int: the width of the longest line
	//   - int: the height of all lines
	Measure(s string) (int, int)

	// Layout appends the glyph quads of one label to dst and returns the extended slice.
	// Spaces only produce a quad when the label has a visible background.
	//
	// Parameters:
	//   - dst: the slice to append to
	//   - record: the label
	//   - scale: the pixel scale applied to every quad
	//
	// Returns:
	//   - []shapes.Glyph: dst with the label's glyphs appended
	Layout(dst []shapes.Glyph, record *shape_buffer.TextRecord, scale float32) []shapes.Glyph
}

type atlas struct {
	face    font.Face
	columns int

	cellW, cellH int
	ascent       int

	pixels *image.RGBA
}

var _ Atlas = &atlas{}

// NewAtlas rasterizes the atlas. The default face is basicfont.Face7x13.
//
// Parameters:
//   - options: functional options such as WithFace
//
// Returns:
//   - Atlas: the rasterized atlas
func NewAtlas(options ...AtlasBuilderOption) Atlas {
	a := &atlas{
		face:    basicfont.Face7x13,
		columns: 16,
	}
	for _, opt := range options {
		opt(a)
	}

	metrics := a.face.Metrics()
	a.ascent = metrics.Ascent.Ceil()
	a.cellH = metrics.Height.Ceil()
	if descentBased := a.ascent + metrics.Descent.Ceil(); descentBased > a.cellH {
		a.cellH = descentBased
	}
	for r := firstRune; r <= lastRune; r++ {
		if adv, ok := a.face.GlyphAdvance(r); ok {
			a.cellW = max(a.cellW, adv.Ceil())
		}
	}
	a.cellW = max(a.cellW, 1)
	a.cellH = max(a.cellH, 1)

	a.rasterize()
	return a
}

func (a *atlas) rows() int {
	return common.CeilDiv(int(lastRune-firstRune)+1, a.columns)
}

func (a *atlas) rasterize() {
	w, h := a.columns*a.cellW, a.rows()*a.cellH
	a.pixels = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(a.pixels, a.pixels.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  a.pixels,
		Src:  image.White,
		Face: a.face,
	}
	for r := firstRune; r <= lastRune; r++ {
		col, row := a.cell(r)
		d.Dot = fixed.P(col*a.cellW, row*a.cellH+a.ascent)
		d.DrawString(string(r))
	}
}

func (a *atlas) cell(r rune) (int, int) {
	if r < firstRune || r > lastRune {
		r = fallbackRune
	}
	i := int(r - firstRune)
	return i % a.columns, i / a.columns
}

func (a *atlas) Staging() common.TextureStagingData {
	data := common.NewTextureStagingData(a.pixels)
	data.Format = wgpu.TextureFormatRGBA8Unorm
	return data
}

func (a *atlas) CellSize() (int, int) {
	return a.cellW, a.cellH
}

func (a *atlas) UV(r rune) ([2]float32, [2]float32) {
	col, row := a.cell(r)
	w := float32(a.columns * a.cellW)
	h := float32(a.rows() * a.cellH)
	minUV := [2]float32{float32(col*a.cellW) / w, float32(row*a.cellH) / h}
	maxUV := [2]float32{float32((col+1)*a.cellW) / w, float32((row+1)*a.cellH) / h}
	return minUV, maxUV
}

func (a *atlas) Measure(s string) (int, int) {
	lines := strings.Split(s, "\n")
	longest := 0
	for _, line := range lines {
		longest = max(longest, len([]rune(line)))
	}
	return longest * a.cellW, len(lines) * a.cellH
}

func (a *atlas) Layout(dst []shapes.Glyph, record *shape_buffer.TextRecord, scale float32) []shapes.Glyph {
	if record == nil || record.Value == "" {
		return dst
	}
	if scale <= 0 {
		scale = 1
	}
	hasBackground := record.Background[3] > 0

	col, line := 0, 0
	for _, r := range record.Value {
		if r == '\n' {
			col = 0
			line++
			continue
		}
		if r != ' ' || hasBackground {
			uvMin, uvMax := a.UV(r)
			dst = append(dst, shapes.Glyph{
				Anchor:     record.Position,
				Scale:      scale,
				Offset:     [2]float32{float32(col * a.cellW), float32(line * a.cellH)},
				Extent:     [2]float32{float32(a.cellW), float32(a.cellH)},
				UVMin:      uvMin,
				UVMax:      uvMax,
				Color:      record.Color,
				Background: record.Background,
			})
		}
		col++
	}
	return dst
}
