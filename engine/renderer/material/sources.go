package material

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
)

var (
	//go:embed assets/shape_common.wgsl
	shapeCommonSource string
	//go:embed assets/shape_fragment.wgsl
	shapeFragmentSource string

	//go:embed assets/line.wgsl
	lineSource string
	//go:embed assets/dashed_line.wgsl
	dashedLineSource string
	//go:embed assets/arc.wgsl
	arcSource string
	//go:embed assets/box.wgsl
	boxSource string
	//go:embed assets/outline.wgsl
	outlineSource string
	//go:embed assets/cast.wgsl
	castSource string

	//go:embed assets/text.wgsl
	textSource string
	//go:embed assets/text_fragment.wgsl
	textFragmentSource string
)

// vertexSource returns the vertex shader body of kind k and the prelude it is compiled with.
func vertexSource(k shapes.Kind) (string, []string) {
	if k == shapes.KindText {
		return textSource, []string{camera.GPUCameraUniformSource, GPUTextParamsSource, shapes.GPUGlyphSource}
	}

	var body string
	switch k {
	case shapes.KindLine:
		body = lineSource
	case shapes.KindDashedLine:
		body = dashedLineSource
	case shapes.KindArc:
		body = arcSource
	case shapes.KindBox:
		body = boxSource
	case shapes.KindOutline:
		body = outlineSource
	case shapes.KindCast:
		body = castSource
	}
	return body, []string{camera.GPUCameraUniformSource, GPUShapeParamsSource, shapes.RecordSource(k), shapeCommonSource}
}

func fragmentSource(k shapes.Kind) string {
	if k == shapes.KindText {
		return textFragmentSource
	}
	return shapeFragmentSource
}
