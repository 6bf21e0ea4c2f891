package shapes

// Color is a linear RGBA color, matching a WGSL vec4<f32>.
type Color [4]float32

// RGBA builds a Color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Yellow      = Color{1, 0.92, 0.016, 1}
	Cyan        = Color{0, 1, 1, 1}
	Magenta     = Color{1, 0, 1, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	Transparent = Color{}
)

// Modifications is a bitset of per-shape shading tweaks read by the fragment shaders.
type Modifications uint32

const (
	// ModificationAlphaFade fades the shape out as its remaining lifetime approaches zero.
	ModificationAlphaFade Modifications = 1 << iota
	// ModificationNormalFade fades edges that face away from the camera.
	ModificationNormalFade
	// ModificationFaceCamera orients the shape's local XY plane toward the camera.
	ModificationFaceCamera
	// ModificationCustom is reserved for host shaders.
	ModificationCustom
)

// Has reports whether every bit in flag is set in m.
func (m Modifications) Has(flag Modifications) bool {
	return m&flag == flag
}
