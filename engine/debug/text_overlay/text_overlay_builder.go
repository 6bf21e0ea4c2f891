package text_overlay

import "golang.org/x/image/font"

// AtlasBuilderOption is a function that configures an atlas instance during construction.
type AtlasBuilderOption func(*atlas)

// WithFace is an option builder that rasterizes the atlas from another font face.
// Proportional faces are laid out on a grid as wide as their widest printable glyph.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - AtlasBuilderOption: a function that applies the face option to an atlas
func WithFace(face font.Face) AtlasBuilderOption {
	return func(a *atlas) {
		if face != nil {
			a.face = face
		}
	}
}

// WithColumns is an option builder that sets how many cells one atlas row holds.
//
// Parameters:
//   - n: cells per row, at least 1
//
// Returns:
//   - AtlasBuilderOption: a function that applies the columns option to an atlas
func WithColumns(n int) AtlasBuilderOption {
	return func(a *atlas) {
		a.columns = max(n, 1)
	}
}
