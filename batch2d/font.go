package batch2d

import "github.com/pixelforge/forge/glm"

// GlyphParams describes a rendered glyph's pen-relative quad (Rect) and the
// horizontal advance to the next glyph (FullSizeX), both already scaled to
// the requested pixel size.
type GlyphParams struct {
	FullSizeX float32
	Rect      glm.Rect
}

// Glyph is one sized glyph's layout params plus its atlas UV rect. UV is
// the zero Rect until the owning font's atlas has been baked.
type Glyph struct {
	Params GlyphParams
	UV     glm.Rect
}

// FontAtlas is the external collaborator a host implements on top of its
// own font rasterizer. Glyph rasterization, atlas packing, and kerning
// tables are out of scope for this module; AddText only needs to query
// them through this interface. AddGlyph/GetGlyph use a two-step protocol
// (request, then fetch) so a host can batch rasterization work across many
// requested glyphs before laying any of them out.
type FontAtlas interface {
	// Scale returns the font-units-to-pixels factor for a requested pixel
	// size.
	Scale(size float32) float32
	// Ascent, Descent and Gap return the scaled font metrics used to
	// compute line height (Ascent - Descent + Gap).
	Ascent(scale float32) float32
	Descent(scale float32) float32
	Gap(scale float32) float32
	// AddGlyph requests that codepoint be rasterized at size, if it is not
	// already resident. The glyph need not be available until Render has
	// run.
	AddGlyph(codepoint rune, size float32)
	// GetGlyph returns the glyph for codepoint at size, or false if it has
	// not been requested (or rasterization failed). Callers fall back to
	// the atlas's error glyph (codepoint 0) when ok is false.
	GetGlyph(codepoint rune, size float32) (Glyph, bool)
	// GetKerning returns the extra horizontal offset between previous and
	// codepoint at scale; previous is 0 for the first glyph of a run.
	GetKerning(previous, codepoint rune, scale float32) float32
	// Render packs every glyph requested since the last Render into the
	// atlas image, assigning their UV rects.
	Render()
	// Asset returns the rendered atlas image, ready for GPU upload.
	Asset() AtlasImage
}

// AtlasImage is the pixel data a FontAtlas hands back after Render, in the
// layout gpu.Texture.Update expects.
type AtlasImage struct {
	Width, Height int
	Pixels        []byte
}

// isBlockBreak reports whether r splits a word for wrapping purposes.
func isBlockBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == '\t' || r == ' '
}

// isInvisible reports whether r advances the pen but emits no quad.
func isInvisible(r rune) bool {
	return r == '\n' || r == '\r' || r == '\t' || r == ' '
}
