// Package batch2d accumulates 2D quads and laid-out text into a single
// position/texcoord vertex stream and 32-bit index stream, segmenting the
// stream into batches that change GPU state as rarely as possible. Grounded
// line-by-line on application/batcher_2d.c from the original implementation
// this module was distilled from: the four-pass text layout (tokenize into
// whitespace-delimited blocks, position blocks at alignment {0,1}, re-align
// each line for the requested alignment, emit placeholder-UV quads), the
// bake pass that fills UVs once every font's atlas has rendered, and the
// batch-boundary rule in SetMaterial.
package batch2d

import (
	"github.com/pixelforge/forge/cmdexec"
	"github.com/pixelforge/forge/glm"
	"github.com/pixelforge/forge/handle"
)

// Vertex is one entry of the batcher's packed vertex stream: a screen-space
// position already transformed by the current matrix, and a texture
// coordinate (zero until a text bake pass fills it in).
type Vertex struct {
	Position glm.Vec2
	TexCoord glm.Vec2
}

// Batch is a contiguous run of the index stream drawn with one material.
type Batch struct {
	Offset, Length uint32
	Material       handle.Handle
}

// Font pairs a FontAtlas with the GPU texture handle its rendered atlas
// image is uploaded to. The texture handle is the caller's responsibility
// to create; Bake only updates its contents.
type Font struct {
	Atlas   FontAtlas
	Texture handle.Handle
}

// textBlock is one whitespace-delimited run of codepoints queued by AddText,
// positioned by the layout passes before being turned into quads.
type textBlock struct {
	codepointsFrom, codepointsTo int
	font                         *Font
	size                         float32
	breakerCodepoint             rune
	position                     glm.Vec2
	fullSizeX                    float32
	vertexOffset                 int
}

// Batcher owns the pending vertex/index stream, the in-progress text block
// list, and the list of batches closed so far this frame.
type Batcher struct {
	batch   Batch
	batches []Batch

	codepoints []rune
	texts      []textBlock

	matrix glm.Mat4

	Vertices []Vertex
	Indices  []uint32

	// Mesh is the GPU mesh handle IssueCommands draws against. It is the
	// zero handle until the cgo-gated half of this package (Bake) has
	// created it.
	Mesh handle.Handle

	// vertexBuffer and indexBuffer back Mesh; Bake addresses them directly
	// since UpdateBuffer takes a buffer handle, not a mesh handle.
	vertexBuffer, indexBuffer handle.Handle
}

// NewBatcher returns an empty Batcher with the identity matrix current.
func NewBatcher() *Batcher {
	return &Batcher{matrix: glm.Identity4()}
}

// SetMatrix replaces the matrix applied to every subsequently added vertex.
// Matrix changes never close a batch: the transform is folded into vertex
// positions on the CPU, so a single vertex stream can span matrix changes.
func (b *Batcher) SetMatrix(m glm.Mat4) {
	b.matrix = m
}

// SetMaterial switches the material subsequent quads/text are drawn with,
// closing the current batch first if it differs and is non-empty.
func (b *Batcher) SetMaterial(h handle.Handle) {
	if b.batch.Material != h {
		b.bakePass()
	}
	b.batch.Material = h
}

// bakePass closes the current batch if any indices have accumulated since
// its offset, appending it to the batch list and starting a fresh one.
func (b *Batcher) bakePass() {
	offset := uint32(len(b.Indices))
	if b.batch.Offset < offset {
		b.batch.Length = offset - b.batch.Offset
		b.batches = append(b.batches, b.batch)
		b.batch.Offset = offset
		b.batch.Length = 0
	}
}

// AddQuad appends one quad's four vertices and six indices (two
// counter-clockwise triangles sharing the rect's diagonal) to the vertex
// and index streams, transformed by the current matrix.
//
//	1-----------3
//	|         / |
//	|       /   |
//	|     /     |
//	|   /       |
//	| /         |
//	0-----------2
func (b *Batcher) AddQuad(rect, uv glm.Rect) {
	offset := uint32(len(b.Vertices))
	b.Vertices = append(b.Vertices,
		b.makeVertex(rect.Min, uv.Min),
		b.makeVertex(glm.Vec2{X: rect.Min.X, Y: rect.Max.Y}, glm.Vec2{X: uv.Min.X, Y: uv.Max.Y}),
		b.makeVertex(glm.Vec2{X: rect.Max.X, Y: rect.Min.Y}, glm.Vec2{X: uv.Max.X, Y: uv.Min.Y}),
		b.makeVertex(rect.Max, uv.Max),
	)
	b.Indices = append(b.Indices,
		offset+3, offset+1, offset+0,
		offset+0, offset+2, offset+3,
	)
}

func (b *Batcher) makeVertex(position, texCoord glm.Vec2) Vertex {
	return Vertex{Position: b.matrix.MulPoint(position), TexCoord: texCoord}
}

// AddText lays text out within rect at the given alignment ({0,0}
// bottom-left to {1,1} top-right on each axis), optionally wrapping at
// whitespace, and appends placeholder-UV quads for every visible glyph. UVs
// are filled in later by Bake, once font's atlas has rendered the
// requested glyphs.
func (b *Batcher) AddText(rect glm.Rect, alignment glm.Vec2, wrap bool, font *Font, value string, size float32) {
	atlas := font.Atlas
	scale := atlas.Scale(size)
	ascent := atlas.Ascent(scale)
	descent := atlas.Descent(scale)
	gap := atlas.Gap(scale)
	lineHeight := ascent - descent + gap

	textsFrom := len(b.texts)

	atlas.AddGlyph(0, size)
	errorGlyph, _ := atlas.GetGlyph(0, size)

	b.tokenize(value, font, size)
	b.positionBlocks(textsFrom, rect, ascent, lineHeight, wrap, errorGlyph, scale)
	b.alignBlocks(textsFrom, rect, alignment, lineHeight)
	b.emitQuads(textsFrom, rect, font, scale, errorGlyph)
}

// tokenize splits value into whitespace-delimited textBlocks, appending
// visible codepoints to b.codepoints as it goes.
func (b *Batcher) tokenize(value string, font *Font, size float32) {
	atlas := font.Atlas
	errorGlyph, _ := atlas.GetGlyph(0, size)

	blockWidth := float32(0)
	blockFrom := len(b.codepoints)
	var previous rune

	for _, r := range value {
		atlas.AddGlyph(r, size)
		glyph, ok := atlas.GetGlyph(r, size)
		fullSizeX := errorGlyph.Params.FullSizeX
		if ok {
			fullSizeX = glyph.Params.FullSizeX
		}
		blockWidth += fullSizeX

		if isBlockBreak(r) {
			b.texts = append(b.texts, textBlock{
				codepointsFrom: blockFrom, codepointsTo: len(b.codepoints),
				font: font, size: size,
				breakerCodepoint: r,
				fullSizeX:        blockWidth,
			})
			blockWidth = 0
			blockFrom = len(b.codepoints)
			previous = r
			continue
		}

		if !isInvisible(r) {
			b.codepoints = append(b.codepoints, r)
			scale := atlas.Scale(size)
			blockWidth += atlas.GetKerning(previous, r, scale)
		}
		previous = r
	}

	if len(b.codepoints) > blockFrom {
		b.texts = append(b.texts, textBlock{
			codepointsFrom: blockFrom, codepointsTo: len(b.codepoints),
			font: font, size: size,
			fullSizeX: blockWidth,
		})
	}
}

// positionBlocks walks the blocks added by tokenize and assigns each a pen
// position as if alignment were {0,1} (top-left), wrapping lines that
// overflow rect's width when wrap is set.
func (b *Batcher) positionBlocks(textsFrom int, rect glm.Rect, ascent, lineHeight float32, wrap bool, errorGlyph Glyph, scale float32) {
	offset := glm.Vec2{X: rect.Min.X, Y: rect.Max.Y - ascent}

	for i := textsFrom; i < len(b.texts); i++ {
		text := &b.texts[i]

		if wrap && offset.X+text.fullSizeX > rect.Max.X {
			offset.X = rect.Min.X
			offset.Y -= lineHeight
		}
		text.position = offset

		var previous rune
		for j := text.codepointsFrom; j < text.codepointsTo; j++ {
			codepoint := b.codepoints[j]
			glyph, ok := text.font.Atlas.GetGlyph(codepoint, text.size)
			fullSizeX := errorGlyph.Params.FullSizeX
			if ok {
				fullSizeX = glyph.Params.FullSizeX
			}
			kerning := text.font.Atlas.GetKerning(previous, codepoint, scale)
			offset.X += fullSizeX + kerning
			previous = codepoint
		}

		breakerGlyph, ok := text.font.Atlas.GetGlyph(text.breakerCodepoint, text.size)
		fullSizeX := errorGlyph.Params.FullSizeX
		if ok {
			fullSizeX = breakerGlyph.Params.FullSizeX
		}
		offset.X += fullSizeX
		if text.breakerCodepoint == '\n' {
			offset.X = rect.Min.X
			offset.Y -= lineHeight
		}
	}
}

// alignBlocks re-positions each already-placed block horizontally per line
// (for alignment.X) and the whole text vertically (for alignment.Y), since
// positionBlocks always lays text out as if alignment were {0,1}.
func (b *Batcher) alignBlocks(textsFrom int, rect glm.Rect, alignment glm.Vec2, lineHeight float32) {
	errorMargin := glm.Vec2{
		X: 0.0001 * (1 - 2*alignment.X),
		Y: 0.0001 * (1 - 2*alignment.Y),
	}
	rectSize := glm.Vec2{X: rect.Width(), Y: rect.Height()}

	lineOffset := textsFrom
	linesCount := 1
	linePositionY := float32(0)
	lineWidth := float32(0)
	firstLine := true

	for i := textsFrom; i < len(b.texts); i++ {
		text := &b.texts[i]
		if firstLine {
			linePositionY = text.position.Y
			firstLine = false
		}
		if linePositionY != text.position.Y {
			offset := glm.Lerp(0, rectSize.X-lineWidth, alignment.X) + errorMargin.X
			for j := lineOffset; j < i; j++ {
				b.texts[j].position.X += offset
			}
			lineOffset = i
			linesCount++
			linePositionY = text.position.Y
			lineWidth = 0
		}
		lineWidth += text.fullSizeX
	}
	offset := glm.Lerp(0, rectSize.X-lineWidth, alignment.X) + errorMargin.X
	for j := lineOffset; j < len(b.texts); j++ {
		b.texts[j].position.X += offset
	}

	height := float32(linesCount) * lineHeight
	vOffset := glm.Lerp(height-rectSize.Y-lineHeight, 0, alignment.Y) + errorMargin.Y
	for i := textsFrom; i < len(b.texts); i++ {
		b.texts[i].position.Y += vOffset
	}
}

// emitQuads walks the now-positioned blocks, dropping glyphs that fall
// outside rect entirely and emitting a placeholder-UV AddQuad call for
// every visible one that remains.
func (b *Batcher) emitQuads(textsFrom int, rect glm.Rect, font *Font, scale float32, errorGlyph Glyph) {
	for blockI := textsFrom; blockI < len(b.texts); blockI++ {
		text := &b.texts[blockI]
		text.vertexOffset = len(b.Vertices)

		offset := text.position
		if offset.Y > rect.Max.Y {
			text.codepointsTo = text.codepointsFrom
			continue
		}
		if offset.Y < rect.Min.Y {
			b.texts = b.texts[:blockI]
			break
		}

		var previous rune
		for stringsI := text.codepointsFrom; stringsI < text.codepointsTo; stringsI++ {
			codepoint := b.codepoints[stringsI]
			glyph, ok := text.font.Atlas.GetGlyph(codepoint, text.size)
			params := errorGlyph.Params
			if ok {
				params = glyph.Params
			}
			kerning := text.font.Atlas.GetKerning(previous, codepoint, scale)
			offsetX := offset.X + kerning
			offset.X += params.FullSizeX + kerning
			previous = codepoint

			if offsetX < rect.Min.X {
				text.codepointsFrom = stringsI + 1
				continue
			}
			if offset.X > rect.Max.X {
				text.codepointsTo = stringsI
				break
			}

			if !isInvisible(codepoint) {
				b.AddQuad(glm.Rect{
					Min: glm.Vec2{X: params.Rect.Min.X + offsetX, Y: params.Rect.Min.Y + offset.Y},
					Max: glm.Vec2{X: params.Rect.Max.X + offsetX, Y: params.Rect.Max.Y + offset.Y},
				}, glm.Rect{})
			}
		}
	}
}

// bakeTexts renders every distinct font's atlas once, then walks every
// queued text quad and fills its four UVs from the now-rendered glyph's
// atlas rect. uploadTexture is called once per distinct font so a caller
// (Bake, in the cgo-gated half of this package) can push the rendered
// atlas image to its GPU texture.
func (b *Batcher) bakeTexts(uploadTexture func(f *Font)) {
	if len(b.texts) == 0 {
		return
	}

	seen := make(map[*Font]bool)
	for i := range b.texts {
		seen[b.texts[i].font] = true
	}
	for font := range seen {
		font.Atlas.Render()
	}
	if uploadTexture != nil {
		for font := range seen {
			uploadTexture(font)
		}
	}

	for i := range b.texts {
		text := &b.texts[i]
		errorGlyph, _ := text.font.Atlas.GetGlyph(0, text.size)
		verticesOffset := text.vertexOffset

		for j := text.codepointsFrom; j < text.codepointsTo; j++ {
			codepoint := b.codepoints[j]
			if isInvisible(codepoint) {
				continue
			}
			glyph, ok := text.font.Atlas.GetGlyph(codepoint, text.size)
			uv := errorGlyph.UV
			if ok {
				uv = glyph.UV
			}
			b.Vertices[verticesOffset+0].TexCoord = uv.Min
			b.Vertices[verticesOffset+1].TexCoord = glm.Vec2{X: uv.Min.X, Y: uv.Max.Y}
			b.Vertices[verticesOffset+2].TexCoord = glm.Vec2{X: uv.Max.X, Y: uv.Min.Y}
			b.Vertices[verticesOffset+3].TexCoord = uv.Max
			verticesOffset += 4
		}
	}
}

// IssueCommands closes any open batch and appends, for each completed
// batch, a Material command followed by a Draw command against this
// batcher's mesh, then clears the batch list. Call Bake first so the mesh
// and its vertex/index data are current.
func (b *Batcher) IssueCommands(out []cmdexec.Command) []cmdexec.Command {
	for _, batch := range b.Batches() {
		out = append(out,
			cmdexec.Command{
				Type:     cmdexec.TypeMaterial,
				Material: cmdexec.MaterialPayload{Handle: batch.Material},
			},
			cmdexec.Command{
				Type: cmdexec.TypeDraw,
				Draw: cmdexec.DrawPayload{
					Mesh:   b.Mesh,
					Offset: batch.Offset,
					Count:  batch.Length,
				},
			},
		)
	}
	return out
}

// Clear resets vertex, index, block, and batch storage to empty, ready for
// the next frame.
func (b *Batcher) Clear() {
	b.batch = Batch{}
	b.codepoints = b.codepoints[:0]
	b.batches = b.batches[:0]
	b.texts = b.texts[:0]
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

// Batches closes any open batch and returns the completed batch list,
// clearing it. Most callers want IssueCommands instead; Batches is exposed
// for tests and hosts that build their own command representation.
func (b *Batcher) Batches() []Batch {
	b.bakePass()
	out := b.batches
	b.batches = nil
	return out
}
