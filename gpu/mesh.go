//go:build !tinygo && cgo

package gpu

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
)

// AttributeLayout describes one vertex attribute's binding within a
// MeshBuffer's vertex stream: its semantic role, element type, and
// component count (1-4; a Vec3 position is Components=3).
type AttributeLayout struct {
	Attribute  AttributeType
	Type       DataType
	Components int
}

// MeshBuffer is one sub-buffer attached to a Mesh: either a vertex stream
// bound at its own VAO binding index with its own attribute layout, or the
// element/index buffer. Mirrors spec's GPU mesh data model: a per-buffer
// list of (buffer, format, attribute layout, is-index) rather than a fixed
// one-vertex-one-index pair.
type MeshBuffer struct {
	Buffer Buffer
	// Format is the index element type when IsIndex is true; unused for a
	// vertex buffer, whose element types come from Layout.
	Format  DataType
	Layout  []AttributeLayout
	IsIndex bool
}

func strideOf(layout []AttributeLayout) int {
	stride := 0
	for _, a := range layout {
		stride += SizeOf(a.Type)
	}
	return stride
}

// GLIndexType returns the GL index element type for an index MeshBuffer.
func (mb MeshBuffer) GLIndexType() (uint32, error) { return glIndexType(mb.Format) }

// IndexSize returns the byte size of one index element.
func (mb MeshBuffer) IndexSize() int { return SizeOf(mb.Format) }

// DefaultCount returns the natural element count for this sub-buffer used
// when a Draw command leaves Count at zero: every index in an index
// buffer, every vertex in a vertex buffer (from its own stride).
func (mb MeshBuffer) DefaultCount() int32 {
	if mb.IsIndex {
		size := mb.IndexSize()
		if size == 0 {
			return 0
		}
		return int32(mb.Buffer.Capacity() / size)
	}
	stride := strideOf(mb.Layout)
	if stride == 0 {
		return 0
	}
	return int32(mb.Buffer.Capacity() / stride)
}

// Mesh is a VAO over one or more MeshBuffers: any number of vertex streams,
// each at its own binding index, plus at most one meaningful index buffer
// (the last IsIndex entry wins the VAO's single element-array slot, as GL
// permits only one).
type Mesh struct {
	id      uint32
	mode    MeshMode
	buffers []MeshBuffer
}

// CreateMesh builds a VAO spanning buffers, in order: each non-index entry
// gets its own vertex-buffer binding and enabled attributes from its
// Layout; each index entry is bound to the VAO's element slot.
func CreateMesh(mode MeshMode, buffers []MeshBuffer) (Mesh, error) {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	if id == 0 {
		return Mesh{}, ferr.New(ferr.Driver, "glCreateVertexArrays returned 0")
	}

	var binding uint32
	for _, mb := range buffers {
		if mb.IsIndex {
			gl.VertexArrayElementBuffer(id, mb.Buffer.id)
			continue
		}

		stride := strideOf(mb.Layout)
		gl.VertexArrayVertexBuffer(id, binding, mb.Buffer.id, 0, int32(stride))

		offset := 0
		for _, a := range mb.Layout {
			loc := uint32(a.Attribute)
			gl.EnableVertexArrayAttrib(id, loc)
			gltype, err := glVertexType(scalarOf(a.Type))
			if err != nil {
				gl.DeleteVertexArrays(1, &id)
				return Mesh{}, ferr.Wrap(ferr.Validation, "attribute type", err)
			}
			normalized := isNormalized(a.Type)
			if isIntegerAttribute(a.Type) && !normalized {
				gl.VertexArrayAttribIFormat(id, loc, int32(a.Components), gltype, uint32(offset))
			} else {
				gl.VertexArrayAttribFormat(id, loc, int32(a.Components), gltype, normalized, uint32(offset))
			}
			gl.VertexArrayAttribBinding(id, loc, binding)
			offset += SizeOf(a.Type)
		}
		binding++
	}

	return Mesh{id: id, mode: mode, buffers: buffers}, nil
}

func isNormalized(t DataType) bool {
	switch t {
	case DataTypeR8Unorm, DataTypeR8Snorm, DataTypeR16Unorm, DataTypeR16Snorm,
		DataTypeVec2Unorm, DataTypeVec3Unorm, DataTypeVec4Unorm,
		DataTypeVec2Snorm, DataTypeVec3Snorm, DataTypeVec4Snorm:
		return true
	}
	return false
}

func isIntegerAttribute(t DataType) bool {
	switch t {
	case DataTypeR8U, DataTypeR8S, DataTypeR16U, DataTypeR16S, DataTypeR32U, DataTypeR32S,
		DataTypeVec2U, DataTypeVec2S, DataTypeVec2U32, DataTypeVec2S32,
		DataTypeVec3U, DataTypeVec3S, DataTypeVec3U32, DataTypeVec3S32,
		DataTypeVec4U, DataTypeVec4S, DataTypeVec4U32, DataTypeVec4S32:
		return true
	}
	return false
}

func (m Mesh) bind() { gl.BindVertexArray(m.id) }

func (m Mesh) destroy() { gl.DeleteVertexArrays(1, &m.id) }

// Mode returns the primitive topology this mesh draws.
func (m Mesh) Mode() MeshMode { return m.mode }

// Buffers returns the mesh's sub-buffer list in creation order, the
// sequence a Draw command walks to issue one draw call per entry.
func (m Mesh) Buffers() []MeshBuffer { return m.buffers }
