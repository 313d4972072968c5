//go:build !tinygo && cgo

package batch2d

import (
	"unsafe"

	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/gpu"
)

// attributeLayout is the fixed position/texcoord layout every batcher mesh
// uses: two float32 attributes packed into one vertex buffer, matching
// Vertex's field order.
var attributeLayout = []gpu.AttributeLayout{
	{Attribute: gpu.AttributePosition, Type: gpu.DataTypeVec2F32, Components: 2},
	{Attribute: gpu.AttributeTexcoord, Type: gpu.DataTypeVec2F32, Components: 2},
}

const vertexSize = 16 // 2x float32 position + 2x float32 texcoord

// Bake closes any open batch, renders every font used by text added since
// the last Clear, fills in their quads' UVs, and uploads the accumulated
// vertex/index streams to this batcher's GPU mesh, creating it on first
// use. ctx owns the underlying buffers and mesh; must be called with ctx's
// GL context current.
func (b *Batcher) Bake(ctx *gpu.Context) error {
	b.bakePass()

	b.bakeTexts(func(f *Font) {
		img := f.Atlas.Asset()
		if f.Texture.IsNull() || len(img.Pixels) == 0 {
			return
		}
		tex, ok := ctx.Texture(f.Texture)
		if !ok {
			ferr.Report(ferr.New(ferr.Lifecycle, "bake: font texture handle is stale"))
			return
		}
		if err := tex.Update(0, 0, img.Width, img.Height, img.Pixels); err != nil {
			ferr.Report(err)
		}
	})

	vertexBytes := vertexBytesOf(b.Vertices)
	indexBytes := indexBytesOf(b.Indices)

	if b.Mesh.IsNull() {
		return b.createMesh(ctx, vertexBytes, indexBytes)
	}

	if _, ok := ctx.Mesh(b.Mesh); !ok {
		return ferr.Report(ferr.New(ferr.Lifecycle, "bake: mesh handle is stale"))
	}
	if err := ctx.UpdateBuffer(b.vertexBuffer, 0, vertexBytes); err != nil {
		return ferr.Report(err)
	}
	if err := ctx.UpdateBuffer(b.indexBuffer, 0, indexBytes); err != nil {
		return ferr.Report(err)
	}
	return nil
}

func (b *Batcher) createMesh(ctx *gpu.Context, vertexBytes, indexBytes []byte) error {
	capacity := len(vertexBytes)
	if capacity == 0 {
		capacity = vertexSize
	}
	vb, err := ctx.CreateBuffer(capacity, vertexBytes)
	if err != nil {
		return ferr.Report(err)
	}
	icapacity := len(indexBytes)
	if icapacity == 0 {
		icapacity = 4
	}
	ib, err := ctx.CreateBuffer(icapacity, indexBytes)
	if err != nil {
		return ferr.Report(err)
	}

	vertexBuf, _ := ctx.Buffer(vb)
	indexBuf, _ := ctx.Buffer(ib)
	mh, err := ctx.CreateMesh(gpu.MeshTriangles, []gpu.MeshBuffer{
		{Buffer: vertexBuf, Layout: attributeLayout},
		{Buffer: indexBuf, Format: gpu.DataTypeR32U, IsIndex: true},
	})
	if err != nil {
		return ferr.Report(err)
	}
	b.Mesh = mh
	b.vertexBuffer = vb
	b.indexBuffer = ib
	return nil
}

func vertexBytesOf(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), len(vs)*vertexSize)
}

func indexBytesOf(is []uint32) []byte {
	if len(is) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&is[0])), len(is)*4)
}
