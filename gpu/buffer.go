//go:build !tinygo && cgo

package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
)

// Buffer is an immutable-storage GL buffer object (vertex, index, or
// uniform data). Capacity is fixed at creation; Update either writes in
// place when the new data fits or is destroyed and recreated by the owning
// Context when it doesn't.
type Buffer struct {
	id       uint32
	capacity int // bytes
}

// CreateBuffer allocates an immutable, dynamically-writable buffer of
// capacity bytes, optionally seeded with initial.
func CreateBuffer(capacity int, initial []byte) (Buffer, error) {
	if capacity <= 0 {
		return Buffer{}, ferr.New(ferr.Validation, "buffer capacity must be positive")
	}
	var id uint32
	gl.CreateBuffers(1, &id)
	if id == 0 {
		return Buffer{}, ferr.New(ferr.Driver, "glCreateBuffers returned 0")
	}
	var dataPtr unsafe.Pointer
	if len(initial) > 0 {
		dataPtr = gl.Ptr(&initial[0])
	}
	gl.NamedBufferStorage(id, capacity, dataPtr, gl.DYNAMIC_STORAGE_BIT)
	return Buffer{id: id, capacity: capacity}, nil
}

// Update writes data at byteOffset, in place. The caller must ensure
// byteOffset+len(data) <= Capacity(); buffers never grow in place, the
// owning Context recreates them on overflow (see Context.UpdateBuffer).
func (b Buffer) Update(byteOffset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if byteOffset < 0 || byteOffset+len(data) > b.capacity {
		return ferr.New(ferr.Validation, "buffer update out of bounds")
	}
	gl.NamedBufferSubData(b.id, byteOffset, len(data), gl.Ptr(&data[0]))
	return nil
}

// Capacity returns the buffer's fixed byte size.
func (b Buffer) Capacity() int { return b.capacity }

// ID returns the underlying GL buffer object name, for binding points
// (shader storage, uniform blocks) the Context does not itself track.
func (b Buffer) ID() uint32 { return b.id }

func (b Buffer) destroy() { gl.DeleteBuffers(1, &b.id) }
