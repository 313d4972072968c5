// Package material implements the uniform bag and Material object: a
// program handle paired with blend/depth state and a name-addressed byte
// payload auto-populated from the program's `p_`-prefixed uniforms.
// Grounded on framework/graphics/gfx_material.c from the original C
// implementation this module was distilled from.
package material

import (
	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/intern"
)

type entry struct {
	id     intern.ID
	offset uint32
	size   uint32
}

// Bag is an ordered (name, size, bytes) tuple list: a flat byte payload
// with a parallel header array recording where each named value lives,
// exactly like the original's Gfx_Uniforms split of headers+payload.
type Bag struct {
	headers []entry
	payload []byte
}

// NewBag returns an empty, ready-to-use Bag.
func NewBag() *Bag { return &Bag{} }

// Clear empties the bag without releasing its backing storage.
func (b *Bag) Clear() {
	b.headers = b.headers[:0]
	b.payload = b.payload[:0]
}

// PushID appends value under id, growing the payload. Pushing the same id
// twice keeps both entries; GetID returns the first match at or after the
// given offset, matching the original's iteration-order lookup.
func (b *Bag) PushID(id intern.ID, value []byte) {
	if id == 0 {
		return
	}
	b.headers = append(b.headers, entry{
		id:     id,
		offset: uint32(len(b.payload)),
		size:   uint32(len(value)),
	})
	b.payload = append(b.payload, value...)
}

// GetID returns the bytes stored under id starting the scan at headers
// index offset, or nil if none is found.
func (b *Bag) GetID(id intern.ID, offset int) []byte {
	if id == 0 {
		return nil
	}
	for i := offset; i < len(b.headers); i++ {
		e := b.headers[i]
		if e.id != id {
			continue
		}
		return b.payload[e.offset : e.offset+e.size]
	}
	return nil
}

// SetID overwrites the first entry matching id in place. It reports a
// Validation error if the new value's size does not match the existing
// entry's, since the payload is a flat byte slice with fixed per-entry
// extents.
func (b *Bag) SetID(id intern.ID, value []byte) error {
	for i := range b.headers {
		e := b.headers[i]
		if e.id != id {
			continue
		}
		if uint32(len(value)) != e.size {
			return ferr.Report(ferr.New(ferr.Validation, "uniform value size mismatch"))
		}
		copy(b.payload[e.offset:e.offset+e.size], value)
		return nil
	}
	return ferr.Report(ferr.New(ferr.Validation, "unknown uniform id"))
}

// Len reports how many entries the bag holds.
func (b *Bag) Len() int { return len(b.headers) }

// Iterator walks a Bag's entries in insertion order via Next.
type Iterator struct {
	bag  *Bag
	next int
}

// Iterate returns a fresh Iterator over b.
func (b *Bag) Iterate() Iterator { return Iterator{bag: b} }

// Next advances the iterator, returning the id and value of the next entry
// and false once exhausted.
func (it *Iterator) Next() (intern.ID, []byte, bool) {
	if it.next >= len(it.bag.headers) {
		return 0, nil, false
	}
	e := it.bag.headers[it.next]
	it.next++
	return e.id, it.bag.payload[e.offset : e.offset+e.size], true
}
