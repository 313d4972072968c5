// Package intern maps byte strings to stable, small integer handles.
//
// An ID is the unit of comparison and storage everywhere else in the engine:
// uniform names, asset paths, and asset-type tags are all interned once and
// then passed around as IDs instead of strings. Lookup is case-sensitive and
// thread-confined to the caller's single main thread, like every other
// subsystem in this module.
package intern

import "hash/maphash"

// ID is a stable handle into a Table. The zero value is the null ID: no
// content ever interns to it.
type ID uint32

// Table is an append-only byte arena plus a hash bucket keyed by content.
type Table struct {
	seed    maphash.Seed
	buffer  []byte
	entries []entry          // 1-indexed by ID; entries[0] is unused
	buckets map[uint64][]ID
}

type entry struct {
	offset, length uint32
}

// NewTable returns an empty, ready-to-use Table.
func NewTable() *Table {
	return &Table{
		seed:    maphash.MakeSeed(),
		entries: make([]entry, 1), // reserve index 0 for the null ID
		buckets: make(map[uint64][]ID),
	}
}

// Add interns value and returns its ID, reusing an existing entry if the
// content is already known. Empty input returns the null ID.
func (t *Table) Add(value []byte) ID {
	if len(value) == 0 {
		return 0
	}
	h := t.hash(value)
	for _, id := range t.buckets[h] {
		if string(t.bytesOf(id)) == string(value) {
			return id
		}
	}
	offset := uint32(len(t.buffer))
	t.buffer = append(t.buffer, value...)
	t.entries = append(t.entries, entry{offset: offset, length: uint32(len(value))})
	id := ID(len(t.entries) - 1)
	t.buckets[h] = append(t.buckets[h], id)
	return id
}

// AddString is a convenience wrapper over Add for string values.
func (t *Table) AddString(value string) ID {
	return t.Add([]byte(value))
}

// Find returns the ID for value if it has already been interned, or the
// null ID otherwise. Find never mutates the table.
func (t *Table) Find(value []byte) ID {
	if len(value) == 0 {
		return 0
	}
	h := t.hash(value)
	for _, id := range t.buckets[h] {
		if string(t.bytesOf(id)) == string(value) {
			return id
		}
	}
	return 0
}

// FindString is a convenience wrapper over Find for string values.
func (t *Table) FindString(value string) ID {
	return t.Find([]byte(value))
}

// Get returns the bytes interned under id, or nil for the null ID or an
// out-of-range id.
func (t *Table) Get(id ID) []byte {
	if int(id) <= 0 || int(id) >= len(t.entries) {
		return nil
	}
	return t.bytesOf(id)
}

// GetString is a convenience wrapper over Get that copies into a string.
func (t *Table) GetString(id ID) string {
	return string(t.Get(id))
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int { return len(t.entries) - 1 }

func (t *Table) bytesOf(id ID) []byte {
	e := t.entries[id]
	return t.buffer[e.offset : e.offset+e.length]
}

func (t *Table) hash(value []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(t.seed)
	h.Write(value)
	return h.Sum64()
}
