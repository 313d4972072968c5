package handle

import "testing"

func TestAcquireGetDiscard(t *testing.T) {
	s := NewSet[int]()
	h := s.Acquire(42)
	if got := s.Get(h); got == nil || *got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	s.Discard(h)
	if got := s.Get(h); got != nil {
		t.Fatalf("expected nil after discard, got %v", *got)
	}
}

func TestGenerationDetectsStaleHandle(t *testing.T) {
	s := NewSet[string]()
	h1 := s.Acquire("a")
	s.Discard(h1)
	h2 := s.Acquire("b")

	if h1.ID() != h2.ID() {
		t.Fatalf("expected id reuse, got %d and %d", h1.ID(), h2.ID())
	}
	if h1.Gen() == h2.Gen() {
		t.Fatal("expected generation to differ after reuse")
	}
	if s.Get(h1) != nil {
		t.Fatal("stale handle must not resolve after id reuse")
	}
	if got := s.Get(h2); got == nil || *got != "b" {
		t.Fatalf("expected fresh handle to resolve to \"b\", got %v", got)
	}
}

func TestDiscardUnknownGenerationIsNoop(t *testing.T) {
	s := NewSet[int]()
	h := s.Acquire(1)
	stale := New(h.ID(), h.Gen()+1)
	s.Discard(stale)
	if s.Get(h) == nil {
		t.Fatal("discard with mismatched generation must be a no-op")
	}
}

func TestPackingHasNoGaps(t *testing.T) {
	s := NewSet[int]()
	var handles []Handle
	for i := 0; i < 10; i++ {
		handles = append(handles, s.Acquire(i))
	}
	// discard a few from the middle
	s.Discard(handles[2])
	s.Discard(handles[5])
	s.Discard(handles[7])

	if s.Len() != 7 {
		t.Fatalf("expected 7 live entries, got %d", s.Len())
	}
	seen := map[int]bool{}
	s.Iter(func(h Handle, v *int) bool {
		if seen[*v] {
			t.Fatalf("duplicate payload %d in packed iteration", *v)
		}
		seen[*v] = true
		return true
	})
	if len(seen) != 7 {
		t.Fatalf("expected 7 distinct payloads, got %d", len(seen))
	}
}

func TestNullHandle(t *testing.T) {
	var h Handle
	if !h.IsNull() {
		t.Fatal("zero Handle must be null")
	}
	s := NewSet[int]()
	if s.Get(h) != nil {
		t.Fatal("null handle must never resolve")
	}
}

func TestAcquireReusesMostRecentlyFreedID(t *testing.T) {
	s := NewSet[int]()
	a := s.Acquire(1)
	b := s.Acquire(2)
	s.Discard(a)
	s.Discard(b)
	c := s.Acquire(3)
	if c.ID() != b.ID() {
		t.Fatalf("expected reuse of most recently freed id %d, got %d", b.ID(), c.ID())
	}
}
