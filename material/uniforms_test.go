package material

import (
	"bytes"
	"testing"

	"github.com/pixelforge/forge/intern"
)

func TestPushGetRoundtrip(t *testing.T) {
	tab := intern.NewTable()
	id := tab.AddString("p_color")
	b := NewBag()
	b.PushID(id, []byte{1, 2, 3, 4})

	got := b.GetID(id, 0)
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("got %v", got)
	}
}

func TestSetIDRejectsSizeMismatch(t *testing.T) {
	tab := intern.NewTable()
	id := tab.AddString("p_alpha")
	b := NewBag()
	b.PushID(id, []byte{0, 0, 0, 0})

	if err := b.SetID(id, []byte{1, 2}); err == nil {
		t.Fatal("expected a size mismatch error")
	}
	if err := b.SetID(id, []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.GetID(id, 0); !bytes.Equal(got, []byte{9, 9, 9, 9}) {
		t.Fatalf("got %v", got)
	}
}

func TestClearEmptiesBag(t *testing.T) {
	tab := intern.NewTable()
	id := tab.AddString("p_x")
	b := NewBag()
	b.PushID(id, []byte{1})
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty bag, got len %d", b.Len())
	}
}

func TestIterateWalksInsertionOrder(t *testing.T) {
	tab := intern.NewTable()
	idA := tab.AddString("p_a")
	idB := tab.AddString("p_b")
	b := NewBag()
	b.PushID(idA, []byte{1})
	b.PushID(idB, []byte{2})

	it := b.Iterate()
	id, val, ok := it.Next()
	if !ok || id != idA || val[0] != 1 {
		t.Fatalf("expected first entry idA=1, got id=%v val=%v ok=%v", id, val, ok)
	}
	id, val, ok = it.Next()
	if !ok || id != idB || val[0] != 2 {
		t.Fatalf("expected second entry idB=2, got id=%v val=%v ok=%v", id, val, ok)
	}
	_, _, ok = it.Next()
	if ok {
		t.Fatal("expected iterator to be exhausted")
	}
}
