package intern

import "testing"

func TestAddFindRoundtrip(t *testing.T) {
	tb := NewTable()
	id := tb.AddString("p_color")
	if id == 0 {
		t.Fatal("expected non-null id")
	}
	if got := tb.FindString("p_color"); got != id {
		t.Fatalf("find mismatch: got %d want %d", got, id)
	}
	if got := tb.GetString(id); got != "p_color" {
		t.Fatalf("get mismatch: got %q", got)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	tb := NewTable()
	a := tb.AddString("foo.txt")
	b := tb.AddString("foo.txt")
	if a != b {
		t.Fatalf("expected same id, got %d and %d", a, b)
	}
	if tb.Len() != 1 {
		t.Fatalf("expected one interned string, got %d", tb.Len())
	}
}

func TestEmptyIsNull(t *testing.T) {
	tb := NewTable()
	if id := tb.AddString(""); id != 0 {
		t.Fatalf("expected null id for empty string, got %d", id)
	}
	if id := tb.FindString(""); id != 0 {
		t.Fatalf("expected null id for empty find, got %d", id)
	}
}

func TestFindUnknownIsNull(t *testing.T) {
	tb := NewTable()
	tb.AddString("known")
	if id := tb.FindString("unknown"); id != 0 {
		t.Fatalf("expected null id, got %d", id)
	}
}

func TestCaseSensitive(t *testing.T) {
	tb := NewTable()
	a := tb.AddString("Name")
	b := tb.AddString("name")
	if a == b {
		t.Fatal("expected distinct ids for differently-cased strings")
	}
}

func TestGetOutOfRange(t *testing.T) {
	tb := NewTable()
	if got := tb.Get(ID(999)); got != nil {
		t.Fatalf("expected nil for out-of-range id, got %v", got)
	}
}
