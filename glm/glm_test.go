package glm

import "testing"

func TestIdentityIsNoop(t *testing.T) {
	p := Vec2{3, 4}
	got := Identity4().MulPoint(p)
	if got != p {
		t.Fatalf("identity must not move point: got %v want %v", got, p)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate4(Vec2{10, -5})
	got := m.MulPoint(Vec2{1, 1})
	want := Vec2{11, -4}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMulComposesTransforms(t *testing.T) {
	scale := Scale4(Vec2{2, 2})
	translate := Translate4(Vec2{1, 0})
	combined := translate.Mul(scale)
	got := combined.MulPoint(Vec2{3, 3})
	want := Vec2{7, 6} // (3*2)+1, (3*2)+0
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
	if got := Lerp(0, 10, 0); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
	if got := Lerp(0, 10, 1); got != 10 {
		t.Fatalf("got %v want 10", got)
	}
}
