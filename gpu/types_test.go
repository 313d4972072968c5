package gpu

import "testing"

func TestSizeOfKnownTypes(t *testing.T) {
	cases := map[DataType]int{
		DataTypeR32F:    4,
		DataTypeVec4F32: 16,
		DataTypeMat4:    64,
		DataTypeR8U:     1,
	}
	for dt, want := range cases {
		if got := SizeOf(dt); got != want {
			t.Errorf("SizeOf(%v) = %d, want %d", dt, got, want)
		}
	}
}

func TestSizeOfUnknownIsZero(t *testing.T) {
	if got := SizeOf(DataTypeNone); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestIsSampler(t *testing.T) {
	if !IsSampler(DataTypeUnitF) {
		t.Fatal("expected DataTypeUnitF to be a sampler")
	}
	if IsSampler(DataTypeR32F) {
		t.Fatal("did not expect DataTypeR32F to be a sampler")
	}
}
