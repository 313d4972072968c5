package ferr

import (
	"errors"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(Validation, "null path")
	if !errors.Is(err, ValidationError) {
		t.Fatal("expected errors.Is to match ValidationError")
	}
	if errors.Is(err, DriverError) {
		t.Fatal("did not expect errors.Is to match DriverError")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("glGetError: invalid enum")
	err := Wrap(Driver, "program link", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap chain to reach cause")
	}
}

func TestReportInvokesDebugBreakForValidationNotDriver(t *testing.T) {
	var broke []error
	DebugBreak = func(err error) { broke = append(broke, err) }
	defer func() { DebugBreak = nil }()

	Report(New(Validation, "bad handle"))
	Report(New(Driver, "link failed"))

	if len(broke) != 1 {
		t.Fatalf("expected exactly one DebugBreak call, got %d", len(broke))
	}
}
