package gpu

import (
	"strings"
	"testing"
)

func TestParseCombinedSourceSplitsStages(t *testing.T) {
	src := `
// ignored prelude
#shader header
#define FOO 1

#shader vertex
void main() { gl_Position = vec4(0); }

#shader fragment
out vec4 color;
void main() { color = vec4(1); }
`
	ss, err := ParseCombinedSource(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ss.Vertex, "#define FOO 1") {
		t.Fatalf("expected header prepended to vertex stage, got %q", ss.Vertex)
	}
	if !strings.HasSuffix(ss.Vertex, "\x00") {
		t.Fatal("expected vertex source to be null terminated")
	}
	if !strings.Contains(ss.Fragment, "out vec4 color;") {
		t.Fatalf("fragment stage missing body: %q", ss.Fragment)
	}
	if ss.Compute != "" {
		t.Fatal("expected no compute stage")
	}
}

func TestParseCombinedSourceRejectsUnknownPragma(t *testing.T) {
	_, err := ParseCombinedSource(strings.NewReader("#shader bogus\n"))
	if err == nil {
		t.Fatal("expected error for unknown #shader pragma")
	}
}

func TestCompileFlagsComposites(t *testing.T) {
	if CompileFlagsLax.checkCompile() {
		t.Fatal("lax flags should skip compile check")
	}
	if CompileFlagsLax.checkLink() {
		t.Fatal("lax flags should skip link check")
	}
	if !CompileFlagsStrict.checkCompile() {
		t.Fatal("strict flags should check compile by default")
	}
	if !CompileFlagsStrict.validate() {
		t.Fatal("strict flags should validate the program")
	}
}
