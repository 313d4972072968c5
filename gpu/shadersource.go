package gpu

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ShaderSource holds null-terminated GLSL source strings for one program's
// stages, plus a header segment shared by all of them.
type ShaderSource struct {
	Vertex   string
	Fragment string
	Compute  string
	Header   string

	Flags CompileFlags
}

// ParseCombinedSource splits a single file carrying "#shader vertex" /
// "#shader fragment" / "#shader compute" / "#shader includeashead" pragmas
// into per-stage sources, following the combined-source convention used by
// soypat/glgl's ParseCombined. Any "#shader header" segment is prepended to
// every stage that is present. ParseCombinedSource makes no GL calls.
func ParseCombinedSource(r io.Reader) (ShaderSource, error) {
	const (
		none = iota
		vertex
		fragment
		compute
		header
		numKinds
	)
	var bufs [numKinds]bytes.Buffer
	scanner := bufio.NewScanner(r)
	current := none
	for scanner.Scan() {
		line := scanner.Bytes()
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, []byte("#shader ")) {
			if current != none {
				bufs[current].Write(line)
				bufs[current].WriteByte('\n')
			}
			continue
		}
		fields := bytes.Fields(trimmed)
		if len(fields) != 2 {
			continue
		}
		switch string(fields[1]) {
		case "includeashead", "header":
			current = header
		case "vertex":
			current = vertex
		case "fragment", "pixel":
			current = fragment
		case "compute":
			current = compute
		default:
			return ShaderSource{}, fmt.Errorf("unexpected #shader pragma %q", fields[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return ShaderSource{}, err
	}

	headerSrc := bufs[header].Bytes()
	join := func(stage bytes.Buffer) string {
		if stage.Len() == 0 {
			return ""
		}
		out := append([]byte{}, headerSrc...)
		out = append(out, stage.Bytes()...)
		out = append(out, 0)
		return string(out)
	}
	return ShaderSource{
		Vertex:   join(bufs[vertex]),
		Fragment: join(bufs[fragment]),
		Compute:  join(bufs[compute]),
		Header:   string(headerSrc),
	}, nil
}

// CompileFlags tunes how aggressively CompileProgram checks driver status
// after each stage, trading safety for the cost of the extra round trips to
// the driver.
type CompileFlags uint64

const (
	CompileFlagValidateProgram CompileFlags = 1 << iota
	CompileFlagNoCompileCheck
	CompileFlagNoLinkCheck
)

const (
	// CompileFlagsStrict checks everything, including an explicit
	// glValidateProgram call. Meant for development builds.
	CompileFlagsStrict = CompileFlagValidateProgram
	// CompileFlagsLax skips compile/link status checks entirely. Callers
	// should poll the driver's error queue themselves if they set this.
	CompileFlagsLax = CompileFlagNoCompileCheck | CompileFlagNoLinkCheck
)

func (f CompileFlags) checkCompile() bool { return f&CompileFlagNoCompileCheck == 0 }
func (f CompileFlags) checkLink() bool    { return f&CompileFlagNoLinkCheck == 0 }
func (f CompileFlags) validate() bool     { return f&CompileFlagValidateProgram != 0 }
