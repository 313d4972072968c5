//go:build !tinygo && cgo

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/handle"
)

// Uniform describes one active, non-block uniform discovered by program
// introspection: its driver location, wire DataType, and array length (1
// for a scalar uniform).
type Uniform struct {
	NameID   uint32 // intern.ID, recorded by the caller that owns the table
	Name     string
	Location int32
	Type     DataType
	Count    int32
}

// Program is a linked GL program plus the uniform table recovered from it
// at link time, keyed by name so Material can auto-populate its bag from
// any `p_`-prefixed uniform.
type Program struct {
	id       uint32
	uniforms map[string]Uniform
}

// CompileProgram compiles and links ss into a Program. Exactly one of
// Vertex/Fragment or Compute must be present.
func CompileProgram(ss ShaderSource) (Program, error) {
	hasRaster := ss.Vertex != "" || ss.Fragment != ""
	hasCompute := ss.Compute != ""
	if hasRaster && hasCompute {
		return Program{}, ferr.New(ferr.Validation, "cannot combine compute and raster stages in one program")
	}
	if !hasRaster && !hasCompute {
		return Program{}, ferr.New(ferr.Validation, "empty shader source")
	}
	return compileSources(ss)
}

func compileSources(ss ShaderSource) (Program, error) {
	pid := gl.CreateProgram()
	if pid == 0 {
		return Program{}, ferr.New(ferr.Driver, "glCreateProgram returned 0")
	}

	var shaders []uint32
	var linked bool
	defer func() {
		for _, sid := range shaders {
			if linked {
				gl.DetachShader(pid, sid)
			}
			gl.DeleteShader(sid)
		}
	}()

	compileStage := func(kind uint32, src string) error {
		sid, err := compileShader(kind, ss.Flags, src)
		if err != nil {
			return err
		}
		gl.AttachShader(pid, sid)
		shaders = append(shaders, sid)
		return nil
	}

	if ss.Vertex != "" {
		if err := compileStage(gl.VERTEX_SHADER, ss.Vertex); err != nil {
			return Program{}, fmt.Errorf("vertex shader: %w", err)
		}
	}
	if ss.Fragment != "" {
		if err := compileStage(gl.FRAGMENT_SHADER, ss.Fragment); err != nil {
			return Program{}, fmt.Errorf("fragment shader: %w", err)
		}
	}
	if ss.Compute != "" {
		if err := compileStage(gl.COMPUTE_SHADER, ss.Compute); err != nil {
			return Program{}, fmt.Errorf("compute shader: %w", err)
		}
	}

	gl.LinkProgram(pid)
	if ss.Flags.checkLink() {
		if err := ivLogErr(pid, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); err != nil {
			gl.DeleteProgram(pid)
			return Program{}, ferr.Wrap(ferr.Driver, "program link failed", err)
		}
	}
	linked = true

	if ss.Flags.validate() {
		gl.ValidateProgram(pid)
		if err := ivLogErr(pid, gl.VALIDATE_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); err != nil {
			gl.DeleteProgram(pid)
			return Program{}, ferr.Wrap(ferr.Driver, "program validation failed", err)
		}
	}

	uniforms, err := introspectUniforms(pid)
	if err != nil {
		gl.DeleteProgram(pid)
		return Program{}, err
	}
	return Program{id: pid, uniforms: uniforms}, nil
}

func compileShader(kind uint32, flags CompileFlags, source string) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		return 0, ferr.New(ferr.Validation, "shader source missing null terminator")
	}
	id := gl.CreateShader(kind)
	if id == 0 {
		return 0, ferr.New(ferr.Driver, "glCreateShader returned 0")
	}
	csources, free := gl.Strs(source)
	length := int32(len(source))
	gl.ShaderSource(id, 1, csources, &length)
	free()

	gl.CompileShader(id)
	if flags.checkCompile() {
		if err := ivLogErr(id, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog); err != nil {
			gl.DeleteShader(id)
			return 0, ferr.Wrap(ferr.Driver, "shader compile failed", err)
		}
	}
	return id, nil
}

// ivLogErr reads the compile/link status iv and, if it is GL_FALSE, joins
// the driver's info log with any pending glGetError.
func ivLogErr(id, pname uint32, getIV func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) error {
	log := ivLog(id, pname, getIV, getLog)
	if log == "" {
		return nil
	}
	if glErr := glError(); glErr != nil {
		return errors.Join(errors.New(log), glErr)
	}
	return errors.New(log)
}

func ivLog(id, pname uint32, getIV func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var status int32
	getIV(id, pname, &status)
	if status != gl.FALSE {
		return ""
	}
	var length int32
	getIV(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "unknown failure (no info log)"
	}
	log := make([]byte, length)
	getLog(id, length, &length, &log[0])
	return string(log[:len(log)-1])
}

// glError polls glGetError, the way soypat/glgl's Err() does, returning a
// joined error if more than one flag is pending.
func glError() error {
	var all error
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			return all
		}
		all = errors.Join(all, fmt.Errorf("GL error 0x%X", code))
	}
}

// introspectUniforms walks GL_ACTIVE_UNIFORMS, skipping nested arrays
// (names containing "[0][0]") and arrays of structs (names containing
// "[0].") and stripping the trailing
// "[0]" array-index suffix GL reports for array uniforms, per the
// program-introspection rule in the material layer's design.
func introspectUniforms(pid uint32) (map[string]Uniform, error) {
	var count int32
	gl.GetProgramiv(pid, gl.ACTIVE_UNIFORMS, &count)

	var maxNameLen int32
	gl.GetProgramiv(pid, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxNameLen)
	if maxNameLen == 0 {
		maxNameLen = 256
	}
	nameBuf := make([]byte, maxNameLen)

	out := make(map[string]Uniform, count)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(pid, i, maxNameLen, &length, &size, &xtype, &nameBuf[0])
		name := string(nameBuf[:length])

		if strings.Contains(name, "[0][0]") || strings.Contains(name, "[0].") {
			continue
		}
		name = strings.TrimSuffix(name, "[0]")

		loc := gl.GetUniformLocation(pid, gl.Str(name+"\x00"))
		if loc < 0 {
			continue
		}
		out[name] = Uniform{
			Name:     name,
			Location: loc,
			Type:     glProgramDataType(int32(xtype)),
			Count:    size,
		}
	}
	return out, nil
}

// Uniforms returns the introspected uniform table, keyed by GLSL name.
func (p Program) Uniforms() map[string]Uniform { return p.uniforms }

// Bind installs p as the current program.
func (p Program) Bind() { gl.UseProgram(p.id) }

func (p Program) destroy() { gl.DeleteProgram(p.id) }

// SetUniformBytes uploads value to the uniform named name, dispatching to
// the matching glUniform*v/glUniformMatrix*v entry point for its
// introspected DataType and array Count. Unknown names are silently
// ignored, since a shader recompiled without a `p_` property the material
// still carries is not a hard error. A value whose byte length does not
// equal size_of(element_type) * array_size is also silently skipped,
// rather than read out of bounds or partially uploaded (spec's uniform
// bag byte_size invariant). Sampler-typed uniforms resolve each array
// element's 4-byte texture handle to a bound unit via ctx.FindUnit and
// upload the resulting unit indices, one per element.
func (p Program) SetUniformBytes(ctx *Context, name string, value []byte) error {
	u, ok := p.uniforms[name]
	if !ok {
		return nil
	}
	count := int(u.Count)
	if count < 1 {
		count = 1
	}
	if len(value) != count*SizeOf(u.Type) {
		return nil
	}
	loc := u.Location

	if IsSampler(u.Type) {
		units := make([]int32, count)
		for i := 0; i < count; i++ {
			texH := handle.Handle(asUint32(value[i*4 : i*4+4]))
			unit, err := ctx.FindUnit(texH)
			if err != nil {
				return ferr.Wrap(ferr.Lifecycle, "sampler uniform "+name, err)
			}
			units[i] = int32(unit)
		}
		gl.Uniform1iv(loc, int32(count), &units[0])
		return nil
	}

	switch u.Type {
	case DataTypeR32S:
		gl.Uniform1iv(loc, int32(count), (*int32)(bytesPtr(value)))
	case DataTypeR32U:
		gl.Uniform1uiv(loc, int32(count), (*uint32)(bytesPtr(value)))
	case DataTypeR32F:
		gl.Uniform1fv(loc, int32(count), (*float32)(bytesPtr(value)))
	case DataTypeVec2F32:
		gl.Uniform2fv(loc, int32(count), (*float32)(bytesPtr(value)))
	case DataTypeVec3F32:
		gl.Uniform3fv(loc, int32(count), (*float32)(bytesPtr(value)))
	case DataTypeVec4F32:
		gl.Uniform4fv(loc, int32(count), (*float32)(bytesPtr(value)))
	case DataTypeMat2:
		gl.UniformMatrix2fv(loc, int32(count), false, (*float32)(bytesPtr(value)))
	case DataTypeMat3:
		gl.UniformMatrix3fv(loc, int32(count), false, (*float32)(bytesPtr(value)))
	case DataTypeMat4:
		gl.UniformMatrix4fv(loc, int32(count), false, (*float32)(bytesPtr(value)))
	default:
		return ferr.New(ferr.Validation, "unsupported uniform upload type")
	}
	return nil
}

func asUint32(b []byte) uint32   { return binary.LittleEndian.Uint32(b) }
func asFloat32(b []byte) float32 { return math.Float32frombits(asUint32(b)) }
func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
