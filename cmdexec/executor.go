//go:build !tinygo && cgo

package cmdexec

import (
	"log/slog"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/gpu"
	"github.com/pixelforge/forge/handle"
	"github.com/pixelforge/forge/intern"
	"github.com/pixelforge/forge/material"
)

// MaterialSource resolves a material handle to its live Material, as kept
// by whatever registry owns materials (outside this package's scope).
type MaterialSource interface {
	Material(h handle.Handle) (*material.Material, bool)
}

// Executor walks Command buffers against a gpu.Context, caching blend/depth
// state so repeated materials sharing a mode don't reissue driver calls.
type Executor struct {
	ctx       *gpu.Context
	materials MaterialSource
	interner  *intern.Table
	log       *slog.Logger

	blend gpu.BlendMode
	depth gpu.DepthMode
	set   bool // whether blend/depth have been set at least once
}

// NewExecutor builds an Executor bound to ctx and a material lookup.
// interner resolves the intern.ID keys of a Material's uniform bag back to
// GLSL names for upload.
func NewExecutor(ctx *gpu.Context, materials MaterialSource, interner *intern.Table, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	ferr.SetLogger(log)
	return &Executor{ctx: ctx, materials: materials, interner: interner, log: log}
}

// Execute runs cmds in order. Execution never aborts on a single bad
// command; failures are reported via ferr.Report and the command is
// skipped.
func (e *Executor) Execute(cmds []Command) {
	e.log.Debug("execute", "commands", len(cmds))
	for i := range cmds {
		e.one(&cmds[i])
	}
}

func (e *Executor) one(cmd *Command) {
	switch cmd.Type {
	case TypeCull:
		e.cull(cmd.Cull)
	case TypeTarget:
		e.target(cmd.Target)
	case TypeClear:
		e.clear(cmd.Clear)
	case TypeMaterial:
		e.material(cmd.Material)
	case TypeShader:
		e.shader(cmd.Shader)
	case TypeUniform:
		e.uniform(cmd.Uniform)
	case TypeBuffer:
		e.buffer(cmd.Buffer)
	case TypeDraw:
		e.draw(cmd.Draw)
	case TypeNone:
	default:
		ferr.Report(ferr.New(ferr.Validation, "unknown command type"))
	}
}

func (e *Executor) cull(c CullPayload) {
	if c.Mode == gpu.CullNone {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	face := uint32(gl.BACK)
	switch c.Mode {
	case gpu.CullFront:
		face = gl.FRONT
	case gpu.CullBoth:
		face = gl.FRONT_AND_BACK
	}
	gl.CullFace(face)
	winding := uint32(gl.CCW)
	if c.Order == gpu.WindingCW {
		winding = gl.CW
	}
	gl.FrontFace(winding)
}

func (e *Executor) target(c TargetPayload) {
	e.ctx.BindTarget(c.Handle)
	size := c.ScreenSize
	if t, ok := e.ctx.Target(c.Handle); ok {
		size = [2]uint32{uint32(t.Width()), uint32(t.Height())}
	}
	gl.Viewport(0, 0, int32(size[0]), int32(size[1]))
}

// reverseZFarDepth is the clear value for the depth attachment under the
// module's fixed reverse-Z convention (near=1, far=0).
const reverseZFarDepth = 0

func (e *Executor) clear(c ClearPayload) {
	if c.Mask == gpu.TextureNone {
		ferr.Report(ferr.New(ferr.Validation, "clear command has an empty mask"))
		return
	}
	e.applyBlendDepth(gpu.BlendNone, gpu.DepthOpaque)

	var bits uint32
	if c.Mask&gpu.TextureColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if c.Mask&gpu.TextureDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if c.Mask&gpu.TextureStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.ClearColor(c.Color.X, c.Color.Y, c.Color.Z, c.Color.W)
	gl.ClearDepthf(reverseZFarDepth)
	gl.ClearStencil(0)
	gl.Clear(bits)
}

func (e *Executor) material(c MaterialPayload) {
	m, ok := e.materials.Material(c.Handle)
	if !ok {
		ferr.Report(ferr.New(ferr.Lifecycle, "material command with unknown handle"))
		return
	}
	e.ctx.BindProgram(m.Program)
	e.applyBlendDepth(m.Blend, m.Depth)

	p, ok := e.ctx.Program(m.Program)
	if !ok {
		return
	}
	it := m.Bag().Iterate()
	for {
		id, value, more := it.Next()
		if !more {
			break
		}
		name := e.interner.GetString(id)
		if err := p.SetUniformBytes(e.ctx, name, value); err != nil {
			ferr.Report(err)
		}
	}
}

func (e *Executor) shader(c ShaderPayload) {
	e.ctx.BindProgram(c.Handle)
	e.applyBlendDepth(c.Blend, c.Depth)
}

func (e *Executor) applyBlendDepth(blend gpu.BlendMode, depth gpu.DepthMode) {
	if e.set && blend == e.blend && depth == e.depth {
		return
	}
	setBlendMode(blend)
	setDepthMode(depth)
	e.blend, e.depth, e.set = blend, depth, true
}

func setBlendMode(mode gpu.BlendMode) {
	if mode == gpu.BlendNone {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	switch mode {
	case gpu.BlendMix:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.BlendEquation(gl.FUNC_ADD)
	case gpu.BlendPMA:
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
		gl.BlendEquation(gl.FUNC_ADD)
	case gpu.BlendAdd:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.BlendEquation(gl.FUNC_ADD)
	case gpu.BlendSub:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.BlendEquation(gl.FUNC_REVERSE_SUBTRACT)
	case gpu.BlendMul:
		gl.BlendFunc(gl.DST_COLOR, gl.ZERO)
		gl.BlendEquation(gl.FUNC_ADD)
	case gpu.BlendScr:
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_COLOR)
		gl.BlendEquation(gl.FUNC_ADD)
	}
}

func setDepthMode(mode gpu.DepthMode) {
	switch mode {
	case gpu.DepthNone:
		gl.Disable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	case gpu.DepthTransparent:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	case gpu.DepthOpaque:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	}
}

func (e *Executor) uniform(c UniformPayload) {
	apply := func(h handle.Handle) {
		p, ok := e.ctx.Program(h)
		if !ok {
			return
		}
		for _, entry := range c.Entries {
			if err := p.SetUniformBytes(e.ctx, entry.Name, entry.Value); err != nil {
				ferr.Report(err)
			}
		}
	}
	if c.Program.IsNull() {
		for _, h := range e.ctx.LivePrograms() {
			apply(h)
		}
		return
	}
	apply(c.Program)
}

func (e *Executor) buffer(c BufferPayload) {
	b, ok := e.ctx.Buffer(c.Buffer)
	if !ok {
		return
	}
	gl.BindBufferRange(gl.SHADER_STORAGE_BUFFER, c.Index, b.ID(), c.Offset, c.Length)
}

// draw issues one instanced draw call per sub-buffer in the mesh, in
// order: an index sub-buffer draws with glDrawElementsInstanced using its
// own recorded index type, a vertex sub-buffer draws with
// glDrawArraysInstanced against the mesh's shared primitive mode.
func (e *Executor) draw(c DrawPayload) {
	e.ctx.BindMesh(c.Mesh)
	mesh, ok := e.ctx.Mesh(c.Mesh)
	if !ok {
		return
	}
	instances := c.Instances
	if instances == 0 {
		instances = 1
	}
	mode := glMeshMode(mesh.Mode())

	for _, mb := range mesh.Buffers() {
		if mb.Buffer.Capacity() == 0 {
			continue
		}
		count := int32(c.Count)
		if count == 0 {
			count = mb.DefaultCount()
		}
		if mb.IsIndex {
			indexType, err := mb.GLIndexType()
			if err != nil {
				ferr.Report(err)
				continue
			}
			byteOffset := int(c.Offset) * mb.IndexSize()
			gl.DrawElementsInstanced(mode, count, indexType, gl.PtrOffset(byteOffset), int32(instances))
			continue
		}
		gl.DrawArraysInstanced(mode, int32(c.Offset), count, int32(instances))
	}
}

func glMeshMode(mode gpu.MeshMode) uint32 {
	switch mode {
	case gpu.MeshPoints:
		return gl.POINTS
	case gpu.MeshLines:
		return gl.LINES
	case gpu.MeshLineStrip:
		return gl.LINE_STRIP
	case gpu.MeshLineLoop:
		return gl.LINE_LOOP
	case gpu.MeshTriangleStrip:
		return gl.TRIANGLE_STRIP
	case gpu.MeshTriangleFan:
		return gl.TRIANGLE_FAN
	default:
		return gl.TRIANGLES
	}
}
