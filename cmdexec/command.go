// Package cmdexec executes command buffers: ordered lists of typed GPU
// commands recorded by the batcher or application code and walked once per
// frame against a gpu.Context. Grounded on
// framework/graphics/command.h (the tagged-union command type) and
// framework/graphics/opengl/graphics.c's gpu_execute (the per-type
// dispatch and driver-state-cache discipline) from the original C
// implementation this module was distilled from.
package cmdexec

import (
	"github.com/pixelforge/forge/glm"
	"github.com/pixelforge/forge/gpu"
	"github.com/pixelforge/forge/handle"
)

// Type tags which payload field of a Command is populated.
type Type int

const (
	TypeNone Type = iota
	TypeCull
	TypeTarget
	TypeClear
	TypeMaterial
	TypeShader
	TypeUniform
	TypeBuffer
	TypeDraw
)

// Command is a tagged struct standing in for the original's C tagged
// union: exactly one of the payload fields is meaningful, selected by Type.
type Command struct {
	Type Type

	Cull     CullPayload
	Target   TargetPayload
	Clear    ClearPayload
	Material MaterialPayload
	Shader   ShaderPayload
	Uniform  UniformPayload
	Buffer   BufferPayload
	Draw     DrawPayload
}

// CullPayload selects face culling and winding order.
type CullPayload struct {
	Mode  gpu.CullMode
	Order gpu.WindingOrder
}

// TargetPayload selects the render target; a null Handle selects the
// backbuffer, using ScreenSize as its viewport dimensions.
type TargetPayload struct {
	ScreenSize [2]uint32
	Handle     handle.Handle
}

// ClearPayload clears the attachments named by Mask to Color (color
// attachments) using the driver's reverse-Z far clear depth for any depth
// attachment.
type ClearPayload struct {
	Mask  gpu.TextureType
	Color glm.Vec4
}

// MaterialPayload selects a Material by handle, installing its program,
// blend mode, depth mode, and uniform bag in one step.
type MaterialPayload struct {
	Handle handle.Handle
}

// ShaderPayload installs a program and blend/depth state directly, without
// going through a Material (e.g. a batcher-internal shader swap).
type ShaderPayload struct {
	Handle handle.Handle
	Blend  gpu.BlendMode
	Depth  gpu.DepthMode
}

// UniformEntry is one resolved (name, bytes) pair ready to upload. Callers
// resolve intern.ID names to strings before building the command so the
// executor never needs its own reference to the string table.
type UniformEntry struct {
	Name  string
	Value []byte
}

// UniformPayload uploads Entries to one program, or to every currently
// live program when Program is the null handle (a global uniform push,
// e.g. the per-frame view/projection matrices).
type UniformPayload struct {
	Program handle.Handle
	Entries []UniformEntry
}

// BufferPayload binds a shader storage buffer range to an indexed binding
// point, ahead of a compute or draw command that reads it.
type BufferPayload struct {
	Buffer        handle.Handle
	Index         uint32
	Offset, Length int
}

// DrawPayload issues one (instanced) draw call against mesh, either over
// its full index/vertex range (Count == 0) or over [Offset, Offset+Count).
type DrawPayload struct {
	Mesh      handle.Handle
	Offset    uint32
	Count     uint32
	Instances uint32
}
