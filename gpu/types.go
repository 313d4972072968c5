// Package gpu wraps an OpenGL 4.5+ driver behind opaque, generation-checked
// handles. Every object kind (program, texture, sampler, target, buffer,
// mesh) lives in its own handle.Set owned by a Context; objects are freed
// through a retire.Queue so that a handle invalidated mid-frame stays safe
// for any command already queued against it. All driver calls go through
// direct-state-access entry points (glCreate*/glNamed*), following
// soypat/glgl's v4.6-core/glgl package.
package gpu

// DataType is the stable, wire-identified scalar/vector/matrix/sampler
// element type used across the asset, material, and mesh layers.
type DataType int

const (
	DataTypeNone DataType = iota

	// samplers (texture-unit uniforms)
	DataTypeUnitU
	DataTypeUnitS
	DataTypeUnitF

	DataTypeR8U
	DataTypeR8S
	DataTypeR8Unorm
	DataTypeR8Snorm
	DataTypeR16U
	DataTypeR16S
	DataTypeR16Unorm
	DataTypeR16Snorm
	DataTypeR16F
	DataTypeR32U
	DataTypeR32S
	DataTypeR32F
	DataTypeR64F

	DataTypeVec2U
	DataTypeVec2S
	DataTypeVec2Unorm
	DataTypeVec2Snorm
	DataTypeVec2F16
	DataTypeVec2U32
	DataTypeVec2S32
	DataTypeVec2F32
	DataTypeVec2F64

	DataTypeVec3U
	DataTypeVec3S
	DataTypeVec3Unorm
	DataTypeVec3Snorm
	DataTypeVec3F16
	DataTypeVec3U32
	DataTypeVec3S32
	DataTypeVec3F32
	DataTypeVec3F64

	DataTypeVec4U
	DataTypeVec4S
	DataTypeVec4Unorm
	DataTypeVec4Snorm
	DataTypeVec4F16
	DataTypeVec4U32
	DataTypeVec4S32
	DataTypeVec4F32
	DataTypeVec4F64

	DataTypeMat2
	DataTypeMat3
	DataTypeMat4
)

// elementSizes gives the byte size of a single element (not counting array
// repeats) for every scalar/vector/matrix DataType. Samplers occupy one int
// (a texture unit index) once uploaded.
var elementSizes = map[DataType]int{
	DataTypeUnitU: 4, DataTypeUnitS: 4, DataTypeUnitF: 4,

	DataTypeR8U: 1, DataTypeR8S: 1, DataTypeR8Unorm: 1, DataTypeR8Snorm: 1,
	DataTypeR16U: 2, DataTypeR16S: 2, DataTypeR16Unorm: 2, DataTypeR16Snorm: 2, DataTypeR16F: 2,
	DataTypeR32U: 4, DataTypeR32S: 4, DataTypeR32F: 4,
	DataTypeR64F: 8,

	DataTypeVec2U: 2, DataTypeVec2S: 2, DataTypeVec2Unorm: 2, DataTypeVec2Snorm: 2,
	DataTypeVec2F16: 4, DataTypeVec2U32: 8, DataTypeVec2S32: 8, DataTypeVec2F32: 8, DataTypeVec2F64: 16,

	DataTypeVec3U: 3, DataTypeVec3S: 3, DataTypeVec3Unorm: 3, DataTypeVec3Snorm: 3,
	DataTypeVec3F16: 6, DataTypeVec3U32: 12, DataTypeVec3S32: 12, DataTypeVec3F32: 12, DataTypeVec3F64: 24,

	DataTypeVec4U: 4, DataTypeVec4S: 4, DataTypeVec4Unorm: 4, DataTypeVec4Snorm: 4,
	DataTypeVec4F16: 8, DataTypeVec4U32: 16, DataTypeVec4S32: 16, DataTypeVec4F32: 16, DataTypeVec4F64: 32,

	DataTypeMat2: 16, DataTypeMat3: 36, DataTypeMat4: 64,
}

// SizeOf returns the byte size of one element of t, or 0 for an unknown type.
func SizeOf(t DataType) int { return elementSizes[t] }

// IsSampler reports whether t is one of the texture-unit variants.
func IsSampler(t DataType) bool {
	return t == DataTypeUnitU || t == DataTypeUnitS || t == DataTypeUnitF
}

// AttributeType is the stable wire value for a vertex attribute's semantic
// role; CreateMesh uses it as the attribute location. This package does not
// generate a shader header, so no ATTRIBUTE_TYPE_* defines are injected
// into shader source.
type AttributeType int

const (
	AttributeNone     AttributeType = 0
	AttributePosition AttributeType = 1
	AttributeTexcoord AttributeType = 2
	AttributeNormal   AttributeType = 3
	AttributeColor    AttributeType = 4
)

// TextureType is a bitmask of attachment/usage kinds.
type TextureType int

const (
	TextureNone    TextureType = 0
	TextureColor   TextureType = 1 << 0
	TextureDepth   TextureType = 1 << 1
	TextureStencil TextureType = 1 << 2
	TextureDStencil = TextureDepth | TextureStencil
)

// TextureFlag marks extra texture creation behavior.
type TextureFlag int

const (
	TextureFlagNone   TextureFlag = 0
	TextureFlagOpaque TextureFlag = 1 << 0 // renderbuffer, not sampleable
)

// FilterMode selects minification/magnification/mipmap filtering.
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterPoint
	FilterLinear
)

// WrapMode selects texture coordinate wrapping behavior.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapEdge
	WrapRepeat
	WrapBorder
	WrapMirrorEdge
	WrapMirrorRepeat
)

// SwizzleOp remaps a texture channel on sample.
type SwizzleOp int

const (
	SwizzleNone SwizzleOp = iota
	SwizzleZero
	SwizzleOne
	SwizzleR
	SwizzleG
	SwizzleB
	SwizzleA
)

// MeshMode selects the primitive topology for a draw call.
type MeshMode int

const (
	MeshNone MeshMode = iota
	MeshPoints
	MeshLines
	MeshLineStrip
	MeshLineLoop
	MeshTriangles
	MeshTriangleStrip
	MeshTriangleFan
)

// BlendMode is one of the seven fixed blend equations spec §6 names.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendMix
	BlendPMA
	BlendAdd
	BlendSub
	BlendMul
	BlendScr
)

// DepthMode controls depth testing and writing.
type DepthMode int

const (
	DepthNone        DepthMode = iota // no test, no write
	DepthTransparent                  // test, skip write
	DepthOpaque                       // test and write
)

// CullMode selects which winding-order faces are culled.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
	CullBoth
)

// WindingOrder selects which winding is considered front-facing.
type WindingOrder int

const (
	WindingCCW WindingOrder = iota
	WindingCW
)

// TextureSettings are immutable-after-creation texture parameters.
type TextureSettings struct {
	MaxLOD  uint32
	Swizzle [4]SwizzleOp
}

// SamplerSettings configure filtering/wrap/border for a texture.
type SamplerSettings struct {
	Mipmap, Minification, Magnification FilterMode
	WrapX, WrapY                        WrapMode
	BorderColor                         [4]float32
}
