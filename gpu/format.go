//go:build !tinygo && cgo

package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// glVertexType returns the scalar GL type enum (GL_UNSIGNED_BYTE, GL_FLOAT, ...)
// backing a vertex or index buffer element of the given DataType.
func glVertexType(t DataType) (uint32, error) {
	switch t {
	case DataTypeR8U:
		return gl.UNSIGNED_BYTE, nil
	case DataTypeR8S:
		return gl.BYTE, nil
	case DataTypeR16U:
		return gl.UNSIGNED_SHORT, nil
	case DataTypeR16S:
		return gl.SHORT, nil
	case DataTypeR32U:
		return gl.UNSIGNED_INT, nil
	case DataTypeR32S:
		return gl.INT, nil
	case DataTypeR16F:
		return gl.HALF_FLOAT, nil
	case DataTypeR32F:
		return gl.FLOAT, nil
	case DataTypeR64F:
		return gl.DOUBLE, nil
	}
	return gl.NONE, fmt.Errorf("unknown vertex value type %v", t)
}

// glIndexType returns the GL index element type. Only unsigned integer
// types are valid index formats.
func glIndexType(t DataType) (uint32, error) {
	switch t {
	case DataTypeR8U:
		return gl.UNSIGNED_BYTE, nil
	case DataTypeR16U:
		return gl.UNSIGNED_SHORT, nil
	case DataTypeR32U:
		return gl.UNSIGNED_INT, nil
	}
	return gl.NONE, fmt.Errorf("unknown index value type %v", t)
}

// glProgramDataType maps a GL active-uniform type enum back to our DataType.
func glProgramDataType(value int32) DataType {
	switch uint32(value) {
	case gl.UNSIGNED_INT_SAMPLER_2D:
		return DataTypeUnitU
	case gl.INT_SAMPLER_2D:
		return DataTypeUnitS
	case gl.SAMPLER_2D:
		return DataTypeUnitF

	case gl.UNSIGNED_BYTE:
		return DataTypeR8U
	case gl.BYTE:
		return DataTypeR8S

	case gl.UNSIGNED_SHORT:
		return DataTypeR16U
	case gl.SHORT:
		return DataTypeR16S

	case gl.UNSIGNED_INT:
		return DataTypeR32U
	case gl.UNSIGNED_INT_VEC2:
		return DataTypeVec2U32
	case gl.UNSIGNED_INT_VEC3:
		return DataTypeVec3U32
	case gl.UNSIGNED_INT_VEC4:
		return DataTypeVec4U32

	case gl.INT:
		return DataTypeR32S
	case gl.INT_VEC2:
		return DataTypeVec2S32
	case gl.INT_VEC3:
		return DataTypeVec3S32
	case gl.INT_VEC4:
		return DataTypeVec4S32

	case gl.FLOAT:
		return DataTypeR32F
	case gl.FLOAT_VEC2:
		return DataTypeVec2F32
	case gl.FLOAT_VEC3:
		return DataTypeVec3F32
	case gl.FLOAT_VEC4:
		return DataTypeVec4F32

	case gl.DOUBLE:
		return DataTypeR64F

	case gl.FLOAT_MAT2:
		return DataTypeMat2
	case gl.FLOAT_MAT3:
		return DataTypeMat3
	case gl.FLOAT_MAT4:
		return DataTypeMat4
	}
	return DataTypeNone
}

// glMinFilter combines mipmap and minification filtering into the single GL
// min-filter enum, per the standard 3x3 combination table.
func glMinFilter(mipmap, texture FilterMode) uint32 {
	switch mipmap {
	case FilterNone:
		if texture == FilterLinear {
			return gl.LINEAR
		}
		return gl.NEAREST
	case FilterPoint:
		if texture == FilterLinear {
			return gl.LINEAR_MIPMAP_NEAREST
		}
		return gl.NEAREST_MIPMAP_NEAREST
	case FilterLinear:
		if texture == FilterLinear {
			return gl.LINEAR_MIPMAP_LINEAR
		}
		return gl.NEAREST_MIPMAP_LINEAR
	}
	return gl.NEAREST
}

// glMagFilter returns the GL magnification filter enum.
func glMagFilter(value FilterMode) uint32 {
	if value == FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// glWrap returns the GL wrap-mode enum.
func glWrap(value WrapMode) int32 {
	switch value {
	case WrapRepeat:
		return gl.REPEAT
	case WrapBorder:
		return gl.CLAMP_TO_BORDER
	case WrapMirrorRepeat:
		return gl.MIRRORED_REPEAT
	case WrapMirrorEdge:
		return gl.MIRROR_CLAMP_TO_EDGE
	default: // WrapNone, WrapEdge
		return gl.CLAMP_TO_EDGE
	}
}

// glSwizzle returns the GL swizzle-mask enum for one channel.
func glSwizzle(op SwizzleOp, channel int) int32 {
	switch op {
	case SwizzleZero:
		return gl.ZERO
	case SwizzleOne:
		return gl.ONE
	case SwizzleR:
		return gl.RED
	case SwizzleG:
		return gl.GREEN
	case SwizzleB:
		return gl.BLUE
	case SwizzleA:
		return gl.ALPHA
	default:
		// identity: channel 0 -> RED .. channel 3 -> ALPHA
		return gl.RED + int32(channel)
	}
}

// channelsOf returns how many color channels t carries (1-4), used to pick
// the base/sized internal format and the upload format.
func channelsOf(t DataType) int {
	switch {
	case t == DataTypeR8U || t == DataTypeR8S || t == DataTypeR8Unorm || t == DataTypeR8Snorm ||
		t == DataTypeR16U || t == DataTypeR16S || t == DataTypeR16Unorm || t == DataTypeR16Snorm ||
		t == DataTypeR16F || t == DataTypeR32U || t == DataTypeR32S || t == DataTypeR32F || t == DataTypeR64F:
		return 1
	case t == DataTypeVec2U || t == DataTypeVec2S || t == DataTypeVec2Unorm || t == DataTypeVec2Snorm ||
		t == DataTypeVec2F16 || t == DataTypeVec2U32 || t == DataTypeVec2S32 || t == DataTypeVec2F32 || t == DataTypeVec2F64:
		return 2
	case t == DataTypeVec3U || t == DataTypeVec3S || t == DataTypeVec3Unorm || t == DataTypeVec3Snorm ||
		t == DataTypeVec3F16 || t == DataTypeVec3U32 || t == DataTypeVec3S32 || t == DataTypeVec3F32 || t == DataTypeVec3F64:
		return 3
	case t == DataTypeVec4U || t == DataTypeVec4S || t == DataTypeVec4Unorm || t == DataTypeVec4Snorm ||
		t == DataTypeVec4F16 || t == DataTypeVec4U32 || t == DataTypeVec4S32 || t == DataTypeVec4F32 || t == DataTypeVec4F64:
		return 4
	}
	return 0
}

// baseColorFormats maps (channels) to the GL_RED/RG/RGB/RGBA base upload
// format used by glTextureSubImage2D's `format` argument.
var baseColorFormats = [5]uint32{0, gl.RED, gl.RG, gl.RGB, gl.RGBA}

// sizedInternalFormat resolves the sized internal format for a color
// texture of the given element type, used by glTextureStorage2D.
func sizedInternalFormat(textureType TextureType, dataType DataType) (int32, error) {
	if textureType == TextureDepth {
		switch dataType {
		case DataTypeR16Unorm:
			return gl.DEPTH_COMPONENT16, nil
		case DataTypeR32F:
			return gl.DEPTH_COMPONENT32F, nil
		default:
			return gl.DEPTH_COMPONENT24, nil
		}
	}
	if textureType == TextureStencil {
		return gl.STENCIL_INDEX8, nil
	}
	if textureType&TextureDStencil == TextureDStencil {
		return gl.DEPTH24_STENCIL8, nil
	}

	channels := channelsOf(dataType)
	if channels == 0 {
		return 0, fmt.Errorf("unsupported color data type %v", dataType)
	}
	// one representative sized format family per channel count; 8-bit
	// unorm is overwhelmingly the common case for 2D batching and UI, the
	// rest fall back to the matching float/int family.
	switch {
	case dataType == DataTypeR8Unorm || dataType == DataTypeVec2Unorm || dataType == DataTypeVec3Unorm || dataType == DataTypeVec4Unorm:
		return [5]int32{0, gl.R8, gl.RG8, gl.RGB8, gl.RGBA8}[channels], nil
	case dataType == DataTypeR8U || dataType == DataTypeVec2U || dataType == DataTypeVec3U || dataType == DataTypeVec4U:
		return [5]int32{0, gl.R8UI, gl.RG8UI, gl.RGB8UI, gl.RGBA8UI}[channels], nil
	case dataType == DataTypeR8S || dataType == DataTypeVec2S || dataType == DataTypeVec3S || dataType == DataTypeVec4S:
		return [5]int32{0, gl.R8I, gl.RG8I, gl.RGB8I, gl.RGBA8I}[channels], nil
	case dataType == DataTypeR16F || dataType == DataTypeVec2F16 || dataType == DataTypeVec3F16 || dataType == DataTypeVec4F16:
		return [5]int32{0, gl.R16F, gl.RG16F, gl.RGB16F, gl.RGBA16F}[channels], nil
	case dataType == DataTypeR32F || dataType == DataTypeVec2F32 || dataType == DataTypeVec3F32 || dataType == DataTypeVec4F32:
		return [5]int32{0, gl.R32F, gl.RG32F, gl.RGB32F, gl.RGBA32F}[channels], nil
	case dataType == DataTypeR32U || dataType == DataTypeVec2U32 || dataType == DataTypeVec3U32 || dataType == DataTypeVec4U32:
		return [5]int32{0, gl.R32UI, gl.RG32UI, gl.RGB32UI, gl.RGBA32UI}[channels], nil
	case dataType == DataTypeR32S || dataType == DataTypeVec2S32 || dataType == DataTypeVec3S32 || dataType == DataTypeVec4S32:
		return [5]int32{0, gl.R32I, gl.RG32I, gl.RGB32I, gl.RGBA32I}[channels], nil
	}
	return [5]int32{0, gl.R8, gl.RG8, gl.RGB8, gl.RGBA8}[channels], nil
}

// uploadFormat resolves the base GL format + scalar type pair used by
// glTextureSubImage2D for the given element type.
func uploadFormat(dataType DataType) (format uint32, xtype uint32, err error) {
	channels := channelsOf(dataType)
	if channels == 0 {
		return 0, 0, fmt.Errorf("unsupported upload data type %v", dataType)
	}
	format = baseColorFormats[channels]
	xtype, err = glVertexType(scalarOf(dataType))
	return format, xtype, err
}

// scalarOf returns the 1-channel DataType with the same underlying scalar
// kind as t, so existing vertex-type lookups can be reused for textures.
func scalarOf(t DataType) DataType {
	switch t {
	case DataTypeR8U, DataTypeVec2U, DataTypeVec3U, DataTypeVec4U:
		return DataTypeR8U
	case DataTypeR8S, DataTypeVec2S, DataTypeVec3S, DataTypeVec4S:
		return DataTypeR8S
	case DataTypeR8Unorm, DataTypeVec2Unorm, DataTypeVec3Unorm, DataTypeVec4Unorm:
		return DataTypeR8U
	case DataTypeR8Snorm, DataTypeVec2Snorm, DataTypeVec3Snorm, DataTypeVec4Snorm:
		return DataTypeR8S
	case DataTypeR16F, DataTypeVec2F16, DataTypeVec3F16, DataTypeVec4F16:
		return DataTypeR16F
	case DataTypeR32F, DataTypeVec2F32, DataTypeVec3F32, DataTypeVec4F32:
		return DataTypeR32F
	case DataTypeR32U, DataTypeVec2U32, DataTypeVec3U32, DataTypeVec4U32:
		return DataTypeR32U
	case DataTypeR32S, DataTypeVec2S32, DataTypeVec3S32, DataTypeVec4S32:
		return DataTypeR32S
	}
	return t
}
