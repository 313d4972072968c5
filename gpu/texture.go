//go:build !tinygo && cgo

package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
)

// Texture is a 2D GL texture created with immutable storage
// (glTextureStorage2D). Its element type, size, and mip count are fixed for
// its lifetime; only its contents may change via Update.
type Texture struct {
	id            uint32
	width, height int
	dataType      DataType
	textureType   TextureType
	mipLevels     int32
	sampleable    bool // false for opaque renderbuffer attachments
}

// maxTextureSize mirrors glGetIntegerv(GL_MAX_TEXTURE_SIZE, ...), queried
// once and clamped against on every CreateTexture call.
var maxTextureSize int32 = 16384

// QueryLimits refreshes driver-reported maximums. Call once after a GL
// context is current; NewContext does this automatically.
func QueryLimits() {
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTextureSize)
}

// CreateTexture allocates storage for a width x height texture of the given
// element type. Sizes larger than the driver-reported maximum are clamped,
// and a ferr.Exhaustion is reported (not returned as a hard failure) so
// callers can keep going with a visibly-wrong but non-fatal texture.
func CreateTexture(textureType TextureType, dataType DataType, width, height int, mipLevels int32, settings TextureSettings, flags TextureFlag) (Texture, error) {
	if width <= 0 || height <= 0 {
		return Texture{}, ferr.New(ferr.Validation, "texture dimensions must be positive")
	}
	clampedW, clampedH := width, height
	if int32(clampedW) > maxTextureSize {
		clampedW = int(maxTextureSize)
		ferr.Report(ferr.New(ferr.Exhaustion, "texture width clamped to driver maximum"))
	}
	if int32(clampedH) > maxTextureSize {
		clampedH = int(maxTextureSize)
		ferr.Report(ferr.New(ferr.Exhaustion, "texture height clamped to driver maximum"))
	}
	if mipLevels < 1 {
		mipLevels = 1
	}

	if flags&TextureFlagOpaque != 0 {
		return createRenderbuffer(textureType, dataType, clampedW, clampedH)
	}

	var id uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &id)
	if id == 0 {
		return Texture{}, ferr.New(ferr.Driver, "glCreateTextures returned 0")
	}
	internalFormat, err := sizedInternalFormat(textureType, dataType)
	if err != nil {
		gl.DeleteTextures(1, &id)
		return Texture{}, ferr.Wrap(ferr.Validation, "texture format", err)
	}
	gl.TextureStorage2D(id, mipLevels, uint32(internalFormat), int32(clampedW), int32(clampedH))

	for ch := 0; ch < 4; ch++ {
		gl.TextureParameteri(id, swizzleParam(ch), glSwizzle(settings.Swizzle[ch], ch))
	}
	gl.TextureParameteri(id, gl.TEXTURE_MAX_LEVEL, int32(settings.MaxLOD))

	return Texture{
		id: id, width: clampedW, height: clampedH,
		dataType: dataType, textureType: textureType,
		mipLevels: mipLevels, sampleable: true,
	}, nil
}

// createRenderbuffer builds an opaque (non-sampleable) attachment target
// for a depth/stencil-only or MSAA-resolve-free color attachment.
func createRenderbuffer(textureType TextureType, dataType DataType, width, height int) (Texture, error) {
	var id uint32
	gl.CreateRenderbuffers(1, &id)
	if id == 0 {
		return Texture{}, ferr.New(ferr.Driver, "glCreateRenderbuffers returned 0")
	}
	internalFormat, err := sizedInternalFormat(textureType, dataType)
	if err != nil {
		gl.DeleteRenderbuffers(1, &id)
		return Texture{}, ferr.Wrap(ferr.Validation, "renderbuffer format", err)
	}
	gl.NamedRenderbufferStorage(id, uint32(internalFormat), int32(width), int32(height))
	return Texture{
		id: id, width: width, height: height,
		dataType: dataType, textureType: textureType,
		mipLevels: 1, sampleable: false,
	}, nil
}

func swizzleParam(channel int) uint32 {
	return [4]uint32{gl.TEXTURE_SWIZZLE_R, gl.TEXTURE_SWIZZLE_G, gl.TEXTURE_SWIZZLE_B, gl.TEXTURE_SWIZZLE_A}[channel]
}

// Update uploads pixel data into the rectangle [x,y,w,h) of mip level 0.
func (t Texture) Update(x, y, w, h int, pixels []byte) error {
	if !t.sampleable {
		return ferr.New(ferr.Validation, "cannot upload to an opaque renderbuffer texture")
	}
	if len(pixels) == 0 {
		return nil
	}
	format, xtype, err := uploadFormat(t.dataType)
	if err != nil {
		return ferr.Wrap(ferr.Validation, "texture upload format", err)
	}
	gl.TextureSubImage2D(t.id, 0, int32(x), int32(y), int32(w), int32(h), format, xtype, unsafe.Pointer(&pixels[0]))
	return nil
}

// GenerateMipmaps fills levels 1..MaxLOD from level 0's contents.
func (t Texture) GenerateMipmaps() {
	if t.sampleable && t.mipLevels > 1 {
		gl.GenerateTextureMipmap(t.id)
	}
}

// Bind attaches t to the given texture unit, honoring whether it is a
// renderbuffer (bound only as an attachment, never as a sampler).
func (t Texture) Bind(unit uint32, samp Sampler) {
	if !t.sampleable {
		return
	}
	gl.BindTextureUnit(unit, t.id)
	gl.BindSampler(unit, samp.id)
}

func (t Texture) Width() int  { return t.width }
func (t Texture) Height() int { return t.height }

func (t Texture) destroy() {
	if t.sampleable {
		gl.DeleteTextures(1, &t.id)
	} else {
		gl.DeleteRenderbuffers(1, &t.id)
	}
}

// Sampler is a standalone GL sampler object (filtering/wrap/border),
// decoupled from any particular Texture per DSA convention.
type Sampler struct {
	id uint32
}

// CreateSampler builds a sampler object from settings.
func CreateSampler(settings SamplerSettings) (Sampler, error) {
	var id uint32
	gl.CreateSamplers(1, &id)
	if id == 0 {
		return Sampler{}, ferr.New(ferr.Driver, "glCreateSamplers returned 0")
	}
	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, int32(glMinFilter(settings.Mipmap, settings.Minification)))
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, int32(glMagFilter(settings.Magnification)))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, glWrap(settings.WrapX))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, glWrap(settings.WrapY))
	gl.SamplerParameterfv(id, gl.TEXTURE_BORDER_COLOR, &settings.BorderColor[0])
	return Sampler{id: id}, nil
}

func (s Sampler) destroy() { gl.DeleteSamplers(1, &s.id) }
