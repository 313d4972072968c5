//go:build !tinygo && cgo

package gpu

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
)

// Target is a GL framebuffer object with zero or more color attachments
// (numbered in attachment order) and an optional depth/stencil attachment
// at its fixed point. Color attachments are sampleable textures; a depth or
// combined depth-stencil attachment created with TextureFlagOpaque becomes
// a renderbuffer instead, since it is never sampled directly.
type Target struct {
	id            uint32
	width, height int
	colors        []Texture
	depthStencil  *Texture
}

// CreateTarget builds a framebuffer attaching colors at sequential color
// attachment points and, if present, depthStencil at the fixed depth or
// depth-stencil attachment point.
func CreateTarget(width, height int, colors []Texture, depthStencil *Texture) (Target, error) {
	var id uint32
	gl.CreateFramebuffers(1, &id)
	if id == 0 {
		return Target{}, ferr.New(ferr.Driver, "glCreateFramebuffers returned 0")
	}

	for i, c := range colors {
		attach(id, gl.COLOR_ATTACHMENT0+uint32(i), c)
	}
	if depthStencil != nil {
		point := uint32(gl.DEPTH_ATTACHMENT)
		if depthStencil.textureType&TextureStencil != 0 {
			point = gl.DEPTH_STENCIL_ATTACHMENT
		}
		attach(id, point, *depthStencil)
	}

	if len(colors) > 0 {
		bufs := make([]uint32, len(colors))
		for i := range bufs {
			bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
		}
		gl.NamedFramebufferDrawBuffers(id, int32(len(bufs)), &bufs[0])
	} else {
		gl.NamedFramebufferDrawBuffer(id, gl.NONE)
	}

	if status := gl.CheckNamedFramebufferStatus(id, gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		return Target{}, ferr.New(ferr.Driver, "incomplete framebuffer")
	}

	return Target{id: id, width: width, height: height, colors: colors, depthStencil: depthStencil}, nil
}

func attach(fbo, point uint32, tex Texture) {
	if tex.sampleable {
		gl.NamedFramebufferTexture(fbo, point, tex.id, 0)
	} else {
		gl.NamedFramebufferRenderbuffer(fbo, point, gl.RENDERBUFFER, tex.id)
	}
}

// Backbuffer is the window system's default framebuffer (id 0).
func Backbuffer(width, height int) Target {
	return Target{id: 0, width: width, height: height}
}

func (t Target) Width() int  { return t.width }
func (t Target) Height() int { return t.height }

func (t Target) bind() { gl.BindFramebuffer(gl.FRAMEBUFFER, t.id) }

func (t Target) destroy() {
	if t.id != 0 {
		gl.DeleteFramebuffers(1, &t.id)
	}
}
