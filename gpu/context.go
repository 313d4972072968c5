//go:build !tinygo && cgo

package gpu

import (
	"log/slog"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/handle"
	"github.com/pixelforge/forge/retire"
)

// textureUnitCount is the number of texture units the driver-state cache
// tracks; Context clamps material/uniform texture bindings to this range
// and reuses an already-bound unit when the same texture is requested
// again in the same frame (find_unit).
const textureUnitCount = 16

// Context owns every GL object kind behind a handle.Set, a retire.Queue for
// deferred destruction, and a small driver-state cache (bound program,
// target, mesh, and the fixed texture-unit table) so the command executor
// never reissues a bind the driver already has current.
type Context struct {
	log *slog.Logger

	programs *handle.Set[Program]
	textures *handle.Set[Texture]
	samplers *handle.Set[Sampler]
	targets  *handle.Set[Target]
	buffers  *handle.Set[Buffer]
	meshes   *handle.Set[Mesh]

	retire retire.Queue

	boundProgram   handle.Handle
	boundTarget    handle.Handle
	boundMesh      handle.Handle
	textureUnits   [textureUnitCount]handle.Handle
	nextUnit       int
	defaultSampler handle.Handle
}

// SetDefaultSampler installs the Sampler FindUnit binds alongside a texture
// when uploading a sampler-typed uniform. The original driver's find_unit
// takes a texture handle only (a texture there carries its own baked-in
// sampler settings); this layer keeps Sampler as its own DSA object, so one
// default sampler plays that role for every bag-driven texture upload.
func (c *Context) SetDefaultSampler(h handle.Handle) { c.defaultSampler = h }

// NewContext creates a Context against the current GL context. The caller
// must have already made a GL context current on this OS thread.
func NewContext(log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	ferr.SetLogger(log)
	QueryLimits()
	return &Context{
		log:      log,
		programs: handle.NewSet[Program](),
		textures: handle.NewSet[Texture](),
		samplers: handle.NewSet[Sampler](),
		targets:  handle.NewSet[Target](),
		buffers:  handle.NewSet[Buffer](),
		meshes:   handle.NewSet[Mesh](),
	}
}

// ClipControl initializes the reverse-Z clip-space convention (near=1,
// far=0, no conditional swap) that the command executor's depth clear
// assumes. No depth or NDC defines are injected into shader source.
func (c *Context) ClipControl() {
	gl.ClipControl(gl.LOWER_LEFT, gl.ZERO_TO_ONE)
	gl.DepthFunc(gl.GEQUAL)
	gl.ClearDepth(0)
}

// --- Program ---

func (c *Context) CreateProgram(ss ShaderSource) (handle.Handle, error) {
	p, err := CompileProgram(ss)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.programs.Acquire(p), nil
}

func (c *Context) Program(h handle.Handle) (Program, bool) {
	p := c.programs.Get(h)
	if p == nil {
		return Program{}, false
	}
	return *p, true
}

func (c *Context) DestroyProgram(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if p := c.programs.Get(h); p != nil {
			p.destroy()
		}
		c.programs.Discard(h)
		if c.boundProgram == h {
			c.boundProgram = 0
		}
	})
}

// --- Texture ---

func (c *Context) CreateTexture(textureType TextureType, dataType DataType, width, height int, mipLevels int32, settings TextureSettings, flags TextureFlag) (handle.Handle, error) {
	t, err := CreateTexture(textureType, dataType, width, height, mipLevels, settings, flags)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.textures.Acquire(t), nil
}

func (c *Context) Texture(h handle.Handle) (Texture, bool) {
	t := c.textures.Get(h)
	if t == nil {
		return Texture{}, false
	}
	return *t, true
}

func (c *Context) DestroyTexture(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if t := c.textures.Get(h); t != nil {
			t.destroy()
		}
		c.textures.Discard(h)
		for i, bound := range c.textureUnits {
			if bound == h {
				c.textureUnits[i] = 0
			}
		}
	})
}

// --- Sampler ---

func (c *Context) CreateSampler(settings SamplerSettings) (handle.Handle, error) {
	s, err := CreateSampler(settings)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.samplers.Acquire(s), nil
}

func (c *Context) Sampler(h handle.Handle) (Sampler, bool) {
	s := c.samplers.Get(h)
	if s == nil {
		return Sampler{}, false
	}
	return *s, true
}

func (c *Context) DestroySampler(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if s := c.samplers.Get(h); s != nil {
			s.destroy()
		}
		c.samplers.Discard(h)
	})
}

// --- Target ---

func (c *Context) CreateTarget(width, height int, colors []Texture, depthStencil *Texture) (handle.Handle, error) {
	t, err := CreateTarget(width, height, colors, depthStencil)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.targets.Acquire(t), nil
}

func (c *Context) Target(h handle.Handle) (Target, bool) {
	t := c.targets.Get(h)
	if t == nil {
		return Target{}, false
	}
	return *t, true
}

func (c *Context) DestroyTarget(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if t := c.targets.Get(h); t != nil {
			t.destroy()
		}
		c.targets.Discard(h)
		if c.boundTarget == h {
			c.boundTarget = 0
		}
	})
}

// --- Buffer ---

func (c *Context) CreateBuffer(capacity int, initial []byte) (handle.Handle, error) {
	b, err := CreateBuffer(capacity, initial)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.buffers.Acquire(b), nil
}

func (c *Context) Buffer(h handle.Handle) (Buffer, bool) {
	b := c.buffers.Get(h)
	if b == nil {
		return Buffer{}, false
	}
	return *b, true
}

// UpdateBuffer writes data at byteOffset, recreating the underlying GL
// buffer object (same handle, new generation-stable storage) when data
// would overflow the current capacity, since GL buffer storage is fixed
// size once allocated.
func (c *Context) UpdateBuffer(h handle.Handle, byteOffset int, data []byte) error {
	b := c.buffers.Get(h)
	if b == nil {
		return ferr.Report(ferr.New(ferr.Lifecycle, "update on unknown buffer handle"))
	}
	if byteOffset+len(data) <= b.capacity {
		return ferr.Report(b.Update(byteOffset, data))
	}
	grown, err := CreateBuffer(byteOffset+len(data), nil)
	if err != nil {
		return ferr.Report(err)
	}
	b.destroy()
	*b = grown
	return ferr.Report(b.Update(byteOffset, data))
}

func (c *Context) DestroyBuffer(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if b := c.buffers.Get(h); b != nil {
			b.destroy()
		}
		c.buffers.Discard(h)
	})
}

// --- Mesh ---

func (c *Context) CreateMesh(mode MeshMode, buffers []MeshBuffer) (handle.Handle, error) {
	m, err := CreateMesh(mode, buffers)
	if err != nil {
		return 0, ferr.Report(err)
	}
	return c.meshes.Acquire(m), nil
}

func (c *Context) Mesh(h handle.Handle) (Mesh, bool) {
	m := c.meshes.Get(h)
	if m == nil {
		return Mesh{}, false
	}
	return *m, true
}

func (c *Context) DestroyMesh(h handle.Handle, framesDelay int) {
	c.retire.Push(h, framesDelay, func(h handle.Handle) {
		if m := c.meshes.Get(h); m != nil {
			m.destroy()
		}
		c.meshes.Discard(h)
		if c.boundMesh == h {
			c.boundMesh = 0
		}
	})
}

// --- state cache ---

// BindProgram installs program if it is not already current.
func (c *Context) BindProgram(h handle.Handle) {
	if c.boundProgram == h {
		return
	}
	if p := c.programs.Get(h); p != nil {
		p.Bind()
		c.boundProgram = h
		c.log.Debug("bind", "kind", "program", "handle", h)
	}
}

// BindTarget installs target if it is not already current.
func (c *Context) BindTarget(h handle.Handle) {
	if c.boundTarget == h {
		return
	}
	if t := c.targets.Get(h); t != nil {
		t.bind()
		c.boundTarget = h
		c.log.Debug("bind", "kind", "target", "handle", h)
	}
}

// BindMesh installs mesh if it is not already current.
func (c *Context) BindMesh(h handle.Handle) {
	if c.boundMesh == h {
		return
	}
	if m := c.meshes.Get(h); m != nil {
		m.bind()
		c.boundMesh = h
		c.log.Debug("bind", "kind", "mesh", "handle", h)
	}
}

// FindUnit returns a texture unit already bound to texture h, or binds it
// to the least-recently-assigned unit (round-robin over textureUnitCount)
// when not already resident, mirroring the original driver's find_unit.
func (c *Context) FindUnit(texH handle.Handle) (uint32, error) {
	for i, bound := range c.textureUnits {
		if bound == texH {
			return uint32(i), nil
		}
	}
	t := c.textures.Get(texH)
	if t == nil {
		return 0, ferr.Report(ferr.New(ferr.Lifecycle, "bind on unknown texture handle"))
	}
	s := c.samplers.Get(c.defaultSampler)
	if s == nil {
		return 0, ferr.Report(ferr.New(ferr.Lifecycle, "find_unit: no default sampler installed"))
	}
	unit := c.nextUnit
	c.nextUnit = (c.nextUnit + 1) % textureUnitCount
	t.Bind(uint32(unit), *s)
	c.textureUnits[unit] = texH
	return uint32(unit), nil
}

// LivePrograms returns every currently live program handle, in unspecified
// order, for a global (null-handle) uniform push.
func (c *Context) LivePrograms() []handle.Handle { return c.programs.All() }

// Tick advances the retire queue by one frame, freeing objects whose delay
// has elapsed.
func (c *Context) Tick() { c.retire.Tick() }

// Shutdown drains the retire queue immediately, freeing every pending
// object regardless of delay.
func (c *Context) Shutdown() { c.retire.Drain() }
