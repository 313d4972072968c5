//go:build !tinygo && cgo

package material

import (
	"strings"

	"github.com/pixelforge/forge/gpu"
	"github.com/pixelforge/forge/handle"
	"github.com/pixelforge/forge/intern"
)

// propertyPrefix marks a shader uniform as material-owned data rather than
// an engine-supplied one (view/projection matrices, time, and the like).
const propertyPrefix = "p_"

// Material pairs a compiled program with its blend/depth state and a Bag
// auto-populated from the program's `p_`-prefixed uniforms.
type Material struct {
	Program handle.Handle
	Blend   gpu.BlendMode
	Depth   gpu.DepthMode

	bag *Bag
}

// New returns an empty Material with no program bound yet.
func New() *Material {
	return &Material{bag: NewBag()}
}

// SetShader rebuilds the material's uniform bag from program's introspected
// uniforms, keeping only `p_`-prefixed entries and zero-initializing their
// storage. Any previously set uniform values are discarded, matching the
// original's full gfx_uniforms_clear + rebuild on every SetShader call.
func (m *Material) SetShader(programHandle handle.Handle, program gpu.Program, interner *intern.Table) {
	m.Program = programHandle
	m.bag.Clear()

	for name, uniform := range program.Uniforms() {
		if !strings.HasPrefix(name, propertyPrefix) {
			continue
		}
		size := int(uniform.Count) * gpu.SizeOf(uniform.Type)
		id := interner.AddString(name)
		m.bag.PushID(id, make([]byte, size))
	}
}

// SetUniform overwrites a previously-populated property's bytes. The value
// size must exactly match the property's declared size.
func (m *Material) SetUniform(interner *intern.Table, name string, value []byte) error {
	id := interner.FindString(name)
	return m.bag.SetID(id, value)
}

// Bag exposes the material's uniform payload for the command executor to
// walk when emitting glUniform* calls.
func (m *Material) Bag() *Bag { return m.bag }
