package cmdexec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelforge/forge/handle"
)

func TestZeroCommandIsNone(t *testing.T) {
	var c Command
	require.Equal(t, TypeNone, c.Type)
}

// A null Program handle in a UniformPayload selects every live program (a
// global uniform push, e.g. the per-frame view/projection matrices); a
// non-null handle targets one program.
func TestUniformPayloadProgramSelectsBroadcastOrTarget(t *testing.T) {
	broadcast := UniformPayload{Entries: []UniformEntry{{Name: "p_view"}}}
	require.True(t, broadcast.Program.IsNull())

	targeted := UniformPayload{Program: handle.New(3, 1), Entries: []UniformEntry{{Name: "p_color"}}}
	require.False(t, targeted.Program.IsNull())
}

// A Target command with the null handle selects the backbuffer, sized by
// ScreenSize rather than a Target object's own dimensions.
func TestTargetPayloadNullHandleSelectsBackbuffer(t *testing.T) {
	c := TargetPayload{ScreenSize: [2]uint32{1920, 1080}}
	require.True(t, c.Handle.IsNull())
	require.Equal(t, [2]uint32{1920, 1080}, c.ScreenSize)
}
