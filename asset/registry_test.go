package asset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelforge/forge/intern"
)

type fakeAsset struct {
	name string
}

func newTestRegistry() *Registry {
	return NewRegistry(intern.NewTable(), nil)
}

func registerFake(r *Registry, typeName string, drops *[]string) {
	r.RegisterType(typeName, Loader{
		Load: func(r *Registry, name string) (any, error) {
			return &fakeAsset{name: name}, nil
		},
		Drop: func(r *Registry, payload any) {
			*drops = append(*drops, payload.(*fakeAsset).name)
		},
	})
}

// S1: load/drop cycle. Repeated loads of the same name return the same
// handle and ref-count; the asset is only freed once every reference drops.
func TestLoadDropCycle(t *testing.T) {
	var drops []string
	r := newTestRegistry()
	registerFake(r, "bytes", &drops)
	r.MapExtension(".txt", "bytes")

	h1, err := r.Load("foo.txt")
	require.NoError(t, err)
	h2, err := r.Load("foo.txt")
	require.NoError(t, err)
	require.Equal(t, h1, h2, "repeated loads of the same name must return the same handle")

	r.Drop(h2)
	require.Empty(t, drops, "asset must survive while a reference remains")

	r.Drop(h1)
	require.Equal(t, []string{"foo.txt"}, drops)
	require.True(t, r.Find("foo.txt").IsNull(), "name index must forget a fully-dropped asset")
}

// S2: transitive drop. Dropping a parent whose Load implicitly loaded a
// child recursively drops the child too.
func TestDropRecursesIntoDependencies(t *testing.T) {
	var drops []string
	r := newTestRegistry()

	r.RegisterType("material", Loader{
		Load: func(r *Registry, name string) (any, error) {
			if _, err := r.Load("tile.png"); err != nil {
				return nil, err
			}
			return &fakeAsset{name: name}, nil
		},
		Drop: func(r *Registry, payload any) {
			drops = append(drops, payload.(*fakeAsset).name)
		},
	})
	registerFake(r, "texture", &drops)
	r.MapExtension(".mat", "material")
	r.MapExtension(".png", "texture")

	h, err := r.Load("hero.mat")
	require.NoError(t, err)
	r.Drop(h)

	require.Len(t, drops, 2, "dropping the parent must also drop its implicit dependency")
}

func TestLoadUnknownExtensionFails(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Load("mystery.xyz")
	require.Error(t, err)
}

func TestFindReturnsZeroBeforeLoad(t *testing.T) {
	r := newTestRegistry()
	require.True(t, r.Find("nope.png").IsNull())
}

func TestRegisterDefaultExtensionsMapsOriginalTypeNames(t *testing.T) {
	var drops []string
	r := newTestRegistry()
	registerFake(r, "image", &drops)
	registerFake(r, "model", &drops)
	r.RegisterDefaultExtensions()

	_, err := r.Load("hero.png")
	require.NoError(t, err)

	_, err = r.Load("hero.obj")
	require.NoError(t, err)
	_, err = r.Load("hero.fbx")
	require.NoError(t, err, "both model extensions must map to the same type")
}
