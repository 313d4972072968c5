// Package asset implements the typed, ref-counted asset registry: a name
// keyed by an interned string resolves through an extension-to-type map
// to a Loader, and the loaded instance is tracked alongside its ref count
// and its dependency DAG so that Drop can recursively release assets an
// asset pulled in while loading. Grounded on the asset system split found
// in framework/systems/asset_system.c (generic, type-erased load/drop
// dispatch) and application/asset_registry.c (concrete per-type
// load/drop callbacks), from the original C implementation this module
// was distilled from.
package asset

import (
	"log/slog"
	"strings"

	"github.com/pixelforge/forge/ferr"
	"github.com/pixelforge/forge/handle"
	"github.com/pixelforge/forge/intern"
)

// Loader loads and frees one asset type's instances. Load receives the
// asset's file name and returns the instance payload to store; Drop
// receives that payload back for teardown. Both may call Registry.Load to
// pull in dependencies — any handle acquired this way while inside Load is
// recorded as a dependency of the asset currently loading and is dropped
// automatically when the parent is dropped.
type Loader struct {
	Load func(r *Registry, name string) (any, error)
	Drop func(r *Registry, payload any)
}

type meta struct {
	dependencies []handle.Handle
	instHandle   handle.Handle
	typeID       uint32
	nameID       uint32
	refCount     uint32
}

type typeEntry struct {
	name      string
	loader    Loader
	instances *handle.Set[any]
}

// Registry is the process-wide asset table: one per running instance
// (there is deliberately no package-level singleton, unlike the C original's
// static gs_asset_system).
type Registry struct {
	log *slog.Logger

	strings *intern.Table
	meta    *handle.Set[meta]

	byName    map[intern.ID]handle.Handle
	types     map[intern.ID]*typeEntry
	extension map[intern.ID]intern.ID // extension id -> type id

	loadStack []handle.Handle
	indent    int
}

// NewRegistry creates an empty Registry backed by strings for name/type
// interning.
func NewRegistry(strings *intern.Table, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:       log,
		strings:   strings,
		meta:      handle.NewSet[meta](),
		byName:    make(map[intern.ID]handle.Handle),
		types:     make(map[intern.ID]*typeEntry),
		extension: make(map[intern.ID]intern.ID),
	}
}

// RegisterType associates typeName with loader, creating its instance
// table. Registering an existing type name replaces its loader.
func (r *Registry) RegisterType(typeName string, loader Loader) {
	id := r.strings.AddString(typeName)
	r.types[id] = &typeEntry{name: typeName, loader: loader, instances: handle.NewSet[any]()}
}

// MapExtension routes file names ending in extension (e.g. ".png") to
// typeName when no explicit mapping exists for that extension.
func (r *Registry) MapExtension(extension, typeName string) {
	extID := r.strings.AddString(extension)
	typeID := r.strings.AddString(typeName)
	r.extension[extID] = typeID
}

// RegisterDefaultExtensions wires the nine built-in extension-to-type
// mappings recovered from asset_registry.c's asset_system_init: a host that
// wants the original engine's conventions can call this once instead of
// calling MapExtension itself for each one. The registry stays
// extension-agnostic without it — this is an opt-in convenience, not a
// requirement of Load's fallback rule.
func (r *Registry) RegisterDefaultExtensions() {
	for _, m := range [...][2]string{
		{".txt", "bytes"},
		{".glsl", "shader"},
		{".png", "image"},
		{".ttf", "font"},
		{".otf", "font"},
		{".rt", "target"},
		{".obj", "model"},
		{".fbx", "model"},
		{".mat", "material"},
	} {
		r.MapExtension(m[0], m[1])
	}
}

func extensionOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// Load resolves name to a live handle, incrementing its ref count if it is
// already loaded, or loading it fresh via the type its extension maps to.
// The zero handle is returned if name is empty or no type claims its
// extension.
func (r *Registry) Load(name string) (handle.Handle, error) {
	if name == "" {
		return 0, ferr.Report(ferr.New(ferr.Validation, "empty asset name"))
	}
	nameID := r.strings.AddString(name)

	if existing, ok := r.byName[nameID]; ok {
		m := r.meta.Get(existing)
		m.refCount++
		r.report(existing, "refc")
		r.pushDependency(existing)
		return existing, nil
	}

	extID := r.strings.FindString(extensionOf(name))
	typeID := extID
	if mapped, ok := r.extension[extID]; ok {
		typeID = mapped
	}
	entry, ok := r.types[typeID]
	if !ok {
		return 0, ferr.Report(ferr.New(ferr.Validation, "no asset type registered for "+name))
	}

	metaHandle := r.meta.Acquire(meta{typeID: uint32(typeID), nameID: uint32(nameID)})
	r.byName[nameID] = metaHandle

	r.loadStack = append(r.loadStack, metaHandle)
	r.report(metaHandle, "load")
	r.indent++
	payload, err := entry.loader.Load(r, name)
	r.indent--
	r.loadStack = r.loadStack[:len(r.loadStack)-1]

	if err != nil {
		r.meta.Discard(metaHandle)
		delete(r.byName, nameID)
		return 0, ferr.Report(ferr.Wrap(ferr.Validation, "load "+name, err))
	}

	instHandle := entry.instances.Acquire(payload)
	m := r.meta.Get(metaHandle)
	m.instHandle = instHandle

	r.pushDependency(metaHandle)
	return metaHandle, nil
}

// pushDependency records h as a dependency of whatever asset is currently
// loading (the load-stack's top, if any and if it isn't h itself).
func (r *Registry) pushDependency(h handle.Handle) {
	if len(r.loadStack) == 0 {
		return
	}
	parent := r.loadStack[len(r.loadStack)-1]
	if parent == h {
		return
	}
	pm := r.meta.Get(parent)
	if pm == nil {
		return
	}
	pm.dependencies = append(pm.dependencies, h)
}

// Drop decrements h's ref count, or, once it reaches zero, frees the asset
// and recursively drops everything it depended on.
func (r *Registry) Drop(h handle.Handle) {
	m := r.meta.Get(h)
	if m == nil {
		return
	}
	if m.refCount > 0 {
		m.refCount--
		r.report(h, "unrf")
		return
	}

	typeID := intern.ID(m.typeID)
	entry, ok := r.types[typeID]
	if !ok {
		ferr.Report(ferr.New(ferr.Lifecycle, "asset meta with unknown type"))
	} else if payload := entry.instances.Get(m.instHandle); payload != nil {
		r.report(h, "drop")
		r.indent++
		if entry.loader.Drop != nil {
			entry.loader.Drop(r, *payload)
		}
		r.indent--
		entry.instances.Discard(m.instHandle)
	}

	r.indent++
	deps := m.dependencies
	for _, dep := range deps {
		r.Drop(dep)
	}
	r.indent--

	delete(r.byName, intern.ID(m.nameID))
	r.meta.Discard(h)
}

// Get returns the stored payload for h, or nil if h is not a live asset
// handle.
func (r *Registry) Get(h handle.Handle) any {
	m := r.meta.Get(h)
	if m == nil {
		return nil
	}
	entry, ok := r.types[intern.ID(m.typeID)]
	if !ok {
		return nil
	}
	payload := entry.instances.Get(m.instHandle)
	if payload == nil {
		return nil
	}
	return *payload
}

// Find returns the live handle already registered for name, or the zero
// handle if name has not been loaded.
func (r *Registry) Find(name string) handle.Handle {
	nameID := r.strings.FindString(name)
	if nameID == 0 {
		return 0
	}
	return r.byName[nameID]
}

// AddDependency explicitly records other as a dependency of h, for the
// rare case an asset acquires a handle outside of its own Load call (e.g.
// it shares an already-loaded sibling) and still wants it dropped
// alongside its parent.
func (r *Registry) AddDependency(h, other handle.Handle) {
	m := r.meta.Get(h)
	if m == nil {
		return
	}
	m.dependencies = append(m.dependencies, other)
}

// TypeName returns the interned type name for h's asset.
func (r *Registry) TypeName(h handle.Handle) string {
	m := r.meta.Get(h)
	if m == nil {
		return ""
	}
	return r.strings.GetString(intern.ID(m.typeID))
}

// Name returns the interned file name for h's asset.
func (r *Registry) Name(h handle.Handle) string {
	m := r.meta.Get(h)
	if m == nil {
		return ""
	}
	return r.strings.GetString(intern.ID(m.nameID))
}

func (r *Registry) report(h handle.Handle, tag string) {
	r.log.Debug("asset", "tag", tag, "handle", h, "indent", r.indent)
}

// Shutdown drops every remaining live asset, logging (rather than
// panicking, unlike the C original's DEBUG_BREAK) if any instance
// survives to report a true leak.
func (r *Registry) Shutdown() {
	dropped := 0
	for _, entry := range r.types {
		entry.instances.Iter(func(h handle.Handle, payload *any) bool {
			dropped++
			if entry.loader.Drop != nil {
				entry.loader.Drop(r, *payload)
			}
			return true
		})
	}
	if dropped > 0 {
		r.log.Warn("asset registry shutdown with live instances", "count", dropped)
	}
}
