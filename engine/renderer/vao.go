package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// Resource tags handed to the notification protocol so one listener can tell
// which kind of identity died.
const (
	resourceTagContext = iota
	resourceTagIndexBuffer
	resourceTagVertexBuffer
	resourceTagVertexDeclaration
)

// vaoKey identifies one vertex-array-object configuration by the identities
// of everything baked into it. Zero stands for "absent" (no index buffer, no
// instancing declaration).
type vaoKey struct {
	indexBuffer    uint32
	vertexBuffer   uint32
	vertexDecl     uint32
	instancingDecl uint32
}

type vaoEntry struct {
	handle uint32

	// Kept so shutdown can unsubscribe and the identities can be matched
	// back to live resources.
	resources []*resource.Resource
}

// vaoCache maps VAO configurations to hardware handles, one table per
// rendering context since VAO handles are not shareable across contexts.
// Entries die with any identity in their key, via the notification protocol.
type vaoCache struct {
	device GraphicsDevice
	vaos   map[*Context]map[vaoKey]*vaoEntry
}

func newVAOCache(device GraphicsDevice) *vaoCache {
	return &vaoCache{
		device: device,
		vaos:   make(map[*Context]map[vaoKey]*vaoEntry),
	}
}

// resolve returns the VAO handle for the given configuration, creating a new
// hardware object on first use. The created flag tells the caller whether the
// attribute bindings still have to be programmed into the fresh VAO.
func (vc *vaoCache) resolve(context *Context, indexBuffer *IndexBuffer, vertexBuffer *VertexBuffer, instancingDecl *VertexDeclaration) (handle uint32, created bool) {
	table, ok := vc.vaos[context]
	if !ok {
		table = make(map[vaoKey]*vaoEntry)
		vc.vaos[context] = table
		context.Subscribe(vc, resourceTagContext)
	}

	declaration := vertexBuffer.Declaration()

	key := vaoKey{
		vertexBuffer: vertexBuffer.UniqueID(),
		vertexDecl:   declaration.UniqueID(),
	}
	if indexBuffer != nil {
		key.indexBuffer = indexBuffer.UniqueID()
	}
	if instancingDecl != nil {
		key.instancingDecl = instancingDecl.UniqueID()
	}

	if entry, ok := table[key]; ok {
		core.MetricsCountVAOLookup(true)
		return entry.handle, false
	}
	core.MetricsCountVAOLookup(false)

	entry := &vaoEntry{handle: vc.device.GenVertexArray()}

	if indexBuffer != nil {
		indexBuffer.Subscribe(vc, resourceTagIndexBuffer)
		entry.resources = append(entry.resources, &indexBuffer.Resource)
	}
	vertexBuffer.Subscribe(vc, resourceTagVertexBuffer)
	entry.resources = append(entry.resources, &vertexBuffer.Resource)
	declaration.Subscribe(vc, resourceTagVertexDeclaration)
	entry.resources = append(entry.resources, &declaration.Resource)
	if instancingDecl != nil {
		instancingDecl.Subscribe(vc, resourceTagVertexDeclaration)
		entry.resources = append(entry.resources, &instancingDecl.Resource)
	}

	table[key] = entry
	return entry.handle, true
}

// OnResourceDestroy evicts every entry whose key embeds the dying identity.
// Buffer and declaration identities are compared across every context's
// table. No GPU deletions happen here: the owning context may not be
// current, and the handle dies with it anyway.
func (vc *vaoCache) OnResourceDestroy(res *resource.Resource, tag int) bool {
	switch tag {
	case resourceTagContext:
		for context := range vc.vaos {
			if context.UniqueID() == res.UniqueID() {
				delete(vc.vaos, context)
			}
		}

	case resourceTagIndexBuffer:
		vc.evict(func(key vaoKey) bool { return key.indexBuffer == res.UniqueID() })

	case resourceTagVertexBuffer:
		vc.evict(func(key vaoKey) bool { return key.vertexBuffer == res.UniqueID() })

	case resourceTagVertexDeclaration:
		vc.evict(func(key vaoKey) bool {
			return key.vertexDecl == res.UniqueID() || key.instancingDecl == res.UniqueID()
		})

	default:
		core.LogError("vao cache: unknown resource tag %d", tag)
	}

	// No further events wanted from this resource.
	return false
}

func (vc *vaoCache) OnResourceReleased(res *resource.Resource, tag int) {
	vc.OnResourceDestroy(res, tag)
}

func (vc *vaoCache) evict(matches func(vaoKey) bool) {
	for _, table := range vc.vaos {
		for key := range table {
			if matches(key) {
				delete(table, key)
			}
		}
	}
}

// shutdown releases every cached VAO. Each living context is made current
// long enough to issue the deletions, then deactivated again.
func (vc *vaoCache) shutdown() {
	for context, table := range vc.vaos {
		if err := context.SetActive(true); err != nil {
			// Without the context there is nothing left to delete.
			continue
		}

		for _, entry := range table {
			for _, res := range entry.resources {
				res.Unsubscribe(vc)
			}
			vc.device.DeleteVertexArray(entry.handle)
		}

		context.SetActive(false)
		context.Unsubscribe(vc)
	}

	vc.vaos = make(map[*Context]map[vaoKey]*vaoEntry)
}
