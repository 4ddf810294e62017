package graphics

import (
	"sort"

	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// Resource tags handed to the notification protocol so one listener can tell
// which kind of identity died.
const (
	queueTagMaterial = iota
	queueTagMesh
)

// MeshBatch accumulates the instance transforms submitted for one
// (material, submesh) pair during the frame.
type MeshBatch struct {
	subMesh    SubMesh
	transforms []math.Mat4
}

func (b *MeshBatch) SubMesh() SubMesh {
	return b.subMesh
}

func (b *MeshBatch) Transforms() []math.Mat4 {
	return b.transforms
}

// MaterialBatch groups every mesh batch sharing one material, together with
// the per-frame instancing decision for that material.
type MaterialBatch struct {
	material   Material
	used       bool
	instancing bool
	meshes     map[uint32]*MeshBatch
}

func (b *MaterialBatch) Material() Material {
	return b.material
}

// UseInstancing reports whether any mesh under this material crossed the
// instancing threshold. Once set it stays set for the rest of the frame.
func (b *MaterialBatch) UseInstancing() bool {
	return b.instancing
}

func (b *MaterialBatch) Used() bool {
	return b.used
}

// Meshes returns the batch's mesh entries ordered by index buffer identity,
// then vertex buffer identity, then submesh identity, so draws sharing
// buffers end up adjacent.
func (b *MaterialBatch) Meshes() []*MeshBatch {
	meshes := make([]*MeshBatch, 0, len(b.meshes))
	for _, entry := range b.meshes {
		meshes = append(meshes, entry)
	}

	sort.Slice(meshes, func(i, j int) bool {
		first, second := meshes[i].subMesh, meshes[j].subMesh

		if ib1, ib2 := indexBufferID(first.IndexBuffer()), indexBufferID(second.IndexBuffer()); ib1 != ib2 {
			return ib1 < ib2
		}
		if vb1, vb2 := vertexBufferID(first.VertexBuffer()), vertexBufferID(second.VertexBuffer()); vb1 != vb2 {
			return vb1 < vb2
		}
		return first.Resource().UniqueID() < second.Resource().UniqueID()
	})

	return meshes
}

// resetFrame drops the per-frame data while keeping the bucket, its
// subscriptions and the mesh entries (with their capacity) alive.
func (b *MaterialBatch) resetFrame() {
	b.used = false
	b.instancing = false
	for _, entry := range b.meshes {
		entry.transforms = entry.transforms[:0]
	}
}

// SpriteBatch groups the opaque sprites sharing one material.
type SpriteBatch struct {
	material Material
	sprites  []*Sprite
}

func (b *SpriteBatch) Material() Material {
	return b.material
}

func (b *SpriteBatch) Sprites() []*Sprite {
	return b.sprites
}

// DeferredRenderQueue buckets opaque submissions by material so they can be
// drawn with minimal state switching, deciding per material whether the
// instance count justifies instancing. Everything it cannot batch is handed
// to the forward fallback queue.
type DeferredRenderQueue struct {
	forward      *ForwardRenderQueue
	minInstances int

	opaque  map[uint32]*MaterialBatch
	sprites map[uint32]*SpriteBatch

	directionalLights []*Light
	pointLights       []*Light
	spotLights        []*Light
}

func NewDeferredRenderQueue(forward *ForwardRenderQueue, cfg *config.Config) *DeferredRenderQueue {
	return &DeferredRenderQueue{
		forward:      forward,
		minInstances: cfg.Instancing.MinInstances,
		opaque:       make(map[uint32]*MaterialBatch),
		sprites:      make(map[uint32]*SpriteBatch),
	}
}

// SetMinInstances changes the batching threshold, effective from the next
// submission. Already-set instancing flags keep their frame stickiness.
func (q *DeferredRenderQueue) SetMinInstances(minInstances int) {
	q.minInstances = minInstances
}

// AddDrawable hands self-drawing objects straight to the fallback queue.
func (q *DeferredRenderQueue) AddDrawable(drawable Drawable) {
	if drawable == nil {
		core.LogError("invalid drawable")
		return
	}
	q.forward.AddDrawable(drawable)
}

// AddLight classifies the light by kind. Lights are only recorded, never
// batched, and the fallback queue gets them too.
func (q *DeferredRenderQueue) AddLight(light *Light) {
	if light == nil {
		core.LogError("invalid light")
		return
	}

	switch light.Kind() {
	case LightDirectional:
		q.directionalLights = append(q.directionalLights, light)
	case LightPoint:
		q.pointLights = append(q.pointLights, light)
	case LightSpot:
		q.spotLights = append(q.spotLights, light)
	}

	q.forward.AddLight(light)
}

// AddModel submits every submesh of the model with the model's transform.
func (q *DeferredRenderQueue) AddModel(model *Model) {
	if model == nil || model.Mesh() == nil {
		core.LogError("invalid model")
		return
	}

	transform := model.TransformMatrix()
	mesh := model.Mesh()

	for i := 0; i < mesh.SubMeshCount(); i++ {
		subMesh := mesh.SubMesh(i)
		material := model.Material(subMesh.MaterialIndex())
		if material == nil {
			core.LogError("model has no material for submesh %d", i)
			continue
		}

		q.AddSubMesh(material, subMesh, transform)
	}
}

// AddSprite buckets the sprite by material, unless blending forces it into
// submission-ordered forward rendering.
func (q *DeferredRenderQueue) AddSprite(sprite *Sprite) {
	if sprite == nil || sprite.Material() == nil {
		core.LogError("invalid sprite")
		return
	}

	material := sprite.Material()
	if material.IsBlendEnabled() {
		q.forward.AddSprite(sprite)
		return
	}

	materialID := material.Resource().UniqueID()
	batch, ok := q.sprites[materialID]
	if !ok {
		batch = &SpriteBatch{material: material}
		q.sprites[materialID] = batch
		material.Resource().Subscribe(q, queueTagMaterial)
	}
	batch.sprites = append(batch.sprites, sprite)
}

// AddSubMesh routes one submesh submission: skeletal geometry is dropped,
// blended geometry goes to the fallback queue, opaque static geometry is
// batched. Reaching the configured instance threshold turns instancing on
// for the whole material, sticky for the rest of the frame.
func (q *DeferredRenderQueue) AddSubMesh(material Material, subMesh SubMesh, transform math.Mat4) {
	if material == nil || subMesh == nil {
		core.LogError("invalid submesh submission")
		return
	}

	if subMesh.AnimationKind() == AnimationSkeletal {
		core.LogError(core.ErrSkeletalUnhandled.Error())
		return
	}

	if material.IsBlendEnabled() {
		q.forward.AddSubMesh(material, subMesh, transform)
		return
	}

	materialID := material.Resource().UniqueID()
	batch, ok := q.opaque[materialID]
	if !ok {
		batch = &MaterialBatch{
			material: material,
			meshes:   make(map[uint32]*MeshBatch),
		}
		q.opaque[materialID] = batch
		material.Resource().Subscribe(q, queueTagMaterial)
	}
	batch.used = true

	meshID := subMesh.Resource().UniqueID()
	entry, ok := batch.meshes[meshID]
	if !ok {
		entry = &MeshBatch{subMesh: subMesh}
		batch.meshes[meshID] = entry
		subMesh.Resource().Subscribe(q, queueTagMesh)
	}

	entry.transforms = append(entry.transforms, transform)

	// Enough copies of this mesh to pay for the instancing setup.
	if len(entry.transforms) >= q.minInstances {
		batch.instancing = true
	}
}

// Clear drops the per-frame light lists and forwards the clear. When fully,
// it also releases every destruction subscription and every bucket.
func (q *DeferredRenderQueue) Clear(fully bool) {
	q.directionalLights = q.directionalLights[:0]
	q.pointLights = q.pointLights[:0]
	q.spotLights = q.spotLights[:0]

	if fully {
		for _, batch := range q.opaque {
			batch.material.Resource().Unsubscribe(q)
			for _, entry := range batch.meshes {
				entry.subMesh.Resource().Unsubscribe(q)
			}
		}
		for _, batch := range q.sprites {
			batch.material.Resource().Unsubscribe(q)
		}
		q.opaque = make(map[uint32]*MaterialBatch)
		q.sprites = make(map[uint32]*SpriteBatch)
	}

	q.forward.Clear(fully)
}

func (q *DeferredRenderQueue) DirectionalLights() []*Light {
	return q.directionalLights
}

func (q *DeferredRenderQueue) PointLights() []*Light {
	return q.pointLights
}

func (q *DeferredRenderQueue) SpotLights() []*Light {
	return q.spotLights
}

// OpaqueBatches returns the material buckets ordered so batches sharing a
// shader variant, then a diffuse map, come out adjacent.
func (q *DeferredRenderQueue) OpaqueBatches() []*MaterialBatch {
	batches := make([]*MaterialBatch, 0, len(q.opaque))
	for _, batch := range q.opaque {
		batches = append(batches, batch)
	}

	variants := []ShaderFlags{ShaderFlagDeferred, ShaderFlagDeferred | ShaderFlagInstancing}
	sort.Slice(batches, func(i, j int) bool {
		return materialLess(batches[i].material, batches[j].material, ShaderTargetModel, variants)
	})

	return batches
}

// SpriteBatches returns the sprite buckets in the same clustering order as
// OpaqueBatches, minus the instancing variant.
func (q *DeferredRenderQueue) SpriteBatches() []*SpriteBatch {
	batches := make([]*SpriteBatch, 0, len(q.sprites))
	for _, batch := range q.sprites {
		batches = append(batches, batch)
	}

	variants := []ShaderFlags{ShaderFlagDeferred}
	sort.Slice(batches, func(i, j int) bool {
		return materialLess(batches[i].material, batches[j].material, ShaderTargetSprite, variants)
	})

	return batches
}

// OnResourceDestroy evicts everything referencing the dying identity: a
// material takes its whole bucket, a mesh is removed from every material
// bucket it appears under. No GPU work happens here.
func (q *DeferredRenderQueue) OnResourceDestroy(res *resource.Resource, tag int) bool {
	switch tag {
	case queueTagMaterial:
		delete(q.opaque, res.UniqueID())
		delete(q.sprites, res.UniqueID())

	case queueTagMesh:
		for _, batch := range q.opaque {
			delete(batch.meshes, res.UniqueID())
		}

	default:
		core.LogError("render queue: unknown resource tag %d", tag)
	}

	// No further events wanted from this resource.
	return false
}

func (q *DeferredRenderQueue) OnResourceReleased(res *resource.Resource, tag int) {
	q.OnResourceDestroy(res, tag)
}

// materialLess is the clustering order for material buckets: shader variant
// keys first, then the diffuse map identity, then the material identity as
// the final tie-break. Not a visual ordering, only a stable one.
func materialLess(first, second Material, target ShaderTarget, variants []ShaderFlags) bool {
	for _, flags := range variants {
		k1, k2 := first.ShaderProgramKey(target, flags), second.ShaderProgramKey(target, flags)
		if k1 != k2 {
			return k1 < k2
		}
	}

	if d1, d2 := first.DiffuseTextureID(), second.DiffuseTextureID(); d1 != d2 {
		return d1 < d2
	}

	return first.Resource().UniqueID() < second.Resource().UniqueID()
}

func indexBufferID(buffer *renderer.IndexBuffer) uint32 {
	if buffer == nil {
		return 0
	}
	return buffer.UniqueID()
}

func vertexBufferID(buffer *renderer.VertexBuffer) uint32 {
	if buffer == nil {
		return 0
	}
	return buffer.UniqueID()
}
