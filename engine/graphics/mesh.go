package graphics

import (
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// AnimationKind tells whether a submesh is static geometry or skinned.
type AnimationKind uint8

const (
	AnimationStatic AnimationKind = iota
	AnimationSkeletal
)

// SubMesh is one drawable piece of a mesh: one buffer pair, one material
// slot. The batching queue orders entries by buffer identities so draws
// sharing buffers end up adjacent.
type SubMesh interface {
	Resource() *resource.Resource
	AnimationKind() AnimationKind
	// MaterialIndex selects which of the owning model's materials this
	// submesh is rendered with.
	MaterialIndex() int
	IndexBuffer() *renderer.IndexBuffer
	VertexBuffer() *renderer.VertexBuffer
	PrimitiveMode() renderer.PrimitiveMode
}

// StaticSubMesh is non-animated geometry over a fixed buffer pair.
type StaticSubMesh struct {
	res resource.Resource

	indexBuffer   *renderer.IndexBuffer
	vertexBuffer  *renderer.VertexBuffer
	primitiveMode renderer.PrimitiveMode
	materialIndex int
}

func NewStaticSubMesh(name string, indexBuffer *renderer.IndexBuffer, vertexBuffer *renderer.VertexBuffer) *StaticSubMesh {
	return &StaticSubMesh{
		res:           resource.NewResource(name),
		indexBuffer:   indexBuffer,
		vertexBuffer:  vertexBuffer,
		primitiveMode: renderer.PrimitiveTriangleList,
	}
}

func (sm *StaticSubMesh) Resource() *resource.Resource {
	return &sm.res
}

func (sm *StaticSubMesh) AnimationKind() AnimationKind {
	return AnimationStatic
}

func (sm *StaticSubMesh) MaterialIndex() int {
	return sm.materialIndex
}

func (sm *StaticSubMesh) SetMaterialIndex(index int) {
	sm.materialIndex = index
}

func (sm *StaticSubMesh) IndexBuffer() *renderer.IndexBuffer {
	return sm.indexBuffer
}

func (sm *StaticSubMesh) VertexBuffer() *renderer.VertexBuffer {
	return sm.vertexBuffer
}

func (sm *StaticSubMesh) PrimitiveMode() renderer.PrimitiveMode {
	return sm.primitiveMode
}

func (sm *StaticSubMesh) SetPrimitiveMode(mode renderer.PrimitiveMode) {
	sm.primitiveMode = mode
}

func (sm *StaticSubMesh) Destroy() {
	sm.res.NotifyDestroy()
}

// Mesh is an ordered collection of submeshes sharing one material table.
type Mesh struct {
	res resource.Resource

	subMeshes []SubMesh
}

func NewMesh(name string) *Mesh {
	return &Mesh{res: resource.NewResource(name)}
}

func (m *Mesh) Resource() *resource.Resource {
	return &m.res
}

func (m *Mesh) AddSubMesh(subMesh SubMesh) {
	m.subMeshes = append(m.subMeshes, subMesh)
}

func (m *Mesh) SubMeshCount() int {
	return len(m.subMeshes)
}

func (m *Mesh) SubMesh(index int) SubMesh {
	return m.subMeshes[index]
}

func (m *Mesh) Destroy() {
	m.res.NotifyDestroy()
}

// Model pairs a mesh with the materials its submeshes index into, plus a
// world transform.
type Model struct {
	mesh      *Mesh
	materials []Material
	transform math.Mat4
}

func NewModel(mesh *Mesh, materials []Material) *Model {
	return &Model{
		mesh:      mesh,
		materials: materials,
		transform: math.NewMat4Identity(),
	}
}

func (m *Model) Mesh() *Mesh {
	return m.mesh
}

// Material resolves a submesh's material slot; out-of-range slots fall back
// to the first material.
func (m *Model) Material(index int) Material {
	if index < 0 || index >= len(m.materials) {
		if len(m.materials) == 0 {
			return nil
		}
		return m.materials[0]
	}
	return m.materials[index]
}

func (m *Model) TransformMatrix() math.Mat4 {
	return m.transform
}

func (m *Model) SetTransformMatrix(transform math.Mat4) {
	m.transform = transform
}

// Sprite is a single textured quad rendered with a material.
type Sprite struct {
	res resource.Resource

	material  Material
	geometry  *StaticSubMesh
	transform math.Mat4
}

func NewSprite(name string, material Material) *Sprite {
	return &Sprite{
		res:       resource.NewResource(name),
		material:  material,
		transform: math.NewMat4Identity(),
	}
}

func (s *Sprite) Resource() *resource.Resource {
	return &s.res
}

func (s *Sprite) Material() Material {
	return s.material
}

// SetGeometry gives the sprite its quad buffers. A sprite without geometry
// is recorded by the queues but skipped at draw time.
func (s *Sprite) SetGeometry(geometry *StaticSubMesh) {
	s.geometry = geometry
}

func (s *Sprite) Geometry() *StaticSubMesh {
	return s.geometry
}

func (s *Sprite) TransformMatrix() math.Mat4 {
	return s.transform
}

func (s *Sprite) SetTransformMatrix(transform math.Mat4) {
	s.transform = transform
}

// Drawable is anything that issues its own draw calls instead of going
// through the batching buckets. Drawables are never reordered.
type Drawable interface {
	Draw(r *renderer.Renderer)
}
