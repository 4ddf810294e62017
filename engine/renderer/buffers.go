package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

type AttributeType uint8

const (
	AttributeColor AttributeType = iota
	AttributeFloat1
	AttributeFloat2
	AttributeFloat3
	AttributeFloat4

	attributeTypeCount
)

// ComponentCount returns how many float components the attribute occupies.
func (at AttributeType) ComponentCount() int {
	switch at {
	case AttributeColor, AttributeFloat4:
		return 4
	case AttributeFloat1:
		return 1
	case AttributeFloat2:
		return 2
	case AttributeFloat3:
		return 3
	}
	return 0
}

// Attribute describes one vertex attribute inside a declaration. Location is
// the shader-side attribute slot.
type Attribute struct {
	Location uint32
	Type     AttributeType
	Offset   int
}

// VertexDeclaration lays out the attributes stored in a vertex buffer. It is
// identified, not copied: VAO cache keys embed its id and a cache entry
// subscribes to its destruction.
type VertexDeclaration struct {
	resource.Resource

	stride     int
	attributes []Attribute
}

func NewVertexDeclaration(name string, stride int, attributes []Attribute) *VertexDeclaration {
	decl := &VertexDeclaration{
		Resource:   resource.NewResource(name),
		stride:     stride,
		attributes: attributes,
	}
	return decl
}

func (vd *VertexDeclaration) Stride() int {
	return vd.stride
}

func (vd *VertexDeclaration) Attributes() []Attribute {
	return vd.attributes
}

// Destroy notifies subscribed caches and gives back the identity.
func (vd *VertexDeclaration) Destroy() {
	vd.NotifyDestroy()
}

// VertexBuffer couples a hardware buffer handle with the declaration
// describing the vertices it stores.
type VertexBuffer struct {
	resource.Resource

	handle      uint32
	declaration *VertexDeclaration
	startOffset int
	vertexCount int
}

func NewVertexBuffer(name string, handle uint32, declaration *VertexDeclaration, vertexCount int) *VertexBuffer {
	return &VertexBuffer{
		Resource:    resource.NewResource(name),
		handle:      handle,
		declaration: declaration,
		vertexCount: vertexCount,
	}
}

func (vb *VertexBuffer) Handle() uint32 {
	return vb.handle
}

func (vb *VertexBuffer) Declaration() *VertexDeclaration {
	return vb.declaration
}

func (vb *VertexBuffer) StartOffset() int {
	return vb.startOffset
}

func (vb *VertexBuffer) SetStartOffset(offset int) {
	vb.startOffset = offset
}

// VertexCount is the buffer capacity in vertices. For the per-instance
// transform buffer this doubles as the maximum instance count per draw.
func (vb *VertexBuffer) VertexCount() int {
	return vb.vertexCount
}

func (vb *VertexBuffer) Destroy() {
	vb.NotifyDestroy()
}

// IndexBuffer is a hardware buffer of 16- or 32-bit indices.
type IndexBuffer struct {
	resource.Resource

	handle       uint32
	largeIndices bool
	startOffset  int
	indexCount   int
}

func NewIndexBuffer(name string, handle uint32, largeIndices bool, indexCount int) *IndexBuffer {
	return &IndexBuffer{
		Resource:     resource.NewResource(name),
		handle:       handle,
		largeIndices: largeIndices,
		indexCount:   indexCount,
	}
}

func (ib *IndexBuffer) Handle() uint32 {
	return ib.handle
}

// HasLargeIndices reports whether indices are 32-bit instead of 16-bit.
func (ib *IndexBuffer) HasLargeIndices() bool {
	return ib.largeIndices
}

func (ib *IndexBuffer) StartOffset() int {
	return ib.startOffset
}

func (ib *IndexBuffer) SetStartOffset(offset int) {
	ib.startOffset = offset
}

func (ib *IndexBuffer) IndexCount() int {
	return ib.indexCount
}

// IndexSize returns the size of one index in bytes.
func (ib *IndexBuffer) IndexSize() int {
	if ib.largeIndices {
		return 4
	}
	return 2
}

func (ib *IndexBuffer) Destroy() {
	ib.NotifyDestroy()
}
