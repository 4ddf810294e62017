package renderer

// PrimitiveMode selects how vertices are assembled into primitives.
type PrimitiveMode uint8

const (
	PrimitivePointList PrimitiveMode = iota
	PrimitiveLineList
	PrimitiveLineStrip
	PrimitiveTriangleList
	PrimitiveTriangleStrip
	PrimitiveTriangleFan

	primitiveModeCount
)

type BufferType uint8

const (
	BufferIndex BufferType = iota
	BufferVertex
)

type TextureType uint8

const (
	Texture1D TextureType = iota
	Texture2D
	Texture3D
	TextureCubemap
)

// Capabilities reports what the underlying hardware path supports. Probed
// once at renderer creation.
type Capabilities struct {
	Instancing         bool
	VertexArrayObjects bool
	SamplerObjects     bool
	MaxTextureUnits    int
	MaxVertexAttribs   int
	MaxAnisotropyLevel uint8
}

// GraphicsDevice is the thin seam between the state synchronizer and the
// graphics API. One implementation wraps OpenGL (engine/renderer/opengl);
// tests substitute a recording fake. Calls are only valid while a rendering
// context is current on the calling goroutine.
type GraphicsDevice interface {
	Capabilities() Capabilities

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	DeleteBuffer(handle uint32)
	BindBuffer(bufferType BufferType, handle uint32)
	BufferData(bufferType BufferType, data []float32, dynamic bool)
	// IndexBufferData uploads to the bound index buffer, narrowing to
	// 16-bit indices unless largeIndices is set.
	IndexBufferData(indices []uint32, largeIndices bool, dynamic bool)

	EnableVertexAttrib(index uint32)
	DisableVertexAttrib(index uint32)
	VertexAttribPointer(index uint32, attribType AttributeType, stride, offset int)
	VertexAttribDivisor(index uint32, divisor uint32)

	BindTextureUnit(unit int)
	BindTexture(unit int, textureType TextureType, handle uint32)
	BindSampler(unit int, sampler TextureSampler)
	ApplySampler(unit int, sampler TextureSampler, texture Texture)

	DrawArrays(mode PrimitiveMode, firstVertex, vertexCount int)
	DrawElements(mode PrimitiveMode, indexCount int, largeIndices bool, offset int)
	DrawArraysInstanced(mode PrimitiveMode, firstVertex, vertexCount, instanceCount int)
	DrawElementsInstanced(mode PrimitiveMode, indexCount int, largeIndices bool, offset, instanceCount int)

	Clear(color, depth, stencil bool)
	ApplyStates(states RenderStates)
}
