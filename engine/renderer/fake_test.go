package renderer

import (
	"fmt"

	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// fakeDevice records every call so tests can assert on the exact GPU
// traffic a scenario produces.
type fakeDevice struct {
	caps Capabilities

	nextVAO    uint32
	nextBuffer uint32

	genVAOCalls   int
	deletedVAOs   []uint32
	boundVAOs     []uint32
	attribCalls   int
	divisorCalls  int
	drawCalls     []string
	statesApplied int
	clears        int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		caps: Capabilities{
			Instancing:         true,
			VertexArrayObjects: true,
			SamplerObjects:     true,
			MaxTextureUnits:    8,
			MaxVertexAttribs:   16,
		},
	}
}

func (d *fakeDevice) Capabilities() Capabilities { return d.caps }

func (d *fakeDevice) GenVertexArray() uint32 {
	d.genVAOCalls++
	d.nextVAO++
	return d.nextVAO
}

func (d *fakeDevice) BindVertexArray(vao uint32) { d.boundVAOs = append(d.boundVAOs, vao) }

func (d *fakeDevice) DeleteVertexArray(vao uint32) { d.deletedVAOs = append(d.deletedVAOs, vao) }

func (d *fakeDevice) GenBuffer() uint32 {
	d.nextBuffer++
	return d.nextBuffer
}

func (d *fakeDevice) DeleteBuffer(handle uint32) {}

func (d *fakeDevice) BindBuffer(bufferType BufferType, handle uint32) {}

func (d *fakeDevice) BufferData(bufferType BufferType, data []float32, dynamic bool) {}

func (d *fakeDevice) IndexBufferData(indices []uint32, largeIndices bool, dynamic bool) {}

func (d *fakeDevice) EnableVertexAttrib(index uint32) {}

func (d *fakeDevice) DisableVertexAttrib(index uint32) {}

func (d *fakeDevice) VertexAttribPointer(index uint32, attribType AttributeType, stride, offset int) {
	d.attribCalls++
}

func (d *fakeDevice) VertexAttribDivisor(index uint32, divisor uint32) { d.divisorCalls++ }

func (d *fakeDevice) BindTextureUnit(unit int) {}

func (d *fakeDevice) BindTexture(unit int, textureType TextureType, handle uint32) {}

func (d *fakeDevice) BindSampler(unit int, sampler TextureSampler) {}

func (d *fakeDevice) ApplySampler(unit int, sampler TextureSampler, texture Texture) {}

func (d *fakeDevice) DrawArrays(mode PrimitiveMode, firstVertex, vertexCount int) {
	d.drawCalls = append(d.drawCalls, fmt.Sprintf("arrays(%d,%d)", firstVertex, vertexCount))
}

func (d *fakeDevice) DrawElements(mode PrimitiveMode, indexCount int, largeIndices bool, offset int) {
	d.drawCalls = append(d.drawCalls, fmt.Sprintf("elements(%d,%d)", indexCount, offset))
}

func (d *fakeDevice) DrawArraysInstanced(mode PrimitiveMode, firstVertex, vertexCount, instanceCount int) {
	d.drawCalls = append(d.drawCalls, fmt.Sprintf("arraysInstanced(%d,%d,%d)", firstVertex, vertexCount, instanceCount))
}

func (d *fakeDevice) DrawElementsInstanced(mode PrimitiveMode, indexCount int, largeIndices bool, offset, instanceCount int) {
	d.drawCalls = append(d.drawCalls, fmt.Sprintf("elementsInstanced(%d,%d,%d)", indexCount, offset, instanceCount))
}

func (d *fakeDevice) Clear(color, depth, stencil bool) { d.clears++ }

func (d *fakeDevice) ApplyStates(states RenderStates) { d.statesApplied++ }

// fakeProgram resolves uniform locations from a fixed table and records
// matrix uploads by location.
type fakeProgram struct {
	uniforms     map[string]int32
	bindCount    int
	sentMatrices map[int32]math.Mat4
	sentVectors  map[int32]math.Vec2
}

func newFakeProgram(uniforms map[string]int32) *fakeProgram {
	return &fakeProgram{
		uniforms:     uniforms,
		sentMatrices: make(map[int32]math.Mat4),
		sentVectors:  make(map[int32]math.Vec2),
	}
}

func (p *fakeProgram) Bind() { p.bindCount++ }

func (p *fakeProgram) UniformLocation(name string) int32 {
	if location, ok := p.uniforms[name]; ok {
		return location
	}
	return -1
}

func (p *fakeProgram) SendMatrix(location int32, matrix math.Mat4) {
	p.sentMatrices[location] = matrix
}

func (p *fakeProgram) SendVector2(location int32, vector math.Vec2) {
	p.sentVectors[location] = vector
}

func (p *fakeProgram) BindTextures() {}

type fakeTarget struct {
	width, height uint32
	active        bool
	updates       int
}

func (t *fakeTarget) Activate() bool   { t.active = true; return true }
func (t *fakeTarget) Deactivate()      { t.active = false }
func (t *fakeTarget) HasContext() bool { return false }
func (t *fakeTarget) EnsureUpdated()   { t.updates++ }
func (t *fakeTarget) Width() uint32    { return t.width }
func (t *fakeTarget) Height() uint32   { return t.height }

type fakeTexture struct {
	res            resource.Resource
	handle         uint32
	mipmaps        bool
	mipmapsUpdates int
}

func newFakeTexture(handle uint32) *fakeTexture {
	return &fakeTexture{
		res:     resource.NewResource("texture"),
		handle:  handle,
		mipmaps: true,
	}
}

func (t *fakeTexture) Resource() *resource.Resource { return &t.res }
func (t *fakeTexture) TextureType() TextureType     { return Texture2D }
func (t *fakeTexture) Handle() uint32               { return t.handle }
func (t *fakeTexture) HasMipmaps() bool             { return t.mipmaps }
func (t *fakeTexture) EnsureMipmapsUpdated()        { t.mipmapsUpdates++ }

func testDeclaration() *VertexDeclaration {
	return NewVertexDeclaration("vertex-xyz", 12, []Attribute{
		{Location: 0, Type: AttributeFloat3, Offset: 0},
	})
}

func allMatrixUniforms() map[string]int32 {
	uniforms := make(map[string]int32, len(matrixUniformNames))
	for i, name := range matrixUniformNames {
		uniforms[name] = int32(i)
	}
	return uniforms
}

// newTestRenderer wires a renderer with an active context, a target, a
// program declaring every matrix uniform and a minimal vertex buffer, ready
// for EnsureStateApplied.
func newTestRenderer() (*Renderer, *fakeDevice, *fakeProgram) {
	device := newFakeDevice()
	r := New(device, config.Default())

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)

	r.SetTarget(&fakeTarget{width: 640, height: 480})

	program := newFakeProgram(allMatrixUniforms())
	r.SetShaderProgram(program)

	r.SetVertexBuffer(NewVertexBuffer("test-vertices", device.GenBuffer(), testDeclaration(), 64))

	return r, device, program
}
