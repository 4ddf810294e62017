package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/math"
)

func TestEnsureStateAppliedPreconditions(t *testing.T) {
	device := newFakeDevice()
	r := New(device, config.Default())

	// No context.
	assert.False(t, r.EnsureStateApplied())

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)

	// No program.
	assert.False(t, r.EnsureStateApplied())

	r.SetShaderProgram(newFakeProgram(allMatrixUniforms()))

	// No target.
	assert.False(t, r.EnsureStateApplied())

	require.True(t, r.SetTarget(&fakeTarget{width: 640, height: 480}))

	// No vertex buffer.
	assert.False(t, r.EnsureStateApplied())

	r.SetVertexBuffer(NewVertexBuffer("vb", device.GenBuffer(), testDeclaration(), 8))
	assert.True(t, r.EnsureStateApplied())
	assert.Equal(t, 1, device.statesApplied)
}

func TestEnsureStateAppliedSendsTargetSizeOnce(t *testing.T) {
	r, _, _ := newTestRenderer()

	uniforms := allMatrixUniforms()
	uniforms[UniformTargetSize] = 20
	uniforms[UniformInvTargetSize] = 21
	program := newFakeProgram(uniforms)
	r.SetShaderProgram(program)

	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, math.NewVec2(640, 480), program.sentVectors[20])
	assert.Equal(t, math.NewVec2(1.0/640, 1.0/480), program.sentVectors[21])

	// Same target, no resend.
	delete(program.sentVectors, 20)
	require.True(t, r.EnsureStateApplied())
	_, resent := program.sentVectors[20]
	assert.False(t, resent)

	// A differently sized target triggers one.
	require.True(t, r.SetTarget(&fakeTarget{width: 320, height: 240}))
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, math.NewVec2(320, 240), program.sentVectors[20])
}

func TestProgramSwitchResolvesUniformsAgain(t *testing.T) {
	r, _, first := newTestRenderer()
	require.True(t, r.EnsureStateApplied())
	require.Len(t, first.sentMatrices, int(matrixTypeCount))

	// The second program only declares WorldViewProj, at a different slot.
	second := newFakeProgram(map[string]int32{UniformWorldViewProjMatrix: 40})
	r.SetShaderProgram(second)
	require.True(t, r.EnsureStateApplied())

	assert.Len(t, second.sentMatrices, 1)
	_, ok := second.sentMatrices[40]
	assert.True(t, ok)

	// Switching back re-resolves the full set and resends everything.
	clear(first.sentMatrices)
	r.SetShaderProgram(first)
	require.True(t, r.EnsureStateApplied())
	assert.Len(t, first.sentMatrices, int(matrixTypeCount))
}

func TestVertexStateReusesVAO(t *testing.T) {
	r, device, _ := newTestRenderer()

	require.True(t, r.EnsureStateApplied())
	require.Equal(t, 1, device.genVAOCalls)
	firstAttribCalls := device.attribCalls
	require.NotZero(t, firstAttribCalls)

	// Unchanged configuration: the VAO is bound, not reprogrammed.
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 1, device.genVAOCalls)
	assert.Equal(t, firstAttribCalls, device.attribCalls)

	// A new index buffer is a new configuration.
	r.SetIndexBuffer(NewIndexBuffer("ib", device.GenBuffer(), false, 36))
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 2, device.genVAOCalls)
}

func TestVertexStateWithoutVAOSupport(t *testing.T) {
	device := newFakeDevice()
	device.caps.VertexArrayObjects = false
	r := New(device, config.Default())

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)
	require.True(t, r.SetTarget(&fakeTarget{width: 64, height: 64}))
	r.SetShaderProgram(newFakeProgram(allMatrixUniforms()))
	r.SetVertexBuffer(NewVertexBuffer("vb", device.GenBuffer(), testDeclaration(), 8))

	require.True(t, r.EnsureStateApplied())
	firstAttribCalls := device.attribCalls
	require.NotZero(t, firstAttribCalls)
	assert.Zero(t, device.genVAOCalls)

	// Without VAOs the attribute bindings are reissued every time.
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 2*firstAttribCalls, device.attribCalls)
}

func TestContextSwitchInvalidatesVertexState(t *testing.T) {
	r, device, _ := newTestRenderer()
	require.True(t, r.EnsureStateApplied())
	require.Equal(t, 1, device.genVAOCalls)

	// The same configuration on another context needs its own VAO.
	other := NewContext(nil)
	other.SetActive(true)
	r.SetContext(other)
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 2, device.genVAOCalls)
}

func TestInstancedDrawValidation(t *testing.T) {
	device := newFakeDevice()
	cfg := config.Default()
	cfg.Instancing.MaxInstances = 4
	r := New(device, cfg)

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)
	require.True(t, r.SetTarget(&fakeTarget{width: 64, height: 64}))
	r.SetShaderProgram(newFakeProgram(allMatrixUniforms()))
	r.SetVertexBuffer(NewVertexBuffer("vb", device.GenBuffer(), testDeclaration(), 8))

	r.DrawPrimitivesInstanced(0, PrimitiveTriangleList, 0, 3)
	r.DrawPrimitivesInstanced(5, PrimitiveTriangleList, 0, 3)
	assert.Empty(t, device.drawCalls)

	r.DrawPrimitivesInstanced(4, PrimitiveTriangleList, 0, 3)
	require.Len(t, device.drawCalls, 1)
	assert.Equal(t, "arraysInstanced(0,3,4)", device.drawCalls[0])
	// The instance attributes got their per-instance advance rate.
	assert.Equal(t, instanceAttribCount, device.divisorCalls)
}

func TestInstancedDrawWithoutSupport(t *testing.T) {
	device := newFakeDevice()
	device.caps.Instancing = false
	r := New(device, config.Default())

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)
	require.True(t, r.SetTarget(&fakeTarget{width: 64, height: 64}))
	r.SetShaderProgram(newFakeProgram(allMatrixUniforms()))
	r.SetVertexBuffer(NewVertexBuffer("vb", device.GenBuffer(), testDeclaration(), 8))

	assert.Nil(t, r.GetInstanceBuffer())
	r.DrawPrimitivesInstanced(1, PrimitiveTriangleList, 0, 3)
	assert.Empty(t, device.drawCalls)
}

func TestEnableInstancingWithoutSupport(t *testing.T) {
	device := newFakeDevice()
	device.caps.Instancing = false
	r := New(device, config.Default())

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)
	require.True(t, r.SetTarget(&fakeTarget{width: 64, height: 64}))
	r.SetShaderProgram(newFakeProgram(allMatrixUniforms()))
	r.SetVertexBuffer(NewVertexBuffer("vb", device.GenBuffer(), testDeclaration(), 8))

	// The request is refused, so state application never reaches for the
	// missing instance buffer.
	r.EnableInstancing(true)
	assert.True(t, r.EnsureStateApplied())
	assert.Equal(t, 1, device.statesApplied)
}

func TestSetVertexBufferNilKeepsBinding(t *testing.T) {
	r, _, _ := newTestRenderer()
	require.True(t, r.EnsureStateApplied())

	r.SetVertexBuffer(nil)
	assert.True(t, r.EnsureStateApplied())
}

func TestDrawIndexedPrimitivesOffset(t *testing.T) {
	r, device, _ := newTestRenderer()

	indexBuffer := NewIndexBuffer("ib", device.GenBuffer(), true, 36)
	indexBuffer.SetStartOffset(8)
	r.SetIndexBuffer(indexBuffer)

	r.DrawIndexedPrimitives(PrimitiveTriangleList, 3, 6)
	require.Len(t, device.drawCalls, 1)
	// 8 bytes of start offset plus 3 indices of 4 bytes each.
	assert.Equal(t, "elements(6,20)", device.drawCalls[0])
}

func TestDrawIndexedRequiresIndexBuffer(t *testing.T) {
	r, device, _ := newTestRenderer()

	r.DrawIndexedPrimitives(PrimitiveTriangleList, 0, 6)
	r.DrawIndexedPrimitivesInstanced(1, PrimitiveTriangleList, 0, 6)
	assert.Empty(t, device.drawCalls)
}

func TestDrawFullscreenQuad(t *testing.T) {
	r, device, _ := newTestRenderer()

	r.DrawFullscreenQuad()
	require.Len(t, device.drawCalls, 1)
	assert.Equal(t, "arrays(0,4)", device.drawCalls[0])

	// The quad path unbinds whatever VAO it used.
	assert.Equal(t, uint32(0), device.boundVAOs[len(device.boundVAOs)-1])
}

func TestTextureUnitsApplyOnce(t *testing.T) {
	r, _, _ := newTestRenderer()

	texture := newFakeTexture(7)
	r.SetTexture(0, texture)
	r.SetTextureSampler(0, NewTextureSampler())

	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 1, texture.mipmapsUpdates)

	// The unit is clean now; a second application leaves it alone.
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 1, texture.mipmapsUpdates)

	r.SetTexture(0, nil)
	r.SetTexture(1, texture)
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 2, texture.mipmapsUpdates)
}

func TestOnTextureReleasedScrubsUnits(t *testing.T) {
	r, _, _ := newTestRenderer()

	texture := newFakeTexture(7)
	r.SetTexture(0, texture)
	r.SetTexture(3, texture)

	r.OnTextureReleased(texture)
	require.True(t, r.EnsureStateApplied())
	assert.Equal(t, 0, texture.mipmapsUpdates)
}

func TestOnProgramReleased(t *testing.T) {
	r, _, program := newTestRenderer()

	r.OnProgramReleased(program)
	assert.Nil(t, r.ShaderProgram())
	assert.False(t, r.EnsureStateApplied())
}

func TestClearRequiresContext(t *testing.T) {
	device := newFakeDevice()
	r := New(device, config.Default())

	r.Clear(true, true, false)
	assert.Zero(t, device.clears)

	context := NewContext(nil)
	context.SetActive(true)
	r.SetContext(context)

	r.Clear(true, true, false)
	assert.Equal(t, 1, device.clears)

	// Clearing nothing is a no-op.
	r.Clear(false, false, false)
	assert.Equal(t, 1, device.clears)
}

func TestShutdownReleasesOwnedBuffers(t *testing.T) {
	r, device, _ := newTestRenderer()
	require.True(t, r.EnsureStateApplied())

	vao := device.nextVAO
	r.Shutdown()
	assert.Contains(t, device.deletedVAOs, vao)
	assert.Nil(t, r.instanceBuffer)
	assert.Nil(t, r.fullscreenQuadBuffer)
}
