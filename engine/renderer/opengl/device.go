package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
)

var primitiveModes = [...]uint32{
	renderer.PrimitivePointList:     gl.POINTS,
	renderer.PrimitiveLineList:      gl.LINES,
	renderer.PrimitiveLineStrip:     gl.LINE_STRIP,
	renderer.PrimitiveTriangleList:  gl.TRIANGLES,
	renderer.PrimitiveTriangleStrip: gl.TRIANGLE_STRIP,
	renderer.PrimitiveTriangleFan:   gl.TRIANGLE_FAN,
}

var bufferTargets = [...]uint32{
	renderer.BufferIndex:  gl.ELEMENT_ARRAY_BUFFER,
	renderer.BufferVertex: gl.ARRAY_BUFFER,
}

var textureTargets = [...]uint32{
	renderer.Texture1D:      gl.TEXTURE_1D,
	renderer.Texture2D:      gl.TEXTURE_2D,
	renderer.Texture3D:      gl.TEXTURE_3D,
	renderer.TextureCubemap: gl.TEXTURE_CUBE_MAP,
}

var blendFuncs = [...]uint32{
	renderer.BlendZero:        gl.ZERO,
	renderer.BlendOne:         gl.ONE,
	renderer.BlendSrcColor:    gl.SRC_COLOR,
	renderer.BlendInvSrcColor: gl.ONE_MINUS_SRC_COLOR,
	renderer.BlendSrcAlpha:    gl.SRC_ALPHA,
	renderer.BlendInvSrcAlpha: gl.ONE_MINUS_SRC_ALPHA,
	renderer.BlendDstColor:    gl.DST_COLOR,
	renderer.BlendInvDstColor: gl.ONE_MINUS_DST_COLOR,
	renderer.BlendDstAlpha:    gl.DST_ALPHA,
	renderer.BlendInvDstAlpha: gl.ONE_MINUS_DST_ALPHA,
}

var comparisons = [...]uint32{
	renderer.ComparisonNever:          gl.NEVER,
	renderer.ComparisonLess:           gl.LESS,
	renderer.ComparisonLessOrEqual:    gl.LEQUAL,
	renderer.ComparisonEqual:          gl.EQUAL,
	renderer.ComparisonNotEqual:       gl.NOTEQUAL,
	renderer.ComparisonGreaterOrEqual: gl.GEQUAL,
	renderer.ComparisonGreater:        gl.GREATER,
	renderer.ComparisonAlways:         gl.ALWAYS,
}

var faceSides = [...]uint32{
	renderer.FaceBack:         gl.BACK,
	renderer.FaceFront:        gl.FRONT,
	renderer.FaceFrontAndBack: gl.FRONT_AND_BACK,
}

var faceFillings = [...]uint32{
	renderer.FillPoint: gl.POINT,
	renderer.FillLine:  gl.LINE,
	renderer.FillSolid: gl.FILL,
}

var stencilOperations = [...]uint32{
	renderer.StencilKeep:          gl.KEEP,
	renderer.StencilZero:          gl.ZERO,
	renderer.StencilReplace:       gl.REPLACE,
	renderer.StencilIncrement:     gl.INCR,
	renderer.StencilIncrementWrap: gl.INCR_WRAP,
	renderer.StencilDecrement:     gl.DECR,
	renderer.StencilDecrementWrap: gl.DECR_WRAP,
	renderer.StencilInvert:        gl.INVERT,
}

// Device implements the renderer's device seam over an OpenGL 3.3 core
// context. gl.Init must have run against a current context before NewDevice
// is called; every method assumes a context is current on the calling
// goroutine.
type Device struct {
	caps renderer.Capabilities

	// Sampler objects keyed by sampler value, created on first use.
	samplers map[renderer.TextureSampler]uint32
}

func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		core.LogError("failed to initialize opengl bindings: %s", err)
		return nil, err
	}

	var maxTextureUnits, maxVertexAttribs int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &maxTextureUnits)
	gl.GetIntegerv(gl.MAX_VERTEX_ATTRIBS, &maxVertexAttribs)

	core.LogInfo("OpenGL renderer: %s (%s)", gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION)))

	return &Device{
		caps: renderer.Capabilities{
			// All core in 3.3.
			Instancing:         true,
			VertexArrayObjects: true,
			SamplerObjects:     true,
			MaxTextureUnits:    int(maxTextureUnits),
			MaxVertexAttribs:   int(maxVertexAttribs),
		},
		samplers: make(map[renderer.TextureSampler]uint32),
	}, nil
}

func (d *Device) Capabilities() renderer.Capabilities {
	return d.caps
}

func (d *Device) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (d *Device) DeleteBuffer(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}

func (d *Device) BindBuffer(bufferType renderer.BufferType, handle uint32) {
	gl.BindBuffer(bufferTargets[bufferType], handle)
}

func (d *Device) BufferData(bufferType renderer.BufferType, data []float32, dynamic bool) {
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	gl.BufferData(bufferTargets[bufferType], len(data)*4, gl.Ptr(data), usage)
}

func (d *Device) IndexBufferData(indices []uint32, largeIndices bool, dynamic bool) {
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	if largeIndices {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), usage)
		return
	}

	narrowed := make([]uint16, len(indices))
	for i, index := range indices {
		narrowed[i] = uint16(index)
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(narrowed)*2, gl.Ptr(narrowed), usage)
}

func (d *Device) EnableVertexAttrib(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *Device) DisableVertexAttrib(index uint32) {
	gl.DisableVertexAttribArray(index)
}

func (d *Device) VertexAttribPointer(index uint32, attribType renderer.AttributeType, stride, offset int) {
	gl.VertexAttribPointerWithOffset(index, int32(attribType.ComponentCount()), gl.FLOAT, false, int32(stride), uintptr(offset))
}

func (d *Device) VertexAttribDivisor(index uint32, divisor uint32) {
	gl.VertexAttribDivisor(index, divisor)
}

func (d *Device) BindTextureUnit(unit int) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
}

func (d *Device) BindTexture(unit int, textureType renderer.TextureType, handle uint32) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(textureTargets[textureType], handle)
}

func (d *Device) BindSampler(unit int, sampler renderer.TextureSampler) {
	gl.BindSampler(uint32(unit), d.samplerObject(sampler))
}

// ApplySampler is the no-sampler-objects path: the filtering parameters are
// written onto the bound texture itself.
func (d *Device) ApplySampler(unit int, sampler renderer.TextureSampler, texture renderer.Texture) {
	target := textureTargets[texture.TextureType()]
	minFilter, magFilter := samplerFilters(sampler)
	wrap := samplerWrap(sampler)

	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(target, texture.Handle())
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, int32(minFilter))
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, int32(magFilter))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, int32(wrap))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, int32(wrap))
}

func (d *Device) DrawArrays(mode renderer.PrimitiveMode, firstVertex, vertexCount int) {
	gl.DrawArrays(primitiveModes[mode], int32(firstVertex), int32(vertexCount))
}

func (d *Device) DrawElements(mode renderer.PrimitiveMode, indexCount int, largeIndices bool, offset int) {
	gl.DrawElementsWithOffset(primitiveModes[mode], int32(indexCount), indexType(largeIndices), uintptr(offset))
}

func (d *Device) DrawArraysInstanced(mode renderer.PrimitiveMode, firstVertex, vertexCount, instanceCount int) {
	gl.DrawArraysInstanced(primitiveModes[mode], int32(firstVertex), int32(vertexCount), int32(instanceCount))
}

func (d *Device) DrawElementsInstanced(mode renderer.PrimitiveMode, indexCount int, largeIndices bool, offset, instanceCount int) {
	gl.DrawElementsInstanced(primitiveModes[mode], int32(indexCount), indexType(largeIndices), gl.PtrOffset(offset), int32(instanceCount))
}

func (d *Device) Clear(color, depth, stencil bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if stencil {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (d *Device) ApplyStates(states renderer.RenderStates) {
	setCapability(gl.BLEND, states.Parameters[renderer.ParameterBlend])
	setCapability(gl.DEPTH_TEST, states.Parameters[renderer.ParameterDepthBuffer])
	setCapability(gl.CULL_FACE, states.Parameters[renderer.ParameterFaceCulling])
	setCapability(gl.SCISSOR_TEST, states.Parameters[renderer.ParameterScissorTest])
	setCapability(gl.STENCIL_TEST, states.Parameters[renderer.ParameterStencilTest])

	colorWrite := states.Parameters[renderer.ParameterColorWrite]
	gl.ColorMask(colorWrite, colorWrite, colorWrite, colorWrite)
	gl.DepthMask(states.Parameters[renderer.ParameterDepthWrite])

	gl.BlendFunc(blendFuncs[states.SrcBlend], blendFuncs[states.DstBlend])
	gl.DepthFunc(comparisons[states.DepthFunc])
	gl.CullFace(faceSides[states.FaceCulling])
	gl.PolygonMode(gl.FRONT_AND_BACK, faceFillings[states.FaceFilling])

	applyStencilFace(gl.FRONT, states.FrontFace)
	applyStencilFace(gl.BACK, states.BackFace)

	gl.LineWidth(states.LineWidth)
	gl.PointSize(states.PointSize)
}

// Shutdown deletes the sampler objects created on demand.
func (d *Device) Shutdown() {
	for _, handle := range d.samplers {
		gl.DeleteSamplers(1, &handle)
	}
	d.samplers = make(map[renderer.TextureSampler]uint32)
}

func (d *Device) samplerObject(sampler renderer.TextureSampler) uint32 {
	if handle, ok := d.samplers[sampler]; ok {
		return handle
	}

	var handle uint32
	gl.GenSamplers(1, &handle)

	minFilter, magFilter := samplerFilters(sampler)
	wrap := samplerWrap(sampler)
	gl.SamplerParameteri(handle, gl.TEXTURE_MIN_FILTER, int32(minFilter))
	gl.SamplerParameteri(handle, gl.TEXTURE_MAG_FILTER, int32(magFilter))
	gl.SamplerParameteri(handle, gl.TEXTURE_WRAP_S, int32(wrap))
	gl.SamplerParameteri(handle, gl.TEXTURE_WRAP_T, int32(wrap))

	d.samplers[sampler] = handle
	return handle
}

func setCapability(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func applyStencilFace(face uint32, stencil renderer.StencilFace) {
	gl.StencilFuncSeparate(face, comparisons[stencil.StencilCompare], int32(stencil.StencilReference), stencil.StencilMask)
	gl.StencilOpSeparate(face, stencilOperations[stencil.StencilFail], stencilOperations[stencil.StencilZFail], stencilOperations[stencil.StencilPass])
}

func indexType(largeIndices bool) uint32 {
	if largeIndices {
		return gl.UNSIGNED_INT
	}
	return gl.UNSIGNED_SHORT
}

func samplerFilters(sampler renderer.TextureSampler) (minFilter, magFilter uint32) {
	switch sampler.Filter {
	case renderer.SamplerFilterNearest:
		if sampler.HasMipmaps() {
			return gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
		}
		return gl.NEAREST, gl.NEAREST

	case renderer.SamplerFilterBilinear:
		if sampler.HasMipmaps() {
			return gl.LINEAR_MIPMAP_NEAREST, gl.LINEAR
		}
		return gl.LINEAR, gl.LINEAR

	default:
		if sampler.HasMipmaps() {
			return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
		}
		return gl.LINEAR, gl.LINEAR
	}
}

func samplerWrap(sampler renderer.TextureSampler) uint32 {
	switch sampler.WrapMode {
	case renderer.SamplerWrapClamp:
		return gl.CLAMP_TO_EDGE
	case renderer.SamplerWrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}
