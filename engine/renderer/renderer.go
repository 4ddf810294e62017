package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/math"
)

type updateFlags uint32

const (
	updateNone     updateFlags = 0
	updateMatrices updateFlags = 0x1
	updateProgram  updateFlags = 0x2
	updateTextures updateFlags = 0x4
	updateVAO      updateFlags = 0x8
)

// Attribute slots. Per-vertex data occupies the low slots, the per-instance
// transform matrix rows sit above them.
const (
	firstInstanceAttribIndex = 8
	instanceAttribCount      = 4
)

type textureUnit struct {
	sampler        TextureSampler
	texture        Texture
	samplerUpdated bool
	textureUpdated bool
}

// Renderer is the render device state: the desired pipeline configuration
// (program, buffers, textures, matrices, fixed-function states) plus the
// bookkeeping needed to push only what changed to the device. One Renderer
// serves one goroutine; there is no internal locking.
type Renderer struct {
	device GraphicsDevice
	caps   Capabilities

	states RenderStates

	matrices       [matrixTypeCount]matrixUnit
	recomputeCount uint64

	textureUnits      []textureUnit
	dirtyTextureUnits map[int]struct{}

	vaos       *vaoCache
	currentVAO uint32

	context    *Context
	target     RenderTarget
	targetSize math.Vec2
	program    ShaderProgram

	indexBuffer           *IndexBuffer
	vertexBuffer          *VertexBuffer
	instanceBuffer        *VertexBuffer
	instancingDeclaration *VertexDeclaration
	fullscreenQuadBuffer  *VertexBuffer
	instancing            bool

	useSamplerObjects     bool
	useVertexArrayObjects bool

	flags updateFlags
}

// New builds a renderer over the given device. The configuration caps
// hardware limits and can force-disable hardware paths; pass
// config.Default() when no file is loaded.
func New(device GraphicsDevice, cfg *config.Config) *Renderer {
	caps := device.Capabilities()

	r := &Renderer{
		device:                device,
		caps:                  caps,
		states:                DefaultRenderStates(),
		dirtyTextureUnits:     make(map[int]struct{}),
		vaos:                  newVAOCache(device),
		useSamplerObjects:     caps.SamplerObjects && cfg.Features.SamplerObjects,
		useVertexArrayObjects: caps.VertexArrayObjects && cfg.Features.VertexArrayObjects,
		flags:                 updateMatrices | updateProgram | updateVAO,
	}

	maxTextureUnits := math.Min(caps.MaxTextureUnits, cfg.Limits.MaxTextureUnits)
	r.textureUnits = make([]textureUnit, math.Max(maxTextureUnits, 1))

	for i := range r.matrices {
		r.matrices[i].matrix = math.NewMat4Identity()
		r.matrices[i].valid = true
		r.matrices[i].location = -1
	}

	if r.caps.Instancing {
		r.setupInstancing(cfg.Instancing.MaxInstances)
	}
	r.setupFullscreenQuad()

	return r
}

// setupFullscreenQuad uploads the static XY quad used by DrawFullscreenQuad.
func (r *Renderer) setupFullscreenQuad() {
	handle := r.device.GenBuffer()
	if handle == 0 {
		core.LogError("failed to create fullscreen quad buffer")
		return
	}

	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		1.0, 1.0,
	}
	r.device.BindBuffer(BufferVertex, handle)
	r.device.BufferData(BufferVertex, vertices, false)

	declaration := NewVertexDeclaration("vertex-xy", 8, []Attribute{
		{Location: 0, Type: AttributeFloat2, Offset: 0},
	})
	r.fullscreenQuadBuffer = NewVertexBuffer("fullscreen-quad", handle, declaration, 4)
}

// setupInstancing creates the fixed-capacity per-instance transform buffer
// and the declaration describing one mat4 per instance.
func (r *Renderer) setupInstancing(maxInstances int) {
	attributes := make([]Attribute, instanceAttribCount)
	for row := 0; row < instanceAttribCount; row++ {
		attributes[row] = Attribute{
			Location: firstInstanceAttribIndex + uint32(row),
			Type:     AttributeFloat4,
			Offset:   row * 16,
		}
	}
	r.instancingDeclaration = NewVertexDeclaration("instancing-mat4", 64, attributes)

	handle := r.device.GenBuffer()
	if handle == 0 {
		core.LogError("failed to create instancing buffer, disabling instancing")
		r.caps.Instancing = false
		r.instancingDeclaration = nil
		return
	}
	r.instanceBuffer = NewVertexBuffer("instance-transforms", handle, r.instancingDeclaration, maxInstances)
}

func (r *Renderer) Capabilities() Capabilities {
	return r.caps
}

// HasCapability reports instancing support; other capabilities are reachable
// through Capabilities.
func (r *Renderer) SupportsInstancing() bool {
	return r.caps.Instancing
}

// SetContext makes the given context the renderer's current one. Must match
// the context actually current on the platform side.
func (r *Renderer) SetContext(context *Context) {
	if r.context != context {
		r.context = context
		// Handles are per-context; the cached VAO binding means nothing now.
		r.flags |= updateVAO
	}
}

func (r *Renderer) Context() *Context {
	return r.context
}

// GetInstanceBuffer exposes the per-instance transform buffer so callers can
// fill it before an instanced draw. Touching it invalidates the VAO state.
func (r *Renderer) GetInstanceBuffer() *VertexBuffer {
	if !r.caps.Instancing {
		core.LogError("instancing is not supported")
		return nil
	}

	r.flags |= updateVAO
	return r.instanceBuffer
}

// UploadInstanceTransforms fills the per-instance transform buffer for the
// next instanced draws, one mat4 per instance.
func (r *Renderer) UploadInstanceTransforms(transforms []math.Mat4) bool {
	if !r.checkInstanceCount(len(transforms)) {
		return false
	}

	data := make([]float32, 0, len(transforms)*16)
	for i := range transforms {
		data = append(data, transforms[i].Data[:]...)
	}

	r.device.BindBuffer(BufferVertex, r.instanceBuffer.Handle())
	r.device.BufferData(BufferVertex, data, true)
	return true
}

func (r *Renderer) SetIndexBuffer(indexBuffer *IndexBuffer) {
	if r.indexBuffer != indexBuffer {
		r.indexBuffer = indexBuffer
		r.flags |= updateVAO
	}
}

// SetVertexBuffer binds the vertex source for the next draws. Unlike
// SetIndexBuffer, where nil switches to non-indexed drawing, there is no
// drawing without vertex data; a nil buffer is rejected and the current
// binding kept.
func (r *Renderer) SetVertexBuffer(vertexBuffer *VertexBuffer) {
	if vertexBuffer == nil {
		core.LogError("refusing to bind a nil vertex buffer")
		return
	}
	if r.vertexBuffer != vertexBuffer {
		r.vertexBuffer = vertexBuffer
		r.flags |= updateVAO
	}
}

func (r *Renderer) SetShaderProgram(program ShaderProgram) {
	if r.program != program {
		r.program = program
		r.flags |= updateProgram
	}
}

func (r *Renderer) ShaderProgram() ShaderProgram {
	return r.program
}

// SetTarget switches the render target, deactivating the previous one
// unless it owns its context.
func (r *Renderer) SetTarget(target RenderTarget) bool {
	if r.target == target {
		return true
	}

	if r.target != nil {
		if !r.target.HasContext() {
			r.target.Deactivate()
		}
		r.target = nil
	}

	if target != nil {
		if !target.Activate() {
			core.LogError("failed to activate render target")
			return false
		}
		r.target = target
	}

	return true
}

func (r *Renderer) Target() RenderTarget {
	return r.target
}

func (r *Renderer) SetTexture(unit int, texture Texture) {
	if unit < 0 || unit >= len(r.textureUnits) {
		core.LogError("texture unit out of range (%d >= %d)", unit, len(r.textureUnits))
		return
	}

	if r.textureUnits[unit].texture != texture {
		r.textureUnits[unit].texture = texture
		r.textureUnits[unit].textureUpdated = false

		if texture != nil {
			if r.textureUnits[unit].sampler.UseMipmaps(texture.HasMipmaps()) {
				r.textureUnits[unit].samplerUpdated = false
			}
		}

		r.dirtyTextureUnits[unit] = struct{}{}
		r.flags |= updateTextures
	}
}

func (r *Renderer) SetTextureSampler(unit int, sampler TextureSampler) {
	if unit < 0 || unit >= len(r.textureUnits) {
		core.LogError("texture unit out of range (%d >= %d)", unit, len(r.textureUnits))
		return
	}

	r.textureUnits[unit].sampler = sampler
	r.textureUnits[unit].samplerUpdated = false

	if r.textureUnits[unit].texture != nil {
		r.textureUnits[unit].sampler.UseMipmaps(r.textureUnits[unit].texture.HasMipmaps())
	}

	r.dirtyTextureUnits[unit] = struct{}{}
	r.flags |= updateTextures
}

// EnableInstancing routes the next draws through the per-instance attribute
// path. Flipping it invalidates the VAO configuration. Without instancing
// support there is no instance buffer to source attributes from, so the
// request is rejected.
func (r *Renderer) EnableInstancing(instancing bool) {
	if instancing && !r.caps.Instancing {
		core.LogError("instancing is not supported")
		return
	}
	if r.instancing != instancing {
		r.flags |= updateVAO
		r.instancing = instancing
	}
}

func (r *Renderer) Enable(parameter RendererParameter, enable bool) {
	if parameter >= rendererParameterCount {
		core.LogError("renderer parameter out of enum: %d", parameter)
		return
	}
	r.states.Parameters[parameter] = enable
}

func (r *Renderer) IsEnabled(parameter RendererParameter) bool {
	if parameter >= rendererParameterCount {
		core.LogError("renderer parameter out of enum: %d", parameter)
		return false
	}
	return r.states.Parameters[parameter]
}

func (r *Renderer) SetBlendFunc(srcBlend, dstBlend BlendFunc) {
	if srcBlend >= blendFuncCount || dstBlend >= blendFuncCount {
		core.LogError("blend func out of enum")
		return
	}
	r.states.SrcBlend = srcBlend
	r.states.DstBlend = dstBlend
}

func (r *Renderer) SetDepthFunc(compareFunc RendererComparison) {
	if compareFunc >= rendererComparisonCount {
		core.LogError("renderer comparison out of enum: %d", compareFunc)
		return
	}
	r.states.DepthFunc = compareFunc
}

func (r *Renderer) SetFaceCulling(faceSide FaceSide) {
	if faceSide >= faceSideCount {
		core.LogError("face side out of enum: %d", faceSide)
		return
	}
	r.states.FaceCulling = faceSide
}

func (r *Renderer) SetFaceFilling(fillingMode FaceFilling) {
	if fillingMode >= faceFillingCount {
		core.LogError("face filling out of enum: %d", fillingMode)
		return
	}
	r.states.FaceFilling = fillingMode
}

func (r *Renderer) SetLineWidth(width float32) {
	if width <= 0 {
		core.LogError("line width must be over zero")
		return
	}
	r.states.LineWidth = width
}

func (r *Renderer) SetPointSize(size float32) {
	if size <= 0 {
		core.LogError("point size must be over zero")
		return
	}
	r.states.PointSize = size
}

func (r *Renderer) SetRenderStates(states RenderStates) {
	r.states = states
}

func (r *Renderer) RenderStates() RenderStates {
	return r.states
}

// stencilFaces applies f to the stencil face blocks selected by faceSide.
func (r *Renderer) stencilFaces(faceSide FaceSide, f func(*StencilFace)) {
	if faceSide >= faceSideCount {
		core.LogError("face side out of enum: %d", faceSide)
		return
	}
	if faceSide == FaceBack || faceSide == FaceFrontAndBack {
		f(&r.states.BackFace)
	}
	if faceSide == FaceFront || faceSide == FaceFrontAndBack {
		f(&r.states.FrontFace)
	}
}

func (r *Renderer) SetStencilCompareFunction(compareFunc RendererComparison, faceSide FaceSide) {
	if compareFunc >= rendererComparisonCount {
		core.LogError("renderer comparison out of enum: %d", compareFunc)
		return
	}
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilCompare = compareFunc })
}

func (r *Renderer) SetStencilFailOperation(failOperation StencilOperation, faceSide FaceSide) {
	if failOperation >= stencilOperationCount {
		core.LogError("stencil operation out of enum: %d", failOperation)
		return
	}
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilFail = failOperation })
}

func (r *Renderer) SetStencilPassOperation(passOperation StencilOperation, faceSide FaceSide) {
	if passOperation >= stencilOperationCount {
		core.LogError("stencil operation out of enum: %d", passOperation)
		return
	}
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilPass = passOperation })
}

func (r *Renderer) SetStencilZFailOperation(zfailOperation StencilOperation, faceSide FaceSide) {
	if zfailOperation >= stencilOperationCount {
		core.LogError("stencil operation out of enum: %d", zfailOperation)
		return
	}
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilZFail = zfailOperation })
}

func (r *Renderer) SetStencilMask(mask uint32, faceSide FaceSide) {
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilMask = mask })
}

func (r *Renderer) SetStencilReferenceValue(refValue uint32, faceSide FaceSide) {
	r.stencilFaces(faceSide, func(face *StencilFace) { face.StencilReference = refValue })
}

// Clear wipes the selected planes of the current target, applying pending
// render states first since they influence the clear.
func (r *Renderer) Clear(color, depth, stencil bool) {
	if r.context == nil {
		core.LogError(core.ErrNoActiveContext.Error())
		return
	}
	if !color && !depth && !stencil {
		return
	}

	if r.target != nil {
		r.target.EnsureUpdated()
	}
	r.device.ApplyStates(r.states)
	r.device.Clear(color, depth, stencil)
}

// OnProgramReleased drops the current program reference when the program
// dies under the renderer.
func (r *Renderer) OnProgramReleased(program ShaderProgram) {
	if r.program == program {
		r.program = nil
		r.flags |= updateProgram
	}
}

// OnTextureReleased scrubs the dying texture from every unit. The dirty flag
// is left alone: there is nothing to rebind for an empty unit.
func (r *Renderer) OnTextureReleased(texture Texture) {
	for i := range r.textureUnits {
		if r.textureUnits[i].texture == texture {
			r.textureUnits[i].texture = nil
		}
	}
}

// Shutdown releases every GPU object the renderer owns: the cached VAOs
// (reactivating their contexts to do so) and the instance buffer.
func (r *Renderer) Shutdown() {
	r.vaos.shutdown()
	r.currentVAO = 0

	if r.instanceBuffer != nil {
		handle := r.instanceBuffer.Handle()
		r.instanceBuffer.Destroy()
		r.device.DeleteBuffer(handle)
		r.instanceBuffer = nil
	}
	if r.instancingDeclaration != nil {
		r.instancingDeclaration.Destroy()
		r.instancingDeclaration = nil
	}
	if r.fullscreenQuadBuffer != nil {
		handle := r.fullscreenQuadBuffer.Handle()
		declaration := r.fullscreenQuadBuffer.Declaration()
		r.fullscreenQuadBuffer.Destroy()
		declaration.Destroy()
		r.device.DeleteBuffer(handle)
		r.fullscreenQuadBuffer = nil
	}

	r.textureUnits = nil
}

// EnsureStateApplied reconciles the desired pipeline state with the device.
// It must succeed before any draw call; on failure the device state is
// unspecified and the caller must not draw.
func (r *Renderer) EnsureStateApplied() bool {
	if r.context == nil {
		core.LogError(core.ErrNoActiveContext.Error())
		return false
	}
	if r.program == nil {
		core.LogError(core.ErrNoShaderProgram.Error())
		return false
	}
	if r.target == nil {
		core.LogError(core.ErrNoRenderTarget.Error())
		return false
	}

	r.target.EnsureUpdated()
	r.program.Bind()

	// A program switch invalidates every uniform location we resolved.
	if r.flags&updateProgram != 0 {
		for i := range r.matrices {
			r.matrices[i].location = r.program.UniformLocation(matrixUniformNames[i])
		}

		// Force the target-size uniforms to be resent.
		r.targetSize = math.Vec2{}
		r.flags |= updateMatrices
		r.flags &^= updateProgram
	}

	r.program.BindTextures()

	targetSize := math.NewVec2(float32(r.target.Width()), float32(r.target.Height()))
	if r.targetSize != targetSize {
		if location := r.program.UniformLocation(UniformInvTargetSize); location != -1 {
			r.program.SendVector2(location, math.NewVec2(1.0/targetSize.X, 1.0/targetSize.Y))
		}
		if location := r.program.UniformLocation(UniformTargetSize); location != -1 {
			r.program.SendVector2(location, targetSize)
		}
		r.targetSize = targetSize
	}

	if r.flags != updateNone {
		if r.flags&updateTextures != 0 {
			r.applyTextureUnits()
			r.flags &^= updateTextures
		}

		if r.flags&updateMatrices != 0 {
			for i := range r.matrices {
				unit := &r.matrices[i]
				// Only matrices the program declares are worth computing.
				if unit.location != -1 {
					if !unit.valid {
						r.updateMatrix(MatrixType(i))
					}
					r.program.SendMatrix(unit.location, unit.matrix)
				}
			}
			r.flags &^= updateMatrices
		}

		if r.flags&updateVAO != 0 {
			if !r.applyVertexState() {
				return false
			}
		}
	}

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(r.currentVAO)
	}

	// Another caller may have touched the texture bindings since the last
	// draw; reaffirm them.
	for i := range r.textureUnits {
		if texture := r.textureUnits[i].texture; texture != nil {
			r.device.BindTexture(i, texture.TextureType(), texture.Handle())
		}
	}

	r.device.ApplyStates(r.states)
	core.MetricsCountStateApplication()

	return true
}

func (r *Renderer) applyTextureUnits() {
	if r.useSamplerObjects {
		for i := range r.dirtyTextureUnits {
			unit := &r.textureUnits[i]
			if unit.texture == nil {
				continue
			}

			if !unit.textureUpdated {
				r.device.BindTextureUnit(i)
				unit.texture.EnsureMipmapsUpdated()
				unit.textureUpdated = true
			}
			if !unit.samplerUpdated {
				r.device.BindSampler(i, unit.sampler)
				unit.samplerUpdated = true
			}
		}
	} else {
		for i := range r.dirtyTextureUnits {
			unit := &r.textureUnits[i]
			if unit.texture == nil {
				continue
			}

			r.device.BindTextureUnit(i)
			unit.texture.EnsureMipmapsUpdated()
			unit.textureUpdated = true

			r.device.ApplySampler(i, unit.sampler, unit.texture)
			unit.samplerUpdated = true
		}
	}

	clear(r.dirtyTextureUnits)
}

// applyVertexState resolves the VAO for the current buffer configuration, or
// reprograms the raw attribute bindings when VAOs are unsupported or the VAO
// was just created.
func (r *Renderer) applyVertexState() bool {
	if r.vertexBuffer == nil {
		core.LogError(core.ErrNoVertexBuffer.Error())
		return false
	}

	program := true

	if r.useVertexArrayObjects {
		var instancingDecl *VertexDeclaration
		if r.instancing {
			instancingDecl = r.instancingDeclaration
		}

		handle, created := r.vaos.resolve(r.context, r.indexBuffer, r.vertexBuffer, instancingDecl)
		r.currentVAO = handle
		program = created

		if created {
			// Record the attribute setup into the fresh VAO.
			r.device.BindVertexArray(handle)
		}
	}

	if program {
		r.programAttributes()
	}

	if r.useVertexArrayObjects {
		if program {
			// Close the VAO recording.
			r.device.BindVertexArray(0)
		}
		r.flags &^= updateVAO
	}
	// Without VAO support the attribute bindings have to be reissued on
	// every single call, so the flag stays set.

	return true
}

// programAttributes issues the raw vertex attribute bindings for the current
// configuration: per-vertex attributes always, per-instance attributes (with
// an advance rate of one per instance) only when instancing is on.
func (r *Renderer) programAttributes() {
	declaration := r.vertexBuffer.Declaration()
	stride := declaration.Stride()
	bufferOffset := r.vertexBuffer.StartOffset()

	r.device.BindBuffer(BufferVertex, r.vertexBuffer.Handle())
	for _, attribute := range declaration.Attributes() {
		r.device.EnableVertexAttrib(attribute.Location)
		r.device.VertexAttribPointer(attribute.Location, attribute.Type, stride, bufferOffset+attribute.Offset)
	}

	if r.instancing {
		instanceDecl := r.instanceBuffer.Declaration()
		instanceStride := instanceDecl.Stride()
		instanceOffset := r.instanceBuffer.StartOffset()

		r.device.BindBuffer(BufferVertex, r.instanceBuffer.Handle())
		for _, attribute := range instanceDecl.Attributes() {
			r.device.EnableVertexAttrib(attribute.Location)
			r.device.VertexAttribPointer(attribute.Location, attribute.Type, instanceStride, instanceOffset+attribute.Offset)
			r.device.VertexAttribDivisor(attribute.Location, 1)
		}
	} else {
		for i := uint32(0); i < instanceAttribCount; i++ {
			r.device.DisableVertexAttrib(firstInstanceAttribIndex + i)
		}
	}

	// One index buffer per VAO.
	if r.indexBuffer != nil {
		r.device.BindBuffer(BufferIndex, r.indexBuffer.Handle())
	} else {
		r.device.BindBuffer(BufferIndex, 0)
	}
}
