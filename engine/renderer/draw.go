package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/core"
)

// checkInstanceCount validates the instance count against the fixed-capacity
// instance transform buffer.
func (r *Renderer) checkInstanceCount(instanceCount int) bool {
	if !r.caps.Instancing {
		core.LogError("instancing is not supported")
		return false
	}
	if instanceCount <= 0 {
		core.LogError("instance count must be over 0")
		return false
	}
	if maxInstances := r.instanceBuffer.VertexCount(); instanceCount > maxInstances {
		core.LogError("instance count is over maximum instance count (%d > %d)", instanceCount, maxInstances)
		return false
	}
	return true
}

// DrawFullscreenQuad covers the whole target with a single triangle strip,
// typically to run a post-process program.
func (r *Renderer) DrawFullscreenQuad() {
	if r.fullscreenQuadBuffer == nil {
		core.LogError("fullscreen quad buffer was never created")
		return
	}

	r.EnableInstancing(false)
	r.SetIndexBuffer(nil)
	r.SetVertexBuffer(r.fullscreenQuadBuffer)

	if !r.EnsureStateApplied() {
		core.LogError("failed to apply pipeline states")
		return
	}

	r.device.DrawArrays(PrimitiveTriangleStrip, 0, 4)
	core.MetricsCountDrawCall(false)

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(0)
	}
}

// DrawPrimitives draws non-indexed geometry from the bound vertex buffer.
func (r *Renderer) DrawPrimitives(mode PrimitiveMode, firstVertex, vertexCount int) {
	if mode >= primitiveModeCount {
		core.LogError("primitive mode out of enum: %d", mode)
		return
	}

	r.EnableInstancing(false)

	if !r.EnsureStateApplied() {
		core.LogError("failed to apply pipeline states")
		return
	}

	r.device.DrawArrays(mode, firstVertex, vertexCount)
	core.MetricsCountDrawCall(false)

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(0)
	}
}

// DrawIndexedPrimitives draws geometry through the bound index buffer.
func (r *Renderer) DrawIndexedPrimitives(mode PrimitiveMode, firstIndex, indexCount int) {
	if mode >= primitiveModeCount {
		core.LogError("primitive mode out of enum: %d", mode)
		return
	}
	if r.indexBuffer == nil {
		core.LogError(core.ErrNoIndexBuffer.Error())
		return
	}

	r.EnableInstancing(false)

	if !r.EnsureStateApplied() {
		core.LogError("failed to apply pipeline states")
		return
	}

	offset := r.indexBuffer.StartOffset() + firstIndex*r.indexBuffer.IndexSize()
	r.device.DrawElements(mode, indexCount, r.indexBuffer.HasLargeIndices(), offset)
	core.MetricsCountDrawCall(false)

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(0)
	}
}

// DrawPrimitivesInstanced draws instanceCount copies of non-indexed
// geometry, pulling per-instance transforms from the instance buffer.
func (r *Renderer) DrawPrimitivesInstanced(instanceCount int, mode PrimitiveMode, firstVertex, vertexCount int) {
	if mode >= primitiveModeCount {
		core.LogError("primitive mode out of enum: %d", mode)
		return
	}
	if !r.checkInstanceCount(instanceCount) {
		return
	}

	r.EnableInstancing(true)

	if !r.EnsureStateApplied() {
		core.LogError("failed to apply pipeline states")
		return
	}

	r.device.DrawArraysInstanced(mode, firstVertex, vertexCount, instanceCount)
	core.MetricsCountDrawCall(true)

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(0)
	}
}

// DrawIndexedPrimitivesInstanced draws instanceCount copies of indexed
// geometry, pulling per-instance transforms from the instance buffer.
func (r *Renderer) DrawIndexedPrimitivesInstanced(instanceCount int, mode PrimitiveMode, firstIndex, indexCount int) {
	if mode >= primitiveModeCount {
		core.LogError("primitive mode out of enum: %d", mode)
		return
	}
	if r.indexBuffer == nil {
		core.LogError(core.ErrNoIndexBuffer.Error())
		return
	}
	if !r.checkInstanceCount(instanceCount) {
		return
	}

	r.EnableInstancing(true)

	if !r.EnsureStateApplied() {
		core.LogError("failed to apply pipeline states")
		return
	}

	offset := r.indexBuffer.StartOffset() + firstIndex*r.indexBuffer.IndexSize()
	r.device.DrawElementsInstanced(mode, indexCount, r.indexBuffer.HasLargeIndices(), offset, instanceCount)
	core.MetricsCountDrawCall(true)

	if r.useVertexArrayObjects {
		r.device.BindVertexArray(0)
	}
}
