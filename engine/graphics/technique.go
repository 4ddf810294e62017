package graphics

import (
	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
)

// DeferredRenderTechnique owns a deferred queue with its forward fallback
// and turns their contents into draw calls once per frame. Batches that
// crossed the instancing threshold go through the per-instance transform
// buffer; everything else is drawn one submission at a time with the world
// matrix swapped in between.
type DeferredRenderTechnique struct {
	renderer *renderer.Renderer
	forward  *ForwardRenderQueue
	queue    *DeferredRenderQueue
}

func NewDeferredRenderTechnique(r *renderer.Renderer, cfg *config.Config) *DeferredRenderTechnique {
	forward := NewForwardRenderQueue()
	return &DeferredRenderTechnique{
		renderer: r,
		forward:  forward,
		queue:    NewDeferredRenderQueue(forward, cfg),
	}
}

// Queue exposes the deferred queue submissions go into.
func (t *DeferredRenderTechnique) Queue() *DeferredRenderQueue {
	return t.queue
}

// Draw renders this frame's submissions: opaque batches in clustering order,
// then sprites, then the forward queue's blended geometry and drawables in
// submission order. Afterwards the per-frame data is reset while the buckets
// and their subscriptions stay alive for the next frame.
func (t *DeferredRenderTechnique) Draw() {
	for _, batch := range t.queue.OpaqueBatches() {
		if !batch.Used() {
			continue
		}
		if !batch.Material().Apply(t.renderer) {
			core.LogError("failed to apply material, skipping batch")
			continue
		}

		instanced := batch.UseInstancing() && t.renderer.SupportsInstancing()
		for _, entry := range batch.Meshes() {
			transforms := entry.Transforms()
			if len(transforms) == 0 {
				continue
			}
			t.drawSubMesh(entry.SubMesh(), transforms, instanced)
		}
	}

	for _, batch := range t.queue.SpriteBatches() {
		sprites := batch.Sprites()
		if len(sprites) == 0 {
			continue
		}
		if !batch.Material().Apply(t.renderer) {
			core.LogError("failed to apply material, skipping sprites")
			continue
		}

		for _, sprite := range sprites {
			if sprite.Geometry() == nil {
				continue
			}
			t.drawSubMesh(sprite.Geometry(), []math.Mat4{sprite.TransformMatrix()}, false)
		}
	}

	for _, blended := range t.forward.BlendedSubMeshes() {
		if !blended.Material.Apply(t.renderer) {
			continue
		}
		t.drawSubMesh(blended.SubMesh, []math.Mat4{blended.Transform}, false)
	}

	for _, sprite := range t.forward.Sprites() {
		if sprite.Geometry() == nil || sprite.Material() == nil {
			continue
		}
		if !sprite.Material().Apply(t.renderer) {
			continue
		}
		t.drawSubMesh(sprite.Geometry(), []math.Mat4{sprite.TransformMatrix()}, false)
	}

	for _, drawable := range t.forward.Drawables() {
		drawable.Draw(t.renderer)
	}

	for _, batch := range t.queue.opaque {
		batch.resetFrame()
	}
	for _, batch := range t.queue.sprites {
		batch.sprites = batch.sprites[:0]
	}
	t.queue.Clear(false)
}

// Shutdown releases the queue's subscriptions.
func (t *DeferredRenderTechnique) Shutdown() {
	t.queue.Clear(true)
}

func (t *DeferredRenderTechnique) drawSubMesh(subMesh SubMesh, transforms []math.Mat4, instanced bool) {
	t.renderer.SetVertexBuffer(subMesh.VertexBuffer())
	t.renderer.SetIndexBuffer(subMesh.IndexBuffer())

	mode := subMesh.PrimitiveMode()
	indexBuffer := subMesh.IndexBuffer()

	if instanced && len(transforms) > 1 {
		if !t.renderer.UploadInstanceTransforms(transforms) {
			return
		}
		if indexBuffer != nil {
			t.renderer.DrawIndexedPrimitivesInstanced(len(transforms), mode, 0, indexBuffer.IndexCount())
		} else {
			t.renderer.DrawPrimitivesInstanced(len(transforms), mode, 0, subMesh.VertexBuffer().VertexCount())
		}
		return
	}

	for i := range transforms {
		t.renderer.SetMatrix(renderer.MatrixWorld, transforms[i])
		if indexBuffer != nil {
			t.renderer.DrawIndexedPrimitives(mode, 0, indexBuffer.IndexCount())
		} else {
			t.renderer.DrawPrimitives(mode, 0, subMesh.VertexBuffer().VertexCount())
		}
	}
}
