package graphics

import (
	"github.com/cantarcan/NazaraEngine/engine/math"
)

// BlendedSubMesh is one blended submission kept in submission order, since
// blended geometry cannot be reordered for batching.
type BlendedSubMesh struct {
	Material  Material
	SubMesh   SubMesh
	Transform math.Mat4
}

// ForwardRenderQueue is the non-batched fallback: everything the deferred
// queue cannot batch lands here and is drawn in submission order.
type ForwardRenderQueue struct {
	blended   []BlendedSubMesh
	sprites   []*Sprite
	drawables []Drawable

	directionalLights []*Light
	pointLights       []*Light
	spotLights        []*Light
}

func NewForwardRenderQueue() *ForwardRenderQueue {
	return &ForwardRenderQueue{}
}

func (q *ForwardRenderQueue) AddSubMesh(material Material, subMesh SubMesh, transform math.Mat4) {
	q.blended = append(q.blended, BlendedSubMesh{
		Material:  material,
		SubMesh:   subMesh,
		Transform: transform,
	})
}

func (q *ForwardRenderQueue) AddSprite(sprite *Sprite) {
	q.sprites = append(q.sprites, sprite)
}

func (q *ForwardRenderQueue) AddDrawable(drawable Drawable) {
	q.drawables = append(q.drawables, drawable)
}

func (q *ForwardRenderQueue) AddLight(light *Light) {
	switch light.Kind() {
	case LightDirectional:
		q.directionalLights = append(q.directionalLights, light)
	case LightPoint:
		q.pointLights = append(q.pointLights, light)
	case LightSpot:
		q.spotLights = append(q.spotLights, light)
	}
}

func (q *ForwardRenderQueue) BlendedSubMeshes() []BlendedSubMesh {
	return q.blended
}

func (q *ForwardRenderQueue) Sprites() []*Sprite {
	return q.sprites
}

func (q *ForwardRenderQueue) Drawables() []Drawable {
	return q.drawables
}

func (q *ForwardRenderQueue) DirectionalLights() []*Light {
	return q.directionalLights
}

func (q *ForwardRenderQueue) PointLights() []*Light {
	return q.pointLights
}

func (q *ForwardRenderQueue) SpotLights() []*Light {
	return q.spotLights
}

// Clear drops the per-frame submissions. The queue holds no subscriptions,
// so fully has nothing extra to release here.
func (q *ForwardRenderQueue) Clear(fully bool) {
	q.blended = q.blended[:0]
	q.sprites = q.sprites[:0]
	q.drawables = q.drawables[:0]
	q.directionalLights = q.directionalLights[:0]
	q.pointLights = q.pointLights[:0]
	q.spotLights = q.spotLights[:0]
}
