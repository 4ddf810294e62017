package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

type testMaterial struct {
	res resource.Resource

	blended    bool
	programKey uint32
	diffuseID  uint32
}

func newTestMaterial(name string) *testMaterial {
	return &testMaterial{res: resource.NewResource(name)}
}

func (m *testMaterial) Resource() *resource.Resource { return &m.res }
func (m *testMaterial) IsBlendEnabled() bool         { return m.blended }
func (m *testMaterial) ShaderProgramKey(target ShaderTarget, flags ShaderFlags) uint32 {
	return m.programKey
}
func (m *testMaterial) DiffuseTextureID() uint32        { return m.diffuseID }
func (m *testMaterial) Apply(r *renderer.Renderer) bool { return true }

type testSubMesh struct {
	res resource.Resource

	kind          AnimationKind
	materialIndex int
	indexBuffer   *renderer.IndexBuffer
	vertexBuffer  *renderer.VertexBuffer
}

func newTestSubMesh(name string) *testSubMesh {
	return &testSubMesh{res: resource.NewResource(name)}
}

func (sm *testSubMesh) Resource() *resource.Resource          { return &sm.res }
func (sm *testSubMesh) AnimationKind() AnimationKind          { return sm.kind }
func (sm *testSubMesh) MaterialIndex() int                    { return sm.materialIndex }
func (sm *testSubMesh) IndexBuffer() *renderer.IndexBuffer    { return sm.indexBuffer }
func (sm *testSubMesh) VertexBuffer() *renderer.VertexBuffer  { return sm.vertexBuffer }
func (sm *testSubMesh) PrimitiveMode() renderer.PrimitiveMode { return renderer.PrimitiveTriangleList }

func newTestQueue(minInstances int) (*DeferredRenderQueue, *ForwardRenderQueue) {
	cfg := config.Default()
	cfg.Instancing.MinInstances = minInstances
	forward := NewForwardRenderQueue()
	return NewDeferredRenderQueue(forward, cfg), forward
}

func TestInstancingThresholdSticky(t *testing.T) {
	queue, _ := newTestQueue(100)

	material := newTestMaterial("material")
	mesh := newTestSubMesh("mesh")
	identity := math.NewMat4Identity()

	for i := 0; i < 99; i++ {
		queue.AddSubMesh(material, mesh, identity)
	}

	batches := queue.OpaqueBatches()
	require.Len(t, batches, 1)
	assert.False(t, batches[0].UseInstancing())
	assert.True(t, batches[0].Used())

	// The 100th submission crosses the threshold.
	queue.AddSubMesh(material, mesh, identity)
	assert.True(t, batches[0].UseInstancing())

	// A submission to a different mesh under the same material does not
	// reset the sticky flag.
	other := newTestSubMesh("other")
	queue.AddSubMesh(material, other, identity)
	assert.True(t, batches[0].UseInstancing())

	meshes := batches[0].Meshes()
	require.Len(t, meshes, 2)
	total := len(meshes[0].Transforms()) + len(meshes[1].Transforms())
	assert.Equal(t, 101, total)
}

func TestBlendedSubMeshGoesForwardOnly(t *testing.T) {
	queue, forward := newTestQueue(100)

	material := newTestMaterial("blended")
	material.blended = true
	mesh := newTestSubMesh("mesh")

	queue.AddSubMesh(material, mesh, math.NewMat4Identity())

	assert.Empty(t, queue.OpaqueBatches())
	require.Len(t, forward.BlendedSubMeshes(), 1)
	assert.Same(t, material, forward.BlendedSubMeshes()[0].Material)
}

func TestSkeletalSubMeshDropped(t *testing.T) {
	queue, forward := newTestQueue(100)

	material := newTestMaterial("material")
	mesh := newTestSubMesh("skinned")
	mesh.kind = AnimationSkeletal

	queue.AddSubMesh(material, mesh, math.NewMat4Identity())

	assert.Empty(t, queue.OpaqueBatches())
	assert.Empty(t, forward.BlendedSubMeshes())
}

func TestAddModelResolvesMaterialSlots(t *testing.T) {
	queue, _ := newTestQueue(100)

	first := newTestMaterial("first")
	second := newTestMaterial("second")

	subA := newTestSubMesh("a")
	subB := newTestSubMesh("b")
	subB.materialIndex = 1

	mesh := NewMesh("mesh")
	mesh.AddSubMesh(subA)
	mesh.AddSubMesh(subB)

	model := NewModel(mesh, []Material{first, second})
	model.SetTransformMatrix(math.NewMat4Translation(math.NewVec3(1, 2, 3)))
	queue.AddModel(model)

	batches := queue.OpaqueBatches()
	require.Len(t, batches, 2)
	for _, batch := range batches {
		require.Len(t, batch.Meshes(), 1)
		transforms := batch.Meshes()[0].Transforms()
		require.Len(t, transforms, 1)
		assert.True(t, transforms[0].Compare(model.TransformMatrix(), 1e-6))
	}
}

func TestAddLightClassification(t *testing.T) {
	queue, forward := newTestQueue(100)

	sun := NewDirectionalLight(math.NewVec3(0, -1, 0))
	bulb := NewPointLight(math.NewVec3(1, 1, 1), 5)
	torch := NewSpotLight(math.NewVec3(0, 2, 0), math.NewVec3(0, -1, 0), 0.3, 0.5)

	queue.AddLight(sun)
	queue.AddLight(bulb)
	queue.AddLight(torch)

	assert.Equal(t, []*Light{sun}, queue.DirectionalLights())
	assert.Equal(t, []*Light{bulb}, queue.PointLights())
	assert.Equal(t, []*Light{torch}, queue.SpotLights())

	// Lights are recorded by the fallback queue too.
	assert.Len(t, forward.DirectionalLights(), 1)
	assert.Len(t, forward.PointLights(), 1)
	assert.Len(t, forward.SpotLights(), 1)
}

func TestAddSpriteBuckets(t *testing.T) {
	queue, forward := newTestQueue(100)

	opaque := newTestMaterial("opaque")
	blended := newTestMaterial("blended")
	blended.blended = true

	queue.AddSprite(NewSprite("a", opaque))
	queue.AddSprite(NewSprite("b", opaque))
	queue.AddSprite(NewSprite("c", blended))

	batches := queue.SpriteBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Sprites(), 2)
	assert.Len(t, forward.Sprites(), 1)
}

func TestClearPartialKeepsSubscriptions(t *testing.T) {
	queue, _ := newTestQueue(100)

	material := newTestMaterial("material")
	mesh := newTestSubMesh("mesh")
	queue.AddSubMesh(material, mesh, math.NewMat4Identity())
	queue.AddLight(NewPointLight(math.NewVec3(0, 0, 0), 1))

	queue.Clear(false)

	// Buckets and their contents survive a partial clear; only the light
	// lists are dropped.
	assert.Len(t, queue.OpaqueBatches(), 1)
	assert.Empty(t, queue.PointLights())

	// The material subscription is still live: destruction evicts.
	material.res.NotifyDestroy()
	assert.Empty(t, queue.OpaqueBatches())
}

func TestClearFullyUnsubscribes(t *testing.T) {
	queue, _ := newTestQueue(100)

	material := newTestMaterial("material")
	mesh := newTestSubMesh("mesh")
	queue.AddSubMesh(material, mesh, math.NewMat4Identity())
	queue.AddSprite(NewSprite("s", material))

	queue.Clear(true)
	assert.Empty(t, queue.OpaqueBatches())
	assert.Empty(t, queue.SpriteBatches())

	// Fresh submissions after the full clear resubscribe from scratch.
	queue.AddSubMesh(material, mesh, math.NewMat4Identity())
	require.Len(t, queue.OpaqueBatches(), 1)

	mesh.res.NotifyDestroy()
	assert.Empty(t, queue.OpaqueBatches()[0].Meshes())
}

func TestMeshDestructionEvictsAcrossMaterials(t *testing.T) {
	queue, _ := newTestQueue(100)

	first := newTestMaterial("first")
	second := newTestMaterial("second")
	shared := newTestSubMesh("shared")
	private := newTestSubMesh("private")
	identity := math.NewMat4Identity()

	queue.AddSubMesh(first, shared, identity)
	queue.AddSubMesh(second, shared, identity)
	queue.AddSubMesh(second, private, identity)

	shared.res.NotifyDestroy()

	batches := queue.OpaqueBatches()
	require.Len(t, batches, 2)
	for _, batch := range batches {
		for _, entry := range batch.Meshes() {
			assert.Same(t, private, entry.SubMesh())
		}
	}
}

func TestMaterialDestructionDropsBucket(t *testing.T) {
	queue, _ := newTestQueue(100)

	doomed := newTestMaterial("doomed")
	survivor := newTestMaterial("survivor")
	mesh := newTestSubMesh("mesh")
	identity := math.NewMat4Identity()

	queue.AddSubMesh(doomed, mesh, identity)
	queue.AddSubMesh(survivor, mesh, identity)
	queue.AddSprite(NewSprite("s", doomed))

	doomed.res.NotifyDestroy()

	batches := queue.OpaqueBatches()
	require.Len(t, batches, 1)
	assert.Same(t, survivor, batches[0].Material())
	assert.Empty(t, queue.SpriteBatches())
}

func TestOpaqueBatchOrdering(t *testing.T) {
	queue, _ := newTestQueue(100)
	identity := math.NewMat4Identity()

	// Same program key, different diffuse maps: diffuse breaks the tie.
	matA := newTestMaterial("a")
	matA.programKey = 1
	matA.diffuseID = 9
	matB := newTestMaterial("b")
	matB.programKey = 1
	matB.diffuseID = 3
	// Lower program key sorts first regardless of diffuse.
	matC := newTestMaterial("c")
	matC.programKey = 0
	matC.diffuseID = 50

	queue.AddSubMesh(matA, newTestSubMesh("ma"), identity)
	queue.AddSubMesh(matB, newTestSubMesh("mb"), identity)
	queue.AddSubMesh(matC, newTestSubMesh("mc"), identity)

	batches := queue.OpaqueBatches()
	require.Len(t, batches, 3)
	assert.Same(t, matC, batches[0].Material())
	assert.Same(t, matB, batches[1].Material())
	assert.Same(t, matA, batches[2].Material())
}

func TestMeshOrderingWithinBatch(t *testing.T) {
	queue, _ := newTestQueue(100)
	identity := math.NewMat4Identity()

	material := newTestMaterial("material")

	declaration := renderer.NewVertexDeclaration("decl", 12, nil)
	ibSmall := renderer.NewIndexBuffer("ib-small", 1, false, 6)
	ibLarge := renderer.NewIndexBuffer("ib-large", 2, false, 6)
	vb := renderer.NewVertexBuffer("vb", 1, declaration, 4)

	withLarge := newTestSubMesh("with-large")
	withLarge.indexBuffer = ibLarge
	withLarge.vertexBuffer = vb
	withSmall := newTestSubMesh("with-small")
	withSmall.indexBuffer = ibSmall
	withSmall.vertexBuffer = vb
	noIndex := newTestSubMesh("no-index")
	noIndex.vertexBuffer = vb

	queue.AddSubMesh(material, withLarge, identity)
	queue.AddSubMesh(material, noIndex, identity)
	queue.AddSubMesh(material, withSmall, identity)

	meshes := queue.OpaqueBatches()[0].Meshes()
	require.Len(t, meshes, 3)

	// Absent index buffers sort first, then index buffer identity decides.
	assert.Same(t, noIndex, meshes[0].SubMesh())
	if ibSmall.UniqueID() < ibLarge.UniqueID() {
		assert.Same(t, withSmall, meshes[1].SubMesh())
		assert.Same(t, withLarge, meshes[2].SubMesh())
	} else {
		assert.Same(t, withLarge, meshes[1].SubMesh())
		assert.Same(t, withSmall, meshes[2].SubMesh())
	}
}
