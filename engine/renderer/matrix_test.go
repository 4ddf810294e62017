package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantarcan/NazaraEngine/engine/math"
)

func TestMatrixDependencyClosure(t *testing.T) {
	// Invalidating World must reach every matrix built on it, directly or
	// through another derived matrix.
	assert.ElementsMatch(t, []MatrixType{
		MatrixInvWorld, MatrixWorldView, MatrixInvWorldView,
		MatrixWorldViewProj, MatrixInvWorldViewProj,
	}, matrixInvalidations[MatrixWorld])

	// Base matrices depend on nothing.
	assert.Empty(t, matrixDeps[MatrixProjection])
	assert.Empty(t, matrixDeps[MatrixView])
	assert.Empty(t, matrixDeps[MatrixWorld])
}

func TestGetMatrixLazyRecompute(t *testing.T) {
	r, _, _ := newTestRenderer()

	world := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	view := math.NewMat4Translation(math.NewVec3(0, 0, -10))
	proj := math.NewMat4Perspective(1.0, 4.0/3.0, 0.1, 100.0)

	r.SetMatrix(MatrixWorld, world)
	r.SetMatrix(MatrixView, view)
	r.SetMatrix(MatrixProjection, proj)

	// Setting never computes.
	require.Zero(t, r.MatrixRecomputations())

	got := r.GetMatrix(MatrixWorldViewProj)
	expected := world.Mul(view).Mul(proj)
	assert.True(t, got.Compare(expected, 1e-5))

	// WorldView then WorldViewProj.
	assert.Equal(t, uint64(2), r.MatrixRecomputations())

	// Reading again recomputes nothing.
	r.GetMatrix(MatrixWorldViewProj)
	r.GetMatrix(MatrixWorldView)
	assert.Equal(t, uint64(2), r.MatrixRecomputations())

	// A new world matrix invalidates the chain; one read rebuilds it.
	r.SetMatrix(MatrixWorld, math.NewMat4Translation(math.NewVec3(5, 0, 0)))
	r.GetMatrix(MatrixWorldViewProj)
	assert.Equal(t, uint64(4), r.MatrixRecomputations())
}

func TestSetDerivedMatrixDirectly(t *testing.T) {
	r, _, _ := newTestRenderer()

	override := math.NewMat4Translation(math.NewVec3(7, 7, 7))
	r.SetMatrix(MatrixViewProj, override)

	// The override sticks without any recomputation.
	got := r.GetMatrix(MatrixViewProj)
	assert.True(t, got.Compare(override, 1e-6))
	assert.Zero(t, r.MatrixRecomputations())

	// Its own dependent went stale.
	inv := r.GetMatrix(MatrixInvViewProj)
	expected, ok := override.Inverse()
	require.True(t, ok)
	assert.True(t, inv.Compare(expected, 1e-5))
}

func TestSingularMatrixKeepsStaleInverse(t *testing.T) {
	r, _, _ := newTestRenderer()

	r.SetMatrix(MatrixWorld, math.NewMat4Translation(math.NewVec3(1, 0, 0)))
	goodInverse := r.GetMatrix(MatrixInvWorld)

	// Scale by zero is not invertible; the last good inverse survives.
	r.SetMatrix(MatrixWorld, math.NewMat4Scale(math.NewVec3(0, 0, 0)))
	staleInverse := r.GetMatrix(MatrixInvWorld)
	assert.True(t, staleInverse.Compare(goodInverse, 1e-6))

	// The attempt still counts as a recomputation and revalidates the
	// unit, so reading again does not retry.
	count := r.MatrixRecomputations()
	r.GetMatrix(MatrixInvWorld)
	assert.Equal(t, count, r.MatrixRecomputations())
}

func TestSingularProjectionKeepsStaleInverse(t *testing.T) {
	r, _, _ := newTestRenderer()

	r.SetMatrix(MatrixProjection, math.NewMat4Perspective(1.2, 4.0/3.0, 0.1, 100))
	goodInverse := r.GetMatrix(MatrixInvProjection)

	// The zero matrix is not invertible.
	r.SetMatrix(MatrixProjection, math.Mat4{})
	staleInverse := r.GetMatrix(MatrixInvProjection)
	assert.True(t, staleInverse.Compare(goodInverse, 1e-6))

	count := r.MatrixRecomputations()
	r.GetMatrix(MatrixInvProjection)
	assert.Equal(t, count, r.MatrixRecomputations())
}

func TestEnsureStateAppliedSendsMatrices(t *testing.T) {
	r, _, program := newTestRenderer()

	world := math.NewMat4Translation(math.NewVec3(2, 0, 0))
	r.SetMatrix(MatrixWorld, world)

	require.True(t, r.EnsureStateApplied())

	// Every declared matrix uniform got an upload.
	assert.Len(t, program.sentMatrices, int(matrixTypeCount))

	location := program.uniforms[UniformWorldMatrix]
	assert.True(t, program.sentMatrices[location].Compare(world, 1e-6))
}
