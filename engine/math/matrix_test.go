package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func TestMat4MulIdentity(t *testing.T) {
	id := NewMat4Identity()
	m := NewMat4Translation(NewVec3(1, 2, 3))

	assert.True(t, m.Mul(id).Compare(m, tolerance))
	assert.True(t, id.Mul(m).Compare(m, tolerance))
}

func TestMat4InverseTranslation(t *testing.T) {
	m := NewMat4Translation(NewVec3(4, -2, 7))

	inv, ok := m.Inverse()
	require.True(t, ok)

	assert.True(t, m.Mul(inv).Compare(NewMat4Identity(), tolerance))
}

func TestMat4InversePerspective(t *testing.T) {
	m := NewMat4Perspective(Pi/4.0, 16.0/9.0, 0.1, 1000.0)

	inv, ok := m.Inverse()
	require.True(t, ok)

	assert.True(t, m.Mul(inv).Compare(NewMat4Identity(), 1e-3))
}

func TestMat4InverseSingular(t *testing.T) {
	// All-zero scale collapses space; the determinant is zero.
	m := NewMat4Scale(NewVec3(0, 0, 0))

	_, ok := m.Inverse()
	assert.False(t, ok)
}

func TestMat4EulerY(t *testing.T) {
	// A full turn comes back to identity, a quarter turn does not.
	full := NewMat4EulerY(2 * Pi)
	assert.True(t, full.Compare(NewMat4Identity(), tolerance))

	quarter := NewMat4EulerY(Pi / 2.0)
	assert.False(t, quarter.Compare(NewMat4Identity(), tolerance))

	inv, ok := quarter.Inverse()
	require.True(t, ok)
	assert.True(t, inv.Compare(NewMat4EulerY(-Pi/2.0), tolerance))
}

func TestVec3MulScalar(t *testing.T) {
	v := NewVec3(1, -2, 3).MulScalar(2)

	assert.True(t, v.Compare(NewVec3(2, -4, 6), tolerance))
}

func TestMat4Transposed(t *testing.T) {
	m := NewMat4LookAt(NewVec3(0, 0, 5), NewVec3Zero(), NewVec3Up())

	assert.True(t, m.Transposed().Transposed().Compare(m, tolerance))
}

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	assert.True(t, x.Cross(y).Compare(NewVec3(0, 0, 1), tolerance))
}
