package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/math"
)

// MatrixType identifies one of the semantic pipeline matrices: three base
// matrices set by the caller, three composites derived from them, and the
// six inverses.
type MatrixType uint8

const (
	MatrixProjection MatrixType = iota
	MatrixView
	MatrixWorld
	MatrixViewProj
	MatrixWorldView
	MatrixWorldViewProj
	MatrixInvProjection
	MatrixInvView
	MatrixInvWorld
	MatrixInvViewProj
	MatrixInvWorldView
	MatrixInvWorldViewProj

	matrixTypeCount
)

func (mt MatrixType) String() string {
	switch mt {
	case MatrixProjection:
		return "Projection"
	case MatrixView:
		return "View"
	case MatrixWorld:
		return "World"
	case MatrixViewProj:
		return "ViewProj"
	case MatrixWorldView:
		return "WorldView"
	case MatrixWorldViewProj:
		return "WorldViewProj"
	case MatrixInvProjection:
		return "InvProjection"
	case MatrixInvView:
		return "InvView"
	case MatrixInvWorld:
		return "InvWorld"
	case MatrixInvViewProj:
		return "InvViewProj"
	case MatrixInvWorldView:
		return "InvWorldView"
	case MatrixInvWorldViewProj:
		return "InvWorldViewProj"
	}
	return "Unknown"
}

// matrixDeps is the dependency graph: each derived matrix lists the matrices
// it is computed from. Base matrices have no dependencies. The graph is
// acyclic; recomputation recurses through it depth-first.
var matrixDeps = [matrixTypeCount][]MatrixType{
	MatrixViewProj:         {MatrixView, MatrixProjection},
	MatrixWorldView:        {MatrixWorld, MatrixView},
	MatrixWorldViewProj:    {MatrixWorldView, MatrixProjection},
	MatrixInvProjection:    {MatrixProjection},
	MatrixInvView:          {MatrixView},
	MatrixInvWorld:         {MatrixWorld},
	MatrixInvViewProj:      {MatrixViewProj},
	MatrixInvWorldView:     {MatrixWorldView},
	MatrixInvWorldViewProj: {MatrixWorldViewProj},
}

// matrixInvalidations is the reverse transitive closure of matrixDeps:
// setting matrix t marks every entry of matrixInvalidations[t] not-valid.
// Built once at package init so the invalidation rule stays derived from the
// one dependency table instead of being spelled out per case.
var matrixInvalidations [matrixTypeCount][]MatrixType

func init() {
	for derived := MatrixType(0); derived < matrixTypeCount; derived++ {
		seen := [matrixTypeCount]bool{}
		var visit func(t MatrixType)
		visit = func(t MatrixType) {
			if seen[t] {
				return
			}
			seen[t] = true
			for dep := MatrixType(0); dep < matrixTypeCount; dep++ {
				for _, d := range matrixDeps[dep] {
					if d == t {
						visit(dep)
					}
				}
			}
		}
		visit(derived)
		for t := MatrixType(0); t < matrixTypeCount; t++ {
			if seen[t] && t != derived {
				matrixInvalidations[derived] = append(matrixInvalidations[derived], t)
			}
		}
	}
}

// matrixUniformNames maps every matrix unit to the uniform the bound shader
// program may declare for it.
var matrixUniformNames = [matrixTypeCount]string{
	MatrixProjection:       UniformProjMatrix,
	MatrixView:             UniformViewMatrix,
	MatrixWorld:            UniformWorldMatrix,
	MatrixViewProj:         UniformViewProjMatrix,
	MatrixWorldView:        UniformWorldViewMatrix,
	MatrixWorldViewProj:    UniformWorldViewProjMatrix,
	MatrixInvProjection:    UniformInvProjMatrix,
	MatrixInvView:          UniformInvViewMatrix,
	MatrixInvWorld:         UniformInvWorldMatrix,
	MatrixInvViewProj:      UniformInvViewProjMatrix,
	MatrixInvWorldView:     UniformInvWorldViewMatrix,
	MatrixInvWorldViewProj: UniformInvWorldViewProjMatrix,
}

// matrixUnit pairs a matrix value with its validity bit and the uniform
// location resolved against the current program (-1 when the program does
// not declare it).
type matrixUnit struct {
	matrix   math.Mat4
	valid    bool
	location int32
}

// SetMatrix stores the given matrix and invalidates every matrix depending
// on it, without recomputing anything. Derived matrices may be set directly
// too, in which case only their own dependents are invalidated.
func (r *Renderer) SetMatrix(matrixType MatrixType, matrix math.Mat4) {
	if matrixType >= matrixTypeCount {
		core.LogError("matrix type out of enum: %d", matrixType)
		return
	}

	r.matrices[matrixType].matrix = matrix
	r.matrices[matrixType].valid = true

	for _, dependent := range matrixInvalidations[matrixType] {
		r.matrices[dependent].valid = false
	}

	r.flags |= updateMatrices
}

// GetMatrix returns the requested matrix, lazily recomputing it (and any
// invalid matrix it depends on) first.
func (r *Renderer) GetMatrix(matrixType MatrixType) math.Mat4 {
	if matrixType >= matrixTypeCount {
		core.LogError("matrix type out of enum: %d", matrixType)
		return math.NewMat4Identity()
	}

	if !r.matrices[matrixType].valid {
		r.updateMatrix(matrixType)
	}

	return r.matrices[matrixType].matrix
}

// MatrixRecomputations counts how many matrix recomputations happened since
// the renderer was created. Reads of valid matrices do not increase it.
func (r *Renderer) MatrixRecomputations() uint64 {
	return r.recomputeCount
}

func (r *Renderer) updateMatrix(matrixType MatrixType) {
	unit := &r.matrices[matrixType]
	deps := matrixDeps[matrixType]

	// Dependencies first; the graph is acyclic so this terminates.
	for _, dep := range deps {
		if !r.matrices[dep].valid {
			r.updateMatrix(dep)
		}
	}

	switch matrixType {
	case MatrixProjection, MatrixView, MatrixWorld:
		// Base matrices hold whatever the caller last set.

	case MatrixViewProj:
		unit.matrix = r.matrices[MatrixView].matrix.Mul(r.matrices[MatrixProjection].matrix)
		r.recomputeCount++

	case MatrixWorldView:
		unit.matrix = r.matrices[MatrixWorld].matrix.Mul(r.matrices[MatrixView].matrix)
		r.recomputeCount++

	case MatrixWorldViewProj:
		unit.matrix = r.matrices[MatrixWorldView].matrix.Mul(r.matrices[MatrixProjection].matrix)
		r.recomputeCount++

	case MatrixInvProjection, MatrixInvView, MatrixInvWorld,
		MatrixInvViewProj, MatrixInvWorldView, MatrixInvWorldViewProj:
		source := deps[0]
		inverse, ok := r.matrices[source].matrix.Inverse()
		if ok {
			unit.matrix = inverse
		} else {
			// Stale-on-failure: keep the last valid inverse.
			core.LogWarn("failed to inverse %s matrix", source.String())
		}
		r.recomputeCount++
	}

	unit.valid = true
}
