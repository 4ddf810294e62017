package graphics

import (
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// ShaderTarget selects which family of geometry a shader variant renders.
type ShaderTarget uint8

const (
	ShaderTargetModel ShaderTarget = iota
	ShaderTargetSprite
)

// ShaderFlags select a variant of a material's shader program.
type ShaderFlags uint32

const (
	ShaderFlagNone       ShaderFlags = 0
	ShaderFlagDeferred   ShaderFlags = 0x1
	ShaderFlagInstancing ShaderFlags = 0x2
)

// Material is what the render queues need from a material: an identity for
// subscriptions, the blending bit that routes it to the fallback queue, and
// stable keys for clustering draws that share GPU state. Apply pushes the
// material's own state onto the renderer right before its batch is drawn.
type Material interface {
	Resource() *resource.Resource
	IsBlendEnabled() bool
	// ShaderProgramKey identifies the shader variant the material would use
	// for the given target and flags. Equal keys mean no program switch
	// between two consecutive batches.
	ShaderProgramKey(target ShaderTarget, flags ShaderFlags) uint32
	// DiffuseTextureID identifies the diffuse map, zero when absent.
	DiffuseTextureID() uint32
	Apply(r *renderer.Renderer) bool
}

// StandardMaterial is a single-program material with an optional diffuse map.
type StandardMaterial struct {
	res resource.Resource

	program    renderer.ShaderProgram
	programKey uint32
	diffuse    renderer.Texture
	sampler    renderer.TextureSampler
	blending   bool

	srcBlend renderer.BlendFunc
	dstBlend renderer.BlendFunc
}

func NewStandardMaterial(name string, program renderer.ShaderProgram, programKey uint32) *StandardMaterial {
	return &StandardMaterial{
		res:        resource.NewResource(name),
		program:    program,
		programKey: programKey,
		sampler:    renderer.NewTextureSampler(),
		srcBlend:   renderer.BlendSrcAlpha,
		dstBlend:   renderer.BlendInvSrcAlpha,
	}
}

func (m *StandardMaterial) Resource() *resource.Resource {
	return &m.res
}

func (m *StandardMaterial) SetDiffuseMap(texture renderer.Texture) {
	m.diffuse = texture
}

func (m *StandardMaterial) DiffuseMap() renderer.Texture {
	return m.diffuse
}

// EnableBlending routes the material's geometry through the forward fallback
// queue, since blended draws cannot be reordered for batching.
func (m *StandardMaterial) EnableBlending(blending bool) {
	m.blending = blending
}

func (m *StandardMaterial) IsBlendEnabled() bool {
	return m.blending
}

func (m *StandardMaterial) ShaderProgramKey(target ShaderTarget, flags ShaderFlags) uint32 {
	// One program serves every variant; the key only has to be stable.
	return m.programKey
}

func (m *StandardMaterial) DiffuseTextureID() uint32 {
	if m.diffuse == nil {
		return 0
	}
	return m.diffuse.Resource().UniqueID()
}

// Apply binds the material's program, diffuse map and blending state.
func (m *StandardMaterial) Apply(r *renderer.Renderer) bool {
	if m.program == nil {
		return false
	}

	r.SetShaderProgram(m.program)

	if m.diffuse != nil {
		r.SetTexture(0, m.diffuse)
		r.SetTextureSampler(0, m.sampler)
	}

	r.Enable(renderer.ParameterBlend, m.blending)
	if m.blending {
		r.SetBlendFunc(m.srcBlend, m.dstBlend)
	}

	return true
}

// Destroy notifies subscribed queues before the material goes away.
func (m *StandardMaterial) Destroy() {
	m.res.NotifyDestroy()
}
