package renderer

import (
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// Texture is the contract the synchronizer needs from renderer-owned
// textures. Creation, upload and pixel formats live with the owner.
type Texture interface {
	Resource() *resource.Resource
	TextureType() TextureType
	Handle() uint32
	HasMipmaps() bool
	// EnsureMipmapsUpdated regenerates stale mipmap levels. Called with the
	// texture's unit active, right before the draw that samples it.
	EnsureMipmapsUpdated()
}

// RenderTarget is anything that can be rendered into: a window surface or an
// offscreen texture. Activation may perform lazy target-side preparation.
type RenderTarget interface {
	Activate() bool
	Deactivate()
	// HasContext reports whether the target brings its own rendering
	// context, in which case deactivation on target switch is skipped.
	HasContext() bool
	// EnsureUpdated performs any pending target-side work. Called at the
	// start of every state synchronization.
	EnsureUpdated()
	Width() uint32
	Height() uint32
}

// ShaderProgram is a compiled, linked program. Uniform discovery and upload
// go through integer locations; a negative location means the program does
// not declare the uniform and the synchronizer skips it from then on.
type ShaderProgram interface {
	Bind()
	UniformLocation(name string) int32
	SendMatrix(location int32, matrix math.Mat4)
	SendVector2(location int32, vector math.Vec2)
	// BindTextures rebinds the program's own texture uniforms to their
	// units. Called on every state synchronization.
	BindTextures()
}

// Shader uniform names shared between the synchronizer and the shader
// programs it drives.
const (
	UniformProjMatrix             = "ProjMatrix"
	UniformViewMatrix             = "ViewMatrix"
	UniformWorldMatrix            = "WorldMatrix"
	UniformViewProjMatrix         = "ViewProjMatrix"
	UniformWorldViewMatrix        = "WorldViewMatrix"
	UniformWorldViewProjMatrix    = "WorldViewProjMatrix"
	UniformInvProjMatrix          = "InvProjMatrix"
	UniformInvViewMatrix          = "InvViewMatrix"
	UniformInvViewProjMatrix      = "InvViewProjMatrix"
	UniformInvWorldMatrix         = "InvWorldMatrix"
	UniformInvWorldViewMatrix     = "InvWorldViewMatrix"
	UniformInvWorldViewProjMatrix = "InvWorldViewProjMatrix"
	UniformTargetSize             = "TargetSize"
	UniformInvTargetSize          = "InvTargetSize"
)
