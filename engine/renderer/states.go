package renderer

type BlendFunc uint8

const (
	BlendZero BlendFunc = iota
	BlendOne
	BlendSrcColor
	BlendInvSrcColor
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDstColor
	BlendInvDstColor
	BlendDstAlpha
	BlendInvDstAlpha

	blendFuncCount
)

type RendererComparison uint8

const (
	ComparisonNever RendererComparison = iota
	ComparisonLess
	ComparisonLessOrEqual
	ComparisonEqual
	ComparisonNotEqual
	ComparisonGreaterOrEqual
	ComparisonGreater
	ComparisonAlways

	rendererComparisonCount
)

type FaceSide uint8

const (
	FaceBack FaceSide = iota
	FaceFront
	FaceFrontAndBack

	faceSideCount
)

type FaceFilling uint8

const (
	FillPoint FaceFilling = iota
	FillLine
	FillSolid

	faceFillingCount
)

type StencilOperation uint8

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrement
	StencilIncrementWrap
	StencilDecrement
	StencilDecrementWrap
	StencilInvert

	stencilOperationCount
)

// RendererParameter is a togglable fixed-function state.
type RendererParameter uint8

const (
	ParameterBlend RendererParameter = iota
	ParameterColorWrite
	ParameterDepthBuffer
	ParameterDepthWrite
	ParameterFaceCulling
	ParameterScissorTest
	ParameterStencilTest

	rendererParameterCount
)

// StencilFace holds the stencil configuration of one face side.
type StencilFace struct {
	StencilCompare   RendererComparison
	StencilMask      uint32
	StencilReference uint32
	StencilFail      StencilOperation
	StencilPass      StencilOperation
	StencilZFail     StencilOperation
}

// RenderStates is the full block of non-uniform pipeline state, applied to
// the device in one batch at the end of every state synchronization.
type RenderStates struct {
	SrcBlend  BlendFunc
	DstBlend  BlendFunc
	DepthFunc RendererComparison

	FaceCulling FaceSide
	FaceFilling FaceFilling

	FrontFace StencilFace
	BackFace  StencilFace

	LineWidth float32
	PointSize float32

	Parameters [rendererParameterCount]bool
}

func DefaultRenderStates() RenderStates {
	states := RenderStates{
		SrcBlend:    BlendOne,
		DstBlend:    BlendZero,
		DepthFunc:   ComparisonLess,
		FaceCulling: FaceBack,
		FaceFilling: FillSolid,
		LineWidth:   1.0,
		PointSize:   1.0,
	}
	states.FrontFace = StencilFace{
		StencilCompare: ComparisonAlways,
		StencilMask:    0xFFFFFFFF,
		StencilFail:    StencilKeep,
		StencilPass:    StencilKeep,
		StencilZFail:   StencilKeep,
	}
	states.BackFace = states.FrontFace
	states.Parameters[ParameterColorWrite] = true
	states.Parameters[ParameterDepthBuffer] = true
	states.Parameters[ParameterDepthWrite] = true
	return states
}
