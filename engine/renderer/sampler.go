package renderer

type SamplerFilter uint8

const (
	SamplerFilterNearest SamplerFilter = iota
	SamplerFilterBilinear
	SamplerFilterTrilinear

	samplerFilterCount
)

type SamplerWrap uint8

const (
	SamplerWrapClamp SamplerWrap = iota
	SamplerWrapMirroredRepeat
	SamplerWrapRepeat

	samplerWrapCount
)

// TextureSampler is a value describing how a bound texture is filtered and
// addressed. Each texture unit carries its own copy together with a dirty
// flag; the sampler only reaches the device when that flag is set.
type TextureSampler struct {
	Filter          SamplerFilter
	WrapMode        SamplerWrap
	AnisotropyLevel uint8

	mipmaps bool
}

func NewTextureSampler() TextureSampler {
	return TextureSampler{
		Filter:   SamplerFilterTrilinear,
		WrapMode: SamplerWrapRepeat,
		mipmaps:  true,
	}
}

// UseMipmaps reconciles the sampler with the mipmap state of the texture it
// serves and reports whether the sampler changed, in which case it has to be
// reapplied.
func (ts *TextureSampler) UseMipmaps(mipmaps bool) bool {
	if ts.mipmaps != mipmaps {
		ts.mipmaps = mipmaps
		return true
	}
	return false
}

func (ts TextureSampler) HasMipmaps() bool {
	return ts.mipmaps
}
