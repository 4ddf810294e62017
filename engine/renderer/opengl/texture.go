package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// Texture is a 2D RGBA texture with lazily regenerated mipmaps.
type Texture struct {
	res resource.Resource

	handle  uint32
	width   int
	height  int
	mipmaps bool

	// Set when the pixel data changed since the last mipmap generation.
	mipmapsDirty bool
}

// NewTexture uploads RGBA pixels (4 bytes per texel, row major).
func NewTexture(name string, width, height int, pixels []byte, mipmaps bool) *Texture {
	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	return &Texture{
		res:          resource.NewResource(name),
		handle:       handle,
		width:        width,
		height:       height,
		mipmaps:      mipmaps,
		mipmapsDirty: mipmaps,
	}
}

func (t *Texture) Resource() *resource.Resource {
	return &t.res
}

func (t *Texture) TextureType() renderer.TextureType {
	return renderer.Texture2D
}

func (t *Texture) Handle() uint32 {
	return t.handle
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

func (t *Texture) HasMipmaps() bool {
	return t.mipmaps
}

// Update replaces the pixel data and marks the mipmap chain stale.
func (t *Texture) Update(pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	t.mipmapsDirty = t.mipmaps
}

// EnsureMipmapsUpdated regenerates the mipmap chain if the pixel data
// changed. Called by the state synchronizer with the texture's unit active.
func (t *Texture) EnsureMipmapsUpdated() {
	if !t.mipmapsDirty {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	t.mipmapsDirty = false
}

// Destroy notifies subscribed listeners, then deletes the GPU object.
func (t *Texture) Destroy() {
	t.res.NotifyDestroy()
	gl.DeleteTextures(1, &t.handle)
	t.handle = 0
}
