package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/cantarcan/NazaraEngine/engine/math"
)

// Program is a compiled and linked GLSL program.
type Program struct {
	handle uint32

	// Texture uniforms registered with their unit, rebound on every state
	// synchronization.
	textureUniforms map[int32]int32
}

// NewProgram compiles both stages and links them. Shader sources do not need
// a trailing NUL.
func NewProgram(vertexSource, fragmentSource string) (*Program, error) {
	vertex, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragment)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertex)
	gl.AttachShader(handle, fragment)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("link failed: %s", log)
	}

	return &Program{
		handle:          handle,
		textureUniforms: make(map[int32]int32),
	}, nil
}

func (p *Program) Handle() uint32 {
	return p.handle
}

func (p *Program) Bind() {
	gl.UseProgram(p.handle)
}

func (p *Program) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
}

func (p *Program) SendMatrix(location int32, matrix math.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &matrix.Data[0])
}

func (p *Program) SendVector2(location int32, vector math.Vec2) {
	gl.Uniform2f(location, vector.X, vector.Y)
}

// SetTextureUnit pins a sampler uniform to a texture unit; BindTextures
// restores the pinning whenever the program is reapplied.
func (p *Program) SetTextureUnit(name string, unit int) {
	if location := p.UniformLocation(name); location != -1 {
		p.textureUniforms[location] = int32(unit)
	}
}

func (p *Program) BindTextures() {
	for location, unit := range p.textureUniforms {
		gl.Uniform1i(location, unit)
	}
}

func (p *Program) Destroy() {
	gl.DeleteProgram(p.handle)
	p.handle = 0
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	sources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, sources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
