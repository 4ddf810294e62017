package testbed

import (
	m "math"

	"github.com/cantarcan/NazaraEngine/engine"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/graphics"
	"github.com/cantarcan/NazaraEngine/engine/math"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/renderer/opengl"
)

const vertexShaderSource = `#version 330 core

layout(location = 0) in vec3 VertexPosition;
layout(location = 8) in mat4 InstanceWorldMatrix;

uniform mat4 ViewProjMatrix;

out vec3 WorldPosition;

void main() {
	vec4 world = InstanceWorldMatrix * vec4(VertexPosition, 1.0);
	WorldPosition = world.xyz;
	gl_Position = ViewProjMatrix * world;
}
`

const fragmentShaderSource = `#version 330 core

in vec3 WorldPosition;

out vec4 FragColor;

void main() {
	vec3 tint = 0.5 + 0.5 * normalize(WorldPosition);
	FragColor = vec4(tint, 1.0);
}
`

// gridSize*gridSize cubes share one material and one mesh, enough to push
// the batching queue over its instancing threshold.
const gridSize = 12

type TestGame struct {
	*engine.Game
}

type gameState struct {
	program   *opengl.Program
	material  *graphics.StandardMaterial
	subMesh   *graphics.StaticSubMesh
	mesh      *graphics.Mesh
	models    []*graphics.Model
	positions []math.Vec3
	sun       *graphics.Light

	vertexBufferHandle uint32
	indexBufferHandle  uint32

	elapsed float64
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:   100,
				StartPosY:   100,
				StartWidth:  1280,
				StartHeight: 720,
				Name:        "Nazara Renderer Testbed",
				ConfigPath:  "testbed.toml",
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	state := g.State.(*gameState)
	device := e.Device()

	// Unit cube, positions only.
	vertices := []float32{
		-0.5, -0.5, -0.5,
		0.5, -0.5, -0.5,
		0.5, 0.5, -0.5,
		-0.5, 0.5, -0.5,
		-0.5, -0.5, 0.5,
		0.5, -0.5, 0.5,
		0.5, 0.5, 0.5,
		-0.5, 0.5, 0.5,
	}
	indices := []uint32{
		0, 1, 2, 2, 3, 0,
		4, 6, 5, 6, 4, 7,
		0, 3, 7, 7, 4, 0,
		1, 5, 6, 6, 2, 1,
		3, 2, 6, 6, 7, 3,
		0, 4, 5, 5, 1, 0,
	}

	state.vertexBufferHandle = device.GenBuffer()
	device.BindBuffer(renderer.BufferVertex, state.vertexBufferHandle)
	device.BufferData(renderer.BufferVertex, vertices, false)

	state.indexBufferHandle = device.GenBuffer()
	device.BindBuffer(renderer.BufferIndex, state.indexBufferHandle)
	device.IndexBufferData(indices, false, false)

	declaration := renderer.NewVertexDeclaration("cube-positions", 12, []renderer.Attribute{
		{Location: 0, Type: renderer.AttributeFloat3, Offset: 0},
	})
	vertexBuffer := renderer.NewVertexBuffer("cube-vertices", state.vertexBufferHandle, declaration, len(vertices)/3)
	indexBuffer := renderer.NewIndexBuffer("cube-indices", state.indexBufferHandle, false, len(indices))

	state.subMesh = graphics.NewStaticSubMesh("cube", indexBuffer, vertexBuffer)
	state.mesh = graphics.NewMesh("cube")
	state.mesh.AddSubMesh(state.subMesh)

	program, err := opengl.NewProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return err
	}
	state.program = program
	state.material = graphics.NewStandardMaterial("cube-material", program, program.Handle())

	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			position := math.NewVec3(
				float32(x)*2.0-float32(gridSize),
				0,
				float32(z)*2.0-float32(gridSize),
			)
			model := graphics.NewModel(state.mesh, []graphics.Material{state.material})
			model.SetTransformMatrix(math.NewMat4Translation(position))
			state.models = append(state.models, model)
			state.positions = append(state.positions, position)
		}
	}

	state.sun = graphics.NewDirectionalLight(math.NewVec3(-0.5, -1, -0.3))

	width, height := e.Size()
	aspect := float32(width) / float32(height)
	r := e.Renderer()
	r.SetMatrix(renderer.MatrixProjection, math.NewMat4Perspective(1.2, aspect, 0.1, 200.0))
	r.Enable(renderer.ParameterDepthBuffer, true)
	r.Enable(renderer.ParameterDepthWrite, true)
	r.Enable(renderer.ParameterColorWrite, true)
	r.Enable(renderer.ParameterFaceCulling, true)

	core.LogInfo("testbed ready: %d cubes, instancing threshold %d",
		len(state.models), e.Config().Instancing.MinInstances)

	return nil
}

func (g *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	// Slow orbit around the grid.
	angle := state.elapsed * 0.3
	eye := math.NewVec3(float32(m.Cos(angle)), 0.6, float32(m.Sin(angle))).MulScalar(25)
	e.Renderer().SetMatrix(renderer.MatrixView, math.NewMat4LookAt(eye, math.NewVec3Zero(), math.NewVec3Up()))

	// The cubes spin in place while staying one instanced batch.
	spin := float32(state.elapsed) * 0.8
	rotation := math.NewMat4EulerY(spin)
	for i, model := range state.models {
		model.SetTransformMatrix(rotation.Mul(math.NewMat4Translation(state.positions[i])))
	}

	queue := e.Queue()
	queue.AddLight(state.sun)
	for _, model := range state.models {
		queue.AddModel(model)
	}

	return nil
}

func (g *TestGame) Shutdown(e *engine.Engine) error {
	state := g.State.(*gameState)
	device := e.Device()

	if state.mesh != nil {
		state.subMesh.Destroy()
		state.mesh.Destroy()
	}
	if state.material != nil {
		state.material.Destroy()
	}
	if state.program != nil {
		state.program.Destroy()
	}
	if state.vertexBufferHandle != 0 {
		device.DeleteBuffer(state.vertexBufferHandle)
	}
	if state.indexBufferHandle != 0 {
		device.DeleteBuffer(state.indexBufferHandle)
	}

	return nil
}
