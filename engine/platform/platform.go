package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window

	context *renderer.Context
	target  *WindowTarget
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	p.Window = window

	p.context = renderer.NewContext(func(active bool) error {
		if active {
			window.MakeContextCurrent()
		} else {
			glfw.DetachCurrentContext()
		}
		return nil
	})
	if err := p.context.SetActive(true); err != nil {
		return err
	}
	p.target = &WindowTarget{window: window, context: p.context}

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetMouseButtonCallback(mouseButtonCallback)
	p.Window.SetCursorPosCallback(cursorPosCallback)
	p.Window.SetScrollCallback(scrollCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	startTime = glfw.GetTime()

	return nil
}

// Context is the rendering context backing the window.
func (p *Platform) Context() *renderer.Context {
	return p.context
}

// Target is the window's framebuffer as a render target.
func (p *Platform) Target() *WindowTarget {
	return p.target
}

func (p *Platform) Shutdown() error {
	if p.context != nil {
		p.context.Destroy()
		p.context = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) PumpMessages() {
	glfw.PollEvents()
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// WindowTarget presents the window's default framebuffer as a render
// target. It owns the window's rendering context, so target switches never
// deactivate it.
type WindowTarget struct {
	window  *glfw.Window
	context *renderer.Context
}

func (t *WindowTarget) Activate() bool {
	return t.context.SetActive(true) == nil
}

func (t *WindowTarget) Deactivate() {
	t.context.SetActive(false)
}

func (t *WindowTarget) HasContext() bool {
	return true
}

func (t *WindowTarget) EnsureUpdated() {}

func (t *WindowTarget) Width() uint32 {
	width, _ := t.window.GetFramebufferSize()
	return uint32(width)
}

func (t *WindowTarget) Height() uint32 {
	_, height := t.window.GetFramebufferSize()
	return uint32(height)
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
}

func cursorPosCallback(w *glfw.Window, xpos, ypos float64) {}

func scrollCallback(w *glfw.Window, xoff, yoff float64) {}

func framebufferSizeCallback(w *glfw.Window, width, height int) {}
