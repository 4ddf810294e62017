package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/cantarcan/NazaraEngine/engine/config"
	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/graphics"
	"github.com/cantarcan/NazaraEngine/engine/platform"
	"github.com/cantarcan/NazaraEngine/engine/renderer"
	"github.com/cantarcan/NazaraEngine/engine/renderer/opengl"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	platform     *platform.Platform
	device       *opengl.Device
	renderer     *renderer.Renderer
	technique    *graphics.DeferredRenderTechnique
	cfg          *config.Config
	cfgWatcher   *config.Watcher
	pendingCfg   atomic.Pointer[config.Config]
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game has no application config")
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		isRunning:    true,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	appConfig := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(appConfig.Name, appConfig.StartPosX, appConfig.StartPosY,
		appConfig.StartWidth, appConfig.StartHeight); err != nil {
		return err
	}

	e.cfg = config.Default()
	if appConfig.ConfigPath != "" {
		cfg, err := config.Load(appConfig.ConfigPath)
		if err != nil {
			core.LogWarn("failed to load configuration, using defaults: %s", err)
		} else {
			e.cfg = cfg
		}

		watcher, err := config.Watch(appConfig.ConfigPath, e.onConfigChanged)
		if err != nil {
			core.LogWarn("configuration will not be reloaded: %s", err)
		} else {
			e.cfgWatcher = watcher
		}
	}

	device, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	e.device = device

	e.renderer = renderer.New(device, e.cfg)
	e.renderer.SetContext(e.platform.Context())
	if !e.renderer.SetTarget(e.platform.Target()) {
		return fmt.Errorf("failed to bind the window as render target")
	}

	e.technique = graphics.NewDeferredRenderTechnique(e.renderer, e.cfg)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning && !e.platform.ShouldClose() {
		e.platform.PumpMessages()
		e.applyPendingConfig()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(e, delta); err != nil {
				core.LogError("game update failed: %s", err)
				break
			}
		}

		e.renderer.Clear(true, true, false)
		e.technique.Draw()
		e.platform.SwapBuffers()

		core.MetricsUpdate(delta)
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(e); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}

	if e.cfgWatcher != nil {
		e.cfgWatcher.Close()
		e.cfgWatcher = nil
	}
	if e.technique != nil {
		e.technique.Shutdown()
	}
	if e.renderer != nil {
		e.renderer.Shutdown()
	}
	if e.device != nil {
		e.device.Shutdown()
	}
	return e.platform.Shutdown()
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// Device exposes the graphics device, for callers that create their own
// buffers and textures.
func (e *Engine) Device() renderer.GraphicsDevice {
	return e.device
}

func (e *Engine) Technique() *graphics.DeferredRenderTechnique {
	return e.technique
}

func (e *Engine) Queue() *graphics.DeferredRenderQueue {
	return e.technique.Queue()
}

func (e *Engine) Config() *config.Config {
	return e.cfg
}

func (e *Engine) Size() (uint32, uint32) {
	return e.width, e.height
}

// onConfigChanged runs on the watcher goroutine; it only stages the new
// configuration, which the frame loop picks up between frames.
func (e *Engine) onConfigChanged(cfg *config.Config) {
	e.pendingCfg.Store(cfg)
}

// applyPendingConfig applies a staged reload. Only the batching threshold
// can change live; device-level features are fixed at startup.
func (e *Engine) applyPendingConfig() {
	cfg := e.pendingCfg.Swap(nil)
	if cfg == nil {
		return
	}
	core.LogInfo("configuration reloaded, min instances now %d", cfg.Instancing.MinInstances)
	e.cfg.Instancing = cfg.Instancing
	e.technique.Queue().SetMinInstances(cfg.Instancing.MinInstances)
}
