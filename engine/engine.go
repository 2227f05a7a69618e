package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/renderer"
	"github.com/spaghettifunk/houseview/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// suspendedPollInterval throttles the loop while the window is minimized.
const suspendedPollInterval = 50 * time.Millisecond

var ErrNoGame = errors.New("engine has no game attached")

// Platform is the window the engine runs in.
type Platform interface {
	Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error
	// PumpMessages dispatches window events and returns false once the
	// window should close.
	PumpMessages() bool
	SwapBuffers()
	GetAbsoluteTime() float64
	Shutdown() error
}

// PlatformFactory builds the window and the renderer backend bound to it.
// Window callbacks feed input and events.
type PlatformFactory func(input *core.Input, events *core.EventBus) (Platform, renderer.RendererBackend)

type Engine struct {
	config        ApplicationConfig
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      Platform
	events        *core.EventBus
	input         *core.Input
	scheduler     *core.Scheduler
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
}

func New(config ApplicationConfig, newPlatform PlatformFactory) (*Engine, error) {
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.LogLevel)
	core.SetLogLevel(level)

	events := core.NewEventBus()
	input := core.NewInput(events)
	p, backend := newPlatform(input, events)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		AssetsDir:    config.AssetsDir,
		Workers:      config.Workers,
		JobQueueSize: config.JobQueueSize,
		Camera: systems.CameraSystemConfig{
			MaxCameraCount: 61,
			FOV:            45,
			Near:           0.1,
			Far:            1000,
		},
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		config:        config,
		currentStage:  EngineStageUninitialized,
		platform:      p,
		events:        events,
		input:         input,
		scheduler:     core.NewScheduler(),
		renderer:      renderer.NewRenderer(backend),
		systemManager: sm,
		width:         config.StartWidth,
		height:        config.StartHeight,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}, nil
}

func (e *Engine) Events() *core.EventBus                { return e.events }
func (e *Engine) Input() *core.Input                    { return e.input }
func (e *Engine) Scheduler() *core.Scheduler            { return e.scheduler }
func (e *Engine) Renderer() *renderer.Renderer          { return e.renderer }
func (e *Engine) SystemManager() *systems.SystemManager { return e.systemManager }
func (e *Engine) Metrics() *core.Metrics                { return e.metrics }
func (e *Engine) Stage() Stage                          { return e.currentStage }

// Initialize boots the game, opens the window and brings up the renderer.
func (e *Engine) Initialize(g *Game) error {
	if g == nil {
		return ErrNoGame
	}
	e.gameInstance = g
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = &e.config
	}

	e.currentStage = EngineStageBooting
	if g.FnBoot != nil {
		if err := g.FnBoot(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageBootComplete

	e.currentStage = EngineStageInitializing
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(e.config.Name,
		e.config.StartPosX,
		e.config.StartPosY,
		e.config.StartWidth,
		e.config.StartHeight); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.config.Name, e.width, e.height); err != nil {
		core.LogError("failed to initialize renderer: %s", err)
		return err
	}

	if g.FnInitialize != nil {
		if err := g.FnInitialize(); err != nil {
			return err
		}
	}
	if g.FnOnResize != nil {
		if err := g.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Quit stops the loop at the end of the current frame. Safe to call from
// any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

func (e *Engine) IsRunning() bool {
	return e.isRunning.Load()
}

func (e *Engine) Run() error {
	if e.gameInstance == nil {
		return ErrNoGame
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			time.Sleep(suspendedPollInterval)
			// keep the delta of the first frame after restore small
			e.clock.Update()
			e.lastTime = e.clock.Elapsed()
			continue
		}

		if err := e.frame(); err != nil {
			e.isRunning.Store(false)
			return err
		}
	}
	return nil
}

func (e *Engine) frame() error {
	// Update clock and get delta time.
	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime
	frameStartTime := e.platform.GetAbsoluteTime()

	e.scheduler.Flush()
	e.systemManager.Update()

	if fn := e.gameInstance.FnUpdate; fn != nil {
		if err := fn(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			return err
		}
	}

	packet := &renderer.RenderPacket{DeltaTime: delta}
	if fn := e.gameInstance.FnRender; fn != nil {
		if err := fn(packet, delta); err != nil {
			core.LogError("Game render failed, shutting down: %s", err)
			return err
		}
	}
	if err := e.renderer.DrawFrame(packet); err != nil {
		return err
	}
	e.platform.SwapBuffers()

	frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
	e.metrics.Update(frameElapsedTime)

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	e.input.Update(delta)

	e.lastTime = currentTime
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.gameInstance != nil && e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs,
		e.renderer.Shutdown(),
		e.systemManager.Shutdown(),
		e.events.Shutdown(),
		e.platform.Shutdown(),
	)
	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the application window.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) IsSuspended() bool {
	return e.isSuspended
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance != nil && e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
