/*
houseview opens a window with an interactive 3D house. Click the roof,
windows or doors to recolor them, drag to orbit, scroll to zoom, Escape
to dismiss the overlays.

Usage:

	houseview [config.toml]
*/
package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spaghettifunk/houseview/engine"
	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/platform"
	"github.com/spaghettifunk/houseview/engine/renderer"
	"github.com/spaghettifunk/houseview/engine/renderer/opengl"
	"github.com/spaghettifunk/houseview/viewer"
)

const defaultConfigPath = "houseview.toml"

func init() {
	// GLFW event handling and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	appConfig, err := engine.LoadApplicationConfig(configPath)
	if err != nil {
		core.LogFatal("failed to load application config: %s", err)
	}
	viewerConfig, err := viewer.LoadConfig(configPath)
	if err != nil {
		core.LogFatal("failed to load viewer config: %s", err)
	}

	eng, err := engine.New(appConfig, func(input *core.Input, events *core.EventBus) (engine.Platform, renderer.RendererBackend) {
		p := platform.New(input, events)
		return p, opengl.New(p.FramebufferSize)
	})
	if err != nil {
		core.LogFatal("failed to create engine: %s", err)
	}

	sm := eng.SystemManager()
	camera, err := sm.Cameras().Acquire(components.DEFAULT_CAMERA_NAME)
	if err != nil {
		core.LogFatal(err.Error())
	}
	v := viewer.New(viewerConfig, viewer.Deps{
		Events:    eng.Events(),
		Input:     eng.Input(),
		Scheduler: eng.Scheduler(),
		Loader:    sm,
		Renderer:  eng.Renderer(),
		Camera:    camera,
	})
	v.ApplicationConfig = &appConfig

	if err := eng.Initialize(v.Game); err != nil {
		_ = eng.Shutdown()
		core.LogFatal("failed to initialize engine: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		core.LogInfo("received %s, shutting down", sig)
		eng.Quit()
	}()

	runErr := eng.Run()
	if err := eng.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal("engine stopped: %s", runErr)
	}
}
