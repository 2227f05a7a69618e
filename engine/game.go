package engine

import (
	"github.com/spaghettifunk/houseview/engine/renderer"
)

// Game is the set of hooks the engine drives. Nil hooks are skipped.
type Game struct {
	ApplicationConfig *ApplicationConfig
	// State is owned by the game and never touched by the engine.
	State interface{}

	FnBoot       Boot
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

// Boot runs before the window exists.
type Boot func() error

// Initialize runs once the window and renderer are up.
type Initialize func() error

type Update func(deltaTime float64) error

// Render fills the packet the engine is about to draw.
type Render func(packet *renderer.RenderPacket, deltaTime float64) error

// OnResize receives the new window size. It is never called with a zero
// dimension; a minimized window suspends the loop instead.
type OnResize func(width uint32, height uint32) error

type Shutdown func() error
