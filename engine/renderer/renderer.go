package renderer

import (
	"errors"

	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

var ErrNotInitialized = errors.New("renderer is not initialized")

// RenderPacket is everything drawn in one frame.
type RenderPacket struct {
	DeltaTime float64
	Scene     *scene.Scene
	Camera    *components.Camera
	// Overlay is drawn on top of the world pass. Optional.
	Overlay *ui.Layer
}

// Renderer is the frontend the engine and the game talk to. It tracks the
// drawing surface size and forwards work to the backend.
type Renderer struct {
	backend     RendererBackend
	width       uint32
	height      uint32
	initialized bool
}

func NewRenderer(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		return err
	}
	r.width, r.height = appWidth, appHeight
	r.initialized = true
	return nil
}

func (r *Renderer) Shutdown() error {
	if !r.initialized {
		return nil
	}
	r.initialized = false
	return r.backend.Shutdown()
}

// OnResize sets the drawing surface size. Repeating the current size is a
// no-op.
func (r *Renderer) OnResize(width, height uint32) error {
	if width == r.width && height == r.height {
		return nil
	}
	r.width, r.height = width, height
	if !r.initialized {
		return nil
	}
	return r.backend.Resized(width, height)
}

// Size returns the drawing surface size in pixels.
func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

func (r *Renderer) DrawFrame(packet *RenderPacket) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	if packet.Scene != nil && packet.Camera != nil {
		if err := r.backend.DrawScene(packet.Scene, packet.Camera); err != nil {
			core.LogError("world pass failed: %s", err)
			return err
		}
	}
	if packet.Overlay != nil {
		if err := r.backend.DrawOverlay(packet.Overlay); err != nil {
			core.LogError("overlay pass failed: %s", err)
			return err
		}
	}
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}
