package renderer

import (
	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

// RendererBackend is the GPU API specific half of the renderer.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	DrawScene(s *scene.Scene, camera *components.Camera) error
	DrawOverlay(layer *ui.Layer) error
	EndFrame(deltaTime float64) error
}
