package viewer

import (
	stdmath "math"
	"time"

	"github.com/spaghettifunk/houseview/engine"
	"github.com/spaghettifunk/houseview/engine/anim"
	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/renderer"
	"github.com/spaghettifunk/houseview/engine/resources"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

// InfoPanelID identifies the material info panel in the overlay layer.
const InfoPanelID = "material-info"

// Loader reads and decodes an asset in the background. Exactly one of the
// callbacks runs later, on the main goroutine.
type Loader interface {
	LoadResource(path string, params interface{}, onSuccess func(*resources.Resource), onFailure func(error)) error
}

// Deps are the engine services the viewer runs on.
type Deps struct {
	Events    *core.EventBus
	Input     *core.Input
	Scheduler *core.Scheduler
	Loader    Loader
	Renderer  *renderer.Renderer
	Camera    *components.Camera
}

// Viewer is the house viewer application. All of its state lives here and
// is only touched from the main goroutine.
type Viewer struct {
	*engine.Game

	config  Config
	catalog Catalog

	events    *core.EventBus
	input     *core.Input
	scheduler *core.Scheduler
	loader    Loader
	renderer  *renderer.Renderer

	camera    *components.Camera
	controls  *components.OrbitControls
	scene     *scene.Scene
	raycaster *scene.Raycaster
	overlay   *ui.Layer

	roofOverlay *ui.Panel
	infoPanel   *ui.Panel

	model     *scene.Node
	clickable []*scene.Mesh
	mixer     *anim.Mixer

	width, height uint32

	rotating, panning bool
	lastX, lastY      float64

	// OnLoadError is called when an asset of the load chain fails.
	OnLoadError func(path string, err error)
}

func New(config Config, deps Deps) *Viewer {
	v := &Viewer{
		Game:      &engine.Game{},
		config:    config,
		catalog:   DefaultCatalog(),
		events:    deps.Events,
		input:     deps.Input,
		scheduler: deps.Scheduler,
		loader:    deps.Loader,
		renderer:  deps.Renderer,
		camera:    deps.Camera,
		scene:     scene.NewScene(),
		raycaster: scene.NewRaycaster(),
		overlay:   ui.NewLayer(),
	}
	v.Game.State = v

	v.FnBoot = v.Boot
	v.FnInitialize = v.Initialize
	v.FnUpdate = v.Update
	v.FnRender = v.Render
	v.FnOnResize = v.OnResize
	v.FnShutdown = v.Shutdown

	return v
}

func (v *Viewer) Boot() error {
	core.LogInfo("booting viewer...")

	if v.input != nil {
		v.input.ClickSlop = v.config.ClickSlop
	}

	v.camera.FOV = v.config.CameraFOV
	v.camera.Near = v.config.CameraNear
	v.camera.Far = v.config.CameraFar
	v.camera.UpdateProjectionMatrix()
	v.camera.SetPosition(v.config.cameraPosition())

	v.controls = components.NewOrbitControls(v.camera)
	v.controls.EnableDamping = v.config.DampingFactor > 0
	v.controls.DampingFactor = v.config.DampingFactor
	v.controls.MinDistance = v.config.MinDistance
	v.controls.MaxDistance = v.config.MaxDistance
	v.controls.SetTarget(v.camera.Target)

	v.infoPanel = ui.NewPanel(InfoPanelID)
	v.infoPanel.Title = "Material"
	v.infoPanel.Anchor = ui.AnchorTopRight
	v.infoPanel.Closable = true
	v.infoPanel.FadeDuration = v.config.FadeDuration()
	v.overlay.Add(v.infoPanel)

	v.events.Register(core.EVENT_CODE_CLICK, v, v.onClick)
	v.events.Register(core.EVENT_CODE_KEY_PRESSED, v, v.onKey)
	v.events.Register(core.EVENT_CODE_BUTTON_PRESSED, v, v.onButton)
	v.events.Register(core.EVENT_CODE_BUTTON_RELEASED, v, v.onButton)
	v.events.Register(core.EVENT_CODE_MOUSE_MOVED, v, v.onMouseMove)
	v.events.Register(core.EVENT_CODE_MOUSE_WHEEL, v, v.onWheel)
	return nil
}

// Initialize starts the asset load chain.
func (v *Viewer) Initialize() error {
	core.LogDebug("viewer initialize...")
	return v.loadEnvironment()
}

func (v *Viewer) Update(deltaTime float64) error {
	if v.mixer != nil {
		v.mixer.Update(float32(deltaTime))
	}
	v.controls.Update()
	v.overlay.Update(time.Duration(stdmath.Round(deltaTime * float64(time.Second))))
	return nil
}

func (v *Viewer) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	packet.Scene = v.scene
	packet.Camera = v.camera
	packet.Overlay = v.overlay
	return nil
}

// OnResize matches the camera, the drawing surface and the overlay to the
// new window size.
func (v *Viewer) OnResize(width uint32, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	v.width, v.height = width, height
	v.camera.SetAspect(float32(width) / float32(height))
	v.controls.SetViewportHeight(float32(height))
	v.overlay.Layout(float32(width), float32(height))
	if v.renderer != nil {
		return v.renderer.OnResize(width, height)
	}
	return nil
}

func (v *Viewer) Shutdown() error {
	for _, code := range []core.EventCode{
		core.EVENT_CODE_CLICK,
		core.EVENT_CODE_KEY_PRESSED,
		core.EVENT_CODE_BUTTON_PRESSED,
		core.EVENT_CODE_BUTTON_RELEASED,
		core.EVENT_CODE_MOUSE_MOVED,
		core.EVENT_CODE_MOUSE_WHEEL,
	} {
		v.events.Unregister(code, v)
	}
	return nil
}

func (v *Viewer) Scene() *scene.Scene                 { return v.scene }
func (v *Viewer) Overlay() *ui.Layer                  { return v.overlay }
func (v *Viewer) Controls() *components.OrbitControls { return v.controls }
func (v *Viewer) InfoPanel() *ui.Panel                { return v.infoPanel }

// RoofOverlay returns nil when the layout does not define it.
func (v *Viewer) RoofOverlay() *ui.Panel { return v.roofOverlay }

// Model returns the installed model root, nil until the load completes.
func (v *Viewer) Model() *scene.Node { return v.model }

// Clickable returns the meshes that react to clicks.
func (v *Viewer) Clickable() []*scene.Mesh { return v.clickable }

// Mixer is nil unless the model carries animations.
func (v *Viewer) Mixer() *anim.Mixer { return v.mixer }
