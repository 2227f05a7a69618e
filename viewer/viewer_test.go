package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/houseview/engine/anim"
	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/spaghettifunk/houseview/engine/renderer"
	"github.com/spaghettifunk/houseview/engine/resources"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

const (
	screenW = 800
	screenH = 600
)

type fakeLoader struct {
	resources map[string]*resources.Resource
	failures  map[string]error
	requested []string
	pending   []func()
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		resources: make(map[string]*resources.Resource),
		failures:  make(map[string]error),
	}
}

func (l *fakeLoader) LoadResource(path string, params interface{}, onSuccess func(*resources.Resource), onFailure func(error)) error {
	l.requested = append(l.requested, path)
	l.pending = append(l.pending, func() {
		if err, ok := l.failures[path]; ok {
			onFailure(err)
			return
		}
		res, ok := l.resources[path]
		if !ok {
			onFailure(errors.New("not found: " + path))
			return
		}
		onSuccess(res)
	})
	return nil
}

// deliver runs callbacks until the chain settles, like JobSystem.Update
// over several frames.
func (l *fakeLoader) deliver() {
	for len(l.pending) > 0 {
		q := l.pending
		l.pending = nil
		for _, fn := range q {
			fn()
		}
	}
}

type nullBackend struct{ resized [][2]uint32 }

func (b *nullBackend) Initialize(string, uint32, uint32) error          { return nil }
func (b *nullBackend) Shutdown() error                                  { return nil }
func (b *nullBackend) BeginFrame(float64) error                         { return nil }
func (b *nullBackend) DrawScene(*scene.Scene, *components.Camera) error { return nil }
func (b *nullBackend) DrawOverlay(*ui.Layer) error                      { return nil }
func (b *nullBackend) EndFrame(float64) error                           { return nil }
func (b *nullBackend) Resized(w, h uint32) error {
	b.resized = append(b.resized, [2]uint32{w, h})
	return nil
}

type house struct {
	root                           *scene.Node
	roof, wall, window, gold, door *scene.Node
	clip                           *anim.Clip
}

func gray() colorful.Color { return colorful.Color{R: 0.5, G: 0.5, B: 0.5} }

func newHouse() *house {
	h := &house{root: scene.NewNode("house")}
	h.wall = scene.NewBoxMesh("wall", 2, 2, 2, scene.NewMaterial("Wall", gray()))
	h.roof = scene.NewBoxMesh("roof", 2, 1, 2, scene.NewMaterial("Roof", gray()))
	h.roof.Transform.SetPosition(math.Vec3{0, 2.5, 0})
	h.door = scene.NewBoxMesh("door", 1, 1, 1, scene.NewMaterial("Door", gray()))
	h.door.Transform.SetPosition(math.Vec3{0, -2.5, 0})
	h.window = scene.NewBoxMesh("window", 1, 1, 1, scene.NewMaterial("Window", gray()))
	h.window.Transform.SetPosition(math.Vec3{-3, 0, 0})
	h.gold = scene.NewBoxMesh("chimney", 1, 1, 1, scene.NewMaterial("Material.137", gray()))
	h.gold.Transform.SetPosition(math.Vec3{3, 0, 0})
	for _, n := range []*scene.Node{h.wall, h.roof, h.door, h.window, h.gold} {
		h.root.Add(n)
	}
	return h
}

func (h *house) resource() *resources.Resource {
	var meshes []*scene.Mesh
	meshes = append(meshes, h.root.Meshes()...)
	var clips []*anim.Clip
	if h.clip != nil {
		clips = append(clips, h.clip)
	}
	return &resources.Resource{
		Name: "models/house.glb",
		Type: resources.ResourceTypeModel,
		Data: &resources.ModelResourceData{Root: h.root, Meshes: meshes, Clips: clips},
	}
}

func environmentResource() *resources.Resource {
	pixels := make([]float32, 8*4*3)
	for i := range pixels {
		pixels[i] = 0.5
	}
	return &resources.Resource{
		Name: "textures/environment.hdr",
		Type: resources.ResourceTypeEnvironment,
		Data: &resources.EnvironmentResourceData{Width: 8, Height: 4, Pixels: pixels},
	}
}

func layoutResource() *resources.Resource {
	return &resources.Resource{
		Name: "ui/overlay.toml",
		Type: resources.ResourceTypeLayout,
		Data: &resources.LayoutResourceData{Layout: &ui.LayoutSpec{Panels: []ui.PanelSpec{
			{ID: "overlay", Title: "Roof", Text: "Clay tiles", Anchor: "bottom-center", Width: 300, Height: 80},
		}}},
	}
}

type fixture struct {
	v         *Viewer
	loader    *fakeLoader
	events    *core.EventBus
	input     *core.Input
	scheduler *core.Scheduler
	backend   *nullBackend
	renderer  *renderer.Renderer
	house     *house
	errs      []error
}

func newFixture(t *testing.T, withLayout bool) *fixture {
	t.Helper()
	f := &fixture{
		loader:    newFakeLoader(),
		events:    core.NewEventBus(),
		scheduler: core.NewScheduler(),
		backend:   &nullBackend{},
		house:     newHouse(),
	}
	f.input = core.NewInput(f.events)
	f.renderer = renderer.NewRenderer(f.backend)
	require.NoError(t, f.renderer.Initialize("test", 1280, 720))

	cfg := DefaultConfig()
	cfg.CameraPosition = [3]float32{0, 0, 12}
	cfg.DampingFactor = 0

	f.loader.resources[cfg.EnvironmentPath] = environmentResource()
	f.loader.resources[cfg.ModelPath] = f.house.resource()
	if withLayout {
		f.loader.resources[cfg.LayoutPath] = layoutResource()
	}

	f.v = New(cfg, Deps{
		Events:    f.events,
		Input:     f.input,
		Scheduler: f.scheduler,
		Loader:    f.loader,
		Renderer:  f.renderer,
		Camera:    components.NewCamera(45, 1, 0.1, 1000),
	})
	f.v.OnLoadError = func(path string, err error) { f.errs = append(f.errs, err) }
	return f
}

// start runs the engine side of startup: boot, initialize, first resize.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.v.FnBoot())
	require.NoError(t, f.v.FnInitialize())
	require.NoError(t, f.v.FnOnResize(screenW, screenH))
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	f.start(t)
	f.loader.deliver()
	require.Empty(t, f.errs)
	require.NotNil(t, f.v.Model())
}

// frame mimics one engine frame: deferred callbacks, then the game update.
func (f *fixture) frame(t *testing.T, dt time.Duration) {
	t.Helper()
	f.scheduler.Flush()
	require.NoError(t, f.v.FnUpdate(dt.Seconds()))
}

// screenOf projects the world position of a node to window pixels.
func (f *fixture) screenOf(n *scene.Node) (float64, float64) {
	cam := f.v.camera
	p := n.World().Col(3)
	clip := cam.GetProjection().Mul4(cam.GetView()).Mul4x1(p)
	ndc := clip.Vec3().Mul(1 / clip.W())
	return float64((ndc.X() + 1) / 2 * screenW), float64((1 - ndc.Y()) / 2 * screenH)
}

// click sends a press and release at (x, y) through the input layer.
func (f *fixture) click(x, y float64) {
	f.input.ProcessMouseMove(x, y)
	f.input.ProcessButton(core.BUTTON_LEFT, true)
	f.input.ProcessButton(core.BUTTON_LEFT, false)
}

func (f *fixture) pressEscape() {
	f.input.ProcessKey(core.KEY_ESCAPE, true)
	f.input.ProcessKey(core.KEY_ESCAPE, false)
}

func materialOf(n *scene.Node) *scene.Material {
	return n.Mesh.Materials()[0]
}

func TestLoadChainOrder(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)

	cfg := DefaultConfig()
	assert.Equal(t, []string{cfg.EnvironmentPath, cfg.LayoutPath, cfg.ModelPath}, f.loader.requested)
	assert.NotNil(t, f.v.Scene().Environment)
	assert.NotNil(t, f.v.RoofOverlay())
	assert.Nil(t, f.v.Mixer())

	// bounds of the house are centred on the origin
	center := f.v.Controls().Target
	assert.InDelta(t, 0, center.X(), 1e-4)
	assert.InDelta(t, 0, center.Y(), 1e-4)
}

func TestEnvironmentFailureStopsChain(t *testing.T) {
	f := newFixture(t, true)
	boom := errors.New("broken hdr")
	f.loader.failures[DefaultConfig().EnvironmentPath] = boom

	f.start(t)
	f.loader.deliver()

	assert.Equal(t, []string{DefaultConfig().EnvironmentPath}, f.loader.requested)
	require.Len(t, f.errs, 1)
	assert.ErrorIs(t, f.errs[0], boom)
	assert.Nil(t, f.v.Model())
	assert.Empty(t, f.v.Clickable())

	// clicks before any model is loaded are no-ops
	f.click(screenW/2, screenH/2)
	assert.False(t, f.v.InfoPanel().IsVisible())
}

func TestModelFailureIsReported(t *testing.T) {
	f := newFixture(t, false)
	f.loader.failures[DefaultConfig().ModelPath] = errors.New("draco")
	f.start(t)
	f.loader.deliver()

	require.Len(t, f.errs, 1)
	assert.Nil(t, f.v.Model())
	assert.NotNil(t, f.v.Scene().Environment)
}

func TestMissingLayoutDegradesGracefully(t *testing.T) {
	f := newFixture(t, false)
	f.load(t)
	assert.Nil(t, f.v.RoofOverlay())

	x, y := f.screenOf(f.house.roof)
	f.click(x, y)
	assert.Equal(t, "#8b0000", materialOf(f.house.roof).Color.Hex())
}

func TestClickableSetExcludesUnknownMaterials(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)

	before := append([]*scene.Mesh(nil), f.v.Clickable()...)
	assert.ElementsMatch(t, []*scene.Mesh{
		f.house.roof.Mesh, f.house.door.Mesh, f.house.window.Mesh, f.house.gold.Mesh,
	}, before)

	for _, n := range []*scene.Node{f.house.roof, f.house.wall, f.house.window} {
		x, y := f.screenOf(n)
		f.click(x, y)
	}
	assert.Equal(t, before, f.v.Clickable())
}

func TestClickOutsideChangesNothing(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)

	colors := map[*scene.Material]string{}
	for _, m := range f.house.root.Meshes() {
		for _, mat := range m.Materials() {
			colors[mat] = mat.Color.Hex()
		}
	}

	// a corner of the window, then the non-clickable wall
	f.click(2, 2)
	x, y := f.screenOf(f.house.wall)
	f.click(x, y)
	f.frame(t, 16*time.Millisecond)

	for mat, hex := range colors {
		assert.Equal(t, hex, mat.Color.Hex(), mat.Name)
	}
	assert.False(t, f.v.InfoPanel().IsVisible())
	assert.False(t, f.v.RoofOverlay().IsVisible())
}

func TestClickRoofRevealsOverlay(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)
	overlay := f.v.RoofOverlay()

	x, y := f.screenOf(f.house.roof)
	f.click(x, y)

	assert.Equal(t, "#8b0000", materialOf(f.house.roof).Color.Hex())
	assert.True(t, overlay.Display)
	assert.Equal(t, float32(0), overlay.Opacity, "opacity is raised on the next frame")
	assert.False(t, f.v.InfoPanel().IsVisible())

	f.frame(t, 0)
	assert.Equal(t, float32(1), overlay.Opacity)
	for i := 0; i < 30; i++ {
		f.frame(t, 16*time.Millisecond)
	}
	assert.Equal(t, float32(1), overlay.RenderedOpacity())
	assert.Equal(t, ui.PanelVisible, overlay.State())
}

func TestClickSwatchShowsInfoPanel(t *testing.T) {
	tests := []struct {
		name  string
		node  func(h *house) *scene.Node
		color string
		text  string
	}{
		{"gold", func(h *house) *scene.Node { return h.gold }, "#ffd700", "Title of obj: ROOF"},
		{"window", func(h *house) *scene.Node { return h.window }, "#87ceeb", "Title of obj: WINDOW"},
		{"door", func(h *house) *scene.Node { return h.door }, "#8b4513", "Title of obj: DOOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.load(t)
			n := tt.node(f.house)

			x, y := f.screenOf(n)
			f.click(x, y)

			assert.Equal(t, tt.color, materialOf(n).Color.Hex())
			info := f.v.InfoPanel()
			assert.Equal(t, tt.text, info.Text)
			assert.True(t, info.IsVisible())
			assert.Equal(t, float32(1), info.RenderedOpacity())
			assert.False(t, f.v.RoofOverlay().IsVisible())
		})
	}
}

func TestEscapeDismissesOverlays(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)
	overlay := f.v.RoofOverlay()

	x, y := f.screenOf(f.house.roof)
	f.click(x, y)
	x, y = f.screenOf(f.house.gold)
	f.click(x, y)
	for i := 0; i < 30; i++ {
		f.frame(t, 16*time.Millisecond)
	}
	require.Equal(t, ui.PanelVisible, overlay.State())
	require.True(t, f.v.InfoPanel().IsVisible())

	f.pressEscape()
	assert.Equal(t, float32(0), overlay.Opacity)
	assert.True(t, overlay.Display, "display stays set during the fade")
	assert.False(t, f.v.InfoPanel().IsVisible())

	f.frame(t, 299*time.Millisecond)
	assert.True(t, overlay.Display)
	f.frame(t, time.Millisecond)
	assert.False(t, overlay.Display)
	assert.Equal(t, ui.PanelHidden, overlay.State())
}

func TestInfoPanelCloseControl(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)

	x, y := f.screenOf(f.house.window)
	f.click(x, y)
	info := f.v.InfoPanel()
	require.True(t, info.IsVisible())

	ctrl := info.CloseBounds()
	f.click(float64(ctrl.X+ctrl.W/2), float64(ctrl.Y+ctrl.H/2))
	assert.False(t, info.IsVisible())
}

func TestDragDoesNotPick(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)

	x, y := f.screenOf(f.house.roof)
	f.input.ProcessMouseMove(x, y)
	f.input.ProcessButton(core.BUTTON_LEFT, true)
	f.input.ProcessMouseMove(x+50, y)
	f.input.ProcessButton(core.BUTTON_LEFT, false)

	assert.NotEqual(t, "#8b0000", materialOf(f.house.roof).Color.Hex())
}

func TestResizeUpdatesCameraAndSurface(t *testing.T) {
	f := newFixture(t, true)
	f.start(t)

	require.NoError(t, f.v.FnOnResize(1024, 512))
	assert.InDelta(t, 2.0, f.v.camera.Aspect, 1e-6)
	w, h := f.renderer.Size()
	assert.Equal(t, uint32(1024), w)
	assert.Equal(t, uint32(512), h)
	proj := f.v.camera.GetProjection()

	require.NoError(t, f.v.FnOnResize(1024, 512))
	assert.Equal(t, proj, f.v.camera.GetProjection())
	assert.Equal(t, [][2]uint32{{screenW, screenH}, {1024, 512}}, f.backend.resized)

	info := f.v.InfoPanel().Bounds()
	assert.InDelta(t, 1024-16-info.W, info.X, 1e-3, "info panel stays anchored top right")
}

func TestRenderFillsPacket(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)
	packet := &renderer.RenderPacket{}
	require.NoError(t, f.v.FnRender(packet, 0.016))
	assert.Same(t, f.v.Scene(), packet.Scene)
	assert.Same(t, f.v.camera, packet.Camera)
	assert.Same(t, f.v.Overlay(), packet.Overlay)
	require.NoError(t, f.renderer.DrawFrame(packet))
}

func TestModelClipsStartMixer(t *testing.T) {
	f := newFixture(t, false)
	flag := scene.NewNode("flag")
	f.house.root.Add(flag)
	f.house.clip = anim.NewClip("wave", []*anim.Track{{
		Target: flag.Transform,
		Path:   anim.PathTranslation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 0, 2, 0},
	}})
	f.loader.resources[DefaultConfig().ModelPath] = f.house.resource()
	f.load(t)

	require.NotNil(t, f.v.Mixer())
	f.frame(t, 250*time.Millisecond)
	assert.InDelta(t, 0.5, flag.Transform.Position.Y(), 1e-4)
}

func TestShutdownUnregistersListeners(t *testing.T) {
	f := newFixture(t, true)
	f.load(t)
	require.NoError(t, f.v.FnShutdown())

	x, y := f.screenOf(f.house.window)
	f.click(x, y)
	assert.False(t, f.v.InfoPanel().IsVisible())
}

func TestConfig(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, 300*time.Millisecond, DefaultConfig().FadeDuration())

	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(dir, "houseview.toml")
	doc := `
[application]
name = "ignored here"

[viewer]
fade_ms = 450
camera_position = [1.0, 2.0, 3.0]
model_scale = 0.5
layout_path = ""
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 450*time.Millisecond, cfg.FadeDuration())
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.CameraPosition)
	assert.Equal(t, float32(0.5), cfg.ModelScale)
	assert.Equal(t, "", cfg.LayoutPath)
	assert.Equal(t, "models/house.glb", cfg.ModelPath)

	for _, bad := range []string{
		"[viewer]\nmodel_scale = 0\n",
		"[viewer]\nroof_overlay_id = \"material-info\"\n",
	} {
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
		_, err = LoadConfig(path)
		assert.Error(t, err, bad)
	}

	cfg = DefaultConfig()
	cfg.RoofOverlayID = InfoPanelID
	assert.Error(t, cfg.Validate())
}

func TestNDC(t *testing.T) {
	assert.Equal(t, math.Vec2{-1, 1}, NDC(0, 0, 800, 600))
	assert.Equal(t, math.Vec2{0, 0}, NDC(400, 300, 800, 600))
	assert.Equal(t, math.Vec2{1, -1}, NDC(800, 600, 800, 600))
}
