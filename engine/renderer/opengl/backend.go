package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/renderer"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

var _ renderer.RendererBackend = (*Backend)(nil)

// clear colour used until an environment is installed
var defaultClearColor = [3]float32{0.1, 0.1, 0.12}

type worldUniforms struct {
	mvp, model, normalMatrix          int32
	baseColor, metallic, roughness    int32
	cameraPos                         int32
	ambientColor, hemiSky, hemiGround int32
	dirLightCount                     int32
	dirLightDir, dirLightColor        int32
	useEnvironment, sh                int32
}

// Backend renders the scene and the overlay with OpenGL 4.1 core. The GL
// context must be current on the calling thread.
type Backend struct {
	// framebufferSize reports the drawable size in pixels, which differs
	// from the window size on high-DPI displays.
	framebufferSize func() (int, int)

	width, height uint32

	worldProgram uint32
	world        worldUniforms
	overlay      *overlayPass

	primitives map[*scene.Primitive]*gpuPrimitive
}

func New(framebufferSize func() (int, int)) *Backend {
	return &Backend{
		framebufferSize: framebufferSize,
		primitives:      make(map[*scene.Primitive]*gpuPrimitive),
	}
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("%s: OpenGL %s", appName, gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(worldVertSrc, worldFragSrc)
	if err != nil {
		return err
	}
	b.worldProgram = prog
	b.world = worldUniforms{
		mvp:            uniform(prog, "mvp"),
		model:          uniform(prog, "model"),
		normalMatrix:   uniform(prog, "normalMatrix"),
		baseColor:      uniform(prog, "baseColor"),
		metallic:       uniform(prog, "metallic"),
		roughness:      uniform(prog, "roughness"),
		cameraPos:      uniform(prog, "cameraPos"),
		ambientColor:   uniform(prog, "ambientColor"),
		hemiSky:        uniform(prog, "hemiSky"),
		hemiGround:     uniform(prog, "hemiGround"),
		dirLightCount:  uniform(prog, "dirLightCount"),
		dirLightDir:    uniform(prog, "dirLightDir"),
		dirLightColor:  uniform(prog, "dirLightColor"),
		useEnvironment: uniform(prog, "useEnvironment"),
		sh:             uniform(prog, "sh"),
	}

	b.overlay, err = newOverlayPass()
	if err != nil {
		gl.DeleteProgram(b.worldProgram)
		return err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)

	return b.Resized(appWidth, appHeight)
}

func (b *Backend) Shutdown() error {
	for p, gpu := range b.primitives {
		gpu.release()
		delete(b.primitives, p)
	}
	if b.overlay != nil {
		b.overlay.release()
		b.overlay = nil
	}
	if b.worldProgram != 0 {
		gl.DeleteProgram(b.worldProgram)
		b.worldProgram = 0
	}
	return nil
}

// Resized records the window size for the overlay and sets the viewport to
// the framebuffer size.
func (b *Backend) Resized(width, height uint32) error {
	b.width, b.height = width, height
	fbw, fbh := int(width), int(height)
	if b.framebufferSize != nil {
		fbw, fbh = b.framebufferSize()
	}
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	gl.ClearColor(defaultClearColor[0], defaultClearColor[1], defaultClearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func linear(c colorful.Color, intensity float32) [3]float32 {
	r, g, bl := c.LinearRgb()
	return [3]float32{float32(r) * intensity, float32(g) * intensity, float32(bl) * intensity}
}

func (b *Backend) applyLights(s *scene.Scene) {
	u := b.world
	rig := s.Lights

	amb := linear(rig.Ambient.Color, rig.Ambient.Intensity)
	gl.Uniform3fv(u.ambientColor, 1, &amb[0])
	sky := linear(rig.Hemisphere.Sky, rig.Hemisphere.Intensity)
	gl.Uniform3fv(u.hemiSky, 1, &sky[0])
	ground := linear(rig.Hemisphere.Ground, rig.Hemisphere.Intensity)
	gl.Uniform3fv(u.hemiGround, 1, &ground[0])

	count := len(rig.Directional)
	if count > scene.MaxDirectionalLights {
		count = scene.MaxDirectionalLights
	}
	var dirs, colors [scene.MaxDirectionalLights * 3]float32
	for i := 0; i < count; i++ {
		l := rig.Directional[i]
		d := l.Direction()
		c := linear(l.Color, l.Intensity)
		copy(dirs[i*3:], d[:])
		copy(colors[i*3:], c[:])
	}
	gl.Uniform1i(u.dirLightCount, int32(count))
	gl.Uniform3fv(u.dirLightDir, scene.MaxDirectionalLights, &dirs[0])
	gl.Uniform3fv(u.dirLightColor, scene.MaxDirectionalLights, &colors[0])

	if env := s.Environment; env != nil {
		var coeffs [9 * 3]float32
		for k, c := range env.Coefficients {
			scaled := c.Mul(env.Intensity)
			copy(coeffs[k*3:], scaled[:])
		}
		gl.Uniform1i(u.useEnvironment, 1)
		gl.Uniform3fv(u.sh, 9, &coeffs[0])
	} else {
		gl.Uniform1i(u.useEnvironment, 0)
	}
}

func (b *Backend) DrawScene(s *scene.Scene, camera *components.Camera) error {
	if env := s.Environment; env != nil {
		// tone-mapped mean radiance, so the backdrop matches the lighting
		m := env.Mean.Mul(env.Intensity)
		gl.ClearColor(m[0]/(1+m[0]), m[1]/(1+m[1]), m[2]/(1+m[2]), 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}

	gl.UseProgram(b.worldProgram)
	b.applyLights(s)

	viewProj := camera.GetProjection().Mul4(camera.GetView())
	eye := camera.GetPosition()
	gl.Uniform3fv(b.world.cameraPos, 1, &eye[0])

	seen := make(map[*scene.Primitive]struct{}, len(b.primitives))
	for _, mesh := range s.Meshes() {
		world := mesh.World()
		mvp := viewProj.Mul4(world)
		normal := world.Mat3().Inv().Transpose()
		gl.UniformMatrix4fv(b.world.mvp, 1, false, &mvp[0])
		gl.UniformMatrix4fv(b.world.model, 1, false, &world[0])
		gl.UniformMatrix3fv(b.world.normalMatrix, 1, false, &normal[0])

		for _, prim := range mesh.Primitives {
			gpu, ok := b.primitives[prim]
			if !ok {
				gpu = uploadPrimitive(prim)
				if gpu == nil {
					continue
				}
				b.primitives[prim] = gpu
			}
			seen[prim] = struct{}{}
			b.drawPrimitive(prim, gpu)
		}
	}

	// drop buffers of primitives no longer in the scene
	for prim, gpu := range b.primitives {
		if _, ok := seen[prim]; !ok {
			gpu.release()
			delete(b.primitives, prim)
		}
	}
	return nil
}

func (b *Backend) drawPrimitive(prim *scene.Primitive, gpu *gpuPrimitive) {
	mat := prim.Material
	color := [3]float32{0.8, 0.8, 0.8}
	metallic, roughness := float32(0), float32(1)
	doubleSided := false
	if mat != nil {
		color = mat.LinearColor()
		metallic, roughness = mat.Metallic, mat.Roughness
		doubleSided = mat.DoubleSided
	}
	gl.Uniform3fv(b.world.baseColor, 1, &color[0])
	gl.Uniform1f(b.world.metallic, metallic)
	gl.Uniform1f(b.world.roughness, roughness)

	if doubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
	gpu.draw()
}

func (b *Backend) DrawOverlay(layer *ui.Layer) error {
	if b.overlay == nil || b.width == 0 || b.height == 0 {
		return nil
	}
	b.overlay.draw(layer, b.width, b.height)
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	return nil
}
