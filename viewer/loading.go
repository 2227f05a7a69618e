package viewer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/houseview/engine/anim"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/spaghettifunk/houseview/engine/resources"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

var ErrUnexpectedResource = errors.New("unexpected resource data")

// The load chain is environment, then the optional layout, then the model.
// A failed environment load ends the chain.

func (v *Viewer) loadEnvironment() error {
	path := v.config.EnvironmentPath
	core.LogInfo("loading environment %s", path)
	err := v.loader.LoadResource(path, nil,
		func(res *resources.Resource) {
			if err := v.installEnvironment(res); err != nil {
				v.loadFailed(path, err)
				return
			}
			v.startNext(v.loadLayout)
		},
		func(err error) { v.loadFailed(path, err) },
	)
	if err != nil {
		v.loadFailed(path, err)
	}
	return err
}

func (v *Viewer) loadLayout() error {
	path := v.config.LayoutPath
	if path == "" {
		return v.loadModel()
	}
	err := v.loader.LoadResource(path, nil,
		func(res *resources.Resource) {
			if err := v.installLayout(res); err != nil {
				core.LogWarn("overlay layout %s ignored: %s", path, err)
			}
			v.startNext(v.loadModel)
		},
		func(err error) {
			// the roof overlay is optional
			core.LogWarn("overlay layout %s not loaded: %s", path, err)
			v.startNext(v.loadModel)
		},
	)
	if err != nil {
		v.loadFailed(path, err)
	}
	return err
}

func (v *Viewer) loadModel() error {
	path := v.config.ModelPath
	core.LogInfo("loading model %s", path)
	err := v.loader.LoadResource(path, nil,
		func(res *resources.Resource) {
			if err := v.installModel(res); err != nil {
				v.loadFailed(path, err)
			}
		},
		func(err error) { v.loadFailed(path, err) },
	)
	if err != nil {
		v.loadFailed(path, err)
	}
	return err
}

// startNext runs the next link of the chain. Submit errors were already
// reported by the link itself.
func (v *Viewer) startNext(next func() error) {
	_ = next()
}

func (v *Viewer) loadFailed(path string, err error) {
	core.LogError("failed to load %s: %s", path, err)
	if v.OnLoadError != nil {
		v.OnLoadError(path, err)
	}
}

func (v *Viewer) installEnvironment(res *resources.Resource) error {
	data, ok := res.Data.(*resources.EnvironmentResourceData)
	if !ok {
		return fmt.Errorf("%s: %w", res.Name, ErrUnexpectedResource)
	}
	env, err := scene.NewEnvironmentFromEquirect(int(data.Width), int(data.Height), data.Pixels)
	if err != nil {
		return err
	}
	env.Intensity = v.config.EnvironmentIntensity
	v.scene.SetEnvironment(env)
	core.LogDebug("environment installed (%dx%d)", data.Width, data.Height)
	return nil
}

func (v *Viewer) installLayout(res *resources.Resource) error {
	data, ok := res.Data.(*resources.LayoutResourceData)
	if !ok {
		return fmt.Errorf("%s: %w", res.Name, ErrUnexpectedResource)
	}
	spec, ok := data.Layout.Find(v.config.RoofOverlayID)
	if !ok {
		core.LogWarn("layout %s has no panel %q", res.Name, v.config.RoofOverlayID)
		return nil
	}
	panel, err := ui.NewPanelFromSpec(spec, v.config.FadeDuration())
	if err != nil {
		return err
	}
	v.overlay.Add(panel)
	v.roofOverlay = panel
	return nil
}

func (v *Viewer) installModel(res *resources.Resource) error {
	data, ok := res.Data.(*resources.ModelResourceData)
	if !ok || data.Root == nil {
		return fmt.Errorf("%s: %w", res.Name, ErrUnexpectedResource)
	}
	root := data.Root

	s := v.config.ModelScale
	root.Transform.SetScale(math.Vec3{s, s, s})
	if v.config.ModelRotationY != 0 {
		root.Transform.SetRotation(math.NewQuatFromAxisAngle(math.NewVec3Up(), math.DegToRad(v.config.ModelRotationY)))
	}

	v.clickable = v.catalog.ClickableMeshes(root.Meshes())
	v.scene.Add(root)
	v.model = root

	if bounds := root.WorldBounds(); !bounds.IsEmpty() {
		v.controls.SetTarget(bounds.Center())
	}

	if len(data.Clips) > 0 {
		v.mixer = anim.NewMixer()
		v.mixer.PlayAll(data.Clips)
	}
	core.LogInfo("model %s installed: %d meshes, %d clickable, %d clips",
		res.Name, len(root.Meshes()), len(v.clickable), len(data.Clips))
	return nil
}
