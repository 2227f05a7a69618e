package viewer

import (
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/spaghettifunk/houseview/engine/scene"
)

// NDC maps a window pixel to normalized device coordinates, y up.
func NDC(px, py float32, width, height uint32) math.Vec2 {
	return math.Vec2{
		2*px/float32(width) - 1,
		1 - 2*py/float32(height),
	}
}

// Pick casts a ray through the window pixel and applies the catalog to the
// nearest clickable mesh. It returns the mesh that was hit, if any.
func (v *Viewer) Pick(px, py float32) *scene.Mesh {
	if v.width == 0 || v.height == 0 || len(v.clickable) == 0 {
		return nil
	}
	v.raycaster.SetFromCamera(NDC(px, py, v.width, v.height), v.camera)
	hits := v.raycaster.IntersectObjects(v.clickable)
	if len(hits) == 0 {
		return nil
	}
	mesh := hits[0].Mesh
	core.LogDebug("picked %s at %.2f", mesh.Name, hits[0].Distance)
	v.applySelection(mesh)
	return mesh
}

// applySelection recolours every known material of the mesh and reveals
// the matching panels.
func (v *Viewer) applySelection(mesh *scene.Mesh) {
	for _, mat := range mesh.Materials() {
		if mat.Name == v.catalog.RoofMaterial {
			if err := mat.SetHexColor(v.catalog.RoofColor); err != nil {
				core.LogError("roof color: %s", err)
			}
			if v.roofOverlay != nil {
				v.roofOverlay.FadeIn(v.scheduler)
			}
		}
		if sw, ok := v.catalog.Swatches[mat.Name]; ok {
			if err := mat.SetHexColor(sw.Color); err != nil {
				core.LogError("swatch %s color: %s", mat.Name, err)
				continue
			}
			v.infoPanel.SetText(sw.Description)
			v.infoPanel.Show()
		}
	}
}

// DismissOverlays fades the roof overlay out and hides the info panel.
func (v *Viewer) DismissOverlays() {
	if v.roofOverlay != nil {
		v.roofOverlay.FadeOut()
	}
	v.infoPanel.Hide()
}
