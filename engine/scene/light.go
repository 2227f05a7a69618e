package scene

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/houseview/engine/math"
)

type AmbientLight struct {
	Color     colorful.Color
	Intensity float32
}

// HemisphereLight blends from Ground to Sky along the surface normal's Y.
type HemisphereLight struct {
	Sky       colorful.Color
	Ground    colorful.Color
	Intensity float32
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     colorful.Color
	Intensity float32
	Position  math.Vec3
}

// Direction returns the normalized direction the light travels in.
func (l DirectionalLight) Direction() math.Vec3 {
	if l.Position.Len() == 0 {
		return math.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

// MaxDirectionalLights is the number of directional lights the shader accepts.
const MaxDirectionalLights = 4

// LightingRig is the static set of lights of a scene.
type LightingRig struct {
	Ambient     AmbientLight
	Hemisphere  HemisphereLight
	Directional []DirectionalLight
}

func white() colorful.Color {
	return colorful.Color{R: 1, G: 1, B: 1}
}

// DefaultLightingRig returns a soft ambient term, a sky/ground hemisphere and
// a key and a fill light.
func DefaultLightingRig() LightingRig {
	return LightingRig{
		Ambient: AmbientLight{Color: white(), Intensity: 0.3},
		Hemisphere: HemisphereLight{
			Sky:       colorful.Color{R: 0.87, G: 0.93, B: 1.0},
			Ground:    colorful.Color{R: 0.35, G: 0.3, B: 0.25},
			Intensity: 0.6,
		},
		Directional: []DirectionalLight{
			{Color: white(), Intensity: 1.2, Position: math.Vec3{5, 10, 7.5}},
			{Color: colorful.Color{R: 0.8, G: 0.85, B: 1.0}, Intensity: 0.4, Position: math.Vec3{-6, 4, -5}},
		},
	}
}
