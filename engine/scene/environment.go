package scene

import (
	"errors"
	stdmath "math"

	"github.com/spaghettifunk/houseview/engine/math"
)

// Spherical harmonic basis constants for bands 0..2.
const (
	shY00 = 0.282095
	shY1  = 0.488603
	shY2  = 1.092548
	shY20 = 0.315392
	shY22 = 0.546274
)

var errEmptyEnvironment = errors.New("environment map has no pixels")

// Environment is the diffuse lighting derived from an equirectangular
// radiance map: nine SH coefficients of irradiance divided by pi, so that
// Irradiance returns outgoing radiance of a white Lambertian surface.
type Environment struct {
	Coefficients [9]math.Vec3
	// Mean radiance of the map, used as the clear colour.
	Mean math.Vec3
	// Intensity scales the contribution of the environment in the shader.
	Intensity float32
}

func shBasis(d math.Vec3) [9]float32 {
	x, y, z := d.X(), d.Y(), d.Z()
	return [9]float32{
		shY00,
		shY1 * y,
		shY1 * z,
		shY1 * x,
		shY2 * x * y,
		shY2 * y * z,
		shY20 * (3*z*z - 1),
		shY2 * x * z,
		shY22 * (x*x - y*y),
	}
}

// EquirectDirection returns the world direction of pixel (px, py) of a
// w×h equirectangular map. Row 0 is the top of the map (+Y).
func EquirectDirection(px, py, w, h int) math.Vec3 {
	u := (float64(px) + 0.5) / float64(w)
	v := (float64(py) + 0.5) / float64(h)
	lon := (u - 0.5) * 2 * stdmath.Pi
	lat := (0.5 - v) * stdmath.Pi
	return math.Vec3{
		float32(stdmath.Cos(lat) * stdmath.Cos(lon)),
		float32(stdmath.Sin(lat)),
		float32(stdmath.Cos(lat) * stdmath.Sin(lon)),
	}
}

// NewEnvironmentFromEquirect projects a linear RGB equirectangular map
// (3 floats per pixel, row-major) onto order-2 spherical harmonics.
func NewEnvironmentFromEquirect(width, height int, pixels []float32) (*Environment, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*3 {
		return nil, errEmptyEnvironment
	}

	var coeffs [9][3]float64
	var mean [3]float64
	var totalWeight float64

	dTheta := 2 * stdmath.Pi / float64(width)
	dPhi := stdmath.Pi / float64(height)
	for py := 0; py < height; py++ {
		lat := (0.5 - (float64(py)+0.5)/float64(height)) * stdmath.Pi
		weight := dTheta * dPhi * stdmath.Cos(lat)
		for px := 0; px < width; px++ {
			i := (py*width + px) * 3
			radiance := [3]float64{float64(pixels[i]), float64(pixels[i+1]), float64(pixels[i+2])}
			basis := shBasis(EquirectDirection(px, py, width, height))
			for k := 0; k < 9; k++ {
				b := float64(basis[k]) * weight
				for c := 0; c < 3; c++ {
					coeffs[k][c] += radiance[c] * b
				}
			}
			for c := 0; c < 3; c++ {
				mean[c] += radiance[c] * weight
			}
			totalWeight += weight
		}
	}

	// Lambertian convolution per band, divided by pi.
	bands := [9]float64{1, 2.0 / 3, 2.0 / 3, 2.0 / 3, 0.25, 0.25, 0.25, 0.25, 0.25}
	env := &Environment{Intensity: 1}
	for k := 0; k < 9; k++ {
		for c := 0; c < 3; c++ {
			env.Coefficients[k][c] = float32(coeffs[k][c] * bands[k])
		}
	}
	for c := 0; c < 3; c++ {
		env.Mean[c] = float32(mean[c] / totalWeight)
	}
	return env, nil
}

// Irradiance evaluates the diffuse environment light for normal n.
func (e *Environment) Irradiance(n math.Vec3) math.Vec3 {
	basis := shBasis(n.Normalize())
	var out math.Vec3
	for k := 0; k < 9; k++ {
		out = out.Add(e.Coefficients[k].Mul(basis[k]))
	}
	return out.Mul(e.Intensity)
}
