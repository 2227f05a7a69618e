package components

import (
	stdmath "math"

	"github.com/spaghettifunk/houseview/engine/math"
)

const (
	DefaultDampingFactor float32 = 0.05
	DefaultRotateSpeed   float32 = 1.0
	DefaultZoomSpeed     float32 = 1.0
	DefaultPanSpeed      float32 = 1.0
)

// OrbitControls orbits a camera around a target point. Input methods
// accumulate deltas; Update integrates them into the camera, decaying them
// by DampingFactor each call when damping is enabled.
type OrbitControls struct {
	Camera *Camera
	Target math.Vec3

	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32

	MinDistance float32
	MaxDistance float32
	// Polar angle limits, in radians from the +Y axis.
	MinPolarAngle float32
	MaxPolarAngle float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	panOffset  math.Vec3

	viewportHeight float32
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:         camera,
		Target:         camera.Target,
		EnableDamping:  true,
		DampingFactor:  DefaultDampingFactor,
		RotateSpeed:    DefaultRotateSpeed,
		ZoomSpeed:      DefaultZoomSpeed,
		PanSpeed:       DefaultPanSpeed,
		MinDistance:    0,
		MaxDistance:    float32(stdmath.Inf(1)),
		MinPolarAngle:  0,
		MaxPolarAngle:  stdmath.Pi,
		scale:          1,
		viewportHeight: 1,
	}
}

// SetViewportHeight sets the pixel height used to turn drag distances into angles.
func (oc *OrbitControls) SetViewportHeight(height float32) {
	if height > 0 {
		oc.viewportHeight = height
	}
}

// SetTarget moves the orbit center and points the camera at it.
func (oc *OrbitControls) SetTarget(target math.Vec3) {
	oc.Target = target
	oc.Camera.LookAt(target)
}

func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.deltaTheta -= angle
}

func (oc *OrbitControls) RotateUp(angle float32) {
	oc.deltaPhi -= angle
}

// Rotate turns a pointer drag of dx, dy pixels into orbit angles.
func (oc *OrbitControls) Rotate(dx, dy float32) {
	oc.RotateLeft(2 * stdmath.Pi * dx / oc.viewportHeight * oc.RotateSpeed)
	oc.RotateUp(2 * stdmath.Pi * dy / oc.viewportHeight * oc.RotateSpeed)
}

// Dolly scales the orbit distance. Positive steps move the camera closer.
func (oc *OrbitControls) Dolly(steps float32) {
	factor := float32(stdmath.Pow(0.95, float64(oc.ZoomSpeed)*stdmath.Abs(float64(steps))))
	if steps > 0 {
		oc.scale *= factor
	} else if steps < 0 {
		oc.scale /= factor
	}
}

// Pan moves the target in the camera plane by a drag of dx, dy pixels.
func (oc *OrbitControls) Pan(dx, dy float32) {
	offset := oc.Camera.Position.Sub(oc.Target)
	distance := offset.Len() * float32(stdmath.Tan(float64(math.DegToRad(oc.Camera.FOV/2))))
	left := oc.Camera.Right().Mul(-2 * dx * distance / oc.viewportHeight * oc.PanSpeed)
	up := oc.Camera.CameraUp().Mul(2 * dy * distance / oc.viewportHeight * oc.PanSpeed)
	oc.panOffset = oc.panOffset.Add(left).Add(up)
}

// Update integrates pending rotation, dolly and pan into the camera.
func (oc *OrbitControls) Update() {
	offset := oc.Camera.Position.Sub(oc.Target)

	radius := offset.Len()
	theta := float32(stdmath.Atan2(float64(offset.X()), float64(offset.Z())))
	phi := float32(0)
	if radius > 0 {
		phi = float32(stdmath.Acos(float64(math.Clamp(offset.Y()/radius, -1, 1))))
	}

	if oc.EnableDamping {
		theta += oc.deltaTheta * oc.DampingFactor
		phi += oc.deltaPhi * oc.DampingFactor
	} else {
		theta += oc.deltaTheta
		phi += oc.deltaPhi
	}

	const eps = 1e-6
	phi = math.Clamp(phi, oc.MinPolarAngle, oc.MaxPolarAngle)
	phi = math.Clamp(phi, eps, stdmath.Pi-eps)

	radius = math.Clamp(radius*oc.scale, oc.MinDistance, oc.MaxDistance)

	if oc.EnableDamping {
		oc.Target = oc.Target.Add(oc.panOffset.Mul(oc.DampingFactor))
	} else {
		oc.Target = oc.Target.Add(oc.panOffset)
	}

	sinPhi := float32(stdmath.Sin(float64(phi)))
	offset = math.Vec3{
		radius * sinPhi * float32(stdmath.Sin(float64(theta))),
		radius * float32(stdmath.Cos(float64(phi))),
		radius * sinPhi * float32(stdmath.Cos(float64(theta))),
	}
	oc.Camera.SetPosition(oc.Target.Add(offset))
	oc.Camera.LookAt(oc.Target)

	if oc.EnableDamping {
		oc.deltaTheta *= 1 - oc.DampingFactor
		oc.deltaPhi *= 1 - oc.DampingFactor
		oc.panOffset = oc.panOffset.Mul(1 - oc.DampingFactor)
	} else {
		oc.deltaTheta = 0
		oc.deltaPhi = 0
		oc.panOffset = math.NewVec3Zero()
	}
	oc.scale = 1
}
