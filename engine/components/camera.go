package components

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/houseview/engine/math"
)

/**
 * @brief A perspective camera looking at a target point. The view and
 * projection matrices are rebuilt lazily when their inputs change.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief The up direction used to orient the view. */
	Up math.Vec3

	/** @brief Vertical field of view, in degrees. */
	FOV float32
	/** @brief Width divided by height of the drawing surface. */
	Aspect float32
	Near   float32
	Far    float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera(fov, aspect, near, far float32) *Camera {
	camera := &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.Vec3{0, 0, 1}
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.IsDirty = true
	c.ViewMatrix = math.NewMat4Identity()
	c.UpdateProjectionMatrix()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// SetAspect changes the aspect ratio and rebuilds the projection.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

// UpdateProjectionMatrix must be called after FOV, Aspect, Near or Far change.
func (c *Camera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.ProjectionMatrix = mgl32.Perspective(math.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

func (c *Camera) GetProjection() math.Mat4 {
	return c.ProjectionMatrix
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = mgl32.LookAtV(c.Position, c.Target, c.Up)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// Unproject maps normalized device coordinates to a world-space point.
// z = -1 lies on the near plane and z = 1 on the far plane.
func (c *Camera) Unproject(ndc math.Vec3) math.Vec3 {
	inv := c.GetProjection().Mul4(c.GetView()).Inv()
	return mgl32.TransformCoordinate(ndc, inv)
}

func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) Right() math.Vec3 {
	view := c.GetView()
	return math.Vec3{view.At(0, 0), view.At(0, 1), view.At(0, 2)}
}

func (c *Camera) CameraUp() math.Vec3 {
	view := c.GetView()
	return math.Vec3{view.At(1, 0), view.At(1, 1), view.At(1, 2)}
}
