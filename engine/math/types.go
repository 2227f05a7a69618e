package math

import "github.com/go-gl/mathgl/mgl32"

type (
	Vec2       = mgl32.Vec2
	Vec3       = mgl32.Vec3
	Vec4       = mgl32.Vec4
	Mat4       = mgl32.Mat4
	Quaternion = mgl32.Quat
)

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. NOTE: The properties of this should not
 * be edited directly, but done via the methods in transform.go
 * to ensure proper matrix generation.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief The rotation in the world. */
	Rotation Quaternion
	/** @brief The scale in the world. */
	Scale Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the local matrix needs to be recalculated.
	 */
	IsDirty bool
	/**
	 * @brief The local transformation matrix, updated whenever
	 * the position, rotation or scale have changed.
	 */
	Local Mat4
	/** @brief A pointer to a parent transform if one is assigned. Can also be null. */
	Parent *Transform
}

func NewVec3Zero() Vec3 {
	return Vec3{0, 0, 0}
}

func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

func NewVec3Up() Vec3 {
	return Vec3{0, 1, 0}
}

func NewMat4Identity() Mat4 {
	return mgl32.Ident4()
}

func NewQuatIdentity() Quaternion {
	return mgl32.QuatIdent()
}

// NewQuatFromAxisAngle builds a rotation of angle radians around axis.
func NewQuatFromAxisAngle(axis Vec3, angle float32) Quaternion {
	return mgl32.QuatRotate(angle, axis.Normalize())
}
