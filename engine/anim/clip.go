package anim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/houseview/engine/math"
)

type Path uint8

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Components returns the number of floats per keyframe for the path.
func (p Path) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
)

// Track animates one property of a transform. Values holds
// Path.Components() floats per key; rotations are stored x, y, z, w.
type Track struct {
	Target        *math.Transform
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Duration is the time of the last keyframe.
func (t *Track) Duration() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// keyframes returns the pair of keys surrounding time and the blend factor
// between them.
func (t *Track) keyframes(time float32) (int, int, float32) {
	n := len(t.Times)
	if time <= t.Times[0] {
		return 0, 0, 0
	}
	if time >= t.Times[n-1] {
		return n - 1, n - 1, 0
	}
	next := sort.Search(n, func(i int) bool { return t.Times[i] > time })
	prev := next - 1
	span := t.Times[next] - t.Times[prev]
	if span <= 0 {
		return prev, prev, 0
	}
	return prev, next, (time - t.Times[prev]) / span
}

func (t *Track) vec3(i int) math.Vec3 {
	return math.Vec3{t.Values[i*3], t.Values[i*3+1], t.Values[i*3+2]}
}

func (t *Track) quat(i int) math.Quaternion {
	v := t.Values[i*4 : i*4+4]
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// Apply samples the track at time and writes the result into Target.
func (t *Track) Apply(time float32) {
	if t.Target == nil || len(t.Times) == 0 || len(t.Values) < len(t.Times)*t.Path.Components() {
		return
	}
	prev, next, f := t.keyframes(time)
	if t.Interpolation == InterpolationStep {
		next, f = prev, 0
	}

	switch t.Path {
	case PathTranslation:
		t.Target.SetPosition(lerpVec3(t.vec3(prev), t.vec3(next), f))
	case PathScale:
		t.Target.SetScale(lerpVec3(t.vec3(prev), t.vec3(next), f))
	case PathRotation:
		a, b := t.quat(prev), t.quat(next)
		if f == 0 {
			t.Target.SetRotation(a.Normalize())
			return
		}
		t.Target.SetRotation(mgl32.QuatSlerp(a, b, f).Normalize())
	}
}

func lerpVec3(a, b math.Vec3, f float32) math.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}

// Clip is a named set of tracks played together.
type Clip struct {
	Name     string
	Tracks   []*Track
	Duration float32
}

// NewClip computes the duration from the longest track.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		c.Duration = max(c.Duration, t.Duration())
	}
	return c
}

// Sample applies every track at time.
func (c *Clip) Sample(time float32) {
	for _, t := range c.Tracks {
		t.Apply(time)
	}
}
