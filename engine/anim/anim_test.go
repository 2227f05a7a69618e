package anim

import (
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translationClip(target *math.Transform, interp Interpolation) *Clip {
	return NewClip("slide", []*Track{{
		Target:        target,
		Path:          PathTranslation,
		Interpolation: interp,
		Times:         []float32{0, 1, 2},
		Values:        []float32{0, 0, 0, 10, 0, 0, 10, 10, 0},
	}})
}

func TestClipDuration(t *testing.T) {
	c := translationClip(math.TransformCreate(), InterpolationLinear)
	assert.Equal(t, float32(2), c.Duration)
	assert.Equal(t, float32(0), NewClip("empty", nil).Duration)
}

func TestTrackLinearAndStep(t *testing.T) {
	tests := []struct {
		name   string
		interp Interpolation
		time   float32
		want   math.Vec3
	}{
		{"linear start", InterpolationLinear, 0, math.Vec3{0, 0, 0}},
		{"linear mid", InterpolationLinear, 0.5, math.Vec3{5, 0, 0}},
		{"linear second segment", InterpolationLinear, 1.25, math.Vec3{10, 2.5, 0}},
		{"linear past end", InterpolationLinear, 5, math.Vec3{10, 10, 0}},
		{"step mid", InterpolationStep, 0.9, math.Vec3{0, 0, 0}},
		{"step at key", InterpolationStep, 1, math.Vec3{10, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := math.TransformCreate()
			translationClip(tr, tt.interp).Sample(tt.time)
			assert.InDeltaSlice(t, tt.want[:], tr.Position[:], 1e-5)
		})
	}
}

func TestTrackRotationSlerp(t *testing.T) {
	tr := math.TransformCreate()
	half := float32(stdmath.Sqrt2 / 2)
	track := &Track{
		Target: tr,
		Path:   PathRotation,
		Times:  []float32{0, 1},
		// identity to 90° around Y, x y z w
		Values: []float32{0, 0, 0, 1, 0, half, 0, half},
	}
	track.Apply(0.5)
	want := math.NewQuatFromAxisAngle(math.Vec3{0, 1, 0}, float32(stdmath.Pi/4))
	assert.InDelta(t, want.W, tr.Rotation.W, 1e-5)
	assert.InDelta(t, want.V.Y(), tr.Rotation.V.Y(), 1e-5)
}

func TestTrackIgnoresShortValues(t *testing.T) {
	tr := math.TransformCreate()
	track := &Track{Target: tr, Path: PathScale, Times: []float32{0, 1}, Values: []float32{2, 2, 2}}
	track.Apply(0.5)
	assert.Equal(t, math.NewVec3One(), tr.Scale)
}

func TestMixerLoopsByDelta(t *testing.T) {
	tr := math.TransformCreate()
	clip := translationClip(tr, InterpolationLinear)
	m := NewMixer()
	m.PlayAll([]*Clip{clip})
	require.Len(t, m.Actions(), 1)

	m.Update(0.5)
	assert.InDelta(t, 5, tr.Position.X(), 1e-5)

	m.Update(2.0) // 2.5 wraps to 0.5
	a := m.ClipAction(clip)
	assert.InDelta(t, 0.5, a.Time, 1e-5)
	assert.InDelta(t, 5, tr.Position.X(), 1e-5)
	assert.InDelta(t, 2.5, m.Time(), 1e-6)
	assert.True(t, a.IsRunning())
}

func TestMixerOneShotStopsAtEnd(t *testing.T) {
	tr := math.TransformCreate()
	clip := translationClip(tr, InterpolationLinear)
	m := NewMixer()
	a := m.ClipAction(clip)
	a.Loop = false
	a.Play()

	m.Update(3)
	assert.False(t, a.IsRunning())
	assert.Equal(t, float32(2), a.Time)
	assert.InDeltaSlice(t, []float32{10, 10, 0}, tr.Position[:], 1e-5)

	// a stopped action no longer moves the target
	tr.SetPosition(math.NewVec3Zero())
	m.Update(0.5)
	assert.Equal(t, math.NewVec3Zero(), tr.Position)
}

func TestMixerIgnoresStoppedActions(t *testing.T) {
	tr := math.TransformCreate()
	m := NewMixer()
	m.ClipAction(translationClip(tr, InterpolationLinear))
	m.Update(0.5)
	assert.Equal(t, math.NewVec3Zero(), tr.Position)
}
