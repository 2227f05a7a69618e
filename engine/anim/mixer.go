package anim

import stdmath "math"

// Action is the playback state of a clip.
type Action struct {
	Clip      *Clip
	Time      float32
	TimeScale float32
	Loop      bool
	playing   bool
}

func (a *Action) Play() *Action {
	a.playing = true
	return a
}

func (a *Action) Stop() {
	a.playing = false
	a.Time = 0
}

func (a *Action) IsRunning() bool {
	return a.playing
}

func (a *Action) advance(delta float32) {
	if !a.playing {
		return
	}
	a.Time += delta * a.TimeScale
	d := a.Clip.Duration
	switch {
	case d <= 0:
		a.Time = 0
	case a.Loop:
		a.Time = float32(stdmath.Mod(float64(a.Time), float64(d)))
		if a.Time < 0 {
			a.Time += d
		}
	case a.Time >= d:
		a.Time = d
		a.playing = false
	}
	a.Clip.Sample(a.Time)
}

// Mixer drives a set of actions with the frame delta.
type Mixer struct {
	actions []*Action
	time    float32
}

func NewMixer() *Mixer {
	return &Mixer{}
}

// ClipAction returns the action of clip, creating a looping one if needed.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	for _, a := range m.actions {
		if a.Clip == clip {
			return a
		}
	}
	a := &Action{Clip: clip, TimeScale: 1, Loop: true}
	m.actions = append(m.actions, a)
	return a
}

// PlayAll starts every clip.
func (m *Mixer) PlayAll(clips []*Clip) {
	for _, c := range clips {
		m.ClipAction(c).Play()
	}
}

func (m *Mixer) Actions() []*Action {
	return m.actions
}

// Time is the total time the mixer has been advanced by.
func (m *Mixer) Time() float32 {
	return m.time
}

// Update advances every running action by delta seconds.
func (m *Mixer) Update(delta float32) {
	if delta < 0 {
		return
	}
	m.time += delta
	for _, a := range m.actions {
		a.advance(delta)
	}
}
