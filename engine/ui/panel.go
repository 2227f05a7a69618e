package ui

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type PanelState uint8

const (
	PanelHidden PanelState = iota
	PanelShowing
	PanelVisible
	PanelHiding
)

func (s PanelState) String() string {
	switch s {
	case PanelShowing:
		return "showing"
	case PanelVisible:
		return "visible"
	case PanelHiding:
		return "hiding"
	default:
		return "hidden"
	}
}

// DefaultFadeDuration is used by panels that do not set their own.
const DefaultFadeDuration = 300 * time.Millisecond

// CloseControlSize is the side of the square close button in pixels.
const CloseControlSize float32 = 20

// FrameScheduler defers a callback to the start of the next frame.
type FrameScheduler interface {
	NextFrame(fn func())
}

// Panel is a screen space rectangle with a title and a body text.
//
// Display decides whether the panel is drawn and hit tested at all. Opacity
// is the target the rendered opacity moves towards over FadeDuration. A fade
// out keeps Display set until the transition has finished, so the hide
// delay and the transition can never disagree.
type Panel struct {
	ID    string
	Title string
	Text  string

	Anchor  Anchor
	OffsetX float32
	OffsetY float32
	Width   float32
	Height  float32

	Background      colorful.Color
	BackgroundAlpha float32
	TextColor       colorful.Color
	Closable        bool

	Display      bool
	Opacity      float32
	FadeDuration time.Duration

	// Generation changes whenever the rasterized content must be rebuilt.
	Generation uint32

	rendered      float32
	state         PanelState
	hideRemaining time.Duration
	bounds        Rect
}

func NewPanel(id string) *Panel {
	return &Panel{
		ID:              id,
		Anchor:          AnchorTopLeft,
		OffsetX:         16,
		OffsetY:         16,
		Width:           280,
		Height:          96,
		Background:      colorful.Color{R: 0.1, G: 0.1, B: 0.1},
		BackgroundAlpha: 0.8,
		TextColor:       colorful.Color{R: 1, G: 1, B: 1},
		FadeDuration:    DefaultFadeDuration,
	}
}

func (p *Panel) State() PanelState {
	return p.state
}

// RenderedOpacity is the opacity the panel is drawn with this frame.
func (p *Panel) RenderedOpacity() float32 {
	return p.rendered
}

// IsVisible reports whether the panel takes part in drawing and hit testing.
func (p *Panel) IsVisible() bool {
	return p.Display
}

func (p *Panel) SetText(text string) {
	if p.Text == text {
		return
	}
	p.Text = text
	p.Generation++
}

// Show displays the panel at full opacity without a transition.
func (p *Panel) Show() {
	p.Display = true
	p.Opacity = 1
	p.rendered = 1
	p.hideRemaining = 0
	p.state = PanelVisible
}

// Hide removes the panel immediately.
func (p *Panel) Hide() {
	p.Display = false
	p.Opacity = 0
	p.rendered = 0
	p.hideRemaining = 0
	p.state = PanelHidden
}

// FadeIn sets Display now and raises Opacity on the next frame, so the
// transition starts from a drawn, fully transparent panel.
func (p *Panel) FadeIn(s FrameScheduler) {
	if p.state == PanelVisible && p.Display {
		return
	}
	p.Display = true
	p.hideRemaining = 0
	p.state = PanelShowing
	s.NextFrame(func() {
		if p.state == PanelShowing {
			p.Opacity = 1
		}
	})
}

// FadeOut drops Opacity to 0 immediately and clears Display once
// FadeDuration has elapsed.
func (p *Panel) FadeOut() {
	if !p.Display {
		return
	}
	p.Opacity = 0
	if p.state != PanelHiding {
		p.hideRemaining = p.FadeDuration
	}
	p.state = PanelHiding
}

// Update advances the opacity transition and the pending hide by delta.
func (p *Panel) Update(delta time.Duration) {
	if !p.Display {
		return
	}

	if p.FadeDuration <= 0 {
		p.rendered = p.Opacity
	} else {
		step := float32(delta.Seconds() / p.FadeDuration.Seconds())
		switch {
		case p.rendered < p.Opacity:
			p.rendered = min(p.Opacity, p.rendered+step)
		case p.rendered > p.Opacity:
			p.rendered = max(p.Opacity, p.rendered-step)
		}
	}

	switch p.state {
	case PanelShowing:
		if p.Opacity == 1 && p.rendered >= 1 {
			p.state = PanelVisible
		}
	case PanelHiding:
		p.hideRemaining -= delta
		if p.hideRemaining <= 0 {
			p.Display = false
			p.rendered = 0
			p.hideRemaining = 0
			p.state = PanelHidden
		}
	}
}

// Bounds is the screen rectangle computed by the last layout.
func (p *Panel) Bounds() Rect {
	return p.bounds
}

// CloseBounds is the close control in the top right corner of the panel.
func (p *Panel) CloseBounds() Rect {
	if !p.Closable {
		return Rect{}
	}
	return Rect{
		X: p.bounds.X + p.bounds.W - CloseControlSize,
		Y: p.bounds.Y,
		W: CloseControlSize,
		H: CloseControlSize,
	}
}
