package ui

import (
	"fmt"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PanelSpec is the declarative description of a panel in a layout document.
type PanelSpec struct {
	ID              string  `toml:"id"`
	Title           string  `toml:"title"`
	Text            string  `toml:"text"`
	Anchor          string  `toml:"anchor"`
	OffsetX         float32 `toml:"offset_x"`
	OffsetY         float32 `toml:"offset_y"`
	Width           float32 `toml:"width"`
	Height          float32 `toml:"height"`
	Background      string  `toml:"background"`
	BackgroundAlpha float32 `toml:"background_alpha"`
	TextColor       string  `toml:"text_color"`
	Closable        bool    `toml:"closable"`
}

// LayoutSpec is a layout document: a list of panels.
type LayoutSpec struct {
	Panels []PanelSpec `toml:"panel"`
}

// Find returns the panel spec with the given id.
func (l *LayoutSpec) Find(id string) (PanelSpec, bool) {
	if l == nil {
		return PanelSpec{}, false
	}
	for _, p := range l.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelSpec{}, false
}

// NewPanelFromSpec builds a hidden panel. Zero fields keep the panel
// defaults.
func NewPanelFromSpec(spec PanelSpec, fade time.Duration) (*Panel, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("panel without id")
	}
	p := NewPanel(spec.ID)
	p.Title = spec.Title
	p.Text = spec.Text
	p.Closable = spec.Closable
	p.FadeDuration = fade

	anchor, err := ParseAnchor(spec.Anchor)
	if err != nil {
		return nil, fmt.Errorf("panel %q: %w", spec.ID, err)
	}
	p.Anchor = anchor
	if spec.OffsetX != 0 || spec.OffsetY != 0 {
		p.OffsetX, p.OffsetY = spec.OffsetX, spec.OffsetY
	}
	if spec.Width > 0 {
		p.Width = spec.Width
	}
	if spec.Height > 0 {
		p.Height = spec.Height
	}
	if spec.BackgroundAlpha > 0 {
		p.BackgroundAlpha = min(spec.BackgroundAlpha, 1)
	}
	if spec.Background != "" {
		if p.Background, err = colorful.Hex(spec.Background); err != nil {
			return nil, fmt.Errorf("panel %q background: %w", spec.ID, err)
		}
	}
	if spec.TextColor != "" {
		if p.TextColor, err = colorful.Hex(spec.TextColor); err != nil {
			return nil, fmt.Errorf("panel %q text color: %w", spec.ID, err)
		}
	}
	return p, nil
}
