package ui

import "time"

// Layer owns the panels drawn over the 3D view, in drawing order.
type Layer struct {
	panels []*Panel
	byID   map[string]*Panel
	width  float32
	height float32
}

func NewLayer() *Layer {
	return &Layer{byID: make(map[string]*Panel)}
}

// Add appends p, replacing any panel with the same id.
func (l *Layer) Add(p *Panel) {
	if old, ok := l.byID[p.ID]; ok {
		for i, q := range l.panels {
			if q == old {
				l.panels = append(l.panels[:i:i], l.panels[i+1:]...)
				break
			}
		}
	}
	l.byID[p.ID] = p
	l.panels = append(l.panels, p)
	p.bounds = place(p.Anchor, p.OffsetX, p.OffsetY, p.Width, p.Height, l.width, l.height)
}

func (l *Layer) GetByID(id string) (*Panel, bool) {
	p, ok := l.byID[id]
	return p, ok
}

func (l *Layer) Panels() []*Panel {
	return l.panels
}

func (l *Layer) Size() (float32, float32) {
	return l.width, l.height
}

// Layout re-anchors every panel to a screen of the given size.
func (l *Layer) Layout(width, height float32) {
	l.width, l.height = width, height
	for _, p := range l.panels {
		p.bounds = place(p.Anchor, p.OffsetX, p.OffsetY, p.Width, p.Height, width, height)
	}
}

// HitTest returns the top-most displayed panel under (x, y) and whether the
// point is on its close control.
func (l *Layer) HitTest(x, y float32) (*Panel, bool) {
	for i := len(l.panels) - 1; i >= 0; i-- {
		p := l.panels[i]
		if !p.Display || !p.bounds.Contains(x, y) {
			continue
		}
		return p, p.Closable && p.CloseBounds().Contains(x, y)
	}
	return nil, false
}

// HandleClick lets panels consume a click. A click on a close control hides
// its panel.
func (l *Layer) HandleClick(x, y float32) bool {
	p, onClose := l.HitTest(x, y)
	if p == nil {
		return false
	}
	if onClose {
		p.Hide()
	}
	return true
}

func (l *Layer) Update(delta time.Duration) {
	for _, p := range l.panels {
		p.Update(delta)
	}
}
