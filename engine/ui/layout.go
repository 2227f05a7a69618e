package ui

import (
	"fmt"
	"strings"
)

type Anchor uint8

const (
	AnchorTopLeft Anchor = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorCenter
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
)

var anchorNames = map[string]Anchor{
	"top-left":      AnchorTopLeft,
	"top-center":    AnchorTopCenter,
	"top-right":     AnchorTopRight,
	"center":        AnchorCenter,
	"bottom-left":   AnchorBottomLeft,
	"bottom-center": AnchorBottomCenter,
	"bottom-right":  AnchorBottomRight,
}

func ParseAnchor(s string) (Anchor, error) {
	if s == "" {
		return AnchorTopLeft, nil
	}
	a, ok := anchorNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return AnchorTopLeft, fmt.Errorf("unknown anchor %q", s)
	}
	return a, nil
}

// Rect is a screen rectangle in pixels, origin at the top left.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// place anchors a w×h rectangle inside a screen of size sw×sh. Offsets move
// the rectangle away from the anchored edges.
func place(a Anchor, offX, offY, w, h, sw, sh float32) Rect {
	var x, y float32
	switch a {
	case AnchorTopLeft, AnchorBottomLeft:
		x = offX
	case AnchorTopRight, AnchorBottomRight:
		x = sw - w - offX
	default:
		x = (sw-w)/2 + offX
	}
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		y = offY
	case AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		y = sh - h - offY
	default:
		y = (sh-h)/2 + offY
	}
	return Rect{X: x, Y: y, W: w, H: h}
}
