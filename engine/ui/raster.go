package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	titleSize   = 16
	bodySize    = 13
	textPadding = 10
)

// Rasterizer draws panels into RGBA images with the embedded Go font.
type Rasterizer struct {
	title font.Face
	body  font.Face
}

func NewRasterizer() (*Rasterizer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse overlay font: %w", err)
	}
	title, err := opentype.NewFace(f, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	body, err := opentype.NewFace(f, &opentype.FaceOptions{Size: bodySize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	return &Rasterizer{title: title, body: body}, nil
}

func (r *Rasterizer) Close() error {
	if err := r.title.Close(); err != nil {
		return err
	}
	return r.body.Close()
}

func rgba(c colorful.Color, alpha float32) color.RGBA {
	cr, cg, cb := c.Clamped().RGB255()
	a := uint8(alpha * 255)
	// premultiplied
	return color.RGBA{
		R: uint8(uint32(cr) * uint32(a) / 255),
		G: uint8(uint32(cg) * uint32(a) / 255),
		B: uint8(uint32(cb) * uint32(a) / 255),
		A: a,
	}
}

// Rasterize renders p at its layout size. Opacity is applied at draw time,
// not baked into the image.
func (r *Rasterizer) Rasterize(p *Panel) *image.RGBA {
	w, h := int(p.bounds.W), int(p.bounds.H)
	if w <= 0 || h <= 0 {
		w, h = int(p.Width), int(p.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(p.Background, p.BackgroundAlpha)), image.Point{}, draw.Src)

	ink := image.NewUniform(rgba(p.TextColor, 1))
	y := textPadding
	if p.Title != "" {
		y += r.title.Metrics().Ascent.Ceil()
		d := &font.Drawer{Dst: img, Src: ink, Face: r.title, Dot: fixed.P(textPadding, y)}
		d.DrawString(p.Title)
		y += r.title.Metrics().Descent.Ceil() + 4
	}

	lineHeight := r.body.Metrics().Height.Ceil()
	maxWidth := fixed.I(w - 2*textPadding)
	if p.Closable {
		maxWidth -= fixed.I(int(CloseControlSize))
	}
	for _, line := range WrapText(r.body, p.Text, maxWidth) {
		y += lineHeight
		if y > h-textPadding/2 {
			break
		}
		d := &font.Drawer{Dst: img, Src: ink, Face: r.body, Dot: fixed.P(textPadding, y)}
		d.DrawString(line)
	}

	if p.Closable {
		r.drawClose(img, ink)
	}
	return img
}

func (r *Rasterizer) drawClose(img *image.RGBA, ink image.Image) {
	size := int(CloseControlSize)
	left := img.Bounds().Dx() - size
	d := &font.Drawer{Dst: img, Src: ink, Face: r.body}
	adv := d.MeasureString("×")
	d.Dot = fixed.Point26_6{
		X: fixed.I(left) + (fixed.I(size)-adv)/2,
		Y: fixed.I(size/2) + r.body.Metrics().Ascent/2,
	}
	d.DrawString("×")
}

// WrapText splits text into lines no wider than maxWidth when drawn with
// face. Explicit newlines are kept; words longer than a line stand alone.
func WrapText(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if font.MeasureString(face, candidate) > maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}
