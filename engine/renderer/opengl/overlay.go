package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/houseview/engine/ui"
)

// panelTexture caches the rasterized panel until its content or size
// changes.
type panelTexture struct {
	id         uint32
	generation uint32
	width      int
	height     int
}

type overlayPass struct {
	program    uint32
	rectLoc    int32
	screenLoc  int32
	opacityLoc int32
	panelLoc   int32

	vao, vbo uint32

	raster   *ui.Rasterizer
	textures map[*ui.Panel]*panelTexture
}

func newOverlayPass() (*overlayPass, error) {
	prog, err := newProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		return nil, err
	}
	raster, err := ui.NewRasterizer()
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, err
	}
	op := &overlayPass{
		program:    prog,
		rectLoc:    uniform(prog, "rect"),
		screenLoc:  uniform(prog, "screen"),
		opacityLoc: uniform(prog, "opacity"),
		panelLoc:   uniform(prog, "panel"),
		raster:     raster,
		textures:   make(map[*ui.Panel]*panelTexture),
	}

	// unit quad as a triangle strip
	corners := []float32{0, 0, 1, 0, 0, 1, 1, 1}
	gl.GenVertexArrays(1, &op.vao)
	gl.GenBuffers(1, &op.vbo)
	gl.BindVertexArray(op.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, op.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, gl.Ptr(corners), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return op, nil
}

func (op *overlayPass) texture(p *ui.Panel) *panelTexture {
	b := p.Bounds()
	w, h := int(b.W), int(b.H)
	tex, ok := op.textures[p]
	if ok && tex.generation == p.Generation && tex.width == w && tex.height == h {
		return tex
	}
	if !ok {
		tex = &panelTexture{}
		gl.GenTextures(1, &tex.id)
		op.textures[p] = tex
	}
	img := op.raster.Rasterize(p)
	tex.generation, tex.width, tex.height = p.Generation, w, h

	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return tex
}

func (op *overlayPass) draw(layer *ui.Layer, width, height uint32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(op.program)
	gl.Uniform2f(op.screenLoc, float32(width), float32(height))
	gl.Uniform1i(op.panelLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(op.vao)

	for _, p := range layer.Panels() {
		b := p.Bounds()
		if !p.IsVisible() || p.RenderedOpacity() <= 0 || b.Empty() {
			continue
		}
		tex := op.texture(p)
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		gl.Uniform4f(op.rectLoc, b.X, b.Y, b.W, b.H)
		gl.Uniform1f(op.opacityLoc, p.RenderedOpacity())
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (op *overlayPass) release() {
	for _, tex := range op.textures {
		gl.DeleteTextures(1, &tex.id)
	}
	clear(op.textures)
	gl.DeleteBuffers(1, &op.vbo)
	gl.DeleteVertexArrays(1, &op.vao)
	gl.DeleteProgram(op.program)
	op.raster.Close()
}
