package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/houseview/engine/scene"
)

// gpuPrimitive holds the buffer objects of an uploaded primitive.
type gpuPrimitive struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

const vertexStride = 6 * 4

func uploadPrimitive(p *scene.Primitive) *gpuPrimitive {
	if len(p.Positions) == 0 || len(p.Indices) == 0 {
		return nil
	}
	vertices := make([]float32, 0, len(p.Positions)*6)
	for i, pos := range p.Positions {
		var n [3]float32
		if i < len(p.Normals) {
			n = p.Normals[i]
		}
		vertices = append(vertices, pos[0], pos[1], pos[2], n[0], n[1], n[2])
	}

	gpu := &gpuPrimitive{indexCount: int32(len(p.Indices))}
	gl.GenVertexArrays(1, &gpu.vao)
	gl.GenBuffers(1, &gpu.vbo)
	gl.GenBuffers(1, &gpu.ebo)
	gl.BindVertexArray(gpu.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(3*4))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gpu
}

func (g *gpuPrimitive) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuPrimitive) release() {
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteVertexArrays(1, &g.vao)
}
