package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/houseview/engine/math"
)

// Node is an element of the scene graph. A parent owns its children.
type Node struct {
	UniqueID  uuid.UUID
	Name      string
	Transform *math.Transform
	Mesh      *Mesh
	Visible   bool

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		UniqueID:  uuid.New(),
		Name:      name,
		Transform: math.TransformCreate(),
		Visible:   true,
	}
}

// NewMeshNode wraps mesh in a new node of the same name.
func NewMeshNode(mesh *Mesh) *Node {
	n := NewNode(mesh.Name)
	n.SetMesh(mesh)
	return n
}

func (n *Node) SetMesh(mesh *Mesh) {
	n.Mesh = mesh
	if mesh != nil {
		mesh.Node = n
	}
}

// Add reparents child under n.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	child.Transform.Parent = n.Transform
	n.children = append(n.children, child)
}

// Remove detaches child from n. Returns false when child is not a direct child.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			child.Transform.Parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) World() math.Mat4 {
	return n.Transform.GetWorld()
}

// Traverse calls fn for n and all its descendants, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// Meshes collects the meshes in the subtree.
func (n *Node) Meshes() []*Mesh {
	var out []*Mesh
	n.Traverse(func(c *Node) {
		if c.Mesh != nil {
			out = append(out, c.Mesh)
		}
	})
	return out
}

// WorldBounds returns the world-space bounding box of every mesh in the
// subtree.
func (n *Node) WorldBounds() math.Extents3D {
	b := math.NewExtentsEmpty()
	for _, m := range n.Meshes() {
		b = b.Union(m.LocalBounds().ApplyMat4(m.World()))
	}
	return b
}
