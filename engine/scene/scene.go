package scene

// Scene is the root of everything drawn in the world pass.
type Scene struct {
	Root        *Node
	Lights      LightingRig
	Environment *Environment
}

func NewScene() *Scene {
	return &Scene{
		Root:   NewNode("scene"),
		Lights: DefaultLightingRig(),
	}
}

func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Meshes returns every mesh of visible nodes in the graph.
func (s *Scene) Meshes() []*Mesh {
	var out []*Mesh
	var walk func(*Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			out = append(out, n.Mesh)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(s.Root)
	return out
}

// SetEnvironment installs the diffuse environment lighting.
func (s *Scene) SetEnvironment(env *Environment) {
	s.Environment = env
}
