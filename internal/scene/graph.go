package scene

import (
	"cmp"
	"slices"

	"github.com/tomz197/streetrunner/internal/physics"
)

// Presenter places and removes presentable objects. Entities hold the
// returned node and transform it; they never see how it is drawn.
type Presenter interface {
	Place(model string, pos physics.Vec3) *Node
	Remove(n *Node)
}

// Node is one placed model instance.
type Node struct {
	model    Model
	pos      physics.Vec3
	offset   physics.Vec3 // cosmetic, added to pos when drawn
	spin     float64
	scale    float64
	dim      bool
	flash    bool
	hidden   bool
	index    int // position in Graph.nodes, -1 once removed
	sequence uint64
}

func (n *Node) Model() Model               { return n.model }
func (n *Node) Position() physics.Vec3     { return n.pos }
func (n *Node) Offset() physics.Vec3       { return n.offset }
func (n *Node) Spin() float64              { return n.spin }
func (n *Node) Scale() float64             { return n.scale }
func (n *Node) Dimmed() bool               { return n.dim }
func (n *Node) Flashing() bool             { return n.flash }
func (n *Node) Visible() bool              { return !n.hidden }
func (n *Node) Removed() bool              { return n.index < 0 }
func (n *Node) SetPosition(p physics.Vec3) { n.pos = p }
func (n *Node) SetOffset(o physics.Vec3)   { n.offset = o }
func (n *Node) SetSpin(a float64)          { n.spin = a }
func (n *Node) SetScale(s float64)         { n.scale = s }
func (n *Node) SetDim(d bool)              { n.dim = d }
func (n *Node) SetFlash(f bool)            { n.flash = f }
func (n *Node) SetVisible(v bool)          { n.hidden = !v }

// WorldPosition returns the drawn position including the cosmetic offset.
func (n *Node) WorldPosition() physics.Vec3 {
	return n.pos.Add(n.offset)
}

// Graph holds every placed node. Not safe for concurrent use; the frame loop
// owns it.
type Graph struct {
	lib   *Library
	nodes []*Node
	seq   uint64
}

func NewGraph(lib *Library) *Graph {
	return &Graph{lib: lib}
}

// Place clones model from the library and adds a node for it.
func (g *Graph) Place(model string, pos physics.Vec3) *Node {
	g.seq++
	n := &Node{
		model:    g.lib.Clone(model),
		pos:      pos,
		scale:    1,
		index:    len(g.nodes),
		sequence: g.seq,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// Remove detaches n. Removing twice or removing nil is a no-op.
func (g *Graph) Remove(n *Node) {
	if n == nil || n.index < 0 || n.index >= len(g.nodes) || g.nodes[n.index] != n {
		return
	}
	last := len(g.nodes) - 1
	g.nodes[n.index] = g.nodes[last]
	g.nodes[n.index].index = n.index
	g.nodes[last] = nil
	g.nodes = g.nodes[:last]
	n.index = -1
}

// Resolve upgrades pending nodes once the library has loaded and returns how
// many changed.
func (g *Graph) Resolve() int {
	if !g.lib.Loaded() {
		return 0
	}
	changed := 0
	for _, n := range g.nodes {
		if n.model.Rep == Pending {
			n.model = g.lib.Clone(n.model.Name)
			changed++
		}
	}
	return changed
}

// Each calls fn for every node in placement order.
func (g *Graph) Each(fn func(n *Node)) {
	ordered := make([]*Node, len(g.nodes))
	copy(ordered, g.nodes)
	slices.SortFunc(ordered, func(a, b *Node) int {
		return cmp.Compare(a.sequence, b.sequence)
	})
	for _, n := range ordered {
		fn(n)
	}
}

// Len returns the number of placed nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Clear removes every node.
func (g *Graph) Clear() {
	for _, n := range g.nodes {
		n.index = -1
	}
	clear(g.nodes)
	g.nodes = g.nodes[:0]
}
