package autoplace

import (
	"math"
	"slices"
)

// Connectivity keeps the ratsnest the placer uses to order components.
type Connectivity interface {
	// Update refreshes the pad positions of a moved component.
	Update(c *Component)
	RecalculateRatsnest()
	// RatsnestEdgeCount counts edges with exactly one end on c.
	RatsnestEdgeCount(c *Component) int
}

// PadRef identifies one pad of one component.
type PadRef struct {
	Component *Component
	Pad       int
}

// RatsnestEdge is one connection of a net's minimum spanning tree.
type RatsnestEdge struct {
	Net      int
	From, To PadRef
	Length   float64
}

// Ratsnest computes, per net, the minimum spanning tree over pad positions
// (Prim over the complete graph). Positions are snapshotted and only change
// on Update; RecalculateRatsnest rebuilds only the nets whose pads moved.
type Ratsnest struct {
	nets  map[int][]ratsNode
	pads  map[*Component][]nodeRef
	trees map[int][]RatsnestEdge
	dirty map[int]bool

	edges []RatsnestEdge
	count map[*Component]int
}

type ratsNode struct {
	ref PadRef
	pos Point
}

// nodeRef locates a pad in Ratsnest.nets.
type nodeRef struct {
	net, idx int
}

// NewRatsnest snapshots every connected pad of the board.
func NewRatsnest(b *Board) *Ratsnest {
	r := &Ratsnest{
		nets:  make(map[int][]ratsNode),
		pads:  make(map[*Component][]nodeRef),
		trees: make(map[int][]RatsnestEdge),
		dirty: make(map[int]bool),
		count: make(map[*Component]int),
	}
	for _, c := range b.Components {
		for i, p := range c.Pads {
			if p.Net <= 0 {
				continue
			}
			r.pads[c] = append(r.pads[c], nodeRef{net: p.Net, idx: len(r.nets[p.Net])})
			r.nets[p.Net] = append(r.nets[p.Net], ratsNode{
				ref: PadRef{Component: c, Pad: i},
				pos: c.PadPosition(i),
			})
			r.dirty[p.Net] = true
		}
	}
	return r
}

func (r *Ratsnest) Update(c *Component) {
	for _, n := range r.pads[c] {
		node := &r.nets[n.net][n.idx]
		if pos := c.PadPosition(node.ref.Pad); pos != node.pos {
			node.pos = pos
			r.dirty[n.net] = true
		}
	}
}

func (r *Ratsnest) RecalculateRatsnest() {
	for net := range r.dirty {
		r.trees[net] = spanningTree(r.nets[net])
	}
	clear(r.dirty)

	nets := make([]int, 0, len(r.trees))
	for net := range r.trees {
		nets = append(nets, net)
	}
	slices.Sort(nets)

	r.edges = r.edges[:0]
	clear(r.count)
	for _, net := range nets {
		for _, e := range r.trees[net] {
			e.Net = net
			r.edges = append(r.edges, e)
			if e.From.Component != e.To.Component {
				r.count[e.From.Component]++
				r.count[e.To.Component]++
			}
		}
	}
}

func (r *Ratsnest) RatsnestEdgeCount(c *Component) int {
	return r.count[c]
}

// Edges returns the edges of the last recalculation.
func (r *Ratsnest) Edges() []RatsnestEdge {
	return r.edges
}

// spanningTree runs Prim over the complete graph of nodes in O(n²) time
// and O(n) memory. Ties go to the lowest node index.
func spanningTree(nodes []ratsNode) []RatsnestEdge {
	n := len(nodes)
	if n < 2 {
		return nil
	}

	inTree := make([]bool, n)
	best := make([]int64, n)
	from := make([]int, n)
	for i := range best {
		best[i] = math.MaxInt64
	}

	tree := make([]RatsnestEdge, 0, n-1)
	cur := 0
	inTree[cur] = true
	for len(tree) < n-1 {
		next := -1
		for j := range nodes {
			if inTree[j] {
				continue
			}
			if d := dist2(nodes[cur].pos, nodes[j].pos); d < best[j] {
				best[j], from[j] = d, cur
			}
			if next < 0 || best[j] < best[next] {
				next = j
			}
		}
		inTree[next] = true
		a, b := nodes[from[next]], nodes[next]
		tree = append(tree, RatsnestEdge{
			From:   a.ref,
			To:     b.ref,
			Length: distance(a.pos, b.pos),
		})
		cur = next
	}
	return tree
}

func dist2(a, b Point) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	return dx*dx + dy*dy
}
