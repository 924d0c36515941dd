package autoplace

const mm = 1_000_000

// square returns a closed square outline from the origin with side s.
func square(s int) Contour {
	return Contour{
		Points: []Point{{0, 0}, {s, 0}, {s, s}, {0, s}},
		Closed: true,
	}
}

// part is a top-side component with a square body of half-width half and
// one 1 mm pad at its origin per net.
func part(ref string, pos Point, half int, nets ...int) *Component {
	c := &Component{
		Ref:      ref,
		Position: pos,
		Side:     Top,
		Body:     Rect{Min: Point{-half, -half}, Max: Point{half, half}},
	}
	for i, n := range nets {
		c.Pads = append(c.Pads, Pad{
			Name:   string(rune('1' + i)),
			Size:   Point{1 * mm, 1 * mm},
			Layers: TopCopper,
			Net:    n,
		})
	}
	return c
}

func squareBoard(side int, parts ...*Component) *Board {
	return &Board{Components: parts, Outline: []Contour{square(side)}}
}

// occupiedSpan returns the committed cell span of c.
func occupiedSpan(m *Matrix, c *Component) (r0, r1, c0, c1 int) {
	return m.clampedSpan(c.Bounds().Inflate(m.Pitch() / 2))
}

// stubConn is a Connectivity with fixed edge counts.
type stubConn struct {
	edges   map[*Component]int
	updated []*Component
}

func (s *stubConn) Update(c *Component)                { s.updated = append(s.updated, c) }
func (s *stubConn) RecalculateRatsnest()               {}
func (s *stubConn) RatsnestEdgeCount(c *Component) int { return s.edges[c] }

// cancelAfter asks to stop once n components were reported done.
type cancelAfter struct {
	NopReporter
	n, done int
	titles  []string
	max     int
}

func (r *cancelAfter) Report(title string)  { r.titles = append(r.titles, title) }
func (r *cancelAfter) SetMaxProgress(n int) { r.max = n }
func (r *cancelAfter) AdvanceProgress()     { r.done++ }
func (r *cancelAfter) KeepRefreshing() bool { return r.done < r.n }
