package autoplace

import (
	"math"
	"slices"
)

// Rasterize marks every cell inside the outline as ZoneAvailable.
//
// Each grid row inside the outline box is intersected with all contour
// edges. An edge counts when min(y0, y1) <= y < max(y0, y1), so horizontal
// edges never count and shared vertices count once. The sorted
// intersections pair up into filled spans; an odd count means the outline
// does not enclose anything consistently and fails with a *RasterError.
// The bottom side is filled and then copied to the top side.
func (m *Matrix) Rasterize(outline []Contour) error {
	var bbox Rect
	first := true
	for _, c := range outline {
		for _, p := range c.Points {
			if first {
				bbox, first = Rect{Min: p, Max: p}, false
			} else {
				bbox = bbox.Expand(p)
			}
		}
	}
	if first {
		return ErrZeroAreaBoard
	}

	r0, r1, _, _ := m.clampedSpan(bbox)
	var xs []int

	for row := r0; row <= r1; row++ {
		y := m.box.Min.Y + row*m.pitch
		if y >= bbox.Max.Y {
			break
		}

		xs = xs[:0]
		for _, c := range outline {
			n := len(c.Points)
			edges := n - 1
			if c.Closed {
				edges = n
			}
			for i := 0; i < edges; i++ {
				a, b := c.Points[i], c.Points[(i+1)%n]
				if x, ok := scanlineCrossing(a, b, y); ok {
					xs = append(xs, x)
				}
			}
		}

		if len(xs)%2 != 0 {
			return &RasterError{Row: row, Y: y, Intersections: len(xs)}
		}
		slices.Sort(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			c0 := max(ceilDiv(xs[i]-m.box.Min.X, m.pitch), 0)
			c1 := min(floorDiv(xs[i+1]-m.box.Min.X, m.pitch), m.cols-1)
			for col := c0; col <= c1; col++ {
				m.SetCell(row, col, Bottom, ZoneAvailable, OrCell)
			}
		}
	}

	m.CopySide(Bottom, Top)
	return nil
}

// scanlineCrossing returns the x where edge a-b crosses the line at y,
// using the half-open rule min(y) <= y < max(y).
func scanlineCrossing(a, b Point, y int) (int, bool) {
	if a.Y > y && b.Y > y {
		return 0, false
	}
	if a.Y <= y && b.Y <= y {
		return 0, false
	}
	dy := b.Y - a.Y
	t := float64(y-a.Y) / float64(dy)
	return a.X + int(t*float64(b.X-a.X)), true
}

// TraceRect marks the cells inside rect on the given sides.
func (m *Matrix) TraceRect(rect Rect, sides Layers, flags CellFlags, mode TraceMode) {
	r0, r1, c0, c1 := m.clampedSpan(rect)
	for _, side := range []Side{Bottom, Top} {
		if !sides.On(side) {
			continue
		}
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				m.SetCell(row, col, side, flags, mode)
			}
		}
	}
}

// TraceSegment marks the cells within halfWidth plus half a pitch of the
// segment a-b, so thin drawings still cover the cells they cross.
func (m *Matrix) TraceSegment(a, b Point, halfWidth int, flags CellFlags, mode TraceMode, sides Layers) {
	reach := halfWidth + m.pitch/2
	r0, r1, c0, c1 := m.clampedSpan(RectFromPoints(a, b).Inflate(reach))
	limit := float64(reach)
	for _, side := range []Side{Bottom, Top} {
		if !sides.On(side) {
			continue
		}
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if segmentDistance(m.CellPoint(row, col), a, b) <= limit {
					m.SetCell(row, col, side, flags, mode)
				}
			}
		}
	}
}

// TracePad marks the box of pad i of c, grown by margin, on the pad's
// copper sides.
func (m *Matrix) TracePad(c *Component, i int, flags CellFlags, margin int, mode TraceMode) {
	m.TraceRect(c.PadBounds(i).Inflate(margin), c.Pads[i].Layers, flags, mode)
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px, py)
	}
	t := max(0, min(1, (px*dx+py*dy)/l2))
	return math.Hypot(px-t*dx, py-t*dy)
}
