package autoplace

// keepOutGainMax is the gain of cells inside the keep-out rectangle.
const keepOutGainMax = 256

// CreateKeepOutRectangle adds keepOut cost around a committed footprint.
// Cells inside rect get the full keepOut. The max(1, margin/pitch) rings of
// cells around it fall linearly, reaching nothing one ring past the last.
func (m *Matrix) CreateKeepOutRectangle(rect Rect, margin, keepOut int, sides Layers) {
	rings := max(1, margin/m.pitch)
	r0, r1, c0, c1 := m.clampedSpan(rect.Inflate(rings * m.pitch))

	for _, side := range []Side{Bottom, Top} {
		if !sides.On(side) {
			continue
		}
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				d := m.ringDistance(m.CellPoint(row, col), rect)
				if d > rings {
					continue
				}
				gain := keepOutGainMax * (rings + 1 - d) / (rings + 1)
				m.AddCost(row, col, side, int32(keepOut*gain/keepOutGainMax))
			}
		}
	}
}

// ringDistance counts the cells between p and rect, 0 inside it.
func (m *Matrix) ringDistance(p Point, rect Rect) int {
	dx, dy := 0, 0
	switch {
	case p.X < rect.Min.X:
		dx = ceilDiv(rect.Min.X-p.X, m.pitch)
	case p.X > rect.Max.X:
		dx = ceilDiv(p.X-rect.Max.X, m.pitch)
	}
	switch {
	case p.Y < rect.Min.Y:
		dy = ceilDiv(rect.Min.Y-p.Y, m.pitch)
	case p.Y > rect.Max.Y:
		dy = ceilDiv(p.Y-rect.Max.Y, m.pitch)
	}
	return max(dx, dy)
}
