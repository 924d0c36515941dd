package pcb

import "math"

// rotate applies a KiCad rotation: positive angles turn counter-clockwise on
// screen, where Y grows downwards.
func rotate(p Position, angle Angle) Position {
	if angle == 0 {
		return p
	}
	rad := -float64(angle) * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Position{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// GetBoundingBox calculates the bounding box of the entire board.
// Includes footprints and board drawings.
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for i := range b.Footprints {
		bbox.ExpandBox(b.Footprints[i].GetBoundingBox())
	}
	bbox.ExpandBox(graphicsBounds(b.Graphics, ""))

	return bbox
}

// EdgeBounds returns the bounding box of the Edge.Cuts drawings.
func (b *Board) EdgeBounds() BoundingBox {
	return graphicsBounds(b.Graphics, LayerEdgeCuts)
}

func graphicsBounds(g Graphics, layer string) BoundingBox {
	bbox := NewBoundingBox()
	keep := func(l string) bool { return layer == "" || l == layer }

	for _, line := range g.Lines {
		if keep(line.Layer) {
			bbox.Expand(line.Start)
			bbox.Expand(line.End)
		}
	}
	for _, circle := range g.Circles {
		if keep(circle.Layer) {
			r := circle.Radius()
			bbox.Expand(Position{X: circle.Center.X - r, Y: circle.Center.Y - r})
			bbox.Expand(Position{X: circle.Center.X + r, Y: circle.Center.Y + r})
		}
	}
	for _, arc := range g.Arcs {
		if keep(arc.Layer) {
			for _, p := range arcPoints(arc.Start, arc.Mid, arc.End) {
				bbox.Expand(p)
			}
		}
	}
	for _, rect := range g.Rects {
		if keep(rect.Layer) {
			bbox.Expand(rect.Start)
			bbox.Expand(rect.End)
		}
	}
	for _, poly := range g.Polys {
		if keep(poly.Layer) {
			for _, point := range poly.Points {
				bbox.Expand(point)
			}
		}
	}
	return bbox
}

// GetBoundingBox calculates the board-space bounding box of a footprint
// at its current position and rotation.
func (fp *Footprint) GetBoundingBox() BoundingBox {
	local := fp.LocalBounds()
	bbox := NewBoundingBox()
	if local.IsEmpty() {
		bbox.Expand(fp.Position.Position)
		return bbox
	}
	corners := []Position{
		local.Min,
		{X: local.Max.X, Y: local.Min.Y},
		local.Max,
		{X: local.Min.X, Y: local.Max.Y},
	}
	for _, c := range corners {
		bbox.Expand(fp.TransformPosition(PositionAngle{Position: c}))
	}
	return bbox
}

// LocalBounds returns the footprint extent in its own unrotated frame:
// pads plus drawings, text excluded.
func (fp *Footprint) LocalBounds() BoundingBox {
	bbox := NewBoundingBox()

	for _, pad := range fp.Pads {
		bbox.ExpandBox(pad.LocalBounds())
	}

	for _, g := range fp.Graphics {
		switch g.Type {
		case "line", "rect":
			bbox.Expand(g.Start)
			bbox.Expand(g.End)
		case "circle":
			r := math.Hypot(g.End.X-g.Center.X, g.End.Y-g.Center.Y)
			bbox.Expand(Position{X: g.Center.X - r, Y: g.Center.Y - r})
			bbox.Expand(Position{X: g.Center.X + r, Y: g.Center.Y + r})
		case "arc":
			for _, p := range arcPoints(g.Start, g.Mid, g.End) {
				bbox.Expand(p)
			}
		case "polygon":
			for _, p := range g.Points {
				bbox.Expand(p)
			}
		}
	}

	return bbox
}

// LocalBounds returns the pad box in footprint coordinates, rotated by the
// pad's own angle.
func (p *Pad) LocalBounds() BoundingBox {
	bbox := NewBoundingBox()
	hw, hh := p.Size.Width/2, p.Size.Height/2
	for _, c := range []Position{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}} {
		bbox.Expand(rotate(c, p.Position.Angle).Add(p.Position.Position))
	}
	return bbox
}

// TransformPosition transforms a relative position by footprint position and rotation
func (fp *Footprint) TransformPosition(relPos PositionAngle) Position {
	return rotate(relPos.Position, fp.Position.Angle).Add(fp.Position.Position)
}
