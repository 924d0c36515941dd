package pcb

import "math"

// ChainEpsilon is the distance in mm under which two drawing end points are
// considered joined when chaining the board outline.
const ChainEpsilon = 1e-3

// arcStep is the maximum angle covered by one chord when flattening arcs.
const arcStep = math.Pi / 18

// Contour is a chained outline. Open contours come from Edge.Cuts drawings
// whose ends never meet.
type Contour struct {
	Points []Position
	Closed bool
}

// Segment is a straight drawing piece with its stroke width.
type Segment struct {
	Start Position
	End   Position
	Width float64
	Layer string
}

// Outline chains the Edge.Cuts drawings into contours. Rectangles, circles
// and polygons are closed by construction; lines and arcs are joined end to
// end and stay open when the chain does not return to its start.
func (b *Board) Outline() []Contour {
	var contours []Contour
	var pieces [][]Position

	g := b.Graphics
	for _, line := range g.Lines {
		if line.Layer == LayerEdgeCuts {
			pieces = append(pieces, []Position{line.Start, line.End})
		}
	}
	for _, arc := range g.Arcs {
		if arc.Layer == LayerEdgeCuts {
			pieces = append(pieces, arcPoints(arc.Start, arc.Mid, arc.End))
		}
	}
	for _, rect := range g.Rects {
		if rect.Layer == LayerEdgeCuts {
			contours = append(contours, Contour{Points: rectPoints(rect.Start, rect.End), Closed: true})
		}
	}
	for _, circle := range g.Circles {
		if circle.Layer == LayerEdgeCuts {
			contours = append(contours, Contour{Points: circlePoints(circle.Center, circle.Radius()), Closed: true})
		}
	}
	for _, poly := range g.Polys {
		if poly.Layer == LayerEdgeCuts && len(poly.Points) > 2 {
			pts := append([]Position(nil), poly.Points...)
			contours = append(contours, Contour{Points: pts, Closed: true})
		}
	}

	return append(contours, chain(pieces)...)
}

// chain joins polylines sharing end points.
func chain(pieces [][]Position) []Contour {
	var contours []Contour
	used := make([]bool, len(pieces))

	for i := range pieces {
		if used[i] {
			continue
		}
		used[i] = true
		pts := append([]Position(nil), pieces[i]...)

		for {
			head, tail := pts[0], pts[len(pts)-1]
			if len(pts) > 2 && head.Near(tail, ChainEpsilon) {
				contours = append(contours, Contour{Points: pts[:len(pts)-1], Closed: true})
				pts = nil
				break
			}

			joined := false
			for j := range pieces {
				if used[j] {
					continue
				}
				p := pieces[j]
				switch {
				case tail.Near(p[0], ChainEpsilon):
					pts = append(pts, p[1:]...)
				case tail.Near(p[len(p)-1], ChainEpsilon):
					pts = append(pts, reversed(p)[1:]...)
				case head.Near(p[len(p)-1], ChainEpsilon):
					pts = append(append([]Position(nil), p[:len(p)-1]...), pts...)
				case head.Near(p[0], ChainEpsilon):
					r := reversed(p)
					pts = append(append([]Position(nil), r[:len(r)-1]...), pts...)
				default:
					continue
				}
				used[j] = true
				joined = true
				break
			}
			if !joined {
				break
			}
		}

		if pts != nil {
			contours = append(contours, Contour{Points: pts})
		}
	}

	return contours
}

// Obstacles returns the board drawings outside Edge.Cuts as straight
// segments. When layers is non-empty only drawings on those layers count.
func (b *Board) Obstacles(layers ...string) []Segment {
	keep := func(l string) bool {
		if l == LayerEdgeCuts {
			return false
		}
		if len(layers) == 0 {
			return true
		}
		return LayerSet(layers).Has(l)
	}

	var segs []Segment
	addPath := func(pts []Position, closed bool, width float64, layer string) {
		for i := 0; i+1 < len(pts); i++ {
			segs = append(segs, Segment{Start: pts[i], End: pts[i+1], Width: width, Layer: layer})
		}
		if closed && len(pts) > 2 {
			segs = append(segs, Segment{Start: pts[len(pts)-1], End: pts[0], Width: width, Layer: layer})
		}
	}

	g := b.Graphics
	for _, line := range g.Lines {
		if keep(line.Layer) {
			addPath([]Position{line.Start, line.End}, false, line.Stroke.Width, line.Layer)
		}
	}
	for _, arc := range g.Arcs {
		if keep(arc.Layer) {
			addPath(arcPoints(arc.Start, arc.Mid, arc.End), false, arc.Stroke.Width, arc.Layer)
		}
	}
	for _, rect := range g.Rects {
		if keep(rect.Layer) {
			addPath(rectPoints(rect.Start, rect.End), true, rect.Stroke.Width, rect.Layer)
		}
	}
	for _, circle := range g.Circles {
		if keep(circle.Layer) {
			addPath(circlePoints(circle.Center, circle.Radius()), true, circle.Stroke.Width, circle.Layer)
		}
	}
	for _, poly := range g.Polys {
		if keep(poly.Layer) {
			addPath(poly.Points, true, poly.Stroke.Width, poly.Layer)
		}
	}

	return segs
}

func reversed(p []Position) []Position {
	r := make([]Position, len(p))
	for i, v := range p {
		r[len(p)-1-i] = v
	}
	return r
}

func rectPoints(a, b Position) []Position {
	return []Position{a, {X: b.X, Y: a.Y}, b, {X: a.X, Y: b.Y}}
}

func circlePoints(center Position, r float64) []Position {
	n := int(math.Round(2 * math.Pi / arcStep))
	pts := make([]Position, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Position{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	return pts
}

// arcPoints flattens the arc through start, mid and end into a polyline
// that keeps the exact end points.
func arcPoints(start, mid, end Position) []Position {
	ax, ay := start.X, start.Y
	bx, by := mid.X, mid.Y
	cx, cy := end.X, end.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return []Position{start, mid, end}
	}
	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d
	r := math.Hypot(ax-ux, ay-uy)

	a0 := math.Atan2(ay-uy, ax-ux)
	am := normalizeRad(math.Atan2(by-uy, bx-ux) - a0)
	sweep := normalizeRad(math.Atan2(cy-uy, cx-ux) - a0)
	if am > sweep {
		sweep -= 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(sweep)/arcStep - 1e-9))
	if n < 2 {
		n = 2
	}
	pts := make([]Position, 0, n+1)
	pts = append(pts, start)
	for i := 1; i < n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		pts = append(pts, Position{X: ux + r*math.Cos(a), Y: uy + r*math.Sin(a)})
	}
	return append(pts, end)
}

// normalizeRad maps an angle into [0, 2π).
func normalizeRad(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
