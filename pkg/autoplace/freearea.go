package autoplace

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// FreeArea tracks, per side, the board outline minus every committed
// courtyard. It is kept for diagnostics and snapshots only; collision
// checks always go through the Matrix.
type FreeArea struct {
	sides [2]polyclip.Polygon
}

// NewFreeArea starts both sides from the closed outline contours.
func NewFreeArea(outline []Contour) *FreeArea {
	var shape polyclip.Polygon
	for _, c := range outline {
		if !c.Closed || len(c.Points) < 3 {
			continue
		}
		contour := make(polyclip.Contour, len(c.Points))
		for i, p := range c.Points {
			contour[i] = polyclip.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		shape = append(shape, contour)
	}
	f := &FreeArea{}
	f.sides[Bottom] = shape
	f.sides[Top] = clonePolygon(shape)
	return f
}

// Subtract removes the areas from each side.
func (f *FreeArea) Subtract(a Areas) {
	for _, s := range []Side{Bottom, Top} {
		for _, r := range a.Side(s) {
			if len(f.sides[s]) == 0 {
				break
			}
			f.sides[s] = f.sides[s].Construct(polyclip.DIFFERENCE, rectPolygon(r))
		}
	}
}

// Contours returns the free polygon of side s as point lists.
func (f *FreeArea) Contours(s Side) [][]Point {
	out := make([][]Point, 0, len(f.sides[s]))
	for _, c := range f.sides[s] {
		pts := make([]Point, len(c))
		for i, p := range c {
			pts[i] = Point{int(math.Round(p.X)), int(math.Round(p.Y))}
		}
		out = append(out, pts)
	}
	return out
}

// Area returns the free area of side s in square nanometres. Contours
// nested an odd number of times inside others are holes.
func (f *FreeArea) Area(s Side) float64 {
	poly := f.sides[s]
	total := 0.0
	for i, c := range poly {
		if len(c) == 0 {
			continue
		}
		depth := 0
		for j, other := range poly {
			if i != j && pointInContour(c[0], other) {
				depth++
			}
		}
		a := math.Abs(shoelace(c))
		if depth%2 == 1 {
			a = -a
		}
		total += a
	}
	return total
}

func clonePolygon(p polyclip.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, len(p))
	for i, c := range p {
		out[i] = append(polyclip.Contour(nil), c...)
	}
	return out
}

func rectPolygon(r Rect) polyclip.Polygon {
	c := make(polyclip.Contour, 0, 4)
	for _, p := range r.Corners() {
		c = append(c, polyclip.Point{X: float64(p.X), Y: float64(p.Y)})
	}
	return polyclip.Polygon{c}
}

func shoelace(c polyclip.Contour) float64 {
	sum := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

// pointInContour is the even-odd crossing test.
func pointInContour(p polyclip.Point, c polyclip.Contour) bool {
	inside := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
