package autoplace

import (
	"fmt"
	"math"
)

// Point is a board coordinate in nanometres. Y grows downwards.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rotate turns p about the origin. Positive angles are counter-clockwise on
// screen, so 90° maps (x, y) to (y, -x). Quarter turns are exact.
func (p Point) Rotate(a Angle) Point {
	switch a.Normalize() {
	case 0:
		return p
	case 900:
		return Point{p.Y, -p.X}
	case 1800:
		return Point{-p.X, -p.Y}
	case 2700:
		return Point{-p.Y, p.X}
	}
	rad := a.Radians()
	cos, sin := math.Cos(rad), math.Sin(rad)
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: int(math.Round(x*cos + y*sin)),
		Y: int(math.Round(-x*sin + y*cos)),
	}
}

// Angle is an orientation in tenths of a degree.
type Angle int

// Normalize maps the angle into [0, 3600).
func (a Angle) Normalize() Angle {
	a %= 3600
	if a < 0 {
		a += 3600
	}
	return a
}

func (a Angle) Degrees() float64 { return float64(a) / 10 }
func (a Angle) Radians() float64 { return float64(a) * math.Pi / 1800 }

// Rect is an axis-aligned rectangle with inclusive corners.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the smallest rectangle holding all points.
func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Expand(p)
	}
	return r
}

func (r Rect) Width() int  { return r.Max.X - r.Min.X }
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Area returns the rectangle area in square nanometres.
func (r Rect) Area() float64 {
	return float64(r.Width()) * float64(r.Height())
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X && r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d int) Rect {
	return Rect{
		Min: Point{r.Min.X - d, r.Min.Y - d},
		Max: Point{r.Max.X + d, r.Max.Y + d},
	}
}

func (r Rect) Translate(p Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

func (r Rect) Expand(p Point) Rect {
	return Rect{
		Min: Point{min(r.Min.X, p.X), min(r.Min.Y, p.Y)},
		Max: Point{max(r.Max.X, p.X), max(r.Max.Y, p.Y)},
	}
}

func (r Rect) Union(o Rect) Rect {
	return r.Expand(o.Min).Expand(o.Max)
}

// Clamp limits the rectangle to bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	clamp := func(v, lo, hi int) int { return min(max(v, lo), hi) }
	return Rect{
		Min: Point{clamp(r.Min.X, bounds.Min.X, bounds.Max.X), clamp(r.Min.Y, bounds.Min.Y, bounds.Max.Y)},
		Max: Point{clamp(r.Max.X, bounds.Min.X, bounds.Max.X), clamp(r.Max.Y, bounds.Min.Y, bounds.Max.Y)},
	}
}

// Rotate returns the bounding box of r turned about the origin.
func (r Rect) Rotate(a Angle) Rect {
	return RectFromPoints(
		r.Min.Rotate(a),
		Point{r.Max.X, r.Min.Y}.Rotate(a),
		r.Max.Rotate(a),
		Point{r.Min.X, r.Max.Y}.Rotate(a),
	)
}

// Corners lists the rectangle corners clockwise from Min.
func (r Rect) Corners() []Point {
	return []Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// snapDown rounds v down to a multiple of step.
func snapDown(v, step int) int {
	return floorDiv(v, step) * step
}

// distance is the Euclidean distance between two points.
func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
