// Package autoplace places footprints automatically on a discretized board
// grid. Components are ordered by size and connectivity, each is scanned over
// every grid position in up to four orientations, and the cheapest free spot
// by keep-out and ratsnest cost is committed before the next one is picked.
//
// All coordinates are integer nanometres and all angles tenths of a degree.
package autoplace

// Side selects one of the two placement grids.
type Side int

const (
	Bottom Side = iota
	Top
)

func (s Side) Other() Side {
	if s == Top {
		return Bottom
	}
	return Top
}

func (s Side) String() string {
	if s == Top {
		return "top"
	}
	return "bottom"
}

// Layers is the set of outer copper sides an item touches.
type Layers uint8

const (
	BottomCopper Layers = 1 << iota
	TopCopper

	BothCopper = BottomCopper | TopCopper
)

// LayersOf returns the copper set of a single side.
func LayersOf(s Side) Layers {
	if s == Top {
		return TopCopper
	}
	return BottomCopper
}

// On reports whether the set includes side s.
func (l Layers) On(s Side) bool {
	return l&LayersOf(s) != 0
}

// Pad is a copper pad of a component.
type Pad struct {
	Name      string
	Offset    Point // relative to the component origin at orientation 0
	Size      Point // width and height before rotation
	Angle     Angle // relative to the component
	Layers    Layers
	Net       int // 0 means unconnected
	Clearance int
}

// Component is a footprint as seen by the placer.
type Component struct {
	Ref         string
	Position    Point
	Orientation Angle
	Side        Side
	Body        Rect // local extent at orientation 0, relative to Position
	Pads        []Pad

	// Rotation permission classes, 0 (forbidden) to 10 (free).
	Cost90  int
	Cost180 int

	Locked         bool
	NeedsPlacement bool
	Placed         bool
	Unplaceable    bool
}

// Extent returns the component box relative to its position at the current
// orientation: the body and every pad.
func (c *Component) Extent() Rect {
	r := c.Body.Rotate(c.Orientation)
	for i := range c.Pads {
		r = r.Union(c.padLocalBounds(i).Rotate(c.Orientation))
	}
	return r
}

// Bounds returns the board-space box of the component.
func (c *Component) Bounds() Rect {
	return c.Extent().Translate(c.Position)
}

// Area is the area of the current bounding box.
func (c *Component) Area() float64 {
	return c.Extent().Area()
}

// Complexity orders components for placement: bigger and denser first.
func (c *Component) Complexity() float64 {
	return c.Area() * float64(len(c.Pads))
}

// PadPosition returns the board position of pad i.
func (c *Component) PadPosition(i int) Point {
	return c.padPositionAt(i, c.Position)
}

func (c *Component) padPositionAt(i int, pos Point) Point {
	return c.Pads[i].Offset.Rotate(c.Orientation).Add(pos)
}

// PadBounds returns the board-space box of pad i.
func (c *Component) PadBounds(i int) Rect {
	return c.padLocalBounds(i).Rotate(c.Orientation).Translate(c.Position)
}

func (c *Component) padLocalBounds(i int) Rect {
	p := c.Pads[i]
	half := Rect{
		Min: Point{-p.Size.X / 2, -p.Size.Y / 2},
		Max: Point{p.Size.X / 2, p.Size.Y / 2},
	}
	return half.Rotate(p.Angle).Translate(p.Offset)
}

// HasThroughPads reports whether any pad reaches the opposite side, in
// which case both grids must be free at a candidate position.
func (c *Component) HasThroughPads() bool {
	other := LayersOf(c.Side.Other())
	for _, p := range c.Pads {
		if p.Layers&other != 0 {
			return true
		}
	}
	return false
}

// Contour is a board outline polyline. Open contours contribute only their
// explicit edges to rasterization.
type Contour struct {
	Points []Point
	Closed bool
}

// Segment is a straight obstacle drawing.
type Segment struct {
	A, B  Point
	Width int
}

// Board holds everything the placer reads. Only component positions,
// orientations and flags change during a run.
type Board struct {
	Components []*Component
	Outline    []Contour
	Obstacles  []Segment
}

// OutlineBounds returns the bounding box of every outline point.
func (b *Board) OutlineBounds() Rect {
	var pts []Point
	for _, c := range b.Outline {
		pts = append(pts, c.Points...)
	}
	return RectFromPoints(pts...)
}

// Component returns the component with the given reference, or nil.
func (b *Board) Component(ref string) *Component {
	for _, c := range b.Components {
		if c.Ref == ref {
			return c
		}
	}
	return nil
}
