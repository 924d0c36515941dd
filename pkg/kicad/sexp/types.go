// Package sexp provides shared S-expression parsing infrastructure for KiCad files.
// This package contains the value types and typed node accessors the board
// parser builds on.
package sexp

import "math"

// Coordinate conversion constants.
// KiCad stores coordinates internally in nanometres; files and this package use millimetres.
const (
	NanometersToMM       = 1e-6
	MMToNanometers       = 1e6
	DecidegreesToDegrees = 0.1
	DegreesToDecidegrees = 10.0
)

// Position represents a 2D coordinate in millimetres. Y grows downwards.
type Position struct {
	X float64
	Y float64
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Near reports whether two positions coincide within eps millimetres.
func (p Position) Near(o Position, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps && math.Abs(p.Y-o.Y) <= eps
}

// Angle represents rotation in degrees, counter-clockwise on screen.
type Angle float64

// Decidegrees returns the angle in tenths of a degree, rounded.
func (a Angle) Decidegrees() int {
	return int(math.Round(float64(a) * DegreesToDecidegrees))
}

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// Size represents dimensions in millimetres
type Size struct {
	Width  float64
	Height float64
}

// Stroke defines line/outline appearance
type Stroke struct {
	Width float64 // Line width in mm
	Type  string  // Line type (solid, dash, dot, etc.)
}

// Fill defines area fill
type Fill struct {
	Type string // none, solid, yes
}

// Filled reports whether the fill paints the interior.
func (f Fill) Filled() bool {
	return f.Type == "solid" || f.Type == "yes"
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position
	Max Position
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: math.Inf(1), Y: math.Inf(1)},
		Max: Position{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(pos Position) {
	bb.Min.X = math.Min(bb.Min.X, pos.X)
	bb.Min.Y = math.Min(bb.Min.Y, pos.Y)
	bb.Max.X = math.Max(bb.Max.X, pos.X)
	bb.Max.Y = math.Max(bb.Max.Y, pos.Y)
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}

// GrLine represents a line graphic element
type GrLine struct {
	Start  Position
	End    Position
	Stroke Stroke
	Layer  string
}

// GrCircle represents a circle graphic element.
// KiCad defines circles by center and a point on the circumference.
type GrCircle struct {
	Center Position
	End    Position
	Stroke Stroke
	Fill   Fill
	Layer  string
}

// Radius returns the distance from center to the circumference point.
func (c GrCircle) Radius() float64 {
	return math.Hypot(c.End.X-c.Center.X, c.End.Y-c.Center.Y)
}

// GrArc represents an arc through start, mid and end.
type GrArc struct {
	Start  Position
	Mid    Position
	End    Position
	Stroke Stroke
	Layer  string
}

// GrRect represents a rectangle graphic element
type GrRect struct {
	Start  Position
	End    Position
	Stroke Stroke
	Fill   Fill
	Layer  string
}

// GrPoly represents a polygon graphic element
type GrPoly struct {
	Points []Position
	Stroke Stroke
	Fill   Fill
	Layer  string
}

// Graphics contains the board-level drawing primitives
type Graphics struct {
	Lines   []GrLine
	Circles []GrCircle
	Arcs    []GrArc
	Rects   []GrRect
	Polys   []GrPoly
}
