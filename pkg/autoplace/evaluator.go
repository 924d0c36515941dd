package autoplace

import (
	"context"
	"fmt"
	"math"
)

// DefaultGain divides pitch × pad count into the keep-out margin of a
// component.
const DefaultGain = 16

// Evaluator scores candidate positions of one component at a time against
// the matrix and the other components of the board.
type Evaluator struct {
	matrix *Matrix
	board  *Board
	gain   int
}

func NewEvaluator(m *Matrix, b *Board, gain int) *Evaluator {
	if gain <= 0 {
		gain = DefaultGain
	}
	return &Evaluator{matrix: m, board: b, gain: gain}
}

// Candidate is the outcome of a position scan. Found is false when every
// scanned position was disqualified.
type Candidate struct {
	Position Point
	Cost     float64
	Found    bool
}

// keepOutMargin is the crowding margin of c.
func (e *Evaluator) keepOutMargin(c *Component) int {
	return e.matrix.Pitch() * len(c.Pads) / e.gain
}

// TestOnBoard checks c at pos on its side, and on the other side too when
// testOtherSide is set. A disqualified position returns its verdict and no
// cost; a free one returns the keep-out cost around it.
func (e *Evaluator) TestOnBoard(c *Component, pos Point, testOtherSide bool) (Verdict, int64) {
	rect := c.Extent().Translate(pos)

	if v := e.matrix.TestRectangle(rect, c.Side); v != Free {
		return v, 0
	}
	if testOtherSide {
		if v := e.matrix.TestRectangle(rect, c.Side.Other()); v != Free {
			return v, 0
		}
	}

	return Free, e.matrix.SumKeepOutCost(rect.Inflate(e.keepOutMargin(c)), c.Side)
}

// RatsnestCost sums, over the connected pads of c placed at pos, the skewed
// distance to the nearest pad of the same net on another component inside
// the grid box.
func (e *Evaluator) RatsnestCost(c *Component, pos Point) float64 {
	return e.ratsnestCostAt(c, pos, e.ratsnestTargets(c))
}

// ratsnestTargets lists, per pad of c, the positions of same-net pads on
// the other components inside the grid box. They do not move while c is
// scanned.
func (e *Evaluator) ratsnestTargets(c *Component) [][]Point {
	targets := make([][]Point, len(c.Pads))
	box := e.matrix.Box()
	for i, pad := range c.Pads {
		if pad.Net <= 0 {
			continue
		}
		for _, o := range e.board.Components {
			if o == c || !box.Contains(o.Position) {
				continue
			}
			for j, op := range o.Pads {
				if op.Net == pad.Net {
					targets[i] = append(targets[i], o.PadPosition(j))
				}
			}
		}
	}
	return targets
}

func (e *Evaluator) ratsnestCostAt(c *Component, pos Point, targets [][]Point) float64 {
	cost := 0.0
	for i, candidates := range targets {
		if len(candidates) == 0 {
			continue
		}
		p := c.padPositionAt(i, pos)
		nearest := candidates[0]
		best := distance(p, nearest)
		for _, q := range candidates[1:] {
			if d := distance(p, q); d < best {
				best, nearest = d, q
			}
		}
		cost += skewedLength(p, nearest)
	}
	return cost
}

// skewedLength is hypot(dx, 2*dy) with dx the larger axis delta, so
// diagonal connections cost more than aligned ones.
func skewedLength(a, b Point) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	if dx < dy {
		dx, dy = dy, dx
	}
	return math.Hypot(dx, 2*dy)
}

// BestPosition scans every grid position where c fits inside the grid box,
// rows top to bottom and columns left to right, and returns the cheapest
// free one. Ties keep the first position found. The context is checked
// once per row; cancellation returns ErrAborted.
func (e *Evaluator) BestPosition(ctx context.Context, c *Component) (Candidate, error) {
	m := e.matrix
	pitch := m.Pitch()
	box := m.Box()
	ext := c.Extent()

	start := Point{
		X: snapDown(box.Min.X-ext.Min.X, pitch),
		Y: snapDown(box.Min.Y-ext.Min.Y, pitch),
	}
	end := Point{X: box.Max.X - ext.Max.X, Y: box.Max.Y - ext.Max.Y}

	targets := e.ratsnestTargets(c)
	through := c.HasThroughPads()
	best := Candidate{Position: c.Position}

	for y := start.Y; y < end.Y; y += pitch {
		if err := ctx.Err(); err != nil {
			return best, fmt.Errorf("%w: %w", ErrAborted, err)
		}
		for x := start.X; x < end.X; x += pitch {
			pos := Point{x, y}
			v, keepOut := e.TestOnBoard(c, pos, through)
			if v != Free {
				continue
			}
			cost := float64(keepOut) + e.ratsnestCostAt(c, pos, targets)
			if !best.Found || cost < best.Cost {
				best = Candidate{Position: pos, Cost: cost, Found: true}
			}
		}
	}
	return best, nil
}
