// Package render draws the placement grid, free areas and components of a
// run into PNG images.
package render

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

const maxPixels = 64 << 20

// Palette, dark background like the KiCad canvas.
const (
	colorOutside  = "#101010"
	colorZone     = "#1c2a1c"
	colorObstacle = "#8a3a3a"
	colorOccupied = "#2f4f8f"
	colorKeepOut  = "#d7af00"
	colorFree     = "#5fd75f"
	colorBody     = "#e0e0e0"
	colorPending  = "#808080"
	colorFailed   = "#d75f5f"
	colorPad      = "#d7875f"
)

// Scene is everything a snapshot shows.
type Scene struct {
	Matrix *autoplace.Matrix
	Free   *autoplace.FreeArea
	Board  *autoplace.Board
	Side   autoplace.Side
	// Scale is pixels per millimetre.
	Scale float64
	// Current is highlighted when set.
	Current *autoplace.Component
}

type canvas struct {
	dc     *gg.Context
	origin autoplace.Point
	scale  float64
}

// px converts a board length in nanometres to pixels.
func (c *canvas) px(nm int) float64 {
	return float64(nm) / 1e6 * c.scale
}

func (c *canvas) point(p autoplace.Point) (float64, float64) {
	return c.px(p.X - c.origin.X), c.px(p.Y - c.origin.Y)
}

func (c *canvas) rect(r autoplace.Rect) {
	x, y := c.point(r.Min)
	c.dc.DrawRectangle(x, y, c.px(r.Width()), c.px(r.Height()))
}

// Draw renders s into a new context. The caller closes it.
func Draw(s Scene) (*gg.Context, error) {
	if s.Matrix == nil || s.Matrix.Rows() == 0 {
		return nil, fmt.Errorf("no placement grid to draw")
	}
	if s.Scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", s.Scale)
	}

	box := s.Matrix.Box()
	c := &canvas{origin: box.Min, scale: s.Scale}
	w := int(math.Ceil(c.px(box.Width())))
	h := int(math.Ceil(c.px(box.Height())))
	if w < 1 || h < 1 || w*h > maxPixels {
		return nil, fmt.Errorf("image of %dx%d pixels is out of range, lower the scale", w, h)
	}

	c.dc = gg.NewContext(w, h)
	c.dc.ClearWithColor(gg.Hex(colorOutside))

	c.drawCells(s.Matrix, s.Side)
	if s.Free != nil {
		c.drawFree(s.Free, s.Side)
	}
	if s.Board != nil {
		c.drawComponents(s.Board, s.Side, s.Current)
	}
	return c.dc, nil
}

func (c *canvas) drawCells(m *autoplace.Matrix, side autoplace.Side) {
	pitch := m.Pitch()
	var maxCost int32
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			maxCost = max(maxCost, m.Cost(row, col, side))
		}
	}

	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			flags := m.Cell(row, col, side)
			var fill string
			switch {
			case flags.Has(autoplace.Obstacle):
				fill = colorObstacle
			case flags.Has(autoplace.OccupiedByComponent):
				fill = colorOccupied
			case flags.Has(autoplace.ZoneAvailable):
				fill = colorZone
			default:
				continue
			}
			cell := autoplace.Rect{Min: m.CellPoint(row, col)}
			cell.Max = cell.Min.Add(autoplace.Point{X: pitch, Y: pitch})

			c.dc.SetHexColor(fill)
			c.rect(cell)
			c.dc.Fill()

			if cost := m.Cost(row, col, side); cost > 0 && maxCost > 0 {
				k := gg.Hex(colorKeepOut)
				c.dc.SetRGBA(k.R, k.G, k.B, 0.6*float64(cost)/float64(maxCost))
				c.rect(cell)
				c.dc.Fill()
			}
		}
	}
}

func (c *canvas) drawFree(f *autoplace.FreeArea, side autoplace.Side) {
	c.dc.SetHexColor(colorFree)
	c.dc.SetLineWidth(1)
	for _, contour := range f.Contours(side) {
		if len(contour) < 2 {
			continue
		}
		c.dc.MoveTo(c.point(contour[0]))
		for _, p := range contour[1:] {
			c.dc.LineTo(c.point(p))
		}
		c.dc.ClosePath()
	}
	c.dc.Stroke()
}

func (c *canvas) drawComponents(b *autoplace.Board, side autoplace.Side, current *autoplace.Component) {
	for _, comp := range b.Components {
		outline := colorPending
		switch {
		case comp.Unplaceable:
			outline = colorFailed
		case comp.Placed || comp.Locked:
			outline = colorBody
		}

		for i, pad := range comp.Pads {
			if !pad.Layers.On(side) {
				continue
			}
			c.dc.SetHexColor(colorPad)
			c.rect(comp.PadBounds(i))
			c.dc.Fill()
		}

		if comp.Side != side {
			continue
		}
		width := 1.0
		if comp == current {
			width = 3
		}
		c.dc.SetHexColor(outline)
		c.dc.SetLineWidth(width)
		c.rect(comp.Bounds())
		c.dc.Stroke()
	}
}

// WritePNG renders s as PNG to w.
func WritePNG(w io.Writer, s Scene) error {
	dc, err := Draw(s)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders s into the PNG file path.
func SavePNG(path string, s Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := WritePNG(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
