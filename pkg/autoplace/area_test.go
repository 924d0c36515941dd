package autoplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAreas(t *testing.T) {
	c := part("J1", Point{50 * mm, 50 * mm}, 4*mm, 1, 2)
	c.Pads[0].Layers = BothCopper
	c.Pads[0].Clearance = mm
	c.Pads[1].Offset = Point{2 * mm, 0}

	ab := NewAreaBuilder(10 * mm)
	areas := ab.BuildAreas(c, 3*mm)

	top := areas.Side(Top)
	bottom := areas.Side(Bottom)
	require.Len(t, top, 3)
	require.Len(t, bottom, 1)

	assert.Equal(t, Rect{Min: Point{38 * mm, 38 * mm}, Max: Point{62 * mm, 62 * mm}}, top[0])
	half := 500_000 + 6*mm
	assert.Equal(t, Rect{Min: Point{50*mm - half, 50*mm - half}, Max: Point{50*mm + half, 50*mm + half}}, bottom[0])

	again := ab.BuildAreas(part("R1", Point{}, mm), 0)
	assert.Len(t, again.Side(Top), 1, "previous areas are cleared")
	assert.Empty(t, again.Side(Bottom))
}

func TestFreeAreaSubtract(t *testing.T) {
	f := NewFreeArea([]Contour{square(100 * mm)})
	full := float64(100*mm) * float64(100*mm)
	require.InDelta(t, full, f.Area(Top), 1)
	require.InDelta(t, full, f.Area(Bottom), 1)

	var a Areas
	a.add(Rect{Min: Point{40 * mm, 40 * mm}, Max: Point{60 * mm, 60 * mm}}, TopCopper)
	f.Subtract(a)

	assert.InDelta(t, full-float64(20*mm)*float64(20*mm), f.Area(Top), full*1e-9)
	assert.InDelta(t, full, f.Area(Bottom), 1)
	assert.NotEmpty(t, f.Contours(Top))
}

func TestFreeAreaIgnoresOpenContours(t *testing.T) {
	open := square(100 * mm)
	open.Closed = false
	f := NewFreeArea([]Contour{open})
	assert.Zero(t, f.Area(Top))
	assert.Empty(t, f.Contours(Top))
}
