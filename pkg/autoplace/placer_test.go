package autoplace

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceSingleComponent(t *testing.T) {
	u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)
	b := squareBoard(100*mm, u1)

	res, err := New(b, WithPitch(10*mm)).Place(context.Background(), []*Component{u1})
	require.NoError(t, err)

	assert.Equal(t, Completed, res.Status)
	assert.Equal(t, Point{0, 0}, u1.Position, "first position of the row-major scan")
	assert.Equal(t, Angle(0), u1.Orientation)
	assert.True(t, u1.Placed)
	assert.False(t, u1.NeedsPlacement)
	assert.Equal(t, []string{"U1"}, res.Placed)
	assert.Equal(t, 1, res.Moved)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
}

func TestPlaceFollowsRatsnest(t *testing.T) {
	a := part("A", Point{50 * mm, 50 * mm}, 2*mm, 1)
	b := part("B", Point{150 * mm, 150 * mm}, 2*mm, 1)
	board := squareBoard(100*mm, a, b)

	p := New(board, WithPitch(10*mm))
	res, err := p.Place(context.Background(), []*Component{b})
	require.NoError(t, err)
	require.Equal(t, Completed, res.Status)

	assert.Equal(t, Point{50 * mm, 50 * mm}, a.Position)
	assert.NotEqual(t, a.Position, b.Position, "never on top of an occupied cell")
	assert.Equal(t, Point{50 * mm, 40 * mm}, b.Position, "nearest free cell, first in scan order")

	m := p.Matrix()
	ar0, ar1, ac0, ac1 := occupiedSpan(m, a)
	br0, br1, bc0, bc1 := occupiedSpan(m, b)
	overlap := ar0 <= br1 && br0 <= ar1 && ac0 <= bc1 && bc0 <= ac1
	assert.False(t, overlap)
}

func TestPlaceOpenOutlineFails(t *testing.T) {
	open := square(100 * mm)
	open.Closed = false
	u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)
	b := &Board{Components: []*Component{u1}, Outline: []Contour{open}}

	res, err := New(b, WithPitch(10*mm)).Place(context.Background(), []*Component{u1})
	require.Error(t, err)

	var rerr *RasterError
	assert.True(t, errors.As(err, &rerr))
	assert.ErrorIs(t, err, ErrFatalInput)
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, Point{150 * mm, 150 * mm}, u1.Position)
	assert.False(t, u1.NeedsPlacement)
	assert.False(t, u1.Placed)
}

func TestPlaceCancelAfterFirstCommit(t *testing.T) {
	var parts []*Component
	for i, ref := range []string{"U1", "U2", "U3"} {
		parts = append(parts, part(ref, Point{200 * mm, 200*mm + i*10*mm}, 2*mm, 1))
	}
	initial := make([]Point, len(parts))
	for i, c := range parts {
		initial[i] = c.Position
	}

	rep := &cancelAfter{n: 1}
	res, err := New(squareBoard(100*mm, parts...), WithPitch(10*mm), WithReporter(rep)).
		Place(context.Background(), parts)
	require.NoError(t, err)

	assert.Equal(t, Cancelled, res.Status)
	moved := 0
	for i, c := range parts {
		if c.Position != initial[i] {
			moved++
		}
	}
	assert.Equal(t, 1, moved)
	assert.Equal(t, 1, res.Moved)
	assert.Len(t, res.Placed, 1)
	assert.Equal(t, 3, rep.max)
	assert.Equal(t, "Autoplacing components", rep.titles[0])
}

func TestPlaceNothingPending(t *testing.T) {
	a := part("A", Point{20 * mm, 20 * mm}, 2*mm, 1)
	b := part("B", Point{60 * mm, 20 * mm}, 2*mm, 1)
	p := New(squareBoard(100*mm, a, b), WithPitch(10*mm))

	res, err := p.Place(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, Completed, res.Status)
	assert.Zero(t, res.Moved)
	assert.Empty(t, res.Placed)
	assert.Equal(t, Point{20 * mm, 20 * mm}, a.Position)
	assert.Equal(t, Point{60 * mm, 20 * mm}, b.Position)
	assert.Nil(t, p.Matrix())
}

func TestPlaceResetsPreviousRun(t *testing.T) {
	u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)
	p := New(squareBoard(100*mm, u1), WithPitch(10*mm))

	_, err := p.Place(context.Background(), []*Component{u1})
	require.NoError(t, err)
	require.NotNil(t, p.Matrix())
	require.NotNil(t, p.FreeArea())

	res, err := p.Place(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Status)
	assert.Nil(t, p.Matrix())
	assert.Nil(t, p.FreeArea())
}

func TestPlacerPitch(t *testing.T) {
	tests := []struct {
		name  string
		pitch int
		want  int
	}{
		{"default", DefaultPitch, DefaultPitch},
		{"coarse", 5 * mm, 5 * mm},
		{"clamped", 100_000, MinPitch},
		{"invalid", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(&Board{}, WithPitch(tt.pitch)).Pitch())
		})
	}
}

// strip is a 100 x 30 mm board.
func strip() []Contour {
	return []Contour{{
		Points: []Point{{0, 0}, {100 * mm, 0}, {100 * mm, 30 * mm}, {0, 30 * mm}},
		Closed: true,
	}}
}

func tallPart() *Component {
	return &Component{
		Ref:      "U1",
		Position: Point{150 * mm, 150 * mm},
		Side:     Top,
		Body:     Rect{Min: Point{-3 * mm, -25 * mm}, Max: Point{3 * mm, 25 * mm}},
	}
}

func TestPlaceRotatesWhenAllowed(t *testing.T) {
	u1 := tallPart()
	u1.Cost90 = RotationFree
	b := &Board{Components: []*Component{u1}, Outline: strip()}

	res, err := New(b, WithPitch(10*mm)).Place(context.Background(), []*Component{u1})
	require.NoError(t, err)

	assert.Equal(t, Completed, res.Status)
	assert.Equal(t, Angle(900), u1.Orientation)
	assert.Equal(t, Point{30 * mm, 0}, u1.Position)
	assert.True(t, u1.Placed)
}

func TestPlaceUnplaceable(t *testing.T) {
	u1 := tallPart()
	u1.Cost90 = RotationForbidden
	u1.Cost180 = RotationFree
	b := &Board{Components: []*Component{u1}, Outline: strip()}

	p := New(b, WithPitch(10*mm))
	res, err := p.Place(context.Background(), []*Component{u1})
	require.NoError(t, err)

	assert.Equal(t, Completed, res.Status)
	assert.Equal(t, []string{"U1"}, res.Unplaceable)
	assert.Empty(t, res.Placed)
	assert.Zero(t, res.Moved)
	assert.Equal(t, Point{150 * mm, 150 * mm}, u1.Position)
	assert.Equal(t, Angle(0), u1.Orientation, "quarter turns are forbidden")
	assert.True(t, u1.Unplaceable)
	assert.False(t, u1.NeedsPlacement)
	assert.False(t, u1.Placed)
	assert.Zero(t, p.Matrix().CountCells(Top, OccupiedByComponent))
}

func TestPlaceRejectsBadInput(t *testing.T) {
	t.Run("rotation class", func(t *testing.T) {
		u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)
		u1.Cost90 = 11
		res, err := New(squareBoard(100*mm, u1), WithPitch(10*mm)).Place(context.Background(), []*Component{u1})
		assert.ErrorIs(t, err, ErrRotationClass)
		assert.Equal(t, Failed, res.Status)
		assert.False(t, u1.NeedsPlacement)
	})

	t.Run("zero area", func(t *testing.T) {
		u1 := part("U1", Point{}, 2*mm, 1)
		b := &Board{
			Components: []*Component{u1},
			Outline:    []Contour{{Points: []Point{{0, 0}, {100 * mm, 0}}, Closed: true}},
		}
		res, err := New(b).Place(context.Background(), []*Component{u1})
		assert.ErrorIs(t, err, ErrZeroAreaBoard)
		assert.Equal(t, Failed, res.Status)
	})

	t.Run("pitch", func(t *testing.T) {
		res, err := New(squareBoard(100*mm), WithPitch(0)).Place(context.Background(), nil)
		assert.ErrorIs(t, err, ErrInvalidPitch)
		assert.Equal(t, Failed, res.Status)
	})
}

func TestPlaceOffboard(t *testing.T) {
	loose := part("R1", Point{500 * mm, 500 * mm}, 2*mm, 1)
	locked := part("R2", Point{600 * mm, 600 * mm}, 2*mm, 1)
	locked.Locked = true
	inside := part("R3", Point{80 * mm, 80 * mm}, 2*mm, 2)

	res, err := New(squareBoard(100*mm, loose, locked, inside), WithPitch(10*mm), WithOffboard(true)).
		Place(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"R1"}, res.Placed)
	assert.Equal(t, Point{600 * mm, 600 * mm}, locked.Position)
	assert.Equal(t, Point{80 * mm, 80 * mm}, inside.Position)
	assert.True(t, loose.Placed)
}

func TestPlaceContextCancelled(t *testing.T) {
	u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(squareBoard(100*mm, u1), WithPitch(10*mm)).Place(ctx, []*Component{u1})
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.Status)
	assert.Equal(t, Point{150 * mm, 150 * mm}, u1.Position)
	assert.Zero(t, res.Moved)
}

func TestPlaceKeepsOccupancyDisjoint(t *testing.T) {
	var parts []*Component
	for _, ref := range []string{"U1", "U2", "U3", "U4", "U5", "U6"} {
		parts = append(parts, part(ref, Point{300 * mm, 300 * mm}, 4*mm, 1, 2))
	}
	var refreshed []*Component
	p := New(squareBoard(100*mm, parts...), WithPitch(10*mm), WithRefresh(func(c *Component) {
		refreshed = append(refreshed, c)
	}))

	res, err := p.Place(context.Background(), parts)
	require.NoError(t, err)
	require.Len(t, res.Placed, len(parts))

	require.Len(t, refreshed, len(parts)+1)
	assert.Nil(t, refreshed[0])

	m := p.Matrix()
	for i, a := range parts {
		require.True(t, a.Placed)
		for _, b := range parts[i+1:] {
			ar0, ar1, ac0, ac1 := occupiedSpan(m, a)
			br0, br1, bc0, bc1 := occupiedSpan(m, b)
			overlap := ar0 <= br1 && br0 <= ar1 && ac0 <= bc1 && bc0 <= ac1
			assert.False(t, overlap, "%s and %s overlap", a.Ref, b.Ref)
		}
	}

	full := float64(100*mm) * float64(100*mm)
	assert.Less(t, p.FreeArea().Area(Top), full)
	assert.InDelta(t, full, p.FreeArea().Area(Bottom), 1)
}

func TestPlaceLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	u1 := part("U1", Point{150 * mm, 150 * mm}, 2*mm, 1)

	_, err := New(squareBoard(100*mm, u1), WithPitch(10*mm), WithLogger(logger)).
		Place(context.Background(), []*Component{u1})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "placed")
	assert.Contains(t, buf.String(), "ref=U1")
}
