package autoplace

import "fmt"

// Grid defaults, in nanometres.
const (
	DefaultPitch    = 1_000_000
	MinPitch        = 250_000
	DefaultMaxCells = 16 << 20
)

// Matrix is the placement grid: one flag plane and one cost plane per side.
// Cell (row, col) stands for the board point Box().Min + (col, row) * pitch.
type Matrix struct {
	pitch    int
	maxCells int

	box        Rect
	rows, cols int

	cells [2][]CellFlags
	cost  [2][]int32
}

// NewMatrix returns an unsized grid. Pitches under MinPitch are raised to it;
// a non-positive maxCells selects DefaultMaxCells.
func NewMatrix(pitch, maxCells int) *Matrix {
	if pitch < MinPitch {
		pitch = MinPitch
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	return &Matrix{pitch: pitch, maxCells: maxCells}
}

func (m *Matrix) Pitch() int { return m.pitch }
func (m *Matrix) Box() Rect  { return m.box }
func (m *Matrix) Rows() int  { return m.rows }
func (m *Matrix) Cols() int  { return m.cols }

// ComputeSize derives the grid box from the board bounding box: the origin
// snaps down to the pitch, the end snaps down and gains one pitch of margin.
// It returns false for a box without area.
func (m *Matrix) ComputeSize(bbox Rect) bool {
	if bbox.Empty() {
		m.box, m.rows, m.cols = Rect{}, 0, 0
		return false
	}
	p := m.pitch
	m.box = Rect{
		Min: Point{snapDown(bbox.Min.X, p), snapDown(bbox.Min.Y, p)},
		Max: Point{snapDown(bbox.Max.X, p) + p, snapDown(bbox.Max.Y, p) + p},
	}
	m.cols = m.box.Width()/p + 1
	m.rows = m.box.Height()/p + 1
	return true
}

// Allocate creates both planes, all cells Empty with zero cost.
func (m *Matrix) Allocate() error {
	n := m.rows * m.cols
	if n <= 0 {
		return ErrZeroAreaBoard
	}
	if n > m.maxCells {
		return fmt.Errorf("%w: %d x %d cells, limit %d", ErrGridTooLarge, m.cols, m.rows, m.maxCells)
	}
	for s := range m.cells {
		m.cells[s] = make([]CellFlags, n)
		m.cost[s] = make([]int32, n)
	}
	return nil
}

// Release drops both planes.
func (m *Matrix) Release() {
	for s := range m.cells {
		m.cells[s] = nil
		m.cost[s] = nil
	}
}

func (m *Matrix) InBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// CellPoint returns the board point a cell stands for.
func (m *Matrix) CellPoint(row, col int) Point {
	return Point{m.box.Min.X + col*m.pitch, m.box.Min.Y + row*m.pitch}
}

func (m *Matrix) Cell(row, col int, side Side) CellFlags {
	return m.cells[side][row*m.cols+col]
}

func (m *Matrix) Cost(row, col int, side Side) int32 {
	return m.cost[side][row*m.cols+col]
}

// SetCell combines flags into a cell according to mode.
func (m *Matrix) SetCell(row, col int, side Side, flags CellFlags, mode TraceMode) {
	i := row*m.cols + col
	if mode == OrCell {
		m.cells[side][i] |= flags
	} else {
		m.cells[side][i] = flags
	}
}

// AddCost raises a cell cost, saturating at the int32 range.
func (m *Matrix) AddCost(row, col int, side Side, v int32) {
	i := row*m.cols + col
	sum := int64(m.cost[side][i]) + int64(v)
	if sum > 1<<31-1 {
		sum = 1<<31 - 1
	}
	m.cost[side][i] = int32(sum)
}

// CopySide copies flags and costs from one side to the other.
func (m *Matrix) CopySide(from, to Side) {
	copy(m.cells[to], m.cells[from])
	copy(m.cost[to], m.cost[from])
}

// span returns the cells whose points lie inside r. The result may fall
// outside the grid and may be empty (r0 > r1 or c0 > c1).
func (m *Matrix) span(r Rect) (r0, r1, c0, c1 int) {
	p := m.pitch
	c0 = ceilDiv(r.Min.X-m.box.Min.X, p)
	c1 = floorDiv(r.Max.X-m.box.Min.X, p)
	r0 = ceilDiv(r.Min.Y-m.box.Min.Y, p)
	r1 = floorDiv(r.Max.Y-m.box.Min.Y, p)
	return r0, r1, c0, c1
}

// clampedSpan is span limited to the grid.
func (m *Matrix) clampedSpan(r Rect) (r0, r1, c0, c1 int) {
	r0, r1, c0, c1 = m.span(r)
	return max(r0, 0), min(r1, m.rows-1), max(c0, 0), min(c1, m.cols-1)
}

// TestRectangle classifies rect inflated by half a pitch against one side.
// Cells are scanned row-major and the first disqualifying cell decides:
// a cell outside the board zone gives OutOfBoard, an occupied one Occupied.
// A span reaching past the grid is OutOfBoard.
func (m *Matrix) TestRectangle(rect Rect, side Side) Verdict {
	r0, r1, c0, c1 := m.span(rect.Inflate(m.pitch / 2))
	if r0 < 0 || c0 < 0 || r1 >= m.rows || c1 >= m.cols {
		return OutOfBoard
	}
	for row := r0; row <= r1; row++ {
		base := row * m.cols
		for col := c0; col <= c1; col++ {
			cell := m.cells[side][base+col]
			if !cell.Has(ZoneAvailable) {
				return OutOfBoard
			}
			if cell.Has(OccupiedByComponent) {
				return Occupied
			}
		}
	}
	return Free
}

// SumKeepOutCost adds up the cost plane over the cells inside rect.
func (m *Matrix) SumKeepOutCost(rect Rect, side Side) int64 {
	r0, r1, c0, c1 := m.clampedSpan(rect)
	var sum int64
	for row := r0; row <= r1; row++ {
		base := row * m.cols
		for col := c0; col <= c1; col++ {
			sum += int64(m.cost[side][base+col])
		}
	}
	return sum
}

// CountCells returns how many cells of side carry every bit of flags.
func (m *Matrix) CountCells(side Side, flags CellFlags) int {
	n := 0
	for _, c := range m.cells[side] {
		if c.Has(flags) {
			n++
		}
	}
	return n
}
