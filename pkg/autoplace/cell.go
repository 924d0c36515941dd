package autoplace

import "strings"

// CellFlags describes what covers a grid cell.
type CellFlags uint8

const (
	Obstacle CellFlags = 1 << iota
	OccupiedByComponent
	BoardEdge
	FriendNet
	ZoneAvailable
)

// Empty is a cell outside the board with nothing on it.
const Empty CellFlags = 0

var cellFlagNames = []struct {
	flag CellFlags
	name string
}{
	{Obstacle, "obstacle"},
	{OccupiedByComponent, "occupied"},
	{BoardEdge, "edge"},
	{FriendNet, "friend"},
	{ZoneAvailable, "zone"},
}

// Has reports whether every bit of f is set.
func (c CellFlags) Has(f CellFlags) bool {
	return c&f == f
}

func (c CellFlags) String() string {
	if c == Empty {
		return "empty"
	}
	var parts []string
	for _, n := range cellFlagNames {
		if c.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// TraceMode selects how traced flags combine with a cell.
type TraceMode int

const (
	// WriteCell replaces the cell flags.
	WriteCell TraceMode = iota
	// OrCell adds to the cell flags.
	OrCell
)

// Verdict classifies a rectangle tested against the grid.
type Verdict int

const (
	Free Verdict = iota
	OutOfBoard
	Occupied
)

func (v Verdict) String() string {
	switch v {
	case Free:
		return "free"
	case OutOfBoard:
		return "out of board"
	case Occupied:
		return "occupied"
	}
	return "unknown"
}
