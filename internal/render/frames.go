package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

// Frames writes one numbered PNG per placement step into a directory. Its
// Refresh method is meant for autoplace.WithRefresh.
type Frames struct {
	dir    string
	scale  float64
	side   autoplace.Side
	board  *autoplace.Board
	placer *autoplace.Placer

	count int
	err   error
}

// NewFrames creates dir if needed.
func NewFrames(dir string, scale float64, side autoplace.Side, b *autoplace.Board) (*Frames, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	return &Frames{dir: dir, scale: scale, side: side, board: b}, nil
}

// Attach sets the placer whose grid is drawn.
func (f *Frames) Attach(p *autoplace.Placer) {
	f.placer = p
}

// Refresh draws the current state. After the first failure it does nothing;
// Err reports the failure.
func (f *Frames) Refresh(current *autoplace.Component) {
	if f.err != nil || f.placer == nil || f.placer.Matrix() == nil {
		return
	}
	path := filepath.Join(f.dir, fmt.Sprintf("frame-%04d.png", f.count))
	f.err = SavePNG(path, Scene{
		Matrix:  f.placer.Matrix(),
		Free:    f.placer.FreeArea(),
		Board:   f.board,
		Side:    f.side,
		Scale:   f.scale,
		Current: current,
	})
	if f.err == nil {
		f.count++
	}
}

// Count returns the number of frames written.
func (f *Frames) Count() int { return f.count }

func (f *Frames) Err() error { return f.err }
