package autoplace

import (
	"errors"
	"fmt"
)

// ErrFatalInput marks board data the placer cannot work with. A run that
// fails with it has not moved any component.
var ErrFatalInput = errors.New("autoplace: unusable board")

var (
	ErrZeroAreaBoard = fmt.Errorf("%w: board outline has no area", ErrFatalInput)
	ErrGridTooLarge  = fmt.Errorf("%w: placement grid exceeds the cell limit", ErrFatalInput)
	ErrInvalidPitch  = fmt.Errorf("%w: grid pitch must be positive", ErrFatalInput)
	ErrRotationClass = fmt.Errorf("%w: rotation class outside 0..10", ErrFatalInput)
	ErrAborted       = errors.New("autoplace: placement aborted")
)

// RasterError reports a scanline crossing the outline an odd number of
// times, which happens for open or degenerate outlines.
type RasterError struct {
	Row           int
	Y             int
	Intersections int
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("autoplace: outline row %d (y=%d) has %d intersections, expected an even count",
		e.Row, e.Y, e.Intersections)
}

func (e *RasterError) Unwrap() error {
	return ErrFatalInput
}
