package pcb

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp/kicadsexp"
)

// Write serializes the parsed board, including every footprint moved since
// parsing.
func (b *Board) Write(w io.Writer) error {
	if b.root == nil {
		return fmt.Errorf("board was not parsed from a file")
	}
	return kicadsexp.Write(w, b.root)
}

// WriteFile writes the board to filename.
func (b *Board) WriteFile(filename string) error {
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}
	return nil
}

// Move places the footprint at pos. Pads, texts and properties store board
// angles in the file, so their angles turn with the footprint.
func (fp *Footprint) Move(pos PositionAngle) error {
	delta := pos.Angle - fp.Position.Angle
	fp.Position = pos

	if fp.node == nil {
		return nil
	}
	atNode, found := sexp.FindNode(fp.node, "at")
	if !found {
		return fmt.Errorf("footprint %s: missing 'at' node", fp.Reference)
	}
	setAt(atNode, pos)

	if delta == 0 {
		return nil
	}
	for _, key := range []string{"pad", "fp_text", "property"} {
		for _, child := range sexp.FindAllNodes(fp.node, key) {
			if childAt, found := sexp.FindNode(child, "at"); found {
				if err := rotateAt(childAt, delta); err != nil {
					return fmt.Errorf("footprint %s %s: %w", fp.Reference, key, err)
				}
			}
		}
	}
	return nil
}

// setAt rewrites (at x y [angle] ...) keeping trailing flags such as
// "unlocked".
func setAt(at *kicadsexp.List, pos PositionAngle) {
	var flags []kicadsexp.Sexp
	for _, e := range at.Elements()[1:] {
		if s, ok := e.(kicadsexp.Symbol); ok {
			if _, err := strconv.ParseFloat(string(s), 64); err != nil {
				flags = append(flags, e)
			}
		}
	}

	at.Truncate(1)
	at.Append(kicadsexp.Symbol(formatFloat(pos.X)), kicadsexp.Symbol(formatFloat(pos.Y)))
	if a := normalizeDegrees(pos.Angle); a != 0 {
		at.Append(kicadsexp.Symbol(formatFloat(float64(a))))
	}
	at.Append(flags...)
}

func rotateAt(at *kicadsexp.List, delta Angle) error {
	pos, err := sexp.GetPosition(at)
	if err != nil {
		return err
	}
	pos.Angle += delta
	setAt(at, pos)
	return nil
}

// normalizeDegrees maps a into (-180, 180].
func normalizeDegrees(a Angle) Angle {
	d := math.Mod(float64(a), 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return Angle(d)
}

// formatFloat prints mm values the way KiCad does: up to six decimals,
// no trailing zeros.
func formatFloat(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
