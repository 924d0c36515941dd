package pcb

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
)

func toNM(mm float64) int {
	return int(math.Round(mm * MMToNanometers))
}

func toPoint(p Position) autoplace.Point {
	return autoplace.Point{X: toNM(p.X), Y: toNM(p.Y)}
}

func fromPoint(p autoplace.Point) Position {
	return Position{X: float64(p.X) * NanometersToMM, Y: float64(p.Y) * NanometersToMM}
}

// PlacementBoard converts the board into the placer's model. Components
// follow b.Footprints index for index. Board drawings on obstacleLayers
// become obstacles; no layers means every layer except Edge.Cuts.
func (b *Board) PlacementBoard(obstacleLayers ...string) *autoplace.Board {
	pb := &autoplace.Board{}

	for i := range b.Footprints {
		pb.Components = append(pb.Components, b.Footprints[i].component())
	}

	for _, c := range b.Outline() {
		contour := autoplace.Contour{Closed: c.Closed}
		for _, p := range c.Points {
			contour.Points = append(contour.Points, toPoint(p))
		}
		pb.Outline = append(pb.Outline, contour)
	}

	for _, s := range b.Obstacles(obstacleLayers...) {
		pb.Obstacles = append(pb.Obstacles, autoplace.Segment{
			A:     toPoint(s.Start),
			B:     toPoint(s.End),
			Width: toNM(s.Width),
		})
	}

	return pb
}

func (fp *Footprint) component() *autoplace.Component {
	c := &autoplace.Component{
		Ref:         fp.Reference,
		Position:    toPoint(fp.Position.Position),
		Orientation: autoplace.Angle(fp.Position.Angle.Decidegrees()),
		Side:        autoplace.Top,
		Cost90:      fp.AutoplaceCost90,
		Cost180:     fp.AutoplaceCost180,
		Locked:      fp.Locked,
	}
	if fp.IsBack() {
		c.Side = autoplace.Bottom
	}

	if local := fp.LocalBounds(); !local.IsEmpty() {
		c.Body = autoplace.Rect{Min: toPoint(local.Min), Max: toPoint(local.Max)}
	}

	for i := range fp.Pads {
		pad := &fp.Pads[i]
		clearance := pad.Clearance
		if clearance == 0 {
			clearance = fp.Clearance
		}

		var layers autoplace.Layers
		front, back := pad.Layers.Copper()
		if front {
			layers |= autoplace.TopCopper
		}
		if back {
			layers |= autoplace.BottomCopper
		}

		c.Pads = append(c.Pads, autoplace.Pad{
			Name:      pad.Number,
			Offset:    toPoint(pad.Position.Position),
			Size:      autoplace.Point{X: toNM(pad.Size.Width), Y: toNM(pad.Size.Height)},
			Angle:     autoplace.Angle(pad.Position.Angle.Decidegrees()),
			Layers:    layers,
			Net:       pad.NetNumber(),
			Clearance: toNM(clearance),
		})
	}
	return c
}

// ApplyPlacement copies component positions and orientations from pb, as
// returned by PlacementBoard, back onto the footprints and the parsed file.
// Unchanged footprints are left untouched.
func (b *Board) ApplyPlacement(pb *autoplace.Board) error {
	if len(pb.Components) != len(b.Footprints) {
		return fmt.Errorf("placement has %d components, board has %d footprints",
			len(pb.Components), len(b.Footprints))
	}

	for i, c := range pb.Components {
		fp := &b.Footprints[i]
		if c.Ref != fp.Reference {
			return fmt.Errorf("component %d: reference %q does not match footprint %q", i, c.Ref, fp.Reference)
		}

		if c.Position == toPoint(fp.Position.Position) &&
			c.Orientation.Normalize() == autoplace.Angle(fp.Position.Angle.Decidegrees()).Normalize() {
			continue
		}

		pos := PositionAngle{
			Position: fromPoint(c.Position),
			Angle:    Angle(c.Orientation.Degrees()),
		}
		if err := fp.Move(pos); err != nil {
			return err
		}
	}
	return nil
}
