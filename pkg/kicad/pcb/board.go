package pcb

import "github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp/kicadsexp"

// Board represents a complete KiCad PCB
type Board struct {
	Version    int         // File format version
	Generator  string      // Generator info (e.g., "pcbnew")
	General    General     // General board properties
	Layers     []Layer     // Layer definitions
	Nets       []Net       // Electrical nets
	Footprints []Footprint // Component footprints
	Graphics   Graphics    // Board-level drawings (lines, circles, arcs, etc.)

	root *kicadsexp.List // parsed file, kept for write-back
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
	Title     string  // Board title
	Date      string  // Design date
	Revision  string  // Board revision
	Company   string  // Company name
}

// Footprint represents a component footprint.
// Pad and graphic coordinates are local to the footprint and unrotated.
type Footprint struct {
	Library   string        // Library name
	Name      string        // Footprint name
	Layer     string        // Layer (F.Cu or B.Cu typically)
	Position  PositionAngle // Position and rotation
	Pads      []Pad         // Pads
	Graphics  []Graphic     // Graphics (silk, fab, courtyard, etc.)
	Reference string        // Reference designator (e.g., "R1")
	Value     string        // Component value
	Locked    bool          // Locked footprints are never moved by the placer

	// Rotation permission classes, 0 (forbidden) to 10 (free).
	AutoplaceCost90  int
	AutoplaceCost180 int

	Clearance float64 // Footprint clearance override in mm, 0 when unset

	node *kicadsexp.List
}

// IsBack reports whether the footprint sits on the bottom side.
func (fp *Footprint) IsBack() bool {
	return fp.Layer == LayerBackCopper
}

// Pad represents a footprint pad
type Pad struct {
	Number    string        // Pad number/name
	Type      string        // Pad type (thru_hole, smd, connect, np_thru_hole)
	Shape     string        // Pad shape (circle, rect, oval, etc.)
	Position  PositionAngle // Local offset; Angle is relative to the footprint
	Size      Size          // Pad size
	Drill     float64       // Drill diameter (0 for SMD)
	Layers    LayerSet      // Layers the pad appears on
	Net       *Net          // Connected net (if any)
	Clearance float64       // Pad clearance override in mm, 0 when unset

	node *kicadsexp.List
}

// NetNumber returns the pad's net ordinal, 0 when unconnected.
func (p *Pad) NetNumber() int {
	if p.Net == nil {
		return 0
	}
	return p.Net.Number
}

// Graphic represents a footprint drawing in local coordinates
type Graphic struct {
	Type   string     // Type (line, arc, circle, rect, polygon)
	Layer  string     // Layer name
	Start  Position   // Start point (for lines, arcs, rects)
	End    Position   // End point (lines, arcs, rects; circumference point for circles)
	Center Position   // Center point (for circles)
	Mid    Position   // Mid point (for arcs)
	Points []Position // Points (for polygons)
	Stroke Stroke     // Stroke definition
	Fill   Fill       // Fill definition
}

// GetNet returns a net by name, or nil if not found
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// GetNetPads returns all pads connected to a specific net
func (b *Board) GetNetPads(netName string) []Pad {
	var pads []Pad
	for _, fp := range b.Footprints {
		for _, pad := range fp.Pads {
			if pad.Net != nil && pad.Net.Name == netName {
				pads = append(pads, pad)
			}
		}
	}
	return pads
}

// FindFootprint returns the footprint with the given reference, or nil.
func (b *Board) FindFootprint(ref string) *Footprint {
	for i := range b.Footprints {
		if b.Footprints[i].Reference == ref {
			return &b.Footprints[i]
		}
	}
	return nil
}
