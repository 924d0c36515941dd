package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp/kicadsexp"
)

// parsePad extracts a pad definition from a footprint.
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n) ...)
// KiCad stores the pad angle as an absolute board angle; it is made relative
// to fpAngle here and restored on write.
func parsePad(node *kicadsexp.List, fpAngle Angle, netMap *NetMap) (*Pad, error) {
	pad := &Pad{node: node}

	number, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	shape, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := sexp.GetPosition(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pos.Angle -= fpAngle
	pad.Position = pos

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	width, err := sexp.GetFloat(sizeNode, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad width: %w", err)
	}
	height, err := sexp.GetFloat(sizeNode, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad height: %w", err)
	}
	pad.Size = Size{Width: width, Height: height}

	// Drill can be (drill d), (drill oval w h) or absent for SMD pads
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		if drill, err := sexp.GetFloat(drillNode, 1); err == nil {
			pad.Drill = drill
		} else if drill, err := sexp.GetFloat(drillNode, 2); err == nil {
			pad.Drill = drill
		}
	}

	layersNode, found := sexp.FindNode(node, "layers")
	if !found {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	layers, err := sexp.GetLayers(layersNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad layers: %w", err)
	}
	pad.Layers = LayerSet(layers)

	if netNode, found := sexp.FindNode(node, "net"); found {
		netNum, err := sexp.GetInt(netNode, 1)
		if err == nil && netMap != nil {
			if net, ok := netMap.GetByNumber(netNum); ok {
				pad.Net = net
			} else {
				name, _ := sexp.GetString(netNode, 2)
				pad.Net = &Net{Number: netNum, Name: name}
			}
		}
	}

	if clearance, ok := sexp.GetChildFloat(node, "clearance"); ok {
		pad.Clearance = clearance
	}

	return pad, nil
}

// parseFootprint extracts a footprint (component) definition
// Expected format: (footprint "library:name" [locked] (layer "layer") (at x y [angle]) ...)
func parseFootprint(node *kicadsexp.List, netMap *NetMap) (*Footprint, error) {
	footprint := &Footprint{node: node}

	fpName, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	// Split library:name format
	// Example: "Resistor_SMD:R_0603_1608Metric"
	if lib, name, ok := strings.Cut(fpName, ":"); ok && lib != "" {
		footprint.Library = lib
		footprint.Name = name
	} else {
		footprint.Name = fpName
	}

	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}
	footprint.Layer = layer

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := sexp.GetPosition(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint position: %w", err)
	}
	footprint.Position = pos

	// KiCad 6/7 write a bare "locked" symbol, KiCad 8 writes (locked yes)
	footprint.Locked = sexp.HasSymbol(node, "locked")
	if lockedNode, found := sexp.FindNode(node, "locked"); found {
		if v, err := sexp.GetString(lockedNode, 1); err == nil {
			footprint.Locked = v == "yes"
		}
	}

	if cost, ok := sexp.GetChildInt(node, "autoplace_cost90"); ok {
		footprint.AutoplaceCost90 = cost
	}
	if cost, ok := sexp.GetChildInt(node, "autoplace_cost180"); ok {
		footprint.AutoplaceCost180 = cost
	}
	if clearance, ok := sexp.GetChildFloat(node, "clearance"); ok {
		footprint.Clearance = clearance
	}

	parseFootprintText(node, footprint)

	for _, padNode := range sexp.FindAllNodes(node, "pad") {
		pad, err := parsePad(padNode, footprint.Position.Angle, netMap)
		if err != nil {
			return nil, fmt.Errorf("footprint %s: %w", footprint.Reference, err)
		}
		footprint.Pads = append(footprint.Pads, *pad)
	}

	graphics, err := parseGraphicsWithPrefix(node, "fp")
	if err != nil {
		return nil, fmt.Errorf("footprint %s: %w", footprint.Reference, err)
	}
	footprint.Graphics = flattenGraphics(graphics)

	return footprint, nil
}

// parseFootprintText reads the reference and value from either
// (property "Reference" "R1") (KiCad 8+) or (fp_text reference "R1") (KiCad 6/7).
func parseFootprintText(node kicadsexp.Sexp, footprint *Footprint) {
	assign := func(kind, value string) {
		switch strings.ToLower(kind) {
		case "reference":
			footprint.Reference = value
		case "value":
			footprint.Value = value
		}
	}

	for _, propNode := range sexp.FindAllNodes(node, "property") {
		kind, err := sexp.GetString(propNode, 1)
		if err != nil {
			continue
		}
		value, err := sexp.GetString(propNode, 2)
		if err != nil {
			continue
		}
		assign(kind, value)
	}

	for _, textNode := range sexp.FindAllNodes(node, "fp_text") {
		kind, err := sexp.GetString(textNode, 1)
		if err != nil {
			continue
		}
		value, err := sexp.GetString(textNode, 2)
		if err != nil {
			continue
		}
		assign(kind, value)
	}
}

// flattenGraphics converts typed footprint drawings into Graphic records.
func flattenGraphics(g *Graphics) []Graphic {
	var out []Graphic
	for _, line := range g.Lines {
		out = append(out, Graphic{Type: "line", Layer: line.Layer, Start: line.Start, End: line.End, Stroke: line.Stroke})
	}
	for _, circle := range g.Circles {
		out = append(out, Graphic{Type: "circle", Layer: circle.Layer, Center: circle.Center, End: circle.End, Stroke: circle.Stroke, Fill: circle.Fill})
	}
	for _, arc := range g.Arcs {
		out = append(out, Graphic{Type: "arc", Layer: arc.Layer, Start: arc.Start, Mid: arc.Mid, End: arc.End, Stroke: arc.Stroke})
	}
	for _, rect := range g.Rects {
		out = append(out, Graphic{Type: "rect", Layer: rect.Layer, Start: rect.Start, End: rect.End, Stroke: rect.Stroke, Fill: rect.Fill})
	}
	for _, poly := range g.Polys {
		out = append(out, Graphic{Type: "polygon", Layer: poly.Layer, Points: poly.Points, Stroke: poly.Stroke, Fill: poly.Fill})
	}
	return out
}

// parseFootprints extracts all footprint definitions from the root node
func parseFootprints(root kicadsexp.Sexp, netMap *NetMap) ([]Footprint, error) {
	if root.IsLeaf() {
		return nil, fmt.Errorf("expected root list")
	}

	footprintNodes := sexp.FindAllNodes(root, "footprint")
	footprints := make([]Footprint, 0, len(footprintNodes))

	for i, fpNode := range footprintNodes {
		footprint, err := parseFootprint(fpNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("footprint %d: %w", i, err)
		}
		footprints = append(footprints, *footprint)
	}

	return footprints, nil
}
