package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp/kicadsexp"
)

// requirePosition extracts a (key x y) child such as (start 1 2).
func requirePosition(node kicadsexp.Sexp, key string) (Position, error) {
	posNode, found := sexp.FindNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing required '%s' position", key)
	}
	pos, err := sexp.GetPositionXY(posNode)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse %s position: %w", key, err)
	}
	return pos, nil
}

// requireLayer extracts the (layer "name") child.
func requireLayer(node kicadsexp.Sexp) (string, error) {
	layerNode, found := sexp.FindNode(node, "layer")
	if !found {
		return "", fmt.Errorf("missing required 'layer' field")
	}
	layer, err := sexp.GetString(layerNode, 1)
	if err != nil {
		return "", fmt.Errorf("failed to parse layer: %w", err)
	}
	return layer, nil
}

// parseStroke reads (stroke (width W) (type T)), falling back to the
// pre-KiCad 7 bare (width W) on the element itself.
func parseStroke(node kicadsexp.Sexp) Stroke {
	if strokeNode, found := sexp.FindNode(node, "stroke"); found {
		return sexp.GetStroke(strokeNode)
	}
	stroke := Stroke{Width: 0.15, Type: "solid"}
	if w, ok := sexp.GetChildFloat(node, "width"); ok {
		stroke.Width = w
	}
	return stroke
}

func parseFill(node kicadsexp.Sexp) Fill {
	if fillNode, found := sexp.FindNode(node, "fill"); found {
		return sexp.GetFill(fillNode)
	}
	return Fill{Type: "none"}
}

// parseGrLine extracts a line graphic element
// Expected format: (gr_line (start x1 y1) (end x2 y2) (stroke ...) (layer "F.Cu"))
func parseGrLine(node kicadsexp.Sexp) (*GrLine, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected line list, got leaf")
	}

	start, err := requirePosition(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := requirePosition(node, "end")
	if err != nil {
		return nil, err
	}
	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}

	return &GrLine{
		Start:  start,
		End:    end,
		Stroke: parseStroke(node),
		Layer:  layer,
	}, nil
}

// parseGrCircle extracts a circle graphic element
// Expected format: (gr_circle (center x y) (end x y) (stroke ...) (fill ...) (layer "F.Cu"))
// Note: KiCad defines circles by center and a point on the circumference (end)
func parseGrCircle(node kicadsexp.Sexp) (*GrCircle, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected circle list, got leaf")
	}

	center, err := requirePosition(node, "center")
	if err != nil {
		return nil, err
	}
	end, err := requirePosition(node, "end")
	if err != nil {
		return nil, err
	}
	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}

	return &GrCircle{
		Center: center,
		End:    end,
		Stroke: parseStroke(node),
		Fill:   parseFill(node),
		Layer:  layer,
	}, nil
}

// parseGrArc extracts an arc graphic element
// Expected format: (gr_arc (start x y) (mid x y) (end x y) (stroke ...) (layer "F.Cu"))
func parseGrArc(node kicadsexp.Sexp) (*GrArc, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected arc list, got leaf")
	}

	start, err := requirePosition(node, "start")
	if err != nil {
		return nil, err
	}
	mid, err := requirePosition(node, "mid")
	if err != nil {
		return nil, err
	}
	end, err := requirePosition(node, "end")
	if err != nil {
		return nil, err
	}
	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}

	return &GrArc{
		Start:  start,
		Mid:    mid,
		End:    end,
		Stroke: parseStroke(node),
		Layer:  layer,
	}, nil
}

// parseGrRect extracts a rectangle graphic element
// Expected format: (gr_rect (start x y) (end x y) (stroke ...) (fill ...) (layer "F.Cu"))
func parseGrRect(node kicadsexp.Sexp) (*GrRect, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected rect list, got leaf")
	}

	start, err := requirePosition(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := requirePosition(node, "end")
	if err != nil {
		return nil, err
	}
	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}

	return &GrRect{
		Start:  start,
		End:    end,
		Stroke: parseStroke(node),
		Fill:   parseFill(node),
		Layer:  layer,
	}, nil
}

// parseGrPoly extracts a polygon graphic element
// Expected format: (gr_poly (pts (xy x y) (xy x y) ...) (stroke ...) (fill ...) (layer "F.Cu"))
func parseGrPoly(node kicadsexp.Sexp) (*GrPoly, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected poly list, got leaf")
	}

	ptsNode, found := sexp.FindNode(node, "pts")
	if !found {
		return nil, fmt.Errorf("missing required 'pts' field")
	}

	xyNodes := sexp.FindAllNodes(ptsNode, "xy")
	if len(xyNodes) == 0 {
		return nil, fmt.Errorf("no points defined in polygon")
	}

	poly := &GrPoly{
		Stroke: parseStroke(node),
		Fill:   parseFill(node),
	}
	for _, xyNode := range xyNodes {
		pt, err := sexp.GetPositionXY(xyNode)
		if err != nil {
			return nil, err
		}
		poly.Points = append(poly.Points, pt)
	}

	layer, err := requireLayer(node)
	if err != nil {
		return nil, err
	}
	poly.Layer = layer

	return poly, nil
}

// parseGraphicsWithPrefix collects the drawing primitives named prefix_line,
// prefix_circle, ... directly under node. Boards use "gr", footprints "fp".
func parseGraphicsWithPrefix(node kicadsexp.Sexp, prefix string) (*Graphics, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected list")
	}

	graphics := &Graphics{}

	for _, n := range sexp.FindAllNodes(node, prefix+"_line") {
		line, err := parseGrLine(n)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s_line: %w", prefix, err)
		}
		graphics.Lines = append(graphics.Lines, *line)
	}

	for _, n := range sexp.FindAllNodes(node, prefix+"_circle") {
		circle, err := parseGrCircle(n)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s_circle: %w", prefix, err)
		}
		graphics.Circles = append(graphics.Circles, *circle)
	}

	for _, n := range sexp.FindAllNodes(node, prefix+"_arc") {
		arc, err := parseGrArc(n)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s_arc: %w", prefix, err)
		}
		graphics.Arcs = append(graphics.Arcs, *arc)
	}

	for _, n := range sexp.FindAllNodes(node, prefix+"_rect") {
		rect, err := parseGrRect(n)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s_rect: %w", prefix, err)
		}
		graphics.Rects = append(graphics.Rects, *rect)
	}

	for _, n := range sexp.FindAllNodes(node, prefix+"_poly") {
		poly, err := parseGrPoly(n)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s_poly: %w", prefix, err)
		}
		graphics.Polys = append(graphics.Polys, *poly)
	}

	return graphics, nil
}

// parseGraphics extracts all board-level graphic elements from the root node
func parseGraphics(root kicadsexp.Sexp) (*Graphics, error) {
	return parseGraphicsWithPrefix(root, "gr")
}
