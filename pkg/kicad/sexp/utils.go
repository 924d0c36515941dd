package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// Items returns the elements of a list node, or nil for atoms.
func Items(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if list, ok := s.(*kicadsexp.List); ok {
		return list.Elements()
	}
	return nil
}

// FindNode searches for a child list whose first atom is key.
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	for _, item := range Items(s) {
		if sub, ok := item.(*kicadsexp.List); ok && nodeIs(sub, key) {
			return sub, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists whose first atom is key.
func FindAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	var results []*kicadsexp.List
	for _, item := range Items(s) {
		if sub, ok := item.(*kicadsexp.List); ok && nodeIs(sub, key) {
			results = append(results, sub)
		}
	}
	return results
}

func nodeIs(l *kicadsexp.List, key string) bool {
	if l.Len() == 0 {
		return false
	}
	name, ok := l.Get(0).(kicadsexp.Symbol)
	return ok && string(name) == key
}

// GetListItems returns all items in a list excluding the leading key.
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := Items(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if name, ok := kicadsexp.Atom(s); ok {
			return name, nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}
	if name, ok := kicadsexp.Atom(s.Head()); ok {
		return name, nil
	}
	return "", fmt.Errorf("expected symbol at head of list")
}

// HasSymbol checks if a list contains a bare symbol, e.g. (footprint ... locked ...)
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range Items(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// Typed value extraction helpers

// GetString extracts an atom value at the given index in a list.
// Index 0 is the key, 1 is first value, etc. Quoted and bare atoms are both accepted.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	items := Items(s)
	if items == nil {
		return "", fmt.Errorf("expected list, got leaf")
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	value, ok := kicadsexp.Atom(items[index])
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
	}
	return value, nil
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// GetChildFloat reads the first value of a (key value) child, e.g. (clearance 0.2).
func GetChildFloat(s kicadsexp.Sexp, key string) (float64, bool) {
	node, found := FindNode(s, key)
	if !found {
		return 0, false
	}
	v, err := GetFloat(node, 1)
	return v, err == nil
}

// GetChildInt reads the first integer value of a (key value) child.
func GetChildInt(s kicadsexp.Sexp, key string) (int, bool) {
	node, found := FindNode(s, key)
	if !found {
		return 0, false
	}
	v, err := GetInt(node, 1)
	return v, err == nil
}

// Domain-specific extraction helpers

// GetPositionXY extracts X,Y from (start X Y), (end X Y), (center X Y), (xy X Y), etc.
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}
	return Position{X: x, Y: y}, nil
}

// GetPosition extracts a PositionAngle from an (at X Y [angle]) node.
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	key, err := GetNodeName(s)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected (at ...), got (%s ...)", key)
	}
	xy, err := GetPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}
	pos := PositionAngle{Position: xy}
	if angle, err := GetFloat(s, 3); err == nil {
		pos.Angle = Angle(angle)
	}
	return pos, nil
}

// GetStroke extracts stroke properties from a (stroke (width W) (type T)) node.
// Older files carry a bare (width W) on the parent instead; callers fall back to it.
func GetStroke(s kicadsexp.Sexp) Stroke {
	stroke := Stroke{Width: 0.15, Type: "solid"}
	if w, ok := GetChildFloat(s, "width"); ok {
		stroke.Width = w
	}
	if typeNode, found := FindNode(s, "type"); found {
		if t, err := GetString(typeNode, 1); err == nil {
			stroke.Type = t
		}
	}
	return stroke
}

// GetFill extracts the fill type from a (fill (type T)) or (fill T) node.
func GetFill(s kicadsexp.Sexp) Fill {
	fill := Fill{Type: "none"}
	if typeNode, found := FindNode(s, "type"); found {
		if t, err := GetString(typeNode, 1); err == nil {
			fill.Type = t
		}
		return fill
	}
	if t, err := GetString(s, 1); err == nil {
		fill.Type = t
	}
	return fill
}

// GetLayers extracts layer names from (layer "F.Cu") or (layers "F.Cu" "B.Cu" "*.Mask").
func GetLayers(s kicadsexp.Sexp) ([]string, error) {
	keyword, err := GetNodeName(s)
	if err != nil {
		return nil, err
	}
	if keyword != "layer" && keyword != "layers" {
		return nil, fmt.Errorf("expected 'layer' or 'layers', got %q", keyword)
	}
	var layers []string
	for _, item := range GetListItems(s) {
		if name, ok := kicadsexp.Atom(item); ok && name != "" {
			layers = append(layers, name)
		}
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("empty (%s) list", keyword)
	}
	return layers, nil
}
