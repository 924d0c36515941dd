package pcb

import (
	"strings"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
)

// Shared value types live in the sexp package; the board model re-exports them
// so callers only import pcb.

// Coordinate conversion constants (re-exported from sexp)
const (
	NanometersToMM       = sexp.NanometersToMM
	MMToNanometers       = sexp.MMToNanometers
	DecidegreesToDegrees = sexp.DecidegreesToDegrees
	DegreesToDecidegrees = sexp.DegreesToDecidegrees
)

type Position = sexp.Position
type Angle = sexp.Angle
type PositionAngle = sexp.PositionAngle
type Size = sexp.Size
type Stroke = sexp.Stroke
type Fill = sexp.Fill
type BoundingBox = sexp.BoundingBox

type GrLine = sexp.GrLine
type GrCircle = sexp.GrCircle
type GrArc = sexp.GrArc
type GrRect = sexp.GrRect
type GrPoly = sexp.GrPoly
type Graphics = sexp.Graphics

var NewBoundingBox = sexp.NewBoundingBox

// Layer names the placer cares about.
const (
	LayerFrontCopper = "F.Cu"
	LayerBackCopper  = "B.Cu"
	LayerEdgeCuts    = "Edge.Cuts"
)

// Layer represents a PCB layer
type Layer struct {
	Number int    // Layer number (ordinal)
	Name   string // Layer name (e.g., "F.Cu", "B.Cu", "F.SilkS")
	Type   string // Layer type (e.g., "signal", "user")
}

// Net represents an electrical net
type Net struct {
	Number int    // Net number (ordinal)
	Name   string // Net name
}

// LayerSet represents a set of layers
type LayerSet []string

// Has reports whether the set contains name, honouring the "*.Cu" style
// wildcards and the legacy "F&B.Cu" form.
func (ls LayerSet) Has(name string) bool {
	for _, l := range ls {
		if l == name {
			return true
		}
		if strings.HasPrefix(l, "*.") && strings.HasSuffix(name, l[1:]) {
			return true
		}
		if l == "F&B.Cu" && (name == LayerFrontCopper || name == LayerBackCopper) {
			return true
		}
	}
	return false
}

// Copper reports which outer copper layers the set touches.
func (ls LayerSet) Copper() (front, back bool) {
	return ls.Has(LayerFrontCopper), ls.Has(LayerBackCopper)
}

// LayerMap provides efficient lookup of layers by number or name
type LayerMap struct {
	byNumber map[int]*Layer
	byName   map[string]*Layer
}

// NewLayerMap creates a LayerMap from a slice of layers
func NewLayerMap(layers []Layer) *LayerMap {
	lm := &LayerMap{
		byNumber: make(map[int]*Layer),
		byName:   make(map[string]*Layer),
	}

	for i := range layers {
		layer := &layers[i]
		lm.byNumber[layer.Number] = layer
		lm.byName[layer.Name] = layer
	}

	return lm
}

// GetByNumber retrieves a layer by its number
func (lm *LayerMap) GetByNumber(num int) (*Layer, bool) {
	layer, ok := lm.byNumber[num]
	return layer, ok
}

// IsCopperLayer checks if a layer is a copper layer
func (lm *LayerMap) IsCopperLayer(name string) bool {
	layer, ok := lm.byName[name]
	if !ok {
		return false
	}
	return layer.Type == "signal" || layer.Type == "power" || layer.Type == "mixed" || layer.Type == "jumper"
}

// NetMap provides efficient lookup of nets by number
type NetMap struct {
	byNumber map[int]*Net
}

// NewNetMap creates a NetMap from a slice of nets
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{byNumber: make(map[int]*Net)}
	for i := range nets {
		nm.byNumber[nets[i].Number] = &nets[i]
	}

	return nm
}

// GetByNumber retrieves a net by its number
func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}
