package pcb

import (
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp"
)

// Shared millimetre types (aliases to sexp package)
type Position = sexp.Position
type BoundingBox = sexp.BoundingBox
type GrLine = sexp.GrLine
type GrArc = sexp.GrArc

var NewBoundingBox = sexp.NewBoundingBox

// Point is a board coordinate in internal units (nanometres). Y grows
// downwards.
type Point struct {
	X int
	Y int
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Midpoint returns the integer midpoint of p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// MM converts the point to millimetres.
func (p Point) MM() Position {
	return Position{X: ToMM(p.X), Y: ToMM(p.Y)}
}

// ToMM converts internal units to millimetres.
func ToMM(v int) float64 {
	return float64(v) * sexp.NanometersToMM
}

// FromMM converts millimetres to internal units, rounding to the nearest nm.
func FromMM(mm float64) int {
	v := mm * sexp.MMToNanometers
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// Layer is one row of the board layer table
type Layer struct {
	Number   int    // Layer number (LayerID)
	Name     string // Canonical name (e.g., "F.Cu", "B.SilkS")
	Type     string // Layer type (e.g., "signal", "user")
	UserName string // Custom name, copper layers only
}

// Net represents an electrical net
type Net struct {
	Number int    // Net number (ordinal)
	Name   string // Net name
}

// LayerMap provides efficient lookup of layers by number or name
type LayerMap struct {
	byNumber map[int]*Layer
	byName   map[string]*Layer
}

// NewLayerMap creates a LayerMap from a slice of layers. Layers are
// reachable by canonical and by custom name.
func NewLayerMap(layers []Layer) *LayerMap {
	lm := &LayerMap{
		byNumber: make(map[int]*Layer),
		byName:   make(map[string]*Layer),
	}

	for i := range layers {
		layer := &layers[i]
		lm.byNumber[layer.Number] = layer
		lm.byName[layer.Name] = layer
		if layer.UserName != "" {
			lm.byName[layer.UserName] = layer
		}
	}

	return lm
}

// GetByName retrieves a layer by its name (e.g., "F.Cu")
func (lm *LayerMap) GetByName(name string) (*Layer, bool) {
	layer, ok := lm.byName[name]
	return layer, ok
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
	return LayerID(layer.Number).IsCopper()
}

// NetMap provides efficient lookup of nets by number or name
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNetMap creates a NetMap from a slice of nets
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{
		byNumber: make(map[int]*Net),
		byName:   make(map[string]*Net),
	}

	for i := range nets {
		net := &nets[i]
		nm.byNumber[net.Number] = net
		// Only index non-empty names
		if net.Name != "" {
			nm.byName[net.Name] = net
		}
	}

	return nm
}

// GetByName retrieves a net by its name (e.g., "GND", "+5V")
func (nm *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// GetByNumber retrieves a net by its number
func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}
