// Package sexp provides shared S-expression infrastructure for KiCad files:
// millimetre geometry types used when reading and writing boards, and the
// node navigation helpers built on kicadsexp.
package sexp

// Coordinate conversion constants
// KiCad internally stores coordinates in nanometers, files carry millimetres
const (
	NanometersToMM = 1e-6 // Convert nm to mm (multiply by this)
	MMToNanometers = 1e6  // Convert mm to nm (multiply by this)
)

// Position represents a 2D coordinate in millimetres
type Position struct {
	X float64
	Y float64
}

// Stroke defines line/outline appearance
type Stroke struct {
	Width float64 // Line width in mm
	Type  string  // Line type (solid, dash, dot, etc.)
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// GrLine represents a line graphic element
type GrLine struct {
	Start  Position
	End    Position
	Stroke Stroke
	Layer  string
}

// GrArc represents an arc graphic element
// Arcs are defined by three points: start, mid (on arc), and end
type GrArc struct {
	Start  Position
	Mid    Position
	End    Position
	Stroke Stroke
	Layer  string
}
