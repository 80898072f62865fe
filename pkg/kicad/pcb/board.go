package pcb

import (
	"math"
	"strings"
)

// Default line widths per layer class, in nm
const (
	DefaultEdgeWidth      = 50000  // 0.05 mm
	DefaultCopperWidth    = 200000 // 0.2 mm
	DefaultSilkWidth      = 120000 // 0.12 mm
	DefaultCourtyardWidth = 50000  // 0.05 mm
	DefaultFabWidth       = 100000 // 0.1 mm
	DefaultOtherWidth     = 100000 // 0.1 mm
)

// Board represents a KiCad PCB under construction
type Board struct {
	Version    int       // File format version
	Generator  string    // Generator info
	General    General   // General board properties
	Design     DesignSettings
	Nets       []Net       // Electrical nets
	Footprints []Footprint // Component footprints
	Tracks     []Track     // Track segments
	Zones      []Zone      // Copper zones
	Drawings   []Drawing   // Board-level graphic segments and arcs

	visible    LSet
	layerNames map[LayerID]string
	layerTypes map[LayerID]LayerType
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
	Title     string  // Board title
}

// NewBoard creates an empty two-layer board with KiCad's default layers.
func NewBoard() *Board {
	b := &Board{
		Version:    FileFormatVersion,
		Generator:  DefaultGenerator,
		General:    General{Thickness: 1.6},
		Nets:       []Net{{Number: 0, Name: ""}},
		layerNames: make(map[LayerID]string),
		layerTypes: make(map[LayerID]LayerType),
	}
	b.Design.enabled = NewLSet(FCu, BCu, FSilkS, BSilkS, FMask, BMask, FPaste, BPaste,
		EdgeCuts, Margin, FCrtYd, BCrtYd, FFab, BFab, DwgsUser, CmtsUser)
	b.Design.copperLayerCount = 2
	b.visible = b.Design.enabled
	return b
}

// DesignSettings holds the stackup and per-layer defaults
type DesignSettings struct {
	Stackup Stackup

	enabled          LSet
	copperLayerCount int
	lineWidths       map[LayerID]int
}

// EnabledLayers returns the set of layers in use.
func (d *DesignSettings) EnabledLayers() LSet { return d.enabled }

// SetEnabledLayers replaces the set of layers in use.
func (d *DesignSettings) SetEnabledLayers(s LSet) { d.enabled = s }

// CopperLayerCount returns the number of copper layers.
func (d *DesignSettings) CopperLayerCount() int { return d.copperLayerCount }

// LineThickness returns the default graphic line width for a layer in nm.
func (d *DesignSettings) LineThickness(id LayerID) int {
	if w, ok := d.lineWidths[id]; ok {
		return w
	}
	switch {
	case id == EdgeCuts || id == Margin:
		return DefaultEdgeWidth
	case id.IsCopper():
		return DefaultCopperWidth
	case id == FSilkS || id == BSilkS:
		return DefaultSilkWidth
	case id == FCrtYd || id == BCrtYd:
		return DefaultCourtyardWidth
	case id == FFab || id == BFab:
		return DefaultFabWidth
	}
	return DefaultOtherWidth
}

// SetLineThickness overrides the default graphic line width for a layer.
func (d *DesignSettings) SetLineThickness(id LayerID, width int) {
	if d.lineWidths == nil {
		d.lineWidths = make(map[LayerID]int)
	}
	d.lineWidths[id] = width
}

// IsLayerEnabled reports whether the layer is part of the board.
func (b *Board) IsLayerEnabled(id LayerID) bool {
	return b.Design.enabled.Has(id)
}

// SetEnabledLayers replaces the enabled layer set.
func (b *Board) SetEnabledLayers(s LSet) {
	b.Design.SetEnabledLayers(s)
}

// EnabledLayers returns the enabled layer set.
func (b *Board) EnabledLayers() LSet {
	return b.Design.enabled
}

// SetVisibleLayers replaces the visible layer set.
func (b *Board) SetVisibleLayers(s LSet) {
	b.visible = s
}

// VisibleLayers returns the visible layer set.
func (b *Board) VisibleLayers() LSet {
	return b.visible
}

// SetCopperLayerCount records the number of copper layers.
func (b *Board) SetCopperLayerCount(n int) {
	b.Design.copperLayerCount = n
}

// CopperLayerCount returns the number of copper layers.
func (b *Board) CopperLayerCount() int {
	return b.Design.copperLayerCount
}

// SetLayerName gives an enabled copper layer a custom name. Spaces become
// underscores; names containing double quotes are refused.
func (b *Board) SetLayerName(id LayerID, name string) bool {
	if !id.IsCopper() || name == "" || strings.Contains(name, `"`) {
		return false
	}
	if !b.IsLayerEnabled(id) {
		return false
	}
	if b.layerNames == nil {
		b.layerNames = make(map[LayerID]string)
	}
	b.layerNames[id] = strings.ReplaceAll(name, " ", "_")
	return true
}

// LayerName returns the custom name of a layer, or its canonical name.
func (b *Board) LayerName(id LayerID) string {
	if name, ok := b.layerNames[id]; ok {
		return name
	}
	return id.String()
}

// ClearLayerName drops a custom layer name.
func (b *Board) ClearLayerName(id LayerID) {
	delete(b.layerNames, id)
}

// SetLayerType sets the electrical type of an enabled copper layer.
func (b *Board) SetLayerType(id LayerID, t LayerType) bool {
	if !id.IsCopper() || !b.IsLayerEnabled(id) {
		return false
	}
	if b.layerTypes == nil {
		b.layerTypes = make(map[LayerID]LayerType)
	}
	b.layerTypes[id] = t
	return true
}

// LayerType returns the electrical type of a layer; copper layers default
// to signal.
func (b *Board) LayerType(id LayerID) LayerType {
	if t, ok := b.layerTypes[id]; ok {
		return t
	}
	if id.IsCopper() {
		return LayerTypeSignal
	}
	return LayerTypeUndefined
}

// ClearLayerType drops an explicit layer type.
func (b *Board) ClearLayerType(id LayerID) {
	delete(b.layerTypes, id)
}

// Layers returns the layer table for the enabled layers.
func (b *Board) Layers() []Layer {
	var layers []Layer
	for _, id := range b.Design.enabled.Seq() {
		l := Layer{Number: int(id), Name: id.String(), Type: b.LayerType(id).String()}
		if name, ok := b.layerNames[id]; ok && name != l.Name {
			l.UserName = name
		}
		layers = append(layers, l)
	}
	return layers
}

// Add appends a drawing to the board.
func (b *Board) Add(d Drawing) {
	b.Drawings = append(b.Drawings, d)
}

// DrawingsOn returns the drawings on one layer.
func (b *Board) DrawingsOn(id LayerID) []Drawing {
	var out []Drawing
	for _, d := range b.Drawings {
		if d.Layer == id {
			out = append(out, d)
		}
	}
	return out
}

// DrawShape is the kind of a board drawing
type DrawShape int

const (
	ShapeSegment DrawShape = iota
	ShapeArc
)

func (s DrawShape) String() string {
	if s == ShapeArc {
		return "arc"
	}
	return "segment"
}

// Drawing is a straight segment or an arc on a board layer.
// Arcs are described by their start point, centre and signed sweep angle in
// degrees; positive sweeps are clockwise on screen (Y down).
type Drawing struct {
	Shape  DrawShape
	Start  Point
	End    Point // for arcs, informational; ArcEnd is authoritative
	Center Point // arcs only
	Angle  float64
	Width  int
	Layer  LayerID
}

// ArcEnd returns the end point of an arc. For segments it returns End.
func (d Drawing) ArcEnd() Point {
	if d.Shape != ShapeArc {
		return d.End
	}
	return d.rotateStart(d.Angle)
}

// ArcMid returns the point halfway along an arc. For segments it returns
// the midpoint of Start and End.
func (d Drawing) ArcMid() Point {
	if d.Shape != ShapeArc {
		return d.Start.Midpoint(d.End)
	}
	return d.rotateStart(d.Angle / 2)
}

func (d Drawing) rotateStart(deg float64) Point {
	rad := deg * math.Pi / 180.0
	v := d.Start.Sub(d.Center)
	cos, sin := math.Cos(rad), math.Sin(rad)
	x := float64(v.X)*cos - float64(v.Y)*sin
	y := float64(v.X)*sin + float64(v.Y)*cos
	return Point{X: d.Center.X + int(math.Round(x)), Y: d.Center.Y + int(math.Round(y))}
}

// Footprint represents a placed component
type Footprint struct {
	Reference string
	Value     string
	Layer     LayerID
	Position  Point
	Pads      []Pad
}

// Pad represents a footprint pad
type Pad struct {
	Number string
	Net    *Net
}

// Track represents a copper track segment
type Track struct {
	Start Point
	End   Point
	Width int
	Layer LayerID
	Net   *Net
}

// Zone represents a copper zone outline
type Zone struct {
	Net     *Net
	Layer   LayerID
	Outline []Point
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

// AddNet appends a net with the next free number and returns it. An
// existing net with the same name is returned unchanged.
func (b *Board) AddNet(name string) *Net {
	if n := b.GetNet(name); n != nil {
		return n
	}
	number := 0
	for _, n := range b.Nets {
		if n.Number >= number {
			number = n.Number + 1
		}
	}
	b.Nets = append(b.Nets, Net{Number: number, Name: name})
	return &b.Nets[len(b.Nets)-1]
}
