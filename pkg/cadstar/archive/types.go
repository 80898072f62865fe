// Package archive reads CADSTAR PCB archive (.cpa) files into an immutable
// model of the layer definitions, materials, line codes, design area and
// board outlines that an importer needs.
package archive

// Element identifiers as written in the archive
type (
	LayerID    string
	MaterialID string
	LineCodeID string
)

// Point is an archive coordinate in archive units. Y grows upwards.
type Point struct {
	X int64
	Y int64
}

// LayerType is the CADSTAR layer type keyword
type LayerType int

const (
	LayerTypeUndefined LayerType = iota

	// Pseudo-types used in design rules. They never describe a physical
	// layer in a layer stack.
	LayerTypeAllDoc
	LayerTypeAllElec
	LayerTypeAllLayer
	LayerTypeAssCompCopp
	LayerTypeNoLayer

	LayerTypeJumper
	LayerTypePower
	LayerTypeDoc
	LayerTypeConstruction
	LayerTypeElec
	LayerTypeNonElec
)

var layerTypeKeywords = map[string]LayerType{
	"ALLDOC":       LayerTypeAllDoc,
	"ALLELEC":      LayerTypeAllElec,
	"ALLLAYER":     LayerTypeAllLayer,
	"ASSCOMPCOPP":  LayerTypeAssCompCopp,
	"NOLAYER":      LayerTypeNoLayer,
	"JUMPERLAYER":  LayerTypeJumper,
	"POWER":        LayerTypePower,
	"DOC":          LayerTypeDoc,
	"CONSTRUCTION": LayerTypeConstruction,
	"ELEC":         LayerTypeElec,
	"NONELEC":      LayerTypeNonElec,
}

func (t LayerType) String() string {
	for k, v := range layerTypeKeywords {
		if v == t {
			return k
		}
	}
	return "UNDEFINED"
}

// IsPseudo reports whether t is a design-rule pseudo-type.
func (t LayerType) IsPseudo() bool {
	return t >= LayerTypeAllDoc && t <= LayerTypeNoLayer
}

// LayerSubtype qualifies NONELEC layers
type LayerSubtype int

const (
	SubtypeNone LayerSubtype = iota
	SubtypeAssembly
	SubtypePaste
	SubtypePlacement
	SubtypeSilkscreen
	SubtypeSolderResist
	SubtypeUndefined // keyword not recognised
)

var layerSubtypeKeywords = map[string]LayerSubtype{
	"ASSEMBLY":     SubtypeAssembly,
	"PASTE":        SubtypePaste,
	"PLACEMENT":    SubtypePlacement,
	"SILKSCREEN":   SubtypeSilkscreen,
	"SOLDERRESIST": SubtypeSolderResist,
}

func (s LayerSubtype) String() string {
	if s == SubtypeNone {
		return "NONE"
	}
	for k, v := range layerSubtypeKeywords {
		if v == s {
			return k
		}
	}
	return "UNDEFINED"
}

// Layer is one LAYER definition
type Layer struct {
	ID       LayerID
	Name     string
	Type     LayerType
	Subtype  LayerSubtype
	Keyword  string // type keyword as written, kept for diagnostics
	Material MaterialID
	// Thickness in archive units, 0 when the layer has no MAKE
	Thickness int64
	// Physical layer number for electrical layers, 0 otherwise
	Physical int
}

// Material is one MATERIAL definition
type Material struct {
	ID           MaterialID
	Name         string
	Kind         string // CONSTRUCTION, ELECTRICAL, ...
	Permittivity float64
	LossTangent  float64
	// Resistivity of electrical materials, 0 otherwise
	Resistivity float64
}

// LineCode is one LINECODE definition
type LineCode struct {
	ID    LineCodeID
	Name  string
	Width int64 // archive units
	Style string
}

// VertexType is the kind of a shape vertex
type VertexType int

const (
	VertexPoint VertexType = iota
	VertexClockwiseArc
	VertexAnticlockwiseArc
	VertexClockwiseSemicircle
	VertexAnticlockwiseSemicircle
)

var vertexKeywords = map[string]VertexType{
	"PT":      VertexPoint,
	"CWARC":   VertexClockwiseArc,
	"ACWARC":  VertexAnticlockwiseArc,
	"CWSEMI":  VertexClockwiseSemicircle,
	"ACWSEMI": VertexAnticlockwiseSemicircle,
}

func (v VertexType) String() string {
	for k, t := range vertexKeywords {
		if t == v {
			return k
		}
	}
	return "UNDEFINED"
}

// IsClockwise reports whether an arc or semicircle turns clockwise.
func (v VertexType) IsClockwise() bool {
	return v == VertexClockwiseArc || v == VertexClockwiseSemicircle
}

// Vertex is one point of a shape. Arcs carry their centre; semicircles
// have their centre halfway between the previous vertex and End.
type Vertex struct {
	Type   VertexType
	End    Point
	Center Point
}

// Cutout is a hole in a shape
type Cutout struct {
	Vertices []Vertex
}

// ShapeType is the kind of a shape
type ShapeType int

const (
	ShapeOpen ShapeType = iota
	ShapeOutline
	ShapeSolid
	ShapeHatched
)

var shapeKeywords = map[string]ShapeType{
	"OPENSHAPE": ShapeOpen,
	"OUTLINE":   ShapeOutline,
	"SOLID":     ShapeSolid,
	"HATCHED":   ShapeHatched,
}

func (s ShapeType) String() string {
	for k, v := range shapeKeywords {
		if v == s {
			return k
		}
	}
	return "UNDEFINED"
}

// Shape is a vertex sequence with optional cutouts
type Shape struct {
	Type     ShapeType
	Vertices []Vertex
	Cutouts  []Cutout
}

// Board is one board outline record of the LAYOUT section
type Board struct {
	ID       string
	LineCode LineCodeID
	Shape    Shape
}

// DesignArea is the rectangle every coordinate of the design lies in
type DesignArea struct {
	First  Point
	Second Point
}

// Size returns the width and height of the area.
func (a DesignArea) Size() (int64, int64) {
	return abs(a.Second.X - a.First.X), abs(a.Second.Y - a.First.Y)
}

// Center returns the midpoint of the area.
func (a DesignArea) Center() Point {
	return Point{X: (a.First.X + a.Second.X) / 2, Y: (a.First.Y + a.Second.Y) / 2}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Resolution is the unit archive coordinates are expressed in
type Resolution int

const (
	ResolutionHundredthMicron Resolution = iota
	ResolutionTenthMicron
	ResolutionMicron
	ResolutionNanometre
)

// UnitMultiplier returns the number of nanometres per archive unit.
func (r Resolution) UnitMultiplier() int64 {
	switch r {
	case ResolutionTenthMicron:
		return 100
	case ResolutionMicron:
		return 1000
	case ResolutionNanometre:
		return 1
	}
	return 10
}

func (r Resolution) String() string {
	switch r {
	case ResolutionTenthMicron:
		return "TENTH MICROMETRE"
	case ResolutionMicron:
		return "MICROMETRE"
	case ResolutionNanometre:
		return "NANOMETRE"
	}
	return "HUNDREDTH MICROMETRE"
}

// Header holds the archive header
type Header struct {
	Format     string
	JobTitle   string
	Resolution Resolution
}

// Archive is a parsed CADSTAR PCB archive
type Archive struct {
	Header     Header
	Layers     map[LayerID]*Layer
	Materials  map[MaterialID]*Material
	LayerStack []LayerID // top to bottom
	LineCodes  map[LineCodeID]*LineCode
	DesignArea DesignArea
	Boards     []Board
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{
		Layers:    make(map[LayerID]*Layer),
		Materials: make(map[MaterialID]*Material),
		LineCodes: make(map[LineCodeID]*LineCode),
	}
}

// UnitMultiplier returns the number of nanometres per archive unit.
func (a *Archive) UnitMultiplier() int64 {
	return a.Header.Resolution.UnitMultiplier()
}
